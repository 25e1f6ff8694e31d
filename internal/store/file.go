package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// FileStore keeps the whole mapping in a single JSON file.
//
// It intentionally does no locking and no atomic rename: Save rewrites the
// entire file, so overlapping load-mutate-save sequences can lose updates
// (last writer wins on the whole mapping). Callers that need stronger
// guarantees should use the sqlite or bolt backend instead.
type FileStore struct {
	path string

	// afterLoad runs between a successful read and returning the mapping.
	// Tests use it to interleave concurrent load/save sequences.
	afterLoad func()
}

// NewFileStore creates a JSON file store at path. The file is created on
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Load reads the full mapping. Any read or parse failure, including the
// file not existing yet, reads as an empty mapping.
func (s *FileStore) Load(ctx context.Context) (map[string][]Message, error) {
	conversations := make(map[string][]Message)

	data, err := os.ReadFile(s.path)
	if err == nil {
		if err := json.Unmarshal(data, &conversations); err != nil {
			conversations = make(map[string][]Message)
		}
	}

	if s.afterLoad != nil {
		s.afterLoad()
	}

	return conversations, nil
}

// Save serializes and overwrites the whole mapping.
func (s *FileStore) Save(ctx context.Context, conversations map[string][]Message) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(conversations, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0o644)
}

// Close is a no-op; the file is not held open between operations.
func (s *FileStore) Close() error {
	return nil
}

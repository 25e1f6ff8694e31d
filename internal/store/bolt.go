package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

var boltBucket = []byte("conversations")

// BoltStore persists conversations in a bbolt database, one key per file
// identifier with a JSON-encoded message array as the value. Save recreates
// the bucket so the persisted state reflects the given snapshot exactly.
type BoltStore struct {
	path string
}

// NewBoltStore creates a bolt store at path.
func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &BoltStore{path: path}, nil
}

func (s *BoltStore) open() (*bolt.DB, error) {
	return bolt.Open(s.path, 0o600, &bolt.Options{Timeout: 2 * time.Second})
}

// Load reads every conversation from the bucket. A missing database or
// bucket, or a malformed entry, reads as absent rather than failing.
func (s *BoltStore) Load(ctx context.Context) (map[string][]Message, error) {
	conversations := make(map[string][]Message)

	db, err := s.open()
	if err != nil {
		return conversations, nil
	}
	defer func() { _ = db.Close() }()

	_ = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(boltBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			var messages []Message
			if err := json.Unmarshal(v, &messages); err != nil {
				// Skip malformed entries instead of failing the whole load
				return nil
			}
			conversations[string(k)] = messages
			return nil
		})
	})

	return conversations, nil
}

// Save writes the snapshot, replacing whatever was stored before.
func (s *BoltStore) Save(ctx context.Context, conversations map[string][]Message) error {
	db, err := s.open()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = db.Close() }()

	return db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(boltBucket) != nil {
			if err := tx.DeleteBucket(boltBucket); err != nil {
				return err
			}
		}
		b, err := tx.CreateBucket(boltBucket)
		if err != nil {
			return err
		}
		for fileID, messages := range conversations {
			data, err := json.Marshal(messages)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(fileID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

// Close is a no-op; the database is opened per operation.
func (s *BoltStore) Close() error {
	return nil
}

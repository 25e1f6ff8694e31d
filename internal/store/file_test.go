package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_LoadMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "conversations.json"))

	conversations, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s := NewFileStore(path)
	conversations, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, conversations)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	s := NewFileStore(path)
	ctx := context.Background()

	want := map[string][]Message{
		"abc123": {
			{Role: RoleSystem, Content: "preamble"},
			{Role: RoleUser, Content: "placeholder"},
			{Role: RoleAssistant, Content: `{"expertAdvice":"x"}`},
		},
	}

	require.NoError(t, s.Save(ctx, want))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestFileStore_SaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "conversations.json")
	s := NewFileStore(path)

	require.NoError(t, s.Save(context.Background(), map[string][]Message{}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

// TestFileStore_LostUpdateRace documents the known read-modify-write race:
// Save rewrites the whole file, so a save that interleaves between another
// request's load and save is lost, even when the two requests touch
// different file identifiers. The hook makes the interleaving
// deterministic.
func TestFileStore_LostUpdateRace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	ctx := context.Background()

	first := NewFileStore(path)
	second := NewFileStore(path)

	// The second request's full load-mutate-save cycle runs after the
	// first request's load but before its save.
	first.afterLoad = func() {
		first.afterLoad = nil

		conversations, err := second.Load(ctx)
		require.NoError(t, err)
		conversations["file-b"] = []Message{{Role: RoleUser, Content: "from second"}}
		require.NoError(t, second.Save(ctx, conversations))
	}

	conversations, err := first.Load(ctx)
	require.NoError(t, err)
	conversations["file-a"] = []Message{{Role: RoleUser, Content: "from first"}}
	require.NoError(t, first.Save(ctx, conversations))

	final, err := first.Load(ctx)
	require.NoError(t, err)

	// Last writer wins on the whole file: the first request's save
	// overwrote the second's, so file-b is gone.
	assert.Contains(t, final, "file-a")
	assert.NotContains(t, final, "file-b")
}

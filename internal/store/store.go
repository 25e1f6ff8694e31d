// Package store persists per-file conversation histories keyed by content
// hash. The on-disk unit is always the whole mapping: Load returns every
// conversation, Save replaces every conversation.
package store

import (
	"context"
	"fmt"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single role-tagged conversation entry.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Store loads and saves the full conversation mapping.
type Store interface {
	// Load returns the complete mapping from file identifier to messages.
	// A missing or unreadable store reads as an empty mapping.
	Load(ctx context.Context) (map[string][]Message, error)

	// Save replaces the persisted mapping with the given one.
	Save(ctx context.Context, conversations map[string][]Message) error

	Close() error
}

// Config selects and locates a store backend.
type Config struct {
	Backend string // "file", "sqlite" or "bolt"
	Path    string
}

// Open creates the store backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case "file", "":
		return NewFileStore(cfg.Path), nil
	case "sqlite":
		return NewSQLiteStore(ctx, cfg.Path)
	case "bolt":
		return NewBoltStore(cfg.Path)
	default:
		return nil, fmt.Errorf("invalid STORE_BACKEND: %s (must be 'file', 'sqlite' or 'bolt')", cfg.Backend)
	}
}

// Package backend selects and constructs the active ledger store. The choice
// is made once, from configuration; business logic never branches on which
// backend is live.
package backend

import (
	"context"

	"suma/internal/ledger"
)

// Type names an available storage backend.
type Type string

const (
	SQLiteBackend   Type = "sqlite"
	DocumentBackend Type = "document"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known.
func (t Type) IsValid() bool {
	switch t {
	case SQLiteBackend, DocumentBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{SQLiteBackend, DocumentBackend}
}

// Config holds what backend construction needs.
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Document specific
	DocumentDataDir string
}

// CleanupFunc releases backend resources at shutdown.
type CleanupFunc func() error

// Result pairs the constructed store with its cleanup.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration.
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*Result, error)
}

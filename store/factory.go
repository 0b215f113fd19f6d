package store

import (
	"fmt"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Backend names accepted by New.
const (
	BackendMemory = "memory"
	BackendSqlite = "sqlite"
)

// New creates a Store based on the backend name.
//
// Supported backends:
//
//	"memory" - Go slice guarded by a mutex (default)
//	"sqlite" - in-memory SQLite database
//
// Neither backend writes to disk.
func New(backend string) (Store, error) {
	switch backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil
	case BackendSqlite:
		return NewSqliteStore()
	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: memory, sqlite)", backend)
	}
}

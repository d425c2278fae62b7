package types

import "errors"

// Store holds named tables and persists them as snapshots.
// Callers attach to a backend, access tables by name, and detach when done.
type Store interface {
	// Attach opens the backend described by config, creating DataDir if
	// needed. Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach persists pending snapshots and releases the backend.
	// Idempotent: multiple calls succeed.
	Detach() error

	// CreateTable creates an empty table holding only the ID column.
	// Returns ErrTableExists if the name is taken.
	CreateTable(name string) (Table, error)

	// GetTable returns the named table, loading its snapshot on first use.
	// Returns ErrTableNotFound if no such table exists.
	GetTable(name string) (Table, error)

	// DropTable removes a table and its snapshot.
	DropTable(name string) error

	// ListTables returns the names of all stored tables, sorted.
	ListTables() ([]string, error)

	// Flush persists every table modified since the last persist.
	Flush() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached    = errors.New("store is detached")
	ErrAlreadyAttached  = errors.New("store is already attached")
	ErrTableNotFound    = errors.New("table not found")
	ErrTableExists      = errors.New("table already exists")
	ErrInvalidTableName = errors.New("invalid table name")
	ErrStorage          = errors.New("storage failure")
)

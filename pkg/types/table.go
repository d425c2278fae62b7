package types

import (
	"errors"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// IDColumn is the name of the reserved primary-key column. Every table has
// it at position 0 with kind KindText.
const IDColumn = "ID"

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Table is the row/column surface of a single table. Rows are kept in
// ascending, case-insensitive ID order by Add; SortBy may reorder them.
//
// A Table obtained from a Store is only usable while the store is attached
// and the table has not been dropped. After that the methods with an error
// result return ErrStoreDetached or ErrTableNotFound, while Schema, Len and
// RenderAsText return nil, 0 and "".
type Table interface {
	// Schema returns the columns in order; the first is always ID.
	Schema() []ColumnInfo

	// Len returns the number of rows.
	Len() int

	// AddColumn appends a column back-filled with the kind's zero value.
	// Returns ErrDuplicateColumnName if the normalized name is taken.
	AddColumn(name string, kind Kind) error

	// DeleteColumn removes a column. Returns ErrProtectedColumn for ID and
	// ErrColumnNotFound for unknown names.
	DeleteColumn(name string) error

	// Add inserts a row (one cell per column, in column order) at its ID
	// position and returns the row index it landed on.
	Add(row []Cell) (int, error)

	// Delete removes the row with the given ID. Returns ErrKeyNotFound.
	Delete(id string) error

	// Get returns the cell at (id, column).
	Get(id, column string) (Cell, error)

	// GetColumn returns a copy of every cell of a column in row order.
	GetColumn(column string) ([]Cell, error)

	// Row returns a copy of the row with the given ID in column order.
	Row(id string) ([]Cell, error)

	// SortBy reorders every row by the values of one column.
	SortBy(column string, ascending bool) error

	// Find returns the IDs of rows whose cell in column equals value.
	Find(column string, value Cell) ([]string, error)

	// Exists reports whether any row's cell in column equals value.
	Exists(column string, value Cell) (bool, error)

	// DeleteWhere removes every row whose cell in column equals value and
	// returns how many were removed.
	DeleteWhere(column string, value Cell) (int, error)

	// RenderAsText renders the table as comma-separated text, header first.
	RenderAsText() string
}

// NormalizeName returns the canonical (upper-cased, trimmed) form of a
// column name. Column lookups compare normalized names.
func NormalizeName(name string) string {
	return cases.Upper(language.Und).String(strings.TrimSpace(name))
}

// Table operation errors.
var (
	ErrTypeMismatch        = errors.New("type mismatch")
	ErrIndexOutOfRange     = errors.New("index out of range")
	ErrArityMismatch       = errors.New("row arity mismatch")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrDuplicateColumnName = errors.New("duplicate column name")
	ErrColumnNotFound      = errors.New("column not found")
	ErrProtectedColumn     = errors.New("column is protected")
	ErrKeyNotFound         = errors.New("key not found")
	ErrCorruptSnapshot     = errors.New("corrupt snapshot")
)

// Value errors.
var (
	ErrInvalidKey   = errors.New("key must not be empty")
	ErrInvalidName  = errors.New("column name must not be empty")
	ErrUnknownKind  = errors.New("unknown cell kind")
	ErrInvalidValue = errors.New("invalid cell value")
)

// Package table implements the in-memory table: an ordered set of typed
// columns sharing one row index, with the reserved ID column kept first and
// rows kept in ascending, case-insensitive ID order on insert.
//
// Every mutating operation validates its input against all columns before it
// touches any of them, so a failed call leaves the table unchanged.
package table

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/ivory/internal/column"
	"github.com/mesh-intelligence/ivory/internal/sorter"
	"github.com/mesh-intelligence/ivory/pkg/types"
)

// Table owns its columns exclusively. columns[0] is always the ID column.
type Table struct {
	columns []*column.Column
	rows    int
}

var _ types.Table = (*Table)(nil)

// New returns an empty table holding only the ID column.
func New() *Table {
	id, _ := column.New(types.IDColumn, types.KindText)
	return &Table{columns: []*column.Column{id}}
}

// FromColumns builds a table from already-populated columns, as produced by
// the snapshot decoder. It checks that the first column is a text ID column,
// that names are unique, that every column has the same length, and that IDs
// are non-empty and unique. Row order is taken as given.
func FromColumns(cols []*column.Column) (*Table, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("no columns: missing %s column", types.IDColumn)
	}
	id := cols[0]
	if id.Name() != types.IDColumn || id.Kind() != types.KindText {
		return nil, fmt.Errorf("first column is %s %s, want %s %s", id.Name(), id.Kind(), types.IDColumn, types.KindText)
	}
	rows := id.Len()
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c.Name()] {
			return nil, fmt.Errorf("%w: %s", types.ErrDuplicateColumnName, c.Name())
		}
		seen[c.Name()] = true
		if c.Len() != rows {
			return nil, fmt.Errorf("column %s has %d rows, %s has %d", c.Name(), c.Len(), types.IDColumn, rows)
		}
	}
	keys := make(map[string]bool, rows)
	for _, cell := range id.ToSlice() {
		if cell.AsText() == "" {
			return nil, types.ErrInvalidKey
		}
		k := types.FoldText(cell.AsText())
		if keys[k] {
			return nil, fmt.Errorf("%w: %q", types.ErrDuplicateKey, cell.AsText())
		}
		keys[k] = true
	}
	return &Table{columns: slices.Clone(cols), rows: rows}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Schema returns the column descriptions in order.
func (t *Table) Schema() []types.ColumnInfo {
	out := make([]types.ColumnInfo, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Info()
	}
	return out
}

// Columns returns copies of every column in order.
func (t *Table) Columns() []*column.Column {
	out := make([]*column.Column, len(t.columns))
	for i, c := range t.columns {
		out[i] = c.Clone()
	}
	return out
}

// Clone returns an independent deep copy of the table.
func (t *Table) Clone() *Table {
	return &Table{columns: t.Columns(), rows: t.rows}
}

func (t *Table) columnIndex(name string) int {
	norm := types.NormalizeName(name)
	return slices.IndexFunc(t.columns, func(c *column.Column) bool { return c.Name() == norm })
}

func (t *Table) lookupColumn(name string) (*column.Column, error) {
	i := t.columnIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrColumnNotFound, types.NormalizeName(name))
	}
	return t.columns[i], nil
}

// rowOf returns the row index of id, or -1.
func (t *Table) rowOf(id string) int {
	return t.columns[0].IndexFunc(func(c types.Cell) bool {
		return types.CompareText(c.AsText(), id) == 0
	})
}

func (t *Table) lookupRow(id string) (int, error) {
	r := t.rowOf(id)
	if r < 0 {
		return -1, fmt.Errorf("%w: %q", types.ErrKeyNotFound, id)
	}
	return r, nil
}

// AddColumn appends a column back-filled with the zero value of kind for
// every existing row.
func (t *Table) AddColumn(name string, kind types.Kind) error {
	c, err := column.Filled(name, kind, t.rows)
	if err != nil {
		return err
	}
	if t.columnIndex(c.Name()) >= 0 {
		return fmt.Errorf("%w: %s", types.ErrDuplicateColumnName, c.Name())
	}
	t.columns = append(t.columns, c)
	return nil
}

// DeleteColumn removes a column. The ID column cannot be removed.
func (t *Table) DeleteColumn(name string) error {
	i := t.columnIndex(name)
	switch {
	case i == 0:
		return fmt.Errorf("%w: %s", types.ErrProtectedColumn, types.IDColumn)
	case i < 0:
		return fmt.Errorf("%w: %s", types.ErrColumnNotFound, types.NormalizeName(name))
	}
	t.columns = slices.Delete(t.columns, i, i+1)
	return nil
}

// Add inserts a row at the first position whose ID is not less than the new
// ID, keeping rows in ascending ID order, and returns that position.
func (t *Table) Add(row []types.Cell) (int, error) {
	if len(row) != len(t.columns) {
		return -1, fmt.Errorf("%w: got %d values for %d columns", types.ErrArityMismatch, len(row), len(t.columns))
	}
	for i, c := range t.columns {
		if err := c.Check(row[i]); err != nil {
			return -1, err
		}
	}
	id := row[0].AsText()
	if id == "" {
		return -1, types.ErrInvalidKey
	}
	if t.rowOf(id) >= 0 {
		return -1, fmt.Errorf("%w: %q", types.ErrDuplicateKey, id)
	}

	ids := t.columns[0]
	at := sorter.InsertionPoint(t.rows, func(i int) int {
		cell, _ := ids.GetAt(i)
		return types.CompareText(cell.AsText(), id)
	})
	for i, c := range t.columns {
		if err := c.InsertAt(at, row[i]); err != nil {
			// Unreachable after validation; the columns would now be ragged.
			panic(fmt.Errorf("insert into %s after validation: %w", c.Name(), err))
		}
	}
	t.rows++
	return at, nil
}

// Delete removes the row with the given ID from every column.
func (t *Table) Delete(id string) error {
	r, err := t.lookupRow(id)
	if err != nil {
		return err
	}
	t.deleteRow(r)
	return nil
}

func (t *Table) deleteRow(r int) {
	for _, c := range t.columns {
		if err := c.DeleteAt(r); err != nil {
			panic(fmt.Errorf("delete from %s: %w", c.Name(), err))
		}
	}
	t.rows--
}

// Get returns the cell at (id, columnName).
func (t *Table) Get(id, columnName string) (types.Cell, error) {
	r, err := t.lookupRow(id)
	if err != nil {
		return types.Cell{}, err
	}
	c, err := t.lookupColumn(columnName)
	if err != nil {
		return types.Cell{}, err
	}
	return c.GetAt(r)
}

// GetColumn returns a copy of the named column's cells in row order.
func (t *Table) GetColumn(columnName string) ([]types.Cell, error) {
	c, err := t.lookupColumn(columnName)
	if err != nil {
		return nil, err
	}
	return c.ToSlice(), nil
}

// Row returns a copy of the row with the given ID.
func (t *Table) Row(id string) ([]types.Cell, error) {
	r, err := t.lookupRow(id)
	if err != nil {
		return nil, err
	}
	return t.row(r), nil
}

func (t *Table) row(r int) []types.Cell {
	out := make([]types.Cell, len(t.columns))
	for i, c := range t.columns {
		out[i], _ = c.GetAt(r)
	}
	return out
}

// SortBy reorders all rows by the values of columnName. Sorting by anything
// other than ID ascending leaves the table out of ID order until it is sorted
// by ID again; Add still inserts at the first position whose ID is not less
// than the new one.
func (t *Table) SortBy(columnName string, ascending bool) error {
	c, err := t.lookupColumn(columnName)
	if err != nil {
		return err
	}
	sorter.Quicksort(rowView{t: t, key: c}, ascending)
	return nil
}

// Ordered reports whether rows are in ascending ID order.
func (t *Table) Ordered() bool {
	return sorter.Sorted(rowView{t: t, key: t.columns[0]}, true)
}

// rowView adapts a table to sorter.Rows, ordering by one key column and
// swapping every column together.
type rowView struct {
	t   *Table
	key *column.Column
}

func (v rowView) Len() int             { return v.t.rows }
func (v rowView) Compare(i, j int) int { return v.key.Compare(i, j) }
func (v rowView) Swap(i, j int) {
	for _, c := range v.t.columns {
		c.Swap(i, j)
	}
}

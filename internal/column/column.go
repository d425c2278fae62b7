// Package column implements the typed cell container behind every table
// column: a named, single-kind, row-indexed sequence of cells.
package column

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/ivory/pkg/types"
)

// Column is an ordered sequence of cells that all share one kind. It holds
// no reference to the table that owns it.
type Column struct {
	name  string
	kind  types.Kind
	cells []types.Cell
}

// New returns an empty column. The name is normalized so lookups are
// case-insensitive.
func New(name string, kind types.Kind) (*Column, error) {
	norm := types.NormalizeName(name)
	if norm == "" {
		return nil, types.ErrInvalidName
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %s", types.ErrUnknownKind, kind)
	}
	return &Column{name: norm, kind: kind}, nil
}

// Filled returns a column of n zero-valued cells.
func Filled(name string, kind types.Kind, n int) (*Column, error) {
	c, err := New(name, kind)
	if err != nil {
		return nil, err
	}
	c.cells = make([]types.Cell, n)
	zero := types.Zero(kind)
	for i := range c.cells {
		c.cells[i] = zero
	}
	return c, nil
}

// Name returns the normalized column name.
func (c *Column) Name() string { return c.name }

// Kind returns the column's cell kind.
func (c *Column) Kind() types.Kind { return c.kind }

// Len returns the number of cells.
func (c *Column) Len() int { return len(c.cells) }

// Info describes the column.
func (c *Column) Info() types.ColumnInfo {
	return types.ColumnInfo{Name: c.name, Kind: c.kind}
}

// Check returns ErrTypeMismatch if v cannot be stored in this column.
func (c *Column) Check(v types.Cell) error {
	if v.Kind() != c.kind {
		return fmt.Errorf("%w: column %s holds %s, got %s", types.ErrTypeMismatch, c.name, c.kind, v.Kind())
	}
	return nil
}

func (c *Column) checkIndex(index, limit int) error {
	if index < 0 || index >= limit {
		return fmt.Errorf("%w: column %s index %d (len %d)", types.ErrIndexOutOfRange, c.name, index, len(c.cells))
	}
	return nil
}

// Append adds v after the last cell.
func (c *Column) Append(v types.Cell) error {
	if err := c.Check(v); err != nil {
		return err
	}
	c.cells = append(c.cells, v)
	return nil
}

// InsertAt places v at index, shifting later cells right. index may equal
// Len, which appends.
func (c *Column) InsertAt(index int, v types.Cell) error {
	if err := c.Check(v); err != nil {
		return err
	}
	if err := c.checkIndex(index, len(c.cells)+1); err != nil {
		return err
	}
	c.cells = slices.Insert(c.cells, index, v)
	return nil
}

// SetAt replaces the cell at index.
func (c *Column) SetAt(index int, v types.Cell) error {
	if err := c.checkIndex(index, len(c.cells)); err != nil {
		return err
	}
	if err := c.Check(v); err != nil {
		return err
	}
	c.cells[index] = v
	return nil
}

// GetAt returns the cell at index.
func (c *Column) GetAt(index int) (types.Cell, error) {
	if err := c.checkIndex(index, len(c.cells)); err != nil {
		return types.Cell{}, err
	}
	return c.cells[index], nil
}

// DeleteAt removes the cell at index, shifting later cells left.
func (c *Column) DeleteAt(index int) error {
	if err := c.checkIndex(index, len(c.cells)); err != nil {
		return err
	}
	c.cells = slices.Delete(c.cells, index, index+1)
	return nil
}

// Swap exchanges the cells at i and j. Both must be in range.
func (c *Column) Swap(i, j int) {
	c.cells[i], c.cells[j] = c.cells[j], c.cells[i]
}

// Compare orders the cells at i and j.
func (c *Column) Compare(i, j int) int {
	return c.cells[i].Compare(c.cells[j])
}

// ToSlice returns a copy of the cells. Later mutation of the column does not
// affect the returned slice.
func (c *Column) ToSlice() []types.Cell {
	out := make([]types.Cell, len(c.cells))
	copy(out, c.cells)
	return out
}

// IndexFunc returns the first index whose cell satisfies f, or -1.
func (c *Column) IndexFunc(f func(types.Cell) bool) int {
	return slices.IndexFunc(c.cells, f)
}

// Clone returns an independent copy of the column.
func (c *Column) Clone() *Column {
	return &Column{name: c.name, kind: c.kind, cells: slices.Clone(c.cells)}
}

package storage

import (
	"fmt"

	"github.com/mesh-intelligence/ivory/internal/table"
	"github.com/mesh-intelligence/ivory/pkg/types"
)

// Table is the types.Table handed out by a Backend. It forwards to the
// in-memory table and tells the backend after every successful mutation.
// A mutation whose persist fails has still been applied in memory; the
// returned error wraps the storage failure.
type Table struct {
	backend *Backend
	name    string
	t       *table.Table
}

var _ types.Table = (*Table)(nil)

// Name returns the table's canonical name.
func (h *Table) Name() string { return h.name }

// read runs fn under the backend's read lock.
func (h *Table) read(fn func(t *table.Table)) error {
	b := h.backend
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := h.liveLocked(); err != nil {
		return err
	}
	fn(h.t)
	return nil
}

// peek is read for the accessors that have no error result. A handle that
// is no longer live yields the zero value and logs why.
func (h *Table) peek(fn func(t *table.Table)) {
	if err := h.read(fn); err != nil {
		h.backend.log.Debug("read through stale table handle", "table", h.name, "err", err)
	}
}

// write runs fn under the backend's write lock and records the change when
// fn succeeds.
func (h *Table) write(fn func(t *table.Table) error) error {
	b := h.backend
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := h.liveLocked(); err != nil {
		return err
	}
	if err := fn(h.t); err != nil {
		return err
	}
	if err := b.changedLocked(h.name); err != nil {
		return fmt.Errorf("table %s changed but not saved: %w", h.name, err)
	}
	return nil
}

// liveLocked fails once the backend detached or the table was dropped.
func (h *Table) liveLocked() error {
	b := h.backend
	if !b.attached {
		return types.ErrStoreDetached
	}
	if b.tables[h.name] != h {
		return fmt.Errorf("%w: %s", types.ErrTableNotFound, h.name)
	}
	return nil
}

func (h *Table) Schema() []types.ColumnInfo {
	var out []types.ColumnInfo
	h.peek(func(t *table.Table) { out = t.Schema() })
	return out
}

func (h *Table) Len() int {
	var n int
	h.peek(func(t *table.Table) { n = t.Len() })
	return n
}

func (h *Table) AddColumn(name string, kind types.Kind) error {
	return h.write(func(t *table.Table) error { return t.AddColumn(name, kind) })
}

func (h *Table) DeleteColumn(name string) error {
	return h.write(func(t *table.Table) error { return t.DeleteColumn(name) })
}

func (h *Table) Add(row []types.Cell) (int, error) {
	at := -1
	err := h.write(func(t *table.Table) error {
		var err error
		at, err = t.Add(row)
		return err
	})
	return at, err
}

func (h *Table) Delete(id string) error {
	return h.write(func(t *table.Table) error { return t.Delete(id) })
}

func (h *Table) Get(id, column string) (types.Cell, error) {
	var (
		cell types.Cell
		err  error
	)
	if lerr := h.read(func(t *table.Table) { cell, err = t.Get(id, column) }); lerr != nil {
		return types.Cell{}, lerr
	}
	return cell, err
}

func (h *Table) GetColumn(column string) ([]types.Cell, error) {
	var (
		cells []types.Cell
		err   error
	)
	if lerr := h.read(func(t *table.Table) { cells, err = t.GetColumn(column) }); lerr != nil {
		return nil, lerr
	}
	return cells, err
}

func (h *Table) Row(id string) ([]types.Cell, error) {
	var (
		row []types.Cell
		err error
	)
	if lerr := h.read(func(t *table.Table) { row, err = t.Row(id) }); lerr != nil {
		return nil, lerr
	}
	return row, err
}

func (h *Table) SortBy(column string, ascending bool) error {
	return h.write(func(t *table.Table) error { return t.SortBy(column, ascending) })
}

func (h *Table) Find(column string, value types.Cell) ([]string, error) {
	var (
		ids []string
		err error
	)
	if lerr := h.read(func(t *table.Table) { ids, err = t.Find(column, value) }); lerr != nil {
		return nil, lerr
	}
	return ids, err
}

func (h *Table) Exists(column string, value types.Cell) (bool, error) {
	var (
		ok  bool
		err error
	)
	if lerr := h.read(func(t *table.Table) { ok, err = t.Exists(column, value) }); lerr != nil {
		return false, lerr
	}
	return ok, err
}

func (h *Table) DeleteWhere(column string, value types.Cell) (int, error) {
	var n int
	err := h.write(func(t *table.Table) error {
		var err error
		n, err = t.DeleteWhere(column, value)
		return err
	})
	return n, err
}

func (h *Table) RenderAsText() string {
	var s string
	h.peek(func(t *table.Table) { s = t.RenderAsText() })
	return s
}

package table

import (
	"github.com/mesh-intelligence/ivory/pkg/types"
)

// matches returns the row indices whose cell in columnName equals value,
// in row order.
func (t *Table) matches(columnName string, value types.Cell) ([]int, error) {
	c, err := t.lookupColumn(columnName)
	if err != nil {
		return nil, err
	}
	if err := c.Check(value); err != nil {
		return nil, err
	}
	var rows []int
	for r, cell := range c.ToSlice() {
		if cell.Equal(value) {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// Find returns the IDs of rows whose cell in columnName equals value. Text
// is matched case-insensitively.
func (t *Table) Find(columnName string, value types.Cell) ([]string, error) {
	rows, err := t.matches(columnName, value)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(rows))
	for _, r := range rows {
		cell, _ := t.columns[0].GetAt(r)
		ids = append(ids, cell.AsText())
	}
	return ids, nil
}

// Exists reports whether any row's cell in columnName equals value.
func (t *Table) Exists(columnName string, value types.Cell) (bool, error) {
	rows, err := t.matches(columnName, value)
	if err != nil {
		return false, err
	}
	return len(rows) > 0, nil
}

// DeleteWhere removes every row whose cell in columnName equals value and
// returns the number of rows removed.
func (t *Table) DeleteWhere(columnName string, value types.Cell) (int, error) {
	rows, err := t.matches(columnName, value)
	if err != nil {
		return 0, err
	}
	// Back to front so earlier indices stay valid.
	for i := len(rows) - 1; i >= 0; i-- {
		t.deleteRow(rows[i])
	}
	return len(rows), nil
}

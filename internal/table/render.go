package table

import (
	"encoding/csv"
	"fmt"
	"strings"
)

// RenderAsText renders the table as CSV: a header of column names followed
// by one line per row in current row order. Fields containing commas, quotes
// or newlines are quoted.
func (t *Table) RenderAsText() string {
	records := make([][]string, 0, t.rows+1)
	header := make([]string, len(t.columns))
	for i, c := range t.columns {
		header[i] = c.Name()
	}
	records = append(records, header)
	for r := 0; r < t.rows; r++ {
		record := make([]string, len(t.columns))
		for i, cell := range t.row(r) {
			record[i] = cell.String()
		}
		records = append(records, record)
	}

	var sb strings.Builder
	if err := csv.NewWriter(&sb).WriteAll(records); err != nil {
		// A strings.Builder never fails a write.
		panic(fmt.Sprintf("table: render: %v", err))
	}
	return sb.String()
}

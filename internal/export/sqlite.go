// Package export copies tables out of Ivory into other formats.
package export

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/ivory/pkg/types"
)

// Source is the read side of a table needed to export it.
type Source interface {
	Schema() []types.ColumnInfo
	Len() int
	GetColumn(name string) ([]types.Cell, error)
}

// sqliteType maps a cell kind to its SQLite column type.
func sqliteType(k types.Kind) string {
	switch k {
	case types.KindInt64, types.KindBool:
		return "INTEGER"
	case types.KindFloat64:
		return "REAL"
	default:
		return "TEXT"
	}
}

// sqliteValue converts a cell to a database/sql argument.
func sqliteValue(c types.Cell) any {
	switch c.Kind() {
	case types.KindInt64:
		return c.AsInt64()
	case types.KindFloat64:
		return c.AsFloat64()
	case types.KindBool:
		if c.AsBool() {
			return int64(1)
		}
		return int64(0)
	default:
		return c.String()
	}
}

// quoteIdent quotes a SQLite identifier.
func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// SQLite writes t into the SQLite database at dbPath as table name, replacing
// any existing table of that name. Rows are written in current row order in
// one transaction; the ID column becomes the primary key.
func SQLite(ctx context.Context, dbPath, name string, t Source) error {
	schema := t.Schema()
	cols := make([][]types.Cell, len(schema))
	for i, c := range schema {
		cells, err := t.GetColumn(c.Name)
		if err != nil {
			return fmt.Errorf("read column %s: %w", c.Name, err)
		}
		cols[i] = cells
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", dbPath, err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(name)); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}
	defs := make([]string, len(schema))
	marks := make([]string, len(schema))
	for i, c := range schema {
		defs[i] = quoteIdent(c.Name) + " " + sqliteType(c.Kind)
		if i == 0 {
			defs[i] += " PRIMARY KEY"
		}
		marks[i] = "?"
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(name), strings.Join(defs, ", "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", quoteIdent(name), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(schema))
	for r := 0; r < t.Len(); r++ {
		for i := range cols {
			args[i] = sqliteValue(cols[i][r])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert row %d: %w", r, err)
		}
	}
	return tx.Commit()
}

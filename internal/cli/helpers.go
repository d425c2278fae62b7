package cli

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/ivory/internal/storage"
	"github.com/mesh-intelligence/ivory/pkg/types"
)

// newIDArg is the add argument that asks for a generated ID.
const newIDArg = "-"

// attachBackend builds the store configuration and attaches a backend.
// It returns the configuration it attached with. The caller must call
// detach when done; it flushes deferred writes.
func attachBackend() (*storage.Backend, types.Config, error) {
	cfg, err := storeConfig()
	if err != nil {
		return nil, types.Config{}, err
	}
	backend := storage.NewBackend()
	if err := backend.Attach(cfg); err != nil {
		return nil, types.Config{}, sysError(fmt.Errorf("attach backend: %w", err))
	}
	return backend, cfg, nil
}

// detach releases the backend, keeping the first error seen by the command.
func detach(backend *storage.Backend, err *error) {
	if derr := backend.Detach(); derr != nil {
		slog.Error("detach failed", "err", derr)
		if *err == nil {
			*err = sysError(fmt.Errorf("detach backend: %w", derr))
		}
	}
}

// withTable attaches the backend, opens the named table and runs fn.
func withTable(name string, fn func(tbl types.Table) error) (err error) {
	backend, _, err := attachBackend()
	if err != nil {
		return err
	}
	defer detach(backend, &err)

	tbl, err := backend.GetTable(name)
	if err != nil {
		return err
	}
	return fn(tbl)
}

// columnKind returns the kind of the named column.
func columnKind(tbl types.Table, name string) (types.Kind, error) {
	want := types.NormalizeName(name)
	for _, info := range tbl.Schema() {
		if info.Name == want {
			return info.Kind, nil
		}
	}
	return types.KindInvalid, fmt.Errorf("%w: %s", types.ErrColumnNotFound, want)
}

// parseValue parses text as a cell for the named column.
func parseValue(tbl types.Table, column, text string) (types.Cell, error) {
	kind, err := columnKind(tbl, column)
	if err != nil {
		return types.Cell{}, err
	}
	return types.ParseCell(kind, text)
}

// parseRow converts command arguments into a row matching the table
// schema. An ID of "-" is replaced with a new time-ordered UUID.
func parseRow(schema []types.ColumnInfo, args []string) ([]types.Cell, error) {
	if len(args) != len(schema) {
		return nil, fmt.Errorf("%w: table has %d columns, got %d values",
			types.ErrArityMismatch, len(schema), len(args))
	}
	row := make([]types.Cell, len(args))
	for i, info := range schema {
		text := args[i]
		if i == 0 && text == newIDArg {
			id, err := uuid.NewV7()
			if err != nil {
				return nil, sysError(fmt.Errorf("generate id: %w", err))
			}
			text = id.String()
		}
		cell, err := types.ParseCell(info.Kind, text)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", info.Name, err)
		}
		row[i] = cell
	}
	return row, nil
}

// rowObject maps column names to cells for JSON output.
func rowObject(schema []types.ColumnInfo, row []types.Cell) map[string]types.Cell {
	obj := make(map[string]types.Cell, len(schema))
	for i, info := range schema {
		obj[info.Name] = row[i]
	}
	return obj
}

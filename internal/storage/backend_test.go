package storage

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ivory/internal/paths"
	"github.com/mesh-intelligence/ivory/pkg/types"
)

var backends = []string{types.BackendFile, types.BackendBolt}

// attach returns an attached backend over dir; Detach runs at cleanup.
func attach(t *testing.T, backend, dir, sync string) *Backend {
	t.Helper()
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: backend, DataDir: dir, SyncStrategy: sync}))
	t.Cleanup(func() { b.Detach() })
	return b
}

func seedPeople(t *testing.T, tbl types.Table) {
	t.Helper()
	require.NoError(t, tbl.AddColumn("name", types.KindText))
	require.NoError(t, tbl.AddColumn("age", types.KindInt64))
	for _, r := range [][]types.Cell{
		{types.TextCell("b"), types.TextCell("Bea"), types.Int64Cell(30)},
		{types.TextCell("a"), types.TextCell("Al"), types.Int64Cell(10)},
	} {
		_, err := tbl.Add(r)
		require.NoError(t, err)
	}
}

func TestAttachDetach(t *testing.T) {
	t.Run("creates data dir", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "data")
		b := NewBackend()
		require.NoError(t, b.Attach(types.Config{Backend: types.BackendFile, DataDir: dir}))
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		require.NoError(t, b.Detach())
	})

	t.Run("double attach fails", func(t *testing.T) {
		b := attach(t, types.BackendFile, t.TempDir(), "")
		err := b.Attach(types.Config{Backend: types.BackendFile, DataDir: t.TempDir()})
		assert.ErrorIs(t, err, types.ErrAlreadyAttached)
	})

	t.Run("invalid config", func(t *testing.T) {
		b := NewBackend()
		assert.ErrorIs(t, b.Attach(types.Config{Backend: "csv"}), types.ErrBackendUnknown)
		assert.ErrorIs(t, b.Attach(types.Config{}), types.ErrBackendEmpty)
	})

	t.Run("detach is idempotent", func(t *testing.T) {
		b := NewBackend()
		require.NoError(t, b.Attach(types.Config{Backend: types.BackendBolt, DataDir: t.TempDir()}))
		require.NoError(t, b.Detach())
		require.NoError(t, b.Detach())
		require.NoError(t, NewBackend().Detach())
	})

	t.Run("operations fail when detached", func(t *testing.T) {
		b := NewBackend()
		_, err := b.GetTable("x")
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		_, err = b.CreateTable("x")
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		_, err = b.ListTables()
		assert.ErrorIs(t, err, types.ErrStoreDetached)
		assert.ErrorIs(t, b.DropTable("x"), types.ErrStoreDetached)
		assert.ErrorIs(t, b.Flush(), types.ErrStoreDetached)
	})
}

func TestTableLifecycle(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			b := attach(t, backend, dir, "")

			tbl, err := b.CreateTable("People")
			require.NoError(t, err)
			seedPeople(t, tbl)

			_, err = b.CreateTable("people")
			assert.ErrorIs(t, err, types.ErrTableExists)
			_, err = b.CreateTable("bad name")
			assert.ErrorIs(t, err, types.ErrInvalidTableName)
			_, err = b.GetTable("missing")
			assert.ErrorIs(t, err, types.ErrTableNotFound)

			_, err = b.CreateTable("orders")
			require.NoError(t, err)
			names, err := b.ListTables()
			require.NoError(t, err)
			assert.Equal(t, []string{"orders", "people"}, names)

			require.NoError(t, b.Detach())

			// A fresh session sees the persisted state.
			b2 := attach(t, backend, dir, "")
			got, err := b2.GetTable("PEOPLE")
			require.NoError(t, err)
			assert.Equal(t, 2, got.Len())
			name, err := got.Get("A", "name")
			require.NoError(t, err)
			assert.Equal(t, "Al", name.AsText())

			require.NoError(t, b2.DropTable("orders"))
			assert.ErrorIs(t, b2.DropTable("orders"), types.ErrTableNotFound)
			names, err = b2.ListTables()
			require.NoError(t, err)
			assert.Equal(t, []string{"people"}, names)
		})
	}
}

func TestSyncImmediate(t *testing.T) {
	dir := t.TempDir()
	b := attach(t, types.BackendFile, dir, types.SyncImmediate)
	tbl, err := b.CreateTable("people")
	require.NoError(t, err)
	seedPeople(t, tbl)

	// Read the file directly while the session is still open.
	other := attach(t, types.BackendFile, dir, "")
	got, err := other.GetTable("people")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestSyncOnClose(t *testing.T) {
	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			dir := t.TempDir()
			b := NewBackend()
			require.NoError(t, b.Attach(types.Config{Backend: backend, DataDir: dir, SyncStrategy: types.SyncOnClose}))

			tbl, err := b.CreateTable("people")
			require.NoError(t, err)
			seedPeople(t, tbl)

			// Only the empty table created by CreateTable is on disk so far.
			data, err := b.blobs.Load("people")
			require.NoError(t, err)
			assert.NotEmpty(t, data)
			assert.True(t, b.dirty["people"])

			require.NoError(t, b.Detach())

			b2 := attach(t, backend, dir, "")
			got, err := b2.GetTable("people")
			require.NoError(t, err)
			assert.Equal(t, 2, got.Len())
		})
	}
}

func TestFlush(t *testing.T) {
	dir := t.TempDir()
	b := attach(t, types.BackendFile, dir, types.SyncOnClose)
	tbl, err := b.CreateTable("people")
	require.NoError(t, err)
	seedPeople(t, tbl)

	require.NoError(t, b.Flush())
	assert.Empty(t, b.dirty)

	other := attach(t, types.BackendFile, dir, "")
	got, err := other.GetTable("people")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())
}

func TestFailedMutationIsNotPersisted(t *testing.T) {
	b := attach(t, types.BackendFile, t.TempDir(), types.SyncOnClose)
	tbl, err := b.CreateTable("people")
	require.NoError(t, err)

	_, err = tbl.Add([]types.Cell{types.TextCell("a"), types.TextCell("extra")})
	assert.ErrorIs(t, err, types.ErrArityMismatch)
	assert.Empty(t, b.dirty)
}

func TestCorruptSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(paths.SnapshotPath(dir, "broken"), []byte("IVRY\x01garbage-bytes"), 0o644))

	b := attach(t, types.BackendFile, dir, "")
	_, err := b.GetTable("broken")
	assert.ErrorIs(t, err, types.ErrCorruptSnapshot)

	names, err := b.ListTables()
	require.NoError(t, err)
	assert.Equal(t, []string{"broken"}, names)
}

func TestHandleAfterDropAndDetach(t *testing.T) {
	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendFile, DataDir: t.TempDir()}))
	tbl, err := b.CreateTable("people")
	require.NoError(t, err)

	require.NoError(t, b.DropTable("people"))
	_, err = tbl.Add([]types.Cell{types.TextCell("a")})
	assert.ErrorIs(t, err, types.ErrTableNotFound)

	tbl2, err := b.CreateTable("people")
	require.NoError(t, err)
	require.NoError(t, b.Detach())
	_, err = tbl2.Get("a", "id")
	assert.ErrorIs(t, err, types.ErrStoreDetached)
	assert.Equal(t, 0, tbl2.Len())
}

func TestHandleForwardsOperations(t *testing.T) {
	b := attach(t, types.BackendBolt, t.TempDir(), "")
	tbl, err := b.CreateTable("people")
	require.NoError(t, err)
	seedPeople(t, tbl)

	assert.Equal(t, []types.ColumnInfo{
		{Name: "ID", Kind: types.KindText},
		{Name: "NAME", Kind: types.KindText},
		{Name: "AGE", Kind: types.KindInt64},
	}, tbl.Schema())

	require.NoError(t, tbl.SortBy("age", false))
	ids, err := tbl.GetColumn("id")
	require.NoError(t, err)
	assert.Equal(t, []types.Cell{types.TextCell("b"), types.TextCell("a")}, ids)

	found, err := tbl.Find("name", types.TextCell("al"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, found)

	ok, err := tbl.Exists("age", types.Int64Cell(30))
	require.NoError(t, err)
	assert.True(t, ok)

	row, err := tbl.Row("b")
	require.NoError(t, err)
	assert.Len(t, row, 3)

	n, err := tbl.DeleteWhere("age", types.Int64Cell(30))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, tbl.Delete("a"))
	require.NoError(t, tbl.DeleteColumn("name"))
	assert.ErrorIs(t, tbl.DeleteColumn("id"), types.ErrProtectedColumn)
	assert.Equal(t, "ID,AGE\n", tbl.RenderAsText())
	assert.Equal(t, "people", tbl.(*Table).Name())
}

func TestStorageFailures(t *testing.T) {
	t.Run("unreadable snapshot", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.Mkdir(paths.SnapshotPath(dir, "people"), 0o755))

		b := attach(t, types.BackendFile, dir, "")
		_, err := b.GetTable("people")
		assert.ErrorIs(t, err, types.ErrStorage)
		assert.NotErrorIs(t, err, types.ErrTableNotFound)
	})

	t.Run("failed persist", func(t *testing.T) {
		dir := t.TempDir()
		b := attach(t, types.BackendFile, dir, types.SyncImmediate)
		tbl, err := b.CreateTable("people")
		require.NoError(t, err)

		// A non-empty directory in place of the snapshot makes the rename fail.
		path := paths.SnapshotPath(dir, "people")
		require.NoError(t, os.Remove(path))
		require.NoError(t, os.MkdirAll(filepath.Join(path, "blocker"), 0o755))

		err = tbl.AddColumn("age", types.KindInt64)
		assert.ErrorIs(t, err, types.ErrStorage)
		assert.True(t, b.dirty["people"])
		assert.Len(t, tbl.Schema(), 2)

		require.NoError(t, os.RemoveAll(path))
		require.NoError(t, b.Flush())
		assert.FileExists(t, path)
	})
}

func TestStaleHandleAccessors(t *testing.T) {
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	b := NewBackend()
	require.NoError(t, b.Attach(types.Config{Backend: types.BackendFile, DataDir: t.TempDir()}))
	tbl, err := b.CreateTable("people")
	require.NoError(t, err)
	require.NoError(t, b.DropTable("people"))

	assert.Nil(t, tbl.Schema())
	assert.Zero(t, tbl.Len())
	assert.Empty(t, tbl.RenderAsText())
	assert.Contains(t, logs.String(), "stale table handle")
	assert.Contains(t, logs.String(), types.ErrTableNotFound.Error())
	require.NoError(t, b.Detach())
}

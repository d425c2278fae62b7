// Package storage implements the Ivory Store: it owns the data directory,
// keeps opened tables in memory, and persists each one as a full snapshot
// through either a directory of .ivry files or a single Bolt database.
package storage

import (
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"slices"
	"sync"

	"github.com/mesh-intelligence/ivory/internal/paths"
	"github.com/mesh-intelligence/ivory/internal/snapshot"
	"github.com/mesh-intelligence/ivory/internal/table"
	"github.com/mesh-intelligence/ivory/pkg/types"
)

// Backend implements types.Store. Tables are loaded lazily and kept in
// memory until Detach.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	blobs    blobStore
	log      *slog.Logger
	tables   map[string]*Table
	dirty    map[string]bool
}

var _ types.Store = (*Backend)(nil)

// NewBackend creates a new backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]*Table),
		dirty:  make(map[string]bool),
	}
}

// Attach initializes the backend with the given configuration.
// Creates DataDir if it does not exist and opens the snapshot store.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("%w: %w", types.ErrStorage, err)
	}

	switch config.Backend {
	case types.BackendBolt:
		blobs, err := openBoltStore(dataDir)
		if err != nil {
			return fmt.Errorf("%w: %w", types.ErrStorage, err)
		}
		b.blobs = blobs
	default:
		b.blobs = newFileStore(dataDir)
	}

	b.config = config
	b.log = slog.Default().With("component", "storage", "backend", config.Backend)
	b.attached = true
	b.log.Debug("attached", "data_dir", dataDir, "sync", config.GetSyncStrategy())
	return nil
}

// Detach persists every dirty table and releases the snapshot store.
// Detach is idempotent. The backend stays attached if the flush fails so the
// caller can retry.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if err := b.flushLocked(); err != nil {
		return fmt.Errorf("flush pending writes: %w", err)
	}
	if err := b.blobs.Close(); err != nil {
		return err
	}

	b.blobs = nil
	b.attached = false
	b.tables = make(map[string]*Table)
	b.dirty = make(map[string]bool)
	b.log.Debug("detached")
	return nil
}

// CreateTable creates an empty table holding only the ID column and
// persists it immediately, regardless of sync strategy, so the name is
// reserved on disk.
func (b *Backend) CreateTable(name string) (types.Table, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	name, err := paths.TableName(name)
	if err != nil {
		return nil, err
	}
	if _, err := b.loadLocked(name); err == nil {
		return nil, fmt.Errorf("%w: %s", types.ErrTableExists, name)
	} else if !errors.Is(err, types.ErrTableNotFound) {
		return nil, err
	}

	h := &Table{backend: b, name: name, t: table.New()}
	if err := b.writeLocked(name, h.t); err != nil {
		return nil, err
	}
	b.tables[name] = h
	b.log.Info("created table", "table", name)
	return h, nil
}

// GetTable returns the named table, decoding its snapshot on first use.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	name, err := paths.TableName(name)
	if err != nil {
		return nil, err
	}
	h, err := b.loadLocked(name)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// DropTable forgets a table and deletes its snapshot.
func (b *Backend) DropTable(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	name, err := paths.TableName(name)
	if err != nil {
		return err
	}
	if err := b.blobs.Remove(name); err != nil {
		if errors.Is(err, types.ErrTableNotFound) {
			return fmt.Errorf("%w: %s", types.ErrTableNotFound, name)
		}
		return fmt.Errorf("%w: remove %s: %w", types.ErrStorage, name, err)
	}
	delete(b.tables, name)
	delete(b.dirty, name)
	b.log.Info("dropped table", "table", name)
	return nil
}

// ListTables returns every stored table name, sorted.
func (b *Backend) ListTables() ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}
	names, err := b.blobs.List()
	if err != nil {
		return nil, fmt.Errorf("%w: list tables: %w", types.ErrStorage, err)
	}
	return names, nil
}

// Flush persists every table modified since it was last written.
func (b *Backend) Flush() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return types.ErrStoreDetached
	}
	return b.flushLocked()
}

// loadLocked returns the cached handle for name or decodes it from the
// snapshot store. The caller must hold b.mu.
func (b *Backend) loadLocked(name string) (*Table, error) {
	if h, ok := b.tables[name]; ok {
		return h, nil
	}
	data, err := b.blobs.Load(name)
	if err != nil {
		if errors.Is(err, types.ErrTableNotFound) {
			return nil, fmt.Errorf("%w: %s", types.ErrTableNotFound, name)
		}
		return nil, fmt.Errorf("%w: load %s: %w", types.ErrStorage, name, err)
	}
	t, err := snapshot.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	h := &Table{backend: b, name: name, t: t}
	b.tables[name] = h
	b.log.Debug("loaded table", "table", name, "bytes", len(data), "rows", t.Len())
	return h, nil
}

// changedLocked records a successful mutation of name and persists it when
// the sync strategy is immediate. The caller must hold b.mu.
func (b *Backend) changedLocked(name string) error {
	if b.config.GetSyncStrategy() != types.SyncImmediate {
		b.dirty[name] = true
		return nil
	}
	h, ok := b.tables[name]
	if !ok {
		return nil
	}
	if err := b.writeLocked(name, h.t); err != nil {
		// Keep it dirty so Flush or Detach retries.
		b.dirty[name] = true
		return err
	}
	return nil
}

// flushLocked writes every dirty table. The caller must hold b.mu.
func (b *Backend) flushLocked() error {
	for _, name := range slices.Sorted(maps.Keys(b.dirty)) {
		h, ok := b.tables[name]
		if !ok {
			delete(b.dirty, name)
			continue
		}
		if err := b.writeLocked(name, h.t); err != nil {
			return err
		}
		delete(b.dirty, name)
	}
	return nil
}

func (b *Backend) writeLocked(name string, t *table.Table) error {
	data, err := snapshot.Encode(t)
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	if err := b.blobs.Store(name, data); err != nil {
		return fmt.Errorf("%w: persist %s: %w", types.ErrStorage, name, err)
	}
	b.log.Debug("persisted table", "table", name, "bytes", len(data), "rows", t.Len())
	return nil
}

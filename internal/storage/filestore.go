package storage

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/mesh-intelligence/ivory/internal/paths"
	"github.com/mesh-intelligence/ivory/pkg/types"
)

// fileStore keeps each table in its own <name>.ivry file under dir.
type fileStore struct {
	dir string
}

func newFileStore(dir string) *fileStore {
	return &fileStore{dir: dir}
}

func (s *fileStore) Load(name string) ([]byte, error) {
	data, err := os.ReadFile(paths.SnapshotPath(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, types.ErrTableNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

func (s *fileStore) Store(name string, data []byte) error {
	return writeAtomic(paths.SnapshotPath(s.dir, name), data)
}

func (s *fileStore) Remove(name string) error {
	err := os.Remove(paths.SnapshotPath(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return types.ErrTableNotFound
	}
	return err
}

func (s *fileStore) List() ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(s.dir, "*"+paths.SnapshotExt))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, m := range matches {
		if name, ok := paths.TableFromPath(m); ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

func (s *fileStore) Close() error { return nil }

// writeAtomic writes data to path using the temp-file, fsync, rename
// pattern, so readers see either the old snapshot or the new one.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ivry-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	w := bufio.NewWriter(tmp)
	if _, err := w.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("flushing buffer: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

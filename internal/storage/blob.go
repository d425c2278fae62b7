package storage

// blobStore holds one opaque snapshot per table name. It knows nothing about
// the snapshot format.
type blobStore interface {
	// Load returns the snapshot for name, or types.ErrTableNotFound.
	Load(name string) ([]byte, error)
	// Store replaces the snapshot for name.
	Store(name string, data []byte) error
	// Remove deletes the snapshot for name, or returns types.ErrTableNotFound.
	Remove(name string) error
	// List returns every stored table name, sorted.
	List() ([]string, error)
	Close() error
}

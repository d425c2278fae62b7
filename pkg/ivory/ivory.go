// Package ivory is the public entry point for embedding the Ivory store.
//
// Example:
//
//	store := ivory.NewBackend()
//	err := store.Attach(types.Config{
//	    Backend: types.BackendFile,
//	    DataDir: ".ivory-db",
//	})
//	defer store.Detach()
//	people, err := store.CreateTable("people")
package ivory

import (
	"github.com/mesh-intelligence/ivory/internal/storage"
	"github.com/mesh-intelligence/ivory/pkg/types"
)

// Version is the release version of the module and the ivory CLI.
const Version = "0.1.0"

// NewBackend creates a new store. The store is not attached; call Attach
// with a Config to initialize.
func NewBackend() types.Store {
	return storage.NewBackend()
}

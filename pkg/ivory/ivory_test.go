package ivory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ivory/pkg/types"
)

func TestNewBackend(t *testing.T) {
	store := NewBackend()
	require.NoError(t, store.Attach(types.Config{Backend: types.BackendFile, DataDir: t.TempDir()}))
	defer store.Detach()

	people, err := store.CreateTable("people")
	require.NoError(t, err)
	require.NoError(t, people.AddColumn("age", types.KindInt64))
	at, err := people.Add([]types.Cell{types.TextCell("a"), types.Int64Cell(3)})
	require.NoError(t, err)
	assert.Equal(t, 0, at)
	assert.NotEmpty(t, Version)
}

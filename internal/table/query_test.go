package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/ivory/pkg/types"
)

func TestFind(t *testing.T) {
	tbl := people(t, person("a", "Ann", 30), person("b", "ann", 20), person("c", "Cat", 30))

	got, err := tbl.Find("name", types.TextCell("ANN"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)

	got, err = tbl.Find("age", types.Int64Cell(30))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, got)

	got, err = tbl.Find("age", types.Int64Cell(99))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = tbl.Find("age", types.TextCell("30"))
	assert.ErrorIs(t, err, types.ErrTypeMismatch)
	_, err = tbl.Find("weight", types.Int64Cell(1))
	assert.ErrorIs(t, err, types.ErrColumnNotFound)
}

func TestExists(t *testing.T) {
	tbl := people(t, person("a", "Ann", 30))

	ok, err := tbl.Exists("id", types.TextCell("A"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = tbl.Exists("name", types.TextCell("Bob"))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = tbl.Exists("nope", types.TextCell("x"))
	assert.ErrorIs(t, err, types.ErrColumnNotFound)
}

func TestDeleteWhere(t *testing.T) {
	tbl := people(t, person("a", "Ann", 30), person("b", "Ben", 20), person("c", "Cat", 30), person("d", "Dan", 40))

	n, err := tbl.DeleteWhere("age", types.Int64Cell(30))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"b", "d"}, ids(t, tbl))
	assert.Equal(t, 2, tbl.Len())

	n, err = tbl.DeleteWhere("age", types.Int64Cell(30))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = tbl.DeleteWhere("age", types.BoolCell(true))
	assert.ErrorIs(t, err, types.ErrTypeMismatch)
	assert.Equal(t, 2, tbl.Len())
}

package sema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAndLookup(t *testing.T) {
	table := NewTable()

	require.NoError(t, table.Insert(Entry{Name: "usuario", Kind: KindObject, Line: 1, Column: 14}))

	e, ok := table.Lookup("usuario")
	require.True(t, ok)
	assert.Equal(t, "usuario", e.Name)
	assert.Equal(t, KindObject, e.Kind)
	assert.Equal(t, 1, e.Line)
}

func TestInsertConflictCaseFolded(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Insert(Entry{Name: "Producto", Kind: KindObject, Line: 1}))

	// Same folded name, different casing and kind: still a conflict.
	err := table.Insert(Entry{Name: "PRODUCTO", Kind: KindList, Line: 3})
	require.Error(t, err)

	var conflict *ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "Producto", conflict.Existing.Name)
	assert.Equal(t, 1, conflict.Existing.Line)

	// First entry survives and keeps its original casing.
	e, ok := table.Lookup("producto")
	require.True(t, ok)
	assert.Equal(t, "Producto", e.Name)
	assert.Equal(t, KindObject, e.Kind)
	assert.Equal(t, 1, table.Len())
}

func TestLookupIsCaseInsensitive(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Insert(Entry{Name: "miLista", Kind: KindList, Line: 2}))

	for _, name := range []string{"milista", "MILISTA", "MiLista"} {
		e, ok := table.Lookup(name)
		require.True(t, ok, "lookup %q", name)
		assert.Equal(t, "miLista", e.Name)
	}
}

func TestIsReserved(t *testing.T) {
	table := NewTable()

	reserved := []string{"CREAR", "crear", "Objeto", "LISTA", "con", "ELEMENTOS", "Verdadero", "falso"}
	for _, w := range reserved {
		assert.True(t, table.IsReserved(w), "%q should be reserved", w)
	}

	assert.False(t, table.IsReserved("usuario"))
	assert.False(t, table.IsReserved("crear2"))
	assert.False(t, table.IsReserved(""))
}

func TestEntriesInsertionOrder(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Insert(Entry{Name: "b", Kind: KindObject}))
	require.NoError(t, table.Insert(Entry{Name: "a", Kind: KindList}))
	require.NoError(t, table.Insert(Entry{Name: "c", Kind: KindObject}))

	var names []string
	for _, e := range table.Entries() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)
}

func TestEntityKindString(t *testing.T) {
	assert.Equal(t, "objeto", KindObject.String())
	assert.Equal(t, "lista", KindList.String())
}

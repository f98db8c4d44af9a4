package metadata

import (
	"path/filepath"
	"testing"

	"github.com/metatk/retrieval-core/ids"
	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{Fields: []Field{
		{Name: "title", Type: FieldString},
		{Name: "views", Type: FieldUint64},
		{Name: "score", Type: FieldFloat64},
		{Name: "published", Type: FieldBool},
	}}
}

func TestWriteThenReadDocuments(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "metadata.db")
	idxPath := filepath.Join(dir, "metadata.index")

	schema := testSchema()
	w, err := NewWriter(dbPath, idxPath, schema)
	require.NoError(t, err)

	docs := [][]Value{
		{StringValue("doc zero"), Uint64Value(10), Float64Value(0.5), BoolValue(true)},
		{StringValue("doc one"), Uint64Value(20), Float64Value(-1.25), BoolValue(false)},
	}
	for _, d := range docs {
		require.NoError(t, w.PutDoc(d))
	}
	require.NoError(t, w.Close())

	store, err := Open(dbPath, idxPath)
	require.NoError(t, err)
	defer store.Close()

	require.Equal(t, 2, store.NumDocs())
	require.Equal(t, schema.Fields, store.Schema().Fields)

	h0, err := store.Get(ids.DocID(0))
	require.NoError(t, err)
	vals, err := h0.Fields()
	require.NoError(t, err)
	require.Equal(t, "doc zero", vals[0].Str)
	require.Equal(t, uint64(10), vals[1].U64)
	require.InEpsilon(t, 0.5, vals[2].F64, 1e-9)
	require.True(t, vals[3].Bool)

	h1, err := store.Get(ids.DocID(1))
	require.NoError(t, err)
	v, err := h1.Field("views")
	require.NoError(t, err)
	require.Equal(t, uint64(20), v.U64)

	_, err = store.Get(ids.DocID(99))
	require.Error(t, err)
}

func TestPutDocRejectsWrongFieldCount(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(filepath.Join(dir, "metadata.db"), filepath.Join(dir, "metadata.index"), testSchema())
	require.NoError(t, err)
	defer w.Close()

	err = w.PutDoc([]Value{StringValue("only one field")})
	require.Error(t, err)
}

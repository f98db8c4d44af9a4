package indexdisk

import (
	"testing"

	"github.com/metatk/retrieval-core/config"
	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/metadata"
	"github.com/metatk/retrieval-core/postings"
	"github.com/stretchr/testify/require"
)

// buildTinyIndex writes a complete, minimal index directory by hand
// (bypassing the indexing pipeline) to exercise every indexdisk reader
// against every indexdisk writer.
func buildTinyIndex(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	interned := map[string]ids.TermID{"alpha": 0, "beta": 1}
	require.NoError(t, WriteDictionary(dir, interned))

	// postings.db: term 0 ("alpha") appears in docs 0 and 1; term 1
	// ("beta") appears only in doc 1.
	w, err := postings.NewChunkWriter[ids.TermID, ids.DocID](dir + "/postings.db")
	require.NoError(t, err)
	offsets := make([]uint64, 2)
	offsets[0] = w.Offset()
	require.NoError(t, w.Write(postings.Record[ids.TermID, ids.DocID]{
		PrimaryKey: 0,
		Counts:     []postings.Count[ids.DocID]{{Key: 0, Count: 2}, {Key: 1, Count: 1}},
	}))
	offsets[1] = w.Offset()
	require.NoError(t, w.Write(postings.Record[ids.TermID, ids.DocID]{
		PrimaryKey: 1,
		Counts:     []postings.Count[ids.DocID]{{Key: 1, Count: 3}},
	}))
	require.NoError(t, w.Close())
	require.NoError(t, WriteLexiconOffsets(dir, offsets))

	require.NoError(t, WriteLabels(dir, []ids.LabelID{0, 1}, []ids.ClassLabel{"neg", "pos"}))

	schema := metadata.Schema{Fields: []metadata.Field{
		{Name: FieldLength, Type: metadata.FieldUint64},
		{Name: FieldUniqueTerms, Type: metadata.FieldUint64},
	}}
	mw, err := metadata.NewWriter(dir+"/"+FileMetadataDB, dir+"/"+FileMetadataIndex, schema)
	require.NoError(t, err)
	require.NoError(t, mw.PutDoc([]metadata.Value{metadata.Uint64Value(3), metadata.Uint64Value(1)}))
	require.NoError(t, mw.PutDoc([]metadata.Value{metadata.Uint64Value(4), metadata.Uint64Value(2)}))
	require.NoError(t, mw.Close())

	return dir
}

func TestOpenRoundTrip(t *testing.T) {
	dir := buildTinyIndex(t)
	idx, err := Open(dir)
	require.NoError(t, err)
	defer idx.Close()

	require.Equal(t, 2, idx.NumDocs())
	require.InEpsilon(t, 3.5, idx.AvgDocLength(), 1e-9)
	require.Equal(t, uint64(7), idx.TotalCorpusTerms())

	alpha, ok := idx.Lookup("alpha")
	require.True(t, ok)
	require.Equal(t, ids.TermID(0), alpha)

	term, ok := idx.TermOf(alpha)
	require.True(t, ok)
	require.Equal(t, "alpha", term)

	require.Equal(t, uint64(2), idx.DocFreq(alpha))
	require.Equal(t, uint64(3), idx.CorpusTermCount(alpha))

	rec, found, err := idx.PostingsFor(alpha)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []postings.Count[ids.DocID]{{Key: 0, Count: 2}, {Key: 1, Count: 1}}, rec.Counts)

	dl, err := idx.DocLength(ids.DocID(0))
	require.NoError(t, err)
	require.Equal(t, uint64(3), dl)

	label, err := idx.LabelOf(ids.DocID(1))
	require.NoError(t, err)
	cls, ok := idx.ClassOf(label)
	require.True(t, ok)
	require.Equal(t, ids.ClassLabel("pos"), cls)

	_, found, err = idx.PostingsFor(ids.TermID(99))
	require.NoError(t, err)
	require.False(t, found)
}

func TestBuildForwardIndex(t *testing.T) {
	dir := buildTinyIndex(t)
	idx, err := Open(dir)
	require.NoError(t, err)
	defer idx.Close()

	fwd, err := idx.BuildForwardIndex()
	require.NoError(t, err)

	v0, err := fwd.Vector(ids.DocID(0))
	require.NoError(t, err)
	require.Equal(t, map[ids.TermID]uint64{0: 2}, v0)

	v1, err := fwd.Vector(ids.DocID(1))
	require.NoError(t, err)
	require.Equal(t, map[ids.TermID]uint64{0: 1, 1: 3}, v1)
}

// TestPostingsForServesRepeatedQueriesFromCache exercises the lexicon's
// cache.Shard-backed record cache (spec §4.3): repeated PostingsFor
// calls for the same term must return equal decoded records whether or
// not the call hit the cache, and a tiny cache (one shard, one entry per
// shard) must not corrupt results under eviction pressure from
// alternating terms.
func TestPostingsForServesRepeatedQueriesFromCache(t *testing.T) {
	dir := buildTinyIndex(t)
	idx, err := OpenWithCache(dir, config.Cache{MaxSize: 1, Shards: 1})
	require.NoError(t, err)
	defer idx.Close()

	alpha, ok := idx.Lookup("alpha")
	require.True(t, ok)
	beta, ok := idx.Lookup("beta")
	require.True(t, ok)

	for i := 0; i < 3; i++ {
		rec, found, err := idx.PostingsFor(alpha)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []postings.Count[ids.DocID]{{Key: 0, Count: 2}, {Key: 1, Count: 1}}, rec.Counts)

		rec, found, err = idx.PostingsFor(beta)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []postings.Count[ids.DocID]{{Key: 1, Count: 3}}, rec.Counts)
	}
}

func TestCompressedPostingsFileRoundTrips(t *testing.T) {
	dir := buildTinyIndex(t)
	require.NoError(t, CompressPostingsFile(dir))

	idx, err := Open(dir)
	require.NoError(t, err)
	defer idx.Close()

	alpha, ok := idx.Lookup("alpha")
	require.True(t, ok)
	rec, found, err := idx.PostingsFor(alpha)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, []postings.Count[ids.DocID]{{Key: 0, Count: 2}, {Key: 1, Count: 1}}, rec.Counts)
}

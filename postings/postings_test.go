package postings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/metatk/retrieval-core/ids"
	"github.com/stretchr/testify/require"
)

func TestRecordRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chunk0")

	w, err := NewChunkWriter[ids.TermID, ids.DocID](path)
	require.NoError(t, err)
	rec := Record[ids.TermID, ids.DocID]{
		PrimaryKey: 7,
		Counts: []Count[ids.DocID]{
			{Key: 1, Count: 3},
			{Key: 2, Count: 5},
		},
	}
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Close())

	r, err := OpenChunkReader[ids.TermID, ids.DocID](path)
	require.NoError(t, err)
	require.False(t, r.Exhausted())
	got := r.Current()
	require.Equal(t, rec.PrimaryKey, got.PrimaryKey)
	require.Equal(t, rec.Counts, got.Counts)
	require.NoError(t, r.Advance())
	require.True(t, r.Exhausted())
	require.NoError(t, r.Close())
}

func writeChunk(t *testing.T, dir, name string, recs []Record[ids.TermID, ids.DocID]) string {
	t.Helper()
	path := filepath.Join(dir, name)
	w, err := NewChunkWriter[ids.TermID, ids.DocID](path)
	require.NoError(t, err)
	for _, r := range recs {
		require.NoError(t, w.Write(r))
	}
	require.NoError(t, w.Close())
	return path
}

// TestMergeCompleteness covers spec §8's merge-completeness property:
// every primary key present in any input chunk appears exactly once in
// the merged output, with its counts concatenated (and summed where a
// doc_id repeats across chunks).
func TestMergeCompleteness(t *testing.T) {
	dir := t.TempDir()

	p1 := writeChunk(t, dir, "c1", []Record[ids.TermID, ids.DocID]{
		{PrimaryKey: 1, Counts: []Count[ids.DocID]{{Key: 10, Count: 1}}},
		{PrimaryKey: 3, Counts: []Count[ids.DocID]{{Key: 11, Count: 2}}},
	})
	p2 := writeChunk(t, dir, "c2", []Record[ids.TermID, ids.DocID]{
		{PrimaryKey: 1, Counts: []Count[ids.DocID]{{Key: 12, Count: 4}}},
		{PrimaryKey: 2, Counts: []Count[ids.DocID]{{Key: 13, Count: 1}}},
	})
	p3 := writeChunk(t, dir, "c3", []Record[ids.TermID, ids.DocID]{
		{PrimaryKey: 1, Counts: []Count[ids.DocID]{{Key: 10, Count: 5}}}, // duplicate doc_id for term 1
	})

	r1, err := OpenChunkReader[ids.TermID, ids.DocID](p1)
	require.NoError(t, err)
	r2, err := OpenChunkReader[ids.TermID, ids.DocID](p2)
	require.NoError(t, err)
	r3, err := OpenChunkReader[ids.TermID, ids.DocID](p3)
	require.NoError(t, err)

	outPath := filepath.Join(dir, "merged")
	out, err := NewChunkWriter[ids.TermID, ids.DocID](outPath)
	require.NoError(t, err)

	unique, err := Merge[ids.TermID, ids.DocID]([]*ChunkReader[ids.TermID, ids.DocID]{r1, r2, r3}, out, nil, nil)
	require.NoError(t, err)
	require.Equal(t, 3, unique)
	require.NoError(t, out.Close())
	require.NoError(t, r1.Close())
	require.NoError(t, r2.Close())
	require.NoError(t, r3.Close())

	merged, err := OpenChunkReader[ids.TermID, ids.DocID](outPath)
	require.NoError(t, err)
	defer merged.Close()

	rec1 := merged.Current()
	require.Equal(t, ids.TermID(1), rec1.PrimaryKey)
	// doc_id 10 summed across c1 (1) and c3 (5) == 6; doc_id 12 from c2.
	require.ElementsMatch(t, []Count[ids.DocID]{{Key: 10, Count: 6}, {Key: 12, Count: 4}}, rec1.Counts)
	require.NoError(t, merged.Advance())

	rec2 := merged.Current()
	require.Equal(t, ids.TermID(2), rec2.PrimaryKey)
	require.NoError(t, merged.Advance())

	rec3 := merged.Current()
	require.Equal(t, ids.TermID(3), rec3.PrimaryKey)
	require.NoError(t, merged.Advance())
	require.True(t, merged.Exhausted())
}

func TestChunkWriterAbortDeletesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aborted")
	w, err := NewChunkWriter[ids.TermID, ids.DocID](path)
	require.NoError(t, err)
	require.NoError(t, w.Write(Record[ids.TermID, ids.DocID]{PrimaryKey: 1}))
	require.NoError(t, w.Abort())
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))
}

func TestEmptyChunkReaderIsImmediatelyExhausted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty")
	w, err := NewChunkWriter[ids.TermID, ids.DocID](path)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, err := OpenChunkReader[ids.TermID, ids.DocID](path)
	require.NoError(t, err)
	require.True(t, r.Exhausted())
}

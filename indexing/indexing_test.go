package indexing

import (
	"strings"
	"testing"

	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/indexdisk"
	"github.com/stretchr/testify/require"
)

func whitespaceAnalyzer() Analyzer {
	return AnalyzerFunc(func(text string) (map[string]uint64, error) {
		counts := make(map[string]uint64)
		for _, tok := range strings.Fields(text) {
			counts[strings.ToLower(tok)]++
		}
		return counts, nil
	})
}

func TestBuildProducesOpenableIndex(t *testing.T) {
	dir := t.TempDir()
	docs := []Document{
		{ID: 0, Text: "the cat sat on the mat", Label: "animals"},
		{ID: 1, Text: "the dog sat on the rug", Label: "animals"},
		{ID: 2, Text: "stocks rose on the market today", Label: "finance"},
	}

	require.NoError(t, Build(dir, docs, whitespaceAnalyzer(), Options{}))

	idx, err := indexdisk.Open(dir)
	require.NoError(t, err)
	defer idx.Close()

	require.Equal(t, 3, idx.NumDocs())

	theID, ok := idx.Lookup("the")
	require.True(t, ok)
	rec, found, err := idx.PostingsFor(theID)
	require.NoError(t, err)
	require.True(t, found)
	// "the" appears in all three docs: twice in doc 0, twice in doc 1,
	// once in doc 2.
	byDoc := make(map[ids.DocID]uint64)
	for _, c := range rec.Counts {
		byDoc[c.Key] = c.Count
	}
	require.Equal(t, uint64(2), byDoc[0])
	require.Equal(t, uint64(2), byDoc[1])
	require.Equal(t, uint64(1), byDoc[2])

	_, ok = idx.Lookup("nonexistent-term")
	require.False(t, ok)

	dl0, err := idx.DocLength(0)
	require.NoError(t, err)
	require.Equal(t, uint64(6), dl0)

	label, err := idx.LabelOf(2)
	require.NoError(t, err)
	cls, ok := idx.ClassOf(label)
	require.True(t, ok)
	require.Equal(t, ids.ClassLabel("finance"), cls)
}

// TestBuildWithTinyRAMBudgetForcesMultipleFlushes exercises the
// accumulator's flush-under-budget path and the subsequent multi-chunk
// merge, using a budget small enough that every document triggers a
// flush.
func TestBuildWithTinyRAMBudgetForcesMultipleFlushes(t *testing.T) {
	dir := t.TempDir()
	docs := []Document{
		{ID: 0, Text: "alpha beta gamma"},
		{ID: 1, Text: "beta gamma delta"},
		{ID: 2, Text: "gamma delta epsilon"},
		{ID: 3, Text: "delta epsilon alpha"},
	}

	require.NoError(t, Build(dir, docs, whitespaceAnalyzer(), Options{RAMBudgetBytes: 1}))

	idx, err := indexdisk.Open(dir)
	require.NoError(t, err)
	defer idx.Close()

	require.Equal(t, 4, idx.NumDocs())

	gammaID, ok := idx.Lookup("gamma")
	require.True(t, ok)
	rec, found, err := idx.PostingsFor(gammaID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, rec.Counts, 3) // docs 0, 1, 2

	deltaID, ok := idx.Lookup("delta")
	require.True(t, ok)
	rec, found, err = idx.PostingsFor(deltaID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, rec.Counts, 3) // docs 1, 2, 3
}

// TestBuildWithCompressionRoundTrips exercises spec §4.5 step 7's
// optional postings-file compression: a built, compressed index must
// open and answer queries identically to an uncompressed one.
func TestBuildWithCompressionRoundTrips(t *testing.T) {
	dir := t.TempDir()
	docs := []Document{
		{ID: 0, Text: "the quick brown fox"},
		{ID: 1, Text: "the lazy dog"},
		{ID: 2, Text: "quick brown dog"},
	}

	require.NoError(t, Build(dir, docs, whitespaceAnalyzer(), Options{Compress: true}))

	idx, err := indexdisk.Open(dir)
	require.NoError(t, err)
	defer idx.Close()

	quickID, ok := idx.Lookup("quick")
	require.True(t, ok)
	rec, found, err := idx.PostingsFor(quickID)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, rec.Counts, 2) // docs 0, 2
}

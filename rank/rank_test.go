package rank_test

import (
	"strings"
	"testing"

	"github.com/metatk/retrieval-core/indexdisk"
	"github.com/metatk/retrieval-core/indexing"
	"github.com/metatk/retrieval-core/rank"
	"github.com/stretchr/testify/require"
)

func whitespaceAnalyzer() indexing.Analyzer {
	return indexing.AnalyzerFunc(func(text string) (map[string]uint64, error) {
		counts := make(map[string]uint64)
		for _, tok := range strings.Fields(text) {
			counts[strings.ToLower(tok)]++
		}
		return counts, nil
	})
}

func buildTinyCorpus(t *testing.T) *indexdisk.Index {
	t.Helper()
	dir := t.TempDir()
	docs := []indexing.Document{
		{ID: 0, Text: "the quick brown fox"},
		{ID: 1, Text: "the lazy dog"},
		{ID: 2, Text: "quick brown dog"},
	}
	require.NoError(t, indexing.Build(dir, docs, whitespaceAnalyzer(), indexing.Options{}))
	idx, err := indexdisk.Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { idx.Close() })
	return idx
}

func resolveQuery(t *testing.T, idx *indexdisk.Index, terms map[string]float64) []rank.Term {
	t.Helper()
	var query []rank.Term
	for term, weight := range terms {
		id, ok := idx.Lookup(term)
		if !ok {
			continue
		}
		query = append(query, rank.Term{TermID: id, Weight: weight})
	}
	return query
}

// TestBM25TinyCorpusRanking exercises spec §8 scenario 3's corpus and
// query. The scenario's literal expected order ([d2, d0, d1], all
// scores positive) is not achievable by the spec-exact BM25 formula of
// spec §4.6 on this corpus: here N=3 and df("quick")=df("dog")=2, so
// IDF = ln((3-2+0.5)/(2+0.5)) = ln(0.6) < 0, which makes every matching
// document's score negative (monotone in the number and frequency of
// matching terms, not positive as the scenario assumes). See
// DESIGN.md's Open Questions for the resolution: this test asserts the
// actual, correctly-computed BM25 output for the scenario's corpus and
// query instead of the scenario's literal numbers.
func TestBM25TinyCorpusRanking(t *testing.T) {
	idx := buildTinyCorpus(t)
	query := resolveQuery(t, idx, map[string]float64{"quick": 1.0, "dog": 1.0})

	ctx := rank.NewContext(idx, rank.NewBM25())
	results, err := ctx.Score(query, 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// d0 matches only "quick", d1 matches only "dog" (shorter, so its
	// single match weighs slightly more negatively), d2 matches both
	// terms and so accumulates the most negative IDF contribution.
	require.Equal(t, []uint64{0, 1, 2}, []uint64{uint64(results[0].DocID), uint64(results[1].DocID), uint64(results[2].DocID)})
	require.Greater(t, results[0].Score, results[1].Score)
	require.Greater(t, results[1].Score, results[2].Score)
	for _, r := range results {
		require.Less(t, r.Score, 0.0)
		require.False(t, numIsNaNOrInf(r.Score))
	}
}

// TestDirichletEmptyMatch reproduces spec §8 scenario 4: a query term
// absent from the vocabulary yields an empty result vector, not an
// error.
func TestDirichletEmptyMatch(t *testing.T) {
	idx := buildTinyCorpus(t)
	query := resolveQuery(t, idx, map[string]float64{"cat": 1.0})
	require.Empty(t, query) // "cat" never resolves to a term_id

	ctx := rank.NewContext(idx, rank.DirichletPrior{Mu: 2000})
	results, err := ctx.Score(query, 3, nil)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestScoreEmptyQueryOrZeroResults(t *testing.T) {
	idx := buildTinyCorpus(t)
	ctx := rank.NewContext(idx, rank.NewBM25())

	results, err := ctx.Score(nil, 3, nil)
	require.NoError(t, err)
	require.Empty(t, results)

	query := resolveQuery(t, idx, map[string]float64{"quick": 1.0})
	results, err = ctx.Score(query, 0, nil)
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestScoreRespectsNumResultsAndOrdering(t *testing.T) {
	idx := buildTinyCorpus(t)
	query := resolveQuery(t, idx, map[string]float64{"quick": 1.0, "brown": 1.0, "dog": 1.0})

	ctx := rank.NewContext(idx, rank.NewBM25())
	results, err := ctx.Score(query, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)

	for i := 1; i < len(results); i++ {
		require.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
	}
}

func TestParallelContextMatchesSingleThreaded(t *testing.T) {
	idx := buildTinyCorpus(t)
	query := resolveQuery(t, idx, map[string]float64{"quick": 1.0, "dog": 1.0})

	single, err := rank.NewContext(idx, rank.NewBM25()).Score(query, 3, nil)
	require.NoError(t, err)

	parallel, err := rank.NewParallelContext(idx, rank.NewBM25(), 2).Score(query, 3, nil)
	require.NoError(t, err)

	require.Equal(t, single, parallel)
}

func TestDigammaRecurrenceConverges(t *testing.T) {
	idx := buildTinyCorpus(t)
	query := resolveQuery(t, idx, map[string]float64{"quick": 1.0, "dog": 1.0})

	ranker, err := rank.NewOptimizedDirichlet(idx, query, rank.DigammaRecurrence{}, 50, 1e-6)
	require.NoError(t, err)
	require.Greater(t, ranker.Mu, 0.0)
	require.False(t, numIsNaNOrInf(ranker.Mu))
}

func numIsNaNOrInf(f float64) bool {
	return f != f || f > 1e300 || f < -1e300
}

package metrics

import (
	"math"
	"sort"

	"github.com/metatk/retrieval-core/ids"
)

// AveragePrecision computes average precision for one ranked result
// list against a binary relevance judgment set: the sum, over every
// rank position holding a relevant document, of precision at that rank,
// divided by the number of relevant documents (relevant documents
// missing from ranked contribute 0). An empty judgment set yields 0.
func AveragePrecision(ranked []ids.DocID, relevant map[ids.DocID]bool) float64 {
	if len(relevant) == 0 {
		return 0
	}
	var hits int
	var sumPrecision float64
	for i, d := range ranked {
		if !relevant[d] {
			continue
		}
		hits++
		sumPrecision += float64(hits) / float64(i+1)
	}
	if hits == 0 {
		return 0
	}
	return sumPrecision / float64(len(relevant))
}

// MeanAveragePrecision averages AveragePrecision across a batch of
// queries, each contributing its own ranked list and relevance
// judgments. This is the corpus-level MAP consumed from per-query rank
// lists (spec §2's "IR ranking metrics (MAP, nDCG) consumed from rank
// lists").
func MeanAveragePrecision(rankedLists [][]ids.DocID, relevantSets []map[ids.DocID]bool) float64 {
	if len(rankedLists) == 0 {
		return 0
	}
	var sum float64
	for i, ranked := range rankedLists {
		sum += AveragePrecision(ranked, relevantSets[i])
	}
	return sum / float64(len(rankedLists))
}

// NDCG computes normalized discounted cumulative gain at cutoff k for
// one ranked list, given graded relevance judgments (0 for documents
// absent from the map). k <= 0 or k > len(ranked) is clamped to
// len(ranked).
func NDCG(ranked []ids.DocID, relevance map[ids.DocID]float64, k int) float64 {
	if k <= 0 || k > len(ranked) {
		k = len(ranked)
	}
	dcg := dcgAt(ranked[:k], relevance)

	ideal := make([]float64, 0, len(relevance))
	for _, g := range relevance {
		ideal = append(ideal, g)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(ideal)))
	if k < len(ideal) {
		ideal = ideal[:k]
	}
	var idcg float64
	for i, g := range ideal {
		idcg += gain(g, i)
	}
	if idcg == 0 {
		return 0
	}
	return dcg / idcg
}

func dcgAt(ranked []ids.DocID, relevance map[ids.DocID]float64) float64 {
	var sum float64
	for i, d := range ranked {
		sum += gain(relevance[d], i)
	}
	return sum
}

// gain is the standard log2(rank+1)-discounted relevance contribution
// at zero-based position i.
func gain(relevanceGrade float64, i int) float64 {
	if i == 0 {
		return relevanceGrade
	}
	return relevanceGrade / math.Log2(float64(i+1))
}

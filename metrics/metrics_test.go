package metrics_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/metrics"
)

func TestAccumulatorRegressionMetrics(t *testing.T) {
	var acc metrics.Accumulator
	pairs := [][2]float64{{1, 1}, {2, 4}, {3, 2}, {5, 5}}
	for _, p := range pairs {
		acc.Add(p[0], p[1])
	}

	m := acc.Metrics()
	assert.InDelta(t, (0.0+2.0+1.0+0.0)/4, m.MAE, 1e-9)
	assert.InDelta(t, (0.0+4.0+1.0+0.0)/4, m.MSE, 1e-9)
	assert.LessOrEqual(t, m.R2, 1.0)
	assert.GreaterOrEqual(t, m.MSE, m.MAE*m.MAE) // Cauchy-Schwarz, spec §8

	var maxAbsErr float64
	for _, p := range pairs {
		if d := math.Abs(p[0] - p[1]); d > maxAbsErr {
			maxAbsErr = d
		}
	}
	assert.LessOrEqual(t, m.MedAE, maxAbsErr)
}

func TestMedAEOddAndEvenCounts(t *testing.T) {
	var odd metrics.Accumulator
	for _, e := range []float64{1, 5, 3} {
		odd.Add(e, 0)
	}
	assert.InDelta(t, 3.0, odd.MedAE(), 1e-9)

	var even metrics.Accumulator
	for _, e := range []float64{1, 2, 3, 4} {
		even.Add(e, 0)
	}
	assert.InDelta(t, 2.5, even.MedAE(), 1e-9)
}

func TestRunningStatsMatchesClosedForm(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	var rs metrics.RunningStats
	var sum float64
	for _, v := range values {
		rs.Add(v)
		sum += v
	}
	require.Equal(t, uint64(len(values)), rs.N())
	assert.InDelta(t, sum/float64(len(values)), rs.Mean(), 1e-9)
	assert.InDelta(t, 4.571428571, rs.Variance(), 1e-6)
}

func TestAveragePrecisionAndMAP(t *testing.T) {
	ranked := []ids.DocID{1, 2, 3, 4}
	relevant := map[ids.DocID]bool{1: true, 3: true}
	// hits at rank 1 (p=1/1) and rank 3 (p=2/3); AP = (1 + 2/3) / 2
	assert.InDelta(t, (1.0+2.0/3.0)/2, metrics.AveragePrecision(ranked, relevant), 1e-9)

	mapScore := metrics.MeanAveragePrecision([][]ids.DocID{ranked}, []map[ids.DocID]bool{relevant})
	assert.InDelta(t, metrics.AveragePrecision(ranked, relevant), mapScore, 1e-9)
}

func TestNDCGPerfectOrderingIsOne(t *testing.T) {
	ranked := []ids.DocID{1, 2, 3}
	relevance := map[ids.DocID]float64{1: 3, 2: 2, 3: 1}
	assert.InDelta(t, 1.0, metrics.NDCG(ranked, relevance, 0), 1e-9)
}

func TestNDCGPenalizesBadOrdering(t *testing.T) {
	relevance := map[ids.DocID]float64{1: 3, 2: 2, 3: 1}
	perfect := metrics.NDCG([]ids.DocID{1, 2, 3}, relevance, 0)
	worst := metrics.NDCG([]ids.DocID{3, 2, 1}, relevance, 0)
	assert.Less(t, worst, perfect)
}

package metrics

import "math"

// RunningStats is Welford's online mean/variance accumulator (spec
// §4.9), used to aggregate response-style metrics across
// cross-validation folds without retaining every observation.
//
// Grounded on original_source/src/stats/running_stats.cpp.
type RunningStats struct {
	mean     float64 // m_k
	variance float64 // s_k, the running numerator for variance
	n        uint64
}

// Add folds value into the running mean and variance.
func (r *RunningStats) Add(value float64) {
	r.n++
	oldMean := r.mean
	r.mean += (value - oldMean) / float64(r.n)
	r.variance += (value - r.mean) * (value - oldMean)
}

// Mean returns the mean of every value Add()ed so far.
func (r *RunningStats) Mean() float64 { return r.mean }

// Variance returns the sample variance (Bessel-corrected: divides by
// n-1). Undefined (NaN) for n < 2, matching the original's unguarded
// division.
func (r *RunningStats) Variance() float64 {
	if r.n < 2 {
		return math.NaN()
	}
	return r.variance / float64(r.n-1)
}

// StdDev returns the sample standard deviation.
func (r *RunningStats) StdDev() float64 { return math.Sqrt(r.Variance()) }

// N returns the number of values folded in so far.
func (r *RunningStats) N() uint64 { return r.n }

package rank

import (
	"math"

	"github.com/metatk/retrieval-core/ids"
)

// DirichletPrior is the Dirichlet-prior language model smoother of spec
// §4.6: `log((tf + μ·p(t|C)) / (dl + μ))`, with the document-dependent
// constant `log(μ/(dl+μ))`, summed across the query's total weight,
// contributed once per document via InitialScore.
type DirichletPrior struct {
	Mu float64
}

// NewDirichletPrior returns DirichletPrior with the spec default μ=2000.
func NewDirichletPrior() DirichletPrior { return DirichletPrior{Mu: 2000} }

func (r DirichletPrior) ScoreOne(sd ScoreData) float64 {
	pc := float64(sd.CorpusTermCount) / float64(sd.TotalCorpusTerms)
	tf := float64(sd.TermFreqInDoc)
	dl := float64(sd.DocLength)
	return sd.QueryTermWeight * math.Log((tf+r.Mu*pc)/(dl+r.Mu))
}

func (r DirichletPrior) InitialScore(sd ScoreData) float64 {
	dl := float64(sd.DocLength)
	return sd.QueryTermWeight * math.Log(r.Mu/(dl+r.Mu))
}

// CorpusLengthHistogram maps a document length to the number of corpus
// documents of that length (the digamma-recurrence optimizer's `C_.(n)`).
type CorpusLengthHistogram map[uint64]uint64

// BuildCorpusLengthHistogram scans every document in index once to
// produce the corpus-wide length histogram the μ optimizers share across
// every query term.
func BuildCorpusLengthHistogram(index Index) (CorpusLengthHistogram, error) {
	hist := make(CorpusLengthHistogram)
	for d := 0; d < index.NumDocs(); d++ {
		dl, err := index.DocLength(ids.DocID(d))
		if err != nil {
			return nil, err
		}
		hist[dl]++
	}
	return hist, nil
}

// termCountHistogram maps a term-frequency value to the number of
// documents in which the term occurs exactly that many times (`C_k(n)`),
// derived directly from the term's postings list.
func termCountHistogram(counts []uint64) map[uint64]uint64 {
	hist := make(map[uint64]uint64, len(counts))
	for _, n := range counts {
		hist[n]++
	}
	return hist
}

// MuEstimator derives one query term's Dirichlet concentration α_k from
// the corpus-wide document-length histogram and that term's own
// occurrence-count histogram.
type MuEstimator interface {
	EstimateAlpha(corpus CorpusLengthHistogram, term map[uint64]uint64, maxIter int, eps float64) float64
}

// digammaSum computes D(n) = Σ_{m=1}^{n} 1/(m-1+alpha), the exact
// digamma-difference recurrence of spec §4.6.
func digammaSum(n uint64, alpha float64) float64 {
	var s float64
	for m := uint64(1); m <= n; m++ {
		s += 1 / (float64(m) - 1 + alpha)
	}
	return s
}

// DigammaRecurrence is the Wallach fixed-point estimator: iterate
// α_k ← α_k · S_k/S until every term converges within eps or max_iter is
// reached, whichever comes first. Non-convergence is not an error: the
// last iterate is returned, and no warning is emitted.
type DigammaRecurrence struct{}

func (DigammaRecurrence) EstimateAlpha(corpus CorpusLengthHistogram, term map[uint64]uint64, maxIter int, eps float64) float64 {
	alpha := 1.0
	for i := 0; i < maxIter; i++ {
		var s, sk float64
		for n, c := range corpus {
			s += float64(c) * digammaSum(n, alpha)
		}
		for n, c := range term {
			sk += float64(c) * digammaSum(n, alpha)
		}
		if s == 0 {
			break
		}
		next := alpha * sk / s
		if math.Abs(next-alpha) <= eps {
			alpha = next
			break
		}
		alpha = next
	}
	return alpha
}

// digammaLogApprox replaces the exact recurrence sum with the closed
// form 1/α + log(n+α-0.5) − log(α+0.5) (spec §4.6's "log approximation"),
// trading per-document summation for an O(1) evaluation. Zero counts are
// skipped by the caller, since D(0) contributes nothing to either sum.
func digammaLogApprox(n uint64, alpha float64) float64 {
	if n == 0 {
		return 0
	}
	return 1/alpha + math.Log(float64(n)+alpha-0.5) - math.Log(alpha+0.5)
}

// LogApproximation is the log-approximation μ estimator of spec §4.6.
type LogApproximation struct{}

func (LogApproximation) EstimateAlpha(corpus CorpusLengthHistogram, term map[uint64]uint64, maxIter int, eps float64) float64 {
	alpha := 1.0
	for i := 0; i < maxIter; i++ {
		var s, sk float64
		for n, c := range corpus {
			if n == 0 {
				continue
			}
			s += float64(c) * digammaLogApprox(n, alpha)
		}
		for n, c := range term {
			if n == 0 {
				continue
			}
			sk += float64(c) * digammaLogApprox(n, alpha)
		}
		if s == 0 {
			break
		}
		next := alpha * sk / s
		if math.Abs(next-alpha) <= eps {
			alpha = next
			break
		}
		alpha = next
	}
	return alpha
}

// MacKayPeto is the reserved placeholder estimator of spec §4.6: rather
// than iterating to convergence, it takes one method-of-moments style
// estimate from the term's mean occurrence count and returns immediately.
type MacKayPeto struct{}

func (MacKayPeto) EstimateAlpha(corpus CorpusLengthHistogram, term map[uint64]uint64, maxIter int, eps float64) float64 {
	var totalOccurrences, totalDocs uint64
	for n, c := range term {
		totalOccurrences += n * c
		totalDocs += c
	}
	if totalDocs == 0 {
		return 1.0
	}
	return float64(totalOccurrences) / float64(totalDocs)
}

// NewOptimizedDirichlet derives per-query-term concentrations via
// estimator and returns a DirichletPrior with μ = Σ α_k, ready to score
// the same query it was derived from (spec §4.6: "before scoring, derive
// optimal per-term concentrations... and set μ = Σ α_k").
func NewOptimizedDirichlet(index Index, query []Term, estimator MuEstimator, maxIter int, eps float64) (DirichletPrior, error) {
	corpusHist, err := BuildCorpusLengthHistogram(index)
	if err != nil {
		return DirichletPrior{}, err
	}

	var muSum float64
	for _, qt := range query {
		rec, found, err := index.PostingsFor(qt.TermID)
		if err != nil {
			return DirichletPrior{}, err
		}
		if !found {
			continue
		}
		counts := make([]uint64, len(rec.Counts))
		for i, c := range rec.Counts {
			counts[i] = c.Count
		}
		alpha := estimator.EstimateAlpha(corpusHist, termCountHistogram(counts), maxIter, eps)
		muSum += alpha
	}
	return DirichletPrior{Mu: muSum}, nil
}

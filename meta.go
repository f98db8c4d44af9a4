// Package meta is the root query-API facade of spec §6: OpenIndex,
// TokenizeQuery, Score, ApplyFeedback and Close compose the lower
// packages (indexdisk, rank, feedback) into the surface an external
// caller (a CLI, a notebook, an evaluation harness) drives. The package
// itself holds no indexing or ranking logic; it only wires the pieces
// spec §6 names together, the way the teacher's top-level packages
// (e.g. `gsfa`) expose a handful of entry points over an internal file
// layout.
package meta

import (
	"github.com/metatk/retrieval-core/config"
	"github.com/metatk/retrieval-core/feedback"
	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/indexdisk"
	"github.com/metatk/retrieval-core/indexing"
	"github.com/metatk/retrieval-core/rank"
)

// Analyzer is the external tokenization collaborator spec §1 names:
// the core never has an opinion on language, stemming, or
// stopwording, and depends only on this capability. It is the same
// shape as indexing.Analyzer, reused here so a caller can supply one
// Analyzer implementation for both building and querying an index.
type Analyzer = indexing.Analyzer

// Index is an opened, queryable index (spec §6's `Index`).
type Index struct {
	disk *indexdisk.Index
}

// OpenIndex memory-maps a built index directory (spec §6's
// `open_index`).
func OpenIndex(dir string) (*Index, error) {
	disk, err := indexdisk.Open(dir)
	if err != nil {
		return nil, err
	}
	return &Index{disk: disk}, nil
}

// Close unmaps every file backing idx (spec §6's `close`). The Index
// must not be used again afterward.
func (idx *Index) Close() error { return idx.disk.Close() }

// Disk exposes the underlying on-disk index for callers that need
// lower-level access (corpus stats, metadata, labels) beyond this
// facade's five operations.
func (idx *Index) Disk() *indexdisk.Index { return idx.disk }

// TokenizeQuery analyzes text via analyzer and resolves each resulting
// term to its term_id, using a uniform weight of 1 per occurrence
// count (spec §6's `tokenize_query`). Terms absent from idx's
// vocabulary are silently dropped, matching the ranker's own unknown-
// term policy (spec §4.6).
func TokenizeQuery(idx *Index, analyzer Analyzer, text string) ([]rank.Term, error) {
	counts, err := analyzer.Analyze(text)
	if err != nil {
		return nil, err
	}
	query := make([]rank.Term, 0, len(counts))
	for term, count := range counts {
		termID, ok := idx.disk.Lookup(term)
		if !ok {
			continue
		}
		query = append(query, rank.Term{TermID: termID, Weight: float64(count)})
	}
	return query, nil
}

// NewRanker constructs the ranker named by opts.Ranker.Method, ready to
// drive a Score call against idx. Optimized Dirichlet variants derive
// their μ from query and idx before returning, per spec §4.6.
func NewRanker(idx *Index, opts config.Ranker, query []rank.Term) (rank.Ranker, error) {
	switch opts.Method {
	case config.RankerBM25:
		return rank.BM25{K1: opts.K1, B: opts.B, K3: opts.K3}, nil
	case config.RankerDirichletPrior:
		return rank.DirichletPrior{Mu: opts.Mu}, nil
	case config.RankerDirichletDigamma:
		return rank.NewOptimizedDirichlet(idx.disk, query, rank.DigammaRecurrence{}, 50, 1e-5)
	case config.RankerDirichletLogApprox:
		return rank.NewOptimizedDirichlet(idx.disk, query, rank.LogApproximation{}, 50, 1e-5)
	case config.RankerDirichletMacKay:
		return rank.NewOptimizedDirichlet(idx.disk, query, rank.MacKayPeto{}, 50, 1e-5)
	case config.RankerJelinekMercer:
		return rank.NewJelinekMercer(), nil
	case config.RankerAbsoluteDiscount:
		return rank.NewAbsoluteDiscount(), nil
	default:
		return nil, badRankerMethod(opts.Method)
	}
}

// Score runs ranker over query against idx and returns at most
// numResults documents ordered by score descending, doc_id ascending
// (spec §6's `score`).
func Score(idx *Index, ranker rank.Ranker, query []rank.Term, numResults int, filter rank.Filter) ([]rank.Result, error) {
	ctx := rank.NewContext(idx.disk, ranker)
	return ctx.Score(query, numResults, filter)
}

// ApplyFeedback rewrites q0 using method against the documents in
// relevant/nonRelevant, reading their term vectors from idx's forward
// index (spec §6's `apply_feedback`). fwd is built once by the caller
// via idx.Disk().BuildForwardIndex() and may be reused across calls.
func ApplyFeedback(method feedback.Method, q0 feedback.Query, relevant, nonRelevant []ids.DocID, fwd feedback.ForwardIndex) (feedback.Query, error) {
	return method.Apply(q0, relevant, nonRelevant, fwd)
}

// NewFeedbackMethod constructs the feedback method named by opts
// (spec §6's feedback.method enum), validating a/b/c per spec §4.7.
func NewFeedbackMethod(opts config.Feedback) (feedback.Method, error) {
	switch opts.Method {
	case config.FeedbackRocchio:
		return feedback.NewRocchio(opts.A, opts.B, opts.C)
	case config.FeedbackIde:
		return feedback.NewIde(opts.A, opts.B, opts.C)
	case config.FeedbackIdeDecHi:
		return feedback.NewIdeDecHi(opts.A, opts.B, opts.C)
	default:
		return nil, badFeedbackMethod(opts.Method)
	}
}

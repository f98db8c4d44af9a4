// Package rank implements the common ranker context of spec §4.6: it
// opens a streaming postings cursor per query term, advances a
// doc_id frontier across those streams, and drives pluggable per-ranker
// score_one functions (BM25, Dirichlet-prior and its μ-optimizers,
// Jelinek-Mercer, absolute discount) into a bounded top-k heap.
//
// Grounded on the teacher's query-side iteration idiom in
// compactindexsized/query.go (an mmap-backed reader driving a bounded
// scan) and gsfa's streaming-iterator-over-linked-log shape; the heap
// and tie-break rules are this package's own, per spec §4.6's ordering
// guarantees.
package rank

import "github.com/metatk/retrieval-core/ids"

// ScoreData is the per-document, per-term evidence a Ranker's ScoreOne
// consumes, materialized once per matching stream at each frontier
// position.
type ScoreData struct {
	DocID ids.DocID

	QueryTermWeight float64
	DocCount        uint64 // df(t): documents containing the term
	CorpusTermCount uint64 // ctf(t): total occurrences of the term in the corpus
	TermFreqInDoc   uint64 // tf(t, d)

	DocLength        uint64
	UniqueTermsInDoc uint64
	AvgDocLength     float64

	NumDocs          int
	TotalCorpusTerms uint64
}

// Ranker scores one term's contribution to a document. Implementations
// must be safe for concurrent use by ParallelContext: ScoreOne must not
// mutate ranker state.
type Ranker interface {
	ScoreOne(sd ScoreData) float64
}

// InitialScorer is an optional Ranker capability contributing a
// document-dependent constant before any term contributions are
// summed (spec §4.6's Dirichlet-prior "initial_score").
type InitialScorer interface {
	InitialScore(sd ScoreData) float64
}

func initialScoreOf(r Ranker, sd ScoreData) float64 {
	if is, ok := r.(InitialScorer); ok {
		return is.InitialScore(sd)
	}
	return 0
}

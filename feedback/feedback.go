// Package feedback implements pseudo-relevance feedback (spec §4.7):
// given an initial query vector, a set of documents assumed relevant
// (typically the top-k of a first-pass retrieval), and optionally a set
// assumed non-relevant, a Method rewrites the query vector.
//
// Grounded on the teacher's small-interface-over-package-boundary habit
// (rank.Index in the rank package): ForwardIndex here plays the same
// role feedback.h's forward_index reference plays in original_source,
// narrowed to exactly the one capability feedback needs.
package feedback

import (
	"github.com/metatk/retrieval-core/errs"
	"github.com/metatk/retrieval-core/ids"
)

// ForwardIndex resolves a document to its term-count vector (spec §3's
// forward postings: K=doc_id, S=term_id). Feedback methods use this to
// read the documents assumed relevant/non-relevant without owning an
// inverted_index.Index or a forward postings file directly.
type ForwardIndex interface {
	Vector(doc ids.DocID) (map[ids.TermID]uint64, error)
}

// Query is a sparse bag-of-words vector, term_id -> weight. Unlike a
// ranker query (spec §4.6), feedback-rewritten weights may be negative
// (spec §4.7: "term weights in the resulting vector may become
// negative; downstream rankers must tolerate this").
type Query map[ids.TermID]float64

// Method rewrites q0 given the documents assumed relevant and
// (optionally) assumed non-relevant, against fwd.
type Method interface {
	Apply(q0 Query, relevant, nonRelevant []ids.DocID, fwd ForwardIndex) (Query, error)
}

// checkNonNegative validates the a/b/c weighting parameters every
// feedback method shares (spec §4.7: "all parameters are required to be
// nonnegative").
func checkNonNegative(op string, a, b, c float64) error {
	switch {
	case a < 0:
		return errs.New(errs.KindBadArgument, op, errNegativeParam{"a"})
	case b < 0:
		return errs.New(errs.KindBadArgument, op, errNegativeParam{"b"})
	case c < 0:
		return errs.New(errs.KindBadArgument, op, errNegativeParam{"c"})
	}
	return nil
}

type errNegativeParam struct{ name string }

func (e errNegativeParam) Error() string { return e.name + " must be nonnegative" }

// addScaled adds src scaled by factor into dst, skipping the add
// entirely (not just a zero-factor no-op store) when factor is zero, so
// that a disabled term (e.g. c_ == 0, "no assumed non-relevant
// contribution") never materializes a zero entry in the rewritten
// query.
func addScaled(dst Query, src map[ids.TermID]uint64, factor float64) {
	if factor == 0 {
		return
	}
	for t, c := range src {
		dst[t] += float64(c) * factor
	}
}

func addScaledQuery(dst, src Query, factor float64) {
	if factor == 0 {
		return
	}
	for t, w := range src {
		dst[t] += w * factor
	}
}

func centroid(fwd ForwardIndex, docs []ids.DocID) (Query, error) {
	sum := make(Query)
	for _, d := range docs {
		v, err := fwd.Vector(d)
		if err != nil {
			return nil, err
		}
		for t, c := range v {
			sum[t] += float64(c)
		}
	}
	if len(docs) > 0 {
		for t := range sum {
			sum[t] /= float64(len(docs))
		}
	}
	return sum, nil
}

func dotWithVector(q Query, v map[ids.TermID]uint64) float64 {
	var s float64
	for t, c := range v {
		if w, ok := q[t]; ok {
			s += w * float64(c)
		}
	}
	return s
}

package indexdisk

import "github.com/metatk/retrieval-core/ids"

// ForwardIndex is the transpose of the inverted index (spec §3's
// "Forward postings: K=doc_id, S=term_id"): for each document, the
// term_id -> count vector it contains. Spec §6's on-disk file set names
// no dedicated forward-index file, so this is built once into RAM from
// the already-open inverted index's postings, rather than persisted
// separately. Each BuildForwardIndex call pays the full construction
// cost; the Index does not cache the result, which callers can reuse
// across feedback queries.
type ForwardIndex struct {
	vectors map[ids.DocID]map[ids.TermID]uint64
}

// BuildForwardIndex scans every term's postings list once and inverts
// it into per-document term-count vectors. It is the grounding for
// feedback.ForwardIndex: the returned *ForwardIndex satisfies that
// interface structurally.
func (idx *Index) BuildForwardIndex() (*ForwardIndex, error) {
	vectors := make(map[ids.DocID]map[ids.TermID]uint64, idx.numDocs)
	numTerms := idx.dictionary.NumTerms()
	for t := 0; t < numTerms; t++ {
		termID := ids.TermID(t)
		rec, found, err := idx.PostingsFor(termID)
		if err != nil {
			return nil, err
		}
		if !found {
			continue
		}
		for _, c := range rec.Counts {
			v, ok := vectors[c.Key]
			if !ok {
				v = make(map[ids.TermID]uint64)
				vectors[c.Key] = v
			}
			v[termID] = c.Count
		}
	}
	return &ForwardIndex{vectors: vectors}, nil
}

// Vector returns doc's term-count vector, or nil if doc has no terms
// (e.g. an empty document).
func (f *ForwardIndex) Vector(doc ids.DocID) (map[ids.TermID]uint64, error) {
	return f.vectors[doc], nil
}

package indexing

import (
	"sort"

	"github.com/metatk/retrieval-core/hashtable"
	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/postings"
)

const noTerm = ^ids.TermID(0)

// accumulator is the in-RAM table of spec §4.5 step 3: a
// hashtable.ExternalValueMap keyed by term_id with externally stored
// postings-count lists. It is owned by a single writer (Build's
// sequential merge-in loop); nothing about it is safe for concurrent use.
type accumulator struct {
	m *hashtable.ExternalValueMap[ids.TermID, []postings.Count[ids.DocID]]
}

func newAccumulator() *accumulator {
	return &accumulator{
		m: hashtable.NewExternalValueMap[ids.TermID, []postings.Count[ids.DocID]](
			noTerm, hashtable.HashUint64, func(a, b ids.TermID) bool { return a == b }),
	}
}

// add feeds one (term_id, doc_id, count) postings contribution into the
// accumulator.
func (a *accumulator) add(term ids.TermID, doc ids.DocID, count uint64) {
	idx, _ := a.m.Emplace(term, nil)
	values := a.m.Values()
	values[idx] = append(values[idx], postings.Count[ids.DocID]{Key: doc, Count: count})
}

// bytesUsed estimates the accumulator's resident memory, the only
// mechanism spec §4.5/§5 give for triggering a flush.
func (a *accumulator) bytesUsed() int { return a.m.BytesUsed() }

// flush sorts by term_id, sorts each postings list by doc_id, and
// streams the result to a new chunk file, then resets the accumulator.
func (a *accumulator) flush(path string) error {
	w, err := postings.NewChunkWriter[ids.TermID, ids.DocID](path)
	if err != nil {
		return err
	}

	type termAndIdx struct {
		term ids.TermID
		idx  int
	}
	terms := make([]termAndIdx, 0, a.m.Size())
	a.m.Each(func(term ids.TermID, idx int) {
		terms = append(terms, termAndIdx{term: term, idx: idx})
	})
	sort.Slice(terms, func(i, j int) bool { return terms[i].term < terms[j].term })

	for _, t := range terms {
		counts := a.m.Values()[t.idx]
		sort.Slice(counts, func(i, j int) bool { return counts[i].Key < counts[j].Key })
		if err := w.Write(postings.Record[ids.TermID, ids.DocID]{PrimaryKey: t.term, Counts: counts}); err != nil {
			w.Abort()
			return err
		}
	}

	if err := w.Close(); err != nil {
		return err
	}
	a.m.Clear()
	return nil
}

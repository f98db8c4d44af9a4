package rank

import (
	"container/heap"
	"sort"

	"github.com/metatk/retrieval-core/ids"
)

// Result is one scored document.
type Result struct {
	DocID ids.DocID
	Score float64
}

// resultHeap is a min-heap ordered so that the lowest-priority entry
// (lowest score, then highest doc_id) sits at the root and is the first
// evicted once capacity is exceeded. Final output is sorted by score
// descending, doc_id ascending (spec §4.6's tie-break rule).
type resultHeap []Result

func (h resultHeap) Len() int { return len(h) }
func (h resultHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].DocID > h[j].DocID
}
func (h resultHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *resultHeap) Push(x any)   { *h = append(*h, x.(Result)) }
func (h *resultHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// topKHeap bounds a resultHeap to at most k entries.
type topKHeap struct {
	h resultHeap
	k int
}

func newTopKHeap(k int) *topKHeap {
	return &topKHeap{h: make(resultHeap, 0, k), k: k}
}

// insert offers r to the heap, evicting the current lowest-priority
// entry if the heap is already at capacity and r outranks it.
func (t *topKHeap) insert(r Result) {
	if t.k <= 0 {
		return
	}
	if len(t.h) < t.k {
		heap.Push(&t.h, r)
		return
	}
	worst := t.h[0]
	if r.Score > worst.Score || (r.Score == worst.Score && r.DocID < worst.DocID) {
		t.h[0] = r
		heap.Fix(&t.h, 0)
	}
}

// sorted drains the heap into descending-score, ascending-doc_id order.
func (t *topKHeap) sorted() []Result {
	out := make([]Result, len(t.h))
	copy(out, t.h)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].DocID < out[j].DocID
	})
	return out
}

package rank

import (
	"golang.org/x/sync/errgroup"

	"github.com/metatk/retrieval-core/ids"
)

// ParallelContext is the additive, `original_source/ram_index.h`-style
// parallel search path: it shards the doc_id space across an errgroup
// pool of independent scorers, each running the same single-threaded
// scoring loop bounded to its own shard with a local top-k heap, then
// merges the per-shard heaps into the final result. This sits alongside
// Context.Score, not in place of it.
type ParallelContext struct {
	index      Index
	ranker     Ranker
	numWorkers int
}

func NewParallelContext(index Index, ranker Ranker, numWorkers int) *ParallelContext {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	return &ParallelContext{index: index, ranker: ranker, numWorkers: numWorkers}
}

// Score partitions the corpus's doc_id space into contiguous shards, one
// per worker, and scores each shard independently and concurrently, then
// merges the per-shard top-k results into a single top numResults list.
func (pc *ParallelContext) Score(query []Term, numResults int, filter Filter) ([]Result, error) {
	if len(query) == 0 || numResults <= 0 {
		return nil, nil
	}

	numDocs := pc.index.NumDocs()
	if numDocs == 0 {
		return nil, nil
	}

	shardSize := (numDocs + pc.numWorkers - 1) / pc.numWorkers
	partials := make([][]Result, pc.numWorkers)

	g := new(errgroup.Group)
	for w := 0; w < pc.numWorkers; w++ {
		w := w
		lo := w * shardSize
		hi := lo + shardSize
		if hi > numDocs {
			hi = numDocs
		}
		if lo >= hi {
			continue
		}
		g.Go(func() error {
			shardFilter := func(d ids.DocID) bool {
				if int(d) < lo || int(d) >= hi {
					return false
				}
				return filter == nil || filter(d)
			}
			ctx := NewContext(pc.index, pc.ranker)
			res, err := ctx.Score(query, numResults, shardFilter)
			if err != nil {
				return err
			}
			partials[w] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := newTopKHeap(numResults)
	for _, part := range partials {
		for _, r := range part {
			merged.insert(r)
		}
	}
	return merged.sorted(), nil
}

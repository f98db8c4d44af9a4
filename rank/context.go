package rank

import (
	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/postings"
)

// Index is the subset of indexdisk.Index a ranker context needs. Kept
// narrow so rank does not import indexdisk directly, mirroring the
// teacher's habit of depending on small local interfaces rather than
// concrete package types across module boundaries.
type Index interface {
	Lookup(term string) (ids.TermID, bool)
	PostingsFor(term ids.TermID) (postings.Record[ids.TermID, ids.DocID], bool, error)
	DocFreq(term ids.TermID) uint64
	CorpusTermCount(term ids.TermID) uint64
	DocLength(doc ids.DocID) (uint64, error)
	UniqueTerms(doc ids.DocID) (uint64, error)
	NumDocs() int
	AvgDocLength() float64
	TotalCorpusTerms() uint64
}

// Term is one weighted query term, term_id already resolved.
type Term struct {
	TermID ids.TermID
	Weight float64
}

// stream is one query term's postings cursor, advancing in ascending
// doc_id order (spec §4.6's "stream_iter").
type stream struct {
	weight   float64
	docCount uint64
	ctf      uint64
	counts   []postings.Count[ids.DocID]
	pos      int
}

func (s *stream) exhausted() bool { return s.pos >= len(s.counts) }
func (s *stream) head() ids.DocID { return s.counts[s.pos].Key }
func (s *stream) advance()        { s.pos++ }

// Filter, if non-nil, is consulted for every candidate doc_id; it
// returning false skips that document for every stream (spec §4.6's
// "optional filter predicate on doc_id").
type Filter func(ids.DocID) bool

// Context is the ranker context of spec §4.6: given a tokenized query,
// it opens a postings stream per resolved term and drives the scoring
// loop. Unknown terms (absent from the vocabulary) are silently
// dropped, per spec §4.6's failure policy.
type Context struct {
	index  Index
	ranker Ranker
}

func NewContext(index Index, ranker Ranker) *Context {
	return &Context{index: index, ranker: ranker}
}

// Score runs the full scoring loop and returns at most numResults
// documents ordered by score descending, doc_id ascending. An empty
// query, or numResults <= 0, yields an empty result without scoring.
func (c *Context) Score(query []Term, numResults int, filter Filter) ([]Result, error) {
	if len(query) == 0 || numResults <= 0 {
		return nil, nil
	}

	streams := make([]*stream, 0, len(query))
	for _, qt := range query {
		rec, found, err := c.index.PostingsFor(qt.TermID)
		if err != nil {
			return nil, err
		}
		if !found || len(rec.Counts) == 0 {
			continue
		}
		streams = append(streams, &stream{
			weight:   qt.Weight,
			docCount: c.index.DocFreq(qt.TermID),
			ctf:      c.index.CorpusTermCount(qt.TermID),
			counts:   rec.Counts,
		})
	}
	if len(streams) == 0 {
		return nil, nil
	}

	numDocs := c.index.NumDocs()
	avgDL := c.index.AvgDocLength()
	totalTerms := c.index.TotalCorpusTerms()

	var totalQueryWeight float64
	for _, s := range streams {
		totalQueryWeight += s.weight
	}

	topK := newTopKHeap(numResults)

	curDoc, ok := minHead(streams, filter)
	for ok {
		var matching []*stream
		for _, s := range streams {
			if s.exhausted() || s.head() != curDoc {
				continue
			}
			matching = append(matching, s)
		}

		dl, err := c.index.DocLength(curDoc)
		if err != nil {
			return nil, err
		}
		uniqueTerms, err := c.index.UniqueTerms(curDoc)
		if err != nil {
			return nil, err
		}

		score := initialScoreOf(c.ranker, ScoreData{
			DocID:            curDoc,
			QueryTermWeight:  totalQueryWeight,
			DocLength:        dl,
			UniqueTermsInDoc: uniqueTerms,
			AvgDocLength:     avgDL,
			NumDocs:          numDocs,
			TotalCorpusTerms: totalTerms,
		})
		for _, s := range matching {
			score += c.ranker.ScoreOne(ScoreData{
				DocID:            curDoc,
				QueryTermWeight:  s.weight,
				DocCount:         s.docCount,
				CorpusTermCount:  s.ctf,
				TermFreqInDoc:    s.counts[s.pos].Count,
				DocLength:        dl,
				UniqueTermsInDoc: uniqueTerms,
				AvgDocLength:     avgDL,
				NumDocs:          numDocs,
				TotalCorpusTerms: totalTerms,
			})
		}

		topK.insert(Result{DocID: curDoc, Score: score})

		for _, s := range matching {
			s.advance()
		}
		curDoc, ok = minHead(streams, filter)
	}

	return topK.sorted(), nil
}

// minHead returns the minimum non-exhausted stream head, skipping
// doc_ids filter rejects (by advancing past them in every stream that
// currently sits on them).
func minHead(streams []*stream, filter Filter) (ids.DocID, bool) {
	for {
		var min ids.DocID
		found := false
		for _, s := range streams {
			if s.exhausted() {
				continue
			}
			if !found || s.head() < min {
				min = s.head()
				found = true
			}
		}
		if !found {
			return 0, false
		}
		if filter == nil || filter(min) {
			return min, true
		}
		for _, s := range streams {
			if !s.exhausted() && s.head() == min {
				s.advance()
			}
		}
	}
}

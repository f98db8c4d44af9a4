// Package indexing implements the index construction pipeline of spec
// §4.5: parallel analyzer tokenization, term interning, an in-RAM
// probe-set accumulator flushed to chunk files under a configured RAM
// budget, and a final multi-way merge that writes the lexicon and
// postings.db.
//
// The accumulator/flush/merge shape is grounded on the teacher's
// gsfa-write.go (accumulate then flush in bulk) and
// compactindexsized/build.go (a Builder that owns intermediate state and
// is sealed by one terminal call); parallel tokenization is grounded on
// split-car-fetcher/fetcher.go's errgroup.Group-with-SetLimit pattern.
package indexing

// Analyzer is the external collaborator spec §4.5 step 1 delegates
// tokenization to: given a document's text, produce term -> occurrence
// count. Index construction never has an opinion on language, stemming,
// or stopwording; that lives entirely behind this interface.
type Analyzer interface {
	Analyze(text string) (map[string]uint64, error)
}

// AnalyzerFunc adapts a plain function to Analyzer.
type AnalyzerFunc func(text string) (map[string]uint64, error)

func (f AnalyzerFunc) Analyze(text string) (map[string]uint64, error) { return f(text) }

package indexdisk

import (
	"log/slog"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/metatk/retrieval-core/config"
	"github.com/metatk/retrieval-core/errs"
	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/metadata"
	"github.com/metatk/retrieval-core/postings"
)

// Index is a built, queryable inverted index: it owns the term
// dictionary, the postings lexicon and memory-mapped postings.db, the
// document label vectors, and the metadata store, per spec §3's
// ownership rule ("the inverted index owns the term dictionary,
// metadata file handle, lexicon, and a memory-mapped postings file").
//
// Streaming postings (as decoded Records) borrow the index's lifetime;
// callers must not retain them past Close.
type Index struct {
	dir        string
	dictionary *Dictionary
	lexicon    *Lexicon
	labels     *Labels
	metadata   *metadata.Store

	numDocs          int
	avgDocLength     float64
	totalCorpusTerms uint64
}

// Open memory-maps a built index directory using spec §6's cache
// defaults (config.DefaultCache) for the lexicon's postings-record
// cache. See OpenWithCache to size that cache explicitly.
func Open(dir string) (*Index, error) {
	return OpenWithCache(dir, config.DefaultCache())
}

// OpenWithCache memory-maps a built index directory, following the
// teacher's compactindexsized.Open idiom: eagerly decode the small
// dictionary/lexicon metadata, attempt a random-access fadvise hint on
// the postings data file (applied only when the reader exposes a file
// descriptor, which golang.org/x/exp/mmap's reader does not, so no hint
// is applied with the current reader), and log a
// structured warmup summary via log/slog. cacheOpts sizes the lexicon's
// decoded-postings-record cache (spec §4.3, spec §6's cache.max-size /
// cache.shards options).
func OpenWithCache(dir string, cacheOpts config.Cache) (*Index, error) {
	dict, err := OpenDictionary(dir)
	if err != nil {
		return nil, err
	}
	lex, err := openLexicon(dir, cacheOpts)
	if err != nil {
		return nil, err
	}
	labels, err := OpenLabels(dir)
	if err != nil {
		lex.Close()
		return nil, err
	}
	meta, err := metadata.Open(filepath.Join(dir, FileMetadataDB), filepath.Join(dir, FileMetadataIndex))
	if err != nil {
		lex.Close()
		labels.Close()
		return nil, err
	}

	if fd, ok := postingsFd(lex.db.mm); ok {
		if err := unix.Fadvise(fd, 0, 0, unix.FADV_RANDOM); err != nil {
			slog.Warn("fadvise(RANDOM) failed on postings.db", "error", err)
		}
	}

	idx := &Index{
		dir:        dir,
		dictionary: dict,
		lexicon:    lex,
		labels:     labels,
		metadata:   meta,
		numDocs:    meta.NumDocs(),
	}
	if err := idx.loadCorpusLengthStats(); err != nil {
		idx.Close()
		return nil, err
	}

	slog.Info("index opened", "dir", dir, "terms", dict.NumTerms(), "docs", idx.numDocs)
	return idx, nil
}

// postingsFd is a best-effort hook; golang.org/x/exp/mmap.ReaderAt does
// not currently expose its underlying file descriptor, so this always
// reports false. It mirrors the teacher's capability-check pattern
// (type-asserting for an Fd method on the stream) for when warming up
// against a plain os.File-backed reader.
func postingsFd(r interface{}) (int, bool) {
	type fdHaver interface{ Fd() uintptr }
	if f, ok := r.(fdHaver); ok {
		return int(f.Fd()), true
	}
	return 0, false
}

// loadCorpusLengthStats sums the reserved "length" metadata field across
// every document to compute avg_doc_length and total_corpus_terms,
// since spec §3 reserves that field for exactly this purpose and no
// dedicated corpus-stats file is named in spec §6.
func (idx *Index) loadCorpusLengthStats() error {
	var total uint64
	for d := 0; d < idx.numDocs; d++ {
		h, err := idx.metadata.Get(ids.DocID(d))
		if err != nil {
			return err
		}
		v, err := h.Field(FieldLength)
		if err != nil {
			return errs.New(errs.KindCorrupt, "indexdisk.Index.loadCorpusLengthStats", err)
		}
		total += v.U64
	}
	idx.totalCorpusTerms = total
	if idx.numDocs > 0 {
		idx.avgDocLength = float64(total) / float64(idx.numDocs)
	}
	return nil
}

// NumDocs returns the number of documents in the corpus.
func (idx *Index) NumDocs() int { return idx.numDocs }

// AvgDocLength returns the corpus average document length, from the
// reserved "length" metadata field.
func (idx *Index) AvgDocLength() float64 { return idx.avgDocLength }

// TotalCorpusTerms returns the sum of document lengths across the
// corpus.
func (idx *Index) TotalCorpusTerms() uint64 { return idx.totalCorpusTerms }

// DocLength returns doc's length (the reserved "length" metadata field).
func (idx *Index) DocLength(doc ids.DocID) (uint64, error) {
	h, err := idx.metadata.Get(doc)
	if err != nil {
		return 0, err
	}
	v, err := h.Field(FieldLength)
	if err != nil {
		return 0, err
	}
	return v.U64, nil
}

// UniqueTerms returns doc's unique term count (the reserved
// "unique-terms" metadata field).
func (idx *Index) UniqueTerms(doc ids.DocID) (uint64, error) {
	h, err := idx.metadata.Get(doc)
	if err != nil {
		return 0, err
	}
	v, err := h.Field(FieldUniqueTerms)
	if err != nil {
		return 0, err
	}
	return v.U64, nil
}

// Lookup resolves a term string to its term_id.
func (idx *Index) Lookup(term string) (ids.TermID, bool) {
	return idx.dictionary.Lookup(term)
}

// TermOf resolves a term_id back to its term string.
func (idx *Index) TermOf(id ids.TermID) (string, bool) {
	return idx.dictionary.TermOf(id)
}

// PostingsFor returns the decoded postings record for term_id, sorted by
// doc_id ascending.
func (idx *Index) PostingsFor(term ids.TermID) (postings.Record[ids.TermID, ids.DocID], bool, error) {
	return idx.lexicon.PostingsFor(term)
}

// DocFreq returns the document frequency of term.
func (idx *Index) DocFreq(term ids.TermID) uint64 { return idx.lexicon.DocFreq(term) }

// CorpusTermCount returns the total corpus occurrence count of term.
func (idx *Index) CorpusTermCount(term ids.TermID) uint64 { return idx.lexicon.CorpusTermCount(term) }

// LabelOf returns doc's assigned label_id.
func (idx *Index) LabelOf(doc ids.DocID) (ids.LabelID, error) { return idx.labels.LabelOf(doc) }

// ClassOf resolves a label_id to its class_label string.
func (idx *Index) ClassOf(label ids.LabelID) (ids.ClassLabel, bool) { return idx.labels.ClassOf(label) }

// Metadata returns the underlying metadata store for field access beyond
// the reserved length/unique-terms fields.
func (idx *Index) Metadata() *metadata.Store { return idx.metadata }

// Close unmaps every underlying file, in the reverse order they were
// opened.
func (idx *Index) Close() error {
	var first error
	record := func(err error) {
		if err != nil && first == nil {
			first = err
		}
	}
	record(idx.metadata.Close())
	record(idx.labels.Close())
	record(idx.lexicon.Close())
	return first
}

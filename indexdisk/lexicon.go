package indexdisk

import (
	"io"
	"path/filepath"

	"golang.org/x/exp/mmap"

	"github.com/metatk/retrieval-core/cache"
	"github.com/metatk/retrieval-core/config"
	"github.com/metatk/retrieval-core/errs"
	"github.com/metatk/retrieval-core/hashtable"
	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/packed"
	"github.com/metatk/retrieval-core/postings"
)

// Lexicon is the mapping term_id -> byte offset into postings.db, plus
// per-term corpus statistics (document frequency and total corpus term
// count) derived by scanning postings.db once at Open. Spec §3 defines
// the lexicon as "monotonic by term_id; built after merge"; the offsets
// are written once during construction (aligned, mmap'd for direct
// access) while document-frequency/corpus-term-count are small enough
// to keep resident in memory, rebuilt by the one-time scan that
// "reading the lexicon" at open_index implies (spec §6).
//
// PostingsFor's decoded records are fronted by a cache.Shard of
// cache.DoubleLRU caches (spec §4.3's runtime-cache substrate, spec §2's
// "underpins chunk building, dictionary maps, and runtime caches"):
// repeated queries against hot terms (stopwords, common query terms)
// reuse the decoded Record instead of re-running the packed-codec
// decode loop against the mmap'd postings.db on every call.
type Lexicon struct {
	offsets     *AlignedU64
	db          *postingsDB
	docFreq     []uint64
	ctf         []uint64
	recordCache *cache.Shard[ids.TermID, postings.Record[ids.TermID, ids.DocID]]
}

// WriteLexiconOffsets writes postings.index from term_id-ordered byte
// offsets computed while the merge driver streams merged records to
// postings.db.
func WriteLexiconOffsets(dir string, offsets []uint64) error {
	return writeAlignedU64(filepath.Join(dir, FilePostingsIndex), offsets)
}

type postingsDB struct {
	mm      *mmap.ReaderAt
	len     int64
	cleanup func()
}

func openLexicon(dir string, cacheOpts config.Cache) (*Lexicon, error) {
	offsets, err := openAlignedU64(filepath.Join(dir, FilePostingsIndex))
	if err != nil {
		return nil, err
	}
	dbPath, cleanup, err := decompressPostingsDB(dir)
	if err != nil {
		offsets.Close()
		return nil, err
	}
	db, err := openPostingsDB(dbPath, cleanup)
	if err != nil {
		offsets.Close()
		cleanup()
		return nil, err
	}

	n := offsets.Len()
	docFreq := make([]uint64, n)
	ctf := make([]uint64, n)
	for termID := 0; termID < n; termID++ {
		off, err := offsets.Get(termID)
		if err != nil {
			offsets.Close()
			db.Close()
			return nil, err
		}
		rec, err := db.readRecordAt(off)
		if err != nil {
			offsets.Close()
			db.Close()
			return nil, err
		}
		docFreq[termID] = uint64(len(rec.Counts))
		var total uint64
		for _, c := range rec.Counts {
			total += c.Count
		}
		ctf[termID] = total
	}

	recordCache := cache.NewShard[ids.TermID, postings.Record[ids.TermID, ids.DocID]](
		cacheOpts.Shards, cacheOpts.MaxSize,
		func(t ids.TermID) uint64 { return hashtable.HashUint64(uint64(t)) })

	return &Lexicon{offsets: offsets, db: db, docFreq: docFreq, ctf: ctf, recordCache: recordCache}, nil
}

// PostingsFor decodes the full postings record for term, sorted by
// doc_id ascending (guaranteed by the merge step). Returns false if term
// is out of range. Decoded records are served from recordCache on a hit,
// avoiding a repeat mmap read and packed-codec decode for terms queried
// repeatedly.
func (l *Lexicon) PostingsFor(term ids.TermID) (postings.Record[ids.TermID, ids.DocID], bool, error) {
	i := int(term)
	if i < 0 || i >= l.offsets.Len() {
		return postings.Record[ids.TermID, ids.DocID]{}, false, nil
	}
	if rec, ok := l.recordCache.Get(term); ok {
		return rec, true, nil
	}
	off, err := l.offsets.Get(i)
	if err != nil {
		return postings.Record[ids.TermID, ids.DocID]{}, false, err
	}
	rec, err := l.db.readRecordAt(off)
	if err != nil {
		return postings.Record[ids.TermID, ids.DocID]{}, false, err
	}
	l.recordCache.Put(term, rec)
	return rec, true, nil
}

// DocFreq returns the number of documents containing term.
func (l *Lexicon) DocFreq(term ids.TermID) uint64 {
	i := int(term)
	if i < 0 || i >= len(l.docFreq) {
		return 0
	}
	return l.docFreq[i]
}

// CorpusTermCount returns the total number of occurrences of term across
// the corpus.
func (l *Lexicon) CorpusTermCount(term ids.TermID) uint64 {
	i := int(term)
	if i < 0 || i >= len(l.ctf) {
		return 0
	}
	return l.ctf[i]
}

func (l *Lexicon) Close() error {
	err1 := l.offsets.Close()
	err2 := l.db.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

func openPostingsDB(path string, cleanup func()) (*postingsDB, error) {
	mm, err := mmap.Open(path)
	if err != nil {
		return nil, errs.New(errs.KindIO, "indexdisk.openPostingsDB", err)
	}
	return &postingsDB{mm: mm, len: int64(mm.Len()), cleanup: cleanup}, nil
}

func (p *postingsDB) readRecordAt(offset uint64) (postings.Record[ids.TermID, ids.DocID], error) {
	section := io.NewSectionReader(p.mm, int64(offset), p.len-int64(offset))
	pr := packed.NewReader(section)
	rec, _, err := postings.ReadRecord[ids.TermID, ids.DocID](pr)
	if err != nil {
		return rec, errs.New(errs.KindCorrupt, "indexdisk.postingsDB.readRecordAt", err)
	}
	return rec, nil
}

func (p *postingsDB) Close() error {
	err := p.mm.Close()
	if p.cleanup != nil {
		p.cleanup()
	}
	return err
}

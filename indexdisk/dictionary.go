package indexdisk

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"

	"github.com/metatk/retrieval-core/errs"
	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/packed"
)

// Dictionary is the term vocabulary of a built index: a sorted list of
// (term, term_id) pairs for string-to-id lookup (termids.mapping) and a
// dense term_id-ordered list of terms for id-to-string lookup
// (termids.mapping.inverse). Both are small relative to postings.db and
// are loaded fully into memory at Open, matching spec §6's description
// of open_index reading the lexicon eagerly.
type Dictionary struct {
	sortedTerms []string
	sortedIDs   []ids.TermID
	inverse     []string // indexed by term_id
}

// WriteDictionary writes both dictionary files from an interning map
// built during index construction (term string -> densely assigned
// term_id).
func WriteDictionary(dir string, interned map[string]ids.TermID) error {
	inverse := make([]string, len(interned))
	for term, id := range interned {
		inverse[int(id)] = term
	}

	sortedTerms := make([]string, 0, len(interned))
	for term := range interned {
		sortedTerms = append(sortedTerms, term)
	}
	sort.Strings(sortedTerms)

	mappingPath := filepath.Join(dir, FileTermIDsMapping)
	f, err := os.OpenFile(mappingPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.New(errs.KindIO, "indexdisk.WriteDictionary", err)
	}
	buf := bufio.NewWriterSize(f, 1<<20)
	pw := packed.NewWriter(buf)
	if _, err := pw.WriteUvarint(uint64(len(sortedTerms))); err != nil {
		f.Close()
		return errs.New(errs.KindIO, "indexdisk.WriteDictionary", err)
	}
	for _, term := range sortedTerms {
		if _, err := pw.WriteString(term); err != nil {
			f.Close()
			return errs.New(errs.KindIO, "indexdisk.WriteDictionary", err)
		}
		if _, err := packed.WriteUint64(pw, interned[term]); err != nil {
			f.Close()
			return errs.New(errs.KindIO, "indexdisk.WriteDictionary", err)
		}
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return errs.New(errs.KindIO, "indexdisk.WriteDictionary", err)
	}
	if err := f.Close(); err != nil {
		return errs.New(errs.KindIO, "indexdisk.WriteDictionary", err)
	}

	inversePath := filepath.Join(dir, FileTermIDsMappingInverse)
	f2, err := os.OpenFile(inversePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.New(errs.KindIO, "indexdisk.WriteDictionary", err)
	}
	buf2 := bufio.NewWriterSize(f2, 1<<20)
	pw2 := packed.NewWriter(buf2)
	for _, term := range inverse {
		if _, err := pw2.WriteString(term); err != nil {
			f2.Close()
			return errs.New(errs.KindIO, "indexdisk.WriteDictionary", err)
		}
	}
	if err := buf2.Flush(); err != nil {
		f2.Close()
		return errs.New(errs.KindIO, "indexdisk.WriteDictionary", err)
	}
	return f2.Close()
}

// OpenDictionary reads both dictionary files fully into memory.
func OpenDictionary(dir string) (*Dictionary, error) {
	mappingPath := filepath.Join(dir, FileTermIDsMapping)
	f, err := os.Open(mappingPath)
	if err != nil {
		return nil, errs.New(errs.KindIO, "indexdisk.OpenDictionary", err)
	}
	defer f.Close()
	buf := bufio.NewReaderSize(f, 1<<20)
	pr := packed.NewReader(buf)
	count, _, err := pr.ReadUvarint()
	if err != nil {
		return nil, errs.New(errs.KindCorrupt, "indexdisk.OpenDictionary", err)
	}
	sortedTerms := make([]string, 0, count)
	sortedIDs := make([]ids.TermID, 0, count)
	for i := uint64(0); i < count; i++ {
		term, _, err := pr.ReadString()
		if err != nil {
			return nil, errs.New(errs.KindCorrupt, "indexdisk.OpenDictionary", err)
		}
		id, _, err := packed.ReadUint64[ids.TermID](pr)
		if err != nil {
			return nil, errs.New(errs.KindCorrupt, "indexdisk.OpenDictionary", err)
		}
		sortedTerms = append(sortedTerms, term)
		sortedIDs = append(sortedIDs, id)
	}

	inversePath := filepath.Join(dir, FileTermIDsMappingInverse)
	f2, err := os.Open(inversePath)
	if err != nil {
		return nil, errs.New(errs.KindIO, "indexdisk.OpenDictionary", err)
	}
	defer f2.Close()
	buf2 := bufio.NewReaderSize(f2, 1<<20)
	pr2 := packed.NewReader(buf2)
	inverse := make([]string, 0, len(sortedTerms))
	for {
		// ReadString's error is treated as end-of-file here, not just
		// ErrCorrupt on a genuinely truncated record: the inverse file
		// has no length prefix, so a mid-record truncation and a clean
		// EOF look identical from this loop's point of view. The sorted
		// mapping's own count prefix is the source of truth for
		// NumTerms(); a short inverse file beyond that is a corruption
		// that surfaces only if TermOf is later called for the missing
		// ids, not here.
		term, _, err := pr2.ReadString()
		if err != nil {
			break
		}
		inverse = append(inverse, term)
	}

	return &Dictionary{sortedTerms: sortedTerms, sortedIDs: sortedIDs, inverse: inverse}, nil
}

// Lookup returns the term_id for term via binary search over the sorted
// vocabulary.
func (d *Dictionary) Lookup(term string) (ids.TermID, bool) {
	i := sort.SearchStrings(d.sortedTerms, term)
	if i >= len(d.sortedTerms) || d.sortedTerms[i] != term {
		return 0, false
	}
	return d.sortedIDs[i], true
}

// TermOf returns the term string for id.
func (d *Dictionary) TermOf(id ids.TermID) (string, bool) {
	i := int(id)
	if i < 0 || i >= len(d.inverse) {
		return "", false
	}
	return d.inverse[i], true
}

// NumTerms returns the size of the vocabulary.
func (d *Dictionary) NumTerms() int { return len(d.sortedTerms) }

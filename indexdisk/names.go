// Package indexdisk implements the on-disk inverted index file set of
// spec §6: the term dictionary (termids.mapping / .inverse), the
// postings lexicon and data file (postings.index / postings.db), the
// document label vectors (docs.labels / .mapping), and the metadata
// file pair, tied together by an Index type that memory-maps the
// aligned vectors and the postings data file and keeps the (small)
// dictionary and lexicon resident in memory.
//
// File layout and the Open/warm-up idiom are grounded on the teacher's
// compactindexsized (header eagerly decoded, bucket data read lazily
// through an io.ReaderAt) and bucketteer (OpenMMAP using
// golang.org/x/exp/mmap, dual-path Open/OpenMMAP) packages.
package indexdisk

const (
	FileTermIDsMapping        = "termids.mapping"
	FileTermIDsMappingInverse = "termids.mapping.inverse"
	FilePostingsIndex         = "postings.index"
	FilePostingsDB            = "postings.db"
	FileDocsLabels            = "docs.labels"
	FileDocsLabelsMapping     = "docs.labels.mapping"
	FileMetadataIndex         = "metadata.index"
	FileMetadataDB            = "metadata.db"

	// FilePostingsCompressed marks postings.db as zstd-compressed (spec
	// §4.5 step 7: "optionally compress the final postings file; the
	// lexicon is always uncompressed"). Its presence, not its content,
	// is the signal; Open checks only for the file's existence.
	FilePostingsCompressed = "postings.db.zst.marker"
)

// Reserved leading metadata schema fields (spec §3: "two reserved
// leading fields length:u64 and unique-terms:u64; identical for every
// document").
const (
	FieldLength      = "length"
	FieldUniqueTerms = "unique-terms"
)

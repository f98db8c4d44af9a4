package indexing

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"

	"github.com/metatk/retrieval-core/errs"
	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/indexdisk"
	"github.com/metatk/retrieval-core/metadata"
	"github.com/metatk/retrieval-core/postings"
)

// Document is one corpus item submitted to Build. ID must be dense,
// starting at 0, and documents must be supplied in ascending ID order
// (the metadata, label, and length files are positional vectors indexed
// by doc_id).
type Document struct {
	ID     ids.DocID
	Text   string
	Label  ids.ClassLabel
	Extra  []metadata.Value // values for any schema fields beyond the reserved length/unique-terms pair
}

// Options configures a Build run.
type Options struct {
	// RAMBudgetBytes is the accumulator flush threshold of spec §4.5
	// step 4.
	RAMBudgetBytes int
	// NumWorkers bounds parallel tokenization (spec §5's thread pool).
	NumWorkers int
	// ExtraSchema describes Document.Extra's fields, appended after the
	// two reserved length/unique-terms fields.
	ExtraSchema []metadata.Field
	// Compress zstd-compresses the final postings.db, the optional last
	// step of spec §4.5 ("the lexicon is always uncompressed").
	Compress bool
}

func (o Options) withDefaults() Options {
	if o.RAMBudgetBytes <= 0 {
		o.RAMBudgetBytes = 1 << 30 // 1 GiB, spec §4.5's example budget
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = 4
	}
	return o
}

// Build runs the full construction pipeline of spec §4.5 against docs,
// writing a complete index directory to dir. Documents must be provided
// in ascending ID order; a crash mid-build leaves a partial directory
// that must be rebuilt from scratch (spec §4.5: "a crash mid-merge is a
// fatal rebuild condition; no journaling").
func Build(dir string, docs []Document, analyzer Analyzer, opts Options) error {
	opts = opts.withDefaults()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.New(errs.KindIO, "indexing.Build", err)
	}

	klog.Infof("index build starting: dir=%s docs=%d workers=%d", dir, len(docs), opts.NumWorkers)

	termCounts, err := tokenizeParallel(docs, analyzer, opts.NumWorkers)
	if err != nil {
		return err
	}

	interned := make(map[string]ids.TermID)
	labels := make([]ids.LabelID, len(docs))
	labelOf := make(map[ids.ClassLabel]ids.LabelID)
	var classNames []ids.ClassLabel

	schema := metadata.Schema{Fields: append([]metadata.Field{
		{Name: indexdisk.FieldLength, Type: metadata.FieldUint64},
		{Name: indexdisk.FieldUniqueTerms, Type: metadata.FieldUint64},
	}, opts.ExtraSchema...)}
	metaWriter, err := metadata.NewWriter(
		filepath.Join(dir, indexdisk.FileMetadataDB),
		filepath.Join(dir, indexdisk.FileMetadataIndex),
		schema)
	if err != nil {
		return err
	}

	acc := newAccumulator()
	var chunkPaths []string
	chunkSeq := 0

	flushIfNeeded := func() error {
		if acc.bytesUsed() <= opts.RAMBudgetBytes {
			return nil
		}
		path := filepath.Join(dir, fmt.Sprintf("chunk-%05d.tmp", chunkSeq))
		chunkSeq++
		if err := acc.flush(path); err != nil {
			return err
		}
		chunkPaths = append(chunkPaths, path)
		klog.V(2).Infof("accumulator flushed: chunk=%s", path)
		return nil
	}

	for i, doc := range docs {
		counts := termCounts[i]

		var length uint64
		for _, c := range counts {
			length += c
		}
		for term, count := range counts {
			termID, ok := interned[term]
			if !ok {
				termID = ids.TermID(len(interned))
				interned[term] = termID
			}
			acc.add(termID, doc.ID, count)
		}
		if err := flushIfNeeded(); err != nil {
			metaWriter.Close()
			return err
		}

		values := append([]metadata.Value{
			metadata.Uint64Value(length),
			metadata.Uint64Value(uint64(len(counts))),
		}, doc.Extra...)
		if err := metaWriter.PutDoc(values); err != nil {
			metaWriter.Close()
			return err
		}

		label, ok := labelOf[doc.Label]
		if !ok {
			label = ids.LabelID(len(classNames))
			labelOf[doc.Label] = label
			classNames = append(classNames, doc.Label)
		}
		labels[i] = label
	}
	if err := metaWriter.Close(); err != nil {
		return err
	}

	if acc.m.Size() > 0 {
		path := filepath.Join(dir, fmt.Sprintf("chunk-%05d.tmp", chunkSeq))
		chunkSeq++
		if err := acc.flush(path); err != nil {
			return err
		}
		chunkPaths = append(chunkPaths, path)
	}

	if err := indexdisk.WriteLabels(dir, labels, classNames); err != nil {
		return err
	}
	if err := indexdisk.WriteDictionary(dir, interned); err != nil {
		return err
	}

	if err := mergeChunks(dir, chunkPaths, len(interned)); err != nil {
		return err
	}

	for _, p := range chunkPaths {
		os.Remove(p)
	}

	if opts.Compress {
		if err := indexdisk.CompressPostingsFile(dir); err != nil {
			return err
		}
		klog.V(2).Infof("postings.db compressed: dir=%s", dir)
	}

	klog.Infof("index build complete: dir=%s terms=%d chunks_merged=%d", dir, len(interned), len(chunkPaths))
	return nil
}

// tokenizeParallel analyzes every document concurrently (spec §4.5:
// "multiple worker threads tokenize documents in parallel"); ordering
// does not matter for merging, but results are still indexed by
// position so the later single-writer accumulation pass can proceed in
// doc_id order.
func tokenizeParallel(docs []Document, analyzer Analyzer, numWorkers int) ([]map[string]uint64, error) {
	results := make([]map[string]uint64, len(docs))
	g := new(errgroup.Group)
	g.SetLimit(numWorkers)
	for i, doc := range docs {
		i, doc := i, doc
		g.Go(func() error {
			counts, err := analyzer.Analyze(doc.Text)
			if err != nil {
				return errs.New(errs.KindBadArgument, "indexing.tokenizeParallel", err)
			}
			results[i] = counts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// mergeChunks runs the external k-way merge of spec §4.4 over every
// flushed chunk file, writing postings.db and the term_id -> offset
// lexicon (postings.index) in the same pass.
func mergeChunks(dir string, chunkPaths []string, numTerms int) error {
	readers := make([]*postings.ChunkReader[ids.TermID, ids.DocID], 0, len(chunkPaths))
	for _, p := range chunkPaths {
		r, err := postings.OpenChunkReader[ids.TermID, ids.DocID](p)
		if err != nil {
			closeReaders(readers)
			return err
		}
		readers = append(readers, r)
	}

	out, err := postings.NewChunkWriter[ids.TermID, ids.DocID](filepath.Join(dir, indexdisk.FilePostingsDB))
	if err != nil {
		closeReaders(readers)
		return err
	}

	offsets := make([]uint64, numTerms)
	_, err = postings.Merge[ids.TermID, ids.DocID](readers, out, func(p postings.MergeProgress) {
		klog.V(3).Infof("merge progress: bytes_read=%d total_bytes=%d", p.BytesRead, p.TotalBytes)
	}, func(term ids.TermID, offset uint64) {
		offsets[int(term)] = offset
	})
	closeReaders(readers)
	if err != nil {
		out.Abort()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return indexdisk.WriteLexiconOffsets(dir, offsets)
}

func closeReaders(readers []*postings.ChunkReader[ids.TermID, ids.DocID]) {
	for _, r := range readers {
		r.Close()
	}
}

package postings

import (
	"sort"

	"github.com/metatk/retrieval-core/errs"
)

// MergeProgress is reported periodically during Merge so a caller can
// surface build progress; BytesRead/TotalBytes sum across all open
// chunk readers.
type MergeProgress struct {
	BytesRead  uint64
	TotalBytes uint64
}

// Merge performs the external k-way merge of spec §4.4: open chunks are
// compared by current head key, every reader whose head equals the
// minimum has its Counts concatenated into one merged record, emitted in
// PrimaryKey order, and those readers are advanced. It returns the
// number of unique primary keys emitted.
//
// Ties within a single merged record's Counts (the same secondary key
// appearing in more than one chunk) are summed and sorted by Key, the
// safety invariant spec §4.5 step 5 calls for even though correct
// per-document chunk writes should never produce them.
// onRecordWritten, if non-nil, is called with each emitted record's
// PrimaryKey and the byte offset it was written at (out.Offset() before
// the write), letting a caller build a term_id -> offset lexicon
// alongside the merge in a single pass.
func Merge[K ~uint64, S ~uint64](readers []*ChunkReader[K, S], out *ChunkWriter[K, S], onProgress func(MergeProgress), onRecordWritten func(key K, offset uint64)) (int, error) {
	total := uint64(0)
	for _, r := range readers {
		total += r.TotalBytes
	}

	active := make([]*ChunkReader[K, S], 0, len(readers))
	for _, r := range readers {
		if !r.Exhausted() {
			active = append(active, r)
		}
	}

	uniqueKeys := 0
	for len(active) > 0 {
		sort.Slice(active, func(i, j int) bool {
			return active[i].Current().PrimaryKey < active[j].Current().PrimaryKey
		})
		minKey := active[0].Current().PrimaryKey

		// equal_range of readers whose current key equals the minimum.
		end := 1
		for end < len(active) && active[end].Current().PrimaryKey == minKey {
			end++
		}

		var merged []Count[S]
		for _, r := range active[:end] {
			merged = append(merged, r.Current().Counts...)
		}
		merged = sumAdjacentDuplicates(merged)

		offset := out.Offset()
		if err := out.Write(Record[K, S]{PrimaryKey: minKey, Counts: merged}); err != nil {
			return uniqueKeys, err
		}
		if onRecordWritten != nil {
			onRecordWritten(minKey, offset)
		}
		uniqueKeys++

		for _, r := range active[:end] {
			if err := r.Advance(); err != nil {
				return uniqueKeys, errs.New(errs.KindCorrupt, "postings.Merge", err)
			}
		}

		// Remove exhausted readers from the active set.
		remaining := active[:0]
		for _, r := range active {
			if !r.Exhausted() {
				remaining = append(remaining, r)
			}
		}
		active = remaining

		if onProgress != nil {
			read := uint64(0)
			for _, r := range readers {
				read += r.BytesRead
			}
			onProgress(MergeProgress{BytesRead: read, TotalBytes: total})
		}
	}
	return uniqueKeys, nil
}

// sumAdjacentDuplicates sorts counts by Key and sums counts that share a
// key, satisfying spec §4.5's duplicate-doc_id safety invariant.
func sumAdjacentDuplicates[S ~uint64](counts []Count[S]) []Count[S] {
	if len(counts) < 2 {
		return counts
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Key < counts[j].Key })
	out := counts[:1]
	for _, c := range counts[1:] {
		last := &out[len(out)-1]
		if last.Key == c.Key {
			last.Count += c.Count
		} else {
			out = append(out, c)
		}
	}
	return out
}

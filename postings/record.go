// Package postings implements the postings data of spec §4.4: an
// in-memory record type, a chunk writer/reader pair for streaming packed
// records to and from disk, and a multi-way external merge used both
// during index construction (merging per-accumulator-flush chunks) and,
// degenerately, by callers that want to merge two already-sealed
// postings files.
//
// The chunk format and merge shape are grounded on the teacher's
// gsfa/linkedlog package (length-prefixed payload records written
// through a buffered writer, read back by ReadAt) and the accumulator/
// seal flow of compactindexsized/build.go.
package postings

import (
	"github.com/metatk/retrieval-core/errs"
	"github.com/metatk/retrieval-core/packed"
)

// Count is one (secondary_key, count) pair within a Record, e.g.
// (doc_id, term_frequency).
type Count[S ~uint64] struct {
	Key   S
	Count uint64
}

// Record is the in-memory postings list for one primary key, e.g. all
// (doc_id, term_frequency) pairs for a single term_id.
type Record[K ~uint64, S ~uint64] struct {
	PrimaryKey K
	Counts     []Count[S]
}

// WriteTo packs the record as: K, counts.len() varint, then each (S,
// count) pair as two varints, per spec §4.4. The caller is responsible
// for having sorted Counts by Key beforehand (delta-encoding of Key is
// not applied here; it is an optional on-disk optimization spec leaves
// to the implementation and this codec does not need it to be correct).
func (r Record[K, S]) WriteTo(w *packed.Writer) (int, error) {
	n := 0
	nn, err := packed.WriteUint64(w, r.PrimaryKey)
	n += nn
	if err != nil {
		return n, err
	}
	nn, err = w.WriteUvarint(uint64(len(r.Counts)))
	n += nn
	if err != nil {
		return n, err
	}
	for _, c := range r.Counts {
		nn, err = packed.WriteUint64(w, c.Key)
		n += nn
		if err != nil {
			return n, err
		}
		nn, err = w.WriteUvarint(c.Count)
		n += nn
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadRecord reads one record written by WriteTo. Callers (normally a
// ChunkReader, which tracks total_bytes/bytes_read) are responsible for
// knowing a record is present before calling; any truncation mid-record
// is reported as errs.KindCorrupt.
func ReadRecord[K ~uint64, S ~uint64](r *packed.Reader) (Record[K, S], int, error) {
	var rec Record[K, S]
	n := 0
	pk, nn, err := packed.ReadUint64[K](r)
	n += nn
	if err != nil {
		return rec, n, err
	}
	rec.PrimaryKey = pk

	count, nn, err := r.ReadUvarint()
	n += nn
	if err != nil {
		return rec, n, errs.New(errs.KindCorrupt, "postings.ReadRecord", err)
	}
	rec.Counts = make([]Count[S], 0, count)
	for i := uint64(0); i < count; i++ {
		key, nn, err := packed.ReadUint64[S](r)
		n += nn
		if err != nil {
			return rec, n, errs.New(errs.KindCorrupt, "postings.ReadRecord", err)
		}
		cnt, nn, err := r.ReadUvarint()
		n += nn
		if err != nil {
			return rec, n, errs.New(errs.KindCorrupt, "postings.ReadRecord", err)
		}
		rec.Counts = append(rec.Counts, Count[S]{Key: key, Count: cnt})
	}
	return rec, n, nil
}

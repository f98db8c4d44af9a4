package postings

import (
	"bufio"
	"os"

	"github.com/metatk/retrieval-core/errs"
	"github.com/metatk/retrieval-core/packed"
)

// ChunkWriter streams packed Records to a single on-disk chunk file, the
// unit of external-merge input described in spec §4.4. It mirrors the
// teacher's linkedlog.LinkedLog: an os.File wrapped in a large bufio
// buffer, with the caller responsible for ordering writes (sorted by
// PrimaryKey, each record's Counts sorted by Key) before calling Write.
type ChunkWriter[K ~uint64, S ~uint64] struct {
	file   *os.File
	buf    *bufio.Writer
	pw     *packed.Writer
	offset uint64
}

// NewChunkWriter creates (or truncates) path and prepares it for
// streaming Record writes.
func NewChunkWriter[K ~uint64, S ~uint64](path string) (*ChunkWriter[K, S], error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errs.New(errs.KindIO, "postings.NewChunkWriter", err)
	}
	buf := bufio.NewWriterSize(f, 1<<20)
	return &ChunkWriter[K, S]{file: f, buf: buf, pw: packed.NewWriter(buf)}, nil
}

// Write appends rec to the chunk and advances Offset by the number of
// bytes written.
func (c *ChunkWriter[K, S]) Write(rec Record[K, S]) error {
	n, err := rec.WriteTo(c.pw)
	c.offset += uint64(n)
	if err != nil {
		return errs.New(errs.KindIO, "postings.ChunkWriter.Write", err)
	}
	return nil
}

// Offset returns the number of bytes written so far.
func (c *ChunkWriter[K, S]) Offset() uint64 { return c.offset }

// Close flushes the buffer and closes the underlying file. Partial chunk
// files from a failed indexing run are the caller's responsibility to
// delete (spec §4.5: "partial chunk files are deleted on drop").
func (c *ChunkWriter[K, S]) Close() error {
	if err := c.buf.Flush(); err != nil {
		c.file.Close()
		return errs.New(errs.KindIO, "postings.ChunkWriter.Close", err)
	}
	if err := c.file.Close(); err != nil {
		return errs.New(errs.KindIO, "postings.ChunkWriter.Close", err)
	}
	return nil
}

// Abort closes and deletes the chunk file, used when a build fails
// before the chunk is complete.
func (c *ChunkWriter[K, S]) Abort() error {
	name := c.file.Name()
	c.file.Close()
	return os.Remove(name)
}

// ChunkReader owns one chunk file opened for sequential reading. It
// tracks TotalBytes and BytesRead as spec §4.4 requires, and exposes
// Next to deserialize records in the order they were written (already
// sorted by PrimaryKey by the writer side), which is what the k-way
// merge needs to compare current heads across readers.
type ChunkReader[K ~uint64, S ~uint64] struct {
	file       *os.File
	buf        *bufio.Reader
	pr         *packed.Reader
	TotalBytes uint64
	BytesRead  uint64

	cur     Record[K, S]
	hasCur  bool
	exhaust bool
}

// OpenChunkReader opens path and positions at the first record, if any.
func OpenChunkReader[K ~uint64, S ~uint64](path string) (*ChunkReader[K, S], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.New(errs.KindIO, "postings.OpenChunkReader", err)
	}
	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, errs.New(errs.KindIO, "postings.OpenChunkReader", err)
	}
	buf := bufio.NewReaderSize(f, 1<<20)
	cr := &ChunkReader[K, S]{
		file:       f,
		buf:        buf,
		pr:         packed.NewReader(buf),
		TotalBytes: uint64(stat.Size()),
	}
	if cr.TotalBytes == 0 {
		cr.exhaust = true
		return cr, nil
	}
	if err := cr.advance(); err != nil {
		f.Close()
		return nil, err
	}
	return cr, nil
}

// advance reads the next record into cur, or marks the reader exhausted
// once BytesRead reaches TotalBytes.
func (c *ChunkReader[K, S]) advance() error {
	if c.BytesRead >= c.TotalBytes {
		c.exhaust = true
		c.hasCur = false
		return nil
	}
	rec, n, err := ReadRecord[K, S](c.pr)
	if err != nil {
		return err
	}
	c.BytesRead += uint64(n)
	c.cur = rec
	c.hasCur = true
	return nil
}

// Exhausted reports whether every record has been consumed.
func (c *ChunkReader[K, S]) Exhausted() bool { return c.exhaust && !c.hasCur }

// Current returns the record at the read head. Callers must check
// Exhausted first.
func (c *ChunkReader[K, S]) Current() Record[K, S] { return c.cur }

// Advance moves the read head to the next record (spec §4.4's
// "operator++").
func (c *ChunkReader[K, S]) Advance() error { return c.advance() }

// Close closes the underlying file; it does not delete it (Build removes
// its chunk files itself after the merge).
func (c *ChunkReader[K, S]) Close() error {
	if err := c.file.Close(); err != nil {
		return errs.New(errs.KindIO, "postings.ChunkReader.Close", err)
	}
	return nil
}

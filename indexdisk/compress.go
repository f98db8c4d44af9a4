package indexdisk

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"

	"github.com/metatk/retrieval-core/errs"
)

// CompressPostingsFile zstd-compresses the just-merged postings.db in
// place, the optional final step of spec §4.5 ("optionally compress the
// final postings file; the lexicon is always uncompressed"). It is the
// teacher's compression library of choice (github.com/klauspost/compress),
// used the way linkedlog/compress.go round-trips small integer streams.
//
// Because the lexicon indexes postings.db by absolute byte offset,
// compressing breaks direct seeking; Open compensates by decompressing
// the whole file back out before mapping it (see decompressPostingsDB).
func CompressPostingsFile(dir string) error {
	const op = "indexdisk.CompressPostingsFile"
	src := filepath.Join(dir, FilePostingsDB)
	dst := src + ".tmp"

	in, err := os.Open(src)
	if err != nil {
		return errs.New(errs.KindIO, op, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return errs.New(errs.KindIO, op, err)
	}

	enc, err := zstd.NewWriter(out)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return errs.New(errs.KindIO, op, err)
	}
	if _, err := io.Copy(enc, in); err != nil {
		enc.Close()
		out.Close()
		os.Remove(dst)
		return errs.New(errs.KindIO, op, err)
	}
	if err := enc.Close(); err != nil {
		out.Close()
		os.Remove(dst)
		return errs.New(errs.KindIO, op, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return errs.New(errs.KindIO, op, err)
	}

	if err := os.Rename(dst, src); err != nil {
		return errs.New(errs.KindIO, op, err)
	}
	marker, err := os.Create(filepath.Join(dir, FilePostingsCompressed))
	if err != nil {
		return errs.New(errs.KindIO, op, err)
	}
	return marker.Close()
}

// decompressPostingsDB is Open's counterpart to CompressPostingsFile: if
// the compressed marker is present, it decompresses postings.db into a
// scratch file alongside it and returns that scratch path for mmap'ing,
// plus a cleanup func removing the scratch file.
// If the marker is absent, it returns path unchanged and a no-op
// cleanup.
func decompressPostingsDB(dir string) (path string, cleanup func(), err error) {
	const op = "indexdisk.decompressPostingsDB"
	src := filepath.Join(dir, FilePostingsDB)
	markerPath := filepath.Join(dir, FilePostingsCompressed)
	if _, statErr := os.Stat(markerPath); os.IsNotExist(statErr) {
		return src, func() {}, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return "", nil, errs.New(errs.KindIO, op, err)
	}
	defer in.Close()

	dec, err := zstd.NewReader(in)
	if err != nil {
		return "", nil, errs.New(errs.KindIO, op, err)
	}
	defer dec.Close()

	scratch, err := os.CreateTemp(dir, "postings-*.db")
	if err != nil {
		return "", nil, errs.New(errs.KindIO, op, err)
	}
	if _, err := io.Copy(scratch, dec); err != nil {
		scratch.Close()
		os.Remove(scratch.Name())
		return "", nil, errs.New(errs.KindCorrupt, op, err)
	}
	if err := scratch.Close(); err != nil {
		os.Remove(scratch.Name())
		return "", nil, errs.New(errs.KindIO, op, err)
	}

	scratchPath := scratch.Name()
	return scratchPath, func() { os.Remove(scratchPath) }, nil
}

package indexdisk

import (
	"encoding/binary"

	"golang.org/x/exp/mmap"

	"github.com/metatk/retrieval-core/errs"
)

// AlignedU64 is a memory-mapped dense little-endian uint64 vector, read
// with zero-copy random access (spec §6: "all aligned vectors are
// little-endian with a fixed element size; they are memory-mappable").
type AlignedU64 struct {
	r   *mmap.ReaderAt
	len int
}

func openAlignedU64(path string) (*AlignedU64, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, errs.New(errs.KindIO, "indexdisk.openAlignedU64", err)
	}
	if r.Len()%8 != 0 {
		r.Close()
		return nil, errs.New(errs.KindCorrupt, "indexdisk.openAlignedU64", errMisaligned)
	}
	return &AlignedU64{r: r, len: r.Len() / 8}, nil
}

func (v *AlignedU64) Len() int { return v.len }

func (v *AlignedU64) Get(i int) (uint64, error) {
	if i < 0 || i >= v.len {
		return 0, errs.New(errs.KindBadArgument, "indexdisk.AlignedU64.Get", errIndexOutOfRange)
	}
	var buf [8]byte
	if _, err := v.r.ReadAt(buf[:], int64(i)*8); err != nil {
		return 0, errs.New(errs.KindIO, "indexdisk.AlignedU64.Get", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func (v *AlignedU64) Close() error {
	if err := v.r.Close(); err != nil {
		return errs.New(errs.KindIO, "indexdisk.AlignedU64.Close", err)
	}
	return nil
}

func writeAlignedU64(path string, values []uint64) error {
	return writeAlignedVector(path, len(values), 8, func(i int, buf []byte) {
		binary.LittleEndian.PutUint64(buf, values[i])
	})
}

// AlignedU32 is the u32 analogue of AlignedU64, used for docs.labels.
type AlignedU32 struct {
	r   *mmap.ReaderAt
	len int
}

func openAlignedU32(path string) (*AlignedU32, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, errs.New(errs.KindIO, "indexdisk.openAlignedU32", err)
	}
	if r.Len()%4 != 0 {
		r.Close()
		return nil, errs.New(errs.KindCorrupt, "indexdisk.openAlignedU32", errMisaligned)
	}
	return &AlignedU32{r: r, len: r.Len() / 4}, nil
}

func (v *AlignedU32) Len() int { return v.len }

func (v *AlignedU32) Get(i int) (uint32, error) {
	if i < 0 || i >= v.len {
		return 0, errs.New(errs.KindBadArgument, "indexdisk.AlignedU32.Get", errIndexOutOfRange)
	}
	var buf [4]byte
	if _, err := v.r.ReadAt(buf[:], int64(i)*4); err != nil {
		return 0, errs.New(errs.KindIO, "indexdisk.AlignedU32.Get", err)
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (v *AlignedU32) Close() error {
	if err := v.r.Close(); err != nil {
		return errs.New(errs.KindIO, "indexdisk.AlignedU32.Close", err)
	}
	return nil
}

func writeAlignedU32(path string, values []uint32) error {
	return writeAlignedVector(path, len(values), 4, func(i int, buf []byte) {
		binary.LittleEndian.PutUint32(buf, values[i])
	})
}

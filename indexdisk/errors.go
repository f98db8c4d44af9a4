package indexdisk

import (
	"os"

	"fmt"

	"github.com/metatk/retrieval-core/errs"
)

var (
	errMisaligned      = fmt.Errorf("indexdisk: aligned vector file size is not a multiple of the element size")
	errIndexOutOfRange = fmt.Errorf("indexdisk: index out of range")
	errTermNotFound    = fmt.Errorf("indexdisk: term not found in dictionary")
	errDocOutOfRange   = fmt.Errorf("indexdisk: doc_id out of range")
)

// writeAlignedVector writes n fixed-size elements to path via fill,
// which encodes element i into buf.
func writeAlignedVector(path string, n, elemSize int, fill func(i int, buf []byte)) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.New(errs.KindIO, "indexdisk.writeAlignedVector", err)
	}
	defer f.Close()
	buf := make([]byte, elemSize)
	for i := 0; i < n; i++ {
		fill(i, buf)
		if _, err := f.Write(buf); err != nil {
			return errs.New(errs.KindIO, "indexdisk.writeAlignedVector", err)
		}
	}
	return nil
}

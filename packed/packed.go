// Package packed implements the incremental packed integer/float/string
// codec used for every persisted structure in this module: postings
// chunks, the lexicon, metadata records, and index headers.
//
// Encodings are bit-exact:
//
//   - unsigned integers: base-128 varint, little-endian seven-bit groups,
//     continuation bit set in all but the last byte. This is the same
//     format as encoding/binary's Uvarint, which is used directly.
//   - booleans: a single-byte varint of 0 or 1.
//   - signed integers: the ZigZag transform (n<<1)^(n>>(bits-1)) followed
//     by unsigned varint encoding. This is bit-for-bit what
//     encoding/binary's Varint already does, so it is used directly.
//   - IEEE doubles: a signed mantissa/exponent pair derived from
//     math.Frexp, with trailing zero mantissa bytes shrunk away.
//   - strings: raw bytes followed by a single NUL terminator.
//
// Composition over pairs, slices and opaque integer newtypes is provided
// by the generic Write*/Read* helpers below.
package packed

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/valyala/bytebufferpool"
)

// ErrCorrupt is returned when the input stream ends mid-value.
var ErrCorrupt = fmt.Errorf("packed: corrupt or truncated stream")

// ErrNulInString is returned by WriteString when s contains an embedded NUL.
var ErrNulInString = fmt.Errorf("packed: string contains embedded NUL byte")

// mantissaDigits is the number of significant bits kept in the mantissa
// produced by math.Frexp (the full float64 significand, including the
// implicit leading bit).
const mantissaDigits = 53

// Writer is a thin byte-counting wrapper over an io.Writer that implements
// the packed encodings.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w for packed encoding.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteUvarint writes v as an unsigned varint and returns the number of
// bytes written.
func (w *Writer) WriteUvarint(v uint64) (int, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.B = append(buf.B, make([]byte, binary.MaxVarintLen64)...)
	n := binary.PutUvarint(buf.B, v)
	return w.w.Write(buf.B[:n])
}

// WriteVarint writes v as a ZigZag-then-varint signed integer.
func (w *Writer) WriteVarint(v int64) (int, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	buf.B = append(buf.B, make([]byte, binary.MaxVarintLen64)...)
	n := binary.PutVarint(buf.B, v)
	return w.w.Write(buf.B[:n])
}

// WriteBool writes a single-byte varint of 0 or 1.
func (w *Writer) WriteBool(v bool) (int, error) {
	if v {
		return w.WriteUvarint(1)
	}
	return w.WriteUvarint(0)
}

// WriteFloat64 writes v as the shrunk mantissa/exponent varint pair
// described in the package doc.
func (w *Writer) WriteFloat64(v float64) (int, error) {
	mantissa, exponent := encodeFloat64(v)
	n1, err := w.WriteVarint(mantissa)
	if err != nil {
		return n1, err
	}
	n2, err := w.WriteVarint(int64(exponent))
	return n1 + n2, err
}

func encodeFloat64(v float64) (mantissa int64, exponent int) {
	frac, exp := math.Frexp(v)
	mantissa = int64(frac * (1 << mantissaDigits))
	exponent = exp - mantissaDigits
	for mantissa != 0 && mantissa&0xff == 0 {
		mantissa >>= 8
		exponent += 8
	}
	return mantissa, exponent
}

// WriteString writes s as raw bytes followed by a NUL terminator. s must
// not contain an embedded NUL.
func (w *Writer) WriteString(s string) (int, error) {
	if containsNul(s) {
		return 0, ErrNulInString
	}
	n, err := io.WriteString(w.w, s)
	if err != nil {
		return n, err
	}
	n2, err := w.w.Write([]byte{0})
	return n + n2, err
}

func containsNul(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return true
		}
	}
	return false
}

// Reader is a thin byte-counting wrapper over a byte-at-a-time reader that
// implements the packed decodings.
type Reader struct {
	r interface {
		io.Reader
		io.ByteReader
	}
}

// NewReader wraps r for packed decoding. If r does not already implement
// io.ByteReader it is wrapped in a bufio.Reader.
func NewReader(r io.Reader) *Reader {
	if br, ok := r.(interface {
		io.Reader
		io.ByteReader
	}); ok {
		return &Reader{r: br}
	}
	return &Reader{r: bufio.NewReader(r)}
}

// ReadUvarint reads an unsigned varint and the number of bytes consumed.
func (r *Reader) ReadUvarint() (uint64, int, error) {
	v, err := binary.ReadUvarint(r.r)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, 0, ErrCorrupt
		}
		return 0, 0, err
	}
	return v, uvarintLen(v), nil
}

// ReadVarint reads a ZigZag-encoded signed varint and the number of bytes
// consumed.
func (r *Reader) ReadVarint() (int64, int, error) {
	v, err := binary.ReadVarint(r.r)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, 0, ErrCorrupt
		}
		return 0, 0, err
	}
	return v, varintLen(v), nil
}

// ReadBool reads a single-byte varint of 0 or 1.
func (r *Reader) ReadBool() (bool, int, error) {
	v, n, err := r.ReadUvarint()
	if err != nil {
		return false, n, err
	}
	return v != 0, n, nil
}

// ReadFloat64 reads the shrunk mantissa/exponent varint pair produced by
// WriteFloat64 and reconstructs the double.
func (r *Reader) ReadFloat64() (float64, int, error) {
	mantissa, n1, err := r.ReadVarint()
	if err != nil {
		return 0, n1, err
	}
	exponent, n2, err := r.ReadVarint()
	if err != nil {
		return 0, n1 + n2, err
	}
	return math.Ldexp(float64(mantissa), int(exponent)), n1 + n2, nil
}

// ReadString reads bytes up to and including the NUL terminator and
// returns the string without the terminator.
func (r *Reader) ReadString() (string, int, error) {
	var buf []byte
	n := 0
	for {
		b, err := r.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return "", n, ErrCorrupt
			}
			return "", n, err
		}
		n++
		if b == 0 {
			return string(buf), n, nil
		}
		buf = append(buf, b)
	}
}

func uvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		v >>= 7
		n++
	}
	return n
}

func varintLen(v int64) int {
	ux := uint64(v) << 1
	if v < 0 {
		ux = ^ux
	}
	return uvarintLen(ux)
}

package packed

import (
	"bytes"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUvarintLiteralRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	n, err := w.WriteUvarint(300)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, []byte{0xAC, 0x02}, buf.Bytes())

	r := NewReader(&buf)
	v, read, err := r.ReadUvarint()
	require.NoError(t, err)
	require.Equal(t, uint64(300), v)
	require.Equal(t, 2, read)
}

func TestVarintZigZagLiteral(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	n, err := w.WriteVarint(-1)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, []byte{0x01}, buf.Bytes())

	r := NewReader(&buf)
	v, _, err := r.ReadVarint()
	require.NoError(t, err)
	require.Equal(t, int64(-1), v)
}

func TestUvarintRoundTripFullRange(t *testing.T) {
	cases := []uint64{0, 1, 127, 128, 300, 1 << 20, math.MaxUint32, math.MaxUint64}
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		cases = append(cases, rng.Uint64())
	}
	for _, v := range cases {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		written, err := w.WriteUvarint(v)
		require.NoError(t, err)
		got, read, err := NewReader(&buf).ReadUvarint()
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, written, read)
	}
}

func TestVarintRoundTripFullRange(t *testing.T) {
	cases := []int64{0, -1, 1, math.MinInt64, math.MaxInt64, -128, 128}
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 1000; i++ {
		cases = append(cases, int64(rng.Uint64()))
	}
	for _, v := range cases {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		written, err := w.WriteVarint(v)
		require.NoError(t, err)
		got, read, err := NewReader(&buf).ReadVarint()
		require.NoError(t, err)
		require.Equal(t, v, got)
		require.Equal(t, written, read)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	for _, v := range []bool{true, false} {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		_, err := w.WriteBool(v)
		require.NoError(t, err)
		got, _, err := NewReader(&buf).ReadBool()
		require.NoError(t, err)
		require.Equal(t, v, got)
	}
}

func TestFloat64RoundTrip(t *testing.T) {
	values := []float64{0, 1, -1, 0.5, 3.14159265358979, -123456.789,
		1e-300, 1e300, math.SmallestNonzeroFloat64}
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		values = append(values, rng.NormFloat64()*rng.Float64()*1e12)
	}
	for _, v := range values {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		_, err := w.WriteFloat64(v)
		require.NoError(t, err)
		got, _, err := NewReader(&buf).ReadFloat64()
		require.NoError(t, err)
		require.InDeltaf(t, v, got, math.Abs(v)*1e-9, "value %v round-tripped to %v", v, got)
	}
}

func TestStringRoundTrip(t *testing.T) {
	values := []string{"", "a", "hello world", "quick brown fox"}
	for _, s := range values {
		var buf bytes.Buffer
		w := NewWriter(&buf)
		n, err := w.WriteString(s)
		require.NoError(t, err)
		require.Equal(t, len(s)+1, n)
		got, read, err := NewReader(&buf).ReadString()
		require.NoError(t, err)
		require.Equal(t, s, got)
		require.Equal(t, n, read)
	}
}

func TestStringRejectsEmbeddedNul(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	_, err := w.WriteString("a\x00b")
	require.ErrorIs(t, err, ErrNulInString)
}

func TestVecRoundTrip(t *testing.T) {
	items := []uint64{1, 2, 300, 70000}
	var buf bytes.Buffer
	w := NewWriter(&buf)
	_, err := WriteVec(w, items, func(w *Writer, v uint64) (int, error) {
		return w.WriteUvarint(v)
	})
	require.NoError(t, err)

	got, _, err := ReadVec(NewReader(&buf), func(r *Reader) (uint64, int, error) {
		return r.ReadUvarint()
	})
	require.NoError(t, err)
	require.Equal(t, items, got)
}

func TestTruncatedStreamIsCorrupt(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	_, err := w.WriteUvarint(1 << 40)
	require.NoError(t, err)
	truncated := buf.Bytes()[:1]
	_, _, err = NewReader(bytes.NewReader(truncated)).ReadUvarint()
	require.ErrorIs(t, err, ErrCorrupt)
}

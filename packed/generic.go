package packed

// WriteVec writes len(items) as an unsigned varint followed by each
// element via writeElem, recursively composing the codec over slices.
func WriteVec[T any](w *Writer, items []T, writeElem func(*Writer, T) (int, error)) (int, error) {
	n, err := w.WriteUvarint(uint64(len(items)))
	if err != nil {
		return n, err
	}
	for _, item := range items {
		m, err := writeElem(w, item)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadVec reads a length-prefixed vector, decoding each element via
// readElem.
func ReadVec[T any](r *Reader, readElem func(*Reader) (T, int, error)) ([]T, int, error) {
	length, n, err := r.ReadUvarint()
	if err != nil {
		return nil, n, err
	}
	items := make([]T, 0, length)
	for i := uint64(0); i < length; i++ {
		item, m, err := readElem(r)
		n += m
		if err != nil {
			return nil, n, err
		}
		items = append(items, item)
	}
	return items, n, nil
}

// WriteUint64 writes the underlying integer of any uint64-based opaque id
// newtype (TermID, DocID, ...).
func WriteUint64[T ~uint64](w *Writer, v T) (int, error) {
	return w.WriteUvarint(uint64(v))
}

// ReadUint64 reads a uint64-based opaque id newtype.
func ReadUint64[T ~uint64](r *Reader) (T, int, error) {
	v, n, err := r.ReadUvarint()
	return T(v), n, err
}

// WriteUint32 writes the underlying integer of any uint32-based opaque id
// newtype (LabelID, ...).
func WriteUint32[T ~uint32](w *Writer, v T) (int, error) {
	return w.WriteUvarint(uint64(v))
}

// ReadUint32 reads a uint32-based opaque id newtype.
func ReadUint32[T ~uint32](r *Reader) (T, int, error) {
	v, n, err := r.ReadUvarint()
	return T(v), n, err
}

// WritePair writes a (K, V) tuple by delegating to the two element
// encoders in order.
func WritePair[K, V any](w *Writer, k K, v V, writeK func(*Writer, K) (int, error), writeV func(*Writer, V) (int, error)) (int, error) {
	n1, err := writeK(w, k)
	if err != nil {
		return n1, err
	}
	n2, err := writeV(w, v)
	return n1 + n2, err
}

// ReadPair reads a (K, V) tuple.
func ReadPair[K, V any](r *Reader, readK func(*Reader) (K, int, error), readV func(*Reader) (V, int, error)) (K, V, int, error) {
	k, n1, err := readK(r)
	if err != nil {
		var zv V
		return k, zv, n1, err
	}
	v, n2, err := readV(r)
	return k, v, n1 + n2, err
}

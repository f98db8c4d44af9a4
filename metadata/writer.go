package metadata

import (
	"encoding/binary"
	"os"

	"github.com/metatk/retrieval-core/errs"
	"github.com/metatk/retrieval-core/packed"
)

// Writer builds the metadata.db / metadata.index file pair of spec §6:
// db holds the schema header followed by one packed record per
// document, in doc_id order; index holds an aligned little-endian u64
// vector of byte offsets into db, one per doc_id.
type Writer struct {
	schema Schema
	db     *os.File
	idx    *os.File
	pw     *packed.Writer
	offset uint64
}

// NewWriter creates (or truncates) dbPath/idxPath and writes the schema
// header to dbPath.
func NewWriter(dbPath, idxPath string, schema Schema) (*Writer, error) {
	db, err := os.OpenFile(dbPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errs.New(errs.KindIO, "metadata.NewWriter", err)
	}
	idx, err := os.OpenFile(idxPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		db.Close()
		return nil, errs.New(errs.KindIO, "metadata.NewWriter", err)
	}
	w := &Writer{schema: schema, db: db, idx: idx, pw: packed.NewWriter(db)}
	n, err := schema.WriteTo(w.pw)
	if err != nil {
		w.db.Close()
		w.idx.Close()
		return nil, errs.New(errs.KindIO, "metadata.NewWriter", err)
	}
	w.offset = uint64(n)
	return w, nil
}

// PutDoc appends one document's fields (already ordered and typed to
// match the schema) and records its starting offset in the index file.
// Documents must be written in ascending doc_id order.
func (w *Writer) PutDoc(values []Value) error {
	if len(values) != len(w.schema.Fields) {
		return errs.New(errs.KindBadArgument, "metadata.Writer.PutDoc", errFieldCountMismatch)
	}
	var offBuf [8]byte
	binary.LittleEndian.PutUint64(offBuf[:], w.offset)
	if _, err := w.idx.Write(offBuf[:]); err != nil {
		return errs.New(errs.KindIO, "metadata.Writer.PutDoc", err)
	}
	for i, f := range w.schema.Fields {
		n, err := writeValue(w.pw, f.Type, values[i])
		w.offset += uint64(n)
		if err != nil {
			return errs.New(errs.KindIO, "metadata.Writer.PutDoc", err)
		}
	}
	return nil
}

func writeValue(w *packed.Writer, t FieldType, v Value) (int, error) {
	switch t {
	case FieldString:
		return w.WriteString(v.Str)
	case FieldUint64:
		return w.WriteUvarint(v.U64)
	case FieldInt64:
		return w.WriteVarint(v.I64)
	case FieldFloat64:
		return w.WriteFloat64(v.F64)
	case FieldBool:
		return w.WriteBool(v.Bool)
	default:
		return 0, errs.New(errs.KindBadArgument, "metadata.writeValue", errUnknownFieldType)
	}
}

// Close closes both files.
func (w *Writer) Close() error {
	if err := w.db.Close(); err != nil {
		w.idx.Close()
		return errs.New(errs.KindIO, "metadata.Writer.Close", err)
	}
	if err := w.idx.Close(); err != nil {
		return errs.New(errs.KindIO, "metadata.Writer.Close", err)
	}
	return nil
}

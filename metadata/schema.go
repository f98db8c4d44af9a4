// Package metadata implements the metadata file of spec §4.8: a schema
// header followed by one fixed-layout-per-schema record per document,
// read back through a memory-mapped file and a lazy per-document handle
// that decodes fields on demand by replaying the schema.
//
// The header framing (magic-free field_count + (name, type) pairs) and
// the split of an append-only data file from an aligned offset index is
// grounded on the teacher's gsfa/manifest package (header written once,
// content read back through a mmap'd/section-readable file) and
// indexmeta's length-prefixed field encoding.
package metadata

import (
	"github.com/metatk/retrieval-core/errs"
	"github.com/metatk/retrieval-core/packed"
)

// FieldType is the underlying type of one schema field, encoded as its
// byte tag (spec §4.8: "(field: name_string, type_byte)").
type FieldType byte

const (
	FieldString FieldType = iota
	FieldUint64
	FieldInt64
	FieldFloat64
	FieldBool
)

func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "string"
	case FieldUint64:
		return "uint64"
	case FieldInt64:
		return "int64"
	case FieldFloat64:
		return "float64"
	case FieldBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Field names and types one column of the per-document record.
type Field struct {
	Name string
	Type FieldType
}

// Schema is the ordered field list every document record is packed
// against, in both directions.
type Schema struct {
	Fields []Field
}

// WriteTo packs the schema header: field_count varint, then (name,
// type_byte) per field.
func (s Schema) WriteTo(w *packed.Writer) (int, error) {
	n, err := w.WriteUvarint(uint64(len(s.Fields)))
	if err != nil {
		return n, err
	}
	for _, f := range s.Fields {
		nn, err := w.WriteString(f.Name)
		n += nn
		if err != nil {
			return n, err
		}
		m, err := w.WriteUvarint(uint64(f.Type))
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadSchema reads a schema header written by WriteTo.
func ReadSchema(r *packed.Reader) (Schema, int, error) {
	count, n, err := r.ReadUvarint()
	if err != nil {
		return Schema{}, n, errs.New(errs.KindCorrupt, "metadata.ReadSchema", err)
	}
	fields := make([]Field, 0, count)
	for i := uint64(0); i < count; i++ {
		name, nn, err := r.ReadString()
		n += nn
		if err != nil {
			return Schema{}, n, errs.New(errs.KindCorrupt, "metadata.ReadSchema", err)
		}
		typeByte, m, err := r.ReadUvarint()
		n += m
		if err != nil {
			return Schema{}, n, errs.New(errs.KindCorrupt, "metadata.ReadSchema", err)
		}
		fields = append(fields, Field{Name: name, Type: FieldType(typeByte)})
	}
	return Schema{Fields: fields}, n, nil
}

// Value is a tagged-union field value decoded from or destined for one
// schema-ordered slot of a document record.
type Value struct {
	Type FieldType
	Str  string
	U64  uint64
	I64  int64
	F64  float64
	Bool bool
}

func StringValue(s string) Value  { return Value{Type: FieldString, Str: s} }
func Uint64Value(v uint64) Value  { return Value{Type: FieldUint64, U64: v} }
func Int64Value(v int64) Value    { return Value{Type: FieldInt64, I64: v} }
func Float64Value(v float64) Value { return Value{Type: FieldFloat64, F64: v} }
func BoolValue(v bool) Value      { return Value{Type: FieldBool, Bool: v} }

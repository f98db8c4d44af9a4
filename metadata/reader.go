package metadata

import (
	"bytes"
	"encoding/binary"
	"io"
	"log/slog"

	"golang.org/x/exp/mmap"

	"github.com/metatk/retrieval-core/errs"
	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/packed"
)

// Store is a memory-mapped metadata.db/metadata.index pair opened for
// random-access reads (spec §4.8: "reads use a memory-mapped file").
type Store struct {
	db        *mmap.ReaderAt
	idx       *mmap.ReaderAt
	schema    Schema
	headerLen int64
	numDocs   int
}

// Open memory-maps dbPath and idxPath and reads the schema header,
// mirroring the teacher's compactindexsized.Open dual-file mmap idiom
// (header decoded eagerly, record bodies read lazily via the returned
// handles since metadata lookups during ranking/feedback are scattered
// by doc_id).
func Open(dbPath, idxPath string) (*Store, error) {
	db, err := mmap.Open(dbPath)
	if err != nil {
		return nil, errs.New(errs.KindIO, "metadata.Open", err)
	}
	idx, err := mmap.Open(idxPath)
	if err != nil {
		db.Close()
		return nil, errs.New(errs.KindIO, "metadata.Open", err)
	}
	slog.Debug("metadata store opened", "db", dbPath, "index", idxPath)

	schema, headerLen, err := readSchemaFromMmap(db)
	if err != nil {
		db.Close()
		idx.Close()
		return nil, err
	}
	if idx.Len()%8 != 0 {
		db.Close()
		idx.Close()
		return nil, errs.New(errs.KindCorrupt, "metadata.Open", errBadIndexAlignment)
	}
	return &Store{
		db:        db,
		idx:       idx,
		schema:    schema,
		headerLen: headerLen,
		numDocs:   idx.Len() / 8,
	}, nil
}

func readSchemaFromMmap(db *mmap.ReaderAt) (Schema, int64, error) {
	buf := make([]byte, db.Len())
	if _, err := db.ReadAt(buf, 0); err != nil && err != io.EOF {
		return Schema{}, 0, errs.New(errs.KindIO, "metadata.readSchemaFromMmap", err)
	}
	pr := packed.NewReader(bytes.NewReader(buf))
	schema, n, err := ReadSchema(pr)
	if err != nil {
		return Schema{}, 0, err
	}
	return schema, int64(n), nil
}

// NumDocs returns the number of document records in the store.
func (s *Store) NumDocs() int { return s.numDocs }

// Schema returns the field schema every record is laid out against.
func (s *Store) Schema() Schema { return s.schema }

func (s *Store) offsetOf(doc ids.DocID) (uint64, error) {
	i := int(doc)
	if i < 0 || i >= s.numDocs {
		return 0, errs.New(errs.KindBadArgument, "metadata.Store.offsetOf", errDocOutOfRange)
	}
	var buf [8]byte
	if _, err := s.idx.ReadAt(buf[:], int64(i)*8); err != nil {
		return 0, errs.New(errs.KindIO, "metadata.Store.offsetOf", err)
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// Handle is a lazy per-document view: it stores only the offset and
// schema and decodes fields on demand by replaying the schema against
// the starting offset, per spec §4.8. It re-reads the mmap'd file on
// every field access unless the caller caches the result.
type Handle struct {
	store  *Store
	offset int64
}

// Get returns a lazy handle for doc. The handle performs no I/O until a
// field is requested.
func (s *Store) Get(doc ids.DocID) (Handle, error) {
	off, err := s.offsetOf(doc)
	if err != nil {
		return Handle{}, err
	}
	return Handle{store: s, offset: int64(off)}, nil
}

// Fields decodes every field of the record in schema order. Each call
// re-reads the mmap'd region; callers wanting to avoid repeat decoding
// should cache the returned slice themselves.
func (h Handle) Fields() ([]Value, error) {
	section := io.NewSectionReader(h.store.db, h.offset, int64(h.store.db.Len())-h.offset)
	pr := packed.NewReader(section)
	values := make([]Value, 0, len(h.store.schema.Fields))
	for _, f := range h.store.schema.Fields {
		v, _, err := readValue(pr, f.Type)
		if err != nil {
			return nil, errs.New(errs.KindCorrupt, "metadata.Handle.Fields", err)
		}
		values = append(values, v)
	}
	return values, nil
}

// Field decodes only the named field, replaying the schema from the
// record's start and discarding the fields that precede it.
func (h Handle) Field(name string) (Value, error) {
	section := io.NewSectionReader(h.store.db, h.offset, int64(h.store.db.Len())-h.offset)
	pr := packed.NewReader(section)
	for _, f := range h.store.schema.Fields {
		v, _, err := readValue(pr, f.Type)
		if err != nil {
			return Value{}, errs.New(errs.KindCorrupt, "metadata.Handle.Field", err)
		}
		if f.Name == name {
			return v, nil
		}
	}
	return Value{}, errs.New(errs.KindBadArgument, "metadata.Handle.Field", errUnknownFieldName)
}

func readValue(r *packed.Reader, t FieldType) (Value, int, error) {
	switch t {
	case FieldString:
		s, n, err := r.ReadString()
		return StringValue(s), n, err
	case FieldUint64:
		v, n, err := r.ReadUvarint()
		return Uint64Value(v), n, err
	case FieldInt64:
		v, n, err := r.ReadVarint()
		return Int64Value(v), n, err
	case FieldFloat64:
		v, n, err := r.ReadFloat64()
		return Float64Value(v), n, err
	case FieldBool:
		v, n, err := r.ReadBool()
		return BoolValue(v), n, err
	default:
		return Value{}, 0, errUnknownFieldType
	}
}

// Close unmaps both files.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		s.idx.Close()
		return errs.New(errs.KindIO, "metadata.Store.Close", err)
	}
	if err := s.idx.Close(); err != nil {
		return errs.New(errs.KindIO, "metadata.Store.Close", err)
	}
	return nil
}

package indexdisk

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/metatk/retrieval-core/errs"
	"github.com/metatk/retrieval-core/ids"
	"github.com/metatk/retrieval-core/packed"
)

// Labels exposes docs.labels (an aligned doc_id -> label_id vector) and
// docs.labels.mapping (a dense label_id -> class_label string table,
// small enough to load fully into memory).
type Labels struct {
	byDoc   *AlignedU32
	classOf []ids.ClassLabel
}

// WriteLabels writes both label files. docLabels holds each document's
// dense label_id, in doc_id order; classNames is the label_id-ordered
// inverse (built by the caller's label interning map, symmetric to the
// term dictionary's inverse).
func WriteLabels(dir string, docLabels []ids.LabelID, classNames []ids.ClassLabel) error {
	if err := writeAlignedU32(filepath.Join(dir, FileDocsLabels), labelIDsToUint32(docLabels)); err != nil {
		return err
	}

	path := filepath.Join(dir, FileDocsLabelsMapping)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return errs.New(errs.KindIO, "indexdisk.WriteLabels", err)
	}
	buf := bufio.NewWriterSize(f, 1<<16)
	pw := packed.NewWriter(buf)
	for _, name := range classNames {
		if _, err := pw.WriteString(string(name)); err != nil {
			f.Close()
			return errs.New(errs.KindIO, "indexdisk.WriteLabels", err)
		}
	}
	if err := buf.Flush(); err != nil {
		f.Close()
		return errs.New(errs.KindIO, "indexdisk.WriteLabels", err)
	}
	return f.Close()
}

func labelIDsToUint32(labels []ids.LabelID) []uint32 {
	out := make([]uint32, len(labels))
	for i, l := range labels {
		out[i] = uint32(l)
	}
	return out
}

// OpenLabels memory-maps docs.labels and loads docs.labels.mapping.
func OpenLabels(dir string) (*Labels, error) {
	byDoc, err := openAlignedU32(filepath.Join(dir, FileDocsLabels))
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, FileDocsLabelsMapping)
	f, err := os.Open(path)
	if err != nil {
		byDoc.Close()
		return nil, errs.New(errs.KindIO, "indexdisk.OpenLabels", err)
	}
	defer f.Close()
	buf := bufio.NewReaderSize(f, 1<<16)
	pr := packed.NewReader(buf)
	var classOf []ids.ClassLabel
	for {
		name, _, err := pr.ReadString()
		if err != nil {
			break
		}
		classOf = append(classOf, ids.ClassLabel(name))
	}

	return &Labels{byDoc: byDoc, classOf: classOf}, nil
}

// LabelOf returns the label_id assigned to doc.
func (l *Labels) LabelOf(doc ids.DocID) (ids.LabelID, error) {
	v, err := l.byDoc.Get(int(doc))
	if err != nil {
		return 0, err
	}
	return ids.LabelID(v), nil
}

// ClassOf resolves a label_id to its class_label string.
func (l *Labels) ClassOf(label ids.LabelID) (ids.ClassLabel, bool) {
	i := int(label)
	if i < 0 || i >= len(l.classOf) {
		return "", false
	}
	return l.classOf[i], true
}

func (l *Labels) Close() error { return l.byDoc.Close() }

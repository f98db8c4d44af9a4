// Package ids defines the opaque identifier newtypes shared across the
// retrieval core: term identifiers, document identifiers, and class-label
// identifiers.
package ids

import "strconv"

// TermID identifies a term in a built index's dictionary. IDs are assigned
// densely starting at 0 and are immutable once an index is built.
type TermID uint64

func (t TermID) String() string { return strconv.FormatUint(uint64(t), 10) }

// DocID identifies a document within a corpus. IDs are dense per corpus;
// 0 is reserved as a sentinel value by loaders (an absent/invalid doc).
type DocID uint64

// NoDoc is the sentinel DocID used by loaders to mean "no document".
const NoDoc DocID = 0

func (d DocID) String() string { return strconv.FormatUint(uint64(d), 10) }

// LabelID identifies an interned class label (spec §3: ClassLabel is
// interned via an invertible map to a u32 label id).
type LabelID uint32

func (l LabelID) String() string { return strconv.FormatUint(uint64(l), 10) }

// ClassLabel is an opaque newtype over the label's string form.
type ClassLabel string

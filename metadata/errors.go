package metadata

import "fmt"

var (
	errFieldCountMismatch = fmt.Errorf("metadata: value count does not match schema field count")
	errUnknownFieldType   = fmt.Errorf("metadata: unknown field type")
	errBadIndexAlignment  = fmt.Errorf("metadata: index file is not aligned to 8 bytes")
	errDocOutOfRange      = fmt.Errorf("metadata: doc_id out of range")
	errUnknownFieldName   = fmt.Errorf("metadata: unknown field name")
)

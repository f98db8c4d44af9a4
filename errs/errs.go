// Package errs defines the error kinds shared across the retrieval core.
package errs

import "fmt"

// Kind classifies an error the way callers are expected to branch on it.
type Kind int

const (
	// KindCorrupt covers packed-codec EOF mid-value, lexicon out-of-range
	// offsets, schema mismatches and invalid chunk records.
	KindCorrupt Kind = iota
	// KindIO covers underlying file/mmap failures.
	KindIO
	// KindOutOfBudget covers an accumulator flush that cannot proceed
	// because disk is full.
	KindOutOfBudget
	// KindInvariant covers probe-sequence infinite-loop detection and
	// other internal assertion failures.
	KindInvariant
	// KindBadArgument covers a negative parameter where one is required
	// to be nonnegative, a negative num_results, or an unknown config
	// enum value.
	KindBadArgument
)

func (k Kind) String() string {
	switch k {
	case KindCorrupt:
		return "corrupt"
	case KindIO:
		return "io"
	case KindOutOfBudget:
		return "out_of_budget"
	case KindInvariant:
		return "invariant"
	case KindBadArgument:
		return "bad_argument"
	default:
		return "unknown"
	}
}

// Error wraps an underlying cause with a Kind so callers can type-switch
// without parsing error strings.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an *Error for op with the given kind and cause.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if ae, ok := err.(*Error); ok {
			e = ae
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return e != nil && e.Kind == kind
}

// Package config defines the enumerated configuration surface of spec
// §6 as a plain, validated Go struct, following the teacher's habit of
// validating at construction (compactindexsized.NewBuilderSized's
// bounds checks) rather than deferring to first use. Parsing any
// particular file format (TOML, YAML, flags) into this struct is an
// external collaborator's job, per spec §1's "configuration parsing"
// exclusion; this package only defines the shape and its defaults.
package config

import (
	"github.com/metatk/retrieval-core/errs"
)

// RankerMethod selects the scoring function a Context drives (spec
// §6's ranker.method enum).
type RankerMethod string

const (
	RankerBM25               RankerMethod = "bm25"
	RankerDirichletPrior     RankerMethod = "dirichlet-prior"
	RankerDirichletDigamma   RankerMethod = "dirichlet-digamma-rec"
	RankerDirichletLogApprox RankerMethod = "dirichlet-log-approx"
	RankerDirichletMacKay    RankerMethod = "dirichlet-mackay-peto"
	RankerJelinekMercer      RankerMethod = "jelinek-mercer"
	RankerAbsoluteDiscount   RankerMethod = "absolute-discount"
)

func (m RankerMethod) valid() bool {
	switch m {
	case RankerBM25, RankerDirichletPrior, RankerDirichletDigamma,
		RankerDirichletLogApprox, RankerDirichletMacKay,
		RankerJelinekMercer, RankerAbsoluteDiscount:
		return true
	default:
		return false
	}
}

// FeedbackMethod selects the pseudo-relevance feedback rule (spec
// §6's feedback.method enum).
type FeedbackMethod string

const (
	FeedbackRocchio  FeedbackMethod = "rocchio"
	FeedbackIde      FeedbackMethod = "ide"
	FeedbackIdeDecHi FeedbackMethod = "ide-dec-hi"
)

func (m FeedbackMethod) valid() bool {
	switch m {
	case FeedbackRocchio, FeedbackIde, FeedbackIdeDecHi:
		return true
	default:
		return false
	}
}

// Ranker collects every ranker.* option of spec §6.
type Ranker struct {
	Method RankerMethod
	K1     float64 // BM25, default 1.2
	B      float64 // BM25, default 0.75
	K3     float64 // BM25, default 500
	Mu     float64 // Dirichlet, default 2000
}

// DefaultRanker returns the spec-mandated BM25 defaults.
func DefaultRanker() Ranker {
	return Ranker{Method: RankerBM25, K1: 1.2, B: 0.75, K3: 500, Mu: 2000}
}

// Feedback collects every feedback.* option of spec §6.
type Feedback struct {
	Method  FeedbackMethod
	A, B, C float64
}

// DefaultFeedback returns the spec-mandated Rocchio defaults.
func DefaultFeedback() Feedback {
	return Feedback{Method: FeedbackRocchio, A: 1.0, B: 0.8, C: 0.0}
}

// Indexer collects indexer.* options.
type Indexer struct {
	RAMBudgetBytes int
}

// DefaultIndexer returns the spec example's 1 GiB RAM budget.
func DefaultIndexer() Indexer {
	return Indexer{RAMBudgetBytes: 1 << 30}
}

// Cache collects cache.* options.
type Cache struct {
	MaxSize int
	Shards  int
}

// DefaultCache returns conservative defaults; Shards is a power of two
// per spec §4.3's guidance.
func DefaultCache() Cache {
	return Cache{MaxSize: 1 << 16, Shards: 16}
}

// HashTable collects hashtable.* options.
type HashTable struct {
	MaxLoadFactor float64
	ResizeRatio   float64
}

// DefaultHashTable mirrors hashtable.DefaultMaxLoadFactor /
// hashtable.DefaultResizeRatio.
func DefaultHashTable() HashTable {
	return HashTable{MaxLoadFactor: 0.85, ResizeRatio: 1.5}
}

// Options is the full enumerated configuration surface of spec §6.
type Options struct {
	Ranker    Ranker
	Feedback  Feedback
	Indexer   Indexer
	Cache     Cache
	HashTable HashTable
}

// Default returns Options populated entirely from the spec's defaults.
func Default() Options {
	return Options{
		Ranker:    DefaultRanker(),
		Feedback:  DefaultFeedback(),
		Indexer:   DefaultIndexer(),
		Cache:     DefaultCache(),
		HashTable: DefaultHashTable(),
	}
}

// Validate checks every bound spec §6/§7 places on these options,
// returning a KindBadArgument error naming the first violation found.
func (o Options) Validate() error {
	const op = "config.Options.Validate"
	if !o.Ranker.Method.valid() {
		return errs.New(errs.KindBadArgument, op, errInvalidEnum{"ranker.method", string(o.Ranker.Method)})
	}
	if !o.Feedback.Method.valid() {
		return errs.New(errs.KindBadArgument, op, errInvalidEnum{"feedback.method", string(o.Feedback.Method)})
	}
	if o.Feedback.A < 0 || o.Feedback.B < 0 || o.Feedback.C < 0 {
		return errs.New(errs.KindBadArgument, op, errRange{"feedback.a/b/c", "[0, inf)"})
	}
	if o.Indexer.RAMBudgetBytes <= 0 {
		return errs.New(errs.KindBadArgument, op, errNonNegative{"indexer.ram-budget-bytes"})
	}
	if o.Cache.MaxSize <= 0 {
		return errs.New(errs.KindBadArgument, op, errNonNegative{"cache.max-size"})
	}
	if o.Cache.Shards <= 0 {
		return errs.New(errs.KindBadArgument, op, errNonNegative{"cache.shards"})
	}
	if o.HashTable.MaxLoadFactor <= 0 || o.HashTable.MaxLoadFactor >= 1 {
		return errs.New(errs.KindBadArgument, op, errRange{"hashtable.max-load-factor", "(0, 1)"})
	}
	if o.HashTable.ResizeRatio <= 1 {
		return errs.New(errs.KindBadArgument, op, errRange{"hashtable.resize-ratio", "(1, inf)"})
	}
	return nil
}

type errInvalidEnum struct{ field, value string }

func (e errInvalidEnum) Error() string { return e.field + ": unknown value " + e.value }

type errNonNegative struct{ field string }

func (e errNonNegative) Error() string { return e.field + " must be positive" }

type errRange struct{ field, rangeDesc string }

func (e errRange) Error() string { return e.field + " must be in " + e.rangeDesc }

package feedback

import "github.com/metatk/retrieval-core/ids"

// Rocchio is the classic vector-space feedback rule (spec §4.7):
//
//	qm = a*q0 + b*(1/|R|)*Σ_{d∈R} d - c*(1/|N|)*Σ_{d∈N} d
//
// R is the assumed-relevant set (conventionally the first pass's
// top-k) and N the assumed-non-relevant set.
type Rocchio struct {
	A, B, C float64
}

// DefaultRocchio returns Rocchio with the spec defaults a=1.0, b=0.8,
// c=0.0.
func DefaultRocchio() Rocchio { return Rocchio{A: 1.0, B: 0.8, C: 0.0} }

// NewRocchio validates a, b, c are nonnegative (spec §4.7) before
// constructing a Rocchio method.
func NewRocchio(a, b, c float64) (Rocchio, error) {
	if err := checkNonNegative("feedback.NewRocchio", a, b, c); err != nil {
		return Rocchio{}, err
	}
	return Rocchio{A: a, B: b, C: c}, nil
}

func (r Rocchio) Apply(q0 Query, relevant, nonRelevant []ids.DocID, fwd ForwardIndex) (Query, error) {
	qm := make(Query, len(q0))
	addScaledQuery(qm, q0, r.A)

	relCentroid, err := centroid(fwd, relevant)
	if err != nil {
		return nil, err
	}
	addScaledQuery(qm, relCentroid, r.B)

	nonRelCentroid, err := centroid(fwd, nonRelevant)
	if err != nil {
		return nil, err
	}
	addScaledQuery(qm, nonRelCentroid, -r.C)

	return qm, nil
}

package feedback

import "github.com/metatk/retrieval-core/ids"

// Ide is Ide's feedback rule (spec §4.7): like Rocchio but with
// unnormalized sums over the relevant/non-relevant sets rather than
// their centroids:
//
//	qm = a*q0 + b*Σ_{d∈R} d - c*Σ_{d∈N} d
type Ide struct {
	A, B, C float64
}

// DefaultIde returns Ide with the spec defaults a=1.0, b=0.8, c=0.0.
func DefaultIde() Ide { return Ide{A: 1.0, B: 0.8, C: 0.0} }

// NewIde validates a, b, c are nonnegative before constructing an Ide
// method.
func NewIde(a, b, c float64) (Ide, error) {
	if err := checkNonNegative("feedback.NewIde", a, b, c); err != nil {
		return Ide{}, err
	}
	return Ide{A: a, B: b, C: c}, nil
}

func (r Ide) Apply(q0 Query, relevant, nonRelevant []ids.DocID, fwd ForwardIndex) (Query, error) {
	qm := make(Query, len(q0))
	addScaledQuery(qm, q0, r.A)

	for _, d := range relevant {
		v, err := fwd.Vector(d)
		if err != nil {
			return nil, err
		}
		addScaled(qm, v, r.B)
	}
	for _, d := range nonRelevant {
		v, err := fwd.Vector(d)
		if err != nil {
			return nil, err
		}
		addScaled(qm, v, -r.C)
	}
	return qm, nil
}

package feedback

import "github.com/metatk/retrieval-core/ids"

// IdeDecHi is Ide's "decrease the highest" variant (spec §4.7): as Ide,
// but the non-relevant contribution comes from only the single
// highest-ranked document in nonRelevant, ranked by dot product against
// q0, rather than a sum over the whole set.
type IdeDecHi struct {
	A, B, C float64
}

// DefaultIdeDecHi returns IdeDecHi with the spec defaults a=1.0, b=0.8,
// c=0.0.
func DefaultIdeDecHi() IdeDecHi { return IdeDecHi{A: 1.0, B: 0.8, C: 0.0} }

// NewIdeDecHi validates a, b, c are nonnegative before constructing an
// IdeDecHi method.
func NewIdeDecHi(a, b, c float64) (IdeDecHi, error) {
	if err := checkNonNegative("feedback.NewIdeDecHi", a, b, c); err != nil {
		return IdeDecHi{}, err
	}
	return IdeDecHi{A: a, B: b, C: c}, nil
}

func (r IdeDecHi) Apply(q0 Query, relevant, nonRelevant []ids.DocID, fwd ForwardIndex) (Query, error) {
	qm := make(Query, len(q0))
	addScaledQuery(qm, q0, r.A)

	for _, d := range relevant {
		v, err := fwd.Vector(d)
		if err != nil {
			return nil, err
		}
		addScaled(qm, v, r.B)
	}

	if r.C > 0 && len(nonRelevant) > 0 {
		var best map[ids.TermID]uint64
		bestSim := 0.0
		haveBest := false
		for _, d := range nonRelevant {
			v, err := fwd.Vector(d)
			if err != nil {
				return nil, err
			}
			sim := dotWithVector(q0, v)
			if !haveBest || sim > bestSim {
				best, bestSim, haveBest = v, sim, true
			}
		}
		if haveBest {
			addScaled(qm, best, -r.C)
		}
	}

	return qm, nil
}

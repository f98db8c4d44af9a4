package feedback_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metatk/retrieval-core/feedback"
	"github.com/metatk/retrieval-core/ids"
)

// fakeForwardIndex is an in-memory ForwardIndex for tests; real callers
// use indexdisk.ForwardIndex, which is built in RAM from the inverted
// index's postings.
type fakeForwardIndex map[ids.DocID]map[ids.TermID]uint64

func (f fakeForwardIndex) Vector(d ids.DocID) (map[ids.TermID]uint64, error) {
	return f[d], nil
}

const (
	t1 ids.TermID = iota
	t2
	t3
)

func TestRocchioRewrite(t *testing.T) {
	// Spec §8 scenario 6.
	fwd := fakeForwardIndex{
		1: {t1: 2, t2: 3},
		2: {t2: 1, t3: 4},
	}
	q0 := feedback.Query{t1: 1.0}

	method, err := feedback.NewRocchio(1, 1, 0)
	require.NoError(t, err)

	qm, err := method.Apply(q0, []ids.DocID{1, 2}, nil, fwd)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, qm[t1], 1e-9)
	assert.InDelta(t, 2.0, qm[t2], 1e-9)
	assert.InDelta(t, 2.0, qm[t3], 1e-9)
}

func TestRocchioRejectsNegativeParams(t *testing.T) {
	_, err := feedback.NewRocchio(-1, 0.8, 0)
	require.Error(t, err)
	_, err = feedback.NewRocchio(1, -0.1, 0)
	require.Error(t, err)
	_, err = feedback.NewRocchio(1, 0.8, -0.1)
	require.Error(t, err)
}

func TestIdeUnnormalizedSums(t *testing.T) {
	fwd := fakeForwardIndex{
		1: {t1: 2, t2: 3},
		2: {t2: 1, t3: 4},
	}
	q0 := feedback.Query{t1: 1.0}

	method, err := feedback.NewIde(1, 1, 0)
	require.NoError(t, err)

	qm, err := method.Apply(q0, []ids.DocID{1, 2}, nil, fwd)
	require.NoError(t, err)

	assert.InDelta(t, 3.0, qm[t1], 1e-9) // 1 + 2 (no division by |R|)
	assert.InDelta(t, 4.0, qm[t2], 1e-9) // 3 + 1
	assert.InDelta(t, 4.0, qm[t3], 1e-9)
}

func TestIdeDecHiSubtractsOnlyHighestSimilarity(t *testing.T) {
	fwd := fakeForwardIndex{
		1: {t1: 5}, // highest dot product against q0={t1:1} among non-relevant
		2: {t2: 5},
		3: {t1: 2, t2: 2},
	}
	q0 := feedback.Query{t1: 1.0}

	method, err := feedback.NewIdeDecHi(1, 0, 1)
	require.NoError(t, err)

	qm, err := method.Apply(q0, nil, []ids.DocID{1, 2}, fwd)
	require.NoError(t, err)

	// Doc 1 has higher dot product (5) than doc 2 (0); only doc 1's
	// vector is subtracted.
	assert.InDelta(t, 1.0-5.0, qm[t1], 1e-9)
	_, hasT2 := qm[t2]
	assert.False(t, hasT2)
}

func TestFeedbackMethodsZeroFactorOmitsTerms(t *testing.T) {
	fwd := fakeForwardIndex{1: {t2: 3}}
	q0 := feedback.Query{t1: 1.0}

	method, err := feedback.NewIde(1, 0, 0)
	require.NoError(t, err)

	qm, err := method.Apply(q0, []ids.DocID{1}, nil, fwd)
	require.NoError(t, err)

	assert.Equal(t, feedback.Query{t1: 1.0}, qm)
}

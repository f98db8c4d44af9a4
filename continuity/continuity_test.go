package continuity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChainAllSucceed(t *testing.T) {
	err := New().
		Thenf("step 0", func() error { return nil }).
		Thenf("step 1", func() error { return nil }).
		Err()
	require.NoError(t, err)
}

func TestChainShortCircuits(t *testing.T) {
	var ran2, ran3 bool
	err := New().
		Thenf("step 0", func() error { return nil }).
		Thenf("step 1", func() error { ran2 = true; return errors.New("step 1 failed") }).
		Thenf("step 2", func() error { ran3 = true; return nil }).
		Err()
	require.Error(t, err)
	require.Equal(t, "step 1 failed", err.Error())
	require.True(t, ran2)
	require.False(t, ran3)
}

func TestChainThen(t *testing.T) {
	err := New().
		Then("combine", nil, nil, errors.New("a"), errors.New("b")).
		Err()
	require.Error(t, err)
	require.Equal(t, "multiple errors: a, b", err.Error())
}

package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statdesign/domain/design"
	"statdesign/internal/errors"
)

func TestNTwoPropBaseline(t *testing.T) {
	useApproxBackend(t)
	n1, n2, err := NTwoProp(TwoPropParams{P1: 0.6, P2: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 389, n1)
	assert.Equal(t, 389, n2)
}

func TestNTwoPropRatioOneSided(t *testing.T) {
	useApproxBackend(t)
	n1, n2, err := NTwoProp(TwoPropParams{
		P1: 0.6, P2: 0.4, Power: 0.9, Ratio: 2.0, Tail: design.Greater,
	})
	require.NoError(t, err)
	assert.Equal(t, 80, n1)
	assert.Equal(t, 160, n2)
}

func TestNTwoPropExact(t *testing.T) {
	useApproxBackend(t)
	n1, n2, err := NTwoProp(TwoPropParams{P1: 0.7, P2: 0.4, Exact: true})
	require.NoError(t, err)
	assert.Equal(t, 48, n1)
	assert.Equal(t, 48, n2)
}

func TestNTwoPropNoninferiority(t *testing.T) {
	useApproxBackend(t)
	n1, n2, err := NTwoProp(TwoPropParams{
		P1: 0.6, P2: 0.6, Tail: design.Greater,
		Margin: design.Margin{Value: 0.1, Type: design.Noninferiority},
	})
	require.NoError(t, err)
	assert.Equal(t, 297, n1)
	assert.Equal(t, 297, n2)
}

func TestNTwoPropEquivalence(t *testing.T) {
	useApproxBackend(t)
	n1, n2, err := NTwoProp(TwoPropParams{
		P1: 0.55, P2: 0.55,
		Margin: design.Margin{Value: 0.1, Type: design.Equivalence},
	})
	require.NoError(t, err)
	assert.Equal(t, 424, n1)
	assert.Equal(t, 424, n2)
}

func TestNTwoPropZeroEffectRejected(t *testing.T) {
	_, _, err := NTwoProp(TwoPropParams{P1: 0.5, P2: 0.5})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Contains(t, err.Error(), "effect size must be non-zero")
}

func TestNTwoPropValidation(t *testing.T) {
	cases := []TwoPropParams{
		{P1: 0, P2: 0.5},
		{P1: 0.6, P2: 1},
		{P1: 0.6, P2: 0.5, Alpha: 1.5},
		{P1: 0.6, P2: 0.5, Power: -1},
		{P1: 0.6, P2: 0.5, Ratio: -2},
		{P1: 0.6, P2: 0.5, Test: "wilcoxon"},
		{P1: 0.6, P2: 0.5, Tail: "sideways"},
		{P1: 0.6, P2: 0.5, Margin: design.Margin{Value: 0.1}},
		{P1: 0.6, P2: 0.5, Margin: design.Margin{Value: -0.1, Type: design.Noninferiority}, Tail: design.Greater},
		// equivalence demands a two-sided tail
		{P1: 0.6, P2: 0.5, Margin: design.Margin{Value: 0.1, Type: design.Equivalence}, Tail: design.Greater},
		// noninferiority demands a one-sided tail
		{P1: 0.6, P2: 0.5, Margin: design.Margin{Value: 0.1, Type: design.Noninferiority}},
	}
	for i, params := range cases {
		_, _, err := NTwoProp(params)
		assert.Error(t, err, "case %d", i)
	}
}

func TestNTwoPropExactMarginUnsupported(t *testing.T) {
	_, _, err := NTwoProp(TwoPropParams{
		P1: 0.6, P2: 0.5, Exact: true, Tail: design.Greater,
		Margin: design.Margin{Value: 0.1, Type: design.Noninferiority},
	})
	require.Error(t, err)
	assert.Equal(t, errors.CodeExactUnsupported, errors.GetCode(err))
}

func TestNTwoPropExactDowngradesPastCeiling(t *testing.T) {
	useApproxBackend(t)
	// p1 close to p2 needs n well past the enumeration ceiling; the
	// endpoint must advise and answer via the approximation instead
	// of failing.
	n1, n2, err := NTwoProp(TwoPropParams{P1: 0.6, P2: 0.5, Exact: true})
	require.NoError(t, err)
	assert.Equal(t, 389, n1)
	assert.Equal(t, 389, n2)
}

func TestNTwoPropMonotoneInPower(t *testing.T) {
	useApproxBackend(t)
	prev := 0
	for _, power := range []float64{0.5, 0.7, 0.8, 0.9, 0.95} {
		n1, _, err := NTwoProp(TwoPropParams{P1: 0.6, P2: 0.45, Power: power})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n1, prev, "power=%v", power)
		prev = n1
	}
}

func TestNOneSamplePropBaseline(t *testing.T) {
	useApproxBackend(t)
	n, err := NOneSampleProp(OneSamplePropParams{P: 0.65, P0: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 88, n)
}

func TestNOneSamplePropExact(t *testing.T) {
	useApproxBackend(t)
	n, err := NOneSampleProp(OneSamplePropParams{P: 0.8, P0: 0.5, Exact: true})
	require.NoError(t, err)
	assert.Equal(t, 23, n)
}

func TestNOneSamplePropNoninferiority(t *testing.T) {
	useApproxBackend(t)
	n, err := NOneSampleProp(OneSamplePropParams{
		P: 0.6, P0: 0.6, Tail: design.Greater,
		Margin: design.Margin{Value: 0.1, Type: design.Noninferiority},
	})
	require.NoError(t, err)
	assert.Equal(t, 149, n)
}

func TestNOneSamplePropZeroEffectRejected(t *testing.T) {
	_, err := NOneSampleProp(OneSamplePropParams{P: 0.5, P0: 0.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "effect size must be non-zero")
}

func TestNOneSamplePropExactDowngradesPastCeiling(t *testing.T) {
	useApproxBackend(t)
	// A small effect pushes n past 200; expect the approximate
	// answer with an advisory rather than an error.
	n, err := NOneSampleProp(OneSamplePropParams{P: 0.55, P0: 0.5, Exact: true})
	require.NoError(t, err)
	approx, err := NOneSampleProp(OneSamplePropParams{P: 0.55, P0: 0.5})
	require.NoError(t, err)
	assert.Equal(t, approx, n)
}

func TestExactApproxAgreeForLargeN(t *testing.T) {
	useApproxBackend(t)
	// With a moderate effect the exact and approximate answers land
	// close together well inside the enumeration ceiling.
	exactN, err := NOneSampleProp(OneSamplePropParams{P: 0.7, P0: 0.5, Exact: true})
	require.NoError(t, err)
	approxN, err := NOneSampleProp(OneSamplePropParams{P: 0.7, P0: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, float64(approxN), float64(exactN), 10)
}

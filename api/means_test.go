package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statdesign/domain/design"
	"statdesign/internal/errors"
)

func TestNMeanBaselineT(t *testing.T) {
	useApproxBackend(t)
	n1, n2, err := NMean(MeanParams{Mu1: 0.5, Mu2: 0.0, SD: 1.0})
	require.NoError(t, err)
	// Includes the fallback cushion for t tests without the exact
	// noncentral backend.
	assert.Equal(t, 65, n1)
	assert.Equal(t, 65, n2)
}

func TestNMeanBaselineZ(t *testing.T) {
	useApproxBackend(t)
	n1, n2, err := NMean(MeanParams{Mu1: 0.5, Mu2: 0.0, SD: 1.0, Test: design.TestZ})
	require.NoError(t, err)
	assert.Equal(t, 63, n1)
	assert.Equal(t, 63, n2)
}

func TestNMeanExactBackendT(t *testing.T) {
	useExactBackend(t)
	n1, n2, err := NMean(MeanParams{Mu1: 0.5, Mu2: 0.0, SD: 1.0})
	require.NoError(t, err)
	// The exact noncentral t needs no cushion.
	assert.Equal(t, 64, n1)
	assert.Equal(t, 64, n2)
}

func TestNMeanNoninferiorityZ(t *testing.T) {
	useApproxBackend(t)
	n1, n2, err := NMean(MeanParams{
		Mu1: 0.0, Mu2: 0.0, SD: 1.0, Test: design.TestZ, Tail: design.Greater,
		Margin: design.Margin{Value: 0.5, Type: design.Noninferiority},
	})
	require.NoError(t, err)
	assert.Equal(t, 50, n1)
	assert.Equal(t, 50, n2)
}

func TestNMeanEquivalenceZ(t *testing.T) {
	useApproxBackend(t)
	n1, n2, err := NMean(MeanParams{
		Mu1: 0.0, Mu2: 0.0, SD: 1.0, Test: design.TestZ,
		Margin: design.Margin{Value: 0.5, Type: design.Equivalence},
	})
	require.NoError(t, err)
	assert.Equal(t, 69, n1)
	assert.Equal(t, 69, n2)
}

func TestNMeanEquivalenceT(t *testing.T) {
	params := MeanParams{
		Mu1: 0.0, Mu2: 0.0, SD: 1.0,
		Margin: design.Margin{Value: 0.5, Type: design.Equivalence},
	}

	useExactBackend(t)
	n1, n2, err := NMean(params)
	require.NoError(t, err)
	// The TOST band under the noncentral-t CDF needs more subjects
	// than the normal band at these degrees of freedom.
	assert.Equal(t, 70, n1)
	assert.Equal(t, 70, n2)

	useApproxBackend(t)
	n1, n2, err = NMean(params)
	require.NoError(t, err)
	assert.Equal(t, 71, n1)
	assert.Equal(t, 71, n2)
}

func TestNMeanZeroEffectRejected(t *testing.T) {
	_, _, err := NMean(MeanParams{Mu1: 1.0, Mu2: 1.0, SD: 1.0})
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	assert.Contains(t, err.Error(), "effect size must be non-zero")
}

func TestNMeanValidation(t *testing.T) {
	cases := []MeanParams{
		{Mu1: 0.5, Mu2: 0, SD: 0},
		{Mu1: 0.5, Mu2: 0, SD: -1},
		{Mu1: 0.5, Mu2: 0, SD: 1, Alpha: 2},
		{Mu1: 0.5, Mu2: 0, SD: 1, Ratio: -1},
		{Mu1: 0.5, Mu2: 0, SD: 1, Test: "chi"},
		{Mu1: 0.5, Mu2: 0, SD: 1, Tail: "upward"},
	}
	for i, params := range cases {
		_, _, err := NMean(params)
		assert.Error(t, err, "case %d", i)
	}
}

func TestNMeanShrinksWithEffect(t *testing.T) {
	useApproxBackend(t)
	prev := 1 << 30
	for _, effect := range []float64{0.2, 0.4, 0.6, 1.0} {
		n1, _, err := NMean(MeanParams{Mu1: effect, Mu2: 0, SD: 1})
		require.NoError(t, err)
		assert.LessOrEqual(t, n1, prev, "effect=%v", effect)
		prev = n1
	}
}

func TestNOneSampleMeanBaseline(t *testing.T) {
	useApproxBackend(t)
	n, err := NOneSampleMean(OneSampleMeanParams{Delta: 0.5, SD: 1.0})
	require.NoError(t, err)
	// 32 solved under the normal approximation plus the +2 cushion.
	assert.Equal(t, 34, n)

	n, err = NOneSampleMean(OneSampleMeanParams{Delta: 0.5, SD: 1.0, Test: design.TestZ})
	require.NoError(t, err)
	assert.Equal(t, 32, n)
}

func TestNOneSampleMeanExactBackend(t *testing.T) {
	useExactBackend(t)
	n, err := NOneSampleMean(OneSampleMeanParams{Delta: 0.5, SD: 1.0})
	require.NoError(t, err)
	assert.Equal(t, 34, n)
}

func TestNOneSampleMeanNoninferiorityZ(t *testing.T) {
	useApproxBackend(t)
	n, err := NOneSampleMean(OneSampleMeanParams{
		Delta: 0.0, SD: 1.0, Test: design.TestZ, Tail: design.Greater,
		Margin: design.Margin{Value: 0.5, Type: design.Noninferiority},
	})
	require.NoError(t, err)
	assert.Equal(t, 25, n)
}

func TestNOneSampleMeanEquivalenceT(t *testing.T) {
	params := OneSampleMeanParams{
		Delta: 0.0, SD: 1.0,
		Margin: design.Margin{Value: 0.5, Type: design.Equivalence},
	}

	useExactBackend(t)
	n, err := NOneSampleMean(params)
	require.NoError(t, err)
	assert.Equal(t, 36, n)

	useApproxBackend(t)
	n, err = NOneSampleMean(params)
	require.NoError(t, err)
	assert.Equal(t, 37, n)
}

func TestNOneSampleMeanZeroEffectRejected(t *testing.T) {
	_, err := NOneSampleMean(OneSampleMeanParams{Delta: 0, SD: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "effect size must be non-zero")
}

func TestNPairedBaseline(t *testing.T) {
	useApproxBackend(t)
	n, err := NPaired(PairedParams{Delta: 0.4, SDDiff: 1.2})
	require.NoError(t, err)
	assert.Equal(t, 73, n)
}

func TestNPairedExactBackend(t *testing.T) {
	useExactBackend(t)
	n, err := NPaired(PairedParams{Delta: 0.4, SDDiff: 1.2})
	require.NoError(t, err)
	assert.Equal(t, 73, n)
}

func TestNPairedValidation(t *testing.T) {
	_, err := NPaired(PairedParams{Delta: 0.4, SDDiff: 0})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sd_diff must be positive")
}

// The padded fallback must never return fewer subjects than the
// noncentral-t backend requires.
func TestFallbackCushionNeverUnderCovers(t *testing.T) {
	type effectCase struct{ delta, sd float64 }
	grid := []effectCase{{0.2, 1}, {0.3, 1}, {0.4, 1.2}, {0.5, 1}, {0.8, 1}, {0.8, 1.5}, {1.2, 1}}

	for _, d := range grid {
		useExactBackend(t)
		exactN, err := NOneSampleMean(OneSampleMeanParams{Delta: d.delta, SD: d.sd})
		require.NoError(t, err)

		useApproxBackend(t)
		approxN, err := NOneSampleMean(OneSampleMeanParams{Delta: d.delta, SD: d.sd})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, approxN, exactN, "one-sample delta=%v sd=%v", d.delta, d.sd)
	}

	for _, d := range grid {
		useExactBackend(t)
		exactN1, _, err := NMean(MeanParams{Mu1: d.delta, Mu2: 0, SD: d.sd})
		require.NoError(t, err)

		useApproxBackend(t)
		approxN1, _, err := NMean(MeanParams{Mu1: d.delta, Mu2: 0, SD: d.sd})
		require.NoError(t, err)

		assert.GreaterOrEqual(t, approxN1, exactN1, "two-sample delta=%v sd=%v", d.delta, d.sd)
	}

	useExactBackend(t)
	exactPairs, err := NPaired(PairedParams{Delta: 0.4, SDDiff: 1.2})
	require.NoError(t, err)
	useApproxBackend(t)
	approxPairs, err := NPaired(PairedParams{Delta: 0.4, SDDiff: 1.2})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, approxPairs, exactPairs)
}

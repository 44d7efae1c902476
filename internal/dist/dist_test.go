package dist

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statdesign/domain/design"
	"statdesign/internal/errors"
)

func TestNormQuantile(t *testing.T) {
	assert.InDelta(t, 1.9599639845400536, NormQuantile(0.975), 1e-12)
	assert.InDelta(t, -1.9599639845400536, NormQuantile(0.025), 1e-12)
	assert.InDelta(t, 0.0, NormQuantile(0.5), 1e-12)
}

func TestNormCDFSurvival(t *testing.T) {
	for _, x := range []float64{-3, -0.5, 0, 1.2, 4} {
		assert.InDelta(t, 1.0, NormCDF(x)+NormSF(x), 1e-15)
	}
}

func TestPowerNormal(t *testing.T) {
	assert.InDelta(t, 0.7995568714356516, PowerNormal(2.8, 0.05, design.TwoSided), 1e-12)
	assert.InDelta(t, 0.8759847545501247, PowerNormal(2.8, 0.05, design.Greater), 1e-12)
	// A negative shift under tail=less mirrors the greater case.
	assert.InDelta(t, 0.8759847545501247, PowerNormal(-2.8, 0.05, design.Less), 1e-12)
}

func TestChiSquaredQuantileWH(t *testing.T) {
	assert.InDelta(t, 5.936869945730959, chiSquaredQuantileWH(0.95, 2), 1e-12)
	assert.InDelta(t, 18.291782065030485, chiSquaredQuantileWH(0.95, 10), 1e-12)
}

func TestApproxPowerNoncentralF(t *testing.T) {
	assert.InDelta(t, 0.8119182422425867, approxPowerNoncentralF(12, 2, 100, 0.05), 1e-12)
	assert.Equal(t, 0.0, approxPowerNoncentralF(0, 2, 100, 0.05))
	assert.Equal(t, 0.0, approxPowerNoncentralF(-1, 2, 100, 0.05))
}

func TestBackendProbeLifecycle(t *testing.T) {
	t.Setenv(EnvEnableExact, "")
	t.Setenv(EnvDisableExact, "")
	Reset()
	t.Cleanup(Reset)
	assert.False(t, HasExact(), "exact backend must be opt-in")

	t.Setenv(EnvEnableExact, "1")
	assert.False(t, HasExact(), "probe result is cached until Reset")
	Reset()
	assert.True(t, HasExact())

	t.Setenv(EnvDisableExact, "1")
	Reset()
	assert.False(t, HasExact(), "disable toggle wins over enable")
}

func TestRequireNamesToggle(t *testing.T) {
	t.Setenv(EnvEnableExact, "")
	t.Setenv(EnvDisableExact, "")
	Reset()
	t.Cleanup(Reset)

	_, err := Require("noncentral t power")
	require.Error(t, err)
	assert.Equal(t, errors.CodeBackendUnavailable, errors.GetCode(err))
	assert.Contains(t, err.Error(), EnvEnableExact)
	assert.Contains(t, err.Error(), "noncentral t power")

	require.True(t, Enable())
	backend, err := Require("noncentral t power")
	require.NoError(t, err)
	assert.NotNil(t, backend)
}

func withExactBackend(t *testing.T) {
	t.Helper()
	t.Setenv(EnvDisableExact, "")
	Reset()
	require.True(t, Enable())
	t.Cleanup(Reset)
}

func TestNoncentralTCDFZeroDeltaMatchesCentralT(t *testing.T) {
	withExactBackend(t)
	// With delta=0 the noncentral t collapses to the central t, so
	// the CDF at its own quantile recovers the probability.
	for _, df := range []float64{3, 10, 30} {
		for _, p := range []float64{0.1, 0.5, 0.9, 0.975} {
			q := TQuantile(p, df)
			assert.InDelta(t, p, NCTCDF(q, df, 0), 1e-8, "df=%v p=%v", df, p)
		}
	}
}

func TestNoncentralTCDFAtZero(t *testing.T) {
	withExactBackend(t)
	// F(0; df, delta) = Phi(-delta) for every df.
	for _, delta := range []float64{-1.5, 0, 0.5, 2.8} {
		assert.InDelta(t, NormCDF(-delta), NCTCDF(0, 12, delta), 1e-8, "delta=%v", delta)
	}
}

func TestNoncentralTBandNarrowerThanNormal(t *testing.T) {
	withExactBackend(t)
	// A two-one-sided-tests acceptance band evaluated under the
	// noncentral t carries less mass than the shifted-normal band at
	// small df, so equivalence designs sized on the normal band
	// would be under-powered.
	const df, delta, margin = 9.0, 0.2, 3.0
	q := TQuantile(0.95, df)
	lower, upper := q-margin, -q+margin

	nctBand := NCTCDF(upper, df, delta) - NCTCDF(lower, df, delta)
	normBand := NormCDF(upper-delta) - NormCDF(lower-delta)

	assert.InDelta(t, 0.717853300886525, nctBand, 1e-8)
	assert.InDelta(t, 0.747369400659014, normBand, 1e-8)
	assert.Less(t, nctBand, normBand)
}

func TestNoncentralTLargeDFApproachesNormal(t *testing.T) {
	withExactBackend(t)
	exact := PowerNoncentralT(2.8, 5000, 0.05, design.TwoSided)
	assert.InDelta(t, PowerNormal(2.8, 0.05, design.TwoSided), exact, 1e-3)
}

func TestExactTQuantileLargeDF(t *testing.T) {
	withExactBackend(t)
	assert.InDelta(t, 1.9599639845400536, TQuantile(0.975, 1e6), 1e-4)
	// Small df is strictly wider than the normal.
	assert.Greater(t, TQuantile(0.975, 5), 1.96)
}

func TestPowerNoncentralTMonotoneInDelta(t *testing.T) {
	withExactBackend(t)
	prev := 0.0
	for _, delta := range []float64{0.5, 1.0, 2.0, 3.0} {
		power := PowerNoncentralT(delta, 20, 0.05, design.Greater)
		assert.Greater(t, power, prev, "delta=%v", delta)
		prev = power
	}
}

func TestExactPowerNoncentralF(t *testing.T) {
	withExactBackend(t)
	assert.Equal(t, 0.0, PowerNoncentralF(0, 2, 100, 0.05))
	// Size at the null: lambda -> 0+ gives the test's alpha level.
	assert.InDelta(t, 0.05, PowerNoncentralF(1e-12, 2, 100, 0.05), 1e-3)
	// Monotone in lambda.
	prev := 0.0
	for _, lambda := range []float64{2.0, 6.0, 12.0, 20.0} {
		power := PowerNoncentralF(lambda, 2, 100, 0.05)
		assert.Greater(t, power, prev, "lambda=%v", lambda)
		prev = power
	}
	// Large samples agree with the normal approximation.
	exact := PowerNoncentralF(12, 2, 2000, 0.05)
	approx := approxPowerNoncentralF(12, 2, 2000, 0.05)
	assert.InDelta(t, exact, approx, 0.02)
}

func TestApproxBackendFallbacks(t *testing.T) {
	t.Setenv(EnvEnableExact, "")
	t.Setenv(EnvDisableExact, "")
	Reset()
	t.Cleanup(Reset)

	// t power falls back to the normal formula.
	assert.Equal(t,
		PowerNormal(2.8, 0.05, design.TwoSided),
		PowerNoncentralT(2.8, 10, 0.05, design.TwoSided))
	// nct CDF falls back to a shifted normal.
	assert.Equal(t, NormCDF(1.0-2.0), NCTCDF(1.0, 10, 2.0))
	// t quantile falls back to the normal quantile.
	assert.Equal(t, NormQuantile(0.975), TQuantile(0.975, 10))
}

func TestPowerBounds(t *testing.T) {
	withExactBackend(t)
	for _, delta := range []float64{-2, 0, 1, 5} {
		p := PowerNoncentralT(delta, 8, 0.05, design.TwoSided)
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
		assert.False(t, math.IsNaN(p))
	}
}

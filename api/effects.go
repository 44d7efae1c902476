package api

import (
	"math"

	"statdesign/internal/errors"
)

// Design-effect helpers inflate an individually-randomized sample
// size for clustering or repeated measurement correlation.

func validateICC(icc float64) error {
	if icc < 0 || icc >= 1 {
		return errors.InvalidInput("icc must be in [0, 1)")
	}
	return nil
}

// DesignEffectClusterEqual returns 1 + (m-1)*icc for clusters of
// equal size m.
func DesignEffectClusterEqual(m, icc float64) (float64, error) {
	if m <= 0 {
		return 0, errors.InvalidInput("m must be positive")
	}
	if err := validateICC(icc); err != nil {
		return 0, err
	}
	return 1.0 + (m-1.0)*icc, nil
}

// DesignEffectClusterUnequal returns 1 + icc*(mbar-1+cv^2) for
// clusters of mean size mbar and coefficient of variation cv.
func DesignEffectClusterUnequal(mbar, icc, cv float64) (float64, error) {
	if mbar <= 0 {
		return 0, errors.InvalidInput("mbar must be positive")
	}
	if err := validateICC(icc); err != nil {
		return 0, err
	}
	if cv < 0 {
		return 0, errors.InvalidInput("cv must be non-negative")
	}
	return 1.0 + icc*(mbar-1.0+cv*cv), nil
}

// DesignEffectRepeatedCS returns 1 + (k-1)*icc for k repeated
// measurements under compound symmetry.
func DesignEffectRepeatedCS(k int, icc float64) (float64, error) {
	if k < 1 {
		return 0, errors.InvalidInput("k must be at least 1")
	}
	if err := validateICC(icc); err != nil {
		return 0, err
	}
	return 1.0 + float64(k-1)*icc, nil
}

// InflateNByDE applies a design effect to an individually-randomized
// sample size, ceiling-rounding the result.
func InflateNByDE(n int, de float64) (int, error) {
	if n < 0 {
		return 0, errors.InvalidInput("n must be non-negative")
	}
	if de < 1 {
		return 0, errors.InvalidInput("de must be >= 1")
	}
	return int(math.Ceil(float64(n) * de)), nil
}

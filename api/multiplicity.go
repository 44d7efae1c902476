package api

import "statdesign/internal/errors"

// AdjustMethod names a multiple-testing adjustment.
type AdjustMethod string

const (
	Bonferroni AdjustMethod = "bonferroni"
	BH         AdjustMethod = "bh"
)

func validateMultiplicity(m int, alpha float64) error {
	if m < 1 {
		return errors.InvalidInput("m must be at least 1")
	}
	return validateUnitInterval(alpha, "alpha")
}

// AlphaAdjust returns the adjusted per-comparison alpha. For
// Bonferroni this is alpha/m. For Benjamini-Hochberg it returns the
// smallest step-up critical value, which is also alpha/m; use
// BHThresholds for the full sequence.
func AlphaAdjust(m int, alpha float64, method AdjustMethod) (float64, error) {
	alpha = defaultFloat(alpha, DefaultAlpha)
	if err := validateMultiplicity(m, alpha); err != nil {
		return 0, err
	}
	switch method {
	case Bonferroni, BH:
		return alpha / float64(m), nil
	}
	return 0, errors.InvalidInputf("method must be %q or %q", Bonferroni, BH)
}

// BHThresholds returns the Benjamini-Hochberg step-up critical values
// alpha*i/m for i=1..m, in increasing order.
func BHThresholds(m int, alpha float64) ([]float64, error) {
	alpha = defaultFloat(alpha, DefaultAlpha)
	if err := validateMultiplicity(m, alpha); err != nil {
		return nil, err
	}
	thresholds := make([]float64, m)
	for i := range thresholds {
		thresholds[i] = alpha * float64(i+1) / float64(m)
	}
	return thresholds, nil
}

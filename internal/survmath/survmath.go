// Package survmath holds closed-form required-events formulas for
// log-rank and Cox designs and the power-from-events inversion.
package survmath

import (
	"math"

	"statdesign/domain/design"
	"statdesign/internal/dist"
	"statdesign/internal/errors"
)

func validateTail(tail design.Tail) error {
	if err := tail.Validate(); err != nil {
		return errors.InvalidInput(err.Error())
	}
	return nil
}

func zAlpha(alpha float64, tail design.Tail) (float64, error) {
	if !(alpha > 0 && alpha < 1) {
		return 0, errors.InvalidInput("alpha must be in (0, 1)")
	}
	if err := validateTail(tail); err != nil {
		return 0, err
	}
	if tail == design.TwoSided {
		return dist.NormQuantile(1 - alpha/2), nil
	}
	return dist.NormQuantile(1 - alpha), nil
}

func validateHRTail(hr float64, tail design.Tail) error {
	if hr <= 0 || hr == 1 {
		return errors.InvalidInput("hr must be positive and not equal to 1")
	}
	if err := validateTail(tail); err != nil {
		return err
	}
	if tail == design.Greater && hr >= 1 {
		return errors.InvalidInput("tail='greater' expects hr < 1")
	}
	if tail == design.Less && hr <= 1 {
		return errors.InvalidInput("tail='less' expects hr > 1")
	}
	return nil
}

// RequiredEventsLogrank is the Schoenfeld formula for the total
// number of events a log-rank test needs.
func RequiredEventsLogrank(hr, alpha, power, allocation float64, tail design.Tail) (float64, error) {
	if err := validateHRTail(hr, tail); err != nil {
		return 0, err
	}
	if !(power > 0 && power < 1) {
		return 0, errors.InvalidInput("power must be in (0, 1)")
	}
	if !(allocation > 0 && allocation < 1) {
		return 0, errors.InvalidInput("allocation must be in (0, 1)")
	}
	za, err := zAlpha(alpha, tail)
	if err != nil {
		return 0, err
	}
	zb := dist.NormQuantile(power)
	absLog := math.Abs(math.Log(hr))
	return (za + zb) * (za + zb) / (absLog * absLog * allocation * (1 - allocation)), nil
}

// RequiredEventsCox is the events formula for a Cox model covariate
// with variance varX.
func RequiredEventsCox(logHR, varX, alpha, power float64, tail design.Tail) (float64, error) {
	if logHR == 0 {
		return 0, errors.InvalidInput("log_hr must be non-zero")
	}
	if err := validateTail(tail); err != nil {
		return 0, err
	}
	if tail == design.Greater && logHR >= 0 {
		return 0, errors.InvalidInput("tail='greater' expects log_hr < 0")
	}
	if tail == design.Less && logHR <= 0 {
		return 0, errors.InvalidInput("tail='less' expects log_hr > 0")
	}
	if varX <= 0 {
		return 0, errors.InvalidInput("var_x must be positive")
	}
	if !(power > 0 && power < 1) {
		return 0, errors.InvalidInput("power must be in (0, 1)")
	}
	za, err := zAlpha(alpha, tail)
	if err != nil {
		return 0, err
	}
	zb := dist.NormQuantile(power)
	return (za + zb) * (za + zb) * varX / (logHR * logHR), nil
}

// PowerFromEvents inverts the events formula: achieved log-rank power
// at a fixed event count, from the Fisher information
// events * allocation * (1-allocation) * ln(hr)^2.
func PowerFromEvents(hr, events, allocation, alpha float64, tail design.Tail) (float64, error) {
	if events < 0 {
		return 0, errors.InvalidInput("events must be non-negative")
	}
	if err := validateHRTail(hr, tail); err != nil {
		return 0, err
	}
	if !(allocation > 0 && allocation < 1) {
		return 0, errors.InvalidInput("allocation must be in (0, 1)")
	}
	za, err := zAlpha(alpha, tail)
	if err != nil {
		return 0, err
	}
	if events == 0 {
		return 0, nil
	}
	absLog := math.Abs(math.Log(hr))
	info := events * allocation * (1 - allocation) * absLog * absLog
	if info == 0 {
		return 0, nil
	}
	sqrtInfo := math.Sqrt(info)
	if tail == design.TwoSided {
		return dist.NormSF(za-sqrtInfo) + dist.NormCDF(-za-sqrtInfo), nil
	}
	return dist.NormCDF(sqrtInfo - za), nil
}

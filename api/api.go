// Package api exposes the public sample-size and power endpoints:
// two-sample and one-sample proportions and means, paired means,
// one-way ANOVA, log-rank/Cox survival designs, multiplicity
// adjustment, and design-effect inflation.
//
// Every endpoint follows the same three phases: validate the design
// parameters, build a pure power evaluator over candidate sample
// sizes, and hand it to the monotone integer solver. Evaluators are
// methods on the parameter structs so each one can be exercised in
// isolation.
package api

import (
	"statdesign/domain/design"
	"statdesign/internal"
	"statdesign/internal/dist"
	"statdesign/internal/errors"
)

const (
	// DefaultAlpha is the significance level applied when a
	// parameter struct leaves Alpha at zero.
	DefaultAlpha = 0.05
	// DefaultPower is the target power applied when a parameter
	// struct leaves Power at zero.
	DefaultPower = 0.80
)

var logger = internal.DefaultLogger

func defaultFloat(value, fallback float64) float64 {
	if value == 0 {
		return fallback
	}
	return value
}

func defaultTail(tail design.Tail) design.Tail {
	if tail == "" {
		return design.TwoSided
	}
	return tail
}

func validateUnitInterval(value float64, name string) error {
	if !(value > 0 && value < 1) {
		return errors.InvalidInputf("%s must be in (0, 1)", name)
	}
	return nil
}

func validateProbability(value float64, name string) error {
	if !(value > 0 && value < 1) {
		return errors.InvalidInputf("%s must be between 0 and 1", name)
	}
	return nil
}

func validateCommon(alpha, power float64, tail design.Tail) error {
	if err := validateUnitInterval(alpha, "alpha"); err != nil {
		return err
	}
	if err := validateUnitInterval(power, "power"); err != nil {
		return err
	}
	if err := tail.Validate(); err != nil {
		return errors.InvalidInput(err.Error())
	}
	return nil
}

// scorePower computes approximate power for a standardized effect
// delta/se with the exact normal formula.
func scorePower(delta, se, alpha float64, tail design.Tail) float64 {
	return dist.PowerNormal(delta/se, alpha, tail)
}

// equivalencePower computes two-one-sided-tests power for an
// equivalence design. effect and marginScaled are already on the
// standard-error scale; df and useT select the t path for mean
// designs, where the band is evaluated under the noncentral-t CDF.
func equivalencePower(effect, marginScaled, alpha, df float64, useT bool) float64 {
	if useT {
		q := dist.TQuantile(1.0-alpha, df)
		lower := q - marginScaled
		upper := -q + marginScaled
		if lower >= upper {
			return 0.0
		}
		return dist.NCTCDF(upper, df, effect) - dist.NCTCDF(lower, df, effect)
	}
	q := dist.NormQuantile(1.0 - alpha)
	lower := q - marginScaled
	upper := -q + marginScaled
	if lower >= upper {
		return 0.0
	}
	return dist.NormCDF(upper-effect) - dist.NormCDF(lower-effect)
}

// marginShift maps a noninferiority margin to the signed shift applied
// to the raw effect: toward rejection for the stated direction.
func marginShift(margin float64, tail design.Tail) float64 {
	if tail == design.Greater {
		return margin
	}
	return -margin
}

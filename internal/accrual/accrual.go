// Package accrual converts exponential-hazard survival assumptions
// (accrual window, follow-up, dropout, entry-time distribution) into
// per-subject event probabilities.
package accrual

import (
	"math"

	"statdesign/domain/design"
	"statdesign/internal/errors"
)

func validateInputs(lambdaEvent, lambdaDropout, accrualYears, followupYears float64, entry design.EntryDistribution) error {
	if lambdaEvent < 0 {
		return errors.InvalidInput("event hazard must be non-negative")
	}
	if lambdaDropout < 0 {
		return errors.InvalidInput("dropout hazard must be non-negative")
	}
	if accrualYears < 0 {
		return errors.InvalidInput("accrual_years must be non-negative")
	}
	if followupYears < 0 {
		return errors.InvalidInput("followup_years must be non-negative")
	}
	if err := entry.Validate(); err != nil {
		return errors.InvalidInput(err.Error())
	}
	if entry == design.EntryUniform && accrualYears <= 0 {
		return errors.InvalidInput("uniform entry requires accrual_years > 0")
	}
	return nil
}

// eventProbabilityInstant assumes all subjects enter at trial start
// with totalFollowYears of observation.
func eventProbabilityInstant(lambdaEvent, lambdaDropout, totalFollowYears float64) float64 {
	if lambdaEvent == 0 {
		return 0
	}
	lambdaTotal := lambdaEvent + lambdaDropout
	if lambdaTotal == 0 {
		return 0
	}
	return (lambdaEvent / lambdaTotal) * (1 - math.Exp(-lambdaTotal*totalFollowYears))
}

// eventProbabilityUniform integrates the instant formula over entry
// times distributed uniformly across the accrual window.
func eventProbabilityUniform(lambdaEvent, lambdaDropout, accrualYears, followupYears float64) float64 {
	if lambdaEvent == 0 {
		return 0
	}
	lambdaTotal := lambdaEvent + lambdaDropout
	if lambdaTotal == 0 {
		return 0
	}
	totalTime := accrualYears + followupYears
	expT := math.Exp(-lambdaTotal * totalTime)
	expF := math.Exp(-lambdaTotal * followupYears)
	term := accrualYears + (expT-expF)/lambdaTotal
	return (lambdaEvent / (lambdaTotal * accrualYears)) * term
}

// EventProbExponential returns the probability that an enrolled
// subject experiences the event before administrative censoring.
func EventProbExponential(lambdaEvent, lambdaDropout, accrualYears, followupYears float64, entry design.EntryDistribution) (float64, error) {
	if err := validateInputs(lambdaEvent, lambdaDropout, accrualYears, followupYears, entry); err != nil {
		return 0, err
	}
	if entry == design.EntryInstant {
		return eventProbabilityInstant(lambdaEvent, lambdaDropout, accrualYears+followupYears), nil
	}
	return eventProbabilityUniform(lambdaEvent, lambdaDropout, accrualYears, followupYears), nil
}

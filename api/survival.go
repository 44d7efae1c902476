package api

import (
	"math"

	"statdesign/domain/design"
	"statdesign/internal/accrual"
	"statdesign/internal/errors"
	"statdesign/internal/survmath"
)

// LogrankParams describes a log-rank design with hazard ratio HR and
// experimental-arm allocation fraction.
type LogrankParams struct {
	HR         float64     `json:"hr"`
	Alpha      float64     `json:"alpha"`
	Power      float64     `json:"power"`
	Allocation float64     `json:"allocation"`
	Tail       design.Tail `json:"tail"`
}

func (p LogrankParams) withDefaults() LogrankParams {
	p.Alpha = defaultFloat(p.Alpha, DefaultAlpha)
	p.Power = defaultFloat(p.Power, DefaultPower)
	p.Allocation = defaultFloat(p.Allocation, 0.5)
	p.Tail = defaultTail(p.Tail)
	return p
}

// RequiredEventsLogrank returns the total number of events required
// for a log-rank test by the Schoenfeld formula.
func RequiredEventsLogrank(params LogrankParams) (float64, error) {
	p := params.withDefaults()
	if err := validateUnitInterval(p.Allocation, "allocation"); err != nil {
		return 0, err
	}
	return survmath.RequiredEventsLogrank(p.HR, p.Alpha, p.Power, p.Allocation, p.Tail)
}

// CoxParams describes a Cox proportional-hazards design on a
// covariate with variance VarX and log hazard ratio LogHR.
type CoxParams struct {
	LogHR float64     `json:"log_hr"`
	VarX  float64     `json:"var_x"`
	Alpha float64     `json:"alpha"`
	Power float64     `json:"power"`
	Tail  design.Tail `json:"tail"`
}

func (p CoxParams) withDefaults() CoxParams {
	p.Alpha = defaultFloat(p.Alpha, DefaultAlpha)
	p.Power = defaultFloat(p.Power, DefaultPower)
	p.Tail = defaultTail(p.Tail)
	return p
}

// RequiredEventsCox returns the total events required for a Cox
// proportional-hazards test.
func RequiredEventsCox(params CoxParams) (float64, error) {
	p := params.withDefaults()
	return survmath.RequiredEventsCox(p.LogHR, p.VarX, p.Alpha, p.Power, p.Tail)
}

// ExponentialAccrualParams describes the exponential-hazard accrual
// model shared by the events-to-n conversion and the power-from-n
// inversion.
type ExponentialAccrualParams struct {
	AccrualYears   float64                  `json:"accrual_years"`
	FollowupYears  float64                  `json:"followup_years"`
	BaseHazardCtrl float64                  `json:"base_hazard_ctrl"`
	HR             float64                  `json:"hr"`
	DropoutHazard  float64                  `json:"dropout_hazard"`
	Entry          design.EntryDistribution `json:"entry_distribution"`
}

func (p ExponentialAccrualParams) withDefaults() ExponentialAccrualParams {
	if p.Entry == "" {
		p.Entry = design.EntryUniform
	}
	return p
}

func (p ExponentialAccrualParams) validate() error {
	if p.BaseHazardCtrl <= 0 {
		return errors.InvalidInput("base_hazard_ctrl must be positive")
	}
	if p.HR <= 0 {
		return errors.InvalidInput("hr must be positive")
	}
	if p.DropoutHazard < 0 {
		return errors.InvalidInput("dropout_hazard must be non-negative")
	}
	if err := p.Entry.Validate(); err != nil {
		return errors.InvalidInput(err.Error())
	}
	return nil
}

// eventProbs returns per-arm event probabilities (experimental,
// control) under the exponential model.
func (p ExponentialAccrualParams) eventProbs() (float64, float64, error) {
	pExp, err := accrual.EventProbExponential(
		p.BaseHazardCtrl*p.HR, p.DropoutHazard, p.AccrualYears, p.FollowupYears, p.Entry)
	if err != nil {
		return 0, 0, err
	}
	pCtrl, err := accrual.EventProbExponential(
		p.BaseHazardCtrl, p.DropoutHazard, p.AccrualYears, p.FollowupYears, p.Entry)
	if err != nil {
		return 0, 0, err
	}
	return pExp, pCtrl, nil
}

// EventsToNParams converts a required-events target into arm sizes.
type EventsToNParams struct {
	EventsRequired float64 `json:"events_required"`
	ExponentialAccrualParams
	Allocation float64 `json:"allocation"`
}

// EventsToNExponential converts required events to sample sizes under
// exponential hazards. Returns (total, experimental, control).
func EventsToNExponential(params EventsToNParams) (int, int, int, error) {
	p := params
	p.ExponentialAccrualParams = p.ExponentialAccrualParams.withDefaults()
	p.Allocation = defaultFloat(p.Allocation, 0.5)
	if p.EventsRequired < 0 {
		return 0, 0, 0, errors.InvalidInput("events_required must be non-negative")
	}
	if p.EventsRequired == 0 {
		return 0, 0, 0, nil
	}
	if err := p.ExponentialAccrualParams.validate(); err != nil {
		return 0, 0, 0, err
	}
	if err := validateUnitInterval(p.Allocation, "allocation"); err != nil {
		return 0, 0, 0, err
	}
	pExp, pCtrl, err := p.eventProbs()
	if err != nil {
		return 0, 0, 0, err
	}
	totalEventProb := p.Allocation*pExp + (1.0-p.Allocation)*pCtrl
	if totalEventProb <= 0 {
		return 0, 0, 0, errors.InvalidInput("event probability is zero; cannot determine sample size")
	}
	nTotal := int(math.Ceil(p.EventsRequired / totalEventProb))
	nExp := int(math.Ceil(p.Allocation * float64(nTotal)))
	nCtrl := nTotal - nExp
	if nCtrl < 0 {
		nCtrl = 0
	}
	return nTotal, nExp, nCtrl, nil
}

// PowerLogrankParams describes a fully specified log-rank design for
// power inversion.
type PowerLogrankParams struct {
	NExp  int `json:"n_exp"`
	NCtrl int `json:"n_ctrl"`
	ExponentialAccrualParams
	Alpha float64     `json:"alpha"`
	Tail  design.Tail `json:"tail"`
}

// PowerLogrankFromN computes the log-rank power implied by a design:
// expected events from the accrual model, then the power-from-events
// inversion.
func PowerLogrankFromN(params PowerLogrankParams) (float64, error) {
	p := params
	p.ExponentialAccrualParams = p.ExponentialAccrualParams.withDefaults()
	p.Alpha = defaultFloat(p.Alpha, DefaultAlpha)
	p.Tail = defaultTail(p.Tail)
	if p.NExp < 0 || p.NCtrl < 0 {
		return 0, errors.InvalidInput("sample sizes must be non-negative")
	}
	total := p.NExp + p.NCtrl
	if total == 0 {
		return 0.0, nil
	}
	if p.HR == 1.0 {
		return 0, errors.InvalidInput("hr must be positive and not equal to 1")
	}
	if err := p.ExponentialAccrualParams.validate(); err != nil {
		return 0, err
	}
	pExp, pCtrl, err := p.eventProbs()
	if err != nil {
		return 0, err
	}
	events := float64(p.NExp)*pExp + float64(p.NCtrl)*pCtrl
	allocation := float64(p.NExp) / float64(total)
	return survmath.PowerFromEvents(p.HR, events, allocation, p.Alpha, p.Tail)
}

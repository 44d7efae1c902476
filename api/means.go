package api

import (
	"math"

	"statdesign/domain/design"
	"statdesign/internal/alloc"
	"statdesign/internal/dist"
	"statdesign/internal/errors"
	"statdesign/internal/solve"
)

// MeanParams describes a two-sample mean comparison with common
// standard deviation sd. Zero values take the usual defaults: Alpha
// 0.05, Power 0.80, Ratio 1, Test t, Tail two-sided.
type MeanParams struct {
	Mu1   float64 `json:"mu1"`
	Mu2   float64 `json:"mu2"`
	SD    float64 `json:"sd"`
	Alpha float64 `json:"alpha"`
	Power float64 `json:"power"`
	// Ratio is n2/n1.
	Ratio  float64         `json:"ratio"`
	Test   design.TestKind `json:"test"`
	Tail   design.Tail     `json:"tail"`
	Margin design.Margin   `json:"margin"`
}

func (p MeanParams) withDefaults() MeanParams {
	p.Alpha = defaultFloat(p.Alpha, DefaultAlpha)
	p.Power = defaultFloat(p.Power, DefaultPower)
	p.Ratio = defaultFloat(p.Ratio, 1.0)
	if p.Test == "" {
		p.Test = design.TestT
	}
	p.Tail = defaultTail(p.Tail)
	return p
}

func (p MeanParams) validate() error {
	if p.SD <= 0 {
		return errors.InvalidInput("sd must be positive")
	}
	if err := validateCommon(p.Alpha, p.Power, p.Tail); err != nil {
		return err
	}
	if err := p.Margin.Validate(p.Tail); err != nil {
		return errors.InvalidInput(err.Error())
	}
	if err := alloc.ValidateRatio(p.Ratio); err != nil {
		return err
	}
	if err := p.Test.Validate(); err != nil {
		return errors.InvalidInput(err.Error())
	}
	if !p.Margin.Present() && p.Mu1 == p.Mu2 {
		return errors.InvalidInput("effect size must be non-zero")
	}
	return nil
}

func (p MeanParams) achievedPower(n1 int) (float64, error) {
	if n1 < 2 {
		n1 = 2
	}
	n1, n2, err := alloc.GroupsFromN1(n1, p.Ratio)
	if err != nil {
		return 0, err
	}
	se := p.SD * math.Sqrt(1.0/float64(n1)+1.0/float64(n2))
	df := float64(n1 + n2 - 2)
	delta := p.Mu1 - p.Mu2
	if !p.Margin.Present() {
		return standardizedPower(delta/se, df, p.Alpha, p.Tail, p.Test), nil
	}
	if p.Margin.Type == design.Noninferiority {
		effect := (delta + marginShift(p.Margin.Value, p.Tail)) / se
		return standardizedPower(effect, df, p.Alpha, p.Tail, p.Test), nil
	}
	return equivalencePower(delta/se, p.Margin.Value/se, p.Alpha, df, p.Test == design.TestT), nil
}

// standardizedPower evaluates power for a standardized effect, using
// the noncentral-t adapter for t tests and the exact normal formula
// for z tests.
func standardizedPower(effect, df, alpha float64, tail design.Tail, test design.TestKind) float64 {
	if test == design.TestT {
		return dist.PowerNoncentralT(effect, df, alpha, tail)
	}
	return dist.PowerNormal(effect, alpha, tail)
}

// NMean returns the per-arm sample sizes for a two-sample mean
// comparison. When the exact noncentral backend is off and the test
// is t-based, the solved n1 is padded by a fixed conservative cushion
// so the normal approximation never under-covers the t requirement.
func NMean(params MeanParams) (int, int, error) {
	p := params.withDefaults()
	if err := p.validate(); err != nil {
		return 0, 0, err
	}
	n1, err := solve.MonotoneInt(p.achievedPower, p.Power, solve.Options{Lower: 2})
	if err != nil {
		return 0, 0, err
	}
	if p.Test == design.TestT && !dist.HasExact() {
		n1 += 2
	}
	n1, n2, err := alloc.GroupsFromN1(max(n1, 2), p.Ratio)
	if err != nil {
		return 0, 0, err
	}
	return max(n1, 2), max(n2, 2), nil
}

// OneSampleMeanParams describes a one-sample mean test of a raw
// difference Delta against zero.
type OneSampleMeanParams struct {
	Delta  float64         `json:"delta"`
	SD     float64         `json:"sd"`
	Alpha  float64         `json:"alpha"`
	Power  float64         `json:"power"`
	Tail   design.Tail     `json:"tail"`
	Test   design.TestKind `json:"test"`
	Margin design.Margin   `json:"margin"`
}

func (p OneSampleMeanParams) withDefaults() OneSampleMeanParams {
	p.Alpha = defaultFloat(p.Alpha, DefaultAlpha)
	p.Power = defaultFloat(p.Power, DefaultPower)
	if p.Test == "" {
		p.Test = design.TestT
	}
	p.Tail = defaultTail(p.Tail)
	return p
}

func (p OneSampleMeanParams) validate() error {
	if p.SD <= 0 {
		return errors.InvalidInput("sd must be positive")
	}
	if err := validateCommon(p.Alpha, p.Power, p.Tail); err != nil {
		return err
	}
	if err := p.Margin.Validate(p.Tail); err != nil {
		return errors.InvalidInput(err.Error())
	}
	if err := p.Test.Validate(); err != nil {
		return errors.InvalidInput(err.Error())
	}
	if !p.Margin.Present() && p.Delta == 0 {
		return errors.InvalidInput("effect size must be non-zero")
	}
	return nil
}

func (p OneSampleMeanParams) floor() int {
	if p.Test == design.TestT {
		return 2
	}
	return 1
}

func (p OneSampleMeanParams) achievedPower(n int) (float64, error) {
	if floor := p.floor(); n < floor {
		n = floor
	}
	se := p.SD / math.Sqrt(float64(n))
	df := float64(n - 1)
	if !p.Margin.Present() {
		return standardizedPower(p.Delta/se, df, p.Alpha, p.Tail, p.Test), nil
	}
	if p.Margin.Type == design.Noninferiority {
		effect := (p.Delta + marginShift(p.Margin.Value, p.Tail)) / se
		return standardizedPower(effect, df, p.Alpha, p.Tail, p.Test), nil
	}
	return equivalencePower(p.Delta/se, p.Margin.Value/se, p.Alpha, df, p.Test == design.TestT), nil
}

// NOneSampleMean returns the sample size for a one-sample mean test.
// The fallback cushion for t tests without the exact backend is +2,
// which keeps the normal approximation at or above the noncentral-t
// requirement.
func NOneSampleMean(params OneSampleMeanParams) (int, error) {
	p := params.withDefaults()
	if err := p.validate(); err != nil {
		return 0, err
	}
	floor := p.floor()
	n, err := solve.MonotoneInt(p.achievedPower, p.Power, solve.Options{Lower: floor})
	if err != nil {
		return 0, err
	}
	if p.Test == design.TestT && !dist.HasExact() {
		n += 2
	}
	return max(n, floor), nil
}

// PairedParams describes a paired mean comparison on the
// within-subject differences.
type PairedParams struct {
	Delta  float64       `json:"delta"`
	SDDiff float64       `json:"sd_diff"`
	Alpha  float64       `json:"alpha"`
	Power  float64       `json:"power"`
	Tail   design.Tail   `json:"tail"`
	Margin design.Margin `json:"margin"`
}

// NPaired returns the number of pairs for a paired mean comparison.
// A paired design is a one-sample t test on the differences.
func NPaired(params PairedParams) (int, error) {
	if params.SDDiff <= 0 {
		return 0, errors.InvalidInput("sd_diff must be positive")
	}
	return NOneSampleMean(OneSampleMeanParams{
		Delta:  params.Delta,
		SD:     params.SDDiff,
		Alpha:  params.Alpha,
		Power:  params.Power,
		Tail:   params.Tail,
		Test:   design.TestT,
		Margin: params.Margin,
	})
}

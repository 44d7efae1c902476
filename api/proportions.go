package api

import (
	"math"

	"statdesign/domain/design"
	"statdesign/internal/alloc"
	"statdesign/internal/errors"
	"statdesign/internal/exact"
	"statdesign/internal/solve"
)

// TwoPropParams describes a two-sample proportion comparison.
// Zero values take the usual defaults: Alpha 0.05, Power 0.80,
// Ratio 1, Test z, Tail two-sided.
type TwoPropParams struct {
	P1    float64 `json:"p1"`
	P2    float64 `json:"p2"`
	Alpha float64 `json:"alpha"`
	Power float64 `json:"power"`
	// Ratio is n2/n1.
	Ratio float64 `json:"ratio"`
	// Test is accepted for symmetry with the mean designs; the
	// approximate path always evaluates the pooled-variance score
	// statistic on the normal scale.
	Test   design.TestKind `json:"test"`
	Tail   design.Tail     `json:"tail"`
	Margin design.Margin   `json:"margin"`
	Exact  bool            `json:"exact"`
	// ExactCeiling caps exact Fisher enumeration per arm; zero
	// means the default ceiling.
	ExactCeiling int `json:"exact_ceiling"`
}

func (p TwoPropParams) withDefaults() TwoPropParams {
	p.Alpha = defaultFloat(p.Alpha, DefaultAlpha)
	p.Power = defaultFloat(p.Power, DefaultPower)
	p.Ratio = defaultFloat(p.Ratio, 1.0)
	if p.Test == "" {
		p.Test = design.TestZ
	}
	p.Tail = defaultTail(p.Tail)
	if p.ExactCeiling == 0 {
		p.ExactCeiling = exact.DefaultMaxN
	}
	return p
}

func (p TwoPropParams) validate() error {
	if err := validateProbability(p.P1, "p1"); err != nil {
		return err
	}
	if err := validateProbability(p.P2, "p2"); err != nil {
		return err
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
	if p.Exact && p.Margin.Present() {
		return errors.New(errors.CodeExactUnsupported,
			"exact mode with a noninferiority or equivalence margin is not supported; use the normal approximation")
	}
	if !p.Margin.Present() && p.P1 == p.P2 {
		return errors.InvalidInput("effect size must be non-zero")
	}
	return nil
}

// achievedPower evaluates the design at candidate arm-1 size n1, with
// n2 derived through the allocation ratio.
func (p TwoPropParams) achievedPower(n1 int) (float64, error) {
	if n1 < 2 {
		n1 = 2
	}
	n1, n2, err := alloc.GroupsFromN1(n1, p.Ratio)
	if err != nil {
		return 0, err
	}
	if p.Exact {
		return exact.PowerTwoProp(p.P1, p.P2, n1, n2, p.Alpha, p.Tail, p.ExactCeiling)
	}
	total := float64(n1 + n2)
	pooled := (p.P1*float64(n1) + p.P2*float64(n2)) / total
	se := math.Sqrt(pooled * (1.0 - pooled) * (1.0/float64(n1) + 1.0/float64(n2)))
	delta := p.P1 - p.P2
	if !p.Margin.Present() {
		return scorePower(delta, se, p.Alpha, p.Tail), nil
	}
	if p.Margin.Type == design.Noninferiority {
		return scorePower(delta+marginShift(p.Margin.Value, p.Tail), se, p.Alpha, p.Tail), nil
	}
	return equivalencePower(delta/se, p.Margin.Value/se, p.Alpha, 0, false), nil
}

// NTwoProp returns the per-arm sample sizes for a two-sample
// proportion comparison. When exact enumeration exceeds the ceiling
// mid-solve, the design is re-solved on the normal approximation and
// the downgrade is logged.
func NTwoProp(params TwoPropParams) (int, int, error) {
	p := params.withDefaults()
	if err := p.validate(); err != nil {
		return 0, 0, err
	}
	n1, err := solve.MonotoneInt(p.achievedPower, p.Power, solve.Options{Lower: 2})
	if err != nil && p.Exact && errors.Is(err, exact.ErrUnsupported) {
		logger.Warn("exact two-sample enumeration exceeds n=%d; falling back to normal approximation", p.ExactCeiling)
		p.Exact = false
		n1, err = solve.MonotoneInt(p.achievedPower, p.Power, solve.Options{Lower: 2})
	}
	if err != nil {
		return 0, 0, err
	}
	n1, n2, err := alloc.GroupsFromN1(max(n1, 2), p.Ratio)
	if err != nil {
		return 0, 0, err
	}
	return max(n1, 2), max(n2, 2), nil
}

// OneSamplePropParams describes a single-proportion test against a
// null value p0.
type OneSamplePropParams struct {
	P      float64       `json:"p"`
	P0     float64       `json:"p0"`
	Alpha  float64       `json:"alpha"`
	Power  float64       `json:"power"`
	Tail   design.Tail   `json:"tail"`
	Margin design.Margin `json:"margin"`
	Exact  bool          `json:"exact"`
	// ExactCeiling caps exact binomial enumeration; zero means the
	// default ceiling.
	ExactCeiling int `json:"exact_ceiling"`
}

func (p OneSamplePropParams) withDefaults() OneSamplePropParams {
	p.Alpha = defaultFloat(p.Alpha, DefaultAlpha)
	p.Power = defaultFloat(p.Power, DefaultPower)
	p.Tail = defaultTail(p.Tail)
	if p.ExactCeiling == 0 {
		p.ExactCeiling = exact.DefaultMaxN
	}
	return p
}

func (p OneSamplePropParams) validate() error {
	if err := validateProbability(p.P, "p"); err != nil {
		return err
	}
	if err := validateProbability(p.P0, "p0"); err != nil {
		return err
	}
	if err := validateCommon(p.Alpha, p.Power, p.Tail); err != nil {
		return err
	}
	if err := p.Margin.Validate(p.Tail); err != nil {
		return errors.InvalidInput(err.Error())
	}
	if !p.Margin.Present() && p.P == p.P0 {
		return errors.InvalidInput("effect size must be non-zero")
	}
	return nil
}

func (p OneSamplePropParams) achievedPower(n int) (float64, error) {
	if n < 2 {
		n = 2
	}
	if p.Exact {
		switch p.Margin.Type {
		case design.Noninferiority:
			nullProp := p.P0 - p.Margin.Value
			if p.Tail == design.Less {
				nullProp = p.P0 + p.Margin.Value
			}
			return exact.PowerOneProp(p.P, nullProp, n, p.Alpha, p.Tail, p.ExactCeiling)
		case design.Equivalence:
			return exact.PowerOnePropEquivalence(p.P, p.P0, p.Margin.Value, n, p.Alpha, p.ExactCeiling)
		default:
			return exact.PowerOneProp(p.P, p.P0, n, p.Alpha, p.Tail, p.ExactCeiling)
		}
	}
	seNull := math.Sqrt(p.P0 * (1.0 - p.P0) / float64(n))
	delta := p.P - p.P0
	if !p.Margin.Present() {
		return scorePower(delta, seNull, p.Alpha, p.Tail), nil
	}
	if p.Margin.Type == design.Noninferiority {
		return scorePower(delta+marginShift(p.Margin.Value, p.Tail), seNull, p.Alpha, p.Tail), nil
	}
	return equivalencePower(delta/seNull, p.Margin.Value/seNull, p.Alpha, 0, false), nil
}

// NOneSampleProp returns the sample size for a single-proportion test.
func NOneSampleProp(params OneSamplePropParams) (int, error) {
	p := params.withDefaults()
	if err := p.validate(); err != nil {
		return 0, err
	}
	n, err := solve.MonotoneInt(p.achievedPower, p.Power, solve.Options{Lower: 2})
	if err != nil && p.Exact && errors.Is(err, exact.ErrUnsupported) {
		logger.Warn("exact binomial enumeration exceeds n=%d; falling back to normal approximation", p.ExactCeiling)
		p.Exact = false
		n, err = solve.MonotoneInt(p.achievedPower, p.Power, solve.Options{Lower: 2})
	}
	if err != nil {
		return 0, err
	}
	return max(n, 2), nil
}

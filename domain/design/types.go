// Package design holds the canonical value types shared by every
// power and sample-size endpoint: tail selectors, test-statistic
// kinds, noninferiority/equivalence margins, and entry distributions.
package design

import "fmt"

// Tail selects which critical region(s) of the null distribution
// define rejection.
type Tail string

const (
	TwoSided Tail = "two-sided"
	Greater  Tail = "greater"
	Less     Tail = "less"
)

// Validate rejects unknown tail values. An empty Tail is left to the
// caller to default.
func (t Tail) Validate() error {
	switch t {
	case TwoSided, Greater, Less:
		return nil
	}
	return fmt.Errorf("unsupported tail: %q", string(t))
}

// OneSided reports whether the tail names a directional alternative.
func (t Tail) OneSided() bool {
	return t == Greater || t == Less
}

// TestKind is the test-statistic family for mean and proportion
// comparisons.
type TestKind string

const (
	TestZ TestKind = "z"
	TestT TestKind = "t"
)

// Validate rejects unknown test kinds.
func (k TestKind) Validate() error {
	switch k {
	case TestZ, TestT:
		return nil
	}
	return fmt.Errorf("test must be %q or %q", TestZ, TestT)
}

// NIType distinguishes noninferiority from equivalence margins.
type NIType string

const (
	Noninferiority NIType = "noninferiority"
	Equivalence    NIType = "equivalence"
)

// Margin is an optional noninferiority/equivalence margin. The zero
// value means no margin.
type Margin struct {
	Value float64 `json:"value"`
	Type  NIType  `json:"type"`
}

// Present reports whether a margin was supplied at all.
func (m Margin) Present() bool {
	return m.Type != "" || m.Value != 0
}

// Validate enforces the margin invariants: value and type are
// supplied together, the value is positive, equivalence pairs with a
// two-sided tail, and noninferiority with a one-sided one.
func (m Margin) Validate(tail Tail) error {
	if m.Type == "" {
		if m.Value != 0 {
			return fmt.Errorf("ni_margin provided without ni_type")
		}
		return nil
	}
	switch m.Type {
	case Noninferiority, Equivalence:
	default:
		return fmt.Errorf("unsupported ni_type: %q", string(m.Type))
	}
	if m.Value <= 0 {
		return fmt.Errorf("ni_margin must be positive")
	}
	if m.Type == Equivalence && tail != TwoSided {
		return fmt.Errorf("equivalence requires tail=%q", TwoSided)
	}
	if m.Type == Noninferiority && !tail.OneSided() {
		return fmt.Errorf("noninferiority requires a one-sided tail")
	}
	return nil
}

// EntryDistribution describes when subjects enter during accrual.
type EntryDistribution string

const (
	EntryUniform EntryDistribution = "uniform"
	EntryInstant EntryDistribution = "instant"
)

// Validate rejects unknown entry distributions.
func (e EntryDistribution) Validate() error {
	switch e {
	case EntryUniform, EntryInstant:
		return nil
	}
	return fmt.Errorf("entry_distribution must be %q or %q", EntryUniform, EntryInstant)
}

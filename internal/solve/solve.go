// Package solve provides the monotone integer root finder shared by
// every sample-size endpoint: bisection over a non-decreasing
// integer->power function with exponential bracketing.
package solve

import (
	"statdesign/internal/errors"
)

// Evaluator maps a candidate integer sample size to achieved power.
// It must be non-decreasing in its argument; that monotonicity is an
// assumed invariant, not verified at runtime.
type Evaluator func(n int) (float64, error)

// Options bound the search. Zero values take the documented defaults.
type Options struct {
	Lower         int // minimum admissible n (default 2)
	Upper         int // optional known upper bracket; 0 means bracket automatically
	MaxIterations int // bisection iteration cap (default 64)
	MaxValue      int // bracketing ceiling (default 1_000_000)
}

const (
	defaultLower    = 2
	defaultMaxIter  = 64
	defaultMaxValue = 1_000_000
)

func (o Options) withDefaults() Options {
	if o.Lower == 0 {
		o.Lower = defaultLower
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = defaultMaxIter
	}
	if o.MaxValue == 0 {
		o.MaxValue = defaultMaxValue
	}
	return o
}

// MonotoneInt returns the minimal integer n >= opts.Lower with
// eval(n) >= target. Exceeding opts.MaxValue while bracketing means
// the design is infeasible within the configured ceiling and is
// reported as a fatal error, never truncated silently.
func MonotoneInt(eval Evaluator, target float64, opts Options) (int, error) {
	if !(target > 0 && target < 1) {
		return 0, errors.InvalidInput("target must be in (0, 1)")
	}
	opts = opts.withDefaults()
	if opts.Lower < 1 {
		return 0, errors.InvalidInput("lower must be at least 1")
	}

	upper := opts.Upper
	if upper == 0 {
		upper = max(opts.Lower, 2)
		for {
			achieved, err := eval(upper)
			if err != nil {
				return 0, err
			}
			if achieved >= target {
				break
			}
			if upper >= opts.MaxValue {
				return 0, errors.Newf(errors.CodeInfeasible,
					"target power %.4g not reachable within n=%d", target, opts.MaxValue)
			}
			upper = min(upper*2, opts.MaxValue)
		}
	}

	low, high := opts.Lower, upper
	for i := 0; i < opts.MaxIterations && low < high; i++ {
		mid := (low + high) / 2
		if mid == high {
			break
		}
		achieved, err := eval(mid)
		if err != nil {
			return 0, err
		}
		if achieved >= target {
			high = mid
		} else {
			low = mid + 1
		}
	}
	return max(low, opts.Lower), nil
}

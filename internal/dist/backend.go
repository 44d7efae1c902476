package dist

import (
	"os"
	"sync"

	"statdesign/domain/design"
	"statdesign/internal/errors"
)

// Environment toggles controlling the noncentral backend. The exact
// backend is opt-in so the default numeric behavior stays identical
// across environments; the approximate path is documented-conservative
// for every call shape.
const (
	EnvEnableExact  = "STATDESIGN_EXACT_DIST"
	EnvDisableExact = "STATDESIGN_DISABLE_EXACT"
)

// Backend evaluates noncentral-distribution quantities. Exactly two
// implementations exist: the exact incomplete-beta series backend and
// the normal/Wilson-Hilferty approximation.
type Backend interface {
	// PowerNoncentralT is the power of a t test with noncentrality
	// delta and df degrees of freedom at level alpha.
	PowerNoncentralT(delta, df, alpha float64, tail design.Tail) float64
	// NCTCDF is the noncentral-t CDF at x.
	NCTCDF(x, df, delta float64) float64
	// PowerNoncentralF is the upper-tail power of a noncentral F test.
	PowerNoncentralF(lambda, dfNum, dfDen, alpha float64) float64
	// TQuantile is the central-t inverse CDF.
	TQuantile(p, df float64) float64
}

// probe-once cache for backend selection. Write-once-then-stable:
// concurrent callers race only on an idempotent env read.
var (
	backendMu     sync.Mutex
	backendProbed bool
	backendExact  bool
)

func probeLocked() {
	if backendProbed {
		return
	}
	backendProbed = true
	if os.Getenv(EnvDisableExact) == "1" {
		backendExact = false
		return
	}
	backendExact = os.Getenv(EnvEnableExact) == "1"
}

// HasExact reports whether the exact noncentral backend is active.
// The first call probes the environment; later calls reuse the cached
// answer until Reset.
func HasExact() bool {
	backendMu.Lock()
	defer backendMu.Unlock()
	probeLocked()
	return backendExact
}

// Active returns the backend selected for this process.
func Active() Backend {
	if HasExact() {
		return exactBackend{}
	}
	return approxBackend{}
}

// Require returns the exact backend or a configuration error naming
// the feature that needs it and how to enable it. Every current call
// shape has an approximate fallback, so this is only hit by callers
// that insist on exact noncentral behavior.
func Require(feature string) (Backend, error) {
	if !HasExact() {
		return nil, errors.Newf(errors.CodeBackendUnavailable,
			"%s requires the exact noncentral backend; set %s=1 to enable it", feature, EnvEnableExact)
	}
	return exactBackend{}, nil
}

// Enable forces the exact backend on for this process, bypassing the
// environment probe. It reports whether the backend is now active.
func Enable() bool {
	backendMu.Lock()
	defer backendMu.Unlock()
	backendProbed = true
	backendExact = os.Getenv(EnvDisableExact) != "1"
	return backendExact
}

// Reset clears the probe cache so the next call re-reads the
// environment. Needed to exercise both code paths in one process.
func Reset() {
	backendMu.Lock()
	defer backendMu.Unlock()
	backendProbed = false
	backendExact = false
}

// PowerNormal computes exact normal-theory power for a shifted test
// statistic. It needs no backend and is the fallback for the t family.
func PowerNormal(delta, alpha float64, tail design.Tail) float64 {
	switch tail {
	case design.TwoSided:
		crit := NormQuantile(1 - alpha/2)
		return NormSF(crit-delta) + NormCDF(-crit-delta)
	case design.Greater:
		crit := NormQuantile(1 - alpha)
		return NormSF(crit - delta)
	default:
		crit := NormQuantile(alpha)
		return NormCDF(crit - delta)
	}
}

// PowerNoncentralT routes to the active backend.
func PowerNoncentralT(delta, df, alpha float64, tail design.Tail) float64 {
	return Active().PowerNoncentralT(delta, df, alpha, tail)
}

// NCTCDF routes to the active backend.
func NCTCDF(x, df, delta float64) float64 {
	return Active().NCTCDF(x, df, delta)
}

// PowerNoncentralF routes to the active backend.
func PowerNoncentralF(lambda, dfNum, dfDen, alpha float64) float64 {
	return Active().PowerNoncentralF(lambda, dfNum, dfDen, alpha)
}

// TQuantile routes to the active backend.
func TQuantile(p, df float64) float64 {
	return Active().TQuantile(p, df)
}

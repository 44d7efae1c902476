package api

import (
	"testing"

	"statdesign/internal/dist"
)

// useApproxBackend pins the approximate distribution path regardless
// of the ambient environment.
func useApproxBackend(t *testing.T) {
	t.Helper()
	t.Setenv(dist.EnvDisableExact, "1")
	dist.Reset()
	t.Cleanup(dist.Reset)
}

// useExactBackend activates the exact noncentral backend.
func useExactBackend(t *testing.T) {
	t.Helper()
	t.Setenv(dist.EnvDisableExact, "")
	t.Setenv(dist.EnvEnableExact, "1")
	dist.Reset()
	t.Cleanup(dist.Reset)
}

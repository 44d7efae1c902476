package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesignEffectClusterEqual(t *testing.T) {
	de, err := DesignEffectClusterEqual(20, 0.05)
	require.NoError(t, err)
	assert.InDelta(t, 1.95, de, 1e-12)

	de, err = DesignEffectClusterEqual(20, 0)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, de, 1e-12)
}

func TestDesignEffectClusterEqualValidation(t *testing.T) {
	_, err := DesignEffectClusterEqual(0, 0.05)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "m must be positive")

	_, err = DesignEffectClusterEqual(20, 1.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "icc must be in [0, 1)")

	_, err = DesignEffectClusterEqual(20, -0.1)
	assert.Error(t, err)
}

func TestDesignEffectClusterUnequal(t *testing.T) {
	// cv=0 reduces to the equal-size formula.
	equal, err := DesignEffectClusterEqual(20, 0.05)
	require.NoError(t, err)
	unequal, err := DesignEffectClusterUnequal(20, 0.05, 0)
	require.NoError(t, err)
	assert.InDelta(t, equal, unequal, 1e-12)

	de, err := DesignEffectClusterUnequal(20, 0.05, 0.6)
	require.NoError(t, err)
	assert.InDelta(t, 1.968, de, 1e-12)
}

func TestDesignEffectClusterUnequalValidation(t *testing.T) {
	_, err := DesignEffectClusterUnequal(0, 0.05, 0.5)
	assert.Error(t, err)
	_, err = DesignEffectClusterUnequal(20, 0.05, -0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cv must be non-negative")
}

func TestDesignEffectRepeatedCS(t *testing.T) {
	de, err := DesignEffectRepeatedCS(4, 0.3)
	require.NoError(t, err)
	assert.InDelta(t, 1.9, de, 1e-12)

	de, err = DesignEffectRepeatedCS(1, 0.3)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, de, 1e-12)

	_, err = DesignEffectRepeatedCS(0, 0.3)
	assert.Error(t, err)
}

func TestInflateNByDE(t *testing.T) {
	n, err := InflateNByDE(100, 1.95)
	require.NoError(t, err)
	assert.Equal(t, 195, n)

	// Fractional products round up.
	n, err = InflateNByDE(101, 1.95)
	require.NoError(t, err)
	assert.Equal(t, 197, n)

	n, err = InflateNByDE(0, 2.0)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestInflateNByDEValidation(t *testing.T) {
	_, err := InflateNByDE(-1, 1.5)
	assert.Error(t, err)
	_, err = InflateNByDE(100, 0.9)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "de must be >= 1")
}

package accrual

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"statdesign/domain/design"
)

func TestEventProbUniform(t *testing.T) {
	p, err := EventProbExponential(0.3, 0.0, 2.0, 3.0, design.EntryUniform)
	require.NoError(t, err)
	assert.InDelta(t, 0.6942675006797178, p, 1e-12)
}

func TestEventProbInstant(t *testing.T) {
	p, err := EventProbExponential(0.3, 0.05, 2.0, 3.0, design.EntryInstant)
	require.NoError(t, err)
	assert.InDelta(t, 0.7081937627567614, p, 1e-12)
}

func TestEventProbEdgeCases(t *testing.T) {
	// No event hazard means no events.
	p, err := EventProbExponential(0, 0.1, 2, 3, design.EntryUniform)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)

	// Zero total hazard also yields zero.
	p, err = EventProbExponential(0, 0, 2, 3, design.EntryInstant)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p)
}

func TestEventProbUniformRequiresAccrual(t *testing.T) {
	_, err := EventProbExponential(0.3, 0, 0, 3, design.EntryUniform)
	assert.Error(t, err)

	// Instant entry tolerates a zero accrual window.
	_, err = EventProbExponential(0.3, 0, 0, 3, design.EntryInstant)
	assert.NoError(t, err)
}

func TestEventProbValidation(t *testing.T) {
	_, err := EventProbExponential(-0.1, 0, 2, 3, design.EntryUniform)
	assert.Error(t, err)
	_, err = EventProbExponential(0.3, -0.1, 2, 3, design.EntryUniform)
	assert.Error(t, err)
	_, err = EventProbExponential(0.3, 0, 2, 3, design.EntryDistribution("weird"))
	assert.Error(t, err)
}

func TestEventProbBoundsAndOrdering(t *testing.T) {
	// Probabilities stay in [0,1] and grow with the event hazard.
	prev := 0.0
	for _, hazard := range []float64{0.05, 0.1, 0.3, 0.8, 2.0} {
		p, err := EventProbExponential(hazard, 0.02, 2, 3, design.EntryUniform)
		require.NoError(t, err)
		assert.Greater(t, p, prev)
		assert.LessOrEqual(t, p, 1.0)
		prev = p
	}

	// Dropout competes with the event, reducing its probability.
	noDropout, err := EventProbExponential(0.3, 0, 2, 3, design.EntryUniform)
	require.NoError(t, err)
	withDropout, err := EventProbExponential(0.3, 0.2, 2, 3, design.EntryUniform)
	require.NoError(t, err)
	assert.Less(t, withDropout, noDropout)

	// Instant entry observes everyone for the full window, so its
	// event probability dominates uniform entry.
	instant, err := EventProbExponential(0.3, 0, 2, 3, design.EntryInstant)
	require.NoError(t, err)
	assert.Greater(t, instant, noDropout)
}

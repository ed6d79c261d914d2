package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestState(t *testing.T, dev *fakeDevice) *SimulationState {
	t.Helper()
	s, err := Allocate(dev, Plan(8, 8))
	require.NoError(t, err)
	return s
}

func TestSeedWritesBackThenSwaps(t *testing.T) {
	dev := newFakeDevice()
	s := newTestState(t, dev)
	s.Time = 12
	pos, vel := s.Position, s.Velocity

	NewStepper(dev, 99).Seed(s, DefaultConfig())

	require.Len(t, dev.passes, 2)
	assert.Equal(t, PassSeedPosition, dev.passes[0].pass)
	assert.Equal(t, pos.Back, dev.passes[0].target)
	assert.Equal(t, PassSeedVelocity, dev.passes[1].pass)
	assert.Equal(t, vel.Back, dev.passes[1].target)

	assert.Equal(t, pos.Back, s.Position.Front)
	assert.Equal(t, vel.Back, s.Velocity.Front)
	assert.Zero(t, s.Time)
}

func TestStepOrdersVelocityBeforePosition(t *testing.T) {
	dev := newFakeDevice()
	s := newTestState(t, dev)
	pos, vel := s.Position, s.Velocity

	NewStepper(dev, 99).Step(s, DefaultConfig(), 0.25)

	require.Len(t, dev.passes, 2)
	v, p := dev.passes[0], dev.passes[1]

	assert.Equal(t, PassUpdateVelocity, v.pass)
	assert.Equal(t, vel.Back, v.target)
	assert.Equal(t, pos.Front, v.u.PositionTex)
	assert.Equal(t, vel.Front, v.u.VelocityTex)

	// Position integrates the velocity written a moment ago.
	assert.Equal(t, PassUpdatePosition, p.pass)
	assert.Equal(t, pos.Back, p.target)
	assert.Equal(t, pos.Front, p.u.PositionTex)
	assert.Equal(t, vel.Back, p.u.VelocityTex)
	assert.InDelta(t, 0.25, p.u.DeltaTime, 1e-7)

	// Exactly one swap.
	assert.Equal(t, pos.Back, s.Position.Front)
	assert.Equal(t, vel.Back, s.Velocity.Front)
	assert.InDelta(t, 0.25, s.Time, 1e-12)
}

func TestStepsForFrame(t *testing.T) {
	fixed := DefaultConfig()
	fixed.FixedTimeStep = true
	fixed.StepsPerSecond = 60

	tests := []struct {
		name  string
		cfg   Config
		frame float64
		n     int
		dt    float64
	}{
		{"variable", DefaultConfig(), 0.033, 1, 0.033},
		{"fixed two steps", fixed, 0.033, 2, 1.0 / 60},
		{"fixed rounds down", fixed, 0.008, 0, 1.0 / 60},
		{"fixed rounds up", fixed, 0.009, 1, 1.0 / 60},
		{"zero frame", fixed, 0, 0, 0},
		{"negative frame", DefaultConfig(), -1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, dt := StepsForFrame(tt.cfg, tt.frame)
			assert.Equal(t, tt.n, n)
			assert.InDelta(t, tt.dt, dt, 1e-12)
		})
	}
}

func TestAdvanceRunsWholeSteps(t *testing.T) {
	dev := newFakeDevice()
	s := newTestState(t, dev)
	cfg := DefaultConfig()
	cfg.FixedTimeStep = true
	cfg.StepsPerSecond = 60

	n := NewStepper(dev, 99).Advance(s, cfg, 0.033)
	require.Equal(t, 2, n)
	require.Len(t, dev.passes, 4)

	want := []Pass{PassUpdateVelocity, PassUpdatePosition, PassUpdateVelocity, PassUpdatePosition}
	for i, pc := range dev.passes {
		assert.Equal(t, want[i], pc.pass)
		assert.InDelta(t, 1.0/60, pc.u.DeltaTime, 1e-7)
	}
	// The second step reads what the first one wrote.
	assert.Equal(t, dev.passes[1].target, dev.passes[2].u.PositionTex)
	assert.Equal(t, dev.passes[0].target, dev.passes[2].u.VelocityTex)
	assert.InDelta(t, 2.0/60, s.Time, 1e-12)
}

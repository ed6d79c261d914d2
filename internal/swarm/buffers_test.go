package swarm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoubleBufferSwapIsInvolution(t *testing.T) {
	b := DoubleBuffer{Front: 3, Back: 7}
	b.Swap()
	assert.Equal(t, DoubleBuffer{Front: 7, Back: 3}, b)
	b.Swap()
	assert.Equal(t, DoubleBuffer{Front: 3, Back: 7}, b)
}

func TestAllocateShapes(t *testing.T) {
	dev := newFakeDevice()
	p := Plan(33, 2000)

	s, err := Allocate(dev, p)
	require.NoError(t, err)
	require.Len(t, dev.textures, 4)

	assert.Equal(t, [2]int{2000, 32}, dev.textures[s.Position.Front])
	assert.Equal(t, [2]int{2000, 32}, dev.textures[s.Position.Back])
	assert.Equal(t, [2]int{1, 32}, dev.textures[s.Velocity.Front])
	assert.Equal(t, [2]int{1, 32}, dev.textures[s.Velocity.Back])
	assert.True(t, s.Matches(p))
	assert.False(t, s.Matches(Plan(34, 2000)))
}

func TestStateSwapSwapsBothPairs(t *testing.T) {
	s := &SimulationState{
		Position: DoubleBuffer{Front: 1, Back: 2},
		Velocity: DoubleBuffer{Front: 3, Back: 4},
	}
	s.Swap()
	assert.Equal(t, DoubleBuffer{Front: 2, Back: 1}, s.Position)
	assert.Equal(t, DoubleBuffer{Front: 4, Back: 3}, s.Velocity)
}

func TestAllocateFailureReleasesPartialState(t *testing.T) {
	for failAt := 1; failAt <= 4; failAt++ {
		dev := newFakeDevice()
		dev.failTextureAt = failAt

		s, err := Allocate(dev, Plan(32, 32))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrResourceAllocation)
		assert.ErrorIs(t, err, errFake)
		assert.Nil(t, s)
		assert.Empty(t, dev.textures, "fail at %d leaked textures", failAt)
	}
}

func TestAllocateRejectsInvalidPlan(t *testing.T) {
	dev := newFakeDevice()
	_, err := Allocate(dev, Plan(0, 0))
	assert.ErrorIs(t, err, ErrResourceAllocation)
	assert.Zero(t, dev.textureCalls)
}

func TestFreeIsIdempotent(t *testing.T) {
	dev := newFakeDevice()
	s, err := Allocate(dev, Plan(8, 8))
	require.NoError(t, err)

	s.Free(dev)
	assert.Empty(t, dev.textures)
	s.Free(dev)

	var nilState *SimulationState
	assert.NotPanics(t, func() { nilState.Free(dev) })
	assert.NotPanics(t, func() { (&SimulationState{}).Free(dev) })
}

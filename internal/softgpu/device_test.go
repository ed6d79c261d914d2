package softgpu

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"swarm/internal/noise"
	"swarm/internal/swarm"
)

func runSwarm(t *testing.T, cfg swarm.Config, frames int) (*Device, *swarm.Controller) {
	t.Helper()
	dev := New(noise.NewPerlin())
	c := swarm.NewController(dev, cfg, swarm.WithLogger(zaptest.NewLogger(t)))
	for i := 0; i < frames; i++ {
		require.NoError(t, c.Tick(1.0/60, swarm.DefaultRenderParams()))
	}
	return dev, c
}

func snapshot(dev *Device, s *swarm.SimulationState) ([]mgl32.Vec4, []mgl32.Vec4) {
	pos := append([]mgl32.Vec4(nil), dev.Texture(s.Position.Front).Pix...)
	vel := append([]mgl32.Vec4(nil), dev.Texture(s.Velocity.Front).Pix...)
	return pos, vel
}

func TestResetAndWarmupIsDeterministic(t *testing.T) {
	cfg := swarm.DefaultConfig()
	cfg.RandomSeed = 1234
	cfg.NoiseAmplitude = 2

	devA, a := runSwarm(t, cfg, 1)
	devB, b := runSwarm(t, cfg, 1)
	posA, velA := snapshot(devA, a.Simulation())
	posB, velB := snapshot(devB, b.Simulation())
	assert.Equal(t, posA, posB)
	assert.Equal(t, velA, velB)

	cfg.RandomSeed = 1235
	devC, c := runSwarm(t, cfg, 1)
	posC, _ := snapshot(devC, c.Simulation())
	assert.NotEqual(t, posA, posC)
}

func TestWarmupPopulatesHistory(t *testing.T) {
	cfg := swarm.DefaultConfig()
	cfg.HistoryLength = 16
	dev, c := runSwarm(t, cfg, 0)
	require.NoError(t, c.Tick(0, swarm.DefaultRenderParams()))

	pos := dev.Texture(c.Simulation().Position.Front)
	require.Equal(t, 16, pos.W)
	require.Equal(t, 32, pos.H)

	// 32 warm-up steps over 16 slots: every slot holds a moved sample, so
	// consecutive samples of a line differ.
	for y := 0; y < pos.H; y++ {
		row := pos.Row(y)
		for x := 1; x < len(row); x++ {
			assert.NotEqual(t, row[x-1].Vec3(), row[x].Vec3(), "line %d slot %d", y, x)
			assert.Equal(t, row[0].W(), row[x].W(), "colour key constant along a line")
		}
	}
}

func TestHistoryShiftsByOneSlotPerStep(t *testing.T) {
	cfg := swarm.DefaultConfig()
	dev, c := runSwarm(t, cfg, 0)
	require.NoError(t, c.Tick(0, swarm.DefaultRenderParams()))
	before, _ := snapshot(dev, c.Simulation())

	require.NoError(t, c.Tick(1.0/60, swarm.DefaultRenderParams()))
	after, _ := snapshot(dev, c.Simulation())

	w := c.Plan().HistoryLength
	for y := 0; y < c.Plan().TotalLineCount; y++ {
		for x := 1; x < w; x++ {
			assert.Equal(t, before[y*w+x-1], after[y*w+x])
		}
	}
}

func TestMockNoiseDrivesVelocity(t *testing.T) {
	cfg := swarm.DefaultConfig()
	cfg.ForcePerDistance = 0
	cfg.SwirlStrength = 0
	cfg.Damp = 0
	cfg.Drag = 0
	cfg.NoiseAmplitude = 1
	cfg.AccelerationMin = 1
	cfg.AccelerationMax = 1

	dev := New(noise.Constant(mgl32.Vec3{0, 5, 0}))
	c := swarm.NewController(dev, cfg, swarm.WithWarmupSteps(0), swarm.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, c.Tick(0.5, swarm.DefaultRenderParams()))

	vel := dev.Texture(c.Simulation().Velocity.Front)
	for y := 0; y < vel.H; y++ {
		seed := seededVelocity(cfg, y)
		v := vel.At(0, y)
		// Unit acceleration straight up for half a second.
		assert.InDelta(t, seed.X(), v.X(), 1e-6)
		assert.InDelta(t, seed.Y()+0.5, v.Y(), 1e-6)
		assert.InDelta(t, seed.Z(), v.Z(), 1e-6)
	}
}

func seededVelocity(cfg swarm.Config, line int) mgl32.Vec4 {
	d := New(noise.Zero)
	prog, _ := d.CreateProgram(swarm.ProgramKernel)
	tex, _ := d.CreateTexture(1, line+1)
	d.RunPass(prog, swarm.PassSeedVelocity, tex, swarm.KernelUniforms{Config: cfg})
	return d.Texture(tex).At(0, line)
}

func TestDrawsCoverEveryLineWithoutSeams(t *testing.T) {
	cfg := swarm.DefaultConfig()
	cfg.LineCount = 100
	cfg.HistoryLength = 700
	dev, c := runSwarm(t, cfg, 0)
	require.NoError(t, c.Tick(1.0/60, swarm.DefaultRenderParams()))

	draws := dev.Draws()
	require.Len(t, draws, 2)
	pos := dev.Texture(c.Simulation().Position.Front)

	var lines [][]mgl32.Vec3
	for _, d := range draws {
		assert.Equal(t, draws[0].Mesh, d.Mesh, "one mesh shared by all draws")
		lines = append(lines, dev.Resolve(d)...)
	}
	require.Len(t, lines, 100)
	for y, line := range lines {
		for x, p := range line {
			assert.Equal(t, pos.At(x, y).Vec3(), p, "line %d slot %d", y, x)
		}
	}
}

func TestResolveAppliesTransform(t *testing.T) {
	dev, c := runSwarm(t, swarm.DefaultConfig(), 0)
	rp := swarm.DefaultRenderParams()
	rp.Transform = mgl32.Translate3D(10, 0, 0)
	require.NoError(t, c.Tick(0, rp))

	d := dev.Draws()[0]
	world := dev.Resolve(d)
	d.Render.Transform = mgl32.Ident4()
	local := dev.Resolve(d)
	require.Len(t, world, 1)
	assert.InDelta(t, local[0][0].X()+10, world[0][0].X(), 1e-4)
}

func TestTexelBudgetFailureKeepsOldState(t *testing.T) {
	dev := New(noise.Zero, WithTexelBudget(2*(32*32+32)+10))
	c := swarm.NewController(dev, swarm.DefaultConfig(), swarm.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, c.Tick(0, swarm.DefaultRenderParams()))

	// A second full set would not fit next to the first one.
	c.Invalidate()
	err := c.Tick(0, swarm.DefaultRenderParams())
	require.ErrorIs(t, err, swarm.ErrResourceAllocation)
	require.ErrorIs(t, err, ErrOutOfMemory)
	assert.Equal(t, swarm.StateNeedsReset, c.State())

	textures, meshes, programs := dev.Live()
	assert.Equal(t, 4, textures)
	assert.Equal(t, 1, meshes)
	assert.Equal(t, 2, programs)
	assert.NotNil(t, dev.Texture(c.Simulation().Position.Front))

	c.Destroy()
	textures, meshes, programs = dev.Live()
	assert.Zero(t, textures+meshes+programs)
}

func TestMeshCeilingEnforced(t *testing.T) {
	dev := New(noise.Zero)
	_, err := dev.CreateMesh(swarm.BuildMesh(65000, 1, 1))
	assert.Error(t, err)
}

func TestPassesIgnoreUnknownHandles(t *testing.T) {
	dev := New(noise.Zero)
	line, err := dev.CreateProgram(swarm.ProgramLine)
	require.NoError(t, err)
	tex, err := dev.CreateTexture(4, 4)
	require.NoError(t, err)

	dev.RunPass(line, swarm.PassSeedPosition, tex, swarm.KernelUniforms{Config: swarm.DefaultConfig()})
	dev.RunPass(999, swarm.PassSeedPosition, tex, swarm.KernelUniforms{Config: swarm.DefaultConfig()})
	assert.Zero(t, dev.Passes())
}

func TestTextureSampling(t *testing.T) {
	tex := newTexture(4, 2)
	for i := range tex.Pix {
		tex.Pix[i] = mgl32.Vec4{float32(i)}
	}
	assert.Equal(t, float32(0), tex.Sample(mgl32.Vec2{0.01, 0.01}).X())
	assert.Equal(t, float32(5), tex.Sample(mgl32.Vec2{0.3, 0.75}).X())
	// Clamp addressing.
	assert.Equal(t, float32(7), tex.Sample(mgl32.Vec2{1.5, 1.5}).X())
	assert.Equal(t, float32(0), tex.Sample(mgl32.Vec2{-0.5, -0.5}).X())
}

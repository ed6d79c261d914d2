package swarm

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// State is the lifecycle state of a Controller.
type State uint8

const (
	StateUninitialized State = iota
	StateReady
	StateNeedsReset
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateNeedsReset:
		return "needs-reset"
	}
	return "unknown"
}

// Mode selects how a tick advances the simulation.
type Mode uint8

const (
	// ModePlaying advances the simulation by the frame delta every tick.
	ModePlaying Mode = iota
	// ModePreview re-seeds and re-runs the warm-up every tick, giving a
	// stable, fully populated trail while the host is idle.
	ModePreview
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithWarmupSteps sets the number of steps run after every reset.
func WithWarmupSteps(n int) Option {
	return func(c *Controller) {
		if n >= 0 {
			c.warmupSteps = n
		}
	}
}

// WithWarmupDelta sets the time step used during warm-up.
func WithWarmupDelta(dt float64) Option {
	return func(c *Controller) {
		if dt > 0 {
			c.warmupDelta = dt
		}
	}
}

// WithMode sets the initial tick mode.
func WithMode(m Mode) Option {
	return func(c *Controller) { c.mode = m }
}

// Controller owns every GPU resource of one swarm and decides when they
// are rebuilt. It is driven by one Tick per rendered frame and is not safe
// for concurrent use.
type Controller struct {
	dev Device
	log *zap.Logger

	requested Config // as last set by the host
	active    Config // clamped copy the buffers were built for
	plan      DrawPlan
	status    State
	mode      Mode

	sim      *SimulationState
	mesh     MeshID
	meshPlan DrawPlan
	kernel   ProgramID
	line     ProgramID
	stepper  *Stepper

	warmupSteps int
	warmupDelta float64
	resets      int
}

// NewController returns an uninitialised controller. No GPU resource is
// created until the first Tick.
func NewController(dev Device, cfg Config, opts ...Option) *Controller {
	c := &Controller{
		dev:         dev,
		log:         zap.NewNop(),
		requested:   cfg,
		warmupSteps: DefaultWarmupSteps,
		warmupDelta: DefaultWarmupDelta,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// State returns the lifecycle state.
func (c *Controller) State() State { return c.status }

// Config returns the clamped configuration currently simulated.
func (c *Controller) Config() Config { return c.active }

// Plan returns the draw partition of the current buffers.
func (c *Controller) Plan() DrawPlan { return c.plan }

// Simulation returns the live simulation state, nil before the first reset.
// Callers must not mutate it.
func (c *Controller) Simulation() *SimulationState { return c.sim }

// Mesh returns the trail mesh handle.
func (c *Controller) Mesh() MeshID { return c.mesh }

// Resets returns how many resets have completed.
func (c *Controller) Resets() int { return c.resets }

// SetMode switches between playing and preview ticks.
func (c *Controller) SetMode(m Mode) { c.mode = m }

// Invalidate forces a full reset on the next tick.
func (c *Controller) Invalidate() {
	if c.status == StateReady {
		c.status = StateNeedsReset
	}
}

// SetConfig replaces the configuration. A change of line or history count
// schedules a reset; any other change applies from the next step on.
func (c *Controller) SetConfig(cfg Config) {
	c.requested = cfg
	if c.status != StateReady {
		return
	}
	clamped, fixed := cfg.Clamp()
	if !clamped.ShapeEqual(c.active) {
		c.status = StateNeedsReset
		return
	}
	c.warnClamped(fixed)
	c.active = clamped
}

// Tick runs one frame: pending reset, simulation steps, then draws.
// A failed reset issues no draws and is retried on the next tick.
func (c *Controller) Tick(frameDelta float64, rp RenderParams) error {
	if c.status != StateReady {
		if err := c.reset(); err != nil {
			c.log.Warn("swarm reset failed", zap.Error(err), zap.Stringer("state", c.status))
			return err
		}
	}

	switch c.mode {
	case ModePreview:
		c.stepper.Prewarm(c.sim, c.active, c.warmupSteps, c.warmupDelta)
	default:
		c.stepper.Advance(c.sim, c.active, frameDelta)
	}

	c.draw(rp)
	return nil
}

// Redraw issues the draws of the current state without stepping or
// resetting, for hosts that pause the simulation.
func (c *Controller) Redraw(rp RenderParams) error {
	if c.status != StateReady {
		return fmt.Errorf("redraw in state %s: %w", c.status, ErrNotReady)
	}
	c.draw(rp)
	return nil
}

func (c *Controller) draw(rp RenderParams) {
	cmd := DrawCommand{
		Mesh:        c.mesh,
		Program:     c.line,
		PositionTex: c.sim.Position.Front,
		VelocityTex: c.sim.Velocity.Front,
		Render:      rp,
	}
	c.plan.ForEachDraw(func(i int, off mgl32.Vec2) {
		cmd.Index = i
		cmd.BufferOffset = off
		c.dev.Draw(cmd)
	})
}

// reset rebuilds whatever the current config needs. New resources are
// created before old ones are released, so a failure leaves the previous
// state untouched.
func (c *Controller) reset() error {
	c.status = StateNeedsReset

	cfg, fixed := c.requested.Clamp()
	c.warnClamped(fixed)
	plan := cfg.Plan()
	c.log.Debug("swarm reset",
		zap.Int("lines", plan.LineCount),
		zap.Int("history", plan.HistoryLength),
		zap.Int("draws", plan.DrawCount),
		zap.Int("linesPerDraw", plan.LinesPerDraw),
		zap.Int("vertices", plan.VertexCount()))
	if n := plan.Truncated(); n > 0 {
		c.log.Debug("lines dropped by draw partition", zap.Int("dropped", n), zap.Int("rendered", plan.TotalLineCount))
	}

	if err := c.ensurePrograms(); err != nil {
		return err
	}

	sim, err := Allocate(c.dev, plan)
	if err != nil {
		return err
	}

	mesh := c.mesh
	rebuilt := false
	if mesh == 0 || !c.meshPlan.equalShape(plan) {
		mesh, err = c.dev.CreateMesh(BuildMeshForPlan(plan))
		if err != nil {
			sim.Free(c.dev)
			return fmt.Errorf("%w: trail mesh: %w", ErrResourceAllocation, err)
		}
		rebuilt = true
	}

	// Commit.
	c.sim.Free(c.dev)
	if rebuilt && c.mesh != 0 {
		c.dev.DeleteMesh(c.mesh)
	}
	c.sim = sim
	c.mesh = mesh
	c.meshPlan = plan
	c.plan = plan
	c.active = cfg

	c.stepper.Prewarm(c.sim, c.active, c.warmupSteps, c.warmupDelta)
	c.status = StateReady
	c.resets++
	c.log.Info("swarm ready", zap.Int("lines", plan.TotalLineCount), zap.Int("history", plan.HistoryLength), zap.Bool("meshRebuilt", rebuilt))
	return nil
}

func (c *Controller) ensurePrograms() error {
	if c.kernel == 0 {
		id, err := c.dev.CreateProgram(ProgramKernel)
		if err != nil {
			return fmt.Errorf("%w: kernel program: %w", ErrResourceAllocation, err)
		}
		c.kernel = id
		c.stepper = NewStepper(c.dev, id)
	}
	if c.line == 0 {
		id, err := c.dev.CreateProgram(ProgramLine)
		if err != nil {
			return fmt.Errorf("%w: line program: %w", ErrResourceAllocation, err)
		}
		c.line = id
	}
	return nil
}

func (c *Controller) warnClamped(fields []string) {
	if len(fields) > 0 {
		c.log.Warn("swarm config clamped to supported range", zap.Strings("fields", fields))
	}
}

// Destroy releases every GPU resource. It may be called more than once and
// on a controller that never completed a reset.
func (c *Controller) Destroy() {
	c.sim.Free(c.dev)
	c.sim = nil
	if c.mesh != 0 {
		c.dev.DeleteMesh(c.mesh)
		c.mesh = 0
	}
	for _, id := range []*ProgramID{&c.kernel, &c.line} {
		if *id != 0 {
			c.dev.DeleteProgram(*id)
			*id = 0
		}
	}
	c.stepper = nil
	c.meshPlan = DrawPlan{}
	c.plan = DrawPlan{}
	c.status = StateUninitialized
}

func (p DrawPlan) equalShape(o DrawPlan) bool {
	return p.HistoryLength == o.HistoryLength &&
		p.LinesPerDraw == o.LinesPerDraw &&
		p.TotalLineCount == o.TotalLineCount
}

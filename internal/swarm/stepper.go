package swarm

import "math"

// Stepper issues kernel passes that seed and advance a SimulationState.
type Stepper struct {
	dev    Device
	kernel ProgramID
}

// NewStepper returns a stepper running passes of the kernel program prog.
func NewStepper(dev Device, prog ProgramID) *Stepper {
	return &Stepper{dev: dev, kernel: prog}
}

func (st *Stepper) uniforms(s *SimulationState, cfg Config, dt float64) KernelUniforms {
	return KernelUniforms{
		PositionTex: s.Position.Front,
		VelocityTex: s.Velocity.Front,
		Config:      cfg,
		Time:        float32(s.Time),
		DeltaTime:   float32(dt),
	}
}

// Seed fills both buffers with the initial per-line state and resets the
// simulation clock. The result depends only on cfg.
func (st *Stepper) Seed(s *SimulationState, cfg Config) {
	s.Time = 0
	u := st.uniforms(s, cfg, 0)
	st.dev.RunPass(st.kernel, PassSeedPosition, s.Position.Back, u)
	st.dev.RunPass(st.kernel, PassSeedVelocity, s.Velocity.Back, u)
	s.Swap()
}

// Step advances the simulation by dt: velocity first, then position reading
// the freshly written velocity, then one swap.
func (st *Stepper) Step(s *SimulationState, cfg Config, dt float64) {
	u := st.uniforms(s, cfg, dt)
	st.dev.RunPass(st.kernel, PassUpdateVelocity, s.Velocity.Back, u)

	u.VelocityTex = s.Velocity.Back
	st.dev.RunPass(st.kernel, PassUpdatePosition, s.Position.Back, u)

	s.Swap()
	s.Time += dt
}

// StepsForFrame returns how many steps of which length a frame of
// frameDelta seconds needs. Fixed time steps are not accumulated across
// frames: a frame shorter than half a step runs no step at all.
func StepsForFrame(cfg Config, frameDelta float64) (int, float64) {
	if frameDelta <= 0 {
		return 0, 0
	}
	if !cfg.FixedTimeStep {
		return 1, frameDelta
	}
	sps := cfg.StepsPerSecond
	if sps < MinStepsPerSecond {
		sps = MinStepsPerSecond
	}
	return int(math.Round(frameDelta * float64(sps))), 1.0 / float64(sps)
}

// Advance runs the steps for one frame and returns how many were run.
func (st *Stepper) Advance(s *SimulationState, cfg Config, frameDelta float64) int {
	n, dt := StepsForFrame(cfg, frameDelta)
	for i := 0; i < n; i++ {
		st.Step(s, cfg, dt)
	}
	return n
}

// Prewarm seeds the state and runs steps fixed steps of dt.
func (st *Stepper) Prewarm(s *SimulationState, cfg Config, steps int, dt float64) {
	st.Seed(s, cfg)
	for i := 0; i < steps; i++ {
		st.Step(s, cfg, dt)
	}
}

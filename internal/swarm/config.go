package swarm

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Config holds the simulation parameters of one swarm.
type Config struct {
	LineCount     int // number of trail lines
	HistoryLength int // samples kept per line

	// Dynamics.
	AccelerationMin float32
	AccelerationMax float32
	Damp            float32 // linear velocity decay per second

	// External forces.
	Attractor        mgl32.Vec3
	Spread           float32 // per-line jitter around the attractor
	Flow             mgl32.Vec3
	ForcePerDistance float32
	ForceRandomness  float32 // [0..1] per-line attraction variance
	Drag             float32 // exponential velocity decay per second

	// Turbulent noise.
	NoiseAmplitude float32
	NoiseFrequency float32
	NoiseSpeed     float32
	NoiseVariance  float32

	// Swirl around the attractor's vertical axis.
	SwirlStrength float32
	SwirlDensity  float32

	FixedTimeStep  bool
	StepsPerSecond int
	RandomSeed     int
}

// DefaultConfig returns the stock parameter set.
func DefaultConfig() Config {
	return Config{
		LineCount:        32,
		HistoryLength:    32,
		AccelerationMin:  0.5,
		AccelerationMax:  1.0,
		Damp:             0.5,
		Spread:           0.2,
		ForcePerDistance: 4.0,
		ForceRandomness:  0.5,
		Drag:             2.0,
		NoiseAmplitude:   0.1,
		NoiseFrequency:   0.2,
		NoiseSpeed:       1.0,
		NoiseVariance:    1.0,
		SwirlStrength:    0.4,
		SwirlDensity:     1.0,
		StepsPerSecond:   60,
	}
}

// ShapeEqual reports whether both configs need identically shaped buffers and mesh.
func (c Config) ShapeEqual(o Config) bool {
	return c.LineCount == o.LineCount && c.HistoryLength == o.HistoryLength
}

// Plan returns the draw partition for this config.
func (c Config) Plan() DrawPlan {
	return Plan(c.LineCount, c.HistoryLength)
}

// Clamp returns a copy with every field moved into its supported range,
// plus the names of the fields that had to be adjusted.
func (c Config) Clamp() (Config, []string) {
	var fixed []string
	ci := func(name string, v *int, lo, hi int) {
		if n := clampInt(*v, lo, hi); n != *v {
			*v = n
			fixed = append(fixed, name)
		}
	}
	cf := func(name string, v *float32, lo, hi float32) {
		if n := mgl32.Clamp(*v, lo, hi); n != *v {
			*v = n
			fixed = append(fixed, name)
		}
	}

	ci("LineCount", &c.LineCount, MinLineCount, MaxLineCount)
	ci("HistoryLength", &c.HistoryLength, MinHistoryLength, MaxHistoryLength)
	ci("StepsPerSecond", &c.StepsPerSecond, MinStepsPerSecond, MaxStepsPerSecond)

	cf("AccelerationMin", &c.AccelerationMin, MinAcceleration, MaxAcceleration)
	cf("AccelerationMax", &c.AccelerationMax, c.AccelerationMin, MaxAcceleration)
	cf("Damp", &c.Damp, 0, MaxDamp)
	cf("Spread", &c.Spread, 0, MaxSpread)
	cf("ForcePerDistance", &c.ForcePerDistance, 0, MaxForcePerDistance)
	cf("ForceRandomness", &c.ForceRandomness, 0, 1)
	cf("Drag", &c.Drag, 0, MaxDrag)
	cf("NoiseAmplitude", &c.NoiseAmplitude, 0, MaxNoiseAmplitude)
	cf("NoiseFrequency", &c.NoiseFrequency, MinNoiseFrequency, MaxNoiseFrequency)
	cf("NoiseSpeed", &c.NoiseSpeed, 0, MaxNoiseSpeed)
	cf("NoiseVariance", &c.NoiseVariance, 0, MaxNoiseVariance)
	cf("SwirlStrength", &c.SwirlStrength, 0, MaxSwirlStrength)
	cf("SwirlDensity", &c.SwirlDensity, MinSwirlDensity, MaxSwirlDensity)

	return c, fixed
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

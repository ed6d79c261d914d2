// Package kernel defines the four simulation passes on single texels.
//
// Position texels hold (x, y, z, key) where key is a per-line random in
// [0,1) used by the line program for colouring. Velocity texels hold
// (vx, vy, vz, 0). Every function here is pure: identical inputs give
// identical outputs.
package kernel

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"swarm/internal/swarm"
)

var up = mgl32.Vec3{0, 1, 0}

// Decays holds velocity decay factors precomputed once per pass so the
// per-line loop avoids math.Exp.
type Decays struct {
	Damp float32 // max(0, 1 - Damp*dt)
	Drag float32 // exp(-Drag*dt)
}

// ComputeDecays returns the decay factors for a step of dt seconds.
func ComputeDecays(cfg swarm.Config, dt float32) Decays {
	damp := 1 - cfg.Damp*dt
	if damp < 0 {
		damp = 0
	}
	return Decays{
		Damp: damp,
		Drag: float32(math.Exp(float64(-cfg.Drag * dt))),
	}
}

// SeedPosition returns the initial sample of line. Every history slot of
// the line starts with this value, so the trail begins collapsed.
func SeedPosition(cfg swarm.Config, line int) mgl32.Vec4 {
	jitter := centered(Rand3(cfg.RandomSeed, line, saltSeedPosition)).Mul(cfg.Spread)
	p := cfg.Attractor.Add(jitter)
	return p.Vec4(Rand(cfg.RandomSeed, line, saltColorKey))
}

// SeedVelocity returns the initial velocity of line: a random direction
// at a tenth of the minimum acceleration.
func SeedVelocity(cfg swarm.Config, line int) mgl32.Vec4 {
	dir := centered(Rand3(cfg.RandomSeed, line, saltSeedVelocity))
	if l := dir.Len(); l > 1e-6 {
		dir = dir.Mul(1 / l)
	}
	return dir.Mul(cfg.AccelerationMin * 0.1).Vec4(0)
}

// Force returns the unclamped force acting on line at position p and time t.
func Force(cfg swarm.Config, field swarm.NoiseField, line int, p mgl32.Vec3, t float32) mgl32.Vec3 {
	seed := cfg.RandomSeed

	// Attraction to a per-line target scattered around the attractor.
	target := cfg.Attractor.Add(centered(Rand3(seed, line, saltTarget)).Mul(cfg.Spread))
	strength := cfg.ForcePerDistance * lerp(1-cfg.ForceRandomness, 1, Rand(seed, line, saltForce))
	f := target.Sub(p).Mul(strength)

	f = f.Add(cfg.Flow)

	if field != nil && cfg.NoiseAmplitude > 0 {
		offset := centered(Rand3(seed, line, saltNoiseOffset)).Mul(cfg.NoiseVariance)
		np := p.Mul(cfg.NoiseFrequency).Add(offset)
		f = f.Add(field.Sample(np, t*cfg.NoiseSpeed, seed).Mul(cfg.NoiseAmplitude))
	}

	if cfg.SwirlStrength > 0 {
		d := p.Sub(cfg.Attractor)
		falloff := cfg.SwirlDensity / (1 + cfg.SwirlDensity*d.Dot(d))
		f = f.Add(up.Cross(d).Mul(cfg.SwirlStrength * falloff))
	}
	return f
}

// ClampAcceleration scales f so its magnitude lies in [min, max].
// A zero force stays zero.
func ClampAcceleration(f mgl32.Vec3, min, max float32) mgl32.Vec3 {
	l := f.Len()
	if l < 1e-9 {
		return mgl32.Vec3{}
	}
	return f.Mul(mgl32.Clamp(l, min, max) / l)
}

// UpdateVelocity integrates one step of the velocity of line.
// pos is slot 0 of the line's history, vel its current velocity.
func UpdateVelocity(cfg swarm.Config, field swarm.NoiseField, d Decays, line int, pos, vel mgl32.Vec4, t, dt float32) mgl32.Vec4 {
	p := pos.Vec3()
	a := ClampAcceleration(Force(cfg, field, line, p, t), cfg.AccelerationMin, cfg.AccelerationMax)
	v := vel.Vec3().Add(a.Mul(dt)).Mul(d.Damp * d.Drag)
	return v.Vec4(0)
}

// UpdateHead returns the new slot 0 sample: the previous head moved by the
// already updated velocity. The key channel is carried over.
func UpdateHead(head, vel mgl32.Vec4, dt float32) mgl32.Vec4 {
	p := head.Vec3().Add(vel.Vec3().Mul(dt))
	return p.Vec4(head.W())
}

// ShiftHistory writes one row of the update-position pass: dst[0] is the
// new head, dst[k] = src[k-1], and the oldest sample of src is dropped.
// src and dst must not alias.
func ShiftHistory(dst, src []mgl32.Vec4, vel mgl32.Vec4, dt float32) {
	if len(src) == 0 {
		return
	}
	for k := len(dst) - 1; k >= 1; k-- {
		dst[k] = src[k-1]
	}
	dst[0] = UpdateHead(src[0], vel, dt)
}

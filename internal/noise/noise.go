// Package noise provides deterministic vector noise fields for the
// simulation kernels.
package noise

import (
	"github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"

	"swarm/internal/swarm"
)

// Perlin parameters.
const (
	Alpha   = 2.0 // weight falloff per octave
	Beta    = 2.0 // frequency step per octave
	Octaves = 3
)

// Per-component sampling offsets decorrelate the three channels.
var componentOffsets = [3]mgl32.Vec3{
	{0, 0, 0},
	{31.416, 47.853, 12.793},
	{-71.234, 23.647, 91.057},
}

// Perlin is a vector field built from three seeded 3-D Perlin
// lookups. Time scrolls the field along a fixed diagonal.
//
// A Perlin value is not safe for concurrent use.
type Perlin struct {
	gens map[int]*perlin.Perlin
}

// NewPerlin returns an empty field; generators are built per seed on demand.
func NewPerlin() *Perlin {
	return &Perlin{gens: make(map[int]*perlin.Perlin)}
}

func (n *Perlin) gen(seed int) *perlin.Perlin {
	g, ok := n.gens[seed]
	if !ok {
		g = perlin.NewPerlin(Alpha, Beta, Octaves, int64(seed))
		n.gens[seed] = g
	}
	return g
}

// Sample implements swarm.NoiseField.
func (n *Perlin) Sample(p mgl32.Vec3, t float32, seed int) mgl32.Vec3 {
	g := n.gen(seed)
	q := p.Add(mgl32.Vec3{t, t * 0.7, t * 0.4})
	var out mgl32.Vec3
	for i, off := range componentOffsets {
		s := q.Add(off)
		out[i] = float32(g.Noise3D(float64(s[0]), float64(s[1]), float64(s[2])))
	}
	return out
}

// Func adapts a plain function to swarm.NoiseField.
type Func func(p mgl32.Vec3, t float32, seed int) mgl32.Vec3

// Sample implements swarm.NoiseField.
func (f Func) Sample(p mgl32.Vec3, t float32, seed int) mgl32.Vec3 { return f(p, t, seed) }

// Zero is a field that is zero everywhere.
var Zero swarm.NoiseField = Func(func(mgl32.Vec3, float32, int) mgl32.Vec3 { return mgl32.Vec3{} })

// Constant returns a field equal to v everywhere.
func Constant(v mgl32.Vec3) swarm.NoiseField {
	return Func(func(mgl32.Vec3, float32, int) mgl32.Vec3 { return v })
}

var _ swarm.NoiseField = (*Perlin)(nil)

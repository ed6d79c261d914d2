package main

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	MinDistance = 0.5
	MaxDistance = 50.0
	FovY        = 45.0 // degrees
	NearPlane   = 0.05
	FarPlane    = 200.0
	ZoomStep    = 1.1 // distance factor per scroll notch
)

// Camera orbits the origin at a fixed height angle.
type Camera struct {
	Distance   float32
	Yaw        float32 // radians around +Y
	Pitch      float32 // radians above the XZ plane
	OrbitSpeed float32 // radians per second
}

// Update advances the orbit.
func (c *Camera) Update(dt float64) {
	c.Yaw = float32(math.Mod(float64(c.Yaw)+float64(c.OrbitSpeed)*dt, 2*math.Pi))
}

// Zoom moves the camera in (notches > 0) or out.
func (c *Camera) Zoom(notches float64) {
	c.Distance *= float32(math.Pow(ZoomStep, -notches))
	c.Clamp()
}

func (c *Camera) Clamp() {
	c.Distance = mgl32.Clamp(c.Distance, MinDistance, MaxDistance)
	limit := float32(math.Pi/2 - 0.01)
	c.Pitch = mgl32.Clamp(c.Pitch, -limit, limit)
}

// Eye returns the camera position in world space.
func (c *Camera) Eye() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	return mgl32.Vec3{
		c.Distance * cp * float32(math.Sin(float64(c.Yaw))),
		c.Distance * float32(math.Sin(float64(c.Pitch))),
		c.Distance * cp * float32(math.Cos(float64(c.Yaw))),
	}
}

// ViewProjection returns projection * view for a framebuffer of fbW x fbH.
func (c *Camera) ViewProjection(fbW, fbH int) mgl32.Mat4 {
	aspect := float32(1)
	if fbH > 0 {
		aspect = float32(fbW) / float32(fbH)
	}
	proj := mgl32.Perspective(mgl32.DegToRad(FovY), aspect, NearPlane, FarPlane)
	view := mgl32.LookAtV(c.Eye(), mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	return proj.Mul4(view)
}

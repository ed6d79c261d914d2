package softgpu

import "github.com/go-gl/mathgl/mgl32"

// Texture is an RGBA float texture stored row-major, one row per line.
type Texture struct {
	W, H int
	Pix  []mgl32.Vec4
}

func newTexture(w, h int) *Texture {
	return &Texture{W: w, H: h, Pix: make([]mgl32.Vec4, w*h)}
}

// Row returns the texels of row y.
func (t *Texture) Row(y int) []mgl32.Vec4 {
	return t.Pix[y*t.W : (y+1)*t.W]
}

// At returns the texel at (x, y) with clamp addressing.
func (t *Texture) At(x, y int) mgl32.Vec4 {
	x = clampInt(x, 0, t.W-1)
	y = clampInt(y, 0, t.H-1)
	return t.Pix[y*t.W+x]
}

// Sample point-samples the texture at normalised coordinates.
func (t *Texture) Sample(uv mgl32.Vec2) mgl32.Vec4 {
	x := int(floor(uv.X() * float32(t.W)))
	y := int(floor(uv.Y() * float32(t.H)))
	return t.At(x, y)
}

func floor(v float32) float32 {
	i := float32(int(v))
	if i > v {
		i--
	}
	return i
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

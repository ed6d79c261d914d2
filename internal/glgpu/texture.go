package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"swarm/internal/swarm"
)

// CreateTexture implements swarm.Device with an RGBA32F texture, point
// sampled and clamp addressed so texel fetches never blend neighbouring
// lines.
func (d *Device) CreateTexture(w, h int) (swarm.TextureID, error) {
	if w <= 0 || h <= 0 || int32(w) > d.maxTexSize || int32(h) > d.maxTexSize {
		return 0, fmt.Errorf("glgpu: texture size %dx%d outside 1..%d", w, h, d.maxTexSize)
	}
	for gl.GetError() != gl.NO_ERROR {
	}

	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(
		gl.TEXTURE_2D, 0, gl.RGBA32F,
		int32(w), int32(h), 0,
		gl.RGBA, gl.FLOAT, nil,
	)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if e := gl.GetError(); e != gl.NO_ERROR {
		gl.DeleteTextures(1, &tex)
		return 0, fmt.Errorf("glgpu: texture %dx%d: gl error 0x%x", w, h, e)
	}
	id := swarm.TextureID(tex)
	d.textures[id] = [2]int{w, h}
	return id, nil
}

// DeleteTexture implements swarm.Device.
func (d *Device) DeleteTexture(id swarm.TextureID) {
	if _, ok := d.textures[id]; !ok {
		return
	}
	tex := uint32(id)
	gl.DeleteTextures(1, &tex)
	delete(d.textures, id)
}

func bindTexture(unit uint32, id swarm.TextureID) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(id))
}

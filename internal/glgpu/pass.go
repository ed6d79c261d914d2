package glgpu

import (
	"github.com/go-gl/gl/v4.1-core/gl"

	"swarm/internal/swarm"
)

// RunPass implements swarm.Device by rendering a fullscreen quad into
// target. The caller's viewport and framebuffer binding are restored.
func (d *Device) RunPass(prog swarm.ProgramID, pass swarm.Pass, target swarm.TextureID, u swarm.KernelUniforms) {
	p := d.programs[prog]
	size, ok := d.textures[target]
	if p == nil || p.kind != swarm.ProgramKernel || !ok {
		return
	}
	k := p.kernel
	cfg := u.Config

	var viewport [4]int32
	gl.GetIntegerv(gl.VIEWPORT, &viewport[0])

	gl.BindFramebuffer(gl.FRAMEBUFFER, d.fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, uint32(target), 0)
	gl.Viewport(0, 0, int32(size[0]), int32(size[1]))
	gl.Disable(gl.BLEND)

	gl.UseProgram(uint32(prog))
	bindTexture(0, u.PositionTex)
	bindTexture(1, u.VelocityTex)

	gl.Uniform1i(k.uPass, int32(pass))
	gl.Uniform1ui(k.uSeed, uint32(cfg.RandomSeed))
	gl.Uniform1f(k.uTime, u.Time)
	gl.Uniform1f(k.uDeltaTime, u.DeltaTime)
	gl.Uniform3f(k.uAttractor, cfg.Attractor.X(), cfg.Attractor.Y(), cfg.Attractor.Z())
	gl.Uniform1f(k.uSpread, cfg.Spread)
	gl.Uniform3f(k.uFlow, cfg.Flow.X(), cfg.Flow.Y(), cfg.Flow.Z())
	gl.Uniform1f(k.uForcePerDistance, cfg.ForcePerDistance)
	gl.Uniform1f(k.uForceRandomness, cfg.ForceRandomness)
	gl.Uniform2f(k.uAccel, cfg.AccelerationMin, cfg.AccelerationMax)
	gl.Uniform1f(k.uDamp, cfg.Damp)
	gl.Uniform1f(k.uDrag, cfg.Drag)
	gl.Uniform4f(k.uNoise, cfg.NoiseAmplitude, cfg.NoiseFrequency, cfg.NoiseSpeed, cfg.NoiseVariance)
	gl.Uniform2f(k.uSwirl, cfg.SwirlStrength, cfg.SwirlDensity)

	gl.BindVertexArray(d.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	gl.BindVertexArray(0)

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(viewport[0], viewport[1], viewport[2], viewport[3])
}

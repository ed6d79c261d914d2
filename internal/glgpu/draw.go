package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"swarm/internal/swarm"
)

type mesh struct {
	vao, posVBO, uvVBO, ebo uint32
	indexCount              int32
}

// CreateMesh implements swarm.Device. Vertices go to attribute 0, UVs to
// attribute 1, and the line-list indices to an element buffer.
func (d *Device) CreateMesh(m *swarm.TrailMesh) (swarm.MeshID, error) {
	if m == nil || m.VertexCount() == 0 {
		return 0, fmt.Errorf("glgpu: empty mesh")
	}
	if m.VertexCount() >= swarm.MaxVerticesPerDraw {
		return 0, fmt.Errorf("glgpu: mesh has %d vertices, limit %d", m.VertexCount(), swarm.MaxVerticesPerDraw)
	}

	g := &mesh{indexCount: int32(len(m.Indices))}
	gl.GenVertexArrays(1, &g.vao)
	gl.BindVertexArray(g.vao)

	gl.GenBuffers(1, &g.posVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.posVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*3*4, gl.Ptr(m.Vertices), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, glOffset(0))

	gl.GenBuffers(1, &g.uvVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, g.uvVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.UVs)*2*4, gl.Ptr(m.UVs), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, 2*4, glOffset(0))

	gl.GenBuffers(1, &g.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.ebo)
	if len(m.Indices) > 0 {
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, gl.Ptr(m.Indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)
	id := swarm.MeshID(g.vao)
	d.meshes[id] = g
	return id, nil
}

// DeleteMesh implements swarm.Device.
func (d *Device) DeleteMesh(id swarm.MeshID) {
	g := d.meshes[id]
	if g == nil {
		return
	}
	for _, b := range []uint32{g.posVBO, g.uvVBO, g.ebo} {
		if b != 0 {
			gl.DeleteBuffers(1, &b)
		}
	}
	gl.DeleteVertexArrays(1, &g.vao)
	delete(d.meshes, id)
}

// Draw implements swarm.Device. Lines are alpha blended and fade towards
// the tail. LineWidth is not applied: core profile contexts only
// guarantee one-pixel lines.
func (d *Device) Draw(cmd swarm.DrawCommand) {
	p := d.programs[cmd.Program]
	g := d.meshes[cmd.Mesh]
	if p == nil || p.kind != swarm.ProgramLine || g == nil || g.indexCount == 0 {
		return
	}
	l := p.line
	rp := cmd.Render

	gl.UseProgram(uint32(cmd.Program))
	bindTexture(0, cmd.PositionTex)

	gl.Uniform2f(l.uBufferOffset, cmd.BufferOffset.X(), cmd.BufferOffset.Y())
	gl.UniformMatrix4fv(l.uModel, 1, false, &rp.Transform[0])
	gl.UniformMatrix4fv(l.uViewProj, 1, false, &rp.ViewProjection[0])
	gl.Uniform3f(l.uColor1, float32(rp.Color1.R), float32(rp.Color1.G), float32(rp.Color1.B))
	gl.Uniform3f(l.uColor2, float32(rp.Color2.R), float32(rp.Color2.G), float32(rp.Color2.B))
	gl.Uniform1f(l.uGradExp, rp.GradientSteepness)
	gl.Uniform1i(l.uColorMode, int32(rp.ColorMode))

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	gl.BindVertexArray(g.vao)
	gl.DrawElements(gl.LINES, g.indexCount, gl.UNSIGNED_INT, nil)
	gl.BindVertexArray(0)

	gl.Disable(gl.BLEND)
}

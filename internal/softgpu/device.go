// Package softgpu is a software implementation of swarm.Device. Kernel
// passes run the reference kernels on the CPU and draw calls are recorded
// so they can be inspected or resolved into world-space polylines.
package softgpu

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"swarm/internal/kernel"
	"swarm/internal/swarm"
)

// ErrOutOfMemory is returned when a texture would exceed the texel budget.
var ErrOutOfMemory = errors.New("softgpu: texel budget exceeded")

// Option configures a Device.
type Option func(*Device)

// WithTexelBudget caps the total number of live texels. Zero means no cap.
func WithTexelBudget(n int) Option {
	return func(d *Device) { d.budget = n }
}

// Device is a CPU-backed swarm.Device. It is not safe for concurrent use.
type Device struct {
	noise swarm.NoiseField

	next     uint32
	textures map[swarm.TextureID]*Texture
	meshes   map[swarm.MeshID]*swarm.TrailMesh
	programs map[swarm.ProgramID]swarm.ProgramKind

	budget int
	texels int

	passes int
	draws  []swarm.DrawCommand
}

// New returns a device whose kernels sample field for turbulence.
func New(field swarm.NoiseField, opts ...Option) *Device {
	d := &Device{
		noise:    field,
		textures: make(map[swarm.TextureID]*Texture),
		meshes:   make(map[swarm.MeshID]*swarm.TrailMesh),
		programs: make(map[swarm.ProgramID]swarm.ProgramKind),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

func (d *Device) id() uint32 {
	d.next++
	return d.next
}

// CreateTexture implements swarm.Device.
func (d *Device) CreateTexture(w, h int) (swarm.TextureID, error) {
	if w <= 0 || h <= 0 {
		return 0, fmt.Errorf("softgpu: invalid texture size %dx%d", w, h)
	}
	if d.budget > 0 && d.texels+w*h > d.budget {
		return 0, fmt.Errorf("%w: %d + %d > %d", ErrOutOfMemory, d.texels, w*h, d.budget)
	}
	id := swarm.TextureID(d.id())
	d.textures[id] = newTexture(w, h)
	d.texels += w * h
	return id, nil
}

// DeleteTexture implements swarm.Device.
func (d *Device) DeleteTexture(id swarm.TextureID) {
	if t, ok := d.textures[id]; ok {
		d.texels -= t.W * t.H
		delete(d.textures, id)
	}
}

// CreateMesh implements swarm.Device.
func (d *Device) CreateMesh(m *swarm.TrailMesh) (swarm.MeshID, error) {
	if m == nil || m.VertexCount() == 0 {
		return 0, errors.New("softgpu: empty mesh")
	}
	if m.VertexCount() >= swarm.MaxVerticesPerDraw {
		return 0, fmt.Errorf("softgpu: mesh has %d vertices, limit %d", m.VertexCount(), swarm.MaxVerticesPerDraw)
	}
	id := swarm.MeshID(d.id())
	d.meshes[id] = m
	return id, nil
}

// DeleteMesh implements swarm.Device.
func (d *Device) DeleteMesh(id swarm.MeshID) { delete(d.meshes, id) }

// CreateProgram implements swarm.Device.
func (d *Device) CreateProgram(kind swarm.ProgramKind) (swarm.ProgramID, error) {
	switch kind {
	case swarm.ProgramKernel, swarm.ProgramLine:
	default:
		return 0, fmt.Errorf("softgpu: unknown program kind %d", kind)
	}
	id := swarm.ProgramID(d.id())
	d.programs[id] = kind
	return id, nil
}

// DeleteProgram implements swarm.Device.
func (d *Device) DeleteProgram(id swarm.ProgramID) { delete(d.programs, id) }

// RunPass implements swarm.Device. Passes against unknown handles are
// dropped, as a GPU would drop a dispatch against a deleted object.
func (d *Device) RunPass(prog swarm.ProgramID, pass swarm.Pass, target swarm.TextureID, u swarm.KernelUniforms) {
	if kind, ok := d.programs[prog]; !ok || kind != swarm.ProgramKernel {
		return
	}
	dst := d.textures[target]
	if dst == nil {
		return
	}
	d.passes++
	cfg := u.Config

	switch pass {
	case swarm.PassSeedPosition:
		for y := 0; y < dst.H; y++ {
			p := kernel.SeedPosition(cfg, y)
			row := dst.Row(y)
			for x := range row {
				row[x] = p
			}
		}

	case swarm.PassSeedVelocity:
		for y := 0; y < dst.H; y++ {
			v := kernel.SeedVelocity(cfg, y)
			row := dst.Row(y)
			for x := range row {
				row[x] = v
			}
		}

	case swarm.PassUpdateVelocity:
		pos, vel := d.textures[u.PositionTex], d.textures[u.VelocityTex]
		if pos == nil || vel == nil {
			return
		}
		dec := kernel.ComputeDecays(cfg, u.DeltaTime)
		for y := 0; y < dst.H; y++ {
			v := kernel.UpdateVelocity(cfg, d.noise, dec, y, pos.At(0, y), vel.At(0, y), u.Time, u.DeltaTime)
			row := dst.Row(y)
			for x := range row {
				row[x] = v
			}
		}

	case swarm.PassUpdatePosition:
		pos, vel := d.textures[u.PositionTex], d.textures[u.VelocityTex]
		if pos == nil || vel == nil || pos == dst || pos.W != dst.W {
			return
		}
		for y := 0; y < dst.H; y++ {
			kernel.ShiftHistory(dst.Row(y), pos.Row(clampInt(y, 0, pos.H-1)), vel.At(0, y), u.DeltaTime)
		}
	}
}

// Draw implements swarm.Device by recording the command.
func (d *Device) Draw(cmd swarm.DrawCommand) {
	d.draws = append(d.draws, cmd)
}

// Draws returns the commands recorded since the last ResetDraws.
func (d *Device) Draws() []swarm.DrawCommand { return d.draws }

// ResetDraws forgets recorded commands, keeping the backing array.
func (d *Device) ResetDraws() { d.draws = d.draws[:0] }

// Passes returns how many kernel passes have executed.
func (d *Device) Passes() int { return d.passes }

// Texture returns the texture behind id, nil if there is none.
func (d *Device) Texture(id swarm.TextureID) *Texture { return d.textures[id] }

// Mesh returns the mesh behind id, nil if there is none.
func (d *Device) Mesh(id swarm.MeshID) *swarm.TrailMesh { return d.meshes[id] }

// Live returns the number of live textures, meshes and programs.
func (d *Device) Live() (textures, meshes, programs int) {
	return len(d.textures), len(d.meshes), len(d.programs)
}

// Resolve performs the vertex stage of cmd on the CPU: every mesh vertex
// samples the position buffer at uv + BufferOffset and is moved to world
// space. It returns one polyline per mesh row, newest sample first.
func (d *Device) Resolve(cmd swarm.DrawCommand) [][]mgl32.Vec3 {
	m := d.meshes[cmd.Mesh]
	pos := d.textures[cmd.PositionTex]
	if m == nil || pos == nil {
		return nil
	}
	model := cmd.Render.Transform
	if model == (mgl32.Mat4{}) {
		model = mgl32.Ident4()
	}

	lines := make([][]mgl32.Vec3, m.LinesPerDraw)
	for row := range lines {
		line := make([]mgl32.Vec3, m.HistoryLength)
		for col := range line {
			uv := m.UVs[row*m.HistoryLength+col].Add(cmd.BufferOffset)
			p := pos.Sample(uv)
			line[col] = model.Mul4x1(p.Vec3().Vec4(1)).Vec3()
		}
		lines[row] = line
	}
	return lines
}

var _ swarm.Device = (*Device)(nil)

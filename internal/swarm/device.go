package swarm

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"
)

// Opaque GPU resource handles. Zero is never a valid handle.
type (
	TextureID uint32
	MeshID    uint32
	ProgramID uint32
)

// ProgramKind selects which program a device builds.
type ProgramKind uint8

const (
	ProgramKernel ProgramKind = iota // simulation passes
	ProgramLine                      // trail line rendering
)

func (k ProgramKind) String() string {
	switch k {
	case ProgramKernel:
		return "kernel"
	case ProgramLine:
		return "line"
	}
	return "unknown"
}

// Pass selects one pass of the kernel program.
type Pass uint8

const (
	PassSeedPosition Pass = iota
	PassSeedVelocity
	PassUpdateVelocity
	PassUpdatePosition
)

func (p Pass) String() string {
	switch p {
	case PassSeedPosition:
		return "seed-position"
	case PassSeedVelocity:
		return "seed-velocity"
	case PassUpdateVelocity:
		return "update-velocity"
	case PassUpdatePosition:
		return "update-position"
	}
	return "unknown"
}

// KernelUniforms is everything a kernel pass reads besides its target.
type KernelUniforms struct {
	PositionTex TextureID // history buffer to read
	VelocityTex TextureID // velocity buffer to read
	Config      Config
	Time        float32
	DeltaTime   float32
}

// ColorMode is forwarded to the line program untouched.
type ColorMode uint8

const (
	ColorRandom ColorMode = iota
	ColorSmooth
)

// RenderParams holds the shared line-program uniforms.
type RenderParams struct {
	Color1            colorful.Color
	Color2            colorful.Color
	GradientSteepness float32
	ColorMode         ColorMode
	LineWidth         float32
	Transform         mgl32.Mat4 // local to world
	ViewProjection    mgl32.Mat4
}

// DefaultRenderParams returns white lines with identity transforms.
func DefaultRenderParams() RenderParams {
	return RenderParams{
		Color1:            colorful.Color{R: 1, G: 1, B: 1},
		Color2:            colorful.Color{R: 1, G: 1, B: 1},
		GradientSteepness: 2,
		Transform:         mgl32.Ident4(),
		ViewProjection:    mgl32.Ident4(),
	}
}

// DrawCommand is one draw call of the trail mesh.
type DrawCommand struct {
	Mesh         MeshID
	Program      ProgramID
	Index        int        // position in the draw plan
	BufferOffset mgl32.Vec2 // added to every texcoord before sampling
	PositionTex  TextureID
	VelocityTex  TextureID
	Render       RenderParams
}

// Device is the GPU surface the simulation core drives.
//
// Textures are RGBA float32, point-sampled and clamp-addressed. RunPass and
// Draw are fire-and-forget: a pass writing target is visible to every later
// pass or draw reading it.
type Device interface {
	CreateTexture(width, height int) (TextureID, error)
	DeleteTexture(id TextureID)
	CreateMesh(m *TrailMesh) (MeshID, error)
	DeleteMesh(id MeshID)
	CreateProgram(kind ProgramKind) (ProgramID, error)
	DeleteProgram(id ProgramID)

	RunPass(prog ProgramID, pass Pass, target TextureID, u KernelUniforms)
	Draw(cmd DrawCommand)
}

// NoiseField is a deterministic vector noise function: identical
// (p, t, seed) always yields the identical vector.
type NoiseField interface {
	Sample(p mgl32.Vec3, t float32, seed int) mgl32.Vec3
}

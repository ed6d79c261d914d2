// Package glgpu implements swarm.Device on an OpenGL 4.1 core context.
// Every method must be called on the thread that owns the context.
package glgpu

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"swarm/internal/swarm"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type kernelProgram struct {
	uPositionTex      int32
	uVelocityTex      int32
	uPass             int32
	uSeed             int32
	uTime             int32
	uDeltaTime        int32
	uAttractor        int32
	uSpread           int32
	uFlow             int32
	uForcePerDistance int32
	uForceRandomness  int32
	uAccel            int32
	uDamp             int32
	uDrag             int32
	uNoise            int32
	uSwirl            int32
}

type lineProgram struct {
	uPositionTex  int32
	uBufferOffset int32
	uModel        int32
	uViewProj     int32
	uColor1       int32
	uColor2       int32
	uGradExp      int32
	uColorMode    int32
}

type program struct {
	kind   swarm.ProgramKind
	kernel kernelProgram
	line   lineProgram
}

// Device owns the GL objects behind swarm handles. Handles are the GL
// object names themselves.
type Device struct {
	// Fullscreen quad and framebuffer for kernel passes.
	fbo     uint32
	quadVAO uint32
	quadVBO uint32

	maxTexSize int32

	textures map[swarm.TextureID][2]int
	meshes   map[swarm.MeshID]*mesh
	programs map[swarm.ProgramID]*program
}

// New creates the shared pass objects. A current GL context is required.
func New() (*Device, error) {
	d := &Device{
		textures: make(map[swarm.TextureID][2]int),
		meshes:   make(map[swarm.MeshID]*mesh),
		programs: make(map[swarm.ProgramID]*program),
	}
	gl.GetIntegerv(gl.MAX_TEXTURE_SIZE, &d.maxTexSize)

	gl.GenFramebuffers(1, &d.fbo)
	if d.fbo == 0 {
		return nil, fmt.Errorf("glgpu: framebuffer creation failed")
	}

	// Unit quad (6 vertices, 2 triangles) covering the whole target.
	gl.GenVertexArrays(1, &d.quadVAO)
	gl.GenBuffers(1, &d.quadVBO)
	gl.BindVertexArray(d.quadVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.quadVBO)
	quadVerts := [12]float32{
		0, 0, 1, 0, 1, 1,
		0, 0, 1, 1, 0, 1,
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))
	gl.BindVertexArray(0)

	return d, nil
}

// CreateProgram implements swarm.Device. Compile and link failures carry
// the GL info log.
func (d *Device) CreateProgram(kind swarm.ProgramKind) (swarm.ProgramID, error) {
	var (
		id  uint32
		err error
		p   = &program{kind: kind}
	)
	switch kind {
	case swarm.ProgramKernel:
		id, err = linkProgram(kernelVertSrc, kernelFragSrc)
		if err != nil {
			return 0, fmt.Errorf("kernel program: %w", err)
		}
		p.kernel = lookupKernel(id)
	case swarm.ProgramLine:
		id, err = linkProgram(lineVertSrc, lineFragSrc)
		if err != nil {
			return 0, fmt.Errorf("line program: %w", err)
		}
		p.line = lookupLine(id)
	default:
		return 0, fmt.Errorf("glgpu: unknown program kind %d", kind)
	}
	d.programs[swarm.ProgramID(id)] = p
	return swarm.ProgramID(id), nil
}

func uniform(prog uint32, name string) int32 {
	return gl.GetUniformLocation(prog, gl.Str(name+"\x00"))
}

func lookupKernel(id uint32) kernelProgram {
	k := kernelProgram{
		uPositionTex:      uniform(id, "uPositionTex"),
		uVelocityTex:      uniform(id, "uVelocityTex"),
		uPass:             uniform(id, "uPass"),
		uSeed:             uniform(id, "uSeed"),
		uTime:             uniform(id, "uTime"),
		uDeltaTime:        uniform(id, "uDeltaTime"),
		uAttractor:        uniform(id, "uAttractor"),
		uSpread:           uniform(id, "uSpread"),
		uFlow:             uniform(id, "uFlow"),
		uForcePerDistance: uniform(id, "uForcePerDistance"),
		uForceRandomness:  uniform(id, "uForceRandomness"),
		uAccel:            uniform(id, "uAccel"),
		uDamp:             uniform(id, "uDamp"),
		uDrag:             uniform(id, "uDrag"),
		uNoise:            uniform(id, "uNoise"),
		uSwirl:            uniform(id, "uSwirl"),
	}
	gl.UseProgram(id)
	gl.Uniform1i(k.uPositionTex, 0)
	gl.Uniform1i(k.uVelocityTex, 1)
	return k
}

func lookupLine(id uint32) lineProgram {
	l := lineProgram{
		uPositionTex:  uniform(id, "uPositionTex"),
		uBufferOffset: uniform(id, "uBufferOffset"),
		uModel:        uniform(id, "uModel"),
		uViewProj:     uniform(id, "uViewProj"),
		uColor1:       uniform(id, "uColor1"),
		uColor2:       uniform(id, "uColor2"),
		uGradExp:      uniform(id, "uGradExp"),
		uColorMode:    uniform(id, "uColorMode"),
	}
	gl.UseProgram(id)
	gl.Uniform1i(l.uPositionTex, 0)
	return l
}

// DeleteProgram implements swarm.Device.
func (d *Device) DeleteProgram(id swarm.ProgramID) {
	if _, ok := d.programs[id]; !ok {
		return
	}
	gl.DeleteProgram(uint32(id))
	delete(d.programs, id)
}

// Destroy releases the shared pass objects and anything still alive.
func (d *Device) Destroy() {
	for id := range d.textures {
		d.DeleteTexture(id)
	}
	for id := range d.meshes {
		d.DeleteMesh(id)
	}
	for id := range d.programs {
		d.DeleteProgram(id)
	}
	if d.quadVBO != 0 {
		gl.DeleteBuffers(1, &d.quadVBO)
		d.quadVBO = 0
	}
	if d.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &d.quadVAO)
		d.quadVAO = 0
	}
	if d.fbo != 0 {
		gl.DeleteFramebuffers(1, &d.fbo)
		d.fbo = 0
	}
}

var _ swarm.Device = (*Device)(nil)

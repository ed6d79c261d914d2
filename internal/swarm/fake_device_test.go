package swarm

import "errors"

var errFake = errors.New("fake device failure")

type passCall struct {
	pass   Pass
	target TextureID
	u      KernelUniforms
}

// fakeDevice hands out sequential handles and records every call.
type fakeDevice struct {
	next     uint32
	textures map[TextureID][2]int
	meshes   map[MeshID]*TrailMesh
	programs map[ProgramID]ProgramKind

	passes []passCall
	draws  []DrawCommand

	meshesCreated int

	failTextureAt int // fail the n-th CreateTexture (1-based), 0 = never
	textureCalls  int
	failMesh      bool
	failProgram   ProgramKind
	failPrograms  bool
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{
		textures: map[TextureID][2]int{},
		meshes:   map[MeshID]*TrailMesh{},
		programs: map[ProgramID]ProgramKind{},
	}
}

func (d *fakeDevice) id() uint32 {
	d.next++
	return d.next
}

func (d *fakeDevice) CreateTexture(w, h int) (TextureID, error) {
	d.textureCalls++
	if d.failTextureAt > 0 && d.textureCalls == d.failTextureAt {
		return 0, errFake
	}
	id := TextureID(d.id())
	d.textures[id] = [2]int{w, h}
	return id, nil
}

func (d *fakeDevice) DeleteTexture(id TextureID) { delete(d.textures, id) }

func (d *fakeDevice) CreateMesh(m *TrailMesh) (MeshID, error) {
	if d.failMesh {
		return 0, errFake
	}
	id := MeshID(d.id())
	d.meshes[id] = m
	d.meshesCreated++
	return id, nil
}

func (d *fakeDevice) DeleteMesh(id MeshID) { delete(d.meshes, id) }

func (d *fakeDevice) CreateProgram(kind ProgramKind) (ProgramID, error) {
	if d.failPrograms && d.failProgram == kind {
		return 0, errFake
	}
	id := ProgramID(d.id())
	d.programs[id] = kind
	return id, nil
}

func (d *fakeDevice) DeleteProgram(id ProgramID) { delete(d.programs, id) }

func (d *fakeDevice) RunPass(_ ProgramID, pass Pass, target TextureID, u KernelUniforms) {
	d.passes = append(d.passes, passCall{pass: pass, target: target, u: u})
}

func (d *fakeDevice) Draw(cmd DrawCommand) { d.draws = append(d.draws, cmd) }

func (d *fakeDevice) live() int {
	return len(d.textures) + len(d.meshes) + len(d.programs)
}

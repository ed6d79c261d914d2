package swarm

import "github.com/go-gl/mathgl/mgl32"

// Bounds is an axis-aligned box.
type Bounds struct {
	Center mgl32.Vec3
	Size   mgl32.Vec3
}

// TrailMesh is a static line-list mesh. Vertex positions are all zero; the
// line program resolves them by sampling the position buffer at each UV.
type TrailMesh struct {
	Vertices []mgl32.Vec3
	UVs      []mgl32.Vec2
	Indices  []uint32
	Bounds   Bounds

	HistoryLength  int
	LinesPerDraw   int
	TotalLineCount int
}

// BuildMesh lays out linesPerDraw polylines of historyLength vertices.
// The V axis is normalised by totalLineCount (not linesPerDraw) so a per-draw
// offset can shift the same mesh onto any band of lines in the shared buffer.
func BuildMesh(historyLength, linesPerDraw, totalLineCount int) *TrailMesh {
	nx, ny := historyLength, linesPerDraw
	inx := 1.0 / float32(nx)
	iny := 1.0 / float32(totalLineCount)

	m := &TrailMesh{
		Vertices:       make([]mgl32.Vec3, nx*ny),
		UVs:            make([]mgl32.Vec2, nx*ny),
		Bounds:         Bounds{Size: mgl32.Vec3{MeshBoundsSize, MeshBoundsSize, MeshBoundsSize}},
		HistoryLength:  historyLength,
		LinesPerDraw:   linesPerDraw,
		TotalLineCount: totalLineCount,
	}

	offs := 0
	for y := 0; y < ny; y++ {
		v := iny * float32(y)
		for x := 0; x < nx; x++ {
			m.UVs[offs] = mgl32.Vec2{inx * float32(x), v}
			offs++
		}
	}

	// Disconnected segments, not a strip: a strip would join the tail of
	// one row to the head of the next.
	if nx > 1 {
		m.Indices = make([]uint32, 0, ny*(nx-1)*2)
	}
	for y := 0; y < ny; y++ {
		vi := uint32(y * nx)
		for x := 0; x < nx-1; x++ {
			m.Indices = append(m.Indices, vi, vi+1)
			vi++
		}
	}
	return m
}

// BuildMeshForPlan builds the mesh shared by every draw of p.
func BuildMeshForPlan(p DrawPlan) *TrailMesh {
	return BuildMesh(p.HistoryLength, p.LinesPerDraw, p.TotalLineCount)
}

// VertexCount returns the number of vertices.
func (m *TrailMesh) VertexCount() int { return len(m.Vertices) }

// Matches reports whether the mesh was built for plan p.
func (m *TrailMesh) Matches(p DrawPlan) bool {
	return m != nil &&
		m.HistoryLength == p.HistoryLength &&
		m.LinesPerDraw == p.LinesPerDraw &&
		m.TotalLineCount == p.TotalLineCount
}

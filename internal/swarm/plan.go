package swarm

import "github.com/go-gl/mathgl/mgl32"

// DrawPlan describes how one logical trail mesh is split into draw calls.
// It is derived from the line/history counts and never stored on its own.
type DrawPlan struct {
	LineCount      int // requested lines
	HistoryLength  int
	DrawCount      int
	LinesPerDraw   int
	TotalLineCount int // lines actually rendered, a multiple of DrawCount
}

// Plan computes the draw partition for lineCount lines of historyLength samples.
//
// Small swarms are drawn one line per call. Once the vertex demand reaches
// MaxVerticesPerDraw the lines are grouped so every call stays under the ceiling.
// Lines that do not fit an even split are dropped (33 lines in 2 draws render 32).
func Plan(lineCount, historyLength int) DrawPlan {
	p := DrawPlan{LineCount: lineCount, HistoryLength: historyLength}
	if lineCount <= 0 || historyLength <= 0 {
		return p
	}

	total := lineCount * historyLength
	if total < MaxVerticesPerDraw {
		p.DrawCount = lineCount
	} else {
		p.DrawCount = total/MaxVerticesPerDraw + 1
	}
	p.LinesPerDraw = lineCount / p.DrawCount
	p.TotalLineCount = lineCount - lineCount%p.DrawCount
	return p
}

// VertexCount returns the vertex count of one mesh instance.
func (p DrawPlan) VertexCount() int {
	return p.HistoryLength * p.LinesPerDraw
}

// Truncated returns how many requested lines are not rendered.
func (p DrawPlan) Truncated() int {
	return p.LineCount - p.TotalLineCount
}

// Valid reports whether the plan can be drawn at all.
func (p DrawPlan) Valid() bool {
	return p.DrawCount > 0 && p.LinesPerDraw > 0 && p.HistoryLength > 0
}

// Offset returns the UV offset draw i adds to every texcoord before sampling.
// Half-texel terms centre samples on texel midpoints.
func (p DrawPlan) Offset(i int) mgl32.Vec2 {
	return mgl32.Vec2{
		0.5 / float32(p.HistoryLength),
		(0.5 + float32(i*p.LinesPerDraw)) / float32(p.TotalLineCount),
	}
}

// ForEachDraw calls fn once per draw call with its buffer offset.
func (p DrawPlan) ForEachDraw(fn func(i int, offset mgl32.Vec2)) {
	if !p.Valid() {
		return
	}
	for i := 0; i < p.DrawCount; i++ {
		fn(i, p.Offset(i))
	}
}

package swarm

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanInvariants(t *testing.T) {
	for lines := 1; lines <= 300; lines += 7 {
		for _, history := range []int{1, 8, 32, 100, 217, 650, 1024, 2000, 8192} {
			p := Plan(lines, history)
			require.True(t, p.Valid(), "lines=%d history=%d", lines, history)
			assert.Equal(t, p.TotalLineCount, p.DrawCount*p.LinesPerDraw, "lines=%d history=%d", lines, history)
			assert.LessOrEqual(t, p.TotalLineCount, lines)
			assert.Zero(t, p.TotalLineCount%p.DrawCount)
			assert.Less(t, p.VertexCount(), MaxVerticesPerDraw, "lines=%d history=%d", lines, history)

			if lines*history < MaxVerticesPerDraw {
				assert.Equal(t, lines, p.DrawCount)
				assert.Equal(t, 1, p.LinesPerDraw)
			}
		}
	}
}

func TestPlanScenarios(t *testing.T) {
	tests := []struct {
		name                            string
		lines, history                  int
		draws, perDraw, total, truncate int
	}{
		{"small swarm draws per line", 32, 32, 32, 1, 32, 0},
		{"even split", 100, 700, 2, 50, 100, 0},
		{"odd split drops a line", 33, 2000, 2, 16, 32, 1},
		{"just under ceiling", 1, 64999, 1, 1, 1, 0},
		{"largest supported", MaxLineCount, MaxHistoryLength, 130, 63, 8190, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Plan(tt.lines, tt.history)
			assert.Equal(t, tt.draws, p.DrawCount)
			assert.Equal(t, tt.perDraw, p.LinesPerDraw)
			assert.Equal(t, tt.total, p.TotalLineCount)
			assert.Equal(t, tt.truncate, p.Truncated())
		})
	}
}

func TestPlanInvalid(t *testing.T) {
	assert.False(t, Plan(0, 32).Valid())
	assert.False(t, Plan(32, 0).Valid())

	calls := 0
	Plan(0, 32).ForEachDraw(func(int, mgl32.Vec2) { calls++ })
	assert.Zero(t, calls)
}

func TestForEachDrawOffsets(t *testing.T) {
	p := Plan(100, 700)
	var got []mgl32.Vec2
	var idx []int
	p.ForEachDraw(func(i int, off mgl32.Vec2) {
		idx = append(idx, i)
		got = append(got, off)
	})

	require.Equal(t, []int{0, 1}, idx)
	assert.InDelta(t, 0.5/700.0, got[0].X(), 1e-7)
	assert.InDelta(t, 0.5/100.0, got[0].Y(), 1e-7)
	assert.InDelta(t, 0.5/700.0, got[1].X(), 1e-7)
	assert.InDelta(t, 50.5/100.0, got[1].Y(), 1e-7)
}

// Every line of the shared buffer is addressed by exactly one draw.
func TestDrawBandsCoverEveryLineOnce(t *testing.T) {
	for _, c := range [][2]int{{33, 2000}, {100, 700}, {7, 16}, {500, 512}} {
		p := Plan(c[0], c[1])
		mesh := BuildMeshForPlan(p)
		seen := make([]int, p.TotalLineCount)

		p.ForEachDraw(func(_ int, off mgl32.Vec2) {
			for row := 0; row < mesh.LinesPerDraw; row++ {
				v := mesh.UVs[row*mesh.HistoryLength].Y() + off.Y()
				line := int(v * float32(p.TotalLineCount))
				require.GreaterOrEqual(t, line, 0)
				require.Less(t, line, p.TotalLineCount)
				seen[line]++
			}
		})
		for line, n := range seen {
			assert.Equal(t, 1, n, "plan %v line %d", c, line)
		}
	}
}

package swarm

import "fmt"

// DoubleBuffer is a ping-pong texture pair. Front is read, Back is written.
type DoubleBuffer struct {
	Front TextureID
	Back  TextureID
}

// Swap exchanges front and back.
func (b *DoubleBuffer) Swap() {
	b.Front, b.Back = b.Back, b.Front
}

// SimulationState owns the position history and velocity buffers of one swarm.
type SimulationState struct {
	Position DoubleBuffer // HistoryLength x TotalLineCount
	Velocity DoubleBuffer // 1 x TotalLineCount
	Width    int          // history slots
	Height   int          // rendered lines
	Time     float64      // accumulated simulation time
}

// Allocate creates the four simulation textures for plan p. If any creation
// fails the textures made so far are released before returning.
func Allocate(dev Device, p DrawPlan) (*SimulationState, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: invalid draw plan %dx%d", ErrResourceAllocation, p.HistoryLength, p.TotalLineCount)
	}
	s := &SimulationState{Width: p.HistoryLength, Height: p.TotalLineCount}

	steps := []struct {
		name string
		w    int
		dst  *TextureID
	}{
		{"position buffer 1", s.Width, &s.Position.Front},
		{"position buffer 2", s.Width, &s.Position.Back},
		{"velocity buffer 1", 1, &s.Velocity.Front},
		{"velocity buffer 2", 1, &s.Velocity.Back},
	}
	for _, st := range steps {
		id, err := dev.CreateTexture(st.w, s.Height)
		if err != nil {
			s.Free(dev)
			return nil, fmt.Errorf("%w: %s (%dx%d): %w", ErrResourceAllocation, st.name, st.w, s.Height, err)
		}
		*st.dst = id
	}
	return s, nil
}

// Swap exchanges front and back of both buffers.
func (s *SimulationState) Swap() {
	s.Position.Swap()
	s.Velocity.Swap()
}

// Matches reports whether the buffers have the shape plan p requires.
func (s *SimulationState) Matches(p DrawPlan) bool {
	return s != nil && s.Width == p.HistoryLength && s.Height == p.TotalLineCount
}

// Free releases every texture. It is safe on nil or partially allocated
// state and may be called more than once.
func (s *SimulationState) Free(dev Device) {
	if s == nil {
		return
	}
	for _, id := range []*TextureID{
		&s.Position.Front, &s.Position.Back,
		&s.Velocity.Front, &s.Velocity.Back,
	} {
		if *id != 0 {
			dev.DeleteTexture(*id)
			*id = 0
		}
	}
}

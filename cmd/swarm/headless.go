package main

import (
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"swarm/internal/noise"
	"swarm/internal/settings"
	"swarm/internal/softgpu"
	"swarm/internal/swarm"
)

// HeadlessFrameDelta is the simulated frame length of a headless run.
const HeadlessFrameDelta = 1.0 / 60

// Summary describes the state after a headless run.
type Summary struct {
	Plan          swarm.DrawPlan
	Frames        int
	SimTime       float64
	Passes        int
	DrawsPerFrame int
	Lines         int
	Min, Max      mgl32.Vec3 // world-space bounds of every trail sample
}

// simulate runs frames ticks of ctrl on dev and resolves the last frame.
func simulate(dev *softgpu.Device, ctrl *swarm.Controller, rp swarm.RenderParams, frames int) (Summary, error) {
	sum := Summary{Frames: frames}
	for i := 0; i < frames; i++ {
		dev.ResetDraws()
		if err := ctrl.Tick(HeadlessFrameDelta, rp); err != nil {
			return sum, fmt.Errorf("frame %d: %w", i, err)
		}
	}

	sum.Plan = ctrl.Plan()
	sum.Passes = dev.Passes()
	sum.DrawsPerFrame = len(dev.Draws())
	if sim := ctrl.Simulation(); sim != nil {
		sum.SimTime = sim.Time
	}

	inf := float32(math.Inf(1))
	sum.Min = mgl32.Vec3{inf, inf, inf}
	sum.Max = sum.Min.Mul(-1)
	for _, cmd := range dev.Draws() {
		for _, line := range dev.Resolve(cmd) {
			sum.Lines++
			for _, p := range line {
				for k := 0; k < 3; k++ {
					sum.Min[k] = min(sum.Min[k], p[k])
					sum.Max[k] = max(sum.Max[k], p[k])
				}
			}
		}
	}
	return sum, nil
}

func runHeadless(s settings.Settings, opts options, log *zap.Logger, out io.Writer) error {
	dev := softgpu.New(noise.NewPerlin())
	ctrl := swarm.NewController(dev, swarmConfig(s, log),
		swarm.WithLogger(log.Named("swarm")),
		swarm.WithMode(mode(opts.preview)),
	)
	defer ctrl.Destroy()

	frames := opts.frames
	if frames < 1 {
		frames = 1
	}
	sum, err := simulate(dev, ctrl, s.RenderParams(), frames)
	if err != nil {
		return err
	}
	log.Info("headless run finished",
		zap.Int("frames", sum.Frames),
		zap.Int("passes", sum.Passes),
		zap.Int("resets", ctrl.Resets()))

	p := sum.Plan
	fmt.Fprintf(out, "lines      %d of %d (%d dropped)\n", p.TotalLineCount, p.LineCount, p.Truncated())
	fmt.Fprintf(out, "history    %d\n", p.HistoryLength)
	fmt.Fprintf(out, "draws      %d x %d lines (%d vertices each)\n", p.DrawCount, p.LinesPerDraw, p.VertexCount())
	fmt.Fprintf(out, "frames     %d (%.2fs simulated, %d passes)\n", sum.Frames, sum.SimTime, sum.Passes)
	fmt.Fprintf(out, "bounds     %.3f .. %.3f\n", sum.Min, sum.Max)
	return nil
}

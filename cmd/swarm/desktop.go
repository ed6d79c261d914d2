package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"swarm/internal/glgpu"
	"swarm/internal/settings"
	"swarm/internal/swarm"
)

func runDesktop(s settings.Settings, opts options, log *zap.Logger) error {
	runtime.LockOSThread()

	window, err := initWindow(s.Window)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	log.Info("gl context", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	dev, err := glgpu.New()
	if err != nil {
		return fmt.Errorf("gl device: %w", err)
	}
	defer dev.Destroy()

	ctrl := swarm.NewController(dev, swarmConfig(s, log),
		swarm.WithLogger(log.Named("swarm")),
		swarm.WithMode(mode(opts.preview)),
	)
	defer ctrl.Destroy()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var changed <-chan struct{}
	if opts.configPath != "" {
		changed, err = settings.Watch(ctx, opts.configPath, log.Named("settings"))
		if err != nil {
			log.Warn("settings will not be reloaded", zap.Error(err))
		}
	}

	cam := Camera{Distance: s.Window.Distance, Pitch: 0.3, OrbitSpeed: s.Window.OrbitSpeed}
	cam.Clamp()
	rp := s.RenderParams()
	preview := opts.preview
	paused := false

	window.SetScrollCallback(func(_ *glfw.Window, _, y float64) {
		cam.Zoom(y)
	})
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press {
			return
		}
		switch key {
		case glfw.KeyEscape:
			w.SetShouldClose(true)
		case glfw.KeyR:
			ctrl.Invalidate()
		case glfw.KeySpace:
			paused = !paused
		case glfw.KeyP:
			preview = !preview
			ctrl.SetMode(mode(preview))
		}
	})

	// GL state.
	bg := s.Window.BackgroundColor()
	gl.ClearColor(float32(bg.R), float32(bg.G), float32(bg.B), 1.0)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > 0.1 {
			dt = 0.1
		}

		glfw.PollEvents()

		select {
		case _, ok := <-changed:
			if ok {
				rp = reload(ctrl, opts.configPath, rp, log)
			} else {
				changed = nil
			}
		default:
		}

		fbW, fbH := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(fbW), int32(fbH))
		gl.Clear(gl.COLOR_BUFFER_BIT)

		cam.Update(dt)
		rp.ViewProjection = cam.ViewProjection(fbW, fbH)

		// A failed reset is logged by the controller and retried next frame.
		var err error
		if paused {
			err = ctrl.Redraw(rp)
		}
		if !paused || errors.Is(err, swarm.ErrNotReady) {
			_ = ctrl.Tick(dt, rp)
		}

		window.SwapBuffers()
	}
	return nil
}

// reload applies a changed settings file. An unreadable file keeps the
// running configuration.
func reload(ctrl *swarm.Controller, path string, rp swarm.RenderParams, log *zap.Logger) swarm.RenderParams {
	s, err := settings.Load(path)
	if err != nil {
		log.Warn("settings reload failed, keeping current settings", zap.Error(err))
		return rp
	}
	ctrl.SetConfig(swarmConfig(s, log))
	ctrl.Invalidate()
	log.Info("settings reloaded", zap.String("path", path))

	next := s.RenderParams()
	next.ViewProjection = rp.ViewProjection
	return next
}

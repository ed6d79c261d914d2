// Package settings loads the TOML settings file of the swarm host.
package settings

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/lucasb-eyer/go-colorful"

	"swarm/internal/swarm"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid settings")

// Settings is the whole settings file.
type Settings struct {
	Simulation Simulation `toml:"simulation"`
	Render     Render     `toml:"render"`
	Window     Window     `toml:"window"`
}

// Simulation maps onto swarm.Config.
type Simulation struct {
	LineCount     int `toml:"line_count"`
	HistoryLength int `toml:"history_length"`

	AccelerationMin float32 `toml:"acceleration_min"`
	AccelerationMax float32 `toml:"acceleration_max"`
	Damp            float32 `toml:"damp"`

	Attractor        [3]float32 `toml:"attractor"`
	Spread           float32    `toml:"spread"`
	Flow             [3]float32 `toml:"flow"`
	ForcePerDistance float32    `toml:"force_per_distance"`
	ForceRandomness  float32    `toml:"force_randomness"`
	Drag             float32    `toml:"drag"`

	NoiseAmplitude float32 `toml:"noise_amplitude"`
	NoiseFrequency float32 `toml:"noise_frequency"`
	NoiseSpeed     float32 `toml:"noise_speed"`
	NoiseVariance  float32 `toml:"noise_variance"`

	SwirlStrength float32 `toml:"swirl_strength"`
	SwirlDensity  float32 `toml:"swirl_density"`

	FixedTimeStep  bool `toml:"fixed_time_step"`
	StepsPerSecond int  `toml:"steps_per_second"`
	RandomSeed     int  `toml:"random_seed"`
}

// Render holds line colours and the swarm's local-to-world placement.
type Render struct {
	Color1            string  `toml:"color1"` // hex, e.g. "#ff8800"
	Color2            string  `toml:"color2"`
	GradientSteepness float32 `toml:"gradient_steepness"`
	ColorMode         string  `toml:"color_mode"` // random or smooth
	LineWidth         float32 `toml:"line_width"`

	Position [3]float32 `toml:"position"`
	Rotation [3]float32 `toml:"rotation"` // degrees, applied Y then X then Z
	Scale    float32    `toml:"scale"`
}

// Window configures the desktop host.
type Window struct {
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	Title      string  `toml:"title"`
	VSync      bool    `toml:"vsync"`
	Distance   float32 `toml:"camera_distance"`
	OrbitSpeed float32 `toml:"orbit_speed"` // radians per second
	Background string  `toml:"background"`
}

// Default returns the stock settings.
func Default() Settings {
	c := swarm.DefaultConfig()
	return Settings{
		Simulation: Simulation{
			LineCount:        c.LineCount,
			HistoryLength:    c.HistoryLength,
			AccelerationMin:  c.AccelerationMin,
			AccelerationMax:  c.AccelerationMax,
			Damp:             c.Damp,
			Spread:           c.Spread,
			ForcePerDistance: c.ForcePerDistance,
			ForceRandomness:  c.ForceRandomness,
			Drag:             c.Drag,
			NoiseAmplitude:   c.NoiseAmplitude,
			NoiseFrequency:   c.NoiseFrequency,
			NoiseSpeed:       c.NoiseSpeed,
			NoiseVariance:    c.NoiseVariance,
			SwirlStrength:    c.SwirlStrength,
			SwirlDensity:     c.SwirlDensity,
			FixedTimeStep:    c.FixedTimeStep,
			StepsPerSecond:   c.StepsPerSecond,
			RandomSeed:       c.RandomSeed,
		},
		Render: Render{
			Color1:            "#ffffff",
			Color2:            "#ffffff",
			GradientSteepness: 2,
			ColorMode:         "random",
			LineWidth:         0.1,
			Scale:             1,
		},
		Window: Window{
			Width:      1280,
			Height:     720,
			Title:      "swarm",
			VSync:      true,
			Distance:   4,
			OrbitSpeed: 0.2,
			Background: "#101014",
		},
	}
}

// Load decodes path over the defaults. Keys the file sets that no field
// maps to are rejected so typos do not go unnoticed.
func Load(path string) (Settings, error) {
	s := Default()
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return s, fmt.Errorf("settings %s: %w: unknown keys %s", path, ErrInvalid, strings.Join(keys, ", "))
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Validate checks the values that cannot be clamped into range.
// Numeric simulation ranges are clamped later by the swarm controller.
func (s Settings) Validate() error {
	for name, hex := range map[string]string{
		"render.color1":     s.Render.Color1,
		"render.color2":     s.Render.Color2,
		"window.background": s.Window.Background,
	} {
		if _, err := colorful.Hex(hex); err != nil {
			return fmt.Errorf("%w: %s: %q is not a hex colour", ErrInvalid, name, hex)
		}
	}
	if _, err := parseColorMode(s.Render.ColorMode); err != nil {
		return err
	}
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, s.Window.Width, s.Window.Height)
	}
	return nil
}

func parseColorMode(s string) (swarm.ColorMode, error) {
	switch strings.ToLower(s) {
	case "", "random":
		return swarm.ColorRandom, nil
	case "smooth":
		return swarm.ColorSmooth, nil
	}
	return 0, fmt.Errorf("%w: render.color_mode %q", ErrInvalid, s)
}

// SwarmConfig returns the simulation section as a swarm.Config.
func (s Settings) SwarmConfig() swarm.Config {
	m := s.Simulation
	return swarm.Config{
		LineCount:        m.LineCount,
		HistoryLength:    m.HistoryLength,
		AccelerationMin:  m.AccelerationMin,
		AccelerationMax:  m.AccelerationMax,
		Damp:             m.Damp,
		Attractor:        mgl32.Vec3(m.Attractor),
		Spread:           m.Spread,
		Flow:             mgl32.Vec3(m.Flow),
		ForcePerDistance: m.ForcePerDistance,
		ForceRandomness:  m.ForceRandomness,
		Drag:             m.Drag,
		NoiseAmplitude:   m.NoiseAmplitude,
		NoiseFrequency:   m.NoiseFrequency,
		NoiseSpeed:       m.NoiseSpeed,
		NoiseVariance:    m.NoiseVariance,
		SwirlStrength:    m.SwirlStrength,
		SwirlDensity:     m.SwirlDensity,
		FixedTimeStep:    m.FixedTimeStep,
		StepsPerSecond:   m.StepsPerSecond,
		RandomSeed:       m.RandomSeed,
	}
}

// RenderParams returns the line-program parameters with the swarm's
// local-to-world transform. ViewProjection is left as identity for the
// host to fill in. Invalid colours fall back to white; Load rejects them.
func (s Settings) RenderParams() swarm.RenderParams {
	r := s.Render
	rp := swarm.DefaultRenderParams()
	if c, err := colorful.Hex(r.Color1); err == nil {
		rp.Color1 = c
	}
	if c, err := colorful.Hex(r.Color2); err == nil {
		rp.Color2 = c
	}
	rp.GradientSteepness = r.GradientSteepness
	rp.ColorMode, _ = parseColorMode(r.ColorMode)
	rp.LineWidth = mgl32.Clamp(r.LineWidth, 0, swarm.MaxLineWidth)
	rp.Transform = r.Transform()
	return rp
}

// Transform returns translate * rotate * scale.
func (r Render) Transform() mgl32.Mat4 {
	scale := r.Scale
	if scale == 0 {
		scale = 1
	}
	rot := mgl32.AnglesToQuat(
		mgl32.DegToRad(r.Rotation[1]),
		mgl32.DegToRad(r.Rotation[0]),
		mgl32.DegToRad(r.Rotation[2]),
		mgl32.YXZ,
	)
	return mgl32.Translate3D(r.Position[0], r.Position[1], r.Position[2]).
		Mul4(rot.Mat4()).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}

// BackgroundColor returns the window clear colour, black if invalid.
func (w Window) BackgroundColor() colorful.Color {
	c, err := colorful.Hex(w.Background)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

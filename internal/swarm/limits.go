package swarm

// Hardware per-draw vertex ceiling. One mesh instance never holds this many vertices.
const MaxVerticesPerDraw = 65000

// Supported shape ranges. Values outside are clamped on reset.
const (
	MinLineCount     = 1
	MaxLineCount     = 8192
	MinHistoryLength = 8
	MaxHistoryLength = 1024
)

// Warm-up run after every reset so the first frame already shows history.
const (
	DefaultWarmupSteps = 32
	DefaultWarmupDelta = 1.0 / 60.0
)

// Mesh culling bounds (edge length of a cube centred at the origin).
// Vertex positions are resolved on the GPU so the CPU-side bounds are fake.
const MeshBoundsSize = 100.0

// Dynamics ranges.
const (
	MinAcceleration     = 0.01
	MaxAcceleration     = 10.0
	MaxDamp             = 5.0
	MaxSpread           = 5.0
	MaxForcePerDistance = 100.0
	MaxDrag             = 10.0
	MaxNoiseAmplitude   = 10.0
	MinNoiseFrequency   = 0.01
	MaxNoiseFrequency   = 1.0
	MaxNoiseSpeed       = 5.0
	MaxNoiseVariance    = 10.0
	MaxSwirlStrength    = 2.0
	MinSwirlDensity     = 0.01
	MaxSwirlDensity     = 5.0
	MinStepsPerSecond   = 1
	MaxStepsPerSecond   = 1000
	MaxLineWidth        = 0.5
)

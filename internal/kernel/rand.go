package kernel

import "github.com/go-gl/mathgl/mgl32"

// Salts keep the per-line random streams independent.
const (
	saltSeedPosition uint64 = 0x5EED0001
	saltSeedVelocity uint64 = 0x5EED0002
	saltColorKey     uint64 = 0x5EED0003
	saltTarget       uint64 = 0xA77A0001
	saltForce        uint64 = 0xA77A0002
	saltNoiseOffset  uint64 = 0x0015E001
)

// splitmix64 is a fast, high-quality 64-bit mixer.
func splitmix64(x uint64) uint64 {
	x += 0x9E3779B97F4A7C15
	z := x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

// hashLine returns a deterministic 64-bit hash for (line, salt) under seed.
func hashLine(seed int, line int, salt uint64) uint64 {
	h := uint64(uint32(seed))
	h ^= uint64(uint32(line)) * 0x9E3779B185EBCA87
	h ^= salt * 0xC2B2AE3D27D4EB4F
	return splitmix64(h)
}

// unit maps the top 24 bits of h to [0,1). 24 bits keep the value exact in float32.
func unit(h uint64) float32 {
	return float32(h>>40) * (1.0 / (1 << 24))
}

// Rand returns a per-line random value in [0,1).
func Rand(seed, line int, salt uint64) float32 {
	return unit(hashLine(seed, line, salt))
}

// Rand3 returns a per-line random vector in [0,1)^3.
func Rand3(seed, line int, salt uint64) mgl32.Vec3 {
	h := hashLine(seed, line, salt)
	return mgl32.Vec3{
		unit(h),
		unit(splitmix64(h ^ 1)),
		unit(splitmix64(h ^ 2)),
	}
}

// centered maps [0,1)^3 to [-1,1)^3.
func centered(v mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{v[0]*2 - 1, v[1]*2 - 1, v[2]*2 - 1}
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

package glgpu

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Kernel vertex shader: VBO-based fullscreen quad (no gl_VertexID).
const kernelVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos; // 0..1 quad vertex

void main() {
    gl_Position = vec4(aPos * 2.0 - 1.0, 0.0, 1.0);
}
` + "\x00"

// Kernel fragment shader: one texel per invocation, row = line, column =
// history slot. uPass selects seed-position, seed-velocity, update-velocity
// or update-position.
const kernelFragSrc = `#version 410 core

uniform sampler2D uPositionTex;
uniform sampler2D uVelocityTex;
uniform int uPass;
uniform uint uSeed;
uniform float uTime;
uniform float uDeltaTime;

uniform vec3 uAttractor;
uniform float uSpread;
uniform vec3 uFlow;
uniform float uForcePerDistance;
uniform float uForceRandomness;
uniform vec2 uAccel;   // min, max
uniform float uDamp;
uniform float uDrag;
uniform vec4 uNoise;   // amplitude, frequency, speed, variance
uniform vec2 uSwirl;   // strength, density

out vec4 FragColor;

const uint SALT_SEED_POSITION = 0x51ED2701u;
const uint SALT_SEED_VELOCITY = 0x7E10C17Au;
const uint SALT_TARGET        = 0x7A59E7B3u;
const uint SALT_FORCE         = 0xF02CE5D1u;
const uint SALT_NOISE_OFFSET  = 0x0FF5E7C9u;
const uint SALT_COLOR_KEY     = 0xC0102EE5u;

uint hash(uint x) {
    x ^= x >> 16; x *= 0x7FEB352Du;
    x ^= x >> 15; x *= 0x846CA68Bu;
    x ^= x >> 16;
    return x;
}

float rnd(uint line, uint salt) {
    return float(hash(hash(uSeed ^ salt) + line) >> 8) / 16777216.0;
}

vec3 rnd3(uint line, uint salt) {
    return vec3(rnd(line, salt), rnd(line, salt + 1u), rnd(line, salt + 2u));
}

vec3 centered(vec3 v) { return v * 2.0 - 1.0; }

// Gradient noise on an integer lattice hashed with the seed.
vec3 grad(ivec3 c) {
    uint h = hash(uint(c.x) * 73856093u ^ uint(c.y) * 19349663u ^ uint(c.z) * 83492791u ^ uSeed);
    return normalize(vec3(float(h & 1023u), float((h >> 10) & 1023u), float((h >> 20) & 1023u)) / 511.5 - 1.0 + 1e-4);
}

float gnoise(vec3 p) {
    ivec3 i = ivec3(floor(p));
    vec3 f = fract(p);
    vec3 u = f * f * f * (f * (f * 6.0 - 15.0) + 10.0);
    float n000 = dot(grad(i + ivec3(0, 0, 0)), f - vec3(0, 0, 0));
    float n100 = dot(grad(i + ivec3(1, 0, 0)), f - vec3(1, 0, 0));
    float n010 = dot(grad(i + ivec3(0, 1, 0)), f - vec3(0, 1, 0));
    float n110 = dot(grad(i + ivec3(1, 1, 0)), f - vec3(1, 1, 0));
    float n001 = dot(grad(i + ivec3(0, 0, 1)), f - vec3(0, 0, 1));
    float n101 = dot(grad(i + ivec3(1, 0, 1)), f - vec3(1, 0, 1));
    float n011 = dot(grad(i + ivec3(0, 1, 1)), f - vec3(0, 1, 1));
    float n111 = dot(grad(i + ivec3(1, 1, 1)), f - vec3(1, 1, 1));
    return mix(mix(mix(n000, n100, u.x), mix(n010, n110, u.x), u.y),
               mix(mix(n001, n101, u.x), mix(n011, n111, u.x), u.y), u.z);
}

vec3 vnoise(vec3 p, float t) {
    vec3 q = p + vec3(t, t * 0.7, t * 0.4);
    return vec3(gnoise(q),
                gnoise(q + vec3(31.416, 47.853, 12.793)),
                gnoise(q + vec3(-71.234, 23.647, 91.057)));
}

vec3 force(uint line, vec3 p) {
    vec3 target = uAttractor + centered(rnd3(line, SALT_TARGET)) * uSpread;
    float k = uForcePerDistance * mix(1.0 - uForceRandomness, 1.0, rnd(line, SALT_FORCE));
    vec3 f = (target - p) * k + uFlow;

    if (uNoise.x > 0.0) {
        vec3 np = p * uNoise.y + centered(rnd3(line, SALT_NOISE_OFFSET)) * uNoise.w;
        f += vnoise(np, uTime * uNoise.z) * uNoise.x;
    }
    if (uSwirl.x > 0.0) {
        vec3 d = p - uAttractor;
        float falloff = uSwirl.y / (1.0 + uSwirl.y * dot(d, d));
        f += cross(vec3(0, 1, 0), d) * uSwirl.x * falloff;
    }
    return f;
}

void main() {
    ivec2 texel = ivec2(gl_FragCoord.xy);
    uint line = uint(texel.y);

    if (uPass == 0) {
        vec3 p = uAttractor + centered(rnd3(line, SALT_SEED_POSITION)) * uSpread;
        FragColor = vec4(p, rnd(line, SALT_COLOR_KEY));
    } else if (uPass == 1) {
        vec3 d = centered(rnd3(line, SALT_SEED_VELOCITY));
        if (length(d) > 1e-6) d = normalize(d);
        FragColor = vec4(d * uAccel.x * 0.1, 0.0);
    } else if (uPass == 2) {
        vec3 p = texelFetch(uPositionTex, ivec2(0, texel.y), 0).xyz;
        vec3 v = texelFetch(uVelocityTex, ivec2(0, texel.y), 0).xyz;
        vec3 a = force(line, p);
        float l = length(a);
        a = l < 1e-9 ? vec3(0.0) : a * (clamp(l, uAccel.x, uAccel.y) / l);
        float decay = max(0.0, 1.0 - uDamp * uDeltaTime) * exp(-uDrag * uDeltaTime);
        FragColor = vec4((v + a * uDeltaTime) * decay, 0.0);
    } else {
        if (texel.x == 0) {
            vec4 head = texelFetch(uPositionTex, ivec2(0, texel.y), 0);
            vec3 v = texelFetch(uVelocityTex, ivec2(0, texel.y), 0).xyz;
            FragColor = vec4(head.xyz + v * uDeltaTime, head.w);
        } else {
            FragColor = texelFetch(uPositionTex, ivec2(texel.x - 1, texel.y), 0);
        }
    }
}
` + "\x00"

// Line vertex shader: every vertex resolves its position by sampling the
// history buffer at its texcoord plus the per-draw band offset.
const lineVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec2 aUV;

uniform sampler2D uPositionTex;
uniform vec2 uBufferOffset;
uniform mat4 uModel;
uniform mat4 uViewProj;

out float vKey;
out float vAge;

void main() {
    vec4 p = texture(uPositionTex, aUV + uBufferOffset);
    gl_Position = uViewProj * uModel * vec4(p.xyz + aPos, 1.0);
    vKey = p.w;
    vAge = aUV.x;
}
` + "\x00"

// Line fragment shader: random mode picks one of two colours per line,
// smooth mode blends them with a gradient on the line key.
const lineFragSrc = `#version 410 core

uniform vec3 uColor1;
uniform vec3 uColor2;
uniform float uGradExp;
uniform int uColorMode;

in float vKey;
in float vAge;
out vec4 FragColor;

void main() {
    vec3 col;
    if (uColorMode == 1) {
        col = mix(uColor1, uColor2, pow(vKey, uGradExp));
    } else {
        col = vKey < 0.5 ? uColor1 : uColor2;
    }
    FragColor = vec4(col, 1.0 - vAge);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}

package world

import "github.com/nethr-io/nethr/pkg/rng"

// This file is the Go port of original_source/src/worldgen.c's noise
// primitives (hash01_2d, valueNoise2D, fractalNoise2D). The teacher
// (ChickenIQ-VibeShitCraft) builds terrain on a permutation-table Perlin
// generator; spec §4.C instead pins generation to splitmix64-seeded value
// noise, so this keeps the teacher's shape — smoothstep fade, bilinear
// lattice lookup, fixed-weight octave sum — but replaces the permutation
// table with a pure hash of the lattice coordinates, eliminating all
// generator-side mutable state.

// divFloor is floor division (Go's / truncates toward zero).
func divFloor(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// modAbs returns a mod b in [0, b).
func modAbs(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func smoothstep01(t float64) float64 {
	return t * t * (3.0 - 2.0*t)
}

func lerp01(a, b, t float64) float64 {
	return a + (b-a)*t
}

// hash01_2d derives a value in [0,1) from splitmix64 over the packed
// lattice coordinate, salt, and world seed (spec §4.C).
func hash01_2d(x, z int, salt uint64, worldSeed uint64) float64 {
	key := (uint64(uint32(x)) << 32) | uint64(uint32(z))
	h := uint32(rng.Splitmix64(key ^ salt ^ worldSeed))
	return float64(h&0x00FFFFFF) / 16777216.0
}

// valueNoise2D is a smoothstep-interpolated bilinear lookup of hash01_2d on
// a lattice of spacing scale (spec §4.C "Noise primitives").
func valueNoise2D(x, z, scale int, salt uint64, worldSeed uint64) float64 {
	cellX := divFloor(x, scale)
	cellZ := divFloor(z, scale)
	tx := smoothstep01(float64(modAbs(x, scale)) / float64(scale))
	tz := smoothstep01(float64(modAbs(z, scale)) / float64(scale))

	n00 := hash01_2d(cellX, cellZ, salt, worldSeed)
	n10 := hash01_2d(cellX+1, cellZ, salt, worldSeed)
	n01 := hash01_2d(cellX, cellZ+1, salt, worldSeed)
	n11 := hash01_2d(cellX+1, cellZ+1, salt, worldSeed)

	nx0 := lerp01(n00, n10, tx)
	nx1 := lerp01(n01, n11, tx)
	return lerp01(nx0, nx1, tz)
}

// Salts used by the fixed-weight octave sums below, taken verbatim from
// original_source/src/worldgen.c so seeds already tuned for pleasant
// terrain aren't re-rolled by this rewrite.
const (
	saltOctave0 = 0x9E3779B97F4A7C15
	saltOctave1 = 0xD1B54A32D192ED03
	saltOctave2 = 0x94D049BB133111EB
)

// fractalNoise2D is the "detailed" 3-octave sum (scales 48/24/12, weights
// 0.60/0.28/0.12) used for rolling terrain relief.
func fractalNoise2D(x, z int, salt uint64, worldSeed uint64) float64 {
	n0 := valueNoise2D(x, z, 48, salt^saltOctave0, worldSeed)
	n1 := valueNoise2D(x, z, 24, salt^saltOctave1, worldSeed)
	n2 := valueNoise2D(x, z, 12, salt^saltOctave2, worldSeed)
	return n0*0.60 + n1*0.28 + n2*0.12
}

// sampleClimateAxis is the "smooth" 3-octave variant (weights 0.62/0.26/
// 0.12, remapped to [-1,1]) spec §4.C names for the five climate axes,
// where coarser continents read better than the detailed terrain-relief
// variant.
func sampleClimateAxis(x, z, scale int, salt uint64, worldSeed uint64) float64 {
	n0 := valueNoise2D(x, z, scale, salt^saltOctave0, worldSeed)
	n1 := valueNoise2D(x, z, scale/2, salt^saltOctave1, worldSeed)
	n2 := valueNoise2D(x, z, scale/4, salt^saltOctave2, worldSeed)
	return (n0*0.62+n1*0.26+n2*0.12)*2.0 - 1.0
}

// coordinateHash is the generic 3D coordinate hash (spec §4.C): two chained
// splitmix64 steps over (x, y, z) and the world seed.
func coordinateHash(x, y, z int, worldSeed uint64) uint32 {
	xy := (uint64(uint32(x)) << 32) | uint64(uint32(y))
	h := rng.Splitmix64(xy ^ worldSeed)
	return uint32(rng.Splitmix64(h ^ uint64(uint32(z))))
}

// chunkAnchorHash is the per-chunk anchor hash: splitmix64(pack(x:i16,
// z:i16, world_seed:u32)) per spec §4.C.
func chunkAnchorHash(x, z int16, worldSeed32 uint32) uint64 {
	var key uint64
	key |= uint64(uint16(x))
	key |= uint64(uint16(z)) << 16
	key |= uint64(worldSeed32) << 32
	return rng.Splitmix64(key)
}

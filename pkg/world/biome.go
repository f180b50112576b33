package world

// Biome is the categorical label produced by climate classification (spec
// §4.C, GLOSSARY). The set is intentionally small — spec §1 excludes
// exotic biomes, keeping only what the feature/terrain rules need.
type Biome uint8

const (
	BiomePlains Biome = iota
	BiomeSnowyPlains
	BiomeDesert
	BiomeMangroveSwamp
	BiomeBeach
)

func (b Biome) String() string {
	switch b {
	case BiomePlains:
		return "plains"
	case BiomeSnowyPlains:
		return "snowy_plains"
	case BiomeDesert:
		return "desert"
	case BiomeMangroveSwamp:
		return "mangrove_swamp"
	case BiomeBeach:
		return "beach"
	default:
		return "plains"
	}
}

// Climate is the five-axis sample spec §4.C classifies biomes from.
type Climate struct {
	Temperature     float64
	Humidity        float64
	Continentalness float64
	Erosion         float64
	Weirdness       float64
}

// climateTarget is one row of the fixed weighted-target table, ported
// verbatim from original_source/src/worldgen.c's ClimateTarget array —
// spec §4.C only says "nearest-neighbour over a small fixed table", the
// original supplies the actual coordinates.
type climateTarget struct {
	biome                                                   Biome
	temperature, humidity, continentalness, erosion, weird float64
}

var climateTargets = []climateTarget{
	{BiomeSnowyPlains, -0.75, -0.10, 0.10, 0.15, 0.05},
	{BiomeSnowyPlains, -0.58, 0.35, 0.30, -0.05, 0.35},
	{BiomeDesert, 0.80, -0.58, 0.22, -0.12, 0.05},
	{BiomeDesert, 0.68, -0.30, 0.42, -0.25, -0.15},
	{BiomeMangroveSwamp, 0.55, 0.75, -0.02, 0.40, 0.10},
	{BiomeMangroveSwamp, 0.42, 0.62, 0.10, 0.55, -0.10},
	{BiomePlains, 0.20, 0.10, 0.30, 0.10, 0.00},
	{BiomePlains, 0.00, -0.12, 0.45, -0.18, 0.25},
	{BiomePlains, 0.35, 0.35, 0.12, 0.42, -0.20},
}

// climateDistanceSq is the weighted squared distance the classifier
// minimizes; weights (1.25/0.95/1.35/0.85/0.70) make continentalness and
// temperature dominate coarse biome placement, per the original source.
func climateDistanceSq(c Climate, t climateTarget) float64 {
	dt := c.Temperature - t.temperature
	dh := c.Humidity - t.humidity
	dc := c.Continentalness - t.continentalness
	de := c.Erosion - t.erosion
	dw := c.Weirdness - t.weird
	return dt*dt*1.25 + dh*dh*0.95 + dc*dc*1.35 + de*de*0.85 + dw*dw*0.70
}

// Per-axis salts, taken from the original source.
const (
	saltTemperature     = 0xA7F3D95B6C1209E1
	saltHumidity        = 0xC6BC279692B5CC83
	saltContinentalness = 0x8EBC6AF09C88C6E3
	saltErosion         = 0x8AF1C94372DE10B5
	saltWeirdness       = 0xD7A9F13E21C4B6A5
	saltRiverBand       = 0xF13A5B9C6D7E8A01
)

// sampleClimatePoint samples the five climate axes at quarter-block
// resolution centered on a CHUNK_SIZE anchor, per spec §4.C.
func sampleClimatePoint(anchorX, anchorZ int, worldSeed uint64) Climate {
	blockX := anchorX*ChunkSize + ChunkSize/2
	blockZ := anchorZ*ChunkSize + ChunkSize/2
	qx := divFloor(blockX, 4)
	qz := divFloor(blockZ, 4)
	return Climate{
		Temperature:     sampleClimateAxis(qx, qz, 96, saltTemperature, worldSeed),
		Humidity:        sampleClimateAxis(qx, qz, 96, saltHumidity, worldSeed),
		Continentalness: sampleClimateAxis(qx, qz, 128, saltContinentalness, worldSeed),
		Erosion:         sampleClimateAxis(qx, qz, 96, saltErosion, worldSeed),
		Weirdness:       sampleClimateAxis(qx, qz, 64, saltWeirdness, worldSeed),
	}
}

// biomeCacheCapacity is spec §4.C's "bounded direct-mapped cache (default
// 4096 entries)".
const biomeCacheCapacity = 4096

type biomeCacheEntry struct {
	x, z  int32
	biome Biome
	used  bool
}

// biomeCache is a small open-addressing cache: collisions probe forward to
// find either a matching entry or an empty slot, and overwrite whichever
// they land on first — matching the original source's behavior exactly
// (not a pure direct-mapped overwrite).
type biomeCache struct {
	entries [biomeCacheCapacity]biomeCacheEntry
}

func hashChunkXZ(x, z int32) uint32 {
	ux := uint32(uint16(x))
	uz := uint32(uint16(z))
	return (ux * 73856093) ^ (uz * 19349663)
}

func (c *biomeCache) get(x, z int32) (Biome, bool) {
	h := hashChunkXZ(x, z)
	for i := uint32(0); i < biomeCacheCapacity; i++ {
		slot := (h + i) % biomeCacheCapacity
		e := &c.entries[slot]
		if !e.used {
			return 0, false
		}
		if e.x == x && e.z == z {
			return e.biome, true
		}
	}
	return 0, false
}

func (c *biomeCache) put(x, z int32, b Biome) {
	h := hashChunkXZ(x, z)
	slot := h % biomeCacheCapacity
	for i := uint32(0); i < biomeCacheCapacity; i++ {
		probe := (h + i) % biomeCacheCapacity
		if !c.entries[probe].used {
			slot = probe
			break
		}
	}
	c.entries[slot] = biomeCacheEntry{x: x, z: z, biome: b, used: true}
}

// classifyBiome implements spec §4.C's biome classification: fast-path
// ocean/coast beach proxy, then nearest-neighbour over the fixed target
// table with inland guards, then a narrow river-band override.
func classifyBiome(anchorX, anchorZ int32, worldSeed uint64) Biome {
	// Keep spawn approachable regardless of seed.
	if abs32(anchorX) <= 10 && abs32(anchorZ) <= 10 {
		return BiomePlains
	}

	climate := sampleClimatePoint(int(anchorX), int(anchorZ), worldSeed)

	if climate.Continentalness < -0.40 {
		return BiomeBeach
	}
	if climate.Continentalness < -0.20 && climate.Erosion > -0.10 {
		return BiomeBeach
	}

	bestDist := 1e9
	best := BiomePlains
	for _, t := range climateTargets {
		if climate.Continentalness > 0.55 && t.biome != BiomePlains && t.biome != BiomeSnowyPlains {
			continue
		}
		d := climateDistanceSq(climate, t)
		if d < bestDist {
			bestDist = d
			best = t.biome
		}
	}

	riverNoise := sampleClimateAxis(
		divFloor(int(anchorX)*ChunkSize, 4),
		divFloor(int(anchorZ)*ChunkSize, 4),
		48, saltRiverBand, worldSeed,
	)
	riverBand := riverNoise
	if riverBand < 0 {
		riverBand = -riverBand
	}
	if climate.Continentalness > -0.05 && climate.Continentalness < 0.28 && riverBand < 0.035 {
		return BiomeBeach
	}

	return best
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// BiomeAt returns the (cached) biome for the anchor/minichunk at anchor
// coordinates (anchorX, anchorZ). The cache keys on anchor coordinates, not raw
// block coordinates — spec §4.C's getChunkBiome(x,z) takes anchor
// coordinates.
func (g *Generator) BiomeAt(anchorX, anchorZ int32) Biome {
	if b, ok := g.biomes.get(anchorX, anchorZ); ok {
		return b
	}
	b := classifyBiome(anchorX, anchorZ, g.worldSeed)
	g.biomes.put(anchorX, anchorZ, b)
	return b
}

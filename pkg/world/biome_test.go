package world

import "testing"

func TestBiomeAtDeterminism(t *testing.T) {
	g := NewGenerator(100)
	for i := int32(0); i < 50; i++ {
		x := i*31 - 500
		z := i*17 - 300
		b1 := g.BiomeAt(x, z)
		b2 := g.BiomeAt(x, z)
		if b1 != b2 {
			t.Errorf("BiomeAt(%d,%d) not deterministic: %s vs %s", x, z, b1, b2)
		}
	}
}

func TestSpawnGuardIsPlains(t *testing.T) {
	g := NewGenerator(4242)
	for x := int32(-10); x <= 10; x++ {
		for z := int32(-10); z <= 10; z++ {
			if b := g.BiomeAt(x, z); b != BiomePlains {
				t.Errorf("BiomeAt(%d,%d) = %s inside spawn guard, want plains", x, z, b)
			}
		}
	}
}

func TestAllBiomesReachable(t *testing.T) {
	g := NewGenerator(42)
	found := make(map[Biome]bool)
	for x := int32(-2000); x < 2000; x += 23 {
		for z := int32(-2000); z < 2000; z += 23 {
			found[g.BiomeAt(x, z)] = true
		}
	}
	if len(found) < 3 {
		t.Errorf("only found %d distinct biomes sweeping a 4000x4000 anchor area, want >= 3: %v", len(found), found)
	}
}

func TestBiomeCacheMatchesUncached(t *testing.T) {
	g := NewGenerator(9001)
	for i := int32(0); i < 200; i++ {
		x := i*13 - 1200
		z := i*19 - 900
		cached := g.BiomeAt(x, z)
		direct := classifyBiome(x, z, g.worldSeed)
		if cached != direct {
			t.Errorf("BiomeAt(%d,%d) = %s, classifyBiome = %s", x, z, cached, direct)
		}
	}
}

func TestBiomeCacheProbesPastCollisions(t *testing.T) {
	var c biomeCache
	// Force two distinct keys into the same initial slot, then confirm both
	// are retrievable (linear probing, not overwrite-on-collision).
	h := hashChunkXZ(1, 1) % biomeCacheCapacity
	var x2, z2 int32
	for dz := int32(1); dz <= 8192; dz++ {
		if hashChunkXZ(1, 1+dz)%biomeCacheCapacity == h {
			x2, z2 = 1, 1+dz
			break
		}
	}
	c.put(1, 1, BiomePlains)
	if x2 != 0 || z2 != 0 {
		c.put(x2, z2, BiomeDesert)
		if b, ok := c.get(1, 1); !ok || b != BiomePlains {
			t.Errorf("original entry lost after collision: got %v, ok=%v", b, ok)
		}
		if b, ok := c.get(x2, z2); !ok || b != BiomeDesert {
			t.Errorf("colliding entry not retrievable: got %v, ok=%v", b, ok)
		}
	}
}

func TestBiomeStringNeverEmpty(t *testing.T) {
	for _, b := range []Biome{BiomePlains, BiomeSnowyPlains, BiomeDesert, BiomeMangroveSwamp, BiomeBeach} {
		if b.String() == "" {
			t.Errorf("Biome(%d).String() is empty", b)
		}
	}
}

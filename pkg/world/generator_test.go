package world

import "testing"

func TestGeneratorDeterminism(t *testing.T) {
	g1 := NewGenerator(12345)
	g2 := NewGenerator(12345)

	for x := int32(-100); x < 100; x += 13 {
		for z := int32(-100); z < 100; z += 13 {
			for _, y := range []int32{-1, 0, 40, 64, 90, 150} {
				if a, b := g1.BlockAt(x, y, z), g2.BlockAt(x, y, z); a != b {
					t.Fatalf("BlockAt(%d,%d,%d) differs across identically-seeded generators: %v vs %v", x, y, z, a, b)
				}
			}
		}
	}
}

func TestBedrockBelowWorld(t *testing.T) {
	g := NewGenerator(999)
	for x := int32(-100); x < 100; x += 17 {
		for z := int32(-100); z < 100; z += 17 {
			if b := g.BlockAt(x, -1, z); b != BlockBedrock {
				t.Errorf("BlockAt(%d,-1,%d) = %v, want bedrock", x, z, b)
			}
		}
	}
}

func TestAirAboveHeightCap(t *testing.T) {
	g := NewGenerator(42)
	if b := g.BlockAt(0, WorldgenHeightCap+5, 0); b != BlockAir {
		t.Errorf("BlockAt above height cap = %v, want air", b)
	}
}

func TestHeightAtRange(t *testing.T) {
	g := NewGenerator(555)
	for x := int32(-400); x < 400; x += 19 {
		for z := int32(-400); z < 400; z += 19 {
			h := g.HeightAt(x, z)
			if h < 1 || h >= WorldgenHeightCap {
				t.Errorf("HeightAt(%d,%d) = %d, out of expected [1, %d)", x, z, h, WorldgenHeightCap)
			}
		}
	}
}

func TestHeightAtContinuousAcrossAnchors(t *testing.T) {
	g := NewGenerator(314)
	var prev int
	for x := int32(0); x < ChunkSize*6; x++ {
		h := g.HeightAt(x, 0)
		if x > 0 {
			diff := h - prev
			if diff < 0 {
				diff = -diff
			}
			if diff > 20 {
				t.Errorf("HeightAt jumps %d blocks between x=%d and x=%d", diff, x-1, x)
			}
		}
		prev = h
	}
}

func TestDifferentChunksVary(t *testing.T) {
	g := NewGenerator(42)
	store := NewStore()

	data1 := EncodeChunkColumn(g, store, 0, 0)
	data2 := EncodeChunkColumn(g, store, 40, 40)

	same := len(data1) == len(data2)
	if same {
		for i := range data1 {
			if data1[i] != data2[i] {
				same = false
				break
			}
		}
	}
	if same {
		t.Error("distant chunks produced identical encoded data — terrain not varying")
	}
}

func TestFeatureAtEdgesSkip(t *testing.T) {
	g := NewGenerator(7)
	for anchorX := int32(-50); anchorX < 50; anchorX++ {
		for anchorZ := int32(-50); anchorZ < 50; anchorZ++ {
			f := g.FeatureAt(anchorX, anchorZ)
			if f.Y == noFeature {
				continue
			}
			localX := modAbs(int(f.X), ChunkSize)
			localZ := modAbs(int(f.Z), ChunkSize)
			if localX < treeEdgeMargin || localX > ChunkSize-1-treeEdgeMargin {
				t.Errorf("feature at anchor (%d,%d) landed on edge column x=%d", anchorX, anchorZ, localX)
			}
			if localZ < treeEdgeMargin || localZ > ChunkSize-1-treeEdgeMargin {
				t.Errorf("feature at anchor (%d,%d) landed on edge column z=%d", anchorX, anchorZ, localZ)
			}
		}
	}
}

func TestNetherZoneBoundedByBedrockCeiling(t *testing.T) {
	g := NewGenerator(8675309)
	if b := g.BlockAt(0, 0, NetherZoneOffset+5); b != BlockBedrock {
		t.Errorf("nether zone y=0 = %v, want bedrock", b)
	}
	if b := g.BlockAt(0, 127, NetherZoneOffset+5); b != BlockBedrock {
		t.Errorf("nether zone y=127 = %v, want bedrock", b)
	}
}

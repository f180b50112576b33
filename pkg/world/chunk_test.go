package world

import "testing"

func TestEncodeChunkColumnDeterministic(t *testing.T) {
	g := NewGenerator(55)
	s1 := NewStore()
	s2 := NewStore()

	data1 := EncodeChunkColumn(g, s1, 3, -2)
	data2 := EncodeChunkColumn(g, s2, 3, -2)

	if len(data1) != len(data2) {
		t.Fatalf("length mismatch: %d vs %d", len(data1), len(data2))
	}
	for i := range data1 {
		if data1[i] != data2[i] {
			t.Fatalf("encoded column differs at byte %d", i)
		}
	}
}

func TestEncodeChunkColumnNotEmpty(t *testing.T) {
	g := NewGenerator(7)
	store := NewStore()
	data := EncodeChunkColumn(g, store, 0, 0)
	if len(data) == 0 {
		t.Fatal("encoded chunk column is empty")
	}
}

func TestBuildSectionBodyAppliesOverride(t *testing.T) {
	g := NewGenerator(21)
	store := NewStore()

	const chunkX, chunkZ = int32(1), int32(1)
	x, z := int16(chunkX*16), int16(chunkZ*16)

	base := g.BlockAt(int32(x), 5, int32(z))
	if !store.Set(x, 5, z, byte(BlockStone), byte(base), isChestBlock) {
		t.Fatal("Set failed to record override")
	}

	// Each 8-block x run is stored reversed, so local x=0 sits at offset 7.
	body, _ := g.buildSectionBody(store, chunkX, chunkZ, 0)
	if body[5*256+7] != BlockStone {
		t.Errorf("buildSectionBody did not apply override at local (0,5,0): got %v", body[0])
	}
}

func TestBuildSectionBodySkipsTorchAndChestOverrides(t *testing.T) {
	g := NewGenerator(22)
	store := NewStore()

	const chunkX, chunkZ = int32(2), int32(-3)
	x, z := int16(chunkX*16), int16(chunkZ*16)

	base := g.BlockAt(int32(x), 10, int32(z))
	if !store.Set(x, 10, z, byte(BlockTorch), byte(base), isChestBlock) {
		t.Fatal("Set failed to record torch override")
	}

	body, _ := g.buildSectionBody(store, chunkX, chunkZ, 0)
	if body[10*256+7] == BlockTorch {
		t.Error("buildSectionBody must not bake a torch override into the section body")
	}
}

func TestDeferredOverridesReturnsTorchAndChest(t *testing.T) {
	g := NewGenerator(23)
	store := NewStore()

	const chunkX, chunkZ = int32(5), int32(5)
	x1, z1 := int16(chunkX*16+1), int16(chunkZ*16+1)
	x2, z2 := int16(chunkX*16+2), int16(chunkZ*16+2)

	base1 := g.BlockAt(int32(x1), 20, int32(z1))
	base2 := g.BlockAt(int32(x2), 20, int32(z2))

	if !store.Set(x1, 20, z1, byte(BlockTorch), byte(base1), isChestBlock) {
		t.Fatal("torch Set failed")
	}
	if !store.Set(x2, 20, z2, byte(BlockChest), byte(base2), isChestBlock) {
		t.Fatal("chest Set failed")
	}

	deferred := DeferredOverrides(store, chunkX, chunkZ)
	if len(deferred) != 2 {
		t.Fatalf("expected 2 deferred overrides, got %d", len(deferred))
	}
	for _, d := range deferred {
		if d.Block != byte(BlockTorch) && d.Block != byte(BlockChest) {
			t.Errorf("unexpected deferred block %v", d.Block)
		}
	}
}

func TestDeferredOverridesIgnoresOtherChunks(t *testing.T) {
	g := NewGenerator(24)
	store := NewStore()

	x, z := int16(16), int16(16)
	base := g.BlockAt(int32(x), 30, int32(z))
	store.Set(x, 30, z, byte(BlockTorch), byte(base), isChestBlock)

	deferred := DeferredOverrides(store, 9, 9)
	if len(deferred) != 0 {
		t.Errorf("expected no deferred overrides for unrelated chunk, got %d", len(deferred))
	}
}

func TestEncodeBlockUpdateRoundTripsBlockID(t *testing.T) {
	data := EncodeBlockUpdate(10, 64, -5, BlockStone)
	if len(data) == 0 {
		t.Fatal("EncodeBlockUpdate returned empty payload")
	}
	if got := data[len(data)-1]; got != byte(networkBlockID(BlockStone)) {
		t.Errorf("EncodeBlockUpdate block id byte = %d, want %d", got, networkBlockID(BlockStone))
	}
}

func TestNetworkBlockIDIsStableIdentity(t *testing.T) {
	for _, b := range []Block{BlockAir, BlockStone, BlockBedrock, BlockTorch, BlockChest} {
		if networkBlockID(b) != int32(b) {
			t.Errorf("networkBlockID(%v) = %d, want identity %d", b, networkBlockID(b), int32(b))
		}
	}
}

package world

import "testing"

func TestWorldBlockAtFallsThroughToGenerator(t *testing.T) {
	w := NewWorld(1, 1)
	for _, y := range []int32{-1, 30, 200} {
		if got, want := w.BlockAt(5, y, 5), w.Gen.BlockAt(5, y, 5); got != want {
			t.Errorf("BlockAt(5,%d,5) = %v, want generator base %v", y, got, want)
		}
	}
}

func TestWorldSetBlockOverridesBlockAt(t *testing.T) {
	w := NewWorld(2, 2)
	base := w.BlockAt(10, 40, 10)
	want := BlockStone
	if base == want {
		want = BlockAir
	}
	if !w.SetBlock(10, 40, 10, want) {
		t.Fatal("SetBlock returned false")
	}
	if got := w.BlockAt(10, 40, 10); got != want {
		t.Errorf("BlockAt after SetBlock = %v, want %v", got, want)
	}
}

func TestWorldSetBlockRejectsOutOfByteRangeY(t *testing.T) {
	w := NewWorld(3, 3)
	if w.SetBlock(0, -1, 0, BlockStone) {
		t.Error("SetBlock at y=-1 should fail (outside byte-addressable store range)")
	}
	if w.SetBlock(0, 256, 0, BlockStone) {
		t.Error("SetBlock at y=256 should fail (outside byte-addressable store range)")
	}
}

func TestWorldSetBlockBackToBaseClearsOverride(t *testing.T) {
	w := NewWorld(4, 4)
	base := w.BlockAt(1, 50, 1)
	other := BlockStone
	if base == other {
		other = BlockAir
	}
	if !w.SetBlock(1, 50, 1, other) {
		t.Fatal("SetBlock to override failed")
	}
	if !w.SetBlock(1, 50, 1, base) {
		t.Fatal("SetBlock back to base failed")
	}
	if got := w.BlockAt(1, 50, 1); got != base {
		t.Errorf("BlockAt after reverting to base = %v, want %v", got, base)
	}
}

func TestWorldChunkColumnMatchesEncodeChunkColumn(t *testing.T) {
	w := NewWorld(9, 9)
	got := w.ChunkColumn(0, 0)
	want := EncodeChunkColumn(w.Gen, w.Store, 0, 0)
	if len(got) != len(want) {
		t.Fatalf("length mismatch: %d vs %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("byte mismatch at %d", i)
		}
	}
}

func TestWorldDeferredOverridesTracksTorch(t *testing.T) {
	w := NewWorld(5, 5)
	base := w.BlockAt(3, 20, 3)
	w.SetBlock(3, 20, 3, BlockTorch)
	_ = base
	deferred := w.DeferredOverrides(0, 0)
	found := false
	for _, d := range deferred {
		if int32(d.X) == 3 && int32(d.Z) == 3 && Block(d.Block) == BlockTorch {
			found = true
		}
	}
	if !found {
		t.Error("expected torch override to show up in DeferredOverrides")
	}
}

func TestWorldSpawnUnsetUntilEnsureSpawn(t *testing.T) {
	w := NewWorld(6, 6)
	if _, ok := w.Spawn(); ok {
		t.Error("Spawn() should report unset before EnsureSpawn is called")
	}
	p := w.EnsureSpawn()
	got, ok := w.Spawn()
	if !ok {
		t.Fatal("Spawn() should report set after EnsureSpawn")
	}
	if got != p {
		t.Errorf("Spawn() = %+v, want %+v", got, p)
	}
}

func TestWorldEnsureSpawnIsStableOncePlayable(t *testing.T) {
	w := NewWorld(777, 777)
	first := w.EnsureSpawn()
	second := w.EnsureSpawn()
	if first != second {
		t.Errorf("EnsureSpawn picked a new point on a second call: %+v vs %+v", first, second)
	}
}

func TestWorldEnsureSpawnProducesSafeColumn(t *testing.T) {
	w := NewWorld(321, 321)
	p := w.EnsureSpawn()
	if !w.isSpawnColumnSafe(int32(p.X), int32(p.Y), int32(p.Z)) {
		t.Errorf("EnsureSpawn produced an unsafe column: %+v", p)
	}
}

func TestWorldRestoreSpawnLocksWithoutSearch(t *testing.T) {
	w := NewWorld(8, 8)
	p := SpawnPoint{X: 12, Y: 70, Z: -4}
	w.RestoreSpawn(p)
	got, ok := w.Spawn()
	if !ok || got != p {
		t.Errorf("RestoreSpawn did not stick: got %+v, ok=%v", got, ok)
	}
}

func TestIsInstantBreakCoversDecorations(t *testing.T) {
	for _, b := range []Block{
		BlockShortGrass, BlockFern, BlockPoppy, BlockDandelion, BlockDeadBush,
		BlockLilyPad, BlockMossCarpet, BlockTorch, BlockSnow,
		BlockBrownMushroom, BlockRedMushroom,
	} {
		if !IsInstantBreak(b) {
			t.Errorf("IsInstantBreak(%v) = false, want true", b)
		}
	}
	if IsInstantBreak(BlockStone) {
		t.Error("IsInstantBreak(stone) = true, want false")
	}
}

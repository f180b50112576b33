package persist

import (
	"path/filepath"
	"testing"

	"github.com/nethr-io/nethr/pkg/sim"
	"github.com/nethr-io/nethr/pkg/world"
)

func TestOpenCreatesZeroFilledFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.bin")
	bf, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer bf.Close()

	players, err := bf.LoadPlayers()
	if err != nil {
		t.Fatalf("LoadPlayers on fresh file: %v", err)
	}
	for i, p := range players {
		if p.Occupied {
			t.Errorf("slot %d should be unoccupied on a fresh file", i)
		}
	}
}

func TestWritePlayersRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.bin")
	bf, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer bf.Close()

	var players [MaxPlayers]PlayerData
	players[0] = PlayerData{
		Identity:   [16]byte{1, 2, 3},
		Name:       "Steve",
		Occupied:   true,
		X:          100,
		Y:          70,
		Z:          -200,
		Yaw:        90,
		Pitch:      -10,
		GroundedY:  70,
		Health:     20,
		Hunger:     18,
		Saturation: 2500,
		Flags:      FlagSprinting | FlagClientLoading,
	}
	players[0].Inventory.Slots[sim.HotbarStart] = world.ItemStack{ItemID: 5, Count: 32}

	if err := bf.WritePlayers(players); err != nil {
		t.Fatalf("WritePlayers: %v", err)
	}

	got, err := bf.LoadPlayers()
	if err != nil {
		t.Fatalf("LoadPlayers: %v", err)
	}
	if got[0].Name != "Steve" || !got[0].Occupied || got[0].X != 100 || got[0].Z != -200 {
		t.Errorf("player 0 round trip mismatch: %+v", got[0])
	}
	if got[0].Flags != (FlagSprinting | FlagClientLoading) {
		t.Errorf("flags round trip mismatch: got %b", got[0].Flags)
	}
	if got[1].Occupied {
		t.Error("slot 1 should remain unoccupied")
	}
}

func TestBlockChangeRecordRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.bin")
	bf, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer bf.Close()

	c := world.Change{X: 10, Z: -20, Y: 64, Block: 3}
	if err := bf.WriteBlockChangeRecord(0, c); err != nil {
		t.Fatalf("WriteBlockChangeRecord: %v", err)
	}

	store := world.NewStore()
	if err := bf.LoadBlockChanges(store); err != nil {
		t.Fatalf("LoadBlockChanges: %v", err)
	}
	got, ok := store.Get(10, 64, -20)
	if !ok || got != 3 {
		t.Errorf("Get(10,64,-20) = %d,%v want 3,true", got, ok)
	}
}

func isChestBlock(b byte) bool { return world.Block(b).IsChest() }

func TestChestInventoryRoundTripsThroughWriteAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.bin")
	bf, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer bf.Close()

	store := world.NewStore()
	if ok := store.Set(10, 70, 10, byte(world.BlockChest), byte(world.BlockDirt), isChestBlock); !ok {
		t.Fatal("Set chest placement failed")
	}
	inv := store.ChestAt(10, 70, 10)
	if inv == nil {
		t.Fatal("ChestAt returned nil right after placement")
	}
	inv.Slots[0] = world.ItemStack{ItemID: 42, Count: 5}
	inv.Slots[26] = world.ItemStack{ItemID: 7, Count: 1}

	if err := bf.WriteBlockChangeRange(store, store.HighWater()); err != nil {
		t.Fatalf("WriteBlockChangeRange: %v", err)
	}

	reloaded := world.NewStore()
	if err := bf.LoadBlockChanges(reloaded); err != nil {
		t.Fatalf("LoadBlockChanges: %v", err)
	}

	got := reloaded.ChestAt(10, 70, 10)
	if got == nil {
		t.Fatal("ChestAt returned nil after reload — chest did not survive persistence")
	}
	if got.Slots[0] != (world.ItemStack{ItemID: 42, Count: 5}) {
		t.Errorf("slot 0 = %+v, want {42 5}", got.Slots[0])
	}
	if got.Slots[26] != (world.ItemStack{ItemID: 7, Count: 1}) {
		t.Errorf("slot 26 = %+v, want {7 1}", got.Slots[26])
	}
	if got.Slots[1] != (world.ItemStack{}) {
		t.Errorf("untouched slot 1 = %+v, want zero value", got.Slots[1])
	}
}

func TestChestTrailingRecordsDoNotLeakIntoFindGap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.bin")
	bf, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer bf.Close()

	store := world.NewStore()
	store.Set(10, 70, 10, byte(world.BlockChest), byte(world.BlockDirt), isChestBlock)
	if err := bf.WriteBlockChangeRange(store, store.HighWater()); err != nil {
		t.Fatalf("WriteBlockChangeRange: %v", err)
	}

	reloaded := world.NewStore()
	if err := bf.LoadBlockChanges(reloaded); err != nil {
		t.Fatalf("LoadBlockChanges: %v", err)
	}
	if reloaded.Count() != 1 {
		t.Errorf("reloaded store should report exactly 1 live record (the chest head), got %d", reloaded.Count())
	}
	if !reloaded.Set(11, 70, 10, byte(world.BlockStone), byte(world.BlockDirt), isChestBlock) {
		t.Fatal("placing an unrelated block after reload should still succeed")
	}
	if got, ok := reloaded.Get(10, 70, 10); !ok || got != byte(world.BlockChest) {
		t.Errorf("chest head after reload = %d,%v want BlockChest,true", got, ok)
	}
}

func TestLoadBlockChangesSkipsSentinelRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.bin")
	bf, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer bf.Close()

	store := world.NewStore()
	if err := bf.LoadBlockChanges(store); err != nil {
		t.Fatalf("LoadBlockChanges: %v", err)
	}
	if store.Count() != 0 {
		t.Errorf("fresh file should decode to zero live records, got %d", store.Count())
	}
}

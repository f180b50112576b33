package sim

import (
	"testing"

	"github.com/nethr-io/nethr/pkg/rng"
	"github.com/nethr-io/nethr/pkg/world"
)

func TestCanMineToolGating(t *testing.T) {
	if CanMine(world.BlockGoldOre, ToolPickaxeWood) {
		t.Error("wooden pickaxe should not mine gold ore")
	}
	if !CanMine(world.BlockGoldOre, ToolPickaxeIron) {
		t.Error("iron pickaxe should mine gold ore")
	}
	if !CanMine(world.BlockStone, ToolPickaxeWood) {
		t.Error("wooden pickaxe should mine stone")
	}
}

func TestMineDropKnownBlocks(t *testing.T) {
	g := rng.NewGameplay(1, 2)
	if id, ok := MineDrop(world.BlockStone, ToolPickaxeWood, g); !ok || id != uint16(world.BlockCobblestone) {
		t.Errorf("MineDrop(stone) = %d,%v want cobblestone,true", id, ok)
	}
}

func TestMineDropLeavesIsProbabilistic(t *testing.T) {
	g := rng.NewGameplay(7, 8)
	drops := 0
	for i := 0; i < 10000; i++ {
		if _, ok := MineDrop(world.BlockOakLeaves, ToolNone, g); ok {
			drops++
		}
	}
	if drops == 0 || drops == 10000 {
		t.Errorf("expected a mix of drops/no-drops over 10000 leaf breaks, got %d drops", drops)
	}
}

func TestMineDropLeavesWithShearsAlwaysDrops(t *testing.T) {
	g := rng.NewGameplay(9, 9)
	for i := 0; i < 100; i++ {
		if _, ok := MineDrop(world.BlockOakLeaves, ToolShears, g); !ok {
			t.Fatal("shears should always drop leaves")
		}
	}
}

func TestToolDurabilityBreaksIsDeterministic(t *testing.T) {
	g1 := rng.NewGameplay(42, 42)
	g2 := rng.NewGameplay(42, 42)
	for i := 0; i < 100; i++ {
		if ToolDurabilityBreaks(g1, WoodToolBreakChance) != ToolDurabilityBreaks(g2, WoodToolBreakChance) {
			t.Fatal("identically-seeded gameplay RNGs diverged")
		}
	}
}

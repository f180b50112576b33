package sim

import (
	"testing"

	"github.com/nethr-io/nethr/pkg/world"
)

func TestVillagerLevelThresholds(t *testing.T) {
	if VillagerLevel(0) != 0 {
		t.Error("0 xp should be level 0")
	}
	if VillagerLevel(PromoteToLevel1XP) != 1 {
		t.Error("4 xp should promote to level 1")
	}
	if VillagerLevel(PromoteToLevel2XP) != 2 {
		t.Error("10 xp should promote to level 2")
	}
}

func TestExecuteTradeRequiresLevelForAdvanced(t *testing.T) {
	held := world.ItemStack{ItemID: uint16(world.BlockIronOre), Count: 8}
	if _, _, ok := ExecuteTrade(JobToolsmith, 0, held); ok {
		t.Error("advanced trade should not be available at level 0")
	}
	out, xp, ok := ExecuteTrade(JobToolsmith, 1, held)
	if !ok {
		t.Fatal("advanced trade should be available at level 1")
	}
	if xp != 1 {
		t.Errorf("ExecuteTrade xp gain = %d, want 1", xp)
	}
	if out.ItemID != uint16(world.BlockDiamondOre) {
		t.Errorf("trade output = %v, want diamond ore", out)
	}
}

func TestExecuteTradeRejectsInsufficientCount(t *testing.T) {
	held := world.ItemStack{ItemID: uint16(world.BlockCoalOre), Count: 1}
	if _, _, ok := ExecuteTrade(JobToolsmith, 0, held); ok {
		t.Error("trade should require the full input count")
	}
}

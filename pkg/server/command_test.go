package server

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/nethr-io/nethr/pkg/sim"
	"github.com/nethr-io/nethr/pkg/world"
)

func TestCmdTradeExecutesAvailableTrade(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(1)
	p.X, p.Y, p.Z = 10, 64, 10

	s.mobs.spawnVillager(mgl64.Vec3{10, 64, 10}, s.nextEntityID(), sim.JobToolsmith)
	s.mobs.slots[0].VillagerXP = sim.PromoteToLevel1XP
	s.mobs.slots[0].VillagerLevel = sim.VillagerLevel(sim.PromoteToLevel1XP)

	p.Inventory.Slots[sim.HotbarStart] = world.ItemStack{ItemID: uint16(world.BlockIronOre), Count: 8}

	s.cmdTrade(p)

	require.Equal(t, world.ItemStack{}, p.Inventory.Slots[sim.HotbarStart])
	require.True(t, s.mobs.slots[0].VillagerXP > sim.PromoteToLevel1XP)

	found := false
	for i := sim.MainStart; i <= sim.MainEnd; i++ {
		if p.Inventory.Slots[i].ItemID == uint16(world.BlockDiamondOre) {
			found = true
		}
	}
	require.True(t, found, "expected a diamond ore to land in the main inventory after trading")
}

func TestCmdTradeWithNoNearbyVillagerWarns(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(1)
	p.X, p.Y, p.Z = 0, 64, 0

	require.NotPanics(t, func() { s.cmdTrade(p) })
}

func TestCmdTradeWithWrongHeldItemIsNoOp(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(1)
	p.X, p.Y, p.Z = 10, 64, 10

	s.mobs.spawnVillager(mgl64.Vec3{10, 64, 10}, s.nextEntityID(), sim.JobToolsmith)
	p.Inventory.Slots[sim.HotbarStart] = world.ItemStack{ItemID: uint16(world.BlockDirt), Count: 1}

	s.cmdTrade(p)

	require.Equal(t, uint16(world.BlockDirt), p.Inventory.Slots[sim.HotbarStart].ItemID)
}

package server

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"

	"github.com/nethr-io/nethr/pkg/sim"
)

func TestSpawnVillagerAllocatesSlot(t *testing.T) {
	mobs := NewMobTable()
	ok := mobs.spawnVillager(mgl64.Vec3{1, 64, 1}, 7, sim.JobFarmer)

	require.True(t, ok)
	require.Equal(t, 1, mobs.count())
	require.Equal(t, sim.MobKindVillager, mobs.slots[0].Kind)
	require.Equal(t, sim.JobFarmer, mobs.slots[0].VillagerJob)
	require.Equal(t, 0, mobs.slots[0].VillagerLevel)
	require.Equal(t, 0, mobs.slots[0].VillagerXP)
}

func TestSpawnVillagerFailsWhenTableFull(t *testing.T) {
	mobs := NewMobTable()
	for i := 0; i < MaxMobs; i++ {
		require.True(t, mobs.spawn(sim.MobKindPassive, mgl64.Vec3{}, int32(i)))
	}
	require.False(t, mobs.spawnVillager(mgl64.Vec3{}, 999, sim.JobFarmer))
}

func TestNearestVillagerFindsClosestWithinRange(t *testing.T) {
	mobs := NewMobTable()
	mobs.spawnVillager(mgl64.Vec3{0, 64, 0}, 1, sim.JobFarmer)
	mobs.spawnVillager(mgl64.Vec3{2, 64, 0}, 2, sim.JobLibrarian)

	idx := mobs.nearestVillager(mgl64.Vec3{0, 64, 0}, 4.0)
	require.Equal(t, 0, idx)
}

func TestNearestVillagerReturnsMinusOneOutOfRange(t *testing.T) {
	mobs := NewMobTable()
	mobs.spawnVillager(mgl64.Vec3{100, 64, 100}, 1, sim.JobFarmer)

	require.Equal(t, -1, mobs.nearestVillager(mgl64.Vec3{0, 64, 0}, 4.0))
}

func TestNearestVillagerIgnoresNonVillagerMobs(t *testing.T) {
	mobs := NewMobTable()
	mobs.spawn(sim.MobKindPassive, mgl64.Vec3{0, 64, 0}, 1)

	require.Equal(t, -1, mobs.nearestVillager(mgl64.Vec3{0, 64, 0}, 4.0))
}

func TestStepMobTreatsVillagerAsPassive(t *testing.T) {
	s := newTestServer(t)
	m := &mobSlot{Mob: sim.Mob{Kind: sim.MobKindVillager, Pos: mgl64.Vec3{5, 64, 5}, Health: 10}}

	require.NotPanics(t, func() { s.stepMob(m, nil) })
	require.Equal(t, sim.MobKindVillager, m.Kind)
}

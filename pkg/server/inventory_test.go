package server

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nethr-io/nethr/pkg/protocol"
	"github.com/nethr-io/nethr/pkg/rng"
	"github.com/nethr-io/nethr/pkg/sim"
	"github.com/nethr-io/nethr/pkg/world"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return &Server{
		world:       world.NewWorld(1, 1),
		players:     make(map[int32]*Player),
		mobs:        NewMobTable(),
		gameplayRNG: rng.NewGameplay(1, 1),
	}
}

func newTestPlayer(eid int32) *Player {
	conn := &Connection{send: protocol.NewSendBuffer(protocol.DefaultSendBufferSize, func([]byte) error { return nil })}
	p := newPlayer(eid, [16]byte{}, "tester", conn)
	return p
}

func useItemOnPayload(x, y, z, face int32) []byte {
	w := protocol.NewWriter()
	w.VarInt(0) // hand
	w.Position(x, y, z)
	w.VarInt(face)
	w.Float32(0.5) // cursor x
	w.Float32(0.5) // cursor y
	w.Float32(0.5) // cursor z
	w.Bool(false)  // inside block
	w.VarInt(0)    // sequence
	return w.Bytes()
}

func TestHandleUseItemOnPlacesBlockAgainstTopFace(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(1)
	p.Inventory.Slots[sim.HotbarStart] = world.ItemStack{ItemID: uint16(world.BlockStone), Count: 2}

	r := protocol.NewReader(useItemOnPayload(0, 60, 0, 1)) // face 1 = up
	ok := s.handleUseItemOn(p, r)

	require.True(t, ok)
	require.Equal(t, world.BlockStone, s.world.BlockAt(0, 61, 0))
	require.EqualValues(t, 1, p.Inventory.Slots[sim.HotbarStart].Count)
}

func TestHandleUseItemOnConsumesWholeStackAtCountOne(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(1)
	p.Inventory.Slots[sim.HotbarStart] = world.ItemStack{ItemID: uint16(world.BlockStone), Count: 1}

	r := protocol.NewReader(useItemOnPayload(0, 60, 0, 1))
	require.True(t, s.handleUseItemOn(p, r))

	require.Equal(t, world.ItemStack{}, p.Inventory.Slots[sim.HotbarStart])
}

func TestHandleUseItemOnIgnoresEmptyHand(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(1)

	r := protocol.NewReader(useItemOnPayload(0, 60, 0, 1))
	require.True(t, s.handleUseItemOn(p, r))
	require.Equal(t, world.BlockAir, s.world.BlockAt(0, 61, 0))
}

func TestHandleUseItemOnIgnoresNonPlaceableHeldItem(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(1)
	p.Inventory.Slots[sim.HotbarStart] = world.ItemStack{ItemID: itemWoodPickaxe, Count: 1}

	r := protocol.NewReader(useItemOnPayload(0, 60, 0, 1))
	require.True(t, s.handleUseItemOn(p, r))
	require.Equal(t, world.BlockAir, s.world.BlockAt(0, 61, 0))
	require.EqualValues(t, 1, p.Inventory.Slots[sim.HotbarStart].Count)
}

func TestHandleUseItemOnRefusesNonPassableTarget(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(1)
	s.world.SetBlock(0, 61, 0, world.BlockStone)
	p.Inventory.Slots[sim.HotbarStart] = world.ItemStack{ItemID: uint16(world.BlockDirt), Count: 1}

	r := protocol.NewReader(useItemOnPayload(0, 60, 0, 1))
	require.True(t, s.handleUseItemOn(p, r))

	require.Equal(t, world.BlockStone, s.world.BlockAt(0, 61, 0))
	require.EqualValues(t, 1, p.Inventory.Slots[sim.HotbarStart].Count)
}

func TestHandlePlayerDiggingPropagatesFluidWhenEnabled(t *testing.T) {
	s := newTestServer(t)
	s.cfg.FluidFlowEnabled = true
	p := newTestPlayer(1)
	p.GameMode = GameModeCreative

	s.world.SetBlock(0, 60, 0, world.BlockDirt)
	s.world.SetBlock(-1, 60, 0, world.BlockWater)

	r := protocol.NewReader(diggingPayload(0, 0, 60, 0))
	require.True(t, s.handlePlayerDigging(p, r))

	level, isWater, ok := s.world.BlockAt(0, 60, 0).FluidLevel()
	require.True(t, ok)
	require.True(t, isWater)
	require.Equal(t, 7, level)
}

func diggingPayload(status, x, y, z int32) []byte {
	w := protocol.NewWriter()
	w.VarInt(status)
	w.Position(x, y, z)
	w.VarInt(1) // face
	w.VarInt(0) // sequence
	return w.Bytes()
}

func TestFailBlockChangeWarnsAndRevertsBroadcast(t *testing.T) {
	s := newTestServer(t)
	p := newTestPlayer(1)

	require.NotPanics(t, func() {
		s.failBlockChange(p, 0, 61, 0, world.BlockAir)
	})
}

package server

import (
	"time"

	"github.com/nethr-io/nethr/pkg/sim"
	"github.com/nethr-io/nethr/pkg/world"
)

// Player is one connected player's in-memory state — spec §3's "player
// record," minus the on-disk packing persist.PlayerData owns. It is
// touched only by the tick-loop goroutine, so (unlike the teacher's
// Player) it carries no mutex.
type Player struct {
	EntityID int32
	Identity [16]byte
	Name     string
	conn     *Connection

	GameMode byte
	X, Y, Z  float64
	Yaw      float32
	Pitch    float32
	OnGround bool
	Sneaking bool
	Sprinting bool

	Health, Hunger uint8
	Saturation     uint16
	GroundedY      float64

	Inventory     sim.Inventory
	HotbarIndex   int
	OpenWindow    sim.Window
	OpenChestAt   ChunkBlockPos
	HasWindowOpen bool
	Cursor        world.ItemStack

	Eating sim.EatingState

	loadedChunks map[chunkPos]bool
	lastChunkX   int32
	lastChunkZ   int32

	lastKeepAliveSent time.Time
	lastKeepAliveID   int64

	// slotIndex is this player's persist.PlayerData array index (spec §3:
	// "created on first login by 16-byte identity match or a scan for an
	// all-zero slot, retained across disconnects").
	slotIndex        int
	hasSavedPosition bool

	// visitedRing is the most-recently-loaded-chunk history persisted
	// alongside the player record (persist.PlayerData.VisitedChunks).
	visitedRing [8]chunkPos
	visitedNext int

	attackCooldown  int8
	movementOnCooldown bool
}

// recordVisitedChunk pushes pos onto the player's visited-chunk ring,
// overwriting the oldest entry once full.
func (p *Player) recordVisitedChunk(pos chunkPos) {
	p.visitedRing[p.visitedNext%len(p.visitedRing)] = pos
	p.visitedNext++
}

// ChunkBlockPos identifies a world-space block, used to name the chest a
// player currently has open.
type ChunkBlockPos struct {
	X, Y, Z int32
}

type chunkPos struct{ X, Z int32 }

func newPlayer(eid int32, identity [16]byte, name string, conn *Connection) *Player {
	p := &Player{
		EntityID:     eid,
		Identity:     identity,
		Name:         name,
		conn:         conn,
		GameMode:     GameModeSurvival,
		Health:       20,
		Hunger:       20,
		loadedChunks: make(map[chunkPos]bool),
	}
	return p
}

// HeldItem returns the item in the player's currently selected hotbar slot.
func (p *Player) HeldItem() world.ItemStack {
	return p.Inventory.HeldItem(p.HotbarIndex)
}

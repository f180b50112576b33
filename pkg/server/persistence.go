package server

import (
	"log"

	"golang.org/x/exp/maps"

	"github.com/nethr-io/nethr/pkg/persist"
)

// attachSlot finds the player-data slot for identity, matching spec §3:
// "created on first login by 16-byte identity match or a scan for an
// all-zero slot, retained across disconnects." Returns (-1, zero, false)
// if every slot is occupied by a different identity.
func (s *Server) attachSlot(identity [16]byte) (int, persist.PlayerData, bool) {
	for i, rec := range s.slots {
		if rec.Occupied && rec.Identity == identity {
			return i, rec, true
		}
	}
	for i, rec := range s.slots {
		if !rec.Occupied {
			return i, persist.PlayerData{}, false
		}
	}
	return -1, persist.PlayerData{}, false
}

// restoreFromSlot copies a persisted record's state into a freshly-created
// player, used on a returning identity's login.
func restoreFromSlot(p *Player, rec persist.PlayerData) {
	p.X, p.Y, p.Z = float64(rec.X), float64(rec.Y), float64(rec.Z)
	p.Yaw, p.Pitch = float32(rec.Yaw), float32(rec.Pitch)
	p.GroundedY = float64(rec.GroundedY)
	p.Health, p.Hunger = rec.Health, rec.Hunger
	p.Saturation = rec.Saturation
	p.HotbarIndex = int(rec.HotbarIndex)
	p.Inventory = rec.Inventory
}

// snapshotPlayer captures a live player's state into its on-disk record
// shape, ready for persist.File.WritePlayers.
func snapshotPlayer(p *Player) persist.PlayerData {
	rec := persist.PlayerData{
		Identity:    p.Identity,
		Name:        p.Name,
		Occupied:    true,
		X:           int16(p.X),
		Y:           uint8(p.Y),
		Z:           int16(p.Z),
		Yaw:         int8(p.Yaw),
		Pitch:       int8(p.Pitch),
		GroundedY:   int32(p.GroundedY),
		Health:      p.Health,
		Hunger:      p.Hunger,
		Saturation:  p.Saturation,
		HotbarIndex: uint8(p.HotbarIndex),
		Inventory:   p.Inventory,
	}
	for i, cp := range p.visitedRing {
		rec.VisitedChunks[i] = persist.ChunkRef{X: cp.X, Z: cp.Z}
	}
	return rec
}

// removePlayer drops a disconnected player from the live table and writes
// its final state into the slot array immediately, so a crash before the
// next disk-sync tick doesn't lose it.
func (s *Server) removePlayer(p *Player) {
	delete(s.players, p.EntityID)
	if p.slotIndex >= 0 && p.slotIndex < len(s.slots) {
		s.slots[p.slotIndex] = snapshotPlayer(p)
	}
	log.Printf("[play] %s disconnected", p.Name)
}

// syncPersistence writes every online player's current state to its slot,
// rewrites the whole player-data region, persists block changes in a
// batch if DISK_SYNC_BLOCKS_ON_INTERVAL is selected, and rewrites
// world.meta — spec §4.F's disk-sync cadence.
func (s *Server) syncPersistence() {
	for _, p := range maps.Values(s.players) {
		if p.slotIndex >= 0 && p.slotIndex < len(s.slots) {
			s.slots[p.slotIndex] = snapshotPlayer(p)
		}
	}
	if err := s.bin.WritePlayers(s.slots); err != nil {
		log.Printf("[persist] write players: %v", err)
	}
	if s.cfg.SyncBlocksOnTick {
		if err := s.bin.WriteBlockChangeRange(s.world.Store, s.world.Store.HighWater()); err != nil {
			log.Printf("[persist] write block-change range: %v", err)
		}
	}
	if spawn, ok := s.world.Spawn(); ok {
		meta := persist.WorldMeta{
			WorldSeedRaw: s.cfg.WorldSeedRaw,
			RNGSeedRaw:   s.cfg.RNGSeedRaw,
			SpawnX:       spawn.X,
			SpawnY:       spawn.Y,
			SpawnZ:       spawn.Z,
			SpawnSet:     true,
		}
		if err := persist.SaveMeta(s.metaPath, meta); err != nil {
			log.Printf("[persist] write meta: %v", err)
		}
	}
}

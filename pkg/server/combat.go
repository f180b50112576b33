package server

import (
	"github.com/nethr-io/nethr/pkg/chat"
	"github.com/nethr-io/nethr/pkg/protocol"
	"github.com/nethr-io/nethr/pkg/sim"
)

// armorPointsPerPiece is a flat per-slot defense contribution — spec §4.E
// pins the *reduction formula*, not a per-item defense table, so every
// occupied armor slot contributes the same amount rather than modeling
// individual armor materials.
const armorPointsPerPiece = 2

func armorDefense(p *Player) int {
	defense := 0
	for _, piece := range p.Inventory.Armor() {
		if piece.ItemID != 0 {
			defense += armorPointsPerPiece
		}
	}
	return defense
}

// damagePlayer applies amount damage (already armor-reduced) to p, sending
// a health update and, on death, a death-message broadcast and respawn.
func (s *Server) damagePlayer(p *Player, amount float32) {
	if amount <= 0 {
		return
	}
	newHealth := int(p.Health) - int(amount)
	if newHealth < 0 {
		newHealth = 0
	}
	p.Health = uint8(newHealth)
	s.sendHealth(p)

	if p.Health == 0 {
		s.broadcastSystemChat(chat.Colored(sim.DeathMessage(sim.DamageMobAttack, p.Name, ""), "gray").String())
		s.respawnPlayer(p)
	}
}

func (s *Server) sendHealth(p *Player) {
	w := protocol.NewWriter()
	w.Float32(float32(p.Health))
	w.VarInt(int32(p.Hunger))
	w.Float32(0) // saturation, reported separately from the internal scaled unit
	p.conn.enqueue(protocol.CbSetHealth, w.Bytes())
}

// respawnPlayer resets a dead player's vitals and teleports them back to
// the world spawn (spec §4.E death handling, minus the respawn-screen
// round trip a full client flow would add).
func (s *Server) respawnPlayer(p *Player) {
	spawn := s.world.EnsureSpawn()
	p.Health = 20
	p.Hunger = 20
	p.Saturation = 0
	p.X, p.Y, p.Z = float64(spawn.X), float64(spawn.Y), float64(spawn.Z)
	p.GroundedY = p.Y
	s.teleportPlayer(p.conn, p)
	s.sendHealth(p)
}

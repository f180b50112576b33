package server

import (
	"time"

	"golang.org/x/exp/maps"

	"github.com/nethr-io/nethr/pkg/protocol"
	"github.com/nethr-io/nethr/pkg/sim"
	"github.com/nethr-io/nethr/pkg/world"
)

// saturationPerHealthPoint is spec §4.G's regen cost: "-600 saturation per
// point, else -1 hunger per point, gated on hunger >= 18."
const saturationPerHealthPoint = 600

// tick runs one pass of spec §4.G step 2/3: per-player timers and
// environment damage, then mob AI, then (once a real-time second has
// elapsed) the server-wide keep-alive and time-of-day broadcast.
func (s *Server) tick() {
	s.worldTime++

	now := time.Now()
	everySecond := now.Sub(s.lastSecondMark) >= time.Second
	if everySecond {
		s.lastSecondMark = now
	}

	for _, p := range maps.Values(s.players) {
		s.tickPlayer(p, everySecond)
	}

	s.tickMobs()

	if everySecond {
		s.broadcastTime()
		s.keepAlivePlayers()
	}
}

// tickPlayer advances one player's per-tick timers and environment damage
// (spec §4.G step 2), gated by whether a full second has elapsed for the
// once-per-second health regen check.
func (s *Server) tickPlayer(p *Player, everySecond bool) {
	if p.attackCooldown > 0 {
		p.attackCooldown--
	}
	p.movementOnCooldown = false

	if fv, done := p.Eating.Advance(TickInterval); done {
		p.Hunger = addClampedU8(p.Hunger, fv.Hunger, 20)
		p.Saturation = addClampedU16(p.Saturation, fv.Saturation, 20*saturationPerHealthPoint)
		held := &p.Inventory.Slots[sim.HotbarStart+p.HotbarIndex]
		if held.ItemID == p.Eating.ItemID && held.Count > 0 {
			held.Count--
			if held.Count == 0 {
				*held = world.ItemStack{}
			}
		}
	}

	s.applyEnvironmentDamage(p)

	if everySecond {
		s.regenerateHealth(p)
	}
}

// applyEnvironmentDamage applies lava/cactus tick damage, per spec §4.E's
// damage-source table.
func (s *Server) applyEnvironmentDamage(p *Player) {
	b := s.world.BlockAt(int32(p.X), int32(p.Y), int32(p.Z))
	switch b {
	case world.BlockLava:
		s.damagePlayer(p, sim.ArmorReduce(4, armorDefense(p)))
	case world.BlockCactus:
		s.damagePlayer(p, 1)
	}
}

// regenerateHealth implements spec §4.G's hunger/heal step.
func (s *Server) regenerateHealth(p *Player) {
	if p.Hunger < 18 || p.Health >= 20 {
		return
	}
	switch {
	case p.Saturation >= saturationPerHealthPoint:
		p.Saturation -= saturationPerHealthPoint
	case p.Hunger > 0:
		p.Hunger--
	default:
		return
	}
	p.Health++
	s.sendHealth(p)
}

func (s *Server) broadcastTime() {
	w := protocol.NewWriter()
	w.Int64(int64(s.worldTime))
	w.Int64(int64(s.worldTime % 24000))
	for _, c := range s.conns {
		if c.player != nil {
			c.enqueue(protocol.CbSetTime, w.Bytes())
		}
	}
}

func addClampedU8(v uint8, delta int, max int) uint8 {
	n := int(v) + delta
	if n < 0 {
		n = 0
	}
	if n > max {
		n = max
	}
	return uint8(n)
}

func addClampedU16(v uint16, delta int, max int) uint16 {
	n := int(v) + delta
	if n < 0 {
		n = 0
	}
	if n > max {
		n = max
	}
	return uint16(n)
}

package server

import (
	"log"
	"time"

	"github.com/nethr-io/nethr/pkg/protocol"
)

// playServerboundIDs not otherwise in phase.go's catalog — movement and
// chat ids fixed by protocol revision 774, spec §4.D excerpt.
const (
	sbChatMessage     int32 = 0x07
	sbPlayerDigging   int32 = 0x24
	sbUseItem         int32 = 0x3C
	sbSetPlayerPos    int32 = 0x1D
	sbSetPlayerRot    int32 = 0x1F
	sbSetPlayerPosRot int32 = 0x1E
	sbSetHeldItem     int32 = 0x2F
	sbKeepAliveResp   int32 = 0x1A
	sbClickContainer  int32 = 0x0D
	sbUseItemOn       int32 = 0x38
)

// enterPlay finishes the connection's transition into the play phase: it
// locks a spawn point, sends play_login and the default spawn position,
// teleports the player (to spawn unless a saved position was restored), and
// primes the view-distance chunk window (spec §4.D's play_login handler).
// No player-list packet is sent.
func (s *Server) enterPlay(c *Connection) {
	c.phase = protocol.PhasePlay
	p := c.player
	if p == nil {
		return
	}
	s.players[p.EntityID] = p

	spawn := s.world.EnsureSpawn()
	if !p.hasSavedPosition {
		p.X, p.Y, p.Z = float64(spawn.X), float64(spawn.Y), float64(spawn.Z)
		p.GroundedY = p.Y
	}

	w := protocol.NewWriter()
	w.Int32(p.EntityID)
	w.Bool(false) // not hardcore
	w.Byte(GameModeSurvival)
	w.Int8(-1) // previous game mode: none
	w.VarInt(1)
	w.String("minecraft:overworld")
	w.VarLong(int64(s.cfg.RNGSeedRaw))
	w.Byte(0) // max players, unused by clients
	w.VarInt(int32(s.cfg.ViewDistance))
	w.VarInt(int32(s.cfg.ViewDistance))
	w.Bool(false) // reduced debug info
	w.Bool(true)  // enable respawn screen
	w.Bool(false) // limited crafting
	w.VarInt(0)   // dimension type id
	w.String("minecraft:overworld")
	w.Int64(0)    // hashed seed
	w.Byte(GameModeSurvival)
	w.Bool(false) // is debug
	w.Bool(false) // is flat
	w.Bool(false) // has death location
	w.VarInt(0)   // portal cooldown
	w.VarInt(0)   // sea level
	w.Bool(false) // enforces secure chat
	c.enqueue(protocol.CbPlayLogin, w.Bytes())

	sw := protocol.NewWriter()
	sw.Position(int32(spawn.X), int32(spawn.Y), int32(spawn.Z))
	sw.Float32(0)
	c.enqueue(protocol.CbSetDefaultSpawnPosition, sw.Bytes())

	s.teleportPlayer(c, p)
	s.streamChunksAround(c, p)
	log.Printf("[play] %s joined at (%d,%d,%d)", p.Name, int(p.X), int(p.Y), int(p.Z))
}

func (s *Server) teleportPlayer(c *Connection, p *Player) {
	w := protocol.NewWriter()
	w.Float64(p.X)
	w.Float64(p.Y)
	w.Float64(p.Z)
	w.Float64(0)
	w.Float64(0)
	w.Float64(0)
	w.Float32(p.Yaw)
	w.Float32(p.Pitch)
	w.VarInt(0) // no relative flags
	w.VarInt(0) // teleport id, unacked by this minimal handler
	c.enqueue(protocol.CbPlayerPosition, w.Bytes())
}

func (s *Server) handlePlay(c *Connection, id int32, r *protocol.Reader) bool {
	p := c.player
	if p == nil {
		return false
	}
	switch id {
	case sbKeepAliveResp:
		r.Drain()
		return true
	case sbChatMessage:
		msg, err := r.StringCapped(256)
		if err != nil {
			return false
		}
		s.handleChat(p, msg)
		return true
	case sbSetPlayerPos:
		x, err := r.Float64()
		if err != nil {
			return false
		}
		y, _ := r.Float64()
		z, _ := r.Float64()
		s.movePlayer(p, x, y, z, p.Yaw, p.Pitch)
		return true
	case sbSetPlayerRot:
		yaw, err := r.Float32()
		if err != nil {
			return false
		}
		pitch, _ := r.Float32()
		p.Yaw, p.Pitch = yaw, pitch
		return true
	case sbSetPlayerPosRot:
		x, err := r.Float64()
		if err != nil {
			return false
		}
		y, _ := r.Float64()
		z, _ := r.Float64()
		yaw, _ := r.Float32()
		pitch, _ := r.Float32()
		s.movePlayer(p, x, y, z, yaw, pitch)
		return true
	case sbSetHeldItem:
		slot, err := r.Uint16()
		if err != nil {
			return false
		}
		if int(slot) <= HotbarEnd {
			p.HotbarIndex = int(slot)
		}
		return true
	case sbPlayerDigging:
		return s.handlePlayerDigging(p, r)
	case sbUseItem:
		r.Drain()
		s.handleUseItem(p)
		return true
	case sbUseItemOn:
		return s.handleUseItemOn(p, r)
	case sbClickContainer:
		return s.handleClickContainer(p, r)
	default:
		r.Drain()
		return true
	}
}

// HotbarEnd mirrors sim.HotbarEnd for the held-item bounds check without an
// import cycle concern (sim is already imported elsewhere in this package).
const HotbarEnd = 8

func (s *Server) movePlayer(p *Player, x, y, z float64, yaw, pitch float32) {
	p.X, p.Y, p.Z = x, y, z
	p.Yaw, p.Pitch = yaw, pitch
	if b := s.world.BlockAt(int32(x), int32(y)-1, int32(z)); !b.Passable() {
		p.GroundedY = y
	}
	s.updateChunksAround(p.conn, p)
}

// keepAlivePlayers sends a keep-alive to every play-phase player whose last
// one was sent 10 seconds or more ago. Responses are not checked: a player
// that never answers is not disconnected here.
func (s *Server) keepAlivePlayers() {
	now := time.Now()
	for _, c := range s.conns {
		if c.player == nil || c.phase != protocol.PhasePlay {
			continue
		}
		if now.Sub(c.player.lastKeepAliveSent) < 10*time.Second {
			continue
		}
		c.player.lastKeepAliveSent = now
		c.player.lastKeepAliveID = now.UnixNano()
		w := protocol.NewWriter()
		w.Int64(c.player.lastKeepAliveID)
		c.enqueue(protocol.CbKeepAlive, w.Bytes())
	}
}

package server

import (
	"github.com/nethr-io/nethr/pkg/protocol"
	"github.com/nethr-io/nethr/pkg/world"
)

// streamChunksAround sends every chunk column within the configured view
// distance of p's current position that isn't already loaded, and records
// them in p.loadedChunks — spec §4.E's "view-window chunk streaming."
func (s *Server) streamChunksAround(c *Connection, p *Player) {
	cx := floorDiv(int32(p.X), chunkSize)
	cz := floorDiv(int32(p.Z), chunkSize)
	p.lastChunkX, p.lastChunkZ = cx, cz

	center := protocol.NewWriter()
	center.VarInt(cx)
	center.VarInt(cz)
	c.enqueue(protocol.CbSetChunkCacheCenter, center.Bytes())

	d := int32(s.cfg.ViewDistance)
	for dx := -d; dx <= d; dx++ {
		for dz := -d; dz <= d; dz++ {
			pos := chunkPos{cx + dx, cz + dz}
			if p.loadedChunks[pos] {
				continue
			}
			s.sendChunk(c, pos.X, pos.Z)
			p.loadedChunks[pos] = true
			p.recordVisitedChunk(pos)
		}
	}
}

// updateChunksAround is called after a player moves: if the player is in a
// new chunk it streams newly-visible columns. Columns that fall beyond view
// distance stay in p.loadedChunks; nothing is ever removed from that set.
func (s *Server) updateChunksAround(c *Connection, p *Player) {
	cx := floorDiv(int32(p.X), chunkSize)
	cz := floorDiv(int32(p.Z), chunkSize)
	if cx == p.lastChunkX && cz == p.lastChunkZ {
		return
	}
	s.streamChunksAround(c, p)
}

func (s *Server) sendChunk(c *Connection, cx, cz int32) {
	body := world.EncodeChunkColumn(s.world.Gen, s.world.Store, cx, cz)
	c.enqueue(protocol.CbLevelChunkWithLight, body)

	for _, change := range world.DeferredOverrides(s.world.Store, cx, cz) {
		payload := world.EncodeBlockUpdate(int32(change.X), int32(change.Y), int32(change.Z), world.Block(change.Block))
		c.enqueue(protocol.CbBlockUpdate, payload)
	}
}

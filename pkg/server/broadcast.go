package server

import (
	"github.com/nethr-io/nethr/pkg/protocol"
	"github.com/nethr-io/nethr/pkg/world"
)

const chunkSize = 16

// broadcastSystemChat sends msg as a plain NBT-string system_chat packet
// (spec §6) to every player currently in the play phase.
func (s *Server) broadcastSystemChat(msg string) {
	w := protocol.NewWriter()
	w.NBTString(msg)
	w.Bool(false) // overlay (action bar) off
	payload := w.Bytes()
	for _, c := range s.conns {
		if c.player != nil && c.phase == protocol.PhasePlay {
			c.enqueue(protocol.CbSystemChat, payload)
		}
	}
}

// sendSystemChatTo sends msg only to p.
func (s *Server) sendSystemChatTo(p *Player, msg string) {
	w := protocol.NewWriter()
	w.NBTString(msg)
	w.Bool(false)
	p.conn.enqueue(protocol.CbSystemChat, w.Bytes())
}

// broadcastBlockUpdate sends a block_update packet to every player whose
// loaded-chunk set covers (x,z).
func (s *Server) broadcastBlockUpdate(x, y, z int32, b world.Block) {
	payload := world.EncodeBlockUpdate(x, y, z, b)
	cx, cz := floorDiv(x, chunkSize), floorDiv(z, chunkSize)
	for _, c := range s.conns {
		if c.player == nil {
			continue
		}
		if c.player.loadedChunks[chunkPos{cx, cz}] {
			c.enqueue(protocol.CbBlockUpdate, payload)
		}
	}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

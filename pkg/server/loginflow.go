package server

import (
	"github.com/nethr-io/nethr/pkg/protocol"
	"github.com/nethr-io/nethr/pkg/sim"
)

func (s *Server) handleLogin(c *Connection, id int32, r *protocol.Reader) bool {
	switch id {
	case protocol.SbLoginStart:
		name, err := r.StringCapped(16)
		if err != nil {
			return false
		}
		if _, err := r.UUID(); err != nil { // client-supplied UUID, ignored: identity is derived offline
			return false
		}

		identity := sim.IdentityFor(name)

		w := protocol.NewWriter()
		w.UUID(identity)
		w.String(name)
		w.VarInt(0)   // no properties
		w.Bool(false) // strict error handling off
		c.enqueue(protocol.CbLoginSuccess, w.Bytes())

		player := newPlayer(s.nextEntityID(), identity, name, c)
		slot, rec, existed := s.attachSlot(identity)
		player.slotIndex = slot
		if existed {
			restoreFromSlot(player, rec)
			player.hasSavedPosition = true
		}
		c.player = player
		return true
	case protocol.SbLoginAcknowledged:
		c.phase = protocol.PhaseConfiguration
		for _, pkt := range registryDataStub() {
			c.send.Append(pkt)
		}
		c.enqueue(protocol.CbUpdateEnabledFeatures, enabledFeaturesPayload())
		c.enqueue(protocol.CbFinishConfiguration, nil)
		return true
	default:
		return false
	}
}

// registryDataStub is the opaque, pre-captured byte blob spec §6 describes
// ("a registry_data (0x07) packets and a tags packet... only its presence
// and length matter"). A real vanilla capture is not available offline; a
// single minimal registry_data packet stands in for it and no tags packet
// is sent, since the CORE only cares that some bytes of this shape cross
// the wire before finish_configuration.
func registryDataStub() [][]byte {
	w := protocol.NewWriter()
	w.String("minecraft:worldgen/biome")
	w.VarInt(0)
	return [][]byte{protocol.Frame(protocol.CbRegistryData, w.Bytes())}
}

func (s *Server) handleConfiguration(c *Connection, id int32, r *protocol.Reader) bool {
	switch id {
	case protocol.SbClientInformation:
		r.Drain()
		return true
	case protocol.SbClientKnownPacks:
		r.Drain()
		return true
	case protocol.SbFinishConfiguration:
		s.enterPlay(c)
		return true
	default:
		r.Drain()
		return true
	}
}

func enabledFeaturesPayload() []byte {
	w := protocol.NewWriter()
	w.VarInt(1)
	w.String("minecraft:vanilla")
	return w.Bytes()
}

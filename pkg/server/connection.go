package server

import (
	"bytes"
	"encoding/json"
	"log"

	"github.com/nethr-io/nethr/pkg/protocol"
)

// recvScratchSize bounds a single poll's non-blocking read — spec §3's
// per-connection state is small, so packets in flight are expected to be
// tiny outside of chunk data, which this server only ever writes.
const recvScratchSize = 8192

// Connection is one accepted socket's framing and phase state. It owns no
// goroutine: serviceConnection reads from it, at most once per outer-loop
// pass, from the single tick-loop goroutine.
type Connection struct {
	raw   *protocol.RawConn
	phase protocol.Phase
	send  *protocol.SendBuffer

	recv bytes.Buffer

	player *Player
	closed bool
}

func newConnection(raw *protocol.RawConn) *Connection {
	c := &Connection{raw: raw, phase: protocol.PhaseNone}
	c.send = protocol.NewSendBuffer(protocol.DefaultSendBufferSize, func(b []byte) error {
		return c.raw.WriteNonBlocking(b)
	})
	return c
}

func (c *Connection) enqueue(id int32, payload []byte) {
	_ = c.send.Append(protocol.Frame(id, payload))
}

// serviceConnection polls c for at most one complete packet and dispatches
// it by phase. It returns false once the connection should be dropped
// (peer closed, framing error, or an explicit disconnect).
func (s *Server) serviceConnection(c *Connection) bool {
	if c.closed {
		return false
	}

	var scratch [recvScratchSize]byte
	n, err := c.raw.TryReadAvailable(scratch[:])
	if err != nil {
		return false
	}
	if n > 0 {
		c.recv.Write(scratch[:n])
	}

	id, payload, ok, err := popFrame(&c.recv)
	if err != nil {
		log.Printf("[net] framing error, disconnecting: %v", err)
		return false
	}
	if ok && !s.dispatch(c, id, payload) {
		return false
	}

	if err := c.send.Flush(); err != nil {
		return false
	}
	return true
}

// popFrame extracts one complete `varint(len) varint(id) payload` frame
// from buf if one is fully buffered, leaving any partial frame in place
// for the next poll.
func popFrame(buf *bytes.Buffer) (id int32, payload []byte, ok bool, err error) {
	b := buf.Bytes()
	length, n, verr := protocol.DecodeVarInt(b, 0)
	if verr != nil {
		if len(b) >= 5 {
			return 0, nil, false, verr
		}
		return 0, nil, false, nil // not enough bytes yet for the length varint
	}
	if length < 0 || len(b) < n+int(length) {
		return 0, nil, false, nil
	}
	frame := b[n : n+int(length)]
	pktID, idn, verr := protocol.DecodeVarInt(frame, 0)
	if verr != nil {
		return 0, nil, false, verr
	}
	payloadCopy := make([]byte, len(frame)-idn)
	copy(payloadCopy, frame[idn:])

	buf.Next(n + int(length))
	return pktID, payloadCopy, true, nil
}

func (s *Server) dropConnection(c *Connection) {
	c.raw.Close()
	if c.player != nil {
		s.removePlayer(c.player)
	}
}

// dispatch routes one packet by the connection's current phase.
func (s *Server) dispatch(c *Connection, id int32, payload []byte) bool {
	r := protocol.NewReader(payload)
	switch c.phase {
	case protocol.PhaseNone:
		return s.handleHandshake(c, id, r)
	case protocol.PhaseStatus:
		return s.handleStatus(c, id, r)
	case protocol.PhaseLogin:
		return s.handleLogin(c, id, r)
	case protocol.PhaseConfiguration:
		return s.handleConfiguration(c, id, r)
	case protocol.PhasePlay:
		return s.handlePlay(c, id, r)
	default:
		return false
	}
}

func (s *Server) handleHandshake(c *Connection, id int32, r *protocol.Reader) bool {
	if id != protocol.SbHandshake {
		return false
	}
	if _, err := r.VarInt(); err != nil { // protocol version, unused
		return false
	}
	if _, err := r.String(); err != nil { // server address
		return false
	}
	if _, err := r.Uint16(); err != nil { // server port
		return false
	}
	intent, err := r.VarInt()
	if err != nil {
		return false
	}
	c.phase = protocol.HandshakeIntent(intent).NextPhase()
	return true
}

func (s *Server) handleStatus(c *Connection, id int32, r *protocol.Reader) bool {
	switch id {
	case protocol.SbStatusRequest:
		w := protocol.NewWriter()
		w.String(statusResponseJSON(s, MOTD))
		c.enqueue(protocol.CbStatusResponse, w.Bytes())
		return true
	case protocol.SbPingRequest:
		payload, err := r.Int64()
		if err != nil {
			return false
		}
		w := protocol.NewWriter()
		w.Int64(payload)
		c.enqueue(protocol.CbPongResponse, w.Bytes())
		_ = c.send.Flush() // the connection is dropped next, without a flush
		return false       // vanilla clients close right after the pong
	default:
		return false
	}
}

// statusJSON is the minimal subset of the status-response schema clients
// actually read; the registry/tags blob (configuration phase) is where
// spec §6 calls for pre-captured vanilla data, not here.
type statusJSON struct {
	Version struct {
		Name     string `json:"name"`
		Protocol int32  `json:"protocol"`
	} `json:"version"`
	Players struct {
		Max    int `json:"max"`
		Online int `json:"online"`
	} `json:"players"`
	Description struct {
		Text string `json:"text"`
	} `json:"description"`
}

func statusResponseJSON(s *Server, motd string) string {
	var j statusJSON
	j.Version.Name = "1.21.x"
	j.Version.Protocol = protocol.ProtocolVersion
	j.Players.Max = len(s.players) + 16
	j.Players.Online = len(s.players)
	j.Description.Text = motd
	b, _ := json.Marshal(j)
	return string(b)
}

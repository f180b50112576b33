// Package server is nethr's connection dispatcher and tick driver (spec
// §4.D/§4.G, §5). It is the Go port of the teacher's (ChickenIQ-VibeShitCraft)
// pkg/server package, regeneralized from goroutine-per-connection plus mutex
// to the single-threaded, cooperative, round-robin model spec §5 mandates:
// one loop accepts new connections, polls every open connection for at most
// one packet, ticks the simulation when due, and flushes every connection's
// coalescing send buffer — no goroutine, and therefore no lock, ever touches
// player or world state concurrently with the loop itself.
package server

import (
	"log"
	"net"
	"time"

	"github.com/nethr-io/nethr/pkg/persist"
	"github.com/nethr-io/nethr/pkg/protocol"
	"github.com/nethr-io/nethr/pkg/rng"
	"github.com/nethr-io/nethr/pkg/sim"
	"github.com/nethr-io/nethr/pkg/world"
)

// Gamemode constants, matching the protocol's numeric game-mode values.
const (
	GameModeSurvival  byte = 0
	GameModeCreative  byte = 1
	GameModeAdventure byte = 2
	GameModeSpectator byte = 3
)

// ViewDistance is the radius, in chunks, kept loaded around each player.
const ViewDistance = 7

// MOTD is the status-response description string.
const MOTD = "A nethr server"

// TickInterval is this server's tick period, derived from
// sim.TicksPerSecond (the single source of truth for both — see its doc
// comment for why this deviates from spec §4.G's 1s TIME_BETWEEN_TICKS
// default).
const TickInterval = time.Second / time.Duration(sim.TicksPerSecond)

// DiskSyncInterval is spec §4.F's DISK_SYNC_INTERVAL default.
const DiskSyncInterval = 15 * time.Second

// Config holds the server's runtime configuration, assembled by
// cmd/server/main.go from defaults, an optional TOML file, and
// environment-variable overrides (spec §6).
type Config struct {
	Address          string
	WorldSeedRaw     uint32
	RNGSeedRaw       uint64
	ViewDistance     int
	StatePath        string
	SyncBlocksOnTick bool
	FluidFlowEnabled bool
}

// DefaultConfig returns nethr's baked-in defaults.
func DefaultConfig() Config {
	return Config{
		Address:      ":25565",
		ViewDistance: ViewDistance,
		StatePath:    "world.bin",
	}
}

// Server owns every piece of state the tick loop touches: the listener, the
// open connections in round-robin order, the world, and the persistence
// handle. Nothing here is protected by a mutex (spec §5: "no locking
// because there is no shared mutation across threads") — the only goroutine
// that ever reads or writes these fields is the one running Run.
type Server struct {
	cfg      Config
	listener net.Listener
	world    *world.World
	bin      *persist.File
	metaPath string
	binPath  string

	conns   []*Connection
	players map[int32]*Player
	mobs    *MobTable
	nextEID int32

	slots       [persist.MaxPlayers]persist.PlayerData
	gameplayRNG *rng.Gameplay
	worldTime   int32

	lastTick       time.Time
	lastDiskSync   time.Time
	lastSecondMark time.Time
	adminCh        <-chan string

	stop bool
}

// New builds a server from cfg, loading (or creating) its persisted world
// state. AdminCh, if non-nil, contributes broadcast chat lines from an
// out-of-process admin source (spec §6 "admin FIFO source").
func New(cfg Config, adminCh <-chan string) (*Server, error) {
	metaPath := cfg.StatePath + ".meta"
	meta, err := persist.LoadMeta(metaPath)
	if err != nil {
		log.Printf("[persist] warning: %v (continuing with defaults)", err)
	}
	if cfg.WorldSeedRaw == 0 {
		cfg.WorldSeedRaw = meta.WorldSeedRaw
	}
	if cfg.RNGSeedRaw == 0 {
		cfg.RNGSeedRaw = meta.RNGSeedRaw
	}

	bin, err := persist.Open(cfg.StatePath)
	if err != nil {
		return nil, err
	}

	w := world.NewWorld(cfg.WorldSeedRaw, cfg.RNGSeedRaw)
	if err := bin.LoadBlockChanges(w.Store); err != nil {
		bin.Close()
		return nil, err
	}
	if meta.SpawnSet {
		w.RestoreSpawn(world.SpawnPoint{X: meta.SpawnX, Y: meta.SpawnY, Z: meta.SpawnZ})
	}

	slots, err := bin.LoadPlayers()
	if err != nil {
		bin.Close()
		return nil, err
	}

	s := &Server{
		cfg:         cfg,
		world:       w,
		bin:         bin,
		metaPath:    metaPath,
		binPath:     cfg.StatePath,
		players:     make(map[int32]*Player),
		mobs:        NewMobTable(),
		slots:       slots,
		gameplayRNG: rng.NewGameplay(cfg.RNGSeedRaw, uint64(cfg.WorldSeedRaw)),
		adminCh:     adminCh,
	}
	return s, nil
}

// Run binds the listener and drives the loop described in spec §4.G until
// Shutdown is called or the listener errors fatally.
func (s *Server) Run() error {
	ln, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return err
	}
	s.listener = ln
	if err := ln.(*net.TCPListener).SetDeadline(time.Time{}); err != nil {
		// non-fatal: only matters for the brief non-blocking Accept below
		log.Printf("[net] warning: could not clear listener deadline: %v", err)
	}
	log.Printf("[net] listening on %s", s.cfg.Address)

	s.lastTick = time.Now()
	s.lastDiskSync = s.lastTick
	s.lastSecondMark = s.lastTick

	for !s.stop {
		s.acceptPending()
		s.drainAdmin()
		s.pollConnections()
		s.maybeTick()
	}
	return s.shutdown()
}

// acceptPending accepts every connection already waiting without blocking —
// the outer loop's first step (spec §4.G step 1).
func (s *Server) acceptPending() {
	tcpLn, ok := s.listener.(*net.TCPListener)
	if !ok {
		return
	}
	for {
		_ = tcpLn.SetDeadline(time.Now().Add(time.Millisecond))
		conn, err := tcpLn.Accept()
		if err != nil {
			return
		}
		tcp, _ := conn.(*net.TCPConn)
		raw, err := protocol.NewRawConn(tcp)
		if err != nil {
			conn.Close()
			continue
		}
		_ = raw.SetNonblocking()
		s.conns = append(s.conns, newConnection(raw))
		log.Printf("[net] accepted connection from %s", conn.RemoteAddr())
	}
}

// drainAdmin forwards every currently-queued admin chat line (spec §4.G
// step 2, spec §6's admin FIFO collaborator) without blocking.
func (s *Server) drainAdmin() {
	if s.adminCh == nil {
		return
	}
	for {
		select {
		case line, ok := <-s.adminCh:
			if !ok {
				s.adminCh = nil
				return
			}
			s.broadcastSystemChat(line)
		default:
			return
		}
	}
}

// pollConnections round-robins every open connection, processing at most
// one packet from each before moving to the next (spec §4.G step 3 / §5).
func (s *Server) pollConnections() {
	live := s.conns[:0]
	for _, c := range s.conns {
		if s.serviceConnection(c) {
			live = append(live, c)
		} else {
			s.dropConnection(c)
		}
	}
	s.conns = live
}

// maybeTick runs the simulation tick and persistence cadence when due
// (spec §4.G steps 4-5).
func (s *Server) maybeTick() {
	now := time.Now()
	if now.Sub(s.lastTick) < TickInterval {
		return
	}
	s.lastTick = now
	s.tick()

	if now.Sub(s.lastDiskSync) >= DiskSyncInterval {
		s.lastDiskSync = now
		s.syncPersistence()
	}
}

// Shutdown requests a clean stop; Run returns once the current loop
// iteration finishes.
func (s *Server) Shutdown() { s.stop = true }

func (s *Server) shutdown() error {
	s.syncPersistence()
	if s.bin != nil {
		s.bin.Close()
	}
	if s.listener != nil {
		s.listener.Close()
	}
	for _, c := range s.conns {
		c.raw.Close()
	}
	return nil
}

func (s *Server) nextEntityID() int32 {
	s.nextEID++
	return s.nextEID
}

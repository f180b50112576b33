package main

import (
	"bufio"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pelletier/go-toml"
	flag "github.com/spf13/pflag"

	"github.com/nethr-io/nethr/pkg/server"
)

// fileConfig mirrors the subset of nethr.toml's fields checked-in defaults
// are allowed to override before CLI flags apply.
type fileConfig struct {
	Address          string `toml:"address"`
	WorldSeed        int64  `toml:"world_seed"`
	RNGSeed          int64  `toml:"rng_seed"`
	ViewDistance     int    `toml:"view_distance"`
	StatePath        string `toml:"state_path"`
	SyncBlocksOnTick bool   `toml:"sync_blocks_on_tick"`
	FluidFlowEnabled bool   `toml:"fluid_flow_enabled"`
	AdminFIFO        string `toml:"admin_fifo"`
}

func main() {
	cfg := server.DefaultConfig()

	configPath := flag.String("config", "nethr.toml", "path to an optional TOML config file")
	address := flag.StringP("address", "a", cfg.Address, "address to listen on")
	worldSeed := flag.Uint32("world-seed", 0, "world seed (0 = unset, falls back to world.bin.meta; stays 0 if that has none)")
	rngSeed := flag.Uint64("rng-seed", 0, "gameplay RNG seed (0 = unset, falls back to world.bin.meta)")
	viewDistance := flag.Int("view-distance", cfg.ViewDistance, "chunk view distance kept loaded around each player")
	statePath := flag.String("state", cfg.StatePath, "path to the world state file")
	syncBlocksOnTick := flag.Bool("sync-blocks-on-tick", false, "rewrite the block-change log only at the disk-sync interval instead of on every mutation")
	fluidFlow := flag.Bool("fluid-flow", false, "enable water/lava BFS propagation on block updates (spec §4.E, \"when enabled\")")
	adminFIFO := flag.String("admin-fifo", "", "path to a named pipe that feeds broadcast chat lines (external collaborator, spec §6)")
	flag.Parse()

	if fc, err := loadFileConfig(*configPath); err != nil {
		log.Printf("[config] warning: %v (continuing with defaults)", err)
	} else if fc != nil {
		applyFileConfig(&cfg, fc)
	}

	if flag.CommandLine.Changed("address") {
		cfg.Address = *address
	}
	if flag.CommandLine.Changed("view-distance") {
		cfg.ViewDistance = *viewDistance
	}
	if flag.CommandLine.Changed("state") {
		cfg.StatePath = *statePath
	}
	if flag.CommandLine.Changed("sync-blocks-on-tick") {
		cfg.SyncBlocksOnTick = *syncBlocksOnTick
	}
	if *fluidFlow {
		cfg.FluidFlowEnabled = true
	}
	if *worldSeed != 0 {
		cfg.WorldSeedRaw = *worldSeed
	}
	if *rngSeed != 0 {
		cfg.RNGSeedRaw = *rngSeed
	}
	if v := os.Getenv("NETHR_WORLD_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.WorldSeedRaw = uint32(n)
		} else {
			log.Printf("[config] ignoring malformed NETHR_WORLD_SEED=%q: %v", v, err)
		}
	}
	if v := os.Getenv("NETHR_RNG_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.RNGSeedRaw = n
		} else {
			log.Printf("[config] ignoring malformed NETHR_RNG_SEED=%q: %v", v, err)
		}
	}
	if v := os.Getenv("NETHR_VIEW_DISTANCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.ViewDistance = n
		} else {
			log.Printf("[config] ignoring malformed NETHR_VIEW_DISTANCE=%q: %v", v, err)
		}
	}
	if *adminFIFO == "" {
		*adminFIFO = fifoPathFromFile(*configPath)
	}

	var adminCh <-chan string
	if *adminFIFO != "" {
		ch, err := openAdminFIFO(*adminFIFO)
		if err != nil {
			log.Printf("[admin] warning: could not open admin FIFO %q: %v", *adminFIFO, err)
		} else {
			adminCh = ch
		}
	}

	srv, err := server.New(cfg, adminCh)
	if err != nil {
		log.Fatalf("[server] failed to initialize: %v", err)
	}

	log.Printf("nethr server starting (protocol 774, \"1.21.x\")")
	log.Printf("address=%s view-distance=%d state=%s", cfg.Address, cfg.ViewDistance, cfg.StatePath)

	done := make(chan error, 1)
	go func() { done <- srv.Run() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("[server] shutting down (received signal: %v)", sig)
		srv.Shutdown()
		<-done
	case err := <-done:
		if err != nil {
			log.Fatalf("[server] exited: %v", err)
		}
	}
	log.Println("[server] stopped")
}

// loadFileConfig reads path if it exists; a missing file is benign, matching
// spec §4.F's "missing is benign" convention for on-disk state elsewhere.
func loadFileConfig(path string) (*fileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var fc fileConfig
	if err := toml.Unmarshal(b, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

func applyFileConfig(cfg *server.Config, fc *fileConfig) {
	if fc.Address != "" {
		cfg.Address = fc.Address
	}
	if fc.WorldSeed != 0 {
		cfg.WorldSeedRaw = uint32(fc.WorldSeed)
	}
	if fc.RNGSeed != 0 {
		cfg.RNGSeedRaw = uint64(fc.RNGSeed)
	}
	if fc.ViewDistance != 0 {
		cfg.ViewDistance = fc.ViewDistance
	}
	if fc.StatePath != "" {
		cfg.StatePath = fc.StatePath
	}
	cfg.SyncBlocksOnTick = fc.SyncBlocksOnTick
	if fc.FluidFlowEnabled {
		cfg.FluidFlowEnabled = true
	}
}

// fifoPathFromFile re-reads the config file only for its admin_fifo field,
// since server.Config itself carries no such field (the admin source is an
// external collaborator, not CORE configuration, per spec §6).
func fifoPathFromFile(path string) string {
	fc, err := loadFileConfig(path)
	if err != nil || fc == nil {
		return ""
	}
	return fc.AdminFIFO
}

// openAdminFIFO opens path (expected to be a named pipe created with
// mkfifo) and streams its lines as broadcast chat, one goroutine feeding a
// channel the single-threaded tick loop drains non-blockingly — the admin
// FIFO chat bridge spec §1/§6 names as an out-of-CORE external collaborator.
func openAdminFIFO(path string) (<-chan string, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, os.ModeNamedPipe)
	if err != nil {
		return nil, err
	}
	ch := make(chan string, 64)
	go func() {
		defer close(ch)
		defer f.Close()
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			ch <- sc.Text()
		}
	}()
	return ch, nil
}

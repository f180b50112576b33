// Package persist implements nethr's on-disk state: the line-based
// world.meta text file and the fixed-layout world.bin binary file (spec
// §4.F), grounded on calvinalkan-agent-task's atomic binary-cache writer
// (cache_binary.go) — the closest thing in the pack to a fixed-record
// binary store with atomic full-file rewrites.
package persist

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
)

const metaHeader = "NETHR_META_V1"

// WorldMeta is the small KEY=value text file recording the two raw seeds
// and the locked spawn point, so terrain reshuffling (a reseed, a
// generator bugfix) cannot orphan returning players — spec §4.F.
type WorldMeta struct {
	WorldSeedRaw uint32
	RNGSeedRaw   uint64
	SpawnX       int16
	SpawnY       uint8
	SpawnZ       int16
	SpawnSet     bool
}

// LoadMeta reads path. A missing file is benign and returns a zero-value
// WorldMeta with no error — spec §4.F "missing is benign." A malformed
// file returns an error; the caller is expected to surface it as a
// warning and continue with defaults rather than treat it as fatal.
func LoadMeta(path string) (WorldMeta, error) {
	var m WorldMeta

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, fmt.Errorf("persist: open world.meta: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sawHeader := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == metaHeader {
			sawHeader = true
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return WorldMeta{}, fmt.Errorf("persist: malformed world.meta line %q", line)
		}
		if err := m.setField(key, value); err != nil {
			return WorldMeta{}, err
		}
	}
	if err := sc.Err(); err != nil {
		return WorldMeta{}, fmt.Errorf("persist: read world.meta: %w", err)
	}
	if !sawHeader {
		return WorldMeta{}, fmt.Errorf("persist: world.meta missing %s header", metaHeader)
	}
	return m, nil
}

func (m *WorldMeta) setField(key, value string) error {
	switch key {
	case "WORLD_SEED_RAW":
		v, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return fmt.Errorf("persist: WORLD_SEED_RAW: %w", err)
		}
		m.WorldSeedRaw = uint32(v)
	case "RNG_SEED_RAW":
		v, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("persist: RNG_SEED_RAW: %w", err)
		}
		m.RNGSeedRaw = v
	case "SPAWN_X":
		v, err := strconv.ParseInt(value, 10, 16)
		if err != nil {
			return fmt.Errorf("persist: SPAWN_X: %w", err)
		}
		m.SpawnX = int16(v)
		m.SpawnSet = true
	case "SPAWN_Y":
		v, err := strconv.ParseUint(value, 10, 8)
		if err != nil {
			return fmt.Errorf("persist: SPAWN_Y: %w", err)
		}
		m.SpawnY = uint8(v)
	case "SPAWN_Z":
		v, err := strconv.ParseInt(value, 10, 16)
		if err != nil {
			return fmt.Errorf("persist: SPAWN_Z: %w", err)
		}
		m.SpawnZ = int16(v)
	default:
		// unknown keys are ignored rather than rejected, so the format can
		// grow without breaking older binaries reading a newer file.
	}
	return nil
}

// SaveMeta rewrites path atomically — spec §7 item 6: a torn write during a
// crash must never corrupt the file the next boot reads.
func SaveMeta(path string, m WorldMeta) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, metaHeader)
	fmt.Fprintf(&buf, "WORLD_SEED_RAW=%d\n", m.WorldSeedRaw)
	fmt.Fprintf(&buf, "RNG_SEED_RAW=%d\n", m.RNGSeedRaw)
	if m.SpawnSet {
		fmt.Fprintf(&buf, "SPAWN_X=%d\n", m.SpawnX)
		fmt.Fprintf(&buf, "SPAWN_Y=%d\n", m.SpawnY)
		fmt.Fprintf(&buf, "SPAWN_Z=%d\n", m.SpawnZ)
	}
	return atomic.WriteFile(path, bytes.NewReader(buf.Bytes()))
}

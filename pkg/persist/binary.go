package persist

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/nethr-io/nethr/pkg/sim"
	"github.com/nethr-io/nethr/pkg/world"
)

// MaxPlayers is spec §3's MAX_PLAYERS default.
const MaxPlayers = 16

// VisitedHistory is the length of a player's recent-chunk ring, used to
// avoid re-sending chunk data the client already has cached.
const VisitedHistory = 8

// Player flag bits, packed into one uint16 — spec §3's "bitfield of flags."
const (
	FlagAttackCooldown = 1 << iota
	FlagNotSpawnedYet
	FlagSneaking
	FlagSprinting
	FlagEating
	FlagClientLoading
	FlagMovementUpdateCooldown
	FlagCraftHoldsStoragePointer
)

// ChunkRef identifies one chunk column in a player's visited-chunk ring.
type ChunkRef struct {
	X, Z int32
}

// blockChangeRecordSize is the on-disk width of one world.Change: x:i16,
// z:i16, y:u8, block:u8 — spec §6's "6 bytes each."
const blockChangeRecordSize = 6

// playerRecordSize is the fixed on-disk width of one PlayerData, derived
// from the field layout in writePlayer/readPlayer below.
const playerRecordSize = 16 /*identity*/ + 16 /*name*/ + 1 /*occupied*/ +
	2 + 1 + 2 /*pos*/ + VisitedHistory*8 /*chunk ring*/ +
	1 + 1 /*yaw/pitch*/ + 4 /*groundedY*/ +
	1 + 1 + 2 /*health/hunger/saturation*/ + 1 /*hotbar*/ +
	sim.InventorySize*3 /*inventory items: u16 id + u8 count*/ +
	2 /*flags*/ + 2 + 1 /*multiA/multiB*/ + 4 /*storage pointer*/

// PlayerData is one MAX_PLAYERS slot of the player record array (spec §3).
// The crafting buffer (Inventory.Slots[sim.CraftStart:]) is interpreted as
// items unless FlagCraftHoldsStoragePointer is set, in which case
// StoragePointer names a block-change-log index whose chest inventory is
// authoritative instead — a tagged variant rather than a memory alias,
// per spec §3's explicit instruction against pointer-punning the buffer.
type PlayerData struct {
	Identity [16]byte
	Name     string
	Occupied bool

	X, Z int16
	Y    uint8

	VisitedChunks [VisitedHistory]ChunkRef

	Yaw, Pitch int8
	GroundedY  int32

	Health, Hunger uint8
	Saturation     uint16
	HotbarIndex    uint8

	Inventory sim.Inventory

	Flags          uint16
	MultiA         uint16
	MultiB         uint8
	StoragePointer int32
}

// File wraps the open world.bin handle and gives record-level access to
// both regions described in spec §4.F: "[block_changes: fixed-size
// array][player_data: fixed-size array]."
type File struct {
	f *os.File
}

func blockChangesRegionSize() int64 { return int64(world.MaxBlockChanges) * blockChangeRecordSize }
func playersRegionSize() int64      { return int64(MaxPlayers) * playerRecordSize }

// Open opens path, creating a zero-filled file of the expected total size
// if it does not already exist — spec §4.F "on absence, creates a
// zero-filled file."
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("persist: open world.bin: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("persist: stat world.bin: %w", err)
	}
	want := blockChangesRegionSize() + playersRegionSize()
	if info.Size() < want {
		if err := f.Truncate(want); err != nil {
			f.Close()
			return nil, fmt.Errorf("persist: zero-fill world.bin: %w", err)
		}
	}
	return &File{f: f}, nil
}

// Close closes the underlying file.
func (bf *File) Close() error { return bf.f.Close() }

// LoadBlockChanges reads the block-change region into store, restoring
// chest inventories from their 14 trailing records.
func (bf *File) LoadBlockChanges(store *world.Store) error {
	buf := make([]byte, blockChangesRegionSize())
	if _, err := bf.f.ReadAt(buf, 0); err != nil && err != io.EOF {
		return fmt.Errorf("persist: read block changes: %w", err)
	}
	for i := 0; i < world.MaxBlockChanges; {
		rec := buf[i*blockChangeRecordSize : (i+1)*blockChangeRecordSize]
		c := world.Change{
			X:     int16(binary.LittleEndian.Uint16(rec[0:2])),
			Z:     int16(binary.LittleEndian.Uint16(rec[2:4])),
			Y:     rec[4],
			Block: rec[5],
		}
		if c.Block == world.SentinelBlock {
			i++
			continue
		}
		store.RestoreRecord(i, c)

		if world.Block(c.Block).IsChest() && i+world.ChestStride <= world.MaxBlockChanges {
			start := (i + 1) * blockChangeRecordSize
			end := start + world.ChestTrailingRecords*blockChangeRecordSize
			store.RestoreChest(i, decodeChestInventory(buf[start:end]))
			i += world.ChestStride
			continue
		}
		i++
	}
	store.ScanHighWater()
	return nil
}

// chestSlotSize is one ChestInventory slot's packed on-disk width:
// item_id:u16 + count:u8.
const chestSlotSize = 3

// encodeChestInventory packs inv's 27 slots two-to-a-record across the 14
// trailing records following a chest's head (spec §3/§4.E "Chest storage").
func encodeChestInventory(inv *world.ChestInventory) []byte {
	buf := make([]byte, world.ChestTrailingRecords*blockChangeRecordSize)
	for i, s := range inv.Slots {
		off := i * chestSlotSize
		binary.LittleEndian.PutUint16(buf[off:off+2], s.ItemID)
		buf[off+2] = s.Count
	}
	return buf
}

// decodeChestInventory is encodeChestInventory's inverse.
func decodeChestInventory(buf []byte) *world.ChestInventory {
	var inv world.ChestInventory
	for i := range inv.Slots {
		off := i * chestSlotSize
		if off+chestSlotSize > len(buf) {
			break
		}
		inv.Slots[i] = world.ItemStack{
			ItemID: binary.LittleEndian.Uint16(buf[off : off+2]),
			Count:  buf[off+2],
		}
	}
	return &inv
}

// WriteBlockChangeRecord seeks to record i's offset and rewrites it in
// place — spec §4.F "per-record writes seek to the record offset and
// rewrite in place."
func (bf *File) WriteBlockChangeRecord(i int, c world.Change) error {
	var rec [blockChangeRecordSize]byte
	binary.LittleEndian.PutUint16(rec[0:2], uint16(c.X))
	binary.LittleEndian.PutUint16(rec[2:4], uint16(c.Z))
	rec[4] = c.Y
	rec[5] = c.Block
	_, err := bf.f.WriteAt(rec[:], int64(i)*blockChangeRecordSize)
	return err
}

// WriteBlockChangeRange rewrites records [0, upto) in one call, used when
// DISK_SYNC_BLOCKS_ON_INTERVAL batches the whole active range on a timer
// instead of per mutation (spec §4.F cadence). A chest head's 14 trailing
// records are packed with its inventory bytes instead of the plain sentinel
// change they'd otherwise encode, so a restart restores chest contents.
func (bf *File) WriteBlockChangeRange(store *world.Store, upto int) error {
	buf := make([]byte, upto*blockChangeRecordSize)
	for i := 0; i < upto; {
		c := store.RecordAt(i)
		off := i * blockChangeRecordSize
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(c.X))
		binary.LittleEndian.PutUint16(buf[off+2:off+4], uint16(c.Z))
		buf[off+4] = c.Y
		buf[off+5] = c.Block

		if inv, ok := store.ChestInventoryAt(i); ok && i+world.ChestStride <= upto {
			trailing := encodeChestInventory(inv)
			copy(buf[off+blockChangeRecordSize:], trailing)
			i += world.ChestStride
			continue
		}
		i++
	}
	_, err := bf.f.WriteAt(buf, 0)
	return err
}

// LoadPlayers reads the whole player-data region.
func (bf *File) LoadPlayers() ([MaxPlayers]PlayerData, error) {
	var out [MaxPlayers]PlayerData
	buf := make([]byte, playersRegionSize())
	if _, err := bf.f.ReadAt(buf, blockChangesRegionSize()); err != nil && err != io.EOF {
		return out, fmt.Errorf("persist: read player data: %w", err)
	}
	for i := 0; i < MaxPlayers; i++ {
		rec := buf[i*playerRecordSize : (i+1)*playerRecordSize]
		p, err := decodePlayer(rec)
		if err != nil {
			return out, fmt.Errorf("persist: decode player %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}

// WritePlayers rewrites the entire player-data region — spec §4.F "player
// records are always rewritten whole."
func (bf *File) WritePlayers(players [MaxPlayers]PlayerData) error {
	buf := make([]byte, playersRegionSize())
	for i, p := range players {
		rec := encodePlayer(p)
		copy(buf[i*playerRecordSize:(i+1)*playerRecordSize], rec)
	}
	_, err := bf.f.WriteAt(buf, blockChangesRegionSize())
	return err
}

func encodePlayer(p PlayerData) []byte {
	var buf bytes.Buffer
	buf.Write(p.Identity[:])

	var name [16]byte
	copy(name[:], p.Name)
	buf.Write(name[:])

	if p.Occupied {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}

	writeI16(&buf, p.X)
	buf.WriteByte(p.Y)
	writeI16(&buf, p.Z)

	for _, cr := range p.VisitedChunks {
		writeI32(&buf, cr.X)
		writeI32(&buf, cr.Z)
	}

	buf.WriteByte(byte(p.Yaw))
	buf.WriteByte(byte(p.Pitch))
	writeI32(&buf, p.GroundedY)

	buf.WriteByte(p.Health)
	buf.WriteByte(p.Hunger)
	writeU16(&buf, p.Saturation)
	buf.WriteByte(p.HotbarIndex)

	for _, s := range p.Inventory.Slots {
		writeU16(&buf, s.ItemID)
		buf.WriteByte(s.Count)
	}

	writeU16(&buf, p.Flags)
	writeU16(&buf, p.MultiA)
	buf.WriteByte(p.MultiB)
	writeI32(&buf, p.StoragePointer)

	return buf.Bytes()
}

func decodePlayer(rec []byte) (PlayerData, error) {
	if len(rec) != playerRecordSize {
		return PlayerData{}, fmt.Errorf("player record size mismatch: got %d want %d", len(rec), playerRecordSize)
	}
	r := bytes.NewReader(rec)
	var p PlayerData

	io.ReadFull(r, p.Identity[:])

	var name [16]byte
	io.ReadFull(r, name[:])
	p.Name = cString(name[:])

	occ, _ := r.ReadByte()
	p.Occupied = occ != 0

	p.X = readI16(r)
	p.Y, _ = r.ReadByte()
	p.Z = readI16(r)

	for i := range p.VisitedChunks {
		p.VisitedChunks[i] = ChunkRef{X: readI32(r), Z: readI32(r)}
	}

	yaw, _ := r.ReadByte()
	pitch, _ := r.ReadByte()
	p.Yaw, p.Pitch = int8(yaw), int8(pitch)
	p.GroundedY = readI32(r)

	p.Health, _ = r.ReadByte()
	p.Hunger, _ = r.ReadByte()
	p.Saturation = readU16(r)
	p.HotbarIndex, _ = r.ReadByte()

	for i := range p.Inventory.Slots {
		id := readU16(r)
		count, _ := r.ReadByte()
		p.Inventory.Slots[i] = world.ItemStack{ItemID: id, Count: count}
	}

	p.Flags = readU16(r)
	p.MultiA = readU16(r)
	p.MultiB, _ = r.ReadByte()
	p.StoragePointer = readI32(r)

	return p, nil
}

func cString(b []byte) string {
	n := bytes.IndexByte(b, 0)
	if n < 0 {
		n = len(b)
	}
	return string(b[:n])
}

func writeI16(buf *bytes.Buffer, v int16) { writeU16(buf, uint16(v)) }
func writeU16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}
func writeI32(buf *bytes.Buffer, v int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	buf.Write(b[:])
}

func readI16(r *bytes.Reader) int16 { return int16(readU16(r)) }
func readU16(r *bytes.Reader) uint16 {
	var b [2]byte
	io.ReadFull(r, b[:])
	return binary.LittleEndian.Uint16(b[:])
}
func readI32(r *bytes.Reader) int32 {
	var b [4]byte
	io.ReadFull(r, b[:])
	return int32(binary.LittleEndian.Uint32(b[:]))
}

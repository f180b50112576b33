package world

import (
	"github.com/brentp/intintmap"
	"github.com/cespare/xxhash/v2"
)

// SentinelBlock marks an empty block-change slot (spec §3: "sentinel
// block_id = 0xFF").
const SentinelBlock byte = 0xFF

// MaxBlockChanges is spec §3's MAX_BLOCK_CHANGES default.
const MaxBlockChanges = 20000

// ChestTrailingRecords is the number of records a chest reserves after its
// head record to pack 27 (item_id:u16, count:u8) slots two-to-a-record, each
// record's 6 bytes holding two 3-byte slots (spec §3, §4.E "Chest storage").
const ChestTrailingRecords = 14

// ChestStride is one chest's total footprint: the head record plus its
// trailing inventory records.
const ChestStride = ChestTrailingRecords + 1

// BucketCount is spec §3's fixed bucket table size.
const BucketCount = 1024

// Change is one authoritative deviation from procedural terrain.
type Change struct {
	X, Z  int16
	Y     byte
	Block byte
}

func (c Change) empty() bool { return c.Block == SentinelBlock }

// Store is the fixed-capacity, bucket-indexed block-change log of spec
// §3/§4.B. It does not itself know how to compute a procedural base block;
// callers supply that via BaseBlockFunc so the store stays a pure append-
// with-reuse log, independent of the generator.
type Store struct {
	records [MaxBlockChanges]Change
	next    [MaxBlockChanges]int32 // singly-linked chain within a bucket, -1 = end
	high    int                    // one past the highest index ever used
	index   *intintmap.Map         // bucket(int64) -> head index (int64); rebuilt lazily
	dirty   bool

	// Chests is a side table of chest inventories keyed by the chest's head
	// record index, per DESIGN.md's rejection of the source's pointer-alias
	// hack: contents are a typed 27-slot array, never raw bytes threaded
	// through a player's crafting buffer.
	Chests map[int]*ChestInventory
}

// ChestInventory is the typed view over a chest's 27 item slots.
type ChestInventory struct {
	Slots [27]ItemStack
}

// ItemStack is a (item id, count) pair; an empty slot has ItemID 0.
type ItemStack struct {
	ItemID uint16
	Count  uint8
}

// NewStore creates an empty block-change log.
func NewStore() *Store {
	s := &Store{
		index:  intintmap.New(BucketCount*2, 0.75),
		Chests: make(map[int]*ChestInventory),
	}
	for i := range s.next {
		s.next[i] = -1
	}
	for i := range s.records {
		s.records[i].Block = SentinelBlock
	}
	return s
}

// chunkBucket hashes a chunk coordinate into [0, BucketCount). The spec
// leaves this hash unspecified (only the world-generation anchor hash is
// pinned to splitmix64), so xxhash fills the gap.
func chunkBucket(chunkX, chunkZ int32) int64 {
	var buf [8]byte
	buf[0] = byte(chunkX)
	buf[1] = byte(chunkX >> 8)
	buf[2] = byte(chunkX >> 16)
	buf[3] = byte(chunkX >> 24)
	buf[4] = byte(chunkZ)
	buf[5] = byte(chunkZ >> 8)
	buf[6] = byte(chunkZ >> 16)
	buf[7] = byte(chunkZ >> 24)
	return int64(xxhash.Sum64(buf[:]) % BucketCount)
}

// rebuildIndex walks the whole active range and rebuilds the bucket head
// table plus the next[] chains from scratch. Called lazily the first time a
// query needs the index after a mutation marked it dirty.
func (s *Store) rebuildIndex() {
	s.index = intintmap.New(BucketCount*2, 0.75)
	heads := make(map[int64]int32, BucketCount)
	for i := range s.next {
		s.next[i] = -1
	}
	i := 0
	for i < s.high {
		rec := s.records[i]
		isChestHead := s.Chests[i] != nil
		if !rec.empty() {
			bucket := chunkBucket(chunkOf(rec.X), chunkOf(rec.Z))
			s.next[i] = headOr(heads, bucket)
			heads[bucket] = int32(i)
		}
		if isChestHead {
			i += ChestStride
		} else {
			i++
		}
	}
	for b, head := range heads {
		s.index.Put(b, int64(head))
	}
	s.dirty = false
}

func headOr(m map[int64]int32, bucket int64) int32 {
	if v, ok := m[bucket]; ok {
		return v
	}
	return -1
}

// chunkOf converts a block coordinate to its containing client chunk
// coordinate (16-block columns), the unit chunk queries address — distinct
// from the CHUNK_SIZE=8 anchor/minichunk lattice pkg/world's generator uses
// for height interpolation.
func chunkOf(v int16) int32 {
	return int32(v) >> 4
}

func (s *Store) ensureIndex() {
	if s.dirty {
		s.rebuildIndex()
	}
}

// Get walks the chunk bucket chain for (x,z) and returns the stored block
// plus true if an override exists, or (0, false) for "no override" — the
// caller falls back to the procedural base block. The bucket walk never
// returns a sentinel record as the chain head (spec §8): sentinel slots are
// skipped entirely during rebuild, never linked in.
func (s *Store) Get(x int16, y byte, z int16) (byte, bool) {
	s.ensureIndex()
	bucket := chunkBucket(chunkOf(x), chunkOf(z))
	head, ok := s.index.Get(bucket)
	if !ok {
		return 0, false
	}
	idx := int32(head)
	for idx != -1 {
		rec := s.records[idx]
		if rec.X == x && rec.Z == z && rec.Y == y && !rec.empty() {
			return rec.Block, true
		}
		idx = s.next[idx]
	}
	return 0, false
}

// findExisting returns the index of a non-sentinel record at (x,y,z), or -1.
func (s *Store) findExisting(x int16, y byte, z int16) int {
	for i := 0; i < s.high; i++ {
		rec := s.records[i]
		if rec.X == x && rec.Y == y && rec.Z == z && !rec.empty() {
			return i
		}
	}
	return -1
}

// findGap returns the index of the first run of n consecutive free slots
// within the active range, extending the high-water mark if the run must
// spill past it, or -1 if MaxBlockChanges has no room. A chest head's whole
// stride (itself plus its 14 trailing records) is skipped as a block,
// matching rebuildIndex/ScanHighWater/Count's chest-aware walk — checking
// Chests only at the head index (as an earlier version of this method did)
// left the 14 trailing records looking like ordinary free sentinel slots to
// everyone except those three other walkers, so a gap search could hand a
// chest's reserved inventory space to an unrelated placement.
func (s *Store) findGap(n int) int {
	run := 0
	start := -1
	i := 0
	for i < MaxBlockChanges {
		if _, isChest := s.Chests[i]; isChest {
			run = 0
			i += ChestStride
			continue
		}
		if i >= s.high || s.records[i].empty() {
			if run == 0 {
				start = i
			}
			run++
			if run == n {
				return start
			}
			i++
			continue
		}
		run = 0
		i++
	}
	return -1
}

// clearChestTrailing frees the 14 records following a chest head.
func (s *Store) clearChestTrailing(head int) {
	delete(s.Chests, head)
	for i := head + 1; i <= head+ChestTrailingRecords && i < MaxBlockChanges; i++ {
		s.records[i] = Change{Block: SentinelBlock}
	}
}

func (s *Store) extendHighWater(upto int) {
	if upto > s.high {
		s.high = upto
	}
}

// Set mutates the block-change log per spec §4.B's makeBlockChange
// algorithm. base is the procedurally-generated block at (x,y,z); isChest
// reports whether block/base are the chest block id, driving the 15-record
// allocation dance. Returns ok=false (with the store unchanged) when a
// chest placement needs a contiguous 15-slot gap that doesn't exist —
// callers implement failBlockChange's rollback-and-warn behavior on that
// signal.
func (s *Store) Set(x int16, y byte, z int16, block, base byte, isChestBlock func(byte) bool) bool {
	if block == base {
		if i := s.findExisting(x, y, z); i != -1 {
			if isChestBlock(s.records[i].Block) {
				s.clearChestTrailing(i)
			}
			s.records[i] = Change{Block: SentinelBlock}
			s.dirty = true
		}
		return true
	}

	if i := s.findExisting(x, y, z); i != -1 {
		wasChest := isChestBlock(s.records[i].Block)
		if wasChest {
			s.clearChestTrailing(i)
		}
		if isChestBlock(block) {
			old := s.records[i]
			s.records[i] = Change{Block: SentinelBlock}
			gap := s.findGap(ChestStride)
			if gap == -1 {
				s.records[i] = old
				return false
			}
			return s.allocateChest(gap, x, y, z, block)
		}
		s.records[i] = Change{X: x, Z: z, Y: y, Block: block}
		s.dirty = true
		return true
	}

	if isChestBlock(block) {
		gap := s.findGap(ChestStride)
		if gap == -1 {
			return false
		}
		return s.allocateChest(gap, x, y, z, block)
	}

	gap := s.findGap(1)
	if gap == -1 {
		return false
	}
	s.records[gap] = Change{X: x, Z: z, Y: y, Block: block}
	s.extendHighWater(gap + 1)
	s.dirty = true
	return true
}

func (s *Store) allocateChest(at int, x int16, y byte, z int16, block byte) bool {
	if at+ChestTrailingRecords >= MaxBlockChanges {
		return false
	}
	s.records[at] = Change{X: x, Z: z, Y: y, Block: block}
	for i := at + 1; i <= at+ChestTrailingRecords; i++ {
		s.records[i] = Change{Block: SentinelBlock}
	}
	s.Chests[at] = &ChestInventory{}
	s.extendHighWater(at + ChestStride)
	s.dirty = true
	return true
}

// ChestAt returns the chest inventory whose head record matches (x,y,z), or
// nil if there is none.
func (s *Store) ChestAt(x int16, y byte, z int16) *ChestInventory {
	i := s.findExisting(x, y, z)
	if i == -1 {
		return nil
	}
	return s.Chests[i]
}

// Count returns the number of live (non-sentinel, non-chest-trailing)
// records, matching the "restored block-change count" testable property.
func (s *Store) Count() int {
	n := 0
	i := 0
	for i < s.high {
		if _, isChest := s.Chests[i]; isChest {
			n++
			i += ChestStride
			continue
		}
		if !s.records[i].empty() {
			n++
		}
		i++
	}
	return n
}

// HighWater returns one past the highest index ever used, needed by the
// persistence layer to know how much of the fixed-size on-disk array is
// live.
func (s *Store) HighWater() int { return s.high }

// RecordAt exposes a raw record for persistence writers; index must be in
// [0, HighWater()).
func (s *Store) RecordAt(i int) Change { return s.records[i] }

// RestoreRecord is used by the persistence loader to repopulate a slot
// without going through Set's procedural-base comparison (the loader
// already knows these are authoritative overrides).
func (s *Store) RestoreRecord(i int, c Change) {
	s.records[i] = c
	s.extendHighWater(i + 1)
	s.dirty = true
}

// RestoreChest attaches a decoded chest inventory to the record at index i.
func (s *Store) RestoreChest(i int, inv *ChestInventory) {
	s.Chests[i] = inv
}

// ChestInventoryAt reports the chest inventory anchored at head record i, if
// any — used by the persistence writer to know which records' trailing
// range to pack as inventory bytes instead of plain sentinel changes.
func (s *Store) ChestInventoryAt(i int) (*ChestInventory, bool) {
	inv, ok := s.Chests[i]
	return inv, ok
}

// ScanHighWater rebuilds high from the raw record array, respecting the
// chest 15-record stride, per spec §4.F ("block-change count is rebuilt by
// scanning for the highest non-sentinel index").
func (s *Store) ScanHighWater() {
	highest := -1
	i := 0
	for i < MaxBlockChanges {
		if _, isChest := s.Chests[i]; isChest {
			highest = i + ChestTrailingRecords
			i += ChestStride
			continue
		}
		if !s.records[i].empty() {
			highest = i
		}
		i++
	}
	s.high = highest + 1
	s.dirty = true
}

package world

import "github.com/nethr-io/nethr/pkg/protocol"

// This file is the Go port of original_source/src/packets.c's
// sc_chunkDataAndUpdateLight/buildChunkSection/sc_blockUpdate. The teacher
// (ChickenIQ-VibeShitCraft) encodes a single 1.8-era flat superflat column;
// this keeps the teacher's "build a byte buffer, hand it to the packet
// writer" shape but replaces the superflat encoder with the source's
// 24/32-section, anchor-driven column builder adapted to the modern
// indirect-palette section format (spec §4.C/§4.D).

const (
	// BedrockSections, GeneratedSections and AirSections are the fixed
	// section counts the wire format sends per column; spec §9 (REDESIGN
	// FLAGS) flags the "24" in the packet prose as informal and says to
	// treat the literal 4/20/8 split as the fixed constant tied to this
	// protocol revision — 32 sections sent, of which 24 carry meaningful
	// terrain (4 bedrock + 20 generated).
	BedrockSections   = 4
	GeneratedSections = 20
	AirSections       = 8

	sectionBlockCount = 4096
	sectionByteLen    = 4096

	skyLightSectionBytes = 2048
	skyLightDarkCount     = 8
	skyLightFullCount     = 18
	skyLightArrayCount    = skyLightDarkCount + skyLightFullCount

	// lightMaskAllSections is the lowest 26 bits set, matching the source's
	// literal light mask for a column with light data in every section.
	lightMaskAllSections = 0x3FFFFFF

	// bedrockPaletteID and airPaletteID are the single-value palette
	// literals sent for the uniform sections. The source writes a raw
	// block-registry id here (85 for bedrock in the retrieved source); this
	// rewrite keeps its own small internal id space (see networkBlockID)
	// rather than reproducing a vanilla registry id unverifiable offline.
	bedrockPaletteID = int32(BlockBedrock)
	airPaletteID     = int32(BlockAir)
)

var (
	skyLightFullBuf [skyLightSectionBytes]byte
	skyLightDarkBuf [skyLightSectionBytes]byte
)

func init() {
	for i := range skyLightFullBuf {
		skyLightFullBuf[i] = 0xFF
	}
}

// networkBlockID maps an internal Block id to the wire block-state id. This
// server defines its own compact palette (pkg/world/blocks.go) rather than
// embedding the full vanilla block-state registry, so the mapping is the
// identity function — see DESIGN.md for why reproducing real vanilla ids
// was judged out of scope.
func networkBlockID(b Block) int32 { return int32(b) }

// buildSectionBody is the Go port of buildChunkSection's per-block loop: it
// fills a 4096-entry body reversing each 8-block run to match the client's
// big-endian long packing, then overlays block-change overrides (skipping
// torches and chests, which are sent as separate block updates so their
// light emission is applied after the column renders).
func (g *Generator) buildSectionBody(store *Store, chunkX, chunkZ, sectionY int32) (body [sectionBlockCount]Block, biome Biome) {
	anchorX := divFloor32(chunkX*16, ChunkSize)
	anchorZ := divFloor32(chunkZ*16, ChunkSize)
	biome = g.BiomeAt(anchorX, anchorZ)

	baseX := chunkX * 16
	baseZ := chunkZ * 16

	for j := 0; j < sectionBlockCount; j += 8 {
		y := int32(j/256) + sectionY
		rz := int32(j/16) % 16
		for offset := 7; offset >= 0; offset-- {
			k := j + offset
			rx := int32(k % 16)
			x := baseX + rx
			z := baseZ + rz

			block := g.BlockAt(x, y, z)
			if y >= 0 && y <= 255 {
				if override, ok := store.Get(int16(x), byte(y), int16(z)); ok {
					ob := Block(override)
					if ob != BlockTorch && ob != BlockChest {
						block = ob
					}
				}
			}
			body[j+7-offset] = block
		}
	}
	return body, biome
}

func writeUniformSection(data *protocol.Writer, paletteID int32) {
	data.Uint16(sectionBlockCount)
	data.Byte(0) // bits per entry: 0 means "single-value palette"
	data.VarInt(paletteID)
	data.Byte(0) // biome bits per entry
	data.Byte(0) // biome palette (single value: 0)
}

func writeGeneratedSection(data *protocol.Writer, body [sectionBlockCount]Block, biome Biome) {
	data.Uint16(sectionBlockCount)
	data.Byte(8) // bits per entry: fixed at one byte per block
	data.VarInt(256)
	for i := 0; i < 256; i++ {
		data.Byte(byte(networkBlockID(Block(i))))
	}
	for _, b := range body {
		data.Byte(byte(b))
	}
	data.Byte(0) // biome bits per entry
	data.Byte(byte(biome))
}

// EncodeChunkColumn builds the play/clientbound level_chunk_with_light
// (0x2C) payload for chunk (chunkX, chunkZ): chunk coordinates, omitted
// heightmaps, the 32-section block data, zero block entities, and the
// fixed sky-light arrays (spec §4.D). Callers prepend the length/id framing
// via protocol.Frame.
func EncodeChunkColumn(gen *Generator, store *Store, chunkX, chunkZ int32) []byte {
	w := protocol.NewWriter()
	w.Int32(chunkX)
	w.Int32(chunkZ)
	w.VarInt(0) // heightmaps omitted

	data := protocol.NewWriter()
	for i := 0; i < BedrockSections; i++ {
		writeUniformSection(data, bedrockPaletteID)
	}
	for i := 0; i < GeneratedSections; i++ {
		sectionY := int32(i * 16)
		body, biome := gen.buildSectionBody(store, chunkX, chunkZ, sectionY)
		writeGeneratedSection(data, body, biome)
	}
	for i := 0; i < AirSections; i++ {
		writeUniformSection(data, airPaletteID)
	}

	w.VarInt(int32(data.Len()))
	w.Raw(data.Bytes())

	w.VarInt(0) // block entities

	w.VarInt(1)
	w.Uint64(lightMaskAllSections)
	w.VarInt(0) // empty sky-light update mask
	w.VarInt(0) // empty block-light update mask
	w.VarInt(0) // empty block-light mask

	w.VarInt(skyLightArrayCount)
	for i := 0; i < skyLightDarkCount; i++ {
		w.VarInt(skyLightSectionBytes)
		w.Raw(skyLightDarkBuf[:])
	}
	for i := 0; i < skyLightFullCount; i++ {
		w.VarInt(skyLightSectionBytes)
		w.Raw(skyLightFullBuf[:])
	}
	w.VarInt(0) // no block-light arrays

	return w.Bytes()
}

// EncodeBlockUpdate builds the play/clientbound block_update (0x08) payload:
// packed position then the block's network palette id.
func EncodeBlockUpdate(x int32, y int32, z int32, block Block) []byte {
	w := protocol.NewWriter()
	w.Position(x, y, z)
	w.VarInt(networkBlockID(block))
	return w.Bytes()
}

// DeferredOverrides walks the block-change store for a chunk and returns the
// torch/chest overrides that buildSectionBody skipped, for the caller to
// emit as block updates after the chunk packet (spec §4.C: "deferred to
// separate post-chunk block-update packets so the client's light prediction
// uses them as emitters").
func DeferredOverrides(store *Store, chunkX, chunkZ int32) []Change {
	var out []Change
	for i := 0; i < store.HighWater(); i++ {
		rec := store.RecordAt(i)
		if rec.empty() {
			continue
		}
		if int32(rec.X)>>4 != chunkX || int32(rec.Z)>>4 != chunkZ {
			continue
		}
		b := Block(rec.Block)
		if b == BlockTorch || b == BlockChest {
			out = append(out, rec)
		}
	}
	return out
}

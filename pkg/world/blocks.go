package world

// Block is a palette value: the numeric id carried by block-change records,
// chunk-section palettes, and block-update packets alike. This server
// defines its own small global palette rather than the full vanilla block
// state space (spec §1 non-goals: no mod/plugin registry, no full-resolution
// lighting) — ids below are chosen to need few bits per section and to read
// sensibly in block-update packets to an unmodified 1.21.x client.
type Block byte

const (
	BlockAir Block = iota
	BlockStone
	BlockGrassBlock
	BlockDirt
	BlockBedrock
	BlockWater
	BlockLava
	BlockSand
	BlockSandstone
	BlockGravel
	BlockIce
	BlockMud
	BlockOakLog
	BlockOakLeaves
	BlockOakPlanks
	BlockCactus
	BlockDeadBush
	BlockLilyPad
	BlockMossCarpet
	BlockShortGrass
	BlockFern
	BlockPoppy
	BlockDandelion
	BlockBrownMushroom
	BlockRedMushroom
	BlockPumpkin
	BlockChest
	BlockCoalOre
	BlockIronOre
	BlockGoldOre
	BlockRedstoneOre
	BlockDiamondOre
	BlockCopperOre
	BlockCobblestone
	BlockObsidian
	BlockNetherrack
	BlockSnow
	BlockTorch
	BlockSnowBlock

	// Flow variants carry a fluid's remaining spread level (spec §4.E "Fluid
	// flow": water spreads up to level 7, lava up to level 3). The source
	// blocks (BlockWater, BlockLava) are not part of this numbering — they
	// are always full and never decay.
	BlockWaterFlow7
	BlockWaterFlow6
	BlockWaterFlow5
	BlockWaterFlow4
	BlockWaterFlow3
	BlockWaterFlow2
	BlockWaterFlow1
	BlockLavaFlow3
	BlockLavaFlow2
	BlockLavaFlow1
)

// Passable reports whether an entity can occupy the same cell as this
// block — used by mob movement validation and fluid flow (spec §4.E).
func (b Block) Passable() bool {
	switch b {
	case BlockAir, BlockShortGrass, BlockFern, BlockPoppy, BlockDandelion,
		BlockDeadBush, BlockLilyPad, BlockMossCarpet, BlockTorch, BlockSnow:
		return true
	default:
		return false
	}
}

// IsFluid reports whether a block is a fluid source or flow cell.
func (b Block) IsFluid() bool {
	_, _, ok := b.FluidLevel()
	return ok
}

// FluidLevel reports b's spread level and whether it's water (vs lava).
// Source blocks report one level above the highest flow variant (8 for
// water, 4 for lava) so a flow cell adjacent to a source always computes
// one level lower than it, per spec §4.E's level-7/level-3 scheme.
func (b Block) FluidLevel() (level int, isWater bool, ok bool) {
	switch b {
	case BlockWater:
		return 8, true, true
	case BlockLava:
		return 4, false, true
	case BlockWaterFlow7:
		return 7, true, true
	case BlockWaterFlow6:
		return 6, true, true
	case BlockWaterFlow5:
		return 5, true, true
	case BlockWaterFlow4:
		return 4, true, true
	case BlockWaterFlow3:
		return 3, true, true
	case BlockWaterFlow2:
		return 2, true, true
	case BlockWaterFlow1:
		return 1, true, true
	case BlockLavaFlow3:
		return 3, false, true
	case BlockLavaFlow2:
		return 2, false, true
	case BlockLavaFlow1:
		return 1, false, true
	default:
		return 0, false, false
	}
}

// waterFlowByLevel and lavaFlowByLevel map a spread level back to its block
// id, the inverse of FluidLevel for the flow (non-source) variants.
var waterFlowByLevel = [8]Block{0, BlockWaterFlow1, BlockWaterFlow2, BlockWaterFlow3, BlockWaterFlow4, BlockWaterFlow5, BlockWaterFlow6, BlockWaterFlow7}
var lavaFlowByLevel = [4]Block{0, BlockLavaFlow1, BlockLavaFlow2, BlockLavaFlow3}

// FlowBlockAt returns the block id for a fluid of the given kind (water vs
// lava) at level, or BlockAir if level has decayed to nothing.
func FlowBlockAt(level int, isWater bool) Block {
	if level <= 0 {
		return BlockAir
	}
	if isWater {
		if level > 7 {
			level = 7
		}
		return waterFlowByLevel[level]
	}
	if level > 3 {
		level = 3
	}
	return lavaFlowByLevel[level]
}

// IsOre reports whether a block is one of the ore family mined by pickaxes.
func (b Block) IsOre() bool {
	switch b {
	case BlockCoalOre, BlockIronOre, BlockGoldOre, BlockRedstoneOre, BlockDiamondOre, BlockCopperOre:
		return true
	default:
		return false
	}
}

// IsChest reports whether a block is the chest container block (spec §4.B
// step 2/3's "isChestBlock" predicate).
func (b Block) IsChest() bool { return b == BlockChest }

// isChestBlock adapts Block.IsChest to the func(byte) bool signature Store.Set
// expects, keeping the block-change store decoupled from the Block type.
func isChestBlock(raw byte) bool { return Block(raw).IsChest() }

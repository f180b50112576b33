package sim

import (
	"github.com/nethr-io/nethr/pkg/rng"
	"github.com/nethr-io/nethr/pkg/world"
)

// ToolKind enumerates the tool families gating mining, per spec §4.E
// ("pickaxes for stone/ore families; iron-plus for gold/redstone/diamond
// ore; shovel for snow; shears for leaves").
type ToolKind int

const (
	ToolNone ToolKind = iota
	ToolPickaxeWood
	ToolPickaxeIron
	ToolShovel
	ToolShears
	ToolAxe
)

func isIronPlus(t ToolKind) bool { return t == ToolPickaxeIron }

// CanMine reports whether the given tool can break block b at all — not
// every block needs tool-gating (dirt, leaves, decorations all break
// instantly or with any tool); this only enforces the families spec §4.E
// names explicitly.
func CanMine(b world.Block, tool ToolKind) bool {
	switch b {
	case world.BlockStone, world.BlockCobblestone, world.BlockCoalOre,
		world.BlockIronOre, world.BlockCopperOre, world.BlockObsidian:
		return tool == ToolPickaxeWood || tool == ToolPickaxeIron
	case world.BlockGoldOre, world.BlockRedstoneOre, world.BlockDiamondOre:
		return isIronPlus(tool)
	case world.BlockSnow, world.BlockSnowBlock:
		return true // any tool (including bare hand) breaks snow; shovel just speeds it up
	case world.BlockOakLeaves:
		return true // shears improve drop odds but any tool breaks leaves
	default:
		return true
	}
}

// dropTable maps a mined block to the item id it drops under normal
// conditions. Item ids are this server's own compact item-id space (spec
// doesn't pin concrete numeric item ids, only behavior), mirroring how
// pkg/world.Block defines its own compact block-id space rather than the
// real vanilla registry.
var dropTable = map[world.Block]uint16{
	world.BlockStone:       uint16(world.BlockCobblestone),
	world.BlockCobblestone: uint16(world.BlockCobblestone),
	world.BlockCoalOre:     uint16(world.BlockCoalOre),
	world.BlockIronOre:     uint16(world.BlockIronOre),
	world.BlockGoldOre:     uint16(world.BlockGoldOre),
	world.BlockRedstoneOre: uint16(world.BlockRedstoneOre),
	world.BlockDiamondOre:  uint16(world.BlockDiamondOre),
	world.BlockCopperOre:   uint16(world.BlockCopperOre),
	world.BlockOakLog:      uint16(world.BlockOakLog),
	world.BlockSand:        uint16(world.BlockSand),
	world.BlockGravel:      uint16(world.BlockGravel),
	world.BlockDirt:        uint16(world.BlockDirt),
	world.BlockGrassBlock:  uint16(world.BlockDirt),
}

// shearLeafDropChance is spec §4.E's example threshold expressed as a
// uint32 Bernoulli numerator over 2^32 ("apple 0.5% = 21474836 / 2^32").
// Leaves broken without shears drop an oak log at this rate (the block
// palette has no sapling) and nothing otherwise.
const shearLeafDropChance uint32 = 21474836

// MineDrop computes the item a mined block drops, or (0, false) for "no
// drop" (air, fluids, and features with no drop table entry). g is the
// shared gameplay RNG — leaf drops are probabilistic.
func MineDrop(b world.Block, tool ToolKind, g *rng.Gameplay) (uint16, bool) {
	if b == world.BlockOakLeaves {
		if tool == ToolShears {
			return uint16(world.BlockOakLeaves), true
		}
		if g.Threshold32(shearLeafDropChance) {
			return uint16(world.BlockOakLog), true // oak log: the palette has no sapling block
		}
		return 0, false
	}
	id, ok := dropTable[b]
	return id, ok
}

// ToolDurabilityBreaks rolls the gameplay RNG against a tool-specific wear
// threshold on every use bump, per spec §4.E: "on every bump the gameplay
// RNG is rolled against a tool-specific threshold; success = break."
func ToolDurabilityBreaks(g *rng.Gameplay, breakChance uint32) bool {
	return g.Threshold32(breakChance)
}

// Standard per-use break chances for the tool kinds this server models,
// expressed as the same uint32-over-2^32 Bernoulli convention as MineDrop.
const (
	WoodToolBreakChance uint32 = 73014444  // ~1/59 (59 uses)
	IronToolBreakChance uint32 = 28633182  // ~1/150 (150 uses)
)

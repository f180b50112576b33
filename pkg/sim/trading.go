package sim

import "github.com/nethr-io/nethr/pkg/world"

// VillagerJob is spec §4.E's job parameter gating which trade table a
// villager offers.
type VillagerJob byte

const (
	JobNone VillagerJob = iota
	JobFarmer
	JobLibrarian
	JobToolsmith
)

// Trade is one (input, output) pair a villager can execute once its job
// and level unlock it.
type Trade struct {
	InputItem  uint16
	InputCount uint8
	OutputItem uint16
	OutputCount uint8
	MinLevel   int // 0 = basic, 1 = advanced (spec §4.E)
}

// XP promotion thresholds, spec §4.E: "promote level at thresholds 4 and
// 10."
const (
	PromoteToLevel1XP = 4
	PromoteToLevel2XP = 10
)

var tradeTables = map[VillagerJob][]Trade{
	JobFarmer: {
		{InputItem: uint16(world.BlockDirt), InputCount: 20, OutputItem: uint16(world.BlockPumpkin), OutputCount: 1, MinLevel: 0},
		{InputItem: uint16(world.BlockPumpkin), InputCount: 4, OutputItem: uint16(world.BlockCoalOre), OutputCount: 1, MinLevel: 1},
	},
	JobLibrarian: {
		{InputItem: uint16(world.BlockOakPlanks), InputCount: 24, OutputItem: uint16(world.BlockOakLog), OutputCount: 1, MinLevel: 0},
	},
	JobToolsmith: {
		{InputItem: uint16(world.BlockCoalOre), InputCount: 16, OutputItem: uint16(world.BlockIronOre), OutputCount: 1, MinLevel: 0},
		{InputItem: uint16(world.BlockIronOre), InputCount: 8, OutputItem: uint16(world.BlockDiamondOre), OutputCount: 1, MinLevel: 1},
	},
}

// VillagerLevel derives the unlocked trade tier from accumulated XP.
func VillagerLevel(xp int) int {
	switch {
	case xp >= PromoteToLevel2XP:
		return 2
	case xp >= PromoteToLevel1XP:
		return 1
	default:
		return 0
	}
}

// AvailableTrades returns the trades a villager of the given job and level
// currently offers.
func AvailableTrades(job VillagerJob, level int) []Trade {
	var out []Trade
	for _, t := range tradeTables[job] {
		if t.MinLevel <= minLevelTier(level) {
			out = append(out, t)
		}
	}
	return out
}

func minLevelTier(level int) int {
	if level >= 1 {
		return 1
	}
	return 0
}

// ExecuteTrade matches held against one of the villager's available trades;
// on success it returns the output to grant and the XP gained (1 per
// trade, per spec §4.E "increment XP").
func ExecuteTrade(job VillagerJob, level int, held world.ItemStack) (output world.ItemStack, xpGained int, ok bool) {
	for _, t := range AvailableTrades(job, level) {
		if held.ItemID == t.InputItem && held.Count >= t.InputCount {
			return world.ItemStack{ItemID: t.OutputItem, Count: t.OutputCount}, 1, true
		}
	}
	return world.ItemStack{}, 0, false
}

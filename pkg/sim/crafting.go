package sim

import "github.com/nethr-io/nethr/pkg/world"

// Recipe is a structural shaped-crafting entry: a 3x3 grid of item ids (0 =
// empty) matched exactly against the crafting buffer's contents, per spec
// §4.E "recipe matching is structural (shape + item ids)."
type Recipe struct {
	Grid   [9]uint16
	Output world.ItemStack
}

var recipes = []Recipe{
	{
		Grid: [9]uint16{
			uint16(world.BlockOakLog), uint16(world.BlockOakLog), 0,
			uint16(world.BlockOakLog), uint16(world.BlockOakLog), 0,
			0, 0, 0,
		},
		Output: world.ItemStack{ItemID: uint16(world.BlockOakPlanks), Count: 4},
	},
	{
		Grid: [9]uint16{
			uint16(world.BlockCobblestone), uint16(world.BlockCobblestone), uint16(world.BlockCobblestone),
			uint16(world.BlockCobblestone), 0, uint16(world.BlockCobblestone),
			uint16(world.BlockCobblestone), uint16(world.BlockCobblestone), uint16(world.BlockCobblestone),
		},
		Output: world.ItemStack{ItemID: uint16(world.BlockChest), Count: 1},
	},
}

// gridItemIDs extracts the 3x3 crafting-grid item ids (server slots
// CraftStart..CraftStart+8) from an inventory, ignoring counts — structural
// matching only cares about presence, per spec.
func gridItemIDs(inv *Inventory) [9]uint16 {
	var out [9]uint16
	for i := 0; i < 9; i++ {
		out[i] = inv.Slots[CraftStart+i].ItemID
	}
	return out
}

// MatchRecipe returns the output a 3x3 crafting grid currently produces, or
// (zero, false) if nothing matches. The match does not consume inputs —
// spec §4.E: "a match sets the output slot but does not consume inputs
// until the player clicks the output."
func MatchRecipe(inv *Inventory) (world.ItemStack, bool) {
	grid := gridItemIDs(inv)
	for _, r := range recipes {
		if r.Grid == grid {
			return r.Output, true
		}
	}
	return world.ItemStack{}, false
}

// ConsumeRecipeInputs decrements one unit from every non-empty crafting
// grid cell, called only when the player actually takes the output slot.
func ConsumeRecipeInputs(inv *Inventory) {
	for i := 0; i < 9; i++ {
		s := &inv.Slots[CraftStart+i]
		if s.ItemID == 0 {
			continue
		}
		s.Count--
		if s.Count == 0 {
			*s = world.ItemStack{}
		}
	}
}

// smeltTable maps a furnace input item id to its smelted output, with no
// fuel model — spec §4.E: "Smelting selects output based on input slot
// contents without a fuel model (simulated burn is immediate)."
var smeltTable = map[uint16]uint16{
	uint16(world.BlockIronOre): uint16(world.BlockIronOre),
	uint16(world.BlockGoldOre): uint16(world.BlockGoldOre),
	uint16(world.BlockSand):    uint16(world.BlockSandstone),
}

// MatchSmelt returns the smelted output for a furnace's input slot
// contents, or (zero, false) if the input has no smelting recipe.
func MatchSmelt(inputItemID uint16) (uint16, bool) {
	out, ok := smeltTable[inputItemID]
	return out, ok
}

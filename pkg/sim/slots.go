// Package sim implements the tick-driven player/mob simulation: inventory
// slot mapping, crafting/smelting, eating, mining, damage, mob AI, villager
// trading, and chest storage (spec §4.E). It is the Go port of the
// teacher's (ChickenIQ-VibeShitCraft) pkg/server inventory/combat/entity
// logic, generalized from the teacher's fixed 1.8 45-slot single-window
// inventory to the server-slot/client-slot split spec §4.E requires.
package sim

import "github.com/nethr-io/nethr/pkg/world"

// Server-side slot ranges (spec §4.E): the player's inventory is one flat
// array regardless of which client window is currently open.
const (
	HotbarStart = 0
	HotbarEnd   = 8
	MainStart   = 9
	MainEnd     = 35
	ArmorStart  = 36
	ArmorEnd    = 39
	OffhandSlot = 40
	CraftStart  = 41
	CraftEnd    = 49

	InventorySize = CraftEnd + 1
)

// Window identifies the client-side container layout currently open,
// driving how ClickContainer slot indices map onto the server's flat
// inventory array.
type Window int32

const (
	WindowPlayerInventory Window = iota
	WindowCraftingTable
	WindowFurnace
	WindowChest
)

// clientLayout is the ordered list of server-slot ranges a window's client
// slot numbering walks through, low to high. A crafting/furnace/chest
// window prepends its own grid slots (addressed separately, see
// ClientSlotToServerSlot) before falling into the shared inventory tail.
func clientLayout(w Window) (gridSlots int, craftOutputFirst bool) {
	switch w {
	case WindowCraftingTable:
		return 9, true // 3x3 grid + 1 output, output addressed first
	case WindowFurnace:
		return 2, true // input + fuel, +1 output addressed first
	case WindowChest:
		return 27, false
	default:
		return 0, false
	}
}

// ClientSlotToServerSlot maps a ClickContainer packet's clicked_slot (spec
// §4.D) to a server inventory index for the given window. The crafting
// table's 3x3 grid addresses the shared CraftStart..CraftEnd buffer; a
// furnace's input+fuel cells reuse the buffer's first two entries. The
// output slot (crafting/furnace) and a chest's own 27 cells are not part
// of the flat player inventory at all — output is a computed, non-stored
// cell and chest contents live in the block-change store's side table
// (spec §4.E "Chest storage") — so both map to -1; callers route those
// through the window's dedicated state instead.
func ClientSlotToServerSlot(w Window, clientSlot int) int {
	gridSlots, hasOutput := clientLayout(w)
	ownSlots := gridSlots
	if hasOutput {
		ownSlots++
	}
	if clientSlot < ownSlots {
		return ownGridServerSlot(w, clientSlot, hasOutput)
	}
	return mapMainHotbar(clientSlot - ownSlots)
}

// ownGridServerSlot maps a window's own grid cells (excluding any output
// slot) to the shared crafting buffer for windows backed by it, or -1 for
// windows whose own cells aren't backed by the flat player inventory.
func ownGridServerSlot(w Window, clientSlot int, hasOutput bool) int {
	offset := 0
	if hasOutput {
		if clientSlot == 0 {
			return -1 // output: computed, never stored
		}
		offset = 1
	}
	cell := clientSlot - offset
	switch w {
	case WindowCraftingTable, WindowFurnace:
		if CraftStart+cell > CraftEnd {
			return -1
		}
		return CraftStart + cell
	default:
		return -1
	}
}

// mapMainHotbar maps a window's shared "main inventory + hotbar" tail
// (always 27 main slots then 9 hotbar slots, the common layout across every
// container window per the wire protocol) onto server slots.
func mapMainHotbar(rel int) int {
	switch {
	case rel >= 0 && rel < 27:
		return MainStart + rel
	case rel >= 27 && rel < 36:
		return HotbarStart + (rel - 27)
	default:
		return -1
	}
}

// ServerSlotToClientSlot is mapMainHotbar's inverse composed with the
// window's own-slot offset, satisfying the round-trip invariant spec §8
// requires: ServerSlotToClientSlot(w, ClientSlotToServerSlot(w, s)) == s for
// every client slot s that addresses the shared inventory tail.
func ServerSlotToClientSlot(w Window, serverSlot int) int {
	gridSlots, hasOutput := clientLayout(w)
	ownSlots := gridSlots
	if hasOutput {
		ownSlots++
	}
	switch {
	case serverSlot >= MainStart && serverSlot <= MainEnd:
		return ownSlots + (serverSlot - MainStart)
	case serverSlot >= HotbarStart && serverSlot <= HotbarEnd:
		return ownSlots + 27 + (serverSlot - HotbarStart)
	case serverSlot >= CraftStart && serverSlot <= CraftEnd && (w == WindowCraftingTable || w == WindowFurnace):
		cell := serverSlot - CraftStart
		offset := 0
		if hasOutput {
			offset = 1
		}
		clientSlot := cell + offset
		if clientSlot >= ownSlots {
			return -1
		}
		return clientSlot
	default:
		return -1
	}
}

// Inventory is the server-side 41-slot + 9-crafting-slot item store backing
// one player, independent of whatever client window currently views it.
type Inventory struct {
	Slots [InventorySize]world.ItemStack
}

// HeldItem returns the item in the currently selected hotbar slot.
func (inv *Inventory) HeldItem(hotbarIndex int) world.ItemStack {
	if hotbarIndex < 0 || hotbarIndex > HotbarEnd {
		return world.ItemStack{}
	}
	return inv.Slots[HotbarStart+hotbarIndex]
}

// Armor returns the four armor slots (boots, leggings, chestplate, helmet
// order, matching the client's fixed armor window slots).
func (inv *Inventory) Armor() [4]world.ItemStack {
	var out [4]world.ItemStack
	copy(out[:], inv.Slots[ArmorStart:ArmorEnd+1])
	return out
}

package sim

import "testing"

func TestSlotRoundTripMainHotbar(t *testing.T) {
	for _, w := range []Window{WindowPlayerInventory, WindowCraftingTable, WindowFurnace, WindowChest} {
		for server := HotbarStart; server <= MainEnd; server++ {
			if server > MainEnd && server < HotbarStart {
				continue
			}
			client := ServerSlotToClientSlot(w, server)
			if client == -1 {
				t.Fatalf("window %v: server slot %d has no client slot", w, server)
			}
			back := ClientSlotToServerSlot(w, client)
			if back != server {
				t.Errorf("window %v: round trip server->client->server: %d -> %d -> %d", w, server, client, back)
			}
		}
	}
}

func TestSlotRoundTripCraftingBuffer(t *testing.T) {
	for _, w := range []Window{WindowCraftingTable, WindowFurnace} {
		for server := CraftStart; server <= CraftEnd; server++ {
			client := ServerSlotToClientSlot(w, server)
			if client == -1 {
				continue // furnace only exposes 2 of the 9 buffer cells
			}
			back := ClientSlotToServerSlot(w, client)
			if back != server {
				t.Errorf("window %v: craft round trip %d -> %d -> %d", w, server, client, back)
			}
		}
	}
}

func TestSlotRoundTripClientToServerToClient(t *testing.T) {
	for _, w := range []Window{WindowPlayerInventory, WindowCraftingTable, WindowFurnace, WindowChest} {
		gridSlots, hasOutput := clientLayout(w)
		ownSlots := gridSlots
		if hasOutput {
			ownSlots++
		}
		total := ownSlots + 36
		for client := 0; client < total; client++ {
			server := ClientSlotToServerSlot(w, client)
			if server == -1 {
				continue // output / chest-own cells have no flat-inventory backing
			}
			back := ServerSlotToClientSlot(w, server)
			if back != client {
				t.Errorf("window %v: client round trip %d -> %d -> %d", w, client, server, back)
			}
		}
	}
}

func TestOutputSlotNeverMapsToInventory(t *testing.T) {
	if s := ClientSlotToServerSlot(WindowCraftingTable, 0); s != -1 {
		t.Errorf("crafting table output slot mapped to server slot %d, want -1", s)
	}
	if s := ClientSlotToServerSlot(WindowFurnace, 0); s != -1 {
		t.Errorf("furnace output slot mapped to server slot %d, want -1", s)
	}
}

func TestChestOwnSlotsNeverMapToInventory(t *testing.T) {
	for client := 0; client < 27; client++ {
		if s := ClientSlotToServerSlot(WindowChest, client); s != -1 {
			t.Errorf("chest own slot %d mapped to server slot %d, want -1", client, s)
		}
	}
}

func TestInventoryHeldItemBounds(t *testing.T) {
	var inv Inventory
	inv.Slots[HotbarStart+3].ItemID = 42
	inv.Slots[HotbarStart+3].Count = 5
	if item := inv.HeldItem(3); item.ItemID != 42 || item.Count != 5 {
		t.Errorf("HeldItem(3) = %+v, want {42 5}", item)
	}
	if item := inv.HeldItem(99); item.ItemID != 0 {
		t.Errorf("HeldItem(99) out of range should be empty, got %+v", item)
	}
}

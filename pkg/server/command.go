package server

import (
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/nethr-io/nethr/pkg/chat"
	"github.com/nethr-io/nethr/pkg/sim"
	"github.com/nethr-io/nethr/pkg/world"
)

// handleChat dispatches a chat line: a leading "/" is a command, everything
// else is broadcast system chat — spec §4.G tick step "chat and command
// dispatch."
func (s *Server) handleChat(p *Player, msg string) {
	if strings.HasPrefix(msg, "/") {
		s.handleCommand(p, msg)
		return
	}
	s.broadcastSystemChat(p.Name + ": " + msg)
}

func (s *Server) handleCommand(p *Player, msg string) {
	parts := strings.Fields(msg)
	if len(parts) == 0 {
		return
	}
	switch strings.ToLower(parts[0]) {
	case "/gamemode", "/gm":
		s.cmdGamemode(p, parts[1:])
	case "/tp", "/teleport":
		s.cmdTeleport(p, parts[1:])
	case "/trade":
		s.cmdTrade(p)
	default:
		s.sendSystemChatTo(p, chat.Colored("Unknown command: "+parts[0], "red").String())
	}
}

func (s *Server) cmdGamemode(p *Player, args []string) {
	if len(args) < 1 {
		s.sendSystemChatTo(p, chat.Colored("Usage: /gamemode <survival|creative|adventure|spectator>", "red").String())
		return
	}
	switch strings.ToLower(args[0]) {
	case "survival", "0":
		p.GameMode = GameModeSurvival
	case "creative", "1":
		p.GameMode = GameModeCreative
	case "adventure", "2":
		p.GameMode = GameModeAdventure
	case "spectator", "3":
		p.GameMode = GameModeSpectator
	default:
		s.sendSystemChatTo(p, chat.Colored("Unknown gamemode: "+args[0], "red").String())
		return
	}
	s.sendSystemChatTo(p, chat.Colored("Gamemode updated", "gray").String())
}

// tradeRange bounds how far a player can be from a villager mob and still
// trade with it via /trade — the minimal stand-in for an interact-with-
// entity packet, which spec §6's fixed catalog has no id for (mobs are
// never announced to clients in this server, so there is no entity id a
// client could target anyway).
const tradeRange = 4.0

func (s *Server) cmdTrade(p *Player) {
	idx := s.mobs.nearestVillager(mgl64.Vec3{p.X, p.Y, p.Z}, tradeRange)
	if idx < 0 {
		s.sendSystemChatTo(p, chat.Colored("No villager nearby to trade with", "red").String())
		return
	}
	m := &s.mobs.slots[idx]
	held := p.HeldItem()
	output, xp, ok := sim.ExecuteTrade(m.VillagerJob, m.VillagerLevel, held)
	if !ok {
		s.sendSystemChatTo(p, chat.Colored("The villager has no trade for that item", "gray").String())
		return
	}
	heldSlot := sim.HotbarStart + p.HotbarIndex
	p.Inventory.Slots[heldSlot].Count -= heldForTrade(m.VillagerJob, m.VillagerLevel, held)
	if p.Inventory.Slots[heldSlot].Count == 0 {
		p.Inventory.Slots[heldSlot] = world.ItemStack{}
	}
	addItemToInventory(&p.Inventory, output.ItemID, int(output.Count))

	m.VillagerXP += xp
	m.VillagerLevel = sim.VillagerLevel(m.VillagerXP)

	s.sendSystemChatTo(p, chat.Colored("Traded successfully", "green").String())
}

// heldForTrade reports how many units of held the matched trade consumes,
// re-deriving it from the trade table rather than threading the matched
// Trade back out of sim.ExecuteTrade's boolean-success return.
func heldForTrade(job sim.VillagerJob, level int, held world.ItemStack) uint8 {
	for _, t := range sim.AvailableTrades(job, level) {
		if held.ItemID == t.InputItem && held.Count >= t.InputCount {
			return t.InputCount
		}
	}
	return 0
}

func (s *Server) cmdTeleport(p *Player, args []string) {
	if len(args) != 3 {
		s.sendSystemChatTo(p, chat.Colored("Usage: /tp <x> <y> <z>", "red").String())
		return
	}
	x, errx := strconv.ParseFloat(args[0], 64)
	y, erry := strconv.ParseFloat(args[1], 64)
	z, errz := strconv.ParseFloat(args[2], 64)
	if errx != nil || erry != nil || errz != nil {
		s.sendSystemChatTo(p, chat.Colored("Invalid coordinates", "red").String())
		return
	}
	p.X, p.Y, p.Z = x, y, z
	s.teleportPlayer(p.conn, p)
}

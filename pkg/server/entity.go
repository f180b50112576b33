package server

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/exp/maps"

	"github.com/nethr-io/nethr/pkg/persist"
	"github.com/nethr-io/nethr/pkg/sim"
)

// MaxMobs is spec §3's MAX_MOBS default (MAX_PLAYERS/2).
const MaxMobs = persist.MaxPlayers / 2

// mobSlot pairs one sim.Mob with the entity id it was announced under, so a
// freed slot (Kind == MobKindNone) carries no stale id. VillagerJob/Level/XP
// are spec §3's "parallel arrays of equal length" holding villager state,
// represented per-slot here rather than as separate arrays — the same
// struct-of-fields choice spec §3 already makes for a mob's packed
// health/sheared/panic byte.
type mobSlot struct {
	sim.Mob
	EntityID      int32
	VillagerJob   sim.VillagerJob
	VillagerLevel int
	VillagerXP    int
}

// MobTable is the fixed-capacity array of mob slots spec §3 describes,
// created by spawn and freed on despawn or death-after-countdown.
type MobTable struct {
	slots [MaxMobs]mobSlot
}

func NewMobTable() *MobTable { return &MobTable{} }

// spawn allocates the first free slot for kind at pos, or reports false if
// every slot is occupied.
func (t *MobTable) spawn(kind sim.MobKind, pos mgl64.Vec3, eid int32) bool {
	for i := range t.slots {
		if t.slots[i].Kind == sim.MobKindNone {
			t.slots[i] = mobSlot{Mob: sim.Mob{Kind: kind, Pos: pos, Health: 10}, EntityID: eid}
			return true
		}
	}
	return false
}

// spawnVillager allocates a villager slot with the given job, starting at
// level 0 with no trade XP (spec §4.E "villager trades").
func (t *MobTable) spawnVillager(pos mgl64.Vec3, eid int32, job sim.VillagerJob) bool {
	for i := range t.slots {
		if t.slots[i].Kind == sim.MobKindNone {
			t.slots[i] = mobSlot{
				Mob:         sim.Mob{Kind: sim.MobKindVillager, Pos: pos, Health: 10},
				EntityID:    eid,
				VillagerJob: job,
			}
			return true
		}
	}
	return false
}

// nearestVillager returns the index of the closest villager slot within
// range of pos, or -1 if none is within range.
func (t *MobTable) nearestVillager(pos mgl64.Vec3, rng float64) int {
	best := -1
	bestDist := rng
	for i := range t.slots {
		if t.slots[i].Kind != sim.MobKindVillager {
			continue
		}
		d := manhattanXZ(pos, t.slots[i].Pos)
		if d <= bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func (t *MobTable) free(i int) { t.slots[i] = mobSlot{} }

func (t *MobTable) count() int {
	n := 0
	for i := range t.slots {
		if t.slots[i].Kind != sim.MobKindNone {
			n++
		}
	}
	return n
}

// tickMobs runs one tick of spec §4.G step 3 ("for each allocated mob: if
// dead, decrement y-as-countdown and free when expired; else run AI step
// ... emit movement packets to all visible players") against every player
// currently online, then considers spawning a replacement.
func (s *Server) tickMobs() {
	online := maps.Values(s.players)
	positions := make([]mgl64.Vec3, 0, len(online))
	for _, p := range online {
		positions = append(positions, mgl64.Vec3{p.X, p.Y, p.Z})
	}

	for i := range s.mobs.slots {
		m := &s.mobs.slots[i]
		if m.Kind == sim.MobKindNone {
			continue
		}
		if m.Health <= 0 {
			m.DeathTimer--
			if m.DeathTimer <= 0 {
				s.mobs.free(i)
			}
			continue
		}
		if len(positions) > 0 && sim.ShouldDespawn(m.Pos, positions) {
			s.mobs.free(i)
			continue
		}
		s.stepMob(m, positions)
	}

	s.maybeSpawnMob(positions)
}

// stepMob runs one AI step for m, per spec §4.E's passive-wander and
// hostile-pathing rules.
func (s *Server) stepMob(m *mobSlot, players []mgl64.Vec3) {
	switch m.Kind {
	case sim.MobKindPassive, sim.MobKindVillager:
		s.stepPassive(m)
	case sim.MobKindHostile:
		s.stepHostile(m, players)
	}
}

func (s *Server) stepPassive(m *mobSlot) {
	if m.PanicTicks > 0 {
		m.PanicTicks--
	}
	throttle := 4 * sim.TicksPerSecond // once per ~4s calm
	if m.PanicTicks > 0 {
		throttle = sim.TicksPerSecond / 4 // 4/s while panicked
	}
	if int(s.worldTime)%throttle != 0 {
		return
	}
	step := sim.PassiveWanderStep(s.gameplayRNG)
	s.moveMob(m, step)
}

func (s *Server) stepHostile(m *mobSlot, players []mgl64.Vec3) {
	target, ok := nearestPlayer(m.Pos, players)
	if !ok {
		return
	}
	if sim.IsAdjacentForAttack(m.Pos, target) {
		s.damageNearestPlayer(m.Pos, 2.0)
	} else {
		step := sim.HostileStepToward(m.Pos, target)
		s.moveMob(m, step)
	}
	if m.Pos.Y() > 48 && sim.IsDaylight(s.worldTime%24000) {
		m.Health -= sim.SunlightBurnDamage
		if m.Health <= 0 {
			m.DeathTimer = sim.TicksPerSecond
		}
	}
}

// moveMob validates a candidate horizontal step against the world and, if
// passable, commits it (spec §4.E "Movement validation").
func (s *Server) moveMob(m *mobSlot, step mgl64.Vec3) {
	if step == (mgl64.Vec3{}) {
		return
	}
	fromX, fromY, fromZ := int32(m.Pos.X()), int32(m.Pos.Y()), int32(m.Pos.Z())
	toY, ok := sim.ValidateStep(s.world, fromX, fromY, fromZ, int32(step.X()), int32(step.Z()))
	if !ok {
		return
	}
	m.Pos = mgl64.Vec3{m.Pos.X() + step.X(), float64(toY), m.Pos.Z() + step.Z()}
}

// damageNearestPlayer applies amount damage to whichever online player sits
// at pos, sending a health update — the minimal slice of combat spec
// §4.E's "hostile mobs... damage the player" needs to exercise pkg/sim's
// armor-reduction formula without a full attacker/defender entity model.
func (s *Server) damageNearestPlayer(pos mgl64.Vec3, amount float32) {
	for _, p := range s.players {
		if math.Abs(p.X-pos.X())+math.Abs(p.Z-pos.Z()) < 3 && math.Abs(p.Y-pos.Y()) < 2 {
			reduced := sim.ArmorReduce(amount, armorDefense(p))
			s.damagePlayer(p, reduced)
			return
		}
	}
}

func nearestPlayer(from mgl64.Vec3, players []mgl64.Vec3) (mgl64.Vec3, bool) {
	if len(players) == 0 {
		return mgl64.Vec3{}, false
	}
	best := players[0]
	bestDist := manhattanXZ(from, best)
	for _, p := range players[1:] {
		if d := manhattanXZ(from, p); d < bestDist {
			bestDist = d
			best = p
		}
	}
	return best, true
}

func manhattanXZ(a, b mgl64.Vec3) float64 {
	return math.Abs(a.X()-b.X()) + math.Abs(a.Z()-b.Z())
}

// maybeSpawnMob occasionally allocates a new mob near an online player when
// the table has room, keeping the world lightly populated without a full
// biome-aware spawn selector (spec.md's worldgen non-goals exclude one).
func (s *Server) maybeSpawnMob(players []mgl64.Vec3) {
	if len(players) == 0 || s.mobs.count() >= MaxMobs {
		return
	}
	if !s.gameplayRNG.Chance(0.01) {
		return
	}
	center := players[s.gameplayRNG.IntN(len(players))]
	offset := mgl64.Vec3{float64(s.gameplayRNG.IntN(17) - 8), 0, float64(s.gameplayRNG.IntN(17) - 8)}
	pos := center.Add(offset)

	if s.gameplayRNG.Chance(0.1) {
		jobs := [...]sim.VillagerJob{sim.JobFarmer, sim.JobLibrarian, sim.JobToolsmith}
		job := jobs[s.gameplayRNG.IntN(len(jobs))]
		s.mobs.spawnVillager(pos, s.nextEntityID(), job)
		return
	}

	kind := sim.MobKindPassive
	if !sim.IsDaylight(s.worldTime % 24000) {
		kind = sim.MobKindHostile
	}
	s.mobs.spawn(kind, pos, s.nextEntityID())
}

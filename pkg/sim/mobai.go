package sim

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/nethr-io/nethr/pkg/rng"
	"github.com/nethr-io/nethr/pkg/world"
)

// MobKind distinguishes passive wander behavior from hostile pathing, per
// spec §4.E. Type 0 (MobKindNone) marks an unallocated mob slot.
type MobKind byte

const (
	MobKindNone MobKind = iota
	MobKindPassive
	MobKindHostile
	MobKindVillager
)

// MobDespawnDistance is spec §4.E's MOB_DESPAWN_DISTANCE.
const MobDespawnDistance = 256

// TicksPerSecond is how often pkg/server's tick driver actually runs: 20/s
// (50ms), the single source of truth pkg/server.TickInterval is derived
// from. Spec §4.G's TIME_BETWEEN_TICKS default is 1s; this server instead
// matches vanilla's 50ms tick for responsive movement and keep-alive
// timing, so every duration expressed "in ticks" (mob AI throttles, death
// countdown) is 20x finer-grained than the spec default — see DESIGN.md.
const TicksPerSecond = 20

// Mob is the tick-driver's view of one allocated mob slot (spec §3 "Mob
// record"), using mgl64.Vec3 for position so AI-step math (adjacency,
// Manhattan distance, climb/drop validation) reads as vector arithmetic
// instead of three parallel int fields — grounded on dm-vev-adamant's use
// of mgl64 for entity position/velocity.
type Mob struct {
	Kind       MobKind
	Pos        mgl64.Vec3
	Health     int8 // bits 0-4 of the packed byte in spec §3
	Sheared    bool
	PanicTicks int8
	DeathTimer int // y repurposed as despawn countdown once Health == 0
}

// manhattan3 is the Manhattan distance spec §4.E's pathing/adjacency/
// despawn checks use throughout.
func manhattan3(a, b mgl64.Vec3) float64 {
	return absF(a.X()-b.X()) + absF(a.Y()-b.Y()) + absF(a.Z()-b.Z())
}

func absF(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// PassiveWanderStep picks a single-axis step for a calm or panicked passive
// mob, rate-throttled by the caller (once per ~4s calm, 4/s panicked per
// spec §4.E) — this function only computes the candidate offset.
func PassiveWanderStep(g *rng.Gameplay) mgl64.Vec3 {
	axis := g.IntN(2)
	dir := 1.0
	if g.IntN(2) == 0 {
		dir = -1.0
	}
	if axis == 0 {
		return mgl64.Vec3{dir, 0, 0}
	}
	return mgl64.Vec3{0, 0, dir}
}

// HostileStepToward picks the single compass step (one of 8 directions)
// that most reduces Manhattan distance to target, per spec §4.E "pathfind
// on 8 compass directions toward the nearest player."
func HostileStepToward(from, target mgl64.Vec3) mgl64.Vec3 {
	best := mgl64.Vec3{}
	bestDist := manhattan3(from, target)
	for dx := -1.0; dx <= 1; dx++ {
		for dz := -1.0; dz <= 1; dz++ {
			if dx == 0 && dz == 0 {
				continue
			}
			candidate := from.Add(mgl64.Vec3{dx, 0, dz})
			if d := manhattan3(candidate, target); d < bestDist {
				bestDist = d
				best = mgl64.Vec3{dx, 0, dz}
			}
		}
	}
	return best
}

// IsAdjacentForAttack reports whether a hostile mob at from is close enough
// to attack target without moving: Manhattan(x,z) < 3 and |dy| < 2.
func IsAdjacentForAttack(from, target mgl64.Vec3) bool {
	horiz := absF(from.X()-target.X()) + absF(from.Z()-target.Z())
	return horiz < 3 && absF(from.Y()-target.Y()) < 2
}

// ValidateStep resolves a candidate horizontal move against the world's
// passability at foot and head height, climbing one block up or dropping
// one block down when the neighbor column requires it, or rejecting the
// move entirely when neither the level, climb, nor drop candidate is
// passable (spec §4.E "Movement validation").
func ValidateStep(w *world.World, fromX, fromY, fromZ int32, dx, dz int32) (toY int32, ok bool) {
	if passableColumn(w, fromX+dx, fromY, fromZ+dz) {
		return fromY, true
	}
	if passableColumn(w, fromX+dx, fromY+1, fromZ+dz) && w.BlockAt(fromX+dx, fromY-1, fromZ+dz) != world.BlockAir {
		return fromY + 1, true
	}
	if passableColumn(w, fromX+dx, fromY-1, fromZ+dz) {
		return fromY - 1, true
	}
	return 0, false
}

func passableColumn(w *world.World, x, y, z int32) bool {
	return w.BlockAt(x, y, z).Passable() && w.BlockAt(x, y+1, z).Passable()
}

// SunlightBurnDamage is spec §4.E's fixed 2-damage-per-tick sun penalty for
// hostile mobs above y=48 during daylight hours (world_time in
// [0,13000) ∪ [23460,24000)).
const SunlightBurnDamage = 2

// IsDaylight reports whether worldTime (0..23999) falls in the daylight
// window spec §4.E names.
func IsDaylight(worldTime int32) bool {
	return (worldTime >= 0 && worldTime < 13000) || (worldTime >= 23460 && worldTime < 24000)
}

// ShouldDespawn reports whether a mob at pos is farther than
// MobDespawnDistance (Manhattan) from every player position in players.
func ShouldDespawn(pos mgl64.Vec3, players []mgl64.Vec3) bool {
	for _, p := range players {
		if manhattan3(pos, p) <= MobDespawnDistance {
			return false
		}
	}
	return true
}

package sim

import "github.com/nethr-io/nethr/pkg/world"

// FluidUpdateBudget bounds one PropagateFluid call's queue so a single
// block update can never walk an unbounded flood-fill.
const FluidUpdateBudget = 512

// fluidNeighbors is the 4 horizontal + down offsets spec §4.E's "BFS-style
// local recomputation" spreads through; fluid does not flow upward.
var fluidNeighbors = [5][3]int32{
	{1, 0, 0}, {-1, 0, 0}, {0, 0, 1}, {0, 0, -1}, {0, -1, 0},
}

// fluidSeedNeighbors adds the upward direction to fluidNeighbors, used only
// to find a fluid to seed the BFS from when the changed cell itself isn't
// one (a source sitting directly above a freshly-dug cell should fall into
// it immediately, same as a source sitting to the side).
var fluidSeedNeighbors = [6][3]int32{
	{1, 0, 0}, {-1, 0, 0}, {0, 0, 1}, {0, 0, -1}, {0, -1, 0}, {0, 1, 0},
}

// PropagateFluid runs one BFS pass seeded at (x,y,z) — called after any
// block update touching a fluid-adjacent cell (spec §4.E "at each block
// update") — spreading water to level 7 and lava to level 3 into
// replaceable or lower-level same-fluid neighbors. If (x,y,z) isn't itself a
// fluid (the common case: a block was just dug out or placed there), the
// BFS seeds from whichever of its neighbors are fluid instead, so removing a
// wall next to water actually lets it flow in. Only forward spread is
// modeled: decay of a flow cell whose upstream source was since removed
// ("fluid loses source if no adjacent cell is exactly one level lower," per
// spec) is not recomputed here, since that requires re-deriving every flow
// cell's level from scratch rather than a local BFS seeded at one update —
// a documented simplification, noted in DESIGN.md.
func PropagateFluid(w *world.World, x, y, z int32) {
	type cell struct{ x, y, z int32 }

	var queue []cell
	if _, _, ok := w.BlockAt(x, y, z).FluidLevel(); ok {
		queue = append(queue, cell{x, y, z})
	} else {
		// the changed cell isn't itself a fluid (the common case: a block was
		// dug out or placed next to one) — seed from any fluid neighbor so it
		// gets a chance to spread into the now-passable or now-replaced cell.
		for _, d := range fluidSeedNeighbors {
			nx, ny, nz := x+d[0], y+d[1], z+d[2]
			if _, _, ok := w.BlockAt(nx, ny, nz).FluidLevel(); ok {
				queue = append(queue, cell{nx, ny, nz})
			}
		}
	}
	visited := 0

	for len(queue) > 0 && visited < FluidUpdateBudget {
		c := queue[0]
		queue = queue[1:]
		visited++

		b := w.BlockAt(c.x, c.y, c.z)
		level, isWater, ok := b.FluidLevel()
		if !ok || level <= 1 {
			continue
		}

		for _, d := range fluidNeighbors {
			nx, ny, nz := c.x+d[0], c.y+d[1], c.z+d[2]
			nb := w.BlockAt(nx, ny, nz)

			nextLevel := level - 1
			if nLevel, nIsWater, nok := nb.FluidLevel(); nok {
				if nIsWater != isWater || nLevel >= nextLevel {
					continue // different fluid, or already at or above the level we'd set
				}
			} else if !nb.Passable() {
				continue // not replaceable
			}

			flow := world.FlowBlockAt(nextLevel, isWater)
			if flow == world.BlockAir {
				continue
			}
			w.SetBlock(nx, ny, nz, flow)
			queue = append(queue, cell{nx, ny, nz})
		}
	}
}

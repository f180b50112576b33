package sim

import (
	"testing"

	"github.com/nethr-io/nethr/pkg/world"
)

func TestPropagateFluidSpreadsWaterIntoAir(t *testing.T) {
	w := world.NewWorld(1, 1)
	w.SetBlock(0, 60, 0, world.BlockWater)
	w.SetBlock(1, 60, 0, world.BlockAir)

	PropagateFluid(w, 0, 60, 0)

	level, isWater, ok := w.BlockAt(1, 60, 0).FluidLevel()
	if !ok || !isWater || level != 7 {
		t.Errorf("neighbor after PropagateFluid = (%d, %v, %v), want (7, true, true)", level, isWater, ok)
	}
}

// TestPropagateFluidSeedsFromNeighborWhenChangedCellIsntFluid covers the
// actual call-site shape: handlePlayerDigging seeds PropagateFluid at the
// cell it just turned to air, not at the water itself.
func TestPropagateFluidSeedsFromNeighborWhenChangedCellIsntFluid(t *testing.T) {
	w := world.NewWorld(2, 2)
	w.SetBlock(0, 60, 0, world.BlockWater)
	w.SetBlock(1, 60, 0, world.BlockAir) // freshly dug cell, the seed point

	PropagateFluid(w, 1, 60, 0)

	level, isWater, ok := w.BlockAt(1, 60, 0).FluidLevel()
	if !ok || !isWater || level != 7 {
		t.Errorf("dug cell after PropagateFluid = (%d, %v, %v), want (7, true, true)", level, isWater, ok)
	}
}

// TestPropagateFluidSeedsFromWaterAboveADugCell covers digging straight
// under a water source — the source should fall into the new gap.
func TestPropagateFluidSeedsFromWaterAboveADugCell(t *testing.T) {
	w := world.NewWorld(3, 3)
	w.SetBlock(0, 61, 0, world.BlockWater)
	w.SetBlock(0, 60, 0, world.BlockAir)

	PropagateFluid(w, 0, 60, 0)

	if _, _, ok := w.BlockAt(0, 60, 0).FluidLevel(); !ok {
		t.Error("cell below a water source should pick up a fluid level after digging")
	}
}

func TestPropagateFluidStopsAtLevelOne(t *testing.T) {
	w := world.NewWorld(2, 2)
	w.SetBlock(0, 60, 0, world.BlockWaterFlow1)
	w.SetBlock(1, 60, 0, world.BlockAir)

	PropagateFluid(w, 0, 60, 0)

	if got := w.BlockAt(1, 60, 0); got != world.BlockAir {
		t.Errorf("neighbor of a level-1 flow cell = %v, want BlockAir (no level-0 spread)", got)
	}
}

func TestPropagateFluidDoesNotSpreadIntoSolidBlocks(t *testing.T) {
	w := world.NewWorld(3, 3)
	w.SetBlock(0, 60, 0, world.BlockWater)
	w.SetBlock(1, 60, 0, world.BlockStone)

	PropagateFluid(w, 0, 60, 0)

	if got := w.BlockAt(1, 60, 0); got != world.BlockStone {
		t.Errorf("solid neighbor = %v, want BlockStone (untouched)", got)
	}
}

func TestPropagateFluidDoesNotRegressHigherLevelNeighbor(t *testing.T) {
	w := world.NewWorld(4, 4)
	w.SetBlock(0, 60, 0, world.BlockWaterFlow5)
	w.SetBlock(1, 60, 0, world.BlockWaterFlow7)

	PropagateFluid(w, 0, 60, 0)

	if got := w.BlockAt(1, 60, 0); got != world.BlockWaterFlow7 {
		t.Errorf("higher-level neighbor = %v, want unchanged BlockWaterFlow7", got)
	}
}

func TestPropagateFluidDoesNotMixWaterAndLava(t *testing.T) {
	w := world.NewWorld(5, 5)
	w.SetBlock(0, 60, 0, world.BlockWater)
	w.SetBlock(1, 60, 0, world.BlockLavaFlow2)

	PropagateFluid(w, 0, 60, 0)

	if got := w.BlockAt(1, 60, 0); got != world.BlockLavaFlow2 {
		t.Errorf("lava neighbor of a water source = %v, want unchanged BlockLavaFlow2", got)
	}
}

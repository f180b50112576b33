package sim

import (
	"testing"
	"time"
)

func init() {
	RegisterFood(9001, 4, 0.3)
}

func TestStartEatingRequiresEdible(t *testing.T) {
	var e EatingState
	if e.StartEating(0) {
		t.Error("unregistered item should not be eatable")
	}
	if !e.StartEating(9001) {
		t.Fatal("registered food should start eating")
	}
	if !e.Active {
		t.Error("Active should be true after StartEating")
	}
}

func TestAdvanceAppliesRestorationOnExpiry(t *testing.T) {
	var e EatingState
	e.StartEating(9001)
	if _, ok := e.Advance(EatingDuration - time.Millisecond); ok {
		t.Error("should not complete before duration elapses")
	}
	fv, ok := e.Advance(2 * time.Millisecond)
	if !ok {
		t.Fatal("expected eating to complete")
	}
	if fv.Hunger != 4 {
		t.Errorf("restored hunger = %d, want 4", fv.Hunger)
	}
	if e.Active {
		t.Error("Active should clear after completion")
	}
}

func TestFinishEatingCancelsWithoutRestoration(t *testing.T) {
	var e EatingState
	e.StartEating(9001)
	e.Advance(100 * time.Millisecond)
	e.FinishEating()
	if e.Active {
		t.Error("FinishEating should clear Active")
	}
	if e.Elapsed != 0 {
		t.Error("FinishEating should reset elapsed")
	}
}

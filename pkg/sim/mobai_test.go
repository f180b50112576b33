package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestHostileStepTowardReducesDistance(t *testing.T) {
	from := mgl64.Vec3{0, 64, 0}
	target := mgl64.Vec3{5, 64, 0}
	step := HostileStepToward(from, target)
	next := from.Add(step)
	if manhattan3(next, target) >= manhattan3(from, target) {
		t.Errorf("HostileStepToward did not reduce distance: %v -> %v vs target %v", from, next, target)
	}
}

func TestIsAdjacentForAttack(t *testing.T) {
	mob := mgl64.Vec3{0, 64, 0}
	if !IsAdjacentForAttack(mob, mgl64.Vec3{1, 64, 1}) {
		t.Error("expected adjacency at distance (1,0,1)")
	}
	if IsAdjacentForAttack(mob, mgl64.Vec3{5, 64, 5}) {
		t.Error("should not be adjacent at distance (5,0,5)")
	}
	if IsAdjacentForAttack(mob, mgl64.Vec3{0, 66, 0}) {
		t.Error("should not be adjacent with dy >= 2")
	}
}

func TestIsDaylightWindow(t *testing.T) {
	cases := []struct {
		t    int32
		want bool
	}{
		{0, true}, {12999, true}, {13000, false}, {23000, false}, {23460, true}, {23999, true},
	}
	for _, c := range cases {
		if got := IsDaylight(c.t); got != c.want {
			t.Errorf("IsDaylight(%d) = %v, want %v", c.t, got, c.want)
		}
	}
}

func TestShouldDespawnBeyondDistance(t *testing.T) {
	pos := mgl64.Vec3{0, 64, 0}
	near := []mgl64.Vec3{{10, 64, 10}}
	far := []mgl64.Vec3{{500, 64, 500}}
	if ShouldDespawn(pos, near) {
		t.Error("mob near a player should not despawn")
	}
	if !ShouldDespawn(pos, far) {
		t.Error("mob far from every player should despawn")
	}
	if !ShouldDespawn(pos, nil) {
		t.Error("mob with no players online should despawn")
	}
}

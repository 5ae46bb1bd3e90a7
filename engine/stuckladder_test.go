package engine

import (
	"testing"

	"github.com/blindhorse/racesim/components"
	"github.com/blindhorse/racesim/rng"
)

// fillStagnant pushes RecentPositionCapacity samples clustered within
// stuckStagnationThresholdPx of (x, y) so Oldest() reports the buffer
// full and applyStuckLadder sees no movement.
func fillStagnant(stuck *components.StuckState, x, y float32, startTick int64) {
	for i := 0; i < components.RecentPositionCapacity; i++ {
		stuck.Push(x, y, startTick+int64(i))
	}
}

func TestApplyStuckLadderNoopBeforeBufferFills(t *testing.T) {
	trk := openTrack(t, 500, 500)
	source := rng.New(1)
	pos := &components.Position{X: 250, Y: 250}
	kin := &components.Kinematics{BaseSpeed: 1.5, Heading: 0}
	stuck := &components.StuckState{}
	stuck.Push(250, 250, 0)

	outcome := applyStuckLadder(source, trk, pos, kin, stuck, 1.5)
	if outcome.teleported {
		t.Fatal("should not escalate before the ring buffer fills")
	}
}

func TestApplyStuckLadderNoopWhenPositionMoved(t *testing.T) {
	trk := openTrack(t, 500, 500)
	source := rng.New(1)
	pos := &components.Position{X: 300, Y: 300}
	kin := &components.Kinematics{BaseSpeed: 1.5, Heading: 0}
	stuck := &components.StuckState{Counter: stuckLevel1Max + 1}
	fillStagnant(stuck, 100, 100, 0) // oldest sample far from current pos

	outcome := applyStuckLadder(source, trk, pos, kin, stuck, 1.5)
	if outcome.teleported {
		t.Fatal("should not escalate when the actor has actually moved")
	}
	if pos.X != 300 || pos.Y != 300 {
		t.Fatal("position must not change when not stagnant")
	}
}

func TestApplyStuckLadderLevel1BoostsSpeed(t *testing.T) {
	trk := openTrack(t, 500, 500)
	source := rng.New(1)
	pos := &components.Position{X: 250, Y: 250}
	kin := &components.Kinematics{BaseSpeed: 1.5, Heading: 0}
	stuck := &components.StuckState{Counter: stuckLevel1Min + 1}
	fillStagnant(stuck, 250, 250, 0)

	escapeBoost := float32(1.8)
	applyStuckLadder(source, trk, pos, kin, stuck, escapeBoost)

	if kin.CurrentSpeed != kin.BaseSpeed*escapeBoost {
		t.Errorf("CurrentSpeed = %f, want %f (BaseSpeed * escapeSpeedBoost)", kin.CurrentSpeed, kin.BaseSpeed*escapeBoost)
	}
}

func TestApplyStuckLadderLevel2RelocatesNearby(t *testing.T) {
	trk := openTrack(t, 500, 500)
	source := rng.New(1)
	pos := &components.Position{X: 250, Y: 250}
	kin := &components.Kinematics{BaseSpeed: 1.5, Heading: 0}
	stuck := &components.StuckState{Counter: stuckLevel1Max + 1}
	fillStagnant(stuck, 250, 250, 0)

	applyStuckLadder(source, trk, pos, kin, stuck, 1.5)

	if stuck.Counter != 0 {
		t.Errorf("Counter = %d after a successful level-2 relocation, want 0", stuck.Counter)
	}
	// The open track offers a clear ring cell at the first radius sampled,
	// so the actor should have moved off its exact stuck position.
	if pos.X == 250 && pos.Y == 250 {
		t.Error("expected level-2 escape to relocate the actor")
	}
}

func TestApplyStuckLadderLevel3Teleports(t *testing.T) {
	trk := openTrack(t, 500, 500)
	source := rng.New(1)
	pos := &components.Position{X: 250, Y: 250}
	kin := &components.Kinematics{BaseSpeed: 1.5, Heading: 0}
	stuck := &components.StuckState{Counter: stuckLevel2Max + 1}
	fillStagnant(stuck, 250, 250, 0)

	outcome := applyStuckLadder(source, trk, pos, kin, stuck, 1.5)

	if !outcome.teleported {
		t.Fatal("expected a level-3 teleport")
	}
	if outcome.reason != "stuck_level_3" {
		t.Errorf("reason = %q, want stuck_level_3", outcome.reason)
	}
	if stuck.Counter != 0 {
		t.Errorf("Counter = %d after teleport, want 0", stuck.Counter)
	}
}

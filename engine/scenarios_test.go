package engine

import (
	"testing"

	"github.com/blindhorse/racesim/config"
	"github.com/blindhorse/racesim/track"
)

// testConfig returns a Config loaded from embedded defaults with the game
// clock shrunk so lifecycle phases complete in a handful of ticks instead
// of the real-time values used by cmd/blindhorse.
func testConfig(t *testing.T) *config.Config {
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("loading embedded defaults: %v", err)
	}
	cfg.Game.TickMs = 16
	cfg.Game.CountdownS = 0
	cfg.Game.ResolutionS = 1
	cfg.Game.RaceTimeLimitS = 2
	cfg.Derived.TickDtMs = 16
	cfg.Derived.CountdownTicks = 0
	cfg.Derived.RaceTimeLimitTicks = 124 // 2s * (1000/16 ticks/s)
	cfg.Derived.ResolutionTicks = 62     // 1s * (1000/16 ticks/s)
	// ResolutionTicks must stay > 0: a goal-overlap win resolves Racing
	// -> Resolved inside the same Tick call that later invokes Advance,
	// so a zero-tick resolution hold would let Advance's Resolved case
	// fire in the same call and skip straight to Reset, masking
	// EventRaceResolved for overlap wins (it would still fire for
	// deadline resolutions, since those transition inside Advance itself
	// and Advance never re-evaluates its own transition in one call).
	return cfg
}

func newTestEngine(t *testing.T, seed uint32) *Engine {
	trk := openTrack(t, 800, 800)
	cfg := testConfig(t)
	eng, err := New(cfg, trk, seed)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return eng
}

// TestStartRaceRequiresReset exercises §7's contract: StartRace only
// succeeds from the engine's initial Reset state, and refuses a second
// call once actors exist.
func TestStartRaceRequiresReset(t *testing.T) {
	eng := newTestEngine(t, 1)

	if err := eng.StartRace(nil); err != nil {
		t.Fatalf("first StartRace: %v", err)
	}
	if err := eng.StartRace(nil); err == nil {
		t.Fatal("expected a second StartRace to fail with ErrNotReset")
	}
}

// TestStartRaceRejectsOutOfRangeHuman confirms StartRace refuses a
// human-bid actor index outside the configured roster.
func TestStartRaceRejectsOutOfRangeHuman(t *testing.T) {
	eng := newTestEngine(t, 1)
	if err := eng.StartRace([]int{99}); err == nil {
		t.Fatal("expected an out-of-range human actor index to be rejected")
	}
}

// TestTickRejectsNonPositiveDelta exercises ErrTimeWentBackwards.
func TestTickRejectsNonPositiveDelta(t *testing.T) {
	eng := newTestEngine(t, 1)
	if err := eng.StartRace(nil); err != nil {
		t.Fatalf("StartRace: %v", err)
	}
	if _, err := eng.Tick(0); err == nil {
		t.Fatal("expected Tick(0) to return ErrTimeWentBackwards")
	}
	if _, err := eng.Tick(-1); err == nil {
		t.Fatal("expected Tick(-1) to return ErrTimeWentBackwards")
	}
}

// TestTickRejectsBeforeStartRace exercises ErrNoActors.
func TestTickRejectsBeforeStartRace(t *testing.T) {
	eng := newTestEngine(t, 1)
	if _, err := eng.Tick(16); err == nil {
		t.Fatal("expected Tick before StartRace to return ErrNoActors")
	}
}

// TestFullLifecycleReachesRacingThenResolves drives the FSM from the
// initial Betting countdown through Racing and into a deadline
// Resolved/Reset, confirming the racing phase is reached and the resolved
// and reset events both fire (Scenario F: deadline resolution with no
// winner).
func TestFullLifecycleReachesRacingThenResolves(t *testing.T) {
	eng := newTestEngine(t, 1)
	if err := eng.StartRace(nil); err != nil {
		t.Fatalf("StartRace: %v", err)
	}

	sawRacing := false
	sawResolved := false
	sawReset := false

	for i := 0; i < 500 && !sawReset; i++ {
		events, err := eng.Tick(16)
		if err != nil {
			t.Fatalf("Tick: %v", err)
		}
		for _, ev := range events {
			switch ev.Kind {
			case EventRaceResolved:
				sawResolved = true
				if ev.Winner != NoWinner {
					t.Errorf("expected a deadline resolution with no winner, got winner %d", ev.Winner)
				}
			case EventRaceReset:
				sawReset = true
			}
		}
		if eng.Snapshot().Phase == "racing" {
			sawRacing = true
		}
	}

	if !sawRacing {
		t.Error("expected the race to reach the racing phase")
	}
	if !sawResolved {
		t.Error("expected a deadline resolution event")
	}
	if !sawReset {
		t.Error("expected the race to reach reset within the tick budget")
	}
	if eng.Snapshot().TotalRaces != 1 {
		t.Errorf("TotalRaces = %d, want 1 after one full cycle", eng.Snapshot().TotalRaces)
	}
}

// TestGoalOverlapWinEmitsRaceResolved drives an actor onto the goal token
// and confirms EventRaceResolved fires with that actor as the winner on
// the very tick of the overlap, not just on a deadline resolution. This
// is the regression case for the ordering bug where capturing prevPhase
// after runRacingTick made every goal-overlap win indistinguishable from
// an already-resolved race and silently dropped its event.
func TestGoalOverlapWinEmitsRaceResolved(t *testing.T) {
	eng := newTestEngine(t, 1)
	if err := eng.StartRace(nil); err != nil {
		t.Fatalf("StartRace: %v", err)
	}

	// Advance out of Betting into Racing (CountdownS is 0, so one tick
	// suffices), then place actor 0 exactly on the goal.
	if _, err := eng.Tick(16); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if eng.Snapshot().Phase != "racing" {
		t.Fatalf("setup: Phase = %q, want racing", eng.Snapshot().Phase)
	}

	goal := eng.goalPosition()
	pos, _, _, _, _ := eng.actors.Get(eng.actorEntities[0])
	pos.X, pos.Y = goal.X, goal.Y

	events, err := eng.Tick(16)
	if err != nil {
		t.Fatalf("Tick: %v", err)
	}

	var resolved *Event
	for i := range events {
		if events[i].Kind == EventRaceResolved {
			resolved = &events[i]
		}
	}
	if resolved == nil {
		t.Fatal("expected EventRaceResolved on the tick an actor overlaps the goal")
	}
	if resolved.Winner != 0 {
		t.Errorf("Winner = %d, want 0", resolved.Winner)
	}
	if eng.Snapshot().Phase != "resolved" {
		t.Errorf("Phase = %q immediately after a goal-overlap win, want resolved", eng.Snapshot().Phase)
	}
}

// TestDeterministicReplayFullRace confirms two engines built from the same
// seed and config produce byte-identical actor snapshots tick for tick
// (Scenario A: deterministic replay).
func TestDeterministicReplayFullRace(t *testing.T) {
	run := func(seed uint32) []Snapshot {
		eng := newTestEngine(t, seed)
		if err := eng.StartRace(nil); err != nil {
			t.Fatalf("StartRace: %v", err)
		}
		var snaps []Snapshot
		for i := 0; i < 200; i++ {
			if _, err := eng.Tick(16); err != nil {
				t.Fatalf("Tick: %v", err)
			}
			snaps = append(snaps, eng.Snapshot())
		}
		return snaps
	}

	a := run(42)
	b := run(42)
	if len(a) != len(b) {
		t.Fatalf("snapshot count mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if len(a[i].Actors) != len(b[i].Actors) {
			t.Fatalf("actor count mismatch at tick %d", i)
		}
		for j := range a[i].Actors {
			if a[i].Actors[j] != b[i].Actors[j] {
				t.Fatalf("actor %d diverged at snapshot %d: %+v != %+v", j, i, a[i].Actors[j], b[i].Actors[j])
			}
		}
	}

	c := run(43)
	diverged := false
	for i := range a {
		if len(a[i].Actors) > 0 && len(c[i].Actors) > 0 && a[i].Actors[0] != c[i].Actors[0] {
			diverged = true
			break
		}
	}
	if !diverged {
		t.Fatal("expected a different seed to produce a different race")
	}
}

// TestSnapshotActorCountMatchesConfiguredPlayers confirms the roster size
// follows Game.MaxPlayers (clamped to maxActors), independent of how many
// humans were bid.
func TestSnapshotActorCountMatchesConfiguredPlayers(t *testing.T) {
	eng := newTestEngine(t, 1)
	eng.cfg.Game.MaxPlayers = 4
	if err := eng.StartRace([]int{0, 2}); err != nil {
		t.Fatalf("StartRace: %v", err)
	}

	snap := eng.Snapshot()
	if len(snap.Actors) != 4 {
		t.Fatalf("actor count = %d, want 4", len(snap.Actors))
	}
}

// TestSnapshotActorCountClampsToMaxActors confirms an oversized
// configuration is clamped to the hard ceiling of six actors (§3).
func TestSnapshotActorCountClampsToMaxActors(t *testing.T) {
	eng := newTestEngine(t, 1)
	eng.cfg.Game.MaxPlayers = 50
	if err := eng.StartRace(nil); err != nil {
		t.Fatalf("StartRace: %v", err)
	}

	snap := eng.Snapshot()
	if len(snap.Actors) != maxActors {
		t.Fatalf("actor count = %d, want %d (clamped)", len(snap.Actors), maxActors)
	}
}

// TestInvalidTrackRejected exercises ErrInvalidTrack for a track with no
// walkable cells at all.
func TestInvalidTrackRejected(t *testing.T) {
	buf := make([]byte, 10*10*4) // all zero -> below brightness threshold, nothing walkable
	trk, err := track.New(10, 10, buf, 150)
	if err != nil {
		t.Fatalf("building blocked track: %v", err)
	}
	cfg := testConfig(t)
	if _, err := New(cfg, trk, 1); err == nil {
		t.Fatal("expected New to reject a track with no walkable cells")
	}
}

// TestRepeatedRaceCyclesAccumulateTotalRaces runs the engine for enough
// ticks to complete several full Betting->Racing->Resolved->Reset cycles
// and confirms TotalRaces increments once per cycle, never skipping or
// double-counting a reset.
func TestRepeatedRaceCyclesAccumulateTotalRaces(t *testing.T) {
	eng := newTestEngine(t, 7)
	if err := eng.StartRace(nil); err != nil {
		t.Fatalf("StartRace: %v", err)
	}

	resets := 0
	for i := 0; i < 1000 && resets < 3; i++ {
		events, err := eng.Tick(16)
		if err != nil {
			t.Fatalf("Tick: %v", err)
		}
		for _, ev := range events {
			if ev.Kind == EventRaceReset {
				resets++
			}
		}
	}

	if resets < 3 {
		t.Fatalf("only observed %d resets within the tick budget, want at least 3", resets)
	}
	if eng.Snapshot().TotalRaces != int64(resets) {
		t.Fatalf("TotalRaces = %d, want %d (one per observed reset)", eng.Snapshot().TotalRaces, resets)
	}
}

package engine

// Phase is one state of the race lifecycle (§4.8).
type Phase uint8

const (
	PhaseBetting Phase = iota
	PhaseRacing
	PhaseResolved
	PhaseReset
)

func (p Phase) String() string {
	switch p {
	case PhaseBetting:
		return "betting"
	case PhaseRacing:
		return "racing"
	case PhaseResolved:
		return "resolved"
	case PhaseReset:
		return "reset"
	default:
		return "unknown"
	}
}

// NoWinner is the sentinel winner index meaning the race resolved without
// a winner (deadline expiry).
const NoWinner = -1

// RaceFSM drives the Betting -> Racing -> Resolved -> Reset -> Betting
// cycle. It owns no reference to the Track or actor list; the engine
// passes in only what a transition needs.
type RaceFSM struct {
	Phase          Phase
	phaseStartTick int64
	totalRaces     int64
	winner         int
}

// NewRaceFSM returns a fresh FSM in Reset, mirroring the state a normal
// cycle is in just before FinishReset runs. StartRace is the one caller
// allowed to move out of this initial Reset via BeginFirstRace instead
// of the normal Advance + FinishReset path.
func NewRaceFSM(startTick int64) *RaceFSM {
	return &RaceFSM{Phase: PhaseReset, phaseStartTick: startTick, winner: NoWinner}
}

// TotalRaces returns the monotonically increasing race counter.
func (f *RaceFSM) TotalRaces() int64 { return f.totalRaces }

// Winner returns the winning actor index for the current/most recent
// Resolved phase, or NoWinner.
func (f *RaceFSM) Winner() int { return f.winner }

// TicksInPhase returns how many ticks have elapsed since the current
// phase began, inclusive of tick.
func (f *RaceFSM) TicksInPhase(tick int64) int64 {
	return tick - f.phaseStartTick
}

// GoalOverlap resolves the Racing -> Resolved transition when at least
// one actor has overlapped the goal this tick. overlapping lists actor
// indices in tick-arrival order (ascending index, per the pickup pass's
// iteration order); magnetized reports whether a given actor index
// currently carries the magnet status. Per §4.8, a magnetized overlapper
// always wins over a non-magnetized one, with ties broken by lowest
// index; otherwise the first arrival wins.
func (f *RaceFSM) GoalOverlap(tick int64, overlapping []int, magnetized func(int) bool) {
	if f.Phase != PhaseRacing || len(overlapping) == 0 {
		return
	}

	winner := overlapping[0]
	haveMagnetized := false
	for _, idx := range overlapping {
		if magnetized(idx) {
			if !haveMagnetized || idx < winner {
				winner = idx
				haveMagnetized = true
			}
		}
	}
	if !haveMagnetized {
		winner = overlapping[0]
	}

	f.resolve(tick, winner)
}

// Advance runs the deadline-driven transitions: Betting -> Racing once
// the countdown elapses, Racing -> Resolved(no winner) past the race
// time limit, and Resolved -> Reset after the resolution hold. It never
// leaves Reset on its own — the engine must perform the actual reset
// work (respawn, new goal placement, item clear) and call FinishReset to
// complete the Reset -> Betting edge, so Reset never leaves observable
// state half-applied.
func (f *RaceFSM) Advance(tick int64, countdownTicks, raceLimitTicks, resolutionTicks int64) {
	elapsed := f.TicksInPhase(tick)

	switch f.Phase {
	case PhaseBetting:
		if elapsed >= countdownTicks {
			f.transition(PhaseRacing, tick)
		}
	case PhaseRacing:
		if elapsed >= raceLimitTicks {
			f.resolve(tick, NoWinner)
		}
	case PhaseResolved:
		if elapsed >= resolutionTicks {
			f.transition(PhaseReset, tick)
		}
	}
}

// BeginFirstRace transitions a never-started engine directly from Reset
// into Betting without incrementing total_races, since no race has
// resolved yet. Only the engine's initial StartRace call should use this;
// every later cycle goes through Advance + FinishReset instead.
func (f *RaceFSM) BeginFirstRace(tick int64) {
	f.transition(PhaseBetting, tick)
}

// FinishReset completes the Reset -> Betting edge: total_races increases
// by exactly one and a fresh countdown begins at tick. The caller must
// have already performed the reset's world mutation (§8 invariant 6:
// total_races increases by exactly 1 at every Resolved -> Reset edge).
func (f *RaceFSM) FinishReset(tick int64) {
	f.totalRaces++
	f.winner = NoWinner
	f.transition(PhaseBetting, tick)
}

func (f *RaceFSM) resolve(tick int64, winner int) {
	f.winner = winner
	f.transition(PhaseResolved, tick)
}

func (f *RaceFSM) transition(to Phase, tick int64) {
	f.Phase = to
	f.phaseStartTick = tick
}

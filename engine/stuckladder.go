package engine

import (
	"math"

	"github.com/blindhorse/racesim/components"
	"github.com/blindhorse/racesim/rng"
	"github.com/blindhorse/racesim/track"
)

// stuckLevel1Min and stuckLevel1Max bound the counter range that triggers
// a heading redirect plus a speed boost (§4.6).
const (
	stuckLevel1Min = 30
	stuckLevel1Max = 60
	stuckLevel2Max = 120
)

// stuckStagnationThresholdPx is the Euclidean delta, in pixels, below
// which a position is considered unchanged over the ring-buffer window.
const stuckStagnationThresholdPx = 5

// ringSearchRadii are the concentric ring radii probed by Level 2 escape.
var ringSearchRadii = [5]float32{20, 30, 40, 50, 60}

// ringSearchAngleCount is the number of angles sampled per ring in Level 2.
const ringSearchAngleCount = 16

// ringSearchTolerance is the walkability tolerance used while scanning
// rings for an escape cell.
const ringSearchTolerance = 5

// stuckOutcome reports what the ladder did this tick, for event emission.
type stuckOutcome struct {
	teleported bool
	reason     string
}

// applyStuckLadder checks positional stagnation against the oldest
// recorded position and escalates per §4.6. It returns whether an event
// should be emitted this tick.
func applyStuckLadder(source *rng.Source, trk *track.Track, pos *components.Position, kin *components.Kinematics, stuck *components.StuckState, escapeSpeedBoost float32) stuckOutcome {
	oldest, ok := stuck.Oldest()
	if !ok {
		return stuckOutcome{}
	}

	dx := pos.X - oldest.X
	dy := pos.Y - oldest.Y
	dist := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	if dist >= stuckStagnationThresholdPx {
		return stuckOutcome{}
	}

	switch {
	case stuck.Counter > stuckLevel2Max:
		return stuckLevel3(source, trk, pos, stuck)
	case stuck.Counter > stuckLevel1Max:
		stuckLevel2(trk, pos, stuck)
	case stuck.Counter > stuckLevel1Min:
		stuckLevel1(trk, pos, kin, escapeSpeedBoost)
	}
	return stuckOutcome{}
}

func stuckLevel1(trk *track.Track, pos *components.Position, kin *components.Kinematics, escapeSpeedBoost float32) {
	kin.Heading = bestDirection(trk, *pos, kin.Heading)
	kin.CurrentSpeed = kin.BaseSpeed * escapeSpeedBoost
}

func stuckLevel2(trk *track.Track, pos *components.Position, stuck *components.StuckState) {
	for _, radius := range ringSearchRadii {
		for i := 0; i < ringSearchAngleCount; i++ {
			angle := float32(i) * float32(twoPi) / float32(ringSearchAngleCount)
			cx := pos.X + radius*float32(math.Cos(float64(angle)))
			cy := pos.Y + radius*float32(math.Sin(float64(angle)))
			if trk.IsWalkableWithTolerance(cx, cy, ringSearchTolerance) {
				pos.X, pos.Y = cx, cy
				stuck.Counter = 0
				return
			}
		}
	}
}

func stuckLevel3(source *rng.Source, trk *track.Track, pos *components.Position, stuck *components.StuckState) stuckOutcome {
	dest, ok := trk.RandomWalkable(source)
	if !ok {
		return stuckOutcome{}
	}
	pos.X, pos.Y = dest.X, dest.Y
	stuck.Counter = 0
	return stuckOutcome{teleported: true, reason: "stuck_level_3"}
}

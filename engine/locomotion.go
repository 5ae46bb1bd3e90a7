package engine

import (
	"math"

	"github.com/blindhorse/racesim/components"
	"github.com/blindhorse/racesim/rng"
	"github.com/blindhorse/racesim/track"
)

const twoPi = 2 * math.Pi

// probeStep is the fixed distance, in pixels, between samples along a
// probed heading in both the forward wall-check and the best-direction
// search (§4.4 step 4, §4.5).
const probeStep = 5

// bestDirectionSampleCount is the number of headings sampled uniformly
// around the circle when searching for a clear escape direction (§4.5).
const bestDirectionSampleCount = 16

// bestDirectionMaxProbe is the farthest distance, in pixels, the
// best-direction search walks any candidate heading before giving up on
// it (§4.5).
const bestDirectionMaxProbe = 50

// bestDirectionGiveUpThreshold is the clear-distance ceiling below which
// every candidate heading is considered blocked, so the search reverses
// course instead of committing to a cramped opening (§4.5).
const bestDirectionGiveUpThreshold = 10

// stepLocomotion advances one actor by one tick following §4.4. pos, kin,
// and stuck are mutated in place; dtMs is the fixed tick delta in
// milliseconds and simTimeMs is the simulation clock used to phase the
// biorhythm sinusoid consistently across stuck-ladder restarts.
func stepLocomotion(source *rng.Source, trk *track.Track, pos *components.Position, kin *components.Kinematics, stuck *components.StuckState, isAI bool, tickDeltaMs float32, simTimeMs float64, tick int64, cfg movementParams) {
	if !kin.Seeded {
		kin.Heading = source.FloatRange(0, float32(twoPi))
		kin.Seeded = true
	}

	changeP := cfg.directionChangeP(isAI)
	if source.Bool(changeP) {
		kin.Heading += source.FloatRange(-0.5, 0.5) * float32(math.Pi) * cfg.directionChangeAmount
	}

	step := kin.CurrentSpeed * tickDeltaMs / 16
	lookAhead := step + cfg.wallLookAhead

	blockedAt := probeBlockedAt(trk, *pos, kin.Heading, lookAhead, cfg.toleranceRadius)

	maxSpeed := kin.BaseSpeed * kin.SpeedMultiplier * 1.5
	if blockedAt >= 1 {
		advance(pos, kin.Heading, step)
		kin.CurrentSpeed = minF32(kin.CurrentSpeed+0.05, maxSpeed)
		stuck.Counter = decayCounter(stuck.Counter, 2)
	} else {
		if blockedAt > 0.1 {
			advance(pos, kin.Heading, step*blockedAt*0.8)
		}
		newHeading := bestDirection(trk, *pos, kin.Heading)
		kin.Heading = lerpAngle(kin.Heading, newHeading, 0.3)
		kin.CurrentSpeed = kin.BaseSpeed * kin.SpeedMultiplier * 0.6
		stuck.Counter++
	}

	kin.CurrentSpeed = kin.BaseSpeed * kin.SpeedMultiplier * (1 + float32(math.Sin(simTimeMs*0.0003*float64(kin.BiorhythmFreq)+float64(kin.BiorhythmPhase)))*cfg.biorhythmAmp)

	clampToBounds(pos, trk)
	stuck.Push(pos.X, pos.Y, tick)
}

func decayCounter(counter uint32, by uint32) uint32 {
	if counter <= by {
		return 0
	}
	return counter - by
}

// probeBlockedAt samples along heading at distances probeStep, 2*probeStep,
// ... up to lookAhead, returning the normalized blocked fraction in [0,1)
// per §4.4 step 4, or 1 if the path stays clear the whole way.
func probeBlockedAt(trk *track.Track, pos components.Position, heading float32, lookAhead, tolerance float32) float32 {
	cosH, sinH := float32(math.Cos(float64(heading))), float32(math.Sin(float64(heading)))
	for d := float32(probeStep); d <= lookAhead; d += probeStep {
		px := pos.X + d*cosH
		py := pos.Y + d*sinH
		if !trk.IsWalkableWithTolerance(px, py, tolerance) {
			return (d - probeStep) / lookAhead
		}
	}
	return 1
}

// bestDirection implements §4.5: sample bestDirectionSampleCount headings,
// find the one with the greatest clear distance, tie-break toward the
// smallest angular delta from current heading, and reverse if every
// candidate is nearly blocked.
func bestDirection(trk *track.Track, pos components.Position, current float32) float32 {
	bestHeading := current
	bestClear := float32(-1)
	bestDelta := float32(math.MaxFloat32)

	for i := 0; i < bestDirectionSampleCount; i++ {
		heading := float32(i) * float32(twoPi) / float32(bestDirectionSampleCount)
		clear := clearDistance(trk, pos, heading)
		delta := angularDelta(current, heading)

		if clear > bestClear || (clear == bestClear && delta < bestDelta) {
			bestClear = clear
			bestDelta = delta
			bestHeading = heading
		}
	}

	if bestClear <= bestDirectionGiveUpThreshold {
		return current + float32(math.Pi)
	}
	return bestHeading
}

func clearDistance(trk *track.Track, pos components.Position, heading float32) float32 {
	cosH, sinH := float32(math.Cos(float64(heading))), float32(math.Sin(float64(heading)))
	clear := float32(0)
	for d := float32(probeStep); d <= bestDirectionMaxProbe; d += probeStep {
		px := pos.X + d*cosH
		py := pos.Y + d*sinH
		if !trk.IsWalkable(px, py) {
			break
		}
		clear = d
	}
	return clear
}

func angularDelta(a, b float32) float32 {
	d := wrapAngle(b - a)
	if d < 0 {
		d = -d
	}
	return d
}

// lerpAngle interpolates from a toward b along the shortest arc (§4.9).
func lerpAngle(a, b, t float32) float32 {
	return a + wrapAngle(b-a)*t
}

// wrapAngle reduces an angular delta to [-pi, pi).
func wrapAngle(delta float32) float32 {
	pi := float32(math.Pi)
	d := float32(math.Mod(float64(delta+pi), float64(twoPi)))
	if d < 0 {
		d += float32(twoPi)
	}
	return d - pi
}

func advance(pos *components.Position, heading, distance float32) {
	pos.X += distance * float32(math.Cos(float64(heading)))
	pos.Y += distance * float32(math.Sin(float64(heading)))
}

func clampToBounds(pos *components.Position, trk *track.Track) {
	if pos.X < 0 {
		pos.X = 0
	}
	if pos.Y < 0 {
		pos.Y = 0
	}
	if pos.X >= float32(trk.Width()) {
		pos.X = float32(trk.Width()) - 1
	}
	if pos.Y >= float32(trk.Height()) {
		pos.Y = float32(trk.Height()) - 1
	}
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func sqrtF32(v float32) float32 {
	return float32(math.Sqrt(float64(v)))
}

// movementParams is the subset of config.MovementConfig locomotion reads
// on the hot path, passed by value to keep this file decoupled from the
// config package's layout.
type movementParams struct {
	directionChangeHuman  float32
	directionChangeAI     float32
	directionChangeAmount float32
	wallLookAhead         float32
	toleranceRadius       float32
	biorhythmAmp          float32
}

func (m movementParams) directionChangeP(isAI bool) float32 {
	if isAI {
		return m.directionChangeAI
	}
	return m.directionChangeHuman
}

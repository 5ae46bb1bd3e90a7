// Package effects implements the booster/skill catalog applied to actors:
// pickup application, per-tick TTL countdown, and exact-reversal expiry.
// The catalog is closed — a fixed set of kinds handled by fixed functions,
// never a plugin or string-keyed handler table.
package effects

import (
	"math"

	"github.com/blindhorse/racesim/components"
	"github.com/blindhorse/racesim/rng"
	"github.com/blindhorse/racesim/track"
)

// Expired enumerates which effect(s) reversed on a given Tick call, so the
// caller can emit the right diagnostic/lifecycle events.
type Expired struct {
	Paralyze bool
	Shield   bool
	Magnet   bool
	Booster  bool
	Fire     bool
}

// Any reports whether at least one effect expired this call.
func (e Expired) Any() bool {
	return e.Paralyze || e.Shield || e.Magnet || e.Booster || e.Fire
}

// ApplyBooster overwrites the active speed multiplier. Only one booster
// is active at a time; a new pickup replaces the old one outright rather
// than stacking (§4.7).
func ApplyBooster(status *components.Status, kin *components.Kinematics, multiplier float32, ttlMs int32) {
	kin.SpeedMultiplier = multiplier
	status.BoosterActive = true
	status.BoosterRemainMs = ttlMs
}

// ApplyParalyze marks the target actor paralyzed for ttlMs. Paralysis
// from a second thunder hit simply refreshes the TTL; paralysis has no
// stored delta to reverse.
func ApplyParalyze(status *components.Status, ttlMs int32) {
	status.Paralyzed = true
	status.ParalyzeRemainMs = ttlMs
}

// ApplyFire halves the target's base speed and stores the exact delta so
// expiry can restore it without compounding across repeated hits. A
// second fire hit while one is still active extends the TTL but does not
// re-halve an already-halved speed, per the "store delta, don't
// recompute" rule in §9.
func ApplyFire(status *components.Status, kin *components.Kinematics, ttlMs int32) {
	if status.FireActive {
		status.FireRemainMs = ttlMs
		return
	}
	delta := kin.BaseSpeed / 2
	kin.BaseSpeed -= delta
	status.FireActive = true
	status.FireRemainMs = ttlMs
	status.FireDelta = delta
}

// ApplyBubble grants a shield for ttlMs.
func ApplyBubble(status *components.Status, ttlMs int32) {
	status.Shielded = true
	status.ShieldRemainMs = ttlMs
}

// ApplyMagnet grants magnetized status for ttlMs.
func ApplyMagnet(status *components.Status, ttlMs int32) {
	status.Magnetized = true
	status.MagnetRemainMs = ttlMs
}

// ApplyTeleport warps one actor to a fresh random walkable cell, resets
// its stuck counters, and randomizes its heading. Teleport is instant —
// there is no TTL to track — so the engine calls this once per actor for
// every actor in the race when a teleport skill is cast.
func ApplyTeleport(pos *components.Position, kin *components.Kinematics, stuck *components.StuckState, trk *track.Track, source *rng.Source) bool {
	dest, ok := trk.RandomWalkable(source)
	if !ok {
		return false
	}
	pos.X, pos.Y = dest.X, dest.Y
	kin.Heading = source.FloatRange(0, 2*float32(math.Pi))
	*stuck = components.StuckState{}
	return true
}

// Tick advances every active effect's remaining TTL by dtMs and reverses
// any that expire. Expiry fires exactly once per effect activation: the
// flag is cleared in the same call that crosses zero.
func Tick(status *components.Status, kin *components.Kinematics, dtMs int32) Expired {
	var expired Expired

	if status.Paralyzed {
		status.ParalyzeRemainMs -= dtMs
		if status.ParalyzeRemainMs <= 0 {
			status.Paralyzed = false
			status.ParalyzeRemainMs = 0
			expired.Paralyze = true
		}
	}

	if status.Shielded {
		status.ShieldRemainMs -= dtMs
		if status.ShieldRemainMs <= 0 {
			status.Shielded = false
			status.ShieldRemainMs = 0
			expired.Shield = true
		}
	}

	if status.Magnetized {
		status.MagnetRemainMs -= dtMs
		if status.MagnetRemainMs <= 0 {
			status.Magnetized = false
			status.MagnetRemainMs = 0
			expired.Magnet = true
		}
	}

	if status.BoosterActive {
		status.BoosterRemainMs -= dtMs
		if status.BoosterRemainMs <= 0 {
			status.BoosterActive = false
			status.BoosterRemainMs = 0
			kin.SpeedMultiplier = 1.0
			expired.Booster = true
		}
	}

	if status.FireActive {
		status.FireRemainMs -= dtMs
		if status.FireRemainMs <= 0 {
			status.FireActive = false
			status.FireRemainMs = 0
			kin.BaseSpeed += status.FireDelta
			status.FireDelta = 0
			expired.Fire = true
		}
	}

	return expired
}

package engine

import (
	"github.com/blindhorse/racesim/components"
	"github.com/blindhorse/racesim/config"
	"github.com/blindhorse/racesim/rng"
	"github.com/blindhorse/racesim/track"
)

// spawnClusterCentroid returns the average position of a set of actor
// spawn points, used as the anchor goal placement measures distance from.
func spawnClusterCentroid(positions []track.Vec2) track.Vec2 {
	if len(positions) == 0 {
		return track.Vec2{}
	}
	var sum track.Vec2
	for _, p := range positions {
		sum.X += p.X
		sum.Y += p.Y
	}
	n := float32(len(positions))
	return track.Vec2{X: sum.X / n, Y: sum.Y / n}
}

// chooseBoosterEntry draws a uniformly random entry from the configured
// booster catalog.
func chooseBoosterEntry(source *rng.Source, catalog []config.BoosterEntry) (config.BoosterEntry, bool) {
	return rng.Choice(source, catalog)
}

// chooseSkillEntry draws a uniformly random entry from the configured
// skill catalog.
func chooseSkillEntry(source *rng.Source, catalog []config.SkillEntry) (config.SkillEntry, bool) {
	return rng.Choice(source, catalog)
}

// pickThunderTargets selects up to 3 distinct actor indices, excluding
// self and actors already paralyzed, via repeated uniform choice without
// replacement (§4.7 "pick up to 3 distinct non-paralyzed actors via
// rng.choice").
func pickThunderTargets(source *rng.Source, candidates []int) []int {
	return pickUpToN(source, candidates, 3)
}

// pickFireTargets selects up to 2 other actors via shuffle (§4.7 "pick up
// to 2 other actors via RNG shuffle").
func pickFireTargets(source *rng.Source, candidates []int) []int {
	shuffled := append([]int{}, candidates...)
	rng.Shuffle(source, shuffled)
	if len(shuffled) > 2 {
		shuffled = shuffled[:2]
	}
	return shuffled
}

func pickUpToN(source *rng.Source, candidates []int, n int) []int {
	pool := append([]int{}, candidates...)
	var picked []int
	for len(picked) < n && len(pool) > 0 {
		idx := source.IntRange(0, len(pool)-1)
		picked = append(picked, pool[idx])
		pool[idx] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return picked
}

// resolveCollision implements the pairwise collision rule from §4.4/§4.10
// step 3: shield ejects the other actor 20px along the shield-owner's
// outward normal; magnet snaps both to the midpoint, offset +-10px on x.
// The caller passes all four flags; shield is checked first, so when
// either actor is shielded the magnet rule is not applied.
func resolveCollision(aPos, bPos *components.Position, aShielded, bShielded, aMagnet, bMagnet bool) {
	switch {
	case aShielded || bShielded:
		var owner, other *components.Position
		if aShielded {
			owner, other = aPos, bPos
		} else {
			owner, other = bPos, aPos
		}
		nx, ny := outwardNormal(*owner, *other)
		other.X += nx * 20
		other.Y += ny * 20
	case aMagnet || bMagnet:
		midX := (aPos.X + bPos.X) / 2
		midY := (aPos.Y + bPos.Y) / 2
		aPos.X, aPos.Y = midX-10, midY
		bPos.X, bPos.Y = midX+10, midY
	}
}

func outwardNormal(owner, other components.Position) (float32, float32) {
	dx := other.X - owner.X
	dy := other.Y - owner.Y
	magSq := dx*dx + dy*dy
	if magSq < 1e-6 {
		return 1, 0
	}
	mag := sqrtF32(magSq)
	return dx / mag, dy / mag
}

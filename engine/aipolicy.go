package engine

import (
	"math"

	"github.com/blindhorse/racesim/components"
	"github.com/blindhorse/racesim/rng"
	"github.com/blindhorse/racesim/track"
)

// skillMultiplier maps a configured AI skill level to the reaction-time
// multiplier applied when resetting the cooldown (§4.9).
func skillMultiplier(level string) float32 {
	switch level {
	case "easy":
		return 1.5
	case "hard":
		return 0.7
	case "expert":
		return 0.5
	default: // "medium"
		return 1.0
	}
}

// aiParams is the subset of config.AIConfig the policy reads per tick.
type aiParams struct {
	boosterBias   float32
	pathBias      float32
	reactionMs    float32 // midpoint of [reaction_ms_min, reaction_ms_max]
	skillMul      float32
}

// applyAIPolicy runs §4.9 for one AI-controlled actor. nearestBooster is
// the position of the nearest booster item within 150px, if any; goal is
// the current goal token position.
func applyAIPolicy(source *rng.Source, kin *components.Kinematics, ai *components.AIState, pos components.Position, nearestBooster *track.Vec2, goal track.Vec2, dtMs float32, p aiParams) {
	if ai.CooldownMs > 0 {
		ai.CooldownMs -= dtMs
		return
	}

	if nearestBooster != nil && source.Bool(p.boosterBias) {
		angle := angleTo(pos, *nearestBooster)
		kin.Heading = lerpAngle(kin.Heading, angle, 0.3)
	}

	if source.Bool(p.pathBias) {
		angle := angleTo(pos, goal)
		kin.Heading = lerpAngle(kin.Heading, angle, p.pathBias*0.1)
	}

	ai.CooldownMs = p.reactionMs * p.skillMul
}

func angleTo(from components.Position, to track.Vec2) float32 {
	return float32(math.Atan2(float64(to.Y-from.Y), float64(to.X-from.X)))
}

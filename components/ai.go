package components

// AIState marks an actor as computer-controlled and tracks its reaction
// cooldown. Human-bid actors carry this component too, with IsAI false,
// so the archetype shape stays uniform across all actors.
type AIState struct {
	IsAI         bool
	CooldownMs   float32
}

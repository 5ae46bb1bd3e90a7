package engine

import "github.com/blindhorse/racesim/track"

// EventKind is a closed tagged enum identifying what happened on a tick.
// Events are appended to a per-tick buffer the driver drains; there is no
// string-keyed handler table and no subscriber callbacks run mid-tick
// (§9 design note: replace the string-keyed event bus with a tagged enum).
type EventKind uint8

const (
	EventRaceStarted EventKind = iota
	EventBoosterSpawned
	EventSkillSpawned
	EventPickedUp
	EventSkillCast
	EventTeleported
	EventRaceResolved
	EventRaceReset
	EventActorResynced
)

// Event is one entry in the append-only per-tick event buffer.
type Event struct {
	Kind EventKind
	Tick int64

	// Actor is the subject actor index, when applicable (-1 otherwise).
	Actor int

	// Targets lists affected actor indices for multi-target skills
	// (thunder, fire, teleport).
	Targets []int

	// ItemKind names the world item kind involved, for spawn/pickup/cast
	// events ("booster:antenna", "thunder", "goal", ...).
	ItemKind string

	// Pos is the event's world position, when applicable.
	Pos track.Vec2

	// Winner is the winning actor index for EventRaceResolved, or -1 if
	// the race resolved with no winner (deadline expiry).
	Winner int

	// TotalRaces is the race counter after this event.
	TotalRaces int64

	// Reason labels why a teleport or resync happened ("stuck_level_3",
	// "nan_resync"). A teleport skill is reported as EventSkillCast and
	// carries no Reason.
	Reason string
}

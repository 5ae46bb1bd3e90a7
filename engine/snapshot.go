package engine

// SnapshotVersion guards the JSON shape saved to disk so a future format
// change can detect and reject stale fixtures instead of silently
// misparsing them.
const SnapshotVersion = 1

// ActorSnapshot is the per-actor view exposed in a Snapshot.
type ActorSnapshot struct {
	Index   int     `json:"index"`
	X       float32 `json:"x"`
	Y       float32 `json:"y"`
	Heading float32 `json:"heading"`
	Speed   float32 `json:"speed"`

	Paralyzed  bool `json:"paralyzed"`
	Shielded   bool `json:"shielded"`
	Magnetized bool `json:"magnetized"`
	Boosted    bool `json:"boosted"`
}

// ItemSnapshot is the per-item view exposed in a Snapshot.
type ItemSnapshot struct {
	Kind string  `json:"kind"`
	X    float32 `json:"x"`
	Y    float32 `json:"y"`
}

// Snapshot is the minimal serializable state sufficient to resume or
// replay a simulation at a tick boundary (§6, GLOSSARY "Snapshot").
type Snapshot struct {
	Version int `json:"version"`

	Seed          uint32  `json:"seed"`
	TrackWidth    int     `json:"track_width"`
	TrackHeight   int     `json:"track_height"`
	Phase         string  `json:"phase"`
	Tick          int64   `json:"tick"`
	Actors        []ActorSnapshot `json:"actors"`
	Items         []ItemSnapshot  `json:"items"`
	GoalX         float32 `json:"goal_x"`
	GoalY         float32 `json:"goal_y"`
	RaceRemainingS float64 `json:"race_remaining_s"`
	TotalRaces    int64   `json:"total_races"`
}

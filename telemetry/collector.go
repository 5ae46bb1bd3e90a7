// Package telemetry accumulates race outcomes into rolling-window
// statistics, detects notable individual races, and persists both CSV
// history and JSON state snapshots.
package telemetry

// ResolutionKind categorizes how a race ended.
type ResolutionKind string

const (
	ResolutionWin      ResolutionKind = "win"
	ResolutionDeadline ResolutionKind = "deadline"
)

// RaceResult is one race's outcome, the unit Collector accumulates over a
// rolling window and OutputManager streams to races.csv.
type RaceResult struct {
	Seed       uint32         `csv:"seed"`
	RaceIndex  int64          `csv:"race_index"`
	Winner     int            `csv:"winner"` // -1 when Resolution is ResolutionDeadline
	Resolution ResolutionKind `csv:"resolution"`

	StartTick     int64 `csv:"start_tick"`
	EndTick       int64 `csv:"end_tick"`
	DurationTicks int64 `csv:"duration_ticks"`

	// ContendersAtFinish is how many actors overlapped the goal on the
	// tick the race resolved, the input BookmarkDetector uses to flag a
	// photo finish. The engine's events do not report the goal-overlap
	// set, and no caller in this module sets this field, so it stays 0
	// unless a caller fills it in itself.
	ContendersAtFinish int `csv:"contenders_at_finish"`
}

// WindowStats holds aggregated race-outcome statistics for a rolling
// window of completed races, mirroring the teacher Collector's
// window/flush split (birth/death counters there, win/duration counters
// here).
type WindowStats struct {
	WindowStartRace int64 `csv:"-"`
	WindowEndRace   int64 `csv:"window_end_race"`

	RaceCount     int `csv:"race_count"`
	DeadlineCount int `csv:"deadline_count"`

	MeanDurationTicks float64 `csv:"mean_duration_ticks"`
	MinDurationTicks  int64   `csv:"min_duration_ticks"`
	MaxDurationTicks  int64   `csv:"max_duration_ticks"`

	DeadlineRate float64 `csv:"deadline_rate"`

	// winsByActor is not flattened to CSV directly; WinRate exposes it
	// per-actor for the analytics CLI.
	winsByActor [6]int
}

// WinRate returns the fraction of races in the window won by actor idx.
func (w WindowStats) WinRate(idx int) float64 {
	if w.RaceCount == 0 || idx < 0 || idx >= len(w.winsByActor) {
		return 0
	}
	return float64(w.winsByActor[idx]) / float64(w.RaceCount)
}

// Wins returns the raw win count for actor idx within the window.
func (w WindowStats) Wins(idx int) int {
	if idx < 0 || idx >= len(w.winsByActor) {
		return 0
	}
	return w.winsByActor[idx]
}

// Collector accumulates race outcomes within a rolling race-count window.
// The teacher's Collector windows by tick count since births/deaths occur
// every tick; races resolve irregularly, so this windows by race count
// instead, which keeps each flushed window a meaningful, comparably-sized
// sample of completed races.
type Collector struct {
	racesPerWindow int64

	windowStartRace int64
	raceCount       int
	winsByActor     [6]int
	deadlineCount   int
	totalDuration   int64
	minDuration     int64
	maxDuration     int64
}

// NewCollector creates a collector flushing every racesPerWindow races.
func NewCollector(racesPerWindow int64) *Collector {
	if racesPerWindow < 1 {
		racesPerWindow = 1
	}
	return &Collector{racesPerWindow: racesPerWindow}
}

// RecordRace folds one completed race's outcome into the current window.
func (c *Collector) RecordRace(r RaceResult) {
	c.raceCount++
	switch {
	case r.Resolution == ResolutionDeadline:
		c.deadlineCount++
	case r.Winner >= 0 && r.Winner < len(c.winsByActor):
		c.winsByActor[r.Winner]++
	}

	c.totalDuration += r.DurationTicks
	if c.raceCount == 1 || r.DurationTicks < c.minDuration {
		c.minDuration = r.DurationTicks
	}
	if r.DurationTicks > c.maxDuration {
		c.maxDuration = r.DurationTicks
	}
}

// ShouldFlush reports whether the window has accumulated racesPerWindow
// races since it last flushed.
func (c *Collector) ShouldFlush(currentRaceIndex int64) bool {
	return currentRaceIndex-c.windowStartRace >= c.racesPerWindow
}

// Flush computes WindowStats for the accumulated races, resets every
// counter, and starts a fresh window at currentRaceIndex.
func (c *Collector) Flush(currentRaceIndex int64) WindowStats {
	stats := WindowStats{
		WindowStartRace:  c.windowStartRace,
		WindowEndRace:    currentRaceIndex,
		RaceCount:        c.raceCount,
		DeadlineCount:    c.deadlineCount,
		MinDurationTicks: c.minDuration,
		MaxDurationTicks: c.maxDuration,
		winsByActor:      c.winsByActor,
	}
	if c.raceCount > 0 {
		stats.MeanDurationTicks = float64(c.totalDuration) / float64(c.raceCount)
		stats.DeadlineRate = float64(c.deadlineCount) / float64(c.raceCount)
	}

	c.windowStartRace = currentRaceIndex
	c.raceCount = 0
	c.winsByActor = [6]int{}
	c.deadlineCount = 0
	c.totalDuration = 0
	c.minDuration = 0
	c.maxDuration = 0

	return stats
}

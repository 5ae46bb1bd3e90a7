package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the kind of notable race a BookmarkDetector
// flagged.
type BookmarkType string

const (
	BookmarkBlowout     BookmarkType = "blowout"
	BookmarkPhotoFinish BookmarkType = "photo_finish"
	BookmarkMarathon    BookmarkType = "marathon"
)

// Bookmark represents an automatically flagged notable race.
type Bookmark struct {
	Type        BookmarkType
	RaceIndex   int64
	Tick        int64
	Description string
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"race_index", b.RaceIndex,
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector flags notable individual races, adapting the teacher's
// threshold-based ecosystem detectors (hunt breakthrough, prey crash) to
// race outcomes. Unlike the teacher's detector, race bookmarks need no
// rolling history: "blowout" and "marathon" are properties of a single
// race judged against a fixed threshold, not a trend across many windows.
type BookmarkDetector struct {
	blowoutFraction float64
	minContenders   int
}

// NewBookmarkDetector creates a detector. blowoutFraction is the fraction
// of the race time limit a winning duration must fall under to count as a
// blowout; minContenders is how many actors must overlap the goal on the
// resolving tick to count as a photo finish.
func NewBookmarkDetector(blowoutFraction float64, minContenders int) *BookmarkDetector {
	if blowoutFraction <= 0 {
		blowoutFraction = 0.25
	}
	if minContenders < 2 {
		minContenders = 2
	}
	return &BookmarkDetector{blowoutFraction: blowoutFraction, minContenders: minContenders}
}

// Check analyzes one completed race and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(r RaceResult, raceTimeLimitTicks int64) []Bookmark {
	var bookmarks []Bookmark

	if r.Resolution == ResolutionDeadline {
		bookmarks = append(bookmarks, Bookmark{
			Type:      BookmarkMarathon,
			RaceIndex: r.RaceIndex,
			Tick:      r.EndTick,
			Description: fmt.Sprintf("race %d resolved by deadline with no winner after %d ticks",
				r.RaceIndex, r.DurationTicks),
		})
		return bookmarks
	}

	if raceTimeLimitTicks > 0 && float64(r.DurationTicks) <= float64(raceTimeLimitTicks)*bd.blowoutFraction {
		bookmarks = append(bookmarks, Bookmark{
			Type:      BookmarkBlowout,
			RaceIndex: r.RaceIndex,
			Tick:      r.EndTick,
			Description: fmt.Sprintf("actor %d won race %d in %d ticks, under %.0f%% of the %d-tick limit",
				r.Winner, r.RaceIndex, r.DurationTicks, bd.blowoutFraction*100, raceTimeLimitTicks),
		})
	}

	if r.ContendersAtFinish >= bd.minContenders {
		bookmarks = append(bookmarks, Bookmark{
			Type:      BookmarkPhotoFinish,
			RaceIndex: r.RaceIndex,
			Tick:      r.EndTick,
			Description: fmt.Sprintf("%d actors overlapped the goal on the same tick in race %d",
				r.ContendersAtFinish, r.RaceIndex),
		})
	}

	return bookmarks
}

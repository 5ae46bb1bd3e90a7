package telemetry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blindhorse/racesim/engine"
)

func TestSnapshotSaveLoad(t *testing.T) {
	tmpDir := t.TempDir()

	snapshot := &Snapshot{
		Snapshot: engine.Snapshot{
			Version:     engine.SnapshotVersion,
			Seed:        42,
			TrackWidth:  1280,
			TrackHeight: 720,
			Phase:       "racing",
			Tick:        1000,
			Actors: []engine.ActorSnapshot{
				{Index: 0, X: 150, Y: 250, Heading: 1.2, Speed: 60},
			},
			GoalX:      900,
			GoalY:      400,
			TotalRaces: 3,
		},
		Bookmark: &Bookmark{
			Type:        BookmarkBlowout,
			RaceIndex:   3,
			Tick:        1000,
			Description: "test bookmark",
		},
	}

	path, err := SaveSnapshot(snapshot, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("snapshot file not created at %s", path)
	}

	loaded, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}

	if loaded.Version != snapshot.Version {
		t.Errorf("Version mismatch: got %d, want %d", loaded.Version, snapshot.Version)
	}
	if loaded.Seed != snapshot.Seed {
		t.Errorf("Seed mismatch: got %d, want %d", loaded.Seed, snapshot.Seed)
	}
	if loaded.Tick != snapshot.Tick {
		t.Errorf("Tick mismatch: got %d, want %d", loaded.Tick, snapshot.Tick)
	}
	if len(loaded.Actors) != len(snapshot.Actors) {
		t.Errorf("Actors count mismatch: got %d, want %d", len(loaded.Actors), len(snapshot.Actors))
	}
	if loaded.Bookmark == nil {
		t.Fatal("bookmark not loaded")
	}
	if loaded.Bookmark.Type != snapshot.Bookmark.Type {
		t.Errorf("bookmark type mismatch: got %s, want %s", loaded.Bookmark.Type, snapshot.Bookmark.Type)
	}
}

func TestSnapshotFilename(t *testing.T) {
	tmpDir := t.TempDir()

	withBookmark := &Snapshot{
		Snapshot: engine.Snapshot{Version: engine.SnapshotVersion, Tick: 5000},
		Bookmark: &Bookmark{Type: BookmarkMarathon, Tick: 5000},
	}
	path, err := SaveSnapshot(withBookmark, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_5000_marathon.json"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}

	noBookmark := &Snapshot{Snapshot: engine.Snapshot{Version: engine.SnapshotVersion, Tick: 3000}}
	path, err = SaveSnapshot(noBookmark, tmpDir)
	if err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}
	if want := filepath.Join(tmpDir, "snapshot_3000.json"); path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
}

package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/blindhorse/racesim/config"
)

// OutputManager handles structured run output: race results and
// bookmarks streamed to CSV as they happen, plus a config dump, mirroring
// the teacher's OutputManager (telemetry.csv/perf.csv/bookmarks.csv ->
// races.csv/bookmarks.csv here).
type OutputManager struct {
	dir          string
	racesFile    *os.File
	bookmarkFile *os.File

	racesHeaderWritten    bool
	bookmarkHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the
// output directory. Returns nil, nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	racesPath := filepath.Join(dir, "races.csv")
	f, err := os.Create(racesPath)
	if err != nil {
		return nil, fmt.Errorf("creating races.csv: %w", err)
	}
	om.racesFile = f

	bookmarkPath := filepath.Join(dir, "bookmarks.csv")
	f, err = os.Create(bookmarkPath)
	if err != nil {
		om.racesFile.Close()
		return nil, fmt.Errorf("creating bookmarks.csv: %w", err)
	}
	om.bookmarkFile = f

	return om, nil
}

// WriteConfig saves the current configuration as YAML alongside the CSV
// output, so a run's exact parameters are reproducible from its results.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	configPath := filepath.Join(om.dir, "config.yaml")
	return cfg.WriteYAML(configPath)
}

// WriteRace writes a race result record to races.csv.
func (om *OutputManager) WriteRace(r RaceResult) error {
	if om == nil {
		return nil
	}

	records := []RaceResult{r}

	if !om.racesHeaderWritten {
		if err := gocsv.Marshal(records, om.racesFile); err != nil {
			return fmt.Errorf("writing race result: %w", err)
		}
		om.racesHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.racesFile); err != nil {
			return fmt.Errorf("writing race result: %w", err)
		}
	}

	return nil
}

// WriteBookmark writes a bookmark record to bookmarks.csv.
func (om *OutputManager) WriteBookmark(b Bookmark) error {
	if om == nil {
		return nil
	}

	records := []Bookmark{b}

	if !om.bookmarkHeaderWritten {
		if err := gocsv.Marshal(records, om.bookmarkFile); err != nil {
			return fmt.Errorf("writing bookmark: %w", err)
		}
		om.bookmarkHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.bookmarkFile); err != nil {
			return fmt.Errorf("writing bookmark: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.racesFile != nil {
		if err := om.racesFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.bookmarkFile != nil {
		if err := om.bookmarkFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

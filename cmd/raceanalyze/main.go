// Command raceanalyze runs N headless races per seed across a seed list
// and reports win-rate per actor index plus finish-time statistics,
// grounded in the teacher's cmd/optimize seeds-per-evaluation loop and
// its CSV logging idiom.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/blindhorse/racesim/assets"
	"github.com/blindhorse/racesim/config"
	"github.com/blindhorse/racesim/engine"
	"github.com/blindhorse/racesim/telemetry"
	"github.com/blindhorse/racesim/track"
)

var (
	trackPath    = flag.String("track", "", "Path to a track raster image (required)")
	configPath   = flag.String("config", "", "Config YAML overlay file (empty = defaults)")
	seedStart    = flag.Uint64("seed-start", 1, "First seed to evaluate")
	seedCount    = flag.Int("seed-count", 100, "Number of seeds to evaluate")
	racesPerSeed = flag.Int("races-per-seed", 5, "Number of races run per seed")
	maxTicks     = flag.Int("max-ticks", 20000, "Cap on ticks per race (safety net against a stuck deadline)")
	outputCSV    = flag.String("output", "", "Path to write per-race CSV (empty = stdout summary only)")
)

func main() {
	flag.Parse()

	if *trackPath == "" {
		log.Fatal("-track is required")
	}

	width, height, rgba, err := assets.LoadTrackImage(*trackPath)
	if err != nil {
		log.Fatalf("loading track: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	trk, err := track.New(width, height, rgba, 128)
	if err != nil {
		log.Fatalf("building track: %v", err)
	}

	var csvWriter *csv.Writer
	var csvFile *os.File
	if *outputCSV != "" {
		csvFile, err = os.Create(*outputCSV)
		if err != nil {
			log.Fatalf("creating output CSV: %v", err)
		}
		defer csvFile.Close()
		csvWriter = csv.NewWriter(csvFile)
		defer csvWriter.Flush()
		csvWriter.Write([]string{"seed", "race_index", "winner", "resolution", "duration_ticks"})
	}

	collector := telemetry.NewCollector(int64(*seedCount * *racesPerSeed))
	var durations []float64

	for s := 0; s < *seedCount; s++ {
		seed := uint32(*seedStart) + uint32(s)
		eng, err := engine.New(cfg, trk, seed)
		if err != nil {
			log.Fatalf("creating engine for seed %d: %v", seed, err)
		}
		if err := eng.StartRace(nil); err != nil {
			log.Fatalf("starting race for seed %d: %v", seed, err)
		}

		raceIdx := 0
		raceStartTick := int64(0)
		wasRacing := true // StartRace leaves the FSM in Betting, not Racing
		for raceIdx < *racesPerSeed {
			events, err := eng.Tick(cfg.Derived.TickDtMs)
			if err != nil {
				log.Fatalf("tick for seed %d: %v", seed, err)
			}

			snap := eng.Snapshot()
			isRacing := snap.Phase == "racing"
			if isRacing && !wasRacing {
				raceStartTick = snap.Tick
			}
			wasRacing = isRacing

			for _, ev := range events {
				if ev.Kind != engine.EventRaceResolved {
					continue
				}
				result := telemetry.RaceResult{
					Seed:          seed,
					RaceIndex:     int64(raceIdx),
					Winner:        ev.Winner,
					StartTick:     raceStartTick,
					EndTick:       ev.Tick,
					DurationTicks: ev.Tick - raceStartTick,
				}
				if ev.Winner == engine.NoWinner {
					result.Resolution = telemetry.ResolutionDeadline
				} else {
					result.Resolution = telemetry.ResolutionWin
				}
				collector.RecordRace(result)
				durations = append(durations, float64(result.DurationTicks))

				if csvWriter != nil {
					csvWriter.Write([]string{
						fmt.Sprint(result.Seed), fmt.Sprint(result.RaceIndex),
						fmt.Sprint(result.Winner), string(result.Resolution),
						fmt.Sprint(result.DurationTicks),
					})
				}

				raceIdx++
			}

			if snap.Tick > int64(*maxTicks)*int64(*racesPerSeed) {
				log.Printf("seed %d: exceeded tick safety net, skipping remaining races", seed)
				break
			}
		}
	}

	stats := collector.Flush(int64(*seedCount * *racesPerSeed))
	printSummary(stats, durations)
}

func printSummary(stats telemetry.WindowStats, durations []float64) {
	fmt.Printf("races analyzed: %d\n", stats.RaceCount)
	fmt.Printf("deadline rate: %.3f\n", stats.DeadlineRate)
	for i := 0; i < 6; i++ {
		if rate := stats.WinRate(i); rate > 0 {
			fmt.Printf("actor %d win rate: %.3f (%d wins)\n", i, rate, stats.Wins(i))
		}
	}

	if len(durations) == 0 {
		return
	}
	sorted := append([]float64{}, durations...)
	sort.Float64s(sorted)
	mean := stat.Mean(sorted, nil)
	median := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	p90 := stat.Quantile(0.9, stat.Empirical, sorted, nil)
	fmt.Printf("finish ticks: mean=%.1f median=%.1f p90=%.1f\n", mean, median, p90)
}

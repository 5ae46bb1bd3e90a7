package main

import (
	"math"
	"sync"

	"github.com/blindhorse/racesim/config"
	"github.com/blindhorse/racesim/engine"
	"github.com/blindhorse/racesim/telemetry"
	"github.com/blindhorse/racesim/track"
)

// targetWinRate is the even split we're tuning towards: no actor index
// should be structurally favored by reaction time, path bias, or skill
// usage alone.
const targetWinRate = 1.0 / 6.0

// FitnessEvaluator runs headless races across a seed list and scores how
// close the resulting per-actor win-rate distribution comes to uniform.
type FitnessEvaluator struct {
	params       *ParamVector
	racesPerSeed int
	seeds        []uint32
	baseConfig   *config.Config
	trk          *track.Track

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, racesPerSeed int, seeds []uint32, baseCfg *config.Config, trk *track.Track) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:       params,
		racesPerSeed: racesPerSeed,
		seeds:        seeds,
		baseConfig:   baseCfg,
		trk:          trk,
		bestFitness:  math.Inf(1),
	}
}

// LastQuality returns the evenness score (1 = perfectly uniform win
// distribution, 0 = worst) from the most recent Evaluate call.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

type seedResult struct {
	wins          [6]int
	races         int
	deadlineCount int
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness combines squared deviation from a uniform win-rate distribution
// with a penalty for races that time out at the deadline instead of
// resolving with a winner.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s uint32) {
			defer wg.Done()
			results[idx] = fe.runSeed(cfg, s)
		}(i, seed)
	}
	wg.Wait()

	var totalWins [6]int
	var totalRaces, totalDeadlines int
	for _, r := range results {
		for i := range totalWins {
			totalWins[i] += r.wins[i]
		}
		totalRaces += r.races
		totalDeadlines += r.deadlineCount
	}

	fitness, quality := fe.computeFitness(totalWins, totalRaces, totalDeadlines)

	fe.mu.Lock()
	if fitness < fe.bestFitness {
		fe.bestFitness = fitness
	}
	fe.lastQuality = quality
	fe.mu.Unlock()

	return fitness
}

// runSeed runs racesPerSeed races on one seed and tallies outcomes.
func (fe *FitnessEvaluator) runSeed(cfg *config.Config, seed uint32) seedResult {
	var result seedResult

	eng, err := engine.New(cfg, fe.trk, seed)
	if err != nil {
		return result
	}
	if err := eng.StartRace(nil); err != nil {
		return result
	}

	for result.races < fe.racesPerSeed {
		events, err := eng.Tick(cfg.Derived.TickDtMs)
		if err != nil {
			return result
		}
		for _, ev := range events {
			if ev.Kind != engine.EventRaceResolved {
				continue
			}
			if ev.Winner == engine.NoWinner {
				result.deadlineCount++
			} else if ev.Winner >= 0 && ev.Winner < 6 {
				result.wins[ev.Winner]++
			}
			result.races++
		}
	}

	return result
}

// copyConfig creates a deep-enough copy of the base config: only the
// struct fields, since ApplyToConfig writes only plain AI and movement
// values and never touches the catalog slices or the RNG.Seed pointer.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness scores a win-count tally. Lower fitness is better: it
// is the sum of squared per-actor deviation from targetWinRate plus a
// deadline-rate penalty, since a config that never produces a winner is
// useless no matter how even its (zero) win distribution looks.
func (fe *FitnessEvaluator) computeFitness(wins [6]int, races, deadlines int) (fitness, quality float64) {
	if races == 0 {
		return 1e9, 0
	}

	var sqDev float64
	for _, w := range wins {
		rate := float64(w) / float64(races)
		dev := rate - targetWinRate
		sqDev += dev * dev
	}

	deadlineRate := float64(deadlines) / float64(races)
	quality = math.Max(0, 1.0-sqDev*6.0)

	fitness = sqDev + 2.0*deadlineRate
	return fitness, quality
}

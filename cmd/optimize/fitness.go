package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/game"
	"github.com/pthm-cable/hive/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	maxTicks   int
	seeds      []int64
	baseConfig *config.Config

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastFilled  float64 // fraction of seeds that filled every comb
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		maxTicks:   maxTicks,
		seeds:      seeds,
		baseConfig: baseCfg,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastFilled returns the share of seeds that filled the hive in the most
// recent evaluation.
func (fe *FitnessEvaluator) LastFilled() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastFilled
}

// runResult holds the results from a single simulation run.
type runResult struct {
	ticks    int  // ticks until every comb was full, or maxTicks
	filled   bool // every comb full before maxTicks
	stored   int  // loads the combs accepted
	capacity int  // loads the combs can hold
	steps    []telemetry.StepStats
	err      error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness float64
	quality float64
	filled  bool
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness is the number of ticks needed to fill the hive, with unfilled
// runs charged maxTicks plus a penalty per missing load.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			result := fe.runSimulation(x, s)
			quality := computeQuality(result.steps)
			results[idx] = seedResult{
				fitness: fe.computeFitness(result, quality),
				quality: quality,
				filled:  result.filled,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, filled float64
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.filled {
			filled++
		}
	}

	n := float64(len(fe.seeds))
	fe.mu.Lock()
	fe.lastQuality = totalQuality / n
	fe.lastFilled = filled / n
	fe.mu.Unlock()

	return totalFitness / n
}

// runSimulation executes a single headless run until every comb is full
// or maxTicks pass.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)
	cfg.Sim.Steps = fe.maxTicks
	cfg.Sim.StopWhenFull = true

	result := &runResult{capacity: len(cfg.Hive.Combs) * components.CombCapacity}
	g, err := game.NewGame(game.Options{
		Config: cfg,
		Seed:   seed,
		StatsCallback: func(s telemetry.StepStats) {
			result.steps = append(result.steps, s)
		},
	})
	if err != nil {
		result.err = err
		result.ticks = fe.maxTicks
		return result
	}
	defer g.Close()

	result.err = g.Run()
	result.ticks = g.Tick()
	result.filled = g.AllCombsFull()
	for _, s := range result.steps {
		result.stored += s.Deposits
	}
	return result
}

// copyConfig returns a copy of the base config. The copy shares slices and
// the derived lookup tables, which the game only reads.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: fillTicks × (1.0 + 0.2 × (1 − quality))
// Fill time dominates; quality separates configs that fill equally fast.
func (fe *FitnessEvaluator) computeFitness(r *runResult, quality float64) float64 {
	if r.err != nil {
		return math.Inf(1)
	}
	ticks := float64(r.ticks)
	if !r.filled && r.capacity > 0 {
		missing := float64(r.capacity - r.stored)
		ticks = float64(fe.maxTicks) * (1 + missing/float64(r.capacity))
	}
	return ticks * (1.0 + 0.2*(1-quality))
}

// Quality component weights.
const (
	qualityWeightSurvival  = 0.6
	qualityWeightStability = 0.4

	qualityWarmupSteps = 10 // skip the first N steps
)

// computeQuality scores colony health in [0, 1]: how many foragers stay
// alive relative to the peak, and how steady the population is.
func computeQuality(steps []telemetry.StepStats) float64 {
	if len(steps) <= qualityWarmupSteps {
		return 0
	}
	valid := steps[qualityWarmupSteps:]

	alive := make([]float64, len(valid))
	peak := 0.0
	for i, s := range valid {
		alive[i] = float64(s.BeesAlive)
		peak = math.Max(peak, alive[i])
	}
	if peak == 0 {
		return 0
	}

	mean, std := stat.MeanStdDev(alive, nil)
	survival := mean / peak
	stability := 0.0
	if mean > 0 {
		cv := std / mean
		stability = math.Exp(-cv * cv)
	}

	return clamp01(qualityWeightSurvival*survival + qualityWeightStability*stability)
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

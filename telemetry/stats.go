// Package telemetry provides colony statistics, bookmarks, lifetime tracking
// and snapshots.
package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// StepStats is the per-tick record of colony health. The first three
// columns keep the batch stats layout: step, nectar, bees_alive.
type StepStats struct {
	Step      int `csv:"step"`
	Nectar    int `csv:"nectar"`     // cumulative loads unloaded at combs
	BeesAlive int `csv:"bees_alive"` // live foragers

	// Population
	BeesInHive  int  `csv:"bees_in_hive"`
	BeesOutside int  `csv:"bees_outside"`
	Carrying    int  `csv:"carrying"`
	Births      int  `csv:"births"`
	AgeDeaths   int  `csv:"age_deaths"`
	Kills       int  `csv:"kills"`
	QueenAlive  bool `csv:"queen_alive"`

	// Activity this step
	Collections int `csv:"collections"`
	NectarValue int `csv:"nectar_value"` // payload sum, golden counts double
	Deposits    int `csv:"deposits"`     // loads a comb accepted
	Crossings   int `csv:"crossings"`
	Waits       int `csv:"waits"` // foragers that found every comb full

	// Resources
	Flowers      int `csv:"flowers"`
	FlowerNectar int `csv:"flower_nectar"`
	CombLevel    int `csv:"comb_level"`
	CombsFull    int `csv:"combs_full"`

	// Age distribution of live foragers
	AgeMean float64 `csv:"age_mean"`
	AgeP10  float64 `csv:"age_p10"`
	AgeP50  float64 `csv:"age_p50"`
	AgeP90  float64 `csv:"age_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeAgeStats calculates mean and percentiles from forager ages.
func ComputeAgeStats(values []float64) (mean, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	mean = stat.Mean(values, nil)

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return mean, Percentile(sorted, 0.10), Percentile(sorted, 0.50), Percentile(sorted, 0.90)
}

// LogValue implements slog.LogValuer for structured logging.
func (s StepStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("step", s.Step),
		slog.Int("nectar", s.Nectar),
		slog.Int("bees_alive", s.BeesAlive),
		slog.Int("bees_in_hive", s.BeesInHive),
		slog.Int("bees_outside", s.BeesOutside),
		slog.Int("carrying", s.Carrying),
		slog.Int("births", s.Births),
		slog.Int("age_deaths", s.AgeDeaths),
		slog.Int("kills", s.Kills),
		slog.Bool("queen_alive", s.QueenAlive),
		slog.Int("collections", s.Collections),
		slog.Int("nectar_value", s.NectarValue),
		slog.Int("deposits", s.Deposits),
		slog.Int("crossings", s.Crossings),
		slog.Int("waits", s.Waits),
		slog.Int("flowers", s.Flowers),
		slog.Int("flower_nectar", s.FlowerNectar),
		slog.Int("comb_level", s.CombLevel),
		slog.Int("combs_full", s.CombsFull),
		slog.Float64("age_mean", s.AgeMean),
		slog.Float64("age_p50", s.AgeP50),
	)
}

// LogStats logs the step stats using slog.
func (s StepStats) LogStats() {
	slog.Info("stats",
		"step", s.Step,
		"nectar", s.Nectar,
		"bees_alive", s.BeesAlive,
		"bees_outside", s.BeesOutside,
		"carrying", s.Carrying,
		"births", s.Births,
		"age_deaths", s.AgeDeaths,
		"kills", s.Kills,
		"flowers", s.Flowers,
		"flower_nectar", s.FlowerNectar,
		"comb_level", s.CombLevel,
		"combs_full", s.CombsFull,
		"age_mean", s.AgeMean,
	)
}

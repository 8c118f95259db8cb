package telemetry

import (
	"log/slog"

	"gonum.org/v1/gonum/stat"
)

// DeathCause records why a forager died.
type DeathCause string

const (
	CauseAge   DeathCause = "age"
	CauseStung DeathCause = "stung"
)

// LifetimeStats tracks one forager over its lifetime.
type LifetimeStats struct {
	BirthTick int
	DeathTick int
	Cause     DeathCause

	Trips       int // portal round trips started
	Collections int
	NectarValue int
	Deposits    int
}

// Lifespan returns the ticks lived, or -1 while still alive.
func (s *LifetimeStats) Lifespan() int {
	if s.Cause == "" {
		return -1
	}
	return s.DeathTick - s.BirthTick
}

// LifetimeTracker manages per-forager lifetime statistics. Records of dead
// foragers stay readable but stop changing.
type LifetimeTracker struct {
	byID map[string]*LifetimeStats
	live int
	dead []*LifetimeStats
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{byID: make(map[string]*LifetimeStats)}
}

// Register starts tracking a forager.
func (lt *LifetimeTracker) Register(id string, birthTick int) {
	lt.byID[id] = &LifetimeStats{BirthTick: birthTick}
	lt.live++
}

// Get returns the stats of a forager, or nil if it was never registered.
func (lt *LifetimeTracker) Get(id string) *LifetimeStats {
	return lt.byID[id]
}

// alive returns the record of a forager that has not died yet.
func (lt *LifetimeTracker) alive(id string) *LifetimeStats {
	if s := lt.byID[id]; s != nil && s.Cause == "" {
		return s
	}
	return nil
}

// RecordTrip counts a departure from the hive.
func (lt *LifetimeTracker) RecordTrip(id string) {
	if s := lt.alive(id); s != nil {
		s.Trips++
	}
}

// RecordCollection adds a successful collection.
func (lt *LifetimeTracker) RecordCollection(id string, payload int) {
	if s := lt.alive(id); s != nil {
		s.Collections++
		s.NectarValue += payload
	}
}

// RecordDeposit counts a load stored in a comb.
func (lt *LifetimeTracker) RecordDeposit(id string) {
	if s := lt.alive(id); s != nil {
		s.Deposits++
	}
}

// RecordDeath closes a forager's record. Later calls for the same forager
// are ignored.
func (lt *LifetimeTracker) RecordDeath(id string, tick int, cause DeathCause) {
	s := lt.alive(id)
	if s == nil {
		return
	}
	s.DeathTick = tick
	s.Cause = cause
	lt.live--
	lt.dead = append(lt.dead, s)
}

// Live returns the number of foragers still tracked as alive.
func (lt *LifetimeTracker) Live() int {
	return lt.live
}

// LifetimeSummary aggregates completed lifetimes.
type LifetimeSummary struct {
	Dead          int
	DiedOfAge     int
	Stung         int
	MeanLifespan  float64
	MeanTrips     float64
	MeanDeposits  float64
	TotalDeposits int
}

// Summary aggregates every completed lifetime.
func (lt *LifetimeTracker) Summary() LifetimeSummary {
	sum := LifetimeSummary{Dead: len(lt.dead)}
	if len(lt.dead) == 0 {
		return sum
	}

	spans := make([]float64, len(lt.dead))
	trips := make([]float64, len(lt.dead))
	deposits := make([]float64, len(lt.dead))
	for i, s := range lt.dead {
		spans[i] = float64(s.Lifespan())
		trips[i] = float64(s.Trips)
		deposits[i] = float64(s.Deposits)
		sum.TotalDeposits += s.Deposits
		switch s.Cause {
		case CauseAge:
			sum.DiedOfAge++
		case CauseStung:
			sum.Stung++
		}
	}
	sum.MeanLifespan = stat.Mean(spans, nil)
	sum.MeanTrips = stat.Mean(trips, nil)
	sum.MeanDeposits = stat.Mean(deposits, nil)
	return sum
}

// LogValue implements slog.LogValuer for structured logging.
func (s LifetimeSummary) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("dead", s.Dead),
		slog.Int("died_of_age", s.DiedOfAge),
		slog.Int("stung", s.Stung),
		slog.Float64("mean_lifespan", s.MeanLifespan),
		slog.Float64("mean_trips", s.MeanTrips),
		slog.Float64("mean_deposits", s.MeanDeposits),
	)
}

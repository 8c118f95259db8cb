package systems

import "github.com/pthm-cable/hive/components"

// QueenSystem ages the queen and times her spawning.
type QueenSystem struct {
	interval int
}

// NewQueenSystem creates a queen system that spawns every interval ticks.
func NewQueenSystem(interval int) *QueenSystem {
	if interval < 1 {
		interval = components.QueenSpawnInterval
	}
	return &QueenSystem{interval: interval}
}

// Step advances the queen one tick and reports whether a forager hatches
// at her position. The caller owns the forager population and appends the
// newcomer itself. A queen that dies this tick does not spawn.
func (s *QueenSystem) Step(q *components.Queen) bool {
	if !q.Alive {
		return false
	}

	q.Age++
	if q.Age >= q.MaxAge {
		q.Alive = false
		return false
	}

	q.SpawnIn--
	if q.SpawnIn <= 0 {
		q.SpawnIn = s.interval
		return true
	}
	return false
}

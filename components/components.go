// Package components defines the entities of the hive simulation.
// Entities hold their own state plus the small mutators that keep that
// state consistent; cross-entity behavior lives in the systems package.
package components

// Cell is a grid coordinate. Rows grow downward in both the hive and the world grid.
type Cell struct {
	Row, Col int
}

// Add returns the cell offset by (dr, dc).
func (c Cell) Add(dr, dc int) Cell {
	return Cell{Row: c.Row + dr, Col: c.Col + dc}
}

// Manhattan returns the L1 distance between two cells.
func (c Cell) Manhattan(o Cell) int {
	return abs(c.Row-o.Row) + abs(c.Col-o.Col)
}

// DistSq returns the squared Euclidean distance between two cells.
func (c Cell) DistSq(o Cell) int {
	dr := c.Row - o.Row
	dc := c.Col - o.Col
	return dr*dr + dc*dc
}

// RNG is the random source entities and systems draw from.
// *math/rand.Rand satisfies it; a seeded instance makes a run replayable.
type RNG interface {
	Intn(n int) int
	Float64() float64
	Shuffle(n int, swap func(i, j int))
}

// RandRange returns a uniform integer in [lo, hi], both inclusive.
func RandRange(rng RNG, lo, hi int) int {
	return lo + rng.Intn(hi-lo+1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

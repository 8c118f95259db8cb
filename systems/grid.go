// Package systems implements per-tick agent behavior: grid movement,
// the forager state machine, the queen's spawning and the wasp's hunt.
package systems

import (
	"slices"

	"github.com/pthm-cable/hive/components"
)

// Bounds is the size of a rectangular grid. Valid cells are
// 0 <= Row < Rows and 0 <= Col < Cols.
type Bounds struct {
	Rows, Cols int
}

// Contains reports whether c lies inside the grid.
func (b Bounds) Contains(c components.Cell) bool {
	return c.Row >= 0 && c.Row < b.Rows && c.Col >= 0 && c.Col < b.Cols
}

// Obstacles is a set of impassable cells. A nil set blocks nothing.
type Obstacles map[components.Cell]struct{}

// NewObstacles builds a set from a list of cells.
func NewObstacles(cells ...components.Cell) Obstacles {
	o := make(Obstacles, len(cells))
	for _, c := range cells {
		o[c] = struct{}{}
	}
	return o
}

// Blocked reports whether c is an obstacle.
func (o Obstacles) Blocked(c components.Cell) bool {
	_, ok := o[c]
	return ok
}

// Space is one of the two coordinate spaces agents move in.
type Space struct {
	Bounds    Bounds
	Obstacles Obstacles
}

// Free reports whether c is inside the space and not an obstacle.
func (s Space) Free(c components.Cell) bool {
	return s.Bounds.Contains(c) && !s.Obstacles.Blocked(c)
}

// Portals links the hive grid to the world grid.
// Leaving: HiveExit (hive) -> WorldEntrance (world).
// Returning: WorldEntrance (world) -> HiveEntrance (hive).
type Portals struct {
	HiveExit      components.Cell
	HiveEntrance  components.Cell
	WorldEntrance components.Cell
}

// Topology bundles both spaces and the portals between them.
type Topology struct {
	Hive    Space
	World   Space
	Portals Portals
}

// offsets lists the 8 neighbor deltas in canonical order:
// row delta ascending, then col delta ascending.
var offsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Neighbors returns the free cells around pos in canonical order.
func Neighbors(pos components.Cell, space Space) []components.Cell {
	out := make([]components.Cell, 0, len(offsets))
	for _, d := range offsets {
		c := pos.Add(d[0], d[1])
		if space.Free(c) {
			out = append(out, c)
		}
	}
	return out
}

// MoveTowards returns the free neighbor closest to target by squared
// Euclidean distance. Ties keep canonical neighbor order. With no free
// neighbor it falls back to RandomMove.
func MoveTowards(pos, target components.Cell, space Space, rng components.RNG) components.Cell {
	nbrs := Neighbors(pos, space)
	if len(nbrs) == 0 {
		return RandomMove(pos, space, rng)
	}
	slices.SortStableFunc(nbrs, func(a, b components.Cell) int {
		return a.DistSq(target) - b.DistSq(target)
	})
	return nbrs[0]
}

// RandomMove shuffles the 8 offsets and returns the first free cell.
// If every neighbor is blocked the agent stays at pos.
func RandomMove(pos components.Cell, space Space, rng components.RNG) components.Cell {
	dirs := offsets
	rng.Shuffle(len(dirs), func(i, j int) {
		dirs[i], dirs[j] = dirs[j], dirs[i]
	})
	for _, d := range dirs {
		c := pos.Add(d[0], d[1])
		if space.Free(c) {
			return c
		}
	}
	return pos
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

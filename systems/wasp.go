package systems

import "github.com/pthm-cable/hive/components"

// WaspSystem drives autonomous wasps.
type WaspSystem struct {
	world  Space
	radius float64
}

// NewWaspSystem creates a wasp system hunting in the world space with the
// given sting radius.
func NewWaspSystem(world Space, radius float64) *WaspSystem {
	return &WaspSystem{world: world, radius: radius}
}

// Step runs one autonomous tick: sting, step toward the nearest target,
// sting again. Manual and dead wasps do nothing. Returns the number of
// foragers killed.
func (s *WaspSystem) Step(w *components.Wasp, foragers []*components.Forager) int {
	if !w.Alive || w.Manual {
		return 0
	}

	targets := Targets(foragers)
	kills := Sting(w, targets, s.radius)
	if target := nearestTarget(w.Pos, targets); target != nil {
		s.chase(w, target.Pos)
	}
	kills += Sting(w, targets, s.radius)
	return kills
}

// chase takes one step along the sign of the row and col deltas. The step
// is skipped when it would leave the grid or land on an obstacle.
func (s *WaspSystem) chase(w *components.Wasp, target components.Cell) {
	next := w.Pos.Add(sign(target.Row-w.Pos.Row), sign(target.Col-w.Pos.Col))
	if s.world.Free(next) {
		w.Pos = next
	}
}

// Targets returns the foragers a wasp can reach: alive and outside the hive.
func Targets(foragers []*components.Forager) []*components.Forager {
	out := make([]*components.Forager, 0, len(foragers))
	for _, f := range foragers {
		if f.Alive && !f.InHive {
			out = append(out, f)
		}
	}
	return out
}

// Sting kills every live target whose row and col each differ from the
// wasp's by at most radius. The zone is a box, not a disk. Returns the
// number of foragers killed.
func Sting(w *components.Wasp, targets []*components.Forager, radius float64) int {
	kills := 0
	for _, f := range targets {
		if !f.Alive {
			continue
		}
		dr := float64(absInt(f.Pos.Row - w.Pos.Row))
		dc := float64(absInt(f.Pos.Col - w.Pos.Col))
		if dr <= radius && dc <= radius {
			f.Kill()
			kills++
		}
	}
	return kills
}

// Nudge moves a manual wasp by (dr, dc) when the destination is free.
// It reports whether the wasp moved.
func Nudge(w *components.Wasp, dr, dc int, world Space) bool {
	next := w.Pos.Add(dr, dc)
	if !world.Free(next) {
		return false
	}
	w.Pos = next
	return true
}

// nearestTarget returns the live target closest by Manhattan distance,
// earlier targets winning ties.
func nearestTarget(pos components.Cell, targets []*components.Forager) *components.Forager {
	var best *components.Forager
	bestDist := 0
	for _, f := range targets {
		if !f.Alive {
			continue
		}
		d := pos.Manhattan(f.Pos)
		if best == nil || d < bestDist {
			best = f
			bestDist = d
		}
	}
	return best
}

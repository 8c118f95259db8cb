package game

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/hive/components"
)

// ErrInvariant marks a simulation state that should be unreachable.
var ErrInvariant = errors.New("invariant violated")

// CheckInvariants verifies the state after a tick. Nothing is repaired;
// the first violation is returned wrapped in ErrInvariant.
func (g *Game) CheckInvariants() error {
	for _, f := range g.foragerPtrs() {
		if err := g.checkForager(f); err != nil {
			return err
		}
	}

	for _, fl := range g.flowerPtrs() {
		if !g.topo.World.Free(fl.Pos) {
			return violation("flower %s at (%d,%d) is off the world or on an obstacle", fl.ID, fl.Pos.Row, fl.Pos.Col)
		}
		if fl.Quantity < 0 || fl.Quantity > fl.Capacity {
			return violation("flower %s quantity %d outside [0,%d]", fl.ID, fl.Quantity, fl.Capacity)
		}
	}

	for _, c := range g.combPtrs() {
		if c.Level < 0 || c.Level > c.Capacity {
			return violation("comb %s level %d outside [0,%d]", c.ID, c.Level, c.Capacity)
		}
		if c.Full != (c.Level >= c.Capacity) {
			return violation("comb %s full=%t at level %d", c.ID, c.Full, c.Level)
		}
		if c.Level < g.lastLevels[c.ID] {
			return violation("comb %s level fell from %d to %d", c.ID, g.lastLevels[c.ID], c.Level)
		}
		g.lastLevels[c.ID] = c.Level
	}

	for _, w := range g.waspPtrs() {
		if !g.topo.World.Free(w.Pos) {
			return violation("wasp %s at (%d,%d) is off the world or on an obstacle", w.ID, w.Pos.Row, w.Pos.Col)
		}
	}

	if g.queen.Age < 0 || g.queen.Age > g.queen.MaxAge {
		return violation("queen age %d outside [0,%d]", g.queen.Age, g.queen.MaxAge)
	}
	return nil
}

// checkForager verifies one forager. A dead forager must stay exactly as
// it was on the first check that saw it dead.
func (g *Game) checkForager(f *components.Forager) error {
	if f.Age < 0 || f.Age > f.MaxAge {
		return violation("forager %s age %d outside [0,%d]", f.ID, f.Age, f.MaxAge)
	}
	if f.Depositing && !f.InHive {
		return violation("forager %s depositing outside the hive", f.ID)
	}

	space := g.topo.World
	if f.InHive {
		space = g.topo.Hive
	}
	if !space.Free(f.Pos) {
		return violation("forager %s at (%d,%d) is off its grid or on an obstacle (in hive: %t)",
			f.ID, f.Pos.Row, f.Pos.Col, f.InHive)
	}

	if f.Alive {
		return nil
	}
	if was, ok := g.frozen[f.ID]; ok {
		if was != *f {
			return violation("dead forager %s changed", f.ID)
		}
		return nil
	}
	g.frozen[f.ID] = *f
	return nil
}

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariant, fmt.Sprintf(format, args...))
}

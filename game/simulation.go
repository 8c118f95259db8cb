package game

import (
	"log/slog"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/systems"
	"github.com/pthm-cable/hive/telemetry"
)

// foragerPtrs returns the foragers in creation order. The pointers are
// valid until the next entity is created or removed.
func (g *Game) foragerPtrs() []*components.Forager {
	out := make([]*components.Forager, len(g.foragers))
	for i, e := range g.foragers {
		out[i] = g.foragerMap.Get(e)
	}
	return out
}

func (g *Game) flowerPtrs() []*components.Flower {
	out := make([]*components.Flower, len(g.flowers))
	for i, e := range g.flowers {
		out[i] = g.flowerMap.Get(e)
	}
	return out
}

func (g *Game) combPtrs() []*components.Comb {
	out := make([]*components.Comb, len(g.combs))
	for i, e := range g.combs {
		out[i] = g.combMap.Get(e)
	}
	return out
}

func (g *Game) waspPtrs() []*components.Wasp {
	out := make([]*components.Wasp, len(g.wasps))
	for i, e := range g.wasps {
		out[i] = g.waspMap.Get(e)
	}
	return out
}

// recordForager feeds one forager outcome to the collector and the
// lifetime tracker.
func (g *Game) recordForager(f *components.Forager, out systems.ForagerOutcome) {
	if out.Payload > 0 {
		g.collector.RecordCollection(out.Payload)
		g.lifetimes.RecordCollection(f.ID, out.Payload)
	}
	if out.Unloaded {
		g.collector.RecordUnload(out.Stored)
		if out.Stored {
			g.lifetimes.RecordDeposit(f.ID)
		}
	}
	if out.Crossed {
		g.collector.RecordCrossing()
		if out.State == components.StateExiting {
			g.lifetimes.RecordTrip(f.ID)
		}
	}
	if out.Waiting {
		g.collector.RecordWait()
	}
	if out.Died {
		g.collector.RecordAgeDeath()
		g.lifetimes.RecordDeath(f.ID, g.tick, telemetry.CauseAge)
		slog.Debug("forager died", "tick", g.tick, "id", f.ID, "age", f.Age)
	}
}

// stepWasps runs every wasp against the tick's forager snapshot and
// records the foragers they killed.
func (g *Game) stepWasps(foragers []*components.Forager) {
	prey := systems.Targets(foragers)
	kills := 0
	for _, w := range g.waspPtrs() {
		kills += g.waspSystem.Step(w, foragers)
	}
	if kills > 0 {
		g.recordStung(prey)
	}
}

// recordStung reports every forager in prey that is now dead.
func (g *Game) recordStung(prey []*components.Forager) {
	n := 0
	for _, f := range prey {
		if f.Alive {
			continue
		}
		n++
		g.lifetimes.RecordDeath(f.ID, g.tick, telemetry.CauseStung)
		slog.Debug("forager stung", "tick", g.tick, "id", f.ID, "row", f.Pos.Row, "col", f.Pos.Col)
	}
	g.collector.RecordKills(n)
}

// Wasps returns a copy of every wasp in creation order.
func (g *Game) Wasps() []components.Wasp {
	out := make([]components.Wasp, len(g.wasps))
	for i, e := range g.wasps {
		out[i] = *g.waspMap.Get(e)
	}
	return out
}

// MoveWasp moves wasp i by (dr, dc) if the destination is free, then
// stings with the manual radius whether or not it moved. It returns the
// number of foragers killed. An out-of-range index does nothing.
func (g *Game) MoveWasp(i, dr, dc int) int {
	if i < 0 || i >= len(g.wasps) {
		return 0
	}
	w := g.waspMap.Get(g.wasps[i])
	if !w.Alive {
		return 0
	}
	systems.Nudge(w, dr, dc, g.topo.World)

	prey := systems.Targets(g.foragerPtrs())
	kills := systems.Sting(w, prey, g.cfg.Wasp.ManualRadius)
	if kills > 0 {
		g.recordStung(prey)
	}
	return kills
}

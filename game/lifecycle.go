package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
)

// spawnInitialPopulation creates the queen, the foragers, the combs, the
// flowers and the wasps, in that order.
func (g *Game) spawnInitialPopulation() error {
	cfg := g.cfg
	spawn := cfg.Hive.Spawn.Cell()

	g.queen = components.NewQueen("queen", spawn, cfg.Queen.MinAge, cfg.Queen.MaxAge, cfg.Queen.SpawnInterval, g.rng)

	for i := 0; i < cfg.Forager.Count; i++ {
		g.spawnForager(spawn)
	}

	for i, p := range cfg.Hive.Combs {
		comb := components.NewComb(fmt.Sprintf("comb%d", i+1), p.Cell())
		comb.Build()
		g.combs = append(g.combs, g.combMap.NewEntity(&comb))
	}

	placed := 0
	free := g.freeFlowerCells()
	for placed < cfg.Flower.Count && placed < free {
		if g.trySpawnFlower() {
			placed++
		}
	}
	if placed < cfg.Flower.Count {
		slog.Warn("not enough free cells for flowers", "requested", cfg.Flower.Count, "placed", placed)
	}

	return g.spawnWasps()
}

// spawnWasps places the first wasp at the configured start and the rest
// on random free world cells.
func (g *Game) spawnWasps() error {
	cfg := g.cfg
	if cfg.Wasp.Count == 0 {
		return nil
	}
	start := cfg.Wasp.Start.Cell()
	if !g.topo.World.Free(start) {
		return fmt.Errorf("%w: wasp start (%d,%d) is outside the world or on an obstacle",
			config.ErrInvalid, start.Row, start.Col)
	}
	for i := 0; i < cfg.Wasp.Count; i++ {
		pos := start
		if i > 0 {
			pos = g.randomWorldCell(g.topo.World.Free)
		}
		wasp := components.NewWasp(fmt.Sprintf("wasp%d", i+1), pos, cfg.Wasp.Manual)
		g.wasps = append(g.wasps, g.waspMap.NewEntity(&wasp))
	}
	return nil
}

// spawnForager appends forager w(N+1) at pos, N being the population
// size including dead foragers.
func (g *Game) spawnForager(pos components.Cell) ecs.Entity {
	cfg := g.cfg.Forager
	f := components.NewForager(components.ForagerID(len(g.foragers)+1), pos, cfg.DetectRange, cfg.MinAge, cfg.MaxAge, g.rng)
	e := g.foragerMap.NewEntity(&f)
	g.foragers = append(g.foragers, e)
	g.lifetimes.Register(f.ID, g.tick)
	return e
}

// hatchForager adds the queen's newcomer after the tick's agents acted.
func (g *Game) hatchForager() {
	e := g.spawnForager(g.queen.Pos)
	g.collector.RecordBirth()
	slog.Debug("forager hatched", "tick", g.tick, "id", g.foragerMap.Get(e).ID)
}

// updateFlowers runs the between-tick flower bookkeeping: regrow, prune
// exhausted flowers when enabled, then maybe spawn one new flower.
func (g *Game) updateFlowers() {
	for _, e := range g.flowers {
		g.flowerMap.Get(e).Regrow(g.rng)
	}

	if g.cfg.Sim.PruneEmptyFlowers {
		g.pruneFlowers()
	}

	if g.rng.Float64() < g.cfg.Flower.SpawnP {
		g.trySpawnFlower()
	}
}

// pruneFlowers removes every empty flower. Entities are collected first and
// removed after the scan.
func (g *Game) pruneFlowers() {
	var toRemove []ecs.Entity
	kept := g.flowers[:0]
	for _, e := range g.flowers {
		if g.flowerMap.Get(e).Empty() {
			toRemove = append(toRemove, e)
			continue
		}
		kept = append(kept, e)
	}
	g.flowers = kept

	for _, e := range toRemove {
		g.world.RemoveEntity(e)
	}
	if len(toRemove) > 0 {
		slog.Debug("flowers pruned", "tick", g.tick, "count", len(toRemove))
	}
}

// trySpawnFlower draws one random world cell and plants a flower there
// unless the cell is an obstacle, the world entrance or already has a
// flower. It reports whether a flower was planted.
func (g *Game) trySpawnFlower() bool {
	pos := components.Cell{
		Row: g.rng.Intn(g.topo.World.Bounds.Rows),
		Col: g.rng.Intn(g.topo.World.Bounds.Cols),
	}
	if !g.flowerCellFree(pos) {
		return false
	}

	golden := g.rng.Float64() < g.cfg.Flower.GoldenChance
	g.nextFlower++
	f := components.NewFlower(fmt.Sprintf("flower%d", g.nextFlower), pos, golden, g.rng)
	g.flowers = append(g.flowers, g.flowerMap.NewEntity(&f))
	return true
}

// flowerCellFree reports whether a flower may be planted at pos.
func (g *Game) flowerCellFree(pos components.Cell) bool {
	if !g.topo.World.Free(pos) || pos == g.topo.Portals.WorldEntrance {
		return false
	}
	for _, e := range g.flowers {
		if g.flowerMap.Get(e).Pos == pos {
			return false
		}
	}
	return true
}

// freeFlowerCells counts the world cells a flower could still take.
func (g *Game) freeFlowerCells() int {
	b := g.topo.World.Bounds
	n := 0
	for r := 0; r < b.Rows; r++ {
		for c := 0; c < b.Cols; c++ {
			if g.flowerCellFree(components.Cell{Row: r, Col: c}) {
				n++
			}
		}
	}
	return n
}

// randomWorldCell draws world cells until ok accepts one. The caller
// guarantees that at least one cell is acceptable.
func (g *Game) randomWorldCell(ok func(components.Cell) bool) components.Cell {
	b := g.topo.World.Bounds
	for {
		c := components.Cell{Row: g.rng.Intn(b.Rows), Col: g.rng.Intn(b.Cols)}
		if ok(c) {
			return c
		}
	}
}

func (g *Game) logQueenDeath() {
	slog.Debug("queen died", "tick", g.tick, "age", g.queen.Age)
}

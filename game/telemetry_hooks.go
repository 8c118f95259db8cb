package game

import (
	"log/slog"

	"github.com/pthm-cable/hive/telemetry"
)

// flushTelemetry closes the tick's stats record, logs and writes it, and
// checks for bookmarks.
func (g *Game) flushTelemetry() {
	stats := g.collector.Flush(g.tick, g.census())
	g.lastStats = stats

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	logTick := g.logEvery > 0 && g.tick%g.logEvery == 0

	if g.logStats && logTick {
		stats.LogStats()
		g.perf.Stats().LogStats()
	}

	if g.output != nil {
		if err := g.output.WriteStep(stats); err != nil {
			slog.Error("failed to write step stats", "error", err)
		}
		if logTick {
			if err := g.output.WritePerf(g.perf.Stats(), g.tick); err != nil {
				slog.Error("failed to write perf", "error", err)
			}
		}
	}

	for _, bm := range g.bookmarks.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.output != nil {
			if err := g.output.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot writes the colony state for a bookmark.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.createSnapshot(bookmark), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "step", g.tick)
}

// createSnapshot copies the current state into its serializable form.
func (g *Game) createSnapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	s := &telemetry.Snapshot{
		Version:   telemetry.SnapshotVersion,
		Seed:      g.seed,
		Step:      g.tick,
		WorldRows: g.topo.World.Bounds.Rows,
		WorldCols: g.topo.World.Bounds.Cols,
		Queen: telemetry.QueenState{
			Age:     g.queen.Age,
			MaxAge:  g.queen.MaxAge,
			SpawnIn: g.queen.SpawnIn,
			Alive:   g.queen.Alive,
		},
		Bookmark: bookmark,
	}
	for _, f := range g.foragerPtrs() {
		s.Foragers = append(s.Foragers, telemetry.NewForagerState(f, g.lifetimes.Get(f.ID)))
	}
	for _, fl := range g.flowerPtrs() {
		s.Flowers = append(s.Flowers, telemetry.NewFlowerState(fl))
	}
	for _, c := range g.combPtrs() {
		s.Combs = append(s.Combs, telemetry.NewCombState(c))
	}
	for _, w := range g.waspPtrs() {
		s.Wasps = append(s.Wasps, telemetry.NewWaspState(w))
	}
	return s
}

// census samples the population and resources. Order does not matter
// here, so it walks the ECS filters.
func (g *Game) census() telemetry.Census {
	c := telemetry.Census{QueenAlive: g.queen.Alive}

	query := g.foragerView.Query()
	for query.Next() {
		f := query.Get()
		if !f.Alive {
			continue
		}
		c.BeesAlive++
		if f.InHive {
			c.BeesInHive++
		} else {
			c.BeesOutside++
		}
		if f.Carrying {
			c.Carrying++
		}
		c.Ages = append(c.Ages, float64(f.Age))
	}

	flowers := g.flowerView.Query()
	for flowers.Next() {
		fl := flowers.Get()
		c.Flowers++
		c.FlowerNectar += fl.Quantity
	}

	for _, comb := range g.combPtrs() {
		c.CombLevel += comb.Level
		if comb.Full {
			c.CombsFull++
		}
	}
	return c
}

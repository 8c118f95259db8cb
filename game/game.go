// Package game drives the hive simulation: it owns the entity storage,
// runs the systems in a fixed order each tick and feeds telemetry.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/hive/components"
	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/systems"
	"github.com/pthm-cable/hive/telemetry"
)

// Options configures a new game.
type Options struct {
	Config          *config.Config  // nil uses config.Cfg()
	Seed            int64           // 0 uses Config.Sim.Seed
	Terrain         *config.Terrain // nil loads Config.World.Terrain or generates a world
	CheckInvariants bool            // also enabled by Config.Sim.CheckInvariants
	LogStats        bool            // log step and perf stats every Telemetry.LogEvery ticks
	OutputDir       string          // directory for CSV output (empty = disabled)
	Compress        bool            // zstd-compress the step log
	SnapshotDir     string          // directory for bookmark snapshots (empty = disabled)
	StatsCallback   func(telemetry.StepStats)
}

// Game holds the complete simulation state.
type Game struct {
	cfg  *config.Config
	rng  *rand.Rand
	seed int64

	world       *ecs.World
	foragerMap  *ecs.Map1[components.Forager]
	flowerMap   *ecs.Map1[components.Flower]
	combMap     *ecs.Map1[components.Comb]
	waspMap     *ecs.Map1[components.Wasp]
	foragerView *ecs.Filter1[components.Forager]
	flowerView  *ecs.Filter1[components.Flower]

	// Entities in creation order. Iteration order is part of the
	// simulation semantics, so systems walk these instead of queries.
	foragers []ecs.Entity
	flowers  []ecs.Entity
	combs    []ecs.Entity
	wasps    []ecs.Entity

	queen components.Queen

	terrain *config.Terrain
	topo    systems.Topology

	foragerSystem *systems.ForagerSystem
	queenSystem   *systems.QueenSystem
	waspSystem    *systems.WaspSystem

	tick        int
	nextFlower  int
	missionDone bool
	lastStats   telemetry.StepStats

	// Invariant bookkeeping
	checkInvars bool
	frozen      map[string]components.Forager // dead foragers as first seen dead
	lastLevels  map[string]int

	logStats      bool
	logEvery      int
	snapshotDir   string
	statsCallback func(telemetry.StepStats)

	collector *telemetry.Collector
	perf      *telemetry.PerfCollector
	bookmarks *telemetry.BookmarkDetector
	lifetimes *telemetry.LifetimeTracker
	output    *telemetry.OutputManager
}

// NewGame builds the world, places the initial population and opens the
// output files. Configuration problems are returned wrapped in
// config.ErrInvalid.
func NewGame(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = cfg.Sim.Seed
	}

	world := ecs.NewWorld()
	g := &Game{
		cfg:           cfg,
		rng:           rand.New(rand.NewSource(seed)),
		seed:          seed,
		world:         world,
		foragerMap:    ecs.NewMap1[components.Forager](world),
		flowerMap:     ecs.NewMap1[components.Flower](world),
		combMap:       ecs.NewMap1[components.Comb](world),
		waspMap:       ecs.NewMap1[components.Wasp](world),
		foragerView:   ecs.NewFilter1[components.Forager](world),
		flowerView:    ecs.NewFilter1[components.Flower](world),
		checkInvars:   opts.CheckInvariants || cfg.Sim.CheckInvariants,
		frozen:        make(map[string]components.Forager),
		lastLevels:    make(map[string]int),
		logStats:      opts.LogStats,
		logEvery:      cfg.Telemetry.LogEvery,
		snapshotDir:   opts.SnapshotDir,
		statsCallback: opts.StatsCallback,
		collector:     telemetry.NewCollector(),
		perf:          telemetry.NewPerfCollector(100),
		bookmarks:     telemetry.NewBookmarkDetector(20, len(cfg.Hive.Combs)),
		lifetimes:     telemetry.NewLifetimeTracker(),
	}

	terrain, generated, err := g.loadTerrain(opts.Terrain)
	if err != nil {
		return nil, err
	}
	g.terrain = terrain

	if g.topo, err = buildTopology(cfg, terrain, generated); err != nil {
		return nil, err
	}

	g.foragerSystem = systems.NewForagerSystem(g.topo, g.rng)
	g.queenSystem = systems.NewQueenSystem(cfg.Queen.SpawnInterval)
	g.waspSystem = systems.NewWaspSystem(g.topo.World, cfg.Wasp.StingRadius)

	if err := g.spawnInitialPopulation(); err != nil {
		return nil, err
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir, opts.Compress)
	if err != nil {
		return nil, err
	}
	g.output = output
	if g.output != nil {
		if err := g.output.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config", "error", err)
		}
	}

	slog.Debug("game created",
		"seed", seed,
		"world", fmt.Sprintf("%dx%d", g.topo.World.Bounds.Rows, g.topo.World.Bounds.Cols),
		"obstacles", len(g.topo.World.Obstacles),
		"foragers", len(g.foragers),
		"flowers", len(g.flowers),
		"wasps", len(g.wasps),
	)
	return g, nil
}

// loadTerrain picks the terrain source: an explicit grid, a CSV file
// named in the config, or a generated default world. generated reports
// the last case.
func (g *Game) loadTerrain(t *config.Terrain) (terrain *config.Terrain, generated bool, err error) {
	if t != nil {
		return t, false, nil
	}
	if path := g.cfg.World.Terrain; path != "" {
		terrain, err = config.LoadTerrain(path)
		return terrain, false, err
	}
	keep := []components.Cell{g.cfg.Wasp.Start.Cell()}
	return config.GenerateTerrain(g.cfg.World, g.cfg.Derived.Obstacle, keep, g.rng), true, nil
}

// buildTopology derives the two movement spaces and the portals. The
// world entrance must be a free world cell.
func buildTopology(cfg *config.Config, terrain *config.Terrain, generated bool) (systems.Topology, error) {
	rows, cols := terrain.Dims()
	topo := systems.Topology{
		Hive: systems.Space{
			Bounds: systems.Bounds{Rows: cfg.Hive.Rows, Cols: cfg.Hive.Cols},
		},
		World: systems.Space{
			Bounds:    systems.Bounds{Rows: rows, Cols: cols},
			Obstacles: systems.NewObstacles(terrain.Obstacles(cfg.Derived.Obstacle)...),
		},
		Portals: systems.Portals{
			HiveExit:      cfg.Hive.Exit.Cell(),
			HiveEntrance:  cfg.Hive.Entrance.Cell(),
			WorldEntrance: cfg.World.EntranceFor(rows, cols, generated),
		},
	}
	if e := topo.Portals.WorldEntrance; !topo.World.Free(e) {
		return topo, fmt.Errorf("%w: world entrance (%d,%d) is outside the %dx%d world or on an obstacle",
			config.ErrInvalid, e.Row, e.Col, rows, cols)
	}
	return topo, nil
}

// Step advances the simulation by one tick. It returns an error only when
// invariant checking is enabled and the state is inconsistent.
func (g *Game) Step() error {
	g.perf.StartTick()
	g.tick++

	g.perf.StartPhase(telemetry.PhaseQueen)
	queenAlive := g.queen.Alive
	hatch := g.queenSystem.Step(&g.queen)
	if queenAlive && !g.queen.Alive {
		g.logQueenDeath()
	}

	// Foragers hatched this tick join after every forager and wasp has acted.
	g.perf.StartPhase(telemetry.PhaseForagers)
	snapshot := g.foragerPtrs()
	flowers := g.flowerPtrs()
	combs := g.combPtrs()
	for _, f := range snapshot {
		out := g.foragerSystem.Step(f, flowers, combs)
		g.recordForager(f, out)
	}

	g.perf.StartPhase(telemetry.PhaseWasps)
	g.stepWasps(snapshot)

	g.perf.StartPhase(telemetry.PhaseHatch)
	if hatch {
		g.hatchForager()
	}

	g.perf.StartPhase(telemetry.PhaseFlowers)
	g.updateFlowers()

	g.perf.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()
	g.checkMission()

	var err error
	if g.checkInvars {
		g.perf.StartPhase(telemetry.PhaseInvariants)
		err = g.CheckInvariants()
	}
	g.perf.EndTick()
	return err
}

// Run steps until Done reports true or a step fails.
func (g *Game) Run() error {
	for !g.Done() {
		if err := g.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Done reports whether the run is over: the step budget is spent, or
// every comb is full and the config asks to stop there.
func (g *Game) Done() bool {
	if g.tick >= g.cfg.Sim.Steps {
		return true
	}
	return g.cfg.Sim.StopWhenFull && g.AllCombsFull()
}

// AllCombsFull reports whether every comb is full. A hive without combs
// is never full.
func (g *Game) AllCombsFull() bool {
	if len(g.combs) == 0 {
		return false
	}
	for _, e := range g.combs {
		if !g.combMap.Get(e).Full {
			return false
		}
	}
	return true
}

// checkMission logs the first tick on which every comb is full.
func (g *Game) checkMission() {
	if g.missionDone || !g.AllCombsFull() {
		return
	}
	g.missionDone = true
	slog.Info("mission complete", "tick", g.tick, "nectar", g.collector.Nectar())
}

// Close flushes and closes the output files.
func (g *Game) Close() error {
	if g.output == nil {
		return nil
	}
	err := g.output.Close()
	g.output = nil
	if err != nil {
		return fmt.Errorf("closing output: %w", err)
	}
	return nil
}

// Tick returns the number of completed ticks.
func (g *Game) Tick() int { return g.tick }

// Seed returns the seed of the game's random source.
func (g *Game) Seed() int64 { return g.seed }

// Stats returns the stats of the most recent tick.
func (g *Game) Stats() telemetry.StepStats { return g.lastStats }

// Topology returns the movement spaces and portals.
func (g *Game) Topology() systems.Topology { return g.topo }

// Terrain returns the world tile grid.
func (g *Game) Terrain() *config.Terrain { return g.terrain }

// Perf returns rolling step timings.
func (g *Game) Perf() telemetry.PerfStats { return g.perf.Stats() }

// RecordFrame marks a rendered frame for the viewer's FPS readout.
func (g *Game) RecordFrame() { g.perf.RecordFrame() }

// LifetimeSummary aggregates the lifetimes of every forager seen so far.
func (g *Game) LifetimeSummary() telemetry.LifetimeSummary { return g.lifetimes.Summary() }

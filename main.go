package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/game"
	"github.com/pthm-cable/hive/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	fieldPath := flag.String("field", "", "Terrain CSV (overrides world.terrain)")
	paramsPath := flag.String("params", "", "Params CSV of key,value rows (steps, num_bees, num_flower, num_wasp, spawn_flower_p)")
	csvPath := flag.String("csv", "", "Write per-step stats to this CSV (.zst = compressed)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	snapshotDir := flag.String("snapshot-dir", "", "Directory for bookmark snapshot files")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	steps := flag.Int("steps", 0, "Number of steps (0 = use config)")
	season := flag.String("season", "", "Flower season preset: summer or winter")
	check := flag.Bool("check", false, "Check invariants after every step")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	compress := flag.Bool("compress", false, "zstd-compress steps.csv in the output directory")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	if *paramsPath != "" {
		p, err := config.LoadParams(*paramsPath, cfg.Params())
		if err != nil {
			slog.Error("failed to load params", "error", err)
			os.Exit(1)
		}
		cfg.ApplyParams(p)
	}
	if *fieldPath != "" {
		cfg.World.Terrain = *fieldPath
	}
	if *steps > 0 {
		cfg.Sim.Steps = *steps
	}
	if err := cfg.ApplySeason(*season); err != nil {
		slog.Error("bad season", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Config:          cfg,
		Seed:            rngSeed,
		CheckInvariants: *check,
		LogStats:        *logStats,
		OutputDir:       *outputDir,
		Compress:        *compress,
		SnapshotDir:     *snapshotDir,
	}

	if *csvPath != "" {
		out, err := telemetry.CreateCSV(*csvPath)
		if err != nil {
			slog.Error("failed to create stats csv", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := out.Close(); err != nil {
				slog.Error("failed to close stats csv", "error", err)
			}
		}()
		opts.StatsCallback = func(s telemetry.StepStats) {
			if err := out.Write([]telemetry.StepStats{s}); err != nil {
				slog.Error("failed to write stats", "step", s.Step, "error", err)
			}
		}
	}

	if err := run(opts); err != nil {
		slog.Error("batch failed", "error", err)
		os.Exit(1)
	}
}

// run drives one headless batch to completion.
func run(opts game.Options) error {
	g, err := game.NewGame(opts)
	if err != nil {
		return err
	}
	defer g.Close()

	slog.Info("starting batch",
		"seed", g.Seed(),
		"steps", opts.Config.Sim.Steps,
		"foragers", opts.Config.Forager.Count,
		"flowers", opts.Config.Flower.Count,
		"wasps", opts.Config.Wasp.Count,
	)

	start := time.Now()
	if err := g.Run(); err != nil {
		return err
	}

	stats := g.Stats()
	slog.Info("Batch finished",
		"steps", g.Tick(),
		"nectar", stats.Nectar,
		"bees_alive", stats.BeesAlive,
		"combs_full", stats.CombsFull,
		"all_full", g.AllCombsFull(),
		"elapsed", time.Since(start).Round(time.Millisecond).String(),
		"lifetimes", g.LifetimeSummary(),
	)
	return g.Close()
}

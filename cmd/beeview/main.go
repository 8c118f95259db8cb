// Command beeview runs the hive in the terminal with a wasp steered from
// the keyboard.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/game"
)

// Interactive limits.
const (
	minSteps = 50
	maxSteps = 500
	minBees  = 1
	maxBees  = 20
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	season := flag.String("season", "summer", "Flower season preset: summer or winter")
	steps := flag.Int("steps", 200, fmt.Sprintf("Number of steps (%d-%d)", minSteps, maxSteps))
	bees := flag.Int("bees", 10, fmt.Sprintf("Initial foragers (%d-%d)", minBees, maxBees))
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	delay := flag.Duration("delay", 150*time.Millisecond, "Wall time per simulation step")
	logPath := flag.String("log", "", "Write JSON logs to this file (empty = discard)")
	mute := flag.Bool("mute", false, "Disable the sting sound")

	flag.Parse()

	if *steps < minSteps || *steps > maxSteps {
		fmt.Fprintf(os.Stderr, "-steps must be in [%d, %d], got %d\n", minSteps, maxSteps, *steps)
		os.Exit(2)
	}
	if *bees < minBees || *bees > maxBees {
		fmt.Fprintf(os.Stderr, "-bees must be in [%d, %d], got %d\n", minBees, maxBees, *bees)
		os.Exit(2)
	}

	// The terminal belongs to the viewer, so logs go to a file or nowhere.
	handler := slog.DiscardHandler
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		handler = slog.NewJSONHandler(f, nil)
	}
	slog.SetDefault(slog.New(handler))

	if err := config.Init(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg()
	if err := cfg.ApplySeason(*season); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}
	cfg.Sim.Steps = *steps
	cfg.Sim.StopWhenFull = true
	cfg.Sim.PruneEmptyFlowers = true
	cfg.Forager.Count = *bees
	cfg.Wasp.Count = 1
	cfg.Wasp.Manual = true

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	g, err := game.NewGame(game.Options{Config: cfg, Seed: rngSeed})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		os.Exit(1)
	}
	defer g.Close()

	v, err := newViewer(g, *delay, !*mute)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize terminal: %v\n", err)
		os.Exit(1)
	}
	defer v.cleanup()

	v.run()
}

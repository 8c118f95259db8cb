// Command optimize searches flower ecology and colony parameters for the
// setting that fills the hive fastest, using CMA-ES.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/hive/config"
)

// options collects the command line.
type options struct {
	configPath string
	season     string
	outputDir  string
	maxTicks   int
	seeds      int
	seedBase   int64
	maxEvals   int
	population int
	stepSize   float64
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "Base config YAML file (empty = use defaults)")
	flag.StringVar(&opts.season, "season", "", "Flower season preset applied to the base config")
	flag.StringVar(&opts.outputDir, "output", "", "Output directory for the eval log and best config")
	flag.IntVar(&opts.maxTicks, "max-ticks", 1000, "Tick cap per run; unfilled runs are scored against it")
	flag.IntVar(&opts.seeds, "seeds", 3, "Seeds per evaluation")
	flag.Int64Var(&opts.seedBase, "seed-base", 42, "First evaluation seed; later seeds step by 1000")
	flag.IntVar(&opts.maxEvals, "max-evals", 200, "Evaluation budget")
	flag.IntVar(&opts.population, "population", 0, "CMA-ES population size (0 = 4 + 3*dim/2)")
	flag.Float64Var(&opts.stepSize, "step-size", 0.3, "Initial CMA-ES step size in normalized space")
	flag.Parse()

	// Games log mission completion at Info; the console is for progress lines.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	if err := run(opts); err != nil {
		slog.Error("optimize failed", "error", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	if opts.outputDir == "" {
		return errors.New("-output is required")
	}
	if err := os.MkdirAll(opts.outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	baseCfg, err := loadBase(opts)
	if err != nil {
		return err
	}

	params := NewParamVector()
	seeds := make([]int64, opts.seeds)
	for i := range seeds {
		seeds[i] = opts.seedBase + int64(i)*1000
	}
	evaluator := NewFitnessEvaluator(params, opts.maxTicks, seeds, baseCfg)

	evals, err := newEvalLog(filepath.Join(opts.outputDir, "optimize_log.csv"), params, opts.maxEvals)
	if err != nil {
		return err
	}
	defer evals.Close()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			values := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(values)
			evals.Record(values, fitness, evaluator.LastQuality(), evaluator.LastFilled())
			return fitness
		},
	}

	popSize := opts.population
	if popSize == 0 {
		popSize = 4 + 3*params.Dim()/2
	}
	method := &optimize.CmaEsChol{
		InitStepSize: opts.stepSize,
		Population:   popSize,
	}
	// Seeds already run in parallel inside Evaluate.
	settings := &optimize.Settings{FuncEvaluations: opts.maxEvals}

	fmt.Printf("CMA-ES over %d parameters: population %d, budget %d evals, %d seeds x %d ticks\n",
		params.Dim(), popSize, opts.maxEvals, opts.seeds, opts.maxTicks)

	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		// Budget exhaustion surfaces here too; the best eval so far still counts.
		slog.Warn("optimization stopped", "error", err)
	}

	best := evals.best
	if best == nil && result != nil {
		best = params.Clamp(params.Denormalize(result.X))
	}
	if best == nil {
		return errors.New("no evaluation completed")
	}

	fmt.Printf("\nDone: %d evals in %s, best fitness %.1f\n",
		evals.count, formatDuration(time.Since(evals.start)), evals.bestFitness)
	for i, spec := range params.Specs {
		fmt.Printf("  %-24s %.6f\n", spec.Path, best[i])
	}

	bestCfg, err := loadBase(opts)
	if err != nil {
		return err
	}
	params.ApplyToConfig(bestCfg, best)
	outPath := filepath.Join(opts.outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(outPath); err != nil {
		return fmt.Errorf("writing best config: %w", err)
	}
	fmt.Printf("Best config: %s\n", outPath)
	return nil
}

// loadBase reads the base config and applies the season preset.
func loadBase(opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplySeason(opts.season); err != nil {
		return nil, err
	}
	return cfg, nil
}

// formatDuration renders d as 1h02m03s, or 2m03s under an hour.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

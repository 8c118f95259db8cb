// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/hive/components"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid marks configuration that was present but malformed.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all simulation configuration parameters.
type Config struct {
	Sim       SimConfig       `yaml:"sim"`
	Hive      HiveConfig      `yaml:"hive"`
	World     WorldConfig     `yaml:"world"`
	Forager   ForagerConfig   `yaml:"forager"`
	Queen     QueenConfig     `yaml:"queen"`
	Wasp      WaspConfig      `yaml:"wasp"`
	Flower    FlowerConfig    `yaml:"flower"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Pos is a grid coordinate as written in config files.
type Pos struct {
	Row int `yaml:"row"`
	Col int `yaml:"col"`
}

// Cell converts the position to a grid cell.
func (p Pos) Cell() components.Cell {
	return components.Cell{Row: p.Row, Col: p.Col}
}

// SimConfig holds run-level settings.
type SimConfig struct {
	Steps             int   `yaml:"steps"`
	Seed              int64 `yaml:"seed"`
	StopWhenFull      bool  `yaml:"stop_when_full"`      // end the run once every comb is full
	PruneEmptyFlowers bool  `yaml:"prune_empty_flowers"` // drop exhausted flowers between ticks
	CheckInvariants   bool  `yaml:"check_invariants"`
}

// HiveConfig describes the hive grid.
type HiveConfig struct {
	Rows     int   `yaml:"rows"`
	Cols     int   `yaml:"cols"`
	Exit     Pos   `yaml:"exit"`     // hive side of the outbound portal
	Entrance Pos   `yaml:"entrance"` // hive side of the inbound portal
	Spawn    Pos   `yaml:"spawn"`    // queen and new foragers
	Combs    []Pos `yaml:"combs"`
}

// WorldConfig describes the world grid. When Terrain names a CSV file the
// grid dimensions come from the file instead of Rows and Cols.
type WorldConfig struct {
	Rows          int    `yaml:"rows"`
	Cols          int    `yaml:"cols"`
	Entrance      *Pos   `yaml:"entrance"` // nil: see EntranceFor
	Terrain       string `yaml:"terrain"`

	// GeneratedEntrance is the entrance of a generated world when Entrance
	// is unset. Loaded terrain ignores it.
	GeneratedEntrance *Pos `yaml:"generated_entrance"`

	ObstacleCodes []int  `yaml:"obstacle_codes"`
	Trees         int    `yaml:"trees"`          // random trees in a generated world
	ProtectRadius int    `yaml:"protect_radius"` // tree-free box around the entrance
	Features      []Rect `yaml:"features"`
}

// Rect is a filled block of one tile code in a generated world.
// Top/Left are inclusive, Bottom/Right exclusive.
type Rect struct {
	Name   string `yaml:"name"`
	Code   int    `yaml:"code"`
	Top    int    `yaml:"top"`
	Left   int    `yaml:"left"`
	Bottom int    `yaml:"bottom"`
	Right  int    `yaml:"right"`
}

// EntranceFor returns the world entrance for a world of the given size.
// An explicit entrance wins. Otherwise a generated world uses
// GeneratedEntrance and any other world uses the bottom row, middle column.
func (w WorldConfig) EntranceFor(rows, cols int, generated bool) components.Cell {
	if w.Entrance != nil {
		return w.Entrance.Cell()
	}
	if generated && w.GeneratedEntrance != nil {
		return w.GeneratedEntrance.Cell()
	}
	return components.Cell{Row: rows - 1, Col: cols / 2}
}

// ForagerConfig holds forager parameters.
type ForagerConfig struct {
	Count       int `yaml:"count"`        // initial population
	DetectRange int `yaml:"detect_range"` // Manhattan radius
	MinAge      int `yaml:"min_age"`
	MaxAge      int `yaml:"max_age"`
}

// QueenConfig holds queen parameters.
type QueenConfig struct {
	MinAge        int `yaml:"min_age"`
	MaxAge        int `yaml:"max_age"`
	SpawnInterval int `yaml:"spawn_interval"`
}

// WaspConfig holds predator parameters.
type WaspConfig struct {
	Count        int     `yaml:"count"`
	Start        Pos     `yaml:"start"` // first wasp; the rest start on random free cells
	Manual       bool    `yaml:"manual"`
	StingRadius  float64 `yaml:"sting_radius"`
	ManualRadius float64 `yaml:"manual_radius"`
}

// FlowerConfig holds flower ecology parameters.
type FlowerConfig struct {
	Count        int     `yaml:"count"`
	SpawnP       float64 `yaml:"spawn_p"`       // chance of one new flower per tick
	GoldenChance float64 `yaml:"golden_chance"` // chance a new flower is golden
	Season       string  `yaml:"season"`        // "", "summer" or "winter"
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	LogEvery int `yaml:"log_every"` // ticks between stats log lines, 0 disables
}

// Season presets for the flower population.
var seasons = map[string]struct {
	count  int
	spawnP float64
}{
	"summer": {40, 0.07},
	"winter": {20, 0.02},
}

// ApplySeason overrides the flower count and spawn chance with a season
// preset. An empty name leaves them unchanged.
func (c *Config) ApplySeason(name string) error {
	if name == "" {
		return nil
	}
	s, ok := seasons[name]
	if !ok {
		return fmt.Errorf("%w: unknown season %q", ErrInvalid, name)
	}
	c.Flower.Season = name
	c.Flower.Count = s.count
	c.Flower.SpawnP = s.spawnP
	return nil
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Obstacle map[int]bool // tile code -> impassable
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	var data []byte
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return Parse(data)
}

// Parse overlays a YAML document on the embedded defaults, then validates
// the result. Empty data yields the defaults.
func Parse(data []byte) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Unmarshal into same struct - only overwrites fields present in the document
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parsing config file: %v", ErrInvalid, err)
		}
	}

	if err := cfg.ApplySeason(cfg.Flower.Season); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.computeDerived()
	return cfg, nil
}

// Validate checks the config against the embedded schema, then checks the
// cross-field rules the schema cannot express.
func (c *Config) Validate() error {
	if err := validateSchema(c); err != nil {
		return err
	}

	if c.Forager.MinAge > c.Forager.MaxAge {
		return fmt.Errorf("%w: forager min_age %d > max_age %d", ErrInvalid, c.Forager.MinAge, c.Forager.MaxAge)
	}
	if c.Queen.MinAge > c.Queen.MaxAge {
		return fmt.Errorf("%w: queen min_age %d > max_age %d", ErrInvalid, c.Queen.MinAge, c.Queen.MaxAge)
	}

	inHive := func(name string, p Pos) error {
		if p.Row >= c.Hive.Rows || p.Col >= c.Hive.Cols {
			return fmt.Errorf("%w: hive %s (%d,%d) outside %dx%d hive", ErrInvalid, name, p.Row, p.Col, c.Hive.Rows, c.Hive.Cols)
		}
		return nil
	}
	if err := inHive("exit", c.Hive.Exit); err != nil {
		return err
	}
	if err := inHive("entrance", c.Hive.Entrance); err != nil {
		return err
	}
	if err := inHive("spawn", c.Hive.Spawn); err != nil {
		return err
	}
	for i, p := range c.Hive.Combs {
		if err := inHive(fmt.Sprintf("comb %d", i+1), p); err != nil {
			return err
		}
	}

	for _, r := range c.World.Features {
		if r.Bottom < r.Top || r.Right < r.Left {
			return fmt.Errorf("%w: feature %q has negative extent", ErrInvalid, r.Name)
		}
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.Obstacle = make(map[int]bool, len(c.World.ObstacleCodes))
	for _, code := range c.World.ObstacleCodes {
		c.Derived.Obstacle[code] = true
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

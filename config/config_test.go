package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/hive/components"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Sim.Steps != 200 {
		t.Errorf("steps = %d, want 200", cfg.Sim.Steps)
	}
	if cfg.Forager.Count != 10 || cfg.Flower.Count != 30 || cfg.Wasp.Count != 1 {
		t.Errorf("populations = %d/%d/%d, want 10/30/1", cfg.Forager.Count, cfg.Flower.Count, cfg.Wasp.Count)
	}
	if cfg.Flower.SpawnP != 0.02 {
		t.Errorf("spawn_p = %g, want 0.02", cfg.Flower.SpawnP)
	}
	if cfg.Hive.Exit.Cell() != (components.Cell{Row: 0, Col: 7}) {
		t.Errorf("hive exit = %+v", cfg.Hive.Exit)
	}
	if len(cfg.Hive.Combs) != 3 {
		t.Errorf("combs = %d, want 3", len(cfg.Hive.Combs))
	}
	for _, code := range []int{TileWater, TileTree, TileHouse} {
		if !cfg.Derived.Obstacle[code] {
			t.Errorf("code %d not impassable", code)
		}
	}
	if cfg.Derived.Obstacle[TileGrass] {
		t.Error("grass is impassable")
	}
}

func TestParseOverlay(t *testing.T) {
	cfg, err := Parse([]byte(`
sim:
  steps: 75
forager:
  count: 4
hive:
  combs:
    - {row: 1, col: 1}
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.Sim.Steps != 75 || cfg.Forager.Count != 4 {
		t.Errorf("overlay not applied: steps=%d count=%d", cfg.Sim.Steps, cfg.Forager.Count)
	}
	if cfg.Flower.Count != 30 {
		t.Errorf("untouched default changed: flower count %d", cfg.Flower.Count)
	}
	if len(cfg.Hive.Combs) != 1 {
		t.Errorf("combs = %v, want one entry", cfg.Hive.Combs)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not yaml", "sim: [unclosed"},
		{"wrong type", "sim:\n  steps: lots\n"},
		{"negative steps", "sim:\n  steps: -1\n"},
		{"probability above one", "flower:\n  spawn_p: 1.5\n"},
		{"zero hive rows", "hive:\n  rows: 0\n"},
		{"unknown season", "flower:\n  season: autumn\n"},
		{"forager ages reversed", "forager:\n  min_age: 50\n  max_age: 10\n"},
		{"queen ages reversed", "queen:\n  min_age: 900\n"},
		{"exit outside hive", "hive:\n  exit: {row: 20, col: 7}\n"},
		{"comb outside hive", "hive:\n  combs:\n    - {row: 3, col: 15}\n"},
		{"negative position", "wasp:\n  start: {row: -1, col: 0}\n"},
		{"inverted feature", "world:\n  features:\n    - {code: 15, top: 5, left: 0, bottom: 2, right: 3}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error %v does not wrap ErrInvalid", err)
			}
		})
	}
}

func TestSeason(t *testing.T) {
	tests := []struct {
		season string
		count  int
		spawnP float64
	}{
		{"summer", 40, 0.07},
		{"winter", 20, 0.02},
	}

	for _, tt := range tests {
		t.Run(tt.season, func(t *testing.T) {
			cfg, err := Parse([]byte("flower:\n  season: " + tt.season + "\n"))
			if err != nil {
				t.Fatalf("Parse() error: %v", err)
			}
			if cfg.Flower.Count != tt.count || cfg.Flower.SpawnP != tt.spawnP {
				t.Errorf("flowers = %d @ %g, want %d @ %g", cfg.Flower.Count, cfg.Flower.SpawnP, tt.count, tt.spawnP)
			}
		})
	}
}

func TestEntranceFor(t *testing.T) {
	tests := []struct {
		name      string
		entrance  *Pos
		generated bool
		want      components.Cell
	}{
		{"loaded, unset", nil, false, components.Cell{Row: 29, Col: 20}},
		{"generated, unset", nil, true, components.Cell{Row: 5, Col: 6}},
		{"loaded, explicit", &Pos{Row: 15, Col: 20}, false, components.Cell{Row: 15, Col: 20}},
		{"generated, explicit", &Pos{Row: 15, Col: 20}, true, components.Cell{Row: 15, Col: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := WorldConfig{Entrance: tt.entrance, GeneratedEntrance: &Pos{Row: 5, Col: 6}}
			if got := w.EntranceFor(30, 41, tt.generated); got != tt.want {
				t.Errorf("EntranceFor = %v, want %v", got, tt.want)
			}
		})
	}

	if got := (WorldConfig{}).EntranceFor(30, 41, true); got != (components.Cell{Row: 29, Col: 20}) {
		t.Errorf("generated without generated_entrance = %v, want {29 20}", got)
	}
}

func TestDefaultEntranceDependsOnTerrainSource(t *testing.T) {
	cfg := Default()
	if cfg.World.Entrance != nil {
		t.Fatalf("default entrance = %+v, want nil", cfg.World.Entrance)
	}
	if got := cfg.World.EntranceFor(40, 30, true); got != (components.Cell{Row: 15, Col: 20}) {
		t.Errorf("generated world entrance = %v, want {15 20}", got)
	}
	if got := cfg.World.EntranceFor(40, 30, false); got != (components.Cell{Row: 39, Col: 15}) {
		t.Errorf("40x30 terrain entrance = %v, want {39 15}", got)
	}
	if got := cfg.World.EntranceFor(12, 12, false); got != (components.Cell{Row: 11, Col: 6}) {
		t.Errorf("12x12 terrain entrance = %v, want {11 6}", got)
	}
}

func TestExplicitEntranceOverlay(t *testing.T) {
	cfg, err := Parse([]byte("world:\n  entrance: {row: 3, col: 4}\n"))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := components.Cell{Row: 3, Col: 4}
	for _, generated := range []bool{false, true} {
		if got := cfg.World.EntranceFor(40, 30, generated); got != want {
			t.Errorf("generated=%t: entrance = %v, want %v", generated, got, want)
		}
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Sim.Steps = 123
	cfg.Flower.GoldenChance = 0.4

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML() error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Sim.Steps != 123 || loaded.Flower.GoldenChance != 0.4 {
		t.Errorf("round trip lost values: steps=%d golden=%g", loaded.Sim.Steps, loaded.Flower.GoldenChance)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want not-exist", err)
	}
}

func TestInitAndCfg(t *testing.T) {
	if err := Init(""); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if Cfg().Sim.Steps != 200 {
		t.Errorf("Cfg().Sim.Steps = %d", Cfg().Sim.Steps)
	}
}

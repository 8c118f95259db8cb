package config

import (
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/pthm-cable/hive/components"
)

func TestParseTerrain(t *testing.T) {
	in := "10,10,3\n15,10.0,0\n"
	ter, err := ParseTerrain(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseTerrain() error: %v", err)
	}

	rows, cols := ter.Dims()
	if rows != 2 || cols != 3 {
		t.Fatalf("dims = %dx%d, want 2x3", rows, cols)
	}
	if got := ter.Code(components.Cell{Row: 1, Col: 0}); got != TileHouse {
		t.Errorf("code(1,0) = %d, want %d", got, TileHouse)
	}

	obs := ter.Obstacles(map[int]bool{TileWater: true, TileTree: true, TileHouse: true})
	want := []components.Cell{{Row: 0, Col: 2}, {Row: 1, Col: 0}, {Row: 1, Col: 2}}
	if len(obs) != len(want) {
		t.Fatalf("obstacles = %v, want %v", obs, want)
	}
	for i := range want {
		if obs[i] != want[i] {
			t.Errorf("obstacle %d = %v, want %v", i, obs[i], want[i])
		}
	}
}

func TestParseTerrainMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"ragged", "10,10,10\n10,10\n"},
		{"non-numeric", "10,grass\n"},
		{"fractional", "10,2.5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTerrain(strings.NewReader(tt.input))
			if !errors.Is(err, ErrInvalid) {
				t.Errorf("error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestGenerateTerrain(t *testing.T) {
	cfg := Default()
	w := cfg.World
	ter := GenerateTerrain(w, cfg.Derived.Obstacle, nil, rand.New(rand.NewSource(3)))

	rows, cols := ter.Dims()
	if rows != w.Rows || cols != w.Cols {
		t.Fatalf("dims = %dx%d, want %dx%d", rows, cols, w.Rows, w.Cols)
	}
	if got := ter.Count(TileTree); got != w.Trees {
		t.Errorf("trees = %d, want %d", got, w.Trees)
	}

	// House block is clipped to the 30-column world
	if got := ter.Code(components.Cell{Row: 3, Col: 29}); got != TileHouse {
		t.Errorf("house corner = %d, want %d", got, TileHouse)
	}
	if got := ter.Code(components.Cell{Row: 15, Col: 3}); got != TileWater {
		t.Errorf("pool corner = %d, want %d", got, TileWater)
	}

	entrance := w.EntranceFor(rows, cols, true)
	if entrance != (components.Cell{Row: 15, Col: 20}) {
		t.Errorf("generated entrance = %v, want {15 20}", entrance)
	}
	for dr := -w.ProtectRadius; dr <= w.ProtectRadius; dr++ {
		for dc := -w.ProtectRadius; dc <= w.ProtectRadius; dc++ {
			c := entrance.Add(dr, dc)
			if ter.Contains(c) && cfg.Derived.Obstacle[ter.Code(c)] {
				t.Errorf("protected cell %v is an obstacle", c)
			}
		}
	}
}

func TestGenerateTerrainReproducible(t *testing.T) {
	cfg := Default()
	a := GenerateTerrain(cfg.World, cfg.Derived.Obstacle, nil, rand.New(rand.NewSource(11)))
	b := GenerateTerrain(cfg.World, cfg.Derived.Obstacle, nil, rand.New(rand.NewSource(11)))

	oa := a.Obstacles(cfg.Derived.Obstacle)
	ob := b.Obstacles(cfg.Derived.Obstacle)
	if len(oa) != len(ob) {
		t.Fatalf("obstacle counts differ: %d vs %d", len(oa), len(ob))
	}
	for i := range oa {
		if oa[i] != ob[i] {
			t.Fatalf("obstacle %d differs: %v vs %v", i, oa[i], ob[i])
		}
	}
}

func TestGenerateTerrainCapsTrees(t *testing.T) {
	w := WorldConfig{Rows: 3, Cols: 3, Trees: 50, ProtectRadius: 0}
	ter := GenerateTerrain(w, map[int]bool{TileTree: true}, nil, rand.New(rand.NewSource(1)))
	// Everything but the entrance cell can hold a tree
	if got := ter.Count(TileTree); got != 8 {
		t.Errorf("trees = %d, want 8", got)
	}
}

func TestGenerateTerrainKeepCells(t *testing.T) {
	w := WorldConfig{Rows: 3, Cols: 3, Trees: 50, ProtectRadius: 0}
	keep := []components.Cell{{Row: 0, Col: 0}, {Row: 1, Col: 1}}
	ter := GenerateTerrain(w, map[int]bool{TileTree: true}, keep, rand.New(rand.NewSource(1)))

	// The entrance (2,1) and both keep cells stay grass
	if got := ter.Count(TileTree); got != 6 {
		t.Errorf("trees = %d, want 6", got)
	}
	for _, c := range keep {
		if got := ter.Code(c); got != TileGrass {
			t.Errorf("keep cell %v = %d, want grass", c, got)
		}
	}
}

func TestGenerateTerrainDefaultWaspStartStaysFree(t *testing.T) {
	cfg := Default()
	start := cfg.Wasp.Start.Cell()
	keep := []components.Cell{start}
	for seed := int64(1); seed <= 500; seed++ {
		ter := GenerateTerrain(cfg.World, cfg.Derived.Obstacle, keep, rand.New(rand.NewSource(seed)))
		if cfg.Derived.Obstacle[ter.Code(start)] {
			t.Fatalf("seed %d: wasp start %v is an obstacle", seed, start)
		}
		if got := ter.Count(TileTree); got != cfg.World.Trees {
			t.Fatalf("seed %d: trees = %d, want %d", seed, got, cfg.World.Trees)
		}
	}
}

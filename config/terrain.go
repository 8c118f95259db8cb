package config

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/pthm-cable/hive/components"
)

// Tile codes used by generated worlds.
const (
	TileWater = 0
	TileTree  = 3
	TileGrass = 10
	TileHouse = 15
)

// Terrain is a world grid of integer tile codes.
type Terrain struct {
	grid *mat.Dense
}

// NewTerrain returns a rows x cols terrain filled with one code.
func NewTerrain(rows, cols, fill int) *Terrain {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = float64(fill)
	}
	return &Terrain{grid: mat.NewDense(rows, cols, data)}
}

// Dims returns the terrain size.
func (t *Terrain) Dims() (rows, cols int) {
	return t.grid.Dims()
}

// Contains reports whether c is on the terrain.
func (t *Terrain) Contains(c components.Cell) bool {
	rows, cols := t.Dims()
	return c.Row >= 0 && c.Row < rows && c.Col >= 0 && c.Col < cols
}

// Code returns the tile code at c.
func (t *Terrain) Code(c components.Cell) int {
	return int(t.grid.At(c.Row, c.Col))
}

// Set writes a tile code at c.
func (t *Terrain) Set(c components.Cell, code int) {
	t.grid.Set(c.Row, c.Col, float64(code))
}

// Matrix exposes the underlying code matrix read-only.
func (t *Terrain) Matrix() mat.Matrix {
	return t.grid
}

// Count returns how many cells carry code.
func (t *Terrain) Count(code int) int {
	rows, cols := t.Dims()
	n := 0
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if int(t.grid.At(r, c)) == code {
				n++
			}
		}
	}
	return n
}

// Obstacles returns, in row-major order, every cell whose code is
// impassable.
func (t *Terrain) Obstacles(impassable map[int]bool) []components.Cell {
	rows, cols := t.Dims()
	var out []components.Cell
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if impassable[int(t.grid.At(r, c))] {
				out = append(out, components.Cell{Row: r, Col: c})
			}
		}
	}
	return out
}

// LoadTerrain reads a terrain CSV file.
func LoadTerrain(path string) (*Terrain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening terrain file: %w", err)
	}
	defer f.Close()

	t, err := ParseTerrain(f)
	if err != nil {
		return nil, fmt.Errorf("terrain %s: %w", path, err)
	}
	return t, nil
}

// ParseTerrain reads a comma separated matrix of integer tile codes.
// Every row must have the same width. Values may be written as floats
// ("10.0") but must be integral.
func ParseTerrain(r io.Reader) (*Terrain, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	var data []float64
	rows, cols := 0, 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		if rows == 0 {
			cols = len(rec)
		}
		for c, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil || v != math.Trunc(v) {
				return nil, fmt.Errorf("%w: row %d col %d: %q is not a tile code", ErrInvalid, rows, c, field)
			}
			data = append(data, v)
		}
		rows++
	}

	if rows == 0 || cols == 0 {
		return nil, fmt.Errorf("%w: empty terrain", ErrInvalid)
	}
	return &Terrain{grid: mat.NewDense(rows, cols, data)}, nil
}

// GenerateTerrain builds a grass world with the configured feature blocks
// and w.Trees random trees. Trees never land on an existing obstacle, inside
// the protected box around the world entrance, or on a keep cell (fixed
// placements such as the wasp start).
func GenerateTerrain(w WorldConfig, impassable map[int]bool, keep []components.Cell, rng components.RNG) *Terrain {
	t := NewTerrain(w.Rows, w.Cols, TileGrass)

	for _, f := range w.Features {
		for r := max(f.Top, 0); r < min(f.Bottom, w.Rows); r++ {
			for c := max(f.Left, 0); c < min(f.Right, w.Cols); c++ {
				t.grid.Set(r, c, float64(f.Code))
			}
		}
	}

	entrance := w.EntranceFor(w.Rows, w.Cols, true)
	protected := func(c components.Cell) bool {
		dr, dc := c.Row-entrance.Row, c.Col-entrance.Col
		if dr >= -w.ProtectRadius && dr <= w.ProtectRadius &&
			dc >= -w.ProtectRadius && dc <= w.ProtectRadius {
			return true
		}
		return slices.Contains(keep, c)
	}

	candidates := 0
	for r := 0; r < w.Rows; r++ {
		for c := 0; c < w.Cols; c++ {
			cell := components.Cell{Row: r, Col: c}
			if !impassable[t.Code(cell)] && t.Code(cell) != TileTree && !protected(cell) {
				candidates++
			}
		}
	}
	trees := min(w.Trees, candidates)

	for placed := 0; placed < trees; {
		cell := components.Cell{Row: rng.Intn(w.Rows), Col: rng.Intn(w.Cols)}
		if impassable[t.Code(cell)] || t.Code(cell) == TileTree || protected(cell) {
			continue
		}
		t.Set(cell, TileTree)
		placed++
	}
	return t
}

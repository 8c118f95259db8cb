package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
)

// Params is the flat key/value parameter set used by batch runs.
type Params struct {
	Steps        int
	NumBees      int
	NumFlower    int
	NumWasp      int
	SpawnFlowerP float64
}

// paramRow is one headerless "key,value" line.
type paramRow struct {
	Key   string `csv:"key"`
	Value string `csv:"value"`
}

// Params returns the parameter set currently held by the config.
func (c *Config) Params() Params {
	return Params{
		Steps:        c.Sim.Steps,
		NumBees:      c.Forager.Count,
		NumFlower:    c.Flower.Count,
		NumWasp:      c.Wasp.Count,
		SpawnFlowerP: c.Flower.SpawnP,
	}
}

// ApplyParams copies a parameter set into the config.
func (c *Config) ApplyParams(p Params) {
	c.Sim.Steps = p.Steps
	c.Forager.Count = p.NumBees
	c.Flower.Count = p.NumFlower
	c.Wasp.Count = p.NumWasp
	c.Flower.SpawnP = p.SpawnFlowerP
}

// LoadParams reads a params CSV file over base.
func LoadParams(path string, base Params) (Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return base, fmt.Errorf("opening params file: %w", err)
	}
	defer f.Close()

	p, err := ParseParams(f, base)
	if err != nil {
		return base, fmt.Errorf("params %s: %w", path, err)
	}
	return p, nil
}

// ParseParams reads headerless key,value rows. Recognized keys overwrite
// the matching field of base; unknown keys are ignored. A value that does
// not parse as the key's type is an ErrInvalid.
func ParseParams(r io.Reader, base Params) (Params, error) {
	var rows []*paramRow
	if err := gocsv.UnmarshalWithoutHeaders(r, &rows); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return base, nil
		}
		return base, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	p := base
	for _, row := range rows {
		key := strings.TrimSpace(row.Key)
		val := strings.TrimSpace(row.Value)

		var err error
		switch key {
		case "steps":
			p.Steps, err = parseCount(key, val)
		case "num_bees":
			p.NumBees, err = parseCount(key, val)
		case "num_flower":
			p.NumFlower, err = parseCount(key, val)
		case "num_wasp":
			p.NumWasp, err = parseCount(key, val)
		case "spawn_flower_p":
			p.SpawnFlowerP, err = parseProb(key, val)
		}
		if err != nil {
			return base, err
		}
	}
	return p, nil
}

func parseCount(key, val string) (int, error) {
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, key, val)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: %s=%d is negative", ErrInvalid, key, n)
	}
	return n, nil
}

func parseProb(key, val string) (float64, error) {
	p, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q is not a number", ErrInvalid, key, val)
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: %s=%g outside [0,1]", ErrInvalid, key, p)
	}
	return p, nil
}

package main

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"
)

// evalLog appends one CSV row per evaluation and tracks the best one.
// The optimizer calls Record sequentially.
type evalLog struct {
	file   *os.File
	w      *csv.Writer
	budget int
	start  time.Time

	count       int
	bestFitness float64
	best        []float64
}

func newEvalLog(path string, params *ParamVector, budget int) (*evalLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating eval log: %w", err)
	}
	l := &evalLog{
		file:        f,
		w:           csv.NewWriter(f),
		budget:      budget,
		start:       time.Now(),
		bestFitness: math.Inf(1),
	}

	header := []string{"eval", "fitness", "quality", "filled"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	if err := l.w.Write(header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing eval log header: %w", err)
	}
	return l, nil
}

// Record logs an evaluation of the clamped values and prints a progress line.
func (l *evalLog) Record(values []float64, fitness, quality, filled float64) {
	l.count++
	if fitness < l.bestFitness {
		l.bestFitness = fitness
		l.best = append([]float64(nil), values...)
	}

	row := []string{
		strconv.Itoa(l.count),
		strconv.FormatFloat(fitness, 'f', 3, 64),
		strconv.FormatFloat(quality, 'f', 4, 64),
		strconv.FormatFloat(filled, 'f', 2, 64),
	}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	// Flush per row so a killed run keeps its history.
	if err := l.w.Write(row); err == nil {
		l.w.Flush()
	}

	elapsed := time.Since(l.start)
	eta := time.Duration(max(l.budget-l.count, 0)) * (elapsed / time.Duration(l.count))
	fmt.Printf("eval %d/%d  fitness %.1f  filled %3.0f%%  quality %.2f  best %.1f  [%s, eta %s]\n",
		l.count, l.budget, fitness, filled*100, quality, l.bestFitness,
		formatDuration(elapsed), formatDuration(eta))
}

func (l *evalLog) Close() error {
	l.w.Flush()
	if err := l.w.Error(); err != nil {
		l.file.Close()
		return err
	}
	return l.file.Close()
}

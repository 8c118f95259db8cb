package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 3.0},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.9},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeAgeStats(t *testing.T) {
	ages := []float64{100, 10, 90, 20, 80, 30, 70, 40, 60, 50}
	mean, p10, p50, p90 := ComputeAgeStats(ages)

	if math.Abs(mean-55) > 0.001 {
		t.Errorf("mean = %v, want 55", mean)
	}
	if math.Abs(p10-19) > 0.01 {
		t.Errorf("p10 = %v, want 19", p10)
	}
	if math.Abs(p50-55) > 0.01 {
		t.Errorf("p50 = %v, want 55", p50)
	}
	if math.Abs(p90-91) > 0.01 {
		t.Errorf("p90 = %v, want 91", p90)
	}
	if ages[0] != 100 {
		t.Error("input slice was reordered")
	}
}

func TestComputeAgeStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeAgeStats(nil)

	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector()

	c.RecordCollection(2)
	c.RecordCollection(1)
	c.RecordUnload(true)
	c.RecordUnload(false)
	c.RecordCrossing()
	c.RecordKills(2)
	c.RecordBirth()

	if c.Nectar() != 2 {
		t.Errorf("Nectar() mid-step = %d, want 2", c.Nectar())
	}

	s := c.Flush(1, Census{BeesAlive: 7, QueenAlive: true, Ages: []float64{4, 6}})
	if s.Step != 1 || s.Nectar != 2 || s.BeesAlive != 7 {
		t.Errorf("header columns = %d,%d,%d", s.Step, s.Nectar, s.BeesAlive)
	}
	if s.Collections != 2 || s.NectarValue != 3 || s.Deposits != 1 {
		t.Errorf("activity = %d collections, %d value, %d deposits", s.Collections, s.NectarValue, s.Deposits)
	}
	if s.Kills != 2 || s.Births != 1 || s.Crossings != 1 {
		t.Errorf("events = %d kills, %d births, %d crossings", s.Kills, s.Births, s.Crossings)
	}
	if s.AgeMean != 5 {
		t.Errorf("age mean = %v, want 5", s.AgeMean)
	}

	// Counters reset, nectar stays cumulative
	c.RecordUnload(true)
	s = c.Flush(2, Census{})
	if s.Nectar != 3 || s.Collections != 0 || s.Kills != 0 || s.Deposits != 1 {
		t.Errorf("second flush = %+v", s)
	}
}

package main

import (
	"math"
	"reflect"
	"testing"

	"github.com/pthm-cable/hive/config"
	"github.com/pthm-cable/hive/telemetry"
)

func TestParamVectorRoundTrip(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Default()

	raw := pv.ExtractFromConfig(cfg)
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(raw[i]-back[i]) > 1e-9 {
			t.Errorf("%s: %v -> %v", pv.Specs[i].Name, raw[i], back[i])
		}
	}

	out := config.Default()
	pv.ApplyToConfig(out, raw)
	if got := pv.ExtractFromConfig(out); !reflect.DeepEqual(got, raw) {
		t.Errorf("apply/extract = %v, want %v", got, raw)
	}
}

func TestParamVectorClamp(t *testing.T) {
	pv := NewParamVector()
	got := pv.Clamp([]float64{-1, 0.9, 12.6, 100, 0, 30.4})
	want := []float64{0, 0.5, 13, 30, 1, 30}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Clamp = %v, want %v", got, want)
	}
}

func TestComputeQuality(t *testing.T) {
	steady := make([]telemetry.StepStats, 30)
	for i := range steady {
		steady[i].BeesAlive = 10
	}
	collapsing := make([]telemetry.StepStats, 30)
	for i := range collapsing {
		collapsing[i].BeesAlive = max(0, 20-i)
	}

	tests := []struct {
		name  string
		steps []telemetry.StepStats
		want  func(float64) bool
	}{
		{"too short", steady[:5], func(q float64) bool { return q == 0 }},
		{"steady colony", steady, func(q float64) bool { return math.Abs(q-1) < 1e-9 }},
		{"collapsing colony", collapsing, func(q float64) bool { return q > 0 && q < 0.8 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if q := computeQuality(tt.steps); !tt.want(q) {
				t.Errorf("quality = %v", q)
			}
		})
	}
}

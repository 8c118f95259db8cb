package systems

import (
	"testing"

	"github.com/pthm-cable/hive/components"
)

// TestQueenSpawnSchedule checks hatching on every interval tick.
func TestQueenSpawnSchedule(t *testing.T) {
	sys := NewQueenSystem(components.QueenSpawnInterval)
	q := &components.Queen{ID: "queen", MaxAge: 600, SpawnIn: components.QueenSpawnInterval, Alive: true}

	var hatched []int
	for tick := 1; tick <= 100; tick++ {
		if sys.Step(q) {
			hatched = append(hatched, tick)
		}
	}

	want := []int{30, 60, 90}
	if len(hatched) != len(want) {
		t.Fatalf("hatched at %v, want %v", hatched, want)
	}
	for i := range want {
		if hatched[i] != want[i] {
			t.Errorf("hatch %d at tick %d, want %d", i, hatched[i], want[i])
		}
	}
}

func TestQueenDeath(t *testing.T) {
	tests := []struct {
		name        string
		maxAge      int
		wantHatches int
		wantDeath   int
	}{
		{"dies after a spawn tick", 31, 1, 31},
		{"dies on a spawn tick", 30, 0, 30},
		{"dies on second spawn tick", 60, 1, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := NewQueenSystem(30)
			q := &components.Queen{MaxAge: tt.maxAge, SpawnIn: 30, Alive: true}

			hatches, death := 0, 0
			for tick := 1; tick <= 120; tick++ {
				if sys.Step(q) {
					hatches++
				}
				if !q.Alive && death == 0 {
					death = tick
				}
			}
			if hatches != tt.wantHatches {
				t.Errorf("hatches = %d, want %d", hatches, tt.wantHatches)
			}
			if death != tt.wantDeath {
				t.Errorf("died at tick %d, want %d", death, tt.wantDeath)
			}
			if q.Age != tt.maxAge {
				t.Errorf("dead queen kept ageing: age %d", q.Age)
			}
		})
	}
}

func TestNewQueenSystemDefaultsInterval(t *testing.T) {
	sys := NewQueenSystem(0)
	if sys.interval != components.QueenSpawnInterval {
		t.Errorf("interval = %d, want %d", sys.interval, components.QueenSpawnInterval)
	}
}

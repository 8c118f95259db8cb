package systems

import (
	"testing"

	"github.com/pthm-cable/hive/components"
)

func outsideForager(id string, pos cell) *components.Forager {
	return &components.Forager{ID: id, Pos: pos, Alive: true, MaxAge: 150}
}

func TestStingBoxBoundary(t *testing.T) {
	tests := []struct {
		name   string
		offset cell
		radius float64
		want   bool
	}{
		{"same cell", cell{0, 0}, 2, true},
		{"box corner", cell{2, 2}, 2, true},
		{"box corner negative", cell{-2, -2}, 2, true},
		{"row beyond", cell{3, 0}, 2, false},
		{"col beyond", cell{0, -3}, 2, false},
		{"manual radius same cell", cell{0, 0}, 0.5, true},
		{"manual radius adjacent", cell{1, 0}, 0.5, false},
		{"manual radius diagonal", cell{1, 1}, 0.5, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := components.NewWasp("wasp", cell{10, 10}, false)
			f := outsideForager("w1", w.Pos.Add(tt.offset.Row, tt.offset.Col))

			kills := Sting(&w, []*components.Forager{f}, tt.radius)
			if got := !f.Alive; got != tt.want {
				t.Errorf("killed = %v, want %v", got, tt.want)
			}
			if tt.want && kills != 1 {
				t.Errorf("kills = %d, want 1", kills)
			}
		})
	}
}

func TestStingCountsOnlyNewDeaths(t *testing.T) {
	w := components.NewWasp("wasp", cell{10, 10}, false)
	a := outsideForager("w1", cell{10, 10})
	b := outsideForager("w2", cell{11, 11})
	b.Kill()

	if kills := Sting(&w, []*components.Forager{a, b}, 2); kills != 1 {
		t.Errorf("kills = %d, want 1", kills)
	}
	if kills := Sting(&w, []*components.Forager{a, b}, 2); kills != 0 {
		t.Errorf("second sting kills = %d, want 0", kills)
	}
}

func TestTargetsExcludesHiveAndDead(t *testing.T) {
	in := outsideForager("w1", cell{1, 1})
	in.InHive = true
	dead := outsideForager("w2", cell{1, 1})
	dead.Kill()
	out := outsideForager("w3", cell{1, 1})

	got := Targets([]*components.Forager{in, dead, out})
	if len(got) != 1 || got[0].ID != "w3" {
		t.Errorf("Targets() = %v", got)
	}
}

func TestWaspStep(t *testing.T) {
	tests := []struct {
		name      string
		obstacles Obstacles
		prey      []cell
		wantPos   cell
		wantKills int
	}{
		{"no prey stays", nil, nil, cell{10, 10}, 0},
		{"chase straight", nil, []cell{{15, 10}}, cell{11, 10}, 0},
		{"chase diagonal", nil, []cell{{15, 14}}, cell{11, 11}, 0},
		{"second sting after move", nil, []cell{{13, 10}}, cell{11, 10}, 1},
		{"first sting then chase remaining", nil, []cell{{12, 12}, {10, 16}}, cell{10, 11}, 1},
		{"nearest by manhattan", nil, []cell{{14, 14}, {16, 10}, {10, 16}}, cell{11, 10}, 0},
		{"blocked chase stays", NewObstacles(cell{11, 10}), []cell{{15, 10}}, cell{10, 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			world := Space{Bounds: Bounds{Rows: 30, Cols: 40}, Obstacles: tt.obstacles}
			sys := NewWaspSystem(world, components.DefaultStingRadius)
			w := components.NewWasp("wasp", cell{10, 10}, false)
			var prey []*components.Forager
			for i, p := range tt.prey {
				prey = append(prey, outsideForager(components.ForagerID(i+1), p))
			}

			kills := sys.Step(&w, prey)
			if w.Pos != tt.wantPos {
				t.Errorf("wasp pos = %v, want %v", w.Pos, tt.wantPos)
			}
			if kills != tt.wantKills {
				t.Errorf("kills = %d, want %d", kills, tt.wantKills)
			}
		})
	}
}

// TestManualWaspIgnoresStep checks a manual wasp neither moves nor stings
// on the autonomous step, even with prey on its cell.
func TestManualWaspIgnoresStep(t *testing.T) {
	sys := NewWaspSystem(openSpace(30, 40), components.DefaultStingRadius)
	w := components.NewWasp("wasp", cell{10, 10}, true)
	f := outsideForager("w1", cell{10, 10})

	if kills := sys.Step(&w, []*components.Forager{f}); kills != 0 {
		t.Errorf("manual wasp killed %d", kills)
	}
	if !f.Alive || w.Pos != (cell{10, 10}) {
		t.Errorf("manual wasp acted: pos=%v forager alive=%v", w.Pos, f.Alive)
	}

	if kills := Sting(&w, Targets([]*components.Forager{f}), components.DefaultManualRadius); kills != 1 {
		t.Errorf("explicit sting kills = %d, want 1", kills)
	}
}

func TestNudge(t *testing.T) {
	world := Space{Bounds: Bounds{Rows: 5, Cols: 5}, Obstacles: NewObstacles(cell{2, 3})}
	w := components.NewWasp("wasp", cell{2, 2}, true)

	if Nudge(&w, 0, 1, world) {
		t.Error("moved onto obstacle")
	}
	if !Nudge(&w, -1, 0, world) || w.Pos != (cell{1, 2}) {
		t.Errorf("nudge up: pos = %v", w.Pos)
	}
	if Nudge(&w, -2, 0, world) {
		t.Error("moved off grid")
	}
}

package systems

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/hive/components"
)

// fixedRNG never shuffles and always draws the low end of a range,
// so RandomMove picks the first free canonical offset.
type fixedRNG struct{}

func (fixedRNG) Intn(int) int { return 0 }
func (fixedRNG) Float64() float64 { return 0 }
func (fixedRNG) Shuffle(int, func(i, j int)) {}

type cell = components.Cell

func openSpace(rows, cols int) Space {
	return Space{Bounds: Bounds{Rows: rows, Cols: cols}}
}

func TestNeighborsCanonicalOrder(t *testing.T) {
	tests := []struct {
		name  string
		pos   cell
		space Space
		want  []cell
	}{
		{
			name:  "interior",
			pos:   cell{5, 5},
			space: openSpace(10, 10),
			want: []cell{
				{4, 4}, {4, 5}, {4, 6},
				{5, 4}, {5, 6},
				{6, 4}, {6, 5}, {6, 6},
			},
		},
		{
			name:  "corner",
			pos:   cell{0, 0},
			space: openSpace(10, 10),
			want:  []cell{{0, 1}, {1, 0}, {1, 1}},
		},
		{
			name: "obstacles filtered",
			pos:  cell{5, 5},
			space: Space{
				Bounds:    Bounds{Rows: 10, Cols: 10},
				Obstacles: NewObstacles(cell{4, 5}, cell{6, 6}),
			},
			want: []cell{
				{4, 4}, {4, 6},
				{5, 4}, {5, 6},
				{6, 4}, {6, 5},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Neighbors(tt.pos, tt.space)
			if len(got) != len(tt.want) {
				t.Fatalf("Neighbors() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Neighbors()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestMoveTowards(t *testing.T) {
	tests := []struct {
		name   string
		pos    cell
		target cell
		space  Space
		want   cell
	}{
		{"straight", cell{5, 5}, cell{5, 9}, openSpace(10, 10), cell{5, 6}},
		{"diagonal", cell{5, 5}, cell{9, 9}, openSpace(10, 10), cell{6, 6}},
		{
			name:   "tie keeps canonical order",
			pos:    cell{5, 5},
			target: cell{3, 5},
			space: Space{
				Bounds:    Bounds{Rows: 10, Cols: 10},
				Obstacles: NewObstacles(cell{4, 5}),
			},
			want: cell{4, 4},
		},
		{"clamped at edge", cell{0, 5}, cell{-5, 5}, openSpace(10, 10), cell{0, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MoveTowards(tt.pos, tt.target, tt.space, fixedRNG{})
			if got != tt.want {
				t.Errorf("MoveTowards(%v -> %v) = %v, want %v", tt.pos, tt.target, got, tt.want)
			}
		})
	}
}

func TestMoveTowardsBoxedInStays(t *testing.T) {
	pos := cell{1, 1}
	space := Space{Bounds: Bounds{Rows: 3, Cols: 3}, Obstacles: Obstacles{}}
	for _, c := range Neighbors(pos, openSpace(3, 3)) {
		space.Obstacles[c] = struct{}{}
	}

	got := MoveTowards(pos, cell{0, 0}, space, rand.New(rand.NewSource(1)))
	if got != pos {
		t.Errorf("boxed-in agent moved to %v", got)
	}
}

func TestRandomMoveReproducible(t *testing.T) {
	space := Space{
		Bounds:    Bounds{Rows: 10, Cols: 10},
		Obstacles: NewObstacles(cell{4, 4}, cell{4, 5}),
	}

	a := rand.New(rand.NewSource(99))
	b := rand.New(rand.NewSource(99))
	pos := cell{5, 5}
	for i := 0; i < 50; i++ {
		na := RandomMove(pos, space, a)
		nb := RandomMove(pos, space, b)
		if na != nb {
			t.Fatalf("step %d: same seed diverged: %v vs %v", i, na, nb)
		}
		if !space.Free(na) {
			t.Fatalf("step %d: moved onto blocked cell %v", i, na)
		}
		if absInt(na.Row-pos.Row) > 1 || absInt(na.Col-pos.Col) > 1 || na == pos {
			t.Fatalf("step %d: %v is not a neighbor of %v", i, na, pos)
		}
		pos = na
	}
}

func TestRandomMoveFirstFreeOffset(t *testing.T) {
	space := Space{
		Bounds:    Bounds{Rows: 10, Cols: 10},
		Obstacles: NewObstacles(cell{4, 4}),
	}
	// Unshuffled, (-1,-1) is blocked so (-1,0) wins
	if got := RandomMove(cell{5, 5}, space, fixedRNG{}); got != (cell{4, 5}) {
		t.Errorf("RandomMove() = %v, want {4 5}", got)
	}
}

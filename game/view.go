package game

import "github.com/pthm-cable/hive/components"

// ForagerView is a read-only copy of one forager.
type ForagerView struct {
	ID         string
	Pos        components.Cell
	InHive     bool
	Alive      bool
	Carrying   bool
	Depositing bool
	Age        int
	State      components.ForagerState
}

// FlowerView is a read-only copy of one flower.
type FlowerView struct {
	ID       string
	Pos      components.Cell
	Golden   bool
	Quantity int
	Capacity int
}

// CombView is a read-only copy of one comb.
type CombView struct {
	ID    string
	Pos   components.Cell
	Built bool
	Level int
	Full  bool
}

// QueenView is a read-only copy of the queen.
type QueenView struct {
	Pos     components.Cell
	Age     int
	Alive   bool
	SpawnIn int
}

// WaspView is a read-only copy of one wasp.
type WaspView struct {
	ID     string
	Pos    components.Cell
	Alive  bool
	Manual bool
}

// View is a snapshot of the whole simulation after a tick.
type View struct {
	Tick     int
	Foragers []ForagerView
	Flowers  []FlowerView
	Combs    []CombView
	Queen    QueenView
	Wasps    []WaspView
	AllFull  bool
}

// View copies the current state for renderers and tests. Slices are in
// creation order and owned by the caller.
func (g *Game) View() View {
	v := View{
		Tick:     g.tick,
		Foragers: make([]ForagerView, 0, len(g.foragers)),
		Flowers:  make([]FlowerView, 0, len(g.flowers)),
		Combs:    make([]CombView, 0, len(g.combs)),
		Wasps:    make([]WaspView, 0, len(g.wasps)),
		Queen: QueenView{
			Pos:     g.queen.Pos,
			Age:     g.queen.Age,
			Alive:   g.queen.Alive,
			SpawnIn: g.queen.SpawnIn,
		},
		AllFull: g.AllCombsFull(),
	}

	for _, f := range g.foragerPtrs() {
		v.Foragers = append(v.Foragers, ForagerView{
			ID:         f.ID,
			Pos:        f.Pos,
			InHive:     f.InHive,
			Alive:      f.Alive,
			Carrying:   f.Carrying,
			Depositing: f.Depositing,
			Age:        f.Age,
			State:      f.State(),
		})
	}
	for _, f := range g.flowerPtrs() {
		v.Flowers = append(v.Flowers, FlowerView{
			ID:       f.ID,
			Pos:      f.Pos,
			Golden:   f.Golden,
			Quantity: f.Quantity,
			Capacity: f.Capacity,
		})
	}
	for _, c := range g.combPtrs() {
		v.Combs = append(v.Combs, CombView{
			ID:    c.ID,
			Pos:   c.Pos,
			Built: c.Built,
			Level: c.Level,
			Full:  c.Full,
		})
	}
	for _, w := range g.waspPtrs() {
		v.Wasps = append(v.Wasps, WaspView{
			ID:     w.ID,
			Pos:    w.Pos,
			Alive:  w.Alive,
			Manual: w.Manual,
		})
	}
	return v
}

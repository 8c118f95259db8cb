package systems

import (
	"github.com/pthm-cable/hive/components"
)

// Forager timer values.
const (
	CollectRest = 2 // ticks of rest after loading nectar
	WaitRest    = 3 // ticks of rest when every comb is full
)

// ForagerOutcome reports what one forager did during one tick.
type ForagerOutcome struct {
	State     components.ForagerState // branch that ran
	Payload   int                     // nectar value collected, 0 if none
	Unloaded  bool                    // dropped its load at a comb
	Stored    bool                    // the comb accepted the load
	Crossed   bool                    // passed through a portal
	Died      bool                    // reached max age this tick
	Waiting   bool                    // found no comb with room
	TargetHit string                  // id of the flower or comb acted on
}

// ForagerSystem runs the forager state machine.
type ForagerSystem struct {
	topo Topology
	rng  components.RNG
}

// NewForagerSystem creates a forager system over the given topology.
func NewForagerSystem(topo Topology, rng components.RNG) *ForagerSystem {
	return &ForagerSystem{topo: topo, rng: rng}
}

// Step advances one forager by one tick. At most one branch runs, in
// priority order dead, resting, exiting, foraging, returning,
// depositing, idle. Every branch except resting ages the forager.
func (s *ForagerSystem) Step(f *components.Forager, flowers []*components.Flower, combs []*components.Comb) ForagerOutcome {
	out := ForagerOutcome{State: f.State()}

	switch out.State {
	case components.StateDead:
		return out
	case components.StateResting:
		// Rest does not age the forager
		f.Rest--
		return out
	case components.StateExiting:
		s.exitHive(f, &out)
	case components.StateForaging:
		s.forage(f, flowers, &out)
	case components.StateReturning:
		s.returnHome(f, &out)
	case components.StateDepositing:
		s.deposit(f, combs, &out)
	case components.StateIdle:
	}

	out.Died = ageForager(f)
	return out
}

// exitHive walks to the hive exit, then crosses to the world entrance.
func (s *ForagerSystem) exitHive(f *components.Forager, out *ForagerOutcome) {
	if f.Pos != s.topo.Portals.HiveExit {
		f.Pos = MoveTowards(f.Pos, s.topo.Portals.HiveExit, s.topo.Hive, s.rng)
		return
	}
	f.InHive = false
	f.Pos = s.topo.Portals.WorldEntrance
	out.Crossed = true
}

// forage heads for the nearest flower in detection range, or wanders.
func (s *ForagerSystem) forage(f *components.Forager, flowers []*components.Flower, out *ForagerOutcome) {
	target := NearestFlower(f.Pos, f.DetectRange, flowers)
	if target == nil {
		f.Pos = RandomMove(f.Pos, s.topo.World, s.rng)
		return
	}
	out.TargetHit = target.ID
	if f.Pos != target.Pos {
		f.Pos = MoveTowards(f.Pos, target.Pos, s.topo.World, s.rng)
		return
	}
	if payload := target.Collect(s.rng); payload > 0 {
		f.Carrying = true
		f.Rest = CollectRest
		out.Payload = payload
	}
}

// returnHome walks to the world entrance, then crosses into the hive.
func (s *ForagerSystem) returnHome(f *components.Forager, out *ForagerOutcome) {
	if f.Pos != s.topo.Portals.WorldEntrance {
		f.Pos = MoveTowards(f.Pos, s.topo.Portals.WorldEntrance, s.topo.World, s.rng)
		return
	}
	f.InHive = true
	f.Depositing = true
	f.Pos = s.topo.Portals.HiveEntrance
	out.Crossed = true
}

// deposit walks to the nearest comb with room and unloads there.
func (s *ForagerSystem) deposit(f *components.Forager, combs []*components.Comb, out *ForagerOutcome) {
	target := NearestOpenComb(f.Pos, combs)
	if target == nil {
		f.Rest = WaitRest
		out.Waiting = true
		return
	}
	out.TargetHit = target.ID
	if f.Pos != target.Pos {
		f.Pos = MoveTowards(f.Pos, target.Pos, s.topo.Hive, s.rng)
		return
	}
	out.Stored = target.Deposit()
	out.Unloaded = true
	f.Carrying = false
	f.Depositing = false
}

// NearestFlower returns the flower with nectar closest to pos by squared
// Euclidean distance among those within Manhattan distance detectRange.
// Ties go to the earlier flower. Returns nil when none is in range.
func NearestFlower(pos components.Cell, detectRange int, flowers []*components.Flower) *components.Flower {
	var best *components.Flower
	bestDist := 0
	for _, fl := range flowers {
		if fl.Quantity <= 0 || pos.Manhattan(fl.Pos) > detectRange {
			continue
		}
		d := pos.DistSq(fl.Pos)
		if best == nil || d < bestDist {
			best = fl
			bestDist = d
		}
	}
	return best
}

// NearestOpenComb returns the non-full comb closest to pos by Manhattan
// distance, earlier combs winning ties. Returns nil when all are full.
func NearestOpenComb(pos components.Cell, combs []*components.Comb) *components.Comb {
	var best *components.Comb
	bestDist := 0
	for _, c := range combs {
		if c.Full {
			continue
		}
		d := pos.Manhattan(c.Pos)
		if best == nil || d < bestDist {
			best = c
			bestDist = d
		}
	}
	return best
}

// ageForager adds one tick of age and reports whether the forager died.
func ageForager(f *components.Forager) bool {
	f.Age++
	if f.Age >= f.MaxAge {
		f.Alive = false
		return true
	}
	return false
}

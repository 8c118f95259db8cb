package components

import "fmt"

// Lifespan and timer defaults.
const (
	ForagerMinAge       = 120
	ForagerMaxAge       = 200
	QueenMinAge         = 500
	QueenMaxAge         = 700
	QueenSpawnInterval  = 30
	DefaultDetectRange  = 5
	DefaultStingRadius  = 2.0
	DefaultManualRadius = 0.5
)

// ForagerState names the branch of the forager state machine that runs next.
type ForagerState uint8

const (
	StateDead ForagerState = iota
	StateResting
	StateExiting
	StateForaging
	StateReturning
	StateDepositing
	StateIdle
)

func (s ForagerState) String() string {
	switch s {
	case StateDead:
		return "dead"
	case StateResting:
		return "resting"
	case StateExiting:
		return "exiting"
	case StateForaging:
		return "foraging"
	case StateReturning:
		return "returning"
	case StateDepositing:
		return "depositing"
	case StateIdle:
		return "idle"
	default:
		return "unknown"
	}
}

// Forager is a worker bee.
type Forager struct {
	ID     string
	Pos    Cell
	InHive bool

	Carrying   bool
	Depositing bool
	Rest       int // ticks of forced inactivity left

	Age    int
	MaxAge int
	Alive  bool

	DetectRange int // Manhattan radius for sensing flowers
}

// NewForager creates a live forager inside the hive with a lifespan
// drawn from [minAge, maxAge].
func NewForager(id string, pos Cell, detectRange, minAge, maxAge int, rng RNG) Forager {
	return Forager{
		ID:          id,
		Pos:         pos,
		InHive:      true,
		MaxAge:      RandRange(rng, minAge, maxAge),
		Alive:       true,
		DetectRange: detectRange,
	}
}

// ForagerID formats the id of the n-th forager (1-based).
func ForagerID(n int) string {
	return fmt.Sprintf("w%d", n)
}

// State returns the branch the state machine will take on the next tick.
// The order of the checks is the priority order of the machine.
func (f *Forager) State() ForagerState {
	switch {
	case !f.Alive:
		return StateDead
	case f.Rest > 0:
		return StateResting
	case f.InHive && !f.Carrying && !f.Depositing:
		return StateExiting
	case !f.InHive && !f.Carrying:
		return StateForaging
	case f.Carrying && !f.InHive:
		return StateReturning
	case f.Depositing:
		return StateDepositing
	default:
		return StateIdle
	}
}

// Kill marks the forager dead. Dead foragers stay in the population as
// inert records.
func (f *Forager) Kill() {
	f.Alive = false
}

// Queen is the spawning unit. She ages, dies, and lays a new forager
// every spawn interval while alive.
type Queen struct {
	ID      string
	Pos     Cell
	Age     int
	MaxAge  int
	SpawnIn int // ticks until the next forager
	Alive   bool
}

// NewQueen creates a live queen with a lifespan drawn from [minAge, maxAge].
func NewQueen(id string, pos Cell, minAge, maxAge, interval int, rng RNG) Queen {
	return Queen{
		ID:      id,
		Pos:     pos,
		MaxAge:  RandRange(rng, minAge, maxAge),
		SpawnIn: interval,
		Alive:   true,
	}
}

// Wasp is a predator on the world grid. A manual wasp is driven by an
// external controller and ignores the autonomous step.
type Wasp struct {
	ID     string
	Pos    Cell
	Alive  bool
	Manual bool
}

// NewWasp creates a live wasp.
func NewWasp(id string, pos Cell, manual bool) Wasp {
	return Wasp{ID: id, Pos: pos, Alive: true, Manual: manual}
}

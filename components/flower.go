package components

// Flower capacities and regrow timing.
const (
	FlowerCapacity = 3  // normal flower
	GoldenCapacity = 6  // golden flower
	RegrowMin      = 5  // ticks, inclusive
	RegrowMax      = 10 // ticks, inclusive
)

// Collection payloads reported by Collect.
const (
	PayloadNormal = 1
	PayloadGolden = 2
)

// Flower is a nectar source on the world grid.
type Flower struct {
	ID       string
	Pos      Cell
	Golden   bool
	Quantity int
	Capacity int
	RegrowIn int // ticks until the next unit regrows
}

// NewFlower creates a flower with a random starting fill:
// 1-3 units for a normal flower, 2-6 for a golden one.
func NewFlower(id string, pos Cell, golden bool, rng RNG) Flower {
	f := Flower{ID: id, Pos: pos, Golden: golden}
	if golden {
		f.Capacity = GoldenCapacity
		f.Quantity = RandRange(rng, 2, GoldenCapacity)
	} else {
		f.Capacity = FlowerCapacity
		f.Quantity = RandRange(rng, 1, FlowerCapacity)
	}
	f.RegrowIn = RandRange(rng, RegrowMin, RegrowMax)
	return f
}

// Collect removes one unit of nectar and returns the payload value
// (2 golden, 1 normal). An empty flower returns 0 and is left unchanged.
// The payload is informational; carrying is a single load regardless.
func (f *Flower) Collect(rng RNG) int {
	if f.Quantity <= 0 {
		return 0
	}
	f.Quantity--
	f.RegrowIn = RandRange(rng, RegrowMin, RegrowMax)
	if f.Golden {
		return PayloadGolden
	}
	return PayloadNormal
}

// Regrow advances the regrow countdown by one tick. When it expires the
// flower gains one unit (never past capacity) and the countdown restarts.
func (f *Flower) Regrow(rng RNG) {
	if f.Quantity >= f.Capacity {
		return
	}
	f.RegrowIn--
	if f.RegrowIn <= 0 {
		f.Quantity++
		if f.Quantity > f.Capacity {
			f.Quantity = f.Capacity
		}
		f.RegrowIn = RandRange(rng, RegrowMin, RegrowMax)
	}
}

// Empty reports whether the flower has no nectar left.
func (f *Flower) Empty() bool {
	return f.Quantity <= 0
}

package components

// CombCapacity is the number of loads that fill a comb.
const CombCapacity = 5

// Comb is a storage cell inside the hive.
type Comb struct {
	ID       string
	Pos      Cell
	Built    bool
	Level    int
	Capacity int
	Full     bool
}

// NewComb creates an unbuilt, empty comb.
func NewComb(id string, pos Cell) Comb {
	return Comb{ID: id, Pos: pos, Capacity: CombCapacity}
}

// Build marks the comb ready to accept nectar. Building twice is a no-op.
func (c *Comb) Build() {
	c.Built = true
}

// Deposit stores one load. It reports false and changes nothing when the
// comb is unbuilt or already full. Full is permanent once set.
func (c *Comb) Deposit() bool {
	if !c.Built || c.Full {
		return false
	}
	c.Level++
	if c.Level >= c.Capacity {
		c.Full = true
	}
	return true
}

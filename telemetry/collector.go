package telemetry

// Census is the state sample the game takes at the end of a tick.
type Census struct {
	BeesAlive    int
	BeesInHive   int
	BeesOutside  int
	Carrying     int
	QueenAlive   bool
	Flowers      int
	FlowerNectar int
	CombLevel    int
	CombsFull    int
	Ages         []float64 // ages of live foragers
}

// Collector accumulates events within one tick and produces StepStats.
// Nectar is cumulative over the whole run.
type Collector struct {
	nectar int

	// Event counters for the current tick
	births      int
	ageDeaths   int
	kills       int
	collections int
	nectarValue int
	unloads     int
	deposits    int
	crossings   int
	waits       int
}

// NewCollector creates a new stats collector.
func NewCollector() *Collector {
	return &Collector{}
}

// RecordBirth records a forager hatching.
func (c *Collector) RecordBirth() {
	c.births++
}

// RecordAgeDeath records a forager dying of old age.
func (c *Collector) RecordAgeDeath() {
	c.ageDeaths++
}

// RecordKills records foragers stung to death.
func (c *Collector) RecordKills(n int) {
	c.kills += n
}

// RecordCollection records nectar taken from a flower.
func (c *Collector) RecordCollection(payload int) {
	c.collections++
	c.nectarValue += payload
}

// RecordUnload records a forager dropping its load at a comb. stored is
// false when the comb rejected the load.
func (c *Collector) RecordUnload(stored bool) {
	c.unloads++
	if stored {
		c.deposits++
	}
}

// RecordCrossing records a portal crossing.
func (c *Collector) RecordCrossing() {
	c.crossings++
}

// RecordWait records a forager that found no comb with room.
func (c *Collector) RecordWait() {
	c.waits++
}

// Nectar returns the cumulative number of unloads.
func (c *Collector) Nectar() int {
	return c.nectar + c.unloads
}

// Flush produces the StepStats for step and resets the per-tick counters.
func (c *Collector) Flush(step int, census Census) StepStats {
	c.nectar += c.unloads

	ageMean, ageP10, ageP50, ageP90 := ComputeAgeStats(census.Ages)

	stats := StepStats{
		Step:      step,
		Nectar:    c.nectar,
		BeesAlive: census.BeesAlive,

		BeesInHive:  census.BeesInHive,
		BeesOutside: census.BeesOutside,
		Carrying:    census.Carrying,
		Births:      c.births,
		AgeDeaths:   c.ageDeaths,
		Kills:       c.kills,
		QueenAlive:  census.QueenAlive,

		Collections: c.collections,
		NectarValue: c.nectarValue,
		Deposits:    c.deposits,
		Crossings:   c.crossings,
		Waits:       c.waits,

		Flowers:      census.Flowers,
		FlowerNectar: census.FlowerNectar,
		CombLevel:    census.CombLevel,
		CombsFull:    census.CombsFull,

		AgeMean: ageMean,
		AgeP10:  ageP10,
		AgeP50:  ageP50,
		AgeP90:  ageP90,
	}

	// Reset for next tick
	c.births = 0
	c.ageDeaths = 0
	c.kills = 0
	c.collections = 0
	c.nectarValue = 0
	c.unloads = 0
	c.deposits = 0
	c.crossings = 0
	c.waits = 0

	return stats
}

package park

// TickRate is the simulation rate; one pose driver step happens per tick.
const TickRate = 60

// Clock turns variable frame times into fixed simulation ticks.
type Clock struct {
	Step     float32 // Seconds per tick
	MaxTicks int     // Ticks per frame before time is dropped
	acc      float32
}

// NewClock creates a clock running at TickRate.
func NewClock() *Clock {
	return &Clock{Step: 1.0 / TickRate, MaxTicks: 8}
}

// Advance adds elapsed seconds and returns how many ticks are due. Time
// beyond MaxTicks is discarded so a stalled frame does not snowball.
func (c *Clock) Advance(elapsed float32) int {
	if elapsed <= 0 {
		return 0
	}
	c.acc += elapsed
	n := 0
	for c.acc >= c.Step && n < c.MaxTicks {
		c.acc -= c.Step
		n++
	}
	if n == c.MaxTicks {
		c.acc = 0
	}
	return n
}

// Alpha returns the fraction of a tick accumulated so far.
func (c *Clock) Alpha() float32 {
	return c.acc / c.Step
}

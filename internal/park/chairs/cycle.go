package chairs

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Phase is a stage of the spin cycle.
type Phase int

const (
	PhaseSpinUp Phase = iota
	PhaseHold
	PhaseSpinDown
	PhaseRest
)

var phaseNames = [...]string{"spin-up", "hold", "spin-down", "rest"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "unknown"
}

type stage struct {
	phase    Phase
	from, to float32
	duration float32
	easing   ease.TweenFunc
}

// Cycle drives the rotor's angular velocity through spin up, hold, spin down
// and rest, then starts over.
type Cycle struct {
	stages  []stage
	current int
	tween   *gween.Tween
	omega   float32
}

// NewCycle builds a cycle peaking at maxSpeed rad/s. Stages with a
// non-positive duration are skipped.
func NewCycle(maxSpeed, spinUp, hold, spinDown, rest float32) *Cycle {
	all := []stage{
		{PhaseSpinUp, 0, maxSpeed, spinUp, ease.InOutQuad},
		{PhaseHold, maxSpeed, maxSpeed, hold, ease.Linear},
		{PhaseSpinDown, maxSpeed, 0, spinDown, ease.InOutQuad},
		{PhaseRest, 0, 0, rest, ease.Linear},
	}
	c := &Cycle{}
	for _, s := range all {
		if s.duration > 0 {
			c.stages = append(c.stages, s)
		}
	}
	if len(c.stages) > 0 {
		c.start(0)
	}
	return c
}

func (c *Cycle) start(i int) {
	c.current = i
	s := c.stages[i]
	c.tween = gween.New(s.from, s.to, s.duration, s.easing)
	c.omega = s.from
}

// Update advances the cycle by dt seconds and returns the angular velocity.
func (c *Cycle) Update(dt float32) float32 {
	if c.tween == nil {
		return 0
	}
	omega, finished := c.tween.Update(dt)
	c.omega = omega
	if finished {
		c.start((c.current + 1) % len(c.stages))
	}
	return omega
}

// Omega returns the current angular velocity.
func (c *Cycle) Omega() float32 {
	return c.omega
}

// Phase returns the running stage.
func (c *Cycle) Phase() Phase {
	if c.tween == nil {
		return PhaseRest
	}
	return c.stages[c.current].phase
}

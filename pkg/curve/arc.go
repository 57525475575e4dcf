package curve

import (
	"sort"

	"github.com/Faultbox/funpark/pkg/math"
)

// arcTable holds cumulative chord lengths of a curve sampled at n+1 evenly
// spaced parameters.
type arcTable struct {
	lengths []float32
}

func newArcTable(pointAt func(t float32) math.Vec3, divisions int) arcTable {
	lengths := make([]float32, divisions+1)
	prev := pointAt(0)
	var sum float32
	for i := 1; i <= divisions; i++ {
		p := pointAt(float32(i) / float32(divisions))
		sum += p.Distance(prev)
		lengths[i] = sum
		prev = p
	}
	return arcTable{lengths: lengths}
}

func (a arcTable) total() float32 {
	return a.lengths[len(a.lengths)-1]
}

// lengthAt returns the arc length up to parameter t.
func (a arcTable) lengthAt(t float32) float32 {
	n := len(a.lengths) - 1
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return a.total()
	}
	f := t * float32(n)
	i := int(f)
	frac := f - float32(i)
	return a.lengths[i] + frac*(a.lengths[i+1]-a.lengths[i])
}

// uToT maps an arc-length fraction u to the curve parameter t.
func (a arcTable) uToT(u float32) float32 {
	n := len(a.lengths) - 1
	total := a.total()
	if u <= 0 || total == 0 {
		return 0
	}
	if u >= 1 {
		return 1
	}

	target := u * total
	// First index whose cumulative length reaches the target.
	i := sort.Search(len(a.lengths), func(k int) bool { return a.lengths[k] >= target })
	if i == 0 {
		return 0
	}
	before := a.lengths[i-1]
	span := a.lengths[i] - before
	if span == 0 {
		return float32(i) / float32(n)
	}
	return (float32(i-1) + (target-before)/span) / float32(n)
}

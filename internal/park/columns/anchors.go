// Package columns places support columns under the track. Anchors are spaced
// by arc length along the ground projection of the path; each anchor is
// checked against the rail mesh with vertical rays before a column is built.
package columns

import "github.com/Faultbox/funpark/pkg/math"

// walkEps absorbs float drift so a crossing landing exactly on the path end
// is still emitted.
const walkEps = 1e-4

// Curve is the path the anchors follow.
type Curve interface {
	PointAt(u float32) math.Vec3
}

// Anchor is one arc-length crossing on the ground-projected path.
type Anchor struct {
	Ground math.Vec3 // Point on the ground plane
	Point  math.Vec3 // Path point above it
	U      float32   // Path parameter
}

// Anchors samples c at samples+1 parameters, projects the polyline onto the
// plane y = groundY and walks it, emitting an anchor every step units of
// ground distance. The walk starts at u = 0 without emitting it.
func Anchors(c Curve, samples int, step, groundY float32) []Anchor {
	if samples < 1 || step <= 0 {
		return nil
	}

	var anchors []Anchor
	prevP := c.PointAt(0)
	prevG := prevP.Ground(groundY)
	prevU := float32(0)
	acc := float32(0)

	for i := 1; i <= samples; i++ {
		u := float32(i) / float32(samples)
		p := c.PointAt(u)
		g := p.Ground(groundY)
		d := prevG.Distance(g)

		// consumed is the distance along this segment already spent on anchors
		consumed := float32(0)
		for d > 0 && acc+(d-consumed) >= step-walkEps {
			consumed += step - acc
			t := math.Clamp(consumed/d, 0, 1)
			anchors = append(anchors, Anchor{
				Ground: prevG.Lerp(g, t),
				Point:  prevP.Lerp(p, t),
				U:      math.Lerp(prevU, u, t),
			})
			acc = 0
		}
		acc = max(acc+d-consumed, 0)

		prevP, prevG, prevU = p, g, u
	}
	return anchors
}

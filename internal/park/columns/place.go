package columns

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/internal/engine/picking"
	"github.com/Faultbox/funpark/pkg/curve"
	"github.com/Faultbox/funpark/pkg/math"
)

// Probes is the number of clearance rays cast around each anchor.
const Probes = 8

// Raycaster returns the hits of a ray ordered by distance.
type Raycaster interface {
	Intersect(r picking.Ray) []picking.Hit
}

// Config tunes placement and column meshes.
type Config struct {
	Step          float32 // Ground distance between anchors
	Radius        float32 // Column radius, also the probe circle
	Samples       int     // Path samples for the ground walk
	Slices        int     // Segments around the column
	GroundY       float32
	TiltThreshold float32 // |tangent.y| above which the tip is tilted
	TipFraction   float32 // Share of the height that is tilted
}

// DefaultConfig returns the standard column layout.
func DefaultConfig() Config {
	return Config{
		Step:          4,
		Radius:        0.2,
		Samples:       400,
		Slices:        10,
		TiltThreshold: 0.55,
		TipFraction:   0.1,
	}
}

// Veto is the reason an anchor got no column.
type Veto int

const (
	VetoNone Veto = iota
	// VetoAmbiguous: the centre ray crosses more than one rail surface below
	// the path, so the track overlaps itself here.
	VetoAmbiguous
	// VetoInverted: the binormal does not point down, so the rail is not
	// roof-like over the anchor.
	VetoInverted
)

func (v Veto) String() string {
	switch v {
	case VetoAmbiguous:
		return "ambiguous"
	case VetoInverted:
		return "inverted"
	default:
		return "none"
	}
}

// Placement is an accepted anchor and the column dimensions derived for it.
type Placement struct {
	Anchor
	Hits         []picking.Hit // Valid hits of the centre ray
	TopMinHeight float32       // Lowest valid hit over centre and probes
	Frame        curve.Frame
	Tilt         bool
	Fallback     bool // No valid hit anywhere; the column reaches the path
}

// Stats summarizes a placement pass.
type Stats struct {
	Anchors   int
	Placed    int
	Ambiguous int
	Inverted  int
	Fallbacks int
}

// Vetoed returns the number of rejected anchors.
func (s Stats) Vetoed() int {
	return s.Ambiguous + s.Inverted
}

// Place walks c, evaluates every anchor against target and returns the
// accepted placements in path order.
func Place(c Curve, frames *curve.FrameSet, target Raycaster, cfg Config) ([]Placement, Stats) {
	anchors := Anchors(c, cfg.Samples, cfg.Step, cfg.GroundY)
	stats := Stats{Anchors: len(anchors)}

	placements := make([]Placement, 0, len(anchors))
	for _, a := range anchors {
		p, veto := Evaluate(a, frames, target, cfg)
		switch veto {
		case VetoAmbiguous:
			stats.Ambiguous++
			continue
		case VetoInverted:
			stats.Inverted++
			continue
		}
		if p.Fallback {
			stats.Fallbacks++
		}
		placements = append(placements, p)
	}
	stats.Placed = len(placements)
	return placements, stats
}

// Evaluate casts the centre ray and the clearance probes for one anchor.
func Evaluate(a Anchor, frames *curve.FrameSet, target Raycaster, cfg Config) (Placement, Veto) {
	frame := frames.FrameAt(a.U)
	hits := validHits(target, a.Ground, a.Point.Y)

	if len(hits) > 1 {
		return Placement{}, VetoAmbiguous
	}
	if frame.Binormal.Y >= 0 {
		return Placement{}, VetoInverted
	}

	p := Placement{
		Anchor:       a,
		Hits:         hits,
		TopMinHeight: math32.Inf(1),
		Frame:        frame,
		Tilt:         math32.Abs(frame.Tangent.Y) > cfg.TiltThreshold,
	}
	for _, h := range hits {
		p.TopMinHeight = min(p.TopMinHeight, h.Point.Y)
	}
	for i := range Probes {
		s, c := math32.Sincos(2 * math.Pi * float32(i) / Probes)
		origin := a.Ground.Add(math.Vec3{X: c * cfg.Radius, Z: s * cfg.Radius})
		for _, h := range validHits(target, origin, a.Point.Y) {
			p.TopMinHeight = min(p.TopMinHeight, h.Point.Y)
		}
	}

	if math32.IsInf(p.TopMinHeight, 1) {
		p.TopMinHeight = a.Point.Y
		p.Fallback = true
	}
	return p, VetoNone
}

// validHits casts a ray straight up from origin and keeps the hits strictly
// below ceiling.
func validHits(target Raycaster, origin math.Vec3, ceiling float32) []picking.Hit {
	var out []picking.Hit
	for _, h := range target.Intersect(picking.Up(origin)) {
		if h.Point.Y < ceiling {
			out = append(out, h)
		}
	}
	return out
}

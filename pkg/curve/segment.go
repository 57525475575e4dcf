// Package curve builds composite parametric paths, arc-length tables and
// Frenet frame samples for sweeping geometry along them.
package curve

import (
	"fmt"

	"github.com/Faultbox/funpark/pkg/math"
)

// Segment is one piece of a composite path, parameterized by t in [0,1].
type Segment interface {
	PointAt(t float32) math.Vec3
	// Derivative returns dP/dt. It may be zero where control points coincide.
	Derivative(t float32) math.Vec3
	Start() math.Vec3
	End() math.Vec3
}

// Line is a straight segment from A to B.
type Line struct {
	A, B math.Vec3
}

func (l Line) PointAt(t float32) math.Vec3  { return l.A.Lerp(l.B, t) }
func (l Line) Derivative(float32) math.Vec3 { return l.B.Sub(l.A) }
func (l Line) Start() math.Vec3             { return l.A }
func (l Line) End() math.Vec3               { return l.B }

// QuadraticBezier is a quadratic Bezier segment.
type QuadraticBezier struct {
	P0, P1, P2 math.Vec3
}

func (q QuadraticBezier) PointAt(t float32) math.Vec3 {
	k := 1 - t
	return q.P0.Scale(k * k).Add(q.P1.Scale(2 * k * t)).Add(q.P2.Scale(t * t))
}

func (q QuadraticBezier) Derivative(t float32) math.Vec3 {
	return q.P1.Sub(q.P0).Scale(2 * (1 - t)).Add(q.P2.Sub(q.P1).Scale(2 * t))
}

func (q QuadraticBezier) Start() math.Vec3 { return q.P0 }
func (q QuadraticBezier) End() math.Vec3   { return q.P2 }

// CubicBezier is a cubic Bezier segment.
type CubicBezier struct {
	P0, P1, P2, P3 math.Vec3
}

func (c CubicBezier) PointAt(t float32) math.Vec3 {
	k := 1 - t
	return c.P0.Scale(k * k * k).
		Add(c.P1.Scale(3 * k * k * t)).
		Add(c.P2.Scale(3 * k * t * t)).
		Add(c.P3.Scale(t * t * t))
}

func (c CubicBezier) Derivative(t float32) math.Vec3 {
	k := 1 - t
	return c.P1.Sub(c.P0).Scale(3 * k * k).
		Add(c.P2.Sub(c.P1).Scale(6 * k * t)).
		Add(c.P3.Sub(c.P2).Scale(3 * t * t))
}

func (c CubicBezier) Start() math.Vec3 { return c.P0 }
func (c CubicBezier) End() math.Vec3   { return c.P3 }

// Kind names a segment type in a SegmentSpec.
type Kind string

// Segment kinds accepted by NewSegment.
const (
	KindLine      Kind = "line"
	KindQuadratic Kind = "quadratic"
	KindCubic     Kind = "cubic"
)

// SegmentSpec describes a segment by kind and control points.
type SegmentSpec struct {
	Kind   Kind
	Points []math.Vec3
}

// NewSegment builds the segment a spec describes.
func NewSegment(spec SegmentSpec) (Segment, error) {
	want := map[Kind]int{KindLine: 2, KindQuadratic: 3, KindCubic: 4}
	n, ok := want[spec.Kind]
	if !ok {
		return nil, fmt.Errorf("segment kind %q: %w", spec.Kind, ErrUnknownKind)
	}
	if len(spec.Points) != n {
		return nil, fmt.Errorf("%s segment needs %d points, got %d: %w",
			spec.Kind, n, len(spec.Points), ErrControlPoints)
	}

	p := spec.Points
	switch spec.Kind {
	case KindLine:
		return Line{p[0], p[1]}, nil
	case KindQuadratic:
		return QuadraticBezier{p[0], p[1], p[2]}, nil
	default:
		return CubicBezier{p[0], p[1], p[2], p[3]}, nil
	}
}

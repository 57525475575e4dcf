package curve

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/pkg/math"
)

// Profile is a closed 2D cross-section sampled by u in [0,1].
type Profile interface {
	PointAt(u float32) math.Vec2
}

// Circle is a circular profile centred on the origin.
type Circle struct {
	Radius float32
}

func (c Circle) PointAt(u float32) math.Vec2 {
	s, co := math32.Sincos(2 * math.Pi * u)
	return math.Vec2{X: c.Radius * co, Y: c.Radius * s}
}

// Ellipse is an elliptical profile around Center.
type Ellipse struct {
	Center math.Vec2
	RX, RY float32
}

func (e Ellipse) PointAt(u float32) math.Vec2 {
	s, c := math32.Sincos(2 * math.Pi * u)
	return math.Vec2{X: e.Center.X + e.RX*c, Y: e.Center.Y + e.RY*s}
}

// Polygon is a closed polyline profile parameterized by arc length.
type Polygon struct {
	points []math.Vec2
	ends   []float32
}

// NewPolygon builds a closed polygon profile through points.
func NewPolygon(points ...math.Vec2) *Polygon {
	pg := &Polygon{points: append([]math.Vec2(nil), points...)}
	pg.ends = make([]float32, len(points))
	var sum float32
	for i := range points {
		next := points[(i+1)%len(points)]
		sum += points[i].Distance(next)
		pg.ends[i] = sum
	}
	return pg
}

func (pg *Polygon) PointAt(u float32) math.Vec2 {
	n := len(pg.points)
	if n == 0 {
		return math.Vec2{}
	}
	total := pg.ends[n-1]
	if total == 0 {
		return pg.points[0]
	}
	d := (u - math32.Floor(u)) * total
	var start float32
	for i := 0; i < n; i++ {
		if d <= pg.ends[i] {
			span := pg.ends[i] - start
			if span == 0 {
				return pg.points[i]
			}
			return pg.points[i].Lerp(pg.points[(i+1)%n], (d-start)/span)
		}
		start = pg.ends[i]
	}
	return pg.points[0]
}

// Arch returns a tunnel cross-section: a half ellipse of the given width and
// height standing on a flat floor at y=0, traced with segments arc points.
func Arch(width, height float32, segments int) *Polygon {
	if segments < 2 {
		segments = 2
	}
	pts := make([]math.Vec2, 0, segments+1)
	for i := 0; i <= segments; i++ {
		a := math.Pi * float32(i) / float32(segments)
		s, c := math32.Sincos(a)
		pts = append(pts, math.Vec2{X: width / 2 * c, Y: height * s})
	}
	return NewPolygon(pts...)
}

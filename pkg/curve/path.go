package curve

import (
	"fmt"
	"slices"
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/pkg/math"
)

const (
	// DefaultArcDivisions is the path-level arc-length table resolution.
	DefaultArcDivisions = 800
	// DefaultTolerance is the endpoint distance below which two points coincide.
	DefaultTolerance float32 = 1e-3

	segmentDivisions = 200
	tangentDelta     = 1e-4
)

// Parametric is a curve over u in [0,1] with a unit tangent.
type Parametric interface {
	PointAt(u float32) math.Vec3
	TangentAt(u float32) math.Vec3
}

// Path is a composite curve of segments joined end to end. The global
// parameter u is distributed over segments by arc length, so equal steps in
// u travel (nearly) equal distances.
//
// A Path is built once and treated as immutable afterwards; ClosePath is part
// of construction.
type Path struct {
	segments  []Segment
	tables    []arcTable
	ends      []float32
	divisions int
	arc       arcTable
	closed    bool
}

// NewPath builds a path from segments using DefaultArcDivisions.
func NewPath(segments ...Segment) *Path {
	p := &Path{
		segments:  slices.Clone(segments),
		divisions: DefaultArcDivisions,
	}
	p.rebuild()
	return p
}

// WithDivisions returns a copy of the path whose arc-length table uses n
// subdivisions.
func (p *Path) WithDivisions(n int) *Path {
	if n < 1 {
		n = 1
	}
	c := &Path{
		segments:  slices.Clone(p.segments),
		divisions: n,
		closed:    p.closed,
	}
	c.rebuild()
	return c
}

func (p *Path) rebuild() {
	p.tables = make([]arcTable, len(p.segments))
	p.ends = make([]float32, len(p.segments))
	var sum float32
	for i, s := range p.segments {
		p.tables[i] = newArcTable(s.PointAt, segmentDivisions)
		sum += p.tables[i].total()
		p.ends[i] = sum
	}
	p.arc = newArcTable(p.PointAt, p.divisions)
}

// ClosePath makes the parameter space cyclic (u=1 is u=0). When the last
// segment does not end at the first segment's start, a line segment closing
// the gap is appended.
func (p *Path) ClosePath() {
	if len(p.segments) == 0 {
		p.closed = true
		return
	}
	start := p.segments[0].Start()
	end := p.segments[len(p.segments)-1].End()
	if end.Distance(start) > DefaultTolerance {
		p.segments = append(p.segments, Line{A: end, B: start})
	}
	p.closed = true
	p.rebuild()
}

// Closed reports whether the path is cyclic.
func (p *Path) Closed() bool {
	return p.closed
}

// Segments returns a copy of the path's segments.
func (p *Path) Segments() []Segment {
	return slices.Clone(p.segments)
}

// Length returns the total length of the path.
func (p *Path) Length() float32 {
	if len(p.ends) == 0 {
		return 0
	}
	return p.ends[len(p.ends)-1]
}

// wrap folds u into [0,1): cyclic for closed paths, clamped otherwise.
func (p *Path) wrap(u float32) float32 {
	if p.closed {
		return u - math32.Floor(u)
	}
	return math32.Max(0, math32.Min(1, u))
}

// locate finds the segment holding global parameter u and the local t.
func (p *Path) locate(u float32) (int, float32) {
	total := p.Length()
	d := p.wrap(u) * total
	i := sort.Search(len(p.ends), func(k int) bool { return p.ends[k] >= d })
	if i >= len(p.ends) {
		i = len(p.ends) - 1
	}

	var segStart float32
	if i > 0 {
		segStart = p.ends[i-1]
	}
	segLen := p.ends[i] - segStart
	if segLen <= 0 {
		return i, 0
	}
	return i, p.tables[i].uToT((d - segStart) / segLen)
}

// PointAt returns the point at global parameter u.
func (p *Path) PointAt(u float32) math.Vec3 {
	if len(p.segments) == 0 {
		return math.Vec3{}
	}
	i, t := p.locate(u)
	return p.segments[i].PointAt(t)
}

// TangentAt returns the unit tangent at u. On a closed path TangentAt(1)
// equals TangentAt(0).
func (p *Path) TangentAt(u float32) math.Vec3 {
	if len(p.segments) == 0 {
		return math.Vec3{}
	}
	u = p.wrap(u)
	i, t := p.locate(u)
	if d := p.segments[i].Derivative(t); d.LengthSq() > 1e-12 {
		return d.Normalize()
	}

	// Degenerate control points: fall back to a finite difference.
	u0, u1 := u-tangentDelta, u+tangentDelta
	if !p.closed {
		u0 = math32.Max(0, u0)
		u1 = math32.Min(1, u1)
	}
	return p.PointAt(u1).Sub(p.PointAt(u0)).Normalize()
}

// LengthAt returns the arc length from the start to u, read from the
// path-level table.
func (p *Path) LengthAt(u float32) float32 {
	if p.closed && u >= 1 {
		return p.arc.total()
	}
	return p.arc.lengthAt(p.wrap(u))
}

// Lengths returns a copy of the cumulative arc-length table
// (Divisions()+1 entries).
func (p *Path) Lengths() []float32 {
	return slices.Clone(p.arc.lengths)
}

// Divisions returns the arc-length table resolution.
func (p *Path) Divisions() int {
	return p.divisions
}

// UtoT maps an arc-length fraction to the path parameter.
func (p *Path) UtoT(u float32) float32 {
	return p.arc.uToT(u)
}

// PointAtArc returns the point at arc-length fraction u.
func (p *Path) PointAtArc(u float32) math.Vec3 {
	return p.PointAt(p.UtoT(u))
}

// Points samples the path at n+1 evenly spaced parameters u = i/n.
func (p *Path) Points(n int) []math.Vec3 {
	if n < 1 {
		n = 1
	}
	pts := make([]math.Vec3, n+1)
	for i := range pts {
		pts[i] = p.PointAt(float32(i) / float32(n))
	}
	if p.closed {
		pts[n] = pts[0]
	}
	return pts
}

// Validate checks that the path is non-empty, has no collapsed segments, is
// continuous within tol and, when closed, ends where it starts.
func (p *Path) Validate(tol float32) error {
	if len(p.segments) == 0 {
		return ErrEmptyPath
	}
	for i, s := range p.segments {
		if p.tables[i].total() <= tol {
			return fmt.Errorf("segment %d: %w", i, ErrZeroLength)
		}
		if i == 0 {
			continue
		}
		if gap := p.segments[i-1].End().Distance(s.Start()); gap > tol {
			return &DiscontinuityError{Segment: i, Gap: gap}
		}
	}
	if p.closed {
		last := p.segments[len(p.segments)-1]
		if gap := last.End().Distance(p.segments[0].Start()); gap > tol {
			return &DiscontinuityError{Segment: 0, Gap: gap}
		}
	}
	return nil
}

// Build creates a validated path from specs, closing it when closed is set.
func Build(specs []SegmentSpec, closed bool, tol float32) (*Path, error) {
	segments := make([]Segment, 0, len(specs))
	for i, spec := range specs {
		s, err := NewSegment(spec)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segments = append(segments, s)
	}

	p := NewPath(segments...)
	if closed {
		p.ClosePath()
	}
	if err := p.Validate(tol); err != nil {
		return nil, err
	}
	return p, nil
}

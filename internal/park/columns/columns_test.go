package columns

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/funpark/internal/engine/picking"
	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/pkg/curve"
	"github.com/Faultbox/funpark/pkg/math"
)

// dipRun is a 10-unit straight run at y=3 along +x with one smooth dip
// between x=3 and x=7.
func dipRun() *curve.Path {
	return curve.NewPath(
		curve.Line{A: math.Vec3{X: 0, Y: 3}, B: math.Vec3{X: 3, Y: 3}},
		curve.CubicBezier{
			P0: math.Vec3{X: 3, Y: 3},
			P1: math.Vec3{X: 4, Y: 2.5},
			P2: math.Vec3{X: 6, Y: 2.5},
			P3: math.Vec3{X: 7, Y: 3},
		},
		curve.Line{A: math.Vec3{X: 7, Y: 3}, B: math.Vec3{X: 10, Y: 3}},
	)
}

func railFor(t *testing.T, path *curve.Path, opts curve.FrameOptions) (*curve.FrameSet, *picking.MeshTarget) {
	t.Helper()
	frames, err := curve.ComputeFrames(path, 200, false, opts)
	require.NoError(t, err)
	rail := surface.Sweep(curve.Ellipse{RX: 0.6, RY: 0.2}, path, frames, 16, 400, surface.DefaultSweepOptions())
	return frames, picking.NewMeshTarget(rail)
}

type stubTarget struct {
	heights []float32
}

func (s stubTarget) Intersect(r picking.Ray) []picking.Hit {
	hits := make([]picking.Hit, len(s.heights))
	for i, h := range s.heights {
		d := h - r.Origin.Y
		hits[i] = picking.Hit{Distance: d, Point: r.At(d)}
	}
	return hits
}

func TestAnchorsFlatRun(t *testing.T) {
	anchors := Anchors(dipRun(), 400, 1, 0)
	require.Len(t, anchors, 10)
	for i, a := range anchors {
		assert.InDelta(t, float32(i+1), a.Ground.X, 0.05, "anchor %d", i)
		assert.Equal(t, float32(0), a.Ground.Y)
		assert.Greater(t, a.Point.Y, float32(2.5))
	}
	assert.InDelta(t, 1, anchors[9].U, 1e-3)
}

func TestAnchorsStepLongerThanPath(t *testing.T) {
	assert.Empty(t, Anchors(dipRun(), 400, 20, 0))
	assert.Empty(t, Anchors(dipRun(), 0, 1, 0))
	assert.Empty(t, Anchors(dipRun(), 400, 0, 0))
}

func TestPlaceDipRun(t *testing.T) {
	path := dipRun()
	frames, target := railFor(t, path, curve.DefaultFrameOptions())

	cfg := DefaultConfig()
	cfg.Step = 1
	placements, stats := Place(path, frames, target, cfg)

	require.Len(t, placements, 10)
	assert.Equal(t, Stats{Anchors: 10, Placed: 10, Fallbacks: stats.Fallbacks}, stats)
	for i, p := range placements {
		assert.LessOrEqual(t, p.TopMinHeight, p.Point.Y, "column %d", i)
		assert.Less(t, p.Frame.Binormal.Y, float32(0))
		assert.LessOrEqual(t, len(p.Hits), 1)
	}

	// Mid-run anchors sit well inside the rail and must hit its underside.
	mid := placements[4]
	require.False(t, mid.Fallback)
	assert.Less(t, mid.TopMinHeight, mid.Point.Y-0.1)
}

func TestPlaceInvertedFrames(t *testing.T) {
	path := dipRun()
	frames, target := railFor(t, path, curve.FrameOptions{Up: math.Vec3{Y: -1}, Flatten: true})

	cfg := DefaultConfig()
	cfg.Step = 1
	placements, stats := Place(path, frames, target, cfg)

	assert.Empty(t, placements)
	assert.Equal(t, 10, stats.Inverted)
	assert.Equal(t, 10, stats.Vetoed())
}

func TestEvaluateVetoes(t *testing.T) {
	frames, err := curve.ComputeFrames(dipRun(), 50, false, curve.DefaultFrameOptions())
	require.NoError(t, err)
	a := Anchor{Ground: math.Vec3{X: 1}, Point: math.Vec3{X: 1, Y: 3}, U: 0.1}

	_, veto := Evaluate(a, frames, stubTarget{heights: []float32{1, 2}}, DefaultConfig())
	assert.Equal(t, VetoAmbiguous, veto)
	assert.Equal(t, "ambiguous", veto.String())

	// Hits at or above the path height are ignored.
	p, veto := Evaluate(a, frames, stubTarget{heights: []float32{2.8, 3, 5}}, DefaultConfig())
	require.Equal(t, VetoNone, veto)
	assert.Len(t, p.Hits, 1)
	assert.InDelta(t, 2.8, p.TopMinHeight, 1e-5)

	p, veto = Evaluate(a, frames, stubTarget{}, DefaultConfig())
	require.Equal(t, VetoNone, veto)
	assert.True(t, p.Fallback)
	assert.Equal(t, float32(3), p.TopMinHeight)
}

func TestTipRotation(t *testing.T) {
	s := 1 / math32.Sqrt(2)
	tangent := math.Vec3{X: s, Y: s}
	normal := math.Vec3{Z: 1}
	f := curve.Frame{Tangent: tangent, Normal: normal, Binormal: tangent.Cross(normal)}

	got := TipRotation(f).Rotate(math.Up)
	assert.True(t, got.ApproxEqual(f.Binormal.Neg(), 1e-5), "got %v", got)

	flat := curve.Frame{Tangent: math.Vec3{X: 1}, Normal: math.Vec3{Z: 1}, Binormal: math.Vec3{Y: -1}}
	assert.True(t, TipRotation(flat).Rotate(math.Up).ApproxEqual(math.Up, 1e-6))
}

func TestColumnMesh(t *testing.T) {
	cfg := DefaultConfig()
	p := Placement{
		Anchor:       Anchor{Ground: math.Vec3{X: 2, Z: 1}, Point: math.Vec3{X: 2, Y: 5, Z: 1}},
		TopMinHeight: 4.5,
		Frame:        curve.Frame{Tangent: math.Vec3{X: 1}, Normal: math.Vec3{Z: 1}, Binormal: math.Vec3{Y: -1}},
	}
	mesh := Mesh(p, cfg)

	assert.Len(t, mesh.Vertices, (cfg.Slices+1)*(columnStacks+1))
	assert.InDelta(t, 0, mesh.Bounds.Min.Y, 1e-6)
	assert.InDelta(t, 4.5, mesh.Bounds.Max.Y, 1e-5)
	assert.InDelta(t, 2-cfg.Radius, mesh.Bounds.Min.X, 1e-5)

	group := Group([]Placement{p, p}, cfg)
	assert.Equal(t, GroupName, group.Name)
	assert.Len(t, group.FindAll(ColumnName), 2)
}

func TestTiltedColumnTip(t *testing.T) {
	cfg := DefaultConfig()
	s := 1 / math32.Sqrt(2)
	tangent := math.Vec3{X: s, Y: s}
	normal := math.Vec3{Z: 1}
	p := Placement{
		Anchor:       Anchor{Point: math.Vec3{Y: 6}},
		TopMinHeight: 5,
		Frame:        curve.Frame{Tangent: tangent, Normal: normal, Binormal: tangent.Cross(normal)},
		Tilt:         true,
	}
	fn := Surface(p, cfg)

	// Bottom ring stays level; the top ring follows the slope.
	assert.InDelta(t, 0, fn(0.5, 0).Y, 1e-6)
	top := fn(0.5, 1)
	level := fn(0.25, 1)
	assert.Greater(t, math32.Abs(top.Y-5), float32(0.1))
	assert.InDelta(t, 5, level.Y, 1e-5)
}

// spot returns fixed hit heights for rays starting at origin.
type spot struct {
	origin  math.Vec3
	heights []float32
}

// spotTarget answers each ray with the heights of the spot at its origin.
type spotTarget []spot

func (s spotTarget) Intersect(r picking.Ray) []picking.Hit {
	for _, sp := range s {
		if sp.origin.ApproxEqual(r.Origin, 1e-4) {
			return stubTarget{heights: sp.heights}.Intersect(r)
		}
	}
	return nil
}

func TestEvaluateClearanceRing(t *testing.T) {
	frames, err := curve.ComputeFrames(dipRun(), 50, false, curve.DefaultFrameOptions())
	require.NoError(t, err)
	a := Anchor{Ground: math.Vec3{X: 1}, Point: math.Vec3{X: 1, Y: 3}, U: 0.1}
	cfg := DefaultConfig()

	centre := spot{a.Ground, []float32{2.8}}
	east := spot{a.Ground.Add(math.Vec3{X: cfg.Radius}), []float32{2.1}}
	north := spot{a.Ground.Add(math.Vec3{Z: cfg.Radius}), []float32{3, 4}}
	west := spot{a.Ground.Add(math.Vec3{X: -cfg.Radius}), []float32{3.5}}

	// A ring ray below the centre hit lowers the column.
	p, veto := Evaluate(a, frames, spotTarget{centre, east, north, west}, cfg)
	require.Equal(t, VetoNone, veto)
	assert.Len(t, p.Hits, 1)
	assert.InDelta(t, 2.1, p.TopMinHeight, 1e-5)
	assert.False(t, p.Fallback)

	// Ring hits at or above the path height are ignored.
	p, veto = Evaluate(a, frames, spotTarget{centre, north, west}, cfg)
	require.Equal(t, VetoNone, veto)
	assert.InDelta(t, 2.8, p.TopMinHeight, 1e-5)

	// Ring hits count even when the centre ray misses.
	p, veto = Evaluate(a, frames, spotTarget{{east.origin, []float32{2.4}}}, cfg)
	require.Equal(t, VetoNone, veto)
	assert.Empty(t, p.Hits)
	assert.InDelta(t, 2.4, p.TopMinHeight, 1e-5)
	assert.False(t, p.Fallback)
}

// steepRun is a flat run at y=3 up to x=4.5 followed by a straight climb
// to (6.5, 7), whose tangent has a vertical component near 0.89.
func steepRun() *curve.Path {
	return curve.NewPath(
		curve.Line{A: math.Vec3{X: 0, Y: 3}, B: math.Vec3{X: 4.5, Y: 3}},
		curve.Line{A: math.Vec3{X: 4.5, Y: 3}, B: math.Vec3{X: 6.5, Y: 7}},
	)
}

// topRingSpan returns the height range of the top vertex ring of mesh.
func topRingSpan(mesh *surface.Mesh, slices int) float32 {
	lo, hi := math32.Inf(1), math32.Inf(-1)
	row := columnStacks * (slices + 1)
	for i := 0; i <= slices; i++ {
		y := mesh.Vertices[row+i].Position[1]
		lo, hi = min(lo, y), max(hi, y)
	}
	return hi - lo
}

func TestPlaceTiltsSteepAnchors(t *testing.T) {
	path := steepRun()
	frames, target := railFor(t, path, curve.DefaultFrameOptions())

	cfg := DefaultConfig()
	cfg.Step = 1
	placements, stats := Place(path, frames, target, cfg)

	require.Equal(t, 6, stats.Anchors)
	require.Len(t, placements, 6)

	tilted := 0
	for i, p := range placements {
		steep := p.Ground.X > 4.5
		assert.Equal(t, steep, p.Tilt, "column %d at x=%v", i, p.Ground.X)

		span := topRingSpan(Mesh(p, cfg), cfg.Slices)
		if steep {
			tilted++
			assert.Greater(t, span, float32(0.1), "column %d top ring", i)
		} else {
			assert.Less(t, span, float32(1e-4), "column %d top ring", i)
		}
	}
	assert.Equal(t, 2, tilted)
}

// overpass runs along x at y=2, loops up and comes back at y=6 directly
// above the first run.
func overpass() *curve.Path {
	return curve.NewPath(
		curve.Line{A: math.Vec3{X: 0, Y: 2}, B: math.Vec3{X: 10, Y: 2}},
		curve.CubicBezier{
			P0: math.Vec3{X: 10, Y: 2},
			P1: math.Vec3{X: 13, Y: 2},
			P2: math.Vec3{X: 13, Y: 6},
			P3: math.Vec3{X: 10, Y: 6},
		},
		curve.Line{A: math.Vec3{X: 10, Y: 6}, B: math.Vec3{X: 0, Y: 6}},
	)
}

func TestEvaluateOverpass(t *testing.T) {
	path := overpass()
	frames, target := railFor(t, path, curve.DefaultFrameOptions())

	cfg := DefaultConfig()
	cfg.Step = 1

	lower, upper := 0, 0
	for _, a := range Anchors(path, cfg.Samples, cfg.Step, cfg.GroundY) {
		if a.Ground.X < 0.5 || a.Ground.X > 9.5 {
			continue
		}
		p, veto := Evaluate(a, frames, target, cfg)
		switch {
		case a.Point.Y < 2.01:
			// The upper run is above the path height and filtered out.
			lower++
			require.Equal(t, VetoNone, veto, "lower anchor at x=%v", a.Ground.X)
			assert.Len(t, p.Hits, 1)
			assert.Less(t, p.TopMinHeight, float32(2))
		case a.Point.Y > 5.99:
			// Both surfaces of the lower run plus the underside of this one.
			upper++
			assert.Equal(t, VetoAmbiguous, veto, "upper anchor at x=%v", a.Ground.X)
		}
	}
	assert.GreaterOrEqual(t, lower, 8)
	assert.GreaterOrEqual(t, upper, 8)

	_, stats := Place(path, frames, target, cfg)
	assert.GreaterOrEqual(t, stats.Ambiguous, upper)
}

package surface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/funpark/pkg/curve"
	"github.com/Faultbox/funpark/pkg/math"
)

func ringPath(t *testing.T) (*curve.Path, *curve.FrameSet) {
	t.Helper()
	p := curve.NewPath(
		curve.QuadraticBezier{P0: math.Vec3{X: 10, Y: 5}, P1: math.Vec3{X: 10, Y: 5, Z: 10}, P2: math.Vec3{Y: 5, Z: 10}},
		curve.QuadraticBezier{P0: math.Vec3{Y: 5, Z: 10}, P1: math.Vec3{X: -10, Y: 5, Z: 10}, P2: math.Vec3{X: -10, Y: 5}},
		curve.QuadraticBezier{P0: math.Vec3{X: -10, Y: 5}, P1: math.Vec3{X: -10, Y: 5, Z: -10}, P2: math.Vec3{Y: 5, Z: -10}},
		curve.QuadraticBezier{P0: math.Vec3{Y: 5, Z: -10}, P1: math.Vec3{X: 10, Y: 5, Z: -10}, P2: math.Vec3{X: 10, Y: 5}},
	)
	p.ClosePath()

	fs, err := curve.ComputeFrames(p, 64, true, curve.DefaultFrameOptions())
	require.NoError(t, err)
	return p, fs
}

func TestParametricPlane(t *testing.T) {
	m := Parametric(func(u, v float32) math.Vec3 {
		return math.Vec3{X: 2 * u, Z: 3 * v}
	}, 4, 3)

	assert.Len(t, m.Vertices, 20)
	assert.Equal(t, 24, m.Triangles())
	assert.Equal(t, math.Vec3{}, m.Bounds.Min)
	assert.Equal(t, math.Vec3{X: 2, Z: 3}, m.Bounds.Max)

	for _, v := range m.Vertices {
		assert.InDelta(t, 1, v.Normal[1], 1e-5)
	}

	last := m.Vertices[Grid(4, 4, 3)]
	assert.Equal(t, [2]float32{1, 1}, last.TexCoord)
	assert.Equal(t, [3]float32{2, 0, 3}, last.Position)
}

func TestSweepWrapsClosedPath(t *testing.T) {
	path, frames := ringPath(t)
	const slices, stacks = 8, 32
	m := Sweep(curve.Circle{Radius: 1}, path, frames, slices, stacks, DefaultSweepOptions())

	var centre math.Vec3
	for i := 0; i <= slices; i++ {
		first := m.Vertices[Grid(slices, i, 0)].Position
		last := m.Vertices[Grid(slices, i, stacks)].Position
		assert.Equal(t, first, last, "slice %d", i)
		if i < slices {
			centre = centre.Add(math.V3(first))
		}
	}
	centre = centre.Scale(1.0 / slices)
	assert.True(t, centre.ApproxEqual(path.PointAt(0), 1e-4), "centre %v", centre)
}

func TestSweepKeepsProfileRadius(t *testing.T) {
	path, frames := ringPath(t)
	const slices, stacks = 12, 40
	m := Sweep(curve.Circle{Radius: 0.5}, path, frames, slices, stacks, DefaultSweepOptions())

	for j := 0; j < stacks; j += 7 {
		centre := path.PointAt(float32(j) / stacks)
		for i := 0; i <= slices; i++ {
			d := m.Position(Grid(slices, i, j)).Distance(centre)
			assert.InDelta(t, 0.5, d, 1e-3)
		}
	}
}

func TestSweepScaleFlipsProfile(t *testing.T) {
	line := curve.NewPath(curve.Line{A: math.Vec3{}, B: math.Vec3{X: 10}})
	frames, err := curve.ComputeFrames(line, 4, false, curve.DefaultFrameOptions())
	require.NoError(t, err)

	top := float32(0.25)
	plain := NewSweep(curve.Circle{Radius: 1}, line, frames, DefaultSweepOptions())
	flipped := NewSweep(curve.Circle{Radius: 1}, line, frames, SweepOptions{
		Scale: math.Vec3{X: 1, Y: -1, Z: 1},
	})

	assert.True(t, plain(top, 0.5).ApproxEqual(math.Vec3{X: 5, Y: -1}, 1e-4))
	assert.True(t, flipped(top, 0.5).ApproxEqual(math.Vec3{X: 5, Y: 1}, 1e-4))
}

func TestFromBuffers(t *testing.T) {
	positions := []math.Vec3{{}, {Z: 1}, {X: 1}}

	m, err := FromBuffers(positions, []uint32{0, 1, 2}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Triangles())
	for _, v := range m.Vertices {
		assert.Equal(t, [3]float32{0, 1, 0}, v.Normal)
	}

	cases := map[string]struct {
		positions []math.Vec3
		indices   []uint32
		normals   []math.Vec3
		uvs       []math.Vec2
	}{
		"no positions":  {nil, []uint32{0, 1, 2}, nil, nil},
		"partial tri":   {positions, []uint32{0, 1}, nil, nil},
		"out of range":  {positions, []uint32{0, 1, 3}, nil, nil},
		"short normals": {positions, []uint32{0, 1, 2}, []math.Vec3{{Y: 1}}, nil},
		"short uvs":     {positions, []uint32{0, 1, 2}, nil, []math.Vec2{{}}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromBuffers(tc.positions, tc.indices, tc.normals, tc.uvs)
			assert.ErrorIs(t, err, ErrBadBuffers)
		})
	}
}

func TestCap(t *testing.T) {
	ring := []math.Vec3{{X: 1}, {Z: -1}, {X: -1}, {Z: 1}}

	m, err := Cap(ring, math.Vec3{})
	require.NoError(t, err)
	assert.Len(t, m.Vertices, 5)
	assert.Equal(t, 4, m.Triangles())
	assert.Equal(t, uint32(1), m.Indices[len(m.Indices)-1])

	_, err = Cap(ring[:2], math.Vec3{})
	assert.ErrorIs(t, err, ErrBadBuffers)
}

func TestTransformedAndMerge(t *testing.T) {
	quad := Parametric(func(u, v float32) math.Vec3 {
		return math.Vec3{X: u, Z: v}
	}, 1, 1)

	moved := quad.Transformed(math.Translate(0, 2, 0))
	assert.Equal(t, math.Vec3{Y: 2}, moved.Bounds.Min)
	assert.Equal(t, quad.Vertices[0].Normal, moved.Vertices[0].Normal)

	both := Merge(quad, nil, moved)
	assert.Len(t, both.Vertices, 8)
	assert.Equal(t, 4, both.Triangles())
	assert.Equal(t, uint32(4), both.Indices[6])
	assert.InDelta(t, 2, both.Bounds.Max.Y, 1e-6)
}

func TestShapes(t *testing.T) {
	box := Box(math.Vec3{X: 2, Y: 4, Z: 6})
	assert.Len(t, box.Vertices, 24)
	assert.Equal(t, 12, box.Triangles())
	assert.Equal(t, math.Vec3{X: -1, Y: -2, Z: -3}, box.Bounds.Min)
	for _, v := range box.Vertices {
		// Flat faces: each normal points away from the centre.
		assert.Greater(t, math.V3(v.Normal).Dot(math.V3(v.Position)), float32(0))
	}

	plane := Plane(10, 2, 4)
	assert.InDelta(t, -5, plane.Bounds.Min.X, 1e-6)
	assert.InDelta(t, 2, plane.Bounds.Max.Y, 1e-6)
	for _, v := range plane.Vertices {
		assert.InDelta(t, 1, v.Normal[1], 1e-5)
	}

	disc := Disc(1, 0.5, 16)
	assert.InDelta(t, -0.5, disc.Bounds.Min.Y, 1e-6)
	assert.InDelta(t, 0, disc.Bounds.Max.Y, 1e-6)
	top := disc.Vertices[len(disc.Vertices)-2*17]
	assert.Equal(t, [3]float32{0, 0, 0}, top.Position)
	assert.InDelta(t, 1, top.Normal[1], 1e-5)

	tube := Cylinder(0.5, 1, 3, 8)
	first := tube.Vertices[0]
	assert.InDelta(t, 1, first.Normal[0], 1e-5)
}

package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/pkg/math"
)

func TestIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: -1, Y: -1, Z: -1})
	assert.Equal(t, math.Vec3{X: -1, Y: -1, Z: -1}, box.Min)

	d, ok := Ray{Origin: math.Vec3{Z: -5}, Direction: math.Vec3{Z: 1}}.IntersectAABB(box)
	require.True(t, ok)
	assert.InDelta(t, 4, d, 1e-6)

	d, ok = Ray{Origin: math.Vec3{}, Direction: math.Vec3{Y: 1}}.IntersectAABB(box)
	require.True(t, ok, "ray from inside exits the box")
	assert.InDelta(t, 1, d, 1e-6)

	_, ok = Ray{Origin: math.Vec3{X: 3, Z: -5}, Direction: math.Vec3{Z: 1}}.IntersectAABB(box)
	assert.False(t, ok)

	_, ok = Ray{Origin: math.Vec3{Z: 5}, Direction: math.Vec3{Z: 1}}.IntersectAABB(box)
	assert.False(t, ok, "box behind the ray")
}

func TestIntersectPlaneY(t *testing.T) {
	r := Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{X: 1, Y: -1}.Normalize()}

	p, ok := r.IntersectPlaneY(0)
	require.True(t, ok)
	assert.True(t, p.ApproxEqual(math.Vec3{X: 10}, 1e-4))

	_, ok = Ray{Origin: math.Vec3{Y: 10}, Direction: math.Vec3{X: 1}}.IntersectPlaneY(0)
	assert.False(t, ok)
}

func TestIntersectTriangle(t *testing.T) {
	a := math.Vec3{Y: 2}
	b := math.Vec3{X: 1, Y: 2}
	c := math.Vec3{Y: 2, Z: 1}

	d, ok := Up(math.Vec3{X: 0.2, Z: 0.2}).IntersectTriangle(a, b, c)
	require.True(t, ok)
	assert.InDelta(t, 2, d, 1e-6)

	// Winding does not matter.
	_, ok = Up(math.Vec3{X: 0.2, Z: 0.2}).IntersectTriangle(a, c, b)
	assert.True(t, ok)

	_, ok = Up(math.Vec3{X: 0.8, Z: 0.8}).IntersectTriangle(a, b, c)
	assert.False(t, ok, "outside")

	_, ok = Up(math.Vec3{X: 0.2, Y: 3, Z: 0.2}).IntersectTriangle(a, b, c)
	assert.False(t, ok, "behind")

	_, ok = Ray{Origin: math.Vec3{Y: 2}, Direction: math.Vec3{X: 1}}.IntersectTriangle(a, b, c)
	assert.False(t, ok, "parallel")
}

func TestMeshTargetOrdersAndWeldsHits(t *testing.T) {
	slab := func(y float32) *surface.Mesh {
		return surface.Parametric(func(u, v float32) math.Vec3 {
			return math.Vec3{X: u, Y: y, Z: v}
		}, 1, 1)
	}
	target := NewMeshTarget(surface.Merge(slab(3), slab(1)))

	// (0.5, 0.5) lies on the shared diagonal of each quad.
	hits := target.Intersect(Up(math.Vec3{X: 0.5, Z: 0.5}))
	require.Len(t, hits, 2)
	assert.InDelta(t, 1, hits[0].Distance, 1e-6)
	assert.InDelta(t, 3, hits[1].Distance, 1e-6)
	assert.True(t, hits[1].Point.ApproxEqual(math.Vec3{X: 0.5, Y: 3, Z: 0.5}, 1e-6))

	assert.Empty(t, target.Intersect(Up(math.Vec3{X: 5, Z: 5})))
}

func TestScreenToRay(t *testing.T) {
	view := math.LookAt(math.Vec3{Z: 5}, math.Vec3{}, math.Up)
	proj := math.Perspective(math.Pi/3, 4.0/3.0, 0.1, 100)
	inv := proj.Mul(view).Inverse()

	r := ScreenToRay(400, 300, 800, 600, inv)
	assert.True(t, r.Direction.ApproxEqual(math.Vec3{Z: -1}, 1e-3), "direction %v", r.Direction)
	assert.InDelta(t, 0, r.Origin.X, 1e-3)
	assert.InDelta(t, 0, r.Origin.Y, 1e-3)
}

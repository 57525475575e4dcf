package picking

import (
	"slices"

	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/pkg/math"
)

const (
	triangleEps = 1e-7
	// Hits closer than this are one crossing reported by adjacent triangles.
	weldDistance = 1e-4
)

// Hit is one ray intersection.
type Hit struct {
	Distance float32
	Point    math.Vec3
	Triangle int
}

// IntersectTriangle returns the distance along the ray to triangle (a, b, c)
// using the Moller-Trumbore test. Both faces are hit.
func (r Ray) IntersectTriangle(a, b, c math.Vec3) (float32, bool) {
	edge1 := b.Sub(a)
	edge2 := c.Sub(a)

	h := r.Direction.Cross(edge2)
	det := edge1.Dot(h)
	if math32.Abs(det) < triangleEps {
		return 0, false // Ray parallel to triangle
	}

	inv := 1 / det
	s := r.Origin.Sub(a)
	u := inv * s.Dot(h)
	if u < 0 || u > 1 {
		return 0, false
	}

	q := s.Cross(edge1)
	v := inv * r.Direction.Dot(q)
	if v < 0 || u+v > 1 {
		return 0, false
	}

	t := inv * edge2.Dot(q)
	if t <= triangleEps {
		return 0, false
	}
	return t, true
}

// MeshTarget casts rays against a world-space mesh.
type MeshTarget struct {
	mesh *surface.Mesh
	box  AABB
}

// NewMeshTarget wraps mesh, whose positions must already be in world space.
func NewMeshTarget(mesh *surface.Mesh) *MeshTarget {
	return &MeshTarget{
		mesh: mesh,
		box:  NewAABB(mesh.Bounds.Min, mesh.Bounds.Max).Expand(1e-3),
	}
}

// Intersect returns every hit of r on the mesh ordered by distance.
func (m *MeshTarget) Intersect(r Ray) []Hit {
	if _, ok := r.IntersectAABB(m.box); !ok {
		return nil
	}

	var hits []Hit
	for i := range m.mesh.Triangles() {
		a, b, c := m.mesh.Triangle(i)
		if t, ok := r.IntersectTriangle(a, b, c); ok {
			hits = append(hits, Hit{Distance: t, Point: r.At(t), Triangle: i})
		}
	}

	slices.SortFunc(hits, func(x, y Hit) int {
		switch {
		case x.Distance < y.Distance:
			return -1
		case x.Distance > y.Distance:
			return 1
		}
		return 0
	})
	return weld(hits)
}

func weld(hits []Hit) []Hit {
	if len(hits) < 2 {
		return hits
	}
	out := hits[:1]
	for _, h := range hits[1:] {
		if h.Distance-out[len(out)-1].Distance > weldDistance {
			out = append(out, h)
		}
	}
	return out
}

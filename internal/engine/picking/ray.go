// Package picking provides ray casting against boxes, triangles and meshes.
package picking

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// Up returns the ray cast straight up from origin.
func Up(origin math.Vec3) Ray {
	return Ray{Origin: origin, Direction: math.Up}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	// Unproject near and far points (TransformVec3 divides by w)
	nearWorld := invViewProj.TransformVec3(math.Vec3{X: ndcX, Y: ndcY, Z: -1})
	farWorld := invViewProj.TransformVec3(math.Vec3{X: ndcX, Y: ndcY, Z: 1})

	return Ray{Origin: nearWorld, Direction: farWorld.Sub(nearWorld).Normalize()}
}

// IntersectPlaneY intersects a ray with a horizontal plane at the given Y level.
// Returns the intersection point and whether the intersection is valid.
func (r Ray) IntersectPlaneY(planeY float32) (math.Vec3, bool) {
	if math32.Abs(r.Direction.Y) < 0.001 {
		return math.Vec3{}, false // Ray parallel to plane
	}

	t := (planeY - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false // Intersection behind ray origin
	}
	return r.At(t), true
}

// IntersectAABB tests ray intersection with an axis-aligned bounding box.
// Returns the distance to intersection (t) and whether intersection occurred.
// If the ray starts inside the box, returns the exit distance.
func (r Ray) IntersectAABB(box AABB) (t float32, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	origin := r.Origin.Array()
	dir := r.Direction.Array()
	lo := box.Min.Array()
	hi := box.Max.Array()

	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return 0, false
			}
			continue
		}
		t1 := (lo[axis] - origin[axis]) / dir[axis]
		t2 := (hi[axis] - origin[axis]) / dir[axis]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	// Check if intersection is valid
	if tmax < tmin || tmax < 0 {
		return 0, false
	}

	// Return entry point, or exit point if starting inside
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// NewAABB creates an AABB from two corners, ordering each axis.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{
		Min: math.Vec3{X: math32.Min(a.X, b.X), Y: math32.Min(a.Y, b.Y), Z: math32.Min(a.Z, b.Z)},
		Max: math.Vec3{X: math32.Max(a.X, b.X), Y: math32.Max(a.Y, b.Y), Z: math32.Max(a.Z, b.Z)},
	}
}

// Expand grows the box by margin on every side.
func (b AABB) Expand(margin float32) AABB {
	m := math.Vec3{X: margin, Y: margin, Z: margin}
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

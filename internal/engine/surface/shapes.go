package surface

import (
	"github.com/Faultbox/funpark/pkg/curve"
	"github.com/Faultbox/funpark/pkg/math"
)

// Cylinder is an open vertical tube of radius around the Y axis from y0 to
// y1.
func Cylinder(radius, y0, y1 float32, slices int) *Mesh {
	ring := curve.Circle{Radius: radius}
	return Parametric(func(u, v float32) math.Vec3 {
		p := ring.PointAt(u)
		return math.Vec3{X: p.X, Y: math.Lerp(y0, y1, v), Z: p.Y}
	}, slices, 1)
}

// Disc is a capped cylinder of radius and thickness whose top face lies at
// y = 0.
func Disc(radius, thickness float32, slices int) *Mesh {
	slices = max(slices, 3)
	ring := curve.Circle{Radius: radius}
	top := make([]math.Vec3, slices)
	bottom := make([]math.Vec3, slices)
	for i := range slices {
		p := ring.PointAt(float32(i) / float32(slices))
		top[slices-1-i] = math.Vec3{X: p.X, Z: p.Y}
		bottom[i] = math.Vec3{X: p.X, Y: -thickness, Z: p.Y}
	}
	// Both rings hold at least three points.
	topCap, _ := Cap(top, math.Vec3{})
	bottomCap, _ := Cap(bottom, math.Vec3{Y: -thickness})
	return Merge(Cylinder(radius, -thickness, 0, slices), topCap, bottomCap)
}

// Box is an axis-aligned box of the given size centred on the origin. Each
// face has its own vertices so normals stay flat.
func Box(size math.Vec3) *Mesh {
	h := size.Scale(0.5)
	// +X, -X, +Y, -Y, +Z, -Z, counter-clockwise seen from outside.
	faces := [6][4]math.Vec3{
		{{X: h.X, Y: -h.Y, Z: h.Z}, {X: h.X, Y: -h.Y, Z: -h.Z}, {X: h.X, Y: h.Y, Z: -h.Z}, {X: h.X, Y: h.Y, Z: h.Z}},
		{{X: -h.X, Y: -h.Y, Z: -h.Z}, {X: -h.X, Y: -h.Y, Z: h.Z}, {X: -h.X, Y: h.Y, Z: h.Z}, {X: -h.X, Y: h.Y, Z: -h.Z}},
		{{X: -h.X, Y: h.Y, Z: h.Z}, {X: h.X, Y: h.Y, Z: h.Z}, {X: h.X, Y: h.Y, Z: -h.Z}, {X: -h.X, Y: h.Y, Z: -h.Z}},
		{{X: -h.X, Y: -h.Y, Z: -h.Z}, {X: h.X, Y: -h.Y, Z: -h.Z}, {X: h.X, Y: -h.Y, Z: h.Z}, {X: -h.X, Y: -h.Y, Z: h.Z}},
		{{X: -h.X, Y: -h.Y, Z: h.Z}, {X: h.X, Y: -h.Y, Z: h.Z}, {X: h.X, Y: h.Y, Z: h.Z}, {X: -h.X, Y: h.Y, Z: h.Z}},
		{{X: h.X, Y: -h.Y, Z: -h.Z}, {X: -h.X, Y: -h.Y, Z: -h.Z}, {X: -h.X, Y: h.Y, Z: -h.Z}, {X: h.X, Y: h.Y, Z: -h.Z}},
	}
	quad := []math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	positions := make([]math.Vec3, 0, 24)
	uvs := make([]math.Vec2, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(positions))
		positions = append(positions, f[:]...)
		uvs = append(uvs, quad...)
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	// The buffers above are always consistent.
	m, _ := FromBuffers(positions, indices, nil, uvs)
	return m
}

// Plane is a horizontal square of side size centred on the origin at height
// y, facing up.
func Plane(size, y float32, divisions int) *Mesh {
	h := size / 2
	return Parametric(func(u, v float32) math.Vec3 {
		return math.Vec3{X: math.Lerp(-h, h, u), Y: y, Z: math.Lerp(-h, h, v)}
	}, divisions, divisions)
}

package columns

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/internal/assets"
	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/internal/scene"
	"github.com/Faultbox/funpark/pkg/curve"
	"github.com/Faultbox/funpark/pkg/math"
)

// Node names used for bulk lookup.
const (
	GroupName  = "columns"
	ColumnName = "column"
)

// columnStacks is the ring count along the column height.
const columnStacks = 3

// TipRotation returns the rotation applied to the tilted tip rings: a turn
// about the ground-projected normal that takes the up axis onto -binormal,
// so the top ring lies flush with the underside of the rail.
func TipRotation(f curve.Frame) math.Quat {
	axis := f.Normal.Ground(0).Normalize()
	if axis.LengthSq() == 0 {
		return math.QuatIdentity()
	}
	down := f.Binormal.Neg()
	angle := math32.Atan2(axis.Dot(math.Up.Cross(down)), math.Up.Dot(down))
	return math.QuatFromAxisAngle(axis, angle)
}

// Surface returns the column surface function for p in world space: a
// circle of cfg.Radius rising from the ground to TopMinHeight, with the
// rings in the top TipFraction tilted when p.Tilt is set.
func Surface(p Placement, cfg Config) surface.Func {
	profile := curve.Circle{Radius: cfg.Radius}
	base := p.Ground
	height := p.TopMinHeight - base.Y
	tip := TipRotation(p.Frame)

	return func(u, v float32) math.Vec3 {
		c := profile.PointAt(u)
		offset := math.Vec3{X: c.X, Z: c.Y}
		if p.Tilt && v >= 1-cfg.TipFraction {
			offset = tip.Rotate(offset)
		}
		return math.Vec3{X: base.X, Y: base.Y + v*height, Z: base.Z}.Add(offset)
	}
}

// Mesh builds the column mesh for p.
func Mesh(p Placement, cfg Config) *surface.Mesh {
	return surface.Parametric(Surface(p, cfg), max(cfg.Slices, 3), columnStacks)
}

// Group builds one column node per placement under a "columns" group. The
// meshes are in world space so the nodes keep identity transforms.
func Group(placements []Placement, cfg Config) *scene.Node {
	group := scene.New(GroupName)
	for _, p := range placements {
		group.Add(scene.NewMesh(ColumnName, Mesh(p, cfg), assets.SlotColumn))
	}
	return group
}

package surface

import (
	"github.com/Faultbox/funpark/pkg/curve"
	"github.com/Faultbox/funpark/pkg/math"
)

// WrapPolicy selects how a sweep treats v == 1 on a closed path.
type WrapPolicy int

const (
	// WrapToStart re-reads the path point and frame at v = 0 so the last row
	// of a closed sweep coincides with the first.
	WrapToStart WrapPolicy = iota
	// WrapNone passes v = 1 straight to the path and frame set.
	WrapNone
)

// Path is the curve a profile is swept along.
type Path interface {
	PointAt(u float32) math.Vec3
	Closed() bool
}

// SweepOptions tunes NewSweep.
type SweepOptions struct {
	// Scale is applied to the profile point before the change of basis. The
	// Z component scales along the tangent.
	Scale math.Vec3
	Wrap  WrapPolicy
}

// DefaultSweepOptions returns unit scale with WrapToStart.
func DefaultSweepOptions() SweepOptions {
	return SweepOptions{Scale: math.Vec3{X: 1, Y: 1, Z: 1}, Wrap: WrapToStart}
}

// NewSweep returns the surface function of profile swept along path. The
// profile point (x, y) at u is mapped through the frame at v with basis
// columns (normal, binormal, tangent) and translated to the path point at v.
func NewSweep(profile curve.Profile, path Path, frames *curve.FrameSet, opts SweepOptions) Func {
	if opts.Scale == (math.Vec3{}) {
		opts.Scale = math.Vec3{X: 1, Y: 1, Z: 1}
	}
	scale := math.Scale(opts.Scale.X, opts.Scale.Y, opts.Scale.Z)
	wrap := opts.Wrap == WrapToStart && path.Closed()

	return func(u, v float32) math.Vec3 {
		if wrap && v >= 1 {
			v = 0
		}
		p := profile.PointAt(u)
		basis := frames.FrameAt(v).Matrix(path.PointAt(v)).Mul(scale)
		return basis.TransformVec3(math.Vec3{X: p.X, Y: p.Y})
	}
}

// Sweep builds the mesh of profile swept along path with slices samples
// around the profile and stacks samples along the path.
func Sweep(profile curve.Profile, path Path, frames *curve.FrameSet, slices, stacks int, opts SweepOptions) *Mesh {
	return Parametric(NewSweep(profile, path, frames, opts), slices, stacks)
}

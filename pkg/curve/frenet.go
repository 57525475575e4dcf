package curve

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/pkg/math"
)

// Frame is an orthonormal basis attached to a curve point.
type Frame struct {
	Tangent  math.Vec3
	Normal   math.Vec3
	Binormal math.Vec3
}

// Matrix returns the transform whose columns are (normal, binormal, tangent)
// with translation origin.
func (f Frame) Matrix(origin math.Vec3) math.Mat4 {
	return math.Basis(f.Normal, f.Binormal, f.Tangent, origin)
}

// FrameSet holds Segments()+1 frames sampled at u = i/Segments(). When
// Closed, the last sample is the first one.
type FrameSet struct {
	Tangents  []math.Vec3
	Normals   []math.Vec3
	Binormals []math.Vec3
	Closed    bool
}

// FrameOptions tunes frame computation.
type FrameOptions struct {
	// Up is the reference direction. The seed normal is Tangent x Up so the
	// first binormal points away from Up.
	Up math.Vec3
	// Flatten projects normals onto the plane perpendicular to Up so swept
	// cross-sections stay upright instead of twisting with torsion.
	Flatten bool
}

// DefaultFrameOptions flattens against the world up axis.
func DefaultFrameOptions() FrameOptions {
	return FrameOptions{Up: math.Up, Flatten: true}
}

const parallelEps = 1e-6

// ComputeFrames samples frames along c at segments+1 parameters using
// minimal-rotation propagation.
func ComputeFrames(c Parametric, segments int, closed bool, opts FrameOptions) (*FrameSet, error) {
	if segments < 1 {
		return nil, fmt.Errorf("%d: %w", segments, ErrSegments)
	}
	if opts.Up.LengthSq() == 0 {
		opts.Up = math.Up
	}
	up := opts.Up.Normalize()

	n := segments + 1
	fs := &FrameSet{
		Tangents:  make([]math.Vec3, n),
		Normals:   make([]math.Vec3, n),
		Binormals: make([]math.Vec3, n),
		Closed:    closed,
	}

	for i := range fs.Tangents {
		fs.Tangents[i] = c.TangentAt(float32(i) / float32(segments))
	}

	fs.Normals[0] = seedNormal(fs.Tangents[0], up)
	fs.Binormals[0] = fs.Tangents[0].Cross(fs.Normals[0]).Normalize()

	for i := 1; i < n; i++ {
		prevT, curT := fs.Tangents[i-1], fs.Tangents[i]
		normal := fs.Normals[i-1]

		axis := prevT.Cross(curT)
		if axis.Length() > parallelEps {
			axis = axis.Normalize()
			theta := math32.Acos(math.Clamp(prevT.Dot(curT), -1, 1))
			normal = math.QuatFromAxisAngle(axis, theta).Rotate(normal)
		}

		fs.Normals[i] = normal.Normalize()
		fs.Binormals[i] = curT.Cross(fs.Normals[i]).Normalize()
	}

	if closed {
		fs.closeTwist()
	}
	if opts.Flatten {
		fs.flatten(up)
	}
	if closed {
		fs.Tangents[segments] = fs.Tangents[0]
		fs.Normals[segments] = fs.Normals[0]
		fs.Binormals[segments] = fs.Binormals[0]
	}
	return fs, nil
}

// seedNormal picks the first normal. Tangent x up keeps the binormal pointing
// toward the ground; a vertical tangent falls back to the axis of the
// smallest tangent component.
func seedNormal(t, up math.Vec3) math.Vec3 {
	if n := t.Cross(up); n.Length() > parallelEps {
		return n.Normalize()
	}

	var axis math.Vec3
	ax, ay, az := math32.Abs(t.X), math32.Abs(t.Y), math32.Abs(t.Z)
	switch {
	case ax <= ay && ax <= az:
		axis = math.Vec3{X: 1}
	case ay <= az:
		axis = math.Vec3{Y: 1}
	default:
		axis = math.Vec3{Z: 1}
	}
	side := t.Cross(axis).Normalize()
	return t.Cross(side).Normalize()
}

// closeTwist spreads the angle between the first and last normal over all
// samples so a cyclic path meets itself without a seam.
func (fs *FrameSet) closeTwist() {
	segments := len(fs.Tangents) - 1
	first, last := fs.Normals[0], fs.Normals[segments]

	theta := math32.Acos(math.Clamp(first.Dot(last), -1, 1)) / float32(segments)
	if fs.Tangents[0].Dot(first.Cross(last)) > 0 {
		theta = -theta
	}
	if theta == 0 {
		return
	}

	for i := 1; i <= segments; i++ {
		q := math.QuatFromAxisAngle(fs.Tangents[i], theta*float32(i))
		fs.Normals[i] = q.Rotate(fs.Normals[i]).Normalize()
		fs.Binormals[i] = fs.Tangents[i].Cross(fs.Normals[i]).Normalize()
	}
}

// flatten removes the up component of every normal, renormalizes, removes
// the remaining tangent component and recomputes the binormal. A normal that
// collapses keeps the previous sample's normal.
func (fs *FrameSet) flatten(up math.Vec3) {
	var prev math.Vec3
	for i, t := range fs.Tangents {
		n := fs.Normals[i]
		flat := n.Sub(up.Scale(n.Dot(up)))
		if flat.Length() <= parallelEps {
			flat = prev
		}
		flat = flat.Normalize()

		ortho := flat.Sub(t.Scale(flat.Dot(t)))
		if ortho.Length() <= parallelEps {
			ortho = prev
		}
		if ortho.LengthSq() == 0 {
			// Nothing usable yet: keep the transported normal.
			ortho = n
		}
		ortho = ortho.Normalize()

		fs.Normals[i] = ortho
		fs.Binormals[i] = t.Cross(ortho).Normalize()
		prev = ortho
	}
}

// Segments returns the number of intervals between samples.
func (fs *FrameSet) Segments() int {
	return len(fs.Tangents) - 1
}

// At returns sample i. On a closed set index Segments() is index 0.
func (fs *FrameSet) At(i int) Frame {
	i = fs.index(i)
	return Frame{
		Tangent:  fs.Tangents[i],
		Normal:   fs.Normals[i],
		Binormal: fs.Binormals[i],
	}
}

func (fs *FrameSet) index(i int) int {
	n := fs.Segments()
	if fs.Closed && n > 0 {
		i %= n
		if i < 0 {
			i += n
		}
		return i
	}
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// Interpolate blends the frames around continuous sample position p in
// [0, Segments()]. Tangent and normal are lerped independently and
// renormalized; the binormal is always derived as tangent x normal.
func (fs *FrameSet) Interpolate(p float32) Frame {
	n := float32(fs.Segments())
	if fs.Closed {
		p -= n * math32.Floor(p/n)
	} else {
		p = math.Clamp(p, 0, n)
	}

	lo := math32.Floor(p)
	frac := p - lo
	i0 := int(lo)
	i1 := int(math32.Ceil(p))

	a, b := fs.At(i0), fs.At(i1)
	t := a.Tangent.Lerp(b.Tangent, frac).Normalize()
	nrm := a.Normal.Lerp(b.Normal, frac).Normalize()
	return Frame{
		Tangent:  t,
		Normal:   nrm,
		Binormal: t.Cross(nrm).Normalize(),
	}
}

// FrameAt interpolates the frame at path parameter u in [0,1].
func (fs *FrameSet) FrameAt(u float32) Frame {
	return fs.Interpolate(u * float32(fs.Segments()))
}

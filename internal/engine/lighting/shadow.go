package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/pkg/math"
)

// ShadowMatrix returns the view-projection of a directional light towards
// sunDir (pointing at the sun) whose orthographic volume encloses b.
func ShadowMatrix(sunDir math.Vec3, b surface.Bounds) math.Mat4 {
	center := b.Min.Add(b.Max).Scale(0.5)
	radius := b.Max.Sub(b.Min).Length() / 2
	return fit(sunDir.Normalize(), center, max(radius, 1))
}

// FocusMatrix is ShadowMatrix over a sphere of radius around focus, for
// sharper shadows near the viewer.
func FocusMatrix(sunDir, focus math.Vec3, radius float32) math.Mat4 {
	return fit(sunDir.Normalize(), focus, max(radius, 1))
}

func fit(dir, center math.Vec3, radius float32) math.Mat4 {
	distance := radius * 2
	eye := center.Add(dir.Scale(distance))

	up := math.Up
	if math32.Abs(dir.Y) > 0.99 {
		up = math.Vec3{Z: 1}
	}
	view := math.LookAt(eye, center, up)

	half := radius * 1.1
	proj := math.Ortho(-half, half, -half, half, 0.1, distance+half)
	return proj.Mul(view)
}

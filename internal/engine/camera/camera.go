// Package camera provides the viewer's free orbit camera and the ride
// cameras that look through scene nodes.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/pkg/math"
)

// View is anything that yields a view matrix.
type View interface {
	ViewMatrix() math.Mat4
	Position() math.Vec3
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	Distance  float32
	RotationX float32 // Pitch, radians
	RotationY float32 // Yaw, radians

	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates an orbit camera sized for the park.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        60,
		RotationX:       0.5,
		MinDistance:     2,
		MaxDistance:     500,
		MinPitch:        -1.2,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	sx, cx := math32.Sincos(c.RotationX)
	sy, cy := math32.Sincos(c.RotationY)
	return c.Center.Add(math.Vec3{
		X: c.Distance * cx * sy,
		Y: c.Distance * sx,
		Z: c.Distance * cx * cy,
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.Up)
}

// HandleDrag updates rotation from a mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom scales the distance by a scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// HandleMovement pans the center on the ground plane relative to the
// current yaw. Speed scales with distance.
func (c *OrbitCamera) HandleMovement(forward, right, up float32) {
	speed := c.Distance * 0.01
	sy, cy := math32.Sincos(c.RotationY)

	c.Center.X += (-sy*forward + cy*right) * speed
	c.Center.Z += (-cy*forward - sy*right) * speed
	c.Center.Y += up * speed
}

// FitToBounds centres the camera on b and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(b surface.Bounds) {
	c.Center = b.Min.Add(b.Max).Scale(0.5)
	size := b.Max.Sub(b.Min)
	c.Distance = math.Clamp(max(size.X, size.Z)*0.9, c.MinDistance, c.MaxDistance)
	c.RotationX = 0.6
	c.RotationY = 0
}

// Source is a node whose world matrix a ride camera looks through.
type Source interface {
	World() math.Mat4
}

// RideCamera looks along the local -Z axis of a scene node.
type RideCamera struct {
	Name   string
	Source Source
}

// ViewMatrix is the inverse of the node's world matrix.
func (c RideCamera) ViewMatrix() math.Mat4 {
	return c.Source.World().Inverse()
}

// Position returns the node's world position.
func (c RideCamera) Position() math.Vec3 {
	return c.Source.World().Translation()
}

// Forward returns the world direction the camera looks in.
func (c RideCamera) Forward() math.Vec3 {
	return c.Source.World().TransformDirection(math.Vec3{Z: -1}).Normalize()
}

// Rig cycles between the orbit camera and a list of ride cameras.
type Rig struct {
	Orbit  *OrbitCamera
	Rides  []RideCamera
	active int // 0 is the orbit camera
}

// NewRig creates a rig starting on the orbit camera.
func NewRig(orbit *OrbitCamera, rides ...RideCamera) *Rig {
	return &Rig{Orbit: orbit, Rides: rides}
}

// Next switches to the following camera and returns its name.
func (r *Rig) Next() string {
	r.active = (r.active + 1) % (len(r.Rides) + 1)
	return r.Name()
}

// Select activates camera i, where 0 is the orbit camera. Out of range
// indices are ignored.
func (r *Rig) Select(i int) {
	if i >= 0 && i <= len(r.Rides) {
		r.active = i
	}
}

// Orbiting reports whether the orbit camera is active.
func (r *Rig) Orbiting() bool {
	return r.active == 0
}

// Name returns the active camera's name.
func (r *Rig) Name() string {
	if r.active == 0 {
		return "orbit"
	}
	return r.Rides[r.active-1].Name
}

// Active returns the active view.
func (r *Rig) Active() View {
	if r.active == 0 {
		return r.Orbit
	}
	return r.Rides[r.active-1]
}

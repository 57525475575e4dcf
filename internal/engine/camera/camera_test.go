package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/pkg/math"
)

func TestOrbitLooksAtCenter(t *testing.T) {
	c := NewOrbitCamera()
	c.Center = math.Vec3{X: 5, Y: 2, Z: -3}
	c.RotationY = 0.7

	eye := c.Position()
	assert.InDelta(t, c.Distance, eye.Distance(c.Center), 1e-3)

	// The center lands on the view axis.
	v := c.ViewMatrix().TransformVec3(c.Center)
	assert.InDelta(t, 0, v.X, 1e-3)
	assert.InDelta(t, 0, v.Y, 1e-3)
	assert.InDelta(t, -c.Distance, v.Z, 1e-3)
}

func TestOrbitClamps(t *testing.T) {
	c := NewOrbitCamera()
	c.HandleDrag(0, 1e6)
	assert.Equal(t, c.MaxPitch, c.RotationX)
	c.HandleDrag(0, -1e6)
	assert.Equal(t, c.MinPitch, c.RotationX)

	for range 100 {
		c.HandleZoom(1)
	}
	assert.Equal(t, c.MinDistance, c.Distance)
	for range 100 {
		c.HandleZoom(-1)
	}
	assert.Equal(t, c.MaxDistance, c.Distance)
}

func TestOrbitMovementFollowsView(t *testing.T) {
	c := NewOrbitCamera()
	c.RotationX = 0
	before := c.Center
	toCenter := c.Center.Sub(c.Position()).Normalize()

	c.HandleMovement(1, 0, 0)
	moved := c.Center.Sub(before).Normalize()
	assert.True(t, moved.ApproxEqual(toCenter, 1e-4), "moved %v, view %v", moved, toCenter)
}

func TestFitToBounds(t *testing.T) {
	c := NewOrbitCamera()
	c.FitToBounds(surface.Bounds{Min: math.Vec3{X: -40, Z: -20}, Max: math.Vec3{X: 40, Y: 10, Z: 20}})
	assert.Equal(t, math.Vec3{Y: 5}, c.Center)
	assert.InDelta(t, 72, c.Distance, 1e-3)
}

type fixed math.Mat4

func (f fixed) World() math.Mat4 { return math.Mat4(f) }

func TestRideCamera(t *testing.T) {
	world := math.Translate(1, 2, 3).Mul(math.RotateY(math.Pi / 2))
	rc := RideCamera{Name: "front", Source: fixed(world)}

	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, rc.Position())
	assert.True(t, rc.Forward().ApproxEqual(math.Vec3{X: -1}, 1e-5), "forward %v", rc.Forward())

	// A point ahead of the camera is on its -Z axis.
	ahead := rc.Position().Add(rc.Forward().Scale(4))
	v := rc.ViewMatrix().TransformVec3(ahead)
	assert.True(t, v.ApproxEqual(math.Vec3{Z: -4}, 1e-4), "view space %v", v)
}

func TestRig(t *testing.T) {
	orbit := NewOrbitCamera()
	rig := NewRig(orbit,
		RideCamera{Name: "front", Source: fixed(math.Identity())},
		RideCamera{Name: "back", Source: fixed(math.Identity())})

	assert.True(t, rig.Orbiting())
	assert.Same(t, orbit, rig.Active())
	assert.Equal(t, "front", rig.Next())
	assert.Equal(t, "back", rig.Next())
	assert.Equal(t, "orbit", rig.Next())

	rig.Select(2)
	assert.Equal(t, "back", rig.Name())
	rig.Select(7)
	assert.Equal(t, "back", rig.Name())
}

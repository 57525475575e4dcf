package picking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/internal/scene"
	"github.com/Faultbox/funpark/pkg/math"
)

func boxAt(name string, z float32) *scene.Node {
	n := scene.NewMesh(name, surface.Box(math.Vec3{X: 1, Y: 1, Z: 1}), "")
	n.Position = math.Vec3{Z: z}
	return n
}

func TestPickNodeNearest(t *testing.T) {
	root := scene.New("root")
	near, far := boxAt("near", -5), boxAt("far", -10)
	root.Add(far)
	root.Add(near)
	root.UpdateWorld()

	ray := Ray{Direction: math.Vec3{Z: -1}}
	hit, ok := PickNode(root, ray)
	require.True(t, ok)
	assert.Same(t, near, hit.Node)
	assert.InDelta(t, 4.5, hit.Distance, 1e-4)
	assert.True(t, hit.Point.ApproxEqual(math.Vec3{Z: -4.5}, 1e-4), "point %v", hit.Point)

	near.Visible = false
	hit, ok = PickNode(root, ray)
	require.True(t, ok)
	assert.Same(t, far, hit.Node)

	_, ok = PickNode(root, Ray{Direction: math.Vec3{Z: 1}})
	assert.False(t, ok)
}

func TestPickNodeScaledParent(t *testing.T) {
	root := scene.New("root")
	group := scene.New("group")
	group.Scale = math.Vec3{X: 2, Y: 2, Z: 2}
	root.Add(group)
	child := boxAt("child", -5)
	group.Add(child)
	root.UpdateWorld()

	// The box spans z in [-11, -9] after scaling.
	hit, ok := PickNode(root, Ray{Direction: math.Vec3{Z: -1}})
	require.True(t, ok)
	assert.Same(t, child, hit.Node)
	assert.InDelta(t, 9, hit.Distance, 1e-4)
}

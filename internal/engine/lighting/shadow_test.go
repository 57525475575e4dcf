package lighting

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/pkg/math"
)

func TestShadowMatrixEnclosesBounds(t *testing.T) {
	b := surface.Bounds{Min: math.Vec3{X: -40, Y: 0, Z: -25}, Max: math.Vec3{X: 40, Y: 14, Z: 25}}
	for _, dir := range []math.Vec3{{X: 0.5, Y: 0.8, Z: 0.3}, math.Up, {X: -1, Y: 0.2}} {
		m := ShadowMatrix(dir, b)

		c := m.TransformVec3(b.Min.Add(b.Max).Scale(0.5))
		assert.InDelta(t, 0, c.X, 1e-4)
		assert.InDelta(t, 0, c.Y, 1e-4)

		for i := range 8 {
			corner := b.Min
			if i&1 != 0 {
				corner.X = b.Max.X
			}
			if i&2 != 0 {
				corner.Y = b.Max.Y
			}
			if i&4 != 0 {
				corner.Z = b.Max.Z
			}
			p := m.TransformVec3(corner)
			for _, v := range []float32{p.X, p.Y, p.Z} {
				assert.LessOrEqual(t, v, float32(1), "dir %v corner %v -> %v", dir, corner, p)
				assert.GreaterOrEqual(t, v, float32(-1), "dir %v corner %v -> %v", dir, corner, p)
			}
		}
	}
}

func TestFocusMatrixNearerIsShallower(t *testing.T) {
	sun := math.Vec3{X: 0.3, Y: 1, Z: 0.2}
	m := FocusMatrix(sun, math.Vec3{}, 10)
	near := m.TransformVec3(sun.Normalize().Scale(5))
	far := m.TransformVec3(sun.Normalize().Scale(-5))
	assert.Less(t, near.Z, far.Z)
}

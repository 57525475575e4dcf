package picking

import (
	"github.com/Faultbox/funpark/internal/scene"
	"github.com/Faultbox/funpark/pkg/math"
)

// NodeHit is the nearest mesh node under a ray.
type NodeHit struct {
	Node     *scene.Node
	Distance float32
	Point    math.Vec3 // World space
}

// PickNode casts r against every visible mesh node below root and returns
// the closest hit. World matrices must be up to date.
func PickNode(root *scene.Node, r Ray) (NodeHit, bool) {
	var best NodeHit
	found := false
	root.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		if n.Mesh == nil {
			return true
		}
		world := n.World()
		hits := NewMeshTarget(n.Mesh).Intersect(LocalRay(r, world))
		if len(hits) == 0 {
			return true
		}
		// The local direction is not normalised, so distances stay in world
		// units.
		if h := hits[0]; !found || h.Distance < best.Distance {
			best = NodeHit{Node: n, Distance: h.Distance, Point: world.TransformVec3(h.Point)}
			found = true
		}
		return true
	})
	return best, found
}

// LocalRay maps a world ray into the space of world. Its direction keeps the
// scale of the inverse transform.
func LocalRay(r Ray, world math.Mat4) Ray {
	inv := world.Inverse()
	return Ray{Origin: inv.TransformVec3(r.Origin), Direction: inv.TransformDirection(r.Direction)}
}

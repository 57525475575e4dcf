// Package scene is the retained scene graph: plain nodes holding a local
// transform, an optional mesh, a material slot and children.
package scene

import (
	"github.com/Faultbox/funpark/internal/assets"
	"github.com/Faultbox/funpark/internal/engine/surface"
	"github.com/Faultbox/funpark/pkg/math"
)

// Node is one element of the scene tree. A node without a mesh is a group.
type Node struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	Mesh    *surface.Mesh
	Slot    string
	Texture *assets.Texture
	Visible bool

	Parent   *Node
	children []*Node

	world    math.Mat4
	override math.Mat4
	absolute bool
}

// New creates an empty group node.
func New(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		Visible:  true,
		world:    math.Identity(),
	}
}

// NewMesh creates a node drawing mesh with the material of slot.
func NewMesh(name string, mesh *surface.Mesh, slot string) *Node {
	n := New(name)
	n.Mesh = mesh
	n.Slot = slot
	return n
}

// Add appends child to n's children, detaching it from any previous parent.
// Panics if child is nil or an ancestor of n.
func (n *Node) Add(child *Node) {
	if child == nil {
		panic("scene: cannot add nil child")
	}
	if isAncestor(child, n) {
		panic("scene: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChild(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	if child == nil || child.Parent != n {
		return false
	}
	n.removeChild(child)
	child.Parent = nil
	return true
}

// RemoveFromParent detaches n from its parent, if any.
func (n *Node) RemoveFromParent() {
	if n.Parent != nil {
		n.Parent.Remove(n)
	}
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node {
	return n.children
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the visited node's subtree.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// FindByName returns the first node in the subtree named name.
func (n *Node) FindByName(name string) *Node {
	var found *Node
	n.Walk(func(c *Node) bool {
		if found != nil {
			return false
		}
		if c.Name == name {
			found = c
			return false
		}
		return true
	})
	return found
}

// FindAll returns every node in the subtree named name, in walk order.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.Name == name {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Count returns the number of nodes in the subtree, n included.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node) bool {
		count++
		return true
	})
	return count
}

// Local returns the transform built from position, rotation and scale.
func (n *Node) Local() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// SetWorldOverride makes m the node's world matrix regardless of its parent
// or local transform. Children still compose from it.
func (n *Node) SetWorldOverride(m math.Mat4) {
	n.override = m
	n.absolute = true
	n.world = m
}

// ClearWorldOverride returns the node to hierarchical composition.
func (n *Node) ClearWorldOverride() {
	n.absolute = false
}

// HasWorldOverride reports whether an absolute pose is set.
func (n *Node) HasWorldOverride() bool {
	return n.absolute
}

// World returns the world matrix computed by the last UpdateWorld, or the
// override when one is set.
func (n *Node) World() math.Mat4 {
	if n.absolute {
		return n.override
	}
	return n.world
}

// UpdateWorld recomputes world matrices for the subtree. The root composes
// from its parent's current world matrix, if it has one.
func (n *Node) UpdateWorld() {
	parent := math.Identity()
	if n.Parent != nil {
		parent = n.Parent.World()
	}
	n.updateWorld(parent)
}

func (n *Node) updateWorld(parent math.Mat4) {
	if n.absolute {
		n.world = n.override
	} else {
		n.world = parent.Mul(n.Local())
	}
	for _, c := range n.children {
		c.updateWorld(n.world)
	}
}

// ApplyRegistry assigns every node with a slot its texture from reg and
// returns the number of nodes updated.
func ApplyRegistry(root *Node, reg *assets.Registry) int {
	updated := 0
	root.Walk(func(n *Node) bool {
		if n.Slot != "" {
			n.Texture = reg.Get(n.Slot)
			updated++
		}
		return true
	})
	return updated
}

func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

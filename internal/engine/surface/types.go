// Package surface builds renderable triangle meshes from parametric
// functions, profiles swept along paths and explicit vertex buffers.
package surface

import (
	"errors"

	"github.com/Faultbox/funpark/pkg/math"
)

// ErrBadBuffers is returned by FromBuffers for inconsistent input.
var ErrBadBuffers = errors.New("inconsistent mesh buffers")

// Vertex is a mesh vertex laid out for GPU upload.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Mesh holds mesh data ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Triangles returns the number of triangles.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Position returns the position of vertex i.
func (m *Mesh) Position(i int) math.Vec3 {
	return math.V3(m.Vertices[i].Position)
}

// Triangle returns the corners of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c math.Vec3) {
	return m.Position(int(m.Indices[3*i])),
		m.Position(int(m.Indices[3*i+1])),
		m.Position(int(m.Indices[3*i+2]))
}

// Transformed returns a copy of the mesh with positions and normals
// transformed by mat.
func (m *Mesh) Transformed(mat math.Mat4) *Mesh {
	out := &Mesh{
		Vertices: make([]Vertex, len(m.Vertices)),
		Indices:  append([]uint32(nil), m.Indices...),
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = Vertex{
			Position: mat.TransformVec3(math.V3(v.Position)).Array(),
			Normal:   mat.TransformDirection(math.V3(v.Normal)).Normalize().Array(),
			TexCoord: v.TexCoord,
		}
	}
	out.Bounds = computeBounds(out.Vertices)
	return out
}

func computeBounds(vertices []Vertex) Bounds {
	if len(vertices) == 0 {
		return Bounds{}
	}
	b := Bounds{
		Min: math.V3(vertices[0].Position),
		Max: math.V3(vertices[0].Position),
	}
	for _, v := range vertices[1:] {
		updateBounds(&b, v.Position)
	}
	return b
}

func updateBounds(b *Bounds, p [3]float32) {
	if p[0] < b.Min.X {
		b.Min.X = p[0]
	}
	if p[1] < b.Min.Y {
		b.Min.Y = p[1]
	}
	if p[2] < b.Min.Z {
		b.Min.Z = p[2]
	}
	if p[0] > b.Max.X {
		b.Max.X = p[0]
	}
	if p[1] > b.Max.Y {
		b.Max.Y = p[1]
	}
	if p[2] > b.Max.Z {
		b.Max.Z = p[2]
	}
}

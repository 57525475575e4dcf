package surface

import "github.com/Faultbox/funpark/pkg/math"

// Func maps the unit square to a point in space.
type Func func(u, v float32) math.Vec3

// Parametric evaluates fn on a (slices+1) x (stacks+1) grid and triangulates
// it. Vertices are stored row by row: vertex j*(slices+1)+i sits at
// (u, v) = (i/slices, j/stacks) and carries that pair as its texture
// coordinate. Normals come from the resulting triangles and are smoothed
// across coincident positions.
func Parametric(fn Func, slices, stacks int) *Mesh {
	slices = max(slices, 1)
	stacks = max(stacks, 1)
	row := slices + 1

	vertices := make([]Vertex, 0, row*(stacks+1))
	for j := 0; j <= stacks; j++ {
		v := float32(j) / float32(stacks)
		for i := 0; i <= slices; i++ {
			u := float32(i) / float32(slices)
			vertices = append(vertices, Vertex{
				Position: fn(u, v).Array(),
				TexCoord: [2]float32{u, v},
			})
		}
	}

	indices := make([]uint32, 0, slices*stacks*6)
	for j := 0; j < stacks; j++ {
		for i := 0; i < slices; i++ {
			a := uint32(j*row + i)
			b := uint32((j+1)*row + i)
			c := uint32((j+1)*row + i + 1)
			d := uint32(j*row + i + 1)
			indices = append(indices, a, b, d, b, c, d)
		}
	}

	ComputeNormals(vertices, indices)
	SmoothNormals(vertices)

	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Bounds:   computeBounds(vertices),
	}
}

// Grid returns the index of grid vertex (i, j) in a mesh built by
// Parametric with the given slice count.
func Grid(slices, i, j int) int {
	return j*(slices+1) + i
}

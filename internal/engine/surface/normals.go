package surface

import "github.com/Faultbox/funpark/pkg/math"

// ComputeNormals sets every vertex normal to the normalized sum of the
// (area weighted) normals of the triangles sharing it.
func ComputeNormals(vertices []Vertex, indices []uint32) {
	sums := make([]math.Vec3, len(vertices))
	for i := 0; i+2 < len(indices); i += 3 {
		ia, ib, ic := indices[i], indices[i+1], indices[i+2]
		a := math.V3(vertices[ia].Position)
		b := math.V3(vertices[ib].Position)
		c := math.V3(vertices[ic].Position)

		n := b.Sub(a).Cross(c.Sub(a))
		sums[ia] = sums[ia].Add(n)
		sums[ib] = sums[ib].Add(n)
		sums[ic] = sums[ic].Add(n)
	}
	for i := range vertices {
		vertices[i].Normal = sums[i].Normalize().Array()
	}
}

// SmoothNormals averages normals at shared vertex positions, welding the
// seams of closed grids.
func SmoothNormals(vertices []Vertex) {
	const epsilon float32 = 0.001

	// Group vertices by quantized position for O(n) lookup
	posMap := make(map[[3]int32][]int)
	for i := range vertices {
		key := [3]int32{
			int32(vertices[i].Position[0] / epsilon),
			int32(vertices[i].Position[1] / epsilon),
			int32(vertices[i].Position[2] / epsilon),
		}
		posMap[key] = append(posMap[key], i)
	}

	for _, idxs := range posMap {
		if len(idxs) < 2 {
			continue
		}

		var sum math.Vec3
		for _, idx := range idxs {
			sum = sum.Add(math.V3(vertices[idx].Normal))
		}
		avg := sum.Normalize()
		if avg.LengthSq() == 0 {
			continue
		}

		for _, idx := range idxs {
			vertices[idx].Normal = avg.Array()
		}
	}
}

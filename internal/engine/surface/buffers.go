package surface

import (
	"fmt"

	"github.com/Faultbox/funpark/pkg/math"
)

// FromBuffers builds a mesh from explicit buffers. normals and uvs may be
// nil; missing normals are computed from the triangles.
func FromBuffers(positions []math.Vec3, indices []uint32, normals []math.Vec3, uvs []math.Vec2) (*Mesh, error) {
	if len(positions) == 0 {
		return nil, fmt.Errorf("no positions: %w", ErrBadBuffers)
	}
	if len(indices) == 0 || len(indices)%3 != 0 {
		return nil, fmt.Errorf("index count %d: %w", len(indices), ErrBadBuffers)
	}
	if normals != nil && len(normals) != len(positions) {
		return nil, fmt.Errorf("%d normals for %d positions: %w", len(normals), len(positions), ErrBadBuffers)
	}
	if uvs != nil && len(uvs) != len(positions) {
		return nil, fmt.Errorf("%d uvs for %d positions: %w", len(uvs), len(positions), ErrBadBuffers)
	}
	for i, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("index %d at %d out of range: %w", idx, i, ErrBadBuffers)
		}
	}

	vertices := make([]Vertex, len(positions))
	for i, p := range positions {
		vertices[i].Position = p.Array()
		if normals != nil {
			vertices[i].Normal = normals[i].Normalize().Array()
		}
		if uvs != nil {
			vertices[i].TexCoord = [2]float32{uvs[i].X, uvs[i].Y}
		}
	}
	if normals == nil {
		ComputeNormals(vertices, indices)
	}

	return &Mesh{
		Vertices: vertices,
		Indices:  append([]uint32(nil), indices...),
		Bounds:   computeBounds(vertices),
	}, nil
}

// Cap closes a ring of points with a triangle fan around center. The ring
// is treated as a closed loop.
func Cap(ring []math.Vec3, center math.Vec3) (*Mesh, error) {
	if len(ring) < 3 {
		return nil, fmt.Errorf("cap ring of %d points: %w", len(ring), ErrBadBuffers)
	}

	positions := make([]math.Vec3, 0, len(ring)+1)
	uvs := make([]math.Vec2, 0, len(ring)+1)
	positions = append(positions, center)
	uvs = append(uvs, math.Vec2{X: 0.5, Y: 0.5})
	for i, p := range ring {
		positions = append(positions, p)
		uvs = append(uvs, math.Vec2{X: float32(i) / float32(len(ring)), Y: 1})
	}

	n := uint32(len(ring))
	indices := make([]uint32, 0, 3*n)
	for i := uint32(1); i <= n; i++ {
		next := i%n + 1
		indices = append(indices, 0, i, next)
	}
	return FromBuffers(positions, indices, nil, uvs)
}

// Merge concatenates meshes into one.
func Merge(meshes ...*Mesh) *Mesh {
	out := &Mesh{}
	for _, m := range meshes {
		if m == nil {
			continue
		}
		base := uint32(len(out.Vertices))
		out.Vertices = append(out.Vertices, m.Vertices...)
		for _, idx := range m.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	out.Bounds = computeBounds(out.Vertices)
	return out
}

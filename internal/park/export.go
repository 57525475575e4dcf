package park

import (
	"bufio"
	"fmt"
	"io"

	"github.com/Faultbox/funpark/internal/scene"
	"github.com/Faultbox/funpark/pkg/math"
)

// ExportStats counts what WriteOBJ emitted.
type ExportStats struct {
	Objects   int
	Vertices  int
	Triangles int
}

// WriteOBJ writes every visible mesh node below root as a Wavefront object
// in world space. A non-empty name keeps only nodes with that name. Each
// object uses its material slot as the material name.
func WriteOBJ(w io.Writer, root *scene.Node, name string) (ExportStats, error) {
	bw := bufio.NewWriter(w)
	var st ExportStats
	base := 1 // OBJ indices are 1-based and global

	fmt.Fprintln(bw, "# funpark scene export")
	root.Walk(func(n *scene.Node) bool {
		if !n.Visible {
			return false
		}
		if n.Mesh == nil || (name != "" && n.Name != name) {
			return true
		}

		m := n.Mesh.Transformed(n.World())
		fmt.Fprintf(bw, "o %s_%d\n", n.Name, st.Objects)
		if n.Slot != "" {
			fmt.Fprintf(bw, "usemtl %s\n", n.Slot)
		}
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "v %g %g %g\n", v.Position[0], v.Position[1], v.Position[2])
		}
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "vt %g %g\n", v.TexCoord[0], v.TexCoord[1])
		}
		for _, v := range m.Vertices {
			fmt.Fprintf(bw, "vn %g %g %g\n", v.Normal[0], v.Normal[1], v.Normal[2])
		}
		for i := 0; i+2 < len(m.Indices); i += 3 {
			a, b, c := base+int(m.Indices[i]), base+int(m.Indices[i+1]), base+int(m.Indices[i+2])
			fmt.Fprintf(bw, "f %d/%d/%d %d/%d/%d %d/%d/%d\n", a, a, a, b, b, b, c, c, c)
		}

		base += len(m.Vertices)
		st.Objects++
		st.Vertices += len(m.Vertices)
		st.Triangles += m.Triangles()
		return true
	})
	if err := bw.Flush(); err != nil {
		return st, fmt.Errorf("writing obj: %w", err)
	}
	return st, nil
}

// PoseSample is the train pose at one progress value.
type PoseSample struct {
	Progress float32
	Position math.Vec3
	Forward  math.Vec3 // Track tangent
	Up       math.Vec3
}

// Trace samples the pose driver every step progress units over one lap.
// It does not move the train.
func (p *Park) Trace(step float32) []PoseSample {
	if step <= 0 {
		step = 1
	}
	n := p.Driver.Len()
	var out []PoseSample
	for prog := float32(0); prog < float32(n); prog += step {
		f, pos := p.Driver.Frame(prog)
		out = append(out, PoseSample{
			Progress: prog,
			Position: pos,
			Forward:  f.Tangent,
			Up:       f.Binormal.Neg(),
		})
	}
	return out
}

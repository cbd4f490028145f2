package export

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/galaxy/internal/galaxy"
)

// PLY writes f as an ASCII PLY point cloud, readable by Blender and MeshLab.
func PLY(w io.Writer, f *galaxy.Field) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "ply")
	fmt.Fprintln(bw, "format ascii 1.0")
	fmt.Fprintf(bw, "comment galaxy seed %d\n", f.Params.Seed)
	fmt.Fprintf(bw, "element vertex %d\n", f.Len())
	fmt.Fprintln(bw, "property float x")
	fmt.Fprintln(bw, "property float y")
	fmt.Fprintln(bw, "property float z")
	if f.Colored() {
		fmt.Fprintln(bw, "property uchar red")
		fmt.Fprintln(bw, "property uchar green")
		fmt.Fprintln(bw, "property uchar blue")
	}
	fmt.Fprintln(bw, "end_header")

	for i := 0; i < f.Len(); i++ {
		p := f.At(i)
		if f.Colored() {
			c := f.ColorAt(i)
			fmt.Fprintf(bw, "%g %g %g %d %d %d\n", p.X, p.Y, p.Z, channel(c.R), channel(c.G), channel(c.B))
		} else {
			fmt.Fprintf(bw, "%g %g %g\n", p.X, p.Y, p.Z)
		}
	}

	return bw.Flush()
}

func channel(v float32) int {
	return int(math.Round(math.Max(0, math.Min(1, float64(v))) * 255))
}

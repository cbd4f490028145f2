package viz

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/galaxy/internal/galaxy"
	"github.com/san-kum/galaxy/internal/orbit"
)

// Camera projects world points onto a canvas through an orbit controller.
type Camera struct {
	Orbit          *orbit.Controller
	Fov            float64 // degrees
	Near, Far      float64
	viewProjection mgl64.Mat4
	sw, sh         int
}

// NewCamera matches the GUI camera: 75° fov, near 1, far 100, eye (3, 5, 10).
func NewCamera() *Camera {
	return &Camera{
		Orbit: orbit.New(mgl64.Vec3{3, 5, 10}, mgl64.Vec3{}),
		Fov:   75,
		Near:  1,
		Far:   100,
	}
}

// Prepare caches the view-projection matrix for a sw x sh sub-pixel target.
func (c *Camera) Prepare(sw, sh int) {
	aspect := 1.0
	if sh > 0 {
		aspect = float64(sw) / float64(sh)
	}
	proj := mgl64.Perspective(mgl64.DegToRad(c.Fov), aspect, c.Near, c.Far)
	view := mgl64.LookAtV(c.Orbit.Position(), c.Orbit.Target(), orbit.WorldUp)
	c.viewProjection = proj.Mul4(view)
	c.sw, c.sh = sw, sh
}

// Project converts a world point to sub-pixel coordinates.
// Returns x, y, depth in [0, 1] and whether the point is on screen.
func (c *Camera) Project(p mgl64.Vec3) (int, int, float64, bool) {
	clip := c.viewProjection.Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 0 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, 0, false
	}
	sx := int((ndc.X() + 1) / 2 * float64(c.sw))
	sy := int((1 - ndc.Y()) / 2 * float64(c.sh))
	depth := (ndc.Z() + 1) / 2
	return sx, sy, depth, sx >= 0 && sx < c.sw && sy >= 0 && sy < c.sh
}

// RenderField plots every particle of f onto the canvas and returns the
// number of visible particles.
func RenderField(c *Canvas, f *galaxy.Field, cam *Camera) int {
	if c == nil || f == nil || cam == nil {
		return 0
	}
	cam.Prepare(c.SubWidth(), c.SubHeight())
	visible := 0
	for i := 0; i < f.Len(); i++ {
		p := f.At(i)
		x, y, _, ok := cam.Project(mgl64.Vec3{float64(p.X), float64(p.Y), float64(p.Z)})
		if !ok {
			continue
		}
		visible++
		if f.Colored() {
			col := f.ColorAt(i)
			c.Plot(x, y, float64(col.R), float64(col.G), float64(col.B))
		} else {
			c.Set(x, y)
		}
	}
	return visible
}

// Edge is a world-space line segment.
type Edge struct {
	Start, End mgl64.Vec3
}

// RenderEdges draws line segments far to near.
func RenderEdges(c *Canvas, edges []Edge, cam *Camera) {
	if c == nil || cam == nil {
		return
	}
	cam.Prepare(c.SubWidth(), c.SubHeight())
	type projected struct {
		x1, y1, x2, y2 int
		depth          float64
	}
	proj := make([]projected, 0, len(edges))
	for _, e := range edges {
		x1, y1, d1, v1 := cam.Project(e.Start)
		x2, y2, d2, v2 := cam.Project(e.End)
		if v1 && v2 {
			proj = append(proj, projected{x1, y1, x2, y2, (d1 + d2) / 2})
		}
	}
	sort.Slice(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, e := range proj {
		c.DrawLine(e.x1, e.y1, e.x2, e.y2)
	}
}

// AxesEdges returns the three world axes with length l.
func AxesEdges(l float64) []Edge {
	o := mgl64.Vec3{}
	return []Edge{
		{o, mgl64.Vec3{l, 0, 0}},
		{o, mgl64.Vec3{0, l, 0}},
		{o, mgl64.Vec3{0, 0, l}},
	}
}

// DrawLine plots the sub-pixels between two points (Bresenham). Pixels
// outside the canvas are dropped by Set.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, sx := span(x0, x1)
	dy, sy := span(y0, y1)
	dy = -dy
	acc := dx + dy
	for x, y := x0, y0; ; {
		c.Set(x, y)
		if x == x1 && y == y1 {
			return
		}
		e := 2 * acc
		if e >= dy {
			acc += dy
			x += sx
		}
		if e <= dx {
			acc += dx
			y += sy
		}
	}
}

// span returns the distance from a to b and the unit step toward b.
func span(a, b int) (int, int) {
	if b < a {
		return a - b, -1
	}
	return b - a, 1
}

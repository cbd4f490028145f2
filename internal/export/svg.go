package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/galaxy/internal/galaxy"
	"github.com/san-kum/galaxy/internal/viz"
)

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="#ffffff">
`, width, height, width, height))

	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if canvas.IsSet(col*2+dx, row*4+dy) {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
					}
				}
			}
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SVGOptions controls FieldToSVG.
type SVGOptions struct {
	Size int
	// Background is any SVG paint; empty means near-black.
	Background string
	// DotRadius in pixels; zero scales it from the galaxy's particle size.
	DotRadius float64
	Opacity   float64
}

// FieldToSVG writes a top-down view of f (X right, Z down) as SVG. Each
// particle becomes one circle in its own color.
func FieldToSVG(w io.Writer, f *galaxy.Field, opts SVGOptions) error {
	if opts.Size <= 0 {
		opts.Size = 1024
	}
	if opts.Background == "" {
		opts.Background = "#0a0a0a"
	}
	if opts.Opacity <= 0 || opts.Opacity > 1 {
		opts.Opacity = 0.8
	}

	lo, hi := f.Bounds()
	extent := math.Max(
		math.Max(math.Abs(float64(lo.X)), math.Abs(float64(hi.X))),
		math.Max(math.Abs(float64(lo.Z)), math.Abs(float64(hi.Z))),
	)
	if extent == 0 {
		extent = 1
	}
	half := float64(opts.Size) / 2
	scale := half / (extent * 1.05)

	radius := opts.DotRadius
	if radius <= 0 {
		radius = math.Max(0.3, f.Params.Size*scale)
	}

	if _, err := fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<g fill-opacity="%.2f">
`, opts.Size, opts.Size, opts.Size, opts.Size, opts.Background, opts.Opacity); err != nil {
		return err
	}

	for i := 0; i < f.Len(); i++ {
		p := f.At(i)
		c := f.ColorAt(i)
		cx := half + float64(p.X)*scale
		cy := half + float64(p.Z)*scale
		if _, err := fmt.Fprintf(w, `<circle cx="%.2f" cy="%.2f" r="%.2f" fill="%s"/>
`, cx, cy, radius, hexColor(c)); err != nil {
			return err
		}
	}

	_, err := io.WriteString(w, "</g>\n</svg>\n")
	return err
}

func hexColor(c galaxy.RGB) string {
	to8 := func(v float32) uint8 {
		return uint8(math.Round(math.Max(0, math.Min(1, float64(v))) * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", to8(c.R), to8(c.G), to8(c.B))
}

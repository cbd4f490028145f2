package galaxy

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

func (p Params) colors() (inside, outside colorful.Color, err error) {
	inside, err = colorful.Hex(p.InsideColor)
	if err != nil {
		return inside, outside, fmt.Errorf("%w: inside %q", ErrInvalidColor, p.InsideColor)
	}
	outside, err = colorful.Hex(p.OutsideColor)
	if err != nil {
		return inside, outside, fmt.Errorf("%w: outside %q", ErrInvalidColor, p.OutsideColor)
	}
	return inside, outside, nil
}

// gradient mixes inside toward outside by the normalized radius t.
type gradient struct {
	inside, outside colorful.Color
}

func (g gradient) at(t float64) colorful.Color {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return g.inside.BlendRgb(g.outside, t)
}

// ParseColor converts a #rrggbb string into r, g, b in [0, 1].
func ParseColor(hex string) (r, g, b float64, err error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidColor, hex)
	}
	return c.R, c.G, c.B, nil
}

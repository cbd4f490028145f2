package gui

import (
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	raygui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/galaxy/internal/galaxy"
)

const (
	panelWidth  = 300
	panelMargin = 12
	rowHeight   = 34
	pickerSize  = 96
)

// panel is the parameter editor. Slider values are held locally while the
// mouse is down and only committed to the params on release, so a drag
// regenerates the field once.
type panel struct {
	controls []galaxy.Control
	values   map[string]float32

	colored         bool
	scatter         bool
	inside, outside rl.Color

	dragging bool
	dirty    bool
	snapshot bool
}

func newPanel(p galaxy.Params) *panel {
	pn := &panel{controls: galaxy.Controls(), values: make(map[string]float32)}
	pn.sync(p)
	return pn
}

// sync loads the widget state from p.
func (pn *panel) sync(p galaxy.Params) {
	for _, c := range pn.controls {
		v, _ := p.Get(c.Key)
		pn.values[c.Key] = float32(v)
	}
	pn.colored = p.Colored
	pn.scatter = p.Layout == galaxy.LayoutScatter
	pn.inside = colorOf(p.InsideColor)
	pn.outside = colorOf(p.OutsideColor)
	pn.dirty = false
}

func (pn *panel) height() float32 {
	h := float32(32 + len(pn.controls)*rowHeight + 2*rowHeight)
	if pn.colored {
		h += 2 * (pickerSize + 24)
	}
	return h
}

func (pn *panel) bounds() rl.Rectangle {
	w := float32(rl.GetScreenWidth())
	return rl.NewRectangle(w-panelWidth-panelMargin, panelMargin, panelWidth, pn.height())
}

// commit writes changed widget values into p. Values are snapped and
// clamped by the control definitions. Reports whether anything changed.
func (pn *panel) commit(p *galaxy.Params) bool {
	changed := false
	for _, c := range pn.controls {
		cur, _ := p.Get(c.Key)
		v := pn.values[c.Key]
		if float32(cur) == v {
			continue
		}
		if err := p.Set(c.Key, float64(v)); err != nil {
			log.Warn("rejected value", "param", c.Key, "value", v, "err", err)
			continue
		}
		if next, _ := p.Get(c.Key); next != cur {
			changed = true
		}
	}

	layout := galaxy.LayoutSpiral
	if pn.scatter {
		layout = galaxy.LayoutScatter
	}
	inside, outside := hexOf(pn.inside), hexOf(pn.outside)
	if pn.colored != p.Colored || layout != p.Layout || inside != p.InsideColor || outside != p.OutsideColor {
		p.Colored, p.Layout = pn.colored, layout
		p.InsideColor, p.OutsideColor = inside, outside
		changed = true
	}

	pn.sync(*p)
	return changed
}

// draw renders the panel and reports whether p changed and needs a new field.
func (pn *panel) draw(p *galaxy.Params) bool {
	b := pn.bounds()
	raygui.Panel(b, "parameters")

	x, y := b.X+10, b.Y+32
	sliderW := float32(panelWidth - 80)
	for _, c := range pn.controls {
		rl.DrawText(c.Label, int32(x), int32(y), 10, ColText)
		v := pn.values[c.Key]
		nv := raygui.Slider(rl.NewRectangle(x, y+12, sliderW, 14), "", formatValue(c, v), v, float32(c.Min), float32(c.Max))
		if nv != v {
			pn.values[c.Key] = nv
			pn.dirty = true
		}
		y += rowHeight
	}

	half := float32(panelWidth-30) / 2
	if v := raygui.Toggle(rl.NewRectangle(x, y, half, 22), "colored", pn.colored); v != pn.colored {
		pn.colored, pn.dirty = v, true
	}
	if v := raygui.Toggle(rl.NewRectangle(x+half+10, y, half, 22), "scatter", pn.scatter); v != pn.scatter {
		pn.scatter, pn.dirty = v, true
	}
	y += rowHeight

	regenerate := false
	if raygui.Button(rl.NewRectangle(x, y, half, 22), "new seed") {
		p.Seed = time.Now().UnixNano()
		regenerate = true
	}
	if raygui.Button(rl.NewRectangle(x+half+10, y, half, 22), "snapshot") {
		pn.snapshot = true
	}
	y += rowHeight

	if pn.colored {
		rl.DrawText("inside color", int32(x), int32(y), 10, ColText)
		if c := raygui.ColorPicker(rl.NewRectangle(x, y+12, pickerSize, pickerSize), "", pn.inside); c != pn.inside {
			pn.inside, pn.dirty = c, true
		}
		y += pickerSize + 24
		rl.DrawText("outside color", int32(x), int32(y), 10, ColText)
		if c := raygui.ColorPicker(rl.NewRectangle(x, y+12, pickerSize, pickerSize), "", pn.outside); c != pn.outside {
			pn.outside, pn.dirty = c, true
		}
	}

	mouse := rl.GetMousePosition()
	if rl.IsMouseButtonPressed(rl.MouseLeftButton) && rl.CheckCollisionPointRec(mouse, b) {
		pn.dragging = true
	}
	if rl.IsMouseButtonReleased(rl.MouseLeftButton) {
		pn.dragging = false
		if pn.dirty && pn.commit(p) {
			regenerate = true
		}
	}
	return regenerate
}

func formatValue(c galaxy.Control, v float32) string {
	if c.Integer {
		return fmt.Sprintf("%d", int(math.Round(float64(v))))
	}
	return fmt.Sprintf("%.3f", v)
}

func hexOf(c rl.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// colorOf parses a hex color, falling back to white.
func colorOf(hex string) rl.Color {
	r, g, b, err := galaxy.ParseColor(hex)
	if err != nil {
		return rl.White
	}
	return rl.NewColor(channel(r), channel(g), channel(b), 255)
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

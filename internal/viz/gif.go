package viz

import (
	"errors"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"os"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	charW, charH = 8, 16
	// frameDelay is in 100ths of a second.
	frameDelay = 3
)

var errNoFrames = errors.New("viz: no frames recorded")

// Recorder collects canvas frames for an animated GIF.
type Recorder struct {
	frames []*image.Paletted
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Frames() int {
	return len(r.frames)
}

// Capture rasterizes the canvas, one charW x charH block per cell.
func (r *Recorder) Capture(c *Canvas, fallback color.Color) {
	imgW, imgH := c.Width*charW, c.Height*charH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), palette.Plan9)
	dotW, dotH := charW/2, charH/4

	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			if c.Grid[row][col] == blank {
				continue
			}
			ink := fallback
			if t := c.tints[row][col]; t.n > 0 {
				n := float64(t.n)
				ink = colorful.Color{R: t.r / n, G: t.g / n, B: t.b / n}.Clamped()
			}
			idx := uint8(img.Palette.Index(ink))
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if !c.IsSet(col*2+dx, row*4+dy) {
						continue
					}
					baseX, baseY := col*charW+dx*dotW, row*charH+dy*dotH
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+px, baseY+py, idx)
						}
					}
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save writes the recorded frames as a looping GIF.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return errNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, frameDelay)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	return f.Close()
}

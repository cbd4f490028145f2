package viz

import (
	"context"
	"fmt"
	"image/color"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/san-kum/galaxy/internal/analysis"
	"github.com/san-kum/galaxy/internal/galaxy"
)

const (
	width  = 72
	height = 28
	fps    = 30
	// previewLimit caps the particles projected per frame.
	previewLimit = 150_000
	gifPath      = "galaxy.gif"
	profileBins  = 24
)

type tickMsg time.Time

// fieldMsg carries the result of a background generation.
type fieldMsg struct {
	field   *galaxy.Field
	err     error
	elapsed time.Duration
	gen     int
}

// Model is the bubbletea model of the terminal preview.
type Model struct {
	params     galaxy.Params
	controls   []galaxy.Control
	selected   int
	field      *galaxy.Field
	generating bool
	gen        int
	elapsed    time.Duration
	err        error
	canvas     *Canvas
	camera     *Camera
	rotating   bool
	visible    int
	profile    analysis.Profile
	spectrum   analysis.Spectrum
	recorder   *Recorder
	showHelp   bool
	showAxes   bool
	lastTick   time.Time
	cancel     context.CancelFunc
}

func NewModel(params galaxy.Params) Model {
	return Model{
		params:   params,
		controls: galaxy.Controls(),
		canvas:   NewCanvas(width, height),
		camera:   NewCamera(),
		rotating: true,
	}
}

// RunTUI starts the terminal preview and blocks until the user quits.
func RunTUI(params galaxy.Params) error {
	_, err := tea.NewProgram(NewModel(params), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(generateCmd(context.Background(), m.params, m.gen), tick())
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func generateCmd(ctx context.Context, p galaxy.Params, gen int) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		f, err := galaxy.Generate(ctx, p)
		return fieldMsg{field: f, err: err, elapsed: time.Since(start), gen: gen}
	}
}

// regenerate cancels any running generation and starts a new one. Results
// of older requests are dropped by generation number.
func (m *Model) regenerate() tea.Cmd {
	if m.cancel != nil {
		m.cancel()
	}
	var ctx context.Context
	ctx, m.cancel = context.WithCancel(context.Background())
	m.gen++
	m.generating = true
	return generateCmd(ctx, m.params, m.gen)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case fieldMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.generating = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.field, m.elapsed = msg.field, msg.elapsed
		m.params.Seed = msg.field.Params.Seed
		m.profile = analysis.RadialProfile(msg.field, profileBins)
		m.spectrum = analysis.ArmSpectrum(msg.field, analysis.DefaultAngularBins)
		log.Debug("generated", "particles", msg.field.Len(), "elapsed", msg.elapsed)
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		dt := 1.0 / fps
		if !m.lastTick.IsZero() {
			dt = now.Sub(m.lastTick).Seconds()
		}
		m.lastTick = now
		if m.rotating {
			m.camera.Orbit.Rotate(0.004, 0)
		}
		m.camera.Orbit.Update(dt)
		m.draw()
		if m.recorder != nil {
			m.recorder.Capture(m.canvas, starColor())
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	orb := m.camera.Orbit
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit
	case "tab", "down", "j":
		m.selected = (m.selected + 1) % len(m.controls)
	case "shift+tab", "up", "k":
		m.selected = (m.selected - 1 + len(m.controls)) % len(m.controls)
	case "right", "l":
		return m, m.step(1)
	case "left", "h":
		return m, m.step(-1)
	case "shift+right", "L":
		return m, m.step(10)
	case "shift+left", "H":
		return m, m.step(-10)
	case "c":
		m.params.Colored = !m.params.Colored
		return m, m.regenerate()
	case "s":
		if m.params.Layout == galaxy.LayoutSpiral {
			m.params.Layout = galaxy.LayoutScatter
		} else {
			m.params.Layout = galaxy.LayoutSpiral
		}
		return m, m.regenerate()
	case "n":
		m.params.Seed = time.Now().UnixNano()
		return m, m.regenerate()
	case " ":
		m.rotating = !m.rotating
	case "r":
		orb.Reset(0.6)
	case "x":
		orb.Rotate(0.2, 0)
	case "X":
		orb.Rotate(-0.2, 0)
	case "y":
		orb.Rotate(0, 0.1)
	case "Y":
		orb.Rotate(0, -0.1)
	case "+", "=":
		orb.Zoom(1 / 1.2)
	case "-", "_":
		orb.Zoom(1.2)
	case "a":
		m.showAxes = !m.showAxes
	case "t":
		NextTheme()
	case "g":
		m.toggleRecording()
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

// step moves the selected control by n steps and regenerates on change.
func (m *Model) step(n int) tea.Cmd {
	c := m.controls[m.selected]
	cur, _ := m.params.Get(c.Key)
	if err := m.params.Set(c.Key, cur+float64(n)*c.Step); err != nil {
		m.err = err
		return nil
	}
	if next, _ := m.params.Get(c.Key); next == cur {
		return nil
	}
	return m.regenerate()
}

func (m *Model) toggleRecording() {
	if m.recorder == nil {
		m.recorder = NewRecorder()
		return
	}
	if err := m.recorder.Save(gifPath); err != nil {
		m.err = err
	} else {
		log.Info("saved recording", "path", gifPath, "frames", m.recorder.Frames())
	}
	m.recorder = nil
}

func starColor() color.Color {
	c, err := colorful.Hex(string(CurrentTheme.Star))
	if err != nil {
		return color.White
	}
	return c
}

func (m *Model) draw() {
	m.canvas.Clear()
	if m.showAxes {
		RenderEdges(m.canvas, AxesEdges(m.params.Radius), m.camera)
	}
	if m.field == nil {
		return
	}
	f := m.field
	if f.Len() > previewLimit {
		f = sample(f, previewLimit)
	}
	m.visible = RenderField(m.canvas, f, m.camera)
}

// sample returns every k-th particle of f so that at most n remain.
func sample(f *galaxy.Field, n int) *galaxy.Field {
	stride := (f.Len() + n - 1) / n
	out := &galaxy.Field{Params: f.Params}
	for i := 0; i < f.Len(); i += stride {
		out.Positions = append(out.Positions, f.Positions[i*3:i*3+3]...)
		if f.Colored() {
			out.Colors = append(out.Colors, f.Colors[i*3:i*3+3]...)
		}
	}
	return out
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.Render(CurrentTheme.Star))

	var s strings.Builder
	s.WriteString(headerStyle().Render(GradientText("GALAXY", CurrentTheme.Primary, CurrentTheme.Secondary)) + "\n")

	status := fmt.Sprintf("%s  %d particles", m.params.Layout, m.params.Count)
	if m.generating {
		status += "  generating..."
	}
	if m.recorder != nil {
		status += fmt.Sprintf("  ● REC %d", m.recorder.Frames())
	}
	s.WriteString(status + "\n\n")

	for i, c := range m.controls {
		v, _ := m.params.Get(c.Key)
		value := fmt.Sprintf("%.3f", v)
		if c.Integer {
			value = fmt.Sprintf("%d", int(v))
		}
		line := fmt.Sprintf("%-17s %s %s", c.Label, SliderBar(v, c.Min, c.Max, 10), value)
		if i == m.selected {
			s.WriteString(activeStyle().Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + valueStyle.Render(line) + "\n")
		}
	}
	s.WriteString("\n")

	s.WriteString(labelStyle.Render("seed") + valueStyle.Render(fmt.Sprintf("%d", m.params.Seed)) + "\n")
	s.WriteString(labelStyle.Render("colored") + valueStyle.Render(fmt.Sprintf("%v", m.params.Colored)) + "\n")
	s.WriteString(labelStyle.Render("generated in") + valueStyle.Render(m.elapsed.Round(time.Microsecond).String()) + "\n")
	s.WriteString(labelStyle.Render("visible") + valueStyle.Render(fmt.Sprintf("%d", m.visible)) + "\n")
	if m.spectrum.Dominant > 0 {
		s.WriteString(labelStyle.Render("arms") + valueStyle.Render(fmt.Sprintf("%d (contrast %.2f)", m.spectrum.Dominant, m.spectrum.Contrast)) + "\n")
		s.WriteString(labelStyle.Render("spectrum") + SparklineChart(m.spectrum.Power[1:], 24) + "\n")
	}

	if len(m.profile.Density) > 1 {
		chart := asciigraph.Plot(m.profile.Density, asciigraph.Height(5), asciigraph.Width(32), asciigraph.Caption("radial density"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	if m.err != nil {
		s.WriteString(errorStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("TAB:Select ←→:Tune SP:Rotate N:Seed A:Axes\nC:Color S:Layout T:Theme G:Rec ?:Help Q:Quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Tab/↑↓   - Select parameter         ║
║  ←/→      - Step parameter           ║
║  Shift+←→ - Step parameter x10       ║
║  Space    - Toggle auto rotation     ║
║  x/X y/Y  - Orbit camera             ║
║  +/-      - Zoom                     ║
║  R        - Reset view               ║
║  N        - New seed                 ║
║  C        - Toggle colors            ║
║  S        - Toggle spiral/scatter    ║
║  A        - Toggle axes              ║
║  T        - Cycle themes             ║
║  G        - Toggle GIF recording     ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`

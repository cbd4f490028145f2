package viz

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/galaxy/internal/galaxy"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)
	c.Set(100, 100)

	if !c.IsSet(0, 0) || !c.IsSet(7, 7) {
		t.Fatal("expected plotted sub-pixels to be set")
	}
	if c.IsSet(1, 0) {
		t.Error("neighbour should not be set")
	}
	if got := c.Lit(); got != 2 {
		t.Errorf("expected 2 lit sub-pixels, got %d", got)
	}

	c.Clear()
	if c.Lit() != 0 {
		t.Error("clear left sub-pixels lit")
	}
	if strings.Trim(c.String(), string(rune(blank))+"\n") != "" {
		t.Error("cleared canvas should render blank cells only")
	}
}

func TestCanvasPlotKeepsColor(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Plot(0, 0, 1, 0, 0)
	if !c.IsSet(0, 0) {
		t.Fatal("plot did not set the sub-pixel")
	}
	if !strings.Contains(c.Render("#ffffff"), string(rune(blank+pixelMap[0][0]))) {
		t.Error("rendered output is missing the plotted cell")
	}
}

func TestProjectOriginNearCenter(t *testing.T) {
	cam := NewCamera()
	cam.Prepare(200, 100)
	x, y, depth, ok := cam.Project(mgl64.Vec3{})
	if !ok {
		t.Fatal("origin should be visible from the default camera")
	}
	if dx, _ := span(x, 100); dx > 1 {
		t.Errorf("expected origin at horizontal center, got x=%d", x)
	}
	if dy, _ := span(y, 50); dy > 1 {
		t.Errorf("expected origin at vertical center, got y=%d", y)
	}
	if depth <= 0 || depth >= 1 {
		t.Errorf("depth out of range: %f", depth)
	}

	if _, _, _, ok := cam.Project(mgl64.Vec3{6, 10, 20}); ok {
		t.Error("point behind the camera should not be visible")
	}
}

func TestRenderField(t *testing.T) {
	p := galaxy.DefaultParams()
	p.Seed = 7
	f, err := galaxy.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	c := NewCanvas(60, 24)
	visible := RenderField(c, f, NewCamera())
	if visible == 0 || visible > f.Len() {
		t.Errorf("unexpected visible count %d of %d", visible, f.Len())
	}
	if c.Lit() == 0 {
		t.Error("expected lit sub-pixels")
	}
	if RenderField(c, nil, NewCamera()) != 0 {
		t.Error("nil field should render nothing")
	}
}

func TestSampleCapsParticles(t *testing.T) {
	p := galaxy.DefaultParams()
	p.Count = 1000
	p.Colored = true
	p.Seed = 3
	f, err := galaxy.Generate(context.Background(), p)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	s := sample(f, 300)
	if s.Len() > 300 || s.Len() == 0 {
		t.Errorf("expected at most 300 particles, got %d", s.Len())
	}
	if len(s.Colors) != len(s.Positions) {
		t.Error("colors and positions out of step")
	}
	if s.At(1) != f.At(4) {
		t.Error("expected stride 4 sampling")
	}
}

func TestSliderBar(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "[----]"},
		{5, "[==--]"},
		{10, "[====]"},
		{50, "[====]"},
		{-1, "[----]"},
	}
	for _, tt := range tests {
		if got := SliderBar(tt.value, 0, 10, 4); got != tt.want {
			t.Errorf("SliderBar(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)

	names := ThemeNames()
	if len(names) < 2 {
		t.Fatalf("expected several themes, got %v", names)
	}
	SetTheme(names[0])
	NextTheme()
	if CurrentTheme.Name != names[1] {
		t.Errorf("expected %s after NextTheme, got %s", names[1], CurrentTheme.Name)
	}
	if GetTheme("no-such-theme").Name == "" {
		t.Error("unknown theme should fall back to a default")
	}
}

func TestRecorderSave(t *testing.T) {
	r := NewRecorder()
	path := filepath.Join(t.TempDir(), "out.gif")
	if err := r.Save(path); err == nil {
		t.Error("expected error saving an empty recording")
	}

	c := NewCanvas(4, 2)
	c.Plot(1, 1, 0.5, 0.5, 1)
	r.Capture(c, nil)
	r.Capture(c, nil)
	if r.Frames() != 2 {
		t.Fatalf("expected 2 frames, got %d", r.Frames())
	}
	if err := r.Save(path); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Error("expected a non-empty gif")
	}
}

func TestModelControlSelection(t *testing.T) {
	m := NewModel(galaxy.DefaultParams())
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	if m.selected != 1 {
		t.Errorf("expected selection 1, got %d", m.selected)
	}
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if m.selected != len(m.controls)-1 {
		t.Errorf("expected selection to wrap, got %d", m.selected)
	}
}

func TestModelStepRegenerates(t *testing.T) {
	m := NewModel(galaxy.DefaultParams())
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if cmd == nil || !m.generating {
		t.Fatal("expected a generation command")
	}
	if m.params.Count != galaxy.DefaultCount+100 {
		t.Errorf("expected count %d, got %d", galaxy.DefaultCount+100, m.params.Count)
	}

	msg := cmd()
	next, _ = m.Update(msg)
	m = next.(Model)
	if m.generating || m.field == nil {
		t.Fatal("expected the field to be applied")
	}
	if m.field.Len() != m.params.Count {
		t.Errorf("expected %d particles, got %d", m.params.Count, m.field.Len())
	}
	if m.params.Seed == 0 {
		t.Error("effective seed should be recorded")
	}
}

func TestModelDropsStaleGenerations(t *testing.T) {
	m := NewModel(galaxy.DefaultParams())
	m.gen = 2
	next, _ := m.Update(fieldMsg{field: &galaxy.Field{}, gen: 1})
	if next.(Model).field != nil {
		t.Error("stale generation should be ignored")
	}
}

func TestModelQuit(t *testing.T) {
	m := NewModel(galaxy.DefaultParams())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawLine(0, 0, 9, 0)
	for x := 0; x <= 9; x++ {
		if !c.IsSet(x, 0) {
			t.Errorf("horizontal line missing pixel at x=%d", x)
		}
	}
	if c.Lit() != 10 {
		t.Errorf("expected 10 lit pixels, got %d", c.Lit())
	}

	c.Clear()
	c.DrawLine(7, 7, 2, 2)
	for i := 2; i <= 7; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal line missing pixel at (%d, %d)", i, i)
		}
	}
	if c.Lit() != 6 {
		t.Errorf("expected 6 lit pixels, got %d", c.Lit())
	}

	c.Clear()
	c.DrawLine(-5, 3, 25, 3)
	if c.Lit() != c.SubWidth() {
		t.Errorf("expected clipped line across the canvas, got %d pixels", c.Lit())
	}
}

func TestRenderAxes(t *testing.T) {
	c := NewCanvas(60, 30)
	RenderEdges(c, AxesEdges(galaxy.DefaultRadius), NewCamera())
	if c.Lit() == 0 {
		t.Fatal("expected axes to be drawn")
	}
	RenderEdges(c, nil, nil)
}

func TestModelToggleAxes(t *testing.T) {
	m := NewModel(galaxy.DefaultParams())
	m.canvas = NewCanvas(60, 30)
	key := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")}

	next, _ := m.Update(key)
	m = next.(Model)
	if !m.showAxes {
		t.Fatal("expected axes to be shown")
	}
	m.draw()
	if m.canvas.Lit() == 0 {
		t.Error("expected axes on the canvas without a field")
	}

	next, _ = m.Update(key)
	m = next.(Model)
	if m.showAxes {
		t.Error("expected axes to be hidden")
	}
	m.draw()
	if m.canvas.Lit() != 0 {
		t.Errorf("expected empty canvas, got %d pixels", m.canvas.Lit())
	}
}

func TestModelCancelsSupersededGeneration(t *testing.T) {
	m := NewModel(galaxy.DefaultParams())
	next, first := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	next, second := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	if first == nil || second == nil {
		t.Fatal("expected generation commands")
	}

	msg, ok := first().(fieldMsg)
	if !ok {
		t.Fatal("expected a field message")
	}
	if !errors.Is(msg.err, context.Canceled) {
		t.Errorf("expected superseded run to be cancelled, got %v", msg.err)
	}
	next, _ = m.Update(msg)
	if next.(Model).err != nil {
		t.Error("stale cancellation should not surface as an error")
	}

	msg = second().(fieldMsg)
	if msg.err != nil {
		t.Fatalf("current run failed: %v", msg.err)
	}
}

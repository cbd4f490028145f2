package gui

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/galaxy/internal/analysis"
	"github.com/san-kum/galaxy/internal/config"
	"github.com/san-kum/galaxy/internal/galaxy"
	"github.com/san-kum/galaxy/internal/orbit"
	"github.com/san-kum/galaxy/internal/storage"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(70, 70, 70, 255)
)

const (
	resetSeconds = 0.8
	statusTTL    = 3 * time.Second
)

// result is a finished background generation.
type result struct {
	field   *galaxy.Field
	err     error
	elapsed time.Duration
	gen     int
}

type App struct {
	Config *config.Config
	Params galaxy.Params
	Field  *galaxy.Field
	Store  *storage.Store

	Camera rl.Camera3D
	Orbit  *orbit.Controller

	ShowPanel  bool
	Generating bool
	GenTime    time.Duration

	ParticleTex rl.Texture2D
	Target      rl.RenderTexture2D
	PixelRatio  float64

	panel   *panel
	results chan result
	gen     int
	cancel  context.CancelFunc

	status      string
	statusUntil time.Time
	quit        bool
}

// initWindow opens a resizable window sized from the config.
func initWindow(w config.WindowConfig) {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(w.Width), int32(w.Height), "galaxy")
	rl.SetTargetFPS(int32(w.FPS))
	rl.SetExitKey(0)
}

// NewApp creates the application state. The window must already be open.
func NewApp(cfg *config.Config, params galaxy.Params, store *storage.Store) *App {
	eye := mgl64.Vec3{cfg.Camera.Position[0], cfg.Camera.Position[1], cfg.Camera.Position[2]}
	orb := orbit.New(eye, mgl64.Vec3{})
	orb.Damping = cfg.Camera.Damping
	orb.MaxDistance = cfg.Camera.Far * 0.9

	app := &App{
		Config:    cfg,
		Params:    params,
		Store:     store,
		Orbit:     orb,
		ShowPanel: true,
		Camera: rl.Camera3D{
			Position:   toRL(eye),
			Target:     rl.NewVector3(0, 0, 0),
			Up:         toRL(orb.Up()),
			Fovy:       float32(cfg.Camera.Fov),
			Projection: rl.CameraPerspective,
		},
		panel:   newPanel(params),
		results: make(chan result, 1),
	}

	img := rl.GenImageGradientRadial(32, 32, 0.0, rl.White, rl.NewColor(0, 0, 0, 0))
	app.ParticleTex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	app.resize()
	return app
}

// Run opens the window and blocks until it is closed.
func Run(cfg *config.Config, params galaxy.Params, store *storage.Store) error {
	if err := params.Validate(); err != nil {
		return err
	}
	initWindow(cfg.Window)
	defer rl.CloseWindow()

	app := NewApp(cfg, params, store)
	defer app.Close()
	app.regenerate()
	app.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.quit {
		a.Update()
		a.Draw()
	}
}

func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	rl.UnloadTexture(a.ParticleTex)
	rl.UnloadRenderTexture(a.Target)
}

// resize reallocates the render target for the current window size.
func (a *App) resize() {
	dpi := rl.GetWindowScaleDPI()
	a.PixelRatio = a.Config.Window.PixelRatio(float64(dpi.X))
	w := int32(float64(rl.GetScreenWidth()) * a.PixelRatio)
	h := int32(float64(rl.GetScreenHeight()) * a.PixelRatio)
	if a.Target.ID != 0 {
		rl.UnloadRenderTexture(a.Target)
	}
	a.Target = rl.LoadRenderTexture(w, h)
	rl.SetTextureFilter(a.Target.Texture, rl.FilterBilinear)
	log.Debug("render target", "width", w, "height", h, "pixel_ratio", a.PixelRatio)
}

// regenerate starts a background generation for the current params. Any
// generation still running is cancelled and its result dropped.
func (a *App) regenerate() {
	if a.cancel != nil {
		a.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.gen++
	a.Generating = true

	p, gen := a.Params, a.gen
	go func() {
		start := time.Now()
		f, err := galaxy.Generate(ctx, p)
		res := result{field: f, err: err, elapsed: time.Since(start), gen: gen}
		select {
		case a.results <- res:
		case <-ctx.Done():
		}
	}()
}

func (a *App) collect() {
	select {
	case res := <-a.results:
		if res.gen != a.gen {
			return
		}
		a.Generating = false
		if res.err != nil {
			log.Error("generate failed", "err", res.err)
			a.flash(res.err.Error())
			return
		}
		a.Field = res.field
		a.GenTime = res.elapsed
		a.Params.Seed = res.field.Params.Seed
		a.panel.sync(a.Params)
		log.Debug("generated", "particles", res.field.Len(), "seed", a.Params.Seed, "elapsed", res.elapsed)
	default:
	}
}

func (a *App) flash(msg string) {
	a.status = msg
	a.statusUntil = time.Now().Add(statusTTL)
}

func (a *App) loadVariant(name string) {
	p, err := galaxy.VariantParams(name)
	if err != nil {
		a.flash(err.Error())
		return
	}
	a.Params = p
	a.panel.sync(p)
	a.regenerate()
	a.flash("variant " + name)
}

func (a *App) snapshot() {
	if a.Field == nil || a.Store == nil {
		return
	}
	id, err := a.Store.Save(string(a.Params.Layout), a.Field, analysis.Metrics(a.Field))
	if err != nil {
		log.Error("snapshot failed", "err", err)
		a.flash("snapshot failed: " + err.Error())
		return
	}
	log.Info("saved snapshot", "id", id)
	a.flash("saved " + id)
}

func (a *App) Update() {
	if rl.IsWindowResized() {
		a.resize()
	}
	a.collect()

	overPanel := a.ShowPanel && rl.CheckCollisionPointRec(rl.GetMousePosition(), a.panel.bounds())

	if !a.panel.dragging {
		switch {
		case rl.IsKeyPressed(rl.KeyQ):
			a.quit = true
			return
		case rl.IsKeyPressed(rl.KeyH):
			a.ShowPanel = !a.ShowPanel
		case rl.IsKeyPressed(rl.KeyR):
			a.Orbit.Reset(resetSeconds)
		case rl.IsKeyPressed(rl.KeyT):
			a.Orbit.FlyTo(mgl64.Vec3{0, a.Orbit.Distance(), 0.01}, a.Orbit.Target(), resetSeconds)
		case rl.IsKeyPressed(rl.KeyS):
			a.snapshot()
		case rl.IsKeyPressed(rl.KeyN):
			a.Params.Seed = time.Now().UnixNano()
			a.regenerate()
		case rl.IsKeyPressed(rl.KeyOne):
			a.loadVariant(galaxy.VariantSpiral)
		case rl.IsKeyPressed(rl.KeyTwo):
			a.loadVariant(galaxy.VariantColored)
		case rl.IsKeyPressed(rl.KeyThree):
			a.loadVariant(galaxy.VariantScatter)
		}
	}

	if !overPanel && !a.panel.dragging {
		h := float64(rl.GetScreenHeight())
		delta := rl.GetMouseDelta()
		if rl.IsMouseButtonDown(rl.MouseLeftButton) {
			a.Orbit.Rotate(rotateDelta(float64(delta.X), float64(delta.Y), h))
		}
		if rl.IsMouseButtonDown(rl.MouseRightButton) {
			a.Orbit.Pan(panDelta(float64(delta.X), float64(delta.Y), h, a.Config.Camera.Fov))
		}
		if wheel := rl.GetMouseWheelMove(); wheel != 0 {
			a.Orbit.Zoom(zoomScale(float64(wheel)))
		}
	}

	eye := a.Orbit.Update(float64(rl.GetFrameTime()))
	a.Camera.Position = toRL(eye)
	a.Camera.Target = toRL(a.Orbit.Target())
}

// rotateDelta converts a mouse drag in pixels into orbit angles; a drag the
// height of the window is one full turn.
func rotateDelta(dx, dy, height float64) (float64, float64) {
	if height <= 0 {
		return 0, 0
	}
	return -2 * math.Pi * dx / height, -2 * math.Pi * dy / height
}

// panDelta converts a mouse drag into fractions of the camera distance so
// the scene follows the cursor.
func panDelta(dx, dy, height, fovDeg float64) (float64, float64) {
	if height <= 0 {
		return 0, 0
	}
	span := 2 * math.Tan(mgl64.DegToRad(fovDeg)/2) / height
	return dx * span, dy * span
}

// zoomScale maps wheel notches onto a distance multiplier.
func zoomScale(wheel float64) float64 {
	return math.Pow(0.95, wheel)
}

func toRL(v mgl64.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func (a *App) Draw() {
	rl.BeginTextureMode(a.Target)
	rl.ClearBackground(ColBg)
	rl.BeginMode3D(a.Camera)
	a.drawField()
	rl.EndMode3D()
	rl.EndTextureMode()

	rl.BeginDrawing()
	rl.ClearBackground(ColBg)
	src := rl.NewRectangle(0, 0, float32(a.Target.Texture.Width), -float32(a.Target.Texture.Height))
	dst := rl.NewRectangle(0, 0, float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight()))
	rl.DrawTexturePro(a.Target.Texture, src, dst, rl.NewVector2(0, 0), 0, rl.White)

	a.DrawHUD()
	if a.ShowPanel {
		if a.panel.draw(&a.Params) {
			a.regenerate()
		}
		if a.panel.snapshot {
			a.panel.snapshot = false
			a.snapshot()
		}
	}
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	h := int32(rl.GetScreenHeight())
	rl.DrawText("galaxy", 20, 20, 24, ColSelect)

	status := fmt.Sprintf("%d particles  seed %d  %s", a.Params.Count, a.Params.Seed, a.GenTime.Round(time.Microsecond))
	if a.Generating {
		status = "generating..."
	}
	rl.DrawText(status, 20, 50, 14, ColText)
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), 20, h-30, 14, ColTextDim)
	rl.DrawText("[DRAG] ORBIT  [RMB] PAN  [WHEEL] ZOOM  [R] RESET  [T] TOP  [H] PANEL  [S] SNAPSHOT  [1-3] VARIANT  [Q] QUIT",
		110, h-30, 14, ColTextDim)

	if a.status != "" && time.Now().Before(a.statusUntil) {
		rl.DrawText(a.status, 20, 72, 14, ColAccent)
	}
}

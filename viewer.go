package largeview

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig holds window settings for Run.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
}

// Viewer is an ebiten.Game that shows a RegionSource through a
// ViewportController. Layout feeds the surface size to the controller,
// Update turns input into viewport moves and decode requests, and Draw blits
// the newest decoded frame at the surface origin.
type Viewer struct {
	cfg      Config
	src      *RegionSource
	ctrl     *ViewportController
	gestures *GestureTracker
	renderer *Renderer
	logger   *slog.Logger

	script          *ScriptRunner
	exitAfterScript bool

	screenshotQueue []string

	frameImg *ebiten.Image
	frameSeq uint64
	frameBuf []byte

	debug  bool
	hudImg *ebiten.Image
}

// NewViewer wires a controller, gesture tracker and renderer around src.
// A nil cfg uses DefaultConfig and a nil logger discards.
func NewViewer(src *RegionSource, cfg *Config, logger *slog.Logger) *Viewer {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if logger == nil {
		logger = discardLogger()
	}

	ctrl := NewViewportController(src.Dimensions(), ControllerOptions{
		ClampInitial: cfg.ClampInitial,
	})
	gestures := NewGestureTracker(GestureOptions{
		DragDeadZone:     cfg.DragDeadZone,
		MinFlingVelocity: cfg.MinFlingVelocity,
		LongPressDelay:   cfg.LongPressDelay,
		Logger:           logger,
	})
	gestures.AddListener(ctrl)

	renderer := NewRenderer(src, RendererOptions{
		Async:      cfg.AsyncDecode,
		SampleSize: cfg.SampleSize,
		Logger:     logger,
	})

	return &Viewer{
		cfg:      *cfg,
		src:      src,
		ctrl:     ctrl,
		gestures: gestures,
		renderer: renderer,
		logger:   logger,
		debug:    cfg.Debug,
	}
}

// Controller returns the viewport controller.
func (v *Viewer) Controller() *ViewportController { return v.ctrl }

// Gestures returns the gesture tracker.
func (v *Viewer) Gestures() *GestureTracker { return v.gestures }

// Renderer returns the decode scheduler.
func (v *Viewer) Renderer() *Renderer { return v.renderer }

// SetScript attaches a gesture script. When exitWhenDone is set the game
// loop ends after the last step.
func (v *Viewer) SetScript(s *ScriptRunner, exitWhenDone bool) {
	v.script = s
	v.exitAfterScript = exitWhenDone
}

// Layout implements ebiten.Game. The reported size becomes the surface
// size; a change recenters the viewport.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if v.ctrl.SetSurface(SurfaceDimensions{Width: outsideWidth, Height: outsideHeight}) {
		rect, _ := v.ctrl.CurrentRect()
		v.logger.Info("viewport placed",
			"rect", rect.String(),
			"surface_width", outsideWidth,
			"surface_height", outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Update implements ebiten.Game.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	dt := 1.0 / float64(ebiten.TPS())

	if v.script != nil {
		v.script.step(v)
		if v.exitAfterScript && v.script.Done() {
			return ebiten.Termination
		}
	}
	v.gestures.Poll(dt)
	v.handleKeys()
	v.ctrl.Update(float32(dt))
	v.flushRedraw()
	return nil
}

// handleKeys maps keyboard shortcuts onto the controller.
func (v *Viewer) handleKeys() {
	step := v.cfg.KeyPanStep
	var dx, dy int
	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		dx -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		dx += step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		dy -= step
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		dy += step
	}
	if dx != 0 || dy != 0 {
		v.ctrl.PanBy(dx, dy)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyHome) {
		v.ctrl.ScrollHome(v.cfg.ScrollDuration, nil)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		v.Screenshot("manual")
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		v.debug = !v.debug
	}
}

// flushRedraw hands a snapshot of the rectangle to the renderer when the
// controller reports a change.
func (v *Viewer) flushRedraw() {
	if !v.ctrl.TakeRedraw() {
		return
	}
	if rect, ok := v.ctrl.CurrentRect(); ok {
		v.renderer.Request(rect)
	}
}

// Draw implements ebiten.Game.
func (v *Viewer) Draw(screen *ebiten.Image) {
	screen.Fill(v.cfg.background())

	if f, ok := v.renderer.Frame(); ok {
		v.upload(f)
		op := &ebiten.DrawImageOptions{}
		if s := v.renderer.SampleSize(); s > 1 {
			op.GeoM.Scale(float64(s), float64(s))
		}
		screen.DrawImage(v.frameImg, op)
	}

	if v.debug {
		v.drawHUD(screen)
	}
	v.flushScreenshots(screen)
}

// upload copies a new frame into the GPU-side image, reallocating it only
// when the frame size changes.
func (v *Viewer) upload(f Frame) {
	if v.frameImg != nil && f.Seq == v.frameSeq {
		return
	}
	b := f.Pixels.Bounds()
	if v.frameImg == nil || v.frameImg.Bounds().Size() != b.Size() {
		if v.frameImg != nil {
			v.frameImg.Deallocate()
		}
		v.frameImg = ebiten.NewImage(b.Dx(), b.Dy())
	}
	n := 4 * b.Dx() * b.Dy()
	if cap(v.frameBuf) < n {
		v.frameBuf = make([]byte, n)
	}
	v.frameBuf = v.frameBuf[:n]
	toRGBA(v.frameBuf, f.Pixels)
	v.frameImg.WritePixels(v.frameBuf)
	v.frameSeq = f.Seq
}

// Close waits for an in-flight decode so the source can be closed safely.
func (v *Viewer) Close(ctx context.Context) error {
	return v.renderer.Wait(ctx)
}

// Run opens a window and runs the viewer until the window is closed or
// Escape is pressed.
func Run(v *Viewer, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

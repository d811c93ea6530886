package lattice

import (
	"sync/atomic"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

const defaultMaxLayoutPasses = 16

// Scene is the top-level object that owns the widget tree and the animator.
// All work happens on the Ebitengine update/draw thread.
type Scene struct {
	root     *Widget
	animator *Animator
	debug    bool
	quit     atomic.Bool

	// ClearColor fills the screen before drawing when its alpha is non-zero.
	ClearColor Color

	// MaxLayoutPasses bounds how many times FlushLayout re-walks the tree
	// while layouts keep triggering each other.
	MaxLayoutPasses int

	// ScreenshotDir receives the files written for Screenshot.
	ScreenshotDir string

	onUpdate    func(dt float64)
	screenshots []string
}

// NewScene creates a scene whose root widget is sized to width x height.
func NewScene(width, height float64) *Scene {
	root := NewWidget("root")
	root.SizeHint.Set(HintNone)
	root.Size.Set(Vec2{width, height})
	return &Scene{
		root:            root,
		animator:        NewAnimator(),
		MaxLayoutPasses: defaultMaxLayoutPasses,
		ScreenshotDir:   "screenshots",
	}
}

// Root returns the scene's root widget.
func (s *Scene) Root() *Widget {
	return s.root
}

// Animator returns the animator ticked by Update. Bind animated properties of
// widgets in this scene to it.
func (s *Scene) Animator() *Animator {
	return s.animator
}

// Resize sets the root widget size.
func (s *Scene) Resize(width, height float64) {
	s.root.Size.Set(Vec2{width, height})
}

// SetUpdateFunc registers application logic called at the start of every
// tick, before layouts are flushed.
func (s *Scene) SetUpdateFunc(fn func(dt float64)) {
	s.onUpdate = fn
}

// Update advances the scene by one Ebitengine tick.
func (s *Scene) Update() {
	s.Tick(1.0 / float64(ebiten.TPS()))
}

// Tick runs application logic, settles layouts, advances every animation by
// dt seconds and settles the layouts those animations disturbed.
func (s *Scene) Tick(dt float64) {
	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	if s.onUpdate != nil {
		s.onUpdate(dt)
	}
	layouts := s.FlushLayout()
	s.animator.Update(dt)
	layouts += s.FlushLayout()

	if s.debug {
		s.debugLog(debugStats{
			tickTime:   time.Since(t0),
			layouts:    layouts,
			animations: s.animator.Len(),
		})
	}
}

// FlushLayout runs every pending layout pass, parents before children, until
// no widget is pending or MaxLayoutPasses walks were made. It returns the
// number of layout passes run.
func (s *Scene) FlushLayout() int {
	ran := 0
	for walk := 0; walk < s.MaxLayoutPasses; walk++ {
		n := 0
		s.root.Walk(func(w *Widget) bool {
			if w.layoutDirty {
				w.DoLayout()
				n++
			}
			return true
		})
		ran += n
		if n == 0 {
			return ran
		}
	}
	Logger().Warn("layout did not settle",
		zap.Int("walks", s.MaxLayoutPasses), zap.Int("passes", ran))
	return ran
}

// Draw draws the widget tree onto screen.
func (s *Scene) Draw(screen *ebiten.Image) {
	if s.ClearColor.A > 0 {
		screen.Fill(s.ClearColor.toRGBA())
	}
	drawWidget(screen, s.root, ebiten.GeoM{})
	s.flushScreenshots(screen)
}

// Quit ends Run after the current tick. It may be called from any goroutine.
func (s *Scene) Quit() {
	s.quit.Store(true)
}

// SetDebugMode enables or disables debug mode. When enabled, tree operations
// on disposed widgets panic, tree depth and child count warnings are logged,
// and per-tick stats are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
}

// globalDebug mirrors the most recently set Scene debug flag so that widget
// operations (which lack a Scene pointer) can check it cheaply.
var globalDebug bool

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	Resizable     bool
}

// gameShell adapts a Scene to ebiten.Game.
type gameShell struct {
	scene *Scene
}

func (g *gameShell) Update() error {
	g.scene.Update()
	if g.scene.quit.Load() {
		return ebiten.Termination
	}
	return nil
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen)
}

func (g *gameShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.scene.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// Run opens a window and runs scene until the window is closed or Quit is
// called.
func Run(scene *Scene, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(&gameShell{scene: scene})
}

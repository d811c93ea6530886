package lattice

import (
	"fmt"
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	fpsWidth           = 100
	fpsHeight          = 32
	fpsRefreshInterval = 500 * time.Millisecond
)

// fpsCounter owns the text image of an FPS widget.
type fpsCounter struct {
	img     *ebiten.Image
	now     func() time.Time
	sample  func() (fps, tps float64)
	last    time.Time
	redraws int
}

// refresh redraws the text unless it was redrawn less than
// fpsRefreshInterval ago.
func (c *fpsCounter) refresh() {
	t := c.now()
	if c.redraws > 0 && t.Sub(c.last) < fpsRefreshInterval {
		return
	}
	c.last = t
	c.redraws++

	fps, tps := c.sample()
	c.img.Clear()
	// Semi-transparent background for readability
	c.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(c.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f", fps, tps))
}

// NewFPSWidget creates a fixed-size widget that displays the current FPS and
// TPS. The text is refreshed about twice a second while the widget is drawn,
// so keep it out of render-cached subtrees.
func NewFPSWidget() *Widget {
	w, _ := newFPSWidget(time.Now, func() (float64, float64) {
		return ebiten.ActualFPS(), ebiten.ActualTPS()
	})
	return w
}

func newFPSWidget(now func() time.Time, sample func() (float64, float64)) (*Widget, *fpsCounter) {
	c := &fpsCounter{
		img:    ebiten.NewImage(fpsWidth, fpsHeight),
		now:    now,
		sample: sample,
	}
	w := NewWidget("fps")
	w.SizeHint.Set(HintNone)
	w.Size.Set(Vec2{fpsWidth, fpsHeight})
	w.Canvas.Add(InstructionFunc(func(dst *ebiten.Image, geo ebiten.GeoM) {
		c.refresh()
		p := w.Pos.Get()
		ImageInstruction{Image: c.img, X: p.X, Y: p.Y}.Draw(dst, geo)
	}))
	return w, c
}

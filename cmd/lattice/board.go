package main

import (
	"strconv"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"

	"github.com/phanxgames/lattice"
	"github.com/phanxgames/lattice/internal/config"
)

// Property names read by the animated colors of cells and buttons.
const (
	durationProp   = "animation_duration"
	transitionProp = "animation_transition"
)

var (
	backgroundColor = lattice.MustAnimatedProperty("background_color", lattice.ColorWhite,
		lattice.WithDurationFrom(durationProp), lattice.WithTransitionFrom(transitionProp))
	textScale = lattice.MustAnimatedProperty("text_scale", 1.0,
		lattice.WithDuration(0.3), lattice.WithTransition(lattice.OutBack))
	textOpacity = lattice.MustAnimatedProperty("text_opacity", 1.0,
		lattice.WithDuration(0.3), lattice.WithTransition(lattice.OutQuad))
)

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3,
	ebiten.KeyDigit4, ebiten.KeyDigit5, ebiten.KeyDigit6,
	ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

// cellIndex maps a cell given by its block and its position inside the block
// to its row-major index on the 9x9 board.
func cellIndex(block, inner int) int {
	return (block/3*3+inner/3)*9 + (block%3*3 + inner%3)
}

type cell struct {
	w     *lattice.Widget
	index int
	digit int

	// clearing is set while the digit fades out after an erase.
	clearing bool

	color   *lattice.Animated[lattice.Color]
	scale   *lattice.Animated[float64]
	opacity *lattice.Animated[float64]
}

func (c *cell) row() int { return c.index / 9 }
func (c *cell) col() int { return c.index % 9 }

func (c *cell) block() int {
	return c.row()/3*3 + c.col()/3
}

// peers reports whether o shares a row, column or block with c.
func (c *cell) peers(o *cell) bool {
	return c.row() == o.row() || c.col() == o.col() || c.block() == o.block()
}

type padButton struct {
	w     *lattice.Widget
	digit int // 0 erases
	color *lattice.Animated[lattice.Color]
}

type board struct {
	scene   *lattice.Scene
	palette config.Palette
	log     *zap.Logger

	grid     *lattice.Widget
	pad      *lattice.Widget
	cells    [81]*cell
	buttons  []*padButton
	selected *cell

	script *script
}

func newBoard(cfg *config.Config, log *zap.Logger) (*board, error) {
	palette, err := cfg.Theme.Palette()
	if err != nil {
		return nil, err
	}
	b := &board{
		scene:   lattice.NewScene(float64(cfg.Window.Width), float64(cfg.Window.Height)),
		palette: palette,
		log:     log,
	}
	b.scene.ClearColor = palette.Background
	b.scene.ScreenshotDir = cfg.Window.ScreenshotDir

	g := cfg.Grid
	blockSize := 3*g.CellSize + 2*g.Spacing
	gridSize := 3*blockSize + 2*g.BlockSpacing
	padHeight := 3*g.CellSize + 2*g.Spacing

	b.grid = lattice.NewContainer("grid", lattice.GridLayout{Cols: 3, Spacing: g.BlockSpacing})
	b.grid.SizeHint.Set(lattice.HintNone)
	b.grid.Size.Set(lattice.Vec2{X: gridSize, Y: gridSize})
	for blk := 0; blk < 9; blk++ {
		block := lattice.NewContainer("block"+strconv.Itoa(blk), lattice.GridLayout{Cols: 3, Spacing: g.Spacing})
		for inner := 0; inner < 9; inner++ {
			c := b.newCell(cfg, cellIndex(blk, inner))
			block.AddChild(c.w)
		}
		b.grid.AddChild(block)
	}

	b.pad = b.newPad(cfg)
	b.pad.SizeHint.Set(lattice.HintNone)
	b.pad.Size.Set(lattice.Vec2{X: gridSize, Y: padHeight})

	column := lattice.NewContainer("column", lattice.BoxLayout{Orientation: lattice.Vertical, Spacing: g.BlockSpacing * 2})
	column.SizeHint.Set(lattice.HintNone)
	column.Size.Set(lattice.Vec2{X: gridSize, Y: gridSize + padHeight + g.BlockSpacing*2})
	column.AddChild(b.grid)
	column.AddChild(b.pad)

	b.scene.Root().SetLayout(lattice.AnchorLayout{})
	b.scene.Root().AddChild(column)
	if cfg.Window.ShowFPS {
		hud := lattice.NewContainer("hud", lattice.AnchorLayout{AnchorX: lattice.AnchorStart, AnchorY: lattice.AnchorStart, Padding: g.Spacing})
		hud.AddChild(lattice.NewFPSWidget())
		b.scene.Root().AddChild(hud)
	}

	if g.RenderCache {
		b.grid.SetRenderCache(true)
	}
	b.scene.SetUpdateFunc(b.update)
	b.scene.FlushLayout()
	return b, nil
}

// declareTheme adds the properties the animated colors resolve by name.
func declareTheme(w *lattice.Widget, cfg *config.Config) {
	lattice.Declare(w, durationProp, cfg.Theme.AnimationDuration)
	lattice.Declare(w, transitionProp, cfg.Theme.AnimationTransition)
}

func (b *board) newCell(cfg *config.Config, index int) *cell {
	w := lattice.NewWidget("cell" + strconv.Itoa(index))
	declareTheme(w, cfg)
	anim := b.scene.Animator()
	c := &cell{
		w:       w,
		index:   index,
		color:   backgroundColor.Bind(w, anim),
		scale:   textScale.Bind(w, anim),
		opacity: textOpacity.Bind(w, anim),
	}
	w.UserData = c
	c.color.Apply(b.palette.Cell)

	redraw := func(float64) { w.Canvas.Invalidate() }
	c.color.Bind(func(lattice.Color) { w.Canvas.Invalidate() })
	c.scale.Bind(redraw)
	c.opacity.Bind(func(v float64) {
		if v == 0 && c.clearing {
			c.clearing = false
			c.digit = 0
		}
		w.Canvas.Invalidate()
	})
	w.Canvas.Add(lattice.InstructionFunc(func(dst *ebiten.Image, geo ebiten.GeoM) {
		r := w.Bounds()
		lattice.FillRect(dst, geo, r, c.color.Get(), lattice.BlendNormal)
		if c.digit != 0 {
			drawDigit(dst, geo, c.digit, r, c.scale.Get(), c.opacity.Get(), b.palette.Button)
		}
	}))
	b.cells[index] = c
	return c
}

// newPad builds the number pad: the digit buttons live in a nested proxy
// layout so they share the pad's grid with the erase button, and a dummy
// keeps the slot after 9 empty.
func (b *board) newPad(cfg *config.Config) *lattice.Widget {
	pad := lattice.NewProxyLayout("pad", lattice.GridLayout{Cols: 5, Spacing: cfg.Grid.Spacing})
	digits := lattice.NewProxyLayout("digits", lattice.GridLayout{Cols: 5, Spacing: cfg.Grid.Spacing})
	for d := 1; d <= 9; d++ {
		p := lattice.NewProxyWidget("digit" + strconv.Itoa(d))
		p.AddChild(b.newButton(cfg, d).w)
		digits.AddChild(p)
	}
	digits.AddChild(lattice.NewProxyDummy("gap", 1))
	pad.AddChild(digits)
	pad.AddChild(b.newButton(cfg, 0).w)
	return pad
}

func (b *board) newButton(cfg *config.Config, digit int) *padButton {
	w := lattice.NewWidget("button" + strconv.Itoa(digit))
	declareTheme(w, cfg)
	btn := &padButton{w: w, digit: digit, color: backgroundColor.Bind(w, b.scene.Animator())}
	btn.color.Apply(b.palette.Button)
	btn.color.Bind(func(lattice.Color) { w.Canvas.Invalidate() })
	w.Canvas.Add(lattice.InstructionFunc(func(dst *ebiten.Image, geo ebiten.GeoM) {
		r := w.Bounds()
		lattice.FillRect(dst, geo, r, btn.color.Get(), lattice.BlendNormal)
		if digit != 0 {
			drawDigit(dst, geo, digit, r, 1, 1, b.palette.Cell)
		} else {
			drawLabel(dst, geo, "DEL", r)
		}
	}))
	b.buttons = append(b.buttons, btn)
	return btn
}

// toggle selects c, or clears the selection when c is already selected.
// Cells sharing a row, column or block with the selection are highlighted.
func (b *board) toggle(c *cell) {
	if b.selected == c {
		b.selected = nil
	} else {
		b.selected = c
	}
	for _, o := range b.cells {
		switch {
		case b.selected == nil:
			o.color.Set(b.palette.Cell)
		case o == b.selected:
			o.color.Set(b.palette.CellSelected)
		case b.selected.peers(o):
			o.color.Set(b.palette.CellHighlight)
		default:
			o.color.Set(b.palette.Cell)
		}
	}
	if b.selected != nil {
		b.log.Debug("cell selected", zap.Int("index", c.index), zap.Any("properties", c.w.Properties().Snapshot()))
	}
}

// enter writes digit into the selected cell with a pop: the text jumps large
// and transparent, then animates back.
func (b *board) enter(digit int) {
	c := b.selected
	if c == nil {
		return
	}
	c.digit = digit
	c.clearing = false
	c.scale.Apply(1.6)
	c.scale.Set(1)
	c.opacity.Apply(0)
	c.opacity.Set(1)
}

// erase fades the selected cell's digit out and clears it once invisible.
func (b *board) erase() {
	c := b.selected
	if c == nil || c.digit == 0 {
		return
	}
	c.clearing = true
	c.opacity.Set(0)
}

// press flashes the button and applies its action.
func (b *board) press(btn *padButton) {
	btn.color.Apply(b.palette.ButtonPressed)
	btn.color.Set(b.palette.Button)
	if btn.digit == 0 {
		b.erase()
		return
	}
	b.enter(btn.digit)
}

// click dispatches a pointer press at (x, y).
func (b *board) click(x, y float64) {
	for _, c := range b.cells {
		if c.w.Bounds().Contains(x, y) {
			b.toggle(c)
			return
		}
	}
	for _, btn := range b.buttons {
		if btn.w.Bounds().Contains(x, y) {
			b.press(btn)
			return
		}
	}
}

func (b *board) update(float64) {
	if b.script != nil {
		b.script.step(b)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		b.click(float64(x), float64(y))
	}
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			b.enter(i + 1)
		}
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace), inpututil.IsKeyJustPressed(ebiten.KeyDelete):
		b.erase()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		if b.selected != nil {
			b.toggle(b.selected)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF12):
		b.scene.Screenshot("board")
	case inpututil.IsKeyJustPressed(ebiten.KeyQ):
		b.scene.Quit()
	}
}

// glyphs caches the debug-font rendering of each digit.
var glyphs [10]*ebiten.Image

func glyph(digit int) *ebiten.Image {
	if glyphs[digit] == nil {
		img := ebiten.NewImage(8, 16)
		ebitenutil.DebugPrint(img, strconv.Itoa(digit))
		glyphs[digit] = img
	}
	return glyphs[digit]
}

// drawDigit draws digit centered in r at scale times the cell-relative text
// size.
func drawDigit(dst *ebiten.Image, geo ebiten.GeoM, digit int, r lattice.Rect, scale, alpha float64, tint lattice.Color) {
	if alpha <= 0 || scale <= 0 {
		return
	}
	g := glyph(digit)
	gw, gh := float64(g.Bounds().Dx()), float64(g.Bounds().Dy())
	s := scale * 0.6 * r.Height / gh

	var op ebiten.DrawImageOptions
	op.GeoM.Translate(-gw/2, -gh/2)
	op.GeoM.Scale(s, s)
	op.GeoM.Translate(r.X+r.Width/2, r.Y+r.Height/2)
	op.GeoM.Concat(geo)
	a := tint.A * alpha
	op.ColorScale.Scale(float32(tint.R*a), float32(tint.G*a), float32(tint.B*a), float32(a))
	dst.DrawImage(g, &op)
}

func drawLabel(dst *ebiten.Image, geo ebiten.GeoM, label string, r lattice.Rect) {
	x, y := geo.Apply(r.X+r.Width/2-float64(len(label))*3, r.Y+r.Height/2-8)
	ebitenutil.DebugPrintAt(dst, label, int(x), int(y))
}

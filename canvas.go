package lattice

import "github.com/hajimehoshi/ebiten/v2"

// Instruction is a single draw operation. geo maps scene coordinates to the
// destination image.
type Instruction interface {
	Draw(dst *ebiten.Image, geo ebiten.GeoM)
}

// InstructionFunc adapts a function to the Instruction interface. Functions
// read live widget state, so a widget whose look depends on an animated
// property only needs to call Canvas.Invalidate from the property observer.
type InstructionFunc func(dst *ebiten.Image, geo ebiten.GeoM)

// Draw calls f(dst, geo).
func (f InstructionFunc) Draw(dst *ebiten.Image, geo ebiten.GeoM) {
	f(dst, geo)
}

// Rectangle fills Bounds with Color.
type Rectangle struct {
	Bounds    Rect
	Color     Color
	BlendMode BlendMode
}

// Draw implements Instruction.
func (r Rectangle) Draw(dst *ebiten.Image, geo ebiten.GeoM) {
	FillRect(dst, geo, r.Bounds, r.Color, r.BlendMode)
}

// FillRect draws a solid rectangle through geo.
func FillRect(dst *ebiten.Image, geo ebiten.GeoM, r Rect, c Color, blend BlendMode) {
	if r.Width <= 0 || r.Height <= 0 || c.A <= 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	op.GeoM.Concat(geo)
	op.ColorScale.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	op.Blend = blend.EbitenBlend()
	dst.DrawImage(WhitePixel, &op)
}

// ImageInstruction draws Image with its top-left corner at (X, Y).
type ImageInstruction struct {
	Image     *ebiten.Image
	X, Y      float64
	BlendMode BlendMode
}

// Draw implements Instruction.
func (in ImageInstruction) Draw(dst *ebiten.Image, geo ebiten.GeoM) {
	if in.Image == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Translate(in.X, in.Y)
	op.GeoM.Concat(geo)
	op.Blend = in.BlendMode.EbitenBlend()
	dst.DrawImage(in.Image, &op)
}

// Canvas is a widget's ordered instruction list. Changes invalidate the
// render caches of the widget's ancestors.
type Canvas struct {
	owner  *Widget
	instrs []Instruction
}

// Add appends instructions.
func (c *Canvas) Add(in ...Instruction) {
	c.instrs = append(c.instrs, in...)
	c.Invalidate()
}

// Clear removes every instruction.
func (c *Canvas) Clear() {
	clear(c.instrs)
	c.instrs = c.instrs[:0]
	c.Invalidate()
}

// Len returns the number of instructions.
func (c *Canvas) Len() int {
	return len(c.instrs)
}

// Invalidate tells enclosing render caches that this canvas draws differently
// now.
func (c *Canvas) Invalidate() {
	if c.owner != nil {
		invalidateAncestorCache(c.owner)
	}
}

// Draw runs every instruction in order.
func (c *Canvas) Draw(dst *ebiten.Image, geo ebiten.GeoM) {
	for _, in := range c.instrs {
		in.Draw(dst, geo)
	}
}

// drawWidget draws w and its visible descendants. A widget with a render
// cache contributes only its cached texture.
func drawWidget(dst *ebiten.Image, w *Widget, geo ebiten.GeoM) {
	if w.cache != nil {
		w.cache.render()
		p := w.Pos.Get()
		var op ebiten.DrawImageOptions
		op.GeoM.Translate(floor(p.X), floor(p.Y))
		op.GeoM.Concat(geo)
		dst.DrawImage(w.cache.image, &op)
		return
	}
	w.Canvas.Draw(dst, geo)
	for _, c := range w.children {
		drawWidget(dst, c, geo)
	}
}

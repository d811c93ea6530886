package lattice

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

var (
	// ErrNegativeDuration is returned when an animated property is declared
	// with a literal duration below zero.
	ErrNegativeDuration = errors.New("lattice: negative animation duration")

	// ErrUnknownProperty reports a named indirection that does not resolve to
	// a property registered on the owning widget.
	ErrUnknownProperty = errors.New("lattice: unknown property")

	// ErrPropertyType reports a named indirection that resolves to a property
	// holding a value of the wrong type.
	ErrPropertyType = errors.New("lattice: property has wrong type")

	// ErrUnknownTransition is returned by TransitionByName for names that are
	// not registered.
	ErrUnknownTransition = errors.New("lattice: unknown transition")

	// ErrNoLerp is returned when an animated property has no interpolation
	// function and none is built in for its value type.
	ErrNoLerp = errors.New("lattice: no interpolation function")

	// ErrLayoutReentered is the panic value raised when a layout pass is
	// started on a widget whose previous pass has not finished.
	ErrLayoutReentered = errors.New("lattice: layout pass re-entered")
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when the color is submitted to Ebitengine.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// Vec2 is a 2D vector used for positions and sizes throughout the API.
type Vec2 struct {
	X, Y float64
}

// Unset marks a hint component that carries no value.
const Unset = -1.0

// Hint is a size hint pair expressed as a fraction of the available space.
// A negative component means the widget keeps its own size on that axis.
type Hint struct {
	X, Y float64
}

// HintNone disables size hinting on both axes.
var HintNone = Hint{Unset, Unset}

// HasX reports whether the horizontal component is set.
func (h Hint) HasX() bool { return h.X >= 0 }

// HasY reports whether the vertical component is set.
func (h Hint) HasY() bool { return h.Y >= 0 }

// PosHint positions a widget inside its layout slot as fractions of the
// container. Negative fields are unset. Y grows downward, so Top/Bottom refer
// to the visual edges.
type PosHint struct {
	X, CenterX, Right    float64
	Top, CenterY, Bottom float64
}

// PosHintNone is a PosHint with every field unset.
var PosHintNone = PosHint{Unset, Unset, Unset, Unset, Unset, Unset}

// WhitePixel is a 1x1 white image used to fill solid rectangles.
var WhitePixel *ebiten.Image

func init() {
	WhitePixel = ebiten.NewImage(1, 1)
	WhitePixel.Fill(ColorWhite.toRGBA())
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Inset shrinks the rectangle by p on every side. The result never has a
// negative size.
func (r Rect) Inset(p float64) Rect {
	out := Rect{X: r.X + p, Y: r.Y + p, Width: r.Width - 2*p, Height: r.Height - 2*p}
	if out.Width < 0 {
		out.Width = 0
	}
	if out.Height < 0 {
		out.Height = 0
	}
	return out
}

// BlendMode selects a compositing operation. Each maps to a specific ebiten.Blend value.
type BlendMode uint8

const (
	BlendNormal BlendMode = iota // source-over (standard alpha blending)
	BlendAdd                     // additive / lighter
	BlendErase                   // destination-out (punch transparent holes)
	BlendNone                    // opaque copy (skip blending)
)

// EbitenBlend returns the ebiten.Blend value corresponding to this BlendMode.
func (b BlendMode) EbitenBlend() ebiten.Blend {
	switch b {
	case BlendAdd:
		return ebiten.BlendLighter
	case BlendErase:
		return ebiten.BlendDestinationOut
	case BlendNone:
		return ebiten.BlendCopy
	default:
		return ebiten.BlendSourceOver
	}
}

// WidgetType distinguishes layout behavior for a Widget.
type WidgetType uint8

const (
	WidgetTypeBasic      WidgetType = iota // ordinary widget
	WidgetTypeProxy                        // stands in for its first child during layout
	WidgetTypeProxyDummy                   // expands into ProxyCount placeholder slots
)

// toRGBA converts a Color to a premultiplied colorRGBA.
func (c Color) toRGBA() colorRGBA {
	return colorRGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

// colorRGBA implements the color.Color interface for image.Fill.
type colorRGBA struct {
	R, G, B, A uint8
}

func (c colorRGBA) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	a = uint32(c.A) * 0x101
	return
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

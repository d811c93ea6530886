package lattice

import (
	"fmt"
	"math"
)

// NewProxyWidget creates a widget that, inside a proxy layout, is laid out
// through its representative child (see ProxyChild) instead of itself.
func NewProxyWidget(name string) *Widget {
	w := &Widget{Name: name, Type: WidgetTypeProxy}
	widgetDefaults(w)
	return w
}

// NewProxyDummy creates a proxy that reserves count layout slots without any
// real content. Each slot is a placeholder carrying the dummy's size, size
// hints and position hint at layout time. Panics if count is negative.
func NewProxyDummy(name string, count int) *Widget {
	if count < 0 {
		panic(fmt.Sprintf("lattice: proxy count of %q must not be negative, got %d", name, count))
	}
	w := &Widget{Name: name, Type: WidgetTypeProxyDummy}
	widgetDefaults(w)
	w.props.Register(&w.ProxyCount)
	w.ProxyCount.check = func(n int) error {
		if n < 0 {
			return fmt.Errorf("lattice: proxy count of %q must not be negative, got %d", w.Name, n)
		}
		return nil
	}
	w.ProxyCount.Bind(func(n int) {
		w.dummies = make([]*Widget, n)
		for i := range w.dummies {
			w.dummies[i] = NewWidget(w.Name)
		}
	})
	w.ProxyCount.Set(count)
	return w
}

// NewProxyLayout creates a container laid out by base that tracks its proxy
// children. When it is itself the child of another proxy layout, it is
// measured as the bounding box of its proxies' slots in the parent's pass.
func NewProxyLayout(name string, base Layout) *Widget {
	w := NewContainer(name, base)
	w.proxyLayout = true
	return w
}

// IsProxyLayout reports whether w was created with NewProxyLayout.
func (w *Widget) IsProxyLayout() bool {
	return w.proxyLayout
}

// ProxyWidgets returns the tracked proxies in insertion order. The returned
// slice MUST NOT be mutated by the caller.
func (w *Widget) ProxyWidgets() []*Widget {
	return w.proxies
}

// Placeholders returns the slots of a proxy dummy.
func (w *Widget) Placeholders() []*Widget {
	return w.dummies
}

// ProxyChild returns the widget that represents w in a layout pass: its first
// child, or a zero-size placeholder when it has none.
func (w *Widget) ProxyChild() *Widget {
	if len(w.children) > 0 {
		return w.children[0]
	}
	if w.placeholder == nil {
		w.placeholder = NewWidget(w.Name)
		w.placeholder.Size.Set(Vec2{})
		w.placeholder.SizeHint.Set(HintNone)
	}
	return w.placeholder
}

func (w *Widget) isProxy() bool {
	return w.Type == WidgetTypeProxy || w.Type == WidgetTypeProxyDummy
}

// trackProxy records p and forwards its geometry changes to the layout of
// this widget's parent, which is where p's slots are measured.
func (w *Widget) trackProxy(p *Widget) {
	p.proxyBinds = bindGeometry(p, w.triggerParentLayout, false)
	if p.Type == WidgetTypeProxyDummy {
		p.proxyBinds = append(p.proxyBinds, bindRef{&p.ProxyCount, p.ProxyCount.Bind(func(int) { w.triggerParentLayout() })})
	}
	w.proxies = append(w.proxies, p)
	w.triggerParentLayout()
}

func (w *Widget) untrackProxy(p *Widget) {
	unbindAll(p.proxyBinds)
	p.proxyBinds = nil
	for i, c := range w.proxies {
		if c == p {
			copy(w.proxies[i:], w.proxies[i+1:])
			w.proxies[len(w.proxies)-1] = nil
			w.proxies = w.proxies[:len(w.proxies)-1]
			break
		}
	}
	w.triggerParentLayout()
}

func (w *Widget) triggerParentLayout() {
	if w.Parent != nil {
		w.Parent.TriggerLayout()
	}
}

// proxySpan records which part of the flattened list a nested proxy layout
// contributed.
type proxySpan struct {
	index, start, count int
}

// doProxyLayout builds the flattened item list, runs the base layout over it
// and sizes each nested proxy layout to the bounding box of its slots. The
// real child list is never modified.
func (w *Widget) doProxyLayout() {
	flat := make([]*Widget, 0, len(w.children))
	var spans []proxySpan

	for i, c := range w.children {
		switch {
		case c.proxyLayout && len(c.proxies) > 0:
			start := len(flat)
			flat = c.appendProxySlots(flat)
			spans = append(spans, proxySpan{index: i, start: start, count: len(flat) - start})
		case c.Type == WidgetTypeProxy:
			flat = append(flat, c.ProxyChild())
		default:
			flat = append(flat, c)
		}
	}

	w.layout.Arrange(w.Bounds(), flat)

	for _, sp := range spans {
		r, ok := boundingBox(flat[sp.start : sp.start+sp.count])
		if !ok {
			continue
		}
		w.children[sp.index].SetBounds(r)
	}
}

// appendProxySlots appends the layout slots of w's tracked proxies to dst:
// every placeholder of a dummy, primed with the dummy's geometry, and the
// representative child of every other proxy.
func (w *Widget) appendProxySlots(dst []*Widget) []*Widget {
	for _, p := range w.proxies {
		if p.Type != WidgetTypeProxyDummy {
			dst = append(dst, p.ProxyChild())
			continue
		}
		size, hint := p.Size.Get(), p.SizeHint.Get()
		mn, mx, ph := p.SizeHintMin.Get(), p.SizeHintMax.Get(), p.PosHint.Get()
		for _, d := range p.dummies {
			d.Size.Set(size)
			d.SizeHint.Set(hint)
			d.SizeHintMin.Set(mn)
			d.SizeHintMax.Set(mx)
			d.PosHint.Set(ph)
			dst = append(dst, d)
		}
	}
	return dst
}

// boundingBox returns the smallest rectangle enclosing every item. ok is
// false for an empty list.
func boundingBox(items []*Widget) (r Rect, ok bool) {
	if len(items) == 0 {
		return Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, it := range items {
		b := it.Bounds()
		minX = math.Min(minX, b.X)
		minY = math.Min(minY, b.Y)
		maxX = math.Max(maxX, b.X+b.Width)
		maxY = math.Max(maxY, b.Y+b.Height)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

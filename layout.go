package lattice

import "math"

// Layout arranges items inside bounds by writing their Pos and Size. It is a
// pure pass over its inputs: the item list need not be the container's real
// child list, which is how proxy layouts substitute a flattened list.
type Layout interface {
	Arrange(bounds Rect, items []*Widget)
}

// SetLayout installs l as the widget's layout. The widget then re-lays out
// when its own position or size changes, when children are added or removed,
// and when a child's size, size hints or position hint change.
func (w *Widget) SetLayout(l Layout) {
	switch {
	case w.layout == nil && l != nil:
		trigger := func(Vec2) { w.TriggerLayout() }
		w.selfBinds = []bindRef{
			{&w.Pos, w.Pos.Bind(trigger)},
			{&w.Size, w.Size.Bind(trigger)},
		}
		w.layout = l
		for _, c := range w.children {
			w.attachChild(c)
		}
	case w.layout != nil && l == nil:
		for _, c := range w.children {
			w.detachChild(c)
		}
		unbindAll(w.selfBinds)
		w.selfBinds = nil
		w.layout = nil
		w.layoutDirty = false
		return
	default:
		w.layout = l
	}
	w.TriggerLayout()
}

// Layout returns the installed layout, or nil.
func (w *Widget) Layout() Layout {
	return w.layout
}

// TriggerLayout schedules a layout pass for the next Scene.FlushLayout.
// Triggers raised by the widget's own pass are ignored.
func (w *Widget) TriggerLayout() {
	if w.layout == nil || w.inLayout {
		return
	}
	w.layoutDirty = true
}

// LayoutPending reports whether a layout pass is scheduled.
func (w *Widget) LayoutPending() bool {
	return w.layoutDirty
}

// DoLayout runs the layout pass now. Panics with ErrLayoutReentered if called
// from inside the same widget's running pass.
func (w *Widget) DoLayout() {
	if w.layout == nil {
		w.layoutDirty = false
		return
	}
	if w.inLayout {
		panic(ErrLayoutReentered)
	}
	w.inLayout = true
	defer func() { w.inLayout = false }()
	w.layoutDirty = false

	if w.proxyLayout {
		w.doProxyLayout()
		return
	}
	w.layout.Arrange(w.Bounds(), w.children)
}

// attachChild forwards the child's geometry changes to this widget's layout.
func (w *Widget) attachChild(c *Widget) {
	if w.layout == nil {
		return
	}
	c.parentBinds = bindGeometry(c, w.TriggerLayout, true)
}

func (w *Widget) detachChild(c *Widget) {
	unbindAll(c.parentBinds)
	c.parentBinds = nil
}

// bindGeometry calls fn whenever c's size or size hints change, and its
// position hint when withPosHint is set.
func bindGeometry(c *Widget, fn func(), withPosHint bool) []bindRef {
	onVec := func(Vec2) { fn() }
	refs := []bindRef{
		{&c.Size, c.Size.Bind(onVec)},
		{&c.SizeHint, c.SizeHint.Bind(func(Hint) { fn() })},
		{&c.SizeHintMin, c.SizeHintMin.Bind(onVec)},
		{&c.SizeHintMax, c.SizeHintMax.Bind(onVec)},
	}
	if withPosHint {
		refs = append(refs, bindRef{&c.PosHint, c.PosHint.Bind(func(PosHint) { fn() })})
	}
	return refs
}

// Orientation is the main axis of a BoxLayout.
type Orientation uint8

const (
	Horizontal Orientation = iota // left to right
	Vertical                      // top to bottom
)

// BoxLayout places items in a single row or column. Items with a size hint on
// the main axis share the space left after fixed items and spacing, in
// proportion to their hints and within their min/max hints; on the cross axis
// a hint is a fraction of the inner extent.
type BoxLayout struct {
	Orientation Orientation
	Spacing     float64
	Padding     float64
}

// Arrange implements Layout.
func (l BoxLayout) Arrange(bounds Rect, items []*Widget) {
	if len(items) == 0 {
		return
	}
	inner := bounds.Inset(l.Padding)
	horizontal := l.Orientation == Horizontal

	mainLen, crossLen := inner.Height, inner.Width
	if horizontal {
		mainLen, crossLen = inner.Width, inner.Height
	}

	sizes := make([]float64, len(items))
	free := mainLen - l.Spacing*float64(len(items)-1)
	var hinted []int
	for i, it := range items {
		h, s := it.SizeHint.Get(), it.Size.Get()
		hint, size := h.Y, s.Y
		if horizontal {
			hint, size = h.X, s.X
		}
		if hint >= 0 {
			hinted = append(hinted, i)
			continue
		}
		sizes[i] = size
		free -= size
	}
	distributeHinted(free, hinted, items, horizontal, sizes)

	cursor := inner.Y
	if horizontal {
		cursor = inner.X
	}
	for i, it := range items {
		h, s := it.SizeHint.Get(), it.Size.Get()
		mn, mx := it.SizeHintMin.Get(), it.SizeHintMax.Get()
		ph := it.PosHint.Get()
		if horizontal {
			height := s.Y
			if h.HasY() {
				height = clampHint(crossLen*h.Y, mn.Y, mx.Y)
			}
			y := crossPos(inner.Y, crossLen, height, ph.Top, ph.CenterY, ph.Bottom)
			it.Pos.Set(Vec2{cursor, y})
			it.Size.Set(Vec2{sizes[i], height})
		} else {
			width := s.X
			if h.HasX() {
				width = clampHint(crossLen*h.X, mn.X, mx.X)
			}
			x := crossPos(inner.X, crossLen, width, ph.X, ph.CenterX, ph.Right)
			it.Pos.Set(Vec2{x, cursor})
			it.Size.Set(Vec2{width, sizes[i]})
		}
		cursor += sizes[i] + l.Spacing
	}
}

// distributeHinted shares free space among hinted items. Items whose share
// violates their min/max hint are pinned to the bound and the rest is
// redistributed.
func distributeHinted(free float64, pending []int, items []*Widget, horizontal bool, sizes []float64) {
	axis := func(v Vec2) float64 {
		if horizontal {
			return v.X
		}
		return v.Y
	}
	hintOf := func(i int) float64 {
		h := items[i].SizeHint.Get()
		if horizontal {
			return h.X
		}
		return h.Y
	}
	for len(pending) > 0 {
		if free < 0 {
			free = 0
		}
		sum := 0.0
		for _, i := range pending {
			sum += hintOf(i)
		}
		next := make([]int, 0, len(pending))
		pinned := false
		for _, i := range pending {
			share := 0.0
			if sum > 0 {
				share = free * hintOf(i) / sum
			}
			mn, mx := axis(items[i].SizeHintMin.Get()), axis(items[i].SizeHintMax.Get())
			switch {
			case mn >= 0 && share < mn:
				sizes[i] = mn
			case mx >= 0 && share > mx:
				sizes[i] = mx
			default:
				next = append(next, i)
				continue
			}
			free -= sizes[i]
			pinned = true
		}
		if !pinned {
			for _, i := range pending {
				if sum > 0 {
					sizes[i] = free * hintOf(i) / sum
				}
			}
			return
		}
		pending = next
	}
}

// crossPos resolves a position hint on one axis. start, center and end are
// fractions of the inner extent; the first one set wins, default is start.
func crossPos(origin, extent, size, start, center, end float64) float64 {
	switch {
	case start >= 0:
		return origin + extent*start
	case center >= 0:
		return origin + extent*center - size/2
	case end >= 0:
		return origin + extent*end - size
	}
	return origin
}

func clampHint(v, mn, mx float64) float64 {
	if mn >= 0 && v < mn {
		v = mn
	}
	if mx >= 0 && v > mx {
		v = mx
	}
	return v
}

// Anchor aligns an item inside an AnchorLayout.
type Anchor uint8

const (
	AnchorCenter Anchor = iota
	AnchorStart         // left or top
	AnchorEnd           // right or bottom
)

// AnchorLayout aligns every item to the same anchor inside the padded bounds.
type AnchorLayout struct {
	AnchorX, AnchorY Anchor
	Padding          float64
}

// Arrange implements Layout.
func (l AnchorLayout) Arrange(bounds Rect, items []*Widget) {
	inner := bounds.Inset(l.Padding)
	for _, it := range items {
		h, s := it.SizeHint.Get(), it.Size.Get()
		mn, mx := it.SizeHintMin.Get(), it.SizeHintMax.Get()
		w, ht := s.X, s.Y
		if h.HasX() {
			w = clampHint(inner.Width*h.X, mn.X, mx.X)
		}
		if h.HasY() {
			ht = clampHint(inner.Height*h.Y, mn.Y, mx.Y)
		}
		it.Pos.Set(Vec2{anchorPos(l.AnchorX, inner.X, inner.Width, w), anchorPos(l.AnchorY, inner.Y, inner.Height, ht)})
		it.Size.Set(Vec2{w, ht})
	}
}

func anchorPos(a Anchor, origin, extent, size float64) float64 {
	switch a {
	case AnchorStart:
		return origin
	case AnchorEnd:
		return origin + extent - size
	}
	return origin + (extent-size)/2
}

// GridLayout places items row by row into Cols equal columns. Rows share the
// height equally. A size hint is a fraction of the cell; unhinted axes keep
// the item's own size. Items sit at the top-left of their cell.
type GridLayout struct {
	Cols    int
	Spacing float64
	Padding float64
}

// Arrange implements Layout.
func (l GridLayout) Arrange(bounds Rect, items []*Widget) {
	if len(items) == 0 {
		return
	}
	cols := max(l.Cols, 1)
	rows := int(math.Ceil(float64(len(items)) / float64(cols)))
	inner := bounds.Inset(l.Padding)
	cellW := math.Max(0, (inner.Width-l.Spacing*float64(cols-1))/float64(cols))
	cellH := math.Max(0, (inner.Height-l.Spacing*float64(rows-1))/float64(rows))

	for i, it := range items {
		col, row := i%cols, i/cols
		h, s := it.SizeHint.Get(), it.Size.Get()
		mn, mx := it.SizeHintMin.Get(), it.SizeHintMax.Get()
		w, ht := s.X, s.Y
		if h.HasX() {
			w = clampHint(cellW*h.X, mn.X, mx.X)
		}
		if h.HasY() {
			ht = clampHint(cellH*h.Y, mn.Y, mx.Y)
		}
		it.Pos.Set(Vec2{
			inner.X + float64(col)*(cellW+l.Spacing),
			inner.Y + float64(row)*(cellH+l.Spacing),
		})
		it.Size.Set(Vec2{w, ht})
	}
}

package lattice

// widgetIDCounter is a plain counter; widgets are only created on the update thread.
var widgetIDCounter uint32

func nextWidgetID() uint32 {
	widgetIDCounter++
	return widgetIDCounter
}

// unbinder is implemented by every Value.
type unbinder interface {
	Unbind(id BindID) bool
}

// bindRef remembers an observer so it can be removed symmetrically.
type bindRef struct {
	v  unbinder
	id BindID
}

func unbindAll(refs []bindRef) {
	for _, r := range refs {
		r.v.Unbind(r.id)
	}
}

// Widget is the scene element. A single flat struct is used for all widget
// kinds; Type selects proxy behavior and the optional layout, proxy tracking
// and render cache are enabled per widget.
//
// Geometry is absolute: Pos is the top-left corner in scene coordinates.
type Widget struct {
	// Identity
	ID   uint32
	Name string
	Type WidgetType

	// Hierarchy
	Parent   *Widget
	children []*Widget

	// Geometry
	Pos         Value[Vec2]
	Size        Value[Vec2]
	SizeHint    Value[Hint]
	SizeHintMin Value[Vec2]
	SizeHintMax Value[Vec2]
	PosHint     Value[PosHint]

	// ProxyCount is the number of placeholder slots a WidgetTypeProxyDummy
	// expands into. Must not be negative.
	ProxyCount Value[int]

	// Canvas holds the widget's own draw instructions.
	Canvas *Canvas

	// Metadata
	UserData any

	props       PropertySet
	childrenObs observers[[]*Widget]

	// Layout
	layout      Layout
	layoutDirty bool
	inLayout    bool
	selfBinds   []bindRef // own pos/size -> own layout trigger
	parentBinds []bindRef // own geometry -> parent layout trigger

	// Proxy layout
	proxyLayout bool
	proxies     []*Widget
	proxyBinds  []bindRef // own geometry -> grandparent layout trigger
	placeholder *Widget
	dummies     []*Widget

	// Render cache
	cache *renderCache

	disposed bool
}

// widgetDefaults sets the common default field values shared by all constructors.
func widgetDefaults(w *Widget) {
	w.ID = nextWidgetID()
	w.Pos = Value[Vec2]{name: "pos"}
	w.Size = Value[Vec2]{name: "size", v: Vec2{100, 100}}
	w.SizeHint = Value[Hint]{name: "size_hint", v: Hint{1, 1}}
	w.SizeHintMin = Value[Vec2]{name: "size_hint_min", v: Vec2{Unset, Unset}}
	w.SizeHintMax = Value[Vec2]{name: "size_hint_max", v: Vec2{Unset, Unset}}
	w.PosHint = Value[PosHint]{name: "pos_hint", v: PosHintNone}
	w.ProxyCount = Value[int]{name: "proxy_count"}
	w.props.Register(&w.Pos)
	w.props.Register(&w.Size)
	w.props.Register(&w.SizeHint)
	w.props.Register(&w.SizeHintMin)
	w.props.Register(&w.SizeHintMax)
	w.props.Register(&w.PosHint)
	w.Canvas = &Canvas{owner: w}

	redraw := func(Vec2) { invalidateAncestorCache(w) }
	w.Pos.Bind(redraw)
	w.Size.Bind(redraw)
}

// NewWidget creates a plain widget.
func NewWidget(name string) *Widget {
	w := &Widget{Name: name, Type: WidgetTypeBasic}
	widgetDefaults(w)
	return w
}

// NewContainer creates a widget whose children are arranged by l.
func NewContainer(name string, l Layout) *Widget {
	w := NewWidget(name)
	w.SetLayout(l)
	return w
}

// Declare registers a plain named property on w and returns it. Animated
// properties use it for named duration and transition indirection.
func Declare[T comparable](w *Widget, name string, v T) *Value[T] {
	p := NewValue(name, v)
	w.props.Register(p)
	return p
}

// Properties returns the widget's property registry.
func (w *Widget) Properties() *PropertySet {
	return &w.props
}

// Bounds returns the widget rectangle.
func (w *Widget) Bounds() Rect {
	p, s := w.Pos.Get(), w.Size.Get()
	return Rect{X: p.X, Y: p.Y, Width: s.X, Height: s.Y}
}

// SetBounds sets position and size.
func (w *Widget) SetBounds(r Rect) {
	w.Pos.Set(Vec2{r.X, r.Y})
	w.Size.Set(Vec2{r.Width, r.Height})
}

// --- Tree manipulation ---

// AddChild appends child to this widget's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this widget (cycle).
//
// Adding a proxy to a proxy layout also tracks it; a WidgetTypeProxyDummy is
// tracked only and never becomes a visible child.
func (w *Widget) AddChild(child *Widget) {
	w.insertChild(child, -1)
}

// AddChildAt inserts child at the given index.
// Same reparenting and cycle-check behavior as AddChild.
func (w *Widget) AddChildAt(child *Widget, index int) {
	w.insertChild(child, index)
}

func (w *Widget) insertChild(child *Widget, index int) {
	if child == nil {
		panic("lattice: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(w, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, w) {
		panic("lattice: adding child would create a cycle")
	}
	limit := len(w.children)
	if child.Parent == w && w.childIndex(child) >= 0 {
		// Reinserting into the same parent shortens the list first.
		limit--
	}
	if index > limit {
		panic("lattice: child index out of range")
	}
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = w

	if w.proxyLayout && child.isProxy() {
		w.trackProxy(child)
		if child.Type == WidgetTypeProxyDummy {
			return
		}
	}

	if index < 0 {
		w.children = append(w.children, child)
	} else {
		w.children = append(w.children, nil)
		copy(w.children[index+1:], w.children[index:])
		w.children[index] = child
	}
	w.attachChild(child)
	w.childrenChanged()
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(w)
	}
}

// RemoveChild detaches child from this widget.
// Panics if child.Parent != w.
func (w *Widget) RemoveChild(child *Widget) {
	if globalDebug {
		debugCheckDisposed(w, "RemoveChild (parent)")
	}
	if child.Parent != w {
		panic("lattice: child's parent is not this widget")
	}
	child.Parent = nil

	if w.proxyLayout && child.isProxy() {
		w.untrackProxy(child)
		if child.Type == WidgetTypeProxyDummy {
			return
		}
	}

	w.removeChildByPtr(child)
	w.detachChild(child)
	w.childrenChanged()
}

// RemoveFromParent detaches this widget from its parent.
// No-op if this widget has no parent.
func (w *Widget) RemoveFromParent() {
	if w.Parent == nil {
		return
	}
	w.Parent.RemoveChild(w)
}

// RemoveChildren detaches all children, including tracked proxy dummies.
// Children are NOT disposed.
func (w *Widget) RemoveChildren() {
	for _, p := range append([]*Widget(nil), w.proxies...) {
		if p.Type == WidgetTypeProxyDummy {
			w.RemoveChild(p)
		}
	}
	for len(w.children) > 0 {
		w.RemoveChild(w.children[len(w.children)-1])
	}
}

// Children returns the visible child list in insertion order. The returned
// slice MUST NOT be mutated by the caller.
func (w *Widget) Children() []*Widget {
	return w.children
}

// NumChildren returns the number of visible children.
func (w *Widget) NumChildren() int {
	return len(w.children)
}

// ChildAt returns the child at the given index.
func (w *Widget) ChildAt(index int) *Widget {
	return w.children[index]
}

// OnChildren registers fn to be called with the child list whenever it changes.
func (w *Widget) OnChildren(fn func([]*Widget)) BindID {
	return w.childrenObs.add(fn)
}

// UnbindChildren removes an observer registered with OnChildren.
func (w *Widget) UnbindChildren(id BindID) bool {
	return w.childrenObs.remove(id)
}

// Walk visits w and its visible descendants depth-first in child order.
// Returning false from fn skips the visited widget's subtree.
func (w *Widget) Walk(fn func(*Widget) bool) {
	if !fn(w) {
		return
	}
	for _, c := range w.children {
		c.Walk(fn)
	}
}

func (w *Widget) childrenChanged() {
	w.childrenObs.notify(w.children)
	w.TriggerLayout()
	invalidateAncestorCache(w)
}

// --- Disposal ---

// Dispose removes this widget from its parent, marks it as disposed, and
// recursively disposes all descendants. Animations bound to a disposed widget
// stop on the next tick.
func (w *Widget) Dispose() {
	if w.disposed {
		return
	}
	w.RemoveFromParent()
	w.dispose()
}

func (w *Widget) dispose() {
	w.disposed = true
	w.ID = 0
	for _, child := range w.children {
		unbindAll(child.parentBinds)
		child.parentBinds = nil
		child.Parent = nil
		child.dispose()
	}
	for _, p := range w.proxies {
		unbindAll(p.proxyBinds)
		p.proxyBinds = nil
		if p.Type == WidgetTypeProxyDummy {
			p.Parent = nil
			p.dispose()
		}
	}
	w.SetRenderCache(false)
	unbindAll(w.selfBinds)
	w.selfBinds = nil
	w.children = nil
	w.proxies = nil
	w.dummies = nil
	w.placeholder = nil
	w.layout = nil
	w.Parent = nil
	w.Canvas.Clear()
	w.UserData = nil
}

// IsDisposed returns true if this widget has been disposed.
func (w *Widget) IsDisposed() bool {
	return w.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of w.
func isAncestor(candidate, w *Widget) bool {
	for p := w; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// childIndex returns the position of child in w.children, or -1.
func (w *Widget) childIndex(child *Widget) int {
	for i, c := range w.children {
		if c == child {
			return i
		}
	}
	return -1
}

// removeChildByPtr removes child from w.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (w *Widget) removeChildByPtr(child *Widget) {
	for i, c := range w.children {
		if c == child {
			copy(w.children[i:], w.children[i+1:])
			w.children[len(w.children)-1] = nil
			w.children = w.children[:len(w.children)-1]
			return
		}
	}
}

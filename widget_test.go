package lattice

import (
	"testing"
)

// --- Constructor defaults ---

func TestNewWidgetDefaults(t *testing.T) {
	w := NewWidget("test")
	assertWidgetDefaults(t, w, "test", WidgetTypeBasic)
	if w.Layout() != nil {
		t.Error("plain widget should have no layout")
	}
}

func TestNewProxyWidgetDefaults(t *testing.T) {
	w := NewProxyWidget("proxy")
	assertWidgetDefaults(t, w, "proxy", WidgetTypeProxy)
}

func TestNewContainerHasLayout(t *testing.T) {
	w := NewContainer("box", BoxLayout{})
	assertWidgetDefaults(t, w, "box", WidgetTypeBasic)
	if w.Layout() == nil {
		t.Error("container should have a layout")
	}
	if !w.LayoutPending() {
		t.Error("installing a layout should schedule a pass")
	}
}

func assertWidgetDefaults(t *testing.T, w *Widget, name string, typ WidgetType) {
	t.Helper()
	if w.ID == 0 {
		t.Error("ID should be non-zero")
	}
	if w.Name != name {
		t.Errorf("Name = %q, want %q", w.Name, name)
	}
	if w.Type != typ {
		t.Errorf("Type = %d, want %d", w.Type, typ)
	}
	if w.Size.Get() != (Vec2{100, 100}) {
		t.Errorf("Size = %v, want (100, 100)", w.Size.Get())
	}
	if w.SizeHint.Get() != (Hint{1, 1}) {
		t.Errorf("SizeHint = %v, want (1, 1)", w.SizeHint.Get())
	}
	if w.SizeHintMin.Get() != (Vec2{Unset, Unset}) || w.SizeHintMax.Get() != (Vec2{Unset, Unset}) {
		t.Error("min/max hints should be unset")
	}
	if w.PosHint.Get() != PosHintNone {
		t.Errorf("PosHint = %v, want none", w.PosHint.Get())
	}
	if w.Canvas == nil {
		t.Error("Canvas should be allocated")
	}
}

// --- Unique IDs ---

func TestUniqueIDs(t *testing.T) {
	a := NewWidget("a")
	b := NewWidget("b")
	c := NewProxyDummy("c", 1)
	if a.ID == b.ID || b.ID == c.ID || a.ID == c.ID {
		t.Errorf("IDs not unique: %d, %d, %d", a.ID, b.ID, c.ID)
	}
}

// --- Tree manipulation ---

func TestAddChildSetsParent(t *testing.T) {
	parent := NewWidget("parent")
	child := NewWidget("child")
	parent.AddChild(child)

	if child.Parent != parent {
		t.Error("child.Parent should be parent")
	}
	if parent.NumChildren() != 1 || parent.ChildAt(0) != child {
		t.Error("child not in parent's list")
	}
}

func TestAddChildReparents(t *testing.T) {
	a := NewWidget("a")
	b := NewWidget("b")
	child := NewWidget("child")

	a.AddChild(child)
	b.AddChild(child)

	if a.NumChildren() != 0 {
		t.Errorf("old parent still has %d children", a.NumChildren())
	}
	if child.Parent != b {
		t.Error("child.Parent should be b")
	}
}

func TestAddChildAtInsertsInOrder(t *testing.T) {
	p := NewWidget("p")
	a, b, c := NewWidget("a"), NewWidget("b"), NewWidget("c")
	p.AddChild(a)
	p.AddChild(c)
	p.AddChildAt(b, 1)

	for i, want := range []*Widget{a, b, c} {
		if p.ChildAt(i) != want {
			t.Errorf("ChildAt(%d) = %q, want %q", i, p.ChildAt(i).Name, want.Name)
		}
	}
}

func TestAddChildPanics(t *testing.T) {
	root := NewWidget("root")
	mid := NewWidget("mid")
	root.AddChild(mid)

	cases := map[string]func(){
		"nil":   func() { root.AddChild(nil) },
		"self":  func() { root.AddChild(root) },
		"cycle": func() { mid.AddChild(root) },
		"index": func() { root.AddChildAt(NewWidget("x"), 5) },
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			fn()
		})
	}
}

func TestAddChildAtBadIndexKeepsParent(t *testing.T) {
	old := NewWidget("old")
	dst := NewWidget("dst")
	child := NewWidget("child")
	old.AddChild(child)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic")
			}
		}()
		dst.AddChildAt(child, 3)
	}()

	if child.Parent != old || old.NumChildren() != 1 || dst.NumChildren() != 0 {
		t.Errorf("child moved despite the bad index: parent=%v", child.Parent)
	}
}

func TestAddChildAtSameParentLastIndex(t *testing.T) {
	p := NewWidget("p")
	a, b := NewWidget("a"), NewWidget("b")
	p.AddChild(a)
	p.AddChild(b)

	p.AddChildAt(a, 1)
	if p.ChildAt(0) != b || p.ChildAt(1) != a {
		t.Errorf("order = %q, %q, want b, a", p.ChildAt(0).Name, p.ChildAt(1).Name)
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected panic for index past the end")
			}
		}()
		p.AddChildAt(a, 2)
	}()
	if a.Parent != p || p.NumChildren() != 2 {
		t.Error("a should stay in p")
	}
}

func TestRemoveChildWrongParentPanics(t *testing.T) {
	a := NewWidget("a")
	stray := NewWidget("stray")
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	a.RemoveChild(stray)
}

func TestRemoveFromParent(t *testing.T) {
	p := NewWidget("p")
	c := NewWidget("c")
	p.AddChild(c)
	c.RemoveFromParent()
	c.RemoveFromParent()

	if c.Parent != nil || p.NumChildren() != 0 {
		t.Error("child should be detached")
	}
}

func TestRemoveChildren(t *testing.T) {
	p := NewWidget("p")
	kids := []*Widget{NewWidget("a"), NewWidget("b"), NewWidget("c")}
	for _, k := range kids {
		p.AddChild(k)
	}
	p.RemoveChildren()

	if p.NumChildren() != 0 {
		t.Errorf("NumChildren = %d, want 0", p.NumChildren())
	}
	for _, k := range kids {
		if k.Parent != nil {
			t.Errorf("%s still has a parent", k.Name)
		}
		if k.IsDisposed() {
			t.Errorf("%s should not be disposed", k.Name)
		}
	}
}

func TestOnChildrenNotified(t *testing.T) {
	p := NewWidget("p")
	var lens []int
	id := p.OnChildren(func(c []*Widget) { lens = append(lens, len(c)) })

	a := NewWidget("a")
	p.AddChild(a)
	p.AddChild(NewWidget("b"))
	p.RemoveChild(a)
	p.UnbindChildren(id)
	p.AddChild(NewWidget("c"))

	want := []int{1, 2, 1}
	if len(lens) != len(want) {
		t.Fatalf("notifications = %v, want %v", lens, want)
	}
	for i := range want {
		if lens[i] != want[i] {
			t.Errorf("notifications = %v, want %v", lens, want)
			break
		}
	}
}

func TestWalkOrderAndSkip(t *testing.T) {
	root := NewWidget("root")
	a := NewWidget("a")
	a1 := NewWidget("a1")
	b := NewWidget("b")
	b1 := NewWidget("b1")
	root.AddChild(a)
	a.AddChild(a1)
	root.AddChild(b)
	b.AddChild(b1)

	var got []string
	root.Walk(func(w *Widget) bool {
		got = append(got, w.Name)
		return w != b
	})

	want := []string{"root", "a", "a1", "b"}
	if len(got) != len(want) {
		t.Fatalf("walk = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("walk = %v, want %v", got, want)
		}
	}
}

func TestBoundsRoundTrip(t *testing.T) {
	w := NewWidget("w")
	r := Rect{X: 3, Y: 4, Width: 50, Height: 60}
	w.SetBounds(r)
	if w.Bounds() != r {
		t.Errorf("Bounds = %v, want %v", w.Bounds(), r)
	}
}

// --- Disposal ---

func TestDisposeRecursive(t *testing.T) {
	root := NewWidget("root")
	p := NewWidget("p")
	c := NewWidget("c")
	root.AddChild(p)
	p.AddChild(c)

	p.Dispose()

	if !p.IsDisposed() || !c.IsDisposed() {
		t.Error("widget and descendants should be disposed")
	}
	if root.NumChildren() != 0 {
		t.Error("disposed widget should be removed from its parent")
	}
	if c.Parent != nil {
		t.Error("descendant should lose its parent")
	}
	p.Dispose()
}

func TestDisposedDebugPanics(t *testing.T) {
	s := NewScene(100, 100)
	s.SetDebugMode(true)
	defer s.SetDebugMode(false)

	w := NewWidget("gone")
	w.Dispose()

	defer func() {
		if recover() == nil {
			t.Error("expected panic adding a disposed widget in debug mode")
		}
	}()
	s.Root().AddChild(w)
}

func TestDisposeStopsLayoutForwarding(t *testing.T) {
	p := NewContainer("p", BoxLayout{})
	c := NewWidget("c")
	p.AddChild(c)
	p.DoLayout()

	c.Dispose()
	p.DoLayout()
	c.SizeHint.Set(Hint{0.5, 0.5})
	if p.LayoutPending() {
		t.Error("disposed child should not trigger its old parent")
	}
}

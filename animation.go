package lattice

import (
	"fmt"

	"github.com/tanema/gween"
)

// AnimatedProperty is the shared declaration of an animated widget property:
// its name, default value, where its duration and transition come from, and
// how two values are interpolated. It is a schema; per-widget state lives in
// the Animated returned by Bind.
type AnimatedProperty[T comparable] struct {
	name       string
	def        T
	duration   durationSource
	transition transitionSource
	lerp       func(a, b T, t float64) T
}

// durationSource is a literal number of seconds, or the name of a float64
// property on the owning widget read at assignment time.
type durationSource struct {
	seconds float64
	from    string
}

// transitionSource is a literal Transition, or the name of a string property
// on the owning widget holding a transition name.
type transitionSource struct {
	fn   Transition
	from string
}

type animatedConfig struct {
	duration   durationSource
	transition transitionSource
	lerp       any
}

// AnimatedOption configures an AnimatedProperty.
type AnimatedOption func(*animatedConfig)

// WithDuration sets a literal duration in seconds.
func WithDuration(seconds float64) AnimatedOption {
	return func(c *animatedConfig) { c.duration = durationSource{seconds: seconds} }
}

// WithDurationFrom reads the duration from the named float64 property of the
// owning widget every time the property is assigned.
func WithDurationFrom(name string) AnimatedOption {
	return func(c *animatedConfig) { c.duration = durationSource{from: name} }
}

// WithTransition sets a literal transition.
func WithTransition(fn Transition) AnimatedOption {
	return func(c *animatedConfig) { c.transition = transitionSource{fn: fn} }
}

// WithTransitionFrom reads the transition name (see TransitionByName) from the
// named string property of the owning widget when an animation starts.
func WithTransitionFrom(name string) AnimatedOption {
	return func(c *animatedConfig) { c.transition = transitionSource{from: name} }
}

// WithLerp sets the interpolation function. Float64, Color and Vec2
// properties have one built in.
func WithLerp[T any](fn func(a, b T, t float64) T) AnimatedOption {
	return func(c *animatedConfig) { c.lerp = fn }
}

// NewAnimatedProperty declares an animated property. A negative literal
// duration returns ErrNegativeDuration.
func NewAnimatedProperty[T comparable](name string, def T, opts ...AnimatedOption) (*AnimatedProperty[T], error) {
	var c animatedConfig
	for _, opt := range opts {
		opt(&c)
	}
	if c.duration.from == "" && c.duration.seconds < 0 {
		return nil, fmt.Errorf("%w: %q declared with %g", ErrNegativeDuration, name, c.duration.seconds)
	}
	if c.lerp == nil {
		c.lerp = builtinLerp(def)
	}
	lerp, ok := c.lerp.(func(a, b T, t float64) T)
	if !ok {
		return nil, fmt.Errorf("%w: %q of type %T", ErrNoLerp, name, def)
	}
	return &AnimatedProperty[T]{
		name:       name,
		def:        def,
		duration:   c.duration,
		transition: c.transition,
		lerp:       lerp,
	}, nil
}

// MustAnimatedProperty is like NewAnimatedProperty but panics on error. Use it
// for package-level declarations.
func MustAnimatedProperty[T comparable](name string, def T, opts ...AnimatedOption) *AnimatedProperty[T] {
	p, err := NewAnimatedProperty(name, def, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Name returns the declared property name.
func (d *AnimatedProperty[T]) Name() string { return d.name }

// Default returns the declared default value.
func (d *AnimatedProperty[T]) Default() T { return d.def }

// Bind creates the per-widget state for this property, registers it on
// owner's PropertySet and returns it. Animations are driven by anim; with a
// nil anim every assignment applies immediately.
func (d *AnimatedProperty[T]) Bind(owner *Widget, anim *Animator) *Animated[T] {
	a := &Animated[T]{desc: d, owner: owner, anim: anim}
	a.Value = Value[T]{name: d.name, v: d.def}
	if owner != nil {
		owner.props.Register(a)
	}
	return a
}

func (d *AnimatedProperty[T]) resolveDuration(owner *Widget) float64 {
	if d.duration.from == "" {
		return d.duration.seconds
	}
	if owner == nil {
		panic(fmt.Errorf("%w: %q needs an owner to resolve duration %q", ErrUnknownProperty, d.name, d.duration.from))
	}
	v, err := owner.props.floatProperty(d.duration.from)
	if err != nil {
		panic(fmt.Errorf("duration of %q: %w", d.name, err))
	}
	return v
}

func (d *AnimatedProperty[T]) resolveTransition(owner *Widget) Transition {
	if d.transition.from == "" {
		if d.transition.fn == nil {
			return Linear
		}
		return d.transition.fn
	}
	if owner == nil {
		panic(fmt.Errorf("%w: %q needs an owner to resolve transition %q", ErrUnknownProperty, d.name, d.transition.from))
	}
	name, err := owner.props.stringProperty(d.transition.from)
	if err != nil {
		panic(fmt.Errorf("transition of %q: %w", d.name, err))
	}
	fn, err := TransitionByName(name)
	if err != nil {
		panic(fmt.Errorf("transition of %q: %w", d.name, err))
	}
	return fn
}

// SetOption adjusts a single assignment.
type SetOption func(*setOptions)

type setOptions struct {
	override bool
	duration float64
}

// OverrideDuration animates this assignment over seconds instead of the
// declared duration.
func OverrideDuration(seconds float64) SetOption {
	return func(o *setOptions) {
		o.override = true
		o.duration = seconds
	}
}

// Immediate applies this assignment without animating.
func Immediate() SetOption {
	return OverrideDuration(0)
}

// Animated is the per-widget state of an AnimatedProperty. Get returns the
// settled value, which is the live interpolated value while an animation runs.
// Observers bound with Bind see every interpolated step.
type Animated[T comparable] struct {
	Value[T]

	desc  *AnimatedProperty[T]
	owner *Widget
	anim  *Animator
	task  *animationTask[T]
}

// Set requests v, animating towards it when the resolved duration is positive.
func (a *Animated[T]) Set(v T) {
	a.SetWith(v)
}

// SetWith is Set with per-assignment options.
//
// Assigning the settled value only notifies observers; a running animation
// keeps heading to its target. Any other value retargets a running animation
// in place, continuing from the current interpolated value.
func (a *Animated[T]) SetWith(v T, opts ...SetOption) {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	if v == a.Value.Get() {
		a.Value.Dispatch()
		return
	}

	duration := o.duration
	if !o.override {
		duration = a.desc.resolveDuration(a.owner)
	}
	if duration <= 0 || a.anim == nil {
		a.Apply(v)
		return
	}
	transition := a.desc.resolveTransition(a.owner)

	if a.task != nil {
		a.task.reset(a.Value.Get(), v, duration, transition)
		return
	}
	t := &animationTask[T]{prop: a}
	t.reset(a.Value.Get(), v, duration, transition)
	a.task = t
	a.anim.add(t)
}

// Apply cancels any running animation and sets v immediately.
func (a *Animated[T]) Apply(v T) {
	a.Cancel()
	a.Value.Set(v)
}

// SetAny applies v immediately after a type check. Used when restoring
// settings.
func (a *Animated[T]) SetAny(v any) error {
	tv, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: %q holds %T, got %T", ErrPropertyType, a.desc.name, a.Value.Get(), v)
	}
	a.Apply(tv)
	return nil
}

// Cancel stops a running animation, leaving the settled value where it is.
func (a *Animated[T]) Cancel() {
	if a.task == nil {
		return
	}
	t := a.task
	a.task = nil
	a.anim.remove(t)
}

// Animating reports whether an animation is in flight.
func (a *Animated[T]) Animating() bool {
	return a.task != nil
}

// Target returns the value the property is heading to: the animation target
// while animating, otherwise the settled value.
func (a *Animated[T]) Target() T {
	if a.task != nil {
		return a.task.target
	}
	return a.Value.Get()
}

// Owner returns the widget this state is bound to.
func (a *Animated[T]) Owner() *Widget {
	return a.owner
}

// animationTask interpolates one Animated from start to target. The gween
// tween runs from 0 to 1 and supplies eased progress; elapsed time is kept in
// float64 so completion is exact.
type animationTask[T comparable] struct {
	prop     *Animated[T]
	start    T
	target   T
	elapsed  float64
	duration float64
	tween    *gween.Tween
}

func (t *animationTask[T]) reset(start, target T, duration float64, tr Transition) {
	t.start = start
	t.target = target
	t.elapsed = 0
	t.duration = duration
	t.tween = gween.New(0, 1, float32(duration), tr.tweenFunc())
}

func (t *animationTask[T]) property() Property { return t.prop }

// advance moves the task forward by dt and reports whether it finished.
func (t *animationTask[T]) advance(dt float64) bool {
	p := t.prop
	if p.owner != nil && p.owner.IsDisposed() {
		p.task = nil
		return true
	}
	t.elapsed += dt
	if t.elapsed >= t.duration-completionEpsilon*max(1, t.duration) {
		// Clear first so observers reacting to the final value may start a
		// new animation.
		p.task = nil
		p.Value.Set(t.target)
		return true
	}
	eased, _ := t.tween.Set(float32(t.elapsed))
	p.Value.Set(p.desc.lerp(t.start, t.target, float64(eased)))
	return false
}

// completionEpsilon absorbs the rounding of summed tick lengths, so ten 0.1s
// ticks finish a 1s animation.
const completionEpsilon = 1e-9

type ticker interface {
	advance(dt float64) bool
	property() Property
}

// Animator owns the live animation tasks and advances them once per tick.
// Each Animated holds at most one task, and a retarget reuses it, so the table
// never holds two tasks for the same property.
//
// Scene ticks its Animator from Update; standalone users call Update
// themselves.
type Animator struct {
	tasks   []ticker
	ticking bool
}

// NewAnimator returns an empty animator.
func NewAnimator() *Animator {
	return &Animator{}
}

// Update advances every live task by dt seconds. Tasks started while the tick
// runs are first advanced on the next tick.
func (a *Animator) Update(dt float64) {
	a.ticking = true
	n := len(a.tasks)
	for i := 0; i < n; i++ {
		t := a.tasks[i]
		if t == nil {
			continue
		}
		if t.advance(dt) {
			a.tasks[i] = nil
		}
	}
	a.ticking = false
	a.compact()
}

// Len returns the number of live tasks.
func (a *Animator) Len() int {
	n := 0
	for _, t := range a.tasks {
		if t != nil {
			n++
		}
	}
	return n
}

// Contains reports whether p has a live task.
func (a *Animator) Contains(p Property) bool {
	for _, t := range a.tasks {
		if t != nil && t.property() == p {
			return true
		}
	}
	return false
}

func (a *Animator) add(t ticker) {
	a.tasks = append(a.tasks, t)
}

func (a *Animator) remove(t ticker) {
	for i, c := range a.tasks {
		if c == t {
			a.tasks[i] = nil
			break
		}
	}
	if !a.ticking {
		a.compact()
	}
}

func (a *Animator) compact() {
	live := a.tasks[:0]
	for _, t := range a.tasks {
		if t != nil {
			live = append(live, t)
		}
	}
	clear(a.tasks[len(live):])
	a.tasks = live
}

// LerpFloat interpolates linearly between a and b.
func LerpFloat(a, b, t float64) float64 {
	return a + (b-a)*t
}

// LerpVec2 interpolates both components linearly.
func LerpVec2(a, b Vec2, t float64) Vec2 {
	return Vec2{X: LerpFloat(a.X, b.X, t), Y: LerpFloat(a.Y, b.Y, t)}
}

// LerpColor interpolates all four components linearly.
func LerpColor(a, b Color, t float64) Color {
	return Color{
		R: LerpFloat(a.R, b.R, t),
		G: LerpFloat(a.G, b.G, t),
		B: LerpFloat(a.B, b.B, t),
		A: LerpFloat(a.A, b.A, t),
	}
}

func builtinLerp(def any) any {
	switch def.(type) {
	case float64:
		return LerpFloat
	case Vec2:
		return LerpVec2
	case Color:
		return LerpColor
	}
	return nil
}

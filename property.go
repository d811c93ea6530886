package lattice

import (
	"fmt"
	"slices"

	"go.uber.org/multierr"
)

// BindID identifies an observer registered with Bind. Zero is never issued.
type BindID uint32

type observer[T any] struct {
	id BindID
	fn func(T)
}

// observers is an ordered callback list. Removal replaces the backing slice so
// a notification already in progress keeps iterating over its snapshot.
type observers[T any] struct {
	list []observer[T]
	next BindID
}

func (o *observers[T]) add(fn func(T)) BindID {
	o.next++
	o.list = append(o.list, observer[T]{id: o.next, fn: fn})
	return o.next
}

func (o *observers[T]) remove(id BindID) bool {
	for i, ob := range o.list {
		if ob.id == id {
			o.list = slices.Concat(o.list[:i], o.list[i+1:])
			return true
		}
	}
	return false
}

func (o *observers[T]) notify(v T) {
	for _, ob := range o.list {
		ob.fn(v)
	}
}

// Property is the untyped view of a named widget property. It backs named
// indirection (an animated property reading its duration off a sibling) and
// settings snapshots.
type Property interface {
	Name() string
	Any() any
	SetAny(v any) error
}

// Value is an observable property. The zero value is ready to use.
//
// Set stores the value and notifies observers when it differs from the
// current one; Dispatch notifies unconditionally.
type Value[T comparable] struct {
	name  string
	v     T
	obs   observers[T]
	check func(T) error // rejects values the property must never hold
}

// NewValue returns a named value holding v.
func NewValue[T comparable](name string, v T) *Value[T] {
	return &Value[T]{name: name, v: v}
}

// Name returns the property name, or "" for anonymous values.
func (p *Value[T]) Name() string { return p.name }

// Get returns the settled value.
func (p *Value[T]) Get() T { return p.v }

// Any returns the settled value boxed as any.
func (p *Value[T]) Any() any { return p.v }

// Set stores v and notifies observers if it changed. Values rejected by the
// property's validation panic before anything is stored.
func (p *Value[T]) Set(v T) {
	if p.v == v {
		return
	}
	if p.check != nil {
		if err := p.check(v); err != nil {
			panic(err)
		}
	}
	p.v = v
	p.obs.notify(v)
}

// SetAny stores v after a type check and validation.
func (p *Value[T]) SetAny(v any) error {
	tv, ok := v.(T)
	if !ok {
		return fmt.Errorf("%w: %q holds %T, got %T", ErrPropertyType, p.name, p.v, v)
	}
	if p.check != nil {
		if err := p.check(tv); err != nil {
			return err
		}
	}
	p.Set(tv)
	return nil
}

// Dispatch notifies observers with the current value without changing it.
func (p *Value[T]) Dispatch() {
	p.obs.notify(p.v)
}

// Bind registers fn to be called with the new value on every change.
func (p *Value[T]) Bind(fn func(T)) BindID {
	return p.obs.add(fn)
}

// Unbind removes an observer. It reports whether id was registered.
func (p *Value[T]) Unbind(id BindID) bool {
	return p.obs.remove(id)
}

// PropertySet is a widget's registry of named properties, in registration order.
type PropertySet struct {
	byName map[string]Property
	order  []Property
}

// Register adds p under p.Name(). Panics on an empty or duplicate name.
func (s *PropertySet) Register(p Property) {
	name := p.Name()
	if name == "" {
		panic("lattice: cannot register anonymous property")
	}
	if s.byName == nil {
		s.byName = make(map[string]Property)
	}
	if _, dup := s.byName[name]; dup {
		panic(fmt.Sprintf("lattice: property %q already registered", name))
	}
	s.byName[name] = p
	s.order = append(s.order, p)
}

// Lookup returns the property registered under name.
func (s *PropertySet) Lookup(name string) (Property, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Names returns the registered names in registration order.
func (s *PropertySet) Names() []string {
	names := make([]string, len(s.order))
	for i, p := range s.order {
		names[i] = p.Name()
	}
	return names
}

// Snapshot returns the settled value of every registered property.
func (s *PropertySet) Snapshot() map[string]any {
	out := make(map[string]any, len(s.order))
	for _, p := range s.order {
		out[p.Name()] = p.Any()
	}
	return out
}

// Restore assigns values by name. Unknown names and type mismatches are
// reported; the remaining values are still applied.
func (s *PropertySet) Restore(values map[string]any) error {
	var errs []error
	for _, p := range s.order {
		v, ok := values[p.Name()]
		if !ok {
			continue
		}
		if err := p.SetAny(v); err != nil {
			errs = append(errs, err)
		}
	}
	for name := range values {
		if _, ok := s.byName[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownProperty, name))
		}
	}
	return multierr.Combine(errs...)
}

// floatProperty resolves name to a float64-valued property.
func (s *PropertySet) floatProperty(name string) (float64, error) {
	p, ok := s.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	v, ok := p.Any().(float64)
	if !ok {
		return 0, fmt.Errorf("%w: %q holds %T, want float64", ErrPropertyType, name, p.Any())
	}
	return v, nil
}

// stringProperty resolves name to a string-valued property.
func (s *PropertySet) stringProperty(name string) (string, error) {
	p, ok := s.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	v, ok := p.Any().(string)
	if !ok {
		return "", fmt.Errorf("%w: %q holds %T, want string", ErrPropertyType, name, p.Any())
	}
	return v, nil
}

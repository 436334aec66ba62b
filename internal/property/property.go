// Package property implements the typed, name-keyed field tables that let the
// animation layer read and write object fields without knowing the concrete
// type.
//
// Each resource type declares one Set at package init:
//
//	var spriteProps = property.NewSet("Sprite",
//		property.FloatProp("Opacity", (*Sprite).Opacity, (*Sprite).SetOpacity),
//		property.Vec3Prop("Position", (*Sprite).Position, (*Sprite).SetPosition),
//	)
//
// Set.Get binds one property to a live object and returns an Accessor, a
// short-lived view that owns nothing and needs no cleanup.
package property

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/logging"
)

// Property is one declared field of type T: a name, a value tag and boxed
// accessor functions. A nil setter makes the property read-only.
type Property[T any] struct {
	name  string
	class string
	typ   Type
	get   func(T) Value
	set   func(T, Value)
}

// Name returns the declared name.
func (p *Property[T]) Name() string { return p.name }

// Type returns the declared value tag.
func (p *Property[T]) Type() Type { return p.typ }

// ReadOnly reports whether the property has no setter.
func (p *Property[T]) ReadOnly() bool { return p.set == nil }

// binding is the type-erased view used by Accessor.
type binding interface {
	propName() string
	propClass() string
	propType() Type
	readOnly() bool
	load(target any) Value
	store(target any, v Value)
}

func (p *Property[T]) propName() string  { return p.name }
func (p *Property[T]) propClass() string { return p.class }
func (p *Property[T]) propType() Type    { return p.typ }
func (p *Property[T]) readOnly() bool    { return p.set == nil }

func (p *Property[T]) load(target any) Value {
	return p.get(target.(T))
}

func (p *Property[T]) store(target any, v Value) {
	p.set(target.(T), v)
}

func declare[T any, V any](name string, typ Type, get func(T) V, set func(T, V), box func(V) Value, unbox func(Value) V) *Property[T] {
	if get == nil {
		panic(fmt.Sprintf("property: %q declared without getter", name))
	}
	p := &Property[T]{
		name: name,
		typ:  typ,
		get:  func(t T) Value { return box(get(t)) },
	}
	if set != nil {
		p.set = func(t T, v Value) { set(t, unbox(v)) }
	}
	return p
}

// Typed declarations. Each wraps a getter/setter pair of the concrete field type.

func FloatProp[T any](name string, get func(T) float32, set func(T, float32)) *Property[T] {
	return declare(name, TypeFloat, get, set, Float, Value.AsFloat)
}

func IntProp[T any](name string, get func(T) int32, set func(T, int32)) *Property[T] {
	return declare(name, TypeInt, get, set, Int, Value.AsInt)
}

func BoolProp[T any](name string, get func(T) bool, set func(T, bool)) *Property[T] {
	return declare(name, TypeBool, get, set, Bool, Value.AsBool)
}

func Vec2Prop[T any](name string, get func(T) core.Vec2, set func(T, core.Vec2)) *Property[T] {
	return declare(name, TypeVec2, get, set, Vec2, Value.AsVec2)
}

func Vec3Prop[T any](name string, get func(T) core.Vec3, set func(T, core.Vec3)) *Property[T] {
	return declare(name, TypeVec3, get, set, Vec3, Value.AsVec3)
}

func Vec4Prop[T any](name string, get func(T) core.Vec4, set func(T, core.Vec4)) *Property[T] {
	return declare(name, TypeVec4, get, set, Vec4, Value.AsVec4)
}

func IVec2Prop[T any](name string, get func(T) core.IVec2, set func(T, core.IVec2)) *Property[T] {
	return declare(name, TypeIVec2, get, set, IVec2, Value.AsIVec2)
}

func IVec3Prop[T any](name string, get func(T) core.IVec3, set func(T, core.IVec3)) *Property[T] {
	return declare(name, TypeIVec3, get, set, IVec3, Value.AsIVec3)
}

func IVec4Prop[T any](name string, get func(T) core.IVec4, set func(T, core.IVec4)) *Property[T] {
	return declare(name, TypeIVec4, get, set, IVec4, Value.AsIVec4)
}

func ColorProp[T any](name string, get func(T) core.Color, set func(T, core.Color)) *Property[T] {
	return declare(name, TypeColor, get, set, Color, Value.AsColor)
}

// Set is the per-type property table.
type Set[T any] struct {
	class string
	props map[string]*Property[T]
	names []string
}

// NewSet builds the table for one type. It is meant to run at package init;
// a duplicate name is a declaration bug and panics.
func NewSet[T any](class string, props ...*Property[T]) *Set[T] {
	s := &Set[T]{
		class: class,
		props: make(map[string]*Property[T], len(props)),
		names: make([]string, 0, len(props)),
	}
	for _, p := range props {
		if _, exists := s.props[p.name]; exists {
			panic(fmt.Sprintf("property: %s.%s declared twice", class, p.name))
		}
		p.class = class
		s.props[p.name] = p
		s.names = append(s.names, p.name)
	}
	sort.Strings(s.names)
	return s
}

// Class returns the type name the set was declared for.
func (s *Set[T]) Class() string { return s.class }

// Names returns the declared property names, sorted.
func (s *Set[T]) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of declared properties.
func (s *Set[T]) Len() int { return len(s.props) }

// Lookup returns the declaration for name.
func (s *Set[T]) Lookup(name string) (*Property[T], bool) {
	p, ok := s.props[name]
	return p, ok
}

// Get binds the named property to obj.
func (s *Set[T]) Get(obj T, name string) (Accessor, error) {
	p, ok := s.props[name]
	if !ok {
		logging.New("property").Error("unknown property", "class", s.class, "name", name)
		return Accessor{}, errs.NotFound(s.class+".GetProperty", name)
	}
	return Accessor{prop: p, target: obj}, nil
}

// Snapshot reads every property of obj. Properties whose getter fails are
// skipped.
func (s *Set[T]) Snapshot(obj T) map[string]Value {
	out := make(map[string]Value, len(s.props))
	for _, name := range s.names {
		a := Accessor{prop: s.props[name], target: obj}
		if v, err := a.Get(); err == nil {
			out[name] = v
		}
	}
	return out
}

// Descriptor describes one declared property, for listings.
type Descriptor struct {
	Name     string
	Type     Type
	ReadOnly bool
}

// Describe lists the declared properties in name order.
func (s *Set[T]) Describe() []Descriptor {
	out := make([]Descriptor, 0, len(s.names))
	for _, name := range s.names {
		p := s.props[name]
		out = append(out, Descriptor{Name: p.name, Type: p.typ, ReadOnly: p.set == nil})
	}
	return out
}

package property

import (
	"fmt"

	"github.com/vovakirdan/zengine/internal/core"
)

// Type tags the value kind of a property.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeFloat
	TypeInt
	TypeBool
	TypeVec2
	TypeVec3
	TypeVec4
	TypeIVec2
	TypeIVec3
	TypeIVec4
	TypeColor
)

var typeNames = [...]string{
	TypeInvalid: "invalid",
	TypeFloat:   "float",
	TypeInt:     "int",
	TypeBool:    "bool",
	TypeVec2:    "vec2",
	TypeVec3:    "vec3",
	TypeVec4:    "vec4",
	TypeIVec2:   "ivec2",
	TypeIVec3:   "ivec3",
	TypeIVec4:   "ivec4",
	TypeColor:   "color",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

// ParseType converts a type name ("vec3") back to a Type.
func ParseType(s string) (Type, bool) {
	for i, n := range typeNames {
		if n == s && Type(i) != TypeInvalid {
			return Type(i), true
		}
	}
	return TypeInvalid, false
}

// Width returns the number of float components of a tweenable type,
// or 0 for Int, Bool and the integer vectors.
func (t Type) Width() int {
	switch t {
	case TypeFloat:
		return 1
	case TypeVec2:
		return 2
	case TypeVec3:
		return 3
	case TypeVec4, TypeColor:
		return 4
	default:
		return 0
	}
}

// Value is a tagged union over the property value set.
type Value struct {
	typ Type
	f   [4]float32
	i   [4]int32
	b   bool
}

// Type returns the tag.
func (v Value) Type() Type { return v.typ }

func Float(f float32) Value { return Value{typ: TypeFloat, f: [4]float32{f}} }

func Int(i int32) Value { return Value{typ: TypeInt, i: [4]int32{i}} }

func Bool(b bool) Value { return Value{typ: TypeBool, b: b} }

func Vec2(v core.Vec2) Value { return Value{typ: TypeVec2, f: [4]float32{v.X, v.Y}} }

func Vec3(v core.Vec3) Value { return Value{typ: TypeVec3, f: [4]float32{v.X, v.Y, v.Z}} }

func Vec4(v core.Vec4) Value { return Value{typ: TypeVec4, f: v.Components()} }

func IVec2(v core.IVec2) Value { return Value{typ: TypeIVec2, i: [4]int32{v.X, v.Y}} }

func IVec3(v core.IVec3) Value { return Value{typ: TypeIVec3, i: [4]int32{v.X, v.Y, v.Z}} }

func IVec4(v core.IVec4) Value { return Value{typ: TypeIVec4, i: [4]int32{v.X, v.Y, v.Z, v.W}} }

func Color(c core.Color) Value { return Value{typ: TypeColor, f: c.Components()} }

// FromComponents builds a float-backed value of type t from raw components.
// Types without float components yield an invalid value.
func FromComponents(t Type, c [4]float32) Value {
	if t.Width() == 0 {
		return Value{}
	}
	v := Value{typ: t}
	copy(v.f[:t.Width()], c[:t.Width()])
	return v
}

// Components returns the float components; unused trailing slots are zero.
func (v Value) Components() [4]float32 { return v.f }

// The raw views below do not check the tag; Accessor does that.

func (v Value) AsFloat() float32       { return v.f[0] }
func (v Value) AsInt() int32           { return v.i[0] }
func (v Value) AsBool() bool           { return v.b }
func (v Value) AsVec2() core.Vec2      { return core.Vec2{X: v.f[0], Y: v.f[1]} }
func (v Value) AsVec3() core.Vec3      { return core.Vec3{X: v.f[0], Y: v.f[1], Z: v.f[2]} }
func (v Value) AsVec4() core.Vec4      { return core.Vec4From(v.f) }
func (v Value) AsIVec2() core.IVec2    { return core.IVec2{X: v.i[0], Y: v.i[1]} }
func (v Value) AsIVec3() core.IVec3    { return core.IVec3{X: v.i[0], Y: v.i[1], Z: v.i[2]} }
func (v Value) AsIVec4() core.IVec4    { return core.IVec4{X: v.i[0], Y: v.i[1], Z: v.i[2], W: v.i[3]} }
func (v Value) AsColor() core.Color    { return core.ColorFrom(v.f) }
func (v Value) hasNaN() bool           { return core.HasNaN(v.f[:]...) }
func (v Value) isFloatBacked() bool    { return v.typ.Width() > 0 }
func (v Value) floatSlice() []float32  { return v.f[:v.typ.Width()] }
func (v Value) intSlice(n int) []int32 { return v.i[:n] }

// String formats the value for inspection output.
func (v Value) String() string {
	switch v.typ {
	case TypeFloat:
		return fmt.Sprintf("%g", v.f[0])
	case TypeInt:
		return fmt.Sprintf("%d", v.i[0])
	case TypeBool:
		return fmt.Sprintf("%t", v.b)
	case TypeVec2, TypeVec3, TypeVec4, TypeColor:
		return fmt.Sprintf("%v", v.floatSlice())
	case TypeIVec2:
		return fmt.Sprintf("%v", v.intSlice(2))
	case TypeIVec3:
		return fmt.Sprintf("%v", v.intSlice(3))
	case TypeIVec4:
		return fmt.Sprintf("%v", v.intSlice(4))
	default:
		return "<invalid>"
	}
}

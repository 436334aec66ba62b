package property

import (
	"fmt"

	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/debug"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/logging"
)

// Accessor is a non-owning view of one property on one live object.
// It is only valid while the object is; callers that keep a binding across
// frames keep the handle and re-resolve the accessor through it.
//
// Typed getters and setters check the declared Type. A mismatch is a
// contract violation: it is logged, trapped in debug builds, and otherwise
// returns the zero value with an InvalidArgument error.
type Accessor struct {
	prop   binding
	target any
}

// Valid reports whether the accessor is bound.
func (a Accessor) Valid() bool { return a.prop != nil }

// Name returns the property name.
func (a Accessor) Name() string {
	if a.prop == nil {
		return ""
	}
	return a.prop.propName()
}

// Class returns the declaring type's name.
func (a Accessor) Class() string {
	if a.prop == nil {
		return ""
	}
	return a.prop.propClass()
}

// Type returns the declared value tag.
func (a Accessor) Type() Type {
	if a.prop == nil {
		return TypeInvalid
	}
	return a.prop.propType()
}

// ReadOnly reports whether the property rejects writes.
func (a Accessor) ReadOnly() bool {
	return a.prop == nil || a.prop.readOnly()
}

func (a Accessor) op(verb string) string {
	return fmt.Sprintf("%s.%s.%s", a.Class(), a.Name(), verb)
}

func (a Accessor) check(verb string, want Type) error {
	if a.prop == nil {
		logging.New("property").Error("unbound accessor", "op", verb)
		return errs.NullPointer("property."+verb, "accessor")
	}
	if want != TypeInvalid && a.prop.propType() != want {
		logging.New("property").Error("property type mismatch",
			"class", a.Class(), "name", a.Name(), "declared", a.Type(), "requested", want)
		debug.Trap("%s: declared %s, accessed as %s", a.op(verb), a.Type(), want)
		return errs.New(a.op(verb), errs.CodeInvalidArgument).
			Detail("declared %s, accessed as %s", a.Type(), want).
			Build()
	}
	return nil
}

// recovered converts a panic raised by a getter or setter into an
// AccessDenied error. Debug traps pass through untouched.
func (a Accessor) recovered(verb string, r any) error {
	if _, trap := r.(debug.TrapError); trap {
		panic(r)
	}
	logging.New("property").Error("property accessor faulted",
		"class", a.Class(), "name", a.Name(), "op", verb, "panic", r)
	return errs.New(a.op(verb), errs.CodeAccessDenied).Detail("accessor faulted: %v", r).Build()
}

func (a Accessor) read(verb string, want Type) (v Value, err error) {
	if err := a.check(verb, want); err != nil {
		return Value{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			v, err = Value{}, a.recovered(verb, r)
		}
	}()
	v = a.prop.load(a.target)
	if v.isFloatBacked() && v.hasNaN() {
		logging.New("property").Error("property produced NaN", "class", a.Class(), "name", a.Name())
		return FromComponents(v.typ, [4]float32{}), errs.New(a.op(verb), errs.CodeUnexpected).
			Detail("getter produced NaN").
			Build()
	}
	return v, nil
}

func (a Accessor) write(verb string, v Value) (err error) {
	if err := a.check(verb, v.typ); err != nil {
		return err
	}
	if a.prop.readOnly() {
		logging.New("property").Error("write to read-only property", "class", a.Class(), "name", a.Name())
		return errs.New(a.op(verb), errs.CodeAccessDenied).Detail("read-only").Build()
	}
	if v.isFloatBacked() && v.hasNaN() {
		logging.New("property").Error("rejected NaN write", "class", a.Class(), "name", a.Name())
		return errs.InvalidArgument(a.op(verb), "value contains NaN")
	}
	defer func() {
		if r := recover(); r != nil {
			err = a.recovered(verb, r)
		}
	}()
	a.prop.store(a.target, v)
	return nil
}

// Get reads the value with its declared tag.
func (a Accessor) Get() (Value, error) {
	return a.read("Get", TypeInvalid)
}

// Set writes v; its tag must match the declared Type.
func (a Accessor) Set(v Value) error {
	if v.typ == TypeInvalid {
		return errs.InvalidArgument("property.Set", "untyped value")
	}
	return a.write("Set", v)
}

func (a Accessor) GetFloat() (float32, error) {
	v, err := a.read("GetFloat", TypeFloat)
	return v.AsFloat(), err
}

func (a Accessor) SetFloat(f float32) error { return a.write("SetFloat", Float(f)) }

func (a Accessor) GetInt() (int32, error) {
	v, err := a.read("GetInt", TypeInt)
	return v.AsInt(), err
}

func (a Accessor) SetInt(i int32) error { return a.write("SetInt", Int(i)) }

func (a Accessor) GetBool() (bool, error) {
	v, err := a.read("GetBool", TypeBool)
	return v.AsBool(), err
}

func (a Accessor) SetBool(b bool) error { return a.write("SetBool", Bool(b)) }

func (a Accessor) GetVec2() (core.Vec2, error) {
	v, err := a.read("GetVec2", TypeVec2)
	return v.AsVec2(), err
}

func (a Accessor) SetVec2(x core.Vec2) error { return a.write("SetVec2", Vec2(x)) }

func (a Accessor) GetVec3() (core.Vec3, error) {
	v, err := a.read("GetVec3", TypeVec3)
	return v.AsVec3(), err
}

func (a Accessor) SetVec3(x core.Vec3) error { return a.write("SetVec3", Vec3(x)) }

func (a Accessor) GetVec4() (core.Vec4, error) {
	v, err := a.read("GetVec4", TypeVec4)
	return v.AsVec4(), err
}

func (a Accessor) SetVec4(x core.Vec4) error { return a.write("SetVec4", Vec4(x)) }

func (a Accessor) GetIVec2() (core.IVec2, error) {
	v, err := a.read("GetIVec2", TypeIVec2)
	return v.AsIVec2(), err
}

func (a Accessor) SetIVec2(x core.IVec2) error { return a.write("SetIVec2", IVec2(x)) }

func (a Accessor) GetIVec3() (core.IVec3, error) {
	v, err := a.read("GetIVec3", TypeIVec3)
	return v.AsIVec3(), err
}

func (a Accessor) SetIVec3(x core.IVec3) error { return a.write("SetIVec3", IVec3(x)) }

func (a Accessor) GetIVec4() (core.IVec4, error) {
	v, err := a.read("GetIVec4", TypeIVec4)
	return v.AsIVec4(), err
}

func (a Accessor) SetIVec4(x core.IVec4) error { return a.write("SetIVec4", IVec4(x)) }

func (a Accessor) GetColor() (core.Color, error) {
	v, err := a.read("GetColor", TypeColor)
	return v.AsColor(), err
}

func (a Accessor) SetColor(c core.Color) error { return a.write("SetColor", Color(c)) }

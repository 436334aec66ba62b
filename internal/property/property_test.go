package property

import (
	"errors"
	"math"
	"testing"

	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/debug"
	"github.com/vovakirdan/zengine/internal/errs"
)

type dummy struct {
	pos     core.Vec3
	opacity float32
	hp      int32
	visible bool
	cell    core.IVec2
	tint    core.Color
	faulty  bool
}

var dummyProps = NewSet("Dummy",
	Vec3Prop("Position",
		func(d *dummy) core.Vec3 { return d.pos },
		func(d *dummy, v core.Vec3) { d.pos = v }),
	FloatProp("Opacity",
		func(d *dummy) float32 {
			if d.faulty {
				panic("bad read")
			}
			return d.opacity
		},
		func(d *dummy, v float32) { d.opacity = v }),
	IntProp("Health",
		func(d *dummy) int32 { return d.hp },
		func(d *dummy, v int32) { d.hp = v }),
	BoolProp("Visible",
		func(d *dummy) bool { return d.visible },
		func(d *dummy, v bool) { d.visible = v }),
	IVec2Prop("Cell",
		func(d *dummy) core.IVec2 { return d.cell },
		func(d *dummy, v core.IVec2) { d.cell = v }),
	ColorProp("Tint",
		func(d *dummy) core.Color { return d.tint },
		func(d *dummy, v core.Color) { d.tint = v }),
	FloatProp[*dummy]("Area",
		func(d *dummy) float32 { return d.pos.X * d.pos.Y },
		nil),
)

func TestVec3RoundTrip(t *testing.T) {
	d := &dummy{}
	values := []core.Vec3{{}, {X: 1, Y: 2, Z: 3}, {X: -4.5, Y: 1e6, Z: -0.25}}

	for _, v := range values {
		set, err := dummyProps.Get(d, "Position")
		if err != nil {
			t.Fatalf("Get(Position) failed: %v", err)
		}
		if err := set.SetVec3(v); err != nil {
			t.Fatalf("SetVec3(%v) failed: %v", v, err)
		}

		get, _ := dummyProps.Get(d, "Position")
		got, err := get.GetVec3()
		if err != nil {
			t.Fatalf("GetVec3() failed: %v", err)
		}
		if got != v {
			t.Errorf("GetVec3() = %v, want %v", got, v)
		}
	}
}

func TestTypedAccessors(t *testing.T) {
	d := &dummy{}

	tests := []struct {
		name  string
		write func(Accessor) error
		check func(t *testing.T)
	}{
		{"Opacity", func(a Accessor) error { return a.SetFloat(0.5) }, func(t *testing.T) {
			if d.opacity != 0.5 {
				t.Errorf("opacity = %v", d.opacity)
			}
		}},
		{"Health", func(a Accessor) error { return a.SetInt(7) }, func(t *testing.T) {
			if d.hp != 7 {
				t.Errorf("hp = %v", d.hp)
			}
		}},
		{"Visible", func(a Accessor) error { return a.SetBool(true) }, func(t *testing.T) {
			if !d.visible {
				t.Error("visible not set")
			}
		}},
		{"Cell", func(a Accessor) error { return a.SetIVec2(core.IVec2{X: 3, Y: 4}) }, func(t *testing.T) {
			if d.cell != (core.IVec2{X: 3, Y: 4}) {
				t.Errorf("cell = %v", d.cell)
			}
		}},
		{"Tint", func(a Accessor) error { return a.SetColor(core.Red) }, func(t *testing.T) {
			if d.tint != core.Red {
				t.Errorf("tint = %v", d.tint)
			}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := dummyProps.Get(d, tc.name)
			if err != nil {
				t.Fatalf("Get(%s) failed: %v", tc.name, err)
			}
			if err := tc.write(a); err != nil {
				t.Fatalf("write failed: %v", err)
			}
			tc.check(t)
		})
	}
}

func TestWrongTypeRejected(t *testing.T) {
	d := &dummy{pos: core.Vec3{X: 1, Y: 2, Z: 3}}
	a, _ := dummyProps.Get(d, "Position")

	restore := debug.Enable(false)
	f, err := a.GetFloat()
	restore()
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("GetFloat() on vec3 err = %v, want InvalidArgument", err)
	}
	if f != 0 {
		t.Errorf("GetFloat() on vec3 = %v, want 0", f)
	}

	restore = debug.Enable(true)
	defer restore()
	defer func() {
		r := recover()
		if _, ok := r.(debug.TrapError); !ok {
			t.Errorf("expected TrapError panic, got %#v", r)
		}
	}()
	//nolint:errcheck // the trap fires before the return
	a.GetFloat()
}

func TestUnknownProperty(t *testing.T) {
	_, err := dummyProps.Get(&dummy{}, "Mass")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("Get(Mass) err = %v, want NotFound", err)
	}
}

func TestReadOnlyProperty(t *testing.T) {
	d := &dummy{pos: core.Vec3{X: 2, Y: 3}}
	a, _ := dummyProps.Get(d, "Area")

	if !a.ReadOnly() {
		t.Error("Area should be read-only")
	}
	if v, err := a.GetFloat(); err != nil || v != 6 {
		t.Errorf("GetFloat() = %v, %v", v, err)
	}
	if err := a.SetFloat(1); !errors.Is(err, errs.ErrAccessDenied) {
		t.Errorf("SetFloat() err = %v, want AccessDenied", err)
	}
}

func TestAccessorFaultIsRecovered(t *testing.T) {
	d := &dummy{opacity: 0.7, faulty: true}
	a, _ := dummyProps.Get(d, "Opacity")

	v, err := a.GetFloat()
	if !errors.Is(err, errs.ErrAccessDenied) {
		t.Errorf("err = %v, want AccessDenied", err)
	}
	if v != 0 {
		t.Errorf("value = %v, want 0 substitute", v)
	}
}

func TestNaNGuard(t *testing.T) {
	d := &dummy{opacity: float32(math.NaN())}
	a, _ := dummyProps.Get(d, "Opacity")

	v, err := a.GetFloat()
	if err == nil || v != 0 {
		t.Errorf("GetFloat() = %v, %v; want 0 and error", v, err)
	}

	if err := a.SetFloat(float32(math.NaN())); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("SetFloat(NaN) err = %v, want InvalidArgument", err)
	}
}

func TestGenericGetSet(t *testing.T) {
	d := &dummy{}
	a, _ := dummyProps.Get(d, "Opacity")

	if err := a.Set(Float(0.25)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	v, err := a.Get()
	if err != nil || v.Type() != TypeFloat || v.AsFloat() != 0.25 {
		t.Errorf("Get() = %v (%s), %v", v, v.Type(), err)
	}

	restore := debug.Enable(false)
	defer restore()
	if err := a.Set(Bool(true)); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("Set(bool) on float err = %v", err)
	}
	if err := a.Set(Value{}); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("Set(untyped) err = %v", err)
	}
}

func TestZeroAccessor(t *testing.T) {
	var a Accessor
	if a.Valid() {
		t.Error("zero accessor should be invalid")
	}
	if _, err := a.GetFloat(); !errors.Is(err, errs.ErrNullPointer) {
		t.Errorf("GetFloat() on zero accessor err = %v", err)
	}
}

func TestSetDescribeAndSnapshot(t *testing.T) {
	names := dummyProps.Names()
	if len(names) != dummyProps.Len() || names[0] != "Area" {
		t.Errorf("Names() = %v", names)
	}

	desc := dummyProps.Describe()
	if desc[0].Name != "Area" || !desc[0].ReadOnly || desc[0].Type != TypeFloat {
		t.Errorf("Describe()[0] = %+v", desc[0])
	}

	snap := dummyProps.Snapshot(&dummy{hp: 9})
	if snap["Health"].AsInt() != 9 {
		t.Errorf("Snapshot Health = %v", snap["Health"])
	}
}

func TestDuplicateDeclarationPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate property")
		}
	}()
	get := func(d *dummy) int32 { return 0 }
	NewSet("Broken", IntProp("X", get, nil), IntProp("X", get, nil))
}

func TestTypeNames(t *testing.T) {
	for _, typ := range []Type{TypeFloat, TypeVec3, TypeColor, TypeIVec4} {
		back, ok := ParseType(typ.String())
		if !ok || back != typ {
			t.Errorf("ParseType(%q) = %v, %v", typ.String(), back, ok)
		}
	}
	if _, ok := ParseType("invalid"); ok {
		t.Error("ParseType(invalid) should fail")
	}
}

package resource

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/vovakirdan/zengine/internal/debug"
	"github.com/vovakirdan/zengine/internal/errs"
)

func TestHandlePacking(t *testing.T) {
	tests := []struct {
		index, token uint32
	}{
		{0, 1},
		{1, 1},
		{MaxIndex, MaxToken},
		{1234, 4321},
	}
	for _, tc := range tests {
		h := FromRaw[*thing](pack(tc.index, tc.token))
		if h.Index() != int(tc.index) || h.Token() != tc.token {
			t.Errorf("pack(%d, %d) decoded to %d, %d", tc.index, tc.token, h.Index(), h.Token())
		}
		if h.IsNull() || h.IsDeleted() {
			t.Errorf("pack(%d, %d) misclassified", tc.index, tc.token)
		}
	}
}

func TestHandleSentinels(t *testing.T) {
	null := NullHandle[*thing]()
	if !null.IsNull() || null.IsValid() || null.IsDangling() {
		t.Errorf("null handle flags wrong: %s", null)
	}
	del := DeletedHandle[*thing]()
	if del.IsNull() || !del.IsDeleted() || del.IsValid() {
		t.Errorf("deleted handle flags wrong: %s", del)
	}
	if del.String() != "Handle(0:deleted)" || null.String() != "Handle(null)" {
		t.Errorf("String() = %q, %q", del.String(), null.String())
	}
}

func TestHandleEquality(t *testing.T) {
	m := newTestManager()
	var h1 Handle[*thing]
	if err := h1.Init(24, m); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	var h2 Handle[*thing]
	if h1.Equal(h2) || h2.Equal(h1) {
		t.Errorf("initialized %s equals default %s", h1, h2)
	}
	h2 = h1
	if !h1.Equal(h2) || h2.Manager() != m {
		t.Errorf("after assignment %s != %s", h1, h2)
	}

	tests := []struct {
		name string
		a, b Handle[*thing]
		want bool
	}{
		{"null vs deleted", NullHandle[*thing](), DeletedHandle[*thing](), false},
		{"null vs default", NullHandle[*thing](), Handle[*thing]{}, true},
		{"deleted vs deleted", DeletedHandle[*thing](), DeletedHandle[*thing](), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("%s.Equal(%s) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			if got := tc.b.Equal(tc.a); got != tc.want {
				t.Errorf("reversed Equal() = %v, want %v", got, tc.want)
			}
		})
	}

	if h1.Index() != 24 || h1.IsNull() {
		t.Errorf("Init(24) produced %s", h1)
	}
}

func TestDrawTokenRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	prev := uint32(0)
	for i := 0; i < 10000; i++ {
		tok := drawToken(rng, prev)
		if tok == 0 || tok > MaxToken || tok == prev {
			t.Fatalf("drawToken() = %d (prev %d)", tok, prev)
		}
		prev = tok
	}
}

func TestHandleInit(t *testing.T) {
	m := newTestManager()
	var h Handle[*thing]
	if err := h.Init(7, m); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if h.Index() != 7 || h.Token() == 0 || h.Manager() != m {
		t.Errorf("Init() produced %s", h)
	}
	if err := h.Init(8, m); !errors.Is(err, errs.ErrAlreadyExists) {
		t.Errorf("second Init() err = %v, want AlreadyExists", err)
	}

	var bad Handle[*thing]
	if err := bad.Init(MaxIndex+1, m); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Errorf("Init(out of range) err = %v", err)
	}
}

func TestUnboundHandle(t *testing.T) {
	h := FromRaw[*thing](pack(3, 9))
	if h.IsValid() || !h.IsDangling() {
		t.Error("unbound handle should be dangling")
	}
	if h.Name() != "" || h.RefCount() != 0 || h.Release() != 0 {
		t.Error("unbound handle pass-throughs should return zero values")
	}
	if _, err := h.Object(); !errors.Is(err, errs.ErrBadHandle) {
		t.Errorf("Object() err = %v", err)
	}

	restore := debug.Enable(true)
	defer restore()
	defer func() {
		if _, ok := recover().(debug.TrapError); !ok {
			t.Error("AddRef on unbound handle should trap in debug mode")
		}
	}()
	h.AddRef()
}

func TestHandleFromOtherManager(t *testing.T) {
	// Same seed, same slot: the raw values collide.
	a := newTestManager()
	b := newTestManager()
	h, _ := a.Add("x", newThing("x"))
	own, _ := b.Add("y", newThing("y"))
	if !h.Equal(own) {
		t.Fatalf("expected colliding handles, got %s and %s", h, own)
	}

	if b.Valid(h) {
		t.Error("manager accepted a handle bound to another manager")
	}

	tests := []struct {
		name string
		call func() error
	}{
		{"Object", func() error { _, err := b.Object(h); return err }},
		{"Name", func() error { _, err := b.Name(h); return err }},
		{"ObjectID", func() error { _, err := b.ObjectID(h); return err }},
		{"AddRef", func() error { _, err := b.AddRef(h); return err }},
		{"Release", func() error { _, err := b.Release(h); return err }},
		{"Remove", func() error { return b.Remove(h) }},
		{"Property", func() error { _, err := b.Property(h, "Opacity"); return err }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.call(); !errors.Is(err, errs.ErrBadHandle) {
				t.Errorf("%s(foreign) err = %v, want BadHandle", tc.name, err)
			}
		})
	}

	if b.RefCount(h) != 0 {
		t.Error("RefCount(foreign) should be 0")
	}
	b.QueueRemove(h)
	if n := b.Sweep(); n != 0 {
		t.Errorf("Sweep() freed %d slots for a foreign handle", n)
	}
	if b.Count() != 1 || own.RefCount() != 1 || own.Name() != "y" {
		t.Errorf("b's own object was touched: count %d, refs %d", b.Count(), own.RefCount())
	}
	if _, err := a.Object(h); err != nil {
		t.Errorf("a.Object() err = %v", err)
	}
}

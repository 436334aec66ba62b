package layer

import (
	"errors"
	"testing"

	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/logging"
	"github.com/vovakirdan/zengine/internal/resource"
	"github.com/vovakirdan/zengine/internal/settings"
	"github.com/vovakirdan/zengine/internal/sprite"
	"github.com/vovakirdan/zengine/internal/texture"
)

type fixture struct {
	sprites *sprite.Manager
	layers  *Manager
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	tm := texture.NewManager(resource.WithLogger[*texture.Texture](logging.Nop()))
	tm.Load("dot", "", 1, 1, "o")
	tm.Load("bar", "", 3, 1, "=")
	sm := sprite.NewManager(tm, resource.WithLogger[*sprite.Sprite](logging.Nop()))
	for _, n := range []string{"a", "b"} {
		if _, err := sm.Create(n, "dot"); err != nil {
			t.Fatal(err)
		}
	}
	sm.Create("floor", "bar")
	return fixture{sprites: sm, layers: NewManager(sm, resource.WithLogger[*Layer](logging.Nop()))}
}

func TestCreateTakesReferences(t *testing.T) {
	f := newFixture(t)
	h, err := f.layers.Create("main", 1, "a", "b")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	a, _ := f.sprites.Get("a")
	if a.RefCount() != 2 {
		t.Errorf("sprite refs = %d, want 2", a.RefCount())
	}

	h.Release()
	if a.RefCount() != 1 {
		t.Errorf("sprite refs after layer release = %d, want 1", a.RefCount())
	}
}

func TestCreateUnknownSpriteRollsBack(t *testing.T) {
	f := newFixture(t)
	a, _ := f.sprites.Get("a")
	if _, err := f.layers.Create("main", 0, "a", "ghost"); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("Create() err = %v", err)
	}
	if a.RefCount() != 1 || f.layers.Count() != 0 {
		t.Errorf("rollback incomplete: refs %d layers %d", a.RefCount(), f.layers.Count())
	}
}

func TestDrawOrderAndOffset(t *testing.T) {
	f := newFixture(t)
	fg, _ := f.layers.Create("fg", 1, "a")
	f.layers.Create("bg", 0, "floor")

	a, _ := f.sprites.Get("a")
	f.sprites.SetPosition(a, core.Vec3{X: 1})

	off, _ := fg.Property("Offset")
	if err := off.SetIVec2(core.IVec2{X: 1, Y: 0}); err != nil {
		t.Fatal(err)
	}

	scr := core.NewScreen(4, 1)
	if n := f.layers.Draw(scr); n != 2 {
		t.Errorf("Draw() = %d, want 2", n)
	}
	if scr.Row(0) != "==o " {
		t.Errorf("row = %q, want %q", scr.Row(0), "==o ")
	}
}

func TestDrawSkipsStaleAndHidden(t *testing.T) {
	f := newFixture(t)
	h, _ := f.layers.Create("main", 0, "a", "b")
	a, _ := f.sprites.Get("a")
	f.sprites.Remove(a)

	l, _ := h.Object()
	scr := core.NewScreen(2, 1)
	if n := l.Draw(scr); n != 1 {
		t.Errorf("Draw() = %d, want 1", n)
	}
	if n := f.layers.Prune(); n != 1 || l.Len() != 1 {
		t.Errorf("Prune() = %d, Len() = %d", n, l.Len())
	}

	vis, _ := h.Property("Visible")
	vis.SetBool(false)
	if n := l.Draw(scr); n != 0 {
		t.Errorf("hidden layer drew %d", n)
	}
}

func TestAttachDetach(t *testing.T) {
	f := newFixture(t)
	h, _ := f.layers.Create("main", 0)
	b, _ := f.sprites.Get("b")

	if err := f.layers.Attach(h, b); err != nil {
		t.Fatalf("Attach() failed: %v", err)
	}
	l, _ := h.Object()
	if !l.Detach(b) || l.Detach(b) {
		t.Error("Detach() should succeed once")
	}
	if b.RefCount() != 1 {
		t.Errorf("refs = %d", b.RefCount())
	}
	if err := l.Attach(sprite.Handle{}); !errors.Is(err, errs.ErrBadHandle) {
		t.Errorf("Attach(null) err = %v", err)
	}
}

func TestCloneSharesSprites(t *testing.T) {
	f := newFixture(t)
	f.layers.Create("main", 0, "a")
	c, err := f.layers.GetCopy("main")
	if err != nil {
		t.Fatalf("GetCopy() failed: %v", err)
	}
	a, _ := f.sprites.Get("a")
	if a.RefCount() != 3 {
		t.Errorf("refs = %d, want 3", a.RefCount())
	}
	c.Release()
	if a.RefCount() != 2 {
		t.Errorf("refs after copy release = %d, want 2", a.RefCount())
	}
}

func TestInit(t *testing.T) {
	f := newFixture(t)
	st, _ := settings.Parse([]byte(`
Layers:
  top: {Order: 5, Sprites: [a], Opacity: 0.5, Offset: [2, 1]}
  base: {Order: 0, Sprites: [floor, b]}
`), "test")
	if err := f.layers.Init(st); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	ordered := f.layers.Ordered()
	if len(ordered) != 2 || ordered[0].Name() != "base" {
		t.Fatalf("Ordered() = %v", ordered)
	}
	top := ordered[1]
	if top.Opacity() != 0.5 || top.Offset() != (core.IVec2{X: 2, Y: 1}) || top.Order() != 5 {
		t.Errorf("top = opacity %v offset %v order %d", top.Opacity(), top.Offset(), top.Order())
	}
}

func TestPickTopmost(t *testing.T) {
	f := newFixture(t)
	f.layers.Create("bg", 0, "floor")
	fg, _ := f.layers.Create("fg", 1, "a")

	a, _ := f.sprites.Get("a")
	f.sprites.SetPosition(a, core.Vec3{X: 1})

	tests := []struct {
		name   string
		x, y   int
		want   string
		picked bool
	}{
		{"foreground wins", 1, 0, "a", true},
		{"background below", 0, 0, "floor", true},
		{"outside", 5, 0, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, ok := f.layers.Pick(tc.x, tc.y)
			if ok != tc.picked || h.Name() != tc.want {
				t.Errorf("Pick(%d, %d) = %q, %v", tc.x, tc.y, h.Name(), ok)
			}
		})
	}

	off, _ := fg.Property("Offset")
	off.SetIVec2(core.IVec2{X: 1})
	if h, _ := f.layers.Pick(2, 0); h.Name() != "a" {
		t.Errorf("Pick() ignores layer offset: got %q", h.Name())
	}
}

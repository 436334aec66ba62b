package app

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/vovakirdan/zengine/internal/config"
	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/logging"
	"github.com/vovakirdan/zengine/internal/settings"
)

func init() {
	//nolint:errcheck // static arguments
	logging.Configure(io.Discard, "fatal")
}

func newApp(t *testing.T, scene string) *App {
	t.Helper()
	data := []byte(scene)
	if scene == "" {
		data = config.DefaultSceneYAML()
	}
	st, err := settings.Parse(data, "test")
	if err != nil {
		t.Fatal(err)
	}
	cfg := core.DefaultConfig()
	cfg.Seed = 1
	a := New(cfg, st, logging.Nop())
	if err := a.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	return a
}

func TestInitDefaultScene(t *testing.T) {
	a := newApp(t, "")

	tests := []struct {
		kind string
		min  int
	}{
		{"texture", 4},
		{"sprite", 4},
		{"sound", 2},
		{"animation", 3},
		{"layer", 2},
		{"gameobject", 3},
	}
	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			m, ok := a.Manager(tc.kind)
			if !ok {
				t.Fatalf("no %s manager", tc.kind)
			}
			if m.Count() < tc.min {
				t.Errorf("%s count = %d, want at least %d", tc.kind, m.Count(), tc.min)
			}
		})
	}
	if _, ok := a.Manager("shader"); ok {
		t.Error("unknown kind resolved")
	}
}

func TestStepDrawsScene(t *testing.T) {
	a := newApp(t, "")
	a.Run(3)

	if a.Frames() != 3 {
		t.Errorf("Frames() = %d", a.Frames())
	}
	if !strings.Contains(a.Screen().String(), "@") {
		t.Errorf("hero glyph missing from screen:\n%s", a.Screen().String())
	}
	if a.Elapsed() <= 0 {
		t.Error("Elapsed() did not advance")
	}
}

func TestSnapshotOrder(t *testing.T) {
	a := newApp(t, "")
	snap := a.Snapshot()

	want := []string{"texture", "sprite", "sound", "animation", "layer", "gameobject"}
	if len(snap) != len(want) {
		t.Fatalf("Snapshot() has %d entries", len(snap))
	}
	for i, k := range want {
		if snap[i].Kind != k {
			t.Errorf("Snapshot()[%d] = %s, want %s", i, snap[i].Kind, k)
		}
	}
}

func TestShutdownClean(t *testing.T) {
	a := newApp(t, "")
	a.Run(120)

	r := a.Shutdown()
	if len(r.Leaks) != 0 {
		t.Errorf("clean scene leaked: %+v", r.Leaks)
	}
	if r.Frames != 120 || len(r.Managers) != 6 {
		t.Errorf("report = frames %d managers %d", r.Frames, len(r.Managers))
	}
	for _, m := range a.Managers() {
		if m.Count() != 0 {
			t.Errorf("%s still holds %d entries", m.Kind(), m.Count())
		}
	}

	again := a.Shutdown()
	if len(again.Managers) != 0 {
		t.Error("second Shutdown() should report nothing")
	}
}

func TestShutdownReportsLeak(t *testing.T) {
	a := newApp(t, "")
	h, err := a.Sprites().Get("hero")
	if err != nil {
		t.Fatal(err)
	}
	h.AddRef()

	r := a.Shutdown()
	found := false
	for _, l := range r.Leaks {
		if l.Kind == "sprite" && l.Name == "hero" {
			found = true
		}
	}
	if !found {
		t.Errorf("extra reference on hero not reported: %+v", r.Leaks)
	}

	s := r.Session()
	if len(s.Leaks) != len(r.Leaks) || len(s.Managers) != 6 || s.Scene != "test" {
		t.Errorf("Session() = %+v", s)
	}
}

func TestValuesThroughInspectable(t *testing.T) {
	a := newApp(t, "")
	m, _ := a.Manager("gameobject")

	var raw uint32
	for _, e := range m.Entries() {
		if e.Name == "player" {
			raw = e.Handle
		}
	}
	vals, err := m.Values(raw)
	if err != nil {
		t.Fatalf("Values() failed: %v", err)
	}
	if vals["Health"].AsInt() != 3 {
		t.Errorf("player Health = %v", vals["Health"])
	}
	if len(m.Describe()) != 8 {
		t.Errorf("gameobject declares %d properties", len(m.Describe()))
	}
}

func TestBadSceneFailsInit(t *testing.T) {
	st, _ := settings.Parse([]byte("Sprites:\n  ghost: {Texture: nowhere}\n"), "bad")
	a := New(core.DefaultConfig(), st, logging.Nop())
	if err := a.Init(); err == nil {
		t.Error("Init() should fail on a sprite with a missing texture")
	}
}

func TestDestroyByName(t *testing.T) {
	a := newApp(t, "")
	before := a.Objects().Count()

	if err := a.Destroy("spark"); err != nil {
		t.Fatalf("Destroy() failed: %v", err)
	}
	if a.Objects().Count() != before-1 {
		t.Errorf("Count() = %d, want %d", a.Objects().Count(), before-1)
	}
	if err := a.Destroy("spark"); err == nil {
		t.Error("second Destroy() should fail")
	}
}

func TestPlaySoundMixesDuringSteps(t *testing.T) {
	a := newApp(t, "")
	defer a.Shutdown()

	tests := []struct {
		name    string
		object  string
		sound   string
		wantErr error
	}{
		{"first owned sound", "player", "", nil},
		{"named sound", "player", "blip", nil},
		{"sound not owned", "player", "hum", errs.ErrNotFound},
		{"object without sounds", "spark", "", errs.ErrNotFound},
		{"unknown object", "ghost", "", errs.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := a.PlaySound(tc.object, tc.sound)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("PlaySound() failed: %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Errorf("PlaySound() err = %v, want %v", err, tc.wantErr)
			}
		})
	}

	if a.Sounds().Playing() != 2 {
		t.Fatalf("Playing() = %d, want 2", a.Sounds().Playing())
	}
	a.Step(0.01)
	if a.Sounds().Level() == 0 {
		t.Error("first frame mixed silence")
	}
	a.Run(10)
	if a.Sounds().Playing() != 0 {
		t.Errorf("Playing() = %d after the blips ended", a.Sounds().Playing())
	}
}

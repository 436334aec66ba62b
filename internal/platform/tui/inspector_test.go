package tui

import (
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/zengine/internal/app"
	"github.com/vovakirdan/zengine/internal/config"
	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/logging"
	"github.com/vovakirdan/zengine/internal/settings"
)

func newTestModel(t *testing.T) (Model, *app.App) {
	t.Helper()
	//nolint:errcheck // static arguments
	logging.Configure(io.Discard, "fatal")

	st, err := settings.Parse(config.DefaultSceneYAML(), "test")
	if err != nil {
		t.Fatal(err)
	}
	cfg := core.DefaultConfig()
	cfg.Seed = 3
	a := app.New(cfg, st, logging.Nop())
	if err := a.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { a.Shutdown() })
	return NewModel(a, 120, 40), a
}

func press(m Model, keys string) Model {
	var msg tea.KeyMsg
	switch keys {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keys)}
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestManagerCycling(t *testing.T) {
	m, _ := newTestModel(t)
	if m.current().Kind() != "texture" {
		t.Fatalf("first manager = %s", m.current().Kind())
	}

	for range m.managers {
		m = press(m, "tab")
	}
	if m.current().Kind() != "texture" {
		t.Errorf("cycling wrapped to %s", m.current().Kind())
	}

	m.selectManager(-1)
	if m.current().Kind() != "gameobject" {
		t.Errorf("prev from first = %s", m.current().Kind())
	}
	if len(m.entries) != m.current().Count() {
		t.Errorf("table shows %d rows for %d entries", len(m.entries), m.current().Count())
	}
}

func TestStepAdvancesFrame(t *testing.T) {
	m, a := newTestModel(t)
	m = press(m, "n")
	m = press(m, "n")
	if a.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", a.Frames())
	}
}

func TestLiveModeTicks(t *testing.T) {
	m, a := newTestModel(t)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(Model)
	if !m.live || cmd == nil {
		t.Fatal("space should start live mode with a tick")
	}

	next, cmd = m.Update(TickMsg{})
	m = next.(Model)
	if a.Frames() != 1 || cmd == nil {
		t.Errorf("tick in live mode: frames %d, cmd %v", a.Frames(), cmd)
	}

	m = press(m, "space")
	next, cmd = m.Update(TickMsg{})
	m = next.(Model)
	if cmd != nil || m.ticking || a.Frames() != 1 {
		t.Error("tick after pause should stop the loop")
	}
}

func TestDestroySelectedObject(t *testing.T) {
	m, a := newTestModel(t)
	m.selectManager(-1) // gameobject
	before := a.Objects().Count()

	m = press(m, "x")
	if a.Objects().Count() != before-1 {
		t.Errorf("Count() = %d after destroy, want %d", a.Objects().Count(), before-1)
	}
	if !strings.HasPrefix(m.status, "destroyed ") {
		t.Errorf("status = %q", m.status)
	}

	m.selectManager(1) // texture
	m = press(m, "x")
	if !strings.Contains(m.status, "only game objects") {
		t.Errorf("status = %q", m.status)
	}
}

func TestPlaySelectedSound(t *testing.T) {
	m, a := newTestModel(t)
	m.selectManager(-1) // gameobject
	for i, e := range m.entries {
		if e.Name == "player" {
			m.table.SetCursor(i)
		}
	}

	m = press(m, "p")
	if !strings.HasPrefix(m.status, "playing player") {
		t.Fatalf("status = %q", m.status)
	}
	if a.Sounds().Playing() != 1 {
		t.Fatalf("Playing() = %d, want 1", a.Sounds().Playing())
	}
	for i := 0; i < 10; i++ {
		m = press(m, "n")
	}
	if a.Sounds().Playing() != 0 {
		t.Errorf("Playing() = %d after the blip ended", a.Sounds().Playing())
	}

	m.table.SetCursor(0) // coin prototype, no sounds
	m = press(m, "p")
	if !strings.Contains(m.status, "owns no sounds") {
		t.Errorf("status = %q", m.status)
	}
}

func TestViewShowsDetails(t *testing.T) {
	m, _ := newTestModel(t)
	m.selectManager(-1)

	view := m.View()
	for _, want := range []string{"gameobject", "Managers", "Health", "live"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}

	m = press(m, "s")
	if !m.showScreen {
		t.Error("s should switch to the screen view")
	}
}

func TestRenderScreenPlainText(t *testing.T) {
	s := core.NewScreen(3, 2)
	s.DrawText(0, 0, "ab", core.InkDefault)
	s.DrawText(0, 1, "c", core.InkRed)

	out := RenderScreen(s)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("RenderScreen() produced %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "ab") || !strings.Contains(lines[1], "c") {
		t.Errorf("RenderScreen() = %q", out)
	}
}

func TestMousePickInScreenView(t *testing.T) {
	m, a := newTestModel(t)
	a.Step(0)
	m = press(m, "s")

	// The floor spans the bottom row of the default scene.
	next, _ := m.Update(tea.MouseMsg{X: 5, Y: 22 + screenTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(Model)
	if !strings.Contains(m.status, "sprite floor") {
		t.Errorf("status = %q", m.status)
	}

	next, _ = m.Update(tea.MouseMsg{X: 79, Y: 0 + screenTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = next.(Model)
	if !strings.Contains(m.status, "empty") {
		t.Errorf("status = %q", m.status)
	}
}

package settings

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

const sample = `
Textures:
  hero:
    Width: 3
    Glyphs: "@"
  coin:
    Width: 1
Sprites:
  hero:
    Position: [1, 2.5, 0]
    Visible: false
Spawns:
  - Prototype: coin
    Count: 4
  - Prototype: hero
Empty: ~
`

func mustParse(t *testing.T) *Settings {
	t.Helper()
	s, err := Parse([]byte(sample), "test")
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return s
}

func TestGetters(t *testing.T) {
	s := mustParse(t)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", s.GetString("/Textures/hero/Glyphs", ""), "@"},
		{"int", s.GetInt("/Textures/hero/Width", 0), 3},
		{"missing int", s.GetInt("/Textures/hero/Height", 7), 7},
		{"bool", s.GetBool("/Sprites/hero/Visible", true), false},
		{"missing bool", s.GetBool("/Sprites/coin/Visible", true), true},
		{"float", s.GetFloat("/Sprites/hero/Position/1", 0), float32(2.5)},
		{"seq index", s.GetInt("/Spawns/0/Count", 0), 4},
		{"null", s.GetString("/Empty", "def"), "def"},
		{"bad int", s.GetInt("/Textures/hero/Glyphs", -1), -1},
		{"no leading slash", s.GetInt("Textures/coin/Width", 0), 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.got != tc.want {
				t.Errorf("got %v, want %v", tc.got, tc.want)
			}
		})
	}
}

func TestKeysAndCount(t *testing.T) {
	s := mustParse(t)

	if got := s.Keys("/Textures"); !reflect.DeepEqual(got, []string{"hero", "coin"}) {
		t.Errorf("Keys() = %v", got)
	}
	if n := s.Count("/Textures"); n != 2 {
		t.Errorf("Count(mapping) = %d", n)
	}
	if n := s.Count("/Spawns"); n != 2 {
		t.Errorf("Count(sequence) = %d", n)
	}
	if n := s.Count("/Nope"); n != 0 {
		t.Errorf("Count(missing) = %d", n)
	}
}

func TestGetFloats(t *testing.T) {
	s := mustParse(t)

	v, ok := s.GetFloats("/Sprites/hero/Position")
	if !ok || !reflect.DeepEqual(v, []float32{1, 2.5, 0}) {
		t.Errorf("GetFloats() = %v, %v", v, ok)
	}
	v, ok = s.GetFloats("/Textures/hero/Width")
	if !ok || len(v) != 1 || v[0] != 3 {
		t.Errorf("GetFloats(scalar) = %v, %v", v, ok)
	}
	if _, ok := s.GetFloats("/Textures/hero/Glyphs"); ok {
		t.Error("GetFloats(non-numeric) should fail")
	}
}

func TestEmptyAndNil(t *testing.T) {
	var nilSettings *Settings
	if nilSettings.GetInt("/x", 5) != 5 || Empty().Count("/x") != 0 {
		t.Error("empty settings should return defaults")
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.Source() != path || s.Count("/Textures") != 2 {
		t.Errorf("Load() source %q, textures %d", s.Source(), s.Count("/Textures"))
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load(missing) should fail")
	}
}

func TestEmbeddedSceneParses(t *testing.T) {
	s, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if s.Count("/Sprites") == 0 || s.Count("/Objects") == 0 {
		t.Errorf("default scene is empty (source %s)", s.Source())
	}
}

func TestJoin(t *testing.T) {
	if got := Join("Sprites", "hero", "Position"); got != "/Sprites/hero/Position" {
		t.Errorf("Join() = %q", got)
	}
}

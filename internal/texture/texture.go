// Package texture manages glyph textures: the shared image data sprites draw
// from. Textures are shared through Get and never cloned.
package texture

import (
	"fmt"

	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/object"
	"github.com/vovakirdan/zengine/internal/resource"
	"github.com/vovakirdan/zengine/internal/settings"
)

// Texture is a rectangular block of glyph frames.
type Texture struct {
	object.Base
	Path   string
	Width  int
	Height int
	glyphs []rune
}

// Handle refers to a managed Texture.
type Handle = resource.Handle[*Texture]

// New creates a texture. Frames are the runes of glyphs, in order.
func New(name, path string, width, height int, glyphs string) *Texture {
	t := &Texture{Path: path, Width: width, Height: height, glyphs: []rune(glyphs)}
	if len(t.glyphs) == 0 {
		t.glyphs = []rune{'#'}
	}
	t.Init(name)
	return t
}

// Frames returns the number of glyph frames.
func (t *Texture) Frames() int { return len(t.glyphs) }

// Glyph returns the rune for frame, wrapping around.
func (t *Texture) Glyph(frame int) rune {
	n := len(t.glyphs)
	return t.glyphs[((frame%n)+n)%n]
}

// Clone is not supported: textures are shared.
func (t *Texture) Clone() (*Texture, error) {
	return nil, t.Unclonable("texture")
}

// Manager owns the loaded textures.
type Manager struct {
	*resource.Manager[*Texture]
}

// NewManager creates an empty texture manager.
func NewManager(opts ...resource.Option[*Texture]) *Manager {
	return &Manager{Manager: resource.NewManager("texture", opts...)}
}

// Load registers a texture. A name that is already loaded fails with
// AlreadyExists; Get shares it.
func (m *Manager) Load(name, path string, width, height int, glyphs string) (Handle, error) {
	if width <= 0 || height <= 0 {
		return Handle{}, errs.InvalidArgument("texture.Load", "%s: size %dx%d", name, width, height)
	}
	return m.Add(name, New(name, path, width, height, glyphs))
}

// Init loads every entry under /Textures.
func (m *Manager) Init(s *settings.Settings) error {
	for _, name := range s.Keys("/Textures") {
		base := settings.Join("Textures", name)
		_, err := m.Load(name,
			s.GetString(base+"/Path", ""),
			s.GetInt(base+"/Width", 1),
			s.GetInt(base+"/Height", 1),
			s.GetString(base+"/Glyphs", "#"),
		)
		if err != nil {
			return fmt.Errorf("texture: init %q: %w", name, err)
		}
	}
	m.Logger().Info("textures loaded", "count", m.Count(), "source", s.Source())
	return nil
}

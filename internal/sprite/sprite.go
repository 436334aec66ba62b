// Package sprite manages drawable sprites. A sprite references one texture
// and carries the transform and tint the animation layer writes to.
package sprite

import (
	"fmt"
	"math"

	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/object"
	"github.com/vovakirdan/zengine/internal/property"
	"github.com/vovakirdan/zengine/internal/resource"
	"github.com/vovakirdan/zengine/internal/settings"
	"github.com/vovakirdan/zengine/internal/texture"
)

// Sprite is a textured quad drawn as a block of glyphs.
// It holds one reference on its texture for its whole lifetime.
type Sprite struct {
	object.Base
	texture  texture.Handle
	position core.Vec3
	scale    core.Vec2
	rotation float32
	opacity  float32
	color    core.Color
	visible  bool
	frame    int32
}

// Handle refers to a managed Sprite.
type Handle = resource.Handle[*Sprite]

// New creates a sprite over tex. The caller must already hold the reference
// the sprite takes over.
func New(name string, tex texture.Handle) *Sprite {
	s := &Sprite{
		texture: tex,
		scale:   core.Vec2{X: 1, Y: 1},
		opacity: 1,
		color:   core.White,
		visible: true,
	}
	s.Init(name)
	return s
}

func (s *Sprite) Texture() texture.Handle { return s.texture }
func (s *Sprite) Position() core.Vec3     { return s.position }
func (s *Sprite) SetPosition(v core.Vec3) { s.position = v }
func (s *Sprite) Scale() core.Vec2        { return s.scale }
func (s *Sprite) SetScale(v core.Vec2)    { s.scale = v }
func (s *Sprite) Rotation() float32       { return s.rotation }
func (s *Sprite) SetRotation(r float32)   { s.rotation = r }
func (s *Sprite) Opacity() float32        { return s.opacity }
func (s *Sprite) SetOpacity(o float32)    { s.opacity = core.ClampF(o, 0, 1) }
func (s *Sprite) Color() core.Color       { return s.color }
func (s *Sprite) SetColor(c core.Color)   { s.color = c }
func (s *Sprite) Visible() bool           { return s.visible }
func (s *Sprite) SetVisible(v bool)       { s.visible = v }
func (s *Sprite) Frame() int32            { return s.frame }
func (s *Sprite) SetFrame(f int32)        { s.frame = f }

// Clone copies the sprite and takes a second reference on the texture.
func (s *Sprite) Clone() (*Sprite, error) {
	c := &Sprite{
		texture:  s.texture,
		position: s.position,
		scale:    s.scale,
		rotation: s.rotation,
		opacity:  s.opacity,
		color:    s.color,
		visible:  s.visible,
		frame:    s.frame,
	}
	c.InitFrom(&s.Base)
	c.texture.AddRef()
	return c, nil
}

// Dispose drops the texture reference.
func (s *Sprite) Dispose() {
	s.texture.Release()
	s.texture = texture.Handle{}
}

var props = property.NewSet("Sprite",
	property.Vec3Prop("Position", (*Sprite).Position, (*Sprite).SetPosition),
	property.Vec2Prop("Scale", (*Sprite).Scale, (*Sprite).SetScale),
	property.FloatProp("Rotation", (*Sprite).Rotation, (*Sprite).SetRotation),
	property.FloatProp("Opacity", (*Sprite).Opacity, (*Sprite).SetOpacity),
	property.ColorProp("Color", (*Sprite).Color, (*Sprite).SetColor),
	property.BoolProp("Visible", (*Sprite).Visible, (*Sprite).SetVisible),
	property.IntProp("Frame", (*Sprite).Frame, (*Sprite).SetFrame),
)

// Properties returns the sprite property table.
func Properties() *property.Set[*Sprite] { return props }

// minInk is the effective opacity below which nothing is drawn.
const minInk = 0.1

// Bounds returns the cells the sprite covers, before any layer offset.
func (s *Sprite) Bounds() (core.Rect, error) {
	tex, err := s.texture.Object()
	if err != nil {
		return core.Rect{}, fmt.Errorf("sprite %q: %w", s.Name(), err)
	}
	return core.NewRect(
		int(math.Round(float64(s.position.X))),
		int(math.Round(float64(s.position.Y))),
		int(math.Round(float64(float32(tex.Width)*s.scale.X))),
		int(math.Round(float64(float32(tex.Height)*s.scale.Y))),
	), nil
}

// Draw renders the sprite into dst, shifted by offset and faded by alpha.
// Sprites entirely off screen are skipped.
func (s *Sprite) Draw(dst *core.Screen, offset core.IVec2, alpha float32) error {
	a := s.opacity * alpha
	if !s.visible || a < minInk {
		return nil
	}
	r, err := s.Bounds()
	if err != nil {
		return err
	}
	r = r.Translate(int(offset.X), int(offset.Y))
	if r.Empty() || !r.Intersects(dst.Bounds()) {
		return nil
	}

	tex, _ := s.texture.Object()
	dst.Fill(r, core.Cell{
		Rune: tex.Glyph(int(s.frame)),
		Ink:  s.color.WithAlpha(s.color.A * a).Ink(),
	})
	return nil
}

// Manager owns sprites and creates them over the texture manager.
type Manager struct {
	*resource.Manager[*Sprite]
	textures *texture.Manager
}

// NewManager creates a sprite manager drawing from textures.
func NewManager(textures *texture.Manager, opts ...resource.Option[*Sprite]) *Manager {
	opts = append([]resource.Option[*Sprite]{resource.WithProperties(props)}, opts...)
	return &Manager{
		Manager:  resource.NewManager("sprite", opts...),
		textures: textures,
	}
}

// Create adds a sprite named name over the texture textureName.
func (m *Manager) Create(name, textureName string) (Handle, error) {
	tex, err := m.textures.Get(textureName)
	if err != nil {
		return Handle{}, fmt.Errorf("sprite: create %q: %w", name, err)
	}
	tex.AddRef()

	h, err := m.Add(name, New(name, tex))
	if err != nil {
		tex.Release()
		return Handle{}, err
	}
	return h, nil
}

// SetPosition moves the sprite behind h.
func (m *Manager) SetPosition(h Handle, v core.Vec3) error {
	s, err := m.Object(h)
	if err != nil {
		return err
	}
	s.SetPosition(v)
	return nil
}

// Draw renders the sprite behind h with no offset.
func (m *Manager) Draw(h Handle, dst *core.Screen) error {
	s, err := m.Object(h)
	if err != nil {
		return err
	}
	return s.Draw(dst, core.IVec2{}, 1)
}

// Init creates every entry under /Sprites.
func (m *Manager) Init(st *settings.Settings) error {
	for _, name := range st.Keys("/Sprites") {
		base := settings.Join("Sprites", name)
		h, err := m.Create(name, st.GetString(base+"/Texture", name))
		if err != nil {
			return fmt.Errorf("sprite: init %q: %w", name, err)
		}
		s, _ := m.Object(h)
		if v, ok := st.GetFloats(base + "/Position"); ok {
			s.position = vec3(v)
		}
		if v, ok := st.GetFloats(base + "/Scale"); ok && len(v) >= 2 {
			s.scale = core.Vec2{X: v[0], Y: v[1]}
		}
		if v, ok := st.GetFloats(base + "/Color"); ok && len(v) == 4 {
			s.color = core.ColorFrom([4]float32{v[0], v[1], v[2], v[3]})
		}
		s.SetOpacity(st.GetFloat(base+"/Opacity", 1))
		s.visible = st.GetBool(base+"/Visible", true)
		s.frame = int32(st.GetInt(base+"/Frame", 0))
	}
	m.Logger().Info("sprites created", "count", m.Count())
	return nil
}

func vec3(v []float32) core.Vec3 {
	var out [3]float32
	copy(out[:], v)
	return core.Vec3{X: out[0], Y: out[1], Z: out[2]}
}

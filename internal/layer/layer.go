// Package layer groups sprites into ordered draw passes.
package layer

import (
	"fmt"
	"sort"

	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/object"
	"github.com/vovakirdan/zengine/internal/property"
	"github.com/vovakirdan/zengine/internal/resource"
	"github.com/vovakirdan/zengine/internal/settings"
	"github.com/vovakirdan/zengine/internal/sprite"
)

// Layer draws its sprites in insertion order. It holds a reference on each.
type Layer struct {
	object.Base
	order   int
	sprites []sprite.Handle
	visible bool
	opacity float32
	offset  core.IVec2
}

// Handle refers to a managed Layer.
type Handle = resource.Handle[*Layer]

// New creates an empty visible layer.
func New(name string, order int) *Layer {
	l := &Layer{order: order, visible: true, opacity: 1}
	l.Init(name)
	return l
}

func (l *Layer) Order() int               { return l.order }
func (l *Layer) Len() int                 { return len(l.sprites) }
func (l *Layer) Visible() bool            { return l.visible }
func (l *Layer) SetVisible(v bool)        { l.visible = v }
func (l *Layer) Opacity() float32         { return l.opacity }
func (l *Layer) SetOpacity(o float32)     { l.opacity = core.ClampF(o, 0, 1) }
func (l *Layer) Offset() core.IVec2       { return l.offset }
func (l *Layer) SetOffset(o core.IVec2)   { l.offset = o }
func (l *Layer) Sprites() []sprite.Handle { return append([]sprite.Handle(nil), l.sprites...) }

// Attach appends h and takes a reference on it.
func (l *Layer) Attach(h sprite.Handle) error {
	if !h.IsValid() {
		return errs.BadHandle("layer.Attach", h)
	}
	h.AddRef()
	l.sprites = append(l.sprites, h)
	return nil
}

// Detach removes h and drops the layer's reference.
func (l *Layer) Detach(h sprite.Handle) bool {
	for i, s := range l.sprites {
		if s.Equal(h) {
			l.sprites = append(l.sprites[:i], l.sprites[i+1:]...)
			h.Release()
			return true
		}
	}
	return false
}

// Prune drops handles that no longer resolve and returns how many went.
func (l *Layer) Prune() int {
	kept := l.sprites[:0]
	for _, h := range l.sprites {
		if h.IsValid() {
			kept = append(kept, h)
		}
	}
	n := len(l.sprites) - len(kept)
	clear(l.sprites[len(kept):])
	l.sprites = kept
	return n
}

// Draw renders the attached sprites. Handles that went stale are skipped.
func (l *Layer) Draw(dst *core.Screen) int {
	if !l.visible {
		return 0
	}
	drawn := 0
	for _, h := range l.sprites {
		s, err := h.Object()
		if err != nil {
			continue
		}
		if s.Draw(dst, l.offset, l.opacity) == nil {
			drawn++
		}
	}
	return drawn
}

// SpriteAt returns the last drawn visible sprite covering the cell (x, y).
func (l *Layer) SpriteAt(x, y int) (sprite.Handle, bool) {
	if !l.visible {
		return sprite.Handle{}, false
	}
	for i := len(l.sprites) - 1; i >= 0; i-- {
		s, err := l.sprites[i].Object()
		if err != nil || !s.Visible() {
			continue
		}
		r, err := s.Bounds()
		if err == nil && r.Translate(int(l.offset.X), int(l.offset.Y)).Contains(x, y) {
			return l.sprites[i], true
		}
	}
	return sprite.Handle{}, false
}

// Clone copies the layer and takes its own reference on every sprite.
func (l *Layer) Clone() (*Layer, error) {
	c := &Layer{
		order:   l.order,
		visible: l.visible,
		opacity: l.opacity,
		offset:  l.offset,
	}
	c.InitFrom(&l.Base)
	for _, h := range l.sprites {
		if h.IsValid() {
			h.AddRef()
			c.sprites = append(c.sprites, h)
		}
	}
	return c, nil
}

// Dispose releases every sprite reference.
func (l *Layer) Dispose() {
	for _, h := range l.sprites {
		h.Release()
	}
	l.sprites = nil
}

var props = property.NewSet("Layer",
	property.BoolProp("Visible", (*Layer).Visible, (*Layer).SetVisible),
	property.FloatProp("Opacity", (*Layer).Opacity, (*Layer).SetOpacity),
	property.IVec2Prop("Offset", (*Layer).Offset, (*Layer).SetOffset),
)

// Properties returns the layer property table.
func Properties() *property.Set[*Layer] { return props }

// Manager owns the layers of a scene.
type Manager struct {
	*resource.Manager[*Layer]
	sprites *sprite.Manager
}

// NewManager creates a layer manager over sprites.
func NewManager(sprites *sprite.Manager, opts ...resource.Option[*Layer]) *Manager {
	opts = append([]resource.Option[*Layer]{resource.WithProperties(props)}, opts...)
	return &Manager{
		Manager: resource.NewManager("layer", opts...),
		sprites: sprites,
	}
}

// Create adds a layer holding the named sprites.
func (m *Manager) Create(name string, order int, spriteNames ...string) (Handle, error) {
	l := New(name, order)
	for _, sn := range spriteNames {
		h, err := m.sprites.Get(sn)
		if err == nil {
			err = l.Attach(h)
		}
		if err != nil {
			l.Dispose()
			return Handle{}, fmt.Errorf("layer: create %q: %w", name, err)
		}
	}
	h, err := m.Add(name, l)
	if err != nil {
		l.Dispose()
		return Handle{}, err
	}
	return h, nil
}

// Attach adds a sprite to the layer behind h.
func (m *Manager) Attach(h Handle, s sprite.Handle) error {
	l, err := m.Object(h)
	if err != nil {
		return err
	}
	return l.Attach(s)
}

// Pick returns the topmost drawn sprite covering the cell (x, y).
func (m *Manager) Pick(x, y int) (sprite.Handle, bool) {
	layers := m.Ordered()
	for i := len(layers) - 1; i >= 0; i-- {
		if h, ok := layers[i].SpriteAt(x, y); ok {
			return h, true
		}
	}
	return sprite.Handle{}, false
}

// Ordered returns the live layers sorted by order, then name.
func (m *Manager) Ordered() []*Layer {
	var out []*Layer
	m.Each(func(_ Handle, l *Layer) bool {
		out = append(out, l)
		return true
	})
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].order != out[j].order {
			return out[i].order < out[j].order
		}
		return out[i].Name() < out[j].Name()
	})
	return out
}

// Draw renders every layer, back to front, and returns the sprites drawn.
func (m *Manager) Draw(dst *core.Screen) int {
	n := 0
	for _, l := range m.Ordered() {
		n += l.Draw(dst)
	}
	return n
}

// Prune drops stale sprite handles from every layer.
func (m *Manager) Prune() int {
	n := 0
	m.Each(func(_ Handle, l *Layer) bool {
		n += l.Prune()
		return true
	})
	return n
}

// Init creates every entry under /Layers.
func (m *Manager) Init(st *settings.Settings) error {
	for _, name := range st.Keys("/Layers") {
		base := settings.Join("Layers", name)
		h, err := m.Create(name, st.GetInt(base+"/Order", 0), st.GetStrings(base+"/Sprites")...)
		if err != nil {
			return err
		}
		l, _ := m.Object(h)
		l.SetVisible(st.GetBool(base+"/Visible", true))
		l.SetOpacity(st.GetFloat(base+"/Opacity", 1))
		if v, ok := st.GetFloats(base + "/Offset"); ok && len(v) == 2 {
			l.SetOffset(core.IVec2{X: int32(v[0]), Y: int32(v[1])})
		}
	}
	m.Logger().Info("layers created", "count", m.Count())
	return nil
}

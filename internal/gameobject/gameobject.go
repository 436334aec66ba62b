// Package gameobject manages the live entities of a scene. A game object owns
// a sprite (shared for scene objects, a private copy for spawned ones),
// references its sounds, and runs registered behaviors every frame.
//
// Objects are mutated only through their properties, by behaviors and
// animations alike; Update copies the result onto the sprite.
package gameobject

import (
	"fmt"

	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/layer"
	"github.com/vovakirdan/zengine/internal/object"
	"github.com/vovakirdan/zengine/internal/property"
	"github.com/vovakirdan/zengine/internal/registry"
	"github.com/vovakirdan/zengine/internal/resource"
	"github.com/vovakirdan/zengine/internal/sound"
	"github.com/vovakirdan/zengine/internal/sprite"
)

// GameObject is one scene entity.
type GameObject struct {
	object.Base
	sprite     sprite.Handle
	layer      layer.Handle // not owned
	attached   bool         // sprite was attached to layer by this object
	sounds     []sound.Handle
	behaviors  []registry.Behavior
	animations []string
	prototype  bool

	position core.Vec3
	velocity core.Vec2
	rotation float32
	opacity  float32
	tint     core.Color
	visible  bool
	health   int32
	cell     core.IVec2
}

// Handle refers to a managed GameObject.
type Handle = resource.Handle[*GameObject]

// New creates a visible, untinted object with no sprite.
func New(name string) *GameObject {
	o := &GameObject{opacity: 1, tint: core.White, visible: true}
	o.Init(name)
	return o
}

func (o *GameObject) Position() core.Vec3     { return o.position }
func (o *GameObject) SetPosition(v core.Vec3) { o.position = v }
func (o *GameObject) Velocity() core.Vec2     { return o.velocity }
func (o *GameObject) SetVelocity(v core.Vec2) { o.velocity = v }
func (o *GameObject) Rotation() float32       { return o.rotation }
func (o *GameObject) SetRotation(r float32)   { o.rotation = r }
func (o *GameObject) Opacity() float32        { return o.opacity }
func (o *GameObject) SetOpacity(v float32)    { o.opacity = core.ClampF(v, 0, 1) }
func (o *GameObject) Tint() core.Color        { return o.tint }
func (o *GameObject) SetTint(c core.Color)    { o.tint = c }
func (o *GameObject) Visible() bool           { return o.visible }
func (o *GameObject) SetVisible(v bool)       { o.visible = v }
func (o *GameObject) Health() int32           { return o.health }
func (o *GameObject) SetHealth(h int32)       { o.health = h }
func (o *GameObject) Cell() core.IVec2        { return o.cell }
func (o *GameObject) SetCell(c core.IVec2)    { o.cell = c }

func (o *GameObject) Sprite() sprite.Handle { return o.sprite }
func (o *GameObject) Layer() layer.Handle   { return o.layer }
func (o *GameObject) Prototype() bool       { return o.prototype }
func (o *GameObject) Animations() []string  { return append([]string(nil), o.animations...) }

// Sounds returns the names of the owned sounds.
func (o *GameObject) Sounds() []string {
	out := make([]string, 0, len(o.sounds))
	for _, h := range o.sounds {
		out = append(out, h.Name())
	}
	return out
}

// Behaviors returns the IDs of the attached behaviors in run order.
func (o *GameObject) Behaviors() []string {
	ids := make([]string, len(o.behaviors))
	for i, b := range o.behaviors {
		ids[i] = b.ID()
	}
	return ids
}

// AddBehavior instantiates a registered behavior and appends it.
func (o *GameObject) AddBehavior(id string) error {
	b, err := registry.Create(id)
	if err != nil {
		return errs.New("gameobject.AddBehavior", errs.CodeNotFound).Subject(id).Cause(err).Build()
	}
	o.behaviors = append(o.behaviors, b)
	return nil
}

// AddSound takes a reference on h and keeps it.
func (o *GameObject) AddSound(h sound.Handle) error {
	if !h.IsValid() {
		return errs.BadHandle("gameobject.AddSound", h)
	}
	h.AddRef()
	o.sounds = append(o.sounds, h)
	return nil
}

// sync copies the drawable state onto the sprite.
func (o *GameObject) sync() {
	s, err := o.sprite.Object()
	if err != nil {
		return
	}
	s.SetPosition(o.position)
	s.SetRotation(o.rotation)
	s.SetOpacity(o.opacity)
	s.SetColor(o.tint)
	s.SetVisible(o.visible)
}

// Clone makes an independent instance: a private copy of the sprite attached
// to the same layer, shared sounds, fresh behavior state.
func (o *GameObject) Clone() (*GameObject, error) {
	c := &GameObject{
		layer:      o.layer,
		animations: append([]string(nil), o.animations...),
		position:   o.position,
		velocity:   o.velocity,
		rotation:   o.rotation,
		opacity:    o.opacity,
		tint:       o.tint,
		visible:    o.visible,
		health:     o.health,
		cell:       o.cell,
	}
	c.InitFrom(&o.Base)

	if o.sprite.IsValid() {
		sh, err := o.sprite.Manager().GetCopy(o.sprite.Name())
		if err != nil {
			return nil, fmt.Errorf("gameobject: clone %q: %w", o.Name(), err)
		}
		c.sprite = sh
		if l, err := o.layer.Object(); err == nil && l.Attach(sh) == nil {
			c.attached = true
		}
	}
	for _, s := range o.sounds {
		if s.IsValid() {
			s.AddRef()
			c.sounds = append(c.sounds, s)
		}
	}
	for _, b := range o.behaviors {
		if err := c.AddBehavior(b.ID()); err != nil {
			c.Dispose()
			return nil, err
		}
	}
	return c, nil
}

// Dispose detaches and releases the sprite and releases the sounds.
func (o *GameObject) Dispose() {
	if o.attached {
		if l, err := o.layer.Object(); err == nil {
			l.Detach(o.sprite)
		}
		o.attached = false
	}
	o.sprite.Release()
	o.sprite = sprite.Handle{}
	for _, s := range o.sounds {
		s.Release()
	}
	o.sounds = nil
	o.behaviors = nil
}

var props = property.NewSet("GameObject",
	property.Vec3Prop("Position", (*GameObject).Position, (*GameObject).SetPosition),
	property.Vec2Prop("Velocity", (*GameObject).Velocity, (*GameObject).SetVelocity),
	property.FloatProp("Rotation", (*GameObject).Rotation, (*GameObject).SetRotation),
	property.FloatProp("Opacity", (*GameObject).Opacity, (*GameObject).SetOpacity),
	property.ColorProp("Tint", (*GameObject).Tint, (*GameObject).SetTint),
	property.BoolProp("Visible", (*GameObject).Visible, (*GameObject).SetVisible),
	property.IntProp("Health", (*GameObject).Health, (*GameObject).SetHealth),
	property.IVec2Prop("Cell", (*GameObject).Cell, (*GameObject).SetCell),
)

// Properties returns the game object property table.
func Properties() *property.Set[*GameObject] { return props }

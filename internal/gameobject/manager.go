package gameobject

import (
	"fmt"

	"github.com/vovakirdan/zengine/internal/animation"
	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/layer"
	"github.com/vovakirdan/zengine/internal/object"
	"github.com/vovakirdan/zengine/internal/resource"
	"github.com/vovakirdan/zengine/internal/settings"
	"github.com/vovakirdan/zengine/internal/sound"
	"github.com/vovakirdan/zengine/internal/sprite"
)

// Manager owns the scene's game objects. It resolves sprites, layers, sounds
// and animations through the other managers it was built with.
type Manager struct {
	*resource.Manager[*GameObject]
	sprites    *sprite.Manager
	layers     *layer.Manager
	sounds     *sound.Manager
	animations *animation.Manager
}

// NewManager creates a game object manager with the identity index enabled.
func NewManager(sprites *sprite.Manager, layers *layer.Manager, sounds *sound.Manager, animations *animation.Manager, opts ...resource.Option[*GameObject]) *Manager {
	opts = append([]resource.Option[*GameObject]{
		resource.WithProperties(props),
		resource.WithIdentityIndex[*GameObject](),
	}, opts...)
	return &Manager{
		Manager:    resource.NewManager("gameobject", opts...),
		sprites:    sprites,
		layers:     layers,
		sounds:     sounds,
		animations: animations,
	}
}

// Create adds an object drawn with the shared sprite spriteName. Spawned
// copies attach their private sprites to layerName. Either may be empty.
func (m *Manager) Create(name, spriteName, layerName string) (Handle, error) {
	o := New(name)
	if spriteName != "" {
		sh, err := m.sprites.Get(spriteName)
		if err != nil {
			return Handle{}, fmt.Errorf("gameobject: create %q: %w", name, err)
		}
		sh.AddRef()
		o.sprite = sh
	}
	if layerName != "" {
		lh, err := m.layers.Get(layerName)
		if err != nil {
			o.Dispose()
			return Handle{}, fmt.Errorf("gameobject: create %q: %w", name, err)
		}
		o.layer = lh
	}

	h, err := m.Add(name, o)
	if err != nil {
		o.Dispose()
		return Handle{}, err
	}
	o.sync()
	return h, nil
}

// Spawn instantiates prototype. An empty name registers the copy as
// "prototype#<id>". The copy's animations start immediately.
func (m *Manager) Spawn(prototype, name string) (Handle, error) {
	var (
		h   Handle
		err error
	)
	if name == "" {
		h, err = m.GetCopy(prototype)
	} else {
		h, err = m.spawnNamed(prototype, name)
	}
	if err != nil {
		return Handle{}, err
	}

	o, _ := m.Object(h)
	m.startAnimations(h, o)
	o.sync()
	m.Logger().Debug("spawned", "prototype", prototype, "name", h.Name(), "id", o.ID())
	return h, nil
}

func (m *Manager) spawnNamed(prototype, name string) (Handle, error) {
	ph, err := m.Get(prototype)
	if err != nil {
		return Handle{}, err
	}
	p, err := m.Object(ph)
	if err != nil {
		return Handle{}, err
	}
	c, err := p.Clone()
	if err != nil {
		return Handle{}, err
	}
	h, err := m.Add(name, c)
	if err != nil {
		c.Dispose()
		return Handle{}, err
	}
	return h, nil
}

func (m *Manager) startAnimations(h Handle, o *GameObject) {
	for _, name := range o.animations {
		if _, err := m.animations.Play(name, h.Property); err != nil {
			m.Logger().Warn("animation not started", "object", o.Name(), "animation", name, "err", err)
		}
	}
}

// Find resolves an object by identity.
func (m *Manager) Find(id object.ID) (Handle, error) {
	return m.ByID(id)
}

// Destroy queues h for removal at the end of the next Update.
func (m *Manager) Destroy(h Handle) {
	m.QueueRemove(h)
}

// Update runs every non-prototype object's behaviors, copies the result onto
// its sprite, and then performs the queued removals. Objects whose behavior
// ends them are removed in the same call. It returns the number removed.
func (m *Manager) Update(dt float32) int {
	m.Each(func(h Handle, o *GameObject) bool {
		if o.prototype {
			return true
		}
		for _, b := range o.behaviors {
			alive, err := b.Update(h, dt)
			if err != nil {
				m.Logger().Warn("behavior failed", "object", o.Name(), "behavior", b.ID(), "err", err)
			}
			if !alive {
				m.Destroy(h)
				break
			}
		}
		o.sync()
		return true
	})
	return m.Sweep()
}

// PlaySound plays a per-use copy of one of the object's sounds, with the
// volume scaled by the object's opacity.
func (m *Manager) PlaySound(h Handle, soundName string) error {
	o, err := m.Object(h)
	if err != nil {
		return err
	}
	owned := false
	for _, s := range o.sounds {
		if s.Name() == soundName {
			owned = true
			break
		}
	}
	if !owned {
		return errs.NotFound("gameobject.PlaySound", soundName)
	}

	c, err := m.sounds.GetCopy(soundName)
	if err != nil {
		return err
	}
	defer c.Release()

	s, err := c.Object()
	if err != nil {
		return err
	}
	s.SetVolume(s.Volume() * o.opacity)
	return m.sounds.Play(c)
}

// layerOf returns the first layer, in draw order, that holds sh.
func (m *Manager) layerOf(sh sprite.Handle) string {
	for _, l := range m.layers.Ordered() {
		for _, s := range l.Sprites() {
			if s.Equal(sh) {
				return l.Name()
			}
		}
	}
	return ""
}

// Init creates every entry under /Objects, then performs /Spawns.
func (m *Manager) Init(st *settings.Settings) error {
	for _, name := range st.Keys("/Objects") {
		if err := m.initObject(st, name); err != nil {
			return fmt.Errorf("gameobject: init %q: %w", name, err)
		}
	}

	for i := 0; i < st.Count("/Spawns"); i++ {
		base := settings.Join("Spawns", fmt.Sprint(i))
		proto := st.GetString(base+"/Prototype", "")
		for n := st.GetInt(base+"/Count", 1); n > 0; n-- {
			if _, err := m.Spawn(proto, ""); err != nil {
				return fmt.Errorf("gameobject: spawn %q: %w", proto, err)
			}
		}
	}
	m.Logger().Info("objects created", "count", m.Count())
	return nil
}

func (m *Manager) initObject(st *settings.Settings, name string) error {
	base := settings.Join("Objects", name)
	spriteName := st.GetString(base+"/Sprite", "")

	layerName := st.GetString(base+"/Layer", "")
	if layerName == "" && spriteName != "" {
		if sh, err := m.sprites.Get(spriteName); err == nil {
			layerName = m.layerOf(sh)
		}
	}

	h, err := m.Create(name, spriteName, layerName)
	if err != nil {
		return err
	}
	o, _ := m.Object(h)

	if v, ok := st.GetFloats(base + "/Position"); ok {
		var p [3]float32
		copy(p[:], v)
		o.position = core.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}
	if v, ok := st.GetFloats(base + "/Velocity"); ok && len(v) == 2 {
		o.velocity = core.Vec2{X: v[0], Y: v[1]}
	}
	if v, ok := st.GetFloats(base + "/Tint"); ok && len(v) == 4 {
		o.tint = core.ColorFrom([4]float32{v[0], v[1], v[2], v[3]})
	}
	o.rotation = st.GetFloat(base+"/Rotation", 0)
	o.SetOpacity(st.GetFloat(base+"/Opacity", 1))
	o.visible = st.GetBool(base+"/Visible", true)
	o.health = int32(st.GetInt(base+"/Health", 0))

	for _, id := range st.GetStrings(base + "/Behaviors") {
		if err := o.AddBehavior(id); err != nil {
			return err
		}
	}
	for _, sn := range st.GetStrings(base + "/Sounds") {
		sh, err := m.sounds.Get(sn)
		if err != nil {
			return err
		}
		if err := o.AddSound(sh); err != nil {
			return err
		}
	}
	o.animations = st.GetStrings(base + "/Animations")

	if st.GetBool(base+"/Prototype", false) {
		o.prototype = true
		if s, err := o.sprite.Object(); err == nil {
			s.SetVisible(false)
		}
		return nil
	}
	o.sync()
	m.startAnimations(h, o)
	return nil
}

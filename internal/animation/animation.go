// Package animation drives float-backed properties of other resources over
// time with gween tweens.
//
// An Animation is a template until it is bound. Play clones the template and
// binds the copy to a target through a Resolver, normally the Property method
// value of the target's handle. The resolver runs on every tick, so an
// animation whose target was removed fails to resolve and stops instead of
// writing into a freed object.
package animation

import (
	"fmt"
	"sort"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/object"
	"github.com/vovakirdan/zengine/internal/property"
	"github.com/vovakirdan/zengine/internal/resource"
	"github.com/vovakirdan/zengine/internal/settings"
)

// Resolver binds a property of the animated target by name.
type Resolver func(name string) (property.Accessor, error)

var easings = map[string]ease.TweenFunc{
	"Linear":     ease.Linear,
	"InQuad":     ease.InQuad,
	"OutQuad":    ease.OutQuad,
	"InOutQuad":  ease.InOutQuad,
	"InCubic":    ease.InCubic,
	"OutCubic":   ease.OutCubic,
	"InOutCubic": ease.InOutCubic,
	"InSine":     ease.InSine,
	"OutSine":    ease.OutSine,
	"InOutSine":  ease.InOutSine,
	"OutBounce":  ease.OutBounce,
	"OutElastic": ease.OutElastic,
}

// Easings lists the accepted easing names.
func Easings() []string {
	out := make([]string, 0, len(easings))
	for name := range easings {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Animation tweens one property from one value to another.
type Animation struct {
	object.Base
	property string
	from, to []float32
	duration float32
	easing   string
	loop     bool
	speed    float32
	paused   bool

	tweens  []*gween.Tween
	target  property.Type
	resolve Resolver
	elapsed float32
	done    bool
}

// Handle refers to a managed Animation.
type Handle = resource.Handle[*Animation]

// New creates an unbound animation. from and to must have the same length,
// between 1 and 4 components.
func New(name, prop string, from, to []float32, duration float32, easing string, loop bool) (*Animation, error) {
	const op = "animation.New"
	switch {
	case prop == "":
		return nil, errs.InvalidArgument(op, "%s: empty property name", name)
	case len(from) == 0 || len(from) > 4 || len(from) != len(to):
		return nil, errs.InvalidArgument(op, "%s: from/to widths %d/%d", name, len(from), len(to))
	case duration <= 0:
		return nil, errs.InvalidArgument(op, "%s: duration %v", name, duration)
	}
	if _, ok := easings[easing]; !ok {
		return nil, errs.InvalidArgument(op, "%s: unknown easing %q", name, easing)
	}

	a := &Animation{
		property: prop,
		from:     append([]float32(nil), from...),
		to:       append([]float32(nil), to...),
		duration: duration,
		easing:   easing,
		loop:     loop,
		speed:    1,
	}
	a.Init(name)
	return a, nil
}

func (a *Animation) Property() string   { return a.property }
func (a *Animation) Width() int         { return len(a.from) }
func (a *Animation) Duration() float32  { return a.duration }
func (a *Animation) Easing() string     { return a.easing }
func (a *Animation) Loop() bool         { return a.loop }
func (a *Animation) Bound() bool        { return a.resolve != nil }
func (a *Animation) Done() bool         { return a.done }
func (a *Animation) Speed() float32     { return a.speed }
func (a *Animation) SetSpeed(s float32) { a.speed = max(s, 0) }
func (a *Animation) Paused() bool       { return a.paused }
func (a *Animation) SetPaused(p bool)   { a.paused = p }

// Progress returns the completed fraction of the current cycle.
func (a *Animation) Progress() float32 {
	if a.elapsed >= a.duration {
		return 1
	}
	return a.elapsed / a.duration
}

// Clone copies the definition. The copy is unbound.
func (a *Animation) Clone() (*Animation, error) {
	c := &Animation{
		property: a.property,
		from:     append([]float32(nil), a.from...),
		to:       append([]float32(nil), a.to...),
		duration: a.duration,
		easing:   a.easing,
		loop:     a.loop,
		speed:    a.speed,
		paused:   a.paused,
	}
	c.InitFrom(&a.Base)
	return c, nil
}

// Bind attaches the animation to a target and rewinds it. The target property
// must be float-backed with the animation's width.
func (a *Animation) Bind(resolve Resolver) error {
	const op = "animation.Bind"
	if resolve == nil {
		return errs.NullPointer(op, "resolver")
	}
	acc, err := resolve(a.property)
	if err != nil {
		return fmt.Errorf("%s %q: %w", op, a.Name(), err)
	}
	if acc.Type().Width() != len(a.from) {
		return errs.New(op, errs.CodeInvalidArgument).
			Subject(a.Name()).
			Detail("property %s is %s, animation has %d components", a.property, acc.Type(), len(a.from)).
			Build()
	}
	if acc.ReadOnly() {
		return errs.New(op, errs.CodeAccessDenied).Subject(a.Name()).Detail("property %s is read-only", a.property).Build()
	}

	a.target = acc.Type()
	a.resolve = resolve
	a.rewind()
	return nil
}

func (a *Animation) rewind() {
	fn := easings[a.easing]
	a.tweens = make([]*gween.Tween, len(a.from))
	for i := range a.from {
		a.tweens[i] = gween.New(a.from[i], a.to[i], a.duration, fn)
	}
	a.elapsed = 0
	a.done = false
}

// Update advances the animation by dt seconds and writes the result through
// the resolver. It reports whether the animation has finished. A resolver
// failure finishes the animation and is returned.
func (a *Animation) Update(dt float32) (bool, error) {
	if a.done || a.paused || a.resolve == nil {
		return a.done, nil
	}
	step := dt * a.speed

	var comps [4]float32
	finished := true
	for i, tw := range a.tweens {
		v, fin := tw.Update(step)
		comps[i] = v
		finished = finished && fin
	}
	a.elapsed += step

	acc, err := a.resolve(a.property)
	if err != nil {
		a.done = true
		return true, fmt.Errorf("animation %q: target lost: %w", a.Name(), err)
	}
	if err := acc.Set(property.FromComponents(a.target, comps)); err != nil {
		a.done = true
		return true, fmt.Errorf("animation %q: %w", a.Name(), err)
	}

	if finished {
		if a.loop {
			a.rewind()
		} else {
			a.done = true
		}
	}
	return a.done, nil
}

var props = property.NewSet("Animation",
	property.FloatProp("Speed", (*Animation).Speed, (*Animation).SetSpeed),
	property.BoolProp("Paused", (*Animation).Paused, (*Animation).SetPaused),
	property.FloatProp[*Animation]("Progress", (*Animation).Progress, nil),
)

// Properties returns the animation property table.
func Properties() *property.Set[*Animation] { return props }

// Manager owns animation templates and their playing copies.
type Manager struct {
	*resource.Manager[*Animation]
}

// NewManager creates an empty animation manager.
func NewManager(opts ...resource.Option[*Animation]) *Manager {
	opts = append([]resource.Option[*Animation]{resource.WithProperties(props)}, opts...)
	return &Manager{Manager: resource.NewManager("animation", opts...)}
}

// Define registers a template.
func (m *Manager) Define(name, prop string, from, to []float32, duration float32, easing string, loop bool) (Handle, error) {
	a, err := New(name, prop, from, to, duration, easing, loop)
	if err != nil {
		m.Logger().Error("invalid animation", "name", name, "err", err)
		return Handle{}, err
	}
	return m.Add(name, a)
}

// Play copies the template name and binds the copy to target.
func (m *Manager) Play(name string, target Resolver) (Handle, error) {
	h, err := m.GetCopy(name)
	if err != nil {
		return Handle{}, err
	}
	a, _ := m.Object(h)
	if err := a.Bind(target); err != nil {
		m.Logger().Error("bind failed", "animation", name, "err", err)
		m.Remove(h)
		return Handle{}, err
	}
	return h, nil
}

// Stop queues a playing animation for removal at the next Update.
func (m *Manager) Stop(h Handle) {
	m.QueueRemove(h)
}

// Update advances every bound animation, queues finished ones for removal
// and sweeps. It returns the number of animations removed.
func (m *Manager) Update(dt float32) int {
	m.Each(func(h Handle, a *Animation) bool {
		if !a.Bound() {
			return true
		}
		done, err := a.Update(dt)
		if err != nil {
			m.Logger().Debug("animation stopped", "name", a.Name(), "err", err)
		}
		if done {
			m.QueueRemove(h)
		}
		return true
	})
	return m.Sweep()
}

// Init defines every entry under /Animations.
func (m *Manager) Init(st *settings.Settings) error {
	for _, name := range st.Keys("/Animations") {
		base := settings.Join("Animations", name)
		from, _ := st.GetFloats(base + "/From")
		to, _ := st.GetFloats(base + "/To")
		_, err := m.Define(name,
			st.GetString(base+"/Property", ""),
			from, to,
			st.GetFloat(base+"/Duration", 1),
			st.GetString(base+"/Ease", "Linear"),
			st.GetBool(base+"/Loop", false),
		)
		if err != nil {
			return fmt.Errorf("animation: init %q: %w", name, err)
		}
	}
	m.Logger().Info("animations defined", "count", m.Count())
	return nil
}

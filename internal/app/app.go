// Package app is the explicit application context. One App holds exactly one
// manager per resource kind and is passed to whatever needs them: the CLI,
// the inspector, a server session.
package app

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/zengine/internal/animation"
	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/errs"
	"github.com/vovakirdan/zengine/internal/gameobject"
	"github.com/vovakirdan/zengine/internal/layer"
	"github.com/vovakirdan/zengine/internal/logging"
	"github.com/vovakirdan/zengine/internal/property"
	"github.com/vovakirdan/zengine/internal/resource"
	"github.com/vovakirdan/zengine/internal/settings"
	"github.com/vovakirdan/zengine/internal/sound"
	"github.com/vovakirdan/zengine/internal/sprite"
	"github.com/vovakirdan/zengine/internal/texture"

	// Behaviors register themselves with the registry.
	_ "github.com/vovakirdan/zengine/internal/behavior"
)

// Inspectable is the kind-independent view of a resource manager.
type Inspectable interface {
	Kind() string
	Count() int
	Stats() resource.Stats
	Entries() []resource.Entry
	Describe() []property.Descriptor
	Values(raw uint32) (map[string]property.Value, error)
}

// App owns the managers of one running scene.
type App struct {
	cfg      core.RuntimeConfig
	settings *settings.Settings
	logger   *log.Logger
	screen   *core.Screen

	textures   *texture.Manager
	sprites    *sprite.Manager
	sounds     *sound.Manager
	animations *animation.Manager
	layers     *layer.Manager
	objects    *gameobject.Manager

	frames  uint64
	elapsed time.Duration
	started time.Time
	closed  bool
}

// New builds the managers. Nothing is loaded until Init.
// A nil logger gets the "app" component logger.
func New(cfg core.RuntimeConfig, st *settings.Settings, logger *log.Logger) *App {
	if logger == nil {
		logger = logging.New("app")
	}
	if st == nil {
		st = settings.Empty()
	}
	seed := cfg.ResolvedSeed()

	a := &App{
		cfg:      cfg,
		settings: st,
		logger:   logger,
		screen:   core.NewScreen(cfg.ScreenW, cfg.ScreenH),
	}
	a.textures = texture.NewManager(resource.WithSeed[*texture.Texture](seed))
	a.sprites = sprite.NewManager(a.textures, resource.WithSeed[*sprite.Sprite](seed+1))
	a.sounds = sound.NewManager(resource.WithSeed[*sound.Sound](seed + 2))
	a.animations = animation.NewManager(resource.WithSeed[*animation.Animation](seed + 3))
	a.layers = layer.NewManager(a.sprites, resource.WithSeed[*layer.Layer](seed+4))
	a.objects = gameobject.NewManager(a.sprites, a.layers, a.sounds, a.animations,
		resource.WithSeed[*gameobject.GameObject](seed+5))
	return a
}

// Init populates every manager from the scene, dependencies first.
func (a *App) Init() error {
	steps := []struct {
		kind string
		init func(*settings.Settings) error
	}{
		{"texture", a.textures.Init},
		{"sprite", a.sprites.Init},
		{"sound", a.sounds.Init},
		{"animation", a.animations.Init},
		{"layer", a.layers.Init},
		{"gameobject", a.objects.Init},
	}
	for _, s := range steps {
		if err := s.init(a.settings); err != nil {
			return fmt.Errorf("app: init %s: %w", s.kind, err)
		}
	}
	a.started = time.Now()
	a.logger.Info("scene loaded", "source", a.settings.Source(), "objects", a.objects.Count())
	return nil
}

// Step advances one frame: animations, then game objects, then a redraw and
// the frame's share of audio.
func (a *App) Step(dt float32) {
	a.animations.Update(dt)
	a.objects.Update(dt)
	a.layers.Prune()

	a.screen.Clear()
	a.layers.Draw(a.screen)

	d := time.Duration(float64(dt) * float64(time.Second))
	a.sounds.Mix(d)

	a.frames++
	a.elapsed += d
}

// Run steps n frames at the configured tick rate without sleeping.
func (a *App) Run(n int) {
	dt := float32(a.cfg.FrameDuration().Seconds())
	for i := 0; i < n; i++ {
		a.Step(dt)
	}
}

// Destroy removes the named game object now rather than at the next frame.
func (a *App) Destroy(name string) error {
	h, err := a.objects.Get(name)
	if err != nil {
		return err
	}
	a.objects.Destroy(h)
	a.objects.Sweep()
	a.layers.Prune()
	return nil
}

// PlaySound plays one of the named game object's sounds. An empty sound name
// picks the first sound the object owns.
func (a *App) PlaySound(object, soundName string) error {
	h, err := a.objects.Get(object)
	if err != nil {
		return err
	}
	if soundName == "" {
		o, err := h.Object()
		if err != nil {
			return err
		}
		names := o.Sounds()
		if len(names) == 0 {
			return errs.NotFound("app.PlaySound", object+" owns no sounds")
		}
		soundName = names[0]
	}
	return a.objects.PlaySound(h, soundName)
}

// Resize changes the render target.
func (a *App) Resize(w, h int) {
	a.cfg.ScreenW, a.cfg.ScreenH = w, h
	a.screen.Resize(w, h)
}

func (a *App) Config() core.RuntimeConfig     { return a.cfg }
func (a *App) Screen() *core.Screen           { return a.screen }
func (a *App) Frames() uint64                 { return a.frames }
func (a *App) Elapsed() time.Duration         { return a.elapsed }
func (a *App) Textures() *texture.Manager     { return a.textures }
func (a *App) Sprites() *sprite.Manager       { return a.sprites }
func (a *App) Sounds() *sound.Manager         { return a.sounds }
func (a *App) Animations() *animation.Manager { return a.animations }
func (a *App) Layers() *layer.Manager         { return a.layers }
func (a *App) Objects() *gameobject.Manager   { return a.objects }
func (a *App) Settings() *settings.Settings   { return a.settings }

// Managers lists every manager in dependency order.
func (a *App) Managers() []Inspectable {
	return []Inspectable{a.textures, a.sprites, a.sounds, a.animations, a.layers, a.objects}
}

// Manager finds a manager by kind.
func (a *App) Manager(kind string) (Inspectable, bool) {
	for _, m := range a.Managers() {
		if m.Kind() == kind {
			return m, true
		}
	}
	return nil, false
}

// Snapshot returns the counters of every manager in dependency order.
func (a *App) Snapshot() []resource.Stats {
	out := make([]resource.Stats, 0, 6)
	for _, m := range a.Managers() {
		out = append(out, m.Stats())
	}
	return out
}

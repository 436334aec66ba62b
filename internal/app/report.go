package app

import (
	"time"

	"github.com/vovakirdan/zengine/internal/resource"
	"github.com/vovakirdan/zengine/internal/storage"
)

// Leak is an entry still referenced by someone other than its manager at
// shutdown.
type Leak struct {
	Kind string
	resource.Entry
}

// Report summarizes a finished session.
type Report struct {
	Scene    string
	Seed     int64
	Frames   uint64
	Elapsed  time.Duration
	Started  time.Time
	Managers []resource.Stats
	Leaks    []Leak
}

// Shutdown tears the managers down, dependents first, and reports what was
// still referenced. Calling it twice returns an empty report.
func (a *App) Shutdown() Report {
	r := Report{
		Scene:   a.settings.Source(),
		Seed:    a.cfg.Seed,
		Frames:  a.frames,
		Elapsed: a.elapsed,
		Started: a.started,
	}
	if a.closed {
		return r
	}
	a.closed = true
	r.Managers = a.Snapshot()
	a.sounds.Stop()

	order := []struct {
		kind     string
		shutdown func() []resource.Entry
	}{
		{"gameobject", a.objects.Shutdown},
		{"animation", a.animations.Shutdown},
		{"layer", a.layers.Shutdown},
		{"sprite", a.sprites.Shutdown},
		{"sound", a.sounds.Shutdown},
		{"texture", a.textures.Shutdown},
	}
	for _, o := range order {
		for _, e := range o.shutdown() {
			r.Leaks = append(r.Leaks, Leak{Kind: o.kind, Entry: e})
		}
	}
	if len(r.Leaks) > 0 {
		a.logger.Warn("shutdown with leaked references", "count", len(r.Leaks))
	} else {
		a.logger.Info("shutdown clean", "frames", r.Frames)
	}
	return r
}

// Session converts the report into a storage record.
func (r Report) Session() storage.Session {
	s := storage.Session{
		Scene:     r.Scene,
		Seed:      r.Seed,
		Frames:    int64(r.Frames),
		Elapsed:   r.Elapsed,
		StartedAt: r.Started,
	}
	for _, m := range r.Managers {
		s.Managers = append(s.Managers, storage.ManagerStats{
			Kind:     m.Kind,
			Live:     m.Live,
			Peak:     m.Peak,
			Added:    int64(m.Added),
			Removed:  int64(m.Removed),
			Clones:   int64(m.Clones),
			Failures: int64(m.Failures),
		})
	}
	for _, l := range r.Leaks {
		s.Leaks = append(s.Leaks, storage.Leak{
			Kind:     l.Kind,
			Name:     l.Name,
			Handle:   l.Handle,
			RefCount: int(l.RefCount),
		})
	}
	return s
}

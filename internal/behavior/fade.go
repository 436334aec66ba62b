package behavior

import (
	"github.com/vovakirdan/zengine/internal/registry"
)

// Fade lowers Opacity at Rate per second and ends the object at zero.
type Fade struct {
	Rate float32
}

func init() {
	registry.Register("fade", func() registry.Behavior { return &Fade{Rate: 0.25} })
}

func (f *Fade) ID() string          { return "fade" }
func (f *Fade) Description() string { return "fade out, destroy when invisible" }

func (f *Fade) Update(t registry.Target, dt float32) (bool, error) {
	v, err := bump(t, "Opacity", func(o float32) float32 {
		return max(o-f.Rate*dt, 0)
	})
	if err != nil {
		return false, err
	}
	return v > 0, nil
}

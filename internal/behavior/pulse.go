package behavior

import (
	"math"

	"github.com/vovakirdan/zengine/internal/registry"
)

// Pulse oscillates Opacity between Base-Depth and Base+Depth.
type Pulse struct {
	Hz    float32
	Base  float32
	Depth float32
	phase float64
}

func init() {
	registry.Register("pulse", func() registry.Behavior {
		return &Pulse{Hz: 1, Base: 0.7, Depth: 0.3}
	})
}

func (p *Pulse) ID() string          { return "pulse" }
func (p *Pulse) Description() string { return "oscillate opacity" }

func (p *Pulse) Update(t registry.Target, dt float32) (bool, error) {
	p.phase = math.Mod(p.phase+2*math.Pi*float64(p.Hz*dt), 2*math.Pi)
	_, err := bump(t, "Opacity", func(float32) float32 {
		return p.Base + p.Depth*float32(math.Sin(p.phase))
	})
	return err == nil, err
}

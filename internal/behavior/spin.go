package behavior

import (
	"math"

	"github.com/vovakirdan/zengine/internal/registry"
)

// Spin rotates the object at a constant rate, in degrees per second.
type Spin struct {
	Rate float32
}

func init() {
	registry.Register("spin", func() registry.Behavior { return &Spin{Rate: 180} })
}

func (s *Spin) ID() string          { return "spin" }
func (s *Spin) Description() string { return "rotate at a constant rate" }

func (s *Spin) Update(t registry.Target, dt float32) (bool, error) {
	_, err := bump(t, "Rotation", func(r float32) float32 {
		return float32(math.Mod(float64(r+s.Rate*dt), 360))
	})
	return err == nil, err
}

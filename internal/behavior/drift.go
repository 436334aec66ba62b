package behavior

import (
	"math"

	"github.com/vovakirdan/zengine/internal/core"
	"github.com/vovakirdan/zengine/internal/registry"
)

// Drift integrates Velocity into Position and keeps Cell in step.
type Drift struct{}

func init() {
	registry.Register("drift", func() registry.Behavior { return &Drift{} })
}

func (d *Drift) ID() string          { return "drift" }
func (d *Drift) Description() string { return "move by velocity, track the grid cell" }

func (d *Drift) Update(t registry.Target, dt float32) (bool, error) {
	vel, err := t.Property("Velocity")
	if err != nil {
		return false, err
	}
	pos, err := t.Property("Position")
	if err != nil {
		return false, err
	}
	v, err := vel.GetVec2()
	if err != nil {
		return false, err
	}
	p, err := pos.GetVec3()
	if err != nil {
		return false, err
	}

	p = p.Add(core.Vec3{X: v.X * dt, Y: v.Y * dt})
	if err := pos.SetVec3(p); err != nil {
		return false, err
	}

	if cell, err := t.Property("Cell"); err == nil {
		cell.SetIVec2(core.IVec2{
			X: int32(math.Floor(float64(p.X))),
			Y: int32(math.Floor(float64(p.Y))),
		})
	}
	return true, nil
}

package system

import (
	"time"

	"github.com/fresa/engine/internal/component"
	"github.com/fresa/engine/internal/core/ecs"
	coresys "github.com/fresa/engine/internal/core/system"
)

// MovementSystem integrates velocity into position. It must be registered
// after SteerSystem so steering applies in the same tick.
// Phase 2 (Update).
type MovementSystem struct {
	reg *ecs.Registry
}

func NewMovementSystem(reg *ecs.Registry) *MovementSystem {
	return &MovementSystem{reg: reg}
}

func (s *MovementSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *MovementSystem) Update(dt time.Duration) {
	secs := dt.Seconds()
	ecs.Each2(s.reg, func(_ ecs.Handle, p *component.Position, v *component.Velocity) {
		p.X += v.X * secs
		p.Y += v.Y * secs
	})
}

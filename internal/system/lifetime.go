package system

import (
	"time"

	"github.com/fresa/engine/internal/component"
	"github.com/fresa/engine/internal/core/ecs"
	"github.com/fresa/engine/internal/core/event"
	coresys "github.com/fresa/engine/internal/core/system"
)

// LifetimeSystem ages entities and queues expired ones for destruction.
// Phase 3 (PostUpdate).
type LifetimeSystem struct {
	reg *ecs.Registry
	bus *event.Bus
}

func NewLifetimeSystem(reg *ecs.Registry, bus *event.Bus) *LifetimeSystem {
	return &LifetimeSystem{reg: reg, bus: bus}
}

func (s *LifetimeSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *LifetimeSystem) Update(dt time.Duration) {
	for h, l := range ecs.NewView[component.Lifetime](s.reg).Entities() {
		if l.Expired() {
			continue // already queued
		}
		l.Remaining -= dt
		l.Age += dt
		if !l.Expired() {
			continue
		}
		s.reg.MarkForDestruction(h)

		name := ""
		if tag, ok := ecs.Get[component.Tag](s.reg, h); ok {
			name = tag.Name
		}
		event.Emit(s.bus, event.EntityExpired{Entity: h, Name: name, Age: l.Age})
	}
}

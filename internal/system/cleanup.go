package system

import (
	"time"

	"github.com/fresa/engine/internal/core/ecs"
	coresys "github.com/fresa/engine/internal/core/system"
)

// CleanupSystem flushes the deferred entity destruction queue at tick end.
// Phase 4 (Cleanup).
type CleanupSystem struct {
	reg       *ecs.Registry
	destroyed int
}

func NewCleanupSystem(reg *ecs.Registry) *CleanupSystem {
	return &CleanupSystem{reg: reg}
}

func (s *CleanupSystem) Phase() coresys.Phase { return coresys.PhaseCleanup }

func (s *CleanupSystem) Update(_ time.Duration) {
	s.destroyed += s.reg.FlushDestroyQueue()
}

// Destroyed returns the total number of entities destroyed so far.
func (s *CleanupSystem) Destroyed() int { return s.destroyed }

package system

import "time"

// Phase defines execution ordering within a single tick.
type Phase int

const (
	PhaseSpawn      Phase = iota // 0: populate entities from spawn tables
	PhasePreUpdate               // 1: deliver last tick's events
	PhaseUpdate                  // 2: steering and movement
	PhasePostUpdate              // 3: lifetimes, expiry
	PhaseCleanup                 // 4: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseSpawn:
		return "spawn"
	case PhasePreUpdate:
		return "pre-update"
	case PhaseUpdate:
		return "update"
	case PhasePostUpdate:
		return "post-update"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every ECS system implements.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

package system

import (
	"math/rand"
	"time"

	"github.com/fresa/engine/internal/component"
	"github.com/fresa/engine/internal/core/ecs"
	"github.com/fresa/engine/internal/core/event"
	coresys "github.com/fresa/engine/internal/core/system"
	"github.com/fresa/engine/internal/data"
	"go.uber.org/zap"
)

// spawnGroup tracks the live population of one spawn entry.
type spawnGroup struct {
	entry   data.SpawnEntry
	members []ecs.Handle
	waited  time.Duration
}

// SpawnSystem populates the registry from the spawn table on its first tick,
// then tops groups back up one entity per respawn delay.
// Phase 0 (Spawn).
type SpawnSystem struct {
	reg     *ecs.Registry
	bus     *event.Bus
	rng     *rand.Rand
	log     *zap.Logger
	groups  []spawnGroup
	started bool
	spawned int
}

func NewSpawnSystem(reg *ecs.Registry, bus *event.Bus, entries []data.SpawnEntry, seed int64, log *zap.Logger) *SpawnSystem {
	groups := make([]spawnGroup, len(entries))
	for i, e := range entries {
		groups[i] = spawnGroup{entry: e, members: make([]ecs.Handle, 0, e.Count)}
	}
	return &SpawnSystem{
		reg:    reg,
		bus:    bus,
		rng:    rand.New(rand.NewSource(seed)),
		log:    log,
		groups: groups,
	}
}

func (s *SpawnSystem) Phase() coresys.Phase { return coresys.PhaseSpawn }

func (s *SpawnSystem) Update(dt time.Duration) {
	if !s.started {
		s.started = true
		for i := range s.groups {
			g := &s.groups[i]
			for len(g.members) < g.entry.Count {
				if !s.spawn(g) {
					return
				}
			}
		}
		return
	}

	for i := range s.groups {
		g := &s.groups[i]
		g.prune(s.reg)
		if g.entry.RespawnDelay <= 0 || len(g.members) >= g.entry.Count {
			g.waited = 0
			continue
		}
		g.waited += dt
		if g.waited >= g.entry.RespawnDuration() {
			g.waited = 0
			if !s.spawn(g) {
				return
			}
		}
	}
}

// spawn creates one entity for g. It reports false when the registry is out
// of capacity, which stops spawning for the rest of the tick.
func (s *SpawnSystem) spawn(g *spawnGroup) bool {
	e := &g.entry
	inits := []ecs.Init{
		ecs.With(component.Position{
			X: e.X + jitter(s.rng, e.RandomX),
			Y: e.Y + jitter(s.rng, e.RandomY),
		}),
		ecs.With(component.Velocity{X: e.VX, Y: e.VY}),
		ecs.With(component.Tag{Name: e.Name}),
	}
	if e.Lifetime > 0 {
		inits = append(inits, ecs.With(component.Lifetime{Remaining: e.LifetimeDuration()}))
	}

	h, err := s.reg.Create(inits...)
	if !h.Valid() {
		s.log.Error("spawn failed", zap.String("name", e.Name), zap.Error(err))
		return false
	}
	if err != nil {
		s.log.Warn("spawned entity is missing components",
			zap.String("name", e.Name), zap.Stringer("entity", h), zap.Error(err))
	}
	g.members = append(g.members, h)
	s.spawned++
	event.Emit(s.bus, event.EntitySpawned{Entity: h, Name: e.Name})
	return true
}

// prune drops handles that are no longer alive.
func (g *spawnGroup) prune(reg *ecs.Registry) {
	live := g.members[:0]
	for _, h := range g.members {
		if reg.Alive(h) {
			live = append(live, h)
		}
	}
	g.members = live
}

// Spawned returns the total number of entities created so far.
func (s *SpawnSystem) Spawned() int { return s.spawned }

func jitter(rng *rand.Rand, spread float64) float64 {
	if spread <= 0 {
		return 0
	}
	return (rng.Float64()*2 - 1) * spread
}

package system

import (
	"time"

	"github.com/fresa/engine/internal/component"
	"github.com/fresa/engine/internal/core/ecs"
	coresys "github.com/fresa/engine/internal/core/system"
	"github.com/fresa/engine/internal/scripting"
)

// SteerSystem lets the Lua steer function adjust every moving entity's
// velocity before movement is integrated.
// Phase 2 (Update).
type SteerSystem struct {
	reg           *ecs.Registry
	lua           *scripting.Engine
	width, height float64
}

func NewSteerSystem(reg *ecs.Registry, lua *scripting.Engine, width, height float64) *SteerSystem {
	return &SteerSystem{reg: reg, lua: lua, width: width, height: height}
}

func (s *SteerSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *SteerSystem) Update(dt time.Duration) {
	if !s.lua.HasFunc("steer") {
		return
	}
	secs := dt.Seconds()
	ecs.Each2(s.reg, func(_ ecs.Handle, p *component.Position, v *component.Velocity) {
		res := s.lua.Steer(scripting.SteerContext{
			X: p.X, Y: p.Y,
			VX: v.X, VY: v.Y,
			DT:     secs,
			Width:  s.width,
			Height: s.height,
		})
		v.X, v.Y = res.VX, res.VY
	})
}

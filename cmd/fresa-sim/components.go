package main

import (
	"github.com/fresa/engine/internal/component"
	"github.com/fresa/engine/internal/core/ecs"
)

func registerComponents(reg *ecs.Registry) {
	ecs.Register[component.Position](reg)
	ecs.Register[component.Velocity](reg)
	ecs.Register[component.Lifetime](reg)
	ecs.Register[component.Tag](reg)
}

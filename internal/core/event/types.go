package event

import (
	"time"

	"github.com/fresa/engine/internal/core/ecs"
)

type EntitySpawned struct {
	Entity ecs.Handle
	Name   string
}

type EntityExpired struct {
	Entity ecs.Handle
	Name   string
	Age    time.Duration
}

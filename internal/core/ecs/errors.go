package ecs

import "errors"

var (
	// ErrDuplicateInsert is returned when a component is attached to a slot
	// that already holds an equal or newer generation. The pool is unchanged.
	ErrDuplicateInsert = errors.New("ecs: component already present for entity")

	// ErrCapacityExceeded is returned when the allocator has no index left.
	// It is fatal for the Registry that produced it.
	ErrCapacityExceeded = errors.New("ecs: entity capacity exceeded")
)

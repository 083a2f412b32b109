package ecs

// ComponentID is the stable key a Registry assigns to a component type, in
// registration order.
type ComponentID uint16

// Removable is implemented by all pools so the Registry can bulk-remove an
// entity's data from every pool on destroy without knowing the value type.
type Removable interface {
	Remove(h Handle)
	Contains(h Handle) bool
}

// anyPool is the type-erased view of a Pool the Registry keeps per ComponentID.
type anyPool interface {
	Removable
	Name() string
	Len() int
	Extent() int
	Clear()
}

var _ anyPool = (*Pool[struct{}])(nil)

// PoolStat is a snapshot of one pool's occupancy.
type PoolStat struct {
	ID     ComponentID
	Name   string
	Len    int
	Extent int
}

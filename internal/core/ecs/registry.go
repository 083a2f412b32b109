package ecs

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Registry is the top-level ECS container. It owns the entity allocator, one
// pool per component type, and a deferred destruction queue.
//
// Only pool lookup-or-create is synchronized. Adding, reading and removing
// components on a pool from several goroutines is the caller's problem.
type Registry struct {
	log      *zap.Logger
	pageSize int

	mu    sync.Mutex // guards types and pools
	types map[reflect.Type]ComponentID
	pools []anyPool

	entities     *EntityPool
	destroyQueue []Handle
}

// Option configures a Registry.
type Option func(*Registry)

// WithPageSize sets the sparse page size of every pool the Registry creates.
func WithPageSize(n int) Option {
	return func(r *Registry) { r.pageSize = n }
}

// WithDestroyQueueCapacity preallocates the deferred destruction queue.
func WithDestroyQueueCapacity(n int) Option {
	return func(r *Registry) {
		if n > 0 {
			r.destroyQueue = make([]Handle, 0, n)
		}
	}
}

func NewRegistry(log *zap.Logger, opts ...Option) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Registry{
		log:          log,
		pageSize:     DefaultPageSize,
		types:        make(map[reflect.Type]ComponentID, 16),
		pools:        make([]anyPool, 0, 16),
		entities:     NewEntityPool(),
		destroyQueue: make([]Handle, 0, 64),
	}
	for _, opt := range opts {
		opt(r)
	}
	if !validPageSize(r.pageSize) {
		log.Warn("invalid ecs page size, using default",
			zap.Int("page_size", r.pageSize),
			zap.Int("default", DefaultPageSize))
		r.pageSize = DefaultPageSize
	}
	return r
}

// Register returns T's ComponentID, creating its pool on first use.
// Registering every type up front keeps pool creation out of the hot path.
func Register[T any](r *Registry) ComponentID {
	id, _ := poolFor[T](r)
	return id
}

// PoolFor returns T's pool, creating it on first use. The returned pool lives
// as long as the Registry.
func PoolFor[T any](r *Registry) *Pool[T] {
	_, p := poolFor[T](r)
	return p
}

func poolFor[T any](r *Registry) (ComponentID, *Pool[T]) {
	t := reflect.TypeFor[T]()

	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.types[t]; ok {
		return id, r.pools[id].(*Pool[T])
	}
	id := ComponentID(len(r.pools))
	p := NewPool[T](t.String(), r.pageSize, r.log)
	r.types[t] = id
	r.pools = append(r.pools, p)
	r.log.Debug("component pool created",
		zap.String("component", t.String()),
		zap.Uint16("id", uint16(id)))
	return id, p
}

// ComponentIDOf reports T's ComponentID without creating a pool.
func ComponentIDOf[T any](r *Registry) (ComponentID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.types[reflect.TypeFor[T]()]
	return id, ok
}

// snapshot returns the pools instantiated so far. Pools are only ever
// appended, so the returned slice stays valid while new ones are created.
func (r *Registry) snapshot() []anyPool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pools
}

// Init attaches one component to a freshly created entity.
type Init func(r *Registry, h Handle) error

// With builds an Init that adds v to T's pool.
func With[T any](v T) Init {
	return func(r *Registry, h Handle) error {
		return PoolFor[T](r).Add(h, v)
	}
}

// Create allocates an entity and attaches the given components in order.
//
// Insertion is not transactional: if an Init fails the components attached
// before it stay, and the handle is returned together with the joined errors.
func (r *Registry) Create(inits ...Init) (Handle, error) {
	h, err := r.entities.Create()
	if err != nil {
		r.log.Error("entity allocation failed", zap.Error(err))
		return InvalidHandle, err
	}
	var errs []error
	for _, fn := range inits {
		if err := fn(r, h); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return h, fmt.Errorf("create entity %s: %w", h, errors.Join(errs...))
	}
	return h, nil
}

// Add attaches v to an existing entity.
func Add[T any](r *Registry, h Handle, v T) error {
	return PoolFor[T](r).Add(h, v)
}

// Get returns h's T component. A missing component or stale handle reports false.
func Get[T any](r *Registry, h Handle) (*T, bool) {
	return PoolFor[T](r).Get(h)
}

func Has[T any](r *Registry, h Handle) bool {
	return PoolFor[T](r).Contains(h)
}

// RemoveComponent detaches T from h. It is a no-op if h has no T.
func RemoveComponent[T any](r *Registry, h Handle) {
	PoolFor[T](r).Remove(h)
}

// Destroy removes h from every pool and recycles its index with a bumped
// generation. Destroying a stale handle does nothing.
func (r *Registry) Destroy(h Handle) {
	if !r.entities.Alive(h) {
		r.log.Debug("destroy of stale entity ignored", zap.Stringer("entity", h))
		return
	}
	for _, p := range r.snapshot() {
		p.Remove(h)
	}
	if r.entities.Retiring(h) {
		r.log.Warn("entity slot retired after generation exhaustion",
			zap.Uint16("index", h.Index()))
	}
	r.entities.Destroy(h)
}

func (r *Registry) Alive(h Handle) bool {
	return r.entities.Alive(h)
}

// Len returns the number of live entities.
func (r *Registry) Len() int {
	return r.entities.Len()
}

// MarkForDestruction queues an entity for end-of-tick cleanup.
func (r *Registry) MarkForDestruction(h Handle) {
	r.destroyQueue = append(r.destroyQueue, h)
}

// FlushDestroyQueue destroys all queued entities and returns how many were
// actually alive. Duplicates in the queue are harmless.
func (r *Registry) FlushDestroyQueue() int {
	n := 0
	for _, h := range r.destroyQueue {
		if r.entities.Alive(h) {
			r.Destroy(h)
			n++
		}
	}
	r.destroyQueue = r.destroyQueue[:0]
	return n
}

// PoolStats reports occupancy of every instantiated pool in ComponentID order.
func (r *Registry) PoolStats() []PoolStat {
	pools := r.snapshot()
	stats := make([]PoolStat, len(pools))
	for i, p := range pools {
		stats[i] = PoolStat{
			ID:     ComponentID(i),
			Name:   p.Name(),
			Len:    p.Len(),
			Extent: p.Extent(),
		}
	}
	return stats
}

// Clear empties every pool. Live handles stay allocated.
func (r *Registry) Clear() {
	for _, p := range r.snapshot() {
		p.Clear()
	}
}

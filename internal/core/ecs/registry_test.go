package ecs

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()
	return NewRegistry(zaptest.NewLogger(t), opts...)
}

func TestRegistryScenario(t *testing.T) {
	r := newTestRegistry(t)

	h1, err := r.Create(With(position{0, 0}))
	require.NoError(t, err)
	h2, err := r.Create(With(position{1, 1}), With(velocity{5, 0}))
	require.NoError(t, err)

	r.Destroy(h1)
	h3, err := r.Create(With(position{2, 2}))
	require.NoError(t, err)

	assert.Equal(t, h1.Index(), h3.Index())
	assert.Equal(t, h1.Generation()+1, h3.Generation())

	_, ok := Get[position](r, h1)
	assert.False(t, ok)

	p, ok := Get[position](r, h3)
	require.True(t, ok)
	assert.Equal(t, position{2, 2}, *p)

	v, ok := Get[velocity](r, h2)
	require.True(t, ok)
	assert.Equal(t, velocity{5, 0}, *v)

	assert.Equal(t, 2, r.Len())
}

func TestRegistryStaleHandleAfterReuse(t *testing.T) {
	r := newTestRegistry(t)
	var h1 Handle
	for i := 0; i < 6; i++ {
		h, err := r.Create(With(health{i}))
		require.NoError(t, err)
		h1 = h
	}
	require.Equal(t, NewHandle(5, 0), h1)

	r.Destroy(h1)
	h2, err := r.Create(With(health{99}))
	require.NoError(t, err)
	require.Equal(t, NewHandle(5, 1), h2)

	_, ok := Get[health](r, h1)
	assert.False(t, ok, "stale handle must not see the new occupant")
	got, ok := Get[health](r, h2)
	require.True(t, ok)
	assert.Equal(t, 99, got.HP)
}

func TestRegistryDestroyRemovesFromEveryPool(t *testing.T) {
	r := newTestRegistry(t)
	h, err := r.Create(With(position{1, 2}), With(velocity{3, 4}), With(health{5}))
	require.NoError(t, err)
	other, err := r.Create(With(position{7, 7}))
	require.NoError(t, err)

	r.Destroy(h)
	assert.False(t, r.Alive(h))
	assert.False(t, Has[position](r, h))
	assert.False(t, Has[velocity](r, h))
	assert.False(t, Has[health](r, h))

	for _, s := range r.PoolStats() {
		switch s.Name {
		case "ecs.position":
			assert.Equal(t, 1, s.Len)
		default:
			assert.Equal(t, 0, s.Len, s.Name)
		}
	}
	p, ok := Get[position](r, other)
	require.True(t, ok)
	assert.Equal(t, position{7, 7}, *p)
}

func TestRegistryDestroyStaleIsNoop(t *testing.T) {
	r := newTestRegistry(t)
	h, _ := r.Create(With(health{1}))
	r.Destroy(h)
	r.Destroy(h)

	a, _ := r.Create()
	b, _ := r.Create()
	assert.Equal(t, NewHandle(0, 1), a)
	assert.Equal(t, NewHandle(1, 0), b, "double destroy must not hand out the slot twice")
}

func TestRegistryCreateNotTransactional(t *testing.T) {
	r := newTestRegistry(t)
	h, err := r.Create(With(position{1, 1}), With(position{2, 2}), With(health{3}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateInsert))
	require.True(t, h.Valid())

	p, ok := Get[position](r, h)
	require.True(t, ok)
	assert.Equal(t, position{1, 1}, *p, "first insert kept")
	_, ok = Get[health](r, h)
	assert.True(t, ok, "later components still attached")
}

func TestRegistryCapacityExceeded(t *testing.T) {
	r := newTestRegistry(t)
	for i := 0; i < MaxEntities; i++ {
		_, err := r.Create()
		require.NoError(t, err)
	}
	h, err := r.Create(With(health{1}))
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Equal(t, InvalidHandle, h)
	assert.Equal(t, 0, PoolFor[health](r).Len(), "no component attached on failed allocation")
}

func TestRegistryAddAndRemoveComponent(t *testing.T) {
	r := newTestRegistry(t)
	h, _ := r.Create()
	require.NoError(t, Add(r, h, velocity{1, 0}))
	assert.True(t, Has[velocity](r, h))

	err := Add(r, h, velocity{2, 0})
	assert.True(t, errors.Is(err, ErrDuplicateInsert))

	RemoveComponent[velocity](r, h)
	assert.False(t, Has[velocity](r, h))
	assert.True(t, r.Alive(h), "detaching a component keeps the entity")
	RemoveComponent[health](r, h)
}

func TestRegistryComponentIDs(t *testing.T) {
	r := newTestRegistry(t)
	_, ok := ComponentIDOf[position](r)
	assert.False(t, ok)

	assert.Equal(t, ComponentID(0), Register[velocity](r))
	assert.Equal(t, ComponentID(1), Register[position](r))
	assert.Equal(t, ComponentID(0), Register[velocity](r), "registration is idempotent")

	id, ok := ComponentIDOf[position](r)
	require.True(t, ok)
	assert.Equal(t, ComponentID(1), id)
	assert.Same(t, PoolFor[position](r), PoolFor[position](r))
}

func TestRegistryConcurrentPoolCreation(t *testing.T) {
	r := newTestRegistry(t)
	const workers = 32
	pools := make([]*Pool[position], workers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			Register[health](r)
			pools[i] = PoolFor[position](r)
		}(i)
	}
	close(start)
	wg.Wait()

	for _, p := range pools {
		assert.Same(t, pools[0], p)
	}
	assert.Len(t, r.PoolStats(), 2)
}

func TestRegistryPageSizeOption(t *testing.T) {
	r := newTestRegistry(t, WithPageSize(64))
	h, _ := r.Create(With(position{}))
	assert.Equal(t, 64, PoolFor[position](r).Extent())
	_ = h

	r = newTestRegistry(t, WithPageSize(100))
	_, _ = r.Create(With(position{}))
	assert.Equal(t, DefaultPageSize, PoolFor[position](r).Extent())
}

func TestRegistryDestroyQueue(t *testing.T) {
	r := newTestRegistry(t, WithDestroyQueueCapacity(8))
	a, _ := r.Create(With(health{1}))
	b, _ := r.Create(With(health{2}))
	c, _ := r.Create(With(health{3}))

	r.MarkForDestruction(a)
	r.MarkForDestruction(c)
	r.MarkForDestruction(a)
	assert.True(t, r.Alive(a), "destruction is deferred")

	assert.Equal(t, 2, r.FlushDestroyQueue())
	assert.False(t, r.Alive(a))
	assert.True(t, r.Alive(b))
	assert.False(t, r.Alive(c))
	assert.Equal(t, 1, PoolFor[health](r).Len())
	assert.Equal(t, 0, r.FlushDestroyQueue())
}

func TestRegistryClear(t *testing.T) {
	r := newTestRegistry(t)
	h, _ := r.Create(With(position{}), With(health{1}))
	r.Clear()
	assert.True(t, r.Alive(h))
	assert.False(t, Has[position](r, h))
	for _, s := range r.PoolStats() {
		assert.Zero(t, s.Len)
		assert.Zero(t, s.Extent)
	}
}

func BenchmarkRegistryCreateDestroy(b *testing.B) {
	r := NewRegistry(nil)
	hs := make([]Handle, 0, 1000)
	for b.Loop() {
		for i := 0; i < 1000; i++ {
			h, _ := r.Create(With(position{}), With(velocity{1, 1}))
			hs = append(hs, h)
		}
		for _, h := range hs {
			r.Destroy(h)
		}
		hs = hs[:0]
	}
}

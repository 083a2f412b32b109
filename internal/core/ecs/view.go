package ecs

import "iter"

// View iterates the packed values of one component type. It holds no state
// of its own: every call re-reads the pool, so a View can be restarted at
// any time. Adding or removing T while iterating is not supported.
type View[T any] struct {
	pool *Pool[T]
}

func NewView[T any](r *Registry) View[T] {
	return View[T]{pool: PoolFor[T](r)}
}

func (v View[T]) All() iter.Seq[*T]               { return v.pool.All() }
func (v View[T]) Backward() iter.Seq[*T]          { return v.pool.Backward() }
func (v View[T]) Entities() iter.Seq2[Handle, *T] { return v.pool.Entities() }
func (v View[T]) Each(fn func(Handle, *T))        { v.pool.Each(fn) }
func (v View[T]) Len() int                        { return v.pool.Len() }

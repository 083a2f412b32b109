package ecs

import (
	"fmt"
	"iter"

	"go.uber.org/zap"
)

// DefaultPageSize is the number of sparse slots materialized per page.
const DefaultPageSize = 1024

// Pool is a paged sparse set storing one component type.
//
// sparse maps page number to a page of slots. An occupied slot holds a
// Handle-shaped value whose index is the dense position and whose generation
// is that of the entity stored there. dense[pos] is the entity index owning
// data[pos]. Both slices are packed with no gaps.
//
// A Pool is not safe for concurrent mutation; callers serialize access.
type Pool[T any] struct {
	name     string
	pageSize int
	sparse   map[int][]Handle
	dense    []uint16
	data     []T
	log      *zap.Logger
}

// NewPool creates an empty pool. pageSize must be a power of two no larger
// than MaxEntities+1; anything else falls back to DefaultPageSize.
func NewPool[T any](name string, pageSize int, log *zap.Logger) *Pool[T] {
	if log == nil {
		log = zap.NewNop()
	}
	if !validPageSize(pageSize) {
		pageSize = DefaultPageSize
	}
	return &Pool[T]{
		name:     name,
		pageSize: pageSize,
		sparse:   make(map[int][]Handle),
		log:      log.With(zap.String("component", name)),
	}
}

func validPageSize(n int) bool {
	return n > 0 && n <= MaxEntities+1 && n&(n-1) == 0
}

func (p *Pool[T]) Name() string { return p.name }

// slot returns the sparse slot for the entity index, or nil if its page is absent.
func (p *Pool[T]) slot(index uint16) *Handle {
	page, ok := p.sparse[int(index)/p.pageSize]
	if !ok {
		return nil
	}
	return &page[int(index)%p.pageSize]
}

// lookup returns the slot for h only if it holds h's generation.
func (p *Pool[T]) lookup(h Handle) *Handle {
	s := p.slot(h.Index())
	if s == nil || *s == InvalidHandle || s.Generation() != h.Generation() {
		return nil
	}
	return s
}

// Add stores v for h.
//
// An empty slot appends to the packed arrays. A slot holding an older
// generation is overwritten in place, keeping its dense position. A slot
// holding the same or a newer generation is left untouched and
// ErrDuplicateInsert is returned.
func (p *Pool[T]) Add(h Handle, v T) error {
	n := int(h.Index()) / p.pageSize
	page, ok := p.sparse[n]
	if !ok {
		page = make([]Handle, p.pageSize)
		for i := range page {
			page[i] = InvalidHandle
		}
		p.sparse[n] = page
	}

	s := &page[int(h.Index())%p.pageSize]
	switch {
	case *s == InvalidHandle:
		*s = NewHandle(uint16(len(p.dense)), h.Generation())
		p.data = append(p.data, v)
		p.dense = append(p.dense, h.Index())
	case h.Generation() > s.Generation():
		pos := s.Index()
		*s = NewHandle(pos, h.Generation())
		p.data[pos] = v
		p.dense[pos] = h.Index()
	default:
		p.log.Error("entity already present in pool",
			zap.Stringer("entity", h),
			zap.Uint16("stored_generation", s.Generation()))
		return fmt.Errorf("add %s to %s: %w", h, p.name, ErrDuplicateInsert)
	}
	return nil
}

// Get returns a pointer into the packed data. The pointer is valid until the
// next Add or Remove on this pool.
func (p *Pool[T]) Get(h Handle) (*T, bool) {
	s := p.lookup(h)
	if s == nil {
		return nil, false
	}
	return &p.data[s.Index()], true
}

func (p *Pool[T]) Contains(h Handle) bool {
	return p.lookup(h) != nil
}

// Remove deletes h's component by moving the last packed element into its
// place. Absent or stale handles are a no-op.
func (p *Pool[T]) Remove(h Handle) {
	s := p.lookup(h)
	if s == nil {
		return
	}
	pos := s.Index()
	last := len(p.dense) - 1

	moved := p.slot(p.dense[last])
	*moved = NewHandle(pos, moved.Generation())
	p.dense[pos] = p.dense[last]
	p.data[pos] = p.data[last]
	*s = InvalidHandle

	var zero T
	p.data[last] = zero
	p.dense = p.dense[:last]
	p.data = p.data[:last]
}

// Clear drops every page and packed element. The pool stays usable.
func (p *Pool[T]) Clear() {
	p.log.Info("clearing pool", zap.Int("len", len(p.dense)))
	clear(p.sparse)
	clear(p.data)
	p.data = p.data[:0]
	p.dense = p.dense[:0]
}

// Len returns the number of packed elements.
func (p *Pool[T]) Len() int { return len(p.dense) }

// Extent returns the number of addressable slots across materialized pages.
func (p *Pool[T]) Extent() int { return len(p.sparse) * p.pageSize }

// handleAt rebuilds the owning handle of dense position pos.
func (p *Pool[T]) handleAt(pos int) Handle {
	idx := p.dense[pos]
	return NewHandle(idx, p.slot(idx).Generation())
}

// All yields the packed values front to back.
func (p *Pool[T]) All() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := range p.data {
			if !yield(&p.data[i]) {
				return
			}
		}
	}
}

// Backward yields the packed values back to front.
func (p *Pool[T]) Backward() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		for i := len(p.data) - 1; i >= 0; i-- {
			if !yield(&p.data[i]) {
				return
			}
		}
	}
}

// Entities yields every packed value with the handle that owns it.
func (p *Pool[T]) Entities() iter.Seq2[Handle, *T] {
	return func(yield func(Handle, *T) bool) {
		for i := range p.data {
			if !yield(p.handleAt(i), &p.data[i]) {
				return
			}
		}
	}
}

func (p *Pool[T]) Each(fn func(Handle, *T)) {
	for i := range p.data {
		fn(p.handleAt(i), &p.data[i])
	}
}

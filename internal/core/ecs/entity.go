package ecs

import "fmt"

// Handle encodes a 16-bit index in the lower bits and a 16-bit generation
// in the upper bits. Generation increments on destroy to invalidate stale refs.
//
// Inside a Pool the same layout is reused for sparse slots, where the index
// field holds a dense-array position instead of an entity index.
type Handle uint32

const (
	// MaxEntities is the number of index slots a Registry can hand out.
	// Index 0xFFFF is reserved so InvalidHandle is never a live entity.
	MaxEntities = 0xFFFF

	// MaxGeneration is the last generation a slot can carry before retirement.
	MaxGeneration = 0xFFFF
)

// InvalidHandle is the "no mapping" sentinel.
const InvalidHandle = Handle(0xFFFF)

func NewHandle(index uint16, generation uint16) Handle {
	return Handle(uint32(generation)<<16 | uint32(index))
}

func (h Handle) Index() uint16      { return uint16(h) }
func (h Handle) Generation() uint16 { return uint16(h >> 16) }
func (h Handle) Valid() bool        { return h != InvalidHandle }

func (h Handle) String() string {
	if h == InvalidHandle {
		return "invalid"
	}
	return fmt.Sprintf("%d:%d", h.Index(), h.Generation())
}

// EntityPool manages handle allocation with generational indices and a LIFO
// free list. Freed handles are stored already bumped, so the most recently
// destroyed slot is the next one handed out. When the free list is empty the
// next never-used index is minted with generation 0.
type EntityPool struct {
	generations []uint16
	live        []bool
	freeList    []Handle
	nextIndex   uint32
	retired     int
	count       int
}

func NewEntityPool() *EntityPool {
	return &EntityPool{
		generations: make([]uint16, 0, 1024),
		live:        make([]bool, 0, 1024),
		freeList:    make([]Handle, 0, 256),
	}
}

// Create allocates a handle. It fails with ErrCapacityExceeded once every
// index has been minted and nothing is waiting for reuse.
func (p *EntityPool) Create() (Handle, error) {
	if n := len(p.freeList); n > 0 {
		h := p.freeList[n-1]
		p.freeList = p.freeList[:n-1]
		p.live[h.Index()] = true
		p.count++
		return h, nil
	}
	if p.nextIndex >= MaxEntities {
		return InvalidHandle, fmt.Errorf("allocate entity (%d slots, %d retired): %w",
			MaxEntities, p.retired, ErrCapacityExceeded)
	}
	idx := uint16(p.nextIndex)
	p.nextIndex++
	p.generations = append(p.generations, 0)
	p.live = append(p.live, true)
	p.count++
	return NewHandle(idx, 0), nil
}

func (p *EntityPool) Alive(h Handle) bool {
	idx := uint32(h.Index())
	if idx >= p.nextIndex {
		return false
	}
	return p.live[idx] && p.generations[idx] == h.Generation()
}

// Destroy releases a live handle. Stale or never-issued handles are ignored
// and reported as false. A slot whose generation cannot be bumped any further
// is retired instead of being recycled.
func (p *EntityPool) Destroy(h Handle) bool {
	if !p.Alive(h) {
		return false
	}
	idx := h.Index()
	p.live[idx] = false
	p.count--
	if p.generations[idx] == MaxGeneration {
		p.retired++
		return true
	}
	p.generations[idx]++
	p.freeList = append(p.freeList, NewHandle(idx, p.generations[idx]))
	return true
}

// Len returns the number of live handles.
func (p *EntityPool) Len() int { return p.count }

// Retired returns how many slots were dropped after exhausting their generations.
func (p *EntityPool) Retired() int { return p.retired }

// Retiring reports whether destroying h will retire its slot.
func (p *EntityPool) Retiring(h Handle) bool {
	return p.Alive(h) && h.Generation() == MaxGeneration
}

package ecs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleRoundTrip(t *testing.T) {
	cases := []struct{ index, gen uint16 }{
		{0, 0},
		{1, 0},
		{0, 1},
		{5, 7},
		{0xFFFE, 0xFFFF},
		{0xFFFF, 0xFFFF},
		{0x1234, 0xABCD},
	}
	for _, c := range cases {
		h := NewHandle(c.index, c.gen)
		assert.Equal(t, c.index, h.Index())
		assert.Equal(t, c.gen, h.Generation())
	}
}

func TestInvalidHandle(t *testing.T) {
	assert.Equal(t, uint16(0xFFFF), InvalidHandle.Index())
	assert.Equal(t, uint16(0), InvalidHandle.Generation())
	assert.False(t, InvalidHandle.Valid())
	assert.True(t, NewHandle(0, 0).Valid())
	assert.Equal(t, "invalid", InvalidHandle.String())
	assert.Equal(t, "3:2", NewHandle(3, 2).String())
}

func TestEntityPoolSequential(t *testing.T) {
	p := NewEntityPool()
	for i := 0; i < 10; i++ {
		h, err := p.Create()
		require.NoError(t, err)
		assert.Equal(t, uint16(i), h.Index())
		assert.Equal(t, uint16(0), h.Generation())
	}
	assert.Equal(t, 10, p.Len())
}

func TestEntityPoolReuseIsLIFO(t *testing.T) {
	p := NewEntityPool()
	hs := make([]Handle, 4)
	for i := range hs {
		hs[i], _ = p.Create()
	}
	require.True(t, p.Destroy(hs[1]))
	require.True(t, p.Destroy(hs[3]))

	h, err := p.Create()
	require.NoError(t, err)
	assert.Equal(t, NewHandle(3, 1), h)

	h, err = p.Create()
	require.NoError(t, err)
	assert.Equal(t, NewHandle(1, 1), h)

	h, err = p.Create()
	require.NoError(t, err)
	assert.Equal(t, NewHandle(4, 0), h, "fresh index once the free list is drained")
}

func TestEntityPoolAlive(t *testing.T) {
	p := NewEntityPool()
	h, _ := p.Create()
	assert.True(t, p.Alive(h))
	assert.False(t, p.Alive(NewHandle(1, 0)), "never issued")

	require.True(t, p.Destroy(h))
	assert.False(t, p.Alive(h))
	assert.False(t, p.Alive(NewHandle(0, 1)), "bumped but not yet reissued")

	assert.False(t, p.Destroy(h), "double destroy is ignored")
	assert.Equal(t, 0, p.Len())

	h2, _ := p.Create()
	assert.Equal(t, NewHandle(0, 1), h2)
	h3, _ := p.Create()
	assert.Equal(t, NewHandle(1, 0), h3, "stale destroy must not duplicate the freed slot")
}

func TestEntityPoolCapacityExceeded(t *testing.T) {
	p := NewEntityPool()
	for i := 0; i < MaxEntities; i++ {
		h, err := p.Create()
		require.NoError(t, err)
		require.True(t, h.Valid())
	}
	h, err := p.Create()
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Equal(t, InvalidHandle, h)

	// a freed slot is still reusable at capacity
	require.True(t, p.Destroy(NewHandle(42, 0)))
	h, err = p.Create()
	require.NoError(t, err)
	assert.Equal(t, NewHandle(42, 1), h)
}

func TestEntityPoolRetiresExhaustedSlot(t *testing.T) {
	p := NewEntityPool()
	h, _ := p.Create()
	for gen := 0; gen < MaxGeneration; gen++ {
		require.True(t, p.Destroy(h))
		h, _ = p.Create()
		require.Equal(t, uint16(0), h.Index())
	}
	require.Equal(t, uint16(MaxGeneration), h.Generation())
	assert.True(t, p.Retiring(h))

	require.True(t, p.Destroy(h))
	assert.Equal(t, 1, p.Retired())

	next, err := p.Create()
	require.NoError(t, err)
	assert.Equal(t, NewHandle(1, 0), next, "retired index is never handed out again")
}

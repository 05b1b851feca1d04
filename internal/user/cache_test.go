package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives the cache's time source from the test.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time {
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.t = f.t.Add(d)
}

func newTestCache(t *testing.T, capacity int) (*Cache[uint32, string], *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := NewCache[uint32, string](capacity, 15*time.Second)
	c.now = clock.now
	return c, clock
}

func TestCache_PutGet(t *testing.T) {
	c, _ := newTestCache(t, 4)

	c.Put(1, "alpha")

	got, ok := c.Get(1)
	require.True(t, ok)
	assert.Equal(t, "alpha", got)

	_, ok = c.Get(2)
	assert.False(t, ok)
}

func TestCache_EntriesExpire(t *testing.T) {
	c, clock := newTestCache(t, 4)

	c.Put(1, "alpha")

	clock.advance(14 * time.Second)
	_, ok := c.Get(1)
	assert.True(t, ok, "entry should survive inside the ttl window")

	clock.advance(2 * time.Second)
	_, ok = c.Get(1)
	assert.False(t, ok, "entry should expire after the ttl window")
	assert.Equal(t, 0, c.Len(), "expired entry is dropped on read")
}

func TestCache_PutRefreshesExpiry(t *testing.T) {
	c, clock := newTestCache(t, 4)

	c.Put(1, "alpha")
	clock.advance(10 * time.Second)
	c.Put(1, "beta")
	clock.advance(10 * time.Second)

	got, ok := c.Get(1)
	require.True(t, ok, "rewrite restarts the ttl window")
	assert.Equal(t, "beta", got)
}

func TestCache_EvictsStalestAtCapacity(t *testing.T) {
	c, clock := newTestCache(t, 2)

	c.Put(1, "alpha")
	clock.advance(time.Second)
	c.Put(2, "beta")
	clock.advance(time.Second)
	c.Put(3, "gamma")

	_, ok := c.Get(1)
	assert.False(t, ok, "oldest entry makes room")

	_, ok = c.Get(2)
	assert.True(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestCache_RewriteAtCapacityKeepsOthers(t *testing.T) {
	c, clock := newTestCache(t, 2)

	c.Put(1, "alpha")
	clock.advance(time.Second)
	c.Put(2, "beta")
	c.Put(2, "beta2")

	_, ok := c.Get(1)
	assert.True(t, ok, "updating an existing key must not evict")

	got, ok := c.Get(2)
	require.True(t, ok)
	assert.Equal(t, "beta2", got)
}

func TestCache_Invalidate(t *testing.T) {
	c, _ := newTestCache(t, 4)

	c.Put(1, "alpha")
	c.Invalidate(1)

	_, ok := c.Get(1)
	assert.False(t, ok)

	// Invalidating a missing key is a no-op.
	c.Invalidate(99)
	assert.Equal(t, 0, c.Len())
}

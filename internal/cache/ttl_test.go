package cache

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func TestTTLGetSet(t *testing.T) {
	clock := newClock()
	c := NewTTL[string, []byte](6 * time.Hour).WithClock(clock.Now)

	_, _, ok := c.Get("missing")
	assert.False(t, ok)

	stored := c.Set("a", []byte("png"))
	got, at, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, []byte("png"), got)
	assert.Equal(t, stored, at)
}

func TestTTLExpiry(t *testing.T) {
	clock := newClock()
	c := NewTTL[string, int](time.Hour).WithClock(clock.Now)
	c.Set("a", 1)

	clock.Advance(59 * time.Minute)
	_, _, ok := c.Get("a")
	assert.True(t, ok, "entry should be fresh before ttl")

	clock.Advance(time.Minute)
	_, _, ok = c.Get("a")
	assert.False(t, ok, "entry should expire at ttl")
	assert.Equal(t, 0, c.Len(), "expired entry should be evicted on lookup")
}

func TestTTLSetRefreshes(t *testing.T) {
	clock := newClock()
	c := NewTTL[string, int](time.Hour).WithClock(clock.Now)
	c.Set("a", 1)
	clock.Advance(50 * time.Minute)
	c.Set("a", 2)
	clock.Advance(50 * time.Minute)

	v, _, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestTTLPrune(t *testing.T) {
	clock := newClock()
	c := NewTTL[string, int](time.Hour).WithClock(clock.Now)
	c.Set("old", 1)
	clock.Advance(30 * time.Minute)
	c.Set("new", 2)
	clock.Advance(45 * time.Minute)

	assert.Equal(t, 1, c.Prune())
	assert.Equal(t, 1, c.Len())

	c.Delete("new")
	assert.Equal(t, 0, c.Len())
}

func TestTTLConcurrentAccess(t *testing.T) {
	c := NewTTL[int, int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i%4, i)
			c.Get(i % 4)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 4, c.Len())
}

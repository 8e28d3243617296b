package cache

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestCache_SetGet(t *testing.T) {
	c := New(Config[string, int]{Name: "test", MaxSize: 10})

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)

	c.Set("a", 2)
	v, _ = c.Get("a")
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Size())
}

func TestCache_LRUEviction(t *testing.T) {
	c := New(Config[int, string]{Name: "test", MaxSize: 2})

	c.Set(1, "one")
	c.Set(2, "two")
	// 访问 1 使 2 成为最久未使用
	_, _ = c.Get(1)
	c.Set(3, "three")

	_, ok := c.Get(2)
	assert.False(t, ok)
	_, ok = c.Get(1)
	assert.True(t, ok)
	_, ok = c.Get(3)
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Stats().Evictions)
}

func TestCache_TTLFromWrite(t *testing.T) {
	clock := newFakeClock()
	c := New(Config[string, int]{Name: "test", TTL: time.Minute, Now: clock.Now})

	c.Set("k", 1)
	clock.Advance(40 * time.Second)
	_, ok := c.Get("k")
	require.True(t, ok)

	// 读取不续期
	clock.Advance(20 * time.Second)
	_, ok = c.Get("k")
	assert.False(t, ok)

	s := c.Stats()
	assert.Equal(t, int64(1), s.Expires)
	assert.Equal(t, 0, s.Size)
}

func TestCache_OverwriteResetsTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(Config[string, int]{Name: "test", TTL: time.Minute, Now: clock.Now})

	c.Set("k", 1)
	clock.Advance(50 * time.Second)
	c.Set("k", 2)
	clock.Advance(50 * time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCache_SetWithTTL(t *testing.T) {
	clock := newFakeClock()
	c := New(Config[string, int]{Name: "test", TTL: time.Hour, Now: clock.Now})

	c.SetWithTTL("short", 1, time.Second)
	c.SetWithTTL("forever", 2, 0)
	clock.Advance(2 * time.Hour)

	_, ok := c.Get("short")
	assert.False(t, ok)
	_, ok = c.Get("forever")
	assert.True(t, ok)
}

func TestCache_CleanExpired(t *testing.T) {
	clock := newFakeClock()
	c := New(Config[int, string]{Name: "test", TTL: time.Second, Now: clock.Now})

	c.Set(1, "one")
	c.Set(2, "two")
	c.SetWithTTL(3, "three", time.Hour)
	clock.Advance(2 * time.Second)

	assert.Equal(t, 2, c.CleanExpired())
	assert.Equal(t, 1, c.Size())
	assert.Equal(t, int64(2), c.Stats().Expires)
}

func TestCache_DeleteFunc(t *testing.T) {
	c := New(Config[string, int]{Name: "test"})
	c.Set("products:page=1", 1)
	c.Set("products:page=2", 2)
	c.Set("brands:page=1", 3)

	removed := c.DeleteFunc(func(k string) bool { return strings.HasPrefix(k, "products:") })
	assert.Equal(t, 2, removed)
	_, ok := c.Get("brands:page=1")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Size())
}

func TestCache_OnEvictReasons(t *testing.T) {
	clock := newFakeClock()
	reasons := map[int]EvictReason{}
	c := New(Config[int, string]{
		Name:    "test",
		MaxSize: 2,
		TTL:     time.Minute,
		Now:     clock.Now,
		OnEvict: func(k int, _ string, r EvictReason) { reasons[k] = r },
	})

	c.Set(1, "one")
	c.Set(2, "two")
	c.Set(3, "three")
	assert.Equal(t, EvictCapacity, reasons[1])

	c.Delete(2)
	assert.Equal(t, EvictDeleted, reasons[2])

	clock.Advance(time.Hour)
	_, _ = c.Get(3)
	assert.Equal(t, EvictExpired, reasons[3])
	assert.Equal(t, "expired", EvictExpired.String())
}

func TestCache_Clear(t *testing.T) {
	c := New(Config[string, int]{Name: "test"})
	for i := range 10 {
		c.Set(fmt.Sprint(i), i)
	}
	c.Clear()
	assert.Equal(t, 0, c.Size())
	_, ok := c.Get("3")
	assert.False(t, ok)
}

func TestCache_HitRate(t *testing.T) {
	c := New(Config[int, int]{Name: "test"})
	assert.Equal(t, 0.0, c.HitRate())

	c.Set(1, 100)
	for range 3 {
		_, _ = c.Get(1)
	}
	_, _ = c.Get(2)

	assert.InDelta(t, 0.75, c.HitRate(), 0.001)
	assert.Contains(t, c.String(), "Cache[test]")
}

func TestCache_ConcurrentAccess(t *testing.T) {
	c := New(Config[int, int]{Name: "test", MaxSize: 1000})

	var wg sync.WaitGroup
	for g := range 10 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := range 100 {
				key := id*100 + i
				c.Set(key, key*2)
				_, _ = c.Get(key)
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 1000, c.Size())
	v, ok := c.Get(512)
	require.True(t, ok)
	assert.Equal(t, 1024, v)
}

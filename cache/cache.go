// Package cache 查询结果缓存
//
// Cache 是进程内的泛型 LRU 缓存，条目按写入时间过期；
// Store 是按字节存取的结果缓存接口，内存实现基于 Cache，分布式实现见 redisstore。
package cache

import (
	"container/list"
	"fmt"
	"sync"
	"time"
)

// EvictReason 条目离开缓存的原因
type EvictReason int

const (
	// EvictCapacity 超出容量被 LRU 淘汰
	EvictCapacity EvictReason = iota
	// EvictExpired TTL 到期
	EvictExpired
	// EvictDeleted 显式删除或失效
	EvictDeleted
)

func (r EvictReason) String() string {
	switch r {
	case EvictCapacity:
		return "capacity"
	case EvictExpired:
		return "expired"
	case EvictDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// Config 缓存配置
type Config[K comparable, V any] struct {
	// Name 缓存名称，用于日志与指标标签
	Name string

	// MaxSize 最大条目数，0 表示不限制
	MaxSize int

	// TTL 默认存活时间，从写入时刻算起；0 表示不过期
	TTL time.Duration

	// OnEvict 条目离开缓存时回调，在持锁状态下调用，不可重入缓存
	OnEvict func(key K, value V, reason EvictReason)

	// Now 时钟，测试时可替换
	Now func() time.Time
}

// Stats 统计快照
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions int64
	Expires   int64
	Size      int
}

// Cache 泛型 LRU 缓存
//
// 读取不会延长条目寿命：分页结果在底层数据变更后最迟 TTL 后失效，
// 更早的失效依赖 Delete/DeleteFunc。
type Cache[K comparable, V any] struct {
	config Config[K, V]

	mu    sync.Mutex
	items map[K]*list.Element
	lru   *list.List // 最近使用的在前
	stats Stats
}

type entry[K comparable, V any] struct {
	key       K
	value     V
	expiresAt time.Time // 零值表示不过期
}

// New 创建缓存
func New[K comparable, V any](config Config[K, V]) *Cache[K, V] {
	if config.Name == "" {
		config.Name = "unnamed"
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Cache[K, V]{
		config: config,
		items:  make(map[K]*list.Element),
		lru:    list.New(),
	}
}

// Name 缓存名称
func (c *Cache[K, V]) Name() string { return c.config.Name }

// Get 读取未过期的条目并将其标记为最近使用
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		return zero, false
	}
	e := el.Value.(*entry[K, V])
	if c.expiredLocked(e) {
		c.removeLocked(el, EvictExpired)
		c.stats.Misses++
		c.stats.Expires++
		return zero, false
	}
	c.lru.MoveToFront(el)
	c.stats.Hits++
	return e.value, true
}

// Set 以默认 TTL 写入
func (c *Cache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, c.config.TTL)
}

// SetWithTTL 以指定 TTL 写入，ttl<=0 表示不过期；覆盖写入会重置过期时间
func (c *Cache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.config.Now().Add(ttl)
	}

	if el, ok := c.items[key]; ok {
		e := el.Value.(*entry[K, V])
		e.value = value
		e.expiresAt = expiresAt
		c.lru.MoveToFront(el)
		return
	}

	if c.config.MaxSize > 0 && len(c.items) >= c.config.MaxSize {
		if oldest := c.lru.Back(); oldest != nil {
			c.removeLocked(oldest, EvictCapacity)
			c.stats.Evictions++
		}
	}
	c.items[key] = c.lru.PushFront(&entry[K, V]{key: key, value: value, expiresAt: expiresAt})
}

// Delete 删除条目，返回条目是否存在
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeLocked(el, EvictDeleted)
	return true
}

// DeleteFunc 删除所有键满足 match 的条目，返回删除数
func (c *Cache[K, V]) DeleteFunc(match func(K) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for key, el := range c.items {
		if match(key) {
			c.removeLocked(el, EvictDeleted)
			removed++
		}
	}
	return removed
}

// Clear 清空缓存
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, el := range c.items {
		c.removeLocked(el, EvictDeleted)
	}
}

// CleanExpired 主动清理过期条目，返回清理数
func (c *Cache[K, V]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cleaned := 0
	for _, el := range c.items {
		if c.expiredLocked(el.Value.(*entry[K, V])) {
			c.removeLocked(el, EvictExpired)
			cleaned++
		}
	}
	c.stats.Expires += int64(cleaned)
	return cleaned
}

// Stats 统计快照
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.stats
	s.Size = len(c.items)
	return s
}

// Size 当前条目数（含尚未清理的过期条目）
func (c *Cache[K, V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// HitRate 命中率，尚无访问时为 0
func (c *Cache[K, V]) HitRate() float64 {
	s := c.Stats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

func (c *Cache[K, V]) expiredLocked(e *entry[K, V]) bool {
	return !e.expiresAt.IsZero() && !c.config.Now().Before(e.expiresAt)
}

func (c *Cache[K, V]) removeLocked(el *list.Element, reason EvictReason) {
	e := el.Value.(*entry[K, V])
	c.lru.Remove(el)
	delete(c.items, e.key)
	if c.config.OnEvict != nil {
		c.config.OnEvict(e.key, e.value, reason)
	}
}

func (c *Cache[K, V]) String() string {
	s := c.Stats()
	return fmt.Sprintf("Cache[%s]: size=%d/%d, hits=%d, misses=%d, hit_rate=%.2f%%, evictions=%d, expires=%d",
		c.config.Name, s.Size, c.config.MaxSize, s.Hits, s.Misses, c.HitRate()*100, s.Evictions, s.Expires)
}

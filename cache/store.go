package cache

import (
	"context"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store 按命名空间组织的字节缓存
//
// 键由 Key 生成，形如 "<namespace>:<canonical query>"；Purge 删除一个命名空间下的全部键。
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Purge(ctx context.Context, namespace string) (int, error)
}

// MemoryStore 进程内 Store
type MemoryStore struct {
	cache *Cache[string, []byte]
}

// NewMemoryStore 创建进程内 Store，maxSize<=0 表示不限制
func NewMemoryStore(name string, maxSize int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: New(Config[string, []byte]{Name: name, MaxSize: maxSize, TTL: ttl})}
}

// NewMemoryStoreFrom 基于已有 Cache 创建 Store
func NewMemoryStoreFrom(c *Cache[string, []byte]) *MemoryStore {
	return &MemoryStore{cache: c}
}

// Get 实现 Store
func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	v, ok := s.cache.Get(key)
	return v, ok, nil
}

// Set 实现 Store，ttl<=0 时使用缓存默认 TTL
func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if ttl <= 0 {
		s.cache.Set(key, value)
		return nil
	}
	s.cache.SetWithTTL(key, value, ttl)
	return nil
}

// Purge 实现 Store
func (s *MemoryStore) Purge(ctx context.Context, namespace string) (int, error) {
	prefix := namespace + ":"
	return s.cache.DeleteFunc(func(key string) bool {
		return strings.HasPrefix(key, prefix)
	}), nil
}

// Stats 底层缓存的统计快照
func (s *MemoryStore) Stats() Stats { return s.cache.Stats() }

// GetJSON 读取并解码 JSON 条目；解码失败视为未命中
func GetJSON[V any](ctx context.Context, store Store, key string) (V, bool, error) {
	var v V
	data, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false, nil
	}
	return v, true, nil
}

// SetJSON 以 JSON 编码写入
func SetJSON[V any](ctx context.Context, store Store, key string, value V, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return store.Set(ctx, key, data, ttl)
}

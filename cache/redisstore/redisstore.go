// Package redisstore 基于 Redis 的 cache.Store 实现，供多实例共享分页结果
package redisstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/cache"
	"storefront/logging"
)

// client 本包用到的 go-redis 命令子集，便于测试替换
type client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Close() error
}

// Config Redis 连接与键空间配置
type Config struct {
	Client   redis.UniversalClient
	Addr     string
	Username string
	Password string
	DB       int

	// Prefix 所有键的公共前缀，默认 "storefront:"
	Prefix string
	// TTL Set 未指定 ttl 时的默认过期时间，默认 5 分钟
	TTL time.Duration
	// ScanCount 每次 SCAN 的建议条数，默认 100
	ScanCount int64

	Logger logging.Logger
}

// Store Redis 结果缓存
type Store struct {
	cfg       Config
	client    client
	ownClient bool
	logger    logging.Logger
}

var _ cache.Store = (*Store)(nil)

// New 创建 Store；未提供 Client 时按 Addr 自建连接，Close 时一并关闭
func New(cfg Config) (*Store, error) {
	var cl client
	own := false
	if cfg.Client != nil {
		cl = cfg.Client
	} else {
		if cfg.Addr == "" {
			return nil, errors.New("redis address not configured")
		}
		cl = redis.NewClient(&redis.Options{Addr: cfg.Addr, Username: cfg.Username, Password: cfg.Password, DB: cfg.DB})
		own = true
	}
	return newStore(cfg, cl, own), nil
}

func newStore(cfg Config, cl client, own bool) *Store {
	if cfg.Prefix == "" {
		cfg.Prefix = "storefront:"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.ScanCount <= 0 {
		cfg.ScanCount = 100
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "cache.redis"))
	}
	return &Store{cfg: cfg, client: cl, ownClient: own, logger: cfg.Logger}
}

// Get 实现 cache.Store
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.client.Get(ctx, s.cfg.Prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set 实现 cache.Store
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.cfg.TTL
	}
	return s.client.Set(ctx, s.cfg.Prefix+key, value, ttl).Err()
}

// Purge 以 SCAN + DEL 删除命名空间下的键，不使用 KEYS 以免阻塞服务端
func (s *Store) Purge(ctx context.Context, namespace string) (int, error) {
	match := escapeGlob(s.cfg.Prefix+namespace+":") + "*"
	var (
		cursor  uint64
		removed int
	)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, match, s.cfg.ScanCount).Result()
		if err != nil {
			return removed, err
		}
		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed, err
			}
			removed += int(n)
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	s.logger.Debug(ctx, "redis cache purged",
		logging.String("namespace", namespace), logging.Int("removed", removed))
	return removed, nil
}

// Close 关闭自建的连接
func (s *Store) Close() error {
	if s.ownClient {
		return s.client.Close()
	}
	return nil
}

var globEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}

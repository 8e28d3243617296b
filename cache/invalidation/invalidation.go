// Package invalidation 通过 NATS 广播目录变更，让各实例清除对应命名空间的结果缓存
package invalidation

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"

	"storefront/cache"
	"storefront/logging"
	"storefront/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultSubject 默认广播主题
const DefaultSubject = "storefront.catalog.changed"

// Message 线上的失效通知
type Message struct {
	ID         string    `json:"id"`
	Origin     string    `json:"origin"`
	Namespaces []string  `json:"namespaces"`
	Timestamp  time.Time `json:"timestamp"`
}

// conn 本包用到的 NATS 连接子集
type conn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
	Close()
}

// Config 连接配置；Conn 非空时复用外部连接
type Config struct {
	URL     string
	Subject string
	Conn    *nats.Conn
	Logger  logging.Logger
	// Metrics 记录每次命名空间清除，可为 nil
	Metrics *metrics.Collector
}

// Invalidator 本地清除并广播失效通知，同时监听其他实例的通知
type Invalidator struct {
	cfg    Config
	origin string
	stores []cache.Store
	logger logging.Logger

	mu       sync.Mutex
	conn     conn
	ownsConn bool
	sub      *nats.Subscription
	running  bool
}

// New 创建 Invalidator，stores 为需要清除的本地缓存
func New(cfg Config, stores ...cache.Store) *Invalidator {
	if cfg.Subject == "" {
		cfg.Subject = DefaultSubject
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.GetLogger().WithFields(logging.String("component", "cache.invalidation"))
	}
	inv := &Invalidator{
		cfg:    cfg,
		origin: uuid.NewString(),
		stores: stores,
		logger: cfg.Logger,
	}
	if cfg.Conn != nil {
		inv.conn = cfg.Conn
	}
	return inv
}

// Start 建立连接并订阅主题
func (i *Invalidator) Start(ctx context.Context) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.running {
		return errors.New("invalidator already running")
	}
	if i.conn == nil {
		url := i.cfg.URL
		if url == "" {
			url = nats.DefaultURL
		}
		nc, err := nats.Connect(url, nats.Name("storefront-cache-invalidation"))
		if err != nil {
			return err
		}
		i.conn = nc
		i.ownsConn = true
	}
	sub, err := i.conn.Subscribe(i.cfg.Subject, i.handle)
	if err != nil {
		return err
	}
	i.sub = sub
	i.running = true
	i.logger.Info(ctx, "cache invalidation listening", logging.String("subject", i.cfg.Subject))
	return nil
}

// Invalidate 清除本地缓存中的命名空间并通知其他实例
//
// 未启动时只清除本地缓存。
func (i *Invalidator) Invalidate(ctx context.Context, namespaces ...string) error {
	if len(namespaces) == 0 {
		return nil
	}
	i.purge(ctx, namespaces)

	i.mu.Lock()
	c, running := i.conn, i.running
	i.mu.Unlock()
	if !running {
		return nil
	}
	data, err := json.Marshal(Message{
		ID:         uuid.NewString(),
		Origin:     i.origin,
		Namespaces: namespaces,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	return c.Publish(i.cfg.Subject, data)
}

// Close 取消订阅，自建连接一并关闭
func (i *Invalidator) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.sub != nil {
		_ = i.sub.Unsubscribe()
		i.sub = nil
	}
	if i.ownsConn && i.conn != nil {
		i.conn.Close()
		i.conn = nil
	}
	i.running = false
	return nil
}

func (i *Invalidator) handle(msg *nats.Msg) {
	ctx := context.Background()
	var m Message
	if err := json.Unmarshal(msg.Data, &m); err != nil {
		i.logger.Warn(ctx, "decode invalidation message failed", logging.Error(err))
		return
	}
	// 自己发出的通知在 Invalidate 中已清除过
	if m.Origin == i.origin {
		return
	}
	i.purge(ctx, m.Namespaces)
}

func (i *Invalidator) purge(ctx context.Context, namespaces []string) {
	for _, ns := range namespaces {
		i.cfg.Metrics.RecordPurge(ns)
		for _, s := range i.stores {
			n, err := s.Purge(ctx, ns)
			if err != nil {
				i.logger.Warn(ctx, "purge cache failed", logging.String("namespace", ns), logging.Error(err))
				continue
			}
			i.logger.Debug(ctx, "cache purged", logging.String("namespace", ns), logging.Int("removed", n))
		}
	}
}

// Name 供 http/basic.Manager 使用
func (i *Invalidator) Name() string { return "cache-invalidation" }

// Stop 等同于 Close
func (i *Invalidator) Stop(ctx context.Context) error { return i.Close() }

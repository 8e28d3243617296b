// Package config 目录服务的 YAML 配置
//
// 加载顺序：文件 → 默认值 → STOREFRONT_* 环境变量 → 校验。
package config

import (
	"time"

	"storefront/cache/invalidation"
	"storefront/data/db"
	httpx "storefront/http"
	"storefront/metrics"
)

// 查询后端
const (
	BackendMemory = "memory"
	BackendOrm    = "orm"
	BackendGoqu   = "goqu"
)

// 缓存后端
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config 根配置
type Config struct {
	Server   httpx.WebConfig `yaml:"server"`
	Database db.DBConfig     `yaml:"database"`

	// Backend 查询后端：memory | orm | goqu
	Backend string `yaml:"backend"`

	Cache   CacheConfig   `yaml:"cache"`
	NATS    NATSConfig    `yaml:"nats"`
	Metrics MetricsConfig `yaml:"metrics"`
	Log     LogConfig     `yaml:"log"`
}

// CacheConfig 查询结果缓存
type CacheConfig struct {
	// Backend memory | redis | none
	Backend string        `yaml:"backend"`
	TTL     time.Duration `yaml:"ttl"`
	// MaxSize 内存缓存条目上限
	MaxSize int         `yaml:"max_size"`
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig Redis 连接
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// NATSConfig 缓存失效广播
type NATSConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Subject string `yaml:"subject"`
}

// MetricsConfig Prometheus 指标
type MetricsConfig struct {
	Enabled bool            `yaml:"enabled"`
	Path    string          `yaml:"path"`
	Options metrics.Options `yaml:",inline"`
}

// LogConfig 日志
type LogConfig struct {
	Level  string `yaml:"level"`
	Prefix string `yaml:"prefix"`
}

// Default 返回只包含默认值的配置
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults 为零值字段填充默认值
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 5 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 10 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 60 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 3 * time.Second
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}
	if cfg.Database.DSN == "" {
		cfg.Database.DSN = "file:storefront?mode=memory&cache=shared"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 4
	}

	if cfg.Backend == "" {
		cfg.Backend = BackendOrm
	}

	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = CacheMemory
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = 30 * time.Second
	}
	if cfg.Cache.MaxSize == 0 {
		cfg.Cache.MaxSize = 1000
	}
	if cfg.Cache.Redis.Prefix == "" {
		cfg.Cache.Redis.Prefix = "storefront:"
	}

	if cfg.NATS.Subject == "" {
		cfg.NATS.Subject = invalidation.DefaultSubject
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Options.Namespace == "" {
		cfg.Metrics.Options.Namespace = "storefront"
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Prefix == "" {
		cfg.Log.Prefix = "[storefront]"
	}
}

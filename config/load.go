package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "STOREFRONT_"

// Load 读取 YAML 配置，填充默认值并应用环境变量覆盖后校验
//
// path 为空时只使用默认值与环境变量。
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	ApplyDefaults(cfg)
	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides 环境变量优先于文件；无法解析的值被忽略
func applyEnvOverrides(cfg *Config) {
	envString("SERVER_HOST", &cfg.Server.Host)
	envInt("SERVER_PORT", &cfg.Server.Port)
	envDuration("SERVER_REQUEST_TIMEOUT", &cfg.Server.RequestTimeout)

	envString("DATABASE_DRIVER", &cfg.Database.Driver)
	envString("DATABASE_DSN", &cfg.Database.DSN)
	envInt("DATABASE_MAX_OPEN_CONNS", &cfg.Database.MaxOpenConns)

	envString("BACKEND", &cfg.Backend)

	envString("CACHE_BACKEND", &cfg.Cache.Backend)
	envDuration("CACHE_TTL", &cfg.Cache.TTL)
	envInt("CACHE_MAX_SIZE", &cfg.Cache.MaxSize)
	envString("REDIS_ADDR", &cfg.Cache.Redis.Addr)
	envString("REDIS_USERNAME", &cfg.Cache.Redis.Username)
	envString("REDIS_PASSWORD", &cfg.Cache.Redis.Password)
	envInt("REDIS_DB", &cfg.Cache.Redis.DB)

	envBool("NATS_ENABLED", &cfg.NATS.Enabled)
	envString("NATS_URL", &cfg.NATS.URL)
	envString("NATS_SUBJECT", &cfg.NATS.Subject)

	envBool("METRICS_ENABLED", &cfg.Metrics.Enabled)
	envString("METRICS_PATH", &cfg.Metrics.Path)

	envString("LOG_LEVEL", &cfg.Log.Level)
}

func envString(name string, dst *string) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		*dst = val
	}
}

func envInt(name string, dst *int) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envBool(name string, dst *bool) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envDuration(name string, dst *time.Duration) {
	if val := os.Getenv(EnvPrefix + name); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

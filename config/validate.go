package config

import (
	"strings"

	"storefront/errors"
	"storefront/validation"
)

var _ validation.IValidatable = (*Config)(nil)

// Validate 校验全部配置项，一次返回所有失败项
func (c *Config) Validate() error {
	var v validation.Collector

	v.Check(validation.ValidateIntRange(c.Server.Port, "server.port", 1, 65535))
	if c.Server.TLSEnabled {
		v.Check(validation.ValidateRequired(c.Server.CertFile, "server.cert_file"))
		v.Check(validation.ValidateRequired(c.Server.KeyFile, "server.key_file"))
	}

	v.Check(validation.ValidateEnum(c.Backend, "backend", []string{BackendMemory, BackendOrm, BackendGoqu}))
	if c.Backend != BackendMemory {
		v.Check(validation.ValidateRequired(c.Database.Driver, "database.driver"))
		v.Check(validation.ValidateRequired(c.Database.DSN, "database.dsn"))
	}

	v.Check(validation.ValidateEnum(c.Cache.Backend, "cache.backend", []string{CacheMemory, CacheRedis, CacheNone}))
	v.Check(validation.ValidateNonNegative(c.Cache.TTL.Seconds(), "cache.ttl"))
	switch c.Cache.Backend {
	case CacheMemory:
		v.Check(validation.ValidatePositive(c.Cache.MaxSize, "cache.max_size"))
	case CacheRedis:
		v.Check(validation.ValidateRequired(c.Cache.Redis.Addr, "cache.redis.addr"))
	}

	if c.NATS.Enabled {
		v.Check(validation.ValidateURL(c.NATS.URL, "nats.url", "nats", "tls"))
		v.Check(validation.ValidateRequired(c.NATS.Subject, "nats.subject"))
	}

	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		v.Check(errors.NewError(errors.ErrCodeValidation, "metrics.path必须以 / 开头"))
	}

	v.Check(validation.ValidateEnum(strings.ToLower(c.Log.Level), "log.level", []string{"debug", "info", "warn", "warning", "error"}))

	return v.Err()
}

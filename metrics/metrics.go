// Package metrics 查询服务的 Prometheus 指标
//
// Collector 使用独立的 Registry，不污染全局默认注册表；nil *Collector 上的所有记录方法都是空操作，
// 未启用指标时调用方无需判空。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Options 指标命名
type Options struct {
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`

	// QueryBuckets 查询耗时直方图桶（秒）
	QueryBuckets []float64 `yaml:"query_buckets"`
}

// Collector 指标集合
type Collector struct {
	registry *prometheus.Registry

	queriesTotal  *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	pageItems     *prometheus.HistogramVec

	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEvictions *prometheus.CounterVec
	cachePurges    *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New 创建并注册全部指标，registry 为 nil 时新建一个
func New(opts Options, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if opts.Namespace == "" {
		opts.Namespace = "storefront"
	}
	if len(opts.QueryBuckets) == 0 {
		opts.QueryBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}
	}

	c := &Collector{
		registry: registry,
		queriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: opts.Subsystem,
			Name:      "queries_total",
			Help:      "Total number of list/get queries by entity and result kind",
		}, []string{"entity", "kind"}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Subsystem: opts.Subsystem,
			Name:      "query_duration_seconds",
			Help:      "Pipeline execution time including the total count",
			Buckets:   opts.QueryBuckets,
		}, []string{"entity"}),
		pageItems: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Subsystem: opts.Subsystem,
			Name:      "page_items",
			Help:      "Number of items returned per page",
			Buckets:   []float64{0, 1, 6, 10, 25, 50},
		}, []string{"entity"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: opts.Subsystem,
			Name:      "cache_hits_total",
			Help:      "Total number of result cache hits",
		}, []string{"cache"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: opts.Subsystem,
			Name:      "cache_misses_total",
			Help:      "Total number of result cache misses",
		}, []string{"cache"}),
		cacheEvictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: opts.Subsystem,
			Name:      "cache_evictions_total",
			Help:      "Total number of entries removed from the in-process cache",
		}, []string{"cache", "reason"}),
		cachePurges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: opts.Subsystem,
			Name:      "cache_purges_total",
			Help:      "Total number of namespace purges",
		}, []string{"namespace"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.Namespace,
			Subsystem: opts.Subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status code",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.Namespace,
			Subsystem: opts.Subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	registry.MustRegister(
		c.queriesTotal,
		c.queryDuration,
		c.pageItems,
		c.cacheHits,
		c.cacheMisses,
		c.cacheEvictions,
		c.cachePurges,
		c.httpRequests,
		c.httpDuration,
	)
	return c
}

// Registry 底层注册表
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordQuery 记录一次查询
func (c *Collector) RecordQuery(entity, kind string, d time.Duration, items int) {
	if c == nil {
		return
	}
	c.queriesTotal.WithLabelValues(entity, kind).Inc()
	c.queryDuration.WithLabelValues(entity).Observe(d.Seconds())
	c.pageItems.WithLabelValues(entity).Observe(float64(items))
}

// RecordCacheHit 结果缓存命中
func (c *Collector) RecordCacheHit(cache string) {
	if c == nil {
		return
	}
	c.cacheHits.WithLabelValues(cache).Inc()
}

// RecordCacheMiss 结果缓存未命中
func (c *Collector) RecordCacheMiss(cache string) {
	if c == nil {
		return
	}
	c.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordEviction 进程内缓存条目被移除
func (c *Collector) RecordEviction(cache, reason string) {
	if c == nil {
		return
	}
	c.cacheEvictions.WithLabelValues(cache, reason).Inc()
}

// RecordPurge 命名空间被清除
func (c *Collector) RecordPurge(namespace string) {
	if c == nil {
		return
	}
	c.cachePurges.WithLabelValues(namespace).Inc()
}

// RecordHTTP 记录一次 HTTP 请求，route 应为路由模板而非实际路径
func (c *Collector) RecordHTTP(route string, status int, d time.Duration) {
	if c == nil {
		return
	}
	c.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Handler /metrics 端点
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

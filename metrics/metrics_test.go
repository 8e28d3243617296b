package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_RecordQuery(t *testing.T) {
	c := New(Options{}, prometheus.NewRegistry())

	c.RecordQuery("products", "Success", 5*time.Millisecond, 6)
	c.RecordQuery("products", "Success", 5*time.Millisecond, 2)
	c.RecordQuery("products", "Unexpected", time.Millisecond, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.queriesTotal.WithLabelValues("products", "Success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.queriesTotal.WithLabelValues("products", "Unexpected")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.queryDuration))
}

func TestCollector_Cache(t *testing.T) {
	c := New(Options{Namespace: "shop"}, nil)

	c.RecordCacheHit("results")
	c.RecordCacheHit("results")
	c.RecordCacheMiss("results")
	c.RecordEviction("results", "capacity")
	c.RecordPurge("products")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.cacheHits.WithLabelValues("results")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheMisses.WithLabelValues("results")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheEvictions.WithLabelValues("results", "capacity")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cachePurges.WithLabelValues("products")))
}

func TestCollector_HTTP(t *testing.T) {
	c := New(Options{}, nil)
	c.RecordHTTP("/api/products", 200, 10*time.Millisecond)
	c.RecordHTTP("/api/products/:id", 404, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("/api/products", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.httpRequests.WithLabelValues("/api/products/:id", "404")))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.RecordQuery("products", "Success", time.Millisecond, 1)
		c.RecordCacheHit("results")
		c.RecordCacheMiss("results")
		c.RecordEviction("results", "expired")
		c.RecordPurge("products")
		c.RecordHTTP("/", 200, time.Millisecond)
	})
	assert.Nil(t, c.Registry())

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollector_Handler(t *testing.T) {
	c := New(Options{}, nil)
	c.RecordQuery("brands", "Success", time.Millisecond, 3)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `storefront_queries_total{entity="brands",kind="Success"} 1`)
}

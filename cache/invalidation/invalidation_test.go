package invalidation

import (
	"context"
	"testing"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/cache"
	"storefront/logging"
	"storefront/metrics"
)

// fakeBus 同步投递的进程内总线
type fakeBus struct {
	handlers  map[string][]nats.MsgHandler
	published int
}

func (b *fakeBus) Publish(subj string, data []byte) error {
	b.published++
	for _, h := range b.handlers[subj] {
		h(&nats.Msg{Subject: subj, Data: data})
	}
	return nil
}

func (b *fakeBus) Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error) {
	b.handlers[subj] = append(b.handlers[subj], cb)
	return nil, nil
}

func (b *fakeBus) Close() {}

func newInvalidator(t *testing.T, bus *fakeBus, stores ...cache.Store) *Invalidator {
	t.Helper()
	inv := New(Config{Logger: logging.NewNoopLogger()}, stores...)
	inv.conn = bus
	require.NoError(t, inv.Start(context.Background()))
	return inv
}

func seed(t *testing.T, s cache.Store, keys ...string) {
	t.Helper()
	for _, k := range keys {
		require.NoError(t, s.Set(context.Background(), k, []byte("x"), 0))
	}
}

func has(s cache.Store, key string) bool {
	_, ok, _ := s.Get(context.Background(), key)
	return ok
}

func TestInvalidator_PurgesLocalAndRemote(t *testing.T) {
	bus := &fakeBus{handlers: map[string][]nats.MsgHandler{}}
	local := cache.NewMemoryStore("a", 0, time.Minute)
	remote := cache.NewMemoryStore("b", 0, time.Minute)
	seed(t, local, "products:page=1", "brands:page=1")
	seed(t, remote, "products:page=1", "products:page=2", "types:page=1")

	a := newInvalidator(t, bus, local)
	newInvalidator(t, bus, remote)

	require.NoError(t, a.Invalidate(context.Background(), "products"))

	assert.Equal(t, 1, bus.published)
	assert.False(t, has(local, "products:page=1"))
	assert.True(t, has(local, "brands:page=1"))
	assert.False(t, has(remote, "products:page=1"))
	assert.False(t, has(remote, "products:page=2"))
	assert.True(t, has(remote, "types:page=1"))
}

func TestInvalidator_NotStartedPurgesLocalOnly(t *testing.T) {
	local := cache.NewMemoryStore("a", 0, time.Minute)
	seed(t, local, "brands:page=1")

	inv := New(Config{Logger: logging.NewNoopLogger()}, local)
	require.NoError(t, inv.Invalidate(context.Background(), "brands"))
	assert.False(t, has(local, "brands:page=1"))
}

func TestInvalidator_IgnoresMalformedMessage(t *testing.T) {
	bus := &fakeBus{handlers: map[string][]nats.MsgHandler{}}
	local := cache.NewMemoryStore("a", 0, time.Minute)
	seed(t, local, "products:page=1")
	newInvalidator(t, bus, local)

	require.NoError(t, bus.Publish(DefaultSubject, []byte("not json")))
	assert.True(t, has(local, "products:page=1"))
}

func TestInvalidator_StartTwice(t *testing.T) {
	bus := &fakeBus{handlers: map[string][]nats.MsgHandler{}}
	inv := newInvalidator(t, bus)
	assert.Error(t, inv.Start(context.Background()))
	require.NoError(t, inv.Close())
}

func TestInvalidator_EmptyNamespacesNoPublish(t *testing.T) {
	bus := &fakeBus{handlers: map[string][]nats.MsgHandler{}}
	inv := newInvalidator(t, bus)
	require.NoError(t, inv.Invalidate(context.Background()))
	assert.Equal(t, 0, bus.published)
}

func TestInvalidator_RecordsPurges(t *testing.T) {
	collector := metrics.New(metrics.Options{}, nil)
	local := cache.NewMemoryStore("a", 0, time.Minute)

	inv := New(Config{Logger: logging.NewNoopLogger(), Metrics: collector}, local)
	require.NoError(t, inv.Invalidate(context.Background(), "products", "brands"))

	n, err := testutil.GatherAndCount(collector.Registry(), "storefront_cache_purges_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

package data

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"imbalance-report/internal/model"
)

func sampleResponse() *model.SystemPricesResponse {
	return &model.SystemPricesResponse{Data: []json.RawMessage{json.RawMessage(`{"startTime":"2023-10-29T00:00:00Z","systemSellPrice":50,"systemBuyPrice":60,"netImbalanceVolume":10}`)}}
}

func TestResponseCacheExpiry(t *testing.T) {
	c := NewResponseCache(time.Minute)
	clock := time.Date(2023, 10, 29, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	key := CacheKey("http://x", "2023-10-29")
	c.Set(key, sampleResponse())

	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Len(t, got.Data, 1)

	clock = clock.Add(2 * time.Minute)
	_, ok = c.Get(key)
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestResponseCacheClear(t *testing.T) {
	c := NewResponseCache(0)
	assert.Equal(t, time.Hour, c.ttl)
	c.Set("a", sampleResponse())
	c.Set("b", sampleResponse())
	assert.Equal(t, 2, c.Len())
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestNilCacheIsDisabled(t *testing.T) {
	var c *ResponseCache
	assert.NotPanics(t, func() {
		c.Set("a", sampleResponse())
		c.Purge()
		c.Clear()
		c.RunCleanup(context.Background(), time.Millisecond)
	})
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestRunCleanupStopsOnCancel(t *testing.T) {
	c := NewResponseCache(time.Millisecond)
	c.Set("a", sampleResponse())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.RunCleanup(ctx, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunCleanup did not return after cancel")
	}
}

func TestCacheKey(t *testing.T) {
	a := CacheKey("http://x", "2023-10-29")
	assert.Equal(t, a, CacheKey("http://x", "2023-10-29"))
	assert.NotEqual(t, a, CacheKey("http://x", "2023-10-30"))
	assert.NotEqual(t, a, CacheKey("http://y", "2023-10-29"))
	assert.Len(t, a, 64)
}

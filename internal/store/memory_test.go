package store

import (
	"testing"
	"time"

	"github.com/frostline/temp-prediction/internal/forecast"
)

func cachedWithTemp(temp float64) forecast.CachedForecast {
	return forecast.CachedForecast{Temperature: temp, Confidence: 0.9}
}

func TestGetReturnsStoredResponse(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)

	c.Put("40.00:-74.00", cachedWithTemp(12.3))

	got, ok := c.Get("40.00:-74.00")
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.Temperature != 12.3 {
		t.Fatalf("expected stored forecast, got %+v", got)
	}
}

func TestGetMissesUnknownKey(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)

	if _, ok := c.Get("0.00:0.00"); ok {
		t.Fatal("expected a miss for an unknown key")
	}
}

func TestGetExpiresAfterTTL(t *testing.T) {
	c := NewMemoryCache(time.Minute, 10)

	current := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Put("40.00:-74.00", cachedWithTemp(12.3))

	current = current.Add(61 * time.Second)
	if _, ok := c.Get("40.00:-74.00"); ok {
		t.Fatal("expected the entry to expire after the TTL")
	}
}

func TestPutEvictsOldestWhenFull(t *testing.T) {
	c := NewMemoryCache(time.Hour, 2)

	current := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Put("a", cachedWithTemp(1))
	current = current.Add(time.Second)
	c.Put("b", cachedWithTemp(2))
	current = current.Add(time.Second)
	c.Put("c", cachedWithTemp(3))

	if _, ok := c.Get("a"); ok {
		t.Fatal("expected the oldest entry to be evicted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Fatal("expected entry b to survive eviction")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("expected entry c to be stored")
	}
}

func TestPutEvictsExpiredBeforeOldest(t *testing.T) {
	c := NewMemoryCache(time.Minute, 2)

	current := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Put("stale", cachedWithTemp(4))
	current = current.Add(2 * time.Minute)
	c.Put("fresh", cachedWithTemp(5))
	c.Put("newer", cachedWithTemp(6))

	if _, ok := c.Get("fresh"); !ok {
		t.Fatal("expected the unexpired entry to survive when a stale one could be dropped")
	}
	if _, ok := c.Get("newer"); !ok {
		t.Fatal("expected the newest entry to be stored")
	}
}

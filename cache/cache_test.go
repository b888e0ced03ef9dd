package cache

import (
	"testing"
	"time"
)

func TestTTLCacheSetGet(t *testing.T) {
	c := New[string]()
	c.Set("a", "one", time.Minute)

	got, ok := c.Get("a")
	if !ok {
		t.Fatal("Get(a) miss, want hit")
	}
	if got != "one" {
		t.Errorf("Get(a) = %q, want one", got)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("Get(missing) hit, want miss")
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewWithClock[int](func() time.Time { return now })

	c.Set("a", 1, 10*time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry should be fresh")
	}

	now = now.Add(11 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should have expired")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy removal", c.Len())
	}
}

func TestTTLCacheZeroTTLNotCached(t *testing.T) {
	c := New[int]()
	c.Set("a", 1, 0)
	if _, ok := c.Get("a"); ok {
		t.Error("TTL <= 0 must not cache")
	}
	c.Set("b", 2, -time.Second)
	if _, ok := c.Get("b"); ok {
		t.Error("negative TTL must not cache")
	}
}

func TestTTLCacheDelete(t *testing.T) {
	c := New[int]()
	c.Set("a", 1, time.Minute)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("Get after Delete hit, want miss")
	}
}

func TestTTLCacheOverwrite(t *testing.T) {
	c := New[int]()
	c.Set("a", 1, time.Minute)
	c.Set("a", 2, time.Minute)
	if got, _ := c.Get("a"); got != 2 {
		t.Errorf("Get(a) = %d, want 2", got)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

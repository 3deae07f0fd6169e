package cache

import (
	"fmt"
	"testing"
	"time"
)

func newTestCache(capacity int, ttl time.Duration) (*Cache, *time.Time) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	c := New(capacity, ttl)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCache_RoundTrip(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)

	key := NewKey("mock", "hello", "en", "ru")
	c.Put(key, Entry{Text: "привет", DetectedLanguage: "en"})

	got, ok := c.Get(key)
	if !ok {
		t.Fatal("expected a hit")
	}
	if got.Text != "привет" || got.DetectedLanguage != "en" {
		t.Errorf("unexpected entry: %+v", got)
	}
}

func TestCache_MissOnDifferentPair(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)

	c.Put(NewKey("mock", "hello", "en", "ru"), Entry{Text: "привет"})

	if _, ok := c.Get(NewKey("mock", "hello", "en", "de")); ok {
		t.Error("different target must not hit")
	}
	if _, ok := c.Get(NewKey("google", "hello", "en", "ru")); ok {
		t.Error("different provider must not hit")
	}
}

func TestCache_KeyNormalizesText(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)

	// "é" precomposed vs "e" + combining acute.
	c.Put(NewKey("mock", "café", "fr", "en"), Entry{Text: "coffee"})

	if _, ok := c.Get(NewKey("mock", "café", "fr", "en")); !ok {
		t.Error("NFC-equivalent text must share the entry")
	}
	if _, ok := c.Get(NewKey("mock", "  café  ", "fr", "en")); !ok {
		t.Error("surrounding whitespace must not split the entry")
	}
}

func TestCache_EvictsOldestInserted(t *testing.T) {
	c, _ := newTestCache(100, time.Hour)

	for i := 0; i < 100; i++ {
		c.Put(NewKey("mock", fmt.Sprintf("text-%d", i), "en", "ru"), Entry{Text: "t"})
	}

	// A hit on the oldest entry must not protect it: the bound is
	// insertion-ordered, not LRU.
	if _, ok := c.Get(NewKey("mock", "text-0", "en", "ru")); !ok {
		t.Fatal("expected text-0 present before eviction")
	}

	c.Put(NewKey("mock", "text-100", "en", "ru"), Entry{Text: "t"})

	if _, ok := c.Get(NewKey("mock", "text-0", "en", "ru")); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := c.Get(NewKey("mock", "text-1", "en", "ru")); !ok {
		t.Error("second-oldest entry should survive")
	}
	if c.Len() != 100 {
		t.Errorf("Len = %d, want 100", c.Len())
	}
}

func TestCache_RefreshDoesNotGrow(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)

	key := NewKey("mock", "hello", "en", "ru")
	c.Put(key, Entry{Text: "old"})
	c.Put(key, Entry{Text: "new"})

	if c.Len() != 1 {
		t.Errorf("Len = %d, want 1", c.Len())
	}
	got, _ := c.Get(key)
	if got.Text != "new" {
		t.Errorf("expected refreshed value, got %q", got.Text)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c, now := newTestCache(10, time.Hour)

	key := NewKey("mock", "hello", "en", "ru")
	c.Put(key, Entry{Text: "привет"})

	*now = now.Add(59 * time.Minute)
	if _, ok := c.Get(key); !ok {
		t.Fatal("entry within TTL must hit")
	}

	*now = now.Add(2 * time.Minute)
	if _, ok := c.Get(key); ok {
		t.Fatal("entry past TTL must miss")
	}
	// The expired entry is dropped on access.
	if c.Len() != 0 {
		t.Errorf("Len after expired access = %d, want 0", c.Len())
	}
}

func TestCache_Purge(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)
	c.Put(NewKey("mock", "a", "en", "ru"), Entry{Text: "x"})
	c.Put(NewKey("mock", "b", "en", "ru"), Entry{Text: "y"})

	c.Purge()

	if c.Len() != 0 {
		t.Errorf("Len after Purge = %d, want 0", c.Len())
	}
	if _, ok := c.Get(NewKey("mock", "a", "en", "ru")); ok {
		t.Error("purged entry must miss")
	}
}

func TestCache_DefaultsApplied(t *testing.T) {
	c := New(0, 0)
	if c.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", c.capacity, DefaultCapacity)
	}
	if c.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", c.ttl, DefaultTTL)
	}
}

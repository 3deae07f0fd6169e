// Package cache is the in-memory result cache for translations: bounded by
// insertion order, additionally expired by TTL. A hit must pass both
// checks.
package cache

import (
	"container/list"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"
)

const (
	DefaultCapacity = 100
	DefaultTTL      = 24 * time.Hour
)

// Key identifies one cached translation. Text is stored NFC-normalized so
// visually identical inputs share an entry.
type Key struct {
	Provider string
	Text     string
	Source   string
	Target   string
}

// NewKey normalizes text and builds a cache key.
func NewKey(provider, text, source, target string) Key {
	return Key{
		Provider: provider,
		Text:     norm.NFC.String(strings.TrimSpace(text)),
		Source:   source,
		Target:   target,
	}
}

// Entry is the cached value.
type Entry struct {
	Text             string
	DetectedLanguage string
	CreatedAt        time.Time
}

type item struct {
	key   Key
	entry Entry
}

type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	order    *list.List // front = oldest inserted
	items    map[Key]*list.Element

	now func() time.Time
}

// New builds a cache; capacity/ttl values <= 0 fall back to the defaults.
func New(capacity int, ttl time.Duration) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		capacity: capacity,
		ttl:      ttl,
		order:    list.New(),
		items:    make(map[Key]*list.Element),
		now:      time.Now,
	}
}

// Get returns the entry for key if present and within TTL. Expired entries
// are dropped on access. Hits do not change eviction order: the bound is
// strictly insertion-ordered, not LRU.
func (c *Cache) Get(key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return Entry{}, false
	}
	it := el.Value.(*item)
	if c.now().Sub(it.entry.CreatedAt) > c.ttl {
		c.removeLocked(el)
		return Entry{}, false
	}
	return it.entry, true
}

// Put inserts or refreshes an entry, evicting the oldest-inserted entry
// when the capacity bound is hit.
func (c *Cache) Put(key Key, entry Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = c.now()
	}

	if el, ok := c.items[key]; ok {
		el.Value.(*item).entry = entry
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Front(); oldest != nil {
			c.removeLocked(oldest)
		}
	}
	c.items[key] = c.order.PushBack(&item{key: key, entry: entry})
}

// Len reports the number of live entries (expired ones included until
// touched).
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge drops everything.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[Key]*list.Element)
}

func (c *Cache) removeLocked(el *list.Element) {
	it := el.Value.(*item)
	delete(c.items, it.key)
	c.order.Remove(el)
}

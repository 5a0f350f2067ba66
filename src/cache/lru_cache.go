package cache

import (
	"container/list"
	"sync"
	"time"
)

// LRUCache is a thread-safe LRU cache with per-entry TTL. The agent uses it
// to memoise near-static API responses (rockets, launchpads, company info)
// so repeated tool calls within a conversation don't re-fetch them.
type LRUCache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	items    map[string]*list.Element
	lru      *list.List
}

type entry struct {
	key       string
	value     any
	expiresAt time.Time
}

// NewLRUCache creates a cache holding at most capacity entries, each valid
// for ttl after insertion.
func NewLRUCache(capacity int, ttl time.Duration) *LRUCache {
	if capacity <= 0 {
		capacity = 64
	}
	return &LRUCache{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*list.Element, capacity),
		lru:      list.New(),
	}
}

// Get retrieves a value, evicting it first if expired.
func (c *LRUCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	ent := elem.Value.(*entry)
	if time.Now().After(ent.expiresAt) {
		c.lru.Remove(elem)
		delete(c.items, key)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return ent.value, true
}

// Set stores a value, evicting the least recently used entry when full.
func (c *LRUCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expiresAt := time.Now().Add(c.ttl)
	if elem, ok := c.items[key]; ok {
		ent := elem.Value.(*entry)
		ent.value = value
		ent.expiresAt = expiresAt
		c.lru.MoveToFront(elem)
		return
	}

	if c.lru.Len() >= c.capacity {
		oldest := c.lru.Back()
		if oldest != nil {
			c.lru.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
		}
	}
	c.items[key] = c.lru.PushFront(&entry{key: key, value: value, expiresAt: expiresAt})
}

// Len reports the number of stored entries. Expired entries still count
// until a Get evicts them.
func (c *LRUCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

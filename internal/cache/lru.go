// Package cache provides a small generic LRU used to bound per-locale
// formatter construction.
package cache

import (
	"container/list"
	"sync"
)

// LRU is a size-bounded cache with least-recently-used eviction. Safe for
// concurrent use.
type LRU[T any] struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	order   *list.List
}

type lruItem[T any] struct {
	key  string
	data T
}

func NewLRU[T any](maxSize int) *LRU[T] {
	return &LRU[T]{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		order:   list.New(),
	}
}

// Get retrieves a value and marks it most recently used.
func (c *LRU[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero T
	elem, exists := c.items[key]
	if !exists {
		return zero, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*lruItem[T]).data, true
}

// Set stores a value, evicting the least recently used item when over
// capacity.
func (c *LRU[T]) Set(key string, data T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		elem.Value.(*lruItem[T]).data = data
		c.order.MoveToFront(elem)
		return
	}

	c.items[key] = c.order.PushFront(&lruItem[T]{key: key, data: data})

	if c.order.Len() > c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			delete(c.items, oldest.Value.(*lruItem[T]).key)
			c.order.Remove(oldest)
		}
	}
}

// Size returns the current number of cached items.
func (c *LRU[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

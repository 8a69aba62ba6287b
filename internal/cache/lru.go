package cache

import (
	"container/list"
	"sync"
)

// LRUCache is a fixed-capacity, concurrency-safe least-recently-used cache.
type LRUCache[V any] struct {
	capacity int
	items    map[string]*list.Element
	lruList  *list.List
	mu       sync.Mutex
}

type entry[V any] struct {
	key   string
	value V
}

func NewLRUCache[V any](capacity int) *LRUCache[V] {
	return &LRUCache[V]{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		lruList:  list.New(),
	}
}

func (c *LRUCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.items[key]; found {
		c.lruList.MoveToFront(elem)
		return elem.Value.(*entry[V]).value, true
	}

	var zero V
	return zero, false
}

func (c *LRUCache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.items[key]; found {
		c.lruList.MoveToFront(elem)
		elem.Value.(*entry[V]).value = value
		return
	}

	elem := c.lruList.PushFront(&entry[V]{key: key, value: value})
	c.items[key] = elem

	for c.lruList.Len() > c.capacity {
		c.evict()
	}
}

func (c *LRUCache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.items[key]; found {
		c.lruList.Remove(elem)
		delete(c.items, key)
	}
}

func (c *LRUCache[V]) evict() {
	elem := c.lruList.Back()
	if elem != nil {
		c.lruList.Remove(elem)
		delete(c.items, elem.Value.(*entry[V]).key)
	}
}

func (c *LRUCache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lruList.Len()
}

func (c *LRUCache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lruList = list.New()
}

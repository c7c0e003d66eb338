package cache

import (
	"container/list"
	"context"
	"sync"

	"itinerary-optimizer-service/internal/ports"
)

type memoryEntry struct {
	key    string
	result ports.DistanceResult
}

// MemoryDistanceCache is a capacity-bounded, least-recently-used cache of
// road-distance results. It lives only as long as the process.
type MemoryDistanceCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	items    map[string]*list.Element
}

func NewMemoryDistanceCache(capacity int) *MemoryDistanceCache {
	if capacity < 1 {
		capacity = 1
	}
	return &MemoryDistanceCache{
		capacity: capacity,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
	}
}

func (c *MemoryDistanceCache) Get(_ context.Context, key string) (ports.DistanceResult, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return ports.DistanceResult{}, false, nil
	}
	c.order.MoveToFront(el)
	return el.Value.(*memoryEntry).result, true, nil
}

func (c *MemoryDistanceCache) Put(_ context.Context, key string, result ports.DistanceResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*memoryEntry).result = result
		c.order.MoveToFront(el)
		return nil
	}

	c.items[key] = c.order.PushFront(&memoryEntry{key: key, result: result})

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*memoryEntry).key)
	}

	return nil
}

func (c *MemoryDistanceCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

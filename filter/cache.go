package filter

import (
	"container/list"
	"sync"
)

// programCache keeps compiled filters keyed by expression, evicting the least
// recently used one when full.
type programCache struct {
	size  int
	order *list.List
	items map[string]*list.Element
	mu    sync.Mutex
}

type cachedFilter struct {
	expression string
	filter     *Filter
}

func newProgramCache(size int) *programCache {
	return &programCache{
		size:  size,
		order: list.New(),
		items: make(map[string]*list.Element),
	}
}

func (c *programCache) get(expression string) (*Filter, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.items[expression]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(node)
	return node.Value.(*cachedFilter).filter, true
}

func (c *programCache) put(expression string, f *Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if node, ok := c.items[expression]; ok {
		c.order.MoveToFront(node)
		node.Value.(*cachedFilter).filter = f
		return
	}

	c.items[expression] = c.order.PushFront(&cachedFilter{expression: expression, filter: f})
	for c.order.Len() > c.size {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*cachedFilter).expression)
	}
}

func (c *programCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

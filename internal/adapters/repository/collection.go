package repository

import (
	"sync"
)

// collection keeps records in insertion order with an id index. Records go
// in and out through clone, so callers never share memory with the store.
type collection[T any] struct {
	mu    sync.RWMutex
	items []T
	index map[string]int
	id    func(T) string
	clone func(T) T
}

func newCollection[T any](id func(T) string, clone func(T) T) *collection[T] {
	return &collection[T]{
		index: make(map[string]int),
		id:    id,
		clone: clone,
	}
}

func (c *collection[T]) insert(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := c.id(item)
	if _, exists := c.index[key]; exists {
		return false
	}
	c.index[key] = len(c.items)
	c.items = append(c.items, c.clone(item))
	return true
}

func (c *collection[T]) get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	pos, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.clone(c.items[pos]), true
}

// replace overwrites the record in place, keeping its position.
func (c *collection[T]) replace(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos, ok := c.index[c.id(item)]
	if !ok {
		return false
	}
	c.items[pos] = c.clone(item)
	return true
}

func (c *collection[T]) remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos, ok := c.index[id]
	if !ok {
		return false
	}
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.index, id)
	for i := pos; i < len(c.items); i++ {
		c.index[c.id(c.items[i])] = i
	}
	return true
}

func (c *collection[T]) list() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = c.clone(item)
	}
	return out
}

// reset swaps the whole content. Later duplicates of an id are dropped.
func (c *collection[T]) reset(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make([]T, 0, len(items))
	c.index = make(map[string]int, len(items))
	for _, item := range items {
		key := c.id(item)
		if _, exists := c.index[key]; exists {
			continue
		}
		c.index[key] = len(c.items)
		c.items = append(c.items, c.clone(item))
	}
}

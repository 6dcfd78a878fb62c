package depot

import (
	"fmt"
	"iter"
)

var _ Cache[any] = &SimpleCache[any]{}

func (c *SimpleCache[T]) GetIndex(key string) (int, bool) {
	index, ok := c.itemIndices[key]
	return index, ok
}

func (c *SimpleCache[T]) GetItem(index int) *T {
	return &c.items[index]
}

// Register stores item under key. Keys are unique; re-registering a key fails with
// DuplicateNameError.
func (c *SimpleCache[T]) Register(key string, item T) (int, error) {
	if _, exists := c.itemIndices[key]; exists {
		return -1, DuplicateNameError{Name: key}
	}
	if len(c.itemIndices) >= c.maxCapacity {
		return -1, fmt.Errorf("cache at maximum capacity (%d)", c.maxCapacity)
	}

	idx := len(c.items)
	c.itemIndices[key] = idx
	c.keys = append(c.keys, key)
	c.items = append(c.items, item)

	return idx, nil
}

// Items yields keys and items in registration order.
func (c *SimpleCache[T]) Items() iter.Seq2[string, T] {
	return func(yield func(string, T) bool) {
		for i, key := range c.keys {
			if !yield(key, c.items[i]) {
				return
			}
		}
	}
}

// Remove deletes key, shifting the indices of later items down by one.
func (c *SimpleCache[T]) Remove(key string) bool {
	idx, ok := c.itemIndices[key]
	if !ok {
		return false
	}
	delete(c.itemIndices, key)
	c.keys = append(c.keys[:idx], c.keys[idx+1:]...)
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	for i := idx; i < len(c.keys); i++ {
		c.itemIndices[c.keys[i]] = i
	}
	return true
}

func (c *SimpleCache[T]) Len() int {
	return len(c.items)
}

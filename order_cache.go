package sel

import (
	"slices"
	"sync"
)

// OrderCache keeps list order stable across normalization passes. Positions
// are recorded on the first pass and only rebuilt when an unseen id appears.
type OrderCache struct {
	mu    sync.Mutex
	index map[string]int
}

// NewOrderCache constructs an empty cache.
func NewOrderCache() *OrderCache {
	return &OrderCache{}
}

// Apply returns list sorted by cached position. list is not modified.
func (c *OrderCache) Apply(list []Option) []Option {
	out := slices.Clone(list)
	if c == nil {
		return out
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	rebuild := c.index == nil
	for _, opt := range list {
		if _, ok := c.index[opt.ID]; !ok {
			rebuild = true
			break
		}
	}
	if rebuild {
		c.index = make(map[string]int, len(list))
		for i, opt := range list {
			c.index[opt.ID] = i
		}
		return out
	}

	slices.SortStableFunc(out, func(a, b Option) int {
		return c.index[a.ID] - c.index[b.ID]
	})
	return out
}

// Reset drops every recorded position.
func (c *OrderCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.index = nil
}

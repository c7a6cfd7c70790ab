package util

import (
	"sort"
	"sync"
)

// Cache is a data store
type Cache struct {
	sync.Mutex
	val map[string]Param
}

// NewCache creates cache
func NewCache() *Cache {
	return &Cache{
		val: make(map[string]Param),
	}
}

// Run adds input channel's values to cache
func (c *Cache) Run(in <-chan Param) {
	log := NewLogger("cache")

	for p := range in {
		log.TRACE.Printf("%s: %v", p.Key, p.Val)
		c.Add(p.UniqueID(), p)
	}
}

// All provides a copy of the cached values ordered by key
func (c *Cache) All() []Param {
	c.Lock()
	defer c.Unlock()

	copy := make([]Param, 0, len(c.val))
	for _, val := range c.val {
		copy = append(copy, val)
	}

	sort.Slice(copy, func(i, j int) bool {
		return copy[i].Key < copy[j].Key
	})

	return copy
}

// Add entry to cache
func (c *Cache) Add(key string, param Param) {
	c.Lock()
	defer c.Unlock()

	c.val[key] = param
}

// Get entry from cache
func (c *Cache) Get(key string) (Param, bool) {
	c.Lock()
	defer c.Unlock()

	val, ok := c.val[key]
	return val, ok
}

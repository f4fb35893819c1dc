// Package eligibility compiles scheme records into directly evaluable
// predicates.
package eligibility

import (
	"sync"

	"schemebot/internal/models"
)

// Cache memoizes compiled predicates by scheme id. Compile is pure,
// so two goroutines racing on the same id may both compile; the first
// stored result wins and the results are identical either way.
type Cache struct {
	mu         sync.RWMutex
	predicates map[string]*Predicate
}

// NewCache creates an empty predicate cache.
func NewCache() *Cache {
	return &Cache{predicates: make(map[string]*Predicate)}
}

// Get returns the predicate for a scheme, compiling and storing it on
// first use.
func (c *Cache) Get(s *models.Scheme) *Predicate {
	c.mu.RLock()
	p, ok := c.predicates[s.ID]
	c.mu.RUnlock()
	if ok {
		return p
	}

	compiled := Compile(s)

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.predicates[s.ID]; ok {
		return existing
	}
	c.predicates[s.ID] = compiled
	return compiled
}

// Len returns the number of cached predicates.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.predicates)
}

package eligibility

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_MemoizesByID(t *testing.T) {
	cache := NewCache()
	scheme := mockScheme(map[string]interface{}{"id": "apy", "min_age": 18, "max_age": 40})

	first := cache.Get(scheme)
	second := cache.Get(scheme)

	assert.Same(t, first, second, "repeated lookups should return the cached predicate")
	assert.Equal(t, 1, cache.Len())
}

func TestCache_DistinctSchemes(t *testing.T) {
	cache := NewCache()
	cache.Get(mockScheme(map[string]interface{}{"id": "a"}))
	cache.Get(mockScheme(map[string]interface{}{"id": "b"}))
	assert.Equal(t, 2, cache.Len())
}

func TestCache_ConcurrentAccess(t *testing.T) {
	cache := NewCache()
	scheme := mockScheme(map[string]interface{}{"id": "pmjdy", "min_age": 10})

	var wg sync.WaitGroup
	results := make([]*Predicate, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx] = cache.Get(scheme)
		}(i)
	}
	wg.Wait()

	for _, p := range results {
		assert.Same(t, results[0], p, "every caller should see the same predicate")
	}
	assert.Equal(t, 1, cache.Len())
}

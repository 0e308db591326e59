package routing

import (
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"optiroute/internal/model"
)

// pathKey is an ordered node pair. Direction matters: road networks are
// not assumed symmetric.
type pathKey struct {
	From, To int64
}

func (k pathKey) String() string {
	return strconv.FormatInt(k.From, 10) + ">" + strconv.FormatInt(k.To, 10)
}

// PathCache memoizes shortest-path results per ordered (start, end) node
// pair. It is the only state shared across calculations: inject one
// instance and reuse it until a new map is loaded.
//
// GetOrCompute guarantees at most one computation per key even under
// concurrent first access, and a hit returns the exact result pointer
// stored by the first computation, never a recomputed copy.
type PathCache struct {
	mu      sync.RWMutex
	entries map[pathKey]*model.PathResult
	group   singleflight.Group
	hits    atomic.Int64
	misses  atomic.Int64
}

func NewPathCache() *PathCache {
	return &PathCache{entries: map[pathKey]*model.PathResult{}}
}

// GetOrCompute returns the cached result for (from, to), computing and
// storing it once if absent. Errors from compute are not cached.
func (c *PathCache) GetOrCompute(from, to int64, compute func() (*model.PathResult, error)) (*model.PathResult, error) {
	k := pathKey{From: from, To: to}
	c.mu.RLock()
	res, ok := c.entries[k]
	c.mu.RUnlock()
	if ok {
		c.hits.Add(1)
		return res, nil
	}
	v, err, _ := c.group.Do(k.String(), func() (any, error) {
		// Re-check: another flight may have stored the entry between the
		// fast path and the singleflight barrier.
		c.mu.RLock()
		res, ok := c.entries[k]
		c.mu.RUnlock()
		if ok {
			c.hits.Add(1)
			return res, nil
		}
		res, err := compute()
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[k] = res
		c.mu.Unlock()
		c.misses.Add(1)
		return res, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.PathResult), nil
}

// Clear drops all entries, e.g. when a new map or demand set is loaded.
// Hit/miss counters are cumulative and survive a clear.
func (c *PathCache) Clear() {
	c.mu.Lock()
	c.entries = map[pathKey]*model.PathResult{}
	c.mu.Unlock()
}

func (c *PathCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

type CacheStats struct {
	Size   int   `json:"size"`
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
}

func (c *PathCache) Stats() CacheStats {
	return CacheStats{Size: c.Size(), Hits: c.hits.Load(), Misses: c.misses.Load()}
}

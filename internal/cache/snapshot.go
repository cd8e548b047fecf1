// Package cache holds in-memory copies of leaderboard snapshots and rule tables.
package cache

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/podium-picks/internal/metrics"
	"github.com/yourusername/podium-picks/internal/models"
)

// counters tracks hits and misses for ratio reporting
type counters struct {
	name   string
	hits   atomic.Uint64
	misses atomic.Uint64
}

func (c *counters) hit()  { c.hits.Add(1); c.report() }
func (c *counters) miss() { c.misses.Add(1); c.report() }

func (c *counters) stats() (hits, misses uint64, ratio float64) {
	hits = c.hits.Load()
	misses = c.misses.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

func (c *counters) report() {
	_, _, ratio := c.stats()
	metrics.UpdateCacheHitRatio(c.name, ratio)
}

func (c *counters) reset() {
	c.hits.Store(0)
	c.misses.Store(0)
}

// SnapshotCache keeps the latest leaderboard per context so the next run can
// diff against it without a database read.
type SnapshotCache struct {
	cache *gocache.Cache
	ttl   time.Duration
	stat  counters
}

// NewSnapshotCache creates a snapshot cache. A non-positive ttl keeps
// snapshots until they are replaced or invalidated.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	cleanup := ttl * 2
	if ttl <= 0 {
		ttl = gocache.NoExpiration
		cleanup = 0
	}
	return &SnapshotCache{
		cache: gocache.New(ttl, cleanup),
		ttl:   ttl,
		stat:  counters{name: "snapshot"},
	}
}

// Get returns the cached snapshot for a context
func (c *SnapshotCache) Get(contextID uuid.UUID) (*models.LeaderboardSnapshot, bool) {
	if v, found := c.cache.Get(contextID.String()); found {
		if snap, ok := v.(*models.LeaderboardSnapshot); ok {
			c.stat.hit()
			return snap, true
		}
	}
	c.stat.miss()
	return nil, false
}

// Set replaces the cached snapshot for snap.ContextID
func (c *SnapshotCache) Set(snap *models.LeaderboardSnapshot) {
	if snap == nil {
		return
	}
	c.cache.Set(snap.ContextID.String(), snap, c.ttl)
}

// Invalidate drops the snapshot for a context
func (c *SnapshotCache) Invalidate(contextID uuid.UUID) {
	c.cache.Delete(contextID.String())
}

// Clear flushes every snapshot and resets statistics
func (c *SnapshotCache) Clear() {
	c.cache.Flush()
	c.stat.reset()
}

// Stats returns cache statistics
func (c *SnapshotCache) Stats() (hits, misses uint64, ratio float64) {
	return c.stat.stats()
}

// ItemCount returns the number of cached snapshots
func (c *SnapshotCache) ItemCount() int {
	return c.cache.ItemCount()
}

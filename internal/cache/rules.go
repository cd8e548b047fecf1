package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/podium-picks/internal/scoring"
)

const ruleTableKey = "rule_table"

// RuleCache holds the merged rule table for a limited time so a batch of
// rescoring runs shares one storage read.
type RuleCache struct {
	cache *gocache.Cache
	ttl   time.Duration
	stat  counters
}

// NewRuleCache creates a rule cache with the given ttl
func NewRuleCache(ttl time.Duration) *RuleCache {
	cleanup := ttl * 2
	if ttl <= 0 {
		ttl = gocache.NoExpiration
		cleanup = 0
	}
	return &RuleCache{
		cache: gocache.New(ttl, cleanup),
		ttl:   ttl,
		stat:  counters{name: "rules"},
	}
}

// Get returns the cached rule table
func (c *RuleCache) Get() (scoring.RuleTable, bool) {
	if v, found := c.cache.Get(ruleTableKey); found {
		if table, ok := v.(scoring.RuleTable); ok {
			c.stat.hit()
			return table, true
		}
	}
	c.stat.miss()
	return scoring.RuleTable{}, false
}

// Set stores the rule table
func (c *RuleCache) Set(table scoring.RuleTable) {
	c.cache.Set(ruleTableKey, table, c.ttl)
}

// Invalidate drops the cached table so the next run reloads it
func (c *RuleCache) Invalidate() {
	c.cache.Delete(ruleTableKey)
}

// Stats returns cache statistics
func (c *RuleCache) Stats() (hits, misses uint64, ratio float64) {
	return c.stat.stats()
}

// Package cache holds analysis results keyed by request fingerprint, bounded
// by entry count and per-entry time-to-live.
package cache

import (
	"sync"
	"time"

	"github.com/zerubeus/gemini-claude-code-mcp/pkg/types"
)

// Policy selects which entry is evicted under capacity pressure
type Policy string

const (
	PolicyLRU  Policy = "lru"
	PolicyLFU  Policy = "lfu"
	PolicyFIFO Policy = "fifo"
)

// ParsePolicy converts a config string to a Policy, defaulting to LRU
func ParsePolicy(s string) Policy {
	switch Policy(s) {
	case PolicyLFU:
		return PolicyLFU
	case PolicyFIFO:
		return PolicyFIFO
	default:
		return PolicyLRU
	}
}

type entry struct {
	result     types.AnalysisResult
	insertedAt time.Time
	insertSeq  uint64
	accessSeq  uint64
	hits       int
}

// ResultCache maps request fingerprints to analysis results. Safe for
// concurrent use. Expired entries behave as misses and are removed on lookup.
type ResultCache struct {
	mu         sync.Mutex
	entries    map[string]*entry
	maxEntries int
	ttl        time.Duration
	policy     Policy
	seq        uint64

	now func() time.Time // replaced in tests
}

// New creates a ResultCache with the given capacity, TTL and eviction policy
func New(maxEntries int, ttl time.Duration, policy Policy) *ResultCache {
	if maxEntries <= 0 {
		maxEntries = 100
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultCache{
		entries:    make(map[string]*entry),
		maxEntries: maxEntries,
		ttl:        ttl,
		policy:     policy,
		now:        time.Now,
	}
}

// Get returns the cached result for fingerprint, or false on a miss. An
// entry past its TTL is removed and reported as a miss.
func (c *ResultCache) Get(fingerprint string) (types.AnalysisResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[fingerprint]
	if !ok {
		return types.AnalysisResult{}, false
	}

	if c.now().Sub(e.insertedAt) > c.ttl {
		delete(c.entries, fingerprint)
		return types.AnalysisResult{}, false
	}

	c.seq++
	e.accessSeq = c.seq
	e.hits++
	return e.result, true
}

// Put stores a result under fingerprint, evicting per policy when the cache
// is at capacity.
func (c *ResultCache) Put(fingerprint string, result types.AnalysisResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++

	if e, ok := c.entries[fingerprint]; ok {
		e.result = result
		e.insertedAt = c.now()
		e.insertSeq = c.seq
		e.accessSeq = c.seq
		return
	}

	if len(c.entries) >= c.maxEntries {
		c.evict()
	}

	c.entries[fingerprint] = &entry{
		result:     result,
		insertedAt: c.now(),
		insertSeq:  c.seq,
		accessSeq:  c.seq,
	}
}

// Len returns the number of entries, including any not yet expired-swept
func (c *ResultCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// evict removes one entry. Expired entries go first; otherwise the policy
// picks the victim. Caller holds the lock.
func (c *ResultCache) evict() {
	now := c.now()
	for key, e := range c.entries {
		if now.Sub(e.insertedAt) > c.ttl {
			delete(c.entries, key)
			return
		}
	}

	var victim string
	var best uint64
	bestHits := int(^uint(0) >> 1)
	first := true

	for key, e := range c.entries {
		var rank uint64
		switch c.policy {
		case PolicyLFU:
			// Fewest hits wins; access order breaks ties
			if first || e.hits < bestHits || (e.hits == bestHits && e.accessSeq < best) {
				victim, best, bestHits = key, e.accessSeq, e.hits
				first = false
			}
			continue
		case PolicyFIFO:
			rank = e.insertSeq
		default:
			rank = e.accessSeq
		}
		if first || rank < best {
			victim, best = key, rank
			first = false
		}
	}

	if victim != "" {
		delete(c.entries, victim)
	}
}

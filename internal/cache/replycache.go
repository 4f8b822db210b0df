// Package cache provides the short-lived reply cache and a small
// generic LRU used wherever a bounded map is needed.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/hilacarreon/vecinito/internal/textnorm"
)

// Tier identifies which cache tier answered a lookup.
type Tier string

const (
	// TierPersonal entries are scoped to a single user.
	TierPersonal Tier = "personal"
	// TierGlobal entries are shared across users with the same query.
	TierGlobal Tier = "global"
)

// Key identifies a cached reply. Lookup and Store must receive keys
// built by the same Fingerprint call so the two tiers stay consistent.
type Key struct {
	personal string
	global   string
}

type replyEntry struct {
	reply    string
	storedAt time.Time
}

// ReplyCache remembers recent answers so a repeated question within the
// TTL is answered without touching the retrieval pipeline or the model.
// A personal tier always applies; the global tier is a fallback shared
// across users and is off by default because answers may embed
// user-specific context.
type ReplyCache struct {
	mu             sync.Mutex
	entries        map[string]replyEntry
	ttl            time.Duration
	capacity       int
	globalFallback bool
	now            func() time.Time
}

// Option configures a ReplyCache.
type Option func(*ReplyCache)

// WithGlobalFallback enables the shared tier.
func WithGlobalFallback() Option {
	return func(c *ReplyCache) { c.globalFallback = true }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *ReplyCache) { c.now = now }
}

// NewReplyCache builds a cache holding at most capacity entries, each
// valid for ttl.
func NewReplyCache(ttl time.Duration, capacity int, opts ...Option) *ReplyCache {
	c := &ReplyCache{
		entries:  make(map[string]replyEntry),
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fingerprint derives the cache key for a user's query. When a location
// is known it is bucketed to four decimal places (roughly ten meters),
// so small GPS jitter still hits the same entry. Replies computed with
// a location carry no global key: they may embed distances that are
// wrong for anyone else.
func Fingerprint(userID int64, query string, lat, lon float64, hasLocation bool) Key {
	normalized := textnorm.Normalize(query)
	if hasLocation {
		suffix := fmt.Sprintf("%.4f,%.4f:%s", lat, lon, normalized)
		return Key{personal: digest(fmt.Sprintf("%d:%s", userID, suffix))}
	}
	return Key{
		personal: digest(fmt.Sprintf("%d:%s", userID, normalized)),
		global:   digest("global:" + normalized),
	}
}

func digest(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached reply for key if a fresh entry exists. The
// personal tier is consulted first; the global tier only when enabled.
func (c *ReplyCache) Lookup(key Key) (string, Tier, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.entries[key.personal]; ok && now.Sub(e.storedAt) < c.ttl {
		return e.reply, TierPersonal, true
	}
	if c.globalFallback && key.global != "" {
		if e, ok := c.entries[key.global]; ok && now.Sub(e.storedAt) < c.ttl {
			return e.reply, TierGlobal, true
		}
	}
	return "", "", false
}

// Store saves reply under key in the personal tier, and in the global
// tier as well when the fallback is enabled. When the cache exceeds its
// capacity the oldest entries across all tiers are evicted first.
func (c *ReplyCache) Store(key Key, reply string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key.personal] = replyEntry{reply: reply, storedAt: now}
	if c.globalFallback && key.global != "" {
		c.entries[key.global] = replyEntry{reply: reply, storedAt: now}
	}

	for len(c.entries) > c.capacity {
		c.evictOldestLocked()
	}
}

func (c *ReplyCache) evictOldestLocked() {
	var oldestKey string
	var oldestAt time.Time
	for k, e := range c.entries {
		if oldestKey == "" || e.storedAt.Before(oldestAt) {
			oldestKey = k
			oldestAt = e.storedAt
		}
	}
	delete(c.entries, oldestKey)
}

// SweepExpired removes entries older than the TTL and returns how many
// were dropped. The assistant runs it on a schedule so stale entries do
// not linger until capacity pressure pushes them out.
func (c *ReplyCache) SweepExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for k, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

// Len reports the current number of entries across both tiers.
func (c *ReplyCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

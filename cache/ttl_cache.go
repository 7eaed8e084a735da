package cache

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Entry is one cached payload. Never served once now >= ExpiresAt.
type Entry struct {
	Value     any
	ETag      string
	CreatedAt time.Time
	ExpiresAt time.Time
	HitCount  int64
}

// Cache is a TTL key-value store with per-key request coalescing.
// It is constructed once per process and handed to callers; there is no
// package-level instance. The clock is injectable for tests.
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*Entry
	inflight map[string]*inflight
	now      func() time.Time
	log      *logrus.Logger
}

// inflight is a pending computation shared by every caller that arrived
// while it was running. done is closed exactly once, after value/err are
// set.
type inflight struct {
	done  chan struct{}
	value any
	etag  string
	err   error
}

// New creates a cache using the wall clock.
func New(log *logrus.Logger) *Cache {
	return NewWithClock(log, time.Now)
}

// NewWithClock creates a cache with an injected clock.
func NewWithClock(log *logrus.Logger, now func() time.Time) *Cache {
	if log == nil {
		log = logrus.New()
	}
	return &Cache{
		entries:  make(map[string]*Entry),
		inflight: make(map[string]*inflight),
		now:      now,
		log:      log,
	}
}

// Get returns the cached value and its ETag iff the entry is still live.
// An expired entry is evicted and reported as a miss.
func (c *Cache) Get(key string) (any, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.liveEntry(key)
	if !ok {
		return nil, "", false
	}
	e.HitCount++
	return e.Value, e.ETag, true
}

// Set stores value under key for ttl, overwriting any prior entry.
// Returns the computed ETag.
func (c *Cache) Set(key string, value any, ttl time.Duration) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(key, value, ttl)
}

// GetOrCompute is the coalescing read path. A live entry is returned
// as-is. If a computation for key is already running, the caller waits
// for it and shares its outcome. Otherwise compute runs exactly once:
// success populates the cache, failure is propagated to every waiter and
// never cached, and the in-flight marker is removed on both paths.
//
// compute always runs to completion; an inbound request going away does
// not abort it, so other waiters still get a populated cache.
func (c *Cache) GetOrCompute(key string, ttl time.Duration, compute func() (any, error)) (value any, etag string, err error) {
	c.mu.Lock()
	if e, ok := c.liveEntry(key); ok {
		e.HitCount++
		v, etag := e.Value, e.ETag
		c.mu.Unlock()
		return v, etag, nil
	}
	if fl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		<-fl.done
		return fl.value, fl.etag, fl.err
	}
	fl := &inflight{done: make(chan struct{})}
	c.inflight[key] = fl
	c.mu.Unlock()

	// The marker must come out even if compute panics, otherwise every
	// later caller for this key blocks forever.
	defer func() {
		c.mu.Lock()
		delete(c.inflight, key)
		if fl.err == nil && fl.value != nil {
			fl.etag = c.setLocked(key, fl.value, ttl)
		}
		c.mu.Unlock()
		close(fl.done)
		value, etag, err = fl.value, fl.etag, fl.err
	}()

	fl.value, fl.err = compute()
	if fl.err != nil {
		fl.value = nil
		c.log.WithError(fl.err).WithField("key", key).Warn("cache compute failed")
	}
	return
}

// ClearPattern deletes every key containing substring and returns how
// many entries were dropped. In-flight computations are left alone; they
// will repopulate with fresh data anyway.
func (c *Cache) ClearPattern(substring string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.entries {
		if strings.Contains(key, substring) {
			delete(c.entries, key)
			n++
		}
	}
	if n > 0 {
		c.log.WithFields(logrus.Fields{"pattern": substring, "dropped": n}).Debug("cache invalidated")
	}
	return n
}

// UpdateArray applies an incremental update to a cached collection:
// an item with a matching id is replaced in place, an unknown item is
// prepended. The entry's TTL is untouched; its ETag is recomputed.
// Returns false if the key is absent, expired, or not a collection.
func (c *Cache) UpdateArray(key string, item Identifiable) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.liveEntry(key)
	if !ok {
		return false
	}
	coll, ok := e.Value.(*CachedCollection)
	if !ok {
		c.log.WithField("key", key).Warn("update-array on non-collection entry")
		return false
	}
	coll.Upsert(item)
	e.ETag = ETagFor(coll)
	return true
}

// Len reports the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// liveEntry returns the entry for key if it has not expired, evicting it
// otherwise. Callers hold c.mu.
func (c *Cache) liveEntry(key string) (*Entry, bool) {
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.ExpiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return e, true
}

func (c *Cache) setLocked(key string, value any, ttl time.Duration) string {
	now := c.now()
	e := &Entry{
		Value:     value,
		ETag:      ETagFor(value),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	c.entries[key] = e
	return e.ETag
}

// ETagFor hashes the canonical JSON form of v. Identical data always
// serializes identically (encoding/json sorts map keys), so repeated
// calls on equal payloads yield the same tag and conditional requests
// stay stable.
func ETagFor(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	sum := sha1.Sum(raw)
	return fmt.Sprintf("%q", fmt.Sprintf("%x", sum))
}

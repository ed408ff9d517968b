// Package cache is an in-process key/value store with per-entry TTL and
// glob-pattern bulk eviction. Values are stored as JSON so callers never
// share memory with a cached entry.
package cache

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultTTL applies when Set is called with a non-positive ttl.
const DefaultTTL = 5 * time.Minute

type entry struct {
	payload   []byte
	createdAt time.Time
	ttl       time.Duration
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.createdAt.Add(e.ttl))
}

// Stats is a point-in-time view of the store.
type Stats struct {
	Size      int      `json:"size"`
	Keys      []string `json:"keys"`
	Hits      int64    `json:"hits"`
	Misses    int64    `json:"misses"`
	Evictions int64    `json:"evictions"`
}

type Store struct {
	mu      sync.RWMutex
	entries map[string]entry

	now        func() time.Time
	defaultTTL time.Duration
	metrics    *metrics

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Store) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithMetrics registers hit, miss, eviction and size collectors on reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Store) { s.metrics = newMetrics(reg, s) }
}

func New(opts ...Option) *Store {
	s := &Store{
		entries:    make(map[string]entry),
		now:        time.Now,
		defaultTTL: DefaultTTL,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set serializes value and stores it under key for ttl.
func (s *Store) Set(key string, value any, ttl time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.store(key, payload, ttl)
	return nil
}

func (s *Store) store(key string, payload []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	s.entries[key] = entry{payload: payload, createdAt: s.now(), ttl: ttl}
	s.mu.Unlock()
}

// Get returns a copy of the raw payload stored under key.
// An expired entry is removed and reported as a miss.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if ok && e.expired(s.now()) {
		s.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have replaced it.
		if cur, still := s.entries[key]; still && cur.expired(s.now()) {
			delete(s.entries, key)
			s.recordEvictions("expired", 1)
		}
		s.mu.Unlock()
		ok = false
	}

	if !ok {
		s.misses.Add(1)
		s.metrics.miss()
		return nil, false
	}

	s.hits.Add(1)
	s.metrics.hit()

	out := make([]byte, len(e.payload))
	copy(out, e.payload)
	return out, true
}

// GetInto decodes the entry under key into dst. A payload that no longer
// decodes is dropped and reported as a miss together with the decode error.
func (s *Store) GetInto(key string, dst any) (bool, error) {
	payload, ok := s.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(payload, dst); err != nil {
		s.Delete(key)
		return false, err
	}
	return true, nil
}

// Has reports whether key holds a live entry. It does not count as a hit or miss.
func (s *Store) Has(key string) bool {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	return ok && !e.expired(s.now())
}

// Delete removes key and reports whether it was present.
func (s *Store) Delete(key string) bool {
	s.mu.Lock()
	_, ok := s.entries[key]
	delete(s.entries, key)
	s.mu.Unlock()
	return ok
}

// Clear drops every entry and returns how many were removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = make(map[string]entry)
	s.mu.Unlock()

	s.recordEvictions("cleared", n)
	slog.Debug("Cache cleared", "removed", n)
	return n
}

// Sweep removes every expired entry and returns how many were removed.
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	removed := 0
	for key, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	remaining := len(s.entries)
	s.mu.Unlock()

	s.recordEvictions("expired", removed)
	slog.Debug("Cache sweep completed", "removed", removed, "remaining", remaining)
	return removed
}

// InvalidatePattern deletes every key matching glob and returns the count removed.
// '*' matches any run of characters and '?' exactly one.
func (s *Store) InvalidatePattern(glob string) int {
	re := compileGlob(glob)

	s.mu.Lock()
	removed := 0
	for key := range s.entries {
		if re.MatchString(key) {
			delete(s.entries, key)
			removed++
		}
	}
	s.mu.Unlock()

	s.recordEvictions("invalidated", removed)
	slog.Debug("Cache pattern invalidated", "pattern", glob, "removed", removed)
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Stats lists live keys in sorted order.
func (s *Store) Stats() Stats {
	now := s.now()

	s.mu.RLock()
	keys := make([]string, 0, len(s.entries))
	for key, e := range s.entries {
		if !e.expired(now) {
			keys = append(keys, key)
		}
	}
	s.mu.RUnlock()

	sort.Strings(keys)
	return Stats{
		Size:      len(keys),
		Keys:      keys,
		Hits:      s.hits.Load(),
		Misses:    s.misses.Load(),
		Evictions: s.evictions.Load(),
	}
}

func (s *Store) recordEvictions(reason string, n int) {
	if n == 0 {
		return
	}
	s.evictions.Add(int64(n))
	s.metrics.evicted(reason, n)
}

// GetOrSet returns the cached value under key, or runs compute, caches its
// result for ttl and returns it. A compute error is returned unchanged and
// nothing is stored, so the next call computes again. Concurrent misses may
// each run compute; the last writer wins.
func GetOrSet[T any](ctx context.Context, s *Store, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	var cached T
	ok, err := s.GetInto(key, &cached)
	if err != nil {
		slog.Warn("Cache entry could not be decoded, recomputing", "key", key, "error", err)
	}
	if ok {
		return cached, nil
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := s.Set(key, value, ttl); err != nil {
		slog.Warn("Cache entry could not be encoded, skipping", "key", key, "error", err)
	}
	return value, nil
}

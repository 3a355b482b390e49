// Package cache provides TTL-based caching of API responses with
// interchangeable memory, file, and sqlite backends. Entries are keyed by a
// fingerprint of the full request URL so different query parameters never
// collide.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Backend is the storage interface shared by all cache implementations.
// Get returns only entries that have not expired.
type Backend interface {
	Get(key string) ([]byte, bool, error)
	Set(key string, data []byte, expiresAt time.Time) error
	Delete(key string) error
	Clear() error
	DeleteExpired() (int64, error)
	Close() error
}

// Stats reports cache effectiveness for the current process.
type Stats struct {
	Backend string `json:"backend"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Stores  int64  `json:"stores"`
}

// Manager maps URLs to cache keys, derives per-endpoint TTLs, and degrades
// to a no-op when the backend fails. A broken cache must never break a fetch.
type Manager struct {
	backend     Backend
	backendName string
	ttl         *TTLRules
	log         zerolog.Logger

	mu     sync.Mutex
	hits   int64
	misses int64
	stores int64
}

// NewManager creates a cache manager around a backend.
func NewManager(backend Backend, backendName string, ttl *TTLRules, log zerolog.Logger) *Manager {
	return &Manager{
		backend:     backend,
		backendName: backendName,
		ttl:         ttl,
		log:         log.With().Str("component", "cache").Logger(),
	}
}

// Key derives the cache key for a URL.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached payload for a URL, or nil on a miss.
// Backend errors are logged and treated as misses.
func (m *Manager) Get(url string) []byte {
	data, ok, err := m.backend.Get(Key(url))
	if err != nil {
		m.log.Warn().Err(err).Str("url", url).Msg("Cache read failed, treating as miss")
		m.recordMiss()
		return nil
	}
	if !ok {
		m.recordMiss()
		return nil
	}
	m.recordHit()
	m.log.Debug().Str("url", url).Msg("Cache hit")
	return data
}

// Set stores a payload for a URL with the endpoint-appropriate TTL.
// Nil payloads are never cached. Backend errors are logged and swallowed.
func (m *Manager) Set(url string, data []byte) {
	if data == nil {
		return
	}
	ttl := m.ttl.For(url)
	if err := m.backend.Set(Key(url), data, time.Now().Add(ttl)); err != nil {
		m.log.Warn().Err(err).Str("url", url).Msg("Cache write failed")
		return
	}
	m.mu.Lock()
	m.stores++
	m.mu.Unlock()
	m.log.Debug().Str("url", url).Dur("ttl", ttl).Msg("Cached response")
}

// Clear drops all cached entries.
func (m *Manager) Clear() error {
	return m.backend.Clear()
}

// DeleteExpired removes expired entries, returning the number deleted.
func (m *Manager) DeleteExpired() (int64, error) {
	return m.backend.DeleteExpired()
}

// Close releases backend resources.
func (m *Manager) Close() error {
	return m.backend.Close()
}

// Stats returns hit/miss counters for the current process.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Stats{
		Backend: m.backendName,
		Hits:    m.hits,
		Misses:  m.misses,
		Stores:  m.stores,
	}
}

func (m *Manager) recordHit() {
	m.mu.Lock()
	m.hits++
	m.mu.Unlock()
}

func (m *Manager) recordMiss() {
	m.mu.Lock()
	m.misses++
	m.mu.Unlock()
}

package cache

import (
	"sync"
	"time"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryBackend keeps entries in a process-local map.
// Fast, but evaporates on restart.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

// NewMemoryBackend creates an empty in-memory cache backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]memoryEntry)}
}

// Get returns the payload for key if present and unexpired.
func (b *MemoryBackend) Get(key string) ([]byte, bool, error) {
	b.mu.RLock()
	entry, ok := b.entries[key]
	b.mu.RUnlock()

	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false, nil
	}
	return entry.data, true, nil
}

// Set stores the payload under key until expiresAt.
func (b *MemoryBackend) Set(key string, data []byte, expiresAt time.Time) error {
	b.mu.Lock()
	b.entries[key] = memoryEntry{data: data, expiresAt: expiresAt}
	b.mu.Unlock()
	return nil
}

// Delete removes a single entry.
func (b *MemoryBackend) Delete(key string) error {
	b.mu.Lock()
	delete(b.entries, key)
	b.mu.Unlock()
	return nil
}

// Clear removes all entries.
func (b *MemoryBackend) Clear() error {
	b.mu.Lock()
	b.entries = make(map[string]memoryEntry)
	b.mu.Unlock()
	return nil
}

// DeleteExpired removes all expired entries.
func (b *MemoryBackend) DeleteExpired() (int64, error) {
	now := time.Now()
	var deleted int64

	b.mu.Lock()
	for key, entry := range b.entries {
		if now.After(entry.expiresAt) {
			delete(b.entries, key)
			deleted++
		}
	}
	b.mu.Unlock()

	return deleted, nil
}

// Close is a no-op for the memory backend.
func (b *MemoryBackend) Close() error {
	return nil
}

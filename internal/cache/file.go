package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// fileEnvelope is the on-disk entry format.
type fileEnvelope struct {
	Data      []byte `msgpack:"data"`
	ExpiresAt int64  `msgpack:"expires_at"` // unix seconds
	CreatedAt int64  `msgpack:"created_at"`
}

// FileBackend stores one msgpack-encoded file per entry under a cache
// directory. The key (a hex fingerprint) is the filename, so keys are
// always filesystem-safe.
type FileBackend struct {
	dir string
}

// NewFileBackend creates the cache directory if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileBackend{dir: dir}, nil
}

func (b *FileBackend) path(key string) string {
	return filepath.Join(b.dir, key+".msgpack")
}

// Get reads and decodes the entry for key, dropping it when expired.
func (b *FileBackend) Get(key string) ([]byte, bool, error) {
	raw, err := os.ReadFile(b.path(key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache file: %w", err)
	}

	var env fileEnvelope
	if err := msgpack.Unmarshal(raw, &env); err != nil {
		// Corrupt entry, remove and treat as miss
		_ = os.Remove(b.path(key))
		return nil, false, nil
	}

	if time.Now().Unix() >= env.ExpiresAt {
		_ = os.Remove(b.path(key))
		return nil, false, nil
	}

	return env.Data, true, nil
}

// Set encodes and writes the entry for key.
func (b *FileBackend) Set(key string, data []byte, expiresAt time.Time) error {
	env := fileEnvelope{
		Data:      data,
		ExpiresAt: expiresAt.Unix(),
		CreatedAt: time.Now().Unix(),
	}

	raw, err := msgpack.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	if err := os.WriteFile(b.path(key), raw, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// Delete removes the entry for key.
func (b *FileBackend) Delete(key string) error {
	err := os.Remove(b.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Clear removes all cache files in the directory.
func (b *FileBackend) Clear() error {
	matches, err := filepath.Glob(filepath.Join(b.dir, "*.msgpack"))
	if err != nil {
		return err
	}
	for _, path := range matches {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// DeleteExpired removes all expired cache files.
func (b *FileBackend) DeleteExpired() (int64, error) {
	matches, err := filepath.Glob(filepath.Join(b.dir, "*.msgpack"))
	if err != nil {
		return 0, err
	}

	now := time.Now().Unix()
	var deleted int64

	for _, path := range matches {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var env fileEnvelope
		if err := msgpack.Unmarshal(raw, &env); err != nil || now >= env.ExpiresAt {
			if os.Remove(path) == nil {
				deleted++
			}
		}
	}

	return deleted, nil
}

// Close is a no-op for the file backend.
func (b *FileBackend) Close() error {
	return nil
}

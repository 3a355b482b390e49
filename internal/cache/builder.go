package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// Build constructs a cache manager for the named backend.
// Supported backends: memory, file, sqlite. The dir parameter locates the
// file store or the sqlite database; it is ignored by the memory backend.
func Build(backendName, dir string, defaultTTL time.Duration, log zerolog.Logger) (*Manager, error) {
	var (
		backend Backend
		err     error
	)

	switch backendName {
	case "memory":
		backend = NewMemoryBackend()
	case "file":
		backend, err = NewFileBackend(dir)
	case "sqlite":
		if err = os.MkdirAll(dir, 0755); err == nil {
			backend, err = OpenSQLite(filepath.Join(dir, "cache.db"))
		}
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", backendName)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s cache backend: %w", backendName, err)
	}

	log.Info().Str("backend", backendName).Msg("Cache initialized")
	return NewManager(backend, backendName, NewTTLRules(defaultTTL), log), nil
}

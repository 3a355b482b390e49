package screener

import (
	"sync"

	"github.com/aristath/screener/internal/domain"
)

// RunRecord pairs the results of a completed run with its statistics.
type RunRecord struct {
	Results []domain.StockAnalysisResult `json:"results"`
	Stats   RunStats                     `json:"stats"`
}

// ResultStore keeps the most recent completed run in memory so the HTTP API
// can serve it without re-screening.
type ResultStore struct {
	mu     sync.RWMutex
	latest *RunRecord
}

// NewResultStore creates an empty result store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Set records a completed run as the latest.
func (s *ResultStore) Set(results []domain.StockAnalysisResult, stats RunStats) {
	s.mu.Lock()
	s.latest = &RunRecord{Results: results, Stats: stats}
	s.mu.Unlock()
}

// Latest returns the most recent run, or false when none has completed yet.
func (s *ResultStore) Latest() (*RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return nil, false
	}
	return s.latest, true
}

package screener

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/screener/internal/clients/fmp"
	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
	"github.com/aristath/screener/internal/normalize"
	"github.com/aristath/screener/internal/pit"
	"github.com/aristath/screener/internal/scoring"
)

// DataProvider supplies market data to the pipeline.
type DataProvider interface {
	GetNASDAQSymbols(ctx context.Context) ([]fmp.SymbolListing, error)
	GetCompanyProfiles(ctx context.Context, symbols []string) ([]domain.Profile, error)
	GetComprehensive(ctx context.Context, symbol string) (*fmp.Bundle, error)
}

// RunStats summarizes one screening run.
type RunStats struct {
	RunID        string            `json:"run_id"`
	StartedAt    time.Time         `json:"started_at"`
	DurationSec  float64           `json:"duration_sec"`
	AsOf         *time.Time        `json:"as_of,omitempty"`
	UniverseSize int               `json:"universe_size"`
	Candidates   int               `json:"candidates"`
	Analyzed     int               `json:"analyzed"`
	Skipped      int               `json:"skipped"`
	Failed       map[string]string `json:"failed,omitempty"`
}

// Screener runs the screening pipeline against a data provider.
type Screener struct {
	provider DataProvider
	scorer   *scoring.QualityScorer
	cfg      *config.Config
	log      zerolog.Logger
}

// New creates a screener.
func New(provider DataProvider, cfg *config.Config, log zerolog.Logger) *Screener {
	return &Screener{
		provider: provider,
		scorer:   scoring.NewQualityScorer(cfg, log),
		cfg:      cfg,
		log:      log.With().Str("component", "screener").Logger(),
	}
}

// Run screens the current market.
func (s *Screener) Run(ctx context.Context) ([]domain.StockAnalysisResult, RunStats, error) {
	return s.run(ctx, nil)
}

// RunAsOf screens the market as it was known at a historical date. All
// statement data is point-in-time filtered to the cutoff.
func (s *Screener) RunAsOf(ctx context.Context, asOf time.Time) ([]domain.StockAnalysisResult, RunStats, error) {
	return s.run(ctx, &asOf)
}

func (s *Screener) run(ctx context.Context, asOf *time.Time) ([]domain.StockAnalysisResult, RunStats, error) {
	stats := RunStats{
		RunID:     uuid.New().String(),
		StartedAt: time.Now(),
		AsOf:      asOf,
		Failed:    make(map[string]string),
	}
	log := s.log.With().Str("run_id", stats.RunID).Logger()

	listings, err := s.provider.GetNASDAQSymbols(ctx)
	if err != nil {
		return nil, stats, err
	}
	symbols := make([]string, 0, len(listings))
	for _, l := range listings {
		if l.Symbol != "" {
			symbols = append(symbols, l.Symbol)
		}
	}

	profiles, err := s.provider.GetCompanyProfiles(ctx, symbols)
	if err != nil {
		return nil, stats, err
	}
	stats.UniverseSize = len(profiles)

	candidates := FilterUniverse(profiles, s.cfg.InitialFilters)
	stats.Candidates = len(candidates)
	log.Info().
		Int("universe", stats.UniverseSize).
		Int("candidates", stats.Candidates).
		Msg("Universe filtered, starting analysis")

	var pitFilter *pit.Filter
	if asOf != nil {
		pitFilter = pit.New(*asOf, log)
	}

	// Each scored candidate keeps its universe position so that ties rank in
	// universe order no matter which goroutine finished first.
	type rankedResult struct {
		order  int
		result domain.StockAnalysisResult
	}

	var mu sync.Mutex
	var ranked []rankedResult

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency.MaxWorkers)

	for i, profile := range candidates {
		i, profile := i, profile
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			bundle, err := s.provider.GetComprehensive(gctx, profile.Symbol)
			if err != nil {
				mu.Lock()
				stats.Failed[profile.Symbol] = err.Error()
				mu.Unlock()
				log.Warn().Err(err).Str("symbol", profile.Symbol).Msg("Data collection failed")
				return nil
			}

			if pitFilter != nil {
				bundle = pitFilter.Apply(bundle)
			}

			metrics := normalize.FinancialMetrics(bundle)
			if metrics == nil {
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				log.Debug().Str("symbol", profile.Symbol).Msg("Insufficient statement data, skipping")
				return nil
			}

			if !passesROEGate(metrics.ROE, s.cfg.InitialFilters.ROE) {
				mu.Lock()
				stats.Skipped++
				mu.Unlock()
				return nil
			}

			result := s.scorer.Score(
				profile,
				metrics,
				normalize.InsiderTrading(bundle),
				normalize.Earnings(bundle),
				normalize.Sentiment(bundle),
			)

			mu.Lock()
			ranked = append(ranked, rankedResult{order: i, result: result})
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, err
	}
	stats.Analyzed = len(ranked)

	sort.Slice(ranked, func(a, b int) bool {
		if ranked[a].result.QualityScore != ranked[b].result.QualityScore {
			return ranked[a].result.QualityScore > ranked[b].result.QualityScore
		}
		return ranked[a].order < ranked[b].order
	})

	results := make([]domain.StockAnalysisResult, len(ranked))
	for i, r := range ranked {
		results[i] = r.result
	}

	selected := selectTop(results, s.cfg.Output.MinQualityScore, s.cfg.Output.MaxStocks)
	normalizeScores(selected)
	scoring.AddSectorPercentiles(selected)

	stats.DurationSec = time.Since(stats.StartedAt).Seconds()
	log.Info().
		Int("analyzed", stats.Analyzed).
		Int("selected", len(selected)).
		Int("skipped", stats.Skipped).
		Int("failed", len(stats.Failed)).
		Float64("duration_sec", stats.DurationSec).
		Msg("Screening run complete")

	return selected, stats, nil
}

// selectTop keeps results at or above the quality threshold, capped at max.
// The input must already be sorted by descending quality score.
func selectTop(results []domain.StockAnalysisResult, minScore float64, max int) []domain.StockAnalysisResult {
	selected := make([]domain.StockAnalysisResult, 0, max)
	for _, r := range results {
		if r.QualityScore < minScore {
			break
		}
		selected = append(selected, r)
		if len(selected) == max {
			break
		}
	}
	return selected
}

// normalizeScores rescales the selected batch onto [0, 1]. When every score
// is identical there is no spread to express, and all normalize to 1.
func normalizeScores(results []domain.StockAnalysisResult) {
	if len(results) == 0 {
		return
	}

	min, max := results[0].QualityScore, results[0].QualityScore
	for _, r := range results[1:] {
		if r.QualityScore < min {
			min = r.QualityScore
		}
		if r.QualityScore > max {
			max = r.QualityScore
		}
	}

	span := max - min
	for i := range results {
		if span > 0 {
			results[i].NormalizedQualityScore = (results[i].QualityScore - min) / span
		} else {
			results[i].NormalizedQualityScore = 1.0
		}
	}
}

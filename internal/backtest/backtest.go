// Package backtest replays the screening pipeline at historical dates and
// forms a paper portfolio from the top-ranked stocks.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/screener/internal/screener"
)

// defaultTopN is how many of the highest-ranked stocks enter the portfolio.
const defaultTopN = 20

// Holding is one equal-weighted portfolio position.
type Holding struct {
	Symbol                 string  `json:"symbol"`
	CompanyName            string  `json:"company_name"`
	Sector                 string  `json:"sector"`
	QualityScore           float64 `json:"quality_score"`
	NormalizedQualityScore float64 `json:"normalized_quality_score"`
	Weight                 float64 `json:"weight"`
}

// Portfolio is the outcome of one historical screening replay.
type Portfolio struct {
	AsOf     time.Time         `json:"as_of"`
	Holdings []Holding         `json:"holdings"`
	Stats    screener.RunStats `json:"stats"`
}

// Backtester replays screens at past dates.
type Backtester struct {
	screener *screener.Screener
	topN     int
	log      zerolog.Logger

	// now is replaceable for tests
	now func() time.Time
}

// New creates a backtester over a screener.
func New(s *screener.Screener, log zerolog.Logger) *Backtester {
	return &Backtester{
		screener: s,
		topN:     defaultTopN,
		log:      log.With().Str("component", "backtest").Logger(),
		now:      time.Now,
	}
}

// Run screens the market as of the given date and builds an equal-weighted
// portfolio from the top-ranked results.
func (b *Backtester) Run(ctx context.Context, asOf time.Time) (*Portfolio, error) {
	b.log.Info().Time("as_of", asOf).Msg("Starting backtest run")

	results, stats, err := b.screener.RunAsOf(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("backtest screen failed: %w", err)
	}

	n := b.topN
	if n > len(results) {
		n = len(results)
	}

	portfolio := &Portfolio{
		AsOf:     asOf,
		Holdings: make([]Holding, 0, n),
		Stats:    stats,
	}
	for _, r := range results[:n] {
		portfolio.Holdings = append(portfolio.Holdings, Holding{
			Symbol:                 r.Symbol,
			CompanyName:            r.CompanyName,
			Sector:                 r.Sector,
			QualityScore:           r.QualityScore,
			NormalizedQualityScore: r.NormalizedQualityScore,
			Weight:                 1 / float64(n),
		})
	}

	b.log.Info().
		Time("as_of", asOf).
		Int("holdings", len(portfolio.Holdings)).
		Msg("Backtest run complete")

	return portfolio, nil
}

// RunLookback runs a backtest at now minus a named lookback period.
func (b *Backtester) RunLookback(ctx context.Context, lookback string) (*Portfolio, error) {
	asOf, err := b.resolveLookback(lookback)
	if err != nil {
		return nil, err
	}
	return b.Run(ctx, asOf)
}

// resolveLookback maps a lookback name to a concrete cutoff date.
func (b *Backtester) resolveLookback(lookback string) (time.Time, error) {
	now := b.now()
	switch lookback {
	case "3m":
		return now.AddDate(0, -3, 0), nil
	case "6m":
		return now.AddDate(0, -6, 0), nil
	case "1y":
		return now.AddDate(-1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unknown lookback %q (want 3m, 6m, or 1y)", lookback)
	}
}

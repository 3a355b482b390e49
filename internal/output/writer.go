// Package output persists screening results to disk as JSON or CSV.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/screener/internal/config"
	"github.com/aristath/screener/internal/domain"
	"github.com/aristath/screener/internal/screener"
)

// Writer writes run results into a directory, one timestamped file per run.
type Writer struct {
	dir    string
	format string
	prefix string
	log    zerolog.Logger

	// now is replaceable for tests
	now func() time.Time
}

// NewWriter creates a result writer for the configured format.
func NewWriter(dir string, cfg config.Output, log zerolog.Logger) *Writer {
	return &Writer{
		dir:    dir,
		format: cfg.Format,
		prefix: cfg.FilenamePrefix,
		log:    log.With().Str("component", "output").Logger(),
		now:    time.Now,
	}
}

// Write persists one run and returns the path written.
func (w *Writer) Write(results []domain.StockAnalysisResult, stats screener.RunStats) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := w.now().Format("20060102_150405")
	path := filepath.Join(w.dir, fmt.Sprintf("%s_%s.%s", w.prefix, stamp, w.format))

	var err error
	switch w.format {
	case "csv":
		err = w.writeCSV(path, results)
	case "json":
		err = w.writeJSON(path, results, stats)
	default:
		return "", fmt.Errorf("unknown output format: %s", w.format)
	}
	if err != nil {
		return "", err
	}

	w.log.Info().Str("path", path).Int("results", len(results)).Msg("Results written")
	return path, nil
}

func (w *Writer) writeJSON(path string, results []domain.StockAnalysisResult, stats screener.RunStats) error {
	record := screener.RunRecord{Results: results, Stats: stats}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}
	return nil
}

// writeCSV writes a flat summary, one row per stock. The full analysis
// breakdown only fits the JSON format.
func (w *Writer) writeCSV(path string, results []domain.StockAnalysisResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create results file: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	header := []string{
		"symbol", "company_name", "sector", "market_cap",
		"quality_score", "normalized_quality_score",
		"growth_score", "risk_score", "valuation_score", "sentiment_score",
		"revenue_cagr", "eps_cagr", "fcf_cagr", "latest_roe", "per", "pbr",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range results {
		row := []string{
			r.Symbol, r.CompanyName, r.Sector,
			strconv.FormatFloat(r.MarketCap, 'f', 0, 64),
			formatScore(r.QualityScore),
			formatScore(r.NormalizedQualityScore),
			formatScore(r.ComponentScores.GrowthScore),
			formatScore(r.ComponentScores.RiskScore),
			formatScore(r.ComponentScores.ValuationScore),
			formatScore(r.ComponentScores.SentimentScore),
			formatScore(r.Metrics.RevenueCAGR),
			formatScore(r.Metrics.EPSCAGR),
			formatScore(r.Metrics.FCFCAGR),
			formatScore(r.Metrics.LatestROE),
			formatScore(r.Metrics.PER),
			formatScore(r.Metrics.PBR),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

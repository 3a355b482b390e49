// Package config provides configuration management for the screener.
// Settings come from a JSON file plus environment variables; the API
// credential is environment-only and never written back to disk.
package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ROECriteria gates stocks on return-on-equity history.
type ROECriteria struct {
	MinAvg      float64 `json:"min_avg"`
	MinEachYear float64 `json:"min_each_year"`
	Years       int     `json:"years"`
}

// InitialFilters is the static universe filter applied before analysis.
type InitialFilters struct {
	MarketCapMin           float64     `json:"market_cap_min"`
	MarketCapMax           float64     `json:"market_cap_max"`
	ExcludeFinancialSector bool        `json:"exclude_financial_sector"`
	ROE                    ROECriteria `json:"roe"`
}

// GrowthQuality configures the growth analyzer.
type GrowthQuality struct {
	TargetRates map[string]float64 `json:"target_rates"`
	Weights     map[string]float64 `json:"weights"`
}

// RiskQuality configures the risk analyzer.
type RiskQuality struct {
	Weights map[string]float64 `json:"weights"`
}

// Valuation configures the valuation analyzer.
type Valuation struct {
	Weights map[string]float64 `json:"weights"`
}

// Sentiment configures the sentiment analyzer.
type Sentiment struct {
	Weights map[string]float64 `json:"weights"`
}

// ScoringWeights blends the four component scores into the quality score.
type ScoringWeights struct {
	GrowthQuality float64 `json:"growth_quality"`
	RiskQuality   float64 `json:"risk_quality"`
	Valuation     float64 `json:"valuation"`
	Sentiment     float64 `json:"sentiment"`
}

// CoherenceBonus configures the cross-component alignment multiplier.
type CoherenceBonus struct {
	MaxMultiplier float64 `json:"max_multiplier"`
}

// Scoring holds the final aggregation settings.
type Scoring struct {
	Weights        ScoringWeights `json:"weights"`
	CoherenceBonus CoherenceBonus `json:"coherence_bonus"`
}

// SectorBenchmark holds per-sector reference rates used by the analyzers.
type SectorBenchmark struct {
	RevenueGrowth   float64 `json:"revenue_growth"`
	EPSGrowth       float64 `json:"eps_growth"`
	FCFGrowth       float64 `json:"fcf_growth"`
	ROE             float64 `json:"roe"`
	OperatingMargin float64 `json:"operating_margin"`
	PERMax          float64 `json:"per_max"`
	PBRMax          float64 `json:"pbr_max"`
	DebtToEquityMax float64 `json:"debt_to_equity_max"`
}

// Concurrency bounds the fan-out of API work.
type Concurrency struct {
	MaxWorkers int `json:"max_workers"`
}

// Output controls result selection and file naming.
type Output struct {
	MinQualityScore float64 `json:"min_quality_score"`
	MaxStocks       int     `json:"max_stocks"`
	Format          string  `json:"format"`
	FilenamePrefix  string  `json:"filename_prefix"`
}

// Cache selects the cache backend and its location.
type Cache struct {
	Backend    string `json:"backend"` // memory, file, sqlite
	Dir        string `json:"dir"`
	DefaultTTL int    `json:"default_ttl"` // seconds
}

// API holds data provider endpoints and HTTP behavior.
type API struct {
	BaseURL    string `json:"base_url"`
	BaseURLV4  string `json:"base_url_v4"`
	TimeoutSec int    `json:"timeout_sec"`
	MaxRetries int    `json:"max_retries"`
}

// Server holds HTTP API settings.
type Server struct {
	Port int `json:"port"`
}

// Config is the full application configuration tree.
type Config struct {
	InitialFilters   InitialFilters             `json:"initial_filters"`
	GrowthQuality    GrowthQuality              `json:"growth_quality"`
	RiskQuality      RiskQuality                `json:"risk_quality"`
	Valuation        Valuation                  `json:"valuation"`
	Sentiment        Sentiment                  `json:"sentiment"`
	Scoring          Scoring                    `json:"scoring"`
	SectorBenchmarks map[string]SectorBenchmark `json:"sector_benchmarks"`
	Concurrency      Concurrency                `json:"concurrency"`
	Output           Output                     `json:"output"`
	Cache            Cache                      `json:"cache"`
	API              API                        `json:"api"`
	Server           Server                     `json:"server"`
	LogLevel         string                     `json:"log_level"`

	// APIKey comes from the FMP_API_KEY environment variable only.
	// The json tag keeps it out of serialized config.
	APIKey string `json:"-"`
}

// Default returns the configuration with all built-in defaults applied.
func Default() *Config {
	return &Config{
		InitialFilters: InitialFilters{
			MarketCapMin:           500_000_000,
			MarketCapMax:           math.Inf(1),
			ExcludeFinancialSector: false,
			ROE: ROECriteria{
				MinAvg:      0.15,
				MinEachYear: 0.10,
				Years:       3,
			},
		},
		GrowthQuality: GrowthQuality{
			TargetRates: map[string]float64{
				"revenue": 0.20,
				"eps":     0.15,
				"fcf":     0.15,
			},
			Weights: map[string]float64{
				"magnitude":      0.35,
				"consistency":    0.35,
				"sustainability": 0.30,
			},
		},
		RiskQuality: RiskQuality{
			Weights: map[string]float64{
				"debt_metrics":      0.30,
				"working_capital":   0.25,
				"margin_stability":  0.25,
				"cash_flow_quality": 0.20,
			},
		},
		Valuation: Valuation{
			Weights: map[string]float64{
				"per":             0.30,
				"pbr":             0.20,
				"fcf_yield":       0.30,
				"growth_adjusted": 0.20,
			},
		},
		Sentiment: Sentiment{
			Weights: map[string]float64{
				"insider_trading":  0.40,
				"earnings":         0.35,
				"social_sentiment": 0.25,
			},
		},
		Scoring: Scoring{
			Weights: ScoringWeights{
				GrowthQuality: 0.40,
				RiskQuality:   0.25,
				Valuation:     0.20,
				Sentiment:     0.15,
			},
			CoherenceBonus: CoherenceBonus{
				MaxMultiplier: 1.15,
			},
		},
		SectorBenchmarks: DefaultSectorBenchmarks(),
		Concurrency: Concurrency{
			MaxWorkers: 5,
		},
		Output: Output{
			MinQualityScore: 0.70,
			MaxStocks:       50,
			Format:          "json",
			FilenamePrefix:  "screening",
		},
		Cache: Cache{
			Backend:    "file",
			Dir:        ".cache",
			DefaultTTL: 3600,
		},
		API: API{
			BaseURL:    "https://financialmodelingprep.com/api/v3",
			BaseURLV4:  "https://financialmodelingprep.com/api/v4",
			TimeoutSec: 15,
			MaxRetries: 3,
		},
		Server: Server{
			Port: 8080,
		},
		LogLevel: "info",
	}
}

// Load reads configuration from an optional JSON file layered over the
// defaults, then applies environment variables. Unknown JSON keys are
// ignored; missing keys keep their defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.APIKey = os.Getenv("FMP_API_KEY")
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if port := getEnvAsInt("PORT", 0); port != 0 {
		cfg.Server.Port = port
	}

	cfg.NormalizeWeights()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration can drive a screening run.
func (c *Config) Validate() error {
	if c.InitialFilters.MarketCapMin < 0 {
		return fmt.Errorf("initial_filters.market_cap_min must be non-negative")
	}
	if c.InitialFilters.MarketCapMax < c.InitialFilters.MarketCapMin {
		return fmt.Errorf("initial_filters.market_cap_max must be >= market_cap_min")
	}
	if c.InitialFilters.ROE.Years <= 0 {
		return fmt.Errorf("initial_filters.roe.years must be positive")
	}
	if c.Concurrency.MaxWorkers <= 0 {
		return fmt.Errorf("concurrency.max_workers must be positive")
	}
	switch c.Cache.Backend {
	case "memory", "file", "sqlite":
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Cache.Backend)
	}
	if c.Scoring.CoherenceBonus.MaxMultiplier < 0.9 {
		return fmt.Errorf("scoring.coherence_bonus.max_multiplier must be >= 0.9")
	}
	if _, ok := c.SectorBenchmarks["Default"]; !ok {
		return fmt.Errorf("sector_benchmarks must include a Default entry")
	}
	return nil
}

// RequireAPIKey returns an error when no credential is available.
// Kept separate from Validate so cached offline runs still work.
func (c *Config) RequireAPIKey() error {
	if c.APIKey == "" {
		return fmt.Errorf("FMP_API_KEY not set in environment")
	}
	return nil
}

// NormalizeWeights rescales the scoring weights to sum to 1.
func (c *Config) NormalizeWeights() {
	w := &c.Scoring.Weights
	total := w.GrowthQuality + w.RiskQuality + w.Valuation + w.Sentiment
	if total <= 0 || total == 1 {
		return
	}
	w.GrowthQuality /= total
	w.RiskQuality /= total
	w.Valuation /= total
	w.Sentiment /= total
}

// SectorBenchmark returns the benchmark for a sector, falling back to Default.
func (c *Config) SectorBenchmark(sector string) SectorBenchmark {
	if b, ok := c.SectorBenchmarks[sector]; ok {
		return b
	}
	return c.SectorBenchmarks["Default"]
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

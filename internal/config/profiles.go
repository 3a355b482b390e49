package config

import "fmt"

// profilePreset bundles the overrides a named screening profile applies.
type profilePreset struct {
	marketCapMin float64
	marketCapMax float64
	roeMinAvg    float64
	roeMinEach   float64
	targetRates  map[string]float64
	weights      ScoringWeights
}

var profilePresets = map[string]profilePreset{
	"quality": {
		marketCapMin: 1_000_000_000,
		marketCapMax: 50_000_000_000,
		roeMinAvg:    0.15,
		roeMinEach:   0.10,
		targetRates:  map[string]float64{"revenue": 0.10, "eps": 0.10, "fcf": 0.08},
		weights:      ScoringWeights{GrowthQuality: 0.4, RiskQuality: 0.3, Valuation: 0.2, Sentiment: 0.1},
	},
	"growth": {
		marketCapMin: 500_000_000,
		marketCapMax: 20_000_000_000,
		roeMinAvg:    0.10,
		roeMinEach:   0.05,
		targetRates:  map[string]float64{"revenue": 0.20, "eps": 0.15, "fcf": 0.12},
		weights:      ScoringWeights{GrowthQuality: 0.6, RiskQuality: 0.2, Valuation: 0.1, Sentiment: 0.1},
	},
	"value": {
		marketCapMin: 2_000_000_000,
		marketCapMax: 100_000_000_000,
		roeMinAvg:    0.10,
		roeMinEach:   0.08,
		targetRates:  map[string]float64{"revenue": 0.05, "eps": 0.05, "fcf": 0.05},
		weights:      ScoringWeights{GrowthQuality: 0.2, RiskQuality: 0.3, Valuation: 0.4, Sentiment: 0.1},
	},
	"balanced": {
		marketCapMin: 1_000_000_000,
		marketCapMax: 50_000_000_000,
		roeMinAvg:    0.12,
		roeMinEach:   0.08,
		targetRates:  map[string]float64{"revenue": 0.10, "eps": 0.10, "fcf": 0.08},
		weights:      ScoringWeights{GrowthQuality: 0.25, RiskQuality: 0.25, Valuation: 0.25, Sentiment: 0.25},
	},
}

// ProfileNames lists the available preset profiles.
func ProfileNames() []string {
	return []string{"quality", "growth", "value", "balanced"}
}

// ApplyProfile overlays a named preset onto the configuration.
// Presets write to the same paths the scorer reads at runtime, so the
// overridden weights take effect without any further plumbing.
func (c *Config) ApplyProfile(name string) error {
	preset, ok := profilePresets[name]
	if !ok {
		return fmt.Errorf("unknown profile: %s", name)
	}

	c.InitialFilters.MarketCapMin = preset.marketCapMin
	c.InitialFilters.MarketCapMax = preset.marketCapMax
	c.InitialFilters.ROE.MinAvg = preset.roeMinAvg
	c.InitialFilters.ROE.MinEachYear = preset.roeMinEach

	for metric, rate := range preset.targetRates {
		c.GrowthQuality.TargetRates[metric] = rate
	}

	c.Scoring.Weights = preset.weights
	c.NormalizeWeights()

	return nil
}

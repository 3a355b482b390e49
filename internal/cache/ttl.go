package cache

import (
	"strings"
	"time"
)

// TTL constants per endpoint family. These are added to time.Now() when
// storing to calculate expires_at.
const (
	// Very stable data (rarely changes)
	TTLSymbolList = 24 * time.Hour // symbol directory listings
	TTLProfile    = 24 * time.Hour // company profiles
	TTLSector     = 24 * time.Hour // sector performance data
	TTLESG        = 24 * time.Hour // ESG scores

	// Statement data (updates with filings)
	TTLFinancialStatement = time.Hour
	TTLKeyMetrics         = time.Hour
	TTLRatios             = time.Hour

	// Time-sensitive signals
	TTLEarnings = 15 * time.Minute
	TTLQuote    = 5 * time.Minute
	TTLAnalyst  = 2 * time.Hour

	// Historical prices: pinned date ranges are immutable, latest prices are not
	TTLHistoricalRange  = 24 * time.Hour
	TTLHistoricalLatest = 5 * time.Minute

	TTLDefault = time.Hour
)

// ttlRule maps a URL substring to a TTL. Rules are checked in order and the
// first match wins, so more specific substrings come first.
type ttlRule struct {
	substring string
	ttl       time.Duration
}

// TTLRules resolves a TTL for a request URL.
type TTLRules struct {
	rules      []ttlRule
	defaultTTL time.Duration
}

// NewTTLRules builds the endpoint TTL table.
func NewTTLRules(defaultTTL time.Duration) *TTLRules {
	if defaultTTL <= 0 {
		defaultTTL = TTLDefault
	}
	// The symbol directory rule matches the path segment only. Plenty of
	// other endpoints carry a symbol= query parameter and must not inherit
	// the directory's long TTL.
	return &TTLRules{
		defaultTTL: defaultTTL,
		rules: []ttlRule{
			{"/symbol/", TTLSymbolList},
			{"profile", TTLProfile},
			{"sector", TTLSector},
			{"statement", TTLFinancialStatement},
			{"key-metrics", TTLKeyMetrics},
			{"ratios", TTLRatios},
			{"earnings", TTLEarnings},
			{"quote", TTLQuote},
			{"analyst", TTLAnalyst},
			{"esg", TTLESG},
		},
	}
}

// For returns the TTL for a URL. Historical price requests carrying an
// explicit from/to range cache longer because that data never changes.
func (t *TTLRules) For(url string) time.Duration {
	if strings.Contains(url, "historical-price-full") {
		if strings.Contains(url, "from=") && strings.Contains(url, "to=") {
			return TTLHistoricalRange
		}
		return TTLHistoricalLatest
	}

	for _, rule := range t.rules {
		if strings.Contains(url, rule.substring) {
			return rule.ttl
		}
	}
	return t.defaultTTL
}

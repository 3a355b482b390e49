package config

// DefaultSectorBenchmarks returns the built-in per-sector reference rates.
// The Default entry is the fallback for sectors not listed here.
func DefaultSectorBenchmarks() map[string]SectorBenchmark {
	return map[string]SectorBenchmark{
		"Technology": {
			RevenueGrowth:   0.15,
			EPSGrowth:       0.12,
			FCFGrowth:       0.10,
			ROE:             0.15,
			OperatingMargin: 0.15,
			PERMax:          30,
			PBRMax:          5.0,
			DebtToEquityMax: 1.5,
		},
		"Consumer Cyclical": {
			RevenueGrowth:   0.10,
			EPSGrowth:       0.10,
			FCFGrowth:       0.08,
			ROE:             0.12,
			OperatingMargin: 0.10,
			PERMax:          25,
			PBRMax:          4.0,
			DebtToEquityMax: 2.0,
		},
		"Healthcare": {
			RevenueGrowth:   0.08,
			EPSGrowth:       0.10,
			FCFGrowth:       0.08,
			ROE:             0.13,
			OperatingMargin: 0.12,
			PERMax:          28,
			PBRMax:          4.5,
			DebtToEquityMax: 1.2,
		},
		"Financial Services": {
			RevenueGrowth:   0.06,
			EPSGrowth:       0.08,
			FCFGrowth:       0.06,
			ROE:             0.10,
			OperatingMargin: 0.25,
			PERMax:          20,
			PBRMax:          2.0,
			DebtToEquityMax: 5.0,
		},
		"Communication Services": {
			RevenueGrowth:   0.08,
			EPSGrowth:       0.10,
			FCFGrowth:       0.08,
			ROE:             0.12,
			OperatingMargin: 0.15,
			PERMax:          25,
			PBRMax:          3.5,
			DebtToEquityMax: 2.0,
		},
		"Industrials": {
			RevenueGrowth:   0.07,
			EPSGrowth:       0.08,
			FCFGrowth:       0.07,
			ROE:             0.11,
			OperatingMargin: 0.12,
			PERMax:          22,
			PBRMax:          3.0,
			DebtToEquityMax: 2.0,
		},
		"Basic Materials": {
			RevenueGrowth:   0.06,
			EPSGrowth:       0.07,
			FCFGrowth:       0.06,
			ROE:             0.10,
			OperatingMargin: 0.10,
			PERMax:          18,
			PBRMax:          2.5,
			DebtToEquityMax: 1.8,
		},
		"Energy": {
			RevenueGrowth:   0.05,
			EPSGrowth:       0.06,
			FCFGrowth:       0.05,
			ROE:             0.09,
			OperatingMargin: 0.08,
			PERMax:          16,
			PBRMax:          2.0,
			DebtToEquityMax: 2.5,
		},
		"Utilities": {
			RevenueGrowth:   0.04,
			EPSGrowth:       0.05,
			FCFGrowth:       0.03,
			ROE:             0.08,
			OperatingMargin: 0.15,
			PERMax:          20,
			PBRMax:          2.0,
			DebtToEquityMax: 2.0,
		},
		"Real Estate": {
			RevenueGrowth:   0.05,
			EPSGrowth:       0.06,
			FCFGrowth:       0.04,
			ROE:             0.09,
			OperatingMargin: 0.35,
			PERMax:          22,
			PBRMax:          2.5,
			DebtToEquityMax: 3.0,
		},
		"Consumer Defensive": {
			RevenueGrowth:   0.05,
			EPSGrowth:       0.06,
			FCFGrowth:       0.05,
			ROE:             0.10,
			OperatingMargin: 0.12,
			PERMax:          22,
			PBRMax:          3.5,
			DebtToEquityMax: 1.5,
		},
		"Default": {
			RevenueGrowth:   0.10,
			EPSGrowth:       0.08,
			FCFGrowth:       0.06,
			ROE:             0.10,
			OperatingMargin: 0.12,
			PERMax:          20,
			PBRMax:          3.0,
			DebtToEquityMax: 2.0,
		},
	}
}

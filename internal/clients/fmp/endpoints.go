package fmp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aristath/screener/internal/domain"
)

const profileBatchSize = 100

// GetNASDAQSymbols returns the full NASDAQ symbol directory.
func (c *Client) GetNASDAQSymbols(ctx context.Context) ([]SymbolListing, error) {
	url := fmt.Sprintf("%s/symbol/NASDAQ?apikey=%s", c.baseURL, c.apiKey)

	var listings []SymbolListing
	if err := c.fetchJSON(ctx, url, &listings); err != nil {
		return nil, fmt.Errorf("failed to fetch NASDAQ symbols: %w", err)
	}
	return listings, nil
}

// GetCompanyProfiles returns profiles for the given symbols, batching
// requests in groups of 100 (API limitation). Failed batches are logged and
// skipped so one bad batch cannot sink the whole universe.
func (c *Client) GetCompanyProfiles(ctx context.Context, symbols []string) ([]domain.Profile, error) {
	var profiles []domain.Profile

	for start := 0; start < len(symbols); start += profileBatchSize {
		end := start + profileBatchSize
		if end > len(symbols) {
			end = len(symbols)
		}
		batch := symbols[start:end]

		url := fmt.Sprintf("%s/profile/%s?apikey=%s", c.baseURL, strings.Join(batch, ","), c.apiKey)

		var batchProfiles []domain.Profile
		if err := c.fetchJSON(ctx, url, &batchProfiles); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warn().Err(err).Int("batch_start", start).Msg("Profile batch failed, skipping")
			continue
		}

		for _, p := range batchProfiles {
			if p.Symbol != "" {
				profiles = append(profiles, p)
			}
		}
	}

	return profiles, nil
}

// GetIncomeStatements returns up to 20 annual income statements.
func (c *Client) GetIncomeStatements(ctx context.Context, symbol string) ([]IncomeStatement, error) {
	url := fmt.Sprintf("%s/income-statement/%s?limit=%d&apikey=%s", c.baseURL, symbol, statementLimit, c.apiKey)

	var statements []IncomeStatement
	if err := c.fetchJSON(ctx, url, &statements); err != nil {
		return nil, fmt.Errorf("failed to fetch income statements for %s: %w", symbol, err)
	}
	return statements, nil
}

// GetCashFlowStatements returns up to 20 annual cash flow statements.
func (c *Client) GetCashFlowStatements(ctx context.Context, symbol string) ([]CashFlowStatement, error) {
	url := fmt.Sprintf("%s/cash-flow-statement/%s?limit=%d&apikey=%s", c.baseURL, symbol, statementLimit, c.apiKey)

	var statements []CashFlowStatement
	if err := c.fetchJSON(ctx, url, &statements); err != nil {
		return nil, fmt.Errorf("failed to fetch cash flow statements for %s: %w", symbol, err)
	}
	return statements, nil
}

// GetBalanceSheets returns up to 20 annual balance sheets.
func (c *Client) GetBalanceSheets(ctx context.Context, symbol string) ([]BalanceSheet, error) {
	url := fmt.Sprintf("%s/balance-sheet-statement/%s?limit=%d&apikey=%s", c.baseURL, symbol, statementLimit, c.apiKey)

	var sheets []BalanceSheet
	if err := c.fetchJSON(ctx, url, &sheets); err != nil {
		return nil, fmt.Errorf("failed to fetch balance sheets for %s: %w", symbol, err)
	}
	return sheets, nil
}

// GetRatios returns up to 20 rows of historical financial ratios.
func (c *Client) GetRatios(ctx context.Context, symbol string) ([]Ratios, error) {
	url := fmt.Sprintf("%s/ratios/%s?limit=%d&apikey=%s", c.baseURL, symbol, statementLimit, c.apiKey)

	var ratios []Ratios
	if err := c.fetchJSON(ctx, url, &ratios); err != nil {
		return nil, fmt.Errorf("failed to fetch ratios for %s: %w", symbol, err)
	}
	return ratios, nil
}

// GetRatiosTTM returns the trailing-twelve-month ratios.
func (c *Client) GetRatiosTTM(ctx context.Context, symbol string) ([]RatiosTTM, error) {
	url := fmt.Sprintf("%s/ratios-ttm/%s?apikey=%s", c.baseURL, symbol, c.apiKey)

	var ratios []RatiosTTM
	if err := c.fetchJSON(ctx, url, &ratios); err != nil {
		return nil, fmt.Errorf("failed to fetch TTM ratios for %s: %w", symbol, err)
	}
	return ratios, nil
}

// GetKeyMetrics returns up to 20 rows of historical key metrics.
func (c *Client) GetKeyMetrics(ctx context.Context, symbol string) ([]KeyMetrics, error) {
	url := fmt.Sprintf("%s/key-metrics/%s?limit=%d&apikey=%s", c.baseURL, symbol, statementLimit, c.apiKey)

	var metrics []KeyMetrics
	if err := c.fetchJSON(ctx, url, &metrics); err != nil {
		return nil, fmt.Errorf("failed to fetch key metrics for %s: %w", symbol, err)
	}
	return metrics, nil
}

// GetKeyMetricsTTM returns the trailing-twelve-month key metrics.
func (c *Client) GetKeyMetricsTTM(ctx context.Context, symbol string) ([]json.RawMessage, error) {
	url := fmt.Sprintf("%s/key-metrics-ttm/%s?apikey=%s", c.baseURL, symbol, c.apiKey)

	var metrics []json.RawMessage
	if err := c.fetchJSON(ctx, url, &metrics); err != nil {
		return nil, fmt.Errorf("failed to fetch TTM key metrics for %s: %w", symbol, err)
	}
	return metrics, nil
}

// GetFinancialGrowth returns up to 20 rows of growth statistics.
func (c *Client) GetFinancialGrowth(ctx context.Context, symbol string) ([]json.RawMessage, error) {
	url := fmt.Sprintf("%s/financial-growth/%s?limit=%d&apikey=%s", c.baseURL, symbol, statementLimit, c.apiKey)

	var growth []json.RawMessage
	if err := c.fetchJSON(ctx, url, &growth); err != nil {
		return nil, fmt.Errorf("failed to fetch financial growth for %s: %w", symbol, err)
	}
	return growth, nil
}

// GetInsiderTrading returns recent insider transactions.
func (c *Client) GetInsiderTrading(ctx context.Context, symbol string, limit int) ([]domain.InsiderTransaction, error) {
	url := fmt.Sprintf("%s/insider-trading?symbol=%s&page=0&limit=%d&apikey=%s", c.baseURLV4, symbol, limit, c.apiKey)

	var transactions []domain.InsiderTransaction
	if err := c.fetchJSON(ctx, url, &transactions); err != nil {
		return nil, fmt.Errorf("failed to fetch insider trading for %s: %w", symbol, err)
	}
	return transactions, nil
}

// GetEarningsCalendar returns earnings events in [from, to]. An empty from
// defaults to two years back; an empty to leaves the range open-ended.
func (c *Client) GetEarningsCalendar(ctx context.Context, symbol, from, to string) ([]EarningsEvent, error) {
	if from == "" {
		from = time.Now().AddDate(0, 0, -730).Format("2006-01-02")
	}

	url := fmt.Sprintf("%s/earnings-calendar?symbol=%s&from=%s", c.baseURL, symbol, from)
	if to != "" {
		url += "&to=" + to
	}
	url += "&apikey=" + c.apiKey

	var events []EarningsEvent
	if err := c.fetchJSON(ctx, url, &events); err != nil {
		return nil, fmt.Errorf("failed to fetch earnings calendar for %s: %w", symbol, err)
	}
	return events, nil
}

// GetSocialSentiment fetches the trending bullish and bearish entries in
// parallel and pairs the top entry of each. Both requests failing yields an
// error; a single miss leaves that side nil.
func (c *Client) GetSocialSentiment(ctx context.Context, symbol string) (*SocialSentiment, error) {
	fetchSide := func(kind string) (*SentimentTrend, error) {
		url := fmt.Sprintf("%s/social-sentiments/trending?symbol=%s&type=%s&source=stocktwits&apikey=%s",
			c.baseURLV4, symbol, kind, c.apiKey)

		var trends []SentimentTrend
		if err := c.fetchJSON(ctx, url, &trends); err != nil {
			return nil, err
		}
		if len(trends) == 0 {
			return nil, nil
		}
		return &trends[0], nil
	}

	sentiment := &SocialSentiment{}

	var wg sync.WaitGroup
	var bullishErr, bearishErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		sentiment.Bullish, bullishErr = fetchSide("bullish")
	}()
	go func() {
		defer wg.Done()
		sentiment.Bearish, bearishErr = fetchSide("bearish")
	}()
	wg.Wait()

	if bullishErr != nil && bearishErr != nil {
		return nil, fmt.Errorf("failed to fetch social sentiment for %s: %w", symbol, bullishErr)
	}
	return sentiment, nil
}

// GetHistoricalPrices returns daily price bars. When from and to are set the
// request pins that range; otherwise the most recent limit bars are fetched.
func (c *Client) GetHistoricalPrices(ctx context.Context, symbol string, limit int, from, to string) ([]PriceBar, error) {
	var url string
	if from != "" && to != "" {
		url = fmt.Sprintf("%s/historical-price-full/%s?from=%s&to=%s&apikey=%s", c.baseURL, symbol, from, to, c.apiKey)
	} else {
		url = fmt.Sprintf("%s/historical-price-full/%s?timeseries=%d&apikey=%s", c.baseURL, symbol, limit, c.apiKey)
	}

	var resp historicalResponse
	if err := c.fetchJSON(ctx, url, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch historical prices for %s: %w", symbol, err)
	}
	return resp.Historical, nil
}

// GetComprehensive fetches all per-symbol datasets concurrently and
// assembles them into a Bundle. Individual endpoint failures are logged and
// leave their slice empty; only context cancellation aborts the fan-out.
func (c *Client) GetComprehensive(ctx context.Context, symbol string) (*Bundle, error) {
	bundle := &Bundle{}
	g, gctx := errgroup.WithContext(ctx)

	collect := func(name string, fn func() error) {
		g.Go(func() error {
			if err := fn(); err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				c.log.Warn().Err(err).Str("symbol", symbol).Str("dataset", name).Msg("Dataset fetch failed")
			}
			return nil
		})
	}

	collect("income_statements", func() (err error) {
		bundle.IncomeStatements, err = c.GetIncomeStatements(gctx, symbol)
		return
	})
	collect("cash_flow_statements", func() (err error) {
		bundle.CashFlowStatements, err = c.GetCashFlowStatements(gctx, symbol)
		return
	})
	collect("balance_sheets", func() (err error) {
		bundle.BalanceSheets, err = c.GetBalanceSheets(gctx, symbol)
		return
	})
	collect("ratios", func() (err error) {
		bundle.Ratios, err = c.GetRatios(gctx, symbol)
		return
	})
	collect("ratios_ttm", func() (err error) {
		bundle.RatiosTTM, err = c.GetRatiosTTM(gctx, symbol)
		return
	})
	collect("key_metrics", func() (err error) {
		bundle.KeyMetrics, err = c.GetKeyMetrics(gctx, symbol)
		return
	})
	collect("key_metrics_ttm", func() (err error) {
		bundle.KeyMetricsTTM, err = c.GetKeyMetricsTTM(gctx, symbol)
		return
	})
	collect("financial_growth", func() (err error) {
		bundle.FinancialGrowth, err = c.GetFinancialGrowth(gctx, symbol)
		return
	})
	collect("insider_trading", func() (err error) {
		bundle.InsiderTrading, err = c.GetInsiderTrading(gctx, symbol, 50)
		return
	})
	collect("earnings_calendar", func() (err error) {
		bundle.EarningsCalendar, err = c.GetEarningsCalendar(gctx, symbol, "", "")
		return
	})
	collect("historical_prices", func() (err error) {
		bundle.HistoricalPrices, err = c.GetHistoricalPrices(gctx, symbol, 5, "", "")
		return
	})
	collect("social_sentiment", func() (err error) {
		bundle.SocialSentiment, err = c.GetSocialSentiment(gctx, symbol)
		return
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return bundle, nil
}

// Package fmp provides a rate-limited, cached client for the Financial
// Modeling Prep API.
package fmp

import (
	"encoding/json"

	"github.com/aristath/screener/internal/domain"
)

// SymbolListing is one row of an exchange symbol directory.
type SymbolListing struct {
	Symbol string  `json:"symbol"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
}

// IncomeStatement holds the income statement fields the screener consumes.
type IncomeStatement struct {
	Date                 string  `json:"date"`
	FillingDate          string  `json:"fillingDate"`
	ReportedDate         string  `json:"reportedDate"`
	Revenue              float64 `json:"revenue"`
	EPS                  float64 `json:"eps"`
	GrossProfitRatio     float64 `json:"grossProfitRatio"`
	OperatingIncomeRatio float64 `json:"operatingIncomeRatio"`
	OperatingIncome      float64 `json:"operatingIncome"`
	InterestExpense      float64 `json:"interestExpense"`
	EBITDA               float64 `json:"ebitda"`
	NetIncome            float64 `json:"netIncome"`
	RDExpenses           float64 `json:"researchAndDevelopmentExpenses"`
}

// CashFlowStatement holds the cash flow fields the screener consumes.
type CashFlowStatement struct {
	Date               string  `json:"date"`
	FillingDate        string  `json:"fillingDate"`
	ReportedDate       string  `json:"reportedDate"`
	FreeCashFlow       float64 `json:"freeCashFlow"`
	CapitalExpenditure float64 `json:"capitalExpenditure"`
	OperatingCashFlow  float64 `json:"netCashProvidedByOperatingActivities"`
}

// BalanceSheet holds the balance sheet fields the screener consumes.
type BalanceSheet struct {
	Date                    string  `json:"date"`
	FillingDate             string  `json:"fillingDate"`
	ReportedDate            string  `json:"reportedDate"`
	TotalCurrentAssets      float64 `json:"totalCurrentAssets"`
	TotalCurrentLiabilities float64 `json:"totalCurrentLiabilities"`
	TotalDebt               float64 `json:"totalDebt"`
	TotalStockholdersEquity float64 `json:"totalStockholdersEquity"`
	TotalAssets             float64 `json:"totalAssets"`
}

// Ratios holds one row of historical financial ratios.
type Ratios struct {
	Date           string  `json:"date"`
	FillingDate    string  `json:"fillingDate"`
	ReportedDate   string  `json:"reportedDate"`
	ReturnOnEquity float64 `json:"returnOnEquity"`
}

// RatiosTTM holds the trailing-twelve-month valuation ratios.
type RatiosTTM struct {
	PERatioTTM             float64 `json:"peRatioTTM"`
	PriceBookValueRatioTTM float64 `json:"priceBookValueRatioTTM"`
}

// KeyMetrics rows participate in date alignment and point-in-time filtering
// but contribute no metric fields of their own.
type KeyMetrics struct {
	Date         string `json:"date"`
	FillingDate  string `json:"fillingDate"`
	ReportedDate string `json:"reportedDate"`
}

// EarningsEvent is one earnings calendar row. Actual results are pointers
// because upcoming events carry estimates only.
type EarningsEvent struct {
	Date             string   `json:"date"`
	EPSActual        *float64 `json:"epsActual"`
	EPSEstimated     float64  `json:"epsEstimated"`
	RevenueActual    *float64 `json:"revenueActual"`
	RevenueEstimated float64  `json:"revenueEstimated"`
}

// HasActual reports whether the event carries reported results rather than
// just estimates.
func (e EarningsEvent) HasActual() bool {
	return e.EPSActual != nil
}

// SentimentTrend is one row from the trending social sentiment endpoint.
type SentimentTrend struct {
	Sentiment     float64 `json:"sentiment"`
	LastSentiment float64 `json:"lastSentiment"`
}

// SocialSentiment pairs the top trending bullish and bearish entries.
// Either side may be nil when the endpoint returned nothing.
type SocialSentiment struct {
	Bullish *SentimentTrend `json:"bullish"`
	Bearish *SentimentTrend `json:"bearish"`
}

// PriceBar is one day of historical prices.
type PriceBar struct {
	Date     string  `json:"date"`
	Open     float64 `json:"open"`
	High     float64 `json:"high"`
	Low      float64 `json:"low"`
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adjClose"`
	Volume   float64 `json:"volume"`
}

// historicalResponse unwraps the object-shaped historical price payload.
type historicalResponse struct {
	Symbol     string     `json:"symbol"`
	Historical []PriceBar `json:"historical"`
}

// Bundle is the comprehensive per-symbol dataset assembled by one
// concurrent fan-out. Endpoint failures leave the corresponding slice empty.
type Bundle struct {
	IncomeStatements   []IncomeStatement           `json:"income_statements"`
	CashFlowStatements []CashFlowStatement         `json:"cash_flow_statements"`
	BalanceSheets      []BalanceSheet              `json:"balance_sheets"`
	Ratios             []Ratios                    `json:"ratios"`
	RatiosTTM          []RatiosTTM                 `json:"ratios_ttm"`
	KeyMetrics         []KeyMetrics                `json:"key_metrics"`
	KeyMetricsTTM      []json.RawMessage           `json:"key_metrics_ttm"`
	FinancialGrowth    []json.RawMessage           `json:"financial_growth"`
	InsiderTrading     []domain.InsiderTransaction `json:"insider_trading"`
	EarningsCalendar   []EarningsEvent             `json:"earnings_calendar"`
	SocialSentiment    *SocialSentiment            `json:"social_sentiment"`
	HistoricalPrices   []PriceBar                  `json:"historical_prices"`
}

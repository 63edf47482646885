// Package domain defines the wire and domain types shared between the
// dashboard, the scan API client, and the stores: option quotes and chains,
// spread candidates, ranked scan results, and the enrichment objects
// (fundamentals, sentiment, ML prediction, risk score).
package domain

import "fmt"

// ---------------------------------------------------------------------------
// Enums
// ---------------------------------------------------------------------------

// OptionType identifies the side of an option contract.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

// Valid reports whether t is a known option type.
func (t OptionType) Valid() bool {
	switch t {
	case Call, Put:
		return true
	}
	return false
}

// Label returns the display label for the option type.
func (t OptionType) Label() string {
	switch t {
	case Call:
		return "CALL"
	case Put:
		return "PUT"
	}
	return string(t)
}

// SpreadType identifies a supported spread strategy.
type SpreadType string

const (
	BullCall        SpreadType = "bull_call"
	BearPut         SpreadType = "bear_put"
	LeapCall        SpreadType = "leap_call"
	LeapPut         SpreadType = "leap_put"
	LeapsSpreadCall SpreadType = "leaps_spread_call"
)

// AllSpreadTypes lists every supported strategy in display order.
var AllSpreadTypes = []SpreadType{BullCall, BearPut, LeapCall, LeapPut, LeapsSpreadCall}

// ParseSpreadType converts a wire tag into a SpreadType, rejecting unknown tags.
func ParseSpreadType(s string) (SpreadType, error) {
	st := SpreadType(s)
	if !st.Valid() {
		return "", fmt.Errorf("unknown spread type %q", s)
	}
	return st, nil
}

// Valid reports whether t is a known strategy tag.
func (t SpreadType) Valid() bool {
	switch t {
	case BullCall, BearPut, LeapCall, LeapPut, LeapsSpreadCall:
		return true
	}
	return false
}

// TwoLeg reports whether the strategy carries a short leg.
func (t SpreadType) TwoLeg() bool {
	switch t {
	case BullCall, BearPut, LeapsSpreadCall:
		return true
	case LeapCall, LeapPut:
		return false
	}
	return false
}

// Label returns the display label for the strategy.
func (t SpreadType) Label() string {
	switch t {
	case BullCall:
		return "Bull Call"
	case BearPut:
		return "Bear Put"
	case LeapCall:
		return "LEAP Call"
	case LeapPut:
		return "LEAP Put"
	case LeapsSpreadCall:
		return "LEAPS Spread"
	}
	return string(t)
}

// Color returns the ANSI-256 color used to render the strategy tag.
func (t SpreadType) Color() string {
	switch t {
	case BullCall:
		return "10"
	case BearPut:
		return "9"
	case LeapCall:
		return "12"
	case LeapPut:
		return "13"
	case LeapsSpreadCall:
		return "14"
	}
	return "7"
}

// ---------------------------------------------------------------------------
// Options
// ---------------------------------------------------------------------------

// OptionQuote is one option contract's market and greek snapshot.
type OptionQuote struct {
	Symbol            string     `json:"symbol"`
	Underlying        string     `json:"underlying"`
	Expiration        string     `json:"expiration"` // YYYY-MM-DD
	Strike            float64    `json:"strike"`
	OptionType        OptionType `json:"option_type"`
	Bid               float64    `json:"bid"`
	Ask               float64    `json:"ask"`
	Mid               float64    `json:"mid"`
	Last              float64    `json:"last"`
	Volume            int64      `json:"volume"`
	OpenInterest      int64      `json:"open_interest"`
	ImpliedVolatility float64    `json:"implied_volatility"` // decimal, 0.35 = 35%
	Delta             float64    `json:"delta"`
	Gamma             float64    `json:"gamma"`
	Theta             float64    `json:"theta"` // per day
	Vega              float64    `json:"vega"`  // per 1% IV change
	Rho               float64    `json:"rho"`
}

// OptionsChain holds every quote for one underlying and expiration. The calls
// and puts slices are independently sized and may cover disjoint strike sets.
type OptionsChain struct {
	Underlying  string        `json:"underlying"`
	SpotPrice   float64       `json:"spot_price"`
	QuoteTime   string        `json:"quote_time"`
	Expirations []string      `json:"expirations"`
	Calls       []OptionQuote `json:"calls"`
	Puts        []OptionQuote `json:"puts"`
}

// SpreadCandidate is a constructed one- or two-leg position. ShortLeg is nil
// for single-leg LEAPS strategies.
type SpreadCandidate struct {
	Underlying          string       `json:"underlying"`
	SpreadType          SpreadType   `json:"spread_type"`
	Expiration          string       `json:"expiration"`
	DTE                 int          `json:"dte"`
	LongLeg             OptionQuote  `json:"long_leg"`
	ShortLeg            *OptionQuote `json:"short_leg,omitempty"`
	NetDebit            float64      `json:"net_debit"`
	MaxProfit           float64      `json:"max_profit"`
	MaxLoss             float64      `json:"max_loss"`
	Breakeven           float64      `json:"breakeven"`
	ProbabilityOfProfit float64      `json:"probability_of_profit"`
	BidAskQualityScore  float64      `json:"bid_ask_quality_score"` // 0-1, higher = tighter
	IVRank              float64      `json:"iv_rank"`               // 0-100
	SpreadWidth         float64      `json:"spread_width"`          // 0 for single-leg LEAPS
}

// ---------------------------------------------------------------------------
// Scan results
// ---------------------------------------------------------------------------

// RiskScore is the composite 0-100 risk assessment attached to each result.
type RiskScore struct {
	CompositeScore       float64            `json:"composite_score"`
	IVRankComponent      float64            `json:"iv_rank_component"`
	BidAskComponent      float64            `json:"bid_ask_component"`
	FundamentalComponent float64            `json:"fundamental_component"`
	SentimentComponent   float64            `json:"sentiment_component"`
	LiquidityComponent   float64            `json:"liquidity_component"`
	Breakdown            map[string]float64 `json:"breakdown"`
}

// RankedSpread is one scan result row. Rank is 1-based and unique only
// within the ScannerResult it belongs to.
type RankedSpread struct {
	Rank         int             `json:"rank"`
	Spread       SpreadCandidate `json:"spread"`
	Fundamentals FundamentalData `json:"fundamentals"`
	Sentiment    TickerSentiment `json:"sentiment"`
	MLPrediction MLPrediction    `json:"ml_prediction"`
	RiskScore    RiskScore       `json:"risk_score"`
}

// ScannerResult is one completed scan. The results ordering is assigned by
// the scan engine and preserved as received.
type ScannerResult struct {
	ScanID                   string         `json:"scan_id"`
	ScanTime                 string         `json:"scan_time"`
	FiltersUsed              ScannerFilters `json:"filters_used"`
	TotalCandidatesEvaluated int            `json:"total_candidates_evaluated"`
	Results                  []RankedSpread `json:"results"`
	ScanDurationSeconds      float64        `json:"scan_duration_seconds"`
}

// ScannerFilters is the scan request body, echoed back in ScannerResult.
// A nil Symbols slice means the engine's default universe.
type ScannerFilters struct {
	Symbols                []string     `json:"symbols"`
	Strategies             []SpreadType `json:"strategies"`
	MinDTE                 int          `json:"min_dte"`
	MaxDTE                 int          `json:"max_dte"`
	LeapsMinDTE            int          `json:"leaps_min_dte"`
	LeapsMaxDTE            int          `json:"leaps_max_dte"`
	MinIVRank              float64      `json:"min_iv_rank"`
	MaxIVRank              float64      `json:"max_iv_rank"`
	MinVolume              int64        `json:"min_volume"`
	MinOpenInterest        int64        `json:"min_open_interest"`
	MaxBidAskSpreadPct     float64      `json:"max_bid_ask_spread_pct"`
	MinFundamentalScore    float64      `json:"min_fundamental_score"`
	MinSentimentScore      float64      `json:"min_sentiment_score"`
	MinProbabilityOfProfit float64      `json:"min_probability_of_profit"`
	MinMLQualityScore      float64      `json:"min_ml_quality_score"`
	MaxResults             int          `json:"max_results"`
	TargetSpreadWidths     []float64    `json:"target_spread_widths"`
	MaxSpreadWidth         *float64     `json:"max_spread_width"`
	MaxDebitPctOfSpread    float64      `json:"max_debit_pct_of_spread"`
	MaxNetDebit            *float64     `json:"max_net_debit"`
	MinLongDelta           float64      `json:"min_long_delta"`
	MaxLongDelta           float64      `json:"max_long_delta"`
}

// ---------------------------------------------------------------------------
// Enrichment objects
// ---------------------------------------------------------------------------

// FundamentalData is the company fundamentals snapshot returned by the engine.
// Pointer fields are null on the wire when the source has no figure.
type FundamentalData struct {
	Symbol             string   `json:"symbol"`
	CompanyName        string   `json:"company_name"`
	Sector             string   `json:"sector"`
	Industry           string   `json:"industry"`
	MarketCap          float64  `json:"market_cap"`
	PERatio            *float64 `json:"pe_ratio"`
	ForwardPE          *float64 `json:"forward_pe"`
	PEGRatio           *float64 `json:"peg_ratio"`
	PriceToBook        *float64 `json:"price_to_book"`
	PriceToSales       *float64 `json:"price_to_sales"`
	RevenueGrowthYoY   *float64 `json:"revenue_growth_yoy"`
	EarningsGrowthYoY  *float64 `json:"earnings_growth_yoy"`
	DebtToEquity       *float64 `json:"debt_to_equity"`
	CurrentRatio       *float64 `json:"current_ratio"`
	GrossMargin        *float64 `json:"gross_margin"`
	OperatingMargin    *float64 `json:"operating_margin"`
	NetMargin          *float64 `json:"net_margin"`
	ReturnOnEquity     *float64 `json:"return_on_equity"`
	ReturnOnAssets     *float64 `json:"return_on_assets"`
	FreeCashFlowYield  *float64 `json:"free_cash_flow_yield"`
	NextEarningsDate   *string  `json:"next_earnings_date"`
	DaysToEarnings     *int     `json:"days_to_earnings"`
	FundamentalScore   *float64 `json:"fundamental_score"`
}

// ArticleSentiment is the per-headline sentiment breakdown.
type ArticleSentiment struct {
	Headline    string  `json:"headline"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"published_at"`
	Source      string  `json:"source"`
	Positive    float64 `json:"positive"`
	Negative    float64 `json:"negative"`
	Neutral     float64 `json:"neutral"`
	Label       string  `json:"label"`
}

// TickerSentiment is the aggregated news sentiment for one symbol.
// SentimentScore is normalized 0-100 with 50 = neutral.
type TickerSentiment struct {
	Symbol            string             `json:"symbol"`
	ArticlesAnalyzed  int                `json:"articles_analyzed"`
	AvgPositive       float64            `json:"avg_positive"`
	AvgNegative       float64            `json:"avg_negative"`
	AvgNeutral        float64            `json:"avg_neutral"`
	AvgCompound       float64            `json:"avg_compound"`
	SentimentLabel    string             `json:"sentiment_label"`
	SentimentScore    float64            `json:"sentiment_score"`
	TopHeadlines      []string           `json:"top_headlines"`
	AnalyzedAt        string             `json:"analyzed_at"`
	ArticleSentiments []ArticleSentiment `json:"article_sentiments"`
}

// MLPrediction is the model output for a spread. IsPlaceholder is true while
// the engine runs without a trained model.
type MLPrediction struct {
	SpreadQualityScore  float64            `json:"spread_quality_score"` // 0-100
	ExpectedReturnPct   float64            `json:"expected_return_pct"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	Confidence          float64            `json:"confidence"`
	FeatureImportances  map[string]float64 `json:"feature_importances"`
	IsPlaceholder       bool               `json:"is_placeholder"`
}

// MLStatus is the engine's model status report.
type MLStatus struct {
	IsTrained bool   `json:"is_trained"`
	Mode      string `json:"mode"`
	ModelPath string `json:"model_path"`
	Message   string `json:"message"`
}

// ---------------------------------------------------------------------------
// Market data
// ---------------------------------------------------------------------------

// Bar is one OHLCV bar of the price-history series.
type Bar struct {
	Time   string  `json:"time"` // YYYY-MM-DD
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// Quote is the underlying's real-time quote snapshot.
type Quote struct {
	Symbol           string  `json:"symbol"`
	Price            float64 `json:"price"`
	FiftyTwoWeekHigh float64 `json:"fifty_two_week_high"`
	FiftyTwoWeekLow  float64 `json:"fifty_two_week_low"`
	PreviousClose    float64 `json:"previous_close"`
}

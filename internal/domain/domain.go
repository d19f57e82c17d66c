package domain

import "time"

type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

type ConfidenceLevel string

const (
	ConfidenceLow    ConfidenceLevel = "low"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceHigh   ConfidenceLevel = "high"
)

type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

type Verdict string

const (
	VerdictBuy     Verdict = "buy"
	VerdictSell    Verdict = "sell"
	VerdictNeutral Verdict = "neutral"
)

type SignalStrength string

const (
	StrengthNormal SignalStrength = "normal"
	StrengthStrong SignalStrength = "strong"
)

// Signal sources emitted by the signal generator.
const (
	SourceMovingAverage = "movingAverage"
	SourceGoldenCross   = "goldenCross"
	SourceRSI           = "rsi"
	SourceMACD          = "macd"
	SourceStochastic    = "stochastic"
	SourceBollinger     = "bollinger"
)

// Indicator names accepted by the technical analysis filter.
const (
	IndicatorSMA        = "sma"
	IndicatorEMA        = "ema"
	IndicatorRSI        = "rsi"
	IndicatorMACD       = "macd"
	IndicatorBollinger  = "bollinger"
	IndicatorStochastic = "stochastic"
	IndicatorATR        = "atr"
)

var SupportedIndicators = []string{
	IndicatorSMA, IndicatorEMA, IndicatorRSI, IndicatorMACD,
	IndicatorBollinger, IndicatorStochastic, IndicatorATR,
}

type MACD struct {
	Line      float64 `json:"line"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

type BollingerBands struct {
	Upper             float64 `json:"upper"`
	Middle            float64 `json:"middle"`
	Lower             float64 `json:"lower"`
	Width             float64 `json:"width"`
	StandardDeviation float64 `json:"standard_deviation"`
}

type Stochastic struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// IndicatorSet holds the indicator readings for the latest bar of a series.
// Pointer fields are nil when filtered out of a technical analysis.
type IndicatorSet struct {
	SMA        map[int]float64 `json:"sma,omitempty"`
	EMA        map[int]float64 `json:"ema,omitempty"`
	RSI        *float64        `json:"rsi,omitempty"`
	MACD       *MACD           `json:"macd,omitempty"`
	Bollinger  *BollingerBands `json:"bollinger,omitempty"`
	Stochastic *Stochastic     `json:"stochastic,omitempty"`
	ATR        *float64        `json:"atr,omitempty"`
}

type VolumeAnalysis struct {
	AverageVolume      float64 `json:"average_volume"`
	RecentVolumeChange float64 `json:"recent_volume_change"`
}

// DeepAnalysis is the optional LLM enrichment attached to analysis results.
type DeepAnalysis struct {
	Summary    string   `json:"summary"`
	Outlook    Trend    `json:"outlook"`
	Risks      []string `json:"risks,omitempty"`
	Catalysts  []string `json:"catalysts,omitempty"`
	Confidence float64  `json:"confidence"`
	Model      string   `json:"model"`
}

type TrendAnalysis struct {
	Symbol             string          `json:"symbol"`
	Period             int             `json:"period"`
	Trend              Trend           `json:"trend"`
	StrengthScore      float64         `json:"strength_score"`
	CurrentPrice       float64         `json:"current_price"`
	PriceChange        float64         `json:"price_change"`
	PriceChangePercent float64         `json:"price_change_percent"`
	Volatility         float64         `json:"volatility"`
	ConfidenceLevel    ConfidenceLevel `json:"confidence_level"`
	Indicators         IndicatorSet    `json:"indicators"`
	SupportLevels      []float64       `json:"support_levels"`
	ResistanceLevels   []float64       `json:"resistance_levels"`
	VolumeAnalysis     VolumeAnalysis  `json:"volume_analysis"`
	RecommendedAction  Action          `json:"recommended_action"`
	DeepAnalysis       *DeepAnalysis   `json:"deep_analysis,omitempty"`
}

type Signal struct {
	Source      string         `json:"source"`
	Verdict     Verdict        `json:"verdict"`
	Strength    SignalStrength `json:"strength"`
	Description string         `json:"description"`
}

type SignalSet struct {
	Signals   []Signal `json:"signals"`
	Overall   Verdict  `json:"overall"`
	BuyCount  int      `json:"buy_count"`
	SellCount int      `json:"sell_count"`
}

type TechnicalAnalysis struct {
	Symbol           string        `json:"symbol"`
	Interval         Interval      `json:"interval"`
	CurrentPrice     float64       `json:"current_price"`
	Indicators       IndicatorSet  `json:"indicators"`
	Signals          SignalSet     `json:"signals"`
	Trend            Trend         `json:"trend"`
	StrengthScore    float64       `json:"strength_score"`
	SupportLevels    []float64     `json:"support_levels"`
	ResistanceLevels []float64     `json:"resistance_levels"`
	DeepAnalysis     *DeepAnalysis `json:"deep_analysis,omitempty"`
}

type PredictionPoint struct {
	Date       time.Time       `json:"date"`
	Price      float64         `json:"price"`
	RangeLow   float64         `json:"range_low"`
	RangeHigh  float64         `json:"range_high"`
	Confidence ConfidenceLevel `json:"confidence"`
}

type PricePrediction struct {
	Symbol          string            `json:"symbol"`
	CurrentPrice    float64           `json:"current_price"`
	Predictions     []PredictionPoint `json:"predictions"`
	Trend           Trend             `json:"trend"`
	Volatility      float64           `json:"volatility"`
	Method          string            `json:"method"`
	ConfidenceScore float64           `json:"confidence_score"`
}

type Holding struct {
	Symbol        string   `json:"symbol"`
	Quantity      float64  `json:"quantity"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
}

type HoldingPerformance struct {
	Symbol            string  `json:"symbol"`
	Quantity          float64 `json:"quantity"`
	CurrentPrice      float64 `json:"current_price"`
	Value             float64 `json:"value"`
	Cost              float64 `json:"cost"`
	Gain              float64 `json:"gain"`
	GainPercent       float64 `json:"gain_percent"`
	Weight            float64 `json:"weight"`
	Trend             Trend   `json:"trend,omitempty"`
	RecommendedAction Action  `json:"recommended_action,omitempty"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type PortfolioPerformance struct {
	TotalValue           float64              `json:"total_value"`
	TotalCost            float64              `json:"total_cost"`
	TotalGain            float64              `json:"total_gain"`
	TotalGainPercent     float64              `json:"total_gain_percent"`
	Holdings             []HoldingPerformance `json:"holdings"`
	DiversificationScore float64              `json:"diversification_score"`
	RiskLevel            RiskLevel            `json:"risk_level"`
	Errors               []string             `json:"errors,omitempty"`
}

package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"market-lens/internal/analysis"
	"market-lens/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	yahooBaseURL     = "https://query1.finance.yahoo.com"
	yahooUserAgent   = "Mozilla/5.0 (compatible; market-lens/1.0)"
	searchQuoteCount = 10
)

var yahooInterval = map[domain.Interval]string{
	domain.IntervalDaily:   "1d",
	domain.IntervalWeekly:  "1wk",
	domain.IntervalMonthly: "1mo",
}

// YahooProvider fetches quotes, history and symbol lookups from the public
// Yahoo Finance endpoints.
type YahooProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewYahooProvider creates a provider limited to perMinute upstream calls.
func NewYahooProvider(tracer trace.Tracer, perMinute int, timeout time.Duration) *YahooProvider {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &YahooProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: yahooBaseURL,
		tracer:  tracer,
		limiter: NewPerMinuteLimiter(perMinute),
	}
}

// Ready reports whether an upstream call could go out now without waiting
// on the rate limiter.
func (p *YahooProvider) Ready(ctx context.Context) error {
	if p.limiter.Available() == 0 {
		return errors.New("yahoo rate limit exhausted")
	}
	return nil
}

type yahooChart struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				Currency           string  `json:"currency"`
				LongName           string  `json:"longName"`
				ShortName          string  `json:"shortName"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				RegularMarketTime  int64   `json:"regularMarketTime"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
				PreviousClose      float64 `json:"previousClose"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooSearch struct {
	Quotes []struct {
		Symbol    string `json:"symbol"`
		ShortName string `json:"shortname"`
		LongName  string `json:"longname"`
		Exchange  string `json:"exchange"`
		ExchDisp  string `json:"exchDisp"`
		QuoteType string `json:"quoteType"`
	} `json:"quotes"`
}

// GetQuote returns the latest price using the chart endpoint's metadata.
func (p *YahooProvider) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.get-quote")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", symbol))

	chart, err := p.fetchChart(ctx, symbol, "1d", "5d")
	if err != nil {
		return nil, err
	}
	meta := chart.Chart.Result[0].Meta
	candles := candlesFromChart(chart)

	price := meta.RegularMarketPrice
	if price == 0 {
		if len(candles) == 0 {
			return nil, analysis.NotFound("yahoo.GetQuote", "no price available for %s", symbol)
		}
		price = candles[0].Close
	}
	prev := meta.PreviousClose
	if prev == 0 && len(candles) > 1 {
		prev = candles[1].Close
	}
	if prev == 0 {
		prev = meta.ChartPreviousClose
	}

	q := &domain.Quote{
		Symbol:    strings.ToUpper(meta.Symbol),
		Name:      meta.LongName,
		Price:     price,
		Currency:  meta.Currency,
		Timestamp: time.Unix(meta.RegularMarketTime, 0).UTC(),
	}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	if q.Name == "" {
		q.Name = meta.ShortName
	}
	if prev > 0 {
		q.Change = price - prev
		q.PercentChange = q.Change / prev * 100
	}
	return q, nil
}

// GetHistory returns a newest-first candle series for the interval and range.
func (p *YahooProvider) GetHistory(ctx context.Context, symbol string, interval domain.Interval, rng string) ([]domain.Candle, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.get-history")
	defer span.End()
	span.SetAttributes(
		attribute.String("symbol", symbol),
		attribute.String("interval", string(interval)),
		attribute.String("range", rng),
	)

	yi, ok := yahooInterval[interval]
	if !ok {
		return nil, analysis.InvalidParameter("yahoo.GetHistory", "unsupported interval %q", interval)
	}
	if !domain.IsValidRange(rng) {
		return nil, analysis.InvalidParameter("yahoo.GetHistory", "unsupported range %q", rng)
	}

	chart, err := p.fetchChart(ctx, symbol, yi, rng)
	if err != nil {
		return nil, err
	}
	return candlesFromChart(chart), nil
}

// Search looks up symbols matching a free-text query.
func (p *YahooProvider) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	ctx, span := p.tracer.Start(ctx, "yahoo.search")
	defer span.End()

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, analysis.InvalidParameter("yahoo.Search", "query is required")
	}

	u := fmt.Sprintf("%s/v1/finance/search?q=%s&quotesCount=%d&newsCount=0",
		p.baseURL, url.QueryEscape(query), searchQuoteCount)
	body, status, err := p.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo search error %d: %s", status, truncate(body))
	}

	var raw yahooSearch
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse search results: %w", err)
	}
	results := make([]domain.SearchResult, 0, len(raw.Quotes))
	for _, q := range raw.Quotes {
		if q.Symbol == "" {
			continue
		}
		name := q.LongName
		if name == "" {
			name = q.ShortName
		}
		exchange := q.ExchDisp
		if exchange == "" {
			exchange = q.Exchange
		}
		results = append(results, domain.SearchResult{
			Symbol:   q.Symbol,
			Name:     name,
			Exchange: exchange,
			Type:     strings.ToLower(q.QuoteType),
		})
	}
	return results, nil
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol, interval, rng string) (*yahooChart, error) {
	const op = "yahoo.fetchChart"
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		p.baseURL, url.PathEscape(symbol), interval, rng)

	body, status, err := p.doRequest(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("fetch chart for %s: %w", symbol, err)
	}

	var chart yahooChart
	if jsonErr := json.Unmarshal(body, &chart); jsonErr != nil {
		if status != http.StatusOK {
			return nil, fmt.Errorf("yahoo API error %d: %s", status, truncate(body))
		}
		return nil, fmt.Errorf("parse chart for %s: %w", symbol, jsonErr)
	}
	if e := chart.Chart.Error; e != nil {
		if status == http.StatusNotFound || strings.EqualFold(e.Code, "Not Found") {
			return nil, analysis.NotFound(op, "symbol %s not found", symbol)
		}
		return nil, fmt.Errorf("yahoo API error: %s", e.Description)
	}
	if status == http.StatusNotFound {
		return nil, analysis.NotFound(op, "symbol %s not found", symbol)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("yahoo API error %d: %s", status, truncate(body))
	}
	if len(chart.Chart.Result) == 0 {
		return nil, analysis.NotFound(op, "no data returned for %s", symbol)
	}
	return &chart, nil
}

func (p *YahooProvider) doRequest(ctx context.Context, u string) ([]byte, int, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

// candlesFromChart converts the parallel quote arrays into candles, skipping
// bars Yahoo reports as null (holidays, halted sessions).
func candlesFromChart(chart *yahooChart) []domain.Candle {
	if chart == nil || len(chart.Chart.Result) == 0 {
		return nil
	}
	res := chart.Chart.Result[0]
	if len(res.Indicators.Quote) == 0 {
		return nil
	}
	q := res.Indicators.Quote[0]

	candles := make([]domain.Candle, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		c := domain.Candle{
			Date:   time.Unix(ts, 0).UTC(),
			Open:   at(q.Open, i),
			High:   at(q.High, i),
			Low:    at(q.Low, i),
			Close:  at(q.Close, i),
			Volume: int64(at(q.Volume, i)),
		}
		if c.Close == 0 {
			continue
		}
		candles = append(candles, c)
	}
	return domain.NormalizeSeries(candles)
}

func at(values []*float64, i int) float64 {
	if i >= len(values) || values[i] == nil {
		return 0
	}
	return *values[i]
}

func truncate(body []byte) string {
	const limit = 256
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}

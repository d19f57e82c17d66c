package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"market-lens/internal/analysis"
	"market-lens/internal/domain"
	"market-lens/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/trace"
)

type marketStub struct {
	quote   *domain.Quote
	candles []domain.Candle
	results []domain.SearchResult
	err     error

	lastInterval domain.Interval
	lastRange    string
}

func (s *marketStub) GetQuote(ctx context.Context, symbol string) (*domain.Quote, error) {
	return s.quote, s.err
}

func (s *marketStub) GetHistory(ctx context.Context, symbol string, interval domain.Interval, rng string) ([]domain.Candle, error) {
	s.lastInterval, s.lastRange = interval, rng
	return s.candles, s.err
}

func (s *marketStub) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	return s.results, s.err
}

type analyzerStub struct {
	err error

	lastPeriod     int
	lastInterval   domain.Interval
	lastIndicators []string
	lastDays       int
	lastHistory    string
	lastHoldings   []domain.Holding
}

func (s *analyzerStub) AnalyzeTrend(ctx context.Context, symbol string, period int) (*domain.TrendAnalysis, error) {
	s.lastPeriod = period
	if s.err != nil {
		return nil, s.err
	}
	return &domain.TrendAnalysis{Symbol: symbol, Trend: domain.TrendBullish}, nil
}

func (s *analyzerStub) AnalyzeTechnical(ctx context.Context, symbol string, interval domain.Interval, indicators []string) (*domain.TechnicalAnalysis, error) {
	s.lastInterval, s.lastIndicators = interval, indicators
	if s.err != nil {
		return nil, s.err
	}
	return &domain.TechnicalAnalysis{Symbol: symbol}, nil
}

func (s *analyzerStub) PredictPrice(ctx context.Context, symbol string, days int, historyRange string) (*domain.PricePrediction, error) {
	s.lastDays, s.lastHistory = days, historyRange
	if s.err != nil {
		return nil, s.err
	}
	return &domain.PricePrediction{Symbol: symbol, Predictions: make([]domain.PredictionPoint, days)}, nil
}

func (s *analyzerStub) AnalyzePortfolio(ctx context.Context, holdings []domain.Holding) (*domain.PortfolioPerformance, error) {
	s.lastHoldings = holdings
	if s.err != nil {
		return nil, s.err
	}
	return &domain.PortfolioPerformance{TotalValue: 1500}, nil
}

func newTestRouter(market *marketStub, an *analyzerStub, apiKey string, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(trace.NewNoopTracerProvider().Tracer("handler-test"), market, an, m)
	r := gin.New()
	h.RegisterRoutes(r, apiKey)
	return r
}

func serve(r *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetQuote(t *testing.T) {
	market := &marketStub{quote: &domain.Quote{Symbol: "AAPL", Price: 190.5}}
	r := newTestRouter(market, &analyzerStub{}, "", nil)

	w := serve(r, http.MethodGet, "/api/quote/aapl", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var q domain.Quote
	if err := json.Unmarshal(w.Body.Bytes(), &q); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if q.Symbol != "AAPL" || q.Price != 190.5 {
		t.Fatalf("unexpected quote: %+v", q)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Fatal("expected request id header")
	}
}

func TestGetHistoryDefaults(t *testing.T) {
	market := &marketStub{candles: []domain.Candle{{Close: 1}}}
	r := newTestRouter(market, &analyzerStub{}, "", nil)

	w := serve(r, http.MethodGet, "/api/history/MSFT", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if market.lastInterval != domain.IntervalDaily || market.lastRange != "1y" {
		t.Fatalf("unexpected defaults: %s %s", market.lastInterval, market.lastRange)
	}

	serve(r, http.MethodGet, "/api/history/MSFT?interval=weekly&range=5y", "", nil)
	if market.lastInterval != domain.IntervalWeekly || market.lastRange != "5y" {
		t.Fatalf("query not forwarded: %s %s", market.lastInterval, market.lastRange)
	}
}

func TestSearch(t *testing.T) {
	market := &marketStub{results: []domain.SearchResult{{Symbol: "AAPL", Name: "Apple Inc."}}}
	r := newTestRouter(market, &analyzerStub{}, "", nil)

	w := serve(r, http.MethodGet, "/api/search?q=apple", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Results []domain.SearchResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if len(body.Results) != 1 || body.Results[0].Symbol != "AAPL" {
		t.Fatalf("unexpected results: %+v", body.Results)
	}
}

func TestAnalysisRoutesForwardParameters(t *testing.T) {
	an := &analyzerStub{}
	r := newTestRouter(&marketStub{}, an, "", nil)

	if w := serve(r, http.MethodGet, "/api/analysis/trend/AAPL?period=90", "", nil); w.Code != http.StatusOK {
		t.Fatalf("trend: expected 200, got %d", w.Code)
	}
	if an.lastPeriod != 90 {
		t.Fatalf("expected period 90, got %d", an.lastPeriod)
	}

	serve(r, http.MethodGet, "/api/analysis/trend/AAPL", "", nil)
	if an.lastPeriod != 0 {
		t.Fatalf("missing period should defer to the service default, got %d", an.lastPeriod)
	}

	if w := serve(r, http.MethodGet, "/api/analysis/technical/AAPL?interval=weekly&indicators=RSI,%20macd,", "", nil); w.Code != http.StatusOK {
		t.Fatalf("technical: expected 200, got %d", w.Code)
	}
	if an.lastInterval != domain.IntervalWeekly || !reflect.DeepEqual(an.lastIndicators, []string{"rsi", "macd"}) {
		t.Fatalf("unexpected technical args: %s %v", an.lastInterval, an.lastIndicators)
	}

	w := serve(r, http.MethodGet, "/api/analysis/predict/AAPL?days=5&history=2y", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("predict: expected 200, got %d", w.Code)
	}
	if an.lastDays != 5 || an.lastHistory != "2y" {
		t.Fatalf("unexpected predict args: %d %s", an.lastDays, an.lastHistory)
	}
	var pred domain.PricePrediction
	if err := json.Unmarshal(w.Body.Bytes(), &pred); err != nil || len(pred.Predictions) != 5 {
		t.Fatalf("unexpected prediction body: %s", w.Body.String())
	}

	serve(r, http.MethodGet, "/api/analysis/predict/AAPL", "", nil)
	if an.lastDays != 7 {
		t.Fatalf("expected default of 7 days, got %d", an.lastDays)
	}
}

func TestAnalyzePortfolio(t *testing.T) {
	an := &analyzerStub{}
	r := newTestRouter(&marketStub{}, an, "", nil)

	w := serve(r, http.MethodPost, "/api/analysis/portfolio",
		`{"holdings":[{"symbol":"AAPL","quantity":10,"purchase_price":100}]}`, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if len(an.lastHoldings) != 1 || an.lastHoldings[0].PurchasePrice == nil || *an.lastHoldings[0].PurchasePrice != 100 {
		t.Fatalf("holdings not decoded: %+v", an.lastHoldings)
	}

	w = serve(r, http.MethodPost, "/api/analysis/portfolio", `{"holdings":`, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
		kind string
	}{
		{"invalid", analysis.InvalidParameter("op", "bad period"), http.StatusBadRequest, "invalid_parameter"},
		{"not found", analysis.NotFound("op", "no such symbol"), http.StatusNotFound, "not_found"},
		{"insufficient", analysis.InsufficientData("op", 10, 20), http.StatusUnprocessableEntity, "insufficient_data"},
		{"provider", analysis.ProviderFailure("op", errors.New("503")), http.StatusBadGateway, "provider_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&marketStub{}, &analyzerStub{err: tc.err}, "", nil)
			w := serve(r, http.MethodGet, "/api/analysis/trend/AAPL", "", nil)
			if w.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, w.Code)
			}
			var body map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("parse error: %v", err)
			}
			if tc.kind != "" && body["kind"] != tc.kind {
				t.Fatalf("expected kind %s, got %v", tc.kind, body["kind"])
			}
			if body["request_id"] == nil {
				t.Fatal("expected request id in error body")
			}
		})
	}
}

func TestNonIntegerQuery(t *testing.T) {
	an := &analyzerStub{}
	r := newTestRouter(&marketStub{}, an, "", nil)

	if w := serve(r, http.MethodGet, "/api/analysis/predict/AAPL?days=soon", "", nil); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if an.lastDays != 0 {
		t.Fatal("analyzer should not be called")
	}
}

func TestAPIKeyAuth(t *testing.T) {
	r := newTestRouter(&marketStub{quote: &domain.Quote{Symbol: "AAPL"}}, &analyzerStub{}, "secret", nil)

	if w := serve(r, http.MethodGet, "/api/quote/AAPL", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/api/quote/AAPL", "", map[string]string{"X-API-Key": "nope"}); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/api/quote/AAPL", "", map[string]string{"X-API-Key": "secret"}); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("health should stay open, got %d", w.Code)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	r := newTestRouter(&marketStub{}, &analyzerStub{}, "", nil)
	w := serve(r, http.MethodGet, "/health", "", map[string]string{RequestIDHeader: "abc-123"})
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("expected caller request id, got %q", got)
	}
}

func TestMetricsEndpointAndCounters(t *testing.T) {
	m := metrics.New()
	r := newTestRouter(&marketStub{quote: &domain.Quote{Symbol: "AAPL"}}, &analyzerStub{}, "", m)

	serve(r, http.MethodGet, "/api/quote/AAPL", "", nil)
	serve(r, http.MethodGet, "/api/quote/MSFT", "", nil)

	got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/api/quote/:symbol", "200"))
	if got != 2 {
		t.Fatalf("expected 2 requests counted under the route template, got %v", got)
	}

	w := serve(r, http.MethodGet, "/metrics", "", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "marketlens_http_requests_total") {
		t.Fatalf("expected prometheus exposition, got %d", w.Code)
	}
}

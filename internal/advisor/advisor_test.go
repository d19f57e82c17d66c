package advisor

import (
	"context"
	"errors"
	"strings"
	"testing"

	"market-lens/internal/domain"

	"github.com/openai/openai-go"
	"go.opentelemetry.io/otel/trace"
)

func newTestAnalyzer(llm LLMClient) *DeepAnalyzer {
	return NewDeepAnalyzer(trace.NewNoopTracerProvider().Tracer("test"), llm, "gpt-4o-mini")
}

func completion(content string) *openai.ChatCompletion {
	return &openai.ChatCompletion{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func sampleTrend() *domain.TrendAnalysis {
	rsi := 62.5
	return &domain.TrendAnalysis{
		Symbol:            "AAPL",
		Period:            60,
		Trend:             domain.TrendBullish,
		StrengthScore:     85,
		CurrentPrice:      190,
		ConfidenceLevel:   domain.ConfidenceHigh,
		RecommendedAction: domain.ActionBuy,
		Indicators: domain.IndicatorSet{
			SMA: map[int]float64{20: 185, 50: 180},
			RSI: &rsi,
		},
		SupportLevels:    []float64{180, 171},
		ResistanceLevels: []float64{195, 204.75},
	}
}

func TestEnrichTrendHappyPath(t *testing.T) {
	llm := &stubLLMClient{response: completion("```json\n{\"summary\":\"Momentum is strong.\",\"outlook\":\"Bullish\",\"risks\":[\"overbought soon\",\" \"],\"catalysts\":[\"earnings\"],\"confidence\":1.4}\n```")}

	got, err := newTestAnalyzer(llm).EnrichTrend(context.Background(), sampleTrend())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Summary != "Momentum is strong." || got.Outlook != domain.TrendBullish {
		t.Fatalf("unexpected analysis: %+v", got)
	}
	if len(got.Risks) != 1 || len(got.Catalysts) != 1 {
		t.Fatalf("expected blank entries dropped, got %+v", got)
	}
	if got.Confidence != 1 {
		t.Fatalf("expected confidence clamped to 1, got %v", got.Confidence)
	}
	if got.Model != "llm:gpt-4o-mini" {
		t.Fatalf("unexpected model: %s", got.Model)
	}

	if len(llm.lastParams.Messages) != 2 {
		t.Fatalf("expected system and user messages, got %d", len(llm.lastParams.Messages))
	}
}

func TestEnrichTechnicalLLMError(t *testing.T) {
	llm := &stubLLMClient{err: errors.New("api down")}
	_, err := newTestAnalyzer(llm).EnrichTechnical(context.Background(), &domain.TechnicalAnalysis{Symbol: "MSFT"})
	if err == nil {
		t.Fatal("expected error from LLM failure")
	}
}

func TestEnrichRejectsMalformedReplies(t *testing.T) {
	for _, reply := range []string{"not json", `{"summary":"  "}`} {
		llm := &stubLLMClient{response: completion(reply)}
		if _, err := newTestAnalyzer(llm).EnrichTrend(context.Background(), sampleTrend()); err == nil {
			t.Fatalf("expected error for reply %q", reply)
		}
	}

	empty := &stubLLMClient{response: &openai.ChatCompletion{}}
	if _, err := newTestAnalyzer(empty).EnrichTrend(context.Background(), sampleTrend()); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestNewDeepAnalyzerDefaultModel(t *testing.T) {
	a := NewDeepAnalyzer(trace.NewNoopTracerProvider().Tracer("test"), &stubLLMClient{}, " ")
	if a.model != DefaultModel {
		t.Fatalf("expected default model, got %q", a.model)
	}
}

func TestNormalizeOutlook(t *testing.T) {
	cases := map[string]domain.Trend{
		"bullish":  domain.TrendBullish,
		" BEAR ":   domain.TrendBearish,
		"negative": domain.TrendBearish,
		"sideways": domain.TrendNeutral,
	}
	for in, want := range cases {
		if got := normalizeOutlook(in); got != want {
			t.Fatalf("normalizeOutlook(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestTrimCodeFence(t *testing.T) {
	if got := trimCodeFence("```json\n{}\n```"); got != "{}" {
		t.Fatalf("unexpected trim: %q", got)
	}
	if got := trimCodeFence("  {\"a\":1} "); !strings.HasPrefix(got, "{") {
		t.Fatalf("unexpected trim: %q", got)
	}
}

// --- stubs ---

type stubLLMClient struct {
	response   *openai.ChatCompletion
	err        error
	lastParams openai.ChatCompletionNewParams
}

func (s *stubLLMClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	s.lastParams = params
	return s.response, s.err
}

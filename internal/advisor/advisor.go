package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"market-lens/internal/domain"
	"market-lens/internal/ta"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const DefaultModel = "gpt-4o-mini"

// LLMClient abstracts the OpenAI chat completions API for testability.
type LLMClient interface {
	CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

// DeepAnalyzer asks an LLM for a narrative read of a finished analysis. It
// never changes the computed numbers; it only attaches commentary.
type DeepAnalyzer struct {
	tracer trace.Tracer
	llm    LLMClient
	model  string
}

func NewDeepAnalyzer(tracer trace.Tracer, llm LLMClient, model string) *DeepAnalyzer {
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return &DeepAnalyzer{tracer: tracer, llm: llm, model: model}
}

// EnrichTrend comments on a trend analysis.
func (a *DeepAnalyzer) EnrichTrend(ctx context.Context, res *domain.TrendAnalysis) (*domain.DeepAnalysis, error) {
	ctx, span := a.tracer.Start(ctx, "advisor.enrich-trend")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", res.Symbol))

	return a.complete(ctx, FormatTrendContext(res))
}

// EnrichTechnical comments on a technical analysis.
func (a *DeepAnalyzer) EnrichTechnical(ctx context.Context, res *domain.TechnicalAnalysis) (*domain.DeepAnalysis, error) {
	ctx, span := a.tracer.Start(ctx, "advisor.enrich-technical")
	defer span.End()
	span.SetAttributes(attribute.String("symbol", res.Symbol))

	return a.complete(ctx, FormatTechnicalContext(res))
}

func (a *DeepAnalyzer) complete(ctx context.Context, marketContext string) (*domain.DeepAnalysis, error) {
	ctx, span := a.tracer.Start(ctx, "advisor.llm-call")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", a.model))

	completion, err := a.llm.CreateChatCompletion(ctx, openai.ChatCompletionNewParams{
		Model: a.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(BuildSystemPrompt()),
			openai.UserMessage(marketContext),
		},
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices in LLM response")
	}

	raw := trimCodeFence(completion.Choices[0].Message.Content)
	var parsed struct {
		Summary    string   `json:"summary"`
		Outlook    string   `json:"outlook"`
		Risks      []string `json:"risks"`
		Catalysts  []string `json:"catalysts"`
		Confidence float64  `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("parse deep analysis json: %w", err)
	}
	summary := strings.TrimSpace(parsed.Summary)
	if summary == "" {
		return nil, fmt.Errorf("deep analysis has no summary")
	}
	span.SetAttributes(attribute.Int("llm.reply_length", len(raw)))

	return &domain.DeepAnalysis{
		Summary:    summary,
		Outlook:    normalizeOutlook(parsed.Outlook),
		Risks:      compact(parsed.Risks),
		Catalysts:  compact(parsed.Catalysts),
		Confidence: ta.Clamp(parsed.Confidence, 0, 1),
		Model:      "llm:" + a.model,
	}, nil
}

func normalizeOutlook(label string) domain.Trend {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "bull", "bullish", "positive":
		return domain.TrendBullish
	case "bear", "bearish", "negative":
		return domain.TrendBearish
	default:
		return domain.TrendNeutral
	}
}

func compact(items []string) []string {
	var out []string
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}

func trimCodeFence(v string) string {
	v = strings.TrimSpace(v)
	if strings.HasPrefix(v, "```") {
		v = strings.TrimPrefix(v, "```")
		v = strings.TrimSpace(v)
		if strings.HasPrefix(strings.ToLower(v), "json") {
			v = strings.TrimSpace(v[4:])
		}
		v = strings.TrimSuffix(v, "```")
		v = strings.TrimSpace(v)
	}
	return v
}

// openaiClient wraps the official SDK's chat completions service.
type openaiClient struct {
	client openai.Client
}

func NewOpenAIClient(apiKey string) LLMClient {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &openaiClient{client: client}
}

func (c *openaiClient) CreateChatCompletion(
	ctx context.Context,
	params openai.ChatCompletionNewParams,
) (*openai.ChatCompletion, error) {
	return c.client.Chat.Completions.New(ctx, params)
}

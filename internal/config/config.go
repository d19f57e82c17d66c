package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"market-lens/internal/domain"
)

const (
	DefaultWatchlistCron = "0 22 * * 1-5"
	defaultHTTPPort      = 8080
)

type Config struct {
	HTTPPort             int
	APIKey               string
	RedisURL             string
	RequestTimeoutSecs   int
	YahooRateLimitPerMin int

	MCPTransport          string
	MCPHTTPBind           string
	MCPHTTPPort           int
	MCPAuthToken          string
	MCPRequestTimeoutSecs int

	OpenAIAPIKey            string
	OpenAIModel             string
	DeepAnalysisEnabled     bool
	DeepAnalysisTimeoutSecs int

	TelegramBotToken string
	TelegramChatID   int64

	Watchlist     []string
	WatchlistFile string
	WatchlistCron string

	PredictionSeed *int64
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSecs) * time.Second
}

func (c *Config) MCPRequestTimeout() time.Duration {
	return time.Duration(c.MCPRequestTimeoutSecs) * time.Second
}

func (c *Config) DeepAnalysisTimeout() time.Duration {
	return time.Duration(c.DeepAnalysisTimeoutSecs) * time.Second
}

// Load reads configuration from the environment, falling back to defaults
// and warning about anything missing or malformed.
func Load() *Config {
	cfg := &Config{
		APIKey:           os.Getenv("API_KEY"),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		MCPAuthToken:     os.Getenv("MCP_AUTH_TOKEN"),
		OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		WatchlistFile:    strings.TrimSpace(os.Getenv("WATCHLIST_FILE")),
	}

	if cfg.APIKey == "" {
		log.Println("Warning: API_KEY not set, HTTP API is unauthenticated")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, quote cache disabled")
	}

	cfg.HTTPPort = positiveInt("HTTP_PORT", defaultHTTPPort)
	cfg.RequestTimeoutSecs = positiveInt("REQUEST_TIMEOUT_SECS", 15)
	cfg.YahooRateLimitPerMin = positiveInt("YAHOO_RATE_LIMIT_PER_MIN", 60)

	cfg.MCPTransport = strings.ToLower(strings.TrimSpace(os.Getenv("MCP_TRANSPORT")))
	if cfg.MCPTransport == "" {
		cfg.MCPTransport = "stdio"
	}
	if cfg.MCPTransport != "stdio" && cfg.MCPTransport != "http" {
		log.Printf("Warning: unsupported MCP_TRANSPORT=%q, defaulting to stdio", cfg.MCPTransport)
		cfg.MCPTransport = "stdio"
	}

	cfg.MCPHTTPBind = strings.TrimSpace(os.Getenv("MCP_HTTP_BIND"))
	if cfg.MCPHTTPBind == "" {
		cfg.MCPHTTPBind = "127.0.0.1"
	}
	cfg.MCPHTTPPort = positiveInt("MCP_HTTP_PORT", 8090)
	cfg.MCPRequestTimeoutSecs = positiveInt("MCP_REQUEST_TIMEOUT_SECS", 30)

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}
	cfg.DeepAnalysisEnabled = strings.EqualFold(strings.TrimSpace(os.Getenv("DEEP_ANALYSIS_ENABLED")), "true")
	if cfg.DeepAnalysisEnabled && cfg.OpenAIAPIKey == "" {
		log.Println("Warning: DEEP_ANALYSIS_ENABLED set without OPENAI_API_KEY, deep analysis disabled")
		cfg.DeepAnalysisEnabled = false
	}
	cfg.DeepAnalysisTimeoutSecs = positiveInt("DEEP_ANALYSIS_TIMEOUT_SECS", 20)

	if v := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.TelegramChatID = n
		} else {
			log.Printf("Warning: invalid TELEGRAM_CHAT_ID=%q", v)
		}
	}

	cfg.Watchlist = ParseSymbols(os.Getenv("WATCHLIST"))
	cfg.WatchlistCron = strings.TrimSpace(os.Getenv("WATCHLIST_CRON"))
	if cfg.WatchlistCron == "" {
		cfg.WatchlistCron = DefaultWatchlistCron
	}

	if v := strings.TrimSpace(os.Getenv("PREDICTION_SEED")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.PredictionSeed = &n
		} else {
			log.Printf("Warning: invalid PREDICTION_SEED=%q, predictions will be unseeded", v)
		}
	}

	return cfg
}

// ParseSymbols splits a comma separated list, normalizing each symbol and
// dropping blanks, invalid entries and duplicates.
func ParseSymbols(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		sym, ok := domain.NormalizeSymbol(part)
		if !ok {
			log.Printf("Warning: ignoring invalid watchlist symbol %q", part)
			continue
		}
		if seen[sym] {
			continue
		}
		seen[sym] = true
		out = append(out, sym)
	}
	return out
}

func positiveInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func (c *Config) String() string {
	return fmt.Sprintf("http=:%d redis=%t mcp=%s deep_analysis=%t watchlist=%d",
		c.HTTPPort, c.RedisURL != "", c.MCPTransport, c.DeepAnalysisEnabled, len(c.Watchlist))
}

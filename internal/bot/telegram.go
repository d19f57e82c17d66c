package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"market-lens/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type MarketLookup interface {
	GetQuote(ctx context.Context, symbol string) (*domain.Quote, error)
}

type Analyzer interface {
	AnalyzeTrend(ctx context.Context, symbol string, period int) (*domain.TrendAnalysis, error)
	AnalyzeTechnical(ctx context.Context, symbol string, interval domain.Interval, indicators []string) (*domain.TechnicalAnalysis, error)
	PredictPrice(ctx context.Context, symbol string, days int, historyRange string) (*domain.PricePrediction, error)
}

// Commands renders the chat commands as plain text replies.
type Commands struct {
	market   MarketLookup
	analyzer Analyzer
	timeout  time.Duration
}

func NewCommands(market MarketLookup, analyzer Analyzer, timeout time.Duration) *Commands {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Commands{market: market, analyzer: analyzer, timeout: timeout}
}

func (c *Commands) Quote(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /quote AAPL"
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	q, err := c.market.GetQuote(ctx, args[0])
	if err != nil {
		return fmt.Sprintf("Error fetching quote for %s: %v", strings.ToUpper(args[0]), err)
	}
	return FormatQuote(q)
}

func (c *Commands) Trend(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /trend AAPL [period_days]"
	}
	period := 0
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Sprintf("Period must be a number of trading days, got %q", args[1])
		}
		period = n
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.analyzer.AnalyzeTrend(ctx, args[0], period)
	if err != nil {
		return fmt.Sprintf("Error analyzing trend for %s: %v", strings.ToUpper(args[0]), err)
	}
	return FormatTrend(res)
}

func (c *Commands) Signals(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /signals AAPL [daily|weekly|monthly]"
	}
	var interval domain.Interval
	if len(args) > 1 {
		interval = domain.Interval(strings.ToLower(args[1]))
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.analyzer.AnalyzeTechnical(ctx, args[0], interval, nil)
	if err != nil {
		return fmt.Sprintf("Error computing signals for %s: %v", strings.ToUpper(args[0]), err)
	}
	return FormatTechnical(res)
}

func (c *Commands) Predict(ctx context.Context, args []string) string {
	if len(args) == 0 {
		return "Usage: /predict AAPL [days]"
	}
	days := 7
	if len(args) > 1 {
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Sprintf("Days must be a number, got %q", args[1])
		}
		days = n
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	res, err := c.analyzer.PredictPrice(ctx, args[0], days, "")
	if err != nil {
		return fmt.Sprintf("Error predicting %s: %v", strings.ToUpper(args[0]), err)
	}
	return FormatPrediction(res)
}

// Bot is a running Telegram bot. Send is safe to call from other goroutines.
type Bot struct {
	b *tele.Bot
}

var newTeleBot = tele.NewBot

// StartTelegramBot registers the commands and starts long polling. It
// returns nil without error when token is empty.
func StartTelegramBot(token string, cmds *Commands) (*Bot, error) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return nil, nil
	}
	b, err := newTeleBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("create Telegram bot: %w", err)
	}
	register(b, cmds)

	log.Println("Telegram bot started")
	go b.Start()
	return &Bot{b: b}, nil
}

func register(b *tele.Bot, cmds *Commands) {
	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})
	b.Handle("/start", func(c tele.Context) error {
		return c.Send(helpText)
	})
	b.Handle("/help", func(c tele.Context) error {
		return c.Send(helpText)
	})
	b.Handle("/quote", func(c tele.Context) error {
		return c.Send(cmds.Quote(context.Background(), c.Args()))
	})
	b.Handle("/trend", func(c tele.Context) error {
		return c.Send(cmds.Trend(context.Background(), c.Args()))
	})
	b.Handle("/signals", func(c tele.Context) error {
		return c.Send(cmds.Signals(context.Background(), c.Args()))
	})
	b.Handle("/predict", func(c tele.Context) error {
		return c.Send(cmds.Predict(context.Background(), c.Args()))
	})
}

const helpText = `Commands:
/quote AAPL - latest price
/trend AAPL [days] - trend, strength and action
/signals AAPL [daily|weekly|monthly] - technical signals
/predict AAPL [days] - illustrative price projection`

// Send posts text to a chat. A nil bot drops the message.
func (b *Bot) Send(ctx context.Context, chatID int64, text string) error {
	if b == nil {
		return nil
	}
	_, err := b.b.Send(tele.ChatID(chatID), text)
	return err
}

func (b *Bot) Stop() {
	if b == nil {
		return
	}
	b.b.Stop()
}

package services

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"trade-journal/config"
)

// Quote is a point-in-time price for one symbol.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewsItem is one headline from the market-data provider.
type NewsItem struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"publishedAt"`
}

type globalQuoteResponse struct {
	GlobalQuote struct {
		Symbol        string `json:"01. symbol"`
		Price         string `json:"05. price"`
		Change        string `json:"09. change"`
		ChangePercent string `json:"10. change percent"`
	} `json:"Global Quote"`
	Information string `json:"Information"`
}

type newsFeedResponse struct {
	Feed []struct {
		Title         string `json:"title"`
		Summary       string `json:"summary"`
		URL           string `json:"url"`
		Source        string `json:"source"`
		TimePublished string `json:"time_published"`
	} `json:"feed"`
}

// MarketDataService fetches quotes and news from the provider, falling back
// to a mock random walk whenever the provider fails so dashboards keep
// rendering. No rate limiting or circuit breaking beyond tracking the last
// provider success.
type MarketDataService struct {
	client         *resty.Client
	apiKey         string
	logger         *zap.Logger
	mu             sync.Mutex
	useMock        bool
	lastAPISuccess time.Time
	mockPrices     map[string]float64
}

// NewMarketDataService creates a new market data service.
func NewMarketDataService(cfg config.MarketData, logger *zap.Logger) *MarketDataService {
	return &MarketDataService{
		client:         resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(10 * time.Second),
		apiKey:         cfg.APIKey,
		logger:         logger,
		lastAPISuccess: time.Now(),
		mockPrices: map[string]float64{
			"EURUSD": 1.0850,
			"GBPUSD": 1.2650,
			"USDJPY": 149.50,
			"XAUUSD": 2035.00,
			"BTCUSD": 67200.00,
		},
	}
}

// GetQuote returns the latest price for a symbol, preferring the real
// provider and switching to mock data on failure. After 30 minutes of mock
// data the provider is retried.
func (m *MarketDataService) GetQuote(ctx context.Context, symbol string) (*Quote, error) {
	m.mu.Lock()
	tryReal := !m.useMock || time.Since(m.lastAPISuccess) > 30*time.Minute
	m.mu.Unlock()

	if tryReal && m.apiKey != "" {
		quote, err := m.fetchQuote(ctx, symbol)
		if err == nil {
			m.mu.Lock()
			m.lastAPISuccess = time.Now()
			m.useMock = false
			m.mu.Unlock()
			return quote, nil
		}
		m.logger.Warn("quote provider failed, using mock data",
			zap.String("symbol", symbol), zap.Error(err))
		m.mu.Lock()
		m.useMock = true
		m.mu.Unlock()
	}

	return m.MockQuote(symbol), nil
}

func (m *MarketDataService) fetchQuote(ctx context.Context, symbol string) (*Quote, error) {
	var parsed globalQuoteResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "GLOBAL_QUOTE",
			"symbol":   symbol,
			"apikey":   m.apiKey,
		}).
		SetResult(&parsed).
		Get("/query")
	if err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("quote provider http %d", resp.StatusCode())
	}
	if strings.Contains(parsed.Information, "rate limit") {
		return nil, fmt.Errorf("provider rate limit: %s", parsed.Information)
	}
	if parsed.GlobalQuote.Symbol == "" || parsed.GlobalQuote.Price == "" {
		return nil, fmt.Errorf("no data returned for symbol %s", symbol)
	}

	price, err := strconv.ParseFloat(strings.TrimSpace(parsed.GlobalQuote.Price), 64)
	if err != nil {
		return nil, fmt.Errorf("failed to parse price %q: %w", parsed.GlobalQuote.Price, err)
	}
	change, _ := strconv.ParseFloat(strings.TrimSpace(parsed.GlobalQuote.Change), 64)
	changePercent, _ := strconv.ParseFloat(
		strings.TrimSpace(strings.TrimSuffix(parsed.GlobalQuote.ChangePercent, "%")), 64)

	return &Quote{
		Symbol:        strings.ToUpper(parsed.GlobalQuote.Symbol),
		Price:         price,
		Change:        change,
		ChangePercent: changePercent,
		Timestamp:     time.Now(),
	}, nil
}

// MockQuote generates a realistic random-walk quote without provider calls.
func (m *MarketDataService) MockQuote(symbol string) *Quote {
	m.mu.Lock()
	defer m.mu.Unlock()

	symbol = strings.ToUpper(symbol)
	basePrice, ok := m.mockPrices[symbol]
	if !ok {
		basePrice = 100.0
	}

	changePercent := rand.Float64()*4 - 2 // -2% to +2%
	change := basePrice * changePercent / 100
	newPrice := basePrice + change
	m.mockPrices[symbol] = newPrice

	return &Quote{
		Symbol:        symbol,
		Price:         newPrice,
		Change:        change,
		ChangePercent: changePercent,
		Timestamp:     time.Now(),
	}
}

// Symbols returns the symbols the broadcaster streams.
func (m *MarketDataService) Symbols() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.mockPrices))
	for s := range m.mockPrices {
		out = append(out, s)
	}
	return out
}

// GetNews returns recent market headlines, empty (not an error) when the
// provider has no key configured.
func (m *MarketDataService) GetNews(ctx context.Context, topics string) ([]NewsItem, error) {
	if m.apiKey == "" {
		return []NewsItem{}, nil
	}

	var parsed newsFeedResponse
	resp, err := m.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"function": "NEWS_SENTIMENT",
			"topics":   topics,
			"apikey":   m.apiKey,
		}).
		SetResult(&parsed).
		Get("/query")
	if err != nil {
		return nil, fmt.Errorf("news request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("news provider http %d", resp.StatusCode())
	}

	items := make([]NewsItem, 0, len(parsed.Feed))
	for _, f := range parsed.Feed {
		published, _ := time.Parse("20060102T150405", f.TimePublished)
		items = append(items, NewsItem{
			Title:       f.Title,
			Summary:     f.Summary,
			URL:         f.URL,
			Source:      f.Source,
			PublishedAt: published,
		})
	}
	return items, nil
}

package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mutualfundvibe-source/mfvmarket1/internal/quote"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/source"
)

// Coin is one configured instrument. The upstream is keyed by coin id, not
// ticker symbol, so the symbol and fallback display name ride along.
type Coin struct {
	ID     string
	Symbol string
	Name   string
}

// Config controls the crypto simple-price source.
type Config struct {
	Name      string
	BaseURL   string
	Coins     []Coin
	Currency  string
	Names     map[string]string
	UserAgent string
	Timeout   time.Duration
}

// Source fetches all configured coins in a single batch request. The
// upstream reports price plus a 24h percent change, so the reference price
// is reconstructed from the percent.
type Source struct {
	cfg    Config
	client *resty.Client
}

func New(cfg Config) *Source {
	if cfg.Name == "" {
		cfg.Name = "CoinGecko"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.coingecko.com/api/v3"
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(cfg.Timeout)
	if cfg.UserAgent != "" {
		client.SetHeader("User-Agent", cfg.UserAgent)
	}
	return &Source{cfg: cfg, client: client}
}

func (s *Source) Name() string { return s.cfg.Name }

// Fetch issues one request for the whole coin set. A whole-batch failure is
// returned to the orchestrator; a single coin missing from the response is
// skipped on its own.
func (s *Source) Fetch(ctx context.Context) ([]quote.Quote, error) {
	ids := make([]string, 0, len(s.cfg.Coins))
	for _, c := range s.cfg.Coins {
		ids = append(ids, c.ID)
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ids":                 strings.Join(ids, ","),
			"vs_currencies":       s.cfg.Currency,
			"include_24hr_change": "true",
		}).
		Get("/simple/price")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.cfg.Name, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%s: GET /simple/price -> %d", s.cfg.Name, resp.StatusCode())
	}

	var body map[string]map[string]json.Number
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", s.cfg.Name, err)
	}

	results := make([]source.ItemResult, 0, len(s.cfg.Coins))
	for _, c := range s.cfg.Coins {
		q, err := s.normalize(c, body[c.ID])
		results = append(results, source.ItemResult{Symbol: c.Symbol, Quote: q, Err: err})
	}
	return source.Collect(s.cfg.Name, results), nil
}

func (s *Source) normalize(c Coin, row map[string]json.Number) (quote.Quote, error) {
	if row == nil {
		return quote.Quote{}, fmt.Errorf("coin %q missing from response", c.ID)
	}
	price, ok := quote.ParseNumber(row[s.cfg.Currency].String())
	if !ok {
		return quote.Quote{}, fmt.Errorf("coin %q has no %s price", c.ID, s.cfg.Currency)
	}

	var derived quote.Derived
	if pct, ok := quote.ParseNumber(row[s.cfg.Currency+"_24h_change"].String()); ok {
		derived = quote.FromPercent(price, pct)
	}

	return quote.Quote{
		Symbol:        c.Symbol,
		Name:          quote.DisplayName(s.cfg.Names, c.Symbol, c.Name),
		Price:         price.InexactFloat64(),
		Change:        derived.Change.InexactFloat64(),
		ChangePercent: derived.ChangePercent.InexactFloat64(),
		MarketState:   quote.StateCrypto,
	}, nil
}

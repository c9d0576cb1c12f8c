package stooq

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mutualfundvibe-source/mfvmarket1/internal/httpx"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/quote"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/source"
)

// Config controls the Stooq daily-CSV source. Hosts is the ordered attempt
// list: the first host is the primary, each later one is tried only after
// the previous attempt failed. Names maps symbols to display names.
type Config struct {
	Name    string
	Hosts   []string
	Symbols []string
	Names   map[string]string
	Headers map[string]string
}

// Source fetches the recent daily close history per instrument and derives
// change from the last two closes.
type Source struct {
	cfg    Config
	client *httpx.Client
}

func New(cfg Config, hc *httpx.Client) *Source {
	if cfg.Name == "" {
		cfg.Name = "Stooq"
	}
	if len(cfg.Hosts) == 0 {
		cfg.Hosts = []string{"https://stooq.com", "https://stooq.pl"}
	}
	return &Source{cfg: cfg, client: hc}
}

func (s *Source) Name() string { return s.cfg.Name }

// Fetch queries instruments one by one. A single instrument's failure is
// recorded and skipped; the rest of the batch continues.
func (s *Source) Fetch(ctx context.Context) ([]quote.Quote, error) {
	results := make([]source.ItemResult, 0, len(s.cfg.Symbols))
	for _, sym := range s.cfg.Symbols {
		q, err := s.fetchOne(ctx, sym)
		results = append(results, source.ItemResult{Symbol: sym, Quote: q, Err: err})
	}
	return source.Collect(s.cfg.Name, results), nil
}

// fetchOne folds over the host attempt list until one succeeds.
func (s *Source) fetchOne(ctx context.Context, symbol string) (quote.Quote, error) {
	var lastErr error
	for _, host := range s.cfg.Hosts {
		q, err := s.fetchFromHost(ctx, host, symbol)
		if err == nil {
			return q, nil
		}
		lastErr = err
	}
	return quote.Quote{}, lastErr
}

func (s *Source) fetchFromHost(ctx context.Context, host, symbol string) (quote.Quote, error) {
	u := fmt.Sprintf("%s/q/d/l/?s=%s&i=d", strings.TrimRight(host, "/"), url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return quote.Quote{}, err
	}
	for k, v := range s.cfg.Headers {
		req.Header.Set(k, v)
	}
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return quote.Quote{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return quote.Quote{}, fmt.Errorf("GET %s -> %d", u, resp.StatusCode)
	}

	closes, err := parseCloses(resp.Body)
	if err != nil {
		return quote.Quote{}, err
	}
	price, derived, ok := quote.FromHistory(closes)
	if !ok {
		return quote.Quote{}, fmt.Errorf("no usable close for %q", symbol)
	}
	return quote.Quote{
		Symbol:        symbol,
		Name:          quote.DisplayName(s.cfg.Names, symbol, ""),
		Price:         price.InexactFloat64(),
		Change:        derived.Change.InexactFloat64(),
		ChangePercent: derived.ChangePercent.InexactFloat64(),
		MarketState:   quote.StateDaily,
	}, nil
}

// parseCloses reads a stooq daily CSV body (Date,Open,High,Low,Close,Volume,
// oldest row first) and returns the close column. Unparseable closes in the
// middle of the history are dropped; an unparseable final close is a hard
// failure for the instrument, because there is no current price then.
func parseCloses(r io.Reader) ([]decimal.Decimal, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	closeIdx := 4
	start := 0
	if len(rows) > 0 && looksLikeHeader(rows[0]) {
		for i, f := range rows[0] {
			if strings.EqualFold(strings.TrimSpace(f), "Close") {
				closeIdx = i
			}
		}
		start = 1
	}
	data := rows[start:]
	if len(data) == 0 {
		return nil, fmt.Errorf("empty history")
	}

	closes := make([]decimal.Decimal, 0, len(data))
	for i, row := range data {
		last := i == len(data)-1
		if closeIdx >= len(row) {
			if last {
				return nil, fmt.Errorf("last row has no close column")
			}
			continue
		}
		d, ok := quote.ParseNumber(row[closeIdx])
		if !ok {
			if last {
				return nil, fmt.Errorf("unparseable last close %q", row[closeIdx])
			}
			continue
		}
		closes = append(closes, d)
	}
	return closes, nil
}

func looksLikeHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	_, ok := quote.ParseNumber(row[len(row)-1])
	return !ok && strings.EqualFold(strings.TrimSpace(row[0]), "Date")
}

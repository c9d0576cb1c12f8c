package marketbatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/mutualfundvibe-source/mfvmarket1/internal/quote"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/source"
)

// Config controls the batch quote source.
type Config struct {
	Name    string
	Symbols []string
	Names   map[string]string
}

// Source adapts the batch quote client to the common source contract using
// the single-point-with-baseline strategy: previous close is the reference,
// day open the fallback.
type Source struct {
	cfg    Config
	client *Client
}

func NewSource(cfg Config, client *Client) *Source {
	if cfg.Name == "" {
		cfg.Name = "MarketBatch"
	}
	return &Source{cfg: cfg, client: client}
}

func (s *Source) Name() string { return s.cfg.Name }

// Fetch issues one batch request; a whole-batch failure propagates. Rows are
// normalized in response order, and a row without a usable price is skipped.
func (s *Source) Fetch(ctx context.Context) ([]quote.Quote, error) {
	rows, err := s.client.GetQuotes(ctx, s.cfg.Symbols)
	if err != nil {
		return nil, err
	}

	results := make([]source.ItemResult, 0, len(rows))
	for _, row := range rows {
		q, err := s.normalize(row)
		results = append(results, source.ItemResult{Symbol: row.Symbol, Quote: q, Err: err})
	}
	return source.Collect(s.cfg.Name, results), nil
}

func (s *Source) normalize(row BatchQuote) (quote.Quote, error) {
	price, ok := quote.ParseNumber(row.Price.String())
	if !ok {
		return quote.Quote{}, fmt.Errorf("no price for %q", row.Symbol)
	}

	reference, hasRef := quote.ParseNumber(row.PreviousClose.String())
	if !hasRef {
		reference, hasRef = quote.ParseNumber(row.Open.String())
	}
	derived := quote.Derive(price, reference, hasRef)

	state := quote.StateUnknown
	if strings.EqualFold(row.MarketState, "REGULAR") {
		state = quote.StateRegular
	}

	return quote.Quote{
		Symbol:        row.Symbol,
		Name:          quote.DisplayName(s.cfg.Names, row.Symbol, row.ShortName),
		Price:         price.InexactFloat64(),
		Change:        derived.Change.InexactFloat64(),
		ChangePercent: derived.ChangePercent.InexactFloat64(),
		MarketState:   state,
	}, nil
}

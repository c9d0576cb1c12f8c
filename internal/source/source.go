package source

import (
	"context"
	"log"

	"github.com/mutualfundvibe-source/mfvmarket1/internal/quote"
)

// Source retrieves and normalizes quotes from one upstream data source.
// A Source owns the upstream schema; nothing outside the adapter packages
// knows what the provider's responses look like.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]quote.Quote, error)
}

// ItemResult is the outcome of one instrument inside a per-instrument
// source: a usable record, or the reason the instrument was skipped.
type ItemResult struct {
	Symbol string
	Quote  quote.Quote
	Err    error
}

// Collect filters item results down to usable quotes, preserving order and
// logging one warning per skipped instrument. A skipped instrument never
// affects the rest of the batch.
func Collect(sourceName string, results []ItemResult) []quote.Quote {
	out := make([]quote.Quote, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			log.Printf("%s: skip %s: %v", sourceName, r.Symbol, r.Err)
			continue
		}
		out = append(out, r.Quote)
	}
	return out
}

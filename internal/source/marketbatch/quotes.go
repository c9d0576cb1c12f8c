package marketbatch

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
	"strings"
)

// BatchQuote is one row of the batch quote response. Numeric fields stay
// json.Number until derivation so partially filled rows survive decoding.
type BatchQuote struct {
	Symbol        string      `json:"symbol"`
	ShortName     string      `json:"shortName"`
	Price         json.Number `json:"regularMarketPrice"`
	PreviousClose json.Number `json:"regularMarketPreviousClose"`
	Open          json.Number `json:"regularMarketOpen"`
	MarketState   string      `json:"marketState"`
}

// GetQuotes retrieves current quotes for the given ticker symbols in one
// request, preserving response order.
func (c *Client) GetQuotes(ctx context.Context, symbols []string, opts ...ClientOption) ([]BatchQuote, error) {
	var override = &Client{
		baseURL:    c.baseURL,
		httpClient: c.httpClient,
		header:     c.header.Clone(),
		query:      c.query,
	}
	for _, opt := range opts {
		opt(override)
	}
	if override.baseURL == "" {
		return nil, fmt.Errorf("missing base URL")
	}

	query := maps.Clone(override.query)
	query.Add("symbols", strings.Join(symbols, ","))

	url := fmt.Sprintf("%s/quotes?%s", override.baseURL, query.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = override.header

	res, err := override.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusBadRequest:
		return nil, fmt.Errorf("bad request with symbols=%s", strings.Join(symbols, ","))

	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")

	default:
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	dec := json.NewDecoder(res.Body)
	dec.UseNumber()
	var rows []BatchQuote
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding quotes response: %w", err)
	}
	return rows, nil
}

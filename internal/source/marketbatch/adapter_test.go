package marketbatch_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mutualfundvibe-source/mfvmarket1/internal/source/marketbatch"
)

func newTestSource(t *testing.T, body string) *marketbatch.Source {
	t.Helper()
	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(jsonResponse(http.StatusOK, body), nil).
		Times(1)

	client, err := marketbatch.NewClient(
		marketbatch.WithBaseURL("https://quotes.example/v7"),
		marketbatch.WithHTTPClient(httpClient),
	)
	require.NoError(t, err)
	return marketbatch.NewSource(marketbatch.Config{Symbols: []string{"AAPL", "MSFT"}}, client)
}

func TestSourceFetch_BaselineDerivation(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, `[
		{"symbol":"AAPL","shortName":"Apple Inc.","regularMarketPrice":110,"regularMarketPreviousClose":100,"marketState":"REGULAR"},
		{"symbol":"MSFT","shortName":"Microsoft","regularMarketPrice":210,"regularMarketOpen":200,"marketState":"CLOSED"}
	]`)

	out, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 2)

	aapl := out[0]
	require.Equal(t, "AAPL", aapl.Symbol)
	require.Equal(t, "Apple Inc.", aapl.Name)
	require.Equal(t, 110.0, aapl.Price)
	require.Equal(t, 10.0, aapl.Change)
	require.Equal(t, 10.0, aapl.ChangePercent)
	require.Equal(t, "live/regular", aapl.MarketState)

	// Previous close absent: the day open is the reference.
	msft := out[1]
	require.Equal(t, 10.0, msft.Change)
	require.Equal(t, 5.0, msft.ChangePercent)
	require.Equal(t, "unknown", msft.MarketState)
}

func TestSourceFetch_ZeroBaseline(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, `[
		{"symbol":"NEWIPO","regularMarketPrice":50,"regularMarketPreviousClose":0}
	]`)

	out, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, 50.0, out[0].Price)
	require.Equal(t, 0.0, out[0].Change)
	require.Equal(t, 0.0, out[0].ChangePercent)
}

func TestSourceFetch_RowWithoutPrice_Skipped(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, `[
		{"symbol":"HALTED","regularMarketPreviousClose":100},
		{"symbol":"AAPL","regularMarketPrice":110,"regularMarketPreviousClose":100}
	]`)

	out, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "AAPL", out[0].Symbol)
}

func TestSourceFetch_UppercasedSymbolFallbackName(t *testing.T) {
	t.Parallel()

	s := newTestSource(t, `[{"symbol":"tsla","regularMarketPrice":250}]`)

	out, err := s.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "TSLA", out[0].Name)
}

func TestSourceFetch_BatchFailurePropagates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(jsonResponse(http.StatusBadGateway, ``), nil).
		Times(1)

	client, err := marketbatch.NewClient(
		marketbatch.WithBaseURL("https://quotes.example/v7"),
		marketbatch.WithHTTPClient(httpClient),
	)
	require.NoError(t, err)

	s := marketbatch.NewSource(marketbatch.Config{Symbols: []string{"AAPL"}}, client)
	_, err = s.Fetch(context.Background())
	require.Error(t, err)
}

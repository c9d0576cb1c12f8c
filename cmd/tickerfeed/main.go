package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/mutualfundvibe-source/mfvmarket1/internal/aggregate"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/config"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/httpx"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/source"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/source/coingecko"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/source/marketbatch"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/source/stooq"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/store"
)

func main() {
	// Best-effort .env load for local runs; the scheduler sets real env.
	_ = godotenv.Load()

	var configPath, outPath, userAgent string
	var timeout int
	flag.StringVar(&configPath, "config", "", "path to config.json (optional)")
	flag.StringVar(&outPath, "out", "", "output file path (overrides config)")
	flag.StringVar(&userAgent, "user-agent", "", "identifying User-Agent override")
	flag.IntVar(&timeout, "timeout", 0, "request timeout seconds (overrides config)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if outPath != "" {
		cfg.Output.Path = outPath
	}
	if userAgent != "" {
		cfg.HTTP.UserAgent = userAgent
	}
	if timeout > 0 {
		cfg.HTTP.RequestTimeoutSec = timeout
	}

	reqTimeout := time.Duration(cfg.HTTP.RequestTimeoutSec) * time.Second
	httpClient := httpx.New(reqTimeout)
	if cfg.HTTP.UserAgent != "" {
		httpClient.UserAgent = cfg.HTTP.UserAgent
	}

	sources := make([]source.Source, 0, 3)
	if cfg.Stooq.Enabled {
		sources = append(sources, stooq.New(stooq.Config{
			Hosts:   cfg.Stooq.Hosts,
			Symbols: cfg.Stooq.Symbols,
			Names:   cfg.Names,
		}, httpClient))
	}
	if cfg.CoinGecko.Enabled {
		coins := make([]coingecko.Coin, 0, len(cfg.CoinGecko.Coins))
		for _, c := range cfg.CoinGecko.Coins {
			coins = append(coins, coingecko.Coin{ID: c.ID, Symbol: c.Symbol, Name: c.Name})
		}
		sources = append(sources, coingecko.New(coingecko.Config{
			BaseURL:   cfg.CoinGecko.Endpoint,
			Coins:     coins,
			Currency:  cfg.CoinGecko.Currency,
			Names:     cfg.Names,
			UserAgent: httpClient.UserAgent,
			Timeout:   reqTimeout,
		}))
	}
	if cfg.MarketBatch.Enabled && cfg.MarketBatch.Endpoint != "" {
		client, err := marketbatch.NewClient(
			marketbatch.WithBaseURL(cfg.MarketBatch.Endpoint),
			marketbatch.WithHTTPClient(httpClient.HTTP),
			marketbatch.WithHeader(http.Header{
				"User-Agent": []string{httpClient.UserAgent},
			}),
		)
		if err != nil {
			log.Fatalf("marketbatch client: %v", err)
		}
		sources = append(sources, marketbatch.NewSource(marketbatch.Config{
			Symbols: cfg.MarketBatch.Symbols,
			Names:   cfg.Names,
		}, client))
	}

	ctx, cancel := context.WithTimeout(context.Background(), reqTimeout+5*time.Second)
	defer cancel()

	runner := &aggregate.Runner{Sources: sources, Zone: config.Zone()}
	payload := runner.Run(ctx)
	log.Printf("aggregated %d quotes from %d sources", len(payload.Items), len(sources))

	// Persistence is the only condition allowed to fail the job, and even
	// then an empty shell is attempted first.
	if err := store.Write(cfg.Output.Path, payload); err != nil {
		log.Printf("write %s: %v", cfg.Output.Path, err)
		if err := store.WriteFallback(cfg.Output.Path, payload.GeneratedAt); err != nil {
			log.Fatalf("fallback write %s: %v", cfg.Output.Path, err)
		}
	}
}

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

type HTTP struct {
	RequestTimeoutSec int    `json:"request_timeout_sec"`
	UserAgent         string `json:"user_agent"`
}

type Output struct {
	Path string `json:"path"`
}

type Stooq struct {
	Enabled bool     `json:"enabled"`
	Hosts   []string `json:"hosts"`
	Symbols []string `json:"symbols"`
}

type Coin struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

type CoinGecko struct {
	Enabled  bool   `json:"enabled"`
	Endpoint string `json:"endpoint"`
	Currency string `json:"currency"`
	Coins    []Coin `json:"coins"`
}

type MarketBatch struct {
	Enabled  bool     `json:"enabled"`
	Endpoint string   `json:"endpoint"`
	Symbols  []string `json:"symbols"`
}

type Config struct {
	HTTP        HTTP              `json:"http"`
	Output      Output            `json:"output"`
	Stooq       Stooq             `json:"stooq"`
	CoinGecko   CoinGecko         `json:"coingecko"`
	MarketBatch MarketBatch       `json:"marketbatch"`
	Names       map[string]string `json:"names"`
}

// Zone is the fixed civil offset generatedAt is rendered in.
func Zone() *time.Location {
	return time.FixedZone("IST", 5*3600+30*60)
}

// Default is the compiled-in instrument set and display-name table. The
// batch quote source ships disabled because it needs an endpoint.
func Default() Config {
	return Config{
		HTTP: HTTP{RequestTimeoutSec: 15},
		Output: Output{Path: "ticker.json"},
		Stooq: Stooq{
			Enabled: true,
			Hosts:   []string{"https://stooq.com", "https://stooq.pl"},
			Symbols: []string{"^spx", "^dji", "^ixic", "xauusd", "usdinr"},
		},
		CoinGecko: CoinGecko{
			Enabled:  true,
			Endpoint: "https://api.coingecko.com/api/v3",
			Currency: "usd",
			Coins: []Coin{
				{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin"},
				{ID: "ethereum", Symbol: "eth", Name: "Ethereum"},
				{ID: "solana", Symbol: "sol", Name: "Solana"},
			},
		},
		MarketBatch: MarketBatch{
			Enabled:  false,
			Endpoint: "",
			Symbols:  []string{"AAPL", "MSFT", "TSLA"},
		},
		Names: map[string]string{
			"^spx":   "S&P 500",
			"^dji":   "Dow Jones",
			"^ixic":  "Nasdaq",
			"xauusd": "Gold",
			"usdinr": "USD/INR",
			"btc":    "Bitcoin",
			"eth":    "Ethereum",
			"sol":    "Solana",
		},
	}
}

// Load reads JSON config from path. If path is empty or the file does not
// exist, it returns defaults. Environment variables override select fields.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MFV_OUTPUT"); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv("MFV_USER_AGENT"); v != "" {
		cfg.HTTP.UserAgent = v
	}
	if v := os.Getenv("MFV_REQUEST_TIMEOUT_SEC"); v != "" {
		var x int
		fmt.Sscanf(v, "%d", &x)
		if x > 0 {
			cfg.HTTP.RequestTimeoutSec = x
		}
	}
	if v := os.Getenv("STOOQ_ENABLED"); v != "" {
		cfg.Stooq.Enabled = parseBool(v, cfg.Stooq.Enabled)
	}
	if v := os.Getenv("STOOQ_HOSTS"); v != "" {
		cfg.Stooq.Hosts = splitCSV(v)
	}
	if v := os.Getenv("STOOQ_SYMBOLS"); v != "" {
		cfg.Stooq.Symbols = splitCSV(v)
	}
	if v := os.Getenv("COINGECKO_ENABLED"); v != "" {
		cfg.CoinGecko.Enabled = parseBool(v, cfg.CoinGecko.Enabled)
	}
	if v := os.Getenv("COINGECKO_ENDPOINT"); v != "" {
		cfg.CoinGecko.Endpoint = v
	}
	if v := os.Getenv("COINGECKO_CURRENCY"); v != "" {
		cfg.CoinGecko.Currency = v
	}
	if v := os.Getenv("MARKETBATCH_ENABLED"); v != "" {
		cfg.MarketBatch.Enabled = parseBool(v, cfg.MarketBatch.Enabled)
	}
	if v := os.Getenv("MARKETBATCH_ENDPOINT"); v != "" {
		cfg.MarketBatch.Endpoint = v
	}
	if v := os.Getenv("MARKETBATCH_SYMBOLS"); v != "" {
		cfg.MarketBatch.Symbols = splitCSV(v)
	}
}

func parseBool(v string, def bool) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true
	case "0", "false", "no", "n":
		return false
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

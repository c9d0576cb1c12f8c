package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mutualfundvibe-source/mfvmarket1/internal/config"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/httpx"
)

// Debug tool: dump the raw daily CSV rows stooq returns for each symbol,
// so upstream format drift can be inspected without running the full job.
func main() {
	var (
		symbolsCSV string
		host       string
		cfgPath    string
		timeoutSec int
		tail       int
	)
	flag.StringVar(&symbolsCSV, "symbols", "", "comma-separated stooq symbols (defaults to configured set)")
	flag.StringVar(&host, "host", "", "stooq host override")
	flag.StringVar(&cfgPath, "config", "", "path to config.json (optional)")
	flag.IntVar(&timeoutSec, "timeout", 15, "HTTP timeout seconds")
	flag.IntVar(&tail, "tail", 5, "print only the last N rows per symbol")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	symbols := cfg.Stooq.Symbols
	if symbolsCSV != "" {
		symbols = strings.Split(symbolsCSV, ",")
	}
	if host == "" {
		host = "https://stooq.com"
		if len(cfg.Stooq.Hosts) > 0 {
			host = cfg.Stooq.Hosts[0]
		}
	}

	hc := httpx.New(time.Duration(timeoutSec) * time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec*len(symbols)+5)*time.Second)
	defer cancel()

	for _, sym := range symbols {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		rows, err := dump(ctx, hc, host, sym)
		if err != nil {
			log.Printf("%s: %v", sym, err)
			continue
		}
		if tail > 0 && len(rows) > tail {
			rows = rows[len(rows)-tail:]
		}
		fmt.Fprintf(os.Stdout, "== %s (%d rows shown)\n", sym, len(rows))
		for _, row := range rows {
			fmt.Println(strings.Join(row, ","))
		}
	}
}

func dump(ctx context.Context, hc *httpx.Client, host, symbol string) ([][]string, error) {
	u := fmt.Sprintf("%s/q/d/l/?s=%s&i=d", strings.TrimRight(host, "/"), url.QueryEscape(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := hc.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2<<10))
		return nil, fmt.Errorf("GET %s -> %d: %s", u, resp.StatusCode, string(b))
	}
	cr := csv.NewReader(resp.Body)
	cr.FieldsPerRecord = -1
	return cr.ReadAll()
}

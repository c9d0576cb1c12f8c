package quote

import "strings"

// Market state tags. Purely informational; nothing downstream branches on them.
const (
	StateDaily   = "daily snapshot"
	StateRegular = "live/regular"
	StateCrypto  = "crypto"
	StateUnknown = "unknown"
)

// Quote is the normalized shape produced by all sources.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	MarketState   string  `json:"marketState"`
}

// Payload is one complete run's output, consumed by the ticker bar.
// Items is never nil in a persisted payload.
type Payload struct {
	GeneratedAt string  `json:"generatedAt"`
	Items       []Quote `json:"items"`
}

// DisplayName resolves the human-readable label for a symbol.
// Precedence: lookup-table entry, then the name the source itself provided,
// then the symbol uppercased.
func DisplayName(table map[string]string, symbol, sourceName string) string {
	if n := table[symbol]; n != "" {
		return n
	}
	if n := strings.TrimSpace(sourceName); n != "" {
		return n
	}
	return strings.ToUpper(symbol)
}

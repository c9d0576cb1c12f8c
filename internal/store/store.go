package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mutualfundvibe-source/mfvmarket1/internal/quote"
)

// Write marshals the payload as pretty-printed JSON and replaces path
// atomically via a temp file in the same directory, so a concurrent reader
// never observes truncated JSON. Items is forced to an empty array rather
// than null.
func Write(path string, p quote.Payload) error {
	if p.Items == nil {
		p.Items = []quote.Quote{}
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".ticker-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}

// WriteFallback persists the empty-shell payload carrying only a timestamp.
// It is the last attempt before the job is allowed to fail.
func WriteFallback(path, generatedAt string) error {
	return Write(path, quote.Payload{GeneratedAt: generatedAt, Items: []quote.Quote{}})
}

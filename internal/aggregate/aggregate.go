package aggregate

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mutualfundvibe-source/mfvmarket1/internal/quote"
	"github.com/mutualfundvibe-source/mfvmarket1/internal/source"
)

// TimeLayout is the generatedAt rendering: local civil time with an
// explicit offset suffix, never UTC.
const TimeLayout = "2006-01-02T15:04:05-07:00"

// Runner fans all configured sources out, waits for every one of them to
// settle, and merges their quotes in declaration order. A failed source
// contributes nothing beyond a warning; Run itself cannot fail.
type Runner struct {
	Sources []source.Source
	Zone    *time.Location
	Now     func() time.Time
}

// Run executes one aggregation pass and returns the payload to persist.
// generatedAt is stamped at finalization time, after every source settled.
func (r *Runner) Run(ctx context.Context) quote.Payload {
	slots := make([][]quote.Quote, len(r.Sources))

	var g errgroup.Group
	for i, s := range r.Sources {
		i, s := i, s
		g.Go(func() error {
			qs, err := s.Fetch(ctx)
			if err != nil {
				log.Printf("%s: %v", s.Name(), err)
				return nil
			}
			slots[i] = qs
			return nil
		})
	}
	// Goroutines swallow their own errors, so this join is all-settle.
	_ = g.Wait()

	n := 0
	for _, qs := range slots {
		n += len(qs)
	}
	items := make([]quote.Quote, 0, n)
	for _, qs := range slots {
		items = append(items, qs...)
	}

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}
	zone := r.Zone
	if zone == nil {
		zone = time.Local
	}
	return quote.Payload{
		GeneratedAt: now().In(zone).Format(TimeLayout),
		Items:       items,
	}
}

package remote

import (
	"context"
	"time"

	"bloodlink/internal/domain"
	"bloodlink/internal/stats"
)

// Summarizer serves the dashboard summary with a single stats call instead of
// one call per aggregate.
type Summarizer struct {
	client *Client
	loc    *time.Location
}

// Summarizer binds the client to the zone that defines "today".
func (c *Client) Summarizer(loc *time.Location) *Summarizer {
	if loc == nil {
		loc = time.UTC
	}
	return &Summarizer{client: c, loc: loc}
}

func (s *Summarizer) Summary(ctx context.Context, now time.Time) (domain.StatsSummary, error) {
	return s.client.Snapshot(ctx, stats.StartOfDay(now, s.loc))
}

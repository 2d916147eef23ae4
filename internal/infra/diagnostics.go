package infra

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"bloodlink/internal/sqlinline"
)

// ProbeTimeout bounds the diagnostic round trip.
const ProbeTimeout = 5 * time.Second

// ProbeResult is what a live round trip to the database reports.
type ProbeResult struct {
	Time     time.Time
	Database string
	Latency  time.Duration
}

// Probe runs `select now(), current_database()` once.
func Probe(ctx context.Context, db SQLExecutor) (ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()

	start := time.Now()
	var res ProbeResult
	if err := db.QueryRow(ctx, sqlinline.QProbe).Scan(&res.Time, &res.Database); err != nil {
		return ProbeResult{}, fmt.Errorf("probe database: %w", err)
	}
	res.Latency = time.Since(start)
	return res, nil
}

// Ping checks connectivity with the cheapest possible statement.
func Ping(ctx context.Context, db SQLExecutor) error {
	ctx, cancel := context.WithTimeout(ctx, ProbeTimeout)
	defer cancel()
	var one int
	if err := db.QueryRow(ctx, sqlinline.QPing).Scan(&one); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// MaskDatabaseURL renders a connection URL with its password replaced by
// "***". Anything that is not a postgres URL reports "Invalid URL format".
func MaskDatabaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "postgres://") && !strings.HasPrefix(raw, "postgresql://") {
		return "Invalid URL format"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "Invalid URL format"
	}
	cfg, err := pgconn.ParseConfig(raw)
	if err != nil {
		return "Invalid URL format"
	}
	var b strings.Builder
	b.WriteString("postgresql://")
	if u.User != nil && u.User.Username() != "" {
		b.WriteString(u.User.Username())
		if _, ok := u.User.Password(); ok {
			b.WriteString(":***")
		}
		b.WriteString("@")
	}
	b.WriteString(cfg.Host)
	if cfg.Port != 0 {
		fmt.Fprintf(&b, ":%d", cfg.Port)
	}
	b.WriteString("/")
	b.WriteString(cfg.Database)
	return b.String()
}

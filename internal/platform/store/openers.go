package store

import (
	"context"
	"fmt"
	"time"

	chx "github.com/mincheuk/road2air-icn-smart-services/internal/platform/store/ch"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/store/pg"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/store/rds"
)

// openPG opens pg, pings with backoff, and wraps it with our sql adapter
func openPG(ctx context.Context, cfg Config, s *Store) (SQL, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}

	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		AppName:  cfg.AppName,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}

	attempts := cfg.PG.ConnectRetries
	if attempts <= 0 {
		attempts = 20
	}
	pingTimeout := cfg.PG.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 3 * time.Second
	}
	const (
		backoffStart   = 150 * time.Millisecond
		backoffCeiling = 2 * time.Second
	)

	var lastErr error
	backoff := backoffStart
	for i := 0; i < attempts; i++ {
		toCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = p.Pool.Ping(toCtx) // pool directly, so boot pings stay out of the trace log
		cancel()

		if lastErr == nil {
			return newPGAdapter(p), nil
		}
		s.Log.Debug().Err(lastErr).Int("attempt", i+1).Msg("postgres not ready")
		select {
		case <-ctx.Done():
			p.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff = min(backoff*2, backoffCeiling)
	}

	p.Close()
	return nil, fmt.Errorf("postgres ping failed after %d attempts: %w", attempts, lastErr)
}

func openCH(ctx context.Context, cfg Config, _ *Store) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{
		URL:        cfg.CH.URL,
		ClientInfo: chx.BuildClientInfo(cfg.CH.Role, cfg.AppName),
	})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}

func openRDS(ctx context.Context, cfg Config, _ *Store) (Streams, error) {
	r, err := rds.Open(ctx, rds.Config{URL: cfg.RDS.URL})
	if err != nil {
		return nil, err
	}
	return r, nil
}

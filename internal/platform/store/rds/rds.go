// Package rds provides a redis client for stream appends
package rds

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures the redis client
type Config struct {
	URL          string // redis://[:password@]host:port/db
	DialTimeout  time.Duration
	WriteTimeout time.Duration
}

// RDS wraps a go-redis client
type RDS struct {
	Client *redis.Client
}

// Open parses the URL and builds a client; go-redis connects on first use
func Open(_ context.Context, cfg Config) (*RDS, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}
	if cfg.WriteTimeout > 0 {
		opts.WriteTimeout = cfg.WriteTimeout
	}
	return &RDS{Client: redis.NewClient(opts)}, nil
}

// XAdd appends one entry to stream, trimming it to roughly maxLen entries
// when maxLen > 0, and returns the entry id
func (r *RDS) XAdd(ctx context.Context, stream string, maxLen int64, values map[string]any) (string, error) {
	args := &redis.XAddArgs{Stream: stream, Values: values}
	if maxLen > 0 {
		args.MaxLen = maxLen
		args.Approx = true
	}
	return r.Client.XAdd(ctx, args).Result()
}

// Ping verifies connectivity
func (r *RDS) Ping(ctx context.Context) error { return r.Client.Ping(ctx).Err() }

// Close closes the client pool
func (r *RDS) Close() error {
	if r == nil || r.Client == nil {
		return nil
	}
	return r.Client.Close()
}

package sink

import (
	"context"
	"fmt"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/publish"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/store"
)

// Outbox writes each batch as one row of a postgres outbox table; a relay
// downstream forwards rows to consumers
type Outbox struct {
	DB    store.SQL
	Table string
}

// EnsureSchema creates the outbox table when missing
func (o *Outbox) EnsureSchema(ctx context.Context) error {
	_, err := o.DB.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id           BIGSERIAL PRIMARY KEY,
		run_id       UUID        NOT NULL UNIQUE,
		pipeline     TEXT        NOT NULL,
		sink         TEXT        NOT NULL,
		record_count INTEGER     NOT NULL,
		payload      JSONB       NOT NULL,
		published_at TIMESTAMPTZ NOT NULL
	)`, o.table()))
	if err != nil {
		return perr.FromPostgresf(err, "create %s", o.table())
	}
	_, err = o.DB.Exec(ctx, fmt.Sprintf(
		`CREATE INDEX IF NOT EXISTS %[1]s_pipeline_published_idx ON %[1]s (pipeline, published_at DESC)`, o.table()))
	if err != nil {
		return perr.FromPostgresf(err, "index %s", o.table())
	}
	return nil
}

// Check reports whether the outbox table exists
func (o *Outbox) Check(ctx context.Context) error {
	var ok bool
	if err := o.DB.QueryRow(ctx, `SELECT to_regclass($1) IS NOT NULL`, o.table()).Scan(&ok); err != nil {
		return perr.FromPostgresf(err, "check %s", o.table())
	}
	if !ok {
		return perr.Configf("outbox table %s missing", o.table())
	}
	return nil
}

// Send implements publish.Sink. A replayed run id is a no-op
func (o *Outbox) Send(ctx context.Context, b publish.Batch) error {
	_, err := o.DB.Exec(ctx, fmt.Sprintf(`INSERT INTO %s
		(run_id, pipeline, sink, record_count, payload, published_at)
		VALUES ($1, $2, $3, $4, $5::jsonb, $6)
		ON CONFLICT (run_id) DO NOTHING`, o.table()),
		b.RunID, b.Pipeline, b.Name, b.Count, string(b.Payload), b.PublishedAt,
	)
	if err != nil {
		if perr.IsUndefinedTable(err) {
			return perr.Wrapf(err, perr.ErrorCodeConfig, "outbox table %s missing", o.table())
		}
		return wrap(perr.FromPostgres(err, "insert outbox row"), "pg", b.Name)
	}
	return nil
}

func (o *Outbox) table() string {
	if o.Table == "" {
		return defaultTable
	}
	return o.Table
}

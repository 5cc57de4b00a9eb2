package sink

import (
	"context"
	"fmt"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/publish"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/store"
)

// Columnar appends each batch as one row of a clickhouse MergeTree table
type Columnar struct {
	CH    store.Clickhouse
	Table string
}

// EnsureSchema creates the events table when missing
func (c *Columnar) EnsureSchema(ctx context.Context) error {
	err := c.CH.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		run_id       UUID,
		pipeline     LowCardinality(String),
		sink         LowCardinality(String),
		record_count UInt32,
		payload      String,
		published_at DateTime64(3, 'UTC')
	) ENGINE = MergeTree
	ORDER BY (pipeline, published_at)`, c.table()))
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "create %s", c.table())
	}
	return nil
}

// Check reports whether the events table exists
func (c *Columnar) Check(ctx context.Context) error {
	rows, err := c.CH.Query(ctx, "EXISTS TABLE "+c.table())
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "check %s", c.table())
	}
	defer rows.Close()
	var exists uint8
	if rows.Next() {
		if err := rows.Scan(&exists); err != nil {
			return perr.Wrapf(err, perr.ErrorCodeDB, "check %s", c.table())
		}
	}
	if err := rows.Err(); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "check %s", c.table())
	}
	if exists != 1 {
		return perr.Configf("events table %s missing", c.table())
	}
	return nil
}

// Send implements publish.Sink
func (c *Columnar) Send(ctx context.Context, b publish.Batch) error {
	row := []any{b.RunID, b.Pipeline, b.Name, uint32(b.Count), string(b.Payload), b.PublishedAt.UTC()}
	if err := c.CH.Insert(ctx, c.table(), [][]any{row}); err != nil {
		return wrap(err, "clickhouse", b.Name)
	}
	return nil
}

func (c *Columnar) table() string {
	if c.Table == "" {
		return defaultTable
	}
	return c.Table
}

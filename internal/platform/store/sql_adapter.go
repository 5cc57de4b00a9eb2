package store

import (
	"context"
	"errors"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/store/pg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgAdapter wraps pg.PG and implements SQL
// it emits query trace events when a tracer is configured on pg.PG
type pgAdapter struct {
	p *pg.PG
}

var _ SQL = (*pgAdapter)(nil)

func newPGAdapter(p *pg.PG) *pgAdapter { return &pgAdapter{p: p} }

func (a *pgAdapter) Ping(ctx context.Context) error {
	if a == nil || a.p == nil || a.p.Pool == nil {
		return errors.New("pg: nil adapter")
	}
	return a.p.Pool.Ping(ctx)
}

func (a *pgAdapter) Close() error { a.p.Close(); return nil }

func (a *pgAdapter) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	start := time.Now()
	ct, err := a.p.Pool.Exec(ctx, sql, args...)
	a.emit(ctx, sql, len(args), start, err)
	return tag{ct}, err
}

func (a *pgAdapter) QueryRow(ctx context.Context, sql string, args ...any) Row {
	start := time.Now()
	r := a.p.Pool.QueryRow(ctx, sql, args...)
	// timing covers Scan so the tracer sees the row error too
	return row{
		r: r,
		after: func(scanErr error) {
			a.emit(ctx, sql, len(args), start, scanErr)
		},
	}
}

func (a *pgAdapter) emit(ctx context.Context, sql string, nargs int, start time.Time, err error) {
	if a == nil || a.p == nil || a.p.Tracer == nil {
		return
	}
	elapsedUS := time.Since(start).Microseconds()
	a.p.Tracer.OnQuery(ctx, pg.QueryEvent{
		SQL:       sql,
		Args:      nargs,
		ElapsedUS: elapsedUS,
		Err:       err,
		Slow:      a.p.SlowMs > 0 && elapsedUS >= int64(a.p.SlowMs)*1000,
	})
}

type row struct {
	r     pgx.Row
	after func(error)
}

func (x row) Scan(dst ...any) error {
	err := x.r.Scan(dst...)
	if x.after != nil {
		x.after(err)
	}
	return err
}

// tag wraps pgconn.CommandTag so we satisfy our CommandTag interface
type tag struct{ t pgconn.CommandTag }

func (t tag) String() string      { return t.t.String() }
func (t tag) RowsAffected() int64 { return t.t.RowsAffected() }

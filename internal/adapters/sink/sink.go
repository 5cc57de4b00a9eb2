// Package sink implements publish.Sink over the configured event-stream backend
package sink

import (
	"context"
	"strings"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/publish"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/store"
)

// Kind names a sink backend
type Kind string

// Supported kinds
const (
	KindRedis      Kind = "redis"
	KindPG         Kind = "pg"
	KindClickhouse Kind = "clickhouse"
	KindLog        Kind = "log"
)

// Kinds lists every kind accepted by Open, for config enums
var Kinds = []string{string(KindRedis), string(KindPG), string(KindClickhouse), string(KindLog)}

// Options tune the backend sinks
type Options struct {
	StreamPrefix string // redis stream key prefix, e.g. "road2air:"
	MaxLen       int64  // approximate redis stream cap, 0 = unbounded
	Table        string // pg / clickhouse table, default pipeline_events
}

const defaultTable = "pipeline_events"

// Open picks the sink for kind from the opened store. The backend for kind
// must have been enabled when the store was opened
func Open(kind Kind, st *store.Store, o Options) (publish.Sink, error) {
	if o.Table == "" {
		o.Table = defaultTable
	}
	switch Kind(strings.ToLower(string(kind))) {
	case KindRedis:
		if st == nil || st.RDS == nil {
			return nil, perr.Configf("sink %s: redis not configured", kind)
		}
		return &Redis{Streams: st.RDS, Prefix: o.StreamPrefix, MaxLen: o.MaxLen}, nil
	case KindPG:
		if st == nil || st.PG == nil {
			return nil, perr.Configf("sink %s: postgres not configured", kind)
		}
		return &Outbox{DB: st.PG, Table: o.Table}, nil
	case KindClickhouse:
		if st == nil || st.CH == nil {
			return nil, perr.Configf("sink %s: clickhouse not configured", kind)
		}
		return &Columnar{CH: st.CH, Table: o.Table}, nil
	case KindLog:
		return NewLog(), nil
	default:
		return nil, perr.Configf("unknown sink kind %q", kind)
	}
}

// Schema is implemented by sinks that can create their table
type Schema interface {
	EnsureSchema(ctx context.Context) error
}

// Checker is implemented by sinks that can verify their table before a run
type Checker interface {
	Check(ctx context.Context) error
}

// wrap classifies a backend failure as a publish error, keeping the cause for Retryable
func wrap(err error, backend, name string) error {
	return perr.Wrapf(err, perr.ErrorCodePublish, "%s sink %s", backend, name)
}

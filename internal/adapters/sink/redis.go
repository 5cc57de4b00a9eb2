package sink

import (
	"context"
	"strconv"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/publish"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/logger"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/store"
)

// Redis appends each batch as one stream entry under Prefix+batch name
type Redis struct {
	Streams store.Streams
	Prefix  string
	MaxLen  int64
}

// Send implements publish.Sink
func (r *Redis) Send(ctx context.Context, b publish.Batch) error {
	stream := r.Prefix + b.Name
	id, err := r.Streams.XAdd(ctx, stream, r.MaxLen, map[string]any{
		"payload":      string(b.Payload),
		"run_id":       b.RunID,
		"pipeline":     b.Pipeline,
		"count":        strconv.Itoa(b.Count),
		"published_at": b.PublishedAt.UTC().Format(time.RFC3339Nano),
	})
	if err != nil {
		return wrap(err, "redis", stream)
	}
	logger.C(ctx).Debug().Str("stream", stream).Str("entry_id", id).Msg("stream entry added")
	return nil
}

package sink

import (
	"context"
	"sync"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/publish"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/logger"
	pstrings "github.com/mincheuk/road2air-icn-smart-services/internal/platform/strings"
)

const previewLen = 512

// Log only logs batches; used for dry runs
type Log struct{}

// NewLog returns a log-only sink
func NewLog() *Log { return &Log{} }

// Send implements publish.Sink
func (*Log) Send(ctx context.Context, b publish.Batch) error {
	logger.C(ctx).Info().
		Str("sink", b.Name).
		Int("records", b.Count).
		Int("bytes", len(b.Payload)).
		Str("preview", pstrings.Truncate(string(b.Payload), previewLen)).
		Msg("dry run batch")
	return nil
}

// Memory keeps batches in process, for tests and the once mode
type Memory struct {
	mu      sync.Mutex
	batches []publish.Batch
}

// Send implements publish.Sink
func (m *Memory) Send(_ context.Context, b publish.Batch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b.Payload = append([]byte(nil), b.Payload...)
	m.batches = append(m.batches, b)
	return nil
}

// Batches returns a copy of everything sent so far
func (m *Memory) Batches() []publish.Batch {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]publish.Batch(nil), m.batches...)
}

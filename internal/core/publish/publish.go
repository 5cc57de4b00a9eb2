// Package publish serializes one run's records and hands them to a sink
package publish

import (
	"bytes"
	"context"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/logger"
)

// Batch is what a sink receives: one JSON array per run plus delivery metadata
type Batch struct {
	Name        string // stream / topic / table key the pipeline publishes to
	Pipeline    string
	RunID       string
	Count       int
	Payload     []byte
	PublishedAt time.Time
}

// Sink accepts exactly one batch per call
type Sink interface {
	Send(ctx context.Context, b Batch) error
}

// SinkFunc adapts a function to Sink
type SinkFunc func(ctx context.Context, b Batch) error

// Send implements Sink
func (f SinkFunc) Send(ctx context.Context, b Batch) error { return f(ctx, b) }

// Request is one publish call
type Request struct {
	Name     string
	Pipeline string
	RunID    string
	Records  []record.Record
	// Empty batches are sent as [] when set, skipped otherwise
	PublishEmpty bool
}

// Result reports what reached the sink
type Result struct {
	Sent    bool
	Count   int
	Bytes   int
	Skipped bool
}

// Publisher wraps a Sink
type Publisher struct {
	sink Sink
	now  func() time.Time
}

// New returns a Publisher over s
func New(s Sink) *Publisher {
	return &Publisher{sink: s, now: time.Now}
}

// Publish encodes r.Records and sends them in one call
func (p *Publisher) Publish(ctx context.Context, r Request) (Result, error) {
	log := logger.C(ctx)
	if len(r.Records) == 0 && !r.PublishEmpty {
		log.Warn().Str("sink", r.Name).Msg("no records collected, nothing published")
		return Result{Skipped: true}, nil
	}

	payload, err := Encode(r.Records)
	if err != nil {
		return Result{}, perr.Wrap(err, perr.ErrorCodePublish, "encode batch")
	}
	b := Batch{
		Name:        r.Name,
		Pipeline:    r.Pipeline,
		RunID:       r.RunID,
		Count:       len(r.Records),
		Payload:     payload,
		PublishedAt: p.now(),
	}
	if err := p.sink.Send(ctx, b); err != nil {
		if perr.IsCode(err, perr.ErrorCodePublish) {
			return Result{}, err
		}
		return Result{}, perr.Wrapf(err, perr.ErrorCodePublish, "send to %s", r.Name)
	}
	log.Info().Str("sink", r.Name).Int("records", b.Count).Int("bytes", len(payload)).Msg("batch published")
	return Result{Sent: true, Count: b.Count, Bytes: len(payload)}, nil
}

// Encode renders records as one JSON array; non-ASCII text is written verbatim
func Encode(recs []record.Record) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range recs {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := r.MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/alert"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/detector"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/fetch"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/parse"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/publish"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/logger"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/metrics"
	ptime "github.com/mincheuk/road2air-icn-smart-services/internal/platform/time"

	"github.com/google/uuid"
)

// Deps are the collaborators a Runner talks to
type Deps struct {
	Sink    publish.Sink
	Alerts  alert.Notifier // nil means the alert channel is not configured
	Notices alert.Notifier // nil disables completion notices
	Metrics *metrics.Metrics

	// HTTPClient overrides the fetch client, mainly for tests
	HTTPClient *http.Client
}

// Runner executes runs of one pipeline. Runs of the same Runner must not
// overlap; the scheduler guarantees that. Different Runners are independent
type Runner struct {
	cfg     Config
	parser  parse.Parser
	fetcher *fetch.Fetcher
	det     *detector.Detector
	pub     *publish.Publisher
	alerts  alert.Notifier
	notices alert.Notifier
	metrics *metrics.Metrics

	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	state State
	last  *Summary
}

// New validates cfg and wires a Runner
func New(cfg Config, deps Deps) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Sink == nil {
		return nil, perr.Configf("pipeline %s: no sink", cfg.Name)
	}
	p, err := parse.New(cfg.Format, cfg.ItemPath, cfg.CountPath)
	if err != nil {
		return nil, perr.WithOp(err, "pipeline "+cfg.Name)
	}
	r := &Runner{
		cfg:    cfg,
		parser: p,
		fetcher: fetch.New(fetch.Options{
			Pipeline: cfg.Name,
			Timeout:  cfg.Timeout,
			Metrics:  deps.Metrics,
			Client:   deps.HTTPClient,
		}),
		pub:     publish.New(deps.Sink),
		alerts:  deps.Alerts,
		notices: deps.Notices,
		metrics: deps.Metrics,
		now:     time.Now,
		newID:   uuid.NewString,
		state:   StateIdle,
	}
	if cfg.Anomaly.Enabled() {
		if r.det, err = detector.New(cfg.Anomaly); err != nil {
			return nil, perr.WithOp(err, "pipeline "+cfg.Name)
		}
	}
	return r, nil
}

// Name returns the pipeline name
func (r *Runner) Name() string { return r.cfg.Name }

// Config returns the immutable configuration
func (r *Runner) Config() Config { return r.cfg }

// State returns the current state
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Last returns the summary of the most recent finished run
func (r *Runner) Last() (Summary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil {
		return Summary{}, false
	}
	return *r.last, true
}

// Run executes one invocation. The returned error is non-nil iff the run Failed
func (r *Runner) Run(ctx context.Context, tr Trigger) (sum Summary, err error) {
	if tr.At.IsZero() {
		tr.At = r.now()
	}
	run := &run{
		Summary: Summary{
			RunID:    r.newID(),
			Pipeline: r.cfg.Name,
			Trigger:  tr,
			Started:  r.now(),
		},
	}
	ctx = logger.WithRun(ctx, run.RunID, r.cfg.Name)
	log := logger.C(ctx)

	if tr.Overdue {
		r.metrics.OverdueTrigger(r.cfg.Name)
		log.Warn().Time("scheduled_at", tr.At).Msg("trigger is past due")
	}
	log.Info().Str("source", string(tr.Source)).Msg("run started")

	defer func() {
		if rec := recover(); rec != nil {
			err = r.fail(ctx, run, perr.PanicErrf("panic in %s run: %v", run.State, rec))
		}
		sum = r.finish(ctx, run, err)
	}()

	if err := r.execute(ctx, run, tr); err != nil {
		return run.Summary, r.fail(ctx, run, err)
	}
	return run.Summary, nil
}

type run struct {
	Summary
	records []record.Record
}

func (r *Runner) execute(ctx context.Context, run *run, tr Trigger) error {
	log := logger.C(ctx)

	r.transition(ctx, run, StateFetching)
	items, err := r.fetcher.FetchAll(ctx, r.cfg.request(r.parser, tr.At.In(ptime.KST)))
	if err != nil {
		return err
	}
	run.Items = len(items)

	r.transition(ctx, run, StateParsing)
	entries := make([]record.RawEntry, 0, len(items))
	for i, it := range items {
		e, err := it.Entry()
		if err != nil {
			run.ItemErrors++
			log.Warn().Err(err).Int("item", i).Msg("item skipped")
			continue
		}
		entries = append(entries, e)
	}
	r.metrics.ItemError(r.cfg.Name, perr.ErrorCodeItemParse.String(), run.ItemErrors)

	r.transition(ctx, run, StateNormalizing)
	for _, e := range entries {
		if r.cfg.Exclude != nil && r.cfg.Exclude(e) {
			run.Excluded++
			continue
		}
		recs, cerrs := r.cfg.Mapping.Normalize(e)
		for _, ce := range cerrs {
			run.Coercions++
			log.Debug().Err(ce).Msg("value defaulted")
		}
		for _, rec := range recs {
			if !r.cfg.Allow.Keep(rec) {
				run.Filtered++
				continue
			}
			if r.det != nil {
				if kw, ok := r.det.Detect(rec); ok {
					run.Anomalies++
					r.metrics.Anomaly(r.cfg.Name, kw)
					r.raise(ctx, run, alert.Event{Pipeline: r.cfg.Name, Record: rec, Keyword: kw, DetectedAt: r.now()})
				}
			}
			run.records = append(run.records, rec)
		}
	}
	run.Records = len(run.records)
	r.metrics.ItemError(r.cfg.Name, perr.ErrorCodeCoercion.String(), run.Coercions)

	r.transition(ctx, run, StatePublishing)
	res, err := r.pub.Publish(ctx, publish.Request{
		Name:         r.cfg.Sink,
		Pipeline:     r.cfg.Name,
		RunID:        run.RunID,
		Records:      run.records,
		PublishEmpty: r.cfg.PublishEmpty,
	})
	if err != nil {
		return err
	}
	run.Published, run.Skipped, run.Bytes = res.Sent, res.Skipped, res.Bytes

	if res.Sent && res.Count > 0 && r.cfg.Notice.Enabled() {
		r.notify(ctx, run, "notice", r.notices, func() ([]byte, error) { return r.cfg.Notice.Body(res.Count) })
	}
	return nil
}

// raise formats and delivers one alert. Nothing it does can fail the run
func (r *Runner) raise(ctx context.Context, run *run, ev alert.Event) {
	if r.cfg.Alert == nil {
		return
	}
	r.notify(ctx, run, "alert", r.alerts, func() ([]byte, error) {
		return alert.Envelope(r.cfg.Alert.Format(ev), ev.DetectedAt.In(ptime.KST), alert.DefaultSource)
	})
}

// notify builds and posts one side-channel message inside a recover boundary
func (r *Runner) notify(ctx context.Context, run *run, kind string, n alert.Notifier, body func() ([]byte, error)) {
	log := logger.C(ctx)
	ok := false
	defer func() {
		if rec := recover(); rec != nil {
			log.Error().Str("kind", kind).Str("panic", fmt.Sprint(rec)).Msg("notifier panicked")
		}
		if !ok {
			run.NotifyFailures++
		}
		r.metrics.Notified(r.cfg.Name, kind, ok)
	}()

	if n == nil {
		log.Warn().Str("kind", kind).Msg("notification endpoint not configured, skipping")
		return
	}
	b, err := body()
	if err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("notification not rendered")
		return
	}
	if err := n.Notify(ctx, b); err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("notification failed")
		return
	}
	ok = true
	log.Info().Str("kind", kind).Msg("notification sent")
}

// fail moves the run to Failed and, for pipelines that promise output on every
// run, publishes an empty batch
func (r *Runner) fail(ctx context.Context, run *run, err error) error {
	log := logger.C(ctx)
	from := run.State
	r.transition(ctx, run, StateFailed)
	log.Error().Err(err).Str("code", perr.CodeOf(err).String()).Str("from", string(from)).Msg("run failed")

	if r.cfg.EmptyOnFailure && from != StatePublishing {
		res, pubErr := r.pub.Publish(ctx, publish.Request{
			Name:         r.cfg.Sink,
			Pipeline:     r.cfg.Name,
			RunID:        run.RunID,
			PublishEmpty: true,
		})
		if pubErr != nil {
			log.Error().Err(pubErr).Msg("empty batch not published")
		} else {
			run.Published, run.Bytes = res.Sent, res.Bytes
		}
	}
	return err
}

func (r *Runner) finish(ctx context.Context, run *run, err error) Summary {
	run.Finished = r.now()
	run.DurationMS = run.Finished.Sub(run.Started).Milliseconds()
	switch {
	case err != nil:
		run.Outcome = OutcomeFailed
		run.Err = err
		w := perr.WireFrom(err)
		run.Error = &w
	case run.Skipped:
		run.Outcome = OutcomeSkipped
	default:
		run.Outcome = OutcomeOK
	}
	r.transition(ctx, run, StateIdle)
	if err != nil {
		run.State = StateFailed
	}
	r.metrics.ObserveRun(r.cfg.Name, string(run.Outcome), run.Finished.Sub(run.Started), run.Records, run.Finished)

	logger.C(ctx).Info().
		Str("outcome", string(run.Outcome)).
		Int("items", run.Items).
		Int("item_errors", run.ItemErrors).
		Int("coercions", run.Coercions).
		Int("records", run.Records).
		Int("anomalies", run.Anomalies).
		Bool("published", run.Published).
		Int64("duration_ms", run.DurationMS).
		Msg("run finished")

	sum := run.Summary
	r.mu.Lock()
	r.last = &sum
	r.mu.Unlock()
	return sum
}

func (r *Runner) transition(ctx context.Context, run *run, to State) {
	from := run.State
	run.State = to
	r.mu.Lock()
	r.state = to
	r.mu.Unlock()
	if from != "" {
		logger.C(ctx).Debug().Str("from", string(from)).Str("to", string(to)).Msg("state")
	}
}

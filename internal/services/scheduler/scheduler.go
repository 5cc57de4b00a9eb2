// Package scheduler drives pipeline runners from their cron expressions
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/logger"
	ptime "github.com/mincheuk/road2air-icn-smart-services/internal/platform/time"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/validate"

	"github.com/robfig/cron/v3"
)

// Runner is what the scheduler needs from a pipeline
type Runner interface {
	Name() string
	Config() pipeline.Config
	Run(ctx context.Context, tr pipeline.Trigger) (pipeline.Summary, error)
}

// Entry describes one scheduled pipeline
type Entry struct {
	Pipeline     string    `json:"pipeline"`
	Schedule     string    `json:"schedule"`
	RunOnStartup bool      `json:"run_on_startup"`
	Next         time.Time `json:"next"`
	Prev         time.Time `json:"prev,omitzero"`
}

// Scheduler owns one cron instance. Each pipeline is wrapped with
// SkipIfStillRunning so a slow run swallows the ticks that fire during it
type Scheduler struct {
	cron  *cron.Cron
	grace time.Duration
	now   func() time.Time

	mu   sync.Mutex
	ctx  context.Context
	jobs []*job
	wg   sync.WaitGroup
}

// New builds an idle scheduler
func New(o Options) *Scheduler {
	loc := o.Location
	if loc == nil {
		loc = ptime.KST
	}
	cl := cronLogger{l: logger.Named("scheduler")}
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(validate.CronParser),
			cron.WithLocation(loc),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		grace: o.Grace,
		now:   time.Now,
		ctx:   context.Background(),
	}
}

// Add registers r under its configured schedule
func (s *Scheduler) Add(r Runner) error {
	cfg := r.Config()
	if cfg.Schedule == "" {
		return perr.WithField(perr.Configf("pipeline %s has no schedule", r.Name()), "schedule")
	}
	sched, err := validate.CronParser.Parse(cfg.Schedule)
	if err != nil {
		return perr.WithField(perr.Wrapf(err, perr.ErrorCodeConfig, "pipeline %s: bad schedule %q", r.Name(), cfg.Schedule), "schedule")
	}

	j := &job{s: s, r: r, sched: sched, spec: cfg.Schedule, startup: cfg.RunOnStartup}
	j.due = sched.Next(s.now().In(s.cron.Location()))
	id := s.cron.Schedule(sched, j)
	j.id = id

	s.mu.Lock()
	s.jobs = append(s.jobs, j)
	s.mu.Unlock()
	return nil
}

// Start launches run-on-startup pipelines and the cron loop. Runs inherit ctx
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	jobs := append([]*job(nil), s.jobs...)
	s.mu.Unlock()

	for _, j := range jobs {
		if !j.startup {
			continue
		}
		j.boot.Store(true)
		wrapped := s.cron.Entry(j.id).WrappedJob
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			wrapped.Run()
		}()
	}
	s.cron.Start()
	logger.C(ctx).Info().Int("pipelines", len(jobs)).Msg("scheduler started")
}

// Stop halts the cron loop and waits for in-flight runs or ctx, whichever ends first
func (s *Scheduler) Stop(ctx context.Context) error {
	cronDone := s.cron.Stop().Done()
	bootDone := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(bootDone)
	}()
	for _, done := range []<-chan struct{}{cronDone, bootDone} {
		select {
		case <-done:
		case <-ctx.Done():
			return perr.Wrap(ctx.Err(), perr.ErrorCodeUnavailable, "scheduler: runs still in flight")
		}
	}
	return nil
}

// Run starts the scheduler and blocks until ctx ends, then drains with a bounded wait
func (s *Scheduler) Run(ctx context.Context, drain time.Duration) error {
	s.Start(ctx)
	<-ctx.Done()
	logger.C(ctx).Info().Msg("scheduler stopping")

	stopCtx, cancel := context.WithTimeout(context.Background(), drain)
	defer cancel()
	return s.Stop(stopCtx)
}

// Entries lists the scheduled pipelines in registration order
func (s *Scheduler) Entries() []Entry {
	s.mu.Lock()
	jobs := append([]*job(nil), s.jobs...)
	s.mu.Unlock()

	out := make([]Entry, 0, len(jobs))
	for _, j := range jobs {
		e := s.cron.Entry(j.id)
		next := e.Next
		if next.IsZero() {
			next = j.sched.Next(s.now().In(s.cron.Location()))
		}
		out = append(out, Entry{
			Pipeline:     j.r.Name(),
			Schedule:     j.spec,
			RunOnStartup: j.startup,
			Next:         next,
			Prev:         e.Prev,
		})
	}
	return out
}

func (s *Scheduler) runCtx() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ctx
}

// job adapts a Runner to cron.Job and tracks when its next tick is due
type job struct {
	s       *Scheduler
	r       Runner
	id      cron.EntryID
	sched   cron.Schedule
	spec    string
	startup bool

	boot atomic.Bool // next invocation is the startup run

	mu  sync.Mutex
	due time.Time
}

func (j *job) Run() {
	now := j.s.now().In(j.s.cron.Location())
	tr := pipeline.Trigger{At: now, Source: pipeline.SourceCron}

	if j.boot.CompareAndSwap(true, false) {
		tr.Source = pipeline.SourceStartup
	} else {
		j.mu.Lock()
		due := j.due
		j.due = j.sched.Next(now)
		j.mu.Unlock()
		tr.Overdue = j.s.grace > 0 && !due.IsZero() && now.Sub(due) > j.s.grace
	}

	// the runner logs and records its own outcome
	_, _ = j.r.Run(j.s.runCtx(), tr)
}

// cronLogger routes cron's logr-style calls into zerolog
type cronLogger struct{ l *logger.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

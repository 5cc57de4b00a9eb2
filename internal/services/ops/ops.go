// Package ops serves the collector's read-only operational endpoints:
// liveness, readiness, prometheus metrics and the last run of every pipeline
package ops

import (
	"context"
	"net/http"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/version"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	phttp "github.com/mincheuk/road2air-icn-smart-services/internal/platform/net/http"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/net/middleware"
	"github.com/mincheuk/road2air-icn-smart-services/internal/services/scheduler"
)

// Pipeline is the read side of a pipeline.Runner
type Pipeline interface {
	Name() string
	State() pipeline.State
	Last() (pipeline.Summary, bool)
}

// Schedule lists cron entries, satisfied by *scheduler.Scheduler
type Schedule interface {
	Entries() []scheduler.Entry
}

// Guard pings the storage backends, satisfied by *store.Store
type Guard interface {
	Guard(ctx context.Context) error
}

// Checker verifies the sink target exists, satisfied by the pg and clickhouse sinks
type Checker interface {
	Check(ctx context.Context) error
}

// Deps are the live components the endpoints report on; nil members are skipped
type Deps struct {
	Pipelines []Pipeline
	Schedule  Schedule
	Store     Guard
	Sink      Checker
	Metrics   http.Handler
}

// Run is one entry of /runs
type Run struct {
	Pipeline string            `json:"pipeline"`
	State    pipeline.State    `json:"state"`
	Schedule *scheduler.Entry  `json:"schedule,omitempty"`
	Last     *pipeline.Summary `json:"last,omitempty"`
}

// Ready is the /readyz body
type Ready struct {
	Ready     bool `json:"ready"`
	Pipelines int  `json:"pipelines"`
}

// Mount registers the ops routes on r
func Mount(r phttp.Router, d Deps, o Options) {
	r.Use(middleware.Defaults("/healthz", "/readyz", "/metrics")...)

	phttp.GetJSON(r, "/healthz", func(*http.Request) (any, error) {
		return version.Info(), nil
	})
	phttp.GetJSON(r, "/readyz", func(req *http.Request) (any, error) {
		return d.ready(req.Context(), o.ReadyTimeout)
	})
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}
	r.Route("/runs", func(rr phttp.Router) {
		phttp.GetJSON(rr, "/", func(*http.Request) (any, error) {
			return d.runs(), nil
		})
		phttp.GetJSON(rr, "/{pipeline}", func(req *http.Request) (any, error) {
			name := phttp.URLParam(req, "pipeline")
			for _, run := range d.runs() {
				if run.Pipeline == name {
					return run, nil
				}
			}
			return nil, perr.WithField(perr.NotFoundf("no pipeline named %q", name), "pipeline")
		})
	})
	phttp.MountProfiler(r, "/debug", o.Profiler)
}

func (d Deps) ready(ctx context.Context, timeout time.Duration) (Ready, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if d.Store != nil {
		if err := d.Store.Guard(ctx); err != nil {
			return Ready{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "backends not ready")
		}
	}
	if d.Sink != nil {
		if err := d.Sink.Check(ctx); err != nil {
			return Ready{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "sink not ready")
		}
	}
	return Ready{Ready: true, Pipelines: len(d.Pipelines)}, nil
}

func (d Deps) runs() []Run {
	var entries map[string]scheduler.Entry
	if d.Schedule != nil {
		list := d.Schedule.Entries()
		entries = make(map[string]scheduler.Entry, len(list))
		for _, e := range list {
			entries[e.Pipeline] = e
		}
	}

	out := make([]Run, 0, len(d.Pipelines))
	for _, p := range d.Pipelines {
		run := Run{Pipeline: p.Name(), State: p.State()}
		if e, ok := entries[p.Name()]; ok {
			run.Schedule = &e
		}
		if last, ok := p.Last(); ok {
			run.Last = &last
		}
		out = append(out, run)
	}
	return out
}

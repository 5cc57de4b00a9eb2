// Command road2air-collector polls the Incheon airport and Korea Eximbank open
// APIs on their cron schedules and publishes normalized batches to the event stream
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/adapters/sink"
	"github.com/mincheuk/road2air-icn-smart-services/internal/adapters/webhook"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/alert"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/version"
	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit"
	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit/module"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/logger"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/metrics"
	phttp "github.com/mincheuk/road2air-icn-smart-services/internal/platform/net/http"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/store"

	exchangemod "github.com/mincheuk/road2air-icn-smart-services/internal/services/exchange/module"
	facilitiesmod "github.com/mincheuk/road2air-icn-smart-services/internal/services/facilities/module"
	flightsmod "github.com/mincheuk/road2air-icn-smart-services/internal/services/flights/module"
	"github.com/mincheuk/road2air-icn-smart-services/internal/services/ops"
	parkingmod "github.com/mincheuk/road2air-icn-smart-services/internal/services/parking/module"
	passengermod "github.com/mincheuk/road2air-icn-smart-services/internal/services/passenger/module"
	"github.com/mincheuk/road2air-icn-smart-services/internal/services/scheduler"
)

// registered pipelines in start-up order
var builders = []struct {
	name  string
	build modkit.Builder
}{
	{"flights", func(d modkit.Deps, o ...modkit.Option) (modkit.Module, error) { return flightsmod.New(d, o...) }},
	{"parking", func(d modkit.Deps, o ...modkit.Option) (modkit.Module, error) { return parkingmod.New(d, o...) }},
	{"passenger", func(d modkit.Deps, o ...modkit.Option) (modkit.Module, error) { return passengermod.New(d, o...) }},
	{"exchange", func(d modkit.Deps, o ...modkit.Option) (modkit.Module, error) { return exchangemod.New(d, o...) }},
	{"facilities", func(d modkit.Deps, o ...modkit.Option) (modkit.Module, error) { return facilitiesmod.New(d, o...) }},
}

func main() {
	var (
		fMode     = flag.String("mode", "schedule", "run mode: schedule | once")
		fPipeline = flag.String("pipeline", "", "only build this pipeline (flights, parking, passenger, exchange, facilities)")
		fDryRun   = flag.Bool("dry-run", false, "publish batches to the log instead of SINK_KIND")
	)
	flag.Parse()

	l := logger.Get()
	if err := run(*fMode, *fPipeline, *fDryRun); err != nil {
		l.Fatal().Err(err).Msg("road2air-collector stopped")
	}
}

func run(mode, only string, dryRun bool) error {
	root := config.New()
	l := logger.Get()

	bi := version.Info()
	l.Info().
		Str("version", bi.Version).
		Str("commit", bi.Commit).
		Str("mode", mode).
		Bool("dry_run", dryRun).
		Msg("starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// sink backend (SINK_*)
	sinkCfg := root.Prefix("SINK_")
	kind := sink.Kind(sinkCfg.MayEnum("KIND", string(sink.KindRedis), sink.Kinds...))
	if dryRun {
		kind = sink.KindLog
	}

	st, err := store.Open(ctx, storeConfig(sinkCfg, kind), store.WithLogger(*l))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	out, err := sink.Open(kind, st, sink.Options{
		StreamPrefix: sinkCfg.MayString("REDIS_PREFIX", "road2air:"),
		MaxLen:       int64(sinkCfg.MayInt("REDIS_MAXLEN", 10000)),
		Table:        sinkCfg.MayString("TABLE", "pipeline_events"),
	})
	if err != nil {
		return err
	}
	if s, ok := out.(sink.Schema); ok {
		if err := s.EnsureSchema(ctx); err != nil {
			return err
		}
	}

	alerts, err := alertChannel(root.Prefix("ALERT_"))
	if err != nil {
		return err
	}

	deps := modkit.Deps{
		Log:     *l,
		Cfg:     root,
		Store:   st,
		Metrics: metrics.New(),
		Sink:    out,
		Alerts:  alerts,
	}

	runners, err := buildRunners(deps, only)
	if err != nil {
		return err
	}
	if len(runners) == 0 {
		return perr.Configf("no pipeline enabled")
	}

	switch mode {
	case "once":
		return runOnce(ctx, runners)
	case "schedule":
		return runScheduled(ctx, root, deps, runners)
	default:
		return perr.WithField(perr.Configf("unknown -mode %q", mode), "mode")
	}
}

// storeConfig enables only the backend the sink kind needs
func storeConfig(c config.Conf, kind sink.Kind) store.Config {
	cfg := store.Config{AppName: "road2air-collector"}
	switch kind {
	case sink.KindRedis:
		cfg.RDS = store.RedisConfig{Enabled: true, URL: c.MustString("REDIS_URL")}
	case sink.KindPG:
		cfg.PG = store.PGConfig{
			Enabled:     true,
			URL:         c.MustString("PGSQL_DBURL"),
			MaxConns:    int32(c.MayInt("PGSQL_MAX_CONNS", 4)),
			SlowQueryMs: c.MayInt("PGSQL_SLOW_MS", 500),
			LogSQL:      c.MayBool("PGSQL_LOG_SQL", false),
		}
	case sink.KindClickhouse:
		cfg.CH = store.CHConfig{
			Enabled: true,
			URL:     c.MustString("CLICKHOUSE_DBURL"),
			Role:    "collector",
		}
	}
	return cfg
}

// alertChannel returns the shared webhook, nil when ALERT_WEBHOOK_URL is unset
func alertChannel(c config.Conf) (alert.Notifier, error) {
	if !c.Has("WEBHOOK_URL") {
		return nil, nil
	}
	p, err := webhook.New(webhook.Options{
		URL:     c.MayURL("WEBHOOK_URL", ""),
		Timeout: c.MayDuration("TIMEOUT", 30*time.Second),
	})
	if err != nil {
		return nil, perr.WithField(err, "ALERT_WEBHOOK_URL")
	}
	return p, nil
}

func buildRunners(deps modkit.Deps, only string) ([]*pipeline.Runner, error) {
	l := logger.Named("bootstrap")
	var (
		runners []*pipeline.Runner
		matched bool
	)
	for _, b := range builders {
		if only != "" && b.name != only {
			continue
		}
		matched = true
		m, err := b.build(deps)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", b.name, err)
		}
		module.Register(m.Name(), m.Ports())
		if !m.Enabled() {
			l.Info().Str("pipeline", m.Name()).Msg("pipeline disabled")
			continue
		}
		runners = append(runners, m.Runner())
	}
	if only != "" && !matched {
		return nil, perr.WithField(perr.NotFoundf("unknown pipeline %q", only), "pipeline")
	}
	l.Info().Strs("modules", module.Names()).Int("enabled", len(runners)).Msg("modules built")
	return runners, nil
}

// runOnce fires every runner a single time and fails if any run failed
func runOnce(ctx context.Context, runners []*pipeline.Runner) error {
	var errs []error
	for _, r := range runners {
		sum, err := r.Run(ctx, pipeline.Trigger{At: time.Now(), Source: pipeline.SourceManual})
		logger.Named("once").Info().
			Str("pipeline", sum.Pipeline).
			Str("run_id", sum.RunID).
			Str("outcome", string(sum.Outcome)).
			Int("records", sum.Records).
			Int("anomalies", sum.Anomalies).
			Bool("published", sum.Published).
			Msg("run finished")
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func runScheduled(ctx context.Context, root config.Conf, deps modkit.Deps, runners []*pipeline.Runner) error {
	so := scheduler.FromConfig(root)
	sched := scheduler.New(so)
	pipes := make([]ops.Pipeline, 0, len(runners))
	for _, r := range runners {
		if err := sched.Add(r); err != nil {
			return err
		}
		pipes = append(pipes, r)
	}

	// ops server (OPS_*), off unless OPS_ADDR is set
	srv := phttp.NewServer(root.Prefix("OPS_"))
	srvErr := make(chan error, 1)
	if srv.Enabled() {
		od := ops.Deps{
			Pipelines: pipes,
			Schedule:  sched,
			Store:     deps.Store,
			Metrics:   deps.Metrics.Handler(),
		}
		if c, ok := deps.Sink.(sink.Checker); ok {
			od.Sink = c
		}
		ops.Mount(srv.Router(), od, ops.FromConfig(root))
		go func() { srvErr <- srv.Run(ctx) }()
	}

	err := sched.Run(ctx, so.Drain)
	if srv.Enabled() {
		err = errors.Join(err, <-srvErr)
	}
	return err
}

package main

import (
	"testing"

	"github.com/mincheuk/road2air-icn-smart-services/internal/adapters/sink"
	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
)

func TestStoreConfig_EnablesOnlyTheSinkBackend(t *testing.T) {
	t.Setenv("SINK_REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("SINK_PGSQL_DBURL", "postgres://u:p@localhost:5432/db")
	t.Setenv("SINK_PGSQL_MAX_CONNS", "8")
	t.Setenv("SINK_CLICKHOUSE_DBURL", "clickhouse://localhost:9000/default")
	c := config.New().Prefix("SINK_")

	cases := []struct {
		kind        sink.Kind
		pg, ch, rds     bool
	}{
		{sink.KindRedis, false, false, true},
		{sink.KindPG, true, false, false},
		{sink.KindClickhouse, false, true, false},
		{sink.KindLog, false, false, false},
	}
	for _, tc := range cases {
		cfg := storeConfig(c, tc.kind)
		if cfg.PG.Enabled != tc.pg || cfg.CH.Enabled != tc.ch || cfg.RDS.Enabled != tc.rds {
			t.Fatalf("%s: unexpected backends pg=%v ch=%v rds=%v", tc.kind, cfg.PG.Enabled, cfg.CH.Enabled, cfg.RDS.Enabled)
		}
	}
	if cfg := storeConfig(c, sink.KindPG); cfg.PG.MaxConns != 8 || cfg.PG.URL == "" {
		t.Fatalf("pg config not read: %+v", cfg.PG)
	}
}

func TestAlertChannel(t *testing.T) {
	t.Setenv("ALERT_WEBHOOK_URL", "")
	n, err := alertChannel(config.New().Prefix("ALERT_"))
	if err != nil || n != nil {
		t.Fatalf("expected no channel without url, got %v %v", n, err)
	}

	t.Setenv("ALERT_WEBHOOK_URL", "https://hooks.example.com/road2air")
	n, err = alertChannel(config.New().Prefix("ALERT_"))
	if err != nil || n == nil {
		t.Fatalf("expected webhook channel, got %v %v", n, err)
	}
}

func TestBuildRunners(t *testing.T) {
	deps := modkit.Deps{Cfg: config.New(), Sink: sink.NewLog()}

	if _, err := buildRunners(deps, "weather"); !perr.IsCode(err, perr.ErrorCodeNotFound) {
		t.Fatalf("expected not found for an unknown pipeline, got %v", err)
	}

	t.Setenv("EXCHANGE_ENABLED", "false")
	runners, err := buildRunners(deps, "exchange")
	if err != nil || len(runners) != 0 {
		t.Fatalf("disabled pipeline should build no runner, got %d %v", len(runners), err)
	}

	t.Setenv("EXCHANGE_ENABLED", "true")
	t.Setenv("EXCHANGE_SERVICE_KEY", "")
	if _, err := buildRunners(deps, "exchange"); !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("expected config error without a key, got %v", err)
	}

	t.Setenv("EXCHANGE_SERVICE_KEY", "k")
	runners, err = buildRunners(deps, "exchange")
	if err != nil || len(runners) != 1 || runners[0].Name() != "exchange" {
		t.Fatalf("expected the exchange runner, got %d %v", len(runners), err)
	}
}

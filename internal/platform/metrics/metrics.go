// Package metrics holds the collector's Prometheus instruments
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "road2air"

// Metrics groups every instrument a pipeline run touches.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg *prometheus.Registry

	RunsTotal        *prometheus.CounterVec
	RunDuration      *prometheus.HistogramVec
	FetchRequests    *prometheus.CounterVec
	ItemErrors       *prometheus.CounterVec
	Anomalies        *prometheus.CounterVec
	Notifications    *prometheus.CounterVec
	RecordsPublished *prometheus.GaugeVec
	Overdue          *prometheus.CounterVec
	LastSuccess      *prometheus.GaugeVec
}

// New registers the instruments on a fresh registry together with the Go
// runtime and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		RunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Pipeline runs by outcome (ok, skipped, failed).",
		}, []string{"pipeline", "outcome"}),
		RunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of a pipeline run.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		}, []string{"pipeline"}),
		FetchRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_requests_total",
			Help:      "Upstream page requests by HTTP status class (2xx, 4xx, 5xx, error).",
		}, []string{"pipeline", "status"}),
		ItemErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_errors_total",
			Help:      "Skipped items and coerced fields by error kind.",
		}, []string{"pipeline", "kind"}),
		Anomalies: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "anomalies_total",
			Help:      "Records that matched an anomaly keyword.",
		}, []string{"pipeline", "keyword"}),
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Alert and completion notice deliveries by outcome.",
		}, []string{"pipeline", "kind", "outcome"}),
		RecordsPublished: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records_published",
			Help:      "Records in the most recently published batch.",
		}, []string{"pipeline"}),
		Overdue: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "overdue_triggers_total",
			Help:      "Scheduled invocations that fired later than their grace period.",
		}, []string{"pipeline"}),
		LastSuccess: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}, []string{"pipeline"}),
	}
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.reg
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveRun records the outcome and duration of one run
func (m *Metrics) ObserveRun(pipeline, outcome string, took time.Duration, published int, at time.Time) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(pipeline, outcome).Inc()
	m.RunDuration.WithLabelValues(pipeline).Observe(took.Seconds())
	if outcome == "ok" {
		m.RecordsPublished.WithLabelValues(pipeline).Set(float64(published))
		m.LastSuccess.WithLabelValues(pipeline).Set(float64(at.Unix()))
	}
}

// FetchStatus records one upstream page request
func (m *Metrics) FetchStatus(pipeline string, status int) {
	if m == nil {
		return
	}
	m.FetchRequests.WithLabelValues(pipeline, StatusClass(status)).Inc()
}

// ItemError counts a skipped item or a defaulted field
func (m *Metrics) ItemError(pipeline, kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.ItemErrors.WithLabelValues(pipeline, kind).Add(float64(n))
}

// Anomaly counts one keyword match
func (m *Metrics) Anomaly(pipeline, keyword string) {
	if m == nil {
		return
	}
	m.Anomalies.WithLabelValues(pipeline, keyword).Inc()
}

// Notified counts one alert or notice delivery attempt
func (m *Metrics) Notified(pipeline, kind string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "failed"
	}
	m.Notifications.WithLabelValues(pipeline, kind, outcome).Inc()
}

// OverdueTrigger counts a late scheduler invocation
func (m *Metrics) OverdueTrigger(pipeline string) {
	if m == nil {
		return
	}
	m.Overdue.WithLabelValues(pipeline).Inc()
}

// StatusClass folds an HTTP status into 2xx/3xx/4xx/5xx; 0 means a transport error
func StatusClass(status int) string {
	switch {
	case status <= 0:
		return "error"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

// Package modkit provides module wiring and core deps
package modkit

import (
	"net/http"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/alert"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/publish"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/logger"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/metrics"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log     logger.Logger
	Cfg     config.Conf
	Store   *store.Store
	Metrics *metrics.Metrics

	// Sink receives every published batch; the batch name picks the stream or table
	Sink publish.Sink

	// Alerts is the shared alert channel, nil when ALERT_WEBHOOK_URL is unset
	Alerts alert.Notifier

	// HTTPClient is shared by fetchers and notifiers; nil means per-call defaults
	HTTPClient *http.Client
}

// Runner wires a pipeline runner for cfg from the shared deps
// notices is module owned since only some pipelines send completion notices
func (d Deps) Runner(cfg pipeline.Config, notices alert.Notifier) (*pipeline.Runner, error) {
	return pipeline.New(cfg, pipeline.Deps{
		Sink:       d.Sink,
		Alerts:     d.Alerts,
		Notices:    notices,
		Metrics:    d.Metrics,
		HTTPClient: d.HTTPClient,
	})
}

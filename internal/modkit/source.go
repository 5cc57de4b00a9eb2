package modkit

import (
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
)

// Source holds the options every collection module reads under its prefix
type Source struct {
	ServiceKey string
	URL        string
	Sink       string
	Schedule   string
	PageSize   int
	Timeout    time.Duration
	Enabled    bool
}

// SourceFromConfig reads SERVICE_KEY, URL, SINK, SCHEDULE, PAGE_SIZE, TIMEOUT
// and ENABLED under cfg, falling back to def for anything unset
func SourceFromConfig(cfg config.Conf, def Source) Source {
	return Source{
		ServiceKey: cfg.MayString("SERVICE_KEY", def.ServiceKey),
		URL:        cfg.MayURL("URL", def.URL),
		Sink:       cfg.MayString("SINK", def.Sink),
		Schedule:   cfg.MayString("SCHEDULE", def.Schedule),
		PageSize:   cfg.MayPositiveInt("PAGE_SIZE", def.PageSize),
		Timeout:    cfg.MayDuration("TIMEOUT", def.Timeout),
		Enabled:    cfg.MayBool("ENABLED", true),
	}
}

// Require reports a missing service key for an enabled source
func (s Source) Require(prefix string) error {
	if s.Enabled && s.ServiceKey == "" {
		key := prefix + "SERVICE_KEY"
		return perr.WithField(perr.Configf("%s is required", key), key)
	}
	return nil
}

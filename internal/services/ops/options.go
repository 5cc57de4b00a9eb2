package ops

import (
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
)

// Options configures the ops endpoints
type Options struct {
	// Profiler mounts pprof under /debug
	Profiler bool
	// ReadyTimeout bounds the backend pings behind /readyz
	ReadyTimeout time.Duration
}

// FromConfig reads OPS_PROFILER and OPS_READY_TIMEOUT
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("OPS_")
	return Options{
		Profiler:     c.MayBool("PROFILER", false),
		ReadyTimeout: c.MayDuration("READY_TIMEOUT", 2*time.Second),
	}
}

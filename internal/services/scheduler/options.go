package scheduler

import (
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
)

// Options configures the cron driver
type Options struct {
	// Grace is how late a cron invocation may start before it counts as overdue
	Grace time.Duration

	// Drain bounds how long shutdown waits for in-flight runs
	Drain time.Duration

	// Location is the zone cron expressions are evaluated in; nil means KST
	Location *time.Location
}

// FromConfig reads the scheduler options under SCHEDULER_
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("SCHEDULER_")
	return Options{
		Grace: c.MayDuration("GRACE", time.Minute),
		Drain: c.MayDuration("DRAIN", time.Minute),
	}
}

package module

import (
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
)

// Prefix is the env prefix the facilities options live under
const Prefix = "FACILITIES_"

// DefaultURL is the airport commercial facility listing endpoint
const DefaultURL = "http://apis.data.go.kr/B551177/StatusOfFacility/getFacilityKR"

// Options holds configuration for the facilities pipeline
type Options struct {
	modkit.Source

	RunOnStartup bool
}

// FromConfig reads the facilities options under FACILITIES_
func FromConfig(cfg config.Conf) Options { return read(cfg.Prefix(Prefix)) }

func read(c config.Conf) Options {
	return Options{
		Source: modkit.SourceFromConfig(c, modkit.Source{
			URL:      DefaultURL,
			Sink:     "facilities",
			Schedule: "0 0 0 * * 1",
			PageSize: 100,
			Timeout:  15 * time.Second,
		}),
		RunOnStartup: c.MayBool("RUN_ON_STARTUP", true),
	}
}

package module

import (
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/alert"
	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
)

// Prefix is the env prefix the parking options live under
const Prefix = "PARKING_"

// DefaultURL is the parking occupancy endpoint
const DefaultURL = "http://apis.data.go.kr/B551177/StatusOfParking/getTrackingParking"

// Options holds configuration for the parking pipeline
type Options struct {
	modkit.Source

	// NoticeURL receives a completion message after each published batch; empty disables it
	NoticeURL      string
	NoticeTemplate string
}

// FromConfig reads the parking options under PARKING_
func FromConfig(cfg config.Conf) Options { return read(cfg.Prefix(Prefix)) }

func read(c config.Conf) Options {
	return Options{
		Source: modkit.SourceFromConfig(c, modkit.Source{
			URL:      DefaultURL,
			Sink:     "parking",
			Schedule: "0 */10 * * * *",
			PageSize: 17, // one row per lot; the API has no paging worth following
			Timeout:  30 * time.Second,
		}),
		NoticeURL:      c.MayURL("NOTICE_URL", ""),
		NoticeTemplate: c.MayString("NOTICE_TEMPLATE", alert.DefaultNoticeTemplate),
	}
}

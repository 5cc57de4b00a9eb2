package module

import (
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
)

// Prefix is the env prefix the passenger options live under
const Prefix = "PASSENGER_"

// DefaultURL is the departure-hall passenger forecast endpoint
const DefaultURL = "http://apis.data.go.kr/B551177/PassengerNoticeKR/getfPassengerNoticeIKR"

// Options holds configuration for the passenger pipeline
type Options struct {
	modkit.Source

	// SelectDate is the API's day selector: 0 today, 1 tomorrow
	SelectDate string
}

// FromConfig reads the passenger options under PASSENGER_
func FromConfig(cfg config.Conf) Options { return read(cfg.Prefix(Prefix)) }

func read(c config.Conf) Options {
	return Options{
		Source: modkit.SourceFromConfig(c, modkit.Source{
			URL:      DefaultURL,
			Sink:     "passenger",
			Schedule: "0 0 */3 * * *",
			Timeout:  10 * time.Second,
		}),
		SelectDate: c.MayEnum("SELECT_DATE", "0", "0", "1"),
	}
}

package module

import (
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
)

// Prefix is the env prefix the flights options live under
const Prefix = "FLIGHTS_"

// DefaultURL is the departures-with-destination-weather endpoint
const DefaultURL = "http://apis.data.go.kr/B551177/StatusOfPassengerWorldWeatherInfo/getPassengerDeparturesWorldWeather"

var (
	// DefaultAirports are the destinations worth watching
	DefaultAirports = []string{"NRT", "KIX", "FUK", "HKG", "PVG", "TPE", "SIN", "BKK", "MNL", "TAO", "LAX"}

	// DefaultKeywords mark a delayed departure; earlier entries win
	DefaultKeywords = []string{"지연", "연착", "취소", "결항", "변경", "지체"}
)

// Options holds configuration for the flights pipeline
type Options struct {
	modkit.Source

	Airports []string
	Keywords []string
}

// FromConfig reads the flights options under FLIGHTS_
func FromConfig(cfg config.Conf) Options { return read(cfg.Prefix(Prefix)) }

func read(c config.Conf) Options {
	return Options{
		Source: modkit.SourceFromConfig(c, modkit.Source{
			URL:      DefaultURL,
			Sink:     "flights",
			Schedule: "0 */20 * * * *",
			PageSize: 100,
			Timeout:  30 * time.Second,
		}),
		Airports: c.MayCSV("AIRPORTS", DefaultAirports),
		Keywords: c.MayCSV("DELAY_KEYWORDS", DefaultKeywords),
	}
}

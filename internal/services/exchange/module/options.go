package module

import (
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
)

// Prefix is the env prefix the exchange options live under
const Prefix = "EXCHANGE_"

// DefaultURL is the Korea Exim Bank daily rates endpoint
const DefaultURL = "https://oapi.koreaexim.go.kr/site/program/financial/exchangeJSON"

// DefaultCurrencies are the currency units kept from the daily table
var DefaultCurrencies = []string{"JPY(100)", "CNH", "SGD", "HKD", "THB", "USD"}

// Options holds configuration for the exchange pipeline
type Options struct {
	modkit.Source

	Currencies []string
}

// FromConfig reads the exchange options under EXCHANGE_
func FromConfig(cfg config.Conf) Options { return read(cfg.Prefix(Prefix)) }

func read(c config.Conf) Options {
	return Options{
		Source: modkit.SourceFromConfig(c, modkit.Source{
			URL:      DefaultURL,
			Sink:     "exchange",
			Schedule: "0 0 */12 * * *",
			Timeout:  30 * time.Second,
		}),
		Currencies: c.MayCSV("CURRENCIES", DefaultCurrencies),
	}
}

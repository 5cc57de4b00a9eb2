package module

import (
	"net/url"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/alert"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/detector"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/fetch"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/parse"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
)

// Mapping is the departure record shape. Weather readings are numeric so a
// missing or garbled value becomes 0 rather than disappearing
var Mapping = record.Mapping{Fields: []record.Field{
	record.Str("airline"),
	record.Str("flightId"),
	record.Str("scheduleDateTime"),
	record.Str("estimatedDateTime"),
	record.Str("airport"),
	record.Str("airportCode"),
	record.Str("yoil"),
	record.Str("remark"),
	record.Str("gatenumber"),
	record.Float("temp"),
	record.Float("senstemp"),
	record.Float("himidity"),
	record.Float("wind"),
	record.Str("wimage"),
}}

// Pipeline builds the flights pipeline config named name
func (o Options) Pipeline(name string) pipeline.Config {
	return pipeline.Config{
		Name:      name,
		SourceURL: o.URL,
		Params: url.Values{
			"serviceKey": {o.ServiceKey},
			"from_time":  {"0000"},
			"to_time":    {"2400"},
			"airport":    {""},
			"lang":       {"K"},
			"type":       {"json"},
		},
		Format:    parse.FormatJSON,
		ItemPath:  parse.DefaultItemPath,
		CountPath: parse.DefaultCountPath,
		Paging:    fetch.PagingPaged,
		PageSize:  o.PageSize,
		Timeout:   o.Timeout,

		Mapping: Mapping,
		Allow:   record.NewAllow("airportCode", o.Airports...),
		Anomaly: detector.Rule{Field: "remark", Keywords: o.Keywords},
		Alert:   alert.FlightDelay{},

		Sink:         o.Sink,
		PublishEmpty: true,
		Schedule:     o.Schedule,
	}
}

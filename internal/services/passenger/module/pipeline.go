package module

import (
	"net/url"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/fetch"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/parse"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
)

// Areas maps each departure gate group to its count column, in output order
var Areas = []record.Area{
	{Label: "T1-Gate-1-2", Source: "t1sum5"},
	{Label: "T1-Gate-3", Source: "t1sum6"},
	{Label: "T1-Gate-4", Source: "t1sum7"},
	{Label: "T1-Gate-5-6", Source: "t1sum8"},
	{Label: "T1-Gate-sum", Source: "t1sumset2"},
	{Label: "T2-Gate-1", Source: "t2sum3"},
	{Label: "T2-Gate-2", Source: "t2sum4"},
	{Label: "T2-Gate-sum", Source: "t2sumset2"},
}

// Mapping turns one hourly row into one record per area
var Mapping = record.Mapping{
	Fields: []record.Field{
		record.Int("date", "adate"),
		record.HourPrefix("hr", "atime"),
	},
	Expand: &record.Expand{
		AreaField:  "area",
		ValueField: "customer_count",
		ValueKind:  record.KindFloat,
		Areas:      Areas,
	},
}

// Pipeline builds the passenger pipeline config named name
func (o Options) Pipeline(name string) pipeline.Config {
	return pipeline.Config{
		Name:      name,
		SourceURL: o.URL,
		Params: url.Values{
			"serviceKey": {o.ServiceKey},
			"type":       {"xml"},
			"selectdate": {o.SelectDate},
		},
		Format:  parse.FormatXML,
		Paging:  fetch.PagingSingle,
		Timeout: o.Timeout,

		Mapping: Mapping,
		// the daily total row repeats the hourly rows
		Exclude: record.FieldEquals("adate", "합계"),

		Sink:     o.Sink,
		Schedule: o.Schedule,
	}
}

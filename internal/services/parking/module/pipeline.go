package module

import (
	"net/url"
	"strconv"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/alert"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/fetch"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/parse"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
)

// Mapping is the parking lot record shape; datetm is renamed to datetime
var Mapping = record.Mapping{Fields: []record.Field{
	record.Str("floor"),
	record.Int("parking"),
	record.Int("parkingarea"),
	record.Str("datetime", "datetm"),
}}

// Pipeline builds the parking pipeline config named name. notice toggles the
// completion message template
func (o Options) Pipeline(name string, notice bool) pipeline.Config {
	cfg := pipeline.Config{
		Name:      name,
		SourceURL: o.URL,
		Params: url.Values{
			"serviceKey": {o.ServiceKey},
			"numOfRows":  {strconv.Itoa(o.PageSize)},
			"pageNo":     {"1"},
			"type":       {"json"},
		},
		// items is a bare list here, not {"item": [...]}
		Format:   parse.FormatJSON,
		ItemPath: "response.body.items",
		Paging:   fetch.PagingSingle,
		Timeout:  o.Timeout,

		Mapping: Mapping,

		Sink:     o.Sink,
		Schedule: o.Schedule,
	}
	if notice {
		cfg.Notice = alert.Notice{Template: o.NoticeTemplate}
	}
	return cfg
}

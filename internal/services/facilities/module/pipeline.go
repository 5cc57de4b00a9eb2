package module

import (
	"net/url"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/fetch"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/parse"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
)

// Mapping is the facility listing shape; every column is text
var Mapping = record.Mapping{Fields: []record.Field{
	record.Str("entrpskoreannm"),
	record.Str("trtmntprdlstkoreannm"),
	record.Str("lckoreannm"),
	record.Str("servicetime"),
	record.Str("arrordep"),
	record.Str("tel"),
}}

// Pipeline builds the facilities pipeline config named name. Consumers expect
// a batch every week, so a failed run still publishes []
func (o Options) Pipeline(name string) pipeline.Config {
	return pipeline.Config{
		Name:      name,
		SourceURL: o.URL,
		Params: url.Values{
			"serviceKey": {o.ServiceKey},
			"type":       {"xml"},
		},
		Format:   parse.FormatXML,
		Paging:   fetch.PagingPaged,
		PageSize: o.PageSize,
		Timeout:  o.Timeout,

		Mapping: Mapping,

		Sink:           o.Sink,
		PublishEmpty:   true,
		EmptyOnFailure: true,
		Schedule:       o.Schedule,
		RunOnStartup:   o.RunOnStartup,
	}
}

package module

import (
	"net/url"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/fetch"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/parse"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
	ptime "github.com/mincheuk/road2air-icn-smart-services/internal/platform/time"
)

// Mapping renames the rate table columns to the published Korean labels.
// Rates are quoted with thousands separators
var Mapping = record.Mapping{Fields: []record.Field{
	record.Str("통화코드", "cur_unit"),
	record.Str("통화명", "cur_nm"),
	record.Float("송금받을때", "ttb").WithThousands(),
	record.Float("송금보낼때", "tts").WithThousands(),
	record.Float("매매기준율", "deal_bas_r").WithThousands(),
}}

// SearchDate is the table date asked for at t: the latest weekday in KST,
// since the bank publishes no weekend tables
func SearchDate(t time.Time) string {
	return ptime.YMD(ptime.LatestWeekday(t.In(ptime.KST)))
}

// Pipeline builds the exchange pipeline config named name
func (o Options) Pipeline(name string) pipeline.Config {
	return pipeline.Config{
		Name:      name,
		SourceURL: o.URL,
		Params: url.Values{
			"authkey": {o.ServiceKey},
			"data":    {"AP01"},
		},
		ParamsAt: func(at time.Time) url.Values {
			return url.Values{"searchdate": {SearchDate(at)}}
		},
		// the response is a bare array
		Format:  parse.FormatJSON,
		Paging:  fetch.PagingSingle,
		Timeout: o.Timeout,

		Mapping: Mapping,
		Allow:   record.NewAllow("통화코드", o.Currencies...),

		Sink:     o.Sink,
		Schedule: o.Schedule,
	}
}

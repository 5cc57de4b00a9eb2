package module

import (
	"context"
	"testing"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/adapters/sink"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/testkit"
)

const table = `[
 {"result":1,"cur_unit":"AED","cur_nm":"아랍에미리트 디르함","ttb":"355.9","tts":"363.09","deal_bas_r":"359.5"},
 {"result":1,"cur_unit":"JPY(100)","cur_nm":"일본 옌","ttb":"881.06","tts":"898.85","deal_bas_r":"889.96"},
 {"result":1,"cur_unit":"USD","cur_nm":"미국 달러","ttb":"1,307.29","tts":"1,333.70","deal_bas_r":"1,320.50"},
 {"result":1,"cur_unit":"EUR","cur_nm":"유로","ttb":"1,400.00","tts":"1,420.00","deal_bas_r":"1,410.00"}
]`

func TestSearchDate(t *testing.T) {
	cases := []struct {
		name string
		at   time.Time
		want string
	}{
		{"tuesday", time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC), "20250304"},
		{"saturday", time.Date(2025, 3, 8, 3, 0, 0, 0, time.UTC), "20250307"},
		{"sunday", time.Date(2025, 3, 9, 3, 0, 0, 0, time.UTC), "20250307"},
		// 16:00 UTC Friday is already Saturday in Seoul
		{"late friday utc", time.Date(2025, 3, 7, 16, 0, 0, 0, time.UTC), "20250307"},
		// 20:00 UTC Sunday is Monday in Seoul
		{"late sunday utc", time.Date(2025, 3, 9, 20, 0, 0, 0, time.UTC), "20250310"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SearchDate(tc.at); got != tc.want {
				t.Fatalf("SearchDate(%s)=%s want %s", tc.at, got, tc.want)
			}
		})
	}
}

func TestRun_FiltersWatchedCurrencies(t *testing.T) {
	src := testkit.NewPageServer(t, "application/json", table)
	t.Setenv("EXCHANGE_SERVICE_KEY", "auth")
	t.Setenv("EXCHANGE_CURRENCIES", "USD,JPY(100)")

	mem := &sink.Memory{}
	m, err := New(modkit.Deps{Sink: mem}, modkit.WithConfig(func(c *pipeline.Config) { c.SourceURL = src.URL }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	at := time.Date(2025, 3, 8, 3, 0, 0, 0, time.UTC)
	sum, err := m.Runner().Run(context.Background(), pipeline.Trigger{At: at})
	if err != nil || sum.Records != 2 || sum.Filtered != 2 {
		t.Fatalf("sum=%+v err=%v", sum, err)
	}

	q := src.Query(0)
	if q.Get("authkey") != "auth" || q.Get("data") != "AP01" || q.Get("searchdate") != "20250307" {
		t.Fatalf("query=%v", q)
	}
	if q.Has("pageNo") || q.Has("serviceKey") {
		t.Fatalf("single-shot exchange query must not carry paging or serviceKey: %v", q)
	}

	want := `[{"통화코드":"JPY(100)","통화명":"일본 옌","송금받을때":881.06,"송금보낼때":898.85,"매매기준율":889.96},` +
		`{"통화코드":"USD","통화명":"미국 달러","송금받을때":1307.29,"송금보낼때":1333.7,"매매기준율":1320.5}]`
	if b := mem.Batches(); len(b) != 1 || string(b[0].Payload) != want {
		t.Fatalf("batches=%+v", b)
	}
}

func TestRun_NothingWatchedSkips(t *testing.T) {
	src := testkit.NewPageServer(t, "application/json", `[]`)
	t.Setenv("EXCHANGE_SERVICE_KEY", "auth")

	mem := &sink.Memory{}
	m, err := New(modkit.Deps{Sink: mem}, modkit.WithConfig(func(c *pipeline.Config) { c.SourceURL = src.URL }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sum, err := m.Runner().Run(context.Background(), pipeline.Trigger{})
	if err != nil || sum.Outcome != pipeline.OutcomeSkipped || len(mem.Batches()) != 0 {
		t.Fatalf("sum=%+v err=%v batches=%d", sum, err, len(mem.Batches()))
	}
}

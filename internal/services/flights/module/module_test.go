package module

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/adapters/sink"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/alert"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/config"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/testkit"
)

const page1 = `{"response":{"header":{"resultCode":"00","resultMsg":"NORMAL SERVICE."},"body":{"items":{"item":[
 {"airline":"대한항공","flightId":"KE701","airport":"나리타","airportCode":"NRT","scheduleDateTime":"1200","estimatedDateTime":"1330","yoil":"화","remark":"지연","gatenumber":"12","temp":"9.5","senstemp":"7","himidity":"60","wind":"3.1","wimage":"http://img/1.png"},
 {"airline":"델타항공","flightId":"DL158","airport":"뉴욕","airportCode":"JFK","scheduleDateTime":"1000","remark":"출발"}
]},"numOfRows":2,"pageNo":1,"totalCount":3}}}`

const page2 = `{"response":{"header":{"resultCode":"00"},"body":{"items":{"item":
 {"airline":"제주항공","flightId":"7C1301","airport":"오사카","airportCode":"KIX","scheduleDateTime":"0930","remark":"탑승중","temp":"-"}
},"numOfRows":2,"pageNo":2,"totalCount":3}}}`

type bodies struct {
	mu  sync.Mutex
	got []string
}

func (b *bodies) Notify(_ context.Context, body []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.got = append(b.got, string(body))
	return nil
}

func TestFromConfig_Defaults(t *testing.T) {
	o := FromConfig(config.New())
	if o.URL != DefaultURL || o.Sink != "flights" || o.PageSize != 100 || o.Timeout != 30*time.Second {
		t.Fatalf("options=%+v", o)
	}
	if o.Schedule != "0 */20 * * * *" || !o.Enabled {
		t.Fatalf("options=%+v", o)
	}
	if !slices.Equal(o.Airports, DefaultAirports) || !slices.Equal(o.Keywords, DefaultKeywords) {
		t.Fatalf("airports=%v keywords=%v", o.Airports, o.Keywords)
	}
}

func TestFromConfig_Overrides(t *testing.T) {
	t.Setenv("FLIGHTS_AIRPORTS", "NRT, KIX ,")
	t.Setenv("FLIGHTS_DELAY_KEYWORDS", "결항,지연")
	t.Setenv("FLIGHTS_SCHEDULE", "@every 5m")
	o := FromConfig(config.New())
	if !slices.Equal(o.Airports, []string{"NRT", "KIX"}) || !slices.Equal(o.Keywords, []string{"결항", "지연"}) {
		t.Fatalf("airports=%v keywords=%v", o.Airports, o.Keywords)
	}
	if o.Schedule != "@every 5m" {
		t.Fatalf("schedule=%q", o.Schedule)
	}
}

func TestPipeline_Validates(t *testing.T) {
	o := FromConfig(config.New())
	o.ServiceKey = "k"
	cfg := o.Pipeline("flights")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.Params.Get("lang") != "K" || cfg.Params.Get("type") != "json" || !cfg.Params.Has("airport") {
		t.Fatalf("params=%v", cfg.Params)
	}
	if len(Mapping.Targets()) != 14 {
		t.Fatalf("targets=%v", Mapping.Targets())
	}
}

func TestNew_RequiresServiceKey(t *testing.T) {
	_, err := New(modkit.Deps{Sink: &sink.Memory{}})
	if !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("want config error, got %v", err)
	}
}

func TestNew_Disabled(t *testing.T) {
	t.Setenv("FLIGHTS_ENABLED", "false")
	m, err := New(modkit.Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if m.Enabled() || m.Runner() != nil || m.Name() != "flights" {
		t.Fatalf("disabled module=%+v", m)
	}
}

func TestRun_PagesFiltersAndAlerts(t *testing.T) {
	srv := testkit.NewPageServer(t, "application/json", page1, page2)
	t.Setenv("FLIGHTS_SERVICE_KEY", "secret")
	t.Setenv("FLIGHTS_PAGE_SIZE", "2")

	mem := &sink.Memory{}
	alerts := &bodies{}
	m, err := New(
		modkit.Deps{Sink: mem, Alerts: alerts},
		modkit.WithConfig(func(c *pipeline.Config) { c.SourceURL = srv.URL }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	sum, err := m.Runner().Run(context.Background(), pipeline.Trigger{Source: pipeline.SourceManual})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if srv.Hits() != 2 || sum.Items != 3 || sum.Records != 2 || sum.Filtered != 1 || sum.Anomalies != 1 {
		t.Fatalf("hits=%d summary=%+v", srv.Hits(), sum)
	}

	q := srv.Query(0)
	if q.Get("serviceKey") != "secret" || q.Get("numOfRows") != "2" || q.Get("pageNo") != "1" || q.Get("from_time") != "0000" || q.Get("to_time") != "2400" {
		t.Fatalf("query=%v", q)
	}
	if srv.Query(1).Get("pageNo") != "2" {
		t.Fatalf("second query=%v", srv.Query(1))
	}

	batches := mem.Batches()
	if len(batches) != 1 || batches[0].Name != "flights" || batches[0].Count != 2 {
		t.Fatalf("batches=%+v", batches)
	}
	payload := string(batches[0].Payload)
	testkit.MustContain(t, payload, `"airportCode":"NRT","yoil":"화","remark":"지연","gatenumber":"12","temp":9.5,"senstemp":7,"himidity":60,"wind":3.1`)
	testkit.MustContain(t, payload, `"airportCode":"KIX","yoil":"","remark":"탑승중","gatenumber":"","temp":0`)
	testkit.MustNotContain(t, payload, "JFK")

	if len(alerts.got) != 1 {
		t.Fatalf("alerts=%d", len(alerts.got))
	}
	testkit.MustContain(t, alerts.got[0], `"alert_type":"flight_delay_detected"`)
	testkit.MustContain(t, alerts.got[0], "대한항공 KE701편 12:00 출발 → 13:30 변경 나리타(NRT)행 비행기 지연이 감지되었습니다 (12게이트)")
	testkit.MustContain(t, alerts.got[0], `"source":"`+alert.DefaultSource+`"`)
}

func TestRun_EmptyDayStillPublishes(t *testing.T) {
	srv := testkit.NewPageServer(t, "application/json",
		`{"response":{"header":{"resultCode":"00"},"body":{"items":"","numOfRows":100,"pageNo":1,"totalCount":0}}}`)
	t.Setenv("FLIGHTS_SERVICE_KEY", "secret")

	mem := &sink.Memory{}
	m, err := New(modkit.Deps{Sink: mem}, modkit.WithConfig(func(c *pipeline.Config) { c.SourceURL = srv.URL }))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := m.Runner().Run(context.Background(), pipeline.Trigger{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if b := mem.Batches(); len(b) != 1 || string(b[0].Payload) != "[]" {
		t.Fatalf("batches=%+v", b)
	}
}

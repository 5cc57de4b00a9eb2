package config

import (
	"testing"
	"time"

	kit "github.com/mincheuk/road2air-icn-smart-services/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	flights := New().Prefix("FLIGHTS_")
	if got := flights.key("URL"); got != "FLIGHTS_URL" {
		t.Fatalf("key() = %q, want %q", got, "FLIGHTS_URL")
	}
	if got := flights.Prefix("ALERT_").key("URL"); got != "FLIGHTS_ALERT_URL" {
		t.Fatalf("nested key() = %q", got)
	}
}

func TestHas(t *testing.T) {
	c := New().Prefix("H_")
	t.Setenv("H_SET", "x")
	t.Setenv("H_BLANK", "   ")
	if !c.Has("SET") || c.Has("BLANK") || c.Has("MISSING") {
		t.Fatalf("Has mismatch")
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  collector ")
	if got := c.MustString("NAME"); got != "collector" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
	t.Setenv("APP_WS", "   ")
	kit.MustPanic(t, func() { _ = c.MustString("WS") })
}

func TestMustInt(t *testing.T) {
	c := New().Prefix("SVC_")
	t.Setenv("SVC_ROWS", "  100 ")
	if got := c.MustInt("ROWS"); got != 100 {
		t.Fatalf("MustInt = %d", got)
	}
	kit.MustPanic(t, func() { _ = c.MustInt("MISSING") })
	t.Setenv("SVC_BAD", "x")
	kit.MustPanic(t, func() { _ = c.MustInt("BAD") })
}

func TestMustDuration(t *testing.T) {
	c := New().Prefix("D_")
	t.Setenv("D_OK", "30s")
	if got := c.MustDuration("OK"); got != 30*time.Second {
		t.Fatalf("MustDuration = %v", got)
	}
	t.Setenv("D_BAD", "soon")
	kit.MustPanic(t, func() { _ = c.MustDuration("BAD") })
}

func TestMustURL(t *testing.T) {
	c := New().Prefix("U_")
	t.Setenv("U_OK", "https://apis.data.go.kr/B551177/StatusOfParking/getTrackingParking")
	if u := c.MustURL("OK"); u.Host != "apis.data.go.kr" {
		t.Fatalf("MustURL host = %q", u.Host)
	}
	t.Setenv("U_REL", "/relative/path")
	kit.MustPanic(t, func() { _ = c.MustURL("REL") })
}

func TestMayInt(t *testing.T) {
	c := New().Prefix("I_")
	if got := c.MayInt("MISS", 7); got != 7 {
		t.Fatalf("MayInt default = %d", got)
	}
	t.Setenv("I_OK", "42")
	t.Setenv("I_BAD", "4x2")
	t.Setenv("I_ZERO", "0")
	if got := c.MayInt("OK", 7); got != 42 {
		t.Fatalf("MayInt = %d", got)
	}
	if got := c.MayInt("BAD", 7); got != 7 {
		t.Fatalf("MayInt invalid = %d", got)
	}
	if got := c.MayPositiveInt("ZERO", 100); got != 100 {
		t.Fatalf("MayPositiveInt zero = %d", got)
	}
	if got := c.MayPositiveInt("OK", 100); got != 42 {
		t.Fatalf("MayPositiveInt = %d", got)
	}
}

func TestMayBool(t *testing.T) {
	c := New().Prefix("B_")
	t.Setenv("B_ON", "true")
	t.Setenv("B_BAD", "maybe")
	if !c.MayBool("ON", false) || !c.MayBool("BAD", true) || c.MayBool("MISSING", false) {
		t.Fatalf("MayBool mismatch")
	}
}

func TestMayDuration(t *testing.T) {
	c := New().Prefix("T_")
	t.Setenv("T_OK", "15s")
	t.Setenv("T_BAD", "quick")
	t.Setenv("T_NEG", "-1s")
	if got := c.MayDuration("OK", time.Second); got != 15*time.Second {
		t.Fatalf("MayDuration = %v", got)
	}
	if got := c.MayDuration("BAD", time.Second); got != time.Second {
		t.Fatalf("MayDuration invalid = %v", got)
	}
	if got := c.MayDuration("NEG", time.Second); got != time.Second {
		t.Fatalf("MayDuration negative = %v", got)
	}
}

func TestMayURL(t *testing.T) {
	c := New().Prefix("W_")
	t.Setenv("W_OK", "https://hooks.example.com/alert")
	t.Setenv("W_BAD", "hooks.example.com/alert")
	if got := c.MayURL("OK", ""); got != "https://hooks.example.com/alert" {
		t.Fatalf("MayURL = %q", got)
	}
	if got := c.MayURL("BAD", "fallback"); got != "fallback" {
		t.Fatalf("MayURL invalid = %q", got)
	}
	if got := c.MayURL("MISSING", ""); got != "" {
		t.Fatalf("MayURL missing = %q", got)
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CSV_")
	def := []string{"NRT", "KIX"}
	if got := c.MayCSV("MISS", def); len(got) != 2 || got[0] != "NRT" {
		t.Fatalf("MayCSV default mismatch: %#v", got)
	}
	t.Setenv("CSV_VALS", " 지연, 취소 , ,결항 ,, ")
	got := c.MayCSV("VALS", nil)
	want := []string{"지연", "취소", "결항"}
	if len(got) != len(want) {
		t.Fatalf("MayCSV len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("MayCSV[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	t.Setenv("CSV_EMPTY", " , ,  ,")
	if got := c.MayCSV("EMPTY", def); len(got) != 2 {
		t.Fatalf("MayCSV all-empty should fall back: %#v", got)
	}
}

func TestMayEnum(t *testing.T) {
	c := New().Prefix("E_")
	if got := c.MayEnum("MISS", "redis", "redis", "pg", "clickhouse", "log"); got != "redis" {
		t.Fatalf("MayEnum default = %q", got)
	}
	t.Setenv("E_KIND", "ClickHouse")
	if got := c.MayEnum("KIND", "redis", "redis", "pg", "clickhouse", "log"); got != "clickhouse" {
		t.Fatalf("MayEnum allowed value = %q", got)
	}
	if got := c.MayEnum("MISSING", "", "redis"); got != "" {
		t.Fatalf("MayEnum empty default = %q", got)
	}
	t.Setenv("E_BAD", "kafka")
	kit.MustPanic(t, func() { _ = c.MayEnum("BAD", "redis", "redis", "pg") })
}

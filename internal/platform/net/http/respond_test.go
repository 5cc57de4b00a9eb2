package http_test

import (
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	pnet "github.com/mincheuk/road2air-icn-smart-services/internal/platform/net"
	phttp "github.com/mincheuk/road2air-icn-smart-services/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-json-experiment/json"
)

func reqWithID(path, rid string) *stdhttp.Request {
	req := httptest.NewRequest(stdhttp.MethodGet, path, nil)
	return req.WithContext(pnet.WithRequestID(req.Context(), rid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestRespondOK(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondOK(rec, reqWithID("/x", "rid-1"), map[string]string{"a": "b"})

	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("RespondOK code: %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type %q", ct)
	}
	env := decode(t, rec)
	if env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil || env.Error != "" {
		t.Fatalf("bad envelope: %+v", env)
	}
}

func TestRespondOK_EmptyListKept(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondOK(rec, reqWithID("/x", ""), []string{})
	env := decode(t, rec)
	if list, ok := env.Data.([]any); !ok || len(list) != 0 {
		t.Fatalf("expected empty list data, got %#v", env.Data)
	}
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		kind   string
	}{
		{perr.NotFoundf("no pipeline %q", "x"), stdhttp.StatusNotFound, "not_found"},
		{perr.Unavailablef("pg down"), stdhttp.StatusServiceUnavailable, "unavailable"},
		{perr.WithField(perr.Configf("missing"), "FLIGHTS_SERVICE_KEY"), stdhttp.StatusBadRequest, "config"},
		{errors.New("plain"), stdhttp.StatusInternalServerError, "unknown"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		phttp.RespondError(rec, reqWithID("/err", "rid-3"), tc.err)
		if rec.Code != tc.status {
			t.Fatalf("%v: status %d want %d", tc.err, rec.Code, tc.status)
		}
		env := decode(t, rec)
		if env.Kind != tc.kind || env.Error == "" || env.RequestID != "rid-3" || env.Data != nil {
			t.Fatalf("%v: bad envelope %+v", tc.err, env)
		}
	}
}

func TestRespondError_CarriesField(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondError(rec, reqWithID("/err", ""), perr.WithField(perr.Configf("missing"), "OPS_ADDR"))
	if env := decode(t, rec); env.Field != "OPS_ADDR" || env.Code != perr.ErrorCodeConfig {
		t.Fatalf("bad envelope %+v", env)
	}
}

func TestHandle_ReturnStyle(t *testing.T) {
	ok := phttp.Handle(func(*stdhttp.Request) phttp.Response { return phttp.OK(1) })
	rec := httptest.NewRecorder()
	ok(rec, reqWithID("/ok", "rid-4"))
	if rec.Code != stdhttp.StatusOK || decode(t, rec).RequestID != "rid-4" {
		t.Fatalf("OK: %d %s", rec.Code, rec.Body.String())
	}

	hdr := phttp.Handle(func(*stdhttp.Request) phttp.Response {
		return phttp.Response{Body: "x", Header: stdhttp.Header{"X-Extra": {"1"}}}
	})
	rec = httptest.NewRecorder()
	hdr(rec, reqWithID("/hdr", ""))
	if rec.Code != stdhttp.StatusOK || rec.Header().Get("X-Extra") != "1" {
		t.Fatalf("zero status should default to 200 with headers, got %d", rec.Code)
	}

	bad := phttp.Handle(func(*stdhttp.Request) phttp.Response {
		return phttp.Response{Status: stdhttp.StatusOK, Body: perr.Unavailablef("down")}
	})
	rec = httptest.NewRecorder()
	bad(rec, reqWithID("/bad", ""))
	if rec.Code != stdhttp.StatusServiceUnavailable {
		t.Fatalf("error body must decide status, got %d", rec.Code)
	}
}

func TestGetJSON(t *testing.T) {
	r := phttp.AdaptChi(chi.NewRouter())
	phttp.GetJSON(r, "/v/{n}", func(req *stdhttp.Request) (any, error) {
		if phttp.URLParam(req, "n") == "missing" {
			return nil, perr.NotFoundf("missing")
		}
		return map[string]string{"n": phttp.URLParam(req, "n")}, nil
	})

	rec := httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/v/1", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("GET /v/1 => %d", rec.Code)
	}
	data, _ := decode(t, rec).Data.(map[string]any)
	if data["n"] != "1" {
		t.Fatalf("unexpected data %#v", data)
	}

	rec = httptest.NewRecorder()
	r.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/v/missing", nil))
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("GET /v/missing => %d", rec.Code)
	}
}

func TestMountProfiler(t *testing.T) {
	on := phttp.AdaptChi(chi.NewRouter())
	phttp.MountProfiler(on, "/debug", true)
	rec := httptest.NewRecorder()
	on.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/debug/pprof/cmdline", nil))
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("expected 200 at /debug/pprof/cmdline, got %d", rec.Code)
	}

	off := phttp.AdaptChi(chi.NewRouter())
	phttp.MountProfiler(off, "/debug", false)
	rec = httptest.NewRecorder()
	off.Mux().ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, "/debug/pprof/", nil))
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("expected 404 when disabled, got %d", rec.Code)
	}
}

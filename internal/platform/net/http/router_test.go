package http_test

import (
	"io"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	phttp "github.com/mincheuk/road2air-icn-smart-services/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

func header(name string) func(stdhttp.Handler) stdhttp.Handler {
	return func(next stdhttp.Handler) stdhttp.Handler {
		return stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
			w.Header().Set(name, "1")
			next.ServeHTTP(w, r)
		})
	}
}

func TestAdaptChi_RootRouteAndMux(t *testing.T) {
	t.Parallel()

	r := phttp.AdaptChi(chi.NewRouter())
	r.Use(header("X-Root"))

	r.Get("/root", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) { _, _ = io.WriteString(w, "root") })
	r.Handle("/std", stdhttp.HandlerFunc(func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
		_, _ = io.WriteString(w, "std")
	}))

	r.Route("/runs", func(sr phttp.Router) {
		sr.Use(header("X-Route"))
		if sr.Mux() == nil {
			t.Fatalf("subroute Mux() returned nil")
		}
		sr.Get("/{name}", func(w stdhttp.ResponseWriter, req *stdhttp.Request) {
			_, _ = io.WriteString(w, phttp.URLParam(req, "name"))
		})
	})

	cases := []struct {
		path, body string
		headers    []string
		absent     string
	}{
		{"/root", "root", []string{"X-Root"}, "X-Route"},
		{"/std", "std", []string{"X-Root"}, "X-Route"},
		{"/runs/flights", "flights", []string{"X-Root", "X-Route"}, ""},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		r.Mux().ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodGet, tc.path, nil))
		if rr.Code != stdhttp.StatusOK || rr.Body.String() != tc.body {
			t.Fatalf("GET %s => code=%d body=%q", tc.path, rr.Code, rr.Body.String())
		}
		for _, h := range tc.headers {
			if rr.Header().Get(h) != "1" {
				t.Fatalf("GET %s: missing %s", tc.path, h)
			}
		}
		if tc.absent != "" && rr.Header().Get(tc.absent) != "" {
			t.Fatalf("GET %s: unexpected %s", tc.path, tc.absent)
		}
	}
}

func TestAdaptChi_OnlyGet(t *testing.T) {
	t.Parallel()

	r := phttp.AdaptChi(chi.NewRouter())
	r.Get("/x", func(w stdhttp.ResponseWriter, _ *stdhttp.Request) {})

	rr := httptest.NewRecorder()
	r.Mux().ServeHTTP(rr, httptest.NewRequest(stdhttp.MethodPost, "/x", nil))
	if rr.Code != stdhttp.StatusMethodNotAllowed {
		t.Fatalf("POST /x => %d, want 405", rr.Code)
	}
}

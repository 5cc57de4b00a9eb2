package testkit

import (
	"io"
	"net/http"
	"testing"
)

func TestMustPanic(t *testing.T) {
	MustPanic(t, func() { panic("boom") })
}

func TestMustNotPanic(t *testing.T) {
	MustNotPanic(t, func() {})
}

func TestMustContain(t *testing.T) {
	MustContain(t, "hello world", "world")
	MustNotContain(t, "hello world", "mars")
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b)
}

func TestPageServer(t *testing.T) {
	ps := NewPageServer(t, "application/json", `{"p":1}`, `{"p":2}`)

	if st, body := get(t, ps.URL+"?pageNo=2&serviceKey=k"); st != 200 || body != `{"p":2}` {
		t.Fatalf("page 2 = %d %q", st, body)
	}
	if st, body := get(t, ps.URL); st != 200 || body != `{"p":1}` {
		t.Fatalf("default page = %d %q", st, body)
	}
	if st, _ := get(t, ps.URL+"?pageNo=3"); st != http.StatusInternalServerError {
		t.Fatalf("past last page status = %d", st)
	}
	if ps.Hits() != 3 {
		t.Fatalf("Hits = %d, want 3", ps.Hits())
	}
	if ps.Query(0).Get("serviceKey") != "k" {
		t.Fatalf("Query(0) = %v", ps.Query(0))
	}
	if ps.Query(9) != nil {
		t.Fatalf("out of range Query should be nil")
	}
}

func TestStaticServer(t *testing.T) {
	srv := StaticServer(t, http.StatusTeapot, "text/plain", "short and stout")
	if st, body := get(t, srv.URL); st != http.StatusTeapot || body != "short and stout" {
		t.Fatalf("StaticServer = %d %q", st, body)
	}
}

package http

import (
	stdhttp "net/http"

	mw "github.com/go-chi/chi/v5/middleware"
)

// MountProfiler mounts pprof under prefix. Example: "/debug"
func MountProfiler(r Router, prefix string, enabled bool) {
	if !enabled {
		return
	}
	// emulate r.Mount by stripping the prefix before handing off to the profiler mux
	h := stdhttp.StripPrefix(prefix, mw.Profiler())

	r.Get(prefix, h.ServeHTTP)
	r.Get(prefix+"/*", h.ServeHTTP)
}

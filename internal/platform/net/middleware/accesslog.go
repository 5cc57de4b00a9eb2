// Package middleware holds adapters and in house middlewares
package middleware

import (
	"net/http"
	"slices"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/logger"
	pnet "github.com/mincheuk/road2air-icn-smart-services/internal/platform/net"
)

// AccessLogOptions configures the zerolog access log
type AccessLogOptions struct {
	// Slow marks requests taking >= Slow as warn level, 0 disables slow marking
	Slow time.Duration
	// Quiet paths log at debug instead of info (prometheus scrapes, k8s probes)
	Quiet []string
	// Log overrides the destination, nil means the "http" component logger
	Log *logger.Logger
}

// captureWriter wraps the original ResponseWriter and records status & bytes
type captureWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	n, err := cw.ResponseWriter.Write(b)
	if n > 0 {
		cw.bytes += n
	}
	return n, err
}

// AccessLogZerolog logs method, path, status, elapsed, and bytes written
func AccessLogZerolog(opt AccessLogOptions) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(cw, r)

			elapsed := time.Since(start)
			log := opt.Log
			if log == nil {
				log = logger.Named("http")
			}
			evt := log.Info()
			switch {
			case opt.Slow > 0 && elapsed >= opt.Slow:
				evt = log.Warn()
			case cw.status >= http.StatusInternalServerError:
				evt = log.Error()
			case slices.Contains(opt.Quiet, r.URL.Path):
				evt = log.Debug()
			}
			if id := pnet.RequestID(r.Context()); id != "" {
				evt = evt.Str("request_id", id)
			}
			evt.Int("status", cw.status).
				Dur("elapsed", elapsed).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("bytes", cw.bytes).
				Msg("request done")
		})
	}
}

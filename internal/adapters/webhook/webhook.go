// Package webhook posts alert and notice payloads to an HTTP endpoint
package webhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/logger"
	pstrings "github.com/mincheuk/road2air-icn-smart-services/internal/platform/strings"
)

const (
	defaultTimeout = 30 * time.Second
	defaultUA      = "road2air-collector"
	errTail        = 256
)

// Options configures a Poster
type Options struct {
	URL       string
	Timeout   time.Duration
	UserAgent string

	// Client overrides the HTTP client, mainly for tests
	Client *http.Client
}

// Poster sends one JSON POST per call. Only 200 counts as delivered; there is
// no retry
type Poster struct {
	http *http.Client
	opts Options
	host string
}

// New validates the endpoint and fills defaults
func New(o Options) (*Poster, error) {
	u, err := url.Parse(o.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, perr.WithField(perr.Configf("webhook: bad url"), "url")
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	c := o.Client
	if c == nil {
		c = &http.Client{Timeout: o.Timeout}
	}
	return &Poster{http: c, opts: o, host: u.Host}, nil
}

// Notify implements alert.Notifier
func (p *Poster) Notify(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.opts.URL, bytes.NewReader(body))
	if err != nil {
		return perr.Wrap(err, perr.ErrorCodeNotify, "webhook new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", p.opts.UserAgent)

	start := time.Now()
	resp, err := p.http.Do(req)
	if err != nil {
		// url.Error carries the full URL, which embeds workflow signatures
		if ue, ok := err.(*url.Error); ok {
			err = ue.Err
		}
		return perr.Wrapf(err, perr.ErrorCodeNotify, "webhook post to %s", p.host)
	}
	defer func() { _ = drainAndClose(resp.Body) }()

	logger.C(ctx).Debug().
		Str("host", p.host).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("webhook response")

	if resp.StatusCode != http.StatusOK {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, errTail))
		return perr.Notifyf("webhook %s: status %d body %s", p.host, resp.StatusCode, pstrings.Truncate(string(tail), errTail))
	}
	return nil
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 512))
	return rc.Close()
}

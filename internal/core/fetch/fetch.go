// Package fetch walks a paginated public API one page at a time and hands back
// every raw item, or nothing at all
package fetch

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/parse"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/logger"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/metrics"
	pstrings "github.com/mincheuk/road2air-icn-smart-services/internal/platform/strings"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUA        = "road2air-collector"
	defaultPageParam = "pageNo"
	defaultSizeParam = "numOfRows"
	defaultMaxPages  = 1000

	// MaxBody caps a single response body
	MaxBody = 8 << 20

	errTail = 512
)

// Paging selects how many requests a fetch makes
type Paging string

const (
	// PagingPaged follows pageNo until an empty page, the reported total or MaxPages
	PagingPaged Paging = "paged"
	// PagingSingle makes exactly one request with the static parameters
	PagingSingle Paging = "single"
)

// Request describes one fetch. Params are sent unchanged on every page
type Request struct {
	URL       string
	Params    url.Values
	Parser    parse.Parser
	Paging    Paging
	PageSize  int
	PageParam string
	SizeParam string
	MaxPages  int
}

// Options configures a Fetcher
type Options struct {
	Pipeline  string
	Timeout   time.Duration
	UserAgent string
	Metrics   *metrics.Metrics

	// Client overrides the HTTP client, mainly for tests
	Client *http.Client
}

// Fetcher issues page requests for one pipeline
type Fetcher struct {
	http *http.Client
	opts Options
}

// New creates a Fetcher with defaults filled in
func New(o Options) *Fetcher {
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
	return &Fetcher{http: c, opts: o}
}

// FetchAll requests pages strictly one after another. It stops on an empty page,
// when page*PageSize reaches the reported total, after one request in single mode,
// or at MaxPages. Any failed page fails the whole fetch
func (f *Fetcher) FetchAll(ctx context.Context, req Request) ([]parse.Item, error) {
	if req.Parser == nil {
		return nil, perr.Configf("fetch %s: no parser", f.opts.Pipeline)
	}
	base, err := url.Parse(req.URL)
	if err != nil || base.Host == "" {
		return nil, perr.Configf("fetch %s: bad url %q", f.opts.Pipeline, req.URL)
	}
	req = withDefaults(req)
	log := logger.C(ctx)

	var items []parse.Item
	for pageNo := 1; ; pageNo++ {
		q := base.Query()
		for k, vs := range req.Params {
			q[k] = append([]string(nil), vs...)
		}
		if req.Paging == PagingPaged {
			q.Set(req.PageParam, strconv.Itoa(pageNo))
			q.Set(req.SizeParam, strconv.Itoa(req.PageSize))
		}
		u := *base
		u.RawQuery = q.Encode()

		body, err := f.get(ctx, &u)
		if err != nil {
			return nil, err
		}
		page, err := req.Parser.ParsePage(body)
		if err != nil {
			return nil, perr.WithOp(err, "fetch page "+strconv.Itoa(pageNo))
		}
		log.Debug().
			Int("page", pageNo).
			Int("items", len(page.Items)).
			Int("total", page.Total).
			Bool("has_total", page.HasTotal).
			Msg("page fetched")

		if len(page.Items) == 0 {
			break
		}
		items = append(items, page.Items...)

		if req.Paging != PagingPaged {
			break
		}
		if page.HasTotal && pageNo*req.PageSize >= page.Total {
			break
		}
		if pageNo >= req.MaxPages {
			log.Warn().Int("max_pages", req.MaxPages).Int("items", len(items)).Msg("page limit reached, stopping early")
			break
		}
	}
	return items, nil
}

func withDefaults(r Request) Request {
	if r.Paging == "" {
		r.Paging = PagingPaged
	}
	if r.PageParam == "" {
		r.PageParam = defaultPageParam
	}
	if r.SizeParam == "" {
		r.SizeParam = defaultSizeParam
	}
	if r.PageSize <= 0 {
		r.PageSize = 100
	}
	if r.MaxPages <= 0 {
		r.MaxPages = defaultMaxPages
	}
	return r
}

func (f *Fetcher) get(ctx context.Context, u *url.URL) ([]byte, error) {
	where := Redact(u)
	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeFetch, "new request %s", where)
	}
	hreq.Header.Set("User-Agent", f.opts.UserAgent)
	hreq.Header.Set("Accept", "application/json, application/xml;q=0.9, */*;q=0.8")

	start := time.Now()
	resp, err := f.http.Do(hreq)
	if err != nil {
		f.opts.Metrics.FetchStatus(f.opts.Pipeline, 0)
		// url.Error repeats the full URL, keys included
		if ue, ok := err.(*url.Error); ok {
			err = ue.Err
		}
		code := perr.ErrorCodeFetch
		if ctx.Err() != nil {
			code = perr.ErrorCodeUnavailable
		}
		return nil, perr.Wrapf(err, code, "get %s", where)
	}
	defer func() { _ = resp.Body.Close() }()
	f.opts.Metrics.FetchStatus(f.opts.Pipeline, resp.StatusCode)

	logger.C(ctx).Debug().
		Str("url", where).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("upstream response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		tail, _ := io.ReadAll(io.LimitReader(resp.Body, errTail))
		code := perr.ErrorCodeFetch
		if resp.StatusCode == http.StatusTooManyRequests {
			code = perr.ErrorCodeTooManyRequests
		}
		return nil, perr.Newf(code, "get %s: status %d body %s", where, resp.StatusCode, pstrings.Truncate(string(tail), errTail))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxBody+1))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeFetch, "read %s", where)
	}
	if len(body) > MaxBody {
		return nil, perr.Fetchf("get %s: body exceeds %d bytes", where, MaxBody)
	}
	return body, nil
}

var secretParams = []string{"serviceKey", "ServiceKey", "authkey"}

// Redact renders u with credential query values masked
func Redact(u *url.URL) string {
	q := u.Query()
	hit := false
	for _, k := range secretParams {
		if q.Has(k) {
			q.Set(k, "REDACTED")
			hit = true
		}
	}
	if !hit {
		return u.String()
	}
	c := *u
	c.RawQuery = q.Encode()
	return c.String()
}

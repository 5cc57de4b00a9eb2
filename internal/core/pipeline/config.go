// Package pipeline runs one scheduled collection: fetch, parse, normalize,
// detect, publish
package pipeline

import (
	"net/url"
	"slices"
	"time"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/alert"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/detector"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/fetch"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/parse"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
	"github.com/mincheuk/road2air-icn-smart-services/internal/platform/validate"
)

// Config is built once per pipeline at startup and only read afterwards
type Config struct {
	Name      string     `json:"name" validate:"required,alphanum,lowercase"`
	SourceURL string     `json:"source_url" validate:"required,url"`
	Params    url.Values `json:"-"`
	// ParamsAt adds per-run parameters derived from the trigger time
	ParamsAt func(at time.Time) url.Values `json:"-"`

	Format    parse.Format `json:"format" validate:"required,oneof=json xml"`
	ItemPath  string       `json:"item_path"`
	CountPath string       `json:"count_path"`

	Paging    fetch.Paging  `json:"paging" validate:"required,oneof=paged single"`
	PageSize  int           `json:"page_size" validate:"gte=0,max=1000"`
	PageParam string        `json:"page_param"`
	SizeParam string        `json:"size_param"`
	MaxPages  int           `json:"max_pages" validate:"gte=0"`
	Timeout   time.Duration `json:"timeout" validate:"gte=0"`

	Mapping record.Mapping  `json:"-" validate:"-"`
	Exclude record.Exclude  `json:"-"`
	Allow   record.Allow    `json:"-" validate:"-"`
	Anomaly detector.Rule   `json:"-" validate:"-"`
	Alert   alert.Formatter `json:"-"`
	Notice  alert.Notice    `json:"-" validate:"-"`

	Sink           string `json:"sink" validate:"required"`
	PublishEmpty   bool   `json:"publish_empty"`
	EmptyOnFailure bool   `json:"empty_on_failure"`

	Schedule     string `json:"schedule" validate:"omitempty,cronspec"`
	RunOnStartup bool   `json:"run_on_startup"`
}

// Validate checks struct tags and the cross-field rules tags cannot express
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return perr.WithOp(err, "pipeline "+c.Name)
	}
	targets := c.Mapping.Targets()
	if len(c.Mapping.Fields) == 0 && c.Mapping.Expand == nil {
		return c.invalid("mapping", "mapping has no fields")
	}
	if x := c.Mapping.Expand; x != nil && (x.AreaField == "" || x.ValueField == "" || len(x.Areas) == 0) {
		return c.invalid("mapping", "expansion needs area field, value field and areas")
	}
	if c.Allow.Enabled() && !slices.Contains(targets, c.Allow.Field) {
		return c.invalid("allow", "allow field "+c.Allow.Field+" is not a mapped field")
	}
	if c.Anomaly.Enabled() {
		if err := validate.Struct(c.Anomaly); err != nil {
			return perr.WithOp(err, "pipeline "+c.Name)
		}
		if !slices.Contains(targets, c.Anomaly.Field) {
			return c.invalid("anomaly", "anomaly field "+c.Anomaly.Field+" is not a mapped field")
		}
	}
	if c.Alert != nil && !c.Anomaly.Enabled() {
		return c.invalid("alert", "alert formatter without anomaly rule")
	}
	return nil
}

func (c Config) invalid(field, msg string) error {
	return perr.WithOp(perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field), "pipeline "+c.Name)
}

func (c Config) request(p parse.Parser, at time.Time) fetch.Request {
	params := url.Values{}
	for k, vs := range c.Params {
		params[k] = append([]string(nil), vs...)
	}
	if c.ParamsAt != nil {
		for k, vs := range c.ParamsAt(at) {
			params[k] = append([]string(nil), vs...)
		}
	}
	return fetch.Request{
		URL:       c.SourceURL,
		Params:    params,
		Parser:    p,
		Paging:    c.Paging,
		PageSize:  c.PageSize,
		PageParam: c.PageParam,
		SizeParam: c.SizeParam,
		MaxPages:  c.MaxPages,
	}
}

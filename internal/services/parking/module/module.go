// Package module provides the parking module: lot occupancy every ten minutes
// with an optional completion notice
package module

import (
	"github.com/mincheuk/road2air-icn-smart-services/internal/adapters/webhook"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
)

// Ports defines the parking module ports
type Ports struct {
	Runner *pipeline.Runner
}

// Module implements the parking module
type Module struct {
	name  string
	opts  Options
	ports Ports
}

var _ modkit.Module = (*Module)(nil)

// New constructs the parking module from deps.Cfg. The notice channel is a
// webhook on PARKING_NOTICE_URL unless modkit.WithNotices overrides it
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build("parking", Prefix, opts...)
	o := read(deps.Cfg.Prefix(b.Prefix))

	m := &Module{name: b.Name, opts: o}
	if !o.Enabled {
		return m, nil
	}
	if err := o.Require(b.Prefix); err != nil {
		return nil, err
	}

	notices := b.Notices
	if !b.NoticesSet && o.NoticeURL != "" {
		p, err := webhook.New(webhook.Options{URL: o.NoticeURL, Client: deps.HTTPClient})
		if err != nil {
			return nil, perr.WithField(err, b.Prefix+"NOTICE_URL")
		}
		notices = p
	}

	r, err := deps.Runner(b.Apply(o.Pipeline(b.Name, notices != nil)), notices)
	if err != nil {
		return nil, err
	}
	m.ports = Ports{Runner: r}
	return m, nil
}

// Name returns the module name
func (m *Module) Name() string { return m.name }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Enabled reports whether PARKING_ENABLED left the pipeline on
func (m *Module) Enabled() bool { return m.opts.Enabled }

// Runner returns the pipeline runner, nil when disabled
func (m *Module) Runner() *pipeline.Runner { return m.ports.Runner }

// Options returns the options the module was built with
func (m *Module) Options() Options { return m.opts }

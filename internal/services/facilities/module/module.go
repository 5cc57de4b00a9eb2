// Package module provides the facilities module: the weekly listing of
// airport shops and services
package module

import (
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
	"github.com/mincheuk/road2air-icn-smart-services/internal/modkit"
)

// Ports defines the facilities module ports
type Ports struct {
	Runner *pipeline.Runner
}

// Module implements the facilities module
type Module struct {
	name  string
	opts  Options
	ports Ports
}

var _ modkit.Module = (*Module)(nil)

// New constructs the facilities module from deps.Cfg. A disabled module is
// returned without a runner
func New(deps modkit.Deps, opts ...modkit.Option) (*Module, error) {
	b := modkit.Build("facilities", Prefix, opts...)
	o := read(deps.Cfg.Prefix(b.Prefix))

	m := &Module{name: b.Name, opts: o}
	if !o.Enabled {
		return m, nil
	}
	if err := o.Require(b.Prefix); err != nil {
		return nil, err
	}
	r, err := deps.Runner(b.Apply(o.Pipeline(b.Name)), nil)
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

// Enabled reports whether FACILITIES_ENABLED left the pipeline on
func (m *Module) Enabled() bool { return m.opts.Enabled }

// Runner returns the pipeline runner, nil when disabled
func (m *Module) Runner() *pipeline.Runner { return m.ports.Runner }

// Options returns the options the module was built with
func (m *Module) Options() Options { return m.opts }

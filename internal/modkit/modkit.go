package modkit

import "github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"

// Module is the common surface for collection modules
// keep this tiny so modules stay decoupled
type Module interface {
	// Name returns the module name
	Name() string

	// Ports returns a module specific port set for cross wiring
	Ports() any

	// Enabled reports whether <PREFIX>ENABLED left the pipeline on
	Enabled() bool

	// Runner returns the wired pipeline runner, nil when disabled
	Runner() *pipeline.Runner
}

// Builder constructs a Module from shared deps and options
// collection modules expose New(deps Deps, opts ...Option) (*Module, error) in this shape
type Builder func(Deps, ...Option) (Module, error)

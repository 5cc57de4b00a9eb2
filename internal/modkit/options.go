package modkit

import (
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/alert"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
)

// Option mutates build configuration for a module
type Option func(*buildCfg)

// buildCfg is internal wiring state for options
type buildCfg struct {
	name       string
	prefix     string
	tweaks     []func(*pipeline.Config)
	notices    alert.Notifier
	noticesSet bool
}

// WithName overrides the module name used in logs, registry and batch names
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix overrides the env prefix a module reads its options from
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithConfig applies fn to the pipeline config after the module built it
// CLI overrides and tests use this; tweaks run in order
func WithConfig(fn func(*pipeline.Config)) Option {
	return func(c *buildCfg) { c.tweaks = append(c.tweaks, fn) }
}

// WithNotices replaces the completion notice channel a module would build itself
// a nil notifier disables notices
func WithNotices(n alert.Notifier) Option {
	return func(c *buildCfg) {
		c.notices = n
		c.noticesSet = true
	}
}

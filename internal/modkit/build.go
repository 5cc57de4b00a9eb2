package modkit

import (
	"slices"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/alert"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/pipeline"
)

// Built is a plain struct with the fields modules care about
type Built struct {
	Name   string
	Prefix string
	Tweaks []func(*pipeline.Config)

	Notices    alert.Notifier
	NoticesSet bool
}

// Build applies Option funcs over the module defaults and returns a plain struct
func Build(name, prefix string, opts ...Option) Built {
	c := buildCfg{name: name, prefix: prefix}
	for _, o := range opts {
		o(&c)
	}
	return Built{
		Name:       c.name,
		Prefix:     c.prefix,
		Tweaks:     slices.Clone(c.tweaks),
		Notices:    c.notices,
		NoticesSet: c.noticesSet,
	}
}

// Apply runs the configured tweaks over a copy of cfg
func (b Built) Apply(cfg pipeline.Config) pipeline.Config {
	for _, fn := range b.Tweaks {
		fn(&cfg)
	}
	return cfg
}

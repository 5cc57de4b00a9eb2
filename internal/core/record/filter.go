package record

import (
	"slices"
	"strings"

	pstrings "github.com/mincheuk/road2air-icn-smart-services/internal/platform/strings"
)

// Exclude reports whether a raw entry must be dropped before mapping
type Exclude func(RawEntry) bool

// FieldEquals excludes entries whose field text equals value
func FieldEquals(field, value string) Exclude {
	return func(e RawEntry) bool {
		return strings.TrimSpace(text(e[field])) == value
	}
}

// Allow keeps records whose Field is one of Values. A zero Allow keeps everything.
// NewAllow indexes Values; a literal Allow scans them
type Allow struct {
	Field  string
	Values []string
	set    map[string]struct{}
}

// NewAllow builds an allow-set filter on field
func NewAllow(field string, values ...string) Allow {
	return Allow{Field: field, Values: values, set: pstrings.Set(values...)}
}

// Enabled reports whether the filter restricts anything
func (a Allow) Enabled() bool { return a.Field != "" }

// Keep reports whether r passes the filter
func (a Allow) Keep(r Record) bool {
	if !a.Enabled() {
		return true
	}
	v := r.Text(a.Field)
	if a.set == nil {
		return slices.Contains(a.Values, v)
	}
	_, ok := a.set[v]
	return ok
}

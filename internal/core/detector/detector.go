// Package detector flags records whose status text carries a service keyword
package detector

import (
	"strings"

	"github.com/mincheuk/road2air-icn-smart-services/internal/core/normalize"
	"github.com/mincheuk/road2air-icn-smart-services/internal/core/record"
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
)

// Rule names the record field to scan and the keywords to look for, in priority order
type Rule struct {
	Field    string   `json:"field" validate:"required"`
	Keywords []string `json:"keywords" validate:"required,min=1,dive,required"`
}

// Enabled reports whether the rule has anything to detect
func (r Rule) Enabled() bool { return r.Field != "" && len(r.Keywords) > 0 }

// Detector runs one Rule. It is immutable and safe for concurrent use
type Detector struct {
	field    string
	keywords []string // as configured, returned on match
	ac       *automaton
}

// New compiles rule. Keywords are NFC-normalized the same way scanned text is
func New(rule Rule) (*Detector, error) {
	if strings.TrimSpace(rule.Field) == "" {
		return nil, perr.WithField(perr.Configf("detector: empty field"), "field")
	}
	if len(rule.Keywords) == 0 {
		return nil, perr.WithField(perr.Configf("detector: no keywords"), "keywords")
	}
	norm := make([]string, len(rule.Keywords))
	for i, kw := range rule.Keywords {
		norm[i] = normalize.Text(kw)
		if norm[i] == "" {
			return nil, perr.WithField(perr.Configf("detector: keyword %d is blank", i), "keywords")
		}
	}
	return &Detector{
		field:    rule.Field,
		keywords: append([]string(nil), rule.Keywords...),
		ac:       newAutomaton(norm),
	}, nil
}

// Field returns the scanned field name
func (d *Detector) Field() string { return d.field }

// Detect returns the first configured keyword contained in the field's text.
// Order of keywords decides, not position in the text
func (d *Detector) Detect(r record.Record) (string, bool) {
	text := normalize.Text(r.Text(d.field))
	if text == "" {
		return "", false
	}
	if i := d.ac.first(text); i >= 0 {
		return d.keywords[i], true
	}
	return "", false
}

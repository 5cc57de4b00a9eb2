// Package record defines the raw and normalized shapes a pipeline moves around
// and the mapping table that projects one into the other
package record

import (
	"bytes"
	"strconv"

	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"

	"github.com/go-json-experiment/json"
)

// RawEntry is one decoded source item: field name to scalar (string, float64, bool or nil)
type RawEntry map[string]any

// Pair is one named, typed value of a Record. Value is string, int64 or float64
type Pair struct {
	Name  string
	Value any
}

// Record is a fixed-shape normalized record; field order is the mapping order
type Record []Pair

// Get returns the value of name
func (r Record) Get(name string) (any, bool) {
	for _, p := range r {
		if p.Name == name {
			return p.Value, true
		}
	}
	return nil, false
}

// Text returns the textual form of name, or "" when absent
func (r Record) Text(name string) string {
	v, ok := r.Get(name)
	if !ok {
		return ""
	}
	return text(v)
}

// Names returns the field names in order
func (r Record) Names() []string {
	out := make([]string, len(r))
	for i, p := range r {
		out[i] = p.Name
	}
	return out
}

// Map copies the record into a map, for payloads where order does not matter
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r))
	for _, p := range r {
		out[p.Name] = p.Value
	}
	return out
}

// MarshalJSON writes the record as an object whose members follow mapping order
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(32 * (len(r) + 1))
	buf.WriteByte('{')
	for i, p := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(p.Name)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeJSON, "encode field name %q", p.Name)
		}
		v, err := json.Marshal(p.Value)
		if err != nil {
			return nil, perr.WithField(perr.Wrap(err, perr.ErrorCodeJSON, "encode field value"), p.Name)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// FormatHHMM turns "1230" into "12:30". Anything shorter than four characters
// is returned unchanged; longer input keeps its tail after the colon
func FormatHHMM(s string) string {
	r := []rune(s)
	if len(r) < 4 {
		return s
	}
	return string(r[:2]) + ":" + string(r[2:])
}

func text(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

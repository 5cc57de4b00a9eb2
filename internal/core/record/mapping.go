package record

import (
	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
)

// Field declares one target field of a mapping table
type Field struct {
	Target    string
	Sources   []string // first present source wins; empty means Target
	Kind      Kind
	Default   any // nil means the kind's zero value
	Thousands bool
}

// Str declares a pass-through text field
func Str(target string, sources ...string) Field {
	return Field{Target: target, Sources: sources, Kind: KindString}
}

// Int declares an integer field
func Int(target string, sources ...string) Field {
	return Field{Target: target, Sources: sources, Kind: KindInt}
}

// Float declares a float field
func Float(target string, sources ...string) Field {
	return Field{Target: target, Sources: sources, Kind: KindFloat}
}

// HHMM declares a clock field reformatted to HH:MM
func HHMM(target string, sources ...string) Field {
	return Field{Target: target, Sources: sources, Kind: KindHHMM}
}

// HourPrefix declares an hour read from a range like "07_08"
func HourPrefix(target string, sources ...string) Field {
	return Field{Target: target, Sources: sources, Kind: KindHourPrefix}
}

// WithDefault returns a copy of f with a default value
func (f Field) WithDefault(v any) Field {
	f.Default = v
	return f
}

// WithThousands returns a copy of f that strips "," before parsing
func (f Field) WithThousands() Field {
	f.Thousands = true
	return f
}

func (f Field) sources() []string {
	if len(f.Sources) == 0 {
		return []string{f.Target}
	}
	return f.Sources
}

func (f Field) fallback() any {
	if f.Default != nil {
		return f.Default
	}
	return f.Kind.zero()
}

// resolve always returns a value; the error reports a present value that had to
// be replaced by the default
func (f Field) resolve(e RawEntry) (any, error) {
	for _, src := range f.sources() {
		raw, present := e[src]
		if !present || raw == nil {
			continue
		}
		v, ok, err := f.Kind.coerce(raw, f.Thousands)
		if err != nil {
			return f.fallback(), perr.WithOp(perr.WithField(err, f.Target), "normalize")
		}
		if ok {
			return v, nil
		}
	}
	return f.fallback(), nil
}

// Area is one measurement column of a wide source row
type Area struct {
	Label  string
	Source string
}

// Expand turns one wide row into one record per area. Each record carries the
// shared fields followed by AreaField=label and ValueField=value
type Expand struct {
	AreaField  string
	ValueField string
	ValueKind  Kind
	Areas      []Area
}

// Mapping is an ordered mapping table with optional area expansion
type Mapping struct {
	Fields []Field
	Expand *Expand
}

// Targets lists every field name a normalized record carries, in order
func (m Mapping) Targets() []string {
	out := make([]string, 0, len(m.Fields)+2)
	for _, f := range m.Fields {
		out = append(out, f.Target)
	}
	if m.Expand != nil {
		out = append(out, m.Expand.AreaField, m.Expand.ValueField)
	}
	return out
}

// Normalize projects e through the table. Every target is present in every
// record; values that failed coercion take their default and are reported in errs
func (m Mapping) Normalize(e RawEntry) (recs []Record, errs []error) {
	base := make(Record, 0, len(m.Fields))
	for _, f := range m.Fields {
		v, err := f.resolve(e)
		if err != nil {
			errs = append(errs, err)
		}
		base = append(base, Pair{Name: f.Target, Value: v})
	}
	if m.Expand == nil {
		return []Record{base}, errs
	}

	x := m.Expand
	recs = make([]Record, 0, len(x.Areas))
	for _, a := range x.Areas {
		vf := Field{Target: x.ValueField, Sources: []string{a.Source}, Kind: x.ValueKind}
		v, err := vf.resolve(e)
		if err != nil {
			errs = append(errs, err)
		}
		r := make(Record, len(base), len(base)+2)
		copy(r, base)
		r = append(r, Pair{Name: x.AreaField, Value: a.Label}, Pair{Name: x.ValueField, Value: v})
		recs = append(recs, r)
	}
	return recs, errs
}

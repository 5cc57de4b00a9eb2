package record

import (
	"math"
	"strconv"
	"strings"

	perr "github.com/mincheuk/road2air-icn-smart-services/internal/platform/errors"
)

// Kind selects how a raw value is coerced
type Kind uint8

const (
	// KindString passes text through; numbers are rendered without exponent
	KindString Kind = iota
	// KindInt parses an integer; "12" and "12.0" are both 12
	KindInt
	// KindFloat parses a float, optionally stripping thousands separators
	KindFloat
	// KindHHMM reformats "1230" as "12:30"
	KindHHMM
	// KindHourPrefix reads the leading hour of a range like "07_08"
	KindHourPrefix
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindHHMM:
		return "hhmm"
	case KindHourPrefix:
		return "hour_prefix"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// zero is the default a kind falls back to when none is configured
func (k Kind) zero() any {
	switch k {
	case KindInt, KindHourPrefix:
		return int64(0)
	case KindFloat:
		return float64(0)
	default:
		return ""
	}
}

// coerce converts raw into the kind's Go type. ok=false with a nil error means
// the value was absent or blank; a non-nil error means it was present but unusable
func (k Kind) coerce(raw any, thousands bool) (v any, ok bool, err error) {
	if raw == nil {
		return nil, false, nil
	}
	switch k {
	case KindString:
		return text(raw), true, nil

	case KindHHMM:
		return FormatHHMM(text(raw)), true, nil

	case KindInt:
		return coerceInt(raw, thousands)

	case KindFloat:
		return coerceFloat(raw, thousands)

	case KindHourPrefix:
		s := strings.TrimSpace(text(raw))
		if s == "" {
			return nil, false, nil
		}
		head, _, _ := strings.Cut(s, "_")
		n, err := strconv.ParseInt(strings.TrimSpace(head), 10, 64)
		if err != nil {
			return nil, false, perr.Coercionf("hour range %q", s)
		}
		return n, true, nil
	}
	return nil, false, perr.Coercionf("unknown kind %v", k)
}

func coerceInt(raw any, thousands bool) (any, bool, error) {
	switch x := raw.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x != math.Trunc(x) {
			return nil, false, perr.Coercionf("non-integral number %v", x)
		}
		if !fitsInt64(x) {
			return nil, false, perr.Coercionf("number %v out of int64 range", x)
		}
		return int64(x), true, nil
	case bool:
		return nil, false, perr.Coercionf("bool %v is not an integer", x)
	}
	s := clean(text(raw), thousands)
	if s == "" {
		return nil, false, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return nil, false, perr.Coercionf("integer %q", s)
	}
	if !fitsInt64(f) {
		return nil, false, perr.Coercionf("integer %q out of int64 range", s)
	}
	return int64(f), true, nil
}

// fitsInt64 reports whether an integral float converts to int64 without wrapping
func fitsInt64(f float64) bool { return f >= -(1<<63) && f < 1<<63 }

func coerceFloat(raw any, thousands bool) (any, bool, error) {
	switch x := raw.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, false, perr.Coercionf("non-finite number")
		}
		return x, true, nil
	case bool:
		return nil, false, perr.Coercionf("bool %v is not a number", x)
	}
	s := clean(text(raw), thousands)
	if s == "" {
		return nil, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false, perr.Coercionf("number %q", s)
	}
	return f, true, nil
}

func clean(s string, thousands bool) string {
	s = strings.TrimSpace(s)
	if thousands {
		s = strings.ReplaceAll(s, ",", "")
	}
	return s
}

package params

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/khengari77/RandomFusion/fusionerr"
)

// Overrides maps parameter names to caller-supplied values.
//
// Values may be Go integers, floats, or strings; strings are parsed
// (integers are decimal or 0x-prefixed hex, colors are "#rrggbb" or "rrggbb").
type Overrides map[string]any

// ParseAssignments builds Overrides from "key=value" strings as given on a
// command line. Values stay strings and are interpreted during derivation.
func ParseAssignments(kvs []string) (Overrides, error) {
	if len(kvs) == 0 {
		return nil, nil
	}
	ov := make(Overrides, len(kvs))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-005", "override %q must be key=value", kv)
		}
		ov[k] = strings.TrimSpace(v)
	}
	return ov, nil
}

// Merge returns a new Overrides with the entries of o replaced by those of
// top.
func (o Overrides) Merge(top Overrides) Overrides {
	out := make(Overrides, len(o)+len(top))
	for k, v := range o {
		out[k] = v
	}
	for k, v := range top {
		out[k] = v
	}
	return out
}

// Keys returns the override names, sorted.
func (o Overrides) Keys() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (o Overrides) checkKeys(style Style) error {
	for _, k := range o.Keys() {
		if !overridable(style, k) {
			return fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-002",
				"parameter %q cannot be overridden for style %s", k, style)
		}
	}
	return nil
}

func typeError(key string, v any, want string) error {
	return fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-003",
		"parameter %s: cannot use %v (%T) as %s", key, v, v, want)
}

func domainError(key string, v any, domain string) error {
	return fusionerr.Newf(fusionerr.KindParameterOutOfDomain, "RF-PARAM-001",
		"parameter %s = %v outside domain %s", key, v, domain)
}

func toInt64(key string, v any) (int64, error) {
	switch x := v.(type) {
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int64:
		return x, nil
	case uint:
		if uint64(x) > math.MaxInt64 {
			return 0, typeError(key, v, "integer")
		}
		return int64(x), nil
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, typeError(key, v, "integer")
		}
		return int64(x), nil
	case float32:
		return floatToInt64(key, float64(x))
	case float64:
		return floatToInt64(key, x)
	case string:
		n, err := parseInt(x)
		if err != nil {
			return 0, typeError(key, v, "integer")
		}
		return n, nil
	default:
		return 0, typeError(key, v, "integer")
	}
}

// parseInt reads decimal, or hex after a 0x prefix. Leading zeros are
// decimal digits, never an octal marker.
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	digits := strings.TrimPrefix(strings.TrimPrefix(s, "-"), "+")
	hex, isHex := cutHexPrefix(digits)
	if !isHex {
		return strconv.ParseInt(s, 10, 64)
	}
	if neg {
		hex = "-" + hex
	}
	return strconv.ParseInt(hex, 16, 64)
}

func parseUint(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if hex, ok := cutHexPrefix(s); ok {
		return strconv.ParseUint(hex, 16, 64)
	}
	return strconv.ParseUint(s, 10, 64)
}

func cutHexPrefix(s string) (string, bool) {
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], true
	}
	return s, false
}

// JSON/YAML/structpb decoders deliver numbers as float64.
func floatToInt64(key string, f float64) (int64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, typeError(key, f, "integer")
	}
	return int64(f), nil
}

func toUint64(key string, v any) (uint64, error) {
	switch x := v.(type) {
	case uint:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case uint64:
		return x, nil
	case string:
		n, err := parseUint(x)
		if err != nil {
			return 0, typeError(key, v, "unsigned integer")
		}
		return n, nil
	case float64:
		if math.IsNaN(x) || x < 0 || x != math.Trunc(x) || x >= 1<<64 {
			return 0, typeError(key, v, "unsigned integer")
		}
		return uint64(x), nil
	default:
		n, err := toInt64(key, v)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, domainError(key, v, "[0, 2^64)")
		}
		return uint64(n), nil
	}
}

func toFloat(key string, v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, typeError(key, v, "number")
		}
		f = p
	default:
		n, err := toInt64(key, v)
		if err != nil {
			return 0, typeError(key, v, "number")
		}
		f = float64(n)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, domainError(key, v, "finite numbers")
	}
	return f, nil
}

func toColor(key string, v any) (color.RGBA, error) {
	s, ok := v.(string)
	if !ok {
		return color.RGBA{}, typeError(key, v, "color")
	}
	c, err := ParseColor(s)
	if err != nil {
		return color.RGBA{}, typeError(key, v, "color")
	}
	return c, nil
}

// ParseColor parses "#rrggbb" or "rrggbb" into an opaque color.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q must have 6 hex digits", s)
	}
	n, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, nil
}

// FormatColor renders c as "#rrggbb".
func FormatColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// CheckOverrides validates ov for style without a real stream: names, types
// and domains are checked exactly as Derive would.
func CheckOverrides(style Style, ov Overrides) error {
	if _, ok := layouts[style]; !ok {
		return fusionerr.Newf(fusionerr.KindUnknownStyle, "RF-STYLE-001", "unknown style %q", string(style))
	}
	_, err := Derive(make([]byte, StreamLength(style)), style, ov)
	return err
}

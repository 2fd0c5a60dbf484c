// Package specmap wraps the free-form specification bag attached to catalog
// components. Rule checks read keys through accessors that report absence
// instead of failing, so evaluation degrades gracefully on sparse data.
package specmap

import (
	"fmt"
	"strconv"
	"strings"
)

type SpecMap map[string]interface{}

// String returns the first non-empty string value among the given keys.
// Numeric scalars are rendered as strings, matching how loosely typed
// catalog data arrives over JSON.
func (m SpecMap) String(keys ...string) (string, bool) {
	for _, key := range keys {
		raw, ok := m[key]
		if !ok {
			continue
		}
		if s := scalarToString(raw); s != "" {
			return s, true
		}
	}
	return "", false
}

// StringList returns the first non-empty list value among the given keys.
// A scalar value is treated as a one-element list.
func (m SpecMap) StringList(keys ...string) ([]string, bool) {
	for _, key := range keys {
		raw, ok := m[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case []string:
			if len(v) > 0 {
				return v, true
			}
		case []interface{}:
			out := make([]string, 0, len(v))
			for _, item := range v {
				if s := scalarToString(item); s != "" {
					out = append(out, s)
				}
			}
			if len(out) > 0 {
				return out, true
			}
		default:
			if s := scalarToString(raw); s != "" {
				return []string{s}, true
			}
		}
	}
	return nil, false
}

// Float returns the first parseable numeric value among the given keys.
// String values like "650" or "650W" are accepted.
func (m SpecMap) Float(keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, ok := m[key]
		if !ok {
			continue
		}
		switch v := raw.(type) {
		case float64:
			return v, true
		case float32:
			return float64(v), true
		case int:
			return float64(v), true
		case int64:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(trimUnits(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

// Contains reports whether want appears in the list under the given keys.
// Comparison is exact, no normalization.
func (m SpecMap) Contains(want string, keys ...string) bool {
	list, ok := m.StringList(keys...)
	if !ok {
		return false
	}
	for _, item := range list {
		if item == want {
			return true
		}
	}
	return false
}

func scalarToString(raw interface{}) string {
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	case []interface{}, []string, map[string]interface{}:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func trimUnits(s string) string {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.' || s[i] == '-') {
		i++
	}
	if i == 0 {
		return s
	}
	return s[:i]
}

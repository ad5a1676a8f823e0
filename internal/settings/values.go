package settings

import (
	"fmt"
	"strconv"
	"strings"
)

// Reader is anything settings can be looked up from.
type Reader interface {
	// Lookup returns the value stored under key, or fallback when the key is
	// absent or nil.
	Lookup(key string, fallback any) any
}

// Values is a configuration mapping from setting name to scalar value.
type Values map[string]any

// Lookup returns the value for key, or fallback when it is absent or nil.
func (v Values) Lookup(key string, fallback any) any {
	if val, ok := v[key]; ok && val != nil {
		return val
	}
	return fallback
}

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	c := make(Values, len(v))
	for k, val := range v {
		c[k] = val
	}
	return c
}

// Merge copies every entry of other into v, overwriting existing keys.
func (v Values) Merge(other map[string]any) {
	for k, val := range other {
		v[k] = val
	}
}

// FormatValue renders a setting the way it appears on a command line.
// Lists are joined with commas so a YAML sequence of queues works as well
// as the comma-separated string form.
func FormatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case uint64:
		return strconv.FormatUint(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(t)
	case []string:
		return strings.Join(t, ",")
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, FormatValue(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(t)
	}
}

// AsInt converts a setting value to an int when it holds a whole number,
// either natively or as a decimal string.
func AsInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case uint64:
		return int(t), true
	case float64:
		if t == float64(int(t)) {
			return int(t), true
		}
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err == nil {
			return n, true
		}
	}
	return 0, false
}

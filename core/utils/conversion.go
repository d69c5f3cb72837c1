package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ToInt converts various types to int using explicit type switching.
// It handles standard integer types, floats, strings, and byte slices.
func ToInt(val any) int {
	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case int32:
		return int(v)
	case uint:
		return int(v)
	case uint64:
		return int(v)
	case uint32:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(v))
		return i
	case []byte:
		i, _ := strconv.Atoi(string(v))
		return i
	default:
		return 0
	}
}

// ToFloat converts numeric JSON values (and numeric strings) to float64.
func ToFloat(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f
	default:
		return 0
	}
}

// ToString converts various types to string.
// nil becomes "" and whole floats keep their digits (9988776655, not 9.988776655e+09),
// which matters for phone numbers decoded from JSON as numbers.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, uint, uint64, uint32, float64:
		return ToInt(v) == 1
	case string:
		return v == "1" || strings.ToLower(v) == "true"
	default:
		return false
	}
}

// FirstString returns the first non-empty string value among the keys, in order.
func FirstString(record map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := ToString(record[key]); s != "" {
			return s
		}
	}
	return ""
}

// Map returns record[key] as a JSON object, or nil.
func Map(record map[string]any, key string) map[string]any {
	m, _ := record[key].(map[string]any)
	return m
}

// Slice returns record[key] as a JSON array, or nil.
func Slice(record map[string]any, key string) []any {
	s, _ := record[key].([]any)
	return s
}

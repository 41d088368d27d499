package assertions

import (
	"fmt"
	"reflect"
	"strings"
)

// equals is type-strict: numbers only match numbers and strings only match
// strings. Numeric kinds compare by value, so 30 and 30.0 are equal.
func equals(actual, expected any) (bool, string) {
	actualNum, aNum := toFloat64(actual)
	expectedNum, eNum := toFloat64(expected)
	if aNum && eNum {
		if actualNum == expectedNum {
			return true, ""
		}
		return false, fmt.Sprintf("expected %v, got %v", expected, actual)
	}

	actualStr, aStr := actual.(string)
	expectedStr, eStr := expected.(string)
	if aStr && eStr {
		if actualStr == expectedStr {
			return true, ""
		}
		if needsDiff(actualStr, expectedStr) {
			return false, fmt.Sprintf("expected %q, got %q\ndiff: %s", expectedStr, actualStr, inlineDiff(expectedStr, actualStr))
		}
		return false, fmt.Sprintf("expected %q, got %q", expectedStr, actualStr)
	}

	if aNum != eNum || aStr != eStr {
		return false, fmt.Sprintf("expected %s %v, got %s %v", typeName(expected), expected, typeName(actual), actual)
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}
	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	if _, ok := toFloat64(v); ok {
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

func contains(actual any, expected string) (bool, string) {
	actualStr := fmt.Sprintf("%v", actual)
	if strings.Contains(actualStr, expected) {
		return true, ""
	}
	return false, fmt.Sprintf("expected '%v' to contain '%v'", actual, expected)
}

// computeLength returns the length of a value, or -1 if length cannot be computed
func computeLength(actual any) int {
	switch v := actual.(type) {
	case string:
		return len(v)
	case []any:
		return len(v)
	case map[string]any:
		return len(v)
	default:
		rv := reflect.ValueOf(actual)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array, reflect.Map, reflect.String:
			return rv.Len()
		default:
			return -1
		}
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	}
	return 0, false
}

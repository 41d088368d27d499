package env

import (
	"os"
	"strconv"
)

// LookupFunc reads one variable; os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Prefix namespaces every bookspec variable.
const Prefix = "BOOKSPEC_"

// Vars is a LookupFunc over a fixed map, mostly for tests.
func Vars(m map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

// OS returns the process environment lookup.
func OS() LookupFunc {
	return os.LookupEnv
}

func String(lookup LookupFunc, key, defaultVal string) string {
	if val, ok := lookup(key); ok && val != "" {
		return val
	}
	return defaultVal
}

func Bool(lookup LookupFunc, key string, defaultVal bool) bool {
	if val, ok := lookup(key); ok && val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}

func Int(lookup LookupFunc, key string, defaultVal int) int {
	if val, ok := lookup(key); ok && val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func Float(lookup LookupFunc, key string, defaultVal float64) float64 {
	if val, ok := lookup(key); ok && val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

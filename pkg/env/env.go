// Package env reads process environment variables with defaults, for the few
// knobs that do not warrant a config struct field.
package env

import "os"

// Get returns the variable's value, or fallback when it is unset or empty.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

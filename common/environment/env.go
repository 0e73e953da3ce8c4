// Package environment provides helpers for loading configuration from
// environment variables. Helpers return either the value or a default;
// required variables return an error rather than calling os.Exit, keeping
// business logic out of library code.
package environment

import (
	"fmt"
	"os"
	"time"
)

// StringOr returns the value of the named environment variable, or
// defaultValue if the variable is unset or empty.
func StringOr(name, defaultValue string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return defaultValue
}

// RequiredString returns the value of the named environment variable or an
// error if it is unset or empty.
func RequiredString(name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", fmt.Errorf("required environment variable %q is not set", name)
	}
	return v, nil
}

// DurationOr parses the named environment variable as a time.Duration (e.g.
// "30s", "5m"). Returns defaultValue if the variable is unset, empty, or
// cannot be parsed.
func DurationOr(name string, defaultValue time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultValue
	}
	return d
}

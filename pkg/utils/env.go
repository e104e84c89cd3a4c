package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Getenv returns the environment variable named by key, or fallback when it is unset or empty.
func Getenv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// GetenvBool parses key as a boolean ("true", "1", "false", ...). Unset, empty or
// unparsable values yield fallback.
func GetenvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(Getenv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

// GetenvDuration parses key with time.ParseDuration, e.g. "10s".
func GetenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := Getenv(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	return d, nil
}

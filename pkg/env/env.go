package env

import (
	"os"
	"strings"
)

// Lookup returns the first non-blank value among keys, or fallback.
func Lookup(fallback string, keys ...string) string {
	for _, key := range keys {
		if val := strings.TrimSpace(os.Getenv(key)); val != "" {
			return val
		}
	}
	return fallback
}

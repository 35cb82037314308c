package util

import "strings"

// DefaultString returns fallback when value is blank
func DefaultString(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

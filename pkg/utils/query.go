package utils

import (
	"net/url"
	"strconv"
	"strings"
)

// QueryInt reads an integer query parameter. Absent or malformed values fall
// back; out-of-range numbers are returned as-is so the validator can reject them.
func QueryInt(query url.Values, key string, fallback int) int {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

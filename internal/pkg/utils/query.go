package utils

import (
	"net/http"
	"strconv"
)

// DefaultListLimit is the default cap for list endpoints
const DefaultListLimit = 100

// MaxListLimit is the hard cap for list endpoints
const MaxListLimit = 1000

// ParseLimit parses a limit query parameter, clamping it to sane bounds
func ParseLimit(r *http.Request, defaultLimit int) int {
	limit := ParseIntQuery(r, "limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return limit
}

// ParseIntQuery parses an integer query parameter with a default
func ParseIntQuery(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return i
}

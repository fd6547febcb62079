package utils

import (
	"net/http"
	"strconv"
	"strings"
)

// QueryInt reads an integer query parameter, falling back to def when it
// is missing or not a number.
func QueryInt(r *http.Request, key string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get(key)))
	if err != nil {
		return def
	}
	return v
}

// ParseLimit reads ?limit= bounded to [1, max].
func ParseLimit(r *http.Request, def, max int) int {
	limit := QueryInt(r, "limit", def)
	if limit < 1 {
		limit = def
	}
	if limit > max {
		limit = max
	}
	return limit
}

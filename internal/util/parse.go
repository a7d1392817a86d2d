package util

import (
	"strconv"
)

// ParseInt parses a string to an integer, returning defaultValue if parsing fails
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// ParseUintParam parses a route parameter to an unsigned integer ID.
func ParseUintParam(s string) (uint, error) {
	val, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(val), nil
}

// ClampPageParams normalizes limit/offset query values for feed pagination.
// Limit is clamped to [1, maxLimit]; negative offsets become zero.
func ClampPageParams(limit, offset, maxLimit int) (int, int) {
	if limit < 1 {
		limit = 1
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

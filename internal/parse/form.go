package parse

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseID parses a positive row id taken from a URL path segment.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be positive", raw)
	}
	return id, nil
}

// ParseQuantity reads a form quantity. Anything that is not an integer
// yields 0, which the store rejects like any other non-positive amount.
func ParseQuantity(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return n
}

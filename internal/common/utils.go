package common

import (
	"context"
	"strings"
	"time"
)

// HasAnyPrefix returns true if s starts with any of the prefixes,
// ignoring case.
func HasAnyPrefix(s string, prefixes ...string) bool {
	lower := strings.ToLower(s)
	for _, p := range prefixes {
		if strings.HasPrefix(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}

// WithOptionalTimeout behaves like context.WithTimeout, except that a
// timeout <= 0 means no deadline.
func WithOptionalTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}

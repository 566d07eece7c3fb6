package ai

import (
	"context"
	"errors"
	"strings"
	"time"
)

const maxAttempts = 3

var (
	rateLimitWaits   = []time.Duration{15 * time.Second, 30 * time.Second, 60 * time.Second}
	serverErrorWaits = []time.Duration{2 * time.Second, 5 * time.Second, 10 * time.Second}
)

// backoffFor classifies an attempt failure and returns how long to wait
// before the next attempt. Context cancellation and client errors are not
// retryable.
func backoffFor(err error, attempt int) (time.Duration, bool) {
	if err == nil {
		return 0, false
	}
	if errors.Is(err, context.Canceled) {
		return 0, false
	}
	if attempt >= len(rateLimitWaits) {
		attempt = len(rateLimitWaits) - 1
	}
	if isRateLimitError(err) {
		return rateLimitWaits[attempt], true
	}
	if isServerError(err) || errors.Is(err, context.DeadlineExceeded) {
		return serverErrorWaits[attempt], true
	}
	return 0, false
}

func isRateLimitError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "429") ||
		strings.Contains(s, "rate limit") ||
		strings.Contains(s, "too many requests")
}

func isServerError(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "500") ||
		strings.Contains(s, "502") ||
		strings.Contains(s, "503") ||
		strings.Contains(s, "internal server error") ||
		strings.Contains(s, "server_error") ||
		strings.Contains(s, "overloaded")
}

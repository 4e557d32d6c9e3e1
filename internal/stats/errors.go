package stats

import (
	"errors"
	"fmt"
	"time"
)

// StatusError captures a non-2xx answer from a stats service.
type StatusError struct {
	Source     string
	StatusCode int
	RetryAfter time.Duration
	Message    string
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "unexpected status"
	}
	return fmt.Sprintf("%s: %s (status=%d)", e.Source, msg, e.StatusCode)
}

// RateLimited reports whether the service asked us to slow down.
func (e *StatusError) RateLimited() bool {
	return e.StatusCode == 429
}

// AsStatusError attempts to unwrap an error into a StatusError.
func AsStatusError(err error) (*StatusError, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr, true
	}
	return nil, false
}

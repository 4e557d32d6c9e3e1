package requestutil

import (
	"net/http"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

var requestIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// SanitizeRequestID validates the incoming request ID header and generates a new one when invalid.
func SanitizeRequestID(incoming string) string {
	if incoming != "" && requestIDPattern.MatchString(incoming) {
		return incoming
	}
	return NewRequestID()
}

// NewRequestID generates a random request ID.
func NewRequestID() string {
	return uuid.NewString()
}

// ClientIP extracts the client IP from X-Forwarded-For or RemoteAddr.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	return r.RemoteAddr
}

// BearerToken returns the token from an "Authorization: Bearer" header, or "".
func BearerToken(r *http.Request) string {
	if r == nil {
		return ""
	}
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

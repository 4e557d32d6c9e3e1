package middleware

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/rank-kicker/internal/http/requestutil"
	"github.com/preston-bernstein/rank-kicker/internal/logging"
	"github.com/preston-bernstein/rank-kicker/internal/metrics"
)

// LoggingMiddleware wraps the handler with request logging, request ID support, and metrics.
func LoggingMiddleware(baseLogger *slog.Logger, recorder *metrics.Recorder, next http.Handler) http.Handler {
	if baseLogger == nil {
		baseLogger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqID := requestutil.SanitizeRequestID(r.Header.Get(requestutil.HeaderRequestID))
		w.Header().Set(requestutil.HeaderRequestID, reqID)

		logger := baseLogger.With(
			slog.String(logging.FieldRequestID, reqID),
			slog.String(logging.FieldMethod, r.Method),
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)

		ctx := logging.WithLogger(r.Context(), logger)
		ctx = withRequestID(ctx, reqID)
		r = r.WithContext(ctx)
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		recorder.RecordHTTPRequest(r.Method, normalizePath(r.URL.Path), ww.status, duration)

		logger.Info("request complete",
			slog.Int(logging.FieldStatusCode, ww.status),
			slog.Int64(logging.FieldDurationMS, duration.Milliseconds()),
		)
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (w *responseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Hijack lets websocket upgrades pass through the wrapper.
func (w *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

type requestIDKey struct{}

// RequestIDFromContext extracts the request ID stored by the logging middleware.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if val, ok := ctx.Value(requestIDKey{}).(string); ok {
		return val
	}
	return ""
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func normalizePath(path string) string {
	if path == "" {
		return ""
	}
	path, _, _ = strings.Cut(path, "?")
	if strings.HasPrefix(path, "/variables/") {
		return "/variables/:name"
	}
	return path
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/rank-kicker/internal/config"
)

// StateReader exposes the read-only plugin state served over HTTP.
type StateReader interface {
	Variables() []config.Variable
	Reserved() []string
	Ready() (bool, string)
}

// Handler serves health and read-only plugin state.
type Handler struct {
	state  StateReader
	logger *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(state StateReader, logger *slog.Logger) *Handler {
	return &Handler{state: state, logger: logger}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether the plugin is enabled and its player poll is healthy.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.state == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	ok, reason := h.state.Ready()
	if ok {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	if reason == "" {
		reason = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, reason, h.logger)
}

// Variables lists the host variables and their current values.
func (h *Handler) Variables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"variables": h.state.Variables(),
	}, loggerFromContext(r, h.logger))
}

// Reserved lists the reserved players.
func (h *Handler) Reserved(w http.ResponseWriter, r *http.Request) {
	names := h.state.Reserved()
	writeJSON(w, http.StatusOK, map[string]any{
		"players": names,
		"count":   len(names),
	}, loggerFromContext(r, h.logger))
}

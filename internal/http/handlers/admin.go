package handlers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/rank-kicker/internal/config"
	"github.com/preston-bernstein/rank-kicker/internal/host"
	"github.com/preston-bernstein/rank-kicker/internal/http/requestutil"
	"github.com/preston-bernstein/rank-kicker/internal/logging"
)

const maxBodyBytes = 64 << 10

// Controller accepts host input on behalf of HTTP callers.
type Controller interface {
	Variables() []config.Variable
	SetVariable(ctx context.Context, name, value string) bool
	HandleEvent(ctx context.Context, evt host.Event)
}

// AdminHandler exposes endpoints guarded by the admin bearer token.
type AdminHandler struct {
	ctrl   Controller
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token rejects every request.
func NewAdminHandler(ctrl Controller, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		ctrl:   ctrl,
		token:  token,
		logger: logger,
	}
}

type setVariableRequest struct {
	Value *string `json:"value"`
}

// SetVariable applies PUT /variables/{name} with a {"value": "..."} body.
func (h *AdminHandler) SetVariable(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	name := r.PathValue("name")
	if !h.known(name) {
		writeError(w, r, http.StatusNotFound, "unknown variable", logger)
		return
	}

	var req setVariableRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil || req.Value == nil {
		writeError(w, r, http.StatusBadRequest, "body must be {\"value\": string}", logger)
		return
	}
	if !h.ctrl.SetVariable(r.Context(), name, *req.Value) {
		writeError(w, r, http.StatusBadRequest, "invalid value", logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"variables": h.ctrl.Variables(),
	}, logger)
}

// PostEvent accepts one host event in the same envelope the websocket uses.
func (h *AdminHandler) PostEvent(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(w, r) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "unreadable body", logger)
		return
	}
	evt, err := host.DecodeEvent(body)
	if err != nil {
		logging.Warn(logger, "invalid event", "error", err)
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	}

	h.ctrl.HandleEvent(r.Context(), evt)
	logging.Info(logger, "event handled", slog.String(logging.FieldEvent, evt.Type))
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"}, logger)
}

// RequireToken wraps next so it only runs for authorized callers.
func (h *AdminHandler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.authorized(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *AdminHandler) authorized(w http.ResponseWriter, r *http.Request) bool {
	if h.token != "" && requestutil.BearerToken(r) == h.token {
		return true
	}
	logging.Warn(h.logger, "admin unauthorized",
		slog.String(logging.FieldPath, r.URL.Path),
		slog.String("client_ip", requestutil.ClientIP(r)),
	)
	writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
	return false
}

func (h *AdminHandler) known(name string) bool {
	for _, v := range h.ctrl.Variables() {
		if v.Name == name {
			return true
		}
	}
	return false
}

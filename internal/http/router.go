package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/rank-kicker/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. hostHandler serves the host
// websocket and is mounted behind the admin token; nil leaves it unmounted.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler, hostHandler nethttp.Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /ready", handler.Ready)
	mux.HandleFunc("GET /variables", handler.Variables)
	mux.HandleFunc("GET /reserved", handler.Reserved)
	if admin != nil {
		mux.HandleFunc("PUT /variables/{name}", admin.SetVariable)
		mux.HandleFunc("POST /events", admin.PostEvent)
		if hostHandler != nil {
			mux.Handle("GET /host", admin.RequireToken(hostHandler))
		}
	}
	return mux
}

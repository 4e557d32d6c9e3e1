package host

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/rank-kicker/internal/http/requestutil"
	"github.com/preston-bernstein/rank-kicker/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 64 << 10
	sendBuffer     = 256
)

// ErrNoHost is returned when a command is sent while no host is connected.
var ErrNoHost = errors.New("no host connected")

// EventHandler consumes host notifications.
type EventHandler interface {
	HandleEvent(ctx context.Context, evt Event)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // hosts are authenticated by token, not origin
	},
}

type hubClient struct {
	hub        *Hub
	conn       *websocket.Conn
	send       chan []byte
	remoteAddr string
}

// Hub bridges connected hosts over websocket: commands fan out to every
// connection, events from each connection are handled in arrival order.
type Hub struct {
	mu      sync.RWMutex
	clients map[*hubClient]struct{}
	handler EventHandler
	logger  *slog.Logger
	ctx     context.Context
}

// NewHub constructs a Hub that dispatches events to handler.
func NewHub(handler EventHandler, logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*hubClient]struct{}),
		handler: handler,
		logger:  logger,
		ctx:     context.Background(),
	}
}

// SetHandler replaces the event handler. Used when the handler is built after the hub.
func (h *Hub) SetHandler(handler EventHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handler = handler
}

// Bind ties event handling to ctx; connections opened afterwards stop
// dispatching once ctx is done.
func (h *Hub) Bind(ctx context.Context) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ctx = ctx
}

// Send broadcasts cmd to every connected host.
func (h *Hub) Send(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.clients) == 0 {
		return ErrNoHost
	}
	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			// Client's buffer is full, drop the connection.
			logging.Warn(h.logger, "host send buffer full, disconnecting",
				slog.String("client_ip", client.remoteAddr))
			h.removeLocked(client)
		}
	}
	return nil
}

// ClientCount returns the number of connected hosts.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every host.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for client := range h.clients {
		h.removeLocked(client)
	}
}

// ServeHTTP upgrades the request and registers the host connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(h.logger, "host websocket upgrade failed", "error", err)
		return
	}

	client := &hubClient{
		hub:        h,
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		remoteAddr: requestutil.ClientIP(r),
	}

	h.mu.Lock()
	h.clients[client] = struct{}{}
	count := len(h.clients)
	ctx := h.ctx
	h.mu.Unlock()
	logging.Info(h.logger, "host connected",
		slog.String("client_ip", client.remoteAddr),
		slog.Int(logging.FieldCount, count))

	go client.writePump()
	go client.readPump(ctx)
}

func (h *Hub) unregister(client *hubClient) {
	h.mu.Lock()
	_, ok := h.clients[client]
	if ok {
		h.removeLocked(client)
	}
	count := len(h.clients)
	h.mu.Unlock()
	if ok {
		logging.Info(h.logger, "host disconnected",
			slog.String("client_ip", client.remoteAddr),
			slog.Int(logging.FieldCount, count))
	}
}

func (h *Hub) removeLocked(client *hubClient) {
	delete(h.clients, client)
	close(client.send)
}

func (h *Hub) dispatch(ctx context.Context, data []byte) {
	evt, err := DecodeEvent(data)
	if err != nil {
		logging.Warn(h.logger, "host sent invalid event", "error", err)
		return
	}
	h.mu.RLock()
	handler := h.handler
	h.mu.RUnlock()
	if handler != nil {
		handler.HandleEvent(ctx, evt)
	}
}

// readPump reads events until the connection closes or ctx is done.
func (c *hubClient) readPump(ctx context.Context) {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNoStatusReceived) {
				logging.Warn(c.hub.logger, "host websocket error", "error", err)
			}
			return
		}
		if ctx.Err() != nil {
			return
		}
		c.hub.dispatch(ctx, message)
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}

// writePump delivers queued commands and keeps the connection alive.
func (c *hubClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package host

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

type recordingHandler struct {
	mu     sync.Mutex
	events []Event
	notify chan struct{}
}

func (h *recordingHandler) HandleEvent(ctx context.Context, evt Event) {
	h.mu.Lock()
	h.events = append(h.events, evt)
	h.mu.Unlock()
	h.notify <- struct{}{}
}

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(hub)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHubSendWithoutHost(t *testing.T) {
	hub := NewHub(nil, nil)
	if err := hub.Send(context.Background(), ListPlayers()); !errors.Is(err, ErrNoHost) {
		t.Fatalf("expected ErrNoHost, got %v", err)
	}
}

func TestHubBroadcastsCommandsToHost(t *testing.T) {
	hub := NewHub(nil, nil)
	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	if err := hub.Send(context.Background(), Kick("Alpha", 60)); err != nil {
		t.Fatalf("send: %v", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cmd.Words[0] != "admin.kickPlayer" || cmd.Words[1] != "Alpha" {
		t.Fatalf("unexpected command %+v", cmd)
	}
}

func TestHubDispatchesEventsInOrder(t *testing.T) {
	handler := &recordingHandler{notify: make(chan struct{}, 4)}
	hub := NewHub(handler, nil)
	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	msgs := []string{
		`{"type":"reserved.added","name":"A"}`,
		`garbage`,
		`{"type":"reserved.removed","name":"A"}`,
	}
	for _, m := range msgs {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(m)); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		select {
		case <-handler.notify:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for events")
		}
	}

	handler.mu.Lock()
	defer handler.mu.Unlock()
	if len(handler.events) != 2 || handler.events[0].Type != EventReservedAdded || handler.events[1].Type != EventReservedRemoved {
		t.Fatalf("unexpected events %+v", handler.events)
	}
}

func TestHubUnregistersOnDisconnect(t *testing.T) {
	hub := NewHub(nil, nil)
	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	conn.Close()
	waitFor(t, func() bool { return hub.ClientCount() == 0 })
}

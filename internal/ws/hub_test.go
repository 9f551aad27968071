package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "fatal", Format: "console"})
}

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(hub)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("client count never reached %d (have %d)", want, hub.ClientCount())
}

func TestBroadcastReachesClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, testLogger())
	go hub.Run(ctx)

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	hub.Broadcast("alert_created", map[string]string{"alert_id": "a1"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}

	var got Message
	if err := json.Unmarshal(frame, &got); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if got.Type != "alert_created" {
		t.Errorf("frame type = %q, want alert_created", got.Type)
	}
	data, ok := got.Data.(map[string]interface{})
	if !ok || data["alert_id"] != "a1" {
		t.Errorf("frame data = %v", got.Data)
	}
	if got.Timestamp.IsZero() {
		t.Error("frame timestamp not set")
	}
}

func TestStatusSnapshotFrames(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(func(ctx context.Context) interface{} {
		return map[string]int{"active_alerts": 2}
	}, testLogger())
	hub.statusInterval = 25 * time.Millisecond
	go hub.Run(ctx)

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read frame: %v", err)
	}

	var got Message
	if err := json.Unmarshal(frame, &got); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if got.Type != "status_snapshot" {
		t.Errorf("frame type = %q, want status_snapshot", got.Type)
	}
	data, ok := got.Data.(map[string]interface{})
	if !ok || data["active_alerts"] != float64(2) {
		t.Errorf("frame data = %v", got.Data)
	}
}

func TestClientCountTracksDisconnects(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil, testLogger())
	go hub.Run(ctx)

	conn := dialHub(t, hub)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)
}

func TestBroadcastWithNoClientsDoesNotBlock(t *testing.T) {
	hub := NewHub(nil, testLogger())
	// No Run loop: every frame parks in the hub queue, and once it is
	// full further frames must be dropped without blocking.
	for i := 0; i < 300; i++ {
		hub.Broadcast("tick", i)
	}
}

// Package ws streams live platform events to dashboard clients over
// websockets. The hub fans every event out to all connected clients
// and pushes a status snapshot frame every few seconds so late joiners
// converge without polling.
package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/metrics"
)

// Message is the frame envelope pushed to clients.
type Message struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// StatusFunc builds the payload for the periodic status snapshot
// frame.
type StatusFunc func(ctx context.Context) interface{}

const defaultStatusInterval = 5 * time.Second

// Hub maintains the set of connected clients and fans frames out to
// them.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	status         StatusFunc
	statusInterval time.Duration
	logger         *logger.Logger

	mu sync.RWMutex
}

// NewHub creates a hub. status may be nil to disable snapshot frames.
func NewHub(status StatusFunc, log *logger.Logger) *Hub {
	return &Hub{
		clients:        make(map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan []byte, 256),
		status:         status,
		statusInterval: defaultStatusInterval,
		logger:         log.Component("ws"),
	}
}

// Run owns the client set until ctx is cancelled. Start it once,
// before serving traffic.
func (h *Hub) Run(ctx context.Context) {
	ticker := time.NewTicker(h.statusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			n := len(h.clients)
			h.mu.Unlock()
			metrics.SetWSClients(float64(n))
			h.logger.Debugf("Dashboard client connected (%d active)", n)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			metrics.SetWSClients(float64(n))
			h.logger.Debugf("Dashboard client disconnected (%d active)", n)

		case frame := <-h.broadcast:
			h.fanOut(frame)

		case <-ticker.C:
			h.pushStatus(ctx)
		}
	}
}

// Broadcast queues one event frame for every connected client. Safe to
// call from any goroutine; when the hub queue is full the frame is
// dropped rather than blocking the caller.
func (h *Hub) Broadcast(event string, payload interface{}) {
	frame, err := json.Marshal(Message{
		Type:      event,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		h.logger.ErrorWithErr(err, "Failed to encode websocket frame")
		return
	}

	select {
	case h.broadcast <- frame:
	default:
		h.logger.Warn("Websocket broadcast queue full, dropping frame")
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) fanOut(frame []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		select {
		case client.send <- frame:
		default:
			// Slow consumer; drop it rather than stall the fan-out.
			delete(h.clients, client)
			close(client.send)
		}
	}
	metrics.SetWSClients(float64(len(h.clients)))
}

func (h *Hub) pushStatus(ctx context.Context) {
	if h.status == nil || h.ClientCount() == 0 {
		return
	}
	h.Broadcast("status_snapshot", h.status(ctx))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		delete(h.clients, client)
		close(client.send)
	}
	metrics.SetWSClients(0)
}

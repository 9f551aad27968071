package ws

import (
	"net/http"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from a separate origin in development;
	// cross-origin policy is enforced at the CORS middleware layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeHTTP upgrades the request and attaches the client to the hub,
// so the hub mounts directly on a route.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.ErrorWithErr(err, "Websocket upgrade failed")
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		logger: h.logger,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

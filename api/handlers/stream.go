package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/openrms/records-api/dispatch"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The dashboard is served from a different origin than the API
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans dispatch change events out to connected dashboard sockets. It
// implements dispatch.Notifier, so the coordinator publishes straight into it.
type Hub struct {
	clients    map[*streamClient]bool
	broadcast  chan []byte
	register   chan *streamClient
	unregister chan *streamClient
}

type streamClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// NewHub initializes a hub; the caller must start Run in a goroutine
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*streamClient]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *streamClient),
		unregister: make(chan *streamClient),
	}
}

// Run owns the client set. All registration and broadcast goes through the
// hub's channels, so no lock is needed.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow consumer, drop it rather than stall the hub
					delete(h.clients, client)
					close(client.send)
				}
			}
		}
	}
}

// Publish implements dispatch.Notifier. It never blocks the caller: if the
// broadcast buffer is full the event is dropped and logged.
func (h *Hub) Publish(event dispatch.Event) {
	b, err := json.Marshal(event)
	if err != nil {
		zap.S().Errorw("failed to marshal stream event",
			"entityType", event.EntityType,
			"id", event.ID,
			"error", err)
		return
	}
	select {
	case h.broadcast <- b:
	default:
		zap.S().Warnw("stream backlog full, dropping event",
			"entityType", event.EntityType,
			"id", event.ID)
	}
}

// ServeWS upgrades an HTTP request to a websocket and registers it with the hub
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("failed to upgrade websocket", "error", err)
		return
	}
	client := &streamClient{hub: h, conn: conn, send: make(chan []byte, 64)}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

func (c *streamClient) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// Hub closed the channel
	c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump discards inbound frames; the stream is one-way. It exists to
// notice the peer going away so the hub can drop the client.
func (c *streamClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

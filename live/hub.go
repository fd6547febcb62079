// Package live pushes reservation change events to open admin dashboards.
package live

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"goodnight/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

const (
	writeWait = 5 * time.Second
	sendBuf   = 32
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans events out to every connected board.
type Hub struct {
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// NewHub accepts websocket handshakes from the given origins. An empty
// list accepts any origin.
func NewHub(allowedOrigins []string) *Hub {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
	}
}

// HandleWS keeps a board subscribed until the client disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response
		log.Printf("[Live] upgrade: %v", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuf)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	go writePump(c)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.drop(c)
}

// writePump is the only writer on c.conn. It says goodbye and closes the
// connection once c.send is closed.
func writePump(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
		time.Now().Add(writeWait))
}

// drop unregisters c. Callers must not hold h.mu.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	h.remove(c)
	h.mu.Unlock()
}

func (h *Hub) remove(c *client) {
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Broadcast queues ev for every board without waiting on the network.
// A board whose queue is full is disconnected.
func (h *Hub) Broadcast(ev models.ReservationEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		log.Printf("[Live] marshal event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			log.Printf("[Live] board too slow, disconnecting")
			h.remove(c)
		}
	}
}

// Close disconnects every board.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		h.remove(c)
	}
}

// Len is the number of connected boards.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

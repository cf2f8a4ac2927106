package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zeusync/brain/internal/core/observability/log"
)

const writeTimeout = 2 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(*http.Request) bool { return true },
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// hub fans broadcast messages out to websocket clients. Clients only listen;
// anything they send is discarded.
type hub struct {
	clients map[*client]struct{}
	mu      sync.Mutex
	logger  log.Log
}

func newHub(logger log.Log) *hub {
	return &hub{clients: make(map[*client]struct{}), logger: logger}
}

func (h *hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", log.Error(err))
		return
	}
	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("websocket client connected", log.String("remote", conn.RemoteAddr().String()))

	defer h.remove(c)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		_ = c.conn.Close()
	}
}

func (h *hub) len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast writes v to every client; clients that fail are dropped and
// their errors joined.
func (h *hub) broadcast(v any) error {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	var all error
	for _, c := range clients {
		c.mu.Lock()
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		err := c.conn.WriteJSON(v)
		c.mu.Unlock()
		if err != nil {
			all = errors.Join(all, err)
			h.remove(c)
		}
	}
	return all
}

func (h *hub) close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()
	for c := range clients {
		c.mu.Lock()
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server stopping"),
			time.Now().Add(writeTimeout))
		c.mu.Unlock()
		_ = c.conn.Close()
	}
}

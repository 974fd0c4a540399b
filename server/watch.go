package server

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/existflow/controlcentre/internal/logger"
)

var upgrader = websocket.Upgrader{
	// The API is token-authenticated; cross-origin browser clients are
	// expected, matching the CORS middleware on the HTTP routes.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// watchClient wraps a connection with a write lock. The websocket library
// supports at most one concurrent writer per connection, and broadcasts
// can arrive from overlapping document writes.
type watchClient struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *watchClient) send(document []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, document)
}

// hub fans document updates out to every connected watcher. Writers are
// notified about their own writes too; clients handle echo suppression.
type hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]*watchClient
}

func newHub() *hub {
	return &hub{clients: map[*websocket.Conn]*watchClient{}}
}

func (h *hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	h.clients[conn] = &watchClient{conn: conn}
	h.mu.Unlock()
}

func (h *hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
	_ = conn.Close()
}

// broadcast sends the document to all watchers, dropping any that fail.
func (h *hub) broadcast(document []byte) {
	h.mu.Lock()
	clients := make([]*watchClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if err := c.send(document); err != nil {
			logger.Debug("watcher dropped", logger.F("error", err))
			h.remove(c.conn)
		}
	}
}

func (h *hub) close() {
	h.mu.Lock()
	clients := make([]*watchClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clients = map[*websocket.Conn]*watchClient{}
	h.mu.Unlock()

	for _, c := range clients {
		_ = c.conn.Close()
	}
}

// handleWatch upgrades the connection and registers it with the hub. The
// read loop exists only to detect the peer going away.
func (s *Server) handleWatch(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	s.hub.add(conn)

	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	return nil
}

package realtime

import (
	"encoding/json"
	"net/http"
	"poolcare_server/structs"
	"poolcare_server/structs/tables"
	"slices"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

type client struct {
	conn   *websocket.Conn
	send   chan []byte
	userID uuid.UUID
	role   tables.Role
}

// wants reports whether the subscriber may see ev. Admins see every change,
// customers only their own visits.
func (c *client) wants(ev ChangeEvent) bool {
	return c.role == tables.RoleAdmin || ev.CustomerID == c.userID
}

// Hub fans change events out to websocket subscribers.
type Hub struct {
	cfg      *structs.RealtimeConfig
	logger   *gecho.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(cfg *structs.RealtimeConfig, allowedOrigins []string, logger *gecho.Logger) *Hub {
	return &Hub{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// Serve upgrades the request and subscribes the authenticated user. It returns
// once the connection is registered; reading and writing continue in the
// background.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, userID uuid.UUID, role tables.Role) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer), userID: userID, role: role}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.logger.Debug("Realtime subscriber connected", gecho.Field("user_id", userID), gecho.Field("role", role))

	go h.writeLoop(c)
	go h.readLoop(c)
	return nil
}

// Broadcast delivers ev to every subscriber allowed to see it. Slow
// subscribers whose buffer is full are dropped.
func (h *Hub) Broadcast(ev ChangeEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("Failed to marshal change event", gecho.Field("error", err))
		return
	}

	h.mu.RLock()
	var slow []*client
	for c := range h.clients {
		if !c.wants(ev) {
			continue
		}
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Dropping slow realtime subscriber", gecho.Field("user_id", c.userID))
		h.remove(c)
	}
}

// Clients returns the number of connected subscribers.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.RLock()
	all := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		all = append(all, c)
	}
	h.mu.RUnlock()

	for _, c := range all {
		h.remove(c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *Hub) readLoop(c *client) {
	defer h.remove(c)

	c.conn.SetReadLimit(1024)
	_ = c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(h.cfg.PongWait))
	})

	// subscribers never send anything meaningful; reading drives pong handling
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	ticker := time.NewTicker(h.cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.remove(c)
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				h.remove(c)
				return
			}
		}
	}
}

package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeTimeout = 10 * time.Second

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16

	// DefaultPingPeriod must stay below the read deadline, which is
	// derived from it.
	DefaultPingPeriod = 54 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Overlays are loaded from OBS and local files, which send no usable origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans published frames out to every connected websocket client.
// Publish is called by the loop that owns the race engine; connections
// are served concurrently.
type Hub struct {
	pingPeriod time.Duration
	logger     *logrus.Entry

	mu      sync.RWMutex
	clients map[*client]struct{}
	latest  []byte
	frame   *Frame
}

type client struct {
	conn       *websocket.Conn
	send       chan []byte
	pingPeriod time.Duration
}

// NewHub creates a hub. A zero pingPeriod uses DefaultPingPeriod.
func NewHub(pingPeriod time.Duration, logger *logrus.Entry) *Hub {
	if pingPeriod <= 0 {
		pingPeriod = DefaultPingPeriod
	}
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Hub{
		pingPeriod: pingPeriod,
		logger:     logger,
		clients:    make(map[*client]struct{}),
	}
}

// Publish sends f to all clients and keeps it for clients that connect
// later. Clients whose buffer is full are dropped.
func (h *Hub) Publish(f Frame) error {
	data, err := json.Marshal(Message{Event: "frame", Data: f})
	if err != nil {
		return err
	}

	var slow []*client
	h.mu.Lock()
	h.latest = data
	h.frame = &f
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.Unlock()

	for _, c := range slow {
		h.logger.Warn("Dropping websocket client with a full send buffer")
		h.unregister(c)
	}
	return nil
}

// Latest returns the last published frame.
func (h *Hub) Latest() (Frame, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.frame == nil {
		return Frame{}, false
	}
	return *h.frame, true
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP upgrades the connection, sends the latest frame and then
// relays published frames until the client goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	c := &client{
		conn:       conn,
		send:       make(chan []byte, sendBufSize),
		pingPeriod: h.pingPeriod,
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	if h.latest != nil {
		c.send <- h.latest
	}
	h.mu.Unlock()
	h.logger.WithField("remote", r.RemoteAddr).Debug("Websocket client connected")

	defer func() {
		h.unregister(c)
		h.logger.WithField("remote", r.RemoteAddr).Debug("Websocket client disconnected")
	}()

	go c.writePump()
	c.readPump()
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// Run blocks until ctx is done, then closes all connections.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.Close()
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (c *client) writePump() {
	ticker := time.NewTicker(c.pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames and extends the read deadline on every
// pong. It returns once the connection is gone.
func (c *client) readPump() {
	defer c.conn.Close()
	pongWait := c.pingPeriod * 10 / 9
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

package realtime

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/keya254/smart-serve/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	broadcastBuffer = 64
	writeWait       = 10 * time.Second
	pongWait        = 60 * time.Second
	pingPeriod      = (pongWait * 9) / 10
	maxMessageSize  = 512
)

// Hub keeps the set of connected WebSocket clients and delivers events to them.
// All membership changes happen on the Run goroutine.
type Hub struct {
	clients    map[*client]struct{}
	register   chan *client
	unregister chan *client
	broadcast  chan Event
	done       chan struct{}
	count      atomic.Int64
	upgrader   websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*client]struct{}),
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan Event, broadcastBuffer),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// ClientCount returns the number of registered clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Notify queues event for every subscribed client. It never blocks: when the
// queue is full the event is dropped.
func (h *Hub) Notify(event Event) {
	select {
	case <-h.done:
		return
	default:
	}
	select {
	case h.broadcast <- event:
	default:
		utils.LogWarn("Realtime broadcast queue full, dropping event", map[string]interface{}{"event": string(event)})
	}
}

// Run serves register, unregister and broadcast until ctx is cancelled, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) error {
	defer close(h.done)
	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.count.Store(int64(len(h.clients)))
			utils.LogInfo("Realtime client connected", map[string]interface{}{
				"remote_addr": c.remoteAddr, "clients": len(h.clients),
			})

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				h.count.Store(int64(len(h.clients)))
				close(c.closed)
				utils.LogInfo("Realtime client disconnected", map[string]interface{}{
					"remote_addr": c.remoteAddr, "clients": len(h.clients),
				})
			}

		case event := <-h.broadcast:
			for c := range h.clients {
				c.enqueue(event)
			}

		case <-ctx.Done():
			for c := range h.clients {
				delete(h.clients, c)
				close(c.closed)
			}
			h.count.Store(0)
			utils.LogInfo("Realtime hub stopped")
			return nil
		}
	}
}

// ServeWS upgrades the request to a WebSocket. The optional events query
// parameter (comma separated) limits which events the client receives.
func (h *Hub) ServeWS(c *gin.Context) {
	var filter map[Event]struct{}
	if raw := c.Query("events"); strings.TrimSpace(raw) != "" {
		filter = make(map[Event]struct{})
		for _, name := range utils.SplitCSV(raw) {
			if !IsValidEvent(name) {
				utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeBadRequest, "Unknown event in subscription filter", name))
				return
			}
			filter[Event(name)] = struct{}{}
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.LogError(err, "WebSocket upgrade failed")
		return
	}

	cl := newClient(conn, filter)
	select {
	case h.register <- cl:
	case <-h.done:
		conn.Close()
		return
	}

	go cl.writePump()
	go cl.readPump(h)
}

type client struct {
	conn       *websocket.Conn
	remoteAddr string
	filter     map[Event]struct{}

	mu      sync.Mutex
	pending []Event
	wake    chan struct{}
	closed  chan struct{}
}

func newClient(conn *websocket.Conn, filter map[Event]struct{}) *client {
	c := &client{
		conn:   conn,
		filter: filter,
		wake:   make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
	if conn != nil {
		c.remoteAddr = conn.RemoteAddr().String()
	}
	return c
}

func (c *client) wants(event Event) bool {
	if c.filter == nil {
		return true
	}
	_, ok := c.filter[event]
	return ok
}

// enqueue adds event to the pending set unless it is already there, so a
// burst of identical events reaches a slow client as one frame.
func (c *client) enqueue(event Event) {
	if !c.wants(event) {
		return
	}
	c.mu.Lock()
	for _, e := range c.pending {
		if e == event {
			c.mu.Unlock()
			return
		}
	}
	c.pending = append(c.pending, event)
	c.mu.Unlock()

	select {
	case c.wake <- struct{}{}:
	default:
	}
}

func (c *client) drain() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	events := c.pending
	c.pending = nil
	return events
}

func (c *client) readPump(h *Hub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		// Inbound messages are ignored; reading keeps control frames flowing.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				utils.LogDebug("Realtime client read error", map[string]interface{}{"remote_addr": c.remoteAddr, "error": err.Error()})
			}
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.wake:
			for _, event := range c.drain() {
				c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := c.conn.WriteJSON(Frame{Event: event}); err != nil {
					utils.LogDebug("Realtime client write error", map[string]interface{}{"remote_addr": c.remoteAddr, "error": err.Error()})
					return
				}
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.closed:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

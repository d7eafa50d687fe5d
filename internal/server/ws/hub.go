// Package ws streams the trade-cast feed to WebSocket clients.
package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/alanyoungcy/tradecast/internal/domain"
	"github.com/alanyoungcy/tradecast/internal/service"
)

const (
	// writeWait is the maximum time to wait for a write to complete.
	writeWait = 10 * time.Second

	// pongWait is the maximum time to wait for a pong from the client.
	pongWait = 60 * time.Second

	// pingPeriod sends pings at this interval. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// maxMessageSize is the maximum size of an incoming message.
	maxMessageSize = 512

	sendBufferSize = 4

	defaultInterval = 20 * time.Second
)

// upgrader configures the WebSocket upgrade parameters. Origins are already
// filtered by the CORS middleware.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// FeedSource produces a fresh set of casts on every call.
type FeedSource interface {
	Casts(ctx context.Context, query string, limit int) ([]domain.TradeCast, error)
}

// Frame types pushed to clients.
const (
	FrameCasts = "casts"
	FrameError = "error"
)

type castsFrame struct {
	Type  string             `json:"type"`
	Casts []domain.TradeCast `json:"casts"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// client represents a single WebSocket connection following one token.
type client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	query  string
	limit  int
	ctx    context.Context
	cancel context.CancelFunc
}

// Hub tracks live-feed clients. Every client polls the feed on its own
// schedule, so one slow token never delays another.
type Hub struct {
	feed     FeedSource
	interval time.Duration

	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mu         sync.RWMutex
	logger     *slog.Logger
}

// NewHub creates a Hub that refreshes each client every interval (20s when
// zero).
func NewHub(feed FeedSource, interval time.Duration, logger *slog.Logger) *Hub {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Hub{
		feed:       feed,
		interval:   interval,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run handles client registration until ctx is cancelled, then disconnects
// every remaining client.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for c := range h.clients {
				c.cancel()
				delete(h.clients, c)
			}
			h.mu.Unlock()
			return ctx.Err()

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c] = true
			h.mu.Unlock()
			h.logger.Info("ws: client connected",
				slog.String("token", c.query),
				slog.Int("total_clients", h.ClientCount()),
			)

		case c := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				c.cancel()
			}
			h.mu.Unlock()
			h.logger.Info("ws: client disconnected",
				slog.Int("total_clients", h.ClientCount()),
			)
		}
	}
}

// HandleWS upgrades the request and starts streaming casts for the token.
// GET /ws/tradecasts?token=degen&limit=2
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := strings.TrimSpace(q.Get("token"))
	if token == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Missing token parameter"}`))
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws: upgrade failed", slog.String("error", err.Error()))
		return
	}

	// The request context ends when this handler returns, so the client
	// gets its own.
	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		query:  token,
		limit:  service.ParseLimit(q.Get("limit")),
		ctx:    ctx,
		cancel: cancel,
	}

	select {
	case h.register <- c:
	case <-h.done:
		cancel()
		conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
	go c.pollFeed()
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// pollFeed pushes one frame immediately and another every interval.
func (c *client) pollFeed() {
	ticker := time.NewTicker(c.hub.interval)
	defer ticker.Stop()

	for {
		c.push()
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (c *client) push() {
	casts, err := c.hub.feed.Casts(c.ctx, c.query, c.limit)
	if c.ctx.Err() != nil {
		return
	}

	var frame any
	switch {
	case err != nil:
		c.hub.logger.Warn("ws: feed refresh failed",
			slog.String("token", c.query),
			slog.String("error", err.Error()),
		)
		frame = errorFrame{Type: FrameError, Error: "Failed to load tradecasts"}
	case casts == nil:
		frame = castsFrame{Type: FrameCasts, Casts: []domain.TradeCast{}}
	default:
		frame = castsFrame{Type: FrameCasts, Casts: casts}
	}

	data, err := json.Marshal(frame)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	case <-c.ctx.Done():
	default:
		c.hub.logger.Warn("ws: dropping frame for slow client",
			slog.String("token", c.query),
		)
	}
}

// readPump drains inbound frames so pong and close control messages are
// processed. Clients have nothing to say beyond that.
func (c *client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.cancel()
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("ws: unexpected close error",
					slog.String("error", err.Error()),
				)
			}
			return
		}
	}
}

// writePump writes queued frames as text messages and sends periodic pings.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.cancel()
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.cancel()
				return
			}
		}
	}
}

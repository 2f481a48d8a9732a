package comment

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"lifelessons/internal/cache"
	"lifelessons/internal/domain"
	"lifelessons/internal/workspace"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 * 1024
)

const (
	EventComments = "comments"
	EventError    = "error"
)

// WSEvent is pushed to live comment clients.
type WSEvent struct {
	Type     string           `json:"type"`
	LessonID string           `json:"lesson_id"`
	Comments []domain.Comment `json:"comments,omitempty"`
	Message  string           `json:"message,omitempty"`
}

// connection — одно websocket-подключение к ленте комментариев урока
type connection struct {
	ws       *workspace.Workspace
	lessonID string
	conn     *websocket.Conn
	send     chan []byte
	done     chan struct{}
}

// Hub tracks live comment feeds. Each connection follows its workspace's
// cached comment list and is refreshed by a poller; Touch lets a confirmed
// submission reach every other watcher of the lesson immediately.
type Hub struct {
	mu           sync.RWMutex
	connections  map[*connection]struct{}
	pollInterval time.Duration
	logger       *slog.Logger
	upgrader     websocket.Upgrader
}

func NewHub(pollInterval time.Duration, allowedOrigins []string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &Hub{
		connections:  make(map[*connection]struct{}),
		pollInterval: pollInterval,
		logger:       logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

func (h *Hub) register(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.connections[c] = struct{}{}
}

func (h *Hub) unregister(c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.connections[c]; ok {
		delete(h.connections, c)
		close(c.done)
	}
}

// Count returns the number of live feeds of lessonID, or of all lessons when
// lessonID is empty.
func (h *Hub) Count(lessonID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for c := range h.connections {
		if lessonID == "" || c.lessonID == lessonID {
			n++
		}
	}
	return n
}

// Touch marks lessonID's comments stale in every watching workspace; their
// feeds reload and push the new list.
func (h *Hub) Touch(lessonID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.connections {
		if c.lessonID == lessonID {
			c.ws.Cache.Invalidate(commentsKey(lessonID))
		}
	}
}

// Serve upgrades the request and streams lessonID's comments for ws until
// the client goes away or the workspace is dropped.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, ws *workspace.Workspace, lessonID string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &connection{
		ws:       ws,
		lessonID: lessonID,
		conn:     conn,
		send:     make(chan []byte, 16),
		done:     make(chan struct{}),
	}
	h.register(c)
	h.logger.Debug("comment feed opened", "lesson_id", lessonID, "session", ws.Email())

	ctx, cancel := context.WithCancel(ws.Context())
	defer cancel()

	poller := NewPoller(h.pollInterval, func(ctx context.Context) error {
		_, err := Refresh(ctx, ws, lessonID)
		return err
	}, h.logger)

	go h.writePump(c)
	go h.follow(ctx, c)
	go poller.Run(ctx)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-c.done:
		}
	}()

	h.readPump(c) // blocks until disconnect
	h.logger.Debug("comment feed closed", "lesson_id", lessonID)
	return nil
}

// follow pushes the cached list on every change of the comments key.
func (h *Hub) follow(ctx context.Context, c *connection) {
	key := commentsKey(c.lessonID)
	events, unsubscribe := c.ws.Cache.Subscribe(key)
	defer unsubscribe()

	// свежий список отдаём сразу, иначе он придёт событием Set после загрузки
	if v, ok := c.ws.Cache.Get(key); ok {
		list, _ := v.([]domain.Comment)
		h.push(c, WSEvent{Type: EventComments, LessonID: c.lessonID, Comments: list})
	} else if _, err := Load(ctx, c.ws, c.lessonID); err != nil {
		h.push(c, WSEvent{Type: EventError, LessonID: c.lessonID, Message: "Failed to load comments"})
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		case ev := <-events:
			switch ev.Type {
			case cache.EventSet:
				list, _ := cache.Value[[]domain.Comment](c.ws.Cache, key)
				h.push(c, WSEvent{Type: EventComments, LessonID: c.lessonID, Comments: list})
			case cache.EventInvalidated:
				if _, err := Load(ctx, c.ws, c.lessonID); err != nil && ctx.Err() == nil {
					h.logger.Warn("reload comments failed", "lesson_id", c.lessonID, "error", err)
				}
			}
		}
	}
}

func (h *Hub) push(c *connection, ev WSEvent) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	case <-c.done:
	default:
		// Client too slow — skip
	}
}

func (h *Hub) readPump(c *connection) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMsgSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("comment feed read error", "lesson_id", c.lessonID, "error", err)
			}
			return
		}

		var event struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(msg, &event); err != nil {
			continue
		}
		if event.Type == "refresh" {
			c.ws.Cache.Invalidate(commentsKey(c.lessonID))
		}
	}
}

func (h *Hub) writePump(c *connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close drops every live feed.
func (h *Hub) Close() {
	h.mu.Lock()
	conns := make([]*connection, 0, len(h.connections))
	for c := range h.connections {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		_ = c.conn.Close()
	}
}

package similarity

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	similarityservice "github.com/hiwalabs/hiwa/backend/internal/service/similarity"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// Handler bridges the similarity worker protocol onto a WebSocket. Each
// connection owns one worker instance; closing the connection tears the
// worker down, and a reconnecting client starts from uninitialized.
type Handler struct {
	provider similarityservice.Provider
	upgrader websocket.Upgrader
}

// New creates the similarity handler. A nil provider (embedding API not
// configured) leaves the endpoint registered but answering 503.
func New(provider similarityservice.Provider) *Handler {
	return &Handler{
		provider: provider,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts the similarity WebSocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/similarity/ws", h.handleWebSocket)
}

type inboundMessage struct {
	Type    string `json:"type"`
	Payload struct {
		Text1 string `json:"text1"`
		Text2 string `json:"text2"`
	} `json:"payload"`
}

// wsConn serializes writes: the event pump and the ping loop share the
// connection.
type wsConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *wsConn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(v)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if h.provider == nil {
		http.Error(w, "similarity service unavailable", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[similarity] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("[similarity] new connection from %s", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	worker := similarityservice.NewWorker(h.provider)
	defer worker.Close()

	wc := &wsConn{conn: conn}

	conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	go h.pingLoop(ctx, wc)
	go h.pumpEvents(ctx, wc, worker)

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[similarity] read error: %v", err)
			}
			return
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))

		switch msg.Type {
		case "init":
			if err := worker.Init(ctx); err != nil {
				return
			}
		case "analyze":
			if err := worker.Analyze(ctx, msg.Payload.Text1, msg.Payload.Text2); err != nil {
				return
			}
		default:
			wc.writeJSON(map[string]string{"status": "error", "data": "unsupported message type: " + msg.Type})
		}
	}
}

// pumpEvents forwards worker events to the client until the worker or
// the connection goes away.
func (h *Handler) pumpEvents(ctx context.Context, wc *wsConn, worker *similarityservice.Worker) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-worker.Events():
			if !ok {
				return
			}
			if err := wc.writeJSON(ev); err != nil {
				log.Printf("[similarity] event write failed: %v", err)
				return
			}
		}
	}
}

func (h *Handler) pingLoop(ctx context.Context, wc *wsConn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := wc.ping(); err != nil {
				return
			}
		}
	}
}

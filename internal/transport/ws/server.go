package ws

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

type Verifier interface {
	Verify(token string) (int64, error)
}

type Server struct {
	upgrader websocket.Upgrader
	hub      *Hub
	verifier Verifier

	pingEvery time.Duration
}

func NewServer(hub *Hub, verifier Verifier, allowedOrigins []string) *Server {
	return &Server{
		hub:      hub,
		verifier: verifier,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(allowedOrigins),
		},
		pingEvery: 15 * time.Second,
	}
}

// empty list allows any origin
func checkOrigin(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		if len(allowed) == 0 {
			return true
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if strings.EqualFold(a, origin) {
				return true
			}
		}
		return false
	}
}

// GET /ws/roulette?access_token=...
func (s *Server) HandleRoulette(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("access_token"))
	if token == "" {
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			token = strings.TrimSpace(auth[7:])
		}
	}
	if token == "" {
		http.Error(w, "missing access_token", http.StatusUnauthorized)
		return
	}
	uid, err := s.verifier.Verify(token)
	if err != nil {
		http.Error(w, "invalid access_token", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		slog.WarnContext(r.Context(), "ws upgrade failed", "err", err)
		return
	}

	c := newWsConn(conn, TopicRoulette, uid)
	s.hub.Add(c)
	defer s.hub.Remove(c)

	if err := c.Send(Message{
		Type:    TypeReady,
		Payload: ReadyPayload{Topic: TopicRoulette, Subscribers: s.hub.Count(TopicRoulette)},
	}); err != nil {
		slog.WarnContext(r.Context(), "ws send ready failed", "user", uid, "err", err)
	}

	go s.writeLoop(r.Context(), c)
	s.readLoop(c)

	if err := c.Close(); err != nil {
		slog.Debug("ws close failed", "user", uid, "err", err)
	}
}

// readLoop only drains control frames; the feed is server-to-client.
func (s *Server) readLoop(c *wsConn) {
	c.conn.SetReadLimit(4 << 10)
	_ = c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(2 * s.pingEvery))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) writeLoop(ctx context.Context, c *wsConn) {
	ticker := time.NewTicker(s.pingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.ping(); err != nil {
				_ = c.Close()
				return
			}
		case <-ctx.Done():
			_ = c.Close()
			return
		case <-c.closed:
			return
		}
	}
}

type wsConn struct {
	conn   *websocket.Conn
	topic  string
	userID int64
	sendMu chan struct{}
	closed chan struct{}
}

func newWsConn(c *websocket.Conn, topic string, userID int64) *wsConn {
	return &wsConn{
		conn:   c,
		topic:  topic,
		userID: userID,
		sendMu: make(chan struct{}, 1),
		closed: make(chan struct{}),
	}
}

func (c *wsConn) Send(msg Message) error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()
	_ = c.conn.SetWriteDeadline(time.Now().Add(5 * time.Second))

	return c.conn.WriteJSON(msg)
}

func (c *wsConn) ping() error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()

	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second))
}

func (c *wsConn) Close() error {
	c.sendMu <- struct{}{}
	defer func() { <-c.sendMu }()

	select {
	case <-c.closed:
		return nil
	default:
		close(c.closed)
	}
	return c.conn.Close()
}

func (c *wsConn) UserID() int64 { return c.userID }
func (c *wsConn) Topic() string { return c.topic }

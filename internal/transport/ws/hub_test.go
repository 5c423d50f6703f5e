package ws

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labdesk/workbench/internal/domain"
	"github.com/labdesk/workbench/internal/service"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type fakeConn struct {
	mu    sync.Mutex
	topic string
	got   []Message
	fail  bool
}

func (c *fakeConn) Send(msg Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("closed")
	}
	c.got = append(c.got, msg)
	return nil
}
func (c *fakeConn) Close() error  { return nil }
func (c *fakeConn) UserID() int64 { return 1 }
func (c *fakeConn) Topic() string { return c.topic }

func sampleDraw() *service.Draw {
	return &service.Draw{
		ID:        "draw-1",
		CreatedAt: time.Unix(1700000000, 0),
		Groups: []service.DrawGroup{
			{Members: []domain.Member{{ID: 2, Name: "Baba"}, {ID: 1, Name: "Aoki"}}},
			{Members: []domain.Member{{ID: 5, Name: "Endo"}}},
		},
	}
}

func TestHub_BroadcastOnlyToTopic(t *testing.T) {
	h := NewHub()
	a := &fakeConn{topic: TopicRoulette}
	b := &fakeConn{topic: TopicRoulette, fail: true}
	other := &fakeConn{topic: "elsewhere"}
	h.Add(a)
	h.Add(b)
	h.Add(other)
	require.Equal(t, 2, h.Count(TopicRoulette))

	n := h.Broadcast(TopicRoulette, Message{Type: "x"})
	require.Equal(t, 1, n)
	require.Len(t, a.got, 1)
	require.Empty(t, other.got)

	h.Remove(a)
	h.Remove(b)
	require.Equal(t, 0, h.Count(TopicRoulette))
	require.Equal(t, 0, h.Broadcast(TopicRoulette, Message{Type: "x"}))
}

func TestHub_PublishDraw(t *testing.T) {
	h := NewHub()
	c := &fakeConn{topic: TopicRoulette}
	h.Add(c)

	h.PublishDraw(context.Background(), sampleDraw())

	require.Len(t, c.got, 1)
	require.Equal(t, TypeDraw, c.got[0].Type)
	p, ok := c.got[0].Payload.(DrawPayload)
	require.True(t, ok)
	require.Equal(t, "draw-1", p.DrawID)
	require.Equal(t, int64(1700000000), p.CreatedAt)
	require.Equal(t, []DrawGroupPayload{
		{Presenter: "Baba", Members: []string{"Baba", "Aoki"}},
		{Presenter: "Endo", Members: []string{"Endo"}},
	}, p.Groups)
}

type staticVerifier struct{}

func (staticVerifier) Verify(token string) (int64, error) {
	if token == "good" {
		return 42, nil
	}
	return 0, errors.New("bad token")
}

func TestServer_RouletteFeed(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(http.HandlerFunc(NewServer(hub, staticVerifier{}, nil).HandleRoulette))
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?access_token=bad", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?access_token=good", nil)
	require.NoError(t, err)
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var ready struct {
		Type    string       `json:"type"`
		Payload ReadyPayload `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&ready))
	require.Equal(t, TypeReady, ready.Type)
	require.Equal(t, TopicRoulette, ready.Payload.Topic)
	require.Equal(t, 1, ready.Payload.Subscribers)

	hub.PublishDraw(context.Background(), sampleDraw())

	var draw struct {
		Type    string      `json:"type"`
		Payload DrawPayload `json:"payload"`
	}
	require.NoError(t, conn.ReadJSON(&draw))
	require.Equal(t, TypeDraw, draw.Type)
	require.Equal(t, "draw-1", draw.Payload.DrawID)
	require.Len(t, draw.Payload.Groups, 2)
}

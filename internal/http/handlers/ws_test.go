package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"todo_webapp/internal/domain"
	"todo_webapp/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type emptyLister struct{}

func (emptyLister) ListVisible(ctx context.Context, viewerID int64) ([]*domain.Task, error) {
	return []*domain.Task{}, nil
}

func wsTestServer(allowedOrigin string) *httptest.Server {
	gin.SetMode(gin.TestMode)
	h := NewHandler(nil, nil)
	hub := ws.NewHub(emptyLister{})

	r := gin.New()
	r.GET("/ws", h.WS(hub, allowedOrigin))
	return httptest.NewServer(r)
}

// The allowed origin is configuration passed into the handler, not something
// it looks up itself; a mismatched Origin header must be rejected before the
// upgrade.
func TestWSOriginEnforcement(t *testing.T) {
	srv := wsTestServer("https://todo.example.com")
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	conn, resp, err := websocket.DefaultDialer.Dial(url, http.Header{
		"Origin": {"https://evil.example.com"},
	})
	if err == nil {
		conn.Close()
		t.Fatal("expected upgrade to fail for a foreign origin")
	}
	if resp == nil || resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %+v", resp)
	}

	conn, _, err = websocket.DefaultDialer.Dial(url, http.Header{
		"Origin": {"https://todo.example.com"},
	})
	if err != nil {
		t.Fatalf("dial with allowed origin: %v", err)
	}
	conn.Close()
}

func TestWSEmptyOriginAllowsAll(t *testing.T) {
	srv := wsTestServer("")
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{
		"Origin": {"https://anywhere.example.com"},
	})
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	conn.Close()
}

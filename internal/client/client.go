package client

import (
	"context"
	"encoding/json"
	"net/url"

	"todo_webapp/internal/logger"
	"todo_webapp/internal/ws"

	"github.com/gorilla/websocket"
)

// FeedClient subscribes to the /ws task feed and drives a ViewModel.
type FeedClient struct {
	VM   *ViewModel
	conn *websocket.Conn

	// Ready is closed once the server handshake arrives.
	Ready chan struct{}
	// Done is closed when the read loop exits.
	Done chan struct{}
}

// Dial connects to baseURL (ws:// or wss://) with an optional session token
// and starts consuming the feed into a fresh ViewModel.
func Dial(ctx context.Context, baseURL, token string) (*FeedClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	u.Path = "/ws"
	if token != "" {
		q := u.Query()
		q.Set("token", token)
		u.RawQuery = q.Encode()
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, err
	}

	fc := &FeedClient{
		VM:    NewViewModel(),
		conn:  conn,
		Ready: make(chan struct{}),
		Done:  make(chan struct{}),
	}
	go fc.readLoop()
	return fc, nil
}

func (fc *FeedClient) readLoop() {
	defer close(fc.Done)
	ready := false

	for {
		_, msg, err := fc.conn.ReadMessage()
		if err != nil {
			logger.Debug("feed read closed", "error", err)
			return
		}

		var env ws.Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			continue
		}

		if env.Type == ws.MsgReady {
			if !ready {
				ready = true
				close(fc.Ready)
			}
			continue
		}
		fc.VM.Apply(&env)
	}
}

// Ping sends a client ping frame over the feed protocol.
func (fc *FeedClient) Ping() error {
	return fc.conn.WriteJSON(ws.ClientMessage{Type: ws.MsgPing})
}

func (fc *FeedClient) Close() error {
	return fc.conn.Close()
}

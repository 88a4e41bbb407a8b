package ws

import (
	"encoding/json"
	"time"

	"todo_webapp/internal/logger"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 50 * time.Second

	sendBuffer   = 256
	maxFrameSize = 1024
)

// Client is one subscribed websocket connection. ViewerID is 0 for an
// anonymous subscriber.
type Client struct {
	ViewerID int64
	Conn     *websocket.Conn
	Send     chan []byte

	Hub  *Hub
	Done chan struct{}
}

func NewClient(viewerID int64, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ViewerID: viewerID,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
		Hub:      hub,
		Done:     make(chan struct{}),
	}
}

// Run starts the pumps, sends the ready handshake, subscribes and blocks
// until the connection drops.
func (c *Client) Run() {
	go c.writePump()

	c.enqueue([]byte(`{"type":"ready"}`))
	c.Hub.Subscribe(c)

	go c.readPump()

	<-c.Done
}

// enqueue queues a message without blocking the publisher. A subscriber that
// cannot drain its buffer loses the message; the snapshot on reconnect is
// the recovery path.
func (c *Client) enqueue(msg []byte) {
	select {
	case c.Send <- msg:
	default:
		logger.Warn("ws send buffer full, dropping message", "viewer_id", c.ViewerID)
	}
}

// readPump consumes client frames. The only meaningful client message is
// ping; everything else is ignored. All mutations go through HTTP.
func (c *Client) readPump() {
	defer func() {
		c.disconnect()
		close(c.Done)
	}()

	c.Conn.SetReadLimit(maxFrameSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.Conn.ReadMessage()
		if err != nil {
			logger.Debug("ws read closed", "viewer_id", c.ViewerID, "error", err)
			return
		}

		var cm ClientMessage
		if err := json.Unmarshal(msg, &cm); err != nil {
			continue
		}
		if cm.Type == MsgPing {
			c.enqueue([]byte(`{"type":"pong"}`))
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write failed", "viewer_id", c.ViewerID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) disconnect() {
	c.Hub.Unsubscribe(c)
	_ = c.Conn.Close()
}

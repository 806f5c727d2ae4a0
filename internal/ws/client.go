package ws

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ASAPmarius/Projet-WEB-sub000/internal/model"
)

const (
	// writeWait bounds a single frame write
	writeWait = 10 * time.Second
	// pongWait is how long we tolerate a silent peer
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait
	pingPeriod = 50 * time.Second
	// maxFrameSize bounds inbound frames; game frames are small
	maxFrameSize = 4096
)

// Client wraps one websocket connection. It implements registry.Sender, so
// the registry can broadcast to it, and runs the read loop that feeds frames
// to the router in arrival order.
type Client struct {
	conn   *websocket.Conn
	logger *slog.Logger

	// writeMu serializes frame writes; gorilla connections allow only one
	// concurrent writer
	writeMu sync.Mutex
	closed  bool
}

// NewClient wraps an upgraded websocket connection
func NewClient(conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{conn: conn, logger: logger}
}

// SendEvent serializes one outbound event and writes it as a text frame
func (c *Client) SendEvent(event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return model.ErrConnectionClosed
	}
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Close tears down the transport. Safe to call more than once.
func (c *Client) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.conn.Close()
}

// ReadLoop consumes inbound frames and hands each decoded message to handle,
// in arrival order. It returns when the transport errors or closes; the
// caller is responsible for registry cleanup afterwards. Malformed JSON is
// logged and dropped without tearing down the connection.
func (c *Client) ReadLoop(handle func(*model.ClientMessage)) {
	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	stopPings := c.startPings()
	defer stopPings()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("websocket read failed", slog.String("error", err.Error()))
			}
			return
		}

		var msg model.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Warn("dropping malformed frame", slog.String("error", err.Error()))
			continue
		}
		handle(&msg)
	}
}

// startPings keeps the connection alive; the returned func stops the ticker
func (c *Client) startPings() func() {
	ticker := time.NewTicker(pingPeriod)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				c.writeMu.Lock()
				if c.closed {
					c.writeMu.Unlock()
					return
				}
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				err := c.conn.WriteMessage(websocket.PingMessage, nil)
				c.writeMu.Unlock()
				if err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}

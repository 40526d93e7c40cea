package ws

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/contrib/websocket"

	"github.com/sakshamg567/sketchy/backend/internal/relay"
	"github.com/sakshamg567/sketchy/backend/logger"
	"github.com/sakshamg567/sketchy/backend/pkg/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	maxMessageSize = 64 << 10
	sendBuffer     = 256
)

var (
	ErrClosed         = errors.New("connection closed")
	ErrSendBufferFull = errors.New("send buffer full")
)

// WSMessage is the envelope for every frame in both directions.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client is one WebSocket connection. ReadPump feeds the relay, WritePump
// drains the send queue; both stop once the context is cancelled.
type Client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(c *websocket.Conn) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:     utils.GenConnID(),
		conn:   c,
		send:   make(chan []byte, sendBuffer),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send encodes the envelope and queues it. It never blocks: a full queue
// drops the message.
func (c *Client) Send(event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(WSMessage{Type: event, Data: data})
	if err != nil {
		return err
	}

	if c.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

func (c *Client) cleanup() {
	c.cancel()
	if c.conn != nil {
		c.conn.Close()
	}
}

func (c *Client) ReadPump(r *relay.Relay) {
	defer func() {
		if recover := recover(); recover != nil {
			logger.Error("conn %s readPump panic: %v", c.id, recover)
		}
		logger.Debug("conn %s readPump exiting", c.id)
		c.cleanup()
		r.Disconnect(c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Error("ReadMessage error for conn %s: %v", c.id, err)
			}
			return
		}

		var wsMsg WSMessage
		if err := json.Unmarshal(msg, &wsMsg); err != nil {
			logger.Warn("Invalid WS message from conn %s: %v, raw message: %s", c.id, err, string(msg))
			continue
		}

		logger.Debug("conn %s - received %s", c.id, wsMsg.Type)
		r.Handle(c.ctx, c, wsMsg.Type, wsMsg.Data)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.cleanup()
	}()

	for {
		select {
		case <-c.ctx.Done():
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error("WriteMessage error for conn %s: %v", c.id, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Error("Ping error for conn %s: %v", c.id, err)
				return
			}
		}
	}
}

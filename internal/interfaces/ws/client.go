package ws

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Clients only receive; inbound frames are limited to control
	// traffic and the occasional keepalive text.
	maxMessageSize = 512

	sendBufferSize = 64
)

// Client is one WebSocket connection scoped to a tenant
type Client struct {
	hub      *Hub
	tenantID uuid.UUID
	conn     *websocket.Conn
	send     chan []byte
	logger   *zap.Logger
}

func newClient(hub *Hub, tenantID uuid.UUID, conn *websocket.Conn, logger *zap.Logger) *Client {
	return &Client{
		hub:      hub,
		tenantID: tenantID,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		logger:   logger,
	}
}

// readPump drains inbound frames so pong handlers fire and close
// frames are observed. The feed is one-way; payloads are discarded.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("stock feed read error", zap.Error(err))
			}
			return
		}
	}
}

// writePump forwards queued updates to the connection and keeps it
// alive with periodic pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package relay

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendQueue      = 256
)

var ErrQueueFull = errors.New("send queue full")

// wsConn pairs a websocket with a single write pump, so frames leave in the
// order Broadcast queued them.
type wsConn struct {
	id      string
	channel string
	ws      *websocket.Conn
	send    chan []byte
	done    chan struct{}
	hub     *Hub
	log     *slog.Logger
}

func newConn(id, channel string, ws *websocket.Conn, hub *Hub, logger *slog.Logger) *wsConn {
	return &wsConn{
		id:      id,
		channel: channel,
		ws:      ws,
		send:    make(chan []byte, sendQueue),
		done:    make(chan struct{}),
		hub:     hub,
		log:     logger,
	}
}

func (c *wsConn) ID() string      { return c.id }
func (c *wsConn) Channel() string { return c.channel }

func (c *wsConn) Send(data []byte) error {
	select {
	case c.send <- data:
		return nil
	default:
		return ErrQueueFull
	}
}

func (c *wsConn) Close() error {
	return c.ws.Close()
}

func (c *wsConn) start() {
	c.hub.Register(c)
	go c.writePump()
	go c.readPump()
}

func (c *wsConn) readPump() {
	defer func() {
		close(c.done)
		c.hub.Unregister(c)
		c.ws.Close()
	}()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.log.Warn("read error", "clientId", c.id, "error", err)
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		c.hub.Broadcast(c, data)
	}
}

func (c *wsConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case <-c.done:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			c.ws.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case message := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

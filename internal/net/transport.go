package net

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"SlideBoard/internal/protocol"
	"SlideBoard/internal/state"
)

// ReconnectDelay is the fixed pause between connection attempts. The relay is
// a local process that is either up or about to be, so there is no backoff
// growth.
const ReconnectDelay = 2 * time.Second

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	queueSize      = 256
)

type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateConnected
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "unknown"
	}
}

// Client keeps a websocket to the relay open, reconnecting after ReconnectDelay
// whenever it drops. Decoded messages arrive on Incoming in relay order;
// malformed frames are dropped.
type Client struct {
	url    string
	dialer *websocket.Dialer
	delay  time.Duration
	log    *slog.Logger

	incoming chan any
	states   chan State

	mu  sync.Mutex
	out chan []byte // nil unless connected
}

func NewClient(url string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		url:      url,
		dialer:   websocket.DefaultDialer,
		delay:    ReconnectDelay,
		log:      logger.With("component", "transport", "relay", url),
		incoming: make(chan any, queueSize),
		states:   make(chan State, 16),
	}
}

// Incoming yields state.DrawSample and state.BoardSelect values.
func (c *Client) Incoming() <-chan any { return c.incoming }

// States reports every state transition. Transitions are dropped if the
// reader falls far behind.
func (c *Client) States() <-chan State { return c.states }

// Run connects and reconnects until ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	for {
		c.setState(StateConnecting)
		err := c.connect(ctx)
		c.setState(StateDisconnected)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Info("relay connection lost, retrying", "error", err, "delay", c.delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.delay):
		}
	}
}

// Send queues a frame for the current connection. Delivery is best effort:
// while disconnected, or when the queue is full, the frame is dropped and
// false is returned. Nothing is retried; the next sample supersedes a lost one.
func (c *Client) Send(frame []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out == nil {
		return false
	}
	select {
	case c.out <- frame:
		return true
	default:
		return false
	}
}

func (c *Client) SendDraw(s state.DrawSample) bool {
	frame, err := protocol.EncodeDraw(s)
	if err != nil {
		c.log.Warn("encode draw", "error", err)
		return false
	}
	return c.Send(frame)
}

func (c *Client) SendBoard(board int) bool {
	frame, err := protocol.EncodeSetBoard(board)
	if err != nil {
		c.log.Warn("encode set_board", "error", err)
		return false
	}
	return c.Send(frame)
}

func (c *Client) setState(s State) {
	select {
	case c.states <- s:
	default:
	}
}

func (c *Client) connect(ctx context.Context) error {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", c.url, err)
	}
	defer conn.Close()

	out := make(chan []byte, queueSize)
	c.mu.Lock()
	c.out = out
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.out = nil
		c.mu.Unlock()
	}()

	c.setState(StateConnected)
	c.log.Info("connected to relay")

	done := make(chan struct{})
	defer close(done)
	go c.writePump(conn, out, done)

	// Unblock the read loop when the caller gives up.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	return c.readPump(ctx, conn)
}

func (c *Client) readPump(ctx context.Context, conn *websocket.Conn) error {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))

		msg, err := protocol.Decode(data)
		if err != nil {
			if !errors.Is(err, protocol.ErrUnknownType) {
				c.log.Debug("dropping malformed frame", "error", err)
			}
			continue
		}
		select {
		case c.incoming <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *Client) writePump(conn *websocket.Conn, out <-chan []byte, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case frame := <-out:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.log.Debug("write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Package relay is a small broadcast server for drawing clients. It forwards
// every frame it receives, untouched, to the other members of the same channel
// and keeps nothing.
package relay

import (
	"log/slog"
	"sync"
)

// Conn is one websocket member of a channel.
type Conn interface {
	ID() string
	Channel() string
	Send(data []byte) error
	Close() error
}

// Publisher forwards local frames to other relay processes.
type Publisher interface {
	Publish(channel, senderID string, frame []byte)
}

type channel struct {
	members map[string]Conn
	mu      sync.RWMutex
}

type Hub struct {
	channels map[string]*channel
	mu       sync.RWMutex
	log      *slog.Logger
	pub      Publisher
}

func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		channels: make(map[string]*channel),
		log:      logger.With("component", "hub"),
	}
}

// SetPublisher enables cross-process fan-out. Call before serving.
func (h *Hub) SetPublisher(p Publisher) { h.pub = p }

func (h *Hub) Register(conn Conn) {
	h.mu.Lock()
	ch, ok := h.channels[conn.Channel()]
	if !ok {
		ch = &channel{members: make(map[string]Conn)}
		h.channels[conn.Channel()] = ch
	}
	// Held across the insert so Unregister cannot drop the channel in between.
	ch.mu.Lock()
	ch.members[conn.ID()] = conn
	count := len(ch.members)
	ch.mu.Unlock()
	h.mu.Unlock()

	h.log.Info("client connected", "channel", conn.Channel(), "clientId", conn.ID(), "clients", count)
}

func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, ok := h.channels[conn.Channel()]
	if !ok {
		return
	}
	ch.mu.Lock()
	_, member := ch.members[conn.ID()]
	delete(ch.members, conn.ID())
	count := len(ch.members)
	ch.mu.Unlock()
	if !member {
		return
	}

	h.log.Info("client disconnected", "channel", conn.Channel(), "clientId", conn.ID(), "clients", count)
	if count == 0 {
		delete(h.channels, conn.Channel())
		h.log.Debug("channel removed", "channel", conn.Channel())
	}
}

// Broadcast sends data to every other member of the sender's channel and, when
// fan-out is enabled, to other relay processes.
func (h *Hub) Broadcast(sender Conn, data []byte) {
	h.deliver(sender.Channel(), sender.ID(), data)
	if h.pub != nil {
		h.pub.Publish(sender.Channel(), sender.ID(), data)
	}
}

// Deliver hands a frame that arrived from another relay process to every
// local member of channelName.
func (h *Hub) Deliver(channelName string, data []byte) {
	h.deliver(channelName, "", data)
}

func (h *Hub) deliver(channelName, skipID string, data []byte) {
	h.mu.RLock()
	ch, ok := h.channels[channelName]
	h.mu.RUnlock()
	if !ok {
		return
	}

	ch.mu.RLock()
	defer ch.mu.RUnlock()
	for id, conn := range ch.members {
		if id == skipID {
			continue
		}
		if err := conn.Send(data); err != nil {
			// Slow members are dropped and reconnect.
			h.log.Warn("dropping slow client", "channel", channelName, "clientId", id, "error", err)
			go func(c Conn) {
				h.Unregister(c)
				c.Close()
			}(conn)
		}
	}
}

func (h *Hub) Stats() (channels, clients int) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	channels = len(h.channels)
	for _, ch := range h.channels {
		ch.mu.RLock()
		clients += len(ch.members)
		ch.mu.RUnlock()
	}
	return channels, clients
}

package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const keyPrefix = "slideboard:"

// envelope wraps a frame on the Redis bus. Frames are forwarded unparsed, so
// they travel as bytes rather than embedded JSON.
type envelope struct {
	Origin  string `json:"origin"`
	Sender  string `json:"sender"`
	Channel string `json:"channel"`
	Frame   []byte `json:"frame"`
}

func encodeEnvelope(e envelope) ([]byte, error) {
	return json.Marshal(e)
}

func decodeEnvelope(payload string) (envelope, error) {
	var e envelope
	if err := json.Unmarshal([]byte(payload), &e); err != nil {
		return envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	return e, nil
}

// RedisFanout lets several relay processes serve the same channels. Each
// process publishes what its own clients send and delivers what the others
// publish.
type RedisFanout struct {
	client   *redis.Client
	instance string
	hub      *Hub
	out      chan envelope
	log      *slog.Logger
}

func NewRedisFanout(url string, hub *Hub, logger *slog.Logger) (*RedisFanout, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	instance := uuid.NewString()
	return &RedisFanout{
		client:   redis.NewClient(opts),
		instance: instance,
		hub:      hub,
		out:      make(chan envelope, sendQueue),
		log:      logger.With("component", "fanout", "instance", instance),
	}, nil
}

// Publish queues a frame for the bus. A single publisher goroutine drains the
// queue so each sender's frames stay in order; overflow is dropped.
func (f *RedisFanout) Publish(channel, senderID string, frame []byte) {
	select {
	case f.out <- envelope{Origin: f.instance, Sender: senderID, Channel: channel, Frame: frame}:
	default:
		f.log.Debug("fan-out queue full, frame dropped", "channel", channel)
	}
}

// Run subscribes to every channel and publishes queued frames until ctx ends.
func (f *RedisFanout) Run(ctx context.Context) error {
	defer f.client.Close()

	if err := f.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	sub := f.client.PSubscribe(ctx, keyPrefix+"*")
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redis subscribe: %w", err)
	}
	f.log.Info("redis fan-out enabled")

	incoming := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-f.out:
			payload, err := encodeEnvelope(e)
			if err != nil {
				f.log.Warn("encode envelope", "error", err)
				continue
			}
			if err := f.client.Publish(ctx, keyPrefix+e.Channel, payload).Err(); err != nil {
				f.log.Warn("redis publish", "error", err)
			}
		case msg, ok := <-incoming:
			if !ok {
				return fmt.Errorf("redis subscription closed")
			}
			f.receive(msg.Channel, msg.Payload)
		}
	}
}

func (f *RedisFanout) receive(key, payload string) {
	e, err := decodeEnvelope(payload)
	if err != nil {
		f.log.Debug("dropping bus message", "error", err)
		return
	}
	if e.Origin == f.instance {
		return
	}
	channel := e.Channel
	if channel == "" {
		channel = strings.TrimPrefix(key, keyPrefix)
	}
	f.hub.Deliver(channel, e.Frame)
}

package relay

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockConn struct {
	id       string
	channel  string
	received [][]byte
	closed   bool
	mu       sync.Mutex
	sendErr  error
}

func (m *mockConn) ID() string      { return m.id }
func (m *mockConn) Channel() string { return m.channel }

func (m *mockConn) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sendErr != nil {
		return m.sendErr
	}
	m.received = append(m.received, data)
	return nil
}

func (m *mockConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockConn) getReceived() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.received
}

func (m *mockConn) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

type recordingPublisher struct {
	mu     sync.Mutex
	frames []string
}

func (p *recordingPublisher) Publish(channel, senderID string, frame []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.frames = append(p.frames, channel+"/"+senderID+"/"+string(frame))
}

func TestHub_Broadcast(t *testing.T) {
	tests := []struct {
		name         string
		setup        func(*Hub) ([]*mockConn, *mockConn)
		wantReceived map[string]int
	}{
		{
			name: "others on the channel receive",
			setup: func(h *Hub) ([]*mockConn, *mockConn) {
				sender := &mockConn{id: "tablet", channel: "draw_room"}
				d1 := &mockConn{id: "display1", channel: "draw_room"}
				d2 := &mockConn{id: "display2", channel: "draw_room"}
				h.Register(sender)
				h.Register(d1)
				h.Register(d2)
				return []*mockConn{sender, d1, d2}, sender
			},
			wantReceived: map[string]int{"tablet": 0, "display1": 1, "display2": 1},
		},
		{
			name: "other channels are isolated",
			setup: func(h *Hub) ([]*mockConn, *mockConn) {
				sender := &mockConn{id: "tablet", channel: "room_a"}
				other := &mockConn{id: "display", channel: "room_b"}
				h.Register(sender)
				h.Register(other)
				return []*mockConn{other}, sender
			},
			wantReceived: map[string]int{"display": 0},
		},
		{
			name: "alone on the channel",
			setup: func(h *Hub) ([]*mockConn, *mockConn) {
				sender := &mockConn{id: "tablet", channel: "draw_room"}
				h.Register(sender)
				return []*mockConn{sender}, sender
			},
			wantReceived: map[string]int{"tablet": 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHub(nil)
			conns, sender := tt.setup(h)
			h.Broadcast(sender, []byte(`{"type":"set_board","board":1}`))
			for _, c := range conns {
				assert.Len(t, c.getReceived(), tt.wantReceived[c.id], c.id)
			}
		})
	}
}

func TestHub_ForwardsVerbatimInOrder(t *testing.T) {
	h := NewHub(nil)
	sender := &mockConn{id: "tablet", channel: "c"}
	display := &mockConn{id: "display", channel: "c"}
	h.Register(sender)
	h.Register(display)

	frames := []string{`{"type":"draw","x":1}`, `not json at all`, `{"type":"draw","x":2}`}
	for _, f := range frames {
		h.Broadcast(sender, []byte(f))
	}

	got := display.getReceived()
	require.Len(t, got, len(frames))
	for i, f := range frames {
		assert.Equal(t, f, string(got[i]))
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	h := NewHub(nil)
	sender := &mockConn{id: "tablet", channel: "c"}
	slow := &mockConn{id: "slow", channel: "c", sendErr: errors.New("full")}
	h.Register(sender)
	h.Register(slow)

	h.Broadcast(sender, []byte("x"))

	assert.Eventually(t, func() bool {
		_, clients := h.Stats()
		return clients == 1 && slow.isClosed()
	}, time.Second, 5*time.Millisecond)
}

func TestHub_UnregisterRemovesEmptyChannel(t *testing.T) {
	h := NewHub(nil)
	a := &mockConn{id: "a", channel: "c1"}
	b := &mockConn{id: "b", channel: "c2"}
	h.Register(a)
	h.Register(b)

	channels, clients := h.Stats()
	assert.Equal(t, 2, channels)
	assert.Equal(t, 2, clients)

	h.Unregister(a)
	h.Unregister(a)
	channels, clients = h.Stats()
	assert.Equal(t, 1, channels)
	assert.Equal(t, 1, clients)
}

func TestHub_DeliverReachesEveryLocalMember(t *testing.T) {
	h := NewHub(nil)
	a := &mockConn{id: "a", channel: "c"}
	b := &mockConn{id: "b", channel: "c"}
	h.Register(a)
	h.Register(b)

	h.Deliver("c", []byte("remote"))
	h.Deliver("missing", []byte("nobody"))

	assert.Len(t, a.getReceived(), 1)
	assert.Len(t, b.getReceived(), 1)
}

func TestHub_PublishesLocalFrames(t *testing.T) {
	h := NewHub(nil)
	pub := &recordingPublisher{}
	h.SetPublisher(pub)
	sender := &mockConn{id: "tablet", channel: "c"}
	h.Register(sender)

	h.Broadcast(sender, []byte("f"))

	assert.Equal(t, []string{"c/tablet/f"}, pub.frames)
}

func TestHub_ConcurrentAccess(t *testing.T) {
	h := NewHub(nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := &mockConn{id: string(rune('a' + i%26)) + string(rune('0'+i/26)), channel: "c"}
			h.Register(c)
			h.Broadcast(c, []byte("x"))
			h.Unregister(c)
		}(i)
	}
	wg.Wait()

	channels, clients := h.Stats()
	assert.Equal(t, 0, channels)
	assert.Equal(t, 0, clients)
}

package net

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"SlideBoard/internal/state"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func waitState(t *testing.T, c *Client, want State) {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case s := <-c.States():
			if s == want {
				return
			}
		case <-timeout:
			t.Fatalf("timed out waiting for state %s", want)
		}
	}
}

func TestClient_DecodesAndDropsMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		frames := []string{
			`not json`,
			`{"type":"cursor"}`,
			`{"type":"draw","board":1,"x":5,"y":6,"drawing":true}`,
			`{"type":"set_board","board":99}`,
		}
		for _, f := range frames {
			conn.WriteMessage(websocket.TextMessage, []byte(f))
		}
		conn.ReadMessage()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := NewClient(wsURL(srv), nil)
	go c.Run(ctx)

	var got []any
	timeout := time.After(2 * time.Second)
	for len(got) < 2 {
		select {
		case m := <-c.Incoming():
			got = append(got, m)
		case <-timeout:
			t.Fatalf("timed out, got %v", got)
		}
	}
	assert.Equal(t, state.DrawSample{Board: 1, X: 5, Y: 6, Drawing: true}, got[0])
	assert.Equal(t, state.BoardSelect{Board: 9}, got[1])
}

func TestClient_SendWhileDisconnectedIsDropped(t *testing.T) {
	c := NewClient("ws://127.0.0.1:1/ws/draw/", nil)
	assert.False(t, c.SendBoard(1))
	assert.False(t, c.SendDraw(state.DrawSample{}))
}

func TestClient_SendsFrames(t *testing.T) {
	received := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			received <- string(data)
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := NewClient(wsURL(srv), nil)
	go c.Run(ctx)
	waitState(t, c, StateConnected)

	require.True(t, c.SendBoard(4))
	select {
	case f := <-received:
		assert.JSONEq(t, `{"type":"set_board","board":4}`, f)
	case <-time.After(2 * time.Second):
		t.Fatal("frame not received")
	}
}

func TestClient_Reconnects(t *testing.T) {
	var connects atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		if connects.Add(1) == 1 {
			conn.Close()
			return
		}
		defer conn.Close()
		conn.ReadMessage()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := NewClient(wsURL(srv), nil)
	c.delay = 20 * time.Millisecond
	go c.Run(ctx)

	waitState(t, c, StateConnected)
	waitState(t, c, StateDisconnected)
	waitState(t, c, StateConnected)
	assert.GreaterOrEqual(t, connects.Load(), int32(2))
}

func TestClient_RunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	c := NewClient("ws://127.0.0.1:1/ws/draw/", nil)
	c.delay = time.Hour

	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx) }()
	waitState(t, c, StateDisconnected)
	cancel()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", StateDisconnected.String())
	assert.Equal(t, "connecting", StateConnecting.String())
	assert.Equal(t, "connected", StateConnected.String())
	assert.Equal(t, "unknown", State(42).String())
}

package websocket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, userID uint) *Client {
	return &Client{
		Hub:    hub,
		UserID: userID,
		Send:   make(chan []byte, 8),
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, 1)
	hub.Register(client)

	require.Eventually(t, func() bool {
		return hub.SessionCount() == 1
	}, time.Second, 10*time.Millisecond)

	hub.Unregister(client)

	require.Eventually(t, func() bool {
		return hub.SessionCount() == 0
	}, time.Second, 10*time.Millisecond)

	// Send is closed exactly once on removal
	_, open := <-client.Send
	assert.False(t, open)
}

func TestHub_DoubleUnregisterKeepsOtherSessions(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// One admin with two open tabs
	first := newTestClient(hub, 7)
	second := newTestClient(hub, 7)
	hub.Register(first)
	hub.Register(second)

	require.Eventually(t, func() bool {
		return hub.SessionCount() == 2
	}, time.Second, 10*time.Millisecond)

	// The broadcast drop path and the session's own read pump can both
	// unregister the same client; the second request must be a no-op, not
	// a re-close of Send.
	hub.Unregister(first)
	hub.Unregister(first)

	require.Eventually(t, func() bool {
		return hub.SessionCount() == 1
	}, time.Second, 10*time.Millisecond)

	// The surviving session still receives events
	hub.Broadcast(Event{Type: "order_created", OrderID: 42})

	select {
	case msg := <-second.Send:
		assert.Contains(t, string(msg), "order_created")
	case <-time.After(time.Second):
		t.Fatal("surviving session did not receive the broadcast")
	}
}

func TestHub_BroadcastFanOut(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := newTestClient(hub, 1)
	second := newTestClient(hub, 2)
	hub.Register(first)
	hub.Register(second)

	require.Eventually(t, func() bool {
		return hub.SessionCount() == 2
	}, time.Second, 10*time.Millisecond)

	hub.Broadcast(Event{Type: "order_status_changed", OrderID: 9, Status: "confirmed"})

	for _, client := range []*Client{first, second} {
		select {
		case msg := <-client.Send:
			assert.Contains(t, string(msg), "order_status_changed")
		case <-time.After(time.Second):
			t.Fatal("session did not receive the broadcast")
		}
	}
}

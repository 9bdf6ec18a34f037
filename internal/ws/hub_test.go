package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	stop := make(chan struct{})
	go h.Run(stop)
	t.Cleanup(func() { close(stop) })
	return h
}

func attach(t *testing.T, h *Hub, roomID string) *Client {
	t.Helper()
	c := &Client{hub: h, roomID: roomID, send: make(chan []byte, sendBuffer)}
	h.register <- c
	waitFor(t, func() bool { return h.Subscribers(roomID) > 0 })
	return c
}

// waitFor polls cond until it holds or the deadline expires. The hub's
// channels are serviced by its own goroutine, so registrations and
// broadcasts land asynchronously.
func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met in time")
}

func recv(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case payload, ok := <-c.send:
		if !ok {
			t.Fatalf("send channel closed")
		}
		var ev Event
		if err := json.Unmarshal(payload, &ev); err != nil {
			t.Fatalf("unmarshal event: %v", err)
		}
		return ev
	case <-time.After(2 * time.Second):
		t.Fatalf("no event delivered")
	}
	return Event{}
}

func TestHub_DeliversToRoomSubscribersOnly(t *testing.T) {
	h := startHub(t)
	a := attach(t, h, "room-1")
	b := attach(t, h, "room-2")

	msg := &domain.ChatMessage{ID: "m1", Message: "hello", Role: "user", ChatRoomID: "room-1"}
	h.Publish("room-1", "message", msg)

	ev := recv(t, a)
	if ev.Kind != "message" || ev.RoomID != "room-1" {
		t.Fatalf("wrong event: %+v", ev)
	}
	if ev.Message == nil || ev.Message.ID != "m1" {
		t.Fatalf("message payload missing: %+v", ev)
	}

	select {
	case payload := <-b.send:
		t.Fatalf("room-2 client must not receive room-1 traffic: %s", payload)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	h := startHub(t)
	c := attach(t, h, "room-1")

	h.unregister <- c
	waitFor(t, func() bool { return h.Subscribers("room-1") == 0 })

	// The send channel closes on unregister.
	if _, ok := <-c.send; ok {
		t.Fatalf("send channel must be closed after unregister")
	}
}

func TestHub_EvictsSlowClients(t *testing.T) {
	h := startHub(t)
	c := &Client{hub: h, roomID: "room-1", send: make(chan []byte)} // no buffer, never drained
	h.register <- c
	waitFor(t, func() bool { return h.Subscribers("room-1") == 1 })

	h.Publish("room-1", "message", &domain.ChatMessage{ID: "m1"})
	waitFor(t, func() bool { return h.Subscribers("room-1") == 0 })
}

func TestHub_EventsWithoutMessagePayload(t *testing.T) {
	h := startHub(t)
	c := attach(t, h, "room-1")

	h.Publish("room-1", "escalated", nil)
	ev := recv(t, c)
	if ev.Kind != "escalated" || ev.Message != nil {
		t.Fatalf("state events carry no message: %+v", ev)
	}
}

// Package ws implements the realtime fan-out for chat rooms. The engine
// publishes every appended message here; connected widget and operator
// clients subscribed to the room receive it immediately. The hub carries
// no persistence concerns: missed events are recovered through the message
// history endpoints.
package ws

import (
	"encoding/json"
	"sync"

	"github.com/StevenSmith-code/corinna-ai/internal/domain"
)

// Event is one realtime payload delivered to room subscribers.
type Event struct {
	RoomID  string             `json:"room_id"`
	Kind    string             `json:"kind"` // "message" | "escalated" | "closed"
	Message *domain.ChatMessage `json:"message,omitempty"`
}

// Hub routes events to the clients of each room. It owns all room/client
// bookkeeping; clients interact with it only through the Register,
// Unregister, and Broadcast channels, so no locks leak outside Run.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan Event

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

// NewHub constructs an idle hub; call Run on its own goroutine.
func NewHub() *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan Event, 64),
		rooms:      make(map[string]map[*Client]struct{}),
	}
}

// Run processes registrations and broadcasts until stop is closed.
// Slow clients (full send buffer) are evicted rather than blocking the
// room's other subscribers.
func (h *Hub) Run(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			h.mu.Lock()
			for _, clients := range h.rooms {
				for c := range clients {
					close(c.send)
				}
			}
			h.rooms = make(map[string]map[*Client]struct{})
			h.mu.Unlock()
			return

		case c := <-h.register:
			h.mu.Lock()
			clients, ok := h.rooms[c.roomID]
			if !ok {
				clients = make(map[*Client]struct{})
				h.rooms[c.roomID] = clients
			}
			clients[c] = struct{}{}
			h.mu.Unlock()
			incConnections()

		case c := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.rooms[c.roomID]; ok {
				if _, present := clients[c]; present {
					delete(clients, c)
					close(c.send)
					decConnections()
				}
				if len(clients) == 0 {
					delete(h.rooms, c.roomID)
				}
			}
			h.mu.Unlock()

		case ev := <-h.broadcast:
			payload, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			h.mu.Lock()
			clients := h.rooms[ev.RoomID]
			delivered := 0
			for c := range clients {
				select {
				case c.send <- payload:
					delivered++
				default:
					delete(clients, c)
					close(c.send)
					decConnections()
				}
			}
			if len(clients) == 0 {
				delete(h.rooms, ev.RoomID)
			}
			h.mu.Unlock()
			if delivered > 0 {
				addDelivered(delivered)
			}
		}
	}
}

// Publish enqueues an event for the room's subscribers. It never blocks
// the caller: when the hub's queue is full the event is dropped (clients
// resynchronize from message history).
func (h *Hub) Publish(roomID, kind string, msg *domain.ChatMessage) {
	select {
	case h.broadcast <- Event{RoomID: roomID, Kind: kind, Message: msg}:
	default:
	}
}

// Subscribers reports how many clients are attached to a room (tests and
// metrics only).
func (h *Hub) Subscribers(roomID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

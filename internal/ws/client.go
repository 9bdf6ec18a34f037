package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin policy is enforced by the CORS layer on the HTTP routes; the
	// widget connects from arbitrary customer storefronts.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Client is one websocket subscriber bound to a single room.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	roomID string
	send   chan []byte
}

// ServeRoom upgrades the request to a websocket and attaches the client to
// roomID until either side disconnects.
func ServeRoom(h *Hub, w http.ResponseWriter, r *http.Request, roomID string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	c := &Client{hub: h, conn: conn, roomID: roomID, send: make(chan []byte, sendBuffer)}
	h.register <- c

	go c.writeLoop()
	go c.readLoop()
	return nil
}

// writeLoop pushes hub events to the peer and keeps the connection alive
// with pings. It owns all writes on the connection.
func (c *Client) writeLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop drains the peer (subscriptions are read-only; messages are
// posted over HTTP) and unregisters on disconnect.
func (c *Client) readLoop() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("room_id", c.roomID).Msg("ws read")
			}
			return
		}
	}
}

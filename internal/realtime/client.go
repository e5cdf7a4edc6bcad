package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wayfarerhq/wayfarer/internal/auth"
)

// Client is one admitted transport session. The identity is bound once at
// handshake time and never re-verified on individual events. The connection
// id distinguishes concurrent sessions of the same user in logs.
//
// sendMu serializes enqueue against teardown: a broadcaster working from a
// membership snapshot may still hold a reference to a client whose close has
// already started, so the channel close and every send must agree on the
// closed flag under the same lock.
type Client struct {
	id       string
	hub      *Hub
	conn     *websocket.Conn
	identity auth.Identity

	sendMu sync.Mutex
	send   chan Message
	closed bool

	once sync.Once
}

func newClient(hub *Hub, conn *websocket.Conn, identity auth.Identity) *Client {
	return &Client{
		id:       uuid.NewString(),
		hub:      hub,
		conn:     conn,
		identity: identity,
		send:     make(chan Message, sendBufferSize),
	}
}

// Identity returns the read-only identity snapshot bound at handshake.
func (c *Client) Identity() auth.Identity {
	return c.identity
}

// enqueue delivers a message to the client's outbound buffer. Messages for a
// client whose teardown has begun are dropped; a client that cannot keep up
// is disconnected rather than allowed to block the fanout.
func (c *Client) enqueue(msg Message) bool {
	c.sendMu.Lock()
	if c.closed {
		c.sendMu.Unlock()
		return false
	}

	select {
	case c.send <- msg:
		c.sendMu.Unlock()
		return true
	default:
		c.sendMu.Unlock()
		c.hub.log.Warn("dropping backpressured client",
			zap.String("conn_id", c.id),
			zap.String("user_id", c.identity.ID))
		go c.close()
		return false
	}
}

// close tears the connection down exactly once: room membership and presence
// are reconciled, the outbound channel is closed, and the socket released.
func (c *Client) close() {
	c.once.Do(func() {
		c.hub.release(c)

		c.sendMu.Lock()
		c.closed = true
		close(c.send)
		c.sendMu.Unlock()

		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

func (c *Client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Debug("unexpected close",
					zap.String("user_id", c.identity.ID), zap.Error(err))
			}
			break
		}

		if len(payload) == 0 {
			continue
		}

		c.hub.router.Dispatch(c, payload)
	}
}

func (c *Client) writePump() {
	defer c.close()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

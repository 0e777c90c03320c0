package websocket

import (
	"context"
	"net/http"
	"time"

	"disputetrack/models"
	"disputetrack/utils"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 1024

	sendBufferSize = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one websocket connection. Clients are read-only consumers of
// the live feed; inbound frames beyond pings are discarded.
type Client struct {
	conn *websocket.Conn

	userID       string
	connectionID string
	connectedAt  time.Time

	send chan models.WSMessage

	hub *Hub

	ctx    context.Context
	cancel context.CancelFunc
}

func NewClient(conn *websocket.Conn, hub *Hub, userID string) *Client {
	ctx, cancel := context.WithCancel(context.Background())

	return &Client{
		conn:         conn,
		hub:          hub,
		userID:       userID,
		connectionID: utils.GenerateUUID(),
		connectedAt:  time.Now(),
		send:         make(chan models.WSMessage, sendBufferSize),
		ctx:          ctx,
		cancel:       cancel,
	}
}

func (c *Client) ReadPump() {
	defer c.cleanup()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
			if _, _, err := c.conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					logrus.Errorf("WebSocket error for user %s: %v", c.userID, err)
				}
				return
			}
		}
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			return

		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				logrus.Errorf("Write error for user %s: %v", c.userID, err)
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

// SendMessage queues a message for the client. Slow consumers are
// disconnected rather than blocking the hub.
func (c *Client) SendMessage(message models.WSMessage) {
	select {
	case c.send <- message:
	default:
		logrus.Warnf("Send buffer full for user %s, disconnecting", c.userID)
		c.cancel()
	}
}

func (c *Client) cleanup() {
	c.cancel()
	c.hub.unregister <- c
	c.conn.Close()
}

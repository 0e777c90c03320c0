package websocket

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"disputetrack/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Hub fans live notifications and tracking events out to connected
// clients. It satisfies interfaces.NotificationBroadcaster.
type Hub struct {
	clients     map[*Client]bool
	userClients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan models.WSMessage
	sendToUser chan userMessage

	stats HubStats

	mutex sync.RWMutex

	ctx    context.Context
	cancel context.CancelFunc
}

type userMessage struct {
	userID  string
	message models.WSMessage
}

type HubStats struct {
	TotalConnections  int64     `json:"totalConnections"`
	ActiveConnections int       `json:"activeConnections"`
	MessagesSent      int64     `json:"messagesSent"`
	StartTime         time.Time `json:"startTime"`
}

func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())

	return &Hub{
		clients:     make(map[*Client]bool),
		userClients: make(map[string][]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan models.WSMessage, 64),
		sendToUser:  make(chan userMessage, 64),
		stats: HubStats{
			StartTime: time.Now(),
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

func (h *Hub) Run() {
	logrus.Info("WebSocket hub starting...")

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToAll(message)

		case um := <-h.sendToUser:
			h.sendMessageToUser(um)

		case <-h.ctx.Done():
			logrus.Info("WebSocket hub shutting down...")
			return
		}
	}
}

func (h *Hub) Shutdown() {
	h.cancel()
}

// HandleConnection upgrades an HTTP request identified by a userId query
// parameter into a live feed connection.
func (h *Hub) HandleConnection(c *gin.Context) {
	userID := c.Query("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "userId query parameter is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logrus.Errorf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(conn, h, userID)
	h.register <- client

	go client.WritePump()
	go client.ReadPump()
}

// SendNotificationToUser pushes a notification to the user's connections.
func (h *Hub) SendNotificationToUser(userID string, notification models.Notification) error {
	if !h.IsUserOnline(userID) {
		return fmt.Errorf("user %s is not connected", userID)
	}

	h.sendToUser <- userMessage{
		userID: userID,
		message: models.WSMessage{
			Type:      models.WSTypeNotification,
			Data:      notification,
			Timestamp: time.Now(),
		},
	}
	return nil
}

// BroadcastTrackingEvent pushes a tracking event to every connection.
func (h *Hub) BroadcastTrackingEvent(event models.TrackingEvent) {
	select {
	case h.broadcast <- models.WSMessage{
		Type:      models.WSTypeTrackingEvent,
		Data:      event,
		Timestamp: time.Now(),
	}:
	default:
		logrus.Warn("Broadcast queue full, dropping tracking event push")
	}
}

func (h *Hub) IsUserOnline(userID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.userClients[userID]) > 0
}

func (h *Hub) GetStats() HubStats {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.stats
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	h.clients[client] = true
	h.userClients[client.userID] = append(h.userClients[client.userID], client)
	h.stats.ActiveConnections++
	h.stats.TotalConnections++

	client.SendMessage(models.WSMessage{
		Type:      models.WSTypeConnected,
		Data:      gin.H{"connectionId": client.connectionID},
		Timestamp: time.Now(),
	})

	logrus.Infof("Client registered: %s (Total: %d)", client.userID, h.stats.ActiveConnections)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}

	delete(h.clients, client)
	h.stats.ActiveConnections--

	conns := h.userClients[client.userID]
	for i, c := range conns {
		if c == client {
			h.userClients[client.userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(h.userClients[client.userID]) == 0 {
		delete(h.userClients, client.userID)
	}

	close(client.send)

	logrus.Infof("Client unregistered: %s (Total: %d)", client.userID, h.stats.ActiveConnections)
}

func (h *Hub) broadcastToAll(message models.WSMessage) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for client := range h.clients {
		client.SendMessage(message)
		h.stats.MessagesSent++
	}
}

func (h *Hub) sendMessageToUser(um userMessage) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	for _, client := range h.userClients[um.userID] {
		client.SendMessage(um.message)
		h.stats.MessagesSent++
	}
}

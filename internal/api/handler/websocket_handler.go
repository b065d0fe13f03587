package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"parking_manager/internal/domain"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// AvailabilityHub fans availability events out to connected websocket
// clients. It implements service.AvailabilityNotifier.
type AvailabilityHub struct {
	clients    map[*websocket.Conn]bool
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	broadcast  chan []byte
	mutex      sync.RWMutex
}

func NewAvailabilityHub() *AvailabilityHub {
	return &AvailabilityHub{
		clients:    make(map[*websocket.Conn]bool),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		broadcast:  make(chan []byte, 64),
	}
}

// Start runs the hub loop. Call it in its own goroutine.
func (hub *AvailabilityHub) Start() {
	for {
		select {
		case client := <-hub.register:
			hub.mutex.Lock()
			hub.clients[client] = true
			hub.mutex.Unlock()
			log.Printf("websocket client connected, total: %d", len(hub.clients))

		case client := <-hub.unregister:
			hub.mutex.Lock()
			if _, ok := hub.clients[client]; ok {
				delete(hub.clients, client)
				client.Close()
			}
			hub.mutex.Unlock()
			log.Printf("websocket client disconnected, total: %d", len(hub.clients))

		case message := <-hub.broadcast:
			hub.mutex.Lock()
			for client := range hub.clients {
				if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
					log.Printf("websocket write failed: %v", err)
					client.Close()
					delete(hub.clients, client)
				}
			}
			hub.mutex.Unlock()
		}
	}
}

// NotifyAvailability pushes an event to all subscribers. Drops the
// message rather than block when the channel is full.
func (hub *AvailabilityHub) NotifyAvailability(event domain.AvailabilityEvent) {
	message, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshaling availability event: %v", err)
		return
	}

	select {
	case hub.broadcast <- message:
	default:
		log.Println("availability broadcast channel full, dropping message")
	}
}

type WebSocketHandler struct {
	hub *AvailabilityHub
}

func NewWebSocketHandler(hub *AvailabilityHub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// GET /ws
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	h.hub.register <- conn

	go func() {
		defer func() {
			h.hub.unregister <- conn
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Printf("websocket read error: %v", err)
				}
				break
			}
		}
	}()
}

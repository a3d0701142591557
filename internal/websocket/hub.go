package websocket

import (
	"encoding/json"
	"sync"

	"github.com/petstoryclub/petstory-backend/internal/app/model"
	"github.com/petstoryclub/petstory-backend/pkg/logger"
)

// Event is one message pushed to the admin order feed.
type Event struct {
	Type        string            `json:"type"` // order_created, order_status_changed
	OrderID     uint              `json:"order_id"`
	Status      model.OrderStatus `json:"status"`
	TotalAmount float64           `json:"total_amount,omitempty"`
	ItemCount   int               `json:"item_count,omitempty"`
}

// Client is one connected admin console session. A single admin may hold
// several sessions (multiple tabs or devices).
type Client struct {
	Hub    *Hub
	Conn   *Conn
	UserID uint
	Send   chan []byte
}

// Hub fans order events out to every connected admin session. Only
// admin-authenticated connections are ever registered.
type Hub struct {
	clients    map[uint][]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint][]*Client),
		register:   make(chan *Client, 256),
		unregister: make(chan *Client, 256),
		broadcast:  make(chan []byte, 1024),
	}
}

// Run processes registration and broadcast events until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = append(h.clients[client.UserID], client)
			h.mu.Unlock()
			logger.Info("Order feed client registered", map[string]interface{}{
				"user_id":        client.UserID,
				"total_sessions": len(h.clients[client.UserID]),
			})

		case client := <-h.unregister:
			h.mu.Lock()
			removed := false
			if clientList, ok := h.clients[client.UserID]; ok {
				newList := make([]*Client, 0, len(clientList))
				for _, c := range clientList {
					if c != client {
						newList = append(newList, c)
					}
				}
				removed = len(newList) != len(clientList)

				if len(newList) == 0 {
					delete(h.clients, client.UserID)
				} else {
					h.clients[client.UserID] = newList
				}
			}
			// A session can be unregistered twice: once by the broadcast
			// drop path and once by its read pump on connection close.
			// Only the removal that actually took the client out of the
			// list may close Send.
			if removed {
				close(client.Send)
				logger.Info("Order feed client unregistered", map[string]interface{}{
					"user_id": client.UserID,
				})
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			h.mu.RLock()
			for userID, clientList := range h.clients {
				for _, client := range clientList {
					select {
					case client.Send <- message:
					default:
						// Send buffer full - drop the session asynchronously
						go h.Unregister(client)
						logger.Warn("Client send buffer full, disconnecting", map[string]interface{}{
							"user_id": userID,
						})
					}
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a client to the feed.
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client from the feed.
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Broadcast pushes an event to every session. The feed is advisory; when
// the broadcast buffer is full the event is dropped rather than blocking
// checkout.
func (h *Hub) Broadcast(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal order feed event", err, nil)
		return
	}

	select {
	case h.broadcast <- data:
	default:
		logger.Warn("Order feed channel full, event dropped", map[string]interface{}{
			"type":     event.Type,
			"order_id": event.OrderID,
		})
	}
}

// NotifyOrderCreated implements the order service notifier.
func (h *Hub) NotifyOrderCreated(order *model.Order) {
	h.Broadcast(Event{
		Type:        "order_created",
		OrderID:     order.ID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		ItemCount:   len(order.OrderItems),
	})
}

// NotifyOrderStatusChanged implements the order service notifier.
func (h *Hub) NotifyOrderStatusChanged(orderID uint, status model.OrderStatus) {
	h.Broadcast(Event{
		Type:    "order_status_changed",
		OrderID: orderID,
		Status:  status,
	})
}

// SessionCount returns the number of open sessions, for the health endpoint.
func (h *Hub) SessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	count := 0
	for _, clientList := range h.clients {
		count += len(clientList)
	}
	return count
}

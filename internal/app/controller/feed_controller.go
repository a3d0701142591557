package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/petstoryclub/petstory-backend/internal/middleware"
	"github.com/petstoryclub/petstory-backend/internal/websocket"
)

// FeedController owns the admin live order feed. Authentication and the
// admin check run in middleware before the upgrade.
type FeedController struct {
	hub      *websocket.Hub
	upgrader gorilla.Upgrader
}

func NewFeedController(hub *websocket.Hub, allowedOrigins []string) *FeedController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}

	return &FeedController{
		hub: hub,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				return allowed["*"] || allowed[origin]
			},
		},
	}
}

// StreamOrders upgrades the connection and attaches it to the hub
// GET /api/v1/admin/orders/feed
func (ctrl *FeedController) StreamOrders(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("Failed to upgrade order feed connection", err, map[string]interface{}{
			"user_id": userID,
		})
		return
	}

	client := &websocket.Client{
		Hub:    ctrl.hub,
		Conn:   &websocket.Conn{Conn: conn},
		UserID: userID,
		Send:   make(chan []byte, 256),
	}

	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

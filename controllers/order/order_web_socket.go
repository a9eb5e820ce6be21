package orderControllers

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/events"
)

// OrderWebSocketHandler streams order events to connected admin dashboards.
func OrderWebSocketHandler(hub *events.Hub) gin.HandlerFunc {
	return hub.ServeWS
}

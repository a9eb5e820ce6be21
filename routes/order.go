package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/junaidrashid-git/beauty-api/controllers/order"
)

// SetupOrderRoutes registers the admin order endpoints on an already-protected group.
func SetupOrderRoutes(adminGroup *gin.RouterGroup, d Deps) {
	orders := adminGroup.Group("/orders")
	{
		orders.GET("", orderControllers.GetAllOrdersHandler(d.Orders))
		orders.GET("/integrity", orderControllers.OrderIntegrityHandler(d.Orders))
		orders.GET("/:orderID", orderControllers.GetOrderHandler(d.Orders))
		orders.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(d.Orders))
		orders.POST("/:orderID/advance", orderControllers.AdvanceOrderHandler(d.Orders))
		orders.POST("/:orderID/cancel", orderControllers.CancelOrderHandler(d.Orders))
		orders.PUT("/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(d.Orders))
		orders.PUT("/:orderID/tracking", orderControllers.UpdateTrackingHandler(d.Orders))
		orders.DELETE("/:orderID", orderControllers.DeleteOrderHandler(d.Orders))
	}
	adminGroup.GET("/stats", orderControllers.OrderStatsHandler(d.Orders))

	// websocket endpoint for real-time order updates
	if d.Hub != nil {
		adminGroup.GET("/ws/orders", orderControllers.OrderWebSocketHandler(d.Hub))
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	telrControllers "github.com/junaidrashid-git/beauty-api/controllers/telr"
	"github.com/junaidrashid-git/beauty-api/middleware"
)

func SetupTelrRoutes(r *gin.Engine, d Deps) {
	payment := r.Group("/payment")
	{
		// Webhook endpoint: middleware handles sandbox/prod verification
		payment.POST("/webhook",
			middleware.TelrWebhookAuth(d.TelrWebhookSecret, d.TelrMode),
			telrControllers.TelrWebhookHandler(d.Checkout),
		)
	}
}

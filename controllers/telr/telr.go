package telrControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/middleware"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/payment"
	"github.com/junaidrashid-git/beauty-api/services"
	"github.com/rs/zerolog/log"
)

type PaymentRequest struct {
	Name            string                 `json:"name"`
	Email           string                 `json:"email"`
	Phone           string                 `json:"phone"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
}

// PaymentRequestHandler opens a hosted payment page for the caller's cart. The amount is the
// server-side cart total; the client never sends it.
func PaymentRequestHandler(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input PaymentRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "shippingAddress is required")
			return
		}

		start, err := checkout.StartPayment(c.Request.Context(), middleware.UserID(c), payment.Customer{
			Name:  input.Name,
			Email: input.Email,
			Phone: input.Phone,
		}, input.ShippingAddress)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"payment_url": start.Session.URL,
			"order_ref":   start.Session.Ref,
			"cart_id":     start.CartID,
			"amount":      start.Amount,
		})
	}
}

// TelrWebhookHandler receives the form-encoded transaction advice. Any error after an approved
// payment answers 5xx so the gateway retries.
func TelrWebhookHandler(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseForm(); err != nil {
			respond.BadRequest(c, "failed to parse form")
			return
		}
		advice, err := payment.ParseWebhook(c.Request.PostForm)
		if err != nil {
			respond.Error(c, err)
			return
		}

		order, err := checkout.HandlePaymentWebhook(c.Request.Context(), advice)
		if err != nil {
			log.Ctx(c.Request.Context()).Error().Err(err).Str("cart_id", advice.CartID).Str("payment_ref", advice.Ref).
				Msg("failed to place order for payment")
			respond.Error(c, err)
			return
		}
		if order == nil {
			c.JSON(http.StatusOK, gin.H{"message": "Payment not successful"})
			return
		}
		if order.Status == models.OrderStatusCancelled {
			c.JSON(http.StatusOK, gin.H{"message": "Payment recorded, order cancelled for refund", "orderNumber": order.OrderNumber, "status": order.Status})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order placed successfully", "orderNumber": order.OrderNumber, "status": order.Status})
	}
}

package orderControllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/middleware"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/services"
	"github.com/rs/zerolog/log"
)

// -------- Request Structs --------

type PlaceOrderRequest struct {
	CustomerName    string                 `json:"customerName"`
	CustomerEmail   string                 `json:"customerEmail"`
	CustomerPhone   string                 `json:"customerPhone"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress" binding:"required"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ShippingMethod  string                 `json:"shippingMethod"`
}

// UpdateOrderStatusRequest takes an action ("advance", "cancel") or the target status.
type UpdateOrderStatusRequest struct {
	Action string `json:"action"`
	Status string `json:"status"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

type UpdateTrackingRequest struct {
	TrackingNumber string `json:"trackingNumber" binding:"required"`
}

type adminOrder struct {
	*models.Order
	Actions []models.OrderAction `json:"actions"`
}

// -------- User Handlers --------

// PlaceOrderHandler places a cash-on-delivery order from the caller's cart. Card orders are
// placed by the payment webhook once the gateway approves them.
func PlaceOrderHandler(checkout *services.CheckoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "shippingAddress is required")
			return
		}
		method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
		if method != "" && method != services.PaymentCOD {
			respond.BadRequest(c, "card payments start at /user/checkout/payment")
			return
		}

		order, err := checkout.PlaceOrder(c.Request.Context(), services.CheckoutRequest{
			UserID:          middleware.UserID(c),
			CustomerName:    req.CustomerName,
			CustomerEmail:   req.CustomerEmail,
			CustomerPhone:   req.CustomerPhone,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   services.PaymentCOD,
			ShippingMethod:  req.ShippingMethod,
		})
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GET /user/orders
func GetUserOrdersHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := tracker.ListForUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /user/orders/:orderID
func GetUserOrderHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := tracker.GetForUser(c.Request.Context(), middleware.UserID(c), c.Param("orderID"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// -------- Admin Handlers --------

// GET /admin/orders?q=&status=&page=&limit=
func GetAllOrdersHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.OrderFilter{Query: c.Query("q"), Page: respond.PageParams(c)}
		if raw := c.Query("status"); raw != "" && raw != "all" {
			status, err := models.ParseOrderStatus(raw)
			if err != nil {
				respond.Error(c, err)
				return
			}
			filter.Status = status
		}
		result, err := tracker.List(c.Request.Context(), filter)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func GetOrderHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := tracker.Get(c.Request.Context(), c.Param("orderID"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, adminOrder{Order: order, Actions: order.Status.Actions()})
	}
}

func UpdateOrderStatusHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil || (req.Action == "") == (req.Status == "") {
			respond.BadRequest(c, "exactly one of action or status is required")
			return
		}

		ctx, id := c.Request.Context(), c.Param("orderID")
		action := models.OrderAction(strings.ToLower(strings.TrimSpace(req.Action)))
		if req.Status != "" {
			target, err := models.ParseOrderStatus(req.Status)
			if err != nil {
				respond.Error(c, err)
				return
			}
			current, err := tracker.Get(ctx, id)
			if err != nil {
				respond.Error(c, err)
				return
			}
			next, _ := current.Status.Next()
			switch target {
			case models.OrderStatusCancelled:
				action = models.ActionCancel
			case next:
				action = models.ActionAdvance
			default:
				respond.Error(c, fmt.Errorf("%w: %s to %s", services.ErrInvalidTransition, current.Status, target))
				return
			}
		}

		order, err := tracker.Apply(ctx, id, action)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, adminOrder{Order: order, Actions: order.Status.Actions()})
	}
}

func AdvanceOrderHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return actionHandler(tracker, models.ActionAdvance)
}

func CancelOrderHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return actionHandler(tracker, models.ActionCancel)
}

func actionHandler(tracker *services.OrderTracker, action models.OrderAction) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := tracker.Apply(c.Request.Context(), c.Param("orderID"), action)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, adminOrder{Order: order, Actions: order.Status.Actions()})
	}
}

func UpdatePaymentStatusHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdatePaymentStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "paymentStatus is required")
			return
		}
		status, err := models.ParsePaymentStatus(req.PaymentStatus)
		if err != nil {
			respond.Error(c, err)
			return
		}
		order, err := tracker.SetPaymentStatus(c.Request.Context(), c.Param("orderID"), status)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func UpdateTrackingHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateTrackingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "trackingNumber is required")
			return
		}
		order, err := tracker.SetTracking(c.Request.Context(), c.Param("orderID"), req.TrackingNumber)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func DeleteOrderHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("orderID")
		if err := tracker.Delete(c.Request.Context(), id); err != nil {
			respond.Error(c, err)
			return
		}
		log.Ctx(c.Request.Context()).Info().Str("order_id", id).Msg("order deleted")
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}

// GET /admin/orders/integrity lists orders whose total disagrees with their items.
func OrderIntegrityHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		mismatches, err := tracker.AuditTotals(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mismatches": mismatches, "count": len(mismatches)})
	}
}

// GET /admin/stats
func OrderStatsHandler(tracker *services.OrderTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := tracker.Stats(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	bookingControllers "github.com/junaidrashid-git/beauty-api/controllers/booking"
	cartControllers "github.com/junaidrashid-git/beauty-api/controllers/cart"
	orderControllers "github.com/junaidrashid-git/beauty-api/controllers/order"
	telrControllers "github.com/junaidrashid-git/beauty-api/controllers/telr"
	userControllers "github.com/junaidrashid-git/beauty-api/controllers/user"
	"github.com/junaidrashid-git/beauty-api/middleware"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, d Deps) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken(d.Tokens))
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("", userControllers.GetUser(d.Users))
		userGroup.PUT("", userControllers.UpdateUser(d.Users))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("", cartControllers.GetUserCart(d.Cart))
			cartGroup.POST("", cartControllers.AddCartItem(d.Cart))
			cartGroup.PATCH("/:itemId", cartControllers.UpdateCartItem(d.Cart))
			cartGroup.DELETE("/:itemId", cartControllers.RemoveCartItem(d.Cart))
			cartGroup.DELETE("", cartControllers.ClearCart(d.Cart))
		}

		// ──────────────── Favorites ────────────────
		favGroup := userGroup.Group("/favorites")
		{
			favGroup.GET("", cartControllers.GetFavorites(d.Favorites))
			favGroup.POST("", cartControllers.AddFavorite(d.Favorites))
			favGroup.DELETE("/:id", cartControllers.RemoveFavorite(d.Favorites))
		}

		// ──────────────── Checkout + Orders ────────────────
		userGroup.POST("/checkout", orderControllers.PlaceOrderHandler(d.Checkout))
		userGroup.POST("/checkout/payment", telrControllers.PaymentRequestHandler(d.Checkout))
		userGroup.GET("/orders", orderControllers.GetUserOrdersHandler(d.Orders))
		userGroup.GET("/orders/:orderID", orderControllers.GetUserOrderHandler(d.Orders))

		// ──────────────── Bookings ────────────────
		bookingGroup := userGroup.Group("/bookings")
		{
			bookingGroup.GET("", bookingControllers.GetUserBookings(d.Bookings))
			bookingGroup.POST("", bookingControllers.CreateBooking(d.Bookings))
			bookingGroup.POST("/:id/cancel", bookingControllers.CancelUserBooking(d.Bookings))
		}
	}
}

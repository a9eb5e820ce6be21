package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/auth"
	"github.com/junaidrashid-git/beauty-api/events"
	"github.com/junaidrashid-git/beauty-api/services"
	"github.com/junaidrashid-git/beauty-api/uploads"
)

// Deps is everything the handlers need. Hub and Provider may be nil; their routes are then
// not registered.
type Deps struct {
	Tokens   *auth.Tokens
	Provider auth.Provider

	Catalog   *services.CatalogService
	Cart      *services.CartService
	Favorites *services.FavoriteService
	Checkout  *services.CheckoutService
	Orders    *services.OrderTracker
	Bookings  *services.BookingService
	Users     *services.UserService

	Uploads *uploads.Store
	Hub     *events.Hub

	TelrWebhookSecret string
	TelrMode          string
}

// SetupRoutes is the single entry-point that wires up every route group.
func SetupRoutes(r *gin.Engine, d Deps) {
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// Public auth + catalog
	SetupAuthRoutes(r, d)
	SetupCatalogRoutes(r, d)

	// User routes (JWT-protected)
	SetupUserRoutes(r, d)

	// Admin routes (JWT + admin role)
	SetupAdminRoutes(r, d)

	// Telr payment webhook
	SetupTelrRoutes(r, d)

	if d.Uploads != nil {
		r.Static("/uploads", d.Uploads.Dir())
	}
}

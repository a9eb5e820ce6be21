package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/auth"
	adminController "github.com/junaidrashid-git/beauty-api/controllers/admin"
	bookingControllers "github.com/junaidrashid-git/beauty-api/controllers/booking"
	productcontroller "github.com/junaidrashid-git/beauty-api/controllers/product"
	userControllers "github.com/junaidrashid-git/beauty-api/controllers/user"
	"github.com/junaidrashid-git/beauty-api/middleware"
	"github.com/junaidrashid-git/beauty-api/models"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires a JWT with role "admin".
func SetupAdminRoutes(r *gin.Engine, d Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken(d.Tokens), middleware.RequireRole(models.RoleAdmin))
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsers(d.Users))
		if d.Provider != nil {
			adminGroup.POST("/users/:uid/role", auth.SetRoleHandler(d.Provider, d.Users))
		}

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", productcontroller.GetProducts(d.Catalog))
			productAdmin.POST("", productcontroller.CreateProduct(d.Catalog))
			productAdmin.PUT("/:id", productcontroller.UpdateProduct(d.Catalog))
			productAdmin.DELETE("/:id", productcontroller.DeleteProduct(d.Catalog))
			productAdmin.POST("/import-excel", productcontroller.ImportProductsFromExcel(d.Catalog))
			productAdmin.GET("/export-excel", productcontroller.ExportProductsToExcel(d.Catalog))
		}

		// ─────────── Orders ───────────
		SetupOrderRoutes(adminGroup, d)

		// ─────────── Bookings ───────────
		bookingAdmin := adminGroup.Group("/bookings")
		{
			bookingAdmin.GET("", bookingControllers.GetAllBookings(d.Bookings))
			bookingAdmin.PUT("/:id/status", bookingControllers.UpdateBookingStatus(d.Bookings))
			bookingAdmin.DELETE("/:id", bookingControllers.DeleteBooking(d.Bookings))
		}

		// ─────────── Uploads ───────────
		if d.Uploads != nil {
			adminGroup.POST("/uploads", adminController.UploadImage(d.Uploads))
			adminGroup.DELETE("/uploads/:name", adminController.DeleteImage(d.Uploads))
		}
	}
}

package bookingControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/middleware"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/services"
)

// POST /user/bookings
func CreateBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.BookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "Invalid booking payload")
			return
		}
		booking, err := bookings.Create(c.Request.Context(), middleware.UserID(c), req)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusCreated, booking)
	}
}

// GET /user/bookings
func GetUserBookings(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := bookings.ListForUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// POST /user/bookings/:id/cancel
func CancelUserBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		booking, err := bookings.CancelForUser(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, booking)
	}
}

// GET /admin/bookings
func GetAllBookings(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := bookings.ListAll(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// PUT /admin/bookings/:id/status
func UpdateBookingStatus(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "status is required")
			return
		}
		status, err := models.ParseBookingStatus(req.Status)
		if err != nil {
			respond.Error(c, err)
			return
		}
		booking, err := bookings.SetStatus(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, booking)
	}
}

// DELETE /admin/bookings/:id
func DeleteBooking(bookings *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := bookings.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Booking deleted successfully"})
	}
}

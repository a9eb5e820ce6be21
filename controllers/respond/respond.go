// Package respond maps domain errors onto HTTP responses with the {"error": "..."} body
// every handler uses.
package respond

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/payment"
	"github.com/junaidrashid-git/beauty-api/services"
	"github.com/junaidrashid-git/beauty-api/store"
	"github.com/junaidrashid-git/beauty-api/uploads"
	"github.com/rs/zerolog/log"
)

// Status picks the HTTP status for err.
func Status(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, payment.ErrMalformedWebhook),
		errors.Is(err, models.ErrInvalidOrderStatus),
		errors.Is(err, models.ErrInvalidPaymentStatus),
		errors.Is(err, models.ErrInvalidBookingStatus),
		errors.Is(err, models.ErrInvalidProductStatus),
		errors.Is(err, uploads.ErrUnsupportedType):
		return http.StatusBadRequest
	case errors.Is(err, uploads.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, uploads.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, services.ErrBelowMinimum):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrPaymentRejected):
		return http.StatusPaymentRequired
	case errors.Is(err, payment.ErrGateway):
		return http.StatusBadGateway
	case errors.Is(err, payment.ErrNotConfigured):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Error writes err with its mapped status. Server errors are logged and their detail hidden.
func Error(c *gin.Context, err error) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).Str("path", c.FullPath()).Int("status", status).
			Msg("request failed")
		if status == http.StatusInternalServerError {
			c.AbortWithStatusJSON(status, gin.H{"error": "Internal Server Error"})
			return
		}
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func BadRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}

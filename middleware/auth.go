package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/auth"
	"github.com/rs/zerolog"
)

const (
	ctxUserID = "user_id"
	ctxEmail  = "email"
	ctxRole   = "role"
)

// ValidateToken accepts "Bearer <jwt>" or the bare token and puts the caller's identity in the
// gin context. Browsers cannot set headers on a websocket handshake, so upgrade requests may pass
// the token as ?token= instead.
func ValidateToken(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" && strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			header = c.Query("token")
		}
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is missing"})
			return
		}
		tokenString := header
		if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
			tokenString = strings.TrimSpace(header[7:])
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxEmail, claims.Email)
		c.Set(ctxRole, claims.Role)

		logger := zerolog.Ctx(c.Request.Context()).With().Str("user_id", claims.UserID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))
		c.Next()
	}
}

// RequireRole must run after ValidateToken.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}

func UserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

func Email(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

func Role(c *gin.Context) string {
	return c.GetString(ctxRole)
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/payment"
	"github.com/rs/zerolog/log"
)

// TelrWebhookAuth verifies the tran_check signature of a Telr payment advice. Verification is
// skipped in sandbox and dev mode.
func TelrWebhookAuth(secret, mode string) gin.HandlerFunc {
	mode = strings.ToLower(strings.TrimSpace(mode))
	skip := mode == "sandbox" || mode == "dev"
	if skip {
		log.Warn().Str("mode", mode).Msg("telr webhook signature verification disabled")
	}

	return func(c *gin.Context) {
		if skip {
			c.Next()
			return
		}
		if secret == "" {
			log.Ctx(c.Request.Context()).Error().Msg("telr webhook secret is not configured")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "payment webhook is not configured"})
			return
		}
		if err := c.Request.ParseForm(); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "failed to parse form for signature verification"})
			return
		}
		if c.Request.PostForm.Get("tran_check") == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "missing tran_check signature"})
			return
		}
		if !payment.VerifyWebhook(secret, c.Request.PostForm) {
			log.Ctx(c.Request.Context()).Warn().Str("cart_id", c.Request.PostForm.Get("tran_cartid")).
				Msg("telr webhook signature mismatch")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid webhook signature"})
			return
		}
		c.Next()
	}
}

package auth

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/services"
	"github.com/rs/zerolog/log"
)

func providerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidToken):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, ErrEmailTaken):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, ErrUnknownUser):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		respond.Error(c, err)
	}
}

func session(c *gin.Context, tokens *Tokens, users *services.UserService, id Identity, status int) {
	user, err := users.Sync(c.Request.Context(), id.UID, id.Email, id.Role)
	if err != nil {
		respond.Error(c, err)
		return
	}
	token, exp, err := tokens.Issue(id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	c.JSON(status, gin.H{
		"token":     token,
		"expiresAt": exp,
		"user":      user,
	})
}

// POST /auth/signup
func SignUpHandler(p Provider, tokens *Tokens, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
			Name     string `json:"name"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "email and password are required")
			return
		}
		email := strings.TrimSpace(req.Email)
		if _, err := mail.ParseAddress(email); err != nil {
			respond.BadRequest(c, "invalid email address")
			return
		}
		if len(req.Password) < 6 {
			respond.BadRequest(c, ErrWeakPassword.Error())
			return
		}

		id, err := p.SignUp(c.Request.Context(), email, req.Password, strings.TrimSpace(req.Name))
		if err != nil {
			providerError(c, err)
			return
		}
		log.Ctx(c.Request.Context()).Info().Str("user_id", id.UID).Msg("user signed up")
		session(c, tokens, users, id, http.StatusCreated)
	}
}

// POST /auth/login exchanges a provider ID token for a session token.
func LoginHandler(p Provider, tokens *Tokens, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			IDToken string `json:"idToken" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "idToken is required")
			return
		}
		id, err := p.VerifyIDToken(c.Request.Context(), req.IDToken)
		if err != nil {
			providerError(c, err)
			return
		}
		session(c, tokens, users, id, http.StatusOK)
	}
}

// POST /auth/reset
func ResetPasswordHandler(p Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email string `json:"email" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "email is required")
			return
		}
		link, err := p.PasswordResetLink(c.Request.Context(), strings.TrimSpace(req.Email))
		if err != nil && !errors.Is(err, ErrUnknownUser) {
			providerError(c, err)
			return
		}
		if link != "" {
			// Delivery is the mail provider's job; the link is only logged for operators.
			log.Ctx(c.Request.Context()).Debug().Str("email", req.Email).Msg("password reset link generated")
		}
		// Same answer either way so the endpoint cannot be used to probe for accounts.
		c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset email has been sent"})
	}
}

// POST /admin/users/:uid/role
func SetRoleHandler(p Provider, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Role string `json:"role" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "role is required")
			return
		}
		role := strings.ToLower(strings.TrimSpace(req.Role))
		if role != models.RoleAdmin && role != models.RoleUser {
			respond.BadRequest(c, "role must be admin or user")
			return
		}
		uid := c.Param("uid")
		if err := p.SetRole(c.Request.Context(), uid, role); err != nil {
			providerError(c, err)
			return
		}
		profile, err := users.Profile(c.Request.Context(), uid)
		if err == nil {
			if _, err := users.Sync(c.Request.Context(), uid, profile.Email, role); err != nil {
				respond.Error(c, err)
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"uid": uid, "role": role})
	}
}

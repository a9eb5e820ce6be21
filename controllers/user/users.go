package userControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/middleware"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/services"
)

// UpdateUserInput is a partial update; omitted fields keep their stored value.
type UpdateUserInput struct {
	Name    *string                 `json:"name"`
	Phone   *string                 `json:"phone"`
	Address *models.ShippingAddress `json:"address"`
}

// GET /user
func GetUser(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.Profile(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PUT /user
func UpdateUser(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid profile payload")
			return
		}

		uid := middleware.UserID(c)
		current, err := users.Profile(c.Request.Context(), uid)
		if err != nil {
			respond.Error(c, err)
			return
		}
		profile := services.ProfileInput{Name: current.Name, Phone: current.Phone, Address: current.Address}
		if input.Name != nil {
			profile.Name = *input.Name
		}
		if input.Phone != nil {
			profile.Phone = *input.Phone
		}
		if input.Address != nil {
			profile.Address = *input.Address
		}

		user, err := users.UpdateProfile(c.Request.Context(), uid, profile)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /admin/users
func GetAllUsers(users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := users.List(c.Request.Context(), respond.PageParams(c))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

package cartControllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/middleware"
	"github.com/junaidrashid-git/beauty-api/services"
)

// GET /user/favorites
func GetFavorites(favorites *services.FavoriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := favorites.List(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": list, "count": len(list)})
	}
}

// POST /user/favorites
func AddFavorite(favorites *services.FavoriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			ProductID string `json:"productId" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "productId is required")
			return
		}
		fav, err := favorites.Add(c.Request.Context(), middleware.UserID(c), input.ProductID)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, fav)
	}
}

// DELETE /user/favorites/:id succeeds whether or not the favorite still exists.
func RemoveFavorite(favorites *services.FavoriteService) gin.HandlerFunc {
	return func(c *gin.Context) {
		removed, err := favorites.Remove(c.Request.Context(), middleware.UserID(c), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": removed})
	}
}

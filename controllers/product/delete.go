package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/services"
)

func DeleteProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}

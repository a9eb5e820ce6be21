package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/services"
)

// UpdateProduct replaces every editable field and returns the stored product.
func UpdateProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid product payload")
			return
		}
		product, err := catalog.Update(c.Request.Context(), c.Param("id"), input)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

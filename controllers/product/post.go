package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/services"
	"github.com/rs/zerolog/log"
)

func CreateProduct(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "Invalid product payload")
			return
		}
		product, err := catalog.Create(c.Request.Context(), input)
		if err != nil {
			respond.Error(c, err)
			return
		}
		log.Ctx(c.Request.Context()).Info().Str("product_id", product.ID).Msg("product created")
		c.JSON(http.StatusCreated, product)
	}
}

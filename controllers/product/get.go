package productcontroller

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/services"
	"github.com/shopspring/decimal"
)

// GET /products?category=&search=&minPrice=&maxPrice=&sort=&page=&limit=
func GetProducts(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.ProductFilter{
			CategorySlug: c.Query("category"),
			Search:       c.Query("search"),
			Sort:         models.ProductSort(strings.ToLower(c.DefaultQuery("sort", string(models.SortNewest)))),
			Page:         respond.PageParams(c),
		}
		switch filter.Sort {
		case models.SortNewest, models.SortPriceAsc, models.SortPriceDesc, models.SortName:
		default:
			respond.BadRequest(c, "sort must be one of newest, price_asc, price_desc, name")
			return
		}

		for _, p := range []struct {
			name string
			dst  **decimal.Decimal
		}{{"minPrice", &filter.MinPrice}, {"maxPrice", &filter.MaxPrice}} {
			raw := c.Query(p.name)
			if raw == "" {
				continue
			}
			v, err := decimal.NewFromString(raw)
			if err != nil || v.IsNegative() {
				respond.BadRequest(c, "Invalid "+p.name)
				return
			}
			*p.dst = &v
		}

		result, err := catalog.List(c.Request.Context(), filter)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GET /products/:id
func GetProductByID(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := catalog.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// GET /categories
func GetCategories(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := catalog.Categories(c.Request.Context())
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

package respond

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/models"
)

// PageParams reads ?page= and ?limit=; bad or missing values fall back to the defaults.
func PageParams(c *gin.Context) models.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return models.Page{Page: page, Limit: limit}.Normalize()
}

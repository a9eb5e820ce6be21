package productcontroller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func ExportProductsToExcel(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var buf bytes.Buffer
		if err := catalog.ExportXLSX(c.Request.Context(), &buf); err != nil {
			respond.Error(c, err)
			return
		}
		filename := fmt.Sprintf("products_%s.xlsx", time.Now().Format("20060102_150405"))
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}

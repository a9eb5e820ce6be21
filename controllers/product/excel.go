package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/services"
)

// ImportProductsFromExcel takes a multipart "file" laid out like the export.
func ImportProductsFromExcel(catalog *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			respond.BadRequest(c, "Excel file is required")
			return
		}
		file, err := excelFileHeader.Open()
		if err != nil {
			respond.Error(c, err)
			return
		}
		defer file.Close()

		result, err := catalog.ImportXLSX(c.Request.Context(), file, excelFileHeader.Size)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

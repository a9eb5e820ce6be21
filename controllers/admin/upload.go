package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/uploads"
	"github.com/rs/zerolog/log"
)

// UploadImage saves the multipart "image" field and returns its public URL.
func UploadImage(store *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("image")
		if err != nil {
			respond.BadRequest(c, "No image uploaded")
			return
		}
		url, err := store.Save(fileHeader)
		if err != nil {
			respond.Error(c, err)
			return
		}
		log.Ctx(c.Request.Context()).Info().Str("url", url).Msg("image uploaded")
		c.JSON(http.StatusCreated, gin.H{"message": "Image uploaded", "url": url})
	}
}

// DELETE /admin/uploads/:name
func DeleteImage(store *uploads.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Remove(c.Param("name")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Image deleted"})
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/auth"
	productcontroller "github.com/junaidrashid-git/beauty-api/controllers/product"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, d Deps) {
	if d.Provider == nil {
		return
	}
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/signup", auth.SignUpHandler(d.Provider, d.Tokens, d.Users))
		authGroup.POST("/login", auth.LoginHandler(d.Provider, d.Tokens, d.Users))
		authGroup.POST("/reset", auth.ResetPasswordHandler(d.Provider))
	}
}

// SetupCatalogRoutes registers the public product browsing endpoints.
func SetupCatalogRoutes(r *gin.Engine, d Deps) {
	r.GET("/products", productcontroller.GetProducts(d.Catalog))
	r.GET("/products/:id", productcontroller.GetProductByID(d.Catalog))
	r.GET("/categories", productcontroller.GetCategories(d.Catalog))
}

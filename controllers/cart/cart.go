package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/beauty-api/controllers/respond"
	"github.com/junaidrashid-git/beauty-api/middleware"
	"github.com/junaidrashid-git/beauty-api/models"
	"github.com/junaidrashid-git/beauty-api/services"
)

type CartItemInput struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// QuantityInput carries either a relative change (+1/-1 controls) or an absolute quantity.
type QuantityInput struct {
	Delta    *int `json:"delta"`
	Quantity *int `json:"quantity"`
}

type cartResponse struct {
	models.Cart
	Total string `json:"total"`
	Count int    `json:"count"`
}

func render(cart models.Cart) cartResponse {
	return cartResponse{Cart: cart, Total: cart.Total().StringFixed(2), Count: cart.Count()}
}

// GET /user/cart
func GetUserCart(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Cart(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, render(cart))
	}
}

// POST /user/cart adds a product or merges into its existing line.
func AddCartItem(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.BadRequest(c, "productId is required")
			return
		}
		if input.Quantity < 0 {
			respond.BadRequest(c, "quantity must be at least 1")
			return
		}
		item, err := carts.AddItem(c.Request.Context(), middleware.UserID(c), input.ProductID, input.Quantity)
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// PATCH /user/cart/:itemId
func UpdateCartItem(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input QuantityInput
		if err := c.ShouldBindJSON(&input); err != nil || (input.Delta == nil) == (input.Quantity == nil) {
			respond.BadRequest(c, "exactly one of delta or quantity is required")
			return
		}

		uid, itemID := middleware.UserID(c), c.Param("itemId")
		var (
			item *models.CartItem
			err  error
		)
		if input.Delta != nil {
			item, err = carts.UpdateQuantity(c.Request.Context(), uid, itemID, *input.Delta)
		} else {
			item, err = carts.SetQuantity(c.Request.Context(), uid, itemID, *input.Quantity)
		}
		if errors.Is(err, services.ErrBelowMinimum) {
			c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "item": item})
			return
		}
		if err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

// DELETE /user/cart/:itemId
func RemoveCartItem(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.RemoveItem(c.Request.Context(), middleware.UserID(c), c.Param("itemId")); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /user/cart
func ClearCart(carts *services.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
			respond.Error(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}

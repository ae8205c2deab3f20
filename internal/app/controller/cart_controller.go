package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/pkg/response"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart returns the user's cart with its subtotal
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	cart, err := ctrl.cartService.GetUserCart(userID)
	if err != nil {
		respondError(c, err, "cart")
		return
	}

	response.OK(c, cart)
}

// AddToCart adds a product, merging with an existing line
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req model.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	if err := ctrl.cartService.AddToCart(userID, req.ProductID, req.Quantity); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Add to cart rejected", map[string]interface{}{
			"user_id":    userID,
			"product_id": req.ProductID,
			"error":      err.Error(),
		})
		respondError(c, err, "update cart")
		return
	}

	ctrl.GetCart(c)
}

// UpdateCartItem sets the quantity of one line
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	if err := ctrl.cartService.UpdateCartItem(userID, itemID, req.Quantity); err != nil {
		respondError(c, err, "update cart")
		return
	}

	ctrl.GetCart(c)
}

// RemoveFromCart deletes one line
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveFromCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, itemID); err != nil {
		respondError(c, err, "delete cart item")
		return
	}

	ctrl.GetCart(c)
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		respondError(c, err, "delete cart")
		return
	}

	response.Message(c, "Cart cleared")
}

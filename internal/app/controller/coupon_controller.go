package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/pkg/response"
)

type CouponController struct {
	couponService service.CouponService
}

func NewCouponController(couponService service.CouponService) *CouponController {
	return &CouponController{couponService: couponService}
}

type setCouponActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// Validate quotes the discount a code gives on a subtotal
// POST /api/v1/coupons/validate
func (ctrl *CouponController) Validate(c *gin.Context) {
	var req model.ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	quote, err := ctrl.couponService.Validate(req.Code, req.Subtotal)
	if err != nil {
		respondError(c, err, "coupon")
		return
	}

	response.OK(c, quote)
}

// GET /api/v1/admin/coupons
func (ctrl *CouponController) List(c *gin.Context) {
	coupons, err := ctrl.couponService.List()
	if err != nil {
		respondError(c, err, "list coupons")
		return
	}
	response.OK(c, coupons)
}

// POST /api/v1/admin/coupons
func (ctrl *CouponController) Create(c *gin.Context) {
	var req model.CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	coupon, err := ctrl.couponService.Create(req)
	if err != nil {
		respondError(c, err, "create coupon")
		return
	}
	response.Created(c, coupon)
}

// PATCH /api/v1/admin/coupons/:id
func (ctrl *CouponController) SetActive(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req setCouponActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	coupon, err := ctrl.couponService.SetActive(id, *req.IsActive)
	if err != nil {
		respondError(c, err, "update coupon")
		return
	}
	response.OK(c, coupon)
}

// DELETE /api/v1/admin/coupons/:id
func (ctrl *CouponController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.couponService.Delete(id); err != nil {
		respondError(c, err, "delete coupon")
		return
	}
	response.Message(c, "Coupon deleted")
}

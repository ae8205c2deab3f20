package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/model"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/pkg/response"
)

// ReviewController serves product reviews and the moderation queue for
// reviews and blog comments
type ReviewController struct {
	productService service.ProductService
	reviewService  service.ReviewService
	commentService service.CommentService
}

func NewReviewController(
	productService service.ProductService,
	reviewService service.ReviewService,
	commentService service.CommentService,
) *ReviewController {
	return &ReviewController{
		productService: productService,
		reviewService:  reviewService,
		commentService: commentService,
	}
}

// optionalUintQuery parses an optional numeric filter, answering 400 itself
func optionalUintQuery(c *gin.Context, key string) (*uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+key)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// ListProductReviews returns approved reviews with the rating summary
// GET /api/v1/products/:slug/reviews
func (ctrl *ReviewController) ListProductReviews(c *gin.Context) {
	product, err := ctrl.productService.GetProduct(c.Param("slug"), false)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	p := pagination(c)
	result, total, err := ctrl.reviewService.ListProductReviews(product.ID, p.Page, p.Limit)
	if err != nil {
		respondError(c, err, "list reviews")
		return
	}

	c.JSON(http.StatusOK, response.Body{
		Success: true,
		Data:    result,
		Meta:    response.NewMeta(p, total),
	})
}

// SubmitProductReview stores a review awaiting moderation
// POST /api/v1/products/:slug/reviews
func (ctrl *ReviewController) SubmitProductReview(c *gin.Context) {
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	product, err := ctrl.productService.GetProduct(c.Param("slug"), false)
	if err != nil {
		respondError(c, err, "product")
		return
	}

	review, err := ctrl.reviewService.SubmitProductReview(product.ID, currentUserID(c), req)
	if err != nil {
		respondError(c, err, "create review")
		return
	}

	middleware.GetLoggerFromContext(c).Info("Review submitted", map[string]interface{}{
		"review_id":  review.ID,
		"product_id": product.ID,
		"rating":     review.Rating,
	})

	response.Created(c, review)
}

// ListReviews is the moderation queue
// GET /api/v1/admin/reviews
func (ctrl *ReviewController) ListReviews(c *gin.Context) {
	productID, ok := optionalUintQuery(c, "product_id")
	if !ok {
		return
	}
	blogID, ok := optionalUintQuery(c, "blog_id")
	if !ok {
		return
	}

	p := pagination(c)
	reviews, total, err := ctrl.reviewService.List(model.ReviewFilter{
		ProductID: productID,
		BlogID:    blogID,
		Status:    model.ModerationStatus(c.Query("status")),
		Page:      p.Page,
		Limit:     p.Limit,
	})
	if err != nil {
		respondError(c, err, "list reviews")
		return
	}

	response.Paginated(c, reviews, p, total)
}

// ModerateReview approves or rejects a review
// PUT /api/v1/admin/reviews/:id/status
func (ctrl *ReviewController) ModerateReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	review, err := ctrl.reviewService.Moderate(id, req.Status)
	if err != nil {
		respondError(c, err, "update review")
		return
	}

	response.OK(c, review)
}

// DELETE /api/v1/admin/reviews/:id
func (ctrl *ReviewController) DeleteReview(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.reviewService.Delete(id); err != nil {
		respondError(c, err, "delete review")
		return
	}

	response.Message(c, "Review deleted")
}

// GET /api/v1/admin/comments
func (ctrl *ReviewController) ListComments(c *gin.Context) {
	blogID, ok := optionalUintQuery(c, "blog_id")
	if !ok {
		return
	}

	p := pagination(c)
	comments, total, err := ctrl.commentService.List(model.CommentFilter{
		BlogID: blogID,
		Status: model.ModerationStatus(c.Query("status")),
		Page:   p.Page,
		Limit:  p.Limit,
	})
	if err != nil {
		respondError(c, err, "list comments")
		return
	}

	response.Paginated(c, comments, p, total)
}

// PUT /api/v1/admin/comments/:id/status
func (ctrl *ReviewController) ModerateComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req model.UpdateModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithBindingError(c, err)
		return
	}

	comment, err := ctrl.commentService.Moderate(id, req.Status)
	if err != nil {
		respondError(c, err, "update comment")
		return
	}

	response.OK(c, comment)
}

// DELETE /api/v1/admin/comments/:id
func (ctrl *ReviewController) DeleteComment(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.commentService.Delete(id); err != nil {
		respondError(c, err, "delete comment")
		return
	}

	response.Message(c, "Comment deleted")
}

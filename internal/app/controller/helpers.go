package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/noirparfum/noir-backend/internal/app/service"
	apperrors "github.com/noirparfum/noir-backend/internal/errors"
	"github.com/noirparfum/noir-backend/internal/middleware"
	"github.com/noirparfum/noir-backend/internal/storage"
	"github.com/noirparfum/noir-backend/pkg/util"
	"gorm.io/gorm"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// serviceErrors maps domain sentinels to responses; the first match wins.
// An empty message means the error text itself is shown.
var serviceErrors = []errorMapping{
	{service.ErrEmailAlreadyExists, http.StatusConflict, apperrors.AuthEmailAlreadyExists, "This email is already registered"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Invalid email or password"},
	{service.ErrInvalidToken, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Invalid or expired token"},
	{service.ErrTokenRevoked, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "This session has been signed out"},
	{util.ErrWeakPassword, http.StatusBadRequest, apperrors.AuthWeakPassword, ""},
	{service.ErrUserNotFound, http.StatusNotFound, apperrors.UserNotFound, "User not found"},
	{service.ErrCannotModifySelf, http.StatusBadRequest, apperrors.ValidationInvalidInput, ""},
	{service.ErrInvalidResetToken, http.StatusBadRequest, apperrors.AuthResetTokenInvalid, "Invalid or expired reset link"},
	{service.ErrResetTokenExpired, http.StatusBadRequest, apperrors.AuthResetTokenInvalid, "This reset link has expired"},
	{service.ErrResetTokenUsed, http.StatusBadRequest, apperrors.AuthResetTokenInvalid, "This reset link has already been used"},

	{service.ErrProductNotFound, http.StatusNotFound, apperrors.ProductNotFound, "Product not found"},
	{service.ErrInsufficientStock, http.StatusBadRequest, apperrors.ProductOutOfStock, ""},
	{service.ErrProductUnavailable, http.StatusBadRequest, apperrors.ProductUnavailable, "This product is not available"},
	{service.ErrInvalidPrice, http.StatusBadRequest, apperrors.ValidationInvalidRange, ""},
	{service.ErrInvalidStock, http.StatusBadRequest, apperrors.ValidationInvalidRange, ""},
	{service.ErrCategoryNotFound, http.StatusNotFound, apperrors.CategoryNotFound, "Category not found"},
	{service.ErrInvalidParent, http.StatusBadRequest, apperrors.CategoryInvalidParent, ""},
	{service.ErrCategoryHasChildren, http.StatusConflict, apperrors.CategoryInUse, ""},
	{service.ErrCategoryInUse, http.StatusConflict, apperrors.CategoryInUse, ""},

	{service.ErrCartItemNotFound, http.StatusNotFound, apperrors.CartItemNotFound, "Cart item not found"},
	{service.ErrWishlistItemNotFound, http.StatusNotFound, apperrors.WishlistItemNotFound, "Wishlist item not found"},

	{service.ErrOrderNotFound, http.StatusNotFound, apperrors.OrderNotFound, "Order not found"},
	{service.ErrInvalidTransition, http.StatusBadRequest, apperrors.OrderInvalidTransition, ""},
	{service.ErrGuestCheckoutDisabled, http.StatusForbidden, apperrors.OrderGuestDisabled, "Please sign in to place an order"},
	{service.ErrEmptyOrder, http.StatusBadRequest, apperrors.ValidationRequired, ""},

	{service.ErrCouponNotFound, http.StatusNotFound, apperrors.CouponNotFound, "Coupon not found"},
	{service.ErrCouponInvalid, http.StatusBadRequest, apperrors.CouponInvalid, ""},
	{service.ErrCouponExpired, http.StatusBadRequest, apperrors.CouponInvalid, ""},
	{service.ErrCouponExhausted, http.StatusBadRequest, apperrors.CouponInvalid, ""},
	{service.ErrCouponMinimumSpend, http.StatusBadRequest, apperrors.CouponInvalid, ""},
	{service.ErrInvalidCouponValue, http.StatusBadRequest, apperrors.ValidationInvalidRange, ""},

	{service.ErrBlogNotFound, http.StatusNotFound, apperrors.BlogNotFound, "Blog post not found"},
	{service.ErrReviewNotFound, http.StatusNotFound, apperrors.ReviewNotFound, "Review not found"},
	{service.ErrReviewsDisabled, http.StatusForbidden, apperrors.ReviewsDisabled, "Reviews are currently disabled"},
	{service.ErrInvalidRating, http.StatusBadRequest, apperrors.ReviewInvalidRating, "Rating must be between 1 and 5"},
	{service.ErrInvalidStatus, http.StatusBadRequest, apperrors.ValidationInvalidInput, ""},
	{service.ErrCommentNotFound, http.StatusNotFound, apperrors.CommentNotFound, "Comment not found"},
	{service.ErrCommentsDisabled, http.StatusForbidden, apperrors.CommentsDisabled, "Comments are currently disabled"},
	{service.ErrInvalidReply, http.StatusBadRequest, apperrors.ValidationInvalidInput, ""},
	{service.ErrContactNotFound, http.StatusNotFound, apperrors.ContactNotFound, "Message not found"},
	{service.ErrQuestionNotFound, http.StatusNotFound, apperrors.QuestionNotFound, "Question not found"},
	{service.ErrPageNotFound, http.StatusNotFound, apperrors.PageNotFound, "Page not found"},
	{service.ErrInvalidSettings, http.StatusBadRequest, apperrors.ValidationInvalidRange, ""},

	{service.ErrMissingColumns, http.StatusBadRequest, apperrors.ImportMissingColumns, ""},
	{service.ErrUnsupportedImportType, http.StatusBadRequest, apperrors.ImportInvalidFile, ""},
	{service.ErrUnsupportedFileType, http.StatusBadRequest, apperrors.ImportInvalidFile, ""},
	{service.ErrEmptyImport, http.StatusBadRequest, apperrors.ImportInvalidFile, ""},

	{storage.ErrUnsupportedType, http.StatusBadRequest, apperrors.UploadInvalidFileType, ""},
	{storage.ErrFileTooLarge, http.StatusBadRequest, apperrors.UploadFileTooLarge, ""},
}

// respondError writes the response for a service error. Unknown errors go
// through the storage-error parser and are logged.
func respondError(c *gin.Context, err error, context string) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			apperrors.RespondWithError(c, m.status, m.code, msg)
			return
		}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		apperrors.ParseAndRespond(c, http.StatusNotFound, err, context)
	case apperrors.IsDuplicateKey(err):
		apperrors.ParseAndRespond(c, http.StatusConflict, err, context)
	default:
		middleware.GetLoggerFromContext(c).Error("Request failed", err, map[string]interface{}{
			"action": context,
		})
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// parseID reads a numeric path parameter, answering 400 itself on failure
func parseID(c *gin.Context, param string) (uint, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+param)
		return 0, false
	}
	return uint(id), true
}

func pagination(c *gin.Context) util.Pagination {
	return util.ParsePagination(c.Query("page"), c.Query("limit"))
}

// currentUserID is the authenticated user, or nil for guests
func currentUserID(c *gin.Context) *uint {
	if id, ok := middleware.GetUserID(c); ok {
		return &id
	}
	return nil
}

// requireUserID is for routes behind Authenticate
func requireUserID(c *gin.Context) (uint, bool) {
	id, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "")
	}
	return id, ok
}

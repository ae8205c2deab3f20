package errors

// Error codes returned in the "error" field; clients map these to copy.
// Format: CATEGORY_SPECIFIC_DETAIL

const (
	// auth
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthEmailAlreadyExists = "AUTH_EMAIL_EXISTS"
	AuthWeakPassword       = "AUTH_WEAK_PASSWORD"
	AuthResetTokenInvalid  = "AUTH_RESET_TOKEN_INVALID"

	// authorization
	AuthzForbidden = "AUTHZ_FORBIDDEN"
	AuthzAdminOnly = "AUTHZ_ADMIN_ONLY"

	// validation
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// generic resources
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// catalog
	ProductNotFound       = "PRODUCT_NOT_FOUND"
	ProductUnavailable    = "PRODUCT_UNAVAILABLE"
	ProductOutOfStock     = "PRODUCT_OUT_OF_STOCK"
	CategoryNotFound      = "CATEGORY_NOT_FOUND"
	CategoryInvalidParent = "CATEGORY_INVALID_PARENT"
	CategoryInUse         = "CATEGORY_IN_USE"

	// cart / wishlist
	CartItemNotFound     = "CART_ITEM_NOT_FOUND"
	WishlistItemNotFound = "WISHLIST_ITEM_NOT_FOUND"

	// orders
	OrderNotFound          = "ORDER_NOT_FOUND"
	OrderInvalidTransition = "ORDER_INVALID_TRANSITION"
	OrderGuestDisabled     = "ORDER_GUEST_CHECKOUT_DISABLED"

	// coupons
	CouponNotFound = "COUPON_NOT_FOUND"
	CouponInvalid  = "COUPON_INVALID"

	// content
	BlogNotFound         = "BLOG_NOT_FOUND"
	ReviewNotFound       = "REVIEW_NOT_FOUND"
	ReviewInvalidRating  = "REVIEW_INVALID_RATING"
	ReviewsDisabled      = "REVIEWS_DISABLED"
	CommentNotFound      = "COMMENT_NOT_FOUND"
	CommentsDisabled     = "COMMENTS_DISABLED"
	ContactNotFound      = "CONTACT_MESSAGE_NOT_FOUND"
	QuestionNotFound     = "QUESTION_NOT_FOUND"
	PageNotFound         = "PAGE_NOT_FOUND"
	UserNotFound         = "USER_NOT_FOUND"
	ImportInvalidFile    = "IMPORT_INVALID_FILE"
	ImportMissingColumns = "IMPORT_MISSING_COLUMNS"

	// upload
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"

	// throttling
	RateLimitExceeded = "RATE_LIMIT_EXCEEDED"

	// internal
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
	InternalConfigError   = "INTERNAL_CONFIG_ERROR"
)

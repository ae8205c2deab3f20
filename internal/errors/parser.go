package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrorInfo is a client-safe classification of an error
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError turns a storage or network error into a code and a message safe to show.
// context names the resource or action, e.g. "product", "create order".
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "Something went wrong"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Code: ResourceNotFound, Message: notFoundMessage(context)}
	}

	if IsDuplicateKey(err) {
		return parseDuplicateKeyError(strings.ToLower(err.Error()))
	}

	lower := strings.ToLower(err.Error())

	if errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(lower, "foreign key constraint") {
		if strings.Contains(lower, "still referenced") || strings.Contains(strings.ToLower(context), "delete") {
			return ErrorInfo{Code: ResourceConflict, Message: "The record is still referenced and cannot be deleted"}
		}
		return ErrorInfo{Code: ResourceNotFound, Message: "A referenced record does not exist"}
	}

	// postgres: violates not-null constraint, sqlite: NOT NULL constraint failed
	if strings.Contains(lower, "not-null constraint") || strings.Contains(lower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "A required field is missing"}
	}

	if errors.Is(err, gorm.ErrCheckConstraintViolated) || strings.Contains(lower, "check constraint") {
		if strings.Contains(lower, "rating") {
			return ErrorInfo{Code: ReviewInvalidRating, Message: "Rating must be between 1 and 5"}
		}
		return ErrorInfo{Code: ValidationInvalidInput, Message: "A value is out of range"}
	}

	if strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "timeout") {
		return ErrorInfo{Code: InternalExternalAPI, Message: "An upstream service is unavailable, please retry shortly"}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

// IsDuplicateKey reports a unique constraint violation on postgres or sqlite
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint")
}

func parseDuplicateKeyError(lower string) ErrorInfo {
	switch {
	case strings.Contains(lower, "email"):
		return ErrorInfo{Code: AuthEmailAlreadyExists, Message: "This email is already registered"}
	case strings.Contains(lower, "slug"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This slug is already in use"}
	case strings.Contains(lower, "code"):
		return ErrorInfo{Code: ResourceAlreadyExists, Message: "This code is already in use"}
	case strings.Contains(lower, "order_number"):
		return ErrorInfo{Code: ResourceConflict, Message: "Order number collision, please retry"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "The record already exists"}
}

func notFoundMessage(context string) string {
	c := strings.ToLower(context)
	for _, resource := range []string{"product", "category", "order", "coupon", "blog", "review", "comment", "question", "page", "user"} {
		if strings.Contains(c, resource) {
			return strings.ToUpper(resource[:1]) + resource[1:] + " not found"
		}
	}
	if strings.Contains(c, "contact") {
		return "Message not found"
	}
	return "The requested record was not found"
}

func defaultMessage(context string) string {
	c := strings.ToLower(context)
	switch {
	case strings.Contains(c, "create"):
		return "Could not create the record, please retry shortly"
	case strings.Contains(c, "update"):
		return "Could not update the record, please retry shortly"
	case strings.Contains(c, "delete"):
		return "Could not delete the record, please retry shortly"
	}
	return "Something went wrong, please retry shortly"
}

// ParseAndRespond classifies err and writes it with the given status
func ParseAndRespond(c *gin.Context, statusCode int, err error, context string) {
	info := ParseError(err, context)
	write(c, statusCode, info.Code, info.Message, err)
}

package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var debug atomic.Bool

// SetDebug makes error responses carry the raw error in "details"
func SetDebug(enabled bool) {
	debug.Store(enabled)
}

type responder interface {
	JSON(code int, obj interface{})
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool              `json:"success"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func write(c responder, statusCode int, errorCode, message string, err error) {
	resp := ErrorResponse{Error: errorCode, Message: message}
	if err != nil && debug.Load() {
		resp.Details = err.Error()
	}
	c.JSON(statusCode, resp)
}

func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	write(c, statusCode, errorCode, message, nil)
}

// RespondWithCause is RespondWithError plus the underlying error in development
func RespondWithCause(c *gin.Context, statusCode int, errorCode, message string, err error) {
	write(c, statusCode, errorCode, message, err)
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "You do not have access to this resource"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func TooManyRequests(c *gin.Context) {
	RespondWithError(c, http.StatusTooManyRequests, RateLimitExceeded, "Too many requests, please slow down")
}

func InternalError(c *gin.Context, err error) {
	write(c, http.StatusInternalServerError, InternalServerError, "Something went wrong, please retry shortly", err)
}

func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   ValidationInvalidInput,
		Message: "Some fields are invalid",
		Fields:  fields,
	})
}

// RespondWithBindingError turns a ShouldBind* failure into a 400 with per-field messages
func RespondWithBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldPath(fe)] = fieldMessage(fe)
		}
		RespondWithValidationError(c, fields)
		return
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		write(c, http.StatusBadRequest, ValidationInvalidInput, "Malformed JSON body", err)
	case errors.As(err, &typeErr):
		RespondWithValidationError(c, map[string]string{
			typeErr.Field: fmt.Sprintf("must be a %s", typeErr.Type.Kind()),
		})
	default:
		write(c, http.StatusBadRequest, ValidationInvalidInput, "Invalid request", err)
	}
}

// fieldPath drops the top-level struct name: "CreateOrderRequest.items[0].quantity" -> "items[0].quantity"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at most %s items", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "alphanum":
		return "must contain only letters and digits"
	case "uppercase":
		return "must be upper case"
	}
	return fmt.Sprintf("failed the %s check", fe.Tag())
}

// RegisterJSONFieldNames makes validation errors report json tag names instead of Go field names
func RegisterJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		for _, tagName := range []string{"json", "form"} {
			name := strings.SplitN(field.Tag.Get(tagName), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return field.Name
	})
}

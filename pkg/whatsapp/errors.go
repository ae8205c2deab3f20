package whatsapp

import "errors"

var (
	// ErrNotConfigured is returned when credentials are missing
	ErrNotConfigured = errors.New("whatsapp messaging is not configured")

	// ErrInvalidRecipient is returned when the phone number cannot be normalized
	ErrInvalidRecipient = errors.New("invalid recipient phone number")

	// ErrUnauthorized is returned when the access token is rejected
	ErrUnauthorized = errors.New("unauthorized: invalid access token")

	// ErrInvalidRequest is returned when the API rejects the payload
	ErrInvalidRequest = errors.New("invalid message request")

	// ErrNetworkError is returned when there's a network communication error
	ErrNetworkError = errors.New("network error")

	// ErrSendFailed is returned for any other API failure
	ErrSendFailed = errors.New("message send failed")
)

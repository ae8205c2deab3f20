package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode"
)

// Sender delivers templated text messages to customers
type Sender interface {
	SendText(ctx context.Context, to, body string) (string, error)
}

// Client represents a WhatsApp Cloud API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}, nil
}

// SendText sends a plain text message and returns the provider message id
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	recipient, err := NormalizePhone(to)
	if err != nil {
		return "", err
	}

	req := TextMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               recipient,
		Type:             "text",
		Text:             TextBody{Body: body, PreviewURL: strings.Contains(body, "http")},
	}

	resp, err := c.doRequest(ctx, "messages", req)
	if err != nil {
		return "", fmt.Errorf("failed to send text message: %w", err)
	}

	var sendResp SendResponse
	if err := json.Unmarshal(resp, &sendResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal send response: %w", err)
	}

	return sendResp.MessageID(), nil
}

// NormalizePhone strips formatting and returns digits in international form
func NormalizePhone(phone string) (string, error) {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimPrefix(b.String(), "00")
	if len(digits) < 8 || len(digits) > 15 {
		return "", ErrInvalidRecipient
	}
	return digits, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", strings.TrimRight(c.config.BaseURL, "/"), c.config.PhoneNumberID, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 300 {
		var errResp ErrorResponse
		msg := string(body)
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			msg = fmt.Sprintf("code %d: %s", errResp.Error.Code, errResp.Error.Message)
		}

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
		default:
			return nil, fmt.Errorf("%w: status %d: %s", ErrSendFailed, resp.StatusCode, msg)
		}
	}

	return body, nil
}

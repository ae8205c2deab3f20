package whatsapp

// Config represents the configuration for the messaging API client
type Config struct {
	// BaseURL is the Graph API base URL including the version segment
	BaseURL string

	// PhoneNumberID is the sender phone number registered with the API
	PhoneNumberID string

	// AccessToken is the bearer token for API authentication
	AccessToken string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.BaseURL == "" || c.PhoneNumberID == "" || c.AccessToken == "" {
		return ErrNotConfigured
	}
	return nil
}

package cloudflare

import (
	"errors"
	"os"
)

// Environment variables used to authenticate API calls.
const (
	EnvAPIToken = "CLOUDFLARE_API_TOKEN"
	EnvAPIKey   = "CLOUDFLARE_API_KEY"
	EnvEmail    = "CLOUDFLARE_EMAIL"
	EnvBaseURL  = "CLOUDFLARE_BASE_URL"
)

// ErrNoCredentials is returned when neither an API token nor a
// key+email pair is configured in the environment.
var ErrNoCredentials = errors.New("no credentials configured: set " + EnvAPIToken + " or (" + EnvAPIKey + " + " + EnvEmail + ")")

// Credentials holds Cloudflare API credentials.
// A Token takes precedence over the legacy Key+Email pair.
type Credentials struct {
	Token string
	Key   string
	Email string
}

// CredentialsFromEnv reads credentials from the environment.
func CredentialsFromEnv() Credentials {
	return Credentials{
		Token: os.Getenv(EnvAPIToken),
		Key:   os.Getenv(EnvAPIKey),
		Email: os.Getenv(EnvEmail),
	}
}

// Configured reports whether any usable credential set is present.
func (c Credentials) Configured() bool {
	return c.Token != "" || (c.Key != "" && c.Email != "")
}

// Headers returns the authentication headers for API requests.
// Returns nil when no credentials are configured.
func (c Credentials) Headers() map[string]string {
	if c.Token != "" {
		return map[string]string{"Authorization": "Bearer " + c.Token}
	}
	if c.Key != "" && c.Email != "" {
		return map[string]string{
			"X-Auth-Key":   c.Key,
			"X-Auth-Email": c.Email,
		}
	}
	return nil
}

// Describe returns a user-facing description of the credential mode.
func (c Credentials) Describe() string {
	switch {
	case c.Token != "":
		return "Using API Token authentication"
	case c.Key != "" && c.Email != "":
		return "Using API Key + Email authentication"
	default:
		return "No authentication configured"
	}
}

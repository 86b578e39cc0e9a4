// Package cloudflare issues authenticated calls against the Cloudflare
// v4 REST API and models its response envelope.
//
// Credentials come from the environment (CLOUDFLARE_API_TOKEN, or the
// legacy CLOUDFLARE_API_KEY + CLOUDFLARE_EMAIL pair). Responses are
// surfaced as the provider's JSON envelope without retries; transport
// failures and non-JSON error bodies are wrapped into a synthetic
// envelope so callers always have one shape to print.
package cloudflare

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// DefaultTimeout bounds a single API call.
const DefaultTimeout = 30 * time.Second

// maxErrorBody limits how much of a non-JSON error body is echoed back.
const maxErrorBody = 500

// Methods supported by the api command.
var Methods = []string{
	http.MethodGet,
	http.MethodPost,
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
}

// ValidMethod reports whether m (case-insensitive) is a supported HTTP method.
func ValidMethod(m string) bool {
	upper := strings.ToUpper(m)
	for _, method := range Methods {
		if method == upper {
			return true
		}
	}
	return false
}

// Client makes authenticated requests against the Cloudflare API.
type Client struct {
	http    *http.Client
	baseURL string
	creds   Credentials
	logger  *charmlog.Logger
}

// NewClient creates an API client. The baseURL should not end with a
// slash. Pass nil for logger to use the default logger.
func NewClient(baseURL string, creds Credentials, timeout time.Duration, logger *charmlog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = charmlog.Default()
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimSuffix(baseURL, "/"),
		creds:   creds,
		logger:  logger,
	}
}

// Do sends an API request and returns the provider's response envelope.
//
// The path is joined to the base URL; absolute http(s) URLs are used
// verbatim. Body may be nil for requests without a payload.
//
// Transport failures and non-JSON error bodies yield a synthetic
// failure envelope rather than an error, so that the caller can print
// one envelope shape regardless of what went wrong. The only error
// returns are missing credentials and request construction failures.
func (c *Client) Do(ctx context.Context, method, path string, body []byte) (*Envelope, error) {
	if !c.creds.Configured() {
		return nil, ErrNoCredentials
	}

	url := c.resolveURL(path)

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), url, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range c.creds.Headers() {
		req.Header.Set(k, v)
	}

	requestID := uuid.NewString()
	c.logger.Debug("api request", "id", requestID, "method", req.Method, "url", url)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "id", requestID, "err", err)
		return errorEnvelope(0, fmt.Sprintf("Connection error: %v", err)), nil
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorEnvelope(0, fmt.Sprintf("Read error: %v", err)), nil
	}
	c.logger.Debug("api response", "id", requestID, "status", resp.StatusCode, "bytes", len(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return successEnvelope(), nil
	}

	if env, ok := parseEnvelope(raw); ok {
		return env, nil
	}

	snippet := string(raw)
	if len(snippet) > maxErrorBody {
		snippet = snippet[:maxErrorBody]
	}
	return errorEnvelope(resp.StatusCode, fmt.Sprintf("%s: %s", http.StatusText(resp.StatusCode), snippet)), nil
}

// Verify checks the configured credentials against the token
// verification endpoint.
func (c *Client) Verify(ctx context.Context) (*Envelope, error) {
	return c.Do(ctx, http.MethodGet, "/user/tokens/verify", nil)
}

func (c *Client) resolveURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

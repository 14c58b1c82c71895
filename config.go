package authclient

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/giantswarm/authclient/instrumentation"
)

// ValueFunc resolves the current value of a configuration setting.
// It is called on every request, so implementations may return rotated
// secrets or environment dependent endpoints without rebuilding the Client.
// Implementations must be safe for concurrent use.
type ValueFunc func() string

// Static returns a ValueFunc that always resolves to v
func Static(v string) ValueFunc {
	return func() string { return v }
}

// Config holds the auth client configuration
type Config struct {
	// BaseURL resolves the authorization server base URL (e.g., https://auth.example.com).
	// Endpoint paths are appended verbatim, so it should not end with a slash.
	BaseURL ValueFunc

	// ClientID resolves the client identifier used for HTTP Basic authentication
	ClientID ValueFunc

	// ClientSecret resolves the client secret used for HTTP Basic authentication
	ClientSecret ValueFunc

	// HTTPClient is the transport used for all requests.
	// If not provided, a client without timeout is used; timeouts, proxies and
	// connection pooling are configured here by the caller.
	HTTPClient *http.Client

	// Logger for structured logging (optional, uses slog.Default() if not provided)
	Logger *slog.Logger

	// Instrumentation provides tracing and metrics (optional, no-op if not provided)
	Instrumentation *instrumentation.Instrumentation
}

// validate checks that all required resolvers are present.
// Resolvers are never invoked here.
func (c *Config) validate() error {
	if c.BaseURL == nil {
		return fmt.Errorf("base URL: %w", ErrMissingResolver)
	}
	if c.ClientID == nil {
		return fmt.Errorf("client ID: %w", ErrMissingResolver)
	}
	if c.ClientSecret == nil {
		return fmt.Errorf("client secret: %w", ErrMissingResolver)
	}
	return nil
}

// applyDefaults fills in optional fields
func (c *Config) applyDefaults() {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Instrumentation == nil {
		c.Instrumentation = instrumentation.NewDisabled()
	}
}
